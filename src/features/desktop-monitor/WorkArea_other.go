//go:build !windows

package desktopmonitor

import "image"

// platformMonitorInfo has no work-area source outside Windows; callers keep the bounds.
func platformMonitorInfo(image.Rectangle) (image.Rectangle, bool, bool) {
	return image.Rectangle{}, false, false
}
