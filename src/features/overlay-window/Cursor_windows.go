//go:build windows

package overlaywindow

import "github.com/lxn/win"

// cursorPosition returns the cursor in physical screen pixels.
func cursorPosition() (float64, float64, bool) {
	var pt win.POINT
	if !win.GetCursorPos(&pt) {
		return 0, 0, false
	}
	return float64(pt.X), float64(pt.Y), true
}
