/**
 * Screen enumerator - cross-platform display list via kbinani/screenshot
 */

package desktopmonitor

import (
	"context"
	"fmt"
	"image"

	"github.com/kbinani/screenshot"
)

// ScreenEnumerator lists displays through the screenshot library and asks the platform
// for each display's work area and primary flag where it can.
type ScreenEnumerator struct {
	count  func() int
	bounds func(int) image.Rectangle
	info   func(image.Rectangle) (work image.Rectangle, primary bool, ok bool)
}

// NewScreenEnumerator creates the default enumerator
func NewScreenEnumerator() *ScreenEnumerator {
	return &ScreenEnumerator{
		count:  screenshot.NumActiveDisplays,
		bounds: screenshot.GetDisplayBounds,
		info:   platformMonitorInfo,
	}
}

// Enumerate builds a snapshot of the active displays.
func (se *ScreenEnumerator) Enumerate(ctx context.Context) (Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	n := se.count()
	if n <= 0 {
		return nil, ErrNoDisplays
	}

	snapshot := make(Snapshot, 0, n)
	for i := 0; i < n; i++ {
		bounds := se.bounds(i)
		m := Monitor{
			Name:     fmt.Sprintf("DISPLAY%d", i+1),
			Bounds:   bounds,
			WorkArea: bounds,
			// the display anchored at the origin is primary on Windows and X11
			Primary: bounds.Min == image.Point{},
		}
		if work, primary, ok := se.info(bounds); ok {
			m.WorkArea = work
			m.Primary = primary
		}
		snapshot = append(snapshot, m)
	}
	return snapshot, nil
}
