//go:build !windows

package overlaywindow

// cursorPosition is unavailable here; the window stays click-through and the panel is
// display only.
func cursorPosition() (float64, float64, bool) {
	return 0, 0, false
}
