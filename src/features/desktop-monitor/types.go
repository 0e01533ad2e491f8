/**
 * Desktop monitor type definitions
 */

package desktopmonitor

import (
	"context"
	"errors"
	"image"
)

// ErrNoDisplays is returned by an enumerator that found no active display.
var ErrNoDisplays = errors.New("no active displays")

// Monitor describes one display in physical pixels.
type Monitor struct {
	Name     string
	Bounds   image.Rectangle
	WorkArea image.Rectangle // Bounds minus taskbars, panels and other reserved chrome
	Primary  bool
	// ScaleFactor converts Bounds to logical units. Zero means the enumerator does not
	// know it and the window's own scale applies.
	ScaleFactor float64
}

// Center returns the centre point of the monitor bounds.
func (m Monitor) Center() image.Point {
	return image.Pt((m.Bounds.Min.X+m.Bounds.Max.X)/2, (m.Bounds.Min.Y+m.Bounds.Max.Y)/2)
}

// Snapshot is an ordered view of the displays at one instant.
type Snapshot []Monitor

// Enumerator queries the platform for the live display list.
type Enumerator interface {
	Enumerate(ctx context.Context) (Snapshot, error)
}

// Backend selects an Enumerator implementation.
type Backend string

const (
	BackendAuto       Backend = "auto"
	BackendScreenshot Backend = "screenshot"
	BackendHyprland   Backend = "hyprland"
)
