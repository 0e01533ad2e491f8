/**
 * Placement controller - overlay bounds per monitor and the attached control panel
 */

package placement

import (
	"math"

	desktopmonitor "github.com/ln64-git/edgelight/src/features/desktop-monitor"
	"github.com/ln64-git/edgelight/src/utility"
)

// Frame geometry in logical units.
const (
	Margin            = 20.0
	FrameThickness    = 48.0
	OuterRadius       = 96.0
	InnerRadius       = 56.0
	PanelBottomOffset = 100.0
)

// Rect is an axis-aligned rectangle in logical units.
type Rect struct {
	X, Y, W, H float64
}

// Center returns the centre of r.
func (r Rect) Center() Point {
	return Point{X: r.X + r.W/2, Y: r.Y + r.H/2}
}

// Inset shrinks r by d on every side; it never goes below zero size.
func (r Rect) Inset(d float64) Rect {
	w := math.Max(0, r.W-2*d)
	h := math.Max(0, r.H-2*d)
	return Rect{X: r.X + d, Y: r.Y + d, W: w, H: h}
}

// Contains reports whether p lies inside r (right and bottom edges excluded).
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.X+r.W && p.Y >= r.Y && p.Y < r.Y+r.H
}

type Point struct {
	X, Y float64
}

type Size struct {
	W, H float64
}

// RoundedRect is a rectangle with uniformly rounded corners.
type RoundedRect struct {
	Rect
	Radius float64
}

// Ring is the frame shape: Outer with Inner cut out.
type Ring struct {
	Outer RoundedRect
	Inner RoundedRect
}

// Chrome is the window system surface the controller positions. Bounds are in
// desktop logical coordinates: a monitor's physical origin divided by its scale, plus
// the offset on that monitor. Window systems that place windows relative to the
// monitor they are on convert at this boundary, which is why SetOverlayBounds names
// the target monitor and SetDisplays hands over the topology.
type Chrome interface {
	SetDisplays(snapshot desktopmonitor.Snapshot)
	SetOverlayBounds(m desktopmonitor.Monitor, r Rect)
	OverlayBounds() Rect
	SetPanelPosition(p Point)
	PanelSize() Size
	ScaleFactor(m desktopmonitor.Monitor) float64
}

// MonitorSelector is the part of the overlay state placement reads and corrects.
type MonitorSelector interface {
	MonitorIndex() int
	SelectMonitor(index int)
}

// OverlayRect converts the monitor work area to logical units.
func OverlayRect(m desktopmonitor.Monitor, scale float64) Rect {
	if scale <= 0 {
		scale = 1
	}
	work := m.WorkArea
	if work.Empty() {
		work = m.Bounds
	}
	return Rect{
		X: float64(work.Min.X) / scale,
		Y: float64(work.Min.Y) / scale,
		W: float64(work.Dx()) / scale,
		H: float64(work.Dy()) / scale,
	}
}

// FrameRing returns the frame shape for a window of the given size, in window
// coordinates. Radii shrink when the window is too small to hold them.
func FrameRing(window Size) Ring {
	outer := Rect{W: window.W, H: window.H}.Inset(Margin)
	inner := outer.Inset(FrameThickness)
	return Ring{
		Outer: RoundedRect{Rect: outer, Radius: fitRadius(outer, OuterRadius)},
		Inner: RoundedRect{Rect: inner, Radius: fitRadius(inner, InnerRadius)},
	}
}

func fitRadius(r Rect, radius float64) float64 {
	return math.Max(0, math.Min(radius, math.Min(r.W, r.H)/2))
}

// ControlPanelPosition centres the panel horizontally under the overlay and anchors it
// PanelBottomOffset above the overlay's bottom edge.
func ControlPanelPosition(overlay Rect, panel Size) Point {
	return Point{
		X: overlay.X + (overlay.W-panel.W)/2,
		Y: overlay.Y + overlay.H - panel.H - PanelBottomOffset,
	}
}

// Controller keeps the overlay window on the selected monitor and the control panel
// attached to it.
type Controller struct {
	chrome  Chrome
	logger  *utility.Logger
	applied Rect
	placed  bool
}

// NewController creates a controller for chrome
func NewController(chrome Chrome, logger *utility.Logger) *Controller {
	if logger == nil {
		logger = utility.GetLogger()
	}
	return &Controller{chrome: chrome, logger: logger}
}

// Apply places the overlay on the selected monitor of snapshot. A stale selection falls
// back to the primary monitor. After placing, the monitor under the window centre is
// recomputed and the selection corrected if it drifted.
func (c *Controller) Apply(snapshot desktopmonitor.Snapshot, sel MonitorSelector) error {
	if len(snapshot) == 0 {
		return desktopmonitor.ErrNoDisplays
	}

	index := sel.MonitorIndex()
	if !snapshot.Valid(index) {
		index = snapshot.PrimaryIndex()
		c.logger.Debug("Monitor %d is gone, falling back to primary %d", sel.MonitorIndex(), index)
		sel.SelectMonitor(index)
	}

	m := snapshot[index]
	c.chrome.SetDisplays(snapshot)
	rect := OverlayRect(m, c.scaleFor(m))
	c.chrome.SetOverlayBounds(m, rect)
	c.applied = rect
	c.placed = true
	c.logger.Debug("Overlay placed on %s at %.0f,%.0f %.0fx%.0f", m.Name, rect.X, rect.Y, rect.W, rect.H)

	c.RepositionPanel()
	c.reconcile(snapshot, sel)
	return nil
}

// RepositionPanel re-anchors the control panel to the current overlay bounds.
func (c *Controller) RepositionPanel() {
	if !c.placed {
		return
	}
	c.chrome.SetPanelPosition(ControlPanelPosition(c.applied, c.chrome.PanelSize()))
}

// Moved reports whether the window no longer sits where it was last placed, i.e. it
// was dragged or resized by someone else. Sub-unit differences from the window system
// rounding to whole pixels are ignored.
func (c *Controller) Moved() bool {
	return c.placed && !near(c.chrome.OverlayBounds(), c.applied)
}

func near(a, b Rect) bool {
	return math.Abs(a.X-b.X) <= 1 && math.Abs(a.Y-b.Y) <= 1 &&
		math.Abs(a.W-b.W) <= 1 && math.Abs(a.H-b.H) <= 1
}

// Follow handles a window that moved on its own: the monitor under its centre becomes
// the selection and the overlay is re-fitted to that monitor.
func (c *Controller) Follow(snapshot desktopmonitor.Snapshot, sel MonitorSelector) error {
	if len(snapshot) == 0 {
		return desktopmonitor.ErrNoDisplays
	}
	c.chrome.SetDisplays(snapshot)
	c.reconcile(snapshot, sel)
	return c.Apply(snapshot, sel)
}

// reconcile selects the monitor under the window centre. Each monitor is tested in its
// own scale, the same one its logical origin was derived with.
func (c *Controller) reconcile(snapshot desktopmonitor.Snapshot, sel MonitorSelector) {
	center := c.chrome.OverlayBounds().Center()

	current := sel.MonitorIndex()
	index := snapshot.MonitorContainingScaled(center.X, center.Y, c.scaleFor, current)
	if index != current {
		c.logger.Debug("Overlay drifted from monitor %d to %d", current, index)
		sel.SelectMonitor(index)
	}
}

func (c *Controller) scaleFor(m desktopmonitor.Monitor) float64 {
	if m.ScaleFactor > 0 {
		return m.ScaleFactor
	}
	if s := c.chrome.ScaleFactor(m); s > 0 {
		return s
	}
	return 1
}
