/**
 * Window system - monitor-relative window placement and desktop coordinate mapping
 */

package overlaywindow

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"

	desktopmonitor "github.com/ln64-git/edgelight/src/features/desktop-monitor"
	"github.com/ln64-git/edgelight/src/features/placement"
)

// screen is a monitor as the window system knows it.
type screen interface {
	Name() string
	Size() (int, int)
	DeviceScaleFactor() float64
}

// windowSystem places the window. Positions are relative to the origin of the monitor
// the window is on, in device-independent pixels.
type windowSystem interface {
	Screens() []screen
	Current() screen
	MoveTo(s screen)
	Position() (x, y int)
	SetPosition(x, y int)
	Size() (w, h int)
	SetSize(w, h int)
}

type ebitenSystem struct{}

func (ebitenSystem) Screens() []screen {
	monitors := ebiten.AppendMonitors(nil)
	out := make([]screen, 0, len(monitors))
	for _, m := range monitors {
		out = append(out, m)
	}
	return out
}

func (ebitenSystem) Current() screen {
	if m := ebiten.Monitor(); m != nil {
		return m
	}
	return nil
}

func (ebitenSystem) MoveTo(s screen) {
	if m, ok := s.(*ebiten.MonitorType); ok {
		ebiten.SetMonitor(m)
	}
}

func (ebitenSystem) Position() (int, int) { return ebiten.WindowPosition() }
func (ebitenSystem) SetPosition(x, y int) { ebiten.SetWindowPosition(x, y) }
func (ebitenSystem) Size() (int, int)     { return ebiten.WindowSize() }
func (ebitenSystem) SetSize(w, h int)     { ebiten.SetWindowSize(w, h) }

// display pairs an enumerated monitor with the window system's screen for it. screen is
// nil when no match was found.
type display struct {
	monitor desktopmonitor.Monitor
	screen  screen
}

// matchScreens pairs every monitor in snapshot with a screen. Names are tried first,
// then a unique screen of the same logical size, then whatever screens remain in order.
func matchScreens(snapshot desktopmonitor.Snapshot, screens []screen) []display {
	out := make([]display, len(snapshot))
	taken := make([]bool, len(screens))
	claim := func(i, j int) {
		out[i].screen = screens[j]
		taken[j] = true
	}
	for i, m := range snapshot {
		out[i].monitor = m
		for j, s := range screens {
			if !taken[j] && m.Name != "" && s.Name() == m.Name {
				claim(i, j)
				break
			}
		}
	}
	for i, m := range snapshot {
		if out[i].screen != nil {
			continue
		}
		found := -1
		for j, s := range screens {
			if taken[j] || !sameSize(m, s) {
				continue
			}
			if found >= 0 {
				found = -2
				break
			}
			found = j
		}
		if found >= 0 {
			claim(i, found)
		}
	}
	next := 0
	for i := range out {
		if out[i].screen != nil {
			continue
		}
		for next < len(screens) && taken[next] {
			next++
		}
		if next == len(screens) {
			break
		}
		claim(i, next)
	}
	return out
}

func sameSize(m desktopmonitor.Monitor, s screen) bool {
	scale := m.ScaleFactor
	if scale <= 0 {
		scale = s.DeviceScaleFactor()
	}
	if scale <= 0 {
		scale = 1
	}
	w, h := s.Size()
	return math.Abs(float64(m.Bounds.Dx())/scale-float64(w)) <= 1 &&
		math.Abs(float64(m.Bounds.Dy())/scale-float64(h)) <= 1
}

// scale is the device scale of d, preferring what the enumerator reported.
func (d display) scale() float64 {
	if d.monitor.ScaleFactor > 0 {
		return d.monitor.ScaleFactor
	}
	if d.screen != nil {
		if s := d.screen.DeviceScaleFactor(); s > 0 {
			return s
		}
	}
	return 1
}

// origin is the monitor's top-left corner in desktop logical coordinates.
func (d display) origin() placement.Point {
	s := d.scale()
	return placement.Point{X: float64(d.monitor.Bounds.Min.X) / s, Y: float64(d.monitor.Bounds.Min.Y) / s}
}
