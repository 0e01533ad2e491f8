package overlaywindow

import (
	"image"
	"testing"

	desktopmonitor "github.com/ln64-git/edgelight/src/features/desktop-monitor"
	"github.com/ln64-git/edgelight/src/features/placement"
	"github.com/ln64-git/edgelight/src/utility"
)

type fakeScreen struct {
	name  string
	min   image.Point
	w, h  int
	scale float64
}

func (fs *fakeScreen) Name() string               { return fs.name }
func (fs *fakeScreen) Size() (int, int)           { return fs.w, fs.h }
func (fs *fakeScreen) DeviceScaleFactor() float64 { return fs.scale }

// fakeSystem keeps positions relative to the screen the window is on.
type fakeSystem struct {
	screens []*fakeScreen
	on      *fakeScreen
	x, y    int
	w, h    int
	moves   int
}

func (fsys *fakeSystem) Screens() []screen {
	out := make([]screen, 0, len(fsys.screens))
	for _, s := range fsys.screens {
		out = append(out, s)
	}
	return out
}

func (fsys *fakeSystem) Current() screen {
	if fsys.on == nil {
		return nil
	}
	return fsys.on
}

func (fsys *fakeSystem) MoveTo(s screen) {
	fsys.on = s.(*fakeScreen)
	fsys.moves++
}

func (fsys *fakeSystem) Position() (int, int) { return fsys.x, fsys.y }
func (fsys *fakeSystem) SetPosition(x, y int) { fsys.x, fsys.y = x, y }
func (fsys *fakeSystem) Size() (int, int)     { return fsys.w, fsys.h }
func (fsys *fakeSystem) SetSize(w, h int)     { fsys.w, fsys.h = w, h }

// physicalX is where the window's left edge really is on the desktop.
func (fsys *fakeSystem) physicalX() int {
	return fsys.on.min.X + int(float64(fsys.x)*fsys.on.scale)
}

type selector struct{ index int }

func (s *selector) MonitorIndex() int   { return s.index }
func (s *selector) SelectMonitor(i int) { s.index = i }

func quietLogger() *utility.Logger {
	return utility.NewLogger("journal", utility.ERROR)
}

func sideBySide() (desktopmonitor.Snapshot, *fakeSystem) {
	snapshot := desktopmonitor.Snapshot{
		{Name: "DP-1", Bounds: image.Rect(0, 0, 1920, 1080), Primary: true},
		{Name: "DP-2", Bounds: image.Rect(1920, 0, 3840, 1080)},
	}
	// the window system lists its monitors in a different order
	b := &fakeScreen{name: "DP-2", min: image.Pt(1920, 0), w: 1920, h: 1080, scale: 1}
	a := &fakeScreen{name: "DP-1", w: 1920, h: 1080, scale: 1}
	return snapshot, &fakeSystem{screens: []*fakeScreen{b, a}, on: a}
}

func TestOverlayStaysOnNonOriginMonitor(t *testing.T) {
	snapshot, sys := sideBySide()
	w := newWindow(nil, quietLogger(), Options{}, sys)
	ctl := placement.NewController(w, quietLogger())
	sel := &selector{}

	if err := ctl.Apply(snapshot, sel); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	sel.SelectMonitor(snapshot.CycleNext(sel.index))
	if err := ctl.Apply(snapshot, sel); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if sys.on.name != "DP-2" || sys.x != 0 || sys.y != 0 {
		t.Fatalf("window should sit at the origin of DP-2, on %s at %d,%d", sys.on.name, sys.x, sys.y)
	}

	// window system has caught up
	for i := 0; i < settleTicks; i++ {
		w.settle--
	}
	if got := w.OverlayBounds(); got != (placement.Rect{X: 1920, Y: 0, W: 1920, H: 1080}) {
		t.Fatalf("OverlayBounds = %+v, want desktop coordinates on DP-2", got)
	}
	if ctl.Moved() {
		t.Fatalf("settled overlay on DP-2 reported as moved")
	}
	if err := ctl.Follow(snapshot, sel); err != nil {
		t.Fatalf("Follow: %v", err)
	}
	if sel.index != 1 || sys.physicalX() != 1920 {
		t.Fatalf("overlay should stay on DP-2: index=%d x=%d", sel.index, sys.physicalX())
	}

	sel.SelectMonitor(snapshot.CycleNext(sel.index))
	if err := ctl.Apply(snapshot, sel); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if sys.on.name != "DP-1" || sys.physicalX() != 0 {
		t.Fatalf("cycling back should land on DP-1 at 0, on %s at %d", sys.on.name, sys.physicalX())
	}
	if sys.moves != 2 {
		t.Fatalf("window should change monitors twice, moved %d times", sys.moves)
	}
}

func TestDraggedWindowFollowedAcrossMonitors(t *testing.T) {
	snapshot, sys := sideBySide()
	w := newWindow(nil, quietLogger(), Options{}, sys)
	ctl := placement.NewController(w, quietLogger())
	sel := &selector{}
	if err := ctl.Apply(snapshot, sel); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	w.settle = 0

	sys.on = sys.screens[0]
	sys.x, sys.y = 300, 200
	if !ctl.Moved() {
		t.Fatalf("drag onto DP-2 should be detected")
	}
	if err := ctl.Follow(snapshot, sel); err != nil {
		t.Fatalf("Follow: %v", err)
	}
	if sel.index != 1 || sys.on.name != "DP-2" || sys.x != 0 {
		t.Fatalf("overlay should refit DP-2: index=%d on %s x=%d", sel.index, sys.on.name, sys.x)
	}
}

func TestMatchScreens(t *testing.T) {
	snapshot := desktopmonitor.Snapshot{
		{Name: "DISPLAY1", Bounds: image.Rect(0, 0, 3840, 2160)},
		{Name: "DISPLAY2", Bounds: image.Rect(3840, 0, 5760, 1200)},
		{Name: "DISPLAY3", Bounds: image.Rect(5760, 0, 7680, 1200)},
	}
	hidpi := &fakeScreen{name: "Generic PnP Monitor", w: 1920, h: 1080, scale: 2}
	wide1 := &fakeScreen{name: "Generic PnP Monitor", w: 1920, h: 1200, scale: 1}
	wide2 := &fakeScreen{name: "Generic PnP Monitor", w: 1920, h: 1200, scale: 1}

	got := matchScreens(snapshot, []screen{wide1, hidpi, wide2})
	if got[0].screen != screen(hidpi) {
		t.Fatalf("the only screen of matching logical size should pair with DISPLAY1")
	}
	// two screens share a size, so the rest pair up in order
	if got[1].screen != screen(wide1) || got[2].screen != screen(wide2) {
		t.Fatalf("remaining monitors should take the remaining screens in order")
	}
	if o := got[0].origin(); o != (placement.Point{}) || got[0].scale() != 2 {
		t.Fatalf("scale should come from the screen when the monitor has none: %v %v", o, got[0].scale())
	}

	short := matchScreens(snapshot, nil)
	for i, d := range short {
		if d.screen != nil || d.monitor != snapshot[i] {
			t.Fatalf("without screens every monitor stays unpaired: %+v", d)
		}
	}
}

func TestWindowPointOnNonOriginMonitor(t *testing.T) {
	snapshot, sys := sideBySide()
	w := newWindow(nil, quietLogger(), Options{}, sys)
	w.SetDisplays(snapshot)
	w.SetOverlayBounds(snapshot[1], placement.OverlayRect(snapshot[1], 1))
	w.settle = 0

	if got := w.windowPoint(2000, 50); got != (placement.Point{X: 80, Y: 50}) {
		t.Fatalf("windowPoint = %+v, want 80,50", got)
	}

	w.SetPanelPosition(placement.Point{X: 2500, Y: 900})
	if got := w.panelOrigin(); got != (placement.Point{X: 580, Y: 900}) {
		t.Fatalf("panelOrigin = %+v, want window-relative 580,900", got)
	}
}
