/**
 * Overlay window - transparent always-on-top ebiten window hosting the frame and panel
 */

package overlaywindow

import (
	"context"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	colortemp "github.com/ln64-git/edgelight/src/features/color-temperature"
	controlpanel "github.com/ln64-git/edgelight/src/features/control-panel"
	desktopmonitor "github.com/ln64-git/edgelight/src/features/desktop-monitor"
	"github.com/ln64-git/edgelight/src/features/placement"
	"github.com/ln64-git/edgelight/src/utility"
)

// settleTicks is how long requested bounds win over what the window system reports.
// Moves are applied asynchronously and the reported position lags by a few frames.
const settleTicks = 10

// Frame is everything the renderer needs for one frame.
type Frame struct {
	LightOn       bool
	Opacity       float64
	Gradient      colortemp.Gradient
	PanelVisible  bool
	PanelLabel    string
	SwitchEnabled bool
}

// Engine drives the overlay. Every method is called on the event thread.
type Engine interface {
	controlpanel.Commands
	controlpanel.View
	Attach(ctx context.Context, chrome placement.Chrome)
	Tick(ctx context.Context)
	Frame() Frame
	Done() bool
}

// Options configure the window. ShowPanel is the initial panel visibility; afterwards
// each Frame decides.
type Options struct {
	Title     string
	TPS       int
	ShowPanel bool
}

// Window is the overlay surface. It implements ebiten.Game and placement.Chrome.
type Window struct {
	ctx    context.Context
	engine Engine
	logger *utility.Logger
	opts   Options
	layout controlpanel.Layout
	sys    windowSystem

	displays    []display
	requested   placement.Rect
	settle      int
	panelPos    placement.Point
	passthrough bool
	attached    bool
	showPanel   bool

	white *ebiten.Image
}

// New creates the overlay window for engine
func New(engine Engine, logger *utility.Logger, opts Options) *Window {
	return newWindow(engine, logger, opts, ebitenSystem{})
}

func newWindow(engine Engine, logger *utility.Logger, opts Options, sys windowSystem) *Window {
	if logger == nil {
		logger = utility.GetLogger()
	}
	if opts.TPS <= 0 {
		opts.TPS = ebiten.DefaultTPS
	}
	if opts.Title == "" {
		opts.Title = "EdgeLight"
	}
	return &Window{
		ctx:         context.Background(),
		engine:      engine,
		logger:      logger,
		opts:        opts,
		layout:      controlpanel.NewLayout(),
		sys:         sys,
		passthrough: true,
		showPanel:   opts.ShowPanel,
	}
}

// Run opens the window and blocks until the engine is done or ctx is cancelled.
func (w *Window) Run(ctx context.Context) error {
	w.ctx = ctx

	ebiten.SetWindowTitle(w.opts.Title)
	ebiten.SetWindowDecorated(false)
	ebiten.SetWindowFloating(true)
	ebiten.SetWindowMousePassthrough(true)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeDisabled)
	ebiten.SetRunnableOnUnfocused(true)
	ebiten.SetScreenClearedEveryFrame(true)
	ebiten.SetTPS(w.opts.TPS)

	w.logger.Info("Starting overlay window at %d TPS", w.opts.TPS)
	return ebiten.RunGameWithOptions(w, &ebiten.RunGameOptions{
		ScreenTransparent: true,
		InitUnfocused:     true,
		SkipTaskbar:       true,
	})
}

// Update implements ebiten.Game.
func (w *Window) Update() error {
	if !w.attached {
		w.attached = true
		w.engine.Attach(w.ctx, w)
	}

	select {
	case <-w.ctx.Done():
		w.engine.Quit()
	default:
	}

	if ebiten.IsWindowBeingClosed() {
		w.engine.Quit()
	}

	w.handleKeys()
	w.handlePanel()
	w.engine.Tick(w.ctx)

	if w.settle > 0 {
		w.settle--
	}
	if w.engine.Done() {
		return ebiten.Termination
	}
	return nil
}

// Draw implements ebiten.Game.
func (w *Window) Draw(screen *ebiten.Image) {
	defer func() {
		if r := recover(); r != nil {
			w.logger.Debug("Frame skipped: %v", r)
		}
	}()

	if w.white == nil {
		w.white = whitePixel()
	}

	frame := w.engine.Frame()
	w.showPanel = frame.PanelVisible
	b := screen.Bounds()
	size := placement.Size{W: float64(b.Dx()), H: float64(b.Dy())}

	if frame.LightOn {
		drawRing(screen, w.white, ShadowRing(placement.FrameRing(size)), size,
			func(float64) color.RGBA { return frame.Gradient.Shadow }, frame.Opacity*ShadowAlpha)
		drawRing(screen, w.white, placement.FrameRing(size), size, frame.Gradient.At, frame.Opacity)
	}
	if w.showPanel {
		drawPanel(screen, w.layout, w.panelOrigin(), frame)
	}
}

// Layout implements ebiten.Game. The screen matches the window in logical units.
func (w *Window) Layout(outsideWidth, outsideHeight int) (int, int) {
	return outsideWidth, outsideHeight
}

// SetDisplays records the desktop topology and pairs it with the window system's
// monitors.
func (w *Window) SetDisplays(snapshot desktopmonitor.Snapshot) {
	w.displays = matchScreens(snapshot, w.sys.Screens())
}

// SetOverlayBounds moves the window onto m and resizes it. r is in desktop logical
// coordinates; the window system wants it relative to the monitor's origin.
func (w *Window) SetOverlayBounds(m desktopmonitor.Monitor, r placement.Rect) {
	w.requested = r
	w.settle = settleTicks

	origin := w.currentOrigin()
	if d, ok := w.displayOf(m); ok && d.screen != nil {
		if d.screen != w.sys.Current() {
			w.sys.MoveTo(d.screen)
		}
		origin = d.origin()
	}
	w.sys.SetPosition(int(math.Round(r.X-origin.X)), int(math.Round(r.Y-origin.Y)))
	w.sys.SetSize(max(1, int(r.W)), max(1, int(r.H)))
}

// OverlayBounds reports where the window is, in desktop logical coordinates. Right
// after a move the requested bounds are returned until the window system catches up.
func (w *Window) OverlayBounds() placement.Rect {
	if w.settle > 0 {
		return w.requested
	}
	x, y := w.sys.Position()
	width, height := w.sys.Size()
	origin := w.currentOrigin()
	return placement.Rect{
		X: float64(x) + origin.X,
		Y: float64(y) + origin.Y,
		W: float64(width),
		H: float64(height),
	}
}

func (w *Window) SetPanelPosition(p placement.Point) {
	w.panelPos = p
}

func (w *Window) PanelSize() placement.Size {
	return w.layout.Size
}

// ScaleFactor is the device scale of m.
func (w *Window) ScaleFactor(m desktopmonitor.Monitor) float64 {
	if d, ok := w.displayOf(m); ok {
		return d.scale()
	}
	return w.currentScale()
}

func (w *Window) displayOf(m desktopmonitor.Monitor) (display, bool) {
	for _, d := range w.displays {
		if d.monitor == m {
			return d, true
		}
	}
	return display{}, false
}

// currentDisplay is the monitor the window system says the window is on.
func (w *Window) currentDisplay() (display, bool) {
	cur := w.sys.Current()
	if cur == nil {
		return display{}, false
	}
	for _, d := range w.displays {
		if d.screen == cur {
			return d, true
		}
	}
	return display{}, false
}

func (w *Window) currentOrigin() placement.Point {
	if d, ok := w.currentDisplay(); ok {
		return d.origin()
	}
	return placement.Point{}
}

func (w *Window) currentScale() float64 {
	if d, ok := w.currentDisplay(); ok {
		return d.scale()
	}
	if cur := w.sys.Current(); cur != nil && cur.DeviceScaleFactor() > 0 {
		return cur.DeviceScaleFactor()
	}
	return 1
}

// windowPoint converts a physical desktop position to window coordinates.
func (w *Window) windowPoint(px, py float64) placement.Point {
	scale := w.currentScale()
	bounds := w.OverlayBounds()
	return placement.Point{X: px/scale - bounds.X, Y: py/scale - bounds.Y}
}

// panelOrigin is the panel position in window coordinates.
func (w *Window) panelOrigin() placement.Point {
	bounds := w.OverlayBounds()
	return placement.Point{X: w.panelPos.X - bounds.X, Y: w.panelPos.Y - bounds.Y}
}

func (w *Window) handleKeys() {
	if !ebiten.IsFocused() {
		return
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		w.logger.Debug("Escape pressed")
		w.engine.Quit()
		return
	}

	ctrl := ebiten.IsKeyPressed(ebiten.KeyControlLeft) || ebiten.IsKeyPressed(ebiten.KeyControlRight)
	shift := ebiten.IsKeyPressed(ebiten.KeyShiftLeft) || ebiten.IsKeyPressed(ebiten.KeyShiftRight)
	if ctrl && shift && inpututil.IsKeyJustPressed(ebiten.KeyL) {
		w.engine.ToggleLight()
	}
}

// handlePanel lets clicks reach the panel while the cursor is over it and passes them
// through to the desktop everywhere else.
func (w *Window) handlePanel() {
	if !w.showPanel {
		if !w.passthrough {
			w.passthrough = true
			ebiten.SetWindowMousePassthrough(true)
		}
		return
	}

	origin := w.panelOrigin()
	over := false
	if cx, cy, ok := cursorPosition(); ok {
		over = panelRect(w.layout, origin).Contains(w.windowPoint(cx, cy))
	}
	if over == w.passthrough {
		w.passthrough = !over
		ebiten.SetWindowMousePassthrough(w.passthrough)
	}
	if w.passthrough || !inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		return
	}

	x, y := ebiten.CursorPosition()
	p := placement.Point{X: float64(x) - origin.X, Y: float64(y) - origin.Y}
	if b, ok := w.layout.HitTest(p); ok {
		if controlpanel.Activate(b, w.engine, w.engine) {
			w.logger.Debug("Panel button %s", b)
		}
	}
}

func panelRect(layout controlpanel.Layout, origin placement.Point) placement.Rect {
	return placement.Rect{X: origin.X, Y: origin.Y, W: layout.Size.W, H: layout.Size.H}
}
