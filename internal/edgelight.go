/**
 * EdgeLight - screen-edge ring light
 *
 * Orchestrates the overlay:
 * - Overlay state (on/off, brightness, colour temperature, monitor)
 * - Monitor enumeration and overlay placement
 * - Global hotkeys and the control panel
 */

package edgelight

import (
	"context"
	"fmt"
	"strings"

	"github.com/ln64-git/edgelight/src/config"
	colortemp "github.com/ln64-git/edgelight/src/features/color-temperature"
	controlpanel "github.com/ln64-git/edgelight/src/features/control-panel"
	desktopmonitor "github.com/ln64-git/edgelight/src/features/desktop-monitor"
	"github.com/ln64-git/edgelight/src/features/hotkey"
	overlaystate "github.com/ln64-git/edgelight/src/features/overlay-state"
	overlaywindow "github.com/ln64-git/edgelight/src/features/overlay-window"
	"github.com/ln64-git/edgelight/src/features/placement"
	"github.com/ln64-git/edgelight/src/utility"
)

// queueSize bounds the commands waiting for the event thread.
const queueSize = 64

// PlatformFactory builds the hotkey platform. fire may be called from any goroutine.
type PlatformFactory func(fire func(id int)) hotkey.Platform

// EdgeLight is the main orchestrator. Apart from Post, every method must be called
// on the event thread.
type EdgeLight struct {
	logger   *utility.Logger
	config   *config.Config
	state    *overlaystate.State
	registry *desktopmonitor.Registry
	hotkeys  *hotkey.Dispatcher
	placer   *placement.Controller
	queue    chan func()

	snapshot desktopmonitor.Snapshot
	gradient colortemp.Gradient
	ticks    int
	done     bool
	shutdown bool
}

// NewEdgeLight creates the orchestrator and selects the primary monitor
func NewEdgeLight(ctx context.Context, logger *utility.Logger, cfg *config.Config, enumerator desktopmonitor.Enumerator, platforms PlatformFactory) *EdgeLight {
	if logger == nil {
		logger = utility.GetLogger()
	}
	if cfg == nil {
		cfg = config.Default()
	}

	e := &EdgeLight{
		logger:   logger,
		config:   cfg,
		registry: desktopmonitor.NewRegistry(enumerator, logger),
		queue:    make(chan func(), queueSize),
	}

	logger.Info("EdgeLight initializing...")

	primary := 0
	if snapshot, err := e.registry.Enumerate(ctx); err != nil {
		logger.Warn("Monitor enumeration failed: %v", err)
	} else {
		e.snapshot = snapshot
		primary = snapshot.PrimaryIndex()
	}
	e.state = overlaystate.New(primary)

	g, err := e.state.DeriveGradient()
	if err != nil {
		logger.Debug("Initial gradient failed: %v", err)
	}
	e.gradient = g

	if platforms != nil {
		e.hotkeys = hotkey.NewDispatcher(platforms(e.postHotkey), e, logger)
	}
	return e
}

// ==================== Lifecycle ====================

// Attach places the overlay on the selected monitor and registers hotkeys. Called once
// the window exists.
func (e *EdgeLight) Attach(ctx context.Context, chrome placement.Chrome) {
	e.placer = placement.NewController(chrome, e.logger)
	e.refresh(ctx, true)

	if e.hotkeys == nil || !e.config.HotkeysEnabled {
		e.logger.Info("Global hotkeys disabled")
		return
	}
	registered := 0
	for _, r := range e.hotkeys.Register() {
		if r.Err == nil {
			registered++
		}
	}
	e.logger.Info("Registered %d of %d global hotkeys", registered, len(e.hotkeys.Bindings()))
}

// Post hands a command to the event thread. Safe from any goroutine; a full queue
// drops the command.
func (e *EdgeLight) Post(cmd func()) {
	select {
	case e.queue <- cmd:
	default:
		e.logger.Warn("Command queue full, dropping command")
	}
}

func (e *EdgeLight) postHotkey(id int) {
	e.Post(func() { e.hotkeys.Dispatch(id) })
}

// Tick runs once per frame: queued commands first, then window drift and hot-plug.
func (e *EdgeLight) Tick(ctx context.Context) {
	for drained := false; !drained; {
		select {
		case cmd := <-e.queue:
			cmd()
		default:
			drained = true
		}
	}

	if e.placer == nil {
		return
	}
	if e.placer.Moved() {
		e.follow(ctx)
	}

	e.ticks++
	if e.ticks >= e.config.TPS {
		e.ticks = 0
		e.refresh(ctx, false)
	}
}

// Done reports whether Quit was requested.
func (e *EdgeLight) Done() bool {
	return e.done
}

// Shutdown releases global hotkeys. Safe to call more than once.
func (e *EdgeLight) Shutdown() {
	if e.shutdown {
		return
	}
	e.shutdown = true
	if e.hotkeys != nil {
		if err := e.hotkeys.Unregister(); err != nil {
			e.logger.Warn("Hotkey cleanup: %v", err)
		}
	}
	e.logger.Info("EdgeLight stopped")
}

// refresh re-enumerates monitors and re-applies placement when forced or when the
// topology changed.
func (e *EdgeLight) refresh(ctx context.Context, force bool) {
	snapshot, err := e.registry.Enumerate(ctx)
	if err != nil {
		e.logger.Debug("Monitor refresh failed: %v", err)
		return
	}
	changed := !snapshot.Equal(e.snapshot)
	e.snapshot = snapshot
	if !force && !changed {
		return
	}
	if changed {
		e.logger.Info("Monitor layout: %s", desktopmonitor.FormatMonitorSummary(snapshot))
	}
	if err := e.placer.Apply(snapshot, e.state); err != nil {
		e.logger.Warn("Overlay placement failed: %v", err)
	}
}

func (e *EdgeLight) follow(ctx context.Context) {
	snapshot, err := e.registry.Enumerate(ctx)
	if err != nil {
		e.logger.Debug("Monitor refresh failed: %v", err)
		return
	}
	e.snapshot = snapshot
	if err := e.placer.Follow(snapshot, e.state); err != nil {
		e.logger.Warn("Overlay placement failed: %v", err)
	}
}

// ApplyConfig takes the settings that can change while running: log level and panel
// visibility.
func (e *EdgeLight) ApplyConfig(cfg *config.Config) {
	e.logger.SetLevel(utility.ParseLevel(string(cfg.LogLevel)))
	if cfg.ShowControlPanel != e.config.ShowControlPanel {
		e.logger.Info("Control panel %s", onOff(cfg.ShowControlPanel))
	}

	next := *e.config
	next.LogLevel = cfg.LogLevel
	next.ShowControlPanel = cfg.ShowControlPanel
	e.config = &next
}

// ==================== Commands ====================

// ToggleLight turns the frame on or off
func (e *EdgeLight) ToggleLight() {
	e.state.ToggleLight()
	e.logger.Debug("Light %s", onOff(e.state.IsLightOn()))
}

// IncreaseBrightness raises opacity one step
func (e *EdgeLight) IncreaseBrightness() {
	e.state.IncreaseBrightness()
	e.logger.Debug("Brightness %.2f", e.state.Opacity())
}

// DecreaseBrightness lowers opacity one step
func (e *EdgeLight) DecreaseBrightness() {
	e.state.DecreaseBrightness()
	e.logger.Debug("Brightness %.2f", e.state.Opacity())
}

// IncreaseColorTemperature makes the light cooler
func (e *EdgeLight) IncreaseColorTemperature() {
	e.state.IncreaseColorTemperature()
	e.updateGradient()
}

// DecreaseColorTemperature makes the light warmer
func (e *EdgeLight) DecreaseColorTemperature() {
	e.state.DecreaseColorTemperature()
	e.updateGradient()
}

// CycleMonitor moves the overlay to the next monitor. A single monitor is a no-op.
func (e *EdgeLight) CycleMonitor() {
	ctx := context.Background()
	snapshot, err := e.registry.Enumerate(ctx)
	if err != nil {
		e.logger.Warn("Cannot switch monitor: %v", err)
		return
	}
	e.snapshot = snapshot

	current := e.state.MonitorIndex()
	next := snapshot.CycleNext(current)
	if next == current {
		e.logger.Debug("Only one monitor, staying on %d", current)
		return
	}
	e.state.SelectMonitor(next)
	e.logger.Debug("Switching to monitor %d (%s)", next, snapshot[next].Name)

	if e.placer != nil {
		if err := e.placer.Apply(snapshot, e.state); err != nil {
			e.logger.Warn("Overlay placement failed: %v", err)
		}
	}
}

// Quit ends the render loop
func (e *EdgeLight) Quit() {
	if !e.done {
		e.logger.Debug("Quit requested")
	}
	e.done = true
}

// updateGradient re-derives colours for the current temperature. A failure keeps the
// previous gradient.
func (e *EdgeLight) updateGradient() {
	kelvin := e.state.ColorTemperature()
	g, err := e.state.DeriveGradient()
	if err != nil {
		e.logger.Debug("Gradient for %dK failed, keeping %dK: %v", kelvin, e.gradient.Kelvin, err)
		return
	}
	e.gradient = g
	e.logger.Debug("Color temperature %dK (%s)", kelvin, colortemp.Hex(g.Base))
}

// ==================== State View ====================

func (e *EdgeLight) IsLightOn() bool              { return e.state.IsLightOn() }
func (e *EdgeLight) Opacity() float64             { return e.state.Opacity() }
func (e *EdgeLight) CurrentColorTemperature() int { return e.state.ColorTemperature() }
func (e *EdgeLight) MonitorIndex() int            { return e.state.MonitorIndex() }

// HasMultipleMonitors reports whether switching monitors would do anything, based on
// the last enumeration.
func (e *EdgeLight) HasMultipleMonitors() bool {
	return len(e.snapshot) > 1
}

// Snapshot returns the overlay state
func (e *EdgeLight) Snapshot() overlaystate.Snapshot {
	return e.state.Snapshot()
}

// Frame describes what the window draws next.
func (e *EdgeLight) Frame() overlaywindow.Frame {
	return overlaywindow.Frame{
		LightOn:       e.state.IsLightOn(),
		Opacity:       e.state.Opacity(),
		Gradient:      e.gradient,
		PanelVisible:  e.config.ShowControlPanel,
		PanelLabel:    controlpanel.TemperatureLabel(e),
		SwitchEnabled: controlpanel.Enabled(controlpanel.SwitchMonitor, e),
	}
}

// ==================== Info ====================

// GetStatus describes the overlay state
func (e *EdgeLight) GetStatus() string {
	s := e.state.Snapshot()
	output := "EdgeLight Status:\n"
	output += fmt.Sprintf("  Light: %s\n", onOff(s.LightOn))
	output += fmt.Sprintf("  Brightness: %.0f%%\n", s.Opacity*100)
	output += fmt.Sprintf("  Color Temperature: %dK (%s)\n", s.Kelvin, colortemp.Hex(e.gradient.Base))
	output += fmt.Sprintf("  Monitor: %d of %d\n", s.MonitorIndex+1, len(e.snapshot))
	return output
}

// GetDisplayInfo lists the monitors enumerator sees, marking the primary, which is
// where the overlay starts
func GetDisplayInfo(ctx context.Context, logger *utility.Logger, enumerator desktopmonitor.Enumerator) (string, error) {
	snapshot, err := desktopmonitor.NewRegistry(enumerator, logger).Enumerate(ctx)
	if err != nil {
		return "", err
	}
	return desktopmonitor.FormatMonitorInfo(snapshot, snapshot.PrimaryIndex()), nil
}

// GetHotkeyHelp lists the global shortcuts
func (e *EdgeLight) GetHotkeyHelp() string {
	if e.hotkeys != nil {
		return hotkey.Help(e.hotkeys.Bindings())
	}
	return hotkey.Help(hotkey.DefaultBindings())
}

// GetColorInfo describes the colours derived for kelvin
func GetColorInfo(kelvin int) (string, error) {
	g, err := colortemp.DeriveGradient(kelvin)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Color Temperature %dK:\n", kelvin)
	fmt.Fprintf(&sb, "  Base:   %s rgb(%d, %d, %d)\n", colortemp.Hex(g.Base), g.Base.R, g.Base.G, g.Base.B)
	for i, c := range g.Stops {
		fmt.Fprintf(&sb, "  Stop %d: %s (%.2f)\n", i, colortemp.Hex(c), colortemp.StopRatios[i])
	}
	fmt.Fprintf(&sb, "  Shadow: %s\n", colortemp.Hex(g.Shadow))
	return sb.String(), nil
}

func onOff(b bool) string {
	if b {
		return "On"
	}
	return "Off"
}
