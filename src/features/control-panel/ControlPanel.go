/**
 * Control panel - button layout, hit testing and activation for the floating panel
 */

package controlpanel

import (
	"fmt"

	"github.com/ln64-git/edgelight/src/features/placement"
)

// Button identifies a panel button.
type Button int

const (
	BrightnessDown Button = iota
	BrightnessUp
	Toggle
	SwitchMonitor
	Warmer
	Cooler
	Close
)

var buttonOrder = []Button{BrightnessDown, BrightnessUp, Toggle, SwitchMonitor, Warmer, Cooler, Close}

// Glyph is the short label drawn on the button.
func (b Button) Glyph() string {
	switch b {
	case BrightnessDown:
		return "-"
	case BrightnessUp:
		return "+"
	case Toggle:
		return "O"
	case SwitchMonitor:
		return ">>"
	case Warmer:
		return "W"
	case Cooler:
		return "C"
	case Close:
		return "X"
	default:
		return "?"
	}
}

func (b Button) String() string {
	switch b {
	case BrightnessDown:
		return "Brightness Down"
	case BrightnessUp:
		return "Brightness Up"
	case Toggle:
		return "Toggle Light"
	case SwitchMonitor:
		return "Switch Monitor"
	case Warmer:
		return "Warmer"
	case Cooler:
		return "Cooler"
	case Close:
		return "Close"
	default:
		return fmt.Sprintf("Button(%d)", int(b))
	}
}

// Commands are the overlay operations the panel can invoke.
type Commands interface {
	ToggleLight()
	IncreaseBrightness()
	DecreaseBrightness()
	IncreaseColorTemperature()
	DecreaseColorTemperature()
	CycleMonitor()
	Quit()
}

// View is the read-only state the panel displays.
type View interface {
	CurrentColorTemperature() int
	HasMultipleMonitors() bool
}

// Panel geometry in logical units.
const (
	ButtonSize = 32.0
	ButtonGap  = 6.0
	Padding    = 8.0
	LabelWidth = 56.0
)

// Slot is a button and its rectangle relative to the panel origin.
type Slot struct {
	Button Button
	Rect   placement.Rect
}

// Layout is the fixed arrangement of the panel: the temperature label followed by a
// row of buttons.
type Layout struct {
	Slots []Slot
	Label placement.Rect
	Size  placement.Size
}

// NewLayout builds the panel layout.
func NewLayout() Layout {
	x := Padding
	label := placement.Rect{X: x, Y: Padding, W: LabelWidth, H: ButtonSize}
	x += LabelWidth + ButtonGap

	slots := make([]Slot, 0, len(buttonOrder))
	for _, b := range buttonOrder {
		slots = append(slots, Slot{
			Button: b,
			Rect:   placement.Rect{X: x, Y: Padding, W: ButtonSize, H: ButtonSize},
		})
		x += ButtonSize + ButtonGap
	}
	x += Padding - ButtonGap

	return Layout{
		Slots: slots,
		Label: label,
		Size:  placement.Size{W: x, H: ButtonSize + 2*Padding},
	}
}

// HitTest returns the button under p, given in panel coordinates.
func (l Layout) HitTest(p placement.Point) (Button, bool) {
	for _, s := range l.Slots {
		if s.Rect.Contains(p) {
			return s.Button, true
		}
	}
	return 0, false
}

// Enabled reports whether b can be pressed. Switching monitors needs more than one.
func Enabled(b Button, view View) bool {
	if b == SwitchMonitor {
		return view.HasMultipleMonitors()
	}
	return true
}

// Activate runs the command behind b. Disabled buttons do nothing.
func Activate(b Button, cmds Commands, view View) bool {
	if !Enabled(b, view) {
		return false
	}
	switch b {
	case BrightnessDown:
		cmds.DecreaseBrightness()
	case BrightnessUp:
		cmds.IncreaseBrightness()
	case Toggle:
		cmds.ToggleLight()
	case SwitchMonitor:
		cmds.CycleMonitor()
	case Warmer:
		cmds.DecreaseColorTemperature()
	case Cooler:
		cmds.IncreaseColorTemperature()
	case Close:
		cmds.Quit()
	default:
		return false
	}
	return true
}

// TemperatureLabel is the panel's readout, e.g. "4000K".
func TemperatureLabel(view View) string {
	return fmt.Sprintf("%dK", view.CurrentColorTemperature())
}
