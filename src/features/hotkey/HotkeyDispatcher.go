/**
 * Hotkey dispatcher - fixed global key bindings routed to overlay commands
 */

package hotkey

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gosuri/uitable"
	"github.com/ln64-git/edgelight/src/utility"
)

// Modifier is a bit set of modifier keys.
type Modifier uint8

const (
	ModCtrl Modifier = 1 << iota
	ModShift
)

func (m Modifier) String() string {
	var parts []string
	if m&ModCtrl != 0 {
		parts = append(parts, "Ctrl")
	}
	if m&ModShift != 0 {
		parts = append(parts, "Shift")
	}
	return strings.Join(parts, "+")
}

// Key identifies the non-modifier key of a binding.
type Key int

const (
	KeyL Key = iota + 1
	KeyArrowUp
	KeyArrowDown
)

func (k Key) String() string {
	switch k {
	case KeyL:
		return "L"
	case KeyArrowUp:
		return "Up"
	case KeyArrowDown:
		return "Down"
	default:
		return fmt.Sprintf("Key(%d)", int(k))
	}
}

// Action is the overlay command a binding triggers.
type Action int

const (
	ActionToggle Action = iota + 1
	ActionBrightnessUp
	ActionBrightnessDown
)

func (a Action) String() string {
	switch a {
	case ActionToggle:
		return "Toggle Light"
	case ActionBrightnessUp:
		return "Brightness Up"
	case ActionBrightnessDown:
		return "Brightness Down"
	default:
		return fmt.Sprintf("Action(%d)", int(a))
	}
}

// Binding ties a key combination to an action. ID is what the platform reports back
// when the combination fires.
type Binding struct {
	ID        int
	Modifiers Modifier
	Key       Key
	Action    Action
}

func (b Binding) String() string {
	return fmt.Sprintf("%s+%s", b.Modifiers, b.Key)
}

// DefaultBindings is the fixed binding table: Ctrl+Shift with L, Up and Down.
func DefaultBindings() []Binding {
	return []Binding{
		{ID: 1, Modifiers: ModCtrl | ModShift, Key: KeyL, Action: ActionToggle},
		{ID: 2, Modifiers: ModCtrl | ModShift, Key: KeyArrowUp, Action: ActionBrightnessUp},
		{ID: 3, Modifiers: ModCtrl | ModShift, Key: KeyArrowDown, Action: ActionBrightnessDown},
	}
}

// ErrNotRegistered is returned when unregistering a binding that holds no system hotkey.
var ErrNotRegistered = errors.New("hotkey not registered")

// Platform registers key combinations system-wide. Implementations report matches by ID
// through whatever callback they were constructed with.
type Platform interface {
	Register(b Binding) error
	Unregister(b Binding) error
}

// Handler receives dispatched actions.
type Handler interface {
	ToggleLight()
	IncreaseBrightness()
	DecreaseBrightness()
}

// State of a single binding.
type State int

const (
	Unregistered State = iota
	Registered
)

// Result is the outcome of registering one binding.
type Result struct {
	Binding Binding
	Err     error
}

// Dispatcher owns the binding table for the process lifetime. It is driven from the
// single event thread.
type Dispatcher struct {
	platform Platform
	handler  Handler
	logger   *utility.Logger
	bindings []Binding
	states   map[int]State
	closed   bool
}

// NewDispatcher creates a dispatcher over the default bindings
func NewDispatcher(platform Platform, handler Handler, logger *utility.Logger) *Dispatcher {
	if logger == nil {
		logger = utility.GetLogger()
	}
	bindings := DefaultBindings()
	states := make(map[int]State, len(bindings))
	for _, b := range bindings {
		states[b.ID] = Unregistered
	}
	return &Dispatcher{
		platform: platform,
		handler:  handler,
		logger:   logger,
		bindings: bindings,
		states:   states,
	}
}

// Bindings returns a copy of the binding table.
func (d *Dispatcher) Bindings() []Binding {
	return append([]Binding(nil), d.bindings...)
}

// StateOf reports the registration state of the binding with id.
func (d *Dispatcher) StateOf(id int) State {
	return d.states[id]
}

// Register registers every binding. A binding another process already owns is reported
// in its Result and the rest are still attempted.
func (d *Dispatcher) Register() []Result {
	results := make([]Result, 0, len(d.bindings))
	for _, b := range d.bindings {
		if d.states[b.ID] == Registered {
			results = append(results, Result{Binding: b})
			continue
		}
		err := d.platform.Register(b)
		if err != nil {
			d.logger.Warn("Hotkey %s (%s) unavailable: %v", b, b.Action, err)
		} else {
			d.states[b.ID] = Registered
			d.logger.Debug("Registered hotkey %s -> %s", b, b.Action)
		}
		results = append(results, Result{Binding: b, Err: err})
	}
	d.closed = false
	return results
}

// Dispatch runs the action bound to id synchronously. It reports false for unknown or
// unregistered ids.
func (d *Dispatcher) Dispatch(id int) bool {
	if d.states[id] != Registered {
		return false
	}
	for _, b := range d.bindings {
		if b.ID != id {
			continue
		}
		switch b.Action {
		case ActionToggle:
			d.handler.ToggleLight()
		case ActionBrightnessUp:
			d.handler.IncreaseBrightness()
		case ActionBrightnessDown:
			d.handler.DecreaseBrightness()
		default:
			return false
		}
		return true
	}
	return false
}

// Unregister releases every binding, including ones whose registration failed. Only
// failures for bindings that were registered are returned. A second call is a no-op.
func (d *Dispatcher) Unregister() error {
	if d.closed {
		return nil
	}
	d.closed = true

	var errs []error
	for _, b := range d.bindings {
		wasRegistered := d.states[b.ID] == Registered
		err := d.platform.Unregister(b)
		d.states[b.ID] = Unregistered
		if err != nil && wasRegistered {
			errs = append(errs, fmt.Errorf("unregister %s: %w", b, err))
		}
	}
	return errors.Join(errs...)
}

// Help lists the bindings as a table under a "Keyboard Shortcuts:" heading.
func Help(bindings []Binding) string {
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow("  Action", "Keys")
	for _, b := range bindings {
		tbl.AddRow("  "+b.Action.String(), b.String())
	}
	return "Keyboard Shortcuts:\n" + tbl.String()
}
