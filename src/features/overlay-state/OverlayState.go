/**
 * Overlay state - light flag, brightness, colour temperature and monitor selection
 */

package overlaystate

import (
	colortemp "github.com/ln64-git/edgelight/src/features/color-temperature"
)

// Brightness is stored in hundredths so repeated steps land exactly on the bounds.
const (
	minOpacity     = 20
	maxOpacity     = 100
	opacityStep    = 15
	defaultOpacity = 100
)

const (
	MinKelvin     = 2700
	MaxKelvin     = 6500
	KelvinStep    = 200
	DefaultKelvin = 4000
)

const (
	MinOpacity     = float64(minOpacity) / 100
	MaxOpacity     = float64(maxOpacity) / 100
	OpacityStep    = float64(opacityStep) / 100
	DefaultOpacity = float64(defaultOpacity) / 100
)

// Snapshot is a consistent copy of the state for readers.
type Snapshot struct {
	LightOn      bool
	Opacity      float64
	Kelvin       int
	MonitorIndex int
}

// State is the authoritative overlay state. It is owned by one event thread and is not
// safe for concurrent use.
type State struct {
	lightOn      bool
	opacity      int
	kelvin       int
	monitorIndex int
}

// New returns the startup state with the light on, full brightness, 4000K and the given
// primary monitor selected.
func New(primaryIndex int) *State {
	return &State{
		lightOn:      true,
		opacity:      defaultOpacity,
		kelvin:       DefaultKelvin,
		monitorIndex: primaryIndex,
	}
}

func (s *State) IsLightOn() bool       { return s.lightOn }
func (s *State) Opacity() float64      { return float64(s.opacity) / 100 }
func (s *State) ColorTemperature() int { return s.kelvin }
func (s *State) MonitorIndex() int     { return s.monitorIndex }

// Snapshot copies the current values.
func (s *State) Snapshot() Snapshot {
	return Snapshot{
		LightOn:      s.lightOn,
		Opacity:      s.Opacity(),
		Kelvin:       s.kelvin,
		MonitorIndex: s.monitorIndex,
	}
}

// ToggleLight flips the light on or off.
func (s *State) ToggleLight() {
	s.lightOn = !s.lightOn
}

// IncreaseBrightness raises opacity by one step, stopping at MaxOpacity.
func (s *State) IncreaseBrightness() {
	s.opacity = clamp(s.opacity+opacityStep, minOpacity, maxOpacity)
}

// DecreaseBrightness lowers opacity by one step, stopping at MinOpacity.
func (s *State) DecreaseBrightness() {
	s.opacity = clamp(s.opacity-opacityStep, minOpacity, maxOpacity)
}

// IncreaseColorTemperature makes the light cooler by one step.
func (s *State) IncreaseColorTemperature() {
	s.kelvin = clamp(s.kelvin+KelvinStep, MinKelvin, MaxKelvin)
}

// DecreaseColorTemperature makes the light warmer by one step.
func (s *State) DecreaseColorTemperature() {
	s.kelvin = clamp(s.kelvin-KelvinStep, MinKelvin, MaxKelvin)
}

// SelectMonitor records the active monitor. The caller supplies a valid index.
func (s *State) SelectMonitor(index int) {
	s.monitorIndex = index
}

// DeriveGradient returns the frame colours for the current temperature.
func (s *State) DeriveGradient() (colortemp.Gradient, error) {
	return colortemp.DeriveGradient(s.kelvin)
}

func clamp(v, lo, hi int) int {
	return max(lo, min(hi, v))
}
