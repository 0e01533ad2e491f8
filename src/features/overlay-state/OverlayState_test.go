package overlaystate

import (
	"math/rand"
	"testing"
)

func TestDefaults(t *testing.T) {
	s := New(2)
	want := Snapshot{LightOn: true, Opacity: 1.0, Kelvin: 4000, MonitorIndex: 2}
	if got := s.Snapshot(); got != want {
		t.Fatalf("New(2) = %+v, want %+v", got, want)
	}
}

func TestToggleIsItsOwnInverse(t *testing.T) {
	s := New(0)
	s.ToggleLight()
	if s.IsLightOn() {
		t.Fatalf("light should be off after one toggle")
	}
	s.ToggleLight()
	if !s.IsLightOn() {
		t.Fatalf("light should be back on after two toggles")
	}
}

func TestBrightnessClampsAtBothEnds(t *testing.T) {
	s := New(0)

	s.IncreaseBrightness()
	if s.Opacity() != MaxOpacity {
		t.Fatalf("increase at max should be a no-op, got %v", s.Opacity())
	}

	s.DecreaseBrightness()
	if got := s.Opacity(); got != 0.85 {
		t.Fatalf("one step down = %v, want 0.85", got)
	}

	for range 6 {
		s.DecreaseBrightness()
	}
	if s.Opacity() != MinOpacity {
		t.Fatalf("opacity should clamp at %v, got %v", MinOpacity, s.Opacity())
	}
	before := s.Snapshot()
	s.DecreaseBrightness()
	if s.Snapshot() != before {
		t.Fatalf("decrease at min changed state")
	}
}

func TestColorTemperatureClamps(t *testing.T) {
	s := New(0)
	for range 20 {
		s.IncreaseColorTemperature()
	}
	if s.ColorTemperature() != MaxKelvin {
		t.Fatalf("kelvin = %d, want %d", s.ColorTemperature(), MaxKelvin)
	}
	for range 40 {
		s.DecreaseColorTemperature()
	}
	if s.ColorTemperature() != MinKelvin {
		t.Fatalf("kelvin = %d, want %d", s.ColorTemperature(), MinKelvin)
	}
}

func TestRandomSequencesStayInRange(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	s := New(0)
	ops := []func(){
		s.IncreaseBrightness,
		s.DecreaseBrightness,
		s.IncreaseColorTemperature,
		s.DecreaseColorTemperature,
		s.ToggleLight,
	}
	for i := 0; i < 5000; i++ {
		ops[rng.Intn(len(ops))]()
		if o := s.Opacity(); o < MinOpacity || o > MaxOpacity {
			t.Fatalf("step %d: opacity %v out of range", i, o)
		}
		if k := s.ColorTemperature(); k < MinKelvin || k > MaxKelvin {
			t.Fatalf("step %d: kelvin %d out of range", i, k)
		}
	}
}

func TestEndToEndClamping(t *testing.T) {
	s := New(1)
	for range 6 {
		s.DecreaseBrightness()
	}
	for range 20 {
		s.IncreaseColorTemperature()
	}

	want := Snapshot{LightOn: true, Opacity: 0.2, Kelvin: 6500, MonitorIndex: 1}
	if got := s.Snapshot(); got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestSelectMonitorDoesNotValidate(t *testing.T) {
	s := New(0)
	s.SelectMonitor(9)
	if s.MonitorIndex() != 9 {
		t.Fatalf("SelectMonitor should store the index as given")
	}
}

func TestDeriveGradientFollowsKelvin(t *testing.T) {
	s := New(0)
	warm, err := s.DeriveGradient()
	if err != nil {
		t.Fatalf("DeriveGradient: %v", err)
	}
	s.IncreaseColorTemperature()
	cool, _ := s.DeriveGradient()
	if cool.Kelvin != 4200 || warm.Kelvin != 4000 {
		t.Fatalf("gradient kelvin not tracking state: %d %d", warm.Kelvin, cool.Kelvin)
	}
	if cool.Base.B <= warm.Base.B {
		t.Fatalf("cooler light should be bluer")
	}
}
