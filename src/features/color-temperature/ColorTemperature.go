/**
 * Color temperature model - black-body approximation and gradient tints
 */

package colortemp

import (
	"errors"
	"fmt"
	"image/color"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// Kelvin range over which the approximation is defined. Inputs outside are clamped.
const (
	MinKelvin = 1000
	MaxKelvin = 40000
)

// StopRatios are the fractions of the base colour kept in each gradient stop;
// the remainder is white. Symmetric so the frame reads the same from both ends.
var StopRatios = [5]float64{0.85, 0.6, 0.75, 0.6, 0.85}

// ShadowRatio is the base-colour fraction of the shadow tint.
const ShadowRatio = 0.6

// ErrInvalidKelvin is returned when a temperature is not a physical value at all.
var ErrInvalidKelvin = errors.New("kelvin must be positive")

var white = color.RGBA{R: 255, G: 255, B: 255, A: 255}

// Gradient is the derived fill for the edge light frame.
type Gradient struct {
	Kelvin int
	Base   color.RGBA
	Stops  [5]color.RGBA
	Shadow color.RGBA
}

// RGBFromKelvin approximates the visible colour of a black body at the given temperature.
func RGBFromKelvin(kelvin int) color.RGBA {
	kelvin = max(MinKelvin, min(MaxKelvin, kelvin))
	temp := float64(kelvin) / 100

	var r, g, b float64
	if temp <= 66 {
		r = 255
		g = 99.4708025861*math.Log(temp) - 161.1195681661
	} else {
		r = 329.698727446 * math.Pow(temp-60, -0.1332047592)
		g = 288.1221695283 * math.Pow(temp-60, -0.0755148492)
	}

	switch {
	case temp >= 66:
		b = 255
	case temp <= 19:
		b = 0
	default:
		b = 138.5177312231*math.Log(temp-10) - 305.0447927307
	}

	return color.RGBA{R: channel(r), G: channel(g), B: channel(b), A: 255}
}

// Lerp blends a toward b channel-wise; each channel is a + (b-a)*t, truncated.
func Lerp(a, b color.RGBA, t float64) color.RGBA {
	mix := func(x, y uint8) uint8 {
		return channel(float64(x) + (float64(y)-float64(x))*t)
	}
	return color.RGBA{R: mix(a.R, b.R), G: mix(a.G, b.G), B: mix(a.B, b.B), A: mix(a.A, b.A)}
}

// Tint keeps ratio of base and fills the rest with white.
func Tint(base color.RGBA, ratio float64) color.RGBA {
	return Lerp(white, base, ratio)
}

// DeriveGradient builds the five frame stops and the shadow tint for kelvin.
func DeriveGradient(kelvin int) (Gradient, error) {
	if kelvin <= 0 {
		return Gradient{}, fmt.Errorf("derive gradient for %dK: %w", kelvin, ErrInvalidKelvin)
	}

	base := RGBFromKelvin(kelvin)
	g := Gradient{Kelvin: kelvin, Base: base, Shadow: Tint(base, ShadowRatio)}
	for i, ratio := range StopRatios {
		g.Stops[i] = Tint(base, ratio)
	}
	return g, nil
}

// At samples the gradient at position t in [0,1] along the stops.
func (g Gradient) At(t float64) color.RGBA {
	t = math.Max(0, math.Min(1, t))
	span := t * float64(len(g.Stops)-1)
	i := int(span)
	if i >= len(g.Stops)-1 {
		return g.Stops[len(g.Stops)-1]
	}
	return Lerp(g.Stops[i], g.Stops[i+1], span-float64(i))
}

// Hex formats c as #rrggbb.
func Hex(c color.RGBA) string {
	cf, _ := colorful.MakeColor(c)
	return cf.Hex()
}

func channel(v float64) uint8 {
	if math.IsNaN(v) {
		return 0
	}
	return uint8(math.Max(0, math.Min(255, v)))
}
