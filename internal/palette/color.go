// Package palette implements particle colours and the focus colour transition.
package palette

import (
	"fmt"
	"image/color"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// RGBA is a displayed colour: R, G, B in [0,255], A in [0,1].
type RGBA struct {
	R, G, B, A float64
}

// Clamp limits every channel to its legal range. NaN channels become 0.
func (c RGBA) Clamp() RGBA {
	return RGBA{
		R: clampChannel(c.R, 255),
		G: clampChannel(c.G, 255),
		B: clampChannel(c.B, 255),
		A: clampChannel(c.A, 1),
	}
}

func clampChannel(v, max float64) float64 {
	if !(v > 0) {
		return 0
	}
	if v > max {
		return max
	}
	return v
}

// Valid reports whether every channel is inside its range.
func (c RGBA) Valid() bool {
	return c.R >= 0 && c.R <= 255 && c.G >= 0 && c.G <= 255 &&
		c.B >= 0 && c.B <= 255 && c.A >= 0 && c.A <= 1
}

// WithAlpha returns c with alpha replaced.
func (c RGBA) WithAlpha(a float64) RGBA {
	c.A = a
	return c.Clamp()
}

// Scale multiplies alpha by k.
func (c RGBA) Scale(k float64) RGBA {
	c.A *= k
	return c.Clamp()
}

// NRGBA converts to a non-premultiplied 8-bit colour.
func (c RGBA) NRGBA() color.NRGBA {
	c = c.Clamp()
	return color.NRGBA{
		R: uint8(math.Round(c.R)),
		G: uint8(math.Round(c.G)),
		B: uint8(math.Round(c.B)),
		A: uint8(math.Round(c.A * 255)),
	}
}

// Lerp interpolates componentwise between a and b and clamps the result.
func Lerp(a, b RGBA, t float64) RGBA {
	if t <= 0 {
		return a.Clamp()
	}
	if t >= 1 {
		return b.Clamp()
	}
	return RGBA{
		R: a.R + (b.R-a.R)*t,
		G: a.G + (b.G-a.G)*t,
		B: a.B + (b.B-a.B)*t,
		A: a.A + (b.A-a.A)*t,
	}.Clamp()
}

// EaseInOutCubic maps progress in [0,1] onto a cubic ease.
func EaseInOutCubic(t float64) float64 {
	if t <= 0 {
		return 0
	}
	if t >= 1 {
		return 1
	}
	if t < 0.5 {
		return 4 * t * t * t
	}
	f := -2*t + 2
	return 1 - f*f*f/2
}

func (c RGBA) colorful() colorful.Color {
	c = c.Clamp()
	return colorful.Color{R: c.R / 255, G: c.G / 255, B: c.B / 255}
}

func fromColorful(cf colorful.Color, a float64) RGBA {
	cf = cf.Clamped()
	return RGBA{R: cf.R * 255, G: cf.G * 255, B: cf.B * 255, A: a}.Clamp()
}

// FromHSV builds a colour from hue in degrees and saturation/value in [0,1].
func FromHSV(h, s, v, a float64) RGBA {
	return fromColorful(colorful.Hsv(math.Mod(h+360, 360), s, v), a)
}

// FromHex parses "#rrggbb".
func FromHex(s string, a float64) (RGBA, error) {
	cf, err := colorful.Hex(s)
	if err != nil {
		return RGBA{}, fmt.Errorf("palette: parse %q: %w", s, err)
	}
	return fromColorful(cf, a), nil
}

// MustHex is FromHex for package-level tables.
func MustHex(s string) RGBA {
	c, err := FromHex(s, 1)
	if err != nil {
		panic(err)
	}
	return c
}

// Mix blends base toward tint in Lab space, which keeps perceived brightness
// steadier than an RGB lerp when a saturated focus colour is applied. Alpha is
// taken from base.
func Mix(base, tint RGBA, t float64) RGBA {
	t = math.Max(0, math.Min(1, t))
	return fromColorful(base.colorful().BlendLab(tint.colorful(), t), base.A)
}

// Lighten moves the colour toward white by t.
func Lighten(c RGBA, t float64) RGBA {
	return Lerp(c, RGBA{R: 255, G: 255, B: 255, A: c.A}, t)
}
