package particle

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/crazy3lf/colorconv"
)

// Color is a linear RGBA color with channels in [0, 1].
type Color struct {
	R, G, B, A float32
}

// Common colors.
var (
	White       = Color{1, 1, 1, 1}
	Black       = Color{0, 0, 0, 1}
	Transparent = Color{0, 0, 0, 0}
	Red         = Color{1, 0, 0, 1}
	Green       = Color{0, 1, 0, 1}
	Blue        = Color{0, 0, 1, 1}
	Purple      = Color{0.5, 0, 0.5, 1}
	OrangeRed   = Color{1, 0.27, 0, 1}
	// Fuchsia is returned by gradients that cannot resolve a lifetime
	// fraction, which makes misconfiguration visible on screen.
	Fuchsia = Color{1, 0, 1, 1}
)

// RGBA builds a color from channel values.
func RGBA(r, g, b, a float32) Color {
	return Color{R: r, G: g, B: b, A: a}
}

// Lerp interpolates each channel toward other. pct is clamped to [0, 1].
func (c Color) Lerp(other Color, pct float32) Color {
	pct = Clamp01(pct)
	return Color{
		R: lerpf(c.R, other.R, pct),
		G: lerpf(c.G, other.G, pct),
		B: lerpf(c.B, other.B, pct),
		A: lerpf(c.A, other.A, pct),
	}
}

// WithAlpha returns c with alpha replaced.
func (c Color) WithAlpha(a float32) Color {
	c.A = a
	return c
}

// ColorFromHSV converts hue (degrees), saturation and value in [0, 1] to a
// color with the given alpha.
func ColorFromHSV(h, s, v, a float32) (Color, error) {
	r, g, b, err := colorconv.HSVToRGB(float64(h), float64(s), float64(v))
	if err != nil {
		return Fuchsia, fmt.Errorf("invalid hsv(%v %v %v): %w", h, s, v, err)
	}
	return Color{R: float32(r) / 255, G: float32(g) / 255, B: float32(b) / 255, A: a}, nil
}

// ColorFromHex parses "#rrggbb" or "#rrggbbaa".
func ColorFromHex(s string) (Color, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) != 6 && len(hex) != 8 {
		return Fuchsia, fmt.Errorf("invalid hex color %q", s)
	}
	if len(hex) == 6 {
		hex += "ff"
	}
	n, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return Fuchsia, fmt.Errorf("invalid hex color %q: %w", s, err)
	}
	return Color{
		R: float32(n>>24&0xff) / 255,
		G: float32(n>>16&0xff) / 255,
		B: float32(n>>8&0xff) / 255,
		A: float32(n&0xff) / 255,
	}, nil
}

// ColorOverTime is a color that varies over a lifetime fraction.
//
// Implementations: ConstantColor and *Curve[Color] (see NewGradient).
type ColorOverTime interface {
	At(pct float32) Color
}

// ConstantColor never changes.
type ConstantColor Color

// At implements ColorOverTime.
func (c ConstantColor) At(float32) Color { return Color(c) }

// EvalColor evaluates c at pct, using hint when c is a gradient. A nil c
// evaluates to White.
func EvalColor(c ColorOverTime, pct float32, hint *CurveHint) Color {
	switch g := c.(type) {
	case nil:
		return White
	case ConstantColor:
		return Color(g)
	case *Curve[Color]:
		if hint != nil {
			return g.AtHinted(pct, hint)
		}
		return g.At(pct)
	default:
		return c.At(pct)
	}
}
