package particle

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
)

// ParseJittered parses a jittered scalar.
// Supports:
//   - Fixed value: "1500"
//   - Range: "[0.7 0.9]" → base 0.7, jitter [0, 0.2)
//   - Single-value range: "[5]" → fixed 5
//   - Base plus jitter: "5 [-1 1]" → base 5, jitter [-1, 1)
func ParseJittered(s string) (JitteredValue, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return JitteredValue{}, fmt.Errorf("empty value")
	}

	// "5 [-1 1]"：基础值 + 抖动区间
	if open := strings.Index(s, "["); open > 0 {
		base, err := parseFloat32(s[:open])
		if err != nil {
			return JitteredValue{}, fmt.Errorf("invalid base in %q: %w", s, err)
		}
		lo, hi, err := parseBracketRange(s[open:])
		if err != nil {
			return JitteredValue{}, err
		}
		return Jittered(base, lo, hi), nil
	}

	if strings.HasPrefix(s, "[") {
		lo, hi, err := parseBracketRange(s)
		if err != nil {
			return JitteredValue{}, err
		}
		return Jittered(lo, 0, hi-lo), nil
	}

	v, err := parseFloat32(s)
	if err != nil {
		return JitteredValue{}, fmt.Errorf("invalid value %q: %w", s, err)
	}
	return Fixed(v), nil
}

// parseBracketRange parses "[min max]" or "[value]".
func parseBracketRange(s string) (float32, float32, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "[") || !strings.HasSuffix(s, "]") {
		return 0, 0, fmt.Errorf("invalid range %q", s)
	}
	parts := strings.Fields(strings.TrimSuffix(strings.TrimPrefix(s, "["), "]"))
	switch len(parts) {
	case 1:
		v, err := parseFloat32(parts[0])
		if err != nil {
			return 0, 0, fmt.Errorf("invalid range %q: %w", s, err)
		}
		return v, v, nil
	case 2:
		lo, err1 := parseFloat32(parts[0])
		hi, err2 := parseFloat32(parts[1])
		if err1 != nil || err2 != nil {
			return 0, 0, fmt.Errorf("invalid range %q", s)
		}
		if hi < lo {
			return 0, 0, fmt.Errorf("range %q has max below min", s)
		}
		return lo, hi, nil
	default:
		return 0, 0, fmt.Errorf("range %q needs one or two numbers", s)
	}
}

// ParseValueOverTime parses a scalar that varies over a lifetime fraction.
// Supports:
//   - Fixed value: "5" → Constant
//   - Linear: "2..8" → Lerp{2, 8}
//   - Sine: "sin(amplitude period phase vertical)", trailing arguments optional
//   - Keyframes: "0,1 0.5,3 1,0" → curve through (time, value) pairs
func ParseValueOverTime(s string) (ValueOverTime, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("empty value")
	}

	if args, ok := functionArgs(s, "sin"); ok {
		if len(args) == 0 || len(args) > 4 {
			return nil, fmt.Errorf("sin(%s) takes one to four arguments", strings.Join(args, " "))
		}
		w := NewSinWave()
		dst := []*float32{&w.Amplitude, &w.Period, &w.PhaseShift, &w.VerticalShift}
		for i, a := range args {
			v, err := parseFloat32(a)
			if err != nil {
				return nil, fmt.Errorf("invalid sin argument %q: %w", a, err)
			}
			*dst[i] = v
		}
		return w, nil
	}

	if a, b, ok := strings.Cut(s, ".."); ok {
		from, err1 := parseFloat32(a)
		to, err2 := parseFloat32(b)
		if err1 != nil || err2 != nil {
			return nil, fmt.Errorf("invalid lerp %q", s)
		}
		return Lerp{A: from, B: to}, nil
	}

	if strings.Contains(s, ",") {
		points, err := ParseKeyframes(s)
		if err != nil {
			return nil, err
		}
		if err := ValidatePoints(points); err != nil {
			return nil, fmt.Errorf("keyframes %q: %w", s, err)
		}
		return NewCurve(points...), nil
	}

	v, err := parseFloat32(s)
	if err != nil {
		return nil, fmt.Errorf("invalid value %q: %w", s, err)
	}
	return Constant(v), nil
}

// ParseKeyframes parses "time,value" pairs separated by whitespace, e.g.
// "0,2 1,2". Times are lifetime fractions. A list whose last time is 100 is
// read as percentages ("0,0 50,3 100,0"); any other time above 1 is an error.
func ParseKeyframes(s string) ([]CurvePoint[float32], error) {
	parts := strings.Fields(s)
	points := make([]CurvePoint[float32], 0, len(parts))
	for _, part := range parts {
		t, v, ok := strings.Cut(part, ",")
		if !ok {
			return nil, fmt.Errorf("keyframe %q is not time,value", part)
		}
		tf, err1 := parseFloat32(t)
		vf, err2 := parseFloat32(v)
		if err1 != nil || err2 != nil {
			return nil, fmt.Errorf("invalid keyframe %q", part)
		}
		points = append(points, At(vf, tf))
	}

	// 百分比写法："50,3" 即 0.5，要求整个列表以 100 结尾
	percent := len(points) > 0 && points[len(points)-1].Point == 100
	for i := range points {
		switch {
		case percent:
			points[i].Point /= 100
		case points[i].Point > 1:
			return nil, fmt.Errorf("keyframe %q: time %v is above 1 (percentage lists must end at 100)", parts[i], points[i].Point)
		}
	}
	return points, nil
}

// ParseColor parses a single color.
// Supports "#rrggbb", "#rrggbbaa", "rgba(r g b a)" with channels in [0, 1],
// "hsv(h s v a)" with hue in degrees, and a few names ("white", "red", ...).
// Function arguments may be separated by spaces or commas.
func ParseColor(s string) (Color, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "#") {
		return ColorFromHex(s)
	}
	if args, ok := functionArgs(s, "rgba"); ok {
		v, err := parseFloats(args, 3, 4)
		if err != nil {
			return Fuchsia, fmt.Errorf("invalid color %q: %w", s, err)
		}
		c := Color{R: v[0], G: v[1], B: v[2], A: 1}
		if len(v) == 4 {
			c.A = v[3]
		}
		return c, nil
	}
	if args, ok := functionArgs(s, "hsv"); ok {
		v, err := parseFloats(args, 3, 4)
		if err != nil {
			return Fuchsia, fmt.Errorf("invalid color %q: %w", s, err)
		}
		a := float32(1)
		if len(v) == 4 {
			a = v[3]
		}
		return ColorFromHSV(v[0], v[1], v[2], a)
	}
	if c, ok := namedColors[strings.ToLower(s)]; ok {
		return c, nil
	}
	return Fuchsia, fmt.Errorf("unknown color %q", s)
}

var namedColors = map[string]Color{
	"white":       White,
	"black":       Black,
	"transparent": Transparent,
	"red":         Red,
	"green":       Green,
	"blue":        Blue,
	"purple":      Purple,
	"orange_red":  OrangeRed,
	"fuchsia":     Fuchsia,
}

// ParseColorOverTime parses a constant color or a gradient of
// "point:color" stops, e.g. "0:#ffffffff 1:rgba(1,0,0,0)".
func ParseColorOverTime(s string) (ColorOverTime, error) {
	s = strings.TrimSpace(s)
	tokens := splitTopLevel(s)
	if len(tokens) == 1 && !strings.Contains(tokens[0], ":") {
		c, err := ParseColor(s)
		if err != nil {
			return nil, err
		}
		return ConstantColor(c), nil
	}

	points := make([]CurvePoint[Color], 0, len(tokens))
	for _, tok := range tokens {
		p, col, ok := strings.Cut(tok, ":")
		if !ok {
			return nil, fmt.Errorf("gradient stop %q is not point:color", tok)
		}
		pt, err := parseFloat32(p)
		if err != nil {
			return nil, fmt.Errorf("invalid gradient point %q: %w", tok, err)
		}
		c, err := ParseColor(col)
		if err != nil {
			return nil, err
		}
		points = append(points, At(c, pt))
	}
	if err := ValidatePoints(points); err != nil {
		return nil, fmt.Errorf("gradient %q: %w", s, err)
	}
	return NewGradient(points...), nil
}

// ParseVector parses "x y z"; "x y" leaves z at 0.
func ParseVector(s string) (mgl32.Vec3, error) {
	v, err := parseFloats(strings.Fields(strings.ReplaceAll(s, ",", " ")), 2, 3)
	if err != nil {
		return mgl32.Vec3{}, fmt.Errorf("invalid vector %q: %w", s, err)
	}
	out := mgl32.Vec3{v[0], v[1], 0}
	if len(v) == 3 {
		out[2] = v[2]
	}
	return out, nil
}

// ParseVectorOverTime parses a constant vector or "x y z .. x y z" for a
// linear change over the lifetime.
func ParseVectorOverTime(s string) (VectorOverTime, error) {
	if a, b, ok := strings.Cut(s, ".."); ok {
		from, err := ParseVector(a)
		if err != nil {
			return nil, err
		}
		to, err := ParseVector(b)
		if err != nil {
			return nil, err
		}
		return LerpVector{A: from, B: to}, nil
	}
	v, err := ParseVector(s)
	if err != nil {
		return nil, err
	}
	return ConstantVector(v), nil
}

// functionArgs matches "name(a b c)" and returns its arguments.
func functionArgs(s, name string) ([]string, bool) {
	if !strings.HasPrefix(s, name+"(") || !strings.HasSuffix(s, ")") {
		return nil, false
	}
	inner := s[len(name)+1 : len(s)-1]
	return strings.Fields(strings.ReplaceAll(inner, ",", " ")), true
}

// splitTopLevel splits on whitespace outside parentheses.
func splitTopLevel(s string) []string {
	var (
		out   []string
		depth int
		start = -1
	)
	for i, r := range s {
		switch {
		case r == '(':
			depth++
		case r == ')':
			depth--
		case (r == ' ' || r == '\t') && depth == 0:
			if start >= 0 {
				out = append(out, s[start:i])
				start = -1
			}
			continue
		}
		if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		out = append(out, s[start:])
	}
	return out
}

func parseFloats(args []string, min, max int) ([]float32, error) {
	if len(args) < min || len(args) > max {
		return nil, fmt.Errorf("want %d to %d numbers, got %d", min, max, len(args))
	}
	out := make([]float32, len(args))
	for i, a := range args {
		v, err := parseFloat32(a)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func parseFloat32(s string) (float32, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 32)
	if err != nil {
		return 0, err
	}
	return float32(v), nil
}
