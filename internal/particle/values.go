// Package particle provides the value models, emitter shapes and velocity
// modifiers used by the particle simulation, plus the compact value notation
// and YAML preset schema used to describe emitters as data.
//
// Everything in this package is a pure function of its inputs and a Rand;
// per-frame state lives in pkg/components and is advanced by pkg/systems.
package particle

import (
	"math"
)

// Epsilon is the tolerance used when comparing lifetime fractions and curve
// points (the float32 machine epsilon).
const Epsilon float32 = 1.1920929e-07

// RoughlyEqual reports whether a and b differ by less than Epsilon.
func RoughlyEqual(a, b float32) bool {
	return float32(math.Abs(float64(a-b))) < Epsilon
}

// Clamp01 clamps v to [0, 1]. NaN maps to 0.
func Clamp01(v float32) float32 {
	if !(v > 0) {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func lerpf(a, b, pct float32) float32 {
	return a*(1-pct) + b*pct
}

func prevFloat32(v float32) float32 {
	return math.Nextafter32(v, float32(math.Inf(-1)))
}

// Range is a half-open interval [Start, End).
type Range struct {
	Start float32
	End   float32
}

// Empty reports whether the range contains no values.
func (r Range) Empty() bool {
	return r.Start >= r.End
}

// JitteredValue is a base value with optional uniform random jitter added on
// every sample.
//
// The zero Jitter range means no jitter; sampling such a value never touches
// the random source.
type JitteredValue struct {
	Value  float32
	Jitter Range
}

// Fixed returns a value without jitter.
func Fixed(v float32) JitteredValue {
	return JitteredValue{Value: v}
}

// Jittered returns base + uniform[lo, hi) on every sample.
func Jittered(base, lo, hi float32) JitteredValue {
	return JitteredValue{Value: base, Jitter: Range{Start: lo, End: hi}}
}

// WithJitter returns a copy of j using the given jitter range.
func (j JitteredValue) WithJitter(lo, hi float32) JitteredValue {
	j.Jitter = Range{Start: lo, End: hi}
	return j
}

// HasJitter reports whether sampling consumes randomness.
func (j JitteredValue) HasJitter() bool {
	return !j.Jitter.Empty()
}

// Bounds returns the smallest and largest values Sample can produce.
func (j JitteredValue) Bounds() (min, max float32) {
	if !j.HasJitter() {
		return j.Value + j.Jitter.Start, j.Value + j.Jitter.Start
	}
	return j.Value + j.Jitter.Start, j.Value + j.Jitter.End
}

// Sample returns the base value plus jitter drawn from r.
func (j JitteredValue) Sample(r Rand) float32 {
	if !j.HasJitter() {
		// 退化区间 [a, a) 视为固定偏移
		return j.Value + j.Jitter.Start
	}
	v := j.Value + RandomInRange(r, j.Jitter.Start, j.Jitter.End)
	if hi := j.Value + j.Jitter.End; v >= hi {
		return prevFloat32(hi)
	}
	return v
}

// ValueOverTime is a scalar that varies over a lifetime fraction in [0, 1].
//
// Implementations: Constant, Lerp, SinWave and *Curve[float32].
type ValueOverTime interface {
	At(pct float32) float32
}

// Constant is a value that never changes.
type Constant float32

// At implements ValueOverTime.
func (c Constant) At(float32) float32 { return float32(c) }

// Lerp moves linearly from A (pct 0) to B (pct 1). pct is clamped.
type Lerp struct {
	A float32
	B float32
}

// At implements ValueOverTime.
func (l Lerp) At(pct float32) float32 {
	return lerpf(l.A, l.B, Clamp01(pct))
}

// SinWave evaluates Amplitude*sin(Period*pct*2π - PhaseShift) + VerticalShift.
//
// With Amplitude and Period both 1 the wave goes 0 → 1 → 0 → -1 → 0 over
// the lifetime.
type SinWave struct {
	Amplitude     float32
	Period        float32
	PhaseShift    float32
	VerticalShift float32
}

// NewSinWave returns one full unit wave.
func NewSinWave() SinWave {
	return SinWave{Amplitude: 1, Period: 1}
}

// At implements ValueOverTime.
func (s SinWave) At(pct float32) float32 {
	x := float64(s.Period)*float64(pct)*2*math.Pi - float64(s.PhaseShift)
	return s.Amplitude*float32(math.Sin(x)) + s.VerticalShift
}

// EvalValue evaluates v at pct, using hint when v is a curve. A nil v
// evaluates to 0.
func EvalValue(v ValueOverTime, pct float32, hint *CurveHint) float32 {
	switch c := v.(type) {
	case nil:
		return 0
	case Constant:
		return float32(c)
	case *Curve[float32]:
		if hint != nil {
			return c.AtHinted(pct, hint)
		}
		return c.At(pct)
	default:
		return v.At(pct)
	}
}
