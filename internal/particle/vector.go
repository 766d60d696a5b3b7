package particle

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Axis helpers.
var (
	AxisX = mgl32.Vec3{1, 0, 0}
	AxisY = mgl32.Vec3{0, 1, 0}
	AxisZ = mgl32.Vec3{0, 0, 1}
)

// VectorOverTime is a vector that varies over a lifetime fraction.
//
// Implementations: ConstantVector, LerpVector and *Curve[mgl32.Vec3].
type VectorOverTime interface {
	At(pct float32) mgl32.Vec3
}

// ConstantVector never changes.
type ConstantVector mgl32.Vec3

// At implements VectorOverTime.
func (c ConstantVector) At(float32) mgl32.Vec3 { return mgl32.Vec3(c) }

// LerpVector moves linearly from A to B. pct is clamped.
type LerpVector struct {
	A mgl32.Vec3
	B mgl32.Vec3
}

// At implements VectorOverTime.
func (l LerpVector) At(pct float32) mgl32.Vec3 {
	return lerpVec3(l.A, l.B, Clamp01(pct))
}

// EvalVector evaluates v at pct, using hint when v is a curve. A nil v
// evaluates to the zero vector.
func EvalVector(v VectorOverTime, pct float32, hint *CurveHint) mgl32.Vec3 {
	switch c := v.(type) {
	case nil:
		return mgl32.Vec3{}
	case ConstantVector:
		return mgl32.Vec3(c)
	case *Curve[mgl32.Vec3]:
		if hint != nil {
			return c.AtHinted(pct, hint)
		}
		return c.At(pct)
	default:
		return v.At(pct)
	}
}

func lerpVec3(a, b mgl32.Vec3, pct float32) mgl32.Vec3 {
	return a.Mul(1 - pct).Add(b.Mul(pct))
}

// SafeNormalize returns v scaled to unit length, or the zero vector when v
// has no usable length. mgl32's Normalize divides by zero in that case.
func SafeNormalize(v mgl32.Vec3) mgl32.Vec3 {
	l := v.Len()
	if !(l > Epsilon) || math.IsInf(float64(l), 0) {
		return mgl32.Vec3{}
	}
	return v.Mul(1 / l)
}

// Finite reports whether every component of v is a finite number.
func Finite(v mgl32.Vec3) bool {
	for _, c := range v {
		if math.IsNaN(float64(c)) || math.IsInf(float64(c), 0) {
			return false
		}
	}
	return true
}

// FiniteOr returns v when it is finite and fallback otherwise.
func FiniteOr(v, fallback mgl32.Vec3) mgl32.Vec3 {
	if Finite(v) {
		return v
	}
	return fallback
}

func finite32(v float32) bool {
	return !math.IsNaN(float64(v)) && !math.IsInf(float64(v), 0)
}
