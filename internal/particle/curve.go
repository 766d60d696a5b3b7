package particle

import (
	"errors"
	"fmt"
	"log"
	"slices"

	"github.com/go-gl/mathgl/mgl32"
)

// Curve validation errors.
var (
	ErrCurveTooShort = errors.New("curve needs at least two points")
	ErrCurveStart    = errors.New("curve must start at 0")
	ErrCurveEnd      = errors.New("curve must end at 1")
	ErrCurveUnsorted = errors.New("curve points must be strictly ascending")
)

// CurvePoint pins Value at a lifetime fraction Point in [0, 1].
type CurvePoint[T any] struct {
	Value T
	Point float32
}

// At is shorthand for building a CurvePoint.
func At[T any](value T, point float32) CurvePoint[T] {
	return CurvePoint[T]{Value: value, Point: point}
}

// Curve is a piecewise-linear function over [0, 1] defined by sorted
// control points. The first point must be at 0 and the last at 1.
//
// A Curve is immutable once built and safe for concurrent evaluation; the
// sequential fast path keeps its cursor in a caller-owned CurveHint.
type Curve[T any] struct {
	points   []CurvePoint[T]
	lerp     func(a, b T, pct float32) T
	sentinel T
}

// CurveHint remembers the last bracket found by AtHinted. The zero value is
// ready to use.
type CurveHint struct {
	index int
}

// Reset moves the hint back to the first bracket.
func (h *CurveHint) Reset() { h.index = 0 }

func newCurve[T any](points []CurvePoint[T], lerp func(a, b T, pct float32) T, sentinel T) *Curve[T] {
	c := &Curve[T]{
		points:   slices.Clone(points),
		lerp:     lerp,
		sentinel: sentinel,
	}
	if err := c.Validate(); err != nil {
		if debugAssertions {
			panic(fmt.Sprintf("particle: malformed curve: %v", err))
		}
		log.Printf("[Curve] Warning: malformed curve (%v), out-of-range lookups return the sentinel", err)
	}
	return c
}

// NewCurve builds a scalar curve. Misconfigured curves evaluate to 0 where
// no bracket can be found.
func NewCurve(points ...CurvePoint[float32]) *Curve[float32] {
	return newCurve(points, lerpf, 0)
}

// NewGradient builds a color curve. Misconfigured gradients evaluate to
// Fuchsia where no bracket can be found.
func NewGradient(points ...CurvePoint[Color]) *Curve[Color] {
	return newCurve(points, Color.Lerp, Fuchsia)
}

// NewVectorCurve builds a vector curve. Misconfigured curves evaluate to the
// zero vector where no bracket can be found.
func NewVectorCurve(points ...CurvePoint[mgl32.Vec3]) *Curve[mgl32.Vec3] {
	return newCurve(points, lerpVec3, mgl32.Vec3{})
}

// Points returns a copy of the control points.
func (c *Curve[T]) Points() []CurvePoint[T] {
	return slices.Clone(c.points)
}

// Len returns the number of control points.
func (c *Curve[T]) Len() int {
	return len(c.points)
}

// Sentinel returns the value produced for lookups that find no bracket.
func (c *Curve[T]) Sentinel() T {
	return c.sentinel
}

// Validate checks the structural requirements of the curve.
func (c *Curve[T]) Validate() error {
	return ValidatePoints(c.points)
}

// ValidatePoints checks that points start at 0, end at 1 and ascend
// strictly.
func ValidatePoints[T any](points []CurvePoint[T]) error {
	n := len(points)
	if n < 2 {
		return fmt.Errorf("%w: got %d", ErrCurveTooShort, n)
	}
	if !RoughlyEqual(points[0].Point, 0) {
		return fmt.Errorf("%w: first point at %v", ErrCurveStart, points[0].Point)
	}
	if !RoughlyEqual(points[n-1].Point, 1) {
		return fmt.Errorf("%w: last point at %v", ErrCurveEnd, points[n-1].Point)
	}
	for i := 1; i < n; i++ {
		if !(points[i-1].Point < points[i].Point) {
			return fmt.Errorf("%w: point %d (%v) after %v", ErrCurveUnsorted, i, points[i].Point, points[i-1].Point)
		}
	}
	return nil
}

// At evaluates the curve at pct. pct outside (0, 1) returns the matching
// endpoint value.
func (c *Curve[T]) At(pct float32) T {
	v, _ := c.Lookup(pct)
	return v
}

// Lookup is At with ok=false when the curve is misconfigured and the
// sentinel was returned.
func (c *Curve[T]) Lookup(pct float32) (T, bool) {
	if v, done, ok := c.endpoint(pct); done {
		return v, ok
	}
	return c.scan(0, pct, nil)
}

// AtHinted evaluates the curve starting the bracket search at hint. Forward
// sequential queries are O(1) amortized; a pct below the hinted bracket
// restarts the search from the first point.
func (c *Curve[T]) AtHinted(pct float32, hint *CurveHint) T {
	if v, done, _ := c.endpoint(pct); done {
		return v
	}
	start := hint.index
	if start < 0 || start >= len(c.points)-1 || pct < c.points[start].Point {
		start = 0
	}
	v, _ := c.scan(start, pct, hint)
	return v
}

func (c *Curve[T]) endpoint(pct float32) (T, bool, bool) {
	n := len(c.points)
	if n < 2 {
		return c.sentinel, true, false
	}
	// NaN 也落在这里，返回起点值
	if !(pct > 0) {
		return c.points[0].Value, true, true
	}
	if pct >= 1 {
		return c.points[n-1].Value, true, true
	}
	var zero T
	return zero, false, false
}

func (c *Curve[T]) scan(start int, pct float32, hint *CurveHint) (T, bool) {
	n := len(c.points)
	for i := start; i < n-1; i++ {
		a, b := c.points[i], c.points[i+1]
		if RoughlyEqual(a.Point, pct) {
			if hint != nil {
				hint.index = i
			}
			return a.Value, true
		}
		if pct > a.Point && pct < b.Point {
			if hint != nil {
				hint.index = i
			}
			return c.lerp(a.Value, b.Value, (pct-a.Point)/(b.Point-a.Point)), true
		}
	}
	if last := c.points[n-1]; RoughlyEqual(last.Point, pct) {
		return last.Value, true
	}
	return c.sentinel, false
}
