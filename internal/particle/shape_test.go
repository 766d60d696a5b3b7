package particle

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func allShapes() map[string]EmitterShape {
	return map[string]EmitterShape{
		"circle":         FullCircle(3),
		"circle segment": CircleSegment{Radius: Jittered(1, 0, 1), OpeningAngle: math.Pi / 2, DirectionAngle: math.Pi},
		"line":           Line{Length: 10, Angle: Jittered(0, -1, 1)},
		"sphere":         Sphere{Center: mgl32.Vec3{1, 2, 3}, Radius: Fixed(2)},
		"sphere random":  Sphere{Radius: Fixed(2), Direction: SphereDirection{Facing: FaceRandomized, Randomness: 0.5}},
		"sphere fixed":   Sphere{Radius: Fixed(2), Direction: SphereDirection{Facing: FaceFixed, Fixed: mgl32.Vec3{0, 3, 0}}},
		"cone":           Cone{Direction: mgl32.Vec3{0, 0, 1}, Angle: Jittered(0, 0, 0.5), Radius: Fixed(1)},
	}
}

// TestShapes_UnitDirections tests that every shape yields finite offsets and
// unit-length directions
func TestShapes_UnitDirections(t *testing.T) {
	for name, shape := range allShapes() {
		t.Run(name, func(t *testing.T) {
			r := NewRand(5)
			for i := 0; i < 1000; i++ {
				p := shape.Sample(r)
				if !Finite(p.Offset) || !Finite(p.Direction) {
					t.Fatalf("sample %d not finite: %+v", i, p)
				}
				if l := p.Direction.Len(); !approxEqual(l, 1, 1e-4) {
					t.Fatalf("sample %d direction length %v, want 1", i, l)
				}
			}
		})
	}
}

// TestShapes_Degenerate tests zero radius and zero length configurations
func TestShapes_Degenerate(t *testing.T) {
	shapes := map[string]EmitterShape{
		"circle":      FullCircle(0),
		"line":        NewLine(0, 0),
		"sphere":      Sphere{Radius: Fixed(0)},
		"cone":        Cone{Direction: mgl32.Vec3{1, 0, 0}},
		"cone no dir": Cone{},
		"zero fixed":  Sphere{Radius: Fixed(0), Direction: SphereDirection{Facing: FaceFixed}},
	}
	for name, shape := range shapes {
		t.Run(name, func(t *testing.T) {
			r := NewRand(9)
			for i := 0; i < 100; i++ {
				p := shape.Sample(r)
				if !Finite(p.Offset) || !Finite(p.Direction) {
					t.Fatalf("sample %d not finite: %+v", i, p)
				}
				if p.Offset.Len() > 1e-6 {
					t.Fatalf("sample %d offset %v, want origin", i, p.Offset)
				}
			}
		})
	}
}

// TestCircleSegment_OpeningAngle tests that angles stay within the segment
func TestCircleSegment_OpeningAngle(t *testing.T) {
	c := CircleSegment{Radius: Fixed(2), OpeningAngle: math.Pi / 2, DirectionAngle: math.Pi / 2}
	r := NewRand(1)
	for i := 0; i < 1000; i++ {
		p := c.Sample(r)
		angle := math.Atan2(float64(p.Direction[1]), float64(p.Direction[0]))
		if angle < math.Pi/4-1e-5 || angle > 3*math.Pi/4+1e-5 {
			t.Fatalf("angle %v outside [π/4, 3π/4]", angle)
		}
		if !approxEqual(p.Offset.Len(), 2, 1e-5) {
			t.Fatalf("offset length %v, want 2", p.Offset.Len())
		}
	}

	// 没有开口角时不消耗随机数
	cr := &countingRand{r: NewRand(1)}
	CircleSegment{Radius: Fixed(1), DirectionAngle: 1}.Sample(cr)
	if cr.calls != 0 {
		t.Errorf("closed segment consumed %d random draws", cr.calls)
	}
}

// TestLine_Offsets tests that line offsets lie along the rotated segment
func TestLine_Offsets(t *testing.T) {
	l := NewLine(4, math.Pi/2)
	r := NewRand(2)
	for i := 0; i < 500; i++ {
		p := l.Sample(r)
		// 旋转 90° 后线段沿 Y 轴，朝向为 -X
		if !approxEqual(p.Offset[0], 0, 1e-5) || p.Offset[1] < -2-1e-5 || p.Offset[1] > 2+1e-5 {
			t.Fatalf("offset %v not on the rotated segment", p.Offset)
		}
		if !approxEqual(p.Direction[0], -1, 1e-5) {
			t.Fatalf("direction %v, want -X", p.Direction)
		}
	}
}

// TestSphere_Uniform tests that outward directions average to roughly zero
func TestSphere_Uniform(t *testing.T) {
	s := Sphere{Radius: Fixed(1)}
	r := NewRand(8)
	const n = 20000
	var sum mgl32.Vec3
	var upper int
	for i := 0; i < n; i++ {
		p := s.Sample(r)
		sum = sum.Add(p.Direction)
		if p.Direction[2] > 0 {
			upper++
		}
	}
	mean := sum.Mul(1.0 / n)
	if mean.Len() > 0.03 {
		t.Errorf("mean direction %v, want near zero", mean)
	}
	if frac := float32(upper) / n; frac < 0.47 || frac > 0.53 {
		t.Errorf("upper hemisphere fraction %v, want about 0.5", frac)
	}
}

// TestCone_Angle tests that directions stay within the cone half-angle
func TestCone_Angle(t *testing.T) {
	axis := mgl32.Vec3{0, 1, 0}
	c := Cone{Direction: axis, Angle: Jittered(0, 0, 0.3), Radius: Fixed(2)}
	r := NewRand(4)
	minCos := float32(math.Cos(0.3)) - 1e-5
	for i := 0; i < 1000; i++ {
		p := c.Sample(r)
		if cos := p.Direction.Dot(axis); cos < minCos {
			t.Fatalf("direction %v deflected beyond 0.3 rad (cos %v)", p.Direction, cos)
		}
		if !approxEqual(p.Offset.Len(), 2, 1e-4) {
			t.Fatalf("offset length %v, want 2", p.Offset.Len())
		}
	}
}
