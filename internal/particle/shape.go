package particle

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// SpawnPoint is an emitter-local spawn offset with the particle's initial
// facing. Direction is unit length, or zero for shapes that collapse.
type SpawnPoint struct {
	Offset    mgl32.Vec3
	Direction mgl32.Vec3
}

// EmitterShape samples spawn points. The set of shapes is closed:
// CircleSegment, Line, Sphere and Cone.
type EmitterShape interface {
	Sample(r Rand) SpawnPoint
	emitterShape()
}

// CircleSegment emits from the rim of a circle in the XY plane, within
// OpeningAngle radians centred on DirectionAngle. Particles face away from
// the centre.
type CircleSegment struct {
	Radius         JitteredValue
	OpeningAngle   float32
	DirectionAngle float32
}

// FullCircle is a CircleSegment covering every direction.
func FullCircle(radius float32) CircleSegment {
	return CircleSegment{Radius: Fixed(radius), OpeningAngle: 2 * math.Pi}
}

func (CircleSegment) emitterShape() {}

// Sample implements EmitterShape.
func (c CircleSegment) Sample(r Rand) SpawnPoint {
	angle := c.DirectionAngle
	if c.OpeningAngle != 0 {
		angle += (r.Float32() - 0.5) * c.OpeningAngle
	}
	s, co := math.Sincos(float64(angle))
	dir := mgl32.Vec3{float32(co), float32(s), 0}
	return SpawnPoint{Offset: dir.Mul(c.Radius.Sample(r)), Direction: dir}
}

// Line emits along a segment of Length centred on the emitter, rotated
// around Z by Angle. Particles face the rotated +Y axis.
type Line struct {
	Length float32
	Angle  JitteredValue
}

// NewLine returns a line with a fixed angle.
func NewLine(length, angle float32) Line {
	return Line{Length: length, Angle: Fixed(angle)}
}

func (Line) emitterShape() {}

// Sample implements EmitterShape.
func (l Line) Sample(r Rand) SpawnPoint {
	q := mgl32.QuatRotate(l.Angle.Sample(r), AxisZ)
	half := float32(math.Abs(float64(l.Length))) / 2
	along := RandomInRange(r, -half, half)
	return SpawnPoint{
		Offset:    q.Rotate(AxisX.Mul(along)),
		Direction: q.Rotate(AxisY),
	}
}

// SphereFacing selects how particles spawned on a sphere are oriented.
type SphereFacing int

const (
	// FaceOutward points particles away from the centre.
	FaceOutward SphereFacing = iota
	// FaceRandomized blends the outward direction toward a random one.
	FaceRandomized
	// FaceFixed points every particle along a fixed vector.
	FaceFixed
)

// SphereDirection is the orientation policy of a Sphere.
type SphereDirection struct {
	Facing SphereFacing
	// Randomness blends from outward (0) to fully random (1). FaceRandomized only.
	Randomness float32
	// Fixed is the facing for FaceFixed.
	Fixed mgl32.Vec3
}

// Sphere emits from the surface of a sphere of Radius around Center.
type Sphere struct {
	Center    mgl32.Vec3
	Radius    JitteredValue
	Direction SphereDirection
}

func (Sphere) emitterShape() {}

// Sample implements EmitterShape.
func (s Sphere) Sample(r Rand) SpawnPoint {
	u := randomUnitVector(r)
	var dir mgl32.Vec3
	switch s.Direction.Facing {
	case FaceRandomized:
		blend := Clamp01(s.Direction.Randomness)
		dir = SafeNormalize(lerpVec3(u, randomUnitVector(r), blend))
		if dir == (mgl32.Vec3{}) {
			dir = u
		}
	case FaceFixed:
		dir = SafeNormalize(s.Direction.Fixed)
	default:
		dir = u
	}
	return SpawnPoint{Offset: s.Center.Add(u.Mul(s.Radius.Sample(r))), Direction: dir}
}

// randomUnitVector normalises a gaussian sample, which is uniform on the
// sphere. Near-zero samples are redrawn a few times before giving up.
func randomUnitVector(r Rand) mgl32.Vec3 {
	for range 4 {
		v := mgl32.Vec3{float32(r.NormFloat64()), float32(r.NormFloat64()), float32(r.NormFloat64())}
		if n := SafeNormalize(v); n != (mgl32.Vec3{}) {
			return n
		}
	}
	return AxisZ
}

// Cone emits around Direction, deflected by Angle radians at a random roll,
// offset by Radius along the deflected axis.
type Cone struct {
	Direction mgl32.Vec3
	Angle     JitteredValue
	Radius    JitteredValue
}

func (Cone) emitterShape() {}

// Sample implements EmitterShape.
func (c Cone) Sample(r Rand) SpawnPoint {
	axis := SafeNormalize(c.Direction)
	if axis == (mgl32.Vec3{}) {
		axis = AxisZ
	}
	right, up := orthonormalBasis(axis)

	roll := r.Float32() * 2 * math.Pi
	deflect := c.Angle.Sample(r)
	sr, cr := math.Sincos(float64(roll))
	sd, cd := math.Sincos(float64(deflect))

	side := right.Mul(float32(cr)).Add(up.Mul(float32(sr)))
	dir := SafeNormalize(axis.Mul(float32(cd)).Add(side.Mul(float32(sd))))
	if dir == (mgl32.Vec3{}) {
		dir = axis
	}
	return SpawnPoint{Offset: dir.Mul(c.Radius.Sample(r)), Direction: dir}
}

// orthonormalBasis returns two unit vectors perpendicular to axis and to
// each other. axis must be unit length.
func orthonormalBasis(axis mgl32.Vec3) (mgl32.Vec3, mgl32.Vec3) {
	ref := AxisY
	if math.Abs(float64(axis.Dot(ref))) > 0.99 {
		ref = AxisX
	}
	right := axis.Cross(ref).Normalize()
	up := right.Cross(axis).Normalize()
	return right, up
}
