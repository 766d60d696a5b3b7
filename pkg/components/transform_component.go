package components

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// TransformComponent is an entity's transform relative to its parent, or to
// the world for entities without a parent.
type TransformComponent struct {
	Translation mgl32.Vec3
	Rotation    mgl32.Quat
	Scale       mgl32.Vec3
}

// IdentityTransform returns a transform that changes nothing.
func IdentityTransform() TransformComponent {
	return TransformComponent{
		Rotation: mgl32.QuatIdent(),
		Scale:    mgl32.Vec3{1, 1, 1},
	}
}

// TransformAt returns an identity transform moved to (x, y, z).
func TransformAt(x, y, z float32) TransformComponent {
	t := IdentityTransform()
	t.Translation = mgl32.Vec3{x, y, z}
	return t
}

// normalized fills in the zero value so an unset TransformComponent behaves
// as identity.
func (t TransformComponent) normalized() TransformComponent {
	if t.Rotation == (mgl32.Quat{}) {
		t.Rotation = mgl32.QuatIdent()
	}
	if t.Scale == (mgl32.Vec3{}) {
		t.Scale = mgl32.Vec3{1, 1, 1}
	}
	return t
}

// TransformPoint maps a point from this transform's local frame.
func (t TransformComponent) TransformPoint(p mgl32.Vec3) mgl32.Vec3 {
	t = t.normalized()
	scaled := mgl32.Vec3{p[0] * t.Scale[0], p[1] * t.Scale[1], p[2] * t.Scale[2]}
	return t.Rotation.Rotate(scaled).Add(t.Translation)
}

// TransformDirection rotates a direction from the local frame. Scale is
// ignored so unit vectors stay unit.
func (t TransformComponent) TransformDirection(d mgl32.Vec3) mgl32.Vec3 {
	return t.normalized().Rotation.Rotate(d)
}

// Mul composes t (parent) with child, returning child's transform in t's
// parent frame.
func (t TransformComponent) Mul(child TransformComponent) TransformComponent {
	t = t.normalized()
	child = child.normalized()
	return TransformComponent{
		Translation: t.TransformPoint(child.Translation),
		Rotation:    t.Rotation.Mul(child.Rotation).Normalize(),
		Scale:       mgl32.Vec3{t.Scale[0] * child.Scale[0], t.Scale[1] * child.Scale[1], t.Scale[2] * child.Scale[2]},
	}
}

// Roll returns the rotation angle around Z in radians.
func (t TransformComponent) Roll() float32 {
	t = t.normalized()
	x := t.Rotation.Rotate(mgl32.Vec3{1, 0, 0})
	return atan2(x[1], x[0])
}

// UniformScale is the mean of the X and Y scale, used for sprite sizes.
func (t TransformComponent) UniformScale() float32 {
	t = t.normalized()
	return (t.Scale[0] + t.Scale[1]) / 2
}

func atan2(y, x float32) float32 {
	return float32(math.Atan2(float64(y), float64(x)))
}
