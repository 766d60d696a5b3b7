package particle

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Kinematics is the per-particle input of one velocity-modifier pass.
// Velocity is updated in place by ApplyVelocityModifiers.
type Kinematics struct {
	Velocity    mgl32.Vec3
	Position    mgl32.Vec3
	LifetimePct float32
	// Elapsed is the clock time used to animate noise fields.
	Elapsed float32
	Delta   float32

	// 每 tick 最多计算一次，按需填充
	haveSpeedSq bool
	haveSpeed   bool
	haveDir     bool
	speedSq     float32
	speed       float32
	dir         mgl32.Vec3
	memoVel     mgl32.Vec3 // velocity the memo was taken from
}

// NewKinematics prepares the memo for one particle tick.
func NewKinematics(velocity, position mgl32.Vec3, lifetimePct, elapsed, delta float32) Kinematics {
	return Kinematics{
		Velocity:    velocity,
		Position:    position,
		LifetimePct: lifetimePct,
		Elapsed:     elapsed,
		Delta:       delta,
	}
}

// SpeedSquared is |velocity|², computed once per tick.
func (k *Kinematics) SpeedSquared() float32 {
	if !k.haveSpeedSq {
		k.memoVel = k.Velocity
		k.speedSq = k.memoVel.Dot(k.memoVel)
		k.haveSpeedSq = true
	}
	return k.speedSq
}

// Speed is |velocity|, computed once per tick.
func (k *Kinematics) Speed() float32 {
	if !k.haveSpeed {
		k.speed = sqrt32(k.SpeedSquared())
		k.haveSpeed = true
	}
	return k.speed
}

// Direction is normalize(velocity), or zero when the particle is at rest.
// Computed once per tick from the same velocity as SpeedSquared.
func (k *Kinematics) Direction() mgl32.Vec3 {
	if !k.haveDir {
		if s := k.Speed(); s > Epsilon && finite32(s) {
			k.dir = k.memoVel.Mul(1 / s)
		}
		k.haveDir = true
	}
	return k.dir
}

// VelocityModifier changes a particle's velocity each tick. The set of
// modifiers is closed: VectorAcceleration, ScalarAcceleration, Drag,
// Noise2D, Noise3D and PerlinNoise.
type VelocityModifier interface {
	Apply(k *Kinematics)
	velocityModifier()
}

// ApplyVelocityModifiers runs mods in order against k. A result that is not
// finite leaves the velocity as it was before the offending modifier.
func ApplyVelocityModifiers(mods []VelocityModifier, k *Kinematics) {
	for _, m := range mods {
		before := k.Velocity
		m.Apply(k)
		if !Finite(k.Velocity) {
			k.Velocity = before
		}
	}
}

// VectorAcceleration adds Curve(pct) * dt to the velocity.
type VectorAcceleration struct {
	Curve VectorOverTime
}

func (VectorAcceleration) velocityModifier() {}

// Apply implements VelocityModifier.
func (m VectorAcceleration) Apply(k *Kinematics) {
	k.Velocity = k.Velocity.Add(EvalVector(m.Curve, k.LifetimePct, nil).Mul(k.Delta))
}

// ScalarAcceleration accelerates along the current heading by Curve(pct).
// A particle at rest is not affected.
type ScalarAcceleration struct {
	Curve ValueOverTime
}

func (ScalarAcceleration) velocityModifier() {}

// Apply implements VelocityModifier.
func (m ScalarAcceleration) Apply(k *Kinematics) {
	a := EvalValue(m.Curve, k.LifetimePct, nil)
	k.Velocity = k.Velocity.Add(k.Direction().Mul(a * k.Delta))
}

// Drag is quadratic drag with coefficient Curve(pct). Non-positive
// coefficients do nothing. The magnitude uses the tick's memoized speed, but
// the loss is capped at the velocity still left along the memoized heading,
// so drag never reverses a particle even after earlier modifiers slowed it.
type Drag struct {
	Curve ValueOverTime
}

func (Drag) velocityModifier() {}

// Apply implements VelocityModifier.
func (m Drag) Apply(k *Kinematics) {
	d := EvalValue(m.Curve, k.LifetimePct, nil)
	if !(d > 0) {
		return
	}
	dir := k.Direction()
	along := k.Velocity.Dot(dir)
	if !(along > 0) {
		return
	}
	loss := min(k.SpeedSquared()*d*k.Delta, along)
	k.Velocity = k.Velocity.Sub(dir.Mul(loss))
}
