package components

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/decker502/embers/internal/particle"
	"github.com/decker502/embers/pkg/ecs"
)

// Particle is the state of one live particle.
//
// Particles are kept in a dense slice owned by the particle system rather
// than as ECS components; each still has an entity handle so Local-space
// particles can be attached to their emitter.
//
// Everything a particle needs to evolve is copied from the emitter at spawn.
// Emitter is a back-reference only: the particle keeps working if the
// emitter is reconfigured or destroyed.
type Particle struct {
	ID      ecs.EntityID
	Emitter ecs.EntityID

	// Lifecycle (生命周期, 秒)
	Age         float32
	MaxLifetime float32

	// Kinematics. Position and SpawnPosition are world coordinates for
	// SpaceWorld particles and emitter-local for SpaceLocal ones.
	Position        mgl32.Vec3
	SpawnPosition   mgl32.Vec3
	Velocity        mgl32.Vec3
	DistanceSquared float32 // from SpawnPosition, recomputed each tick

	// Rotation (roll around Z, 弧度)
	Rotation        float32
	InitialRotation float32
	RotationSpeed   float32

	// Appearance (外观)
	InitialScale float32
	Scale        float32
	Color        particle.Color
	Texture      ParticleTexture
	Frame        int // atlas frame; resolved at spawn, advanced for animated atlases

	// Copied from the emitter at spawn
	ScaleCurve        particle.ValueOverTime
	ColorCurve        particle.ColorOverTime
	Modifiers         []particle.VelocityModifier
	UseScaledTime     bool
	HasMaxDistance    bool
	MaxDistance       float32 // linear units
	DespawnWithParent bool
	Space             ParticleSpace
	RotateToMovement  bool

	// Curve cursors for sequential evaluation
	ScaleHint particle.CurveHint
	ColorHint particle.CurveHint

	// Fault holds the panic value when an update pass failed on this
	// particle. Faulted particles are skipped and removed by cleanup.
	Fault any
}

// LifetimePct is Age / MaxLifetime. A particle without a positive lifetime
// is treated as expired.
func (p *Particle) LifetimePct() float32 {
	if !(p.MaxLifetime > 0) {
		return 1
	}
	return p.Age / p.MaxLifetime
}

// Expired reports whether the particle has used up its lifetime or its
// maximum travel distance.
func (p *Particle) Expired() bool {
	if !(p.Age < p.MaxLifetime) {
		return true
	}
	return p.HasMaxDistance && p.DistanceSquared >= p.MaxDistance*p.MaxDistance
}

// ParticleInstance is the draw-ready record of one particle.
// Positions are world coordinates regardless of the particle's space.
type ParticleInstance struct {
	Position mgl32.Vec3
	Rotation mgl32.Quat // full 3D orientation
	Roll     float32    // rotation around Z for 2D renderers
	Scale    float32
	Color    particle.Color
	Texture  TextureID
	Frame    int // atlas frame; 0 for sprites

	Particle ecs.EntityID
	Emitter  ecs.EntityID
}
