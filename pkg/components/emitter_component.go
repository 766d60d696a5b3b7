package components

import (
	"errors"
	"fmt"
	"math"

	"github.com/decker502/embers/internal/particle"
)

// ParticleSpace selects the frame particles move in.
type ParticleSpace int

const (
	// SpaceWorld detaches particles at spawn; they keep moving in world
	// coordinates wherever the emitter goes afterwards.
	SpaceWorld ParticleSpace = iota
	// SpaceLocal parents particles to the emitter so they follow it.
	SpaceLocal
)

func (s ParticleSpace) String() string {
	if s == SpaceLocal {
		return "local"
	}
	return "world"
}

// ParticleBurst spawns Count extra particles once per cycle when the
// emitter's running time reaches Time (seconds).
type ParticleBurst struct {
	Time  float32
	Count int
}

// EmitterComponent is the configuration of a particle emitter.
//
// Values that shape a particle's evolution (curves, modifiers, rotation
// speed, lifetime limits) are copied into each particle at spawn, so
// editing the emitter only affects particles spawned afterwards.
//
// The emitter's running counters live in EmitterStateComponent.
type EmitterComponent struct {
	// Spawn properties (发射参数)
	MaxParticles int                    // cap on live particles from this emitter
	SpawnRate    particle.ValueOverTime // particles per second, over the cycle fraction
	Shape        particle.EmitterShape
	Bursts       []ParticleBurst // ascending by Time

	// Initial kinematics, sampled per particle (初始运动参数)
	InitialSpeed    particle.JitteredValue
	InitialScale    particle.JitteredValue
	InitialRotation particle.JitteredValue // roll around Z, radians
	RotationSpeed   particle.JitteredValue // radians per second
	// ZValueOverride, when set, replaces the spawn z and flattens the
	// initial direction into the XY plane.
	ZValueOverride *particle.JitteredValue
	// RotateToMovementDirection makes the roll follow the velocity heading
	// (plus InitialRotation) instead of accumulating RotationSpeed.
	RotateToMovementDirection bool

	VelocityModifiers []particle.VelocityModifier // applied in order every tick

	// Lifetime limits (生命周期)
	Lifetime particle.JitteredValue // seconds
	// MaxDistance is a travel cap in linear world units measured from the
	// spawn point; nil means unlimited. Compared as a squared distance.
	MaxDistance *float32

	// Appearance over the particle lifetime (外观)
	Color   particle.ColorOverTime
	Scale   particle.ValueOverTime // multiplies the sampled initial scale
	Texture ParticleTexture

	// Cycle (发射周期)
	Looping  bool
	Duration float32 // cycle length in seconds

	Space                      ParticleSpace
	UseScaledTime              bool
	DespawnOnFinish            bool
	DespawnParticlesWithSystem bool
}

// Distance returns a MaxDistance value.
func Distance(d float32) *float32 {
	return &d
}

// DefaultEmitter returns an emitter that spawns 5 white particles per second
// in every direction, looping every 5 seconds.
func DefaultEmitter() EmitterComponent {
	return EmitterComponent{
		MaxParticles:    100,
		SpawnRate:       particle.Constant(5),
		Shape:           particle.FullCircle(0),
		InitialSpeed:    particle.Fixed(1),
		InitialScale:    particle.Fixed(1),
		InitialRotation: particle.Fixed(0),
		RotationSpeed:   particle.Fixed(0),
		Lifetime:        particle.Fixed(5),
		Color:           particle.ConstantColor(particle.White),
		Scale:           particle.Constant(1),
		Looping:         true,
		Duration:        5,
		Space:           SpaceWorld,
		UseScaledTime:   true,
	}
}

// ErrInvalidEmitter wraps every emitter validation failure.
var ErrInvalidEmitter = errors.New("invalid emitter")

// Validate 验证发射器配置
//
// 检查项：
//   - MaxParticles 不能为负
//   - Duration 必须为正的有限值
//   - Lifetime 的下界必须为正
//   - MaxDistance 不能为负
//   - Bursts 必须按时间升序、数量非负
//   - Curve 类型的参数必须结构合法
func (e *EmitterComponent) Validate() error {
	if e.MaxParticles < 0 {
		return fmt.Errorf("%w: max particles %d < 0", ErrInvalidEmitter, e.MaxParticles)
	}
	if !(e.Duration > 0) || math.IsInf(float64(e.Duration), 0) {
		return fmt.Errorf("%w: duration %v must be a positive number", ErrInvalidEmitter, e.Duration)
	}
	if lo, _ := e.Lifetime.Bounds(); !(lo > 0) {
		return fmt.Errorf("%w: lifetime can reach %v, must stay positive", ErrInvalidEmitter, lo)
	}
	if e.MaxDistance != nil && !(*e.MaxDistance >= 0) {
		return fmt.Errorf("%w: max distance %v < 0", ErrInvalidEmitter, *e.MaxDistance)
	}
	if e.Shape == nil {
		return fmt.Errorf("%w: no emitter shape", ErrInvalidEmitter)
	}
	for i, b := range e.Bursts {
		if b.Count < 0 {
			return fmt.Errorf("%w: burst %d has negative count", ErrInvalidEmitter, i)
		}
		if i > 0 && b.Time < e.Bursts[i-1].Time {
			return fmt.Errorf("%w: burst %d at %vs comes before burst %d at %vs", ErrInvalidEmitter, i, b.Time, i-1, e.Bursts[i-1].Time)
		}
	}
	if c, ok := e.SpawnRate.(*particle.Curve[float32]); ok {
		if err := c.Validate(); err != nil {
			return fmt.Errorf("%w: spawn rate: %w", ErrInvalidEmitter, err)
		}
	}
	if c, ok := e.Scale.(*particle.Curve[float32]); ok {
		if err := c.Validate(); err != nil {
			return fmt.Errorf("%w: scale: %w", ErrInvalidEmitter, err)
		}
	}
	if g, ok := e.Color.(*particle.Curve[particle.Color]); ok {
		if err := g.Validate(); err != nil {
			return fmt.Errorf("%w: color: %w", ErrInvalidEmitter, err)
		}
	}
	if err := e.Texture.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidEmitter, err)
	}
	return nil
}
