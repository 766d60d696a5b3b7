package systems

import (
	"log"
	"math"

	"github.com/decker502/embers/internal/particle"
	"github.com/decker502/embers/pkg/components"
)

// frameTiming caches both clock flavours for one tick so the parallel
// passes never call into the Clock.
type frameTiming struct {
	rawDelta, scaledDelta     float32
	rawElapsed, scaledElapsed float32
}

func (f frameTiming) delta(scaled bool) float32 {
	if scaled {
		return f.scaledDelta
	}
	return f.rawDelta
}

func (f frameTiming) elapsed(scaled bool) float32 {
	if scaled {
		return f.scaledElapsed
	}
	return f.rawElapsed
}

// updateParticles runs the per-particle passes in order. Each pass touches
// only the particle at hand, so every pass is split across workers.
func (ps *ParticleSystem) updateParticles() {
	if len(ps.particles) == 0 {
		return
	}
	timing := frameTiming{
		rawDelta:      ps.Clock.Delta(false),
		scaledDelta:   ps.Clock.Delta(true),
		rawElapsed:    ps.Clock.Elapsed(false),
		scaledElapsed: ps.Clock.Elapsed(true),
	}

	ps.forEachParticle(func(p *components.Particle) { updateLifetime(p, timing) })
	ps.forEachParticle(updateColor)
	ps.forEachParticle(func(p *components.Particle) { updateTransform(p, timing) })
	ps.forEachParticle(updateDistance)

	if ps.faulted.Swap(false) {
		ps.haltFaultedEmitters()
	}
}

// forEachParticle runs fn over every particle that has not faulted.
// A panic in fn marks that particle and the chunk carries on with the next.
func (ps *ParticleSystem) forEachParticle(fn func(p *components.Particle)) {
	particles := ps.particles
	parallelFor(len(particles), ps.ChunkSize, ps.Workers, func(lo, hi int) {
		for i := lo; i < hi; {
			i = ps.runGuarded(particles, i, hi, fn)
		}
	})
}

// runGuarded applies fn to particles[i:hi] and returns hi, or the index
// after the particle that panicked.
func (ps *ParticleSystem) runGuarded(particles []components.Particle, i, hi int, fn func(p *components.Particle)) (next int) {
	defer func() {
		if r := recover(); r != nil {
			particles[i].Fault = r
			ps.faulted.Store(true)
			next = i + 1
		}
	}()
	for ; i < hi; i++ {
		if particles[i].Fault == nil {
			fn(&particles[i])
		}
	}
	return hi
}

// haltFaultedEmitters stops every emitter that owns a faulted particle.
// Each emitter is logged once.
func (ps *ParticleSystem) haltFaultedEmitters() {
	for i := range ps.particles {
		p := &ps.particles[i]
		if p.Fault == nil {
			continue
		}
		rec := ps.emitters[p.Emitter]
		if rec == nil || rec.state.Halted {
			continue
		}
		log.Printf("[ParticleSystem] 发射器 %d 的粒子更新失败，已停止: %v", p.Emitter, p.Fault)
		rec.state.Halted = true
		ps.Stop(p.Emitter)
	}
}

func updateLifetime(p *components.Particle, timing frameTiming) {
	p.Age += timing.delta(p.UseScaledTime)
}

func updateColor(p *components.Particle) {
	p.Color = particle.EvalColor(p.ColorCurve, p.LifetimePct(), &p.ColorHint)
}

// updateTransform integrates velocity, then refreshes scale, roll and the
// animated atlas frame.
func updateTransform(p *components.Particle, timing frameTiming) {
	dt := timing.delta(p.UseScaledTime)
	pct := p.LifetimePct()

	if len(p.Modifiers) > 0 {
		k := particle.NewKinematics(p.Velocity, p.Position, pct, timing.elapsed(p.UseScaledTime), dt)
		particle.ApplyVelocityModifiers(p.Modifiers, &k)
		p.Velocity = k.Velocity
	}
	p.Position = particle.FiniteOr(p.Position.Add(p.Velocity.Mul(dt)), p.Position)
	p.Scale = scaleAt(p, pct)

	if p.RotateToMovement {
		if v := p.Velocity; v[0]*v[0]+v[1]*v[1] > particle.Epsilon {
			p.Rotation = float32(math.Atan2(float64(v[1]), float64(v[0]))) + p.InitialRotation
		}
	} else {
		p.Rotation += p.RotationSpeed * dt
	}

	if anim, ok := p.Texture.Index.(components.AtlasAnimated); ok {
		p.Frame = anim.Frame(p.Age)
	}
}

// updateDistance recomputes the squared distance from the spawn point.
func updateDistance(p *components.Particle) {
	d := p.Position.Sub(p.SpawnPosition)
	p.DistanceSquared = d.Dot(d)
}
