package systems

import (
	"slices"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/decker502/embers/pkg/components"
)

// cleanup removes expired and faulted particles, and particles whose
// emitter is gone when they were told to go with it. Marking runs in parallel; compaction
// keeps spawn order.
func (ps *ParticleSystem) cleanup() {
	n := len(ps.particles)
	if n == 0 {
		return
	}
	ps.removed = slices.Grow(ps.removed[:0], n)[:n]

	em := ps.EntityManager
	particles, removed := ps.particles, ps.removed
	parallelFor(n, ps.ChunkSize, ps.Workers, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			p := &particles[i]
			removed[i] = p.Fault != nil || p.Expired() || (p.DespawnWithParent && !em.Exists(p.Emitter))
		}
	})

	kept := particles[:0]
	for i := range particles {
		if !removed[i] {
			kept = append(kept, particles[i])
			continue
		}
		p := &particles[i]
		if rec := ps.emitters[p.Emitter]; rec != nil && rec.state.LiveParticles > 0 {
			rec.state.LiveParticles--
		}
		em.DestroyEntity(p.ID)
	}
	// 释放被移除粒子持有的曲线和修饰器引用
	clear(particles[len(kept):])
	ps.particles = kept
}

// aggregateInstances builds one draw record per live particle in world
// coordinates. Local-space particles are composed with their emitter's
// world transform from this tick.
func (ps *ParticleSystem) aggregateInstances() {
	n := len(ps.particles)
	ps.instances = slices.Grow(ps.instances[:0], n)[:n]

	particles, instances := ps.particles, ps.instances
	parallelFor(n, ps.ChunkSize, ps.Workers, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			instances[i] = ps.instanceOf(&particles[i])
		}
	})
}

func (ps *ParticleSystem) instanceOf(p *components.Particle) components.ParticleInstance {
	inst := components.ParticleInstance{
		Position: p.Position,
		Roll:     p.Rotation,
		Scale:    p.Scale,
		Color:    p.Color,
		Texture:  p.Texture.Handle(),
		Particle: p.ID,
		Emitter:  p.Emitter,
	}
	if p.Texture.IsAtlas() {
		inst.Frame = p.Frame
	}
	if p.Space == components.SpaceLocal {
		if rec := ps.emitters[p.Emitter]; rec != nil {
			inst.Position = rec.world.TransformPoint(p.Position)
			inst.Roll += rec.world.Roll()
			inst.Scale *= rec.world.UniformScale()
		}
	}
	inst.Rotation = mgl32.QuatRotate(inst.Roll, mgl32.Vec3{0, 0, 1})
	return inst
}
