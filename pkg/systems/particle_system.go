package systems

import (
	"fmt"
	"sync/atomic"

	"github.com/decker502/embers/internal/particle"
	"github.com/decker502/embers/pkg/components"
	"github.com/decker502/embers/pkg/ecs"
)

// Clock supplies frame timing. scaled selects the virtual (time-scaled)
// clock instead of the raw one.
type Clock interface {
	Delta(scaled bool) float32
	Elapsed(scaled bool) float32
}

// ParticleSystem spawns, evolves and removes particles for every emitter in
// the EntityManager.
//
// Emitters are entities carrying EmitterComponent, EmitterStateComponent
// and, while spawning, PlayingComponent. Particles are kept in a dense slice
// in spawn order; each has an entity handle for lifecycle and parenting.
//
// Each Update runs the passes in a fixed order:
//  1. Spawner, emitter by emitter on the calling goroutine
//  2. Lifetime, color, transform and distance passes, parallel across particles
//  3. Cleanup, then instance aggregation
//
// A ParticleSystem is not safe for concurrent use.
type ParticleSystem struct {
	EntityManager *ecs.EntityManager
	Clock         Clock
	Transforms    TransformProvider
	Rand          particle.Rand

	// ChunkSize and Workers tune the parallel passes; zero picks defaults.
	ChunkSize int
	Workers   int

	particles []components.Particle
	instances []components.ParticleInstance
	removed   []bool
	faulted   atomic.Bool // an update pass recovered from a panic this tick

	// emitters keeps per-emitter bookkeeping that must outlive the emitter
	// entity: its live count and last known world transform.
	emitters map[ecs.EntityID]*emitterRecord
}

type emitterRecord struct {
	state *components.EmitterStateComponent
	world components.TransformComponent
}

// NewParticleSystem creates a ParticleSystem that reads time from clock and
// draws randomness from rng. Emitter world transforms come from the
// EntityManager's parent hierarchy.
func NewParticleSystem(em *ecs.EntityManager, clock Clock, rng particle.Rand) *ParticleSystem {
	return &ParticleSystem{
		EntityManager: em,
		Clock:         clock,
		Transforms:    NewHierarchyTransforms(em),
		Rand:          rng,
		ChunkSize:     DefaultChunkSize,
		emitters:      make(map[ecs.EntityID]*emitterRecord),
	}
}

// AddEmitter validates cfg and creates an emitter entity at transform.
// Playing emitters start spawning on the next Update.
func (ps *ParticleSystem) AddEmitter(cfg components.EmitterComponent, transform components.TransformComponent, playing bool) (ecs.EntityID, error) {
	if err := cfg.Validate(); err != nil {
		return ecs.InvalidEntity, fmt.Errorf("failed to add emitter: %w", err)
	}

	id := ps.EntityManager.CreateEntity()
	ps.EntityManager.AddComponent(id, &cfg)
	ps.EntityManager.AddComponent(id, &components.EmitterStateComponent{})
	ps.EntityManager.AddComponent(id, &transform)
	if playing {
		ps.EntityManager.AddComponent(id, &components.PlayingComponent{})
	}
	return id, nil
}

// Play lets an emitter spawn. A finished or halted emitter restarts its cycle.
func (ps *ParticleSystem) Play(id ecs.EntityID) {
	if !ecs.HasComponent[*components.EmitterComponent](ps.EntityManager, id) {
		return
	}
	if st, ok := ecs.GetComponent[*components.EmitterStateComponent](ps.EntityManager, id); ok && (st.Finished || st.Halted) {
		st.Reset()
	}
	ps.EntityManager.AddComponent(id, &components.PlayingComponent{})
}

// Stop prevents an emitter from spawning. Its live particles keep evolving.
func (ps *ParticleSystem) Stop(id ecs.EntityID) {
	ecs.RemoveComponent[*components.PlayingComponent](ps.EntityManager, id)
}

// IsPlaying reports whether the emitter is spawning.
func (ps *ParticleSystem) IsPlaying(id ecs.EntityID) bool {
	return ecs.HasComponent[*components.PlayingComponent](ps.EntityManager, id)
}

// Update advances every emitter and particle by one frame, then removes the
// entities destroyed during the frame.
func (ps *ParticleSystem) Update() {
	if ps.Clock == nil {
		return
	}
	ps.snapshotEmitters()
	ps.updateEmitters()
	ps.updateParticles()
	ps.cleanup()
	ps.aggregateInstances()
	ps.EntityManager.RemoveMarkedEntities()
}

// Particles returns the live particles in spawn order. The slice is owned by
// the system and valid until the next Update.
func (ps *ParticleSystem) Particles() []components.Particle {
	return ps.particles
}

// Instances returns the draw-ready records built by the last Update, in the
// same order as Particles.
func (ps *ParticleSystem) Instances() []components.ParticleInstance {
	return ps.instances
}

// ParticleCount returns the number of live particles across all emitters.
func (ps *ParticleSystem) ParticleCount() int {
	return len(ps.particles)
}

// EmitterState returns the running state of an emitter, including one that
// has been destroyed but still has live particles.
func (ps *ParticleSystem) EmitterState(id ecs.EntityID) (*components.EmitterStateComponent, bool) {
	if st, ok := ecs.GetComponent[*components.EmitterStateComponent](ps.EntityManager, id); ok {
		return st, true
	}
	if rec, ok := ps.emitters[id]; ok {
		return rec.state, true
	}
	return nil, false
}

// Clear removes every live particle. Emitters are kept and keep playing.
func (ps *ParticleSystem) Clear() {
	for i := range ps.particles {
		ps.EntityManager.DestroyEntity(ps.particles[i].ID)
	}
	clear(ps.particles)
	ps.particles = ps.particles[:0]
	ps.instances = ps.instances[:0]
	for id, rec := range ps.emitters {
		rec.state.LiveParticles = 0
		if !ps.EntityManager.Exists(id) {
			delete(ps.emitters, id)
		}
	}
	ps.EntityManager.RemoveMarkedEntities()
}

// snapshotEmitters records the world transform of every emitter once per
// frame. Records of destroyed emitters are kept while they have particles.
func (ps *ParticleSystem) snapshotEmitters() {
	for _, id := range ecs.GetEntitiesWith2[*components.EmitterComponent, *components.EmitterStateComponent](ps.EntityManager) {
		st, _ := ecs.GetComponent[*components.EmitterStateComponent](ps.EntityManager, id)
		rec, ok := ps.emitters[id]
		if !ok || rec.state != st {
			rec = &emitterRecord{state: st}
			ps.emitters[id] = rec
		}
	}

	for id, rec := range ps.emitters {
		if world, ok := ps.Transforms.WorldTransform(id); ok {
			rec.world = world
			continue
		}
		if rec.state.LiveParticles == 0 {
			delete(ps.emitters, id)
		}
	}
}
