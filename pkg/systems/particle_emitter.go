package systems

import (
	"log"
	"math"
	"slices"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/decker502/embers/internal/particle"
	"github.com/decker502/embers/pkg/components"
	"github.com/decker502/embers/pkg/ecs"
)

// particle_emitter.go - 粒子发射器相关方法
//
// 本文件包含 ParticleSystem 的发射逻辑：
//  - 发射周期推进（running time、每秒计数窗口、循环/结束）
//  - 每帧发射数量计算（spawn rate、burst、上限）
//  - 粒子生成（spawnParticle）
//
// 发射器逐个在调用方 goroutine 上处理，共享同一个 Rand。

// updateEmitters runs the spawner for every playing emitter.
func (ps *ParticleSystem) updateEmitters() {
	emitterEntities := ecs.GetEntitiesWith3[
		*components.EmitterComponent,
		*components.EmitterStateComponent,
		*components.PlayingComponent,
	](ps.EntityManager)

	for _, emitterID := range emitterEntities {
		emitter, ok := ecs.GetComponent[*components.EmitterComponent](ps.EntityManager, emitterID)
		if !ok {
			continue
		}
		state, ok := ecs.GetComponent[*components.EmitterStateComponent](ps.EntityManager, emitterID)
		if !ok || state.Halted {
			continue
		}
		ps.updateEmitter(emitterID, emitter, state)
	}
}

// updateEmitter advances one emitter's cycle and spawns this tick's
// particles. A panic stops this emitter only.
func (ps *ParticleSystem) updateEmitter(emitterID ecs.EntityID, emitter *components.EmitterComponent, state *components.EmitterStateComponent) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[ParticleSystem] 发射器 %d 已停止: %v", emitterID, r)
			state.Halted = true
			ps.Stop(emitterID)
		}
	}()

	state.RunningTime += ps.Clock.Delta(emitter.UseScaledTime)

	// 半步滞后，避免浮点误差导致同一秒翻转两次
	if floor32(state.RunningTime) > state.CurrentSecond+0.5 {
		state.CurrentSecond = floor32(state.RunningTime)
		state.SpawnedThisSecond = 0
	}

	if state.RunningTime >= emitter.Duration {
		if !emitter.Looping {
			if state.LiveParticles == 0 && !state.Finished {
				ps.finishEmitter(emitterID, emitter, state)
			}
			return
		}
		state.RunningTime -= emitter.Duration
		state.CurrentSecond = floor32(state.RunningTime)
		state.SpawnedThisSecond = 0
		state.BurstCursor = 0
		state.Cycles++
	}

	if state.LiveParticles >= emitter.MaxParticles {
		return
	}
	remaining := emitter.MaxParticles - state.LiveParticles

	pct := state.RunningTime / emitter.Duration
	rate := particle.EvalValue(emitter.SpawnRate, pct, nil)
	if math.IsNaN(float64(rate)) {
		rate = 0
	}

	progress := state.RunningTime - floor32(state.RunningTime)
	toSpawn := clampCount(math.Floor(float64(progress*rate-float32(state.SpawnedThisSecond))), remaining)

	// 每帧最多触发一个 burst；循环回绕已在上面处理，所以这里看到的是重置后的游标
	extra := 0
	if state.BurstCursor < len(emitter.Bursts) {
		if burst := emitter.Bursts[state.BurstCursor]; state.RunningTime >= burst.Time {
			extra = burst.Count
			state.BurstCursor++
		}
	}

	if toSpawn == 0 && state.SpawnedThisSecond == 0 && rate > 0 {
		toSpawn = 1
	}
	extra = min(extra, remaining-toSpawn)

	if toSpawn+extra == 0 {
		return
	}

	rec := ps.emitters[emitterID]
	world := components.IdentityTransform()
	if rec != nil {
		world = rec.world
	}
	mods := slices.Clone(emitter.VelocityModifiers)

	for range toSpawn + extra {
		ps.spawnParticle(emitterID, emitter, world, mods)
		state.LiveParticles++
		state.TotalSpawned++
	}
	// burst 不计入每秒速率，但计入上限
	state.SpawnedThisSecond += toSpawn
	state.TotalBurstSpawned += extra
}

// finishEmitter ends a non-looping emitter once its last particle is gone.
func (ps *ParticleSystem) finishEmitter(emitterID ecs.EntityID, emitter *components.EmitterComponent, state *components.EmitterStateComponent) {
	state.Finished = true
	if emitter.DespawnOnFinish {
		log.Printf("[ParticleSystem] 发射器 %d 完成，销毁实体 (共发射 %d 个粒子)", emitterID, state.TotalSpawned)
		ps.EntityManager.DestroyEntity(emitterID)
		return
	}
	log.Printf("[ParticleSystem] 发射器 %d 完成 (共发射 %d 个粒子)", emitterID, state.TotalSpawned)
	ps.Stop(emitterID)
}

// spawnParticle creates one particle from the emitter's configuration.
// world is the emitter's world transform for this tick.
func (ps *ParticleSystem) spawnParticle(emitterID ecs.EntityID, emitter *components.EmitterComponent, world components.TransformComponent, mods []particle.VelocityModifier) {
	r := ps.Rand

	point := emitter.Shape.Sample(r)
	offset, dir := point.Offset, point.Direction
	if emitter.ZValueOverride != nil {
		offset[2] = emitter.ZValueOverride.Sample(r)
		dir[2] = 0
		dir = particle.SafeNormalize(dir)
	}

	rotation := emitter.InitialRotation.Sample(r)
	position := offset
	if emitter.Space == components.SpaceWorld {
		position = world.TransformPoint(offset)
		dir = world.TransformDirection(dir)
		rotation += world.Roll()
	}
	position = particle.FiniteOr(position, mgl32.Vec3{})

	speed := emitter.InitialSpeed.Sample(r)
	velocity := particle.FiniteOr(dir.Mul(speed), mgl32.Vec3{})

	p := components.Particle{
		Emitter:           emitterID,
		MaxLifetime:       emitter.Lifetime.Sample(r),
		Position:          position,
		SpawnPosition:     position,
		Velocity:          velocity,
		Rotation:          rotation,
		InitialRotation:   rotation,
		RotationSpeed:     emitter.RotationSpeed.Sample(r),
		InitialScale:      emitter.InitialScale.Sample(r),
		Texture:           emitter.Texture,
		Frame:             emitter.Texture.SpawnFrame(r),
		ScaleCurve:        emitter.Scale,
		ColorCurve:        emitter.Color,
		Modifiers:         mods,
		UseScaledTime:     emitter.UseScaledTime,
		DespawnWithParent: emitter.DespawnParticlesWithSystem,
		Space:             emitter.Space,
		RotateToMovement:  emitter.RotateToMovementDirection,
	}
	if emitter.MaxDistance != nil {
		p.HasMaxDistance = true
		p.MaxDistance = *emitter.MaxDistance
	}
	p.Color = particle.EvalColor(p.ColorCurve, 0, &p.ColorHint)
	p.Scale = scaleAt(&p, 0)

	p.ID = ps.EntityManager.CreateEntity()
	if p.Space == components.SpaceLocal {
		ps.EntityManager.SetParent(p.ID, emitterID)
	}
	ps.particles = append(ps.particles, p)
}

// scaleAt is InitialScale times the scale curve. Without a curve the
// initial scale is kept.
func scaleAt(p *components.Particle, pct float32) float32 {
	if p.ScaleCurve == nil {
		return p.InitialScale
	}
	return p.InitialScale * particle.EvalValue(p.ScaleCurve, pct, &p.ScaleHint)
}

// clampCount converts a floored spawn count to [0, limit].
func clampCount(v float64, limit int) int {
	if !(v > 0) {
		return 0
	}
	if v >= float64(limit) {
		return limit
	}
	return int(v)
}

func floor32(v float32) float32 {
	return float32(math.Floor(float64(v)))
}
