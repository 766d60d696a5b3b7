package components

// EmitterStateComponent holds the running counters of one emitter.
// It is created alongside EmitterComponent and mutated only by the spawner
// (and by cleanup, which decrements LiveParticles).
type EmitterStateComponent struct {
	// RunningTime is the elapsed time within the current cycle; it wraps at
	// the cycle duration when looping.
	RunningTime float32

	// 每秒发射计数窗口
	CurrentSecond     float32
	SpawnedThisSecond int

	// BurstCursor indexes the next burst that has not fired this cycle.
	BurstCursor int

	// LiveParticles never exceeds EmitterComponent.MaxParticles.
	LiveParticles int

	// Statistics (统计)
	TotalSpawned      int // rate and burst particles since creation
	TotalBurstSpawned int
	Cycles            int // completed loops

	// Finished is set once a non-looping emitter has completed its cycle
	// and all of its particles are gone.
	Finished bool
	// Halted is set when spawning for this emitter, or updating one of its
	// particles, failed; the emitter stops spawning but its remaining live
	// particles keep evolving.
	Halted bool
}

// Reset rewinds the emitter to the start of its first cycle.
// Statistics and the live count are kept.
func (s *EmitterStateComponent) Reset() {
	s.RunningTime = 0
	s.CurrentSecond = 0
	s.SpawnedThisSecond = 0
	s.BurstCursor = 0
	s.Finished = false
	s.Halted = false
}

// PlayingComponent marks an emitter that is allowed to spawn.
// Emitters without it still update and clean up their live particles.
type PlayingComponent struct{}
