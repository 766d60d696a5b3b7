package particle

import (
	"math/rand/v2"
)

// Rand is the random source used by jitter, shape sampling and atlas index
// selection. *rand.Rand from math/rand/v2 satisfies it.
//
// A single Rand must not be shared across goroutines; the spawner is the only
// consumer and runs emitter by emitter on one goroutine.
type Rand interface {
	Float32() float32
	IntN(n int) int
	NormFloat64() float64
}

// NewRand returns a deterministic PCG-backed source for the given seed.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// RandomInRange returns a uniform value in [min, max).
// If min >= max it returns min without consuming randomness.
func RandomInRange(r Rand, min, max float32) float32 {
	if min >= max {
		return min
	}
	v := min + r.Float32()*(max-min)
	// float32 rounding can land exactly on max
	if v >= max {
		return prevFloat32(max)
	}
	return v
}

// Choose picks one element uniformly. It returns the zero value for an empty slice.
func Choose[T any](r Rand, items []T) T {
	var zero T
	if len(items) == 0 {
		return zero
	}
	if len(items) == 1 {
		return items[0]
	}
	return items[r.IntN(len(items))]
}
