package randutil

import (
	rand "math/rand/v2"
	"time"
)

const goldenRatio64 = 0x9e3779b97f4a7c15

// New returns a *rand.Rand seeded deterministically from the provided int64.
// The helper centralises how we derive the two 64-bit seeds required by
// rand/v2 so that all call sites get reproducible sequences.
func New(seed int64) *rand.Rand {
	u := uint64(seed)
	return rand.New(rand.NewPCG(mix(u), mix(u+goldenRatio64)))
}

// NewFromTime returns a *rand.Rand seeded from the wall clock, for
// production call sites that have no seed to thread through.
func NewFromTime() *rand.Rand {
	return New(time.Now().UnixNano())
}

// Jitter scales v by a uniform factor in [1-frac, 1+frac]. The decision
// engine uses it to blur hand-strength scores so play is not perfectly
// predictable from the cards alone.
func Jitter(rng *rand.Rand, v, frac float64) float64 {
	return v * (1 + frac*(2*rng.Float64()-1))
}

func mix(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}
