package cds

import (
	"math/rand/v2"
	"sync/atomic"
)

// rngSeedCounter is a process-wide counter that seeds every per-call
// RNG stream, so concurrently-live goroutines never share one. This
// replaces the original implementation's global srand()-seeded
// generator (§5 "Global rand() use"): the distribution a caller
// observes is preserved, the stream identity is not.
var rngSeedCounter atomic.Int64

// newRng returns a fresh PCG-backed generator seeded from the
// process-wide counter. Used for shake decisions (selector restarts,
// pool index choice) and shuffles — never for anything safety-critical.
func newRng() *rand.Rand {
	seed := rngSeedCounter.Add(1)
	return rand.New(rand.NewPCG(uint64(seed), uint64(seed)^0x9e3779b97f4a7c15))
}
