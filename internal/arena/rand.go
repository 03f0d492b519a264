package arena

import (
	"math/rand"
	"time"
)

// Rand is the source of the arena's randomness: initial velocity and spin at
// spawn, and the spin perturbation applied on impact. *rand.Rand satisfies it.
type Rand interface {
	Float64() float64
}

// NewRand returns a seeded source. A zero seed means unseeded (time based).
func NewRand(seed int64) Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}
