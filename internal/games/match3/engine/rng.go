package engine

import "lukechampine.com/frand"

// Source supplies random tile picks. *math/rand.Rand satisfies it.
type Source interface {
	// Intn returns a value in [0, n). n is always > 0.
	Intn(n int) int
}

// NewSource returns a deterministic source for a non-zero seed, and a
// cryptographically seeded one for seed 0.
func NewSource(seed uint64) Source {
	if seed == 0 {
		return frandSource{}
	}
	return NewRNG(seed)
}

// SimpleRNG is a deterministic pseudo-random number generator (xorshift64).
type SimpleRNG struct {
	state uint64
}

// NewRNG creates a new RNG with the given seed.
func NewRNG(seed uint64) *SimpleRNG {
	if seed == 0 {
		seed = 88172645463325252
	}
	return &SimpleRNG{state: seed}
}

// Next returns the next random uint64.
func (r *SimpleRNG) Next() uint64 {
	r.state ^= r.state << 13
	r.state ^= r.state >> 7
	r.state ^= r.state << 17
	return r.state
}

// Intn returns a random int in [0, n).
func (r *SimpleRNG) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	return int(r.Next() % uint64(n))
}

type frandSource struct{}

func (frandSource) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	return frand.Intn(n)
}
