package core

import "math/rand/v2"

// RNG is a thin convenience wrapper around math/rand/v2 for deterministic seeding.
type RNG struct {
	r *rand.Rand
}

// NewRNG creates a deterministic RNG using the provided seed.
func NewRNG(seed int64) *RNG {
	return &RNG{r: rand.New(rand.NewPCG(uint64(seed), 0))}
}

// Bool returns a random boolean value.
func (r *RNG) Bool() bool {
	return r.r.IntN(2) == 1
}

// NormFloat64 returns a standard normal variate (mean 0, stdev 1).
func (r *RNG) NormFloat64() float64 {
	return r.r.NormFloat64()
}

// Int64 returns a non-negative pseudo-random int64, used to derive child seeds.
func (r *RNG) Int64() int64 {
	return r.r.Int64()
}

// Source exposes the underlying rand.Rand for advanced use.
func (r *RNG) Source() *rand.Rand { return r.r }
