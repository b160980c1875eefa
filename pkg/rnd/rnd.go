// Package rnd holds the scalar sampling helpers used by productions.
//
// There is no seeding contract: a Source exists so tests and callers that want
// repeatable runs can inject one, nothing more.
package rnd

import "math/rand/v2"

// Source draws uniform values for a single generative run.
type Source struct {
	r *rand.Rand
}

// New wraps src. A nil src is replaced by a randomly seeded PCG.
func New(src rand.Source) *Source {
	if src == nil {
		src = rand.NewPCG(rand.Uint64(), rand.Uint64())
	}
	return &Source{r: rand.New(src)}
}

// NewSeeded is a convenience for tests: a PCG seeded with seed.
func NewSeeded(seed uint64) *Source {
	return New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Float64 returns a uniform value in [0, 1).
func (s *Source) Float64() float64 {
	return s.r.Float64()
}

// IntN returns a uniform integer in [0, n). It panics if n <= 0.
func (s *Source) IntN(n int) int {
	return s.r.IntN(n)
}

// Symmetric returns a value uniformly distributed in [-r, r].
func (s *Source) Symmetric(r float64) float64 {
	return (s.r.Float64() - 0.5) * 2 * r
}

// Positive returns a value uniformly distributed in [0, r].
func (s *Source) Positive(r float64) float64 {
	return s.r.Float64() * r
}

// Coin reports whether a draw from [0, sides) equals exactly 1.
// With sides == 2 this is a fair coin; with sides == 1 it is never true.
// It panics if sides <= 0.
func (s *Source) Coin(sides int) bool {
	return s.r.IntN(sides) == 1
}

// Symmetric uses the process-wide source.
func Symmetric(r float64) float64 {
	return (rand.Float64() - 0.5) * 2 * r
}

// Positive uses the process-wide source.
func Positive(r float64) float64 {
	return rand.Float64() * r
}

// Coin uses the process-wide source.
func Coin(sides int) bool {
	return rand.IntN(sides) == 1
}
