// Package rng supplies bounded random integers for cosmetic timing and voice
// selection. Gameplay state never depends on it.
package rng

import "math/rand/v2"

// Source is the bounded integer supply systems depend on.
type Source interface {
	IntN(n int) int
}

// Service is a seeded PCG source.
type Service struct {
	seed uint64
	r    *rand.Rand
}

func New(seed uint64) *Service {
	return &Service{seed: seed, r: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (s *Service) Seed() uint64 {
	return s.seed
}

// IntN returns a value in [0, n). Non-positive n yields 0.
func (s *Service) IntN(n int) int {
	if s == nil || n <= 0 {
		return 0
	}
	return s.r.IntN(n)
}

// Range returns a value in [lo, hi] drawn from src.
func Range(src Source, lo, hi int) int {
	if hi < lo {
		lo, hi = hi, lo
	}
	if src == nil || hi == lo {
		return lo
	}
	return lo + src.IntN(hi-lo+1)
}
