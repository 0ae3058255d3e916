package random

import (
	"math/rand/v2"
)

// Source produces a stream of floats in [0, 1). Call order matters: a seeded
// source yields the same sequence every time, so a single Source must not be
// shared between concurrent generations.
type Source interface {
	Float64() float64
}

// SourceFunc adapts a plain function to a Source
type SourceFunc func() float64

// Float64 calls f
func (f SourceFunc) Float64() float64 {
	return f()
}

// Provider hands out a fresh Source for each card generation
type Provider interface {
	// ForSeed returns a reproducible source for a non-empty seed and a
	// non-deterministic one otherwise
	ForSeed(seed string) Source
}

// SeedProvider is the production Provider
type SeedProvider struct{}

// New creates a new SeedProvider
func New() *SeedProvider {
	return &SeedProvider{}
}

// ForSeed returns a SplitMix32 source keyed by the hashed seed, or a default
// source when seed is empty
func (p *SeedProvider) ForSeed(seed string) Source {
	if seed == "" {
		return NewDefault()
	}
	return NewSeeded(seed)
}

// NewDefault returns a freshly seeded, non-reproducible source
func NewDefault() Source {
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}

// NewSeeded returns a SplitMix32 source keyed by HashSeed(seed)
func NewSeeded(seed string) *SplitMix32 {
	return NewSplitMix32(HashSeed(seed))
}

// Intn returns floor(src.Float64() * n), an int in [0, n) for n > 0
func Intn(src Source, n int) int {
	if n <= 0 {
		return 0
	}
	return int(src.Float64() * float64(n))
}
