package mocks

import (
	"github.com/mcoot/backlogbingo/internal/dependencies/random"
)

// MockRandom is a Source that replays queued floats
type MockRandom struct {
	// Results is a queue of values to return from Float64
	Results []float64
	index   int

	// Fallback is returned once the queue is exhausted
	Fallback float64
}

// Ensure MockRandom implements Source
var _ random.Source = (*MockRandom)(nil)

// NewMockRandom creates a new MockRandom
func NewMockRandom(values ...float64) *MockRandom {
	return &MockRandom{Results: values}
}

// Float64 returns the next queued result, or Fallback if none remaining
func (r *MockRandom) Float64() float64 {
	if r.index >= len(r.Results) {
		return r.Fallback
	}
	result := r.Results[r.index]
	r.index++
	return result
}

// Queue adds values to the result queue
func (r *MockRandom) Queue(values ...float64) {
	r.Results = append(r.Results, values...)
}

// Calls returns how many queued values have been consumed
func (r *MockRandom) Calls() int {
	return r.index
}

// Reset clears all queued results
func (r *MockRandom) Reset() {
	r.Results = nil
	r.index = 0
}

// MockProvider records requested seeds. It returns Source when set and a
// real seeded source otherwise, so tests stay deterministic either way.
type MockProvider struct {
	Source random.Source
	Seeds  []string
}

// Ensure MockProvider implements Provider
var _ random.Provider = (*MockProvider)(nil)

// NewMockProvider creates a MockProvider returning src for every seed
func NewMockProvider(src random.Source) *MockProvider {
	return &MockProvider{Source: src}
}

// ForSeed records the seed and returns the configured source
func (p *MockProvider) ForSeed(seed string) random.Source {
	p.Seeds = append(p.Seeds, seed)
	if p.Source != nil {
		return p.Source
	}
	return random.NewSeeded(seed)
}
