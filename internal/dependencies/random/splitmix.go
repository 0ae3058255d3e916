package random

const (
	splitMixGamma  uint32 = 0x9e3779b9
	splitMixMul1   uint32 = 0x21f0aaad
	splitMixMul2   uint32 = 0x735a2d97
	twoToThe32            = 1 << 32
)

// SplitMix32 is a small deterministic generator. The constants and the order
// of operations are part of the seed contract: changing either changes every
// card generated from a shared seed.
type SplitMix32 struct {
	state uint32
}

// NewSplitMix32 creates a generator from a 32-bit seed
func NewSplitMix32(seed uint32) *SplitMix32 {
	return &SplitMix32{state: seed}
}

// Uint32 advances the generator and returns the next raw output
func (r *SplitMix32) Uint32() uint32 {
	r.state += splitMixGamma
	t := r.state ^ (r.state >> 16)
	t *= splitMixMul1
	t ^= t >> 15
	t *= splitMixMul2
	t ^= t >> 15
	return t
}

// Float64 returns the next value scaled to [0, 1)
func (r *SplitMix32) Float64() float64 {
	return float64(r.Uint32()) / twoToThe32
}

// Ensure SplitMix32 implements Source
var _ Source = (*SplitMix32)(nil)
