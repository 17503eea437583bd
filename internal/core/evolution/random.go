package evolution

import "math/rand"

// RandomSource is the only source of randomness used by the mutator and
// the manager. *rand.Rand satisfies it.
type RandomSource interface {
	// Intn returns a uniform int in [0, n). n must be > 0.
	Intn(n int) int

	// Float64 returns a uniform float in [0, 1).
	Float64() float64

	// Shuffle permutes n elements using swap.
	Shuffle(n int, swap func(i, j int))
}

// Ensure *rand.Rand implements the interface.
var _ RandomSource = (*rand.Rand)(nil)

// NewSeededSource returns a deterministic source for seed.
func NewSeededSource(seed int64) RandomSource {
	return rand.New(rand.NewSource(seed)) //nolint:gosec // G404: evolution does not need crypto randomness.
}
