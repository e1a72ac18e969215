package rank

import "math/rand/v2"

// Source supplies uniform random values in [0, 1). *rand.Rand satisfies it.
// A Source is not shared between concurrent walks.
type Source interface {
	Float64() float64
}

// NewSource returns a deterministic PCG-backed Source for seed.
func NewSource(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// SampleNext draws the next node from a probability row by inverse-CDF
// sampling: it returns the first index whose running sum reaches u. If
// rounding leaves the total just below u, the last index is returned.
func SampleNext(row []float64, u float64) int {
	sum := 0.0
	for j, p := range row {
		sum += p
		if sum >= u {
			return j
		}
	}
	return len(row) - 1
}
