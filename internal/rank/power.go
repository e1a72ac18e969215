package rank

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// PowerOptions configures PowerIterate.
type PowerOptions struct {
	Start         int     // node holding all probability mass initially
	MaxIterations int     // upper bound on vector-matrix products
	Epsilon       float64 // stop once the L1 change drops below this; 0 runs all iterations
}

// DefaultPowerOptions returns 100 iterations from node 0 with no early stop.
func DefaultPowerOptions() PowerOptions {
	return PowerOptions{
		Start:         0,
		MaxIterations: 100,
	}
}

// PowerIterate computes the surfer's distribution after repeated
// vector-matrix products r ← r·M, starting from all mass on opts.Start.
// It returns the distribution and the number of iterations performed.
// Unlike Simulate it is deterministic and converges geometrically, at the
// cost of O(N²) work per iteration.
func PowerIterate(m *Matrix, opts PowerOptions) (Frequencies, int, error) {
	if m == nil {
		return nil, 0, fmt.Errorf("%w: nil transition matrix", ErrInvalidParameter)
	}
	if opts.MaxIterations <= 0 {
		return nil, 0, fmt.Errorf("%w: iteration count %d, want at least 1", ErrInvalidParameter, opts.MaxIterations)
	}
	if opts.Epsilon < 0 {
		return nil, 0, fmt.Errorf("%w: epsilon %v is negative", ErrInvalidParameter, opts.Epsilon)
	}
	n := m.N()
	if opts.Start < 0 || opts.Start >= n {
		return nil, 0, fmt.Errorf("%w: start node %d outside [0, %d)", ErrInvalidParameter, opts.Start, n)
	}

	r := mat.NewVecDense(n, nil)
	r.SetVec(opts.Start, 1)
	next := mat.NewVecDense(n, nil)

	iter := 0
	for iter < opts.MaxIterations {
		iter++
		next.MulVec(m.dense.T(), r)

		delta := 0.0
		for i := 0; i < n; i++ {
			delta += math.Abs(next.AtVec(i) - r.AtVec(i))
		}
		r, next = next, r
		if opts.Epsilon > 0 && delta < opts.Epsilon {
			break
		}
	}

	freq := make(Frequencies, n)
	for i := range freq {
		freq[i] = r.AtVec(i)
	}
	return freq, iter, nil
}
