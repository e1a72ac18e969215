package rank

import (
	"context"
	"fmt"
)

// DefaultSteps is the default walk length.
const DefaultSteps = 1000

// cancelCheckInterval is how many steps SimulateContext takes between
// context checks.
const cancelCheckInterval = 4096

// VisitCounts records how many steps ended on each node.
type VisitCounts []int

// Frequencies is a visit distribution over nodes; entries sum to 1.
type Frequencies []float64

// Result is the outcome of one random walk.
type Result struct {
	Start  int
	Steps  int
	Counts VisitCounts
	Freq   Frequencies
}

// Simulate walks numSteps steps over m from start, drawing each move from
// src, and returns the empirical visit distribution. The start node itself
// is not counted; only the nodes reached by each step are.
func Simulate(m *Matrix, start, numSteps int, src Source) (Result, error) {
	return SimulateContext(context.Background(), m, start, numSteps, src)
}

// SimulateContext is Simulate with cancellation. The context is polled
// periodically, so a cancelled walk stops within a few thousand steps and
// returns ctx.Err() with no partial result.
func SimulateContext(ctx context.Context, m *Matrix, start, numSteps int, src Source) (Result, error) {
	if err := checkWalk(m, start, numSteps, src); err != nil {
		return Result{}, err
	}

	counts := make(VisitCounts, m.N())
	page := start
	for t := 0; t < numSteps; t++ {
		if t%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return Result{}, err
			}
		}
		page = SampleNext(m.Row(page), src.Float64())
		counts[page]++
	}

	return Result{
		Start:  start,
		Steps:  numSteps,
		Counts: counts,
		Freq:   counts.Normalize(numSteps),
	}, nil
}

// Normalize divides every count by total.
func (c VisitCounts) Normalize(total int) Frequencies {
	freq := make(Frequencies, len(c))
	if total <= 0 {
		return freq
	}
	t := float64(total)
	for i, v := range c {
		freq[i] = float64(v) / t
	}
	return freq
}

func checkWalk(m *Matrix, start, numSteps int, src Source) error {
	if m == nil {
		return fmt.Errorf("%w: nil transition matrix", ErrInvalidParameter)
	}
	if src == nil {
		return fmt.Errorf("%w: nil random source", ErrInvalidParameter)
	}
	if numSteps <= 0 {
		return fmt.Errorf("%w: step count %d, want at least 1", ErrInvalidParameter, numSteps)
	}
	if start < 0 || start >= m.N() {
		return fmt.Errorf("%w: start node %d outside [0, %d)", ErrInvalidParameter, start, m.N())
	}
	return nil
}
