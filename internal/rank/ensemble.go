package rank

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"
)

// WalkOptions configures a set of independent walks over one matrix.
type WalkOptions struct {
	Start   int    // node every walker starts from
	Steps   int    // steps per walker
	Walkers int    // number of independent walks; at least 1
	Seed    uint64 // walker w draws from NewSource(Seed + w)
}

// DefaultWalkOptions returns a single 1000-step walk from node 0.
func DefaultWalkOptions() WalkOptions {
	return WalkOptions{
		Start:   0,
		Steps:   DefaultSteps,
		Walkers: 1,
	}
}

// Ensemble merges several independent walks.
type Ensemble struct {
	// Merged sums every walker's counts; Merged.Steps is Walkers*Steps.
	Merged Result
	// Walks holds each walker's own result, indexed by walker.
	Walks []Result
	// Mean and StdDev summarize each node's frequency across walkers.
	// StdDev is all zeros for a single walker.
	Mean   []float64
	StdDev []float64
}

// SimulateMany runs opts.Walkers independent walks concurrently. Each walker
// owns its random source and counters; the matrix is shared read-only.
// Counts are summed only after every walk finishes, so the merged result
// does not depend on scheduling.
func SimulateMany(ctx context.Context, m *Matrix, opts WalkOptions) (Ensemble, error) {
	if opts.Walkers < 1 {
		return Ensemble{}, fmt.Errorf("%w: walker count %d, want at least 1", ErrInvalidParameter, opts.Walkers)
	}
	// Validate once up front so a bad parameter is reported as such, not
	// as whichever walker failed first.
	if err := checkWalk(m, opts.Start, opts.Steps, NewSource(opts.Seed)); err != nil {
		return Ensemble{}, err
	}

	walks := make([]Result, opts.Walkers)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for w := 0; w < opts.Walkers; w++ {
		g.Go(func() error {
			res, err := SimulateContext(gctx, m, opts.Start, opts.Steps, NewSource(opts.Seed+uint64(w)))
			if err != nil {
				return fmt.Errorf("walker %d: %w", w, err)
			}
			walks[w] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Ensemble{}, err
	}

	return merge(m.N(), opts, walks), nil
}

func merge(n int, opts WalkOptions, walks []Result) Ensemble {
	counts := make(VisitCounts, n)
	for _, w := range walks {
		for i, c := range w.Counts {
			counts[i] += c
		}
	}
	total := opts.Steps * len(walks)

	mean := make([]float64, n)
	std := make([]float64, n)
	column := make([]float64, len(walks))
	for i := 0; i < n; i++ {
		for w, res := range walks {
			column[w] = res.Freq[i]
		}
		if len(walks) < 2 {
			mean[i] = column[0]
			continue
		}
		mean[i], std[i] = stat.MeanStdDev(column, nil)
	}

	return Ensemble{
		Merged: Result{
			Start:  opts.Start,
			Steps:  total,
			Counts: counts,
			Freq:   counts.Normalize(total),
		},
		Walks:  walks,
		Mean:   mean,
		StdDev: std,
	}
}
