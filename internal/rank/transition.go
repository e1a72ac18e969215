// Package rank estimates node popularity with the random-surfer model. It
// builds a row-stochastic transition matrix from link counts, then either
// simulates a long random walk over it (the Monte Carlo estimator) or runs
// power iteration for a deterministic reference.
package rank

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/papapumpkin/surfer/internal/graph"
)

// Tolerance bounds how far any row of a Matrix may sum from 1.
const Tolerance = 1e-9

// DefaultDamping is the probability of following a link rather than
// teleporting.
const DefaultDamping = 0.9

// Matrix is a dense row-stochastic transition matrix. Entry (i, j) is the
// probability that a surfer on node i moves to node j next. A Matrix is
// read-only after construction and safe to share between goroutines.
type Matrix struct {
	n     int
	dense *mat.Dense
}

// N returns the number of nodes.
func (m *Matrix) N() int { return m.n }

// At returns the probability of moving from node i to node j.
func (m *Matrix) At(i, j int) float64 { return m.dense.At(i, j) }

// Row returns node i's outgoing distribution. The slice aliases the matrix
// storage and must not be modified.
func (m *Matrix) Row(i int) []float64 { return m.dense.RawRowView(i) }

// Rows returns a copy of the matrix as a slice of rows.
func (m *Matrix) Rows() [][]float64 {
	rows := make([][]float64, m.n)
	for i := range rows {
		rows[i] = append([]float64(nil), m.Row(i)...)
	}
	return rows
}

// BuildTransition computes the random-surfer transition matrix:
//
//	P(i, j) = damping * links[i][j] / out[i] + (1 - damping) / N
//
// A dangling node (out[i] == 0) has no link to follow, so its row is the
// uniform teleport distribution 1/N. A single-node graph always yields
// [[1]].
func BuildTransition(links graph.LinkCounts, out graph.OutDegree, damping float64) (*Matrix, error) {
	n := len(links)
	if n == 0 {
		return nil, fmt.Errorf("%w: no nodes", ErrInvalidGraphShape)
	}
	if len(out) != n {
		return nil, fmt.Errorf("%w: out-degree has %d entries, want %d", ErrInvalidGraphShape, len(out), n)
	}
	for i, row := range links {
		if len(row) != n {
			return nil, fmt.Errorf("%w: row %d has %d columns, want %d", ErrInvalidGraphShape, i, len(row), n)
		}
		sum := 0
		for j, c := range row {
			if c < 0 {
				return nil, fmt.Errorf("%w: negative link count at (%d, %d)", ErrInvalidGraphShape, i, j)
			}
			sum += c
		}
		if sum != out[i] {
			return nil, fmt.Errorf("%w: out-degree of node %d is %d, row sums to %d", ErrInvalidGraphShape, i, out[i], sum)
		}
	}
	if !(damping > 0 && damping < 1) {
		return nil, fmt.Errorf("%w: damping factor %v outside (0, 1)", ErrInvalidParameter, damping)
	}

	nf := float64(n)
	uniform := 1.0 / nf
	teleport := (1.0 - damping) / nf

	data := make([]float64, n*n)
	for i := 0; i < n; i++ {
		row := data[i*n : (i+1)*n]
		if n == 1 {
			row[0] = 1
			continue
		}
		if out[i] == 0 {
			for j := range row {
				row[j] = uniform
			}
			continue
		}
		deg := float64(out[i])
		for j := range row {
			row[j] = damping*float64(links[i][j])/deg + teleport
		}
	}

	m := &Matrix{n: n, dense: mat.NewDense(n, n, data)}
	if err := m.checkStochastic(); err != nil {
		return nil, err
	}
	return m, nil
}

// ForGraph builds the transition matrix of g.
func ForGraph(g *graph.Graph, damping float64) (*Matrix, error) {
	if g == nil {
		return nil, fmt.Errorf("%w: nil graph", ErrInvalidParameter)
	}
	return BuildTransition(g.Links, g.Out, damping)
}

// NewMatrix wraps explicit probability rows as a Matrix. Every row must be
// non-negative and sum to 1 within Tolerance.
func NewMatrix(rows [][]float64) (*Matrix, error) {
	n := len(rows)
	if n == 0 {
		return nil, fmt.Errorf("%w: no nodes", ErrInvalidGraphShape)
	}
	data := make([]float64, 0, n*n)
	for i, row := range rows {
		if len(row) != n {
			return nil, fmt.Errorf("%w: row %d has %d columns, want %d", ErrInvalidGraphShape, i, len(row), n)
		}
		data = append(data, row...)
	}
	m := &Matrix{n: n, dense: mat.NewDense(n, n, data)}
	if err := m.checkStochastic(); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Matrix) checkStochastic() error {
	for i := 0; i < m.n; i++ {
		sum := 0.0
		for j, p := range m.Row(i) {
			if p < 0 || math.IsNaN(p) {
				return fmt.Errorf("%w: entry (%d, %d) is %v", ErrNumericalDrift, i, j, p)
			}
			sum += p
		}
		if math.Abs(sum-1) > Tolerance {
			return fmt.Errorf("%w: row %d sums to %v", ErrNumericalDrift, i, sum)
		}
	}
	return nil
}
