// Package graph holds the link-count model of a directed graph: an N×N
// matrix of parallel-link counts and the per-node out-degree derived from it.
// Graphs are built once, from a text file or an edge list, and are read-only
// afterwards.
package graph

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
)

// ErrMalformed is returned when a graph description cannot be parsed or
// references nodes outside [0, N).
var ErrMalformed = errors.New("malformed graph")

// LinkCounts is an N×N matrix where entry (i, j) counts the directed links
// observed from node i to node j.
type LinkCounts [][]int

// OutDegree holds the row sums of a LinkCounts matrix.
type OutDegree []int

// Edge is a single directed link.
type Edge struct {
	From, To int
}

// Graph is an immutable link-count graph over nodes 0..N-1.
type Graph struct {
	N     int
	Links LinkCounts
	Out   OutDegree
}

// New builds a graph from a square link-count matrix, deriving out-degrees.
// The matrix is copied so later changes by the caller do not leak in.
func New(links LinkCounts) (*Graph, error) {
	n := len(links)
	if n == 0 {
		return nil, fmt.Errorf("%w: graph has no nodes", ErrMalformed)
	}
	cp := make(LinkCounts, n)
	out := make(OutDegree, n)
	for i, row := range links {
		if len(row) != n {
			return nil, fmt.Errorf("%w: row %d has %d columns, want %d", ErrMalformed, i, len(row), n)
		}
		cp[i] = make([]int, n)
		for j, c := range row {
			if c < 0 {
				return nil, fmt.Errorf("%w: negative link count at (%d, %d)", ErrMalformed, i, j)
			}
			cp[i][j] = c
			out[i] += c
		}
	}
	return &Graph{N: n, Links: cp, Out: out}, nil
}

// FromEdges builds an n-node graph from an edge list. Repeated edges are
// parallel links and increment the count rather than being deduplicated.
func FromEdges(n int, edges []Edge) (*Graph, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: node count %d, want at least 1", ErrMalformed, n)
	}
	links := make(LinkCounts, n)
	for i := range links {
		links[i] = make([]int, n)
	}
	out := make(OutDegree, n)
	for _, e := range edges {
		if e.From < 0 || e.From >= n || e.To < 0 || e.To >= n {
			return nil, fmt.Errorf("%w: edge %d → %d outside [0, %d)", ErrMalformed, e.From, e.To, n)
		}
		links[e.From][e.To]++
		out[e.From]++
	}
	return &Graph{N: n, Links: links, Out: out}, nil
}

// EdgeCount returns the total number of links, counting parallel links.
func (g *Graph) EdgeCount() int {
	total := 0
	for _, d := range g.Out {
		total += d
	}
	return total
}

// Dangling returns the nodes with no outgoing links, in ascending order.
func (g *Graph) Dangling() []int {
	var nodes []int
	for i, d := range g.Out {
		if d == 0 {
			nodes = append(nodes, i)
		}
	}
	return nodes
}

// Fingerprint returns a stable hex digest of the graph's link counts. Two
// graphs with equal N and equal counts share a fingerprint.
func (g *Graph) Fingerprint() string {
	h := sha256.New()
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(g.N))
	h.Write(buf[:])
	for _, row := range g.Links {
		for _, c := range row {
			binary.LittleEndian.PutUint64(buf[:], uint64(c))
			h.Write(buf[:])
		}
	}
	return hex.EncodeToString(h.Sum(nil))[:16]
}
