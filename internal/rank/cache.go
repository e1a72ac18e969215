package rank

import (
	"fmt"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/papapumpkin/surfer/internal/graph"
)

type cacheKey struct {
	fingerprint string
	damping     float64
}

// MatrixCache memoizes transition matrices per (graph, damping) pair. It is
// safe for concurrent use; a miss builds the matrix once.
type MatrixCache struct {
	mu    sync.Mutex
	cache *lru.Cache[cacheKey, *Matrix]
}

// NewMatrixCache returns a cache holding at most size matrices.
func NewMatrixCache(size int) (*MatrixCache, error) {
	c, err := lru.New[cacheKey, *Matrix](size)
	if err != nil {
		return nil, fmt.Errorf("rank: matrix cache: %w", err)
	}
	return &MatrixCache{cache: c}, nil
}

// Get returns the transition matrix for g and damping, building it on a
// miss. Build errors are not cached.
func (c *MatrixCache) Get(g *graph.Graph, damping float64) (*Matrix, error) {
	if g == nil {
		return nil, fmt.Errorf("%w: nil graph", ErrInvalidParameter)
	}
	key := cacheKey{fingerprint: g.Fingerprint(), damping: damping}

	c.mu.Lock()
	defer c.mu.Unlock()
	if m, ok := c.cache.Get(key); ok {
		return m, nil
	}
	m, err := ForGraph(g, damping)
	if err != nil {
		return nil, err
	}
	c.cache.Add(key, m)
	return m, nil
}

// Len returns the number of cached matrices.
func (c *MatrixCache) Len() int {
	return c.cache.Len()
}
