package graph

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
)

// Load reads a graph description from the file at path. See Parse for the
// format.
func Load(path string) (*Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("graph: open %s: %w", path, err)
	}
	defer f.Close()

	g, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("graph: read %s: %w", path, err)
	}
	return g, nil
}

// Parse reads a graph description: the node count N followed by
// whitespace-separated pairs "i j", one directed link each. Pairs may span
// lines freely. Node indices are 0-based.
func Parse(r io.Reader) (*Graph, error) {
	sc := bufio.NewScanner(r)
	sc.Split(bufio.ScanWords)

	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("%w: missing node count", ErrMalformed)
	}
	n, err := strconv.Atoi(sc.Text())
	if err != nil {
		return nil, fmt.Errorf("%w: node count %q is not an integer", ErrMalformed, sc.Text())
	}
	if n < 1 {
		return nil, fmt.Errorf("%w: node count %d, want at least 1", ErrMalformed, n)
	}

	var edges []Edge
	var tokens []int
	for sc.Scan() {
		v, err := strconv.Atoi(sc.Text())
		if err != nil {
			return nil, fmt.Errorf("%w: token %q is not an integer", ErrMalformed, sc.Text())
		}
		tokens = append(tokens, v)
		if len(tokens) == 2 {
			edges = append(edges, Edge{From: tokens[0], To: tokens[1]})
			tokens = tokens[:0]
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if len(tokens) != 0 {
		return nil, fmt.Errorf("%w: dangling token %d without a link target", ErrMalformed, tokens[0])
	}
	return FromEdges(n, edges)
}
