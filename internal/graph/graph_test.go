package graph

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fiveNode is the reference graph used across the ranking tests.
const fiveNode = `5
0 1
1 2
1 2
1 3
1 3
1 4
2 3
3 0
4 0
4 2
`

func TestParse_FiveNode(t *testing.T) {
	g, err := Parse(strings.NewReader(fiveNode))
	require.NoError(t, err)

	want := LinkCounts{
		{0, 1, 0, 0, 0},
		{0, 0, 2, 2, 1},
		{0, 0, 0, 1, 0},
		{1, 0, 0, 0, 0},
		{1, 0, 1, 0, 0},
	}
	assert.Equal(t, 5, g.N)
	assert.Equal(t, want, g.Links)
	assert.Equal(t, OutDegree{1, 5, 1, 1, 2}, g.Out)
	assert.Equal(t, 10, g.EdgeCount())
	assert.Empty(t, g.Dangling())
}

func TestParse_PairsSpanLines(t *testing.T) {
	g, err := Parse(strings.NewReader("3\n0 1 1\n2 2 0\n"))
	require.NoError(t, err)
	assert.Equal(t, OutDegree{1, 1, 1}, g.Out)
	assert.Equal(t, 1, g.Links[2][0])
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"whitespace only", "  \n\t"},
		{"non-integer count", "five\n0 1\n"},
		{"zero nodes", "0\n"},
		{"negative nodes", "-3\n"},
		{"odd token count", "3\n0 1\n2\n"},
		{"non-integer endpoint", "3\n0 x\n"},
		{"source out of range", "3\n3 0\n"},
		{"target out of range", "3\n0 -1\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.input))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrMalformed)
		})
	}
}

func TestParse_IsolatedNodes(t *testing.T) {
	g, err := Parse(strings.NewReader("4\n0 1\n"))
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, g.Dangling())
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "graph.txt")
	require.NoError(t, os.WriteFile(path, []byte(fiveNode), 0o644))

	g, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 5, g.N)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.txt"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nope.txt")
}

func TestNew(t *testing.T) {
	links := LinkCounts{{0, 3}, {0, 0}}
	g, err := New(links)
	require.NoError(t, err)
	assert.Equal(t, OutDegree{3, 0}, g.Out)

	// The graph owns a copy.
	links[0][1] = 9
	assert.Equal(t, 3, g.Links[0][1])
}

func TestNew_Errors(t *testing.T) {
	tests := []struct {
		name  string
		links LinkCounts
	}{
		{"empty", LinkCounts{}},
		{"ragged", LinkCounts{{0, 1}, {0}}},
		{"negative", LinkCounts{{0, -1}, {0, 0}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.links)
			assert.ErrorIs(t, err, ErrMalformed)
		})
	}
}

func TestFingerprint(t *testing.T) {
	a, err := FromEdges(3, []Edge{{0, 1}, {1, 2}})
	require.NoError(t, err)
	b, err := New(LinkCounts{{0, 1, 0}, {0, 0, 1}, {0, 0, 0}})
	require.NoError(t, err)
	c, err := FromEdges(3, []Edge{{0, 1}, {1, 2}, {1, 2}})
	require.NoError(t, err)

	assert.Equal(t, a.Fingerprint(), b.Fingerprint())
	assert.NotEqual(t, a.Fingerprint(), c.Fingerprint())
}
