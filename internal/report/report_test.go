package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func sampleReport() Report {
	return Report{
		RunID:   "run-1",
		Graph:   "abc123",
		Nodes:   5,
		Method:  "random",
		Damping: 0.9,
		Steps:   1000,
		Start:   0,
		Seed:    42,
		Walkers: 1,
		Scores: Build(
			[]float64{0.273, 0.266, 0.146, 0.247, 0.068},
			[]int{273, 266, 146, 247, 68},
			nil,
		),
	}
}

func TestBuild_RanksByScore(t *testing.T) {
	scores := Build([]float64{0.1, 0.5, 0.4}, nil, []float64{0.01, 0.02, 0.03})

	require.Len(t, scores, 3)
	assert.Equal(t, NodeScore{Node: 0, Rank: 3, Score: 0.1, StdDev: 0.01}, scores[0])
	assert.Equal(t, NodeScore{Node: 1, Rank: 1, Score: 0.5, StdDev: 0.02}, scores[1])
	assert.Equal(t, NodeScore{Node: 2, Rank: 2, Score: 0.4, StdDev: 0.03}, scores[2])
}

func TestWritePlain(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WritePlain(&buf, sampleReport()))
	assert.Equal(t, "0.273 0.266 0.146 0.247 0.068\n", buf.String())
}

func TestWriteTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteTable(&buf, sampleReport()))
	out := buf.String()

	for _, want := range []string{"random ranking", "damping=0.9", "visits", "0.273", "0.068", "█"} {
		assert.Contains(t, out, want)
	}

	// Rows are listed most popular first: node 0, 1, 3, 2, 4.
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 2+5)
	for i, score := range []string{"0.273", "0.266", "0.247", "0.146", "0.068"} {
		assert.Contains(t, lines[2+i], score, "row %d", i)
	}

	// The top row carries the longest bar.
	assert.Equal(t, barWidth, strings.Count(lines[2], "█"))
}

func TestWriteTable_ShowsSpread(t *testing.T) {
	r := sampleReport()
	r.Scores = Build([]float64{0.6, 0.4}, nil, []float64{0.012, 0.011})

	var buf bytes.Buffer
	require.NoError(t, WriteTable(&buf, r))
	assert.Contains(t, buf.String(), "±0.012")
	assert.NotContains(t, buf.String(), "visits")
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, sampleReport()))

	var got Report
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, sampleReport(), got)
}

func TestWriteYAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteYAML(&buf, sampleReport()))
	assert.Contains(t, buf.String(), "method: random")

	var got Report
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, sampleReport(), got)
}

func TestWriteTOML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteTOML(&buf, sampleReport()))
	assert.Contains(t, buf.String(), "[[scores]]")

	got, err := ReadTOML(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, sampleReport(), got)
}

func TestWriteTOML_LargeSeed(t *testing.T) {
	r := sampleReport()
	r.Seed = 1<<64 - 1

	var buf bytes.Buffer
	require.NoError(t, WriteTOML(&buf, r))
	got, err := ReadTOML(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, r.Seed, got.Seed)
}

func TestWrite_Dispatch(t *testing.T) {
	for _, format := range []string{"table", "plain", "json", "toml", "yaml"} {
		var buf bytes.Buffer
		require.NoError(t, Write(&buf, format, sampleReport()), format)
		assert.NotEmpty(t, buf.String(), format)
	}

	err := Write(&bytes.Buffer{}, "csv", sampleReport())
	assert.ErrorContains(t, err, "unknown format")
}
