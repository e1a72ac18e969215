// Package report renders ranking results for people and for other tools:
// a styled terminal table with a bar chart, the classic one-line score
// listing, and JSON, TOML, or YAML documents.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/papapumpkin/surfer/internal/rank"
)

// NodeScore is one node's estimated popularity.
type NodeScore struct {
	Node   int     `json:"node" yaml:"node"`
	Rank   int     `json:"rank" yaml:"rank"` // 1 = most popular
	Score  float64 `json:"score" yaml:"score"`
	Visits int     `json:"visits,omitempty" yaml:"visits,omitempty"`
	StdDev float64 `json:"stddev,omitempty" yaml:"stddev,omitempty"`
}

// Report describes one ranking run. Scores are in node order.
type Report struct {
	RunID   string      `json:"run_id,omitempty" yaml:"run_id,omitempty"`
	Graph   string      `json:"graph" yaml:"graph"`
	Nodes   int         `json:"nodes" yaml:"nodes"`
	Method  string      `json:"method" yaml:"method"`
	Damping float64     `json:"damping" yaml:"damping"`
	Steps   int         `json:"steps" yaml:"steps"`
	Start   int         `json:"start" yaml:"start"`
	Seed    uint64      `json:"seed" yaml:"seed"`
	Walkers int         `json:"walkers,omitempty" yaml:"walkers,omitempty"`
	Scores  []NodeScore `json:"scores" yaml:"scores"`
}

// Build assembles the per-node scores of a report. visits and stddev may be
// nil; otherwise they must be as long as scores.
func Build(scores []float64, visits []int, stddev []float64) []NodeScore {
	out := make([]NodeScore, len(scores))
	for pos, node := range rank.Order(scores) {
		out[node] = NodeScore{Node: node, Rank: pos + 1, Score: scores[node]}
	}
	for i := range out {
		if visits != nil {
			out[i].Visits = visits[i]
		}
		if stddev != nil {
			out[i].StdDev = stddev[i]
		}
	}
	return out
}

// Write renders r to w in the named format.
func Write(w io.Writer, format string, r Report) error {
	switch format {
	case "table":
		return WriteTable(w, r)
	case "plain":
		return WritePlain(w, r)
	case "json":
		return WriteJSON(w, r)
	case "toml":
		return WriteTOML(w, r)
	case "yaml":
		return WriteYAML(w, r)
	default:
		return fmt.Errorf("report: unknown format %q", format)
	}
}

// WritePlain prints every score to three decimals on one line, in node order.
func WritePlain(w io.Writer, r Report) error {
	parts := make([]string, len(r.Scores))
	for i, s := range r.Scores {
		parts[i] = fmt.Sprintf("%.3f", s.Score)
	}
	_, err := fmt.Fprintln(w, strings.Join(parts, " "))
	return err
}

// WriteJSON writes r as indented JSON.
func WriteJSON(w io.Writer, r Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("report: encode json: %w", err)
	}
	return nil
}

// WriteYAML writes r as a YAML document.
func WriteYAML(w io.Writer, r Report) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("report: encode yaml: %w", err)
	}
	return enc.Close()
}
