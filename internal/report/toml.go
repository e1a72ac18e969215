package report

import (
	"fmt"
	"io"

	toml "github.com/pelletier/go-toml/v2"
)

// tomlReport is the TOML-serializable form of Report. TOML integers are
// signed 64-bit, so the seed is stored as its int64 bit pattern.
type tomlReport struct {
	RunID   string      `toml:"run_id,omitempty"`
	Graph   string      `toml:"graph"`
	Nodes   int         `toml:"nodes"`
	Method  string      `toml:"method"`
	Damping float64     `toml:"damping"`
	Steps   int         `toml:"steps"`
	Start   int         `toml:"start"`
	Seed    int64       `toml:"seed"`
	Walkers int         `toml:"walkers,omitempty"`
	Scores  []tomlScore `toml:"scores"`
}

type tomlScore struct {
	Node   int     `toml:"node"`
	Rank   int     `toml:"rank"`
	Score  float64 `toml:"score"`
	Visits int     `toml:"visits,omitempty"`
	StdDev float64 `toml:"stddev,omitempty"`
}

// WriteTOML writes r as a TOML document with one [[scores]] table per node.
func WriteTOML(w io.Writer, r Report) error {
	rec := tomlReport{
		RunID:   r.RunID,
		Graph:   r.Graph,
		Nodes:   r.Nodes,
		Method:  r.Method,
		Damping: r.Damping,
		Steps:   r.Steps,
		Start:   r.Start,
		Seed:    int64(r.Seed),
		Walkers: r.Walkers,
		Scores:  make([]tomlScore, len(r.Scores)),
	}
	for i, s := range r.Scores {
		rec.Scores[i] = tomlScore(s)
	}

	data, err := toml.Marshal(rec)
	if err != nil {
		return fmt.Errorf("report: encode toml: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("report: write toml: %w", err)
	}
	return nil
}

// ReadTOML parses a report previously written by WriteTOML.
func ReadTOML(data []byte) (Report, error) {
	var rec tomlReport
	if err := toml.Unmarshal(data, &rec); err != nil {
		return Report{}, fmt.Errorf("report: decode toml: %w", err)
	}
	r := Report{
		RunID:   rec.RunID,
		Graph:   rec.Graph,
		Nodes:   rec.Nodes,
		Method:  rec.Method,
		Damping: rec.Damping,
		Steps:   rec.Steps,
		Start:   rec.Start,
		Seed:    uint64(rec.Seed),
		Walkers: rec.Walkers,
		Scores:  make([]NodeScore, len(rec.Scores)),
	}
	for i, s := range rec.Scores {
		r.Scores[i] = NodeScore(s)
	}
	return r, nil
}
