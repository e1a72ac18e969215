// Package telemetry provides a JSONL event stream for ranking runs. Graph
// loads, matrix builds, walks, and persisted results are each recorded as a
// structured JSON line so a run can be audited or replayed later.
package telemetry

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// Event kinds emitted by the ranking pipeline, in the order a run produces
// them.
const (
	KindGraphLoaded     = "graph_loaded"
	KindTransitionBuilt = "transition_built"
	KindWalkStart       = "walk_start"
	KindWalkDone        = "walk_done"
	KindPowerDone       = "power_done"
	KindRunSaved        = "run_saved"
	KindGraphChanged    = "graph_changed"
)

// Event is one line of the stream. Seq increases by one per event written
// through the same Emitter, so lines can be re-ordered after concurrent
// writers interleave.
type Event struct {
	Seq       uint64    `json:"seq"`
	Timestamp time.Time `json:"ts"`
	Kind      string    `json:"kind"`
	RunID     string    `json:"run,omitempty"`
	Graph     string    `json:"graph,omitempty"`
	Data      any       `json:"data,omitempty"`
}

// Emitter appends events to a JSONL file. It is safe for concurrent use.
// A nil *Emitter discards everything.
type Emitter struct {
	mu   sync.Mutex
	file *os.File
	enc  *json.Encoder
	seq  uint64
}

// NewEmitter opens path for appending, creating it if needed.
func NewEmitter(path string) (*Emitter, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("telemetry: open %s: %w", path, err)
	}
	return &Emitter{file: f, enc: json.NewEncoder(f)}, nil
}

// Emit assigns the next sequence number, stamps a zero Timestamp with the
// current UTC time, and writes evt as one line.
func (e *Emitter) Emit(evt Event) error {
	if e == nil {
		return nil
	}
	if evt.Timestamp.IsZero() {
		evt.Timestamp = time.Now().UTC()
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.seq++
	evt.Seq = e.seq
	if err := e.enc.Encode(evt); err != nil {
		return fmt.Errorf("telemetry: encode %s event: %w", evt.Kind, err)
	}
	return nil
}

// Scope returns a recorder that tags every event with runID and graph.
func (e *Emitter) Scope(runID, graph string) Scope {
	return Scope{emitter: e, runID: runID, graph: graph}
}

// Close closes the underlying file.
func (e *Emitter) Close() error {
	if e == nil {
		return nil
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.file.Close(); err != nil {
		return fmt.Errorf("telemetry: close: %w", err)
	}
	return nil
}

// Scope emits events for a single run and graph. The zero Scope, like a
// Scope over a nil Emitter, discards events.
type Scope struct {
	emitter *Emitter
	runID   string
	graph   string
}

// Record emits an event of the given kind carrying data.
func (s Scope) Record(kind string, data any) error {
	return s.emitter.Emit(Event{Kind: kind, RunID: s.runID, Graph: s.graph, Data: data})
}

// Read decodes a JSONL stream written by an Emitter. Blank lines are
// skipped. Data fields decode into generic JSON values.
func Read(r io.Reader) ([]Event, error) {
	var events []Event
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	line := 0
	for sc.Scan() {
		line++
		if len(sc.Bytes()) == 0 {
			continue
		}
		var evt Event
		if err := json.Unmarshal(sc.Bytes(), &evt); err != nil {
			return nil, fmt.Errorf("telemetry: line %d: %w", line, err)
		}
		events = append(events, evt)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("telemetry: read: %w", err)
	}
	return events, nil
}
