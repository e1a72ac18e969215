// Package store persists ranking runs in a local SQLite database so results
// for a graph can be compared across seeds, damping factors, and methods.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure-Go SQLite driver.
)

// ErrRunNotFound is returned when a run ID has no stored record.
var ErrRunNotFound = errors.New("run not found")

// schema contains the DDL executed on first open. Using IF NOT EXISTS makes
// it safe to run on every startup.
const schema = `
CREATE TABLE IF NOT EXISTS runs (
    seq        INTEGER PRIMARY KEY AUTOINCREMENT,
    id         TEXT NOT NULL UNIQUE,
    graph      TEXT NOT NULL,
    nodes      INTEGER NOT NULL,
    method     TEXT NOT NULL,
    damping    REAL NOT NULL,
    steps      INTEGER NOT NULL,
    start_node INTEGER NOT NULL,
    seed       INTEGER NOT NULL,
    walkers    INTEGER NOT NULL,
    created_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS run_scores (
    run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
    node   INTEGER NOT NULL,
    visits INTEGER,
    score  REAL NOT NULL,
    PRIMARY KEY (run_id, node)
);

CREATE INDEX IF NOT EXISTS runs_graph ON runs(graph);
`

// Run is one stored ranking result. Visits is nil for runs that did not
// count visits, such as power iteration.
type Run struct {
	ID        string
	Graph     string // graph fingerprint
	Nodes     int
	Method    string
	Damping   float64
	Steps     int
	Start     int
	Seed      uint64
	Walkers   int
	CreatedAt time.Time
	Visits    []int
	Scores    []float64
}

// SQLiteStore implements run history on a SQLite database in WAL mode.
type SQLiteStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath, enables WAL
// mode and busy timeout, and creates the schema if it does not exist. A nil
// logger falls back to slog.Default().
func NewSQLiteStore(ctx context.Context, dbPath string, logger *slog.Logger) (*SQLiteStore, error) {
	if logger == nil {
		logger = slog.Default()
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("store: open database: %w", err)
	}

	// One connection: SQLite has a single writer and the PRAGMAs below are
	// per-connection.
	db.SetMaxOpenConns(1)

	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA foreign_keys=ON",
	} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("store: %s: %w", pragma, err)
		}
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: create schema: %w", err)
	}

	logger.Debug("run store opened", "path", dbPath)
	return &SQLiteStore{db: db, logger: logger}, nil
}

// SaveRun inserts run and its per-node scores in one transaction. An empty
// ID is replaced with a fresh UUID and a zero CreatedAt with the current
// time; both are written back to run.
func (s *SQLiteStore) SaveRun(ctx context.Context, run *Run) error {
	if run.Visits != nil && len(run.Visits) != len(run.Scores) {
		return fmt.Errorf("store: run has %d visit counts but %d scores", len(run.Visits), len(run.Scores))
	}
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store: begin tx for run %s: %w", run.ID, err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	const insertRun = `
		INSERT INTO runs (id, graph, nodes, method, damping, steps, start_node, seed, walkers, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	if _, err := tx.ExecContext(ctx, insertRun,
		run.ID, run.Graph, run.Nodes, run.Method, run.Damping, run.Steps,
		run.Start, int64(run.Seed), run.Walkers, run.CreatedAt.Format(time.RFC3339Nano),
	); err != nil {
		return fmt.Errorf("store: insert run %s: %w", run.ID, err)
	}

	stmt, err := tx.PrepareContext(ctx, "INSERT INTO run_scores (run_id, node, visits, score) VALUES (?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("store: prepare score insert: %w", err)
	}
	defer stmt.Close()

	for node, score := range run.Scores {
		var visits any
		if run.Visits != nil {
			visits = run.Visits[node]
		}
		if _, err := stmt.ExecContext(ctx, run.ID, node, visits, score); err != nil {
			return fmt.Errorf("store: insert score %s/%d: %w", run.ID, node, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("store: commit run %s: %w", run.ID, err)
	}
	s.logger.Debug("run saved", "run", run.ID, "graph", run.Graph, "method", run.Method)
	return nil
}

// GetRun loads a run and its scores. Returns ErrRunNotFound for unknown IDs.
func (s *SQLiteStore) GetRun(ctx context.Context, id string) (Run, error) {
	const q = `
		SELECT id, graph, nodes, method, damping, steps, start_node, seed, walkers, created_at
		FROM runs WHERE id = ?`
	run, err := scanRun(s.db.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	if err != nil {
		return Run{}, fmt.Errorf("store: get run %s: %w", id, err)
	}

	rows, err := s.db.QueryContext(ctx, "SELECT visits, score FROM run_scores WHERE run_id = ? ORDER BY node", id)
	if err != nil {
		return Run{}, fmt.Errorf("store: query scores for %s: %w", id, err)
	}
	defer rows.Close()

	visits := make([]int, 0, run.Nodes)
	scores := make([]float64, 0, run.Nodes)
	counted := true
	for rows.Next() {
		var v sql.NullInt64
		var sc float64
		if err := rows.Scan(&v, &sc); err != nil {
			return Run{}, fmt.Errorf("store: scan score: %w", err)
		}
		counted = counted && v.Valid
		visits = append(visits, int(v.Int64))
		scores = append(scores, sc)
	}
	if err := rows.Err(); err != nil {
		return Run{}, fmt.Errorf("store: iterate scores: %w", err)
	}
	run.Scores = scores
	if counted && len(visits) > 0 {
		run.Visits = visits
	}
	return run, nil
}

// ListRuns returns up to limit runs, newest first, without their scores.
// A non-empty graph restricts the list to that fingerprint.
func (s *SQLiteStore) ListRuns(ctx context.Context, graph string, limit int) ([]Run, error) {
	q := `SELECT id, graph, nodes, method, damping, steps, start_node, seed, walkers, created_at FROM runs`
	var args []any
	if graph != "" {
		q += " WHERE graph = ?"
		args = append(args, graph)
	}
	q += " ORDER BY seq DESC LIMIT ?"
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("store: list runs: %w", err)
	}
	defer rows.Close()

	var result []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("store: scan run: %w", err)
		}
		result = append(result, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: iterate runs: %w", err)
	}
	return result, nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (Run, error) {
	var run Run
	var seed int64
	var ts string
	if err := row.Scan(&run.ID, &run.Graph, &run.Nodes, &run.Method, &run.Damping,
		&run.Steps, &run.Start, &seed, &run.Walkers, &ts); err != nil {
		return Run{}, err
	}
	createdAt, err := time.Parse(time.RFC3339Nano, ts)
	if err != nil {
		return Run{}, fmt.Errorf("parse run timestamp %q: %w", ts, err)
	}
	run.Seed = uint64(seed)
	run.CreatedAt = createdAt
	return run, nil
}
