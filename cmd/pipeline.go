package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/papapumpkin/surfer/internal/config"
	"github.com/papapumpkin/surfer/internal/graph"
	"github.com/papapumpkin/surfer/internal/rank"
	"github.com/papapumpkin/surfer/internal/report"
	"github.com/papapumpkin/surfer/internal/store"
	"github.com/papapumpkin/surfer/internal/telemetry"
)

// matrixCacheSize bounds the transition matrices kept across reloads.
const matrixCacheSize = 8

// pipeline ranks graphs with one configuration. The store and emitter are
// optional; a nil store skips persistence and a nil emitter is a no-op.
type pipeline struct {
	cfg    config.Config
	cache  *rank.MatrixCache
	store  *store.SQLiteStore
	events *telemetry.Emitter
	logger *slog.Logger
}

// openPipeline wires the optional run store and telemetry stream named in
// cfg. Callers must Close the result.
func openPipeline(ctx context.Context, cfg config.Config, logger *slog.Logger) (*pipeline, error) {
	cache, err := rank.NewMatrixCache(matrixCacheSize)
	if err != nil {
		return nil, err
	}
	p := &pipeline{cfg: cfg, cache: cache, logger: logger}

	if cfg.TelemetryPath != "" {
		em, err := telemetry.NewEmitter(cfg.TelemetryPath)
		if err != nil {
			return nil, err
		}
		p.events = em
	}
	if cfg.StorePath != "" {
		s, err := store.NewSQLiteStore(ctx, cfg.StorePath, logger)
		if err != nil {
			p.events.Close()
			return nil, err
		}
		p.store = s
	}
	return p, nil
}

// Close releases the store and telemetry stream.
func (p *pipeline) Close() error {
	var firstErr error
	if p.store != nil {
		firstErr = p.store.Close()
	}
	if err := p.events.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}

// run ranks g and, when a store is configured, records the result.
func (p *pipeline) run(ctx context.Context, g *graph.Graph) (report.Report, error) {
	cfg := p.cfg
	fp := g.Fingerprint()
	runID := uuid.NewString()
	p.emit(telemetry.KindGraphLoaded, "", fp, map[string]int{"nodes": g.N, "links": g.EdgeCount(), "dangling": len(g.Dangling())})

	if cfg.Start >= g.N {
		return report.Report{}, fmt.Errorf("%w: start node %d outside [0, %d)", rank.ErrInvalidParameter, cfg.Start, g.N)
	}

	m, err := p.cache.Get(g, cfg.Damping)
	if err != nil {
		return report.Report{}, fmt.Errorf("build transition matrix: %w", err)
	}
	p.emit(telemetry.KindTransitionBuilt, runID, fp, map[string]float64{"damping": cfg.Damping})

	seed := cfg.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}

	rep := report.Report{
		RunID:   runID,
		Graph:   fp,
		Nodes:   g.N,
		Method:  cfg.Method,
		Damping: cfg.Damping,
		Steps:   cfg.Steps,
		Start:   cfg.Start,
	}
	var visits []int

	switch cfg.Method {
	case config.MethodMarkov:
		freq, iters, err := rank.PowerIterate(m, rank.PowerOptions{
			Start:         cfg.Start,
			MaxIterations: cfg.Steps,
			Epsilon:       cfg.Epsilon,
		})
		if err != nil {
			return report.Report{}, err
		}
		p.emit(telemetry.KindPowerDone, runID, fp, map[string]int{"iterations": iters})
		p.logger.Debug("power iteration done", "run", runID, "iterations", iters)
		rep.Scores = report.Build(freq, nil, nil)

	default:
		opts := rank.WalkOptions{Start: cfg.Start, Steps: cfg.Steps, Walkers: cfg.Walkers, Seed: seed}
		p.emit(telemetry.KindWalkStart, runID, fp, opts)
		began := time.Now()
		ens, err := rank.SimulateMany(ctx, m, opts)
		if err != nil {
			return report.Report{}, err
		}
		p.emit(telemetry.KindWalkDone, runID, fp, map[string]any{"steps": ens.Merged.Steps, "elapsed_ms": time.Since(began).Milliseconds()})
		p.logger.Debug("walk done", "run", runID, "walkers", cfg.Walkers, "steps", ens.Merged.Steps)

		var spread []float64
		if cfg.Walkers > 1 {
			spread = ens.StdDev
		}
		visits = []int(ens.Merged.Counts)
		rep.Seed = seed
		rep.Walkers = cfg.Walkers
		rep.Scores = report.Build(ens.Merged.Freq, visits, spread)
	}

	if p.store != nil {
		if err := p.save(ctx, rep, visits); err != nil {
			return report.Report{}, err
		}
	}
	return rep, nil
}

func (p *pipeline) save(ctx context.Context, rep report.Report, visits []int) error {
	scores := make([]float64, len(rep.Scores))
	for i, s := range rep.Scores {
		scores[i] = s.Score
	}
	run := &store.Run{
		ID:      rep.RunID,
		Graph:   rep.Graph,
		Nodes:   rep.Nodes,
		Method:  rep.Method,
		Damping: rep.Damping,
		Steps:   rep.Steps,
		Start:   rep.Start,
		Seed:    rep.Seed,
		Walkers: max(rep.Walkers, 1),
		Visits:  visits,
		Scores:  scores,
	}
	if err := p.store.SaveRun(ctx, run); err != nil {
		return err
	}
	p.emit(telemetry.KindRunSaved, run.ID, run.Graph, nil)
	return nil
}

func (p *pipeline) emit(kind, runID, graphID string, data any) {
	if err := p.events.Scope(runID, graphID).Record(kind, data); err != nil {
		p.logger.Warn("telemetry emit failed", "kind", kind, "err", err)
	}
}
