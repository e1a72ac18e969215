// Package watch reloads a graph file whenever it changes on disk.
package watch

import (
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/papapumpkin/surfer/internal/graph"
)

// DefaultDebounce is how long a file must stay quiet before it is reloaded.
const DefaultDebounce = 100 * time.Millisecond

// Change is emitted after the watched file settles. Exactly one of Graph and
// Err is set; Err is non-nil when the file was removed or failed to parse.
type Change struct {
	Path  string
	Graph *graph.Graph
	Err   error
}

// Watcher monitors one graph file. It watches the parent directory so that
// editors which replace the file on save are still observed.
type Watcher struct {
	Path     string
	Debounce time.Duration
	Changes  <-chan Change // Read-only external channel

	changes chan Change
	done    chan struct{}
	watcher *fsnotify.Watcher
	logger  *slog.Logger
}

// NewWatcher creates a watcher for the graph file at path. A nil logger
// falls back to slog.Default().
func NewWatcher(path string, logger *slog.Logger) (*Watcher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	ch := make(chan Change, 16)
	return &Watcher{
		Path:     abs,
		Debounce: DefaultDebounce,
		Changes:  ch,
		changes:  ch,
		done:     make(chan struct{}),
		watcher:  fw,
		logger:   logger,
	}, nil
}

// Start begins watching for changes.
func (w *Watcher) Start() error {
	if err := w.watcher.Add(filepath.Dir(w.Path)); err != nil {
		return err
	}
	go w.loop()
	return nil
}

// Stop closes the watcher and the Changes channel.
func (w *Watcher) Stop() {
	w.watcher.Close()
	<-w.done // Wait for loop to exit
	close(w.changes)
}

func (w *Watcher) loop() {
	defer close(w.done)

	var pending time.Time
	ticker := time.NewTicker(w.Debounce)
	defer ticker.Stop()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				if !pending.IsZero() {
					w.emit()
				}
				return
			}
			if filepath.Clean(event.Name) != w.Path {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
				pending = time.Now()
			}

		case <-ticker.C:
			if !pending.IsZero() && time.Since(pending) >= w.Debounce {
				pending = time.Time{}
				w.emit()
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			// Watch errors are non-fatal; the next event retries.
			w.logger.Warn("graph watch error", "path", w.Path, "err", err)
		}
	}
}

func (w *Watcher) emit() {
	g, err := graph.Load(w.Path)
	if err != nil {
		w.logger.Debug("graph reload failed", "path", w.Path, "err", err)
		w.changes <- Change{Path: w.Path, Err: err}
		return
	}
	w.logger.Debug("graph reloaded", "path", w.Path, "nodes", g.N)
	w.changes <- Change{Path: w.Path, Graph: g}
}
