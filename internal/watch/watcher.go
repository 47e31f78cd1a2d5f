// Package watch re-solves a problem file whenever it changes on disk.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"nondiv/internal/logging"
	"nondiv/internal/problem"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Handler receives the solutions of every problem in the file, or the error
// that prevented loading or solving it.
type Handler func(solutions []problem.Solution, err error)

// Stats tracks watcher activity.
type Stats struct {
	Events        int
	Reloads       int
	Errors        int
	LastEventTime time.Time
	LastEventType string
}

// Watcher watches a single problem file. The parent directory is watched so
// that editors which save by rename are still picked up.
type Watcher struct {
	mu       sync.Mutex
	watcher  *fsnotify.Watcher
	path     string
	opts     problem.Options
	handler  Handler
	debounce time.Duration
	pending  time.Time
	stopCh   chan struct{}
	doneCh   chan struct{}
	running  bool
	closed   bool
	stats    Stats
}

// New creates a Watcher for path. debounce collapses bursts of writes into a
// single reload; values <= 0 reload on the next tick.
func New(path string, opts problem.Options, debounce time.Duration, handler Handler) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", path, err)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	return &Watcher{
		watcher:  fw,
		path:     abs,
		opts:     opts,
		handler:  handler,
		debounce: debounce,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}, nil
}

// Reload loads and solves the file immediately and passes the outcome to the
// handler.
func (w *Watcher) Reload() {
	solutions, err := solveFile(w.path, w.opts)

	w.mu.Lock()
	w.stats.Reloads++
	if err != nil {
		w.stats.Errors++
	}
	w.mu.Unlock()

	if err != nil {
		logging.Get(logging.CategoryWatch).Warn("reload failed", zap.String("path", w.path), zap.Error(err))
	} else {
		logging.Get(logging.CategoryWatch).Debug("reloaded", zap.String("path", w.path), zap.Int("problems", len(solutions)))
	}
	w.handler(solutions, err)
}

// Start begins watching. It is non-blocking; events are handled on a
// separate goroutine until ctx is done or Stop is called.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		return nil
	}
	if w.closed {
		return fmt.Errorf("watcher for %s already stopped", w.path)
	}

	dir := filepath.Dir(w.path)
	if err := w.watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	w.running = true

	logging.Get(logging.CategoryWatch).Info("watching", zap.String("path", w.path))
	go w.run(ctx)
	return nil
}

// Stop stops the watcher and waits for the event loop to exit.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	w.closed = true
	running := w.running
	w.running = false
	w.mu.Unlock()

	if running {
		close(w.stopCh)
		<-w.doneCh
	}

	if err := w.watcher.Close(); err != nil {
		logging.Get(logging.CategoryWatch).Error("error closing watcher", zap.Error(err))
	}
}

// Stats returns a snapshot of watcher activity.
func (w *Watcher) Stats() Stats {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.stats
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)

	tick := w.debounce / 4
	if tick < 10*time.Millisecond {
		tick = 10 * time.Millisecond
	}
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case <-w.stopCh:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logging.Get(logging.CategoryWatch).Error("watcher error", zap.Error(err))
			w.mu.Lock()
			w.stats.Errors++
			w.mu.Unlock()

		case <-ticker.C:
			w.processPending()
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if filepath.Clean(event.Name) != w.path {
		return
	}

	var eventType string
	switch {
	case event.Op&fsnotify.Create != 0:
		eventType = "create"
	case event.Op&fsnotify.Write != 0:
		eventType = "modify"
	case event.Op&fsnotify.Rename != 0:
		eventType = "rename"
	default:
		return // Ignore chmod and remove; a rewrite follows with create.
	}

	w.mu.Lock()
	w.stats.Events++
	w.stats.LastEventTime = time.Now()
	w.stats.LastEventType = eventType
	w.pending = time.Now()
	w.mu.Unlock()
}

func (w *Watcher) processPending() {
	w.mu.Lock()
	if w.pending.IsZero() || time.Since(w.pending) < w.debounce {
		w.mu.Unlock()
		return
	}
	w.pending = time.Time{}
	w.mu.Unlock()

	w.Reload()
}

func solveFile(path string, opts problem.Options) ([]problem.Solution, error) {
	problems, err := problem.LoadFile(path)
	if err != nil {
		return nil, err
	}

	solutions := make([]problem.Solution, 0, len(problems))
	for _, p := range problems {
		sol, err := problem.Solve(p, opts)
		if err != nil {
			return nil, err
		}
		solutions = append(solutions, sol)
	}
	return solutions, nil
}
