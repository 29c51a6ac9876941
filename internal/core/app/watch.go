package app

import (
	"astral/internal/core/watcher"
	"context"
	"log/slog"
	"os"
	"time"
)

// StartWatcher watches the roots of the last InitialScan and re-evaluates on
// every settled batch of changes. It returns once the watcher is running; ctx
// bounds the rate limiter waits and Close stops it.
func (a *App) StartWatcher(ctx context.Context) error {
	a.mu.RLock()
	cfg := a.Config
	roots := append([]string(nil), a.roots...)
	a.mu.RUnlock()

	w, err := watcher.NewWatcher(
		cfg.Watch.Debounce,
		cfg.Exclude.Dirs,
		cfg.Exclude.Files,
		a.HandleChanges,
	)
	if err != nil {
		return err
	}

	a.mu.Lock()
	a.watchCtx = ctx
	a.activeWatcher = w
	a.mu.Unlock()

	watchable := roots[:0:0]
	for _, root := range roots {
		if root != StdinPath {
			watchable = append(watchable, root)
		}
	}
	slog.Info("watching for changes", "roots", watchable, "debounce", cfg.Watch.Debounce)
	return w.Watch(watchable)
}

// HandleChanges reloads the changed dumps, drops deleted ones and publishes a
// fresh evaluation.
func (a *App) HandleChanges(paths []string) {
	slog.Info("detected changes", "count", len(paths))
	start := time.Now()

	for _, path := range paths {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			a.removeFile(path)
			continue
		}
		if err := a.ProcessFile(path); err != nil {
			// A half-written dump is common while the producer is running.
			slog.Warn("failed to re-process dump", "path", path, "error", err)
			a.removeFile(path)
		}
	}

	a.mu.RLock()
	ctx := a.watchCtx
	limiter := a.limiter
	a.mu.RUnlock()
	if ctx == nil {
		ctx = context.Background()
	}

	if err := limiter.Wait(ctx, 1); err != nil {
		return
	}
	result, err := a.Evaluate(ctx)
	if err != nil {
		slog.Warn("re-evaluation interrupted", "error", err)
		return
	}
	a.emitUpdate(Update{Result: result, Changed: paths, Duration: time.Since(start)})
}

// Close stops the active watcher, if any.
func (a *App) Close() error {
	a.mu.Lock()
	w := a.activeWatcher
	a.activeWatcher = nil
	a.mu.Unlock()
	if w == nil {
		return nil
	}
	return w.Close()
}
