package app

import (
	"astral/internal/core/config"
	"astral/internal/core/watcher"
	"astral/internal/engine/rules"
	"astral/internal/shared/observability"
	"astral/internal/shared/util"
	"context"
	"log/slog"
	"sync"
	"time"
)

// Update is emitted after every evaluation triggered by watch mode.
type Update struct {
	Result   rules.EvaluationResult
	Changed  []string
	Duration time.Duration
}

// App owns the loaded tree dumps and the configured rules. Dumps are cached by
// path so watch mode only re-decodes what changed.
type App struct {
	mu        sync.RWMutex
	Config    *config.Config
	services  rules.Services
	ruleSet   rules.RuleSet
	evaluator *rules.RuleEvaluator
	filter    *util.PathFilter
	limiter   *util.Limiter

	units      map[string]rules.Unit
	roots      []string
	lastResult rules.EvaluationResult

	updateMu sync.RWMutex
	onUpdate func(Update)

	watchCtx      context.Context
	activeWatcher *watcher.Watcher
}

func New(cfg *config.Config) (*App, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	a := &App{
		services: rules.NewServices(),
		units:    make(map[string]rules.Unit),
	}
	if err := a.Reconfigure(cfg); err != nil {
		return nil, err
	}
	return a, nil
}

// Reconfigure swaps in cfg. On error the previous configuration stays active.
func (a *App) Reconfigure(cfg *config.Config) error {
	rs, err := rules.NewRuleSet(cfg, a.services)
	if err != nil {
		return err
	}
	filter, err := util.NewPathFilter(cfg.Exclude.Dirs, cfg.Exclude.Files)
	if err != nil {
		return err
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.Config = cfg
	a.ruleSet = rs
	a.evaluator = rules.NewRuleEvaluator(rs, cfg.Analysis.Workers)
	a.filter = filter
	a.limiter = util.NewLimiter(cfg.Watch.MaxRate, 1)
	if a.activeWatcher != nil {
		// TODO: a running watcher keeps the exclude patterns it started with.
		a.activeWatcher.SetDebounce(cfg.Watch.Debounce)
	}
	slog.Debug("configuration applied", "rules", rs.Len(), "workers", cfg.Analysis.Workers)
	return nil
}

// CurrentConfig returns the active configuration.
func (a *App) CurrentConfig() *config.Config {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.Config
}

// RuleSet returns the active rules.
func (a *App) RuleSet() rules.RuleSet {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.ruleSet
}

func (a *App) SetUpdateHandler(handler func(Update)) {
	a.updateMu.Lock()
	defer a.updateMu.Unlock()
	a.onUpdate = handler
}

func (a *App) emitUpdate(update Update) {
	a.updateMu.RLock()
	handler := a.onUpdate
	a.updateMu.RUnlock()
	if handler != nil {
		handler(update)
	}
}

// UnitCount returns the number of cached tree dumps.
func (a *App) UnitCount() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.units)
}

// LastResult returns the result of the latest evaluation.
func (a *App) LastResult() rules.EvaluationResult {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.lastResult
}

// Analyze loads every dump under paths and evaluates them once.
func (a *App) Analyze(ctx context.Context, paths []string) (rules.EvaluationResult, error) {
	if err := a.InitialScan(paths); err != nil {
		return rules.EvaluationResult{}, err
	}
	return a.Evaluate(ctx)
}

// Evaluate runs the active rules over all cached units, in path order.
func (a *App) Evaluate(ctx context.Context) (rules.EvaluationResult, error) {
	ctx, span := observability.Tracer.Start(ctx, "app.Evaluate")
	defer span.End()

	a.mu.RLock()
	units := make([]rules.Unit, 0, len(a.units))
	for _, path := range util.SortedStringKeys(a.units) {
		units = append(units, a.units[path])
	}
	evaluator := a.evaluator
	a.mu.RUnlock()

	start := time.Now()
	result, err := evaluator.EvaluateAll(ctx, units)
	if slog.Default().Enabled(ctx, slog.LevelDebug) {
		slog.Debug("evaluated units",
			"run_id", result.RunID,
			"units", len(units),
			"diagnostics", len(result.Diagnostics),
			"duration", time.Since(start),
			"heap_mb", util.GetHeapAllocMB())
	}
	if err != nil {
		return result, err
	}

	a.mu.Lock()
	a.lastResult = result
	a.mu.Unlock()
	return result, nil
}
