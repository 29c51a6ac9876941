package cli

import (
	coreapp "astral/internal/core/app"
	"astral/internal/core/config"
	"astral/internal/engine/rules"
	"astral/internal/shared/util"
	"astral/internal/shared/version"
	"astral/internal/ui/report"
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"slices"
	"strings"
	"syscall"
	"time"
)

// Exit codes.
const (
	ExitClean       = 0
	ExitDiagnostics = 1
	ExitFailure     = 2
)

func Run(args []string) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return run(ctx, args, os.Stdout, os.Stderr)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	opts, err := parseOptions(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return ExitClean
		}
		return ExitFailure
	}

	if opts.version {
		fmt.Fprintf(stdout, "astral %s\n", version.Version)
		return ExitClean
	}

	configureLogging(stderr, opts.verbose)

	cfg, cfgPath, err := loadConfig(opts)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		return ExitFailure
	}

	analysis, err := coreapp.New(cfg)
	if err != nil {
		slog.Error("failed to initialize rules", "error", err)
		return ExitFailure
	}
	defer analysis.Close()

	if opts.listRules {
		listRules(stdout, analysis.RuleSet())
		return ExitClean
	}

	if len(opts.args) == 0 {
		fmt.Fprintln(stderr, "astral: no input; pass tree dump files, directories or - for stdin")
		return ExitFailure
	}
	if opts.watch && slices.Contains(opts.args, coreapp.StdinPath) {
		fmt.Fprintln(stderr, "astral: -watch cannot read from stdin")
		return ExitFailure
	}

	shutdownTracing, err := setupTracing(ctx, cfg.Observability.OTLPEndpoint, cfg.Observability.ServiceName)
	if err != nil {
		slog.Error("failed to set up tracing", "error", err)
		return ExitFailure
	}
	defer flushTracing(shutdownTracing)

	if cfg.Observability.MetricsAddr != "" {
		srv := NewObservabilityServer(cfg.Observability.MetricsAddr, coreapp.NewHealthService(analysis))
		if err := srv.Start(ctx); err != nil {
			slog.Error("failed to start observability server", "addr", cfg.Observability.MetricsAddr, "error", err)
			return ExitFailure
		}
		defer func() {
			stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Stop(stopCtx)
		}()
	}

	result, err := analysis.Analyze(ctx, opts.args)
	if err != nil {
		slog.Error("analysis failed", "error", err)
		return ExitFailure
	}

	if err := emit(stdout, opts, cfg, analysis.RuleSet(), result); err != nil {
		slog.Error("failed to write report", "error", err)
		return ExitFailure
	}

	if !opts.watch {
		if len(result.Diagnostics) > 0 {
			return ExitDiagnostics
		}
		return ExitClean
	}

	return runWatch(ctx, stdout, opts, cfgPath, analysis)
}

func runWatch(ctx context.Context, stdout io.Writer, opts cliOptions, cfgPath string, analysis *coreapp.App) int {
	analysis.SetUpdateHandler(func(u coreapp.Update) {
		slog.Info("re-analyzed", "changed", len(u.Changed), "diagnostics", len(u.Result.Diagnostics), "duration", u.Duration)
		if err := emit(stdout, opts, analysis.CurrentConfig(), analysis.RuleSet(), u.Result); err != nil {
			slog.Error("failed to write report", "error", err)
		}
	})

	if err := analysis.StartWatcher(ctx); err != nil {
		slog.Error("failed to start watcher", "error", err)
		return ExitFailure
	}

	if cfgPath != "" {
		cw := config.NewWatcher(cfgPath, func(cfg *config.Config) {
			if err := applyFlagOverrides(cfg, opts); err != nil {
				slog.Warn("ignoring reloaded config", "error", err)
				return
			}
			if err := analysis.Reconfigure(cfg); err != nil {
				slog.Warn("ignoring reloaded config", "error", err)
				return
			}
			analysis.HandleChanges(nil)
		})
		if err := cw.Start(ctx); err != nil {
			slog.Warn("config hot reload disabled", "path", cfgPath, "error", err)
		} else {
			defer cw.Stop()
		}
	}

	<-ctx.Done()
	slog.Info("shutting down")
	return ExitClean
}

func loadConfig(opts cliOptions) (*config.Config, string, error) {
	cfg, path, err := config.LoadOrDefault(opts.configPath)
	if err != nil {
		return nil, "", err
	}
	config.ApplyEnvOverrides(cfg)
	if err := applyFlagOverrides(cfg, opts); err != nil {
		return nil, "", err
	}
	if path != "" {
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
	}
	slog.Debug("configuration loaded", "path", path, "format", cfg.Output.Format, "workers", cfg.Analysis.Workers)
	return cfg, path, nil
}

// applyFlagOverrides applies command-line settings on top of file and
// environment configuration and validates the outcome.
func applyFlagOverrides(cfg *config.Config, opts cliOptions) error {
	if opts.format != "" {
		cfg.Output.Format = opts.format
	}
	if opts.noColor {
		off := false
		cfg.Output.Color = &off
	}
	cfg.Output.Format = strings.ToLower(strings.TrimSpace(cfg.Output.Format))
	return config.Validate(cfg)
}

func emit(stdout io.Writer, opts cliOptions, cfg *config.Config, rs rules.RuleSet, result rules.EvaluationResult) error {
	ro := report.Options{Format: cfg.Output.Format, Color: cfg.ColorEnabled()}
	if wd, err := os.Getwd(); err == nil {
		ro.Root = wd
	}

	if opts.outPath == "" {
		return report.Render(stdout, ro, rs, result)
	}

	var buf bytes.Buffer
	ro.Color = false
	if err := report.Render(&buf, ro, rs, result); err != nil {
		return err
	}
	if err := util.WriteFileWithDirs(opts.outPath, buf.Bytes(), 0o644); err != nil {
		return err
	}
	slog.Info("report written", "path", opts.outPath, "diagnostics", len(result.Diagnostics))
	return nil
}

func listRules(w io.Writer, rs rules.RuleSet) {
	for _, r := range rs.Rules() {
		fmt.Fprintf(w, "%s\n    %s\n", r.ID(), r.Definition().Description)
	}
}

func flushTracing(shutdown func(context.Context) error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := shutdown(ctx); err != nil {
		slog.Warn("failed to flush traces", "error", err)
	}
}

func configureLogging(output io.Writer, verbose bool) {
	logLevel := slog.LevelInfo
	if verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(output, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)
}
