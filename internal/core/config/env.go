package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// ApplyEnvOverrides applies environment variable overrides to the configuration.
// Pattern: ASTRAL_[SECTION]_[KEY] (e.g., ASTRAL_ANALYSIS_WORKERS).
func ApplyEnvOverrides(cfg *Config) {
	// Analysis
	setEnvInt(&cfg.Analysis.Workers, "ASTRAL_ANALYSIS_WORKERS")

	// Watch
	setEnvDuration(&cfg.Watch.Debounce, "ASTRAL_WATCH_DEBOUNCE")
	setEnvFloat64(&cfg.Watch.MaxRate, "ASTRAL_WATCH_MAX_RATE")

	// Output
	setEnvString(&cfg.Output.Format, "ASTRAL_OUTPUT_FORMAT")
	setEnvBoolPtr(&cfg.Output.Color, "ASTRAL_OUTPUT_COLOR")

	// Observability
	setEnvString(&cfg.Observability.MetricsAddr, "ASTRAL_OBSERVABILITY_METRICS_ADDR")
	setEnvString(&cfg.Observability.OTLPEndpoint, "ASTRAL_OBSERVABILITY_OTLP_ENDPOINT")
	setEnvString(&cfg.Observability.ServiceName, "ASTRAL_OBSERVABILITY_SERVICE_NAME")

	normalize(cfg)
}

func setEnvString(target *string, key string) {
	if val, ok := os.LookupEnv(key); ok {
		slog.Debug("applying env override", "key", key, "value", val)
		*target = val
	}
}

func setEnvInt(target *int, key string) {
	if val, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(val); err == nil {
			slog.Debug("applying env override", "key", key, "value", val)
			*target = i
		}
	}
}

func setEnvBoolPtr(target **bool, key string) {
	if val, ok := os.LookupEnv(key); ok {
		b, err := strconv.ParseBool(strings.ToLower(val))
		if err == nil {
			slog.Debug("applying env override", "key", key, "value", val)
			*target = &b
		}
	}
}

func setEnvFloat64(target *float64, key string) {
	if val, ok := os.LookupEnv(key); ok {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			slog.Debug("applying env override", "key", key, "value", val)
			*target = f
		}
	}
}

func setEnvDuration(target *time.Duration, key string) {
	if val, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(val); err == nil {
			slog.Debug("applying env override", "key", key, "value", val)
			*target = d
		}
	}
}
