package config

import (
	"astral/internal/core/errors"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

const (
	DefaultRegexClass = `Nette\Utils\Strings`
	DefaultFactory    = "*Factory"
	DefaultTestCase   = `PHPStan\Testing\RuleTestCase`
)

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.AddContext(errors.Wrap(err, errors.CodeNotFound, "config file not found"), errors.CtxPath, path)
		}
		return nil, errors.AddContext(errors.Wrap(err, errors.CodeInternal, "read config"), errors.CtxPath, path)
	}

	var cfg Config
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return nil, errors.AddContext(errors.Wrap(err, errors.CodeValidationError, "decode config"), errors.CtxPath, path)
	}

	applyDefaults(&cfg)
	normalize(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, errors.AddContext(err, errors.CtxPath, path)
	}
	return &cfg, nil
}

// LoadOrDefault loads path when set, falls back to DefaultFile in the working
// directory when it exists, and otherwise returns DefaultConfig.
func LoadOrDefault(path string) (*Config, string, error) {
	if strings.TrimSpace(path) != "" {
		cfg, err := Load(path)
		return cfg, path, err
	}
	if _, err := os.Stat(DefaultFile); err == nil {
		cfg, err := Load(DefaultFile)
		return cfg, DefaultFile, err
	}
	return DefaultConfig(), "", nil
}

func applyDefaults(cfg *Config) {
	if cfg.Version == 0 {
		cfg.Version = 1
	}

	if strings.TrimSpace(cfg.Rules.RegexMatch.Class) == "" {
		cfg.Rules.RegexMatch.Class = DefaultRegexClass
	}
	if len(cfg.Rules.RegexMatch.Methods) == 0 {
		cfg.Rules.RegexMatch.Methods = []string{"match"}
	}
	if len(cfg.Rules.FactoryInConstructor.FactoryPatterns) == 0 {
		cfg.Rules.FactoryInConstructor.FactoryPatterns = []string{DefaultFactory}
	}
	if len(cfg.Rules.SkipFixturePrefix.TestCaseClasses) == 0 {
		cfg.Rules.SkipFixturePrefix.TestCaseClasses = []string{DefaultTestCase}
	}

	if cfg.Analysis.Workers == 0 {
		cfg.Analysis.Workers = defaultWorkers()
	}

	// Default debounce if not set.
	if cfg.Watch.Debounce == 0 {
		cfg.Watch.Debounce = 500 * time.Millisecond
	}
	if cfg.Watch.MaxRate == 0 {
		cfg.Watch.MaxRate = 2
	}

	if strings.TrimSpace(cfg.Output.Format) == "" {
		cfg.Output.Format = FormatText
	}
	if cfg.Output.Color == nil {
		enabled := true
		cfg.Output.Color = &enabled
	}

	if strings.TrimSpace(cfg.Observability.ServiceName) == "" {
		cfg.Observability.ServiceName = "astral"
	}
}

func normalize(cfg *Config) {
	cfg.Rules.Enabled = normalizeList(cfg.Rules.Enabled, true)
	cfg.Rules.Disabled = normalizeList(cfg.Rules.Disabled, true)
	cfg.Rules.RegexMatch.Class = strings.TrimPrefix(strings.TrimSpace(cfg.Rules.RegexMatch.Class), `\`)
	cfg.Output.Format = strings.ToLower(strings.TrimSpace(cfg.Output.Format))
	cfg.Observability.MetricsAddr = strings.TrimSpace(cfg.Observability.MetricsAddr)
	cfg.Observability.OTLPEndpoint = strings.TrimSpace(cfg.Observability.OTLPEndpoint)
}

// normalizeList trims entries, optionally lowercasing them. Empty entries are
// kept so validation can report them.
func normalizeList(in []string, lower bool) []string {
	if len(in) == 0 {
		return in
	}
	out := make([]string, 0, len(in))
	for _, v := range in {
		v = strings.TrimSpace(v)
		if lower {
			v = strings.ToLower(v)
		}
		out = append(out, v)
	}
	return out
}
