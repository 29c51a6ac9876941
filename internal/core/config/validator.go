package config

import (
	"astral/internal/core/errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/gobwas/glob"
)

const (
	FormatText  = "text"
	FormatJSON  = "json"
	FormatSARIF = "sarif"

	maxWorkers  = 256
	maxDebounce = time.Minute
)

// Validate runs every section check and reports the first failure as a
// CodeValidationError.
func Validate(cfg *Config) error {
	checks := []func(*Config) error{
		validateVersion,
		validateRules,
		validateAnalysis,
		validateExclude,
		validateWatch,
		validateOutput,
		validateObservability,
	}
	for _, check := range checks {
		if err := check(cfg); err != nil {
			return errors.Wrap(err, errors.CodeValidationError, "invalid configuration")
		}
	}
	return nil
}

func validateVersion(cfg *Config) error {
	if cfg.Version < 1 {
		return fmt.Errorf("version must be >= 1, got %d", cfg.Version)
	}
	if cfg.Version > 1 {
		return fmt.Errorf("unsupported config version %d; supported version is 1", cfg.Version)
	}
	return nil
}

func validateRules(cfg *Config) error {
	if err := validateIDList("rules.enabled", cfg.Rules.Enabled); err != nil {
		return err
	}
	if err := validateIDList("rules.disabled", cfg.Rules.Disabled); err != nil {
		return err
	}
	disabled := make(map[string]bool, len(cfg.Rules.Disabled))
	for _, id := range cfg.Rules.Disabled {
		disabled[id] = true
	}
	for _, id := range cfg.Rules.Enabled {
		if disabled[id] {
			return fmt.Errorf("rule %q is both enabled and disabled", id)
		}
	}

	class := cfg.Rules.RegexMatch.Class
	if class == "" {
		return fmt.Errorf("rules.regex_match.class must not be empty")
	}
	if strings.ContainsAny(class, " \t\n*") {
		return fmt.Errorf("rules.regex_match.class must be a plain class name, got %q", class)
	}
	if len(cfg.Rules.RegexMatch.Methods) == 0 {
		return fmt.Errorf("rules.regex_match.methods must not be empty")
	}
	for i, m := range cfg.Rules.RegexMatch.Methods {
		if strings.TrimSpace(m) == "" {
			return fmt.Errorf("rules.regex_match.methods[%d] must not be empty", i)
		}
	}

	for i, p := range cfg.Rules.FactoryInConstructor.FactoryPatterns {
		if strings.TrimSpace(p) == "" {
			return fmt.Errorf("rules.factory_in_constructor.factory_patterns[%d] must not be empty", i)
		}
		if _, err := glob.Compile(strings.ReplaceAll(p, `\`, `\\`)); err != nil {
			return fmt.Errorf("rules.factory_in_constructor.factory_patterns[%d] %q is not a valid pattern: %w", i, p, err)
		}
	}

	for i, c := range cfg.Rules.SkipFixturePrefix.TestCaseClasses {
		if strings.TrimSpace(c) == "" {
			return fmt.Errorf("rules.skip_fixture_prefix.test_case_classes[%d] must not be empty", i)
		}
		if _, err := glob.Compile(strings.ReplaceAll(c, `\`, `\\`)); err != nil {
			return fmt.Errorf("rules.skip_fixture_prefix.test_case_classes[%d] %q is not a valid pattern: %w", i, c, err)
		}
	}
	return nil
}

func validateIDList(field string, ids []string) error {
	seen := make(map[string]bool, len(ids))
	for i, id := range ids {
		if id == "" {
			return fmt.Errorf("%s[%d] must not be empty", field, i)
		}
		if seen[id] {
			return fmt.Errorf("%s contains duplicate entry %q", field, id)
		}
		seen[id] = true
	}
	return nil
}

func validateAnalysis(cfg *Config) error {
	if cfg.Analysis.Workers < 1 || cfg.Analysis.Workers > maxWorkers {
		return fmt.Errorf("analysis.workers must be between 1 and %d, got %d", maxWorkers, cfg.Analysis.Workers)
	}
	return nil
}

func validateExclude(cfg *Config) error {
	for i, p := range cfg.Exclude.Files {
		if strings.TrimSpace(p) == "" {
			return fmt.Errorf("exclude.files[%d] must not be empty", i)
		}
		if _, err := glob.Compile(p, '/'); err != nil {
			return fmt.Errorf("exclude.files[%d] %q is not a valid pattern: %w", i, p, err)
		}
	}
	for i, d := range cfg.Exclude.Dirs {
		if strings.TrimSpace(d) == "" {
			return fmt.Errorf("exclude.dirs[%d] must not be empty", i)
		}
	}
	return nil
}

func validateWatch(cfg *Config) error {
	if cfg.Watch.Debounce < 0 || cfg.Watch.Debounce > maxDebounce {
		return fmt.Errorf("watch.debounce must be between 0s and %s", maxDebounce)
	}
	if cfg.Watch.MaxRate < 0 {
		return fmt.Errorf("watch.max_rate must not be negative")
	}
	return nil
}

func validateOutput(cfg *Config) error {
	switch cfg.Output.Format {
	case FormatText, FormatJSON, FormatSARIF:
		return nil
	default:
		return fmt.Errorf("output.format must be one of: text, json, sarif")
	}
}

func validateObservability(cfg *Config) error {
	if addr := cfg.Observability.MetricsAddr; addr != "" {
		if _, _, err := net.SplitHostPort(addr); err != nil {
			return fmt.Errorf("observability.metrics_addr %q must be host:port: %w", addr, err)
		}
	}
	if ep := cfg.Observability.OTLPEndpoint; ep != "" && strings.Contains(ep, "://") {
		return fmt.Errorf("observability.otlp_endpoint must be host:port without a scheme, got %q", ep)
	}
	return nil
}
