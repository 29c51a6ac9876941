package config

import (
	"astral/internal/core/errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults", func(*Config) {}, ""},
		{"future version", func(c *Config) { c.Version = 2 }, "unsupported config version 2"},
		{"empty enabled entry", func(c *Config) { c.Rules.Enabled = []string{""} }, "rules.enabled[0] must not be empty"},
		{"duplicate disabled", func(c *Config) { c.Rules.Disabled = []string{"a", "a"} }, `rules.disabled contains duplicate entry "a"`},
		{"enabled and disabled", func(c *Config) {
			c.Rules.Enabled = []string{"no-nullable-array-property"}
			c.Rules.Disabled = []string{"no-nullable-array-property"}
		}, "both enabled and disabled"},
		{"wildcard regex class", func(c *Config) { c.Rules.RegexMatch.Class = `App\*` }, "rules.regex_match.class must be a plain class name"},
		{"no regex methods", func(c *Config) { c.Rules.RegexMatch.Methods = nil }, "rules.regex_match.methods must not be empty"},
		{"invalid factory pattern", func(c *Config) { c.Rules.FactoryInConstructor.FactoryPatterns = []string{"[Factory"} }, "factory_patterns[0]"},
		{"namespaced factory pattern", func(c *Config) { c.Rules.FactoryInConstructor.FactoryPatterns = []string{`App\*Factory`} }, ""},
		{"empty test case class", func(c *Config) { c.Rules.SkipFixturePrefix.TestCaseClasses = []string{" "} }, "test_case_classes[0] must not be empty"},
		{"zero workers", func(c *Config) { c.Analysis.Workers = 0 }, "analysis.workers must be between 1 and 256"},
		{"invalid exclude glob", func(c *Config) { c.Exclude.Files = []string{"fixtures/[a"} }, "exclude.files[0]"},
		{"negative debounce", func(c *Config) { c.Watch.Debounce = -time.Second }, "watch.debounce"},
		{"negative rate", func(c *Config) { c.Watch.MaxRate = -1 }, "watch.max_rate"},
		{"unknown format", func(c *Config) { c.Output.Format = "xml" }, "output.format must be one of"},
		{"metrics addr without port", func(c *Config) { c.Observability.MetricsAddr = "localhost" }, "observability.metrics_addr"},
		{"otlp endpoint with scheme", func(c *Config) { c.Observability.OTLPEndpoint = "http://collector:4317" }, "observability.otlp_endpoint"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := Validate(cfg)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.IsCode(err, errors.CodeValidationError))
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
