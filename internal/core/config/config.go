package config

import (
	"runtime"
	"time"
)

// DefaultFile is looked up in the working directory when no -config is given.
const DefaultFile = "astral.toml"

type Config struct {
	Version       int           `toml:"version"`
	Rules         Rules         `toml:"rules"`
	Analysis      Analysis      `toml:"analysis"`
	Exclude       Exclude       `toml:"exclude"`
	Watch         Watch         `toml:"watch"`
	Output        Output        `toml:"output"`
	Observability Observability `toml:"observability"`
}

type Rules struct {
	// Enabled restricts evaluation to the listed rule IDs. Empty means all.
	Enabled              []string             `toml:"enabled"`
	Disabled             []string             `toml:"disabled"`
	RegexMatch           RegexMatch           `toml:"regex_match"`
	FactoryInConstructor FactoryInConstructor `toml:"factory_in_constructor"`
	SkipFixturePrefix    SkipFixturePrefix    `toml:"skip_fixture_prefix"`
}

type RegexMatch struct {
	Class   string   `toml:"class"`
	Methods []string `toml:"methods"`
}

type FactoryInConstructor struct {
	FactoryPatterns []string `toml:"factory_patterns"`
}

// SkipFixturePrefix lists the rule test case base classes whose fixture
// providers are checked. Entries match the declared parent by full or short
// name and may use `*`.
type SkipFixturePrefix struct {
	TestCaseClasses []string `toml:"test_case_classes"`
}

type Analysis struct {
	Workers int `toml:"workers"`
}

type Exclude struct {
	Dirs  []string `toml:"dirs"`
	Files []string `toml:"files"`
}

type Watch struct {
	Debounce time.Duration `toml:"debounce"`
	// MaxRate caps re-analysis runs per second.
	MaxRate float64 `toml:"max_rate"`
}

type Output struct {
	Format string `toml:"format"`
	Color  *bool  `toml:"color"`
}

type Observability struct {
	MetricsAddr  string `toml:"metrics_addr"`
	OTLPEndpoint string `toml:"otlp_endpoint"`
	ServiceName  string `toml:"service_name"`
}

// DefaultConfig returns a fully defaulted configuration.
func DefaultConfig() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// ColorEnabled reports whether styled terminal output is requested.
func (c *Config) ColorEnabled() bool {
	return c.Output.Color == nil || *c.Output.Color
}

func defaultWorkers() int {
	n := runtime.NumCPU()
	if n > maxWorkers {
		return maxWorkers
	}
	return n
}
