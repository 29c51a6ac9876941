package rules

import (
	"astral/internal/core/config"
	"astral/internal/core/errors"
	"sort"
	"strings"

	"github.com/gobwas/glob"
)

// RuleSet is the ordered list of rules selected by configuration.
type RuleSet struct {
	rules []Rule
}

type compiledPattern struct {
	raw        string
	isWildcard bool
	glob       glob.Glob
}

// NewRuleSet instantiates every registered rule selected by rules.enabled
// (all when empty) and not excluded by rules.disabled. Both lists accept
// rule IDs or globs such as `require-*`; an entry that selects no registered
// rule is a CodeUnknownRule error.
func NewRuleSet(cfg *config.Config, svc Services) (RuleSet, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	enabled, err := compilePatterns(cfg.Rules.Enabled)
	if err != nil {
		return RuleSet{}, err
	}
	disabled, err := compilePatterns(cfg.Rules.Disabled)
	if err != nil {
		return RuleSet{}, err
	}

	known := KnownIDs()
	for _, p := range append(append([]compiledPattern(nil), enabled...), disabled...) {
		if !p.matchesAny(known) {
			return RuleSet{}, errors.AddContext(
				errors.Newf(errors.CodeUnknownRule, "no rule matches %q", p.raw),
				errors.CtxRule, p.raw)
		}
	}

	out := RuleSet{rules: make([]Rule, 0, len(known))}
	for _, id := range known {
		if len(enabled) > 0 && !matchPatterns(enabled, id) {
			continue
		}
		if matchPatterns(disabled, id) {
			continue
		}
		rule, err := registry[id](cfg, svc)
		if err != nil {
			return RuleSet{}, errors.AddContext(errors.Wrap(err, errors.CodeValidationError, "build rule"), errors.CtxRule, id)
		}
		out.rules = append(out.rules, rule)
	}
	sortRules(out.rules)
	return out, nil
}

// NewRuleSetOf wraps already-built rules, mainly for tests and embedding.
func NewRuleSetOf(rules ...Rule) RuleSet {
	out := RuleSet{rules: append([]Rule(nil), rules...)}
	sortRules(out.rules)
	return out
}

func (r RuleSet) Rules() []Rule {
	out := make([]Rule, 0, len(r.rules))
	out = append(out, r.rules...)
	return out
}

func (r RuleSet) Len() int {
	return len(r.rules)
}

func (r RuleSet) Get(id string) (Rule, bool) {
	for _, rule := range r.rules {
		if rule.ID() == id {
			return rule, true
		}
	}
	return nil, false
}

func compilePatterns(raw []string) ([]compiledPattern, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	out := make([]compiledPattern, 0, len(raw))
	for _, pattern := range raw {
		norm := strings.ToLower(strings.TrimSpace(pattern))
		if norm == "" {
			continue
		}
		cp := compiledPattern{
			raw:        norm,
			isWildcard: strings.ContainsAny(norm, "*?[]{}"),
		}
		if cp.isWildcard {
			g, err := glob.Compile(norm)
			if err != nil {
				return nil, errors.AddContext(
					errors.Wrap(err, errors.CodeValidationError, "invalid rule pattern"),
					errors.CtxRule, norm)
			}
			cp.glob = g
		}
		out = append(out, cp)
	}
	return out, nil
}

func (p compiledPattern) match(id string) bool {
	if p.isWildcard {
		return p.glob != nil && p.glob.Match(id)
	}
	return p.raw == id
}

func (p compiledPattern) matchesAny(ids []string) bool {
	for _, id := range ids {
		if p.match(id) {
			return true
		}
	}
	return false
}

func matchPatterns(patterns []compiledPattern, id string) bool {
	for _, p := range patterns {
		if p.match(id) {
			return true
		}
	}
	return false
}

func sortRules(rules []Rule) {
	sort.SliceStable(rules, func(i, j int) bool {
		return rules[i].ID() < rules[j].ID()
	})
}
