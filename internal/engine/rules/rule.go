// # internal/engine/rules/rule.go

// Package rules hosts the analysis rules and the evaluator that feeds them
// syntax nodes.
package rules

import (
	"astral/internal/core/config"
	"astral/internal/engine/ast"
	"astral/internal/engine/compare"
	"astral/internal/engine/naming"
	"astral/internal/engine/usage"
	"astral/internal/shared/util"
)

// Rule inspects one node at a time. Process is only called with nodes whose
// kind is listed by NodeKinds and returns zero or more diagnostic messages.
// Rules must be safe for concurrent use.
type Rule interface {
	ID() string
	NodeKinds() []ast.Kind
	Process(n ast.Node) []string
	Definition() Definition
}

// Definition documents a rule for -list-rules and SARIF output.
type Definition struct {
	Description string
	Samples     []CodeSample
}

// CodeSample pairs offending code with its fix.
type CodeSample struct {
	Bad  string
	Good string
}

// Services are the shared, read-only helpers rules are built with.
type Services struct {
	Names   *naming.Resolver
	Compare *compare.Comparator
	Usage   *usage.Scanner
}

// NewServices wires the default resolver, comparator and scanner together.
func NewServices() Services {
	names := naming.NewDefaultResolver()
	cmp := compare.NewComparator(names)
	return Services{
		Names:   names,
		Compare: cmp,
		Usage:   usage.NewScanner(cmp),
	}
}

// Factory builds a rule from configuration.
type Factory func(cfg *config.Config, svc Services) (Rule, error)

var registry = map[string]Factory{
	RequireStringRegexMatchKeyID:             newRequireStringRegexMatchKey,
	NoNullableArrayPropertyID:                newNoNullableArrayProperty,
	RequireThisCallOnLocalMethodID:           newRequireThisCallOnLocalMethod,
	NoFactoryInConstructorID:                 newNoFactoryInConstructor,
	RequireSkipPrefixForRuleSkippedFixtureID: newRequireSkipPrefixForRuleSkippedFixture,
}

// KnownIDs returns every registered rule ID, sorted.
func KnownIDs() []string {
	return util.SortedStringKeys(registry)
}
