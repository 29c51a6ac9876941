package rules

import (
	"astral/internal/core/config"
	"astral/internal/engine/ast"
	"astral/internal/engine/finder"
	"astral/internal/engine/naming"
	"path"
	"strings"
)

const (
	RequireSkipPrefixForRuleSkippedFixtureID = "require-skip-prefix-for-rule-skipped-fixture"

	requireSkipPrefixForRuleSkippedFixtureMessage = `Skipped tested file must start with "Skip" prefix`

	skipPrefix = "Skip"
)

// RequireSkipPrefixForRuleSkippedFixture reports `[__DIR__ . '/Fixture/X.php', []]`
// data rows inside a rule test case when the fixture expects no errors but
// its file name does not start with "Skip".
type RequireSkipPrefixForRuleSkippedFixture struct {
	testCases []string
	svc       Services
}

func newRequireSkipPrefixForRuleSkippedFixture(cfg *config.Config, svc Services) (Rule, error) {
	testCases := make([]string, 0, len(cfg.Rules.SkipFixturePrefix.TestCaseClasses))
	for _, c := range cfg.Rules.SkipFixturePrefix.TestCaseClasses {
		testCases = append(testCases, strings.TrimPrefix(strings.TrimSpace(c), `\`))
	}
	return &RequireSkipPrefixForRuleSkippedFixture{testCases: testCases, svc: svc}, nil
}

func (r *RequireSkipPrefixForRuleSkippedFixture) ID() string {
	return RequireSkipPrefixForRuleSkippedFixtureID
}

func (r *RequireSkipPrefixForRuleSkippedFixture) NodeKinds() []ast.Kind {
	return []ast.Kind{ast.KindArray}
}

func (r *RequireSkipPrefixForRuleSkippedFixture) Process(n ast.Node) []string {
	items := n.Children(ast.RoleItems)
	if len(items) != 2 {
		return nil
	}
	expected := items[1].Child(ast.RoleValue)
	if !expected.Is(ast.KindArray) || len(expected.Children(ast.RoleItems)) != 0 {
		return nil
	}
	file, ok := fixtureFile(items[0].Child(ast.RoleValue))
	if !ok || strings.HasPrefix(file, skipPrefix) {
		return nil
	}

	class, ok := finder.FindParentOfKind(n, ast.KindClass)
	if !ok || !r.isTestCase(class.Child(ast.RoleExtends)) {
		return nil
	}
	return []string{requireSkipPrefixForRuleSkippedFixtureMessage}
}

// fixtureFile returns the base name of a fixture path written as a string
// literal or as a concatenation ending in one, e.g. `__DIR__ . '/Fixture/A.php'`.
func fixtureFile(expr ast.Node) (string, bool) {
	for expr.Is(ast.KindConcat) {
		expr = expr.Child(ast.RoleRight)
	}
	if !expr.Is(ast.KindString) || expr.Value() == "" {
		return "", false
	}
	return path.Base(strings.ReplaceAll(expr.Value(), `\`, "/")), true
}

// isTestCase matches the declared parent by full name, or by short name when
// the parent was written unqualified under a `use` import.
func (r *RequireSkipPrefixForRuleSkippedFixture) isTestCase(parent ast.Node) bool {
	if !parent.Is(ast.KindName) {
		return false
	}
	full, ok := r.svc.Names.GetName(parent)
	if !ok {
		return false
	}
	full = strings.TrimPrefix(full, `\`)
	short := naming.ShortClassName(full)
	for _, tc := range r.testCases {
		if r.svc.Names.IsName(full, tc) || r.svc.Names.IsName(short, naming.ShortClassName(tc)) {
			return true
		}
	}
	return false
}

func (r *RequireSkipPrefixForRuleSkippedFixture) Definition() Definition {
	return Definition{
		Description: requireSkipPrefixForRuleSkippedFixtureMessage,
		Samples: []CodeSample{{
			Bad: `use PHPStan\Testing\RuleTestCase;

final class SomeRuleTest extends RuleTestCase
{
    public function provideData(): Iterator
    {
        yield [__DIR__ . '/Fixture/NewClass.php', []];
    }
}`,
			Good: `use PHPStan\Testing\RuleTestCase;

final class SomeRuleTest extends RuleTestCase
{
    public function provideData(): Iterator
    {
        yield [__DIR__ . '/Fixture/SkipNewClass.php', []];
    }
}`,
		}},
	}
}
