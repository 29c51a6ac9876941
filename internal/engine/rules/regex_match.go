package rules

import (
	"astral/internal/core/config"
	"astral/internal/engine/ast"
	"fmt"
	"strings"
)

const (
	RequireStringRegexMatchKeyID = "require-string-regex-match-key"

	requireStringRegexMatchKeyMessage = `"%s" regex need to use string named capture group instead of numeric`
)

// RequireStringRegexMatchKey reports `$m = Strings::match($s, REGEX)` when a
// later statement reads `$m[<int>]`.
type RequireStringRegexMatchKey struct {
	class   string
	methods []string
	svc     Services
}

func newRequireStringRegexMatchKey(cfg *config.Config, svc Services) (Rule, error) {
	return &RequireStringRegexMatchKey{
		class:   strings.TrimPrefix(cfg.Rules.RegexMatch.Class, `\`),
		methods: append([]string(nil), cfg.Rules.RegexMatch.Methods...),
		svc:     svc,
	}, nil
}

func (r *RequireStringRegexMatchKey) ID() string { return RequireStringRegexMatchKeyID }

func (r *RequireStringRegexMatchKey) NodeKinds() []ast.Kind {
	return []ast.Kind{ast.KindAssign}
}

func (r *RequireStringRegexMatchKey) Process(n ast.Node) []string {
	call := n.Child(ast.RoleExpr)
	if !r.isMatchCall(call) {
		return nil
	}
	args := call.Children(ast.RoleArgs)
	if len(args) < 2 {
		return nil
	}
	if _, ok := r.svc.Usage.NextNumericIndexUsage(n, n.Child(ast.RoleVar)); !ok {
		return nil
	}
	regex := ast.Print(args[1].Child(ast.RoleValue))
	return []string{fmt.Sprintf(requireStringRegexMatchKeyMessage, regex)}
}

func (r *RequireStringRegexMatchKey) isMatchCall(call ast.Node) bool {
	if !call.Is(ast.KindStaticCall) {
		return false
	}
	class := call.Child(ast.RoleClass)
	if !class.Is(ast.KindName) || !class.Flags().Has(ast.FlagFullyQualified) {
		return false
	}
	if class.Value() != r.class {
		return false
	}
	name := call.Child(ast.RoleName)
	return name.Is(ast.KindIdentifier) && r.svc.Names.IsNames(name, r.methods)
}

func (r *RequireStringRegexMatchKey) Definition() Definition {
	return Definition{
		Description: fmt.Sprintf(requireStringRegexMatchKeyMessage, "<pattern>"),
		Samples: []CodeSample{{
			Bad: `use Nette\Utils\Strings;

class SomeClass
{
    private const REGEX = '#(a content)#';

    public function run()
    {
        $matches = Strings::match('a content', self::REGEX);
        if ($matches) {
            echo $matches[1];
        }
    }
}`,
			Good: `use Nette\Utils\Strings;

class SomeClass
{
    private const REGEX = '#(?<c>a content)#';

    public function run()
    {
        $matches = Strings::match('a content', self::REGEX);
        if ($matches) {
            echo $matches['c'];
        }
    }
}`,
		}},
	}
}
