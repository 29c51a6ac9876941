package rules

import (
	"astral/internal/core/config"
	"astral/internal/engine/ast"
	"astral/internal/engine/finder"
	"fmt"
	"strings"
)

const (
	RequireThisCallOnLocalMethodID = "require-this-call-on-local-method"

	requireThisCallOnLocalMethodMessage = `Use "$this->%[2]s()" instead of "%[1]s::%[2]s()" to call local method`
)

// RequireThisCallOnLocalMethod reports `self::run()` and `static::run()` when
// run is a non-static method of the enclosing class. `parent::` calls are
// left alone.
type RequireThisCallOnLocalMethod struct {
	svc Services
}

func newRequireThisCallOnLocalMethod(_ *config.Config, svc Services) (Rule, error) {
	return &RequireThisCallOnLocalMethod{svc: svc}, nil
}

func (r *RequireThisCallOnLocalMethod) ID() string { return RequireThisCallOnLocalMethodID }

func (r *RequireThisCallOnLocalMethod) NodeKinds() []ast.Kind {
	return []ast.Kind{ast.KindStaticCall}
}

func (r *RequireThisCallOnLocalMethod) Process(n ast.Node) []string {
	class := n.Child(ast.RoleClass)
	if !class.Is(ast.KindName) {
		return nil
	}
	token := strings.ToLower(class.Value())
	if token != "self" && token != "static" {
		return nil
	}
	method, ok := r.svc.Names.GetName(n.Child(ast.RoleName))
	if !ok || !n.Child(ast.RoleName).Is(ast.KindIdentifier) {
		return nil
	}

	owner, ok := finder.FindParentOfKind(n, ast.KindClass)
	if !ok {
		return nil
	}
	decl, ok := r.localMethod(owner, method)
	if !ok || decl.Flags().Has(ast.FlagStatic) {
		return nil
	}
	return []string{fmt.Sprintf(requireThisCallOnLocalMethodMessage, class.Value(), method)}
}

// localMethod finds a method declared directly on class. PHP method names are
// case-insensitive.
func (r *RequireThisCallOnLocalMethod) localMethod(class ast.Node, name string) (ast.Node, bool) {
	stmts, _ := class.Statements()
	for _, stmt := range stmts {
		if !stmt.Is(ast.KindClassMethod) {
			continue
		}
		if declared, ok := r.svc.Names.GetName(stmt); ok && strings.EqualFold(declared, name) {
			return stmt, true
		}
	}
	return ast.Node{}, false
}

func (r *RequireThisCallOnLocalMethod) Definition() Definition {
	return Definition{
		Description: fmt.Sprintf(requireThisCallOnLocalMethodMessage, "self", "<method>"),
		Samples: []CodeSample{{
			Bad: `class SomeClass
{
    public function run()
    {
        self::execute();
    }

    private function execute()
    {
    }
}`,
			Good: `class SomeClass
{
    public function run()
    {
        $this->execute();
    }

    private function execute()
    {
    }
}`,
		}},
	}
}
