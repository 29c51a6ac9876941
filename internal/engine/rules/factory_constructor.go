package rules

import (
	"astral/internal/core/config"
	"astral/internal/engine/ast"
	"astral/internal/engine/finder"
	"astral/internal/engine/naming"
	"strings"
)

const (
	NoFactoryInConstructorID = "no-factory-in-constructor"

	noFactoryInConstructorMessage = "Do not use factory/method call in constructor. Put factory in config and get service with dependency injection"
)

// NoFactoryInConstructor reports method calls made inside `__construct` on a
// parameter whose declared type matches one of the factory patterns.
type NoFactoryInConstructor struct {
	patterns []string
	svc      Services
}

func newNoFactoryInConstructor(cfg *config.Config, svc Services) (Rule, error) {
	return &NoFactoryInConstructor{
		patterns: append([]string(nil), cfg.Rules.FactoryInConstructor.FactoryPatterns...),
		svc:      svc,
	}, nil
}

func (r *NoFactoryInConstructor) ID() string { return NoFactoryInConstructorID }

func (r *NoFactoryInConstructor) NodeKinds() []ast.Kind {
	return []ast.Kind{ast.KindMethodCall}
}

func (r *NoFactoryInConstructor) Process(n ast.Node) []string {
	receiver := n.Child(ast.RoleVar)
	if !receiver.Is(ast.KindVariable) {
		return nil
	}
	fn, ok := finder.FindParentOfKind(n, ast.KindClassMethod, ast.KindFunction)
	if !ok || !fn.Is(ast.KindClassMethod) {
		return nil
	}
	if name, ok := r.svc.Names.GetName(fn); !ok || !strings.EqualFold(name, "__construct") {
		return nil
	}

	for _, param := range fn.Children(ast.RoleParams) {
		if !r.svc.Names.AreNamesEqual(param, receiver) {
			continue
		}
		if r.isFactoryType(param.Child(ast.RoleType)) {
			return []string{noFactoryInConstructorMessage}
		}
		return nil
	}
	return nil
}

func (r *NoFactoryInConstructor) isFactoryType(typ ast.Node) bool {
	if typ.Is(ast.KindNullableType) {
		typ = typ.Child(ast.RoleType)
	}
	if !typ.Is(ast.KindName) {
		return false
	}
	full, ok := r.svc.Names.GetName(typ)
	if !ok {
		return false
	}
	short := naming.ShortClassName(full)
	for _, p := range r.patterns {
		if r.svc.Names.IsName(short, p) || r.svc.Names.IsName(full, p) {
			return true
		}
	}
	return false
}

func (r *NoFactoryInConstructor) Definition() Definition {
	return Definition{
		Description: noFactoryInConstructorMessage,
		Samples: []CodeSample{{
			Bad: `class SomeClass
{
    private $someDependency;

    public function __construct(SomeFactory $factory)
    {
        $this->someDependency = $factory->build();
    }
}`,
			Good: `class SomeClass
{
    private $someDependency;

    public function __construct(SomeDependency $someDependency)
    {
        $this->someDependency = $someDependency;
    }
}`,
		}},
	}
}
