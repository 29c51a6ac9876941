package naming

import "astral/internal/engine/ast"

// NameFunc resolves a nested node; strategies use it to recurse through the
// owning Resolver without holding a reference to it.
type NameFunc func(ast.Node) (string, bool)

// DefaultStrategies returns the standard chain. Order matters: the first
// matching strategy wins, so narrower shapes come first.
func DefaultStrategies(names NameFunc) []NodeNameResolver {
	return []NodeNameResolver{
		IdentifierNameResolver{},
		ClassLikeNameResolver{},
		FunctionLikeNameResolver{},
		ParamNameResolver{names: names},
		ArgNameResolver{names: names},
		ConstFetchNameResolver{names: names},
		FuncCallNameResolver{},
	}
}

// IdentifierNameResolver names identifiers and (qualified) names by their text.
type IdentifierNameResolver struct{}

func (IdentifierNameResolver) Match(n ast.Node) bool {
	return n.Is(ast.KindIdentifier, ast.KindName)
}

func (IdentifierNameResolver) Resolve(n ast.Node) (string, bool) {
	return n.Value(), true
}

// ClassLikeNameResolver names a class by its namespaced name.
type ClassLikeNameResolver struct{}

func (ClassLikeNameResolver) Match(n ast.Node) bool {
	return n.Is(ast.KindClass)
}

func (ClassLikeNameResolver) Resolve(n ast.Node) (string, bool) {
	name := n.Child(ast.RoleName).Value()
	if name == "" {
		// anonymous class
		return "", false
	}
	for p := n.Parent(); p.Valid(); p = p.Parent() {
		if p.Is(ast.KindNamespace) {
			if ns := p.Child(ast.RoleName).Value(); ns != "" {
				return ns + `\` + name, true
			}
			break
		}
	}
	return name, true
}

// FunctionLikeNameResolver names methods and functions.
type FunctionLikeNameResolver struct{}

func (FunctionLikeNameResolver) Match(n ast.Node) bool {
	return n.Is(ast.KindClassMethod, ast.KindFunction)
}

func (FunctionLikeNameResolver) Resolve(n ast.Node) (string, bool) {
	name := n.Child(ast.RoleName).Value()
	return name, name != ""
}

// ParamNameResolver names a parameter by its variable.
type ParamNameResolver struct {
	names NameFunc
}

func (ParamNameResolver) Match(n ast.Node) bool {
	return n.Is(ast.KindParam)
}

func (r ParamNameResolver) Resolve(n ast.Node) (string, bool) {
	return r.names(n.Child(ast.RoleVar))
}

// ArgNameResolver names an argument by its value.
type ArgNameResolver struct {
	names NameFunc
}

func (ArgNameResolver) Match(n ast.Node) bool {
	return n.Is(ast.KindArg)
}

func (r ArgNameResolver) Resolve(n ast.Node) (string, bool) {
	return r.names(n.Child(ast.RoleValue))
}

// ConstFetchNameResolver names `FOO` and `true`-like constant fetches.
type ConstFetchNameResolver struct {
	names NameFunc
}

func (ConstFetchNameResolver) Match(n ast.Node) bool {
	return n.Is(ast.KindConstFetch)
}

func (r ConstFetchNameResolver) Resolve(n ast.Node) (string, bool) {
	return r.names(n.Child(ast.RoleName))
}

// FuncCallNameResolver names `foo()`; dynamic calls like `$fn()` have no name.
type FuncCallNameResolver struct{}

func (FuncCallNameResolver) Match(n ast.Node) bool {
	return n.Is(ast.KindFuncCall)
}

func (FuncCallNameResolver) Resolve(n ast.Node) (string, bool) {
	name := n.Child(ast.RoleName)
	if !name.Is(ast.KindName, ast.KindIdentifier) {
		return "", false
	}
	return name.Value(), true
}
