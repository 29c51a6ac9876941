// # internal/engine/naming/resolver.go

// Package naming resolves human-readable identifiers from syntax nodes.
//
// A Resolver tries its registered NodeNameResolver strategies in order and
// falls back to built-in shapes (`Foo::class`, property declarations,
// variables). Absence of a name is a normal result, never an error.
package naming

import (
	"astral/internal/engine/ast"
	"strings"
)

// NodeNameResolver knows how to name one specific node shape.
type NodeNameResolver interface {
	Match(n ast.Node) bool
	Resolve(n ast.Node) (string, bool)
}

// Resolver is stateless after construction and safe for concurrent use.
type Resolver struct {
	strategies []NodeNameResolver
	globs      globCache
}

// NewResolver returns a Resolver that consults strategies in the given order.
func NewResolver(strategies ...NodeNameResolver) *Resolver {
	return &Resolver{strategies: append([]NodeNameResolver(nil), strategies...)}
}

// NewDefaultResolver returns a Resolver with the standard strategy chain.
func NewDefaultResolver() *Resolver {
	r := &Resolver{}
	r.strategies = DefaultStrategies(r.nodeName)
	return r
}

// GetName resolves v, which is either a plain string (returned unchanged) or
// an ast.Node. Any other value has no name.
func (r *Resolver) GetName(v any) (string, bool) {
	switch v := v.(type) {
	case string:
		return v, true
	case ast.Node:
		return r.nodeName(v)
	default:
		return "", false
	}
}

func (r *Resolver) nodeName(n ast.Node) (string, bool) {
	if !n.Valid() {
		return "", false
	}

	for _, s := range r.strategies {
		if !s.Match(n) {
			continue
		}
		return s.Resolve(n)
	}

	switch n.Kind() {
	case ast.KindClassConstFetch:
		if r.IsName(n.Child(ast.RoleName), "class") {
			return r.nodeName(n.Child(ast.RoleClass))
		}
	case ast.KindPropertyDeclaration:
		if props := n.Children(ast.RoleProps); len(props) > 0 {
			return r.nodeName(props[0].Child(ast.RoleName))
		}
	case ast.KindVariable:
		if name := n.Child(ast.RoleName); name.Valid() {
			return r.nodeName(name)
		}
		if v := n.Value(); v != "" {
			return v, true
		}
	}
	return "", false
}

// IsName reports whether v resolves to desired. A desired name containing `*`
// is matched as a glob against the resolved name.
func (r *Resolver) IsName(v any, desired string) bool {
	name, ok := r.GetName(v)
	if !ok {
		return false
	}
	if strings.Contains(desired, "*") {
		return r.globs.match(desired, name)
	}
	return name == desired
}

// IsNames reports whether n matches any of desired, stopping at the first hit.
func (r *Resolver) IsNames(n ast.Node, desired []string) bool {
	for _, d := range desired {
		if r.IsName(n, d) {
			return true
		}
	}
	return false
}

// AreNamesEqual reports whether both nodes resolve to the same name.
func (r *Resolver) AreNamesEqual(a, b ast.Node) bool {
	first, ok := r.nodeName(a)
	if !ok {
		return false
	}
	second, ok := r.nodeName(b)
	return ok && first == second
}

// ShortClassName returns the part after the last namespace separator.
func ShortClassName(className string) string {
	idx := strings.LastIndex(className, `\`)
	if idx < 0 {
		return className
	}
	return className[idx+1:]
}
