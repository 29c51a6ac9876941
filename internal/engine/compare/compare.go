// # internal/engine/compare/compare.go

// Package compare decides whether two syntax nodes denote the same expression.
package compare

import (
	"astral/internal/engine/ast"
	"astral/internal/engine/naming"
)

// Comparator checks structural equality. Position metadata (parent, next,
// line) never takes part in the comparison.
type Comparator struct {
	names *naming.Resolver
}

func NewComparator(names *naming.Resolver) *Comparator {
	if names == nil {
		names = naming.NewDefaultResolver()
	}
	return &Comparator{names: names}
}

// AreNodesEqual reports whether a and b have the same kind, value, flags and
// resolved name, and pairwise-equal children under the same roles in the same
// order. Two absent nodes are equal; an absent and a present node are not.
func (c *Comparator) AreNodesEqual(a, b ast.Node) bool {
	if !a.Valid() || !b.Valid() {
		return a.Valid() == b.Valid()
	}
	if a.Tree() == b.Tree() && a.ID() == b.ID() {
		return true
	}
	if a.Kind() != b.Kind() || a.Value() != b.Value() || a.Flags() != b.Flags() {
		return false
	}

	nameA, okA := c.names.GetName(a)
	nameB, okB := c.names.GetName(b)
	if okA != okB || nameA != nameB {
		return false
	}

	if a.NumEdges() != b.NumEdges() {
		return false
	}
	for i := range a.NumEdges() {
		roleA, childA := a.Edge(i)
		roleB, childB := b.Edge(i)
		if roleA != roleB || !c.AreNodesEqual(childA, childB) {
			return false
		}
	}
	return true
}
