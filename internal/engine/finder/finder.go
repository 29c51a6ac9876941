// # internal/engine/finder/finder.go

// Package finder searches syntax trees in source order.
//
// Traversal is pre-order and depth-first: a node is visited before its
// children, and children are visited in the order they appear in source. The
// root passed in is visited first.
package finder

import (
	"astral/internal/engine/ast"
	"iter"
)

// Predicate selects nodes during a search.
type Predicate func(ast.Node) bool

// FindAll lazily yields every node under root (root included) that satisfies
// pred. Stopping the range loop ends the traversal.
func FindAll(root ast.Node, pred Predicate) iter.Seq[ast.Node] {
	return func(yield func(ast.Node) bool) {
		walk(root, func(n ast.Node) bool {
			if pred(n) {
				return yield(n)
			}
			return true
		})
	}
}

// FindFirst returns the first node in pre-order that satisfies pred.
func FindFirst(root ast.Node, pred Predicate) (ast.Node, bool) {
	for n := range FindAll(root, pred) {
		return n, true
	}
	return ast.Node{}, false
}

// FindFirstOfKind returns the first node of one of kinds.
func FindFirstOfKind(root ast.Node, kinds ...ast.Kind) (ast.Node, bool) {
	return FindFirst(root, func(n ast.Node) bool { return n.Is(kinds...) })
}

// FindAllOfKind yields every node of one of kinds.
func FindAllOfKind(root ast.Node, kinds ...ast.Kind) iter.Seq[ast.Node] {
	return FindAll(root, func(n ast.Node) bool { return n.Is(kinds...) })
}

// FindParentOfKind walks up from n (excluded) to the nearest ancestor of one
// of kinds.
func FindParentOfKind(n ast.Node, kinds ...ast.Kind) (ast.Node, bool) {
	for p := n.Parent(); p.Valid(); p = p.Parent() {
		if p.Is(kinds...) {
			return p, true
		}
	}
	return ast.Node{}, false
}

// walk visits n and its descendants until visit returns false. It reports
// whether the traversal ran to completion.
func walk(n ast.Node, visit func(ast.Node) bool) bool {
	if !n.Valid() {
		return true
	}
	if !visit(n) {
		return false
	}
	for i := range n.NumEdges() {
		_, child := n.Edge(i)
		if !walk(child, visit) {
			return false
		}
	}
	return true
}
