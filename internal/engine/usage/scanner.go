// # internal/engine/usage/scanner.go

// Package usage looks forward from a binding to the next place the bound
// expression is dereferenced in a given shape.
package usage

import (
	"astral/internal/engine/ast"
	"astral/internal/engine/compare"
	"astral/internal/engine/finder"
)

// Shape describes a dereference pattern, such as `$m[1]` for a given `$m`.
type Shape func(ast.Node) bool

// Scanner is stateless and safe for concurrent use.
type Scanner struct {
	cmp *compare.Comparator
}

func NewScanner(cmp *compare.Comparator) *Scanner {
	if cmp == nil {
		cmp = compare.NewComparator(nil)
	}
	return &Scanner{cmp: cmp}
}

// NumericIndexOf matches `expr[<int>]` where the indexed operand is
// structurally equal to expr. String keys, computed keys and `expr[]` do not
// match.
func (s *Scanner) NumericIndexOf(expr ast.Node) Shape {
	return func(n ast.Node) bool {
		if !n.Is(ast.KindArrayDimFetch) {
			return false
		}
		if !n.Child(ast.RoleDim).Is(ast.KindLNumber) {
			return false
		}
		return s.cmp.AreNodesEqual(n.Child(ast.RoleVar), expr)
	}
}

// NextUsage returns the first node after defining, in source order, that
// satisfies shape.
//
// When the parent of defining owns a statement list (an assignment in an
// `if`/`while` condition), that list is searched element by element. Otherwise
// the scan follows the parent's next links, searching each following statement
// including any blocks nested in it. The scan never leaves the statement list
// it started in.
func (s *Scanner) NextUsage(defining ast.Node, shape Shape) (ast.Node, bool) {
	scope := ast.EnclosingScope(defining)
	switch scope.Kind {
	case ast.ScopeStatementList:
		for _, stmt := range scope.Stmts {
			if hit, ok := finder.FindFirst(stmt, finder.Predicate(shape)); ok {
				return hit, true
			}
		}
	case ast.ScopeSingleNode:
		for next := scope.Node.Next(); next.Valid(); next = next.Next() {
			if hit, ok := finder.FindFirst(next, finder.Predicate(shape)); ok {
				return hit, true
			}
		}
	}
	return ast.Node{}, false
}

// NextNumericIndexUsage finds the next `expr[<int>]` after defining.
func (s *Scanner) NextNumericIndexUsage(defining, expr ast.Node) (ast.Node, bool) {
	return s.NextUsage(defining, s.NumericIndexOf(expr))
}
