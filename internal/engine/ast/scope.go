package ast

// ScopeKind tags which branch of Scope is populated.
type ScopeKind uint8

const (
	// ScopeNone means the node has no parent to scan from.
	ScopeNone ScopeKind = iota
	// ScopeStatementList means the parent owns an ordered statement list.
	ScopeStatementList
	// ScopeSingleNode means the parent is the sole starting candidate.
	ScopeSingleNode
)

// Scope is the forward-scan context of a node: the statement list owned by its
// parent (e.g. an assignment in an `if`/`while` condition), or the parent
// itself (e.g. the expression statement wrapping an assignment).
type Scope struct {
	Kind  ScopeKind
	Stmts []Node
	Node  Node
}

// EnclosingScope classifies the parent of n.
func EnclosingScope(n Node) Scope {
	parent := n.Parent()
	if !parent.Valid() {
		return Scope{Kind: ScopeNone}
	}
	if stmts, ok := parent.Statements(); ok {
		return Scope{Kind: ScopeStatementList, Stmts: stmts}
	}
	return Scope{Kind: ScopeSingleNode, Node: parent}
}
