// # internal/engine/ast/tree.go
package ast

import (
	"fmt"
	"iter"
)

// ID indexes a node inside its Tree. IDs are assigned in creation order.
type ID int32

// NoID represents an absent node.
const NoID ID = -1

type edge struct {
	role Role
	id   ID
}

// record is the arena slot for one node. parent and next are indices into the
// same arena, so the relations never own what they point to.
type record struct {
	kind   Kind
	value  string
	flags  Flags
	line   int
	parent ID
	next   ID
	edges  []edge
}

// Tree is an immutable, annotated syntax tree for one analyzed unit.
//
// A Tree is safe for concurrent reads once built.
type Tree struct {
	nodes []record
	root  ID
}

// Len returns the number of nodes stored in the tree.
func (t *Tree) Len() int {
	if t == nil {
		return 0
	}
	return len(t.nodes)
}

// Root returns the root node, or the zero Node for an empty tree.
func (t *Tree) Root() Node {
	return t.Node(t.rootID())
}

func (t *Tree) rootID() ID {
	if t == nil {
		return NoID
	}
	return t.root
}

// Node returns a handle for id, or the zero Node when id is out of range.
func (t *Tree) Node(id ID) Node {
	if t == nil || id < 0 || int(id) >= len(t.nodes) {
		return Node{}
	}
	return Node{tree: t, id: id}
}

// Node is a lightweight handle to one node of a Tree. The zero value is an
// absent node; every accessor on it returns a zero result.
type Node struct {
	tree *Tree
	id   ID
}

// Valid reports whether n refers to an existing node.
func (n Node) Valid() bool {
	return n.tree != nil && n.id >= 0 && int(n.id) < len(n.tree.nodes)
}

func (n Node) rec() *record {
	if !n.Valid() {
		return nil
	}
	return &n.tree.nodes[n.id]
}

// ID returns the arena index of n, or NoID.
func (n Node) ID() ID {
	if !n.Valid() {
		return NoID
	}
	return n.id
}

// Tree returns the owning tree.
func (n Node) Tree() *Tree {
	return n.tree
}

func (n Node) Kind() Kind {
	if r := n.rec(); r != nil {
		return r.kind
	}
	return KindInvalid
}

// Is reports whether n has one of the given kinds.
func (n Node) Is(kinds ...Kind) bool {
	k := n.Kind()
	if k == KindInvalid {
		return false
	}
	for _, want := range kinds {
		if k == want {
			return true
		}
	}
	return false
}

// Value returns the literal payload: identifier text, qualified name or raw
// scalar value. Composite nodes have an empty value.
func (n Node) Value() string {
	if r := n.rec(); r != nil {
		return r.value
	}
	return ""
}

func (n Node) Flags() Flags {
	if r := n.rec(); r != nil {
		return r.flags
	}
	return 0
}

// Line is the 1-based source line, or 0 when unknown.
func (n Node) Line() int {
	if r := n.rec(); r != nil {
		return r.line
	}
	return 0
}

// Parent returns the nearest enclosing node.
func (n Node) Parent() Node {
	if r := n.rec(); r != nil {
		return n.tree.Node(r.parent)
	}
	return Node{}
}

// Next returns the following statement at the same nesting level.
func (n Node) Next() Node {
	if r := n.rec(); r != nil {
		return n.tree.Node(r.next)
	}
	return Node{}
}

// Child returns the first child attached under role.
func (n Node) Child(role Role) Node {
	r := n.rec()
	if r == nil {
		return Node{}
	}
	for _, e := range r.edges {
		if e.role == role {
			return n.tree.Node(e.id)
		}
	}
	return Node{}
}

// Children returns all children attached under role, in source order.
func (n Node) Children(role Role) []Node {
	r := n.rec()
	if r == nil {
		return nil
	}
	var out []Node
	for _, e := range r.edges {
		if e.role == role {
			out = append(out, n.tree.Node(e.id))
		}
	}
	return out
}

// Edges yields every child with its role, in source order.
func (n Node) Edges() iter.Seq2[Role, Node] {
	return func(yield func(Role, Node) bool) {
		r := n.rec()
		if r == nil {
			return
		}
		for _, e := range r.edges {
			if !yield(e.role, n.tree.Node(e.id)) {
				return
			}
		}
	}
}

// NumEdges returns the number of direct children.
func (n Node) NumEdges() int {
	if r := n.rec(); r != nil {
		return len(r.edges)
	}
	return 0
}

// Edge returns the i-th child and its role, or RoleNone and the zero Node
// when i is out of range.
func (n Node) Edge(i int) (Role, Node) {
	r := n.rec()
	if r == nil || i < 0 || i >= len(r.edges) {
		return RoleNone, Node{}
	}
	e := r.edges[i]
	return e.role, n.tree.Node(e.id)
}

// Role returns the role under which n is attached to its parent.
func (n Node) Role() Role {
	p := n.Parent().rec()
	if p == nil {
		return RoleNone
	}
	for _, e := range p.edges {
		if e.id == n.id {
			return e.role
		}
	}
	return RoleNone
}

// Statements returns the ordered statement list owned by n, if its kind has one.
func (n Node) Statements() ([]Node, bool) {
	if !n.Kind().HasStatements() {
		return nil, false
	}
	return n.Children(RoleStmts), true
}

func (n Node) String() string {
	if !n.Valid() {
		return "<nil>"
	}
	if v := n.Value(); v != "" {
		return fmt.Sprintf("%s(%s)#%d", n.Kind(), v, n.id)
	}
	return fmt.Sprintf("%s#%d", n.Kind(), n.id)
}
