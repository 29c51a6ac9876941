// # internal/engine/ast/decode.go
package ast

import (
	"astral/internal/core/errors"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// dumpNode is the JSON shape of one node in a tree dump:
//
//	{"kind":"Assign","line":3,"edges":[{"role":"var","node":{"kind":"Variable","value":"m"}}]}
type dumpNode struct {
	Kind  string     `json:"kind"`
	Value string     `json:"value,omitempty"`
	Flags []string   `json:"flags,omitempty"`
	Line  int        `json:"line,omitempty"`
	Edges []dumpEdge `json:"edges,omitempty"`
}

type dumpEdge struct {
	Role string    `json:"role"`
	Node *dumpNode `json:"node"`
}

// Decode reads a JSON tree dump and builds an annotated Tree from it.
// Parent and next relations are derived from the nesting, not read from the dump.
func Decode(r io.Reader) (*Tree, error) {
	var root dumpNode
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&root); err != nil {
		return nil, errors.Wrap(err, errors.CodeMalformedTree, "decode tree dump")
	}

	b := NewBuilder()
	id, err := b.decode(&root, "$")
	if err != nil {
		return nil, err
	}
	return b.Tree(id), nil
}

// DecodeFile decodes the tree dump stored at path.
func DecodeFile(path string) (*Tree, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.AddContext(errors.Wrap(err, errors.CodeNotFound, "open tree dump"), errors.CtxPath, path)
		}
		return nil, errors.AddContext(errors.Wrap(err, errors.CodeInternal, "open tree dump"), errors.CtxPath, path)
	}
	defer f.Close()

	t, err := Decode(f)
	if err != nil {
		return nil, errors.AddContext(err, errors.CtxPath, path)
	}
	return t, nil
}

func (b *Builder) decode(n *dumpNode, at string) (ID, error) {
	kind, ok := ParseKind(n.Kind)
	if !ok {
		return NoID, malformed(at, "unknown kind %q", n.Kind)
	}
	if kind == KindVariable {
		n = plainVariable(n)
	}
	id := b.New(kind, n.Value)
	b.SetLine(id, n.Line)
	for _, name := range n.Flags {
		flag, ok := ParseFlag(name)
		if !ok {
			return NoID, malformed(at, "unknown flag %q", name)
		}
		b.SetFlags(id, flag)
	}
	for i, e := range n.Edges {
		edgeAt := fmt.Sprintf("%s.edges[%d]", at, i)
		role, ok := ParseRole(e.Role)
		if !ok {
			return NoID, malformed(edgeAt, "unknown role %q", e.Role)
		}
		if e.Node == nil {
			return NoID, malformed(edgeAt, "edge %q has no node", e.Role)
		}
		child, err := b.decode(e.Node, edgeAt+".node")
		if err != nil {
			return NoID, err
		}
		b.Attach(id, role, child)
	}
	return id, nil
}

// plainVariable folds `$m` dumped as a Variable with a lone Identifier name
// into the value form, so both spellings compare equal. Computed names such
// as `${$x}` keep their name edge.
func plainVariable(n *dumpNode) *dumpNode {
	if n.Value != "" || len(n.Edges) != 1 {
		return n
	}
	e := n.Edges[0]
	role, ok := ParseRole(e.Role)
	if !ok || role != RoleName || e.Node == nil {
		return n
	}
	if kind, ok := ParseKind(e.Node.Kind); !ok || kind != KindIdentifier || e.Node.Value == "" || len(e.Node.Edges) > 0 {
		return n
	}
	folded := *n
	folded.Value = e.Node.Value
	folded.Edges = nil
	return &folded
}

func malformed(at, format string, args ...any) error {
	err := errors.Newf(errors.CodeMalformedTree, format, args...)
	return errors.AddContext(err, "at", at)
}
