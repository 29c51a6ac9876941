package ast

import (
	"astral/internal/core/errors"
	"encoding/json"
	"io"
)

// Encode writes the subtree rooted at n as a JSON tree dump readable by Decode.
func Encode(w io.Writer, n Node) error {
	if !n.Valid() {
		return errors.New(errors.CodeMalformedTree, "encode invalid node")
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(toDump(n)); err != nil {
		return errors.Wrap(err, errors.CodeInternal, "encode tree dump")
	}
	return nil
}

func toDump(n Node) *dumpNode {
	d := &dumpNode{
		Kind:  n.Kind().String(),
		Value: n.Value(),
		Flags: n.Flags().Names(),
		Line:  n.Line(),
	}
	for role, child := range n.Edges() {
		d.Edges = append(d.Edges, dumpEdge{Role: role.String(), Node: toDump(child)})
	}
	return d
}
