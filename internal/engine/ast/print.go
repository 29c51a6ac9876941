// # internal/engine/ast/print.go
package ast

import "strings"

// Print renders n back to compact PHP-like source. It is used to quote
// expressions in diagnostics, e.g. `self::REGEX` or `'#(?<c>a)#'`.
func Print(n Node) string {
	var b strings.Builder
	printNode(&b, n)
	return b.String()
}

func printNode(b *strings.Builder, n Node) {
	if !n.Valid() {
		return
	}
	switch n.Kind() {
	case KindIdentifier, KindLNumber:
		b.WriteString(n.Value())
	case KindName:
		if n.Flags().Has(FlagFullyQualified) && !strings.HasPrefix(n.Value(), `\`) {
			b.WriteByte('\\')
		}
		b.WriteString(n.Value())
	case KindVariable:
		b.WriteByte('$')
		if name := n.Child(RoleName); name.Valid() {
			b.WriteByte('{')
			printNode(b, name)
			b.WriteByte('}')
			return
		}
		b.WriteString(n.Value())
	case KindString:
		b.WriteByte('\'')
		b.WriteString(strings.NewReplacer(`\`, `\\`, `'`, `\'`).Replace(n.Value()))
		b.WriteByte('\'')
	case KindClassConstFetch:
		printNode(b, n.Child(RoleClass))
		b.WriteString("::")
		printNode(b, n.Child(RoleName))
	case KindConstFetch, KindArg:
		printNode(b, n.Child(RoleName))
		printNode(b, n.Child(RoleValue))
	case KindArrayDimFetch:
		printNode(b, n.Child(RoleVar))
		b.WriteByte('[')
		printNode(b, n.Child(RoleDim))
		b.WriteByte(']')
	case KindAssign:
		printNode(b, n.Child(RoleVar))
		b.WriteString(" = ")
		printNode(b, n.Child(RoleExpr))
	case KindStaticCall:
		printNode(b, n.Child(RoleClass))
		b.WriteString("::")
		printNode(b, n.Child(RoleName))
		printArgs(b, n)
	case KindMethodCall:
		printNode(b, n.Child(RoleVar))
		b.WriteString("->")
		printNode(b, n.Child(RoleName))
		printArgs(b, n)
	case KindFuncCall:
		printNode(b, n.Child(RoleName))
		printArgs(b, n)
	case KindPropertyFetch:
		printNode(b, n.Child(RoleVar))
		b.WriteString("->")
		printNode(b, n.Child(RoleName))
	case KindNullableType:
		b.WriteByte('?')
		printNode(b, n.Child(RoleType))
	case KindParam:
		if typ := n.Child(RoleType); typ.Valid() {
			printNode(b, typ)
			b.WriteByte(' ')
		}
		printNode(b, n.Child(RoleVar))
	case KindArray:
		b.WriteByte('[')
		printList(b, n.Children(RoleItems))
		b.WriteByte(']')
	case KindArrayItem:
		if key := n.Child(RoleKey); key.Valid() {
			printNode(b, key)
			b.WriteString(" => ")
		}
		printNode(b, n.Child(RoleValue))
	case KindConcat:
		printNode(b, n.Child(RoleLeft))
		b.WriteString(" . ")
		printNode(b, n.Child(RoleRight))
	case KindMagicDir:
		b.WriteString("__DIR__")
	case KindYield:
		b.WriteString("yield")
		if key := n.Child(RoleKey); key.Valid() {
			b.WriteByte(' ')
			printNode(b, key)
			b.WriteString(" =>")
		}
		if value := n.Child(RoleValue); value.Valid() {
			b.WriteByte(' ')
			printNode(b, value)
		}
	case KindExpressionStmt:
		printNode(b, n.Child(RoleExpr))
		b.WriteByte(';')
	case KindEcho:
		b.WriteString("echo ")
		printList(b, n.Children(RoleExprs))
		b.WriteByte(';')
	case KindReturn:
		b.WriteString("return")
		if expr := n.Child(RoleExpr); expr.Valid() {
			b.WriteByte(' ')
			printNode(b, expr)
		}
		b.WriteByte(';')
	default:
		// Block statements are summarized by their header.
		b.WriteString(strings.ToLower(n.Kind().String()))
		if cond := n.Child(RoleCond); cond.Valid() {
			b.WriteString(" (")
			printNode(b, cond)
			b.WriteByte(')')
		}
		if name := n.Child(RoleName); name.Valid() {
			b.WriteByte(' ')
			printNode(b, name)
		}
	}
}

func printArgs(b *strings.Builder, n Node) {
	b.WriteByte('(')
	printList(b, n.Children(RoleArgs))
	b.WriteByte(')')
}

func printList(b *strings.Builder, nodes []Node) {
	for i, n := range nodes {
		if i > 0 {
			b.WriteString(", ")
		}
		printNode(b, n)
	}
}
