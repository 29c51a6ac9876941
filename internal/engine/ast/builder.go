// # internal/engine/ast/builder.go
package ast

import (
	"fmt"
	"strconv"
)

// Builder assembles a Tree bottom-up. Attaching a child records its parent,
// and appending to a statement list links the previous statement's next to it,
// so a built tree is already annotated.
//
// Misuse (attaching a node twice, unknown IDs) is a programming error and panics.
type Builder struct {
	nodes []record
}

func NewBuilder() *Builder {
	return &Builder{}
}

// New creates a detached node.
func (b *Builder) New(kind Kind, value string) ID {
	b.nodes = append(b.nodes, record{
		kind:   kind,
		value:  value,
		parent: NoID,
		next:   NoID,
	})
	return ID(len(b.nodes) - 1)
}

// SetFlags adds flags to id.
func (b *Builder) SetFlags(id ID, flags Flags) ID {
	b.at(id).flags |= flags
	return id
}

// SetLine records the source line of id.
func (b *Builder) SetLine(id ID, line int) ID {
	b.at(id).line = line
	return id
}

// Attach appends children under role. NoID children are skipped.
func (b *Builder) Attach(parent ID, role Role, children ...ID) {
	p := b.at(parent)
	prev := NoID
	if role == RoleStmts {
		prev = lastOfRole(p, RoleStmts)
	}
	for _, c := range children {
		if c == NoID {
			continue
		}
		if c == parent {
			panic(fmt.Sprintf("ast: node %d attached to itself", c))
		}
		child := b.at(c)
		if child.parent != NoID {
			panic(fmt.Sprintf("ast: node %d already attached to %d", c, child.parent))
		}
		child.parent = parent
		p.edges = append(p.edges, edge{role: role, id: c})
		if role == RoleStmts {
			if prev != NoID {
				b.nodes[prev].next = c
			}
			prev = c
		}
	}
}

func lastOfRole(r *record, role Role) ID {
	for i := len(r.edges) - 1; i >= 0; i-- {
		if r.edges[i].role == role {
			return r.edges[i].id
		}
	}
	return NoID
}

func (b *Builder) at(id ID) *record {
	if id < 0 || int(id) >= len(b.nodes) {
		panic(fmt.Sprintf("ast: unknown node id %d", id))
	}
	return &b.nodes[id]
}

// Tree finalizes the arena with root as its root node. The builder is reset.
func (b *Builder) Tree(root ID) *Tree {
	b.at(root)
	t := &Tree{nodes: b.nodes, root: root}
	b.nodes = nil
	return t
}

// slot groups the children attached under one role.
type slot struct {
	role Role
	ids  []ID
}

func part(role Role, ids ...ID) slot {
	return slot{role: role, ids: ids}
}

func (b *Builder) composite(kind Kind, value string, parts ...slot) ID {
	id := b.New(kind, value)
	for _, p := range parts {
		b.Attach(id, p.role, p.ids...)
	}
	return id
}

func (b *Builder) Ident(name string) ID {
	return b.New(KindIdentifier, name)
}

// Name creates a (possibly namespaced) name such as `Nette\Utils\Strings`.
func (b *Builder) Name(name string, fullyQualified bool) ID {
	id := b.New(KindName, name)
	if fullyQualified {
		b.SetFlags(id, FlagFullyQualified)
	}
	return id
}

// Var creates `$name`.
func (b *Builder) Var(name string) ID {
	return b.New(KindVariable, name)
}

// VarExpr creates a computed variable `${expr}`.
func (b *Builder) VarExpr(expr ID) ID {
	return b.composite(KindVariable, "", part(RoleName, expr))
}

func (b *Builder) Assign(v, expr ID) ID {
	return b.composite(KindAssign, "", part(RoleVar, v), part(RoleExpr, expr))
}

// DimFetch creates `v[dim]`; dim may be NoID for `v[]`.
func (b *Builder) DimFetch(v, dim ID) ID {
	return b.composite(KindArrayDimFetch, "", part(RoleVar, v), part(RoleDim, dim))
}

func (b *Builder) LNumber(n int) ID {
	return b.New(KindLNumber, strconv.Itoa(n))
}

func (b *Builder) String(s string) ID {
	return b.New(KindString, s)
}

func (b *Builder) Arg(value ID) ID {
	return b.composite(KindArg, "", part(RoleValue, value))
}

// Args wraps every value in an Arg node.
func (b *Builder) Args(values ...ID) []ID {
	out := make([]ID, 0, len(values))
	for _, v := range values {
		out = append(out, b.Arg(v))
	}
	return out
}

// StaticCall creates `class::name(args)`; args are Arg nodes.
func (b *Builder) StaticCall(class, name ID, args ...ID) ID {
	return b.composite(KindStaticCall, "", part(RoleClass, class), part(RoleName, name), part(RoleArgs, args...))
}

// MethodCall creates `v->name(args)`; args are Arg nodes.
func (b *Builder) MethodCall(v, name ID, args ...ID) ID {
	return b.composite(KindMethodCall, "", part(RoleVar, v), part(RoleName, name), part(RoleArgs, args...))
}

// FuncCall creates `name(args)`; args are Arg nodes.
func (b *Builder) FuncCall(name ID, args ...ID) ID {
	return b.composite(KindFuncCall, "", part(RoleName, name), part(RoleArgs, args...))
}

func (b *Builder) PropertyFetch(v, name ID) ID {
	return b.composite(KindPropertyFetch, "", part(RoleVar, v), part(RoleName, name))
}

// ClassConstFetch creates `class::name`.
func (b *Builder) ClassConstFetch(class ID, name string) ID {
	return b.composite(KindClassConstFetch, "", part(RoleClass, class), part(RoleName, b.Ident(name)))
}

func (b *Builder) ConstFetch(name ID) ID {
	return b.composite(KindConstFetch, "", part(RoleName, name))
}

// Array creates `[items]`; items are ArrayItem nodes.
func (b *Builder) Array(items ...ID) ID {
	return b.composite(KindArray, "", part(RoleItems, items...))
}

// ArrayItem creates `key => value`; key may be NoID.
func (b *Builder) ArrayItem(key, value ID) ID {
	return b.composite(KindArrayItem, "", part(RoleKey, key), part(RoleValue, value))
}

// List wraps every value in a keyless ArrayItem and returns the Array.
func (b *Builder) List(values ...ID) ID {
	items := make([]ID, 0, len(values))
	for _, v := range values {
		items = append(items, b.ArrayItem(NoID, v))
	}
	return b.Array(items...)
}

// Concat creates `left . right`.
func (b *Builder) Concat(left, right ID) ID {
	return b.composite(KindConcat, "", part(RoleLeft, left), part(RoleRight, right))
}

// MagicDir creates `__DIR__`.
func (b *Builder) MagicDir() ID {
	return b.New(KindMagicDir, "")
}

// Yield creates `yield key => value`; both may be NoID.
func (b *Builder) Yield(key, value ID) ID {
	return b.composite(KindYield, "", part(RoleKey, key), part(RoleValue, value))
}

// Expr wraps an expression into a statement.
func (b *Builder) Expr(expr ID) ID {
	return b.composite(KindExpressionStmt, "", part(RoleExpr, expr))
}

func (b *Builder) Echo(exprs ...ID) ID {
	return b.composite(KindEcho, "", part(RoleExprs, exprs...))
}

// Return creates `return expr;`; expr may be NoID.
func (b *Builder) Return(expr ID) ID {
	return b.composite(KindReturn, "", part(RoleExpr, expr))
}

func (b *Builder) If(cond ID, stmts ...ID) ID {
	return b.composite(KindIf, "", part(RoleCond, cond), part(RoleStmts, stmts...))
}

func (b *Builder) ElseIf(cond ID, stmts ...ID) ID {
	return b.composite(KindElseIf, "", part(RoleCond, cond), part(RoleStmts, stmts...))
}

func (b *Builder) Else(stmts ...ID) ID {
	return b.composite(KindElse, "", part(RoleStmts, stmts...))
}

// AddElseIf appends an elseif branch to an If.
func (b *Builder) AddElseIf(ifID, elseIf ID) ID {
	b.Attach(ifID, RoleElseIfs, elseIf)
	return ifID
}

// SetElse attaches the else branch of an If.
func (b *Builder) SetElse(ifID, elseID ID) ID {
	b.Attach(ifID, RoleElse, elseID)
	return ifID
}

func (b *Builder) While(cond ID, stmts ...ID) ID {
	return b.composite(KindWhile, "", part(RoleCond, cond), part(RoleStmts, stmts...))
}

// Do creates `do { stmts } while (cond);`.
func (b *Builder) Do(cond ID, stmts ...ID) ID {
	return b.composite(KindDo, "", part(RoleStmts, stmts...), part(RoleCond, cond))
}

func (b *Builder) For(cond ID, stmts ...ID) ID {
	return b.composite(KindFor, "", part(RoleCond, cond), part(RoleStmts, stmts...))
}

// Foreach creates `foreach (expr as value) { stmts }`.
func (b *Builder) Foreach(expr, value ID, stmts ...ID) ID {
	return b.composite(KindForeach, "", part(RoleExpr, expr), part(RoleValue, value), part(RoleStmts, stmts...))
}

// Param creates a parameter; typ may be NoID.
func (b *Builder) Param(typ, v ID) ID {
	return b.composite(KindParam, "", part(RoleType, typ), part(RoleVar, v))
}

func (b *Builder) NullableType(inner ID) ID {
	return b.composite(KindNullableType, "", part(RoleType, inner))
}

// PropertyItem creates one `$name = default` entry; def may be NoID.
func (b *Builder) PropertyItem(name string, def ID) ID {
	return b.composite(KindPropertyItem, "", part(RoleName, b.Ident(name)), part(RoleDefault, def))
}

// Property creates a property declaration; typ may be NoID.
func (b *Builder) Property(flags Flags, typ ID, items ...ID) ID {
	id := b.composite(KindPropertyDeclaration, "", part(RoleType, typ), part(RoleProps, items...))
	return b.SetFlags(id, flags)
}

func (b *Builder) ClassMethod(name string, flags Flags, params []ID, stmts ...ID) ID {
	id := b.composite(KindClassMethod, "", part(RoleName, b.Ident(name)), part(RoleParams, params...), part(RoleStmts, stmts...))
	return b.SetFlags(id, flags)
}

func (b *Builder) Function(name string, params []ID, stmts ...ID) ID {
	return b.composite(KindFunction, "", part(RoleName, b.Ident(name)), part(RoleParams, params...), part(RoleStmts, stmts...))
}

func (b *Builder) Class(name string, stmts ...ID) ID {
	return b.composite(KindClass, "", part(RoleName, b.Ident(name)), part(RoleStmts, stmts...))
}

// Extends records the parent class of class.
func (b *Builder) Extends(class, parent ID) ID {
	b.Attach(class, RoleExtends, parent)
	return class
}

func (b *Builder) Namespace(name string, stmts ...ID) ID {
	return b.composite(KindNamespace, "", part(RoleName, b.Name(name, false)), part(RoleStmts, stmts...))
}

func (b *Builder) File(stmts ...ID) ID {
	return b.composite(KindFile, "", part(RoleStmts, stmts...))
}
