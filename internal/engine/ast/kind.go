// # internal/engine/ast/kind.go
package ast

import "strings"

// Kind identifies the syntactic shape of a node.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindIdentifier
	KindName
	KindVariable
	KindPropertyDeclaration
	KindPropertyItem
	KindClassConstFetch
	KindConstFetch
	KindAssign
	KindArrayDimFetch
	KindStaticCall
	KindMethodCall
	KindFuncCall
	KindPropertyFetch
	KindArg
	KindParam
	KindNullableType
	KindLNumber
	KindString
	KindExpressionStmt
	KindEcho
	KindReturn
	KindIf
	KindElseIf
	KindElse
	KindWhile
	KindDo
	KindFor
	KindForeach
	KindClass
	KindClassMethod
	KindFunction
	KindNamespace
	KindFile
	KindArray
	KindArrayItem
	KindConcat
	KindMagicDir
	KindYield

	kindCount
)

var kindNames = [kindCount]string{
	KindInvalid:             "Invalid",
	KindIdentifier:          "Identifier",
	KindName:                "Name",
	KindVariable:            "Variable",
	KindPropertyDeclaration: "PropertyDeclaration",
	KindPropertyItem:        "PropertyItem",
	KindClassConstFetch:     "ClassConstFetch",
	KindConstFetch:          "ConstFetch",
	KindAssign:              "Assign",
	KindArrayDimFetch:       "ArrayDimFetch",
	KindStaticCall:          "StaticCall",
	KindMethodCall:          "MethodCall",
	KindFuncCall:            "FuncCall",
	KindPropertyFetch:       "PropertyFetch",
	KindArg:                 "Arg",
	KindParam:               "Param",
	KindNullableType:        "NullableType",
	KindLNumber:             "LNumber",
	KindString:              "String",
	KindExpressionStmt:      "ExpressionStmt",
	KindEcho:                "Echo",
	KindReturn:              "Return",
	KindIf:                  "If",
	KindElseIf:              "ElseIf",
	KindElse:                "Else",
	KindWhile:               "While",
	KindDo:                  "Do",
	KindFor:                 "For",
	KindForeach:             "Foreach",
	KindClass:               "Class",
	KindClassMethod:         "ClassMethod",
	KindFunction:            "Function",
	KindNamespace:           "Namespace",
	KindFile:                "File",
	KindArray:               "Array",
	KindArrayItem:           "ArrayItem",
	KindConcat:              "Concat",
	KindMagicDir:            "MagicDir",
	KindYield:               "Yield",
}

func (k Kind) String() string {
	if k >= kindCount {
		return kindNames[KindInvalid]
	}
	return kindNames[k]
}

// ParseKind maps a kind name (case-insensitive) back to its Kind.
func ParseKind(s string) (Kind, bool) {
	for k := KindIdentifier; k < kindCount; k++ {
		if strings.EqualFold(kindNames[k], s) {
			return k, true
		}
	}
	return KindInvalid, false
}

// HasStatements reports whether nodes of this kind own an ordered statement list.
func (k Kind) HasStatements() bool {
	switch k {
	case KindIf, KindElseIf, KindElse, KindWhile, KindDo, KindFor, KindForeach,
		KindClass, KindClassMethod, KindFunction, KindNamespace, KindFile:
		return true
	}
	return false
}

// Role labels the edge between a node and one of its children.
type Role uint8

const (
	RoleNone Role = iota
	RoleVar
	RoleExpr
	RoleExprs
	RoleDim
	RoleClass
	RoleName
	RoleArgs
	RoleValue
	RoleType
	RoleProps
	RoleParams
	RoleStmts
	RoleCond
	RoleElseIfs
	RoleElse
	RoleDefault
	RoleItems
	RoleKey
	RoleLeft
	RoleRight
	RoleExtends

	roleCount
)

var roleNames = [roleCount]string{
	RoleNone:    "none",
	RoleVar:     "var",
	RoleExpr:    "expr",
	RoleExprs:   "exprs",
	RoleDim:     "dim",
	RoleClass:   "class",
	RoleName:    "name",
	RoleArgs:    "args",
	RoleValue:   "value",
	RoleType:    "type",
	RoleProps:   "props",
	RoleParams:  "params",
	RoleStmts:   "stmts",
	RoleCond:    "cond",
	RoleElseIfs: "elseifs",
	RoleElse:    "else",
	RoleDefault: "default",
	RoleItems:   "items",
	RoleKey:     "key",
	RoleLeft:    "left",
	RoleRight:   "right",
	RoleExtends: "extends",
}

func (r Role) String() string {
	if r >= roleCount {
		return roleNames[RoleNone]
	}
	return roleNames[r]
}

// ParseRole maps a role name (case-insensitive) back to its Role.
func ParseRole(s string) (Role, bool) {
	for r := RoleVar; r < roleCount; r++ {
		if strings.EqualFold(roleNames[r], s) {
			return r, true
		}
	}
	return RoleNone, false
}

// Flags carries modifiers that are part of a node's identity.
type Flags uint8

const (
	// FlagFullyQualified marks a Name written with a leading namespace separator
	// or resolved to its fully qualified form.
	FlagFullyQualified Flags = 1 << iota
	// FlagStatic marks static methods and properties.
	FlagStatic
	// FlagPrivate marks private members.
	FlagPrivate
)

var flagNames = []struct {
	flag Flags
	name string
}{
	{FlagFullyQualified, "fully_qualified"},
	{FlagStatic, "static"},
	{FlagPrivate, "private"},
}

// Has reports whether all bits of f2 are set.
func (f Flags) Has(f2 Flags) bool {
	return f&f2 == f2
}

// ParseFlag maps a flag name back to its bit.
func ParseFlag(s string) (Flags, bool) {
	for _, fn := range flagNames {
		if strings.EqualFold(fn.name, s) {
			return fn.flag, true
		}
	}
	return 0, false
}

// Names returns the names of all set flags.
func (f Flags) Names() []string {
	var out []string
	for _, fn := range flagNames {
		if f.Has(fn.flag) {
			out = append(out, fn.name)
		}
	}
	return out
}
