package ast

import (
	"astral/internal/core/errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildMatchFixture builds:
//
//	$m = Strings::match($x, self::REGEX);
//	if ($m) { echo $m[1]; }
//	return $m;
func buildMatchFixture() (*Tree, map[string]ID) {
	b := NewBuilder()
	call := b.StaticCall(b.Name(`Nette\Utils\Strings`, true), b.Ident("match"),
		b.Args(b.Var("x"), b.ClassConstFetch(b.Name("self", false), "REGEX"))...)
	assign := b.Assign(b.Var("m"), call)
	stmt1 := b.Expr(assign)
	fetch := b.DimFetch(b.Var("m"), b.LNumber(1))
	echo := b.Echo(fetch)
	ifStmt := b.If(b.Var("m"), echo)
	ret := b.Return(b.Var("m"))
	file := b.File(stmt1, ifStmt, ret)
	return b.Tree(file), map[string]ID{
		"assign": assign, "stmt1": stmt1, "if": ifStmt, "ret": ret,
		"echo": echo, "fetch": fetch, "file": file, "call": call,
	}
}

func TestBuilder_AnnotatesParentAndNext(t *testing.T) {
	tree, ids := buildMatchFixture()

	assign := tree.Node(ids["assign"])
	assert.Equal(t, ids["stmt1"], assign.Parent().ID())
	assert.Equal(t, ids["file"], assign.Parent().Parent().ID())
	assert.False(t, tree.Root().Parent().Valid())

	stmt1 := tree.Node(ids["stmt1"])
	assert.Equal(t, ids["if"], stmt1.Next().ID())
	assert.Equal(t, ids["ret"], stmt1.Next().Next().ID())
	assert.False(t, tree.Node(ids["ret"]).Next().Valid(), "last statement has no next")

	// Expressions are not in a statement list and carry no next link.
	assert.False(t, assign.Next().Valid())
	assert.False(t, tree.Node(ids["echo"]).Next().Valid())
}

func TestBuilder_AttachTwicePanics(t *testing.T) {
	b := NewBuilder()
	v := b.Var("a")
	b.Expr(v)
	assert.Panics(t, func() { b.Expr(v) })
}

func TestNode_ZeroValueIsTotal(t *testing.T) {
	var n Node
	assert.False(t, n.Valid())
	assert.Equal(t, KindInvalid, n.Kind())
	assert.Equal(t, NoID, n.ID())
	assert.Empty(t, n.Value())
	assert.False(t, n.Parent().Valid())
	assert.False(t, n.Next().Valid())
	assert.False(t, n.Child(RoleVar).Valid())
	assert.Nil(t, n.Children(RoleStmts))
	assert.False(t, n.Is(KindInvalid))
	assert.Equal(t, "<nil>", n.String())

	var tree *Tree
	assert.False(t, tree.Root().Valid())
	assert.Zero(t, tree.Len())
}

func TestNode_EdgesInSourceOrder(t *testing.T) {
	tree, ids := buildMatchFixture()
	var roles []Role
	for role := range tree.Node(ids["if"]).Edges() {
		roles = append(roles, role)
	}
	assert.Equal(t, []Role{RoleCond, RoleStmts}, roles)
	assert.Equal(t, RoleStmts, tree.Node(ids["echo"]).Role())
}

func TestEnclosingScope(t *testing.T) {
	b := NewBuilder()
	inCond := b.Assign(b.Var("m"), b.Var("y"))
	echo := b.Echo(b.Var("m"))
	loop := b.While(inCond, echo)
	plain := b.Assign(b.Var("n"), b.Var("y"))
	stmt := b.Expr(plain)
	tree := b.Tree(b.File(loop, stmt))

	scope := EnclosingScope(tree.Node(inCond))
	require.Equal(t, ScopeStatementList, scope.Kind)
	require.Len(t, scope.Stmts, 1)
	assert.Equal(t, echo, scope.Stmts[0].ID())

	scope = EnclosingScope(tree.Node(plain))
	require.Equal(t, ScopeSingleNode, scope.Kind)
	assert.Equal(t, stmt, scope.Node.ID())

	assert.Equal(t, ScopeNone, EnclosingScope(tree.Root()).Kind)
}

func TestDecode(t *testing.T) {
	dump := `{
	  "kind": "File",
	  "edges": [
	    {"role": "stmts", "node": {"kind": "ExpressionStmt", "line": 3, "edges": [
	      {"role": "expr", "node": {"kind": "Assign", "line": 3, "edges": [
	        {"role": "var", "node": {"kind": "Variable", "value": "m"}},
	        {"role": "expr", "node": {"kind": "StaticCall", "edges": [
	          {"role": "class", "node": {"kind": "Name", "value": "Nette\\Utils\\Strings", "flags": ["fully_qualified"]}},
	          {"role": "name", "node": {"kind": "Identifier", "value": "match"}}
	        ]}}
	      ]}}
	    ]}},
	    {"role": "stmts", "node": {"kind": "Echo", "line": 4, "edges": [
	      {"role": "exprs", "node": {"kind": "ArrayDimFetch", "edges": [
	        {"role": "var", "node": {"kind": "Variable", "value": "m"}},
	        {"role": "dim", "node": {"kind": "LNumber", "value": "1"}}
	      ]}}
	    ]}}
	  ]
	}`

	tree, err := Decode(strings.NewReader(dump))
	require.NoError(t, err)

	stmts, ok := tree.Root().Statements()
	require.True(t, ok)
	require.Len(t, stmts, 2)
	assert.Equal(t, stmts[1], stmts[0].Next())
	assert.Equal(t, 4, stmts[1].Line())

	assign := stmts[0].Child(RoleExpr)
	assert.Equal(t, KindAssign, assign.Kind())
	class := assign.Child(RoleExpr).Child(RoleClass)
	assert.True(t, class.Flags().Has(FlagFullyQualified))
	assert.Equal(t, `Nette\Utils\Strings`, class.Value())
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name string
		dump string
		code errors.ErrorCode
	}{
		{"syntax", `{"kind":`, errors.CodeMalformedTree},
		{"unknown kind", `{"kind":"Lambda"}`, errors.CodeMalformedTree},
		{"unknown role", `{"kind":"File","edges":[{"role":"body","node":{"kind":"Echo"}}]}`, errors.CodeMalformedTree},
		{"missing node", `{"kind":"File","edges":[{"role":"stmts"}]}`, errors.CodeMalformedTree},
		{"unknown flag", `{"kind":"Name","value":"A","flags":["final"]}`, errors.CodeMalformedTree},
		{"unknown field", `{"kind":"Name","parent":1}`, errors.CodeMalformedTree},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.dump))
			require.Error(t, err)
			assert.True(t, errors.IsCode(err, tt.code), "got %v", err)
		})
	}
}

func TestDecodeFile_NotFound(t *testing.T) {
	_, err := DecodeFile(t.TempDir() + "/missing.json")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeNotFound))
}

func TestPrint(t *testing.T) {
	tree, ids := buildMatchFixture()

	tests := []struct {
		id       ID
		expected string
	}{
		{ids["call"], `\Nette\Utils\Strings::match($x, self::REGEX)`},
		{ids["assign"], `$m = \Nette\Utils\Strings::match($x, self::REGEX)`},
		{ids["fetch"], `$m[1]`},
		{ids["echo"], `echo $m[1];`},
		{ids["ret"], `return $m;`},
		{ids["if"], `if ($m)`},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, Print(tree.Node(tt.id)))
	}

	b := NewBuilder()
	str := b.String(`#(?<c>it's)#`)
	nullable := b.NullableType(b.Ident("array"))
	computed := b.VarExpr(b.Var("name"))
	tree = b.Tree(b.File(b.Expr(str), b.Expr(nullable), b.Expr(computed)))
	assert.Equal(t, `'#(?<c>it\'s)#'`, Print(tree.Node(str)))
	assert.Equal(t, `?array`, Print(tree.Node(nullable)))
	assert.Equal(t, `${$name}`, Print(tree.Node(computed)))
}

func TestParseKindAndRole(t *testing.T) {
	k, ok := ParseKind("arraydimfetch")
	assert.True(t, ok)
	assert.Equal(t, KindArrayDimFetch, k)
	_, ok = ParseKind("Invalid")
	assert.False(t, ok)

	r, ok := ParseRole("STMTS")
	assert.True(t, ok)
	assert.Equal(t, RoleStmts, r)

	assert.Equal(t, []string{"fully_qualified", "static"}, (FlagFullyQualified | FlagStatic).Names())
}

func TestEncode_DecodesBack(t *testing.T) {
	tree, ids := buildMatchFixture()

	var buf strings.Builder
	require.NoError(t, Encode(&buf, tree.Root()))

	decoded, err := Decode(strings.NewReader(buf.String()))
	require.NoError(t, err)
	assert.Equal(t, tree.Len(), decoded.Len())

	stmts, _ := decoded.Root().Statements()
	require.Len(t, stmts, 3)
	assert.Equal(t, Print(tree.Node(ids["stmt1"])), Print(stmts[0]))
	assert.Equal(t, stmts[1], stmts[0].Next())
	assert.True(t, stmts[0].Child(RoleExpr).Child(RoleExpr).Child(RoleClass).Flags().Has(FlagFullyQualified))

	assert.Error(t, Encode(&buf, Node{}))
}

func TestDecode_FoldsIdentifierNamedVariable(t *testing.T) {
	dump := `{"kind":"Echo","edges":[
	  {"role":"exprs","node":{"kind":"Variable","edges":[{"role":"name","node":{"kind":"Identifier","value":"m"}}]}},
	  {"role":"exprs","node":{"kind":"Variable","edges":[{"role":"name","node":{"kind":"Variable","value":"x"}}]}}
	]}`

	tree, err := Decode(strings.NewReader(dump))
	require.NoError(t, err)

	exprs := tree.Root().Children(RoleExprs)
	require.Len(t, exprs, 2)
	assert.Equal(t, "m", exprs[0].Value())
	assert.Equal(t, 0, exprs[0].NumEdges())
	assert.Equal(t, `$m`, Print(exprs[0]))

	// ${$x} stays computed.
	assert.Equal(t, "", exprs[1].Value())
	assert.Equal(t, KindVariable, exprs[1].Child(RoleName).Kind())
	assert.Equal(t, 4, tree.Len())
}

func TestPrint_FixtureProvider(t *testing.T) {
	b := NewBuilder()
	path := b.Concat(b.MagicDir(), b.String("/Fixture/SkipThis.php"))
	item := b.List(path, b.Array())
	yield := b.Yield(NoID, item)
	keyed := b.Yield(b.String("a"), b.Array(b.ArrayItem(b.String("k"), b.LNumber(1))))
	tree := b.Tree(b.File(b.Expr(yield), b.Expr(keyed)))

	assert.Equal(t, `yield [__DIR__ . '/Fixture/SkipThis.php', []]`, Print(tree.Node(yield)))
	assert.Equal(t, `yield 'a' => ['k' => 1]`, Print(tree.Node(keyed)))
}
