package parser

import (
	"testing"

	"github.com/mna/tapt/lang/ast"
	"github.com/mna/tapt/lang/token"
	"github.com/mna/tapt/lang/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEmpty(t *testing.T) {
	stmts, ret, err := Parse("")
	require.NoError(t, err)
	assert.Empty(t, stmts)
	assert.Nil(t, ret)
}

func TestParseVarDecl(t *testing.T) {
	stmts, ret, err := Parse("let x = 1; const y: bool = true;")
	require.NoError(t, err)
	require.Len(t, stmts, 2)
	assert.Nil(t, ret)

	v := stmts[0].(*ast.VarStmt)
	assert.True(t, v.Mutable)
	assert.Equal(t, "x", v.Name.Name)
	assert.Nil(t, v.Type)
	lit := v.Value.(*ast.LitExpr)
	assert.Equal(t, int64(1), lit.Tok.Int)

	v = stmts[1].(*ast.VarStmt)
	assert.False(t, v.Mutable)
	require.NotNil(t, v.Type)
	assert.Equal(t, types.Bool, v.Type.Type)
}

func TestParseTrailingExpr(t *testing.T) {
	stmts, ret, err := Parse("let x = 1; x")
	require.NoError(t, err)
	require.Len(t, stmts, 1)
	require.NotNil(t, ret)
	assert.Equal(t, "x", ret.(*ast.IdentExpr).Name)

	// with a semicolon it is a regular statement
	stmts, ret, err = Parse("let x = 1; x;")
	require.NoError(t, err)
	require.Len(t, stmts, 2)
	assert.Nil(t, ret)
}

func TestParseMissingSemi(t *testing.T) {
	_, _, err := Parse("1 2;")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing ;")

	// two trailing expressions
	_, _, err = Parse("1 2")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing ;")
}

func TestParsePrecedence(t *testing.T) {
	_, ret, err := Parse("1 + 2 * 3")
	require.NoError(t, err)
	b := ret.(*ast.BinaryExpr)
	assert.Equal(t, token.PLUS, b.Op)
	mul := b.Right.(*ast.BinaryExpr)
	assert.Equal(t, token.STAR, mul.Op)

	// left associativity
	_, ret, err = Parse("1 - 2 - 3")
	require.NoError(t, err)
	b = ret.(*ast.BinaryExpr)
	assert.Equal(t, token.MINUS, b.Op)
	inner := b.Left.(*ast.BinaryExpr)
	assert.Equal(t, token.MINUS, inner.Op)
	assert.Equal(t, int64(3), b.Right.(*ast.LitExpr).Tok.Int)

	// logical operators bind below equality
	_, ret, err = Parse("x == 1 && y == 2")
	require.NoError(t, err)
	b = ret.(*ast.BinaryExpr)
	assert.Equal(t, token.ANDAND, b.Op)
	assert.Equal(t, token.EQEQ, b.Left.(*ast.BinaryExpr).Op)
	assert.Equal(t, token.EQEQ, b.Right.(*ast.BinaryExpr).Op)

	// assignment takes the whole right side
	_, ret, err = Parse("x = a && b")
	require.NoError(t, err)
	b = ret.(*ast.BinaryExpr)
	assert.Equal(t, token.EQ, b.Op)
	assert.Equal(t, token.ANDAND, b.Right.(*ast.BinaryExpr).Op)

	// parenthesized grouping
	_, ret, err = Parse("false && (1 / 0)")
	require.NoError(t, err)
	b = ret.(*ast.BinaryExpr)
	assert.Equal(t, token.ANDAND, b.Op)
	paren := b.Right.(*ast.ParenExpr)
	assert.Equal(t, token.SLASH, paren.X.(*ast.BinaryExpr).Op)
}

func TestParseCallAndIndex(t *testing.T) {
	_, ret, err := Parse("add(1, 2)")
	require.NoError(t, err)
	c := ret.(*ast.CallExpr)
	assert.Equal(t, "add", c.Target.(*ast.IdentExpr).Name)
	require.Len(t, c.Args, 2)

	_, ret, err = Parse("p.0 + p.1")
	require.NoError(t, err)
	b := ret.(*ast.BinaryExpr)
	idx := b.Left.(*ast.IndexExpr)
	assert.Nil(t, idx.Name)
	assert.Equal(t, 0, idx.Pos)
	idx = b.Right.(*ast.IndexExpr)
	assert.Equal(t, 1, idx.Pos)

	_, ret, err = Parse("s.a")
	require.NoError(t, err)
	idx = ret.(*ast.IndexExpr)
	require.NotNil(t, idx.Name)
	assert.Equal(t, "a", idx.Name.Name)

	// bracket indexing parses (the compiler rejects it)
	_, ret, err = Parse("a[1]")
	require.NoError(t, err)
	idx = ret.(*ast.IndexExpr)
	require.NotNil(t, idx.Sub)

	// chained calls are left associative
	_, ret, err = Parse("f(1)(2)")
	require.NoError(t, err)
	c = ret.(*ast.CallExpr)
	_, ok := c.Target.(*ast.CallExpr)
	assert.True(t, ok)
}

func TestParseStructRecordFunc(t *testing.T) {
	stmts, _, err := Parse("struct S { a: int, b: float } record P(int, string); func f(a: int): int { a }")
	require.NoError(t, err)
	require.Len(t, stmts, 3)

	s := stmts[0].(*ast.StructStmt)
	assert.Equal(t, "S", s.Name.Name)
	require.Len(t, s.Fields, 2)
	assert.Equal(t, "a", s.Fields[0].Name.Name)
	assert.Equal(t, types.Int, s.Fields[0].Type.Type)
	assert.Equal(t, types.Float, s.Fields[1].Type.Type)

	r := stmts[1].(*ast.RecordStmt)
	assert.Equal(t, "P", r.Name.Name)
	require.Len(t, r.Fields, 2)
	assert.Equal(t, types.String, r.Fields[1].Type)

	f := stmts[2].(*ast.FuncStmt)
	assert.Equal(t, "f", f.Name.Name)
	require.Len(t, f.Params, 1)
	require.NotNil(t, f.Out)
	assert.Equal(t, types.Int, f.Out.Type)
	require.NotNil(t, f.Body.Ret)
}

func TestParseNewInstance(t *testing.T) {
	_, ret, err := Parse("new P(3, 4)")
	require.NoError(t, err)
	n := ret.(*ast.NewExpr)
	assert.False(t, n.Struct)
	assert.Equal(t, "P", n.Target.Name)
	require.Len(t, n.Args, 2)

	_, ret, err = Parse("new S{ b: 2, a: 1 }")
	require.NoError(t, err)
	n = ret.(*ast.NewExpr)
	assert.True(t, n.Struct)
	require.Len(t, n.Fields, 2)
	assert.Equal(t, "b", n.Fields[0].Name.Name)

	_, _, err = Parse("new S")
	require.Error(t, err)
}

func TestParseIfElseChain(t *testing.T) {
	_, ret, err := Parse("if a { 1 } else if b { 2 } else { 3 }")
	require.NoError(t, err)
	ie := ret.(*ast.IfElseExpr)
	require.NotNil(t, ie.Else)
	chain := ie.Else.(*ast.IfElseExpr)
	require.NotNil(t, chain.Else)
	_, ok := chain.Else.(*ast.BlockExpr)
	assert.True(t, ok)

	_, ret, err = Parse("if a { 1 }")
	require.NoError(t, err)
	ie = ret.(*ast.IfElseExpr)
	assert.Nil(t, ie.Else)
}

func TestParseMatch(t *testing.T) {
	_, ret, err := Parse("match x { 1 => 10, other => 20 }")
	require.NoError(t, err)
	m := ret.(*ast.MatchExpr)
	require.Len(t, m.Arms, 2)
	assert.Nil(t, m.Arms[0].Bind)
	require.NotNil(t, m.Arms[0].Case)
	require.NotNil(t, m.Arms[1].Bind)
	assert.Equal(t, "other", m.Arms[1].Bind.Name)
}

func TestParseWhileFor(t *testing.T) {
	stmts, _, err := Parse("while i < 3 { i = i + 1; }")
	require.NoError(t, err)
	w := stmts[0].(*ast.WhileStmt)
	assert.Equal(t, token.LT, w.Cond.(*ast.BinaryExpr).Op)
	require.Len(t, w.Body.Stmts, 1)

	stmts, _, err = Parse("for x in r { x; }")
	require.NoError(t, err)
	f := stmts[0].(*ast.ForInStmt)
	assert.Equal(t, "x", f.Name.Name)
}

func TestParseReservedForms(t *testing.T) {
	// arrays, objects and ranges parse into the AST
	_, ret, err := Parse("[1, 2, 3]")
	require.NoError(t, err)
	arr := ret.(*ast.ArrayExpr)
	require.Len(t, arr.Elems, 3)

	_, ret, err = Parse("#{ a: 1 }")
	require.NoError(t, err)
	obj := ret.(*ast.ObjectExpr)
	require.Len(t, obj.Fields, 1)

	_, ret, err = Parse("0..5")
	require.NoError(t, err)
	rng := ret.(*ast.RangeExpr)
	assert.Equal(t, int64(0), rng.Lo)
	assert.Equal(t, int64(5), rng.Hi)
}

func TestParseErrors(t *testing.T) {
	cases := []string{
		"let = 1;",
		"let x 1;",
		"let x = ;",
		"let x = 1",
		"struct S { a int }",
		"record P(int)",
		"func f( { }",
		"match x { 1 => }",
		"new S[1]",
		`"interpolation {x} not allowed here"`,
		"&&",
	}
	for _, src := range cases {
		t.Run(src, func(t *testing.T) {
			_, _, err := Parse(src)
			require.Error(t, err)
			var perr *Error
			require.ErrorAs(t, err, &perr)
		})
	}
}
