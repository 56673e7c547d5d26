package ast_test

import (
	"testing"

	"github.com/mna/tapt/lang/ast"
	"github.com/mna/tapt/lang/parser"
	"github.com/mna/tapt/lang/scanner"
	"github.com/mna/tapt/lang/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// printProgram parses src and renders it back to source.
func printProgram(t *testing.T, src string) string {
	t.Helper()
	stmts, ret, err := parser.Parse(src)
	require.NoError(t, err)
	return ast.PrintProgram(stmts, ret)
}

func TestPrintProgram(t *testing.T) {
	cases := []struct {
		src  string
		want string
	}{
		{"let x = 1;", "let x = 1;\n"},
		{"const y: int = 2;", "const y: int = 2;\n"},
		{"let f = 1.5;", "let f = 1.5;\n"},
		{"let f = 10.0;", "let f = 10.0;\n"},
		{"let s = \"a b\";", "let s = \"a b\";\n"},
		{"struct S { a: int, b: bool }", "struct S { a: int, b: bool }\n"},
		{"record P(int, string);", "record P(int, string);\n"},
		{"func add(a: int, b: int): int { a + b }", "func add(a: int, b: int): int { a + b }\n"},
		{"add(20, 40)", "add(20, 40)\n"},
		{"p.0 + p.1", "p.0 + p.1\n"},
		{"s.a - s.b", "s.a - s.b\n"},
		{"new P(3, 4)", "new P(3, 4)\n"},
		{"new S{ b: 2, a: 1 }", "new S{ b: 2, a: 1 }\n"},
		{"if true { 1 } else { 2 }", "if true { 1 } else { 2 }\n"},
		{"match x { 1 => 10, other => 20 }", "match x { 1 => 10, other => 20 }\n"},
		{"while i < 3 { i = i + 1; }", "while i < 3 { i = i + 1; }\n"},
		{"for x in 0..5 { x; }", "for x in 0..5 { x; }\n"},
		{"[1, 2]", "[1, 2]\n"},
		{"#{ a: 1 }", "#{ a: 1 }\n"},
		{"x = x + 5;", "x = x + 5;\n"},
	}
	for _, c := range cases {
		t.Run(c.src, func(t *testing.T) {
			assert.Equal(t, c.want, printProgram(t, c.src))
		})
	}
}

// nested binary expressions are parenthesized so that grouping survives a
// reparse
func TestPrintPreservesGrouping(t *testing.T) {
	out := printProgram(t, "(1 + 2) * 3")
	assert.Equal(t, "(1 + 2) * 3\n", out)

	out = printProgram(t, "1 + 2 * 3")
	assert.Equal(t, "1 + (2 * 3)\n", out)

	// printing is stable once normalized
	assert.Equal(t, "1 + (2 * 3)\n", printProgram(t, "1 + (2 * 3)"))
}

func TestPrintInterpolatedString(t *testing.T) {
	// the parser rejects interpolated literals, so print the node directly
	toks := scanner.Tokenize(`"n is {n}!"`)
	require.Equal(t, token.ISTRING, toks[0].Kind)
	out := ast.Print(&ast.LitExpr{Tok: toks[0]})
	assert.Equal(t, `"n is {n}!"`, out)
}
