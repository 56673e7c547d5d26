package maincmd

import (
	"context"
	"fmt"
	"os"

	"github.com/mna/mainer"
	"github.com/mna/tapt/lang/ast"
	"github.com/mna/tapt/lang/parser"
)

func (c *Cmd) Parse(ctx context.Context, stdio mainer.Stdio, args []string) error {
	return ParseFiles(ctx, stdio, args...)
}

// ParseFiles parses the source files and prints the AST rendered back to
// normalized source.
func ParseFiles(_ context.Context, stdio mainer.Stdio, files ...string) error {
	for _, file := range files {
		b, err := os.ReadFile(file)
		if err != nil {
			return printError(stdio, err)
		}
		stmts, ret, err := parser.Parse(string(b))
		if err != nil {
			return printError(stdio, err)
		}
		fmt.Fprint(stdio.Stdout, ast.PrintProgram(stmts, ret))
	}
	return nil
}
