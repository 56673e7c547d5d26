package maincmd

import (
	"context"
	"fmt"
	"os"

	"github.com/mna/mainer"
	"github.com/mna/tapt/lang/scanner"
)

func (c *Cmd) Tokenize(ctx context.Context, stdio mainer.Stdio, args []string) error {
	return TokenizeFiles(ctx, stdio, args...)
}

// TokenizeFiles tokenizes the source files and prints one token per line
// with its position.
func TokenizeFiles(_ context.Context, stdio mainer.Stdio, files ...string) error {
	for _, file := range files {
		b, err := os.ReadFile(file)
		if err != nil {
			return printError(stdio, err)
		}
		for _, tok := range scanner.Tokenize(string(b)) {
			fmt.Fprintf(stdio.Stdout, "%s:%s: %s", file, tok.Span, tok.Kind)
			if lit := tok.String(); lit != tok.Kind.String() {
				fmt.Fprintf(stdio.Stdout, " %s", lit)
			}
			fmt.Fprintln(stdio.Stdout)
		}
	}
	return nil
}
