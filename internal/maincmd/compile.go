package maincmd

import (
	"context"
	"fmt"
	"os"

	"github.com/mna/mainer"
	"github.com/mna/tapt/lang/compiler"
	"github.com/mna/tapt/lang/runtime"
)

func (c *Cmd) Compile(ctx context.Context, stdio mainer.Stdio, args []string) error {
	return CompileFiles(ctx, stdio, args...)
}

// CompileFiles compiles the source files and prints the disassembled
// bytecode. Each file compiles in a fresh runtime.
func CompileFiles(_ context.Context, stdio mainer.Stdio, files ...string) error {
	for _, file := range files {
		b, err := os.ReadFile(file)
		if err != nil {
			return printError(stdio, err)
		}
		chunk, err := runtime.New().Compile(string(b))
		if err != nil {
			return printError(stdio, err)
		}
		fmt.Fprint(stdio.Stdout, compiler.Disassemble(chunk))
	}
	return nil
}
