package maincmd

import (
	"context"
	"fmt"
	"os"

	"github.com/mna/mainer"
	"github.com/mna/tapt/internal/config"
	"github.com/mna/tapt/lang/compiler"
	"github.com/mna/tapt/lang/machine"
	"github.com/mna/tapt/lang/runtime"
)

func (c *Cmd) Run(ctx context.Context, stdio mainer.Stdio, args []string) error {
	cfg, err := config.Load(c.ConfigFile)
	if err != nil {
		return printError(stdio, err)
	}
	// flags override the configuration file
	if c.Disasm {
		cfg.Disasm = true
	}
	if c.NoResult {
		cfg.NoResult = true
	}
	if c.Trace {
		cfg.Trace = true
	}
	return RunFiles(ctx, stdio, cfg, args...)
}

// RunFiles compiles and executes the source files, each in a fresh runtime
// with the standard natives registered.
func RunFiles(_ context.Context, stdio mainer.Stdio, cfg *config.Config, files ...string) error {
	for _, file := range files {
		b, err := os.ReadFile(file)
		if err != nil {
			return printError(stdio, err)
		}

		rt := runtime.New()
		RegisterNatives(rt, stdio)
		if cfg.Trace {
			rt.VM().Trace = stdio.Stderr
		}

		chunk, err := rt.Compile(string(b))
		if err != nil {
			return printError(stdio, err)
		}
		if cfg.Disasm {
			fmt.Fprint(stdio.Stdout, compiler.Disassemble(chunk))
		}

		res, err := rt.VM().Interpret(chunk)
		if err != nil {
			return printError(stdio, err)
		}
		if !cfg.NoResult {
			fmt.Fprintf(stdio.Stdout, "%s\n", res)
		}
	}
	return nil
}

// RegisterNatives registers the standard natives: println, which prints any
// value to the command's stdout.
func RegisterNatives(rt *runtime.Runtime, stdio mainer.Stdio) {
	runtime.NewFunction("println").
		AnyArg().
		Build(rt, func(_ *machine.VM, args *machine.Args) machine.Value {
			fmt.Fprintf(stdio.Stdout, "%s\n", args.Next())
			return machine.None{}
		})
}
