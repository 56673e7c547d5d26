// Package runtime ties the language pieces together: it owns the VM and the
// compiler, runs source text through lex, parse, compile and interpret, and
// exposes a builder to register host native functions.
package runtime

import (
	"github.com/dolthub/swiss"

	"github.com/mna/tapt/lang/compiler"
	"github.com/mna/tapt/lang/machine"
	"github.com/mna/tapt/lang/parser"
)

// Runtime owns a VM whose host-state slot holds the compiler, so that
// native registration can assign compiler slots. State persists across Run
// calls: declarations from one call are visible in the next.
type Runtime struct {
	vm      *machine.VM
	natives *swiss.Map[string, machine.Value]
}

// New creates a Runtime with an empty compiler and VM.
func New() *Runtime {
	return &Runtime{
		vm:      machine.New(compiler.New()),
		natives: swiss.NewMap[string, machine.Value](8),
	}
}

// VM returns the runtime's virtual machine.
func (rt *Runtime) VM() *machine.VM { return rt.vm }

func (rt *Runtime) compiler() *compiler.Compiler {
	return rt.vm.State.(*compiler.Compiler)
}

// Native returns the registered native function value for name.
func (rt *Runtime) Native(name string) (machine.Value, bool) {
	return rt.natives.Get(name)
}

// Run lexes, parses, compiles and interprets src and returns the program's
// value: its trailing expression's value, or None. The error is a
// *parser.Error, *compiler.Error or *machine.Error depending on the phase
// that failed.
func (rt *Runtime) Run(src string) (machine.Value, error) {
	stmts, ret, err := parser.Parse(src)
	if err != nil {
		return nil, err
	}
	chunk, err := rt.compiler().Compile(stmts, ret)
	if err != nil {
		return nil, err
	}
	return rt.vm.Interpret(chunk)
}

// Compile lexes, parses and compiles src without running it.
func (rt *Runtime) Compile(src string) (*machine.Chunk, error) {
	stmts, ret, err := parser.Parse(src)
	if err != nil {
		return nil, err
	}
	return rt.compiler().Compile(stmts, ret)
}
