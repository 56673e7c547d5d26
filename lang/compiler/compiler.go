// Package compiler takes a parsed AST and compiles it to bytecode that can
// be executed by the virtual machine, performing type checking in the same
// single pass. It manages lexical scopes, variable slot assignment and
// forward jump patching, and provides a disassembler for the compiled form.
package compiler

import (
	"github.com/mna/tapt/lang/ast"
	"github.com/mna/tapt/lang/machine"
	"github.com/mna/tapt/lang/token"
	"github.com/mna/tapt/lang/types"
)

// A Variable is a compile-time binding. Its index in the compiler's table is
// the frame slot it occupies at runtime.
type Variable struct {
	Name    string
	Depth   int
	Mutable bool
	Type    types.Type
	Span    *token.Span // declaration site, nil for natives
}

// A Compiler compiles statements into a chunk. The variable table is never
// shrunk: popping a scope only decrements the depth counter, so that slot
// indices assigned under a closed scope stay valid in the emitted code.
type Compiler struct {
	Variables  []Variable
	ScopeDepth int
}

// New creates an empty Compiler.
func New() *Compiler {
	return &Compiler{}
}

// AddNativeFunc declares a native function binding with the provided
// signature and returns its slot. A nil out means none. The runtime is
// responsible for storing the matching value in the VM frame's slot.
func (c *Compiler) AddNativeFunc(name string, args []types.Type, out types.Type) int {
	if out == nil {
		out = types.None
	}
	return c.createVar(name, false, &types.Func{Args: args, Out: out}, nil)
}

// Compile compiles the program into a chunk: the statements in order, then
// the optional trailing return expression followed by Return, then Halt.
// The first error terminates compilation and no chunk is returned.
func (c *Compiler) Compile(stmts []ast.Stmt, ret ast.Expr) (*machine.Chunk, error) {
	chunk := machine.NewChunk()
	for _, s := range stmts {
		if err := c.stmt(chunk, s); err != nil {
			return nil, err
		}
	}
	if ret != nil {
		line := ret.Span().Line
		if err := c.expr(chunk, ret); err != nil {
			return nil, err
		}
		chunk.Emit(line, machine.Return)
	}
	chunk.Emit(0, machine.Halt)
	return chunk, nil
}

func (c *Compiler) pushScope() { c.ScopeDepth++ }
func (c *Compiler) popScope()  { c.ScopeDepth-- }

// getVar resolves a name, scanning from the newest binding to the oldest,
// and returns its slot and binding.
func (c *Compiler) getVar(accessedAt token.Span, name string) (int, *Variable, error) {
	for i := len(c.Variables) - 1; i >= 0; i-- {
		if c.Variables[i].Name == name {
			return i, &c.Variables[i], nil
		}
	}
	return 0, nil, &Error{Kind: VariableNotExist, Name: name, At: accessedAt}
}

// getOrCreateVar declares a binding. A binding with the same name at the
// current depth is reused as-is (it was introduced by an earlier pass over
// the same declaration); a binding with the same name at any other depth is
// shadowed by overwriting it in place, keeping its slot; otherwise the table
// grows.
func (c *Compiler) getOrCreateVar(name string, ty types.Type, mutable bool, span *token.Span) int {
	for i := len(c.Variables) - 1; i >= 0; i-- {
		v := &c.Variables[i]
		if v.Name != name {
			continue
		}
		if v.Depth != c.ScopeDepth {
			v.Mutable = mutable
			v.Type = ty
			v.Span = span
		}
		return i
	}
	return c.createVar(name, mutable, ty, span)
}

// createVar unconditionally appends a binding and returns its slot.
func (c *Compiler) createVar(name string, mutable bool, ty types.Type, span *token.Span) int {
	c.Variables = append(c.Variables, Variable{
		Name:    name,
		Depth:   c.ScopeDepth,
		Mutable: mutable,
		Type:    ty,
		Span:    span,
	})
	return len(c.Variables) - 1
}

// patchJump rewrites the jump emitted at start so that execution resumes at
// target (the VM increments the instruction pointer after a jump, so the
// stored offset is target-start-1). Instructions other than Jump and
// JumpIfFalse are silently left alone.
func patchJump(chunk *machine.Chunk, start, target int) {
	switch in := &chunk.Code[start]; in.Op {
	case machine.Jump, machine.JumpIfFalse:
		in.Arg = target - start - 1
	}
}

// compileConst appends the value to the constant pool and emits a LoadConst
// for it.
func compileConst(chunk *machine.Chunk, line int, v machine.Value) {
	chunk.EmitArg(line, machine.LoadConst, chunk.AddConst(v))
}

func spanOf(n ast.Node) *token.Span {
	sp := n.Span()
	return &sp
}
