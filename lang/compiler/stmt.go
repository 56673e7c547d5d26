package compiler

import (
	"github.com/mna/tapt/lang/ast"
	"github.com/mna/tapt/lang/machine"
	"github.com/mna/tapt/lang/types"
)

func (c *Compiler) stmt(chunk *machine.Chunk, s ast.Stmt) error {
	switch s := s.(type) {
	case *ast.VarStmt:
		return c.varStmt(chunk, s)
	case *ast.StructStmt:
		return c.structStmt(chunk, s)
	case *ast.RecordStmt:
		return c.recordStmt(chunk, s)
	case *ast.FuncStmt:
		return c.funcStmt(chunk, s)
	case *ast.WhileStmt:
		return c.whileStmt(chunk, s)
	case *ast.ForInStmt:
		return &Error{Kind: Unsupported, Detail: "for-in loops", At: s.Span()}
	case *ast.ExprStmt:
		return c.expr(chunk, s.X)
	}
	return &Error{Kind: Unsupported, Detail: "statement", At: s.Span()}
}

// varStmt compiles a variable declaration. The declared type is computed
// from the initializer; an explicit annotation must agree with it.
func (c *Compiler) varStmt(chunk *machine.Chunk, s *ast.VarStmt) error {
	ty, err := c.typeOf(s.Value)
	if err != nil {
		return err
	}
	if s.Type != nil && !types.Equal(s.Type.Type, ty) {
		return &Error{Kind: TypeExpected, Expected: s.Type.Type, Found: ty, At: s.Value.Span()}
	}

	slot := c.getOrCreateVar(s.Name.Name, ty, s.Mutable, spanOf(s))
	if err := c.expr(chunk, s.Value); err != nil {
		return err
	}
	chunk.EmitArg2(s.Value.Span().Line, machine.SetLocal, machine.CurrentFrame, slot)
	return nil
}

// structStmt compiles a struct declaration: the binding holds the type
// descriptor, no bytecode is generated for the fields themselves.
func (c *Compiler) structStmt(chunk *machine.Chunk, s *ast.StructStmt) error {
	fields := make([]types.StructField, len(s.Fields))
	for i, f := range s.Fields {
		fields[i] = types.StructField{Name: f.Name.Name, Type: f.Type.Type}
	}

	slot := c.createVar(s.Name.Name, false, &types.Struct{Name: s.Name.Name, Fields: fields}, spanOf(s))
	compileConst(chunk, s.Span().Line, &machine.StructDef{Name: s.Name.Name, Fields: fields})
	chunk.EmitArg2(s.Span().Line, machine.SetLocal, machine.CurrentFrame, slot)
	return nil
}

func (c *Compiler) recordStmt(chunk *machine.Chunk, s *ast.RecordStmt) error {
	fields := make([]types.Type, len(s.Fields))
	for i, f := range s.Fields {
		fields[i] = f.Type
	}

	slot := c.createVar(s.Name.Name, false, &types.Record{Name: s.Name.Name, Fields: fields}, spanOf(s))
	compileConst(chunk, s.Span().Line, &machine.RecordDef{Name: s.Name.Name, Fields: fields})
	chunk.EmitArg2(s.Span().Line, machine.SetLocal, machine.CurrentFrame, slot)
	return nil
}

// funcStmt compiles a function declaration in an isolated sub-compiler with
// a fresh variable table at depth 1: parameters first, as mutable locals in
// slot order, then the function's own name (immutable), so that the function
// can recursively refer to itself. No other outer binding is visible, there
// are no closures.
func (c *Compiler) funcStmt(chunk *machine.Chunk, s *ast.FuncStmt) error {
	sub := New()
	fchunk := machine.NewChunk()
	sub.pushScope()

	args := make([]types.Type, len(s.Params))
	for i, p := range s.Params {
		args[i] = p.Type.Type
		psp := p.Name.Sp.Between(p.Type.Sp)
		sub.createVar(p.Name.Name, true, p.Type.Type, &psp)
	}

	out := types.Type(types.None)
	if s.Out != nil {
		out = s.Out.Type
	}
	fnType := &types.Func{Args: args, Out: out}

	slot := c.createVar(s.Name.Name, false, fnType, spanOf(s))
	sub.createVar(s.Name.Name, false, fnType, spanOf(s))

	for _, st := range s.Body.Stmts {
		if err := sub.stmt(fchunk, st); err != nil {
			return err
		}
	}

	bodyType := types.Type(types.None)
	if s.Body.Ret != nil {
		var err error
		bodyType, err = sub.typeOf(s.Body.Ret)
		if err != nil {
			return err
		}
		if err := sub.expr(fchunk, s.Body.Ret); err != nil {
			return err
		}
		fchunk.Emit(s.Body.Span().Line, machine.Return)
	}

	sub.popScope()
	fchunk.Emit(0, machine.Halt)

	if !types.Equal(bodyType, out) {
		return &Error{Kind: TypeExpected, Expected: out, Found: bodyType, At: s.Span()}
	}

	fn := &machine.Function{
		Meta:  machine.FuncMeta{Name: s.Name.Name, Args: args, Out: out},
		Chunk: fchunk,
	}
	compileConst(chunk, s.Span().Line, fn)
	chunk.EmitArg2(s.Span().Line, machine.SetLocal, machine.CurrentFrame, slot)
	return nil
}

// whileStmt lowers a while loop to a conditional forward exit and a
// backward jump to the condition.
func (c *Compiler) whileStmt(chunk *machine.Chunk, s *ast.WhileStmt) error {
	condType, err := c.typeOf(s.Cond)
	if err != nil {
		return err
	}
	if condType != types.Bool {
		return &Error{Kind: TypeExpected, Expected: types.Bool, Found: condType, At: s.Cond.Span()}
	}

	line := s.Cond.Span().Line
	condStart := chunk.Len()
	if err := c.expr(chunk, s.Cond); err != nil {
		return err
	}

	exit := chunk.Len()
	chunk.EmitArg(line, machine.JumpIfFalse, 0)
	chunk.Emit(line, machine.Pop) // the condition was true

	bodyType, err := c.block(chunk, s.Body)
	if err != nil {
		return err
	}
	if bodyType != types.None {
		// discard the per-iteration value
		chunk.Emit(s.Body.Span().Line, machine.Pop)
	}

	back := chunk.Len()
	chunk.EmitArg(s.Body.Span().Line, machine.Jump, 0)
	patchJump(chunk, back, condStart)
	patchJump(chunk, exit, chunk.Len())
	return nil
}
