package compiler

import (
	"strconv"

	"github.com/mna/tapt/lang/ast"
	"github.com/mna/tapt/lang/machine"
	"github.com/mna/tapt/lang/token"
	"github.com/mna/tapt/lang/types"
)

// typeOf computes the static type of an expression against the current
// variable table, performing the type checks that the expression's own form
// requires (operand kinds, arm consistency). The condition of an if
// expression is not checked here; ifElse checks it when compiling.
func (c *Compiler) typeOf(e ast.Expr) (types.Type, error) {
	switch e := e.(type) {
	case *ast.LitExpr:
		switch e.Tok.Kind {
		case token.INT:
			return types.Int, nil
		case token.FLOAT:
			return types.Float, nil
		case token.BOOL:
			return types.Bool, nil
		case token.STRING:
			return types.String, nil
		}
		return nil, &Error{Kind: Unsupported, Detail: "literal", At: e.Span()}

	case *ast.IdentExpr:
		_, v, err := c.getVar(e.Sp, e.Name)
		if err != nil {
			return nil, err
		}
		return v.Type, nil

	case *ast.ParenExpr:
		return c.typeOf(e.X)

	case *ast.BinaryExpr:
		return c.binaryType(e)

	case *ast.CallExpr:
		ty, err := c.typeOf(e.Target)
		if err != nil {
			return nil, err
		}
		fn, ok := ty.(*types.Func)
		if !ok {
			return nil, &Error{
				Kind:     TypeExpected,
				Expected: &types.Func{Out: types.None},
				Found:    ty,
				At:       e.Target.Span(),
			}
		}
		return fn.Out, nil

	case *ast.IndexExpr:
		_, ty, err := c.indexField(e)
		return ty, err

	case *ast.BlockExpr:
		if e.Ret == nil {
			return types.None, nil
		}
		return c.typeOf(e.Ret)

	case *ast.IfElseExpr:
		if e.Then.Ret == nil {
			return types.None, nil
		}
		return c.typeOf(e.Then.Ret)

	case *ast.MatchExpr:
		if len(e.Arms) == 0 {
			return types.None, nil
		}
		primary, err := c.typeOf(e.Arms[0].Body)
		if err != nil {
			return nil, err
		}
		for _, arm := range e.Arms[1:] {
			ty, err := c.typeOf(arm.Body)
			if err != nil {
				return nil, err
			}
			if !types.Equal(ty, primary) {
				return nil, &Error{Kind: TypeExpected, Expected: primary, Found: ty, At: arm.Body.Span()}
			}
		}
		return primary, nil

	case *ast.NewExpr:
		_, v, err := c.getVar(e.Target.Sp, e.Target.Name)
		if err != nil {
			return nil, err
		}
		return v.Type, nil
	}
	return nil, &Error{Kind: Unsupported, Detail: "expression", At: e.Span()}
}

func (c *Compiler) binaryType(e *ast.BinaryExpr) (types.Type, error) {
	lhs, err := c.typeOf(e.Left)
	if err != nil {
		return nil, err
	}
	rhs, err := c.typeOf(e.Right)
	if err != nil {
		return nil, err
	}

	switch e.Op {
	case token.PLUS, token.MINUS, token.STAR, token.SLASH, token.LT, token.GT:
		if !types.IsNumeric(lhs) {
			return nil, &Error{
				Kind:  OneOfTypeExpected,
				OneOf: []types.Type{types.Float, types.Int},
				Found: lhs,
				At:    e.Left.Span(),
			}
		}
	case token.ANDAND, token.OROR:
		if lhs != types.Bool {
			return nil, &Error{Kind: TypeExpected, Expected: types.Bool, Found: lhs, At: e.Left.Span()}
		}
		// the right side may never evaluate, its type is not constrained
		// against the left one
		return types.Bool, nil
	}

	if !types.Equal(lhs, rhs) {
		return nil, &Error{Kind: TypeExpected, Expected: lhs, Found: rhs, At: e.Right.Span()}
	}

	switch e.Op {
	case token.EQEQ, token.NEQ, token.LT, token.GT:
		return types.Bool, nil
	}
	return lhs, nil
}

// indexField resolves a property access to its field position and type.
func (c *Compiler) indexField(e *ast.IndexExpr) (int, types.Type, error) {
	ty, err := c.typeOf(e.Target)
	if err != nil {
		return 0, nil, err
	}

	switch ty := ty.(type) {
	case *types.Record:
		if e.Name != nil || e.Sub != nil {
			return 0, nil, &Error{Kind: Unsupported, Detail: "record index must be a position", At: e.Span()}
		}
		if e.Pos >= len(ty.Fields) {
			return 0, nil, &Error{Kind: PropertyNotExist, Name: strconv.Itoa(e.Pos), Target: ty.Name, At: e.PosSp}
		}
		return e.Pos, ty.Fields[e.Pos], nil

	case *types.Struct:
		if e.Name == nil {
			return 0, nil, &Error{Kind: Unsupported, Detail: "struct index must be a field name", At: e.Span()}
		}
		pos := ty.FieldIndex(e.Name.Name)
		if pos < 0 {
			return 0, nil, &Error{Kind: PropertyNotExist, Name: e.Name.Name, Target: ty.Name, At: e.Name.Sp}
		}
		return pos, ty.Fields[pos].Type, nil
	}
	return 0, nil, &Error{
		Kind:  OneOfTypeExpected,
		OneOf: []types.Type{&types.Record{}, &types.Struct{}},
		Found: ty,
		At:    e.Target.Span(),
	}
}

// expr compiles an expression, leaving its value on the stack.
func (c *Compiler) expr(chunk *machine.Chunk, e ast.Expr) error {
	switch e := e.(type) {
	case *ast.LitExpr:
		return c.literal(chunk, e)

	case *ast.IdentExpr:
		slot, v, err := c.getVar(e.Sp, e.Name)
		if err != nil {
			return err
		}
		chunk.EmitArg2(e.Sp.Line, machine.GetLocal, v.Depth-c.ScopeDepth, slot)
		return nil

	case *ast.ParenExpr:
		return c.expr(chunk, e.X)

	case *ast.BinaryExpr:
		return c.binary(chunk, e)

	case *ast.CallExpr:
		return c.call(chunk, e)

	case *ast.IndexExpr:
		return c.index(chunk, e, nil)

	case *ast.BlockExpr:
		_, err := c.block(chunk, e)
		return err

	case *ast.IfElseExpr:
		return c.ifElse(chunk, e)

	case *ast.MatchExpr:
		return c.match(chunk, e)

	case *ast.NewExpr:
		return c.newInstance(chunk, e)
	}
	return &Error{Kind: Unsupported, Detail: "expression", At: e.Span()}
}

func (c *Compiler) literal(chunk *machine.Chunk, e *ast.LitExpr) error {
	line := e.Tok.Span.Line
	switch e.Tok.Kind {
	case token.INT:
		compileConst(chunk, line, machine.Int(e.Tok.Int))
	case token.FLOAT:
		compileConst(chunk, line, machine.Float(e.Tok.Float))
	case token.BOOL:
		compileConst(chunk, line, machine.Bool(e.Tok.Bool))
	case token.STRING:
		compileConst(chunk, line, &machine.String{S: e.Tok.Lit})
	default:
		return &Error{Kind: Unsupported, Detail: "literal", At: e.Span()}
	}
	return nil
}

func (c *Compiler) binary(chunk *machine.Chunk, e *ast.BinaryExpr) error {
	if e.Op == token.EQ {
		return c.assign(chunk, e)
	}

	// verify the operand types even when the result type is not needed
	if _, err := c.binaryType(e); err != nil {
		return err
	}

	line := e.OpSpan.Line
	switch e.Op {
	case token.ANDAND:
		// on false, the jump consumes the copy and the original false is the
		// result; on true both copies are popped and the right side is the
		// result
		if err := c.expr(chunk, e.Left); err != nil {
			return err
		}
		chunk.Emit(line, machine.Copy)
		jif := chunk.Len()
		chunk.EmitArg(line, machine.JumpIfFalse, 0)
		chunk.Emit(line, machine.Pop)
		chunk.Emit(line, machine.Pop)
		if err := c.expr(chunk, e.Right); err != nil {
			return err
		}
		patchJump(chunk, jif, chunk.Len())
		return nil

	case token.OROR:
		// on false the jump consumes the value and resumes at the right side,
		// skipping the escape jump; on true the escape jump exits with true as
		// the result
		if err := c.expr(chunk, e.Left); err != nil {
			return err
		}
		jif := chunk.Len()
		chunk.EmitArg(line, machine.JumpIfFalse, 1)
		jmp := chunk.Len()
		chunk.EmitArg(line, machine.Jump, 0)
		if err := c.expr(chunk, e.Right); err != nil {
			return err
		}
		patchJump(chunk, jmp, chunk.Len())
		return nil
	}

	if err := c.expr(chunk, e.Left); err != nil {
		return err
	}
	if err := c.expr(chunk, e.Right); err != nil {
		return err
	}

	switch e.Op {
	case token.PLUS:
		chunk.Emit(line, machine.Add)
	case token.MINUS:
		chunk.Emit(line, machine.Sub)
	case token.STAR:
		chunk.Emit(line, machine.Mul)
	case token.SLASH:
		chunk.Emit(line, machine.Div)
	case token.EQEQ:
		chunk.Emit(line, machine.Equal)
	case token.NEQ:
		chunk.Emit(line, machine.Equal)
		chunk.Emit(line, machine.Negate)
	case token.LT:
		chunk.Emit(line, machine.Less)
	case token.GT:
		chunk.Emit(line, machine.Greater)
	default:
		return &Error{Kind: Unsupported, Detail: "operator", At: e.OpSpan}
	}
	return nil
}

// assign compiles the two assignable left-hand forms: identifier and
// property access.
func (c *Compiler) assign(chunk *machine.Chunk, e *ast.BinaryExpr) error {
	switch target := e.Left.(type) {
	case *ast.IdentExpr:
		slot, v, err := c.getVar(target.Sp, target.Name)
		if err != nil {
			return err
		}
		if !v.Mutable {
			return &Error{
				Kind:       ImmutableVariable,
				Name:       target.Name,
				At:         target.Sp,
				DeclaredAt: v.Span,
			}
		}
		valueType, err := c.typeOf(e.Right)
		if err != nil {
			return err
		}
		if !types.Equal(valueType, v.Type) {
			return &Error{Kind: TypeExpected, Expected: v.Type, Found: valueType, At: e.Right.Span()}
		}
		depth := v.Depth
		if err := c.expr(chunk, e.Right); err != nil {
			return err
		}
		chunk.EmitArg2(e.OpSpan.Line, machine.SetLocal, depth, slot)
		return nil

	case *ast.IndexExpr:
		return c.index(chunk, target, e.Right)
	}
	return &Error{Kind: Unsupported, Detail: "assignment target", At: e.Left.Span()}
}

// index compiles a property access; with a non-nil assign value it compiles
// a property store instead of a load.
func (c *Compiler) index(chunk *machine.Chunk, e *ast.IndexExpr, assign ast.Expr) error {
	pos, _, err := c.indexField(e)
	if err != nil {
		return err
	}
	if err := c.expr(chunk, e.Target); err != nil {
		return err
	}
	if assign != nil {
		if err := c.expr(chunk, assign); err != nil {
			return err
		}
		chunk.EmitArg(e.End.Line, machine.SetProperty, pos)
		return nil
	}
	chunk.EmitArg(e.End.Line, machine.GetProperty, pos)
	return nil
}

// block compiles a block in its own frame and scope and returns the block's
// type: the trailing expression's, or none.
func (c *Compiler) block(chunk *machine.Chunk, e *ast.BlockExpr) (types.Type, error) {
	line := e.Span().Line
	chunk.Emit(line, machine.PushFrame)
	c.pushScope()

	for _, s := range e.Stmts {
		if err := c.stmt(chunk, s); err != nil {
			return nil, err
		}
	}

	ty := types.Type(types.None)
	if e.Ret != nil {
		var err error
		ty, err = c.typeOf(e.Ret)
		if err != nil {
			return nil, err
		}
		if err := c.expr(chunk, e.Ret); err != nil {
			return nil, err
		}
		chunk.Emit(e.Ret.Span().Line, machine.Return)
	}

	c.popScope()
	chunk.Emit(line, machine.PopFrame)
	return ty, nil
}

func (c *Compiler) ifElse(chunk *machine.Chunk, e *ast.IfElseExpr) error {
	condType, err := c.typeOf(e.Cond)
	if err != nil {
		return err
	}
	if condType != types.Bool {
		return &Error{Kind: TypeExpected, Expected: types.Bool, Found: condType, At: e.Cond.Span()}
	}

	if err := c.expr(chunk, e.Cond); err != nil {
		return err
	}

	line := e.If.Line
	jif := chunk.Len()
	chunk.EmitArg(line, machine.JumpIfFalse, 0)
	if _, err := c.block(chunk, e.Then); err != nil {
		return err
	}

	if e.Else == nil {
		patchJump(chunk, jif, chunk.Len())
		return nil
	}

	jmp := chunk.Len()
	chunk.EmitArg(line, machine.Jump, 0)
	patchJump(chunk, jif, jmp+1)
	if err := c.expr(chunk, e.Else); err != nil {
		return err
	}
	patchJump(chunk, jmp, chunk.Len())
	return nil
}

// match compiles the scrutinee, then each arm as a guarded comparison. A
// binding arm is an irrefutable catch-all: it consumes the scrutinee into a
// fresh slot and any later arm is ignored.
func (c *Compiler) match(chunk *machine.Chunk, e *ast.MatchExpr) error {
	targetType, err := c.typeOf(e.Target)
	if err != nil {
		return err
	}
	if err := c.expr(chunk, e.Target); err != nil {
		return err
	}

	var endJumps []int
	for _, arm := range e.Arms {
		line := arm.Span().Line

		if arm.Bind != nil {
			chunk.Emit(line, machine.PushFrame)
			c.pushScope()

			slot := c.createVar(arm.Bind.Name, false, targetType, spanOf(arm.Bind))
			chunk.EmitArg2(arm.Bind.Sp.Line, machine.SetLocal, machine.CurrentFrame, slot)

			if err := c.expr(chunk, arm.Body); err != nil {
				return err
			}
			chunk.Emit(line, machine.Return)

			c.popScope()
			chunk.Emit(line, machine.PopFrame)
			break // a binding arm catches everything, later arms are ignored
		}

		caseType, err := c.typeOf(arm.Case)
		if err != nil {
			return err
		}
		if !types.Equal(caseType, targetType) {
			return &Error{Kind: TypeExpected, Expected: targetType, Found: caseType, At: arm.CaseSpan()}
		}

		caseLine := arm.CaseSpan().Line
		chunk.Emit(line, machine.Copy)
		if err := c.expr(chunk, arm.Case); err != nil {
			return err
		}
		chunk.Emit(caseLine, machine.Equal)

		jif := chunk.Len()
		chunk.EmitArg(caseLine, machine.JumpIfFalse, 0)
		chunk.Emit(caseLine, machine.Pop) // the comparison was true

		if err := c.expr(chunk, arm.Body); err != nil {
			return err
		}
		jmp := chunk.Len()
		chunk.EmitArg(caseLine, machine.Jump, 0)

		patchJump(chunk, jif, chunk.Len())
		endJumps = append(endJumps, jmp)
	}

	for _, jmp := range endJumps {
		patchJump(chunk, jmp, chunk.Len())
	}
	return nil
}

func (c *Compiler) call(chunk *machine.Chunk, e *ast.CallExpr) error {
	targetType, err := c.typeOf(e.Target)
	if err != nil {
		return err
	}
	fn, ok := targetType.(*types.Func)
	if !ok {
		return &Error{
			Kind:     TypeExpected,
			Expected: &types.Func{Out: types.None},
			Found:    targetType,
			At:       e.Target.Span(),
		}
	}

	if err := c.expr(chunk, e.Target); err != nil {
		return err
	}

	if len(e.Args) != len(fn.Args) {
		return &Error{
			Kind: InvalidArgumentsCount,
			Want: len(fn.Args),
			Got:  len(e.Args),
			At:   e.Span(),
		}
	}
	for i, arg := range e.Args {
		ty, err := c.typeOf(arg)
		if err != nil {
			return err
		}
		if !types.Compare(ty, fn.Args[i]) {
			return &Error{Kind: TypeExpected, Expected: fn.Args[i], Found: ty, At: arg.Span()}
		}
		if err := c.expr(chunk, arg); err != nil {
			return err
		}
	}

	chunk.EmitArg(e.Span().Line, machine.Call, len(e.Args))
	return nil
}

// newInstance compiles an instance construction: the field values in
// canonical order, the type descriptor binding, then CreateInstance.
func (c *Compiler) newInstance(chunk *machine.Chunk, e *ast.NewExpr) error {
	slot, v, err := c.getVar(e.Target.Sp, e.Target.Name)
	if err != nil {
		return err
	}
	depth := v.Depth

	switch ty := v.Type.(type) {
	case *types.Record:
		if e.Struct {
			return &Error{
				Kind:       InvalidInstanceArgs,
				WantForm:   FormRecord,
				GotForm:    FormStruct,
				At:         e.Span(),
				DeclaredAt: v.Span,
			}
		}
		if len(e.Args) != len(ty.Fields) {
			return &Error{
				Kind:       InvalidArgumentsCount,
				Want:       len(ty.Fields),
				Got:        len(e.Args),
				At:         e.Span(),
				DeclaredAt: v.Span,
			}
		}
		for i, arg := range e.Args {
			argType, err := c.typeOf(arg)
			if err != nil {
				return err
			}
			if !types.Compare(argType, ty.Fields[i]) {
				return &Error{Kind: TypeExpected, Expected: ty.Fields[i], Found: argType, At: arg.Span()}
			}
		}
		for _, arg := range e.Args {
			if err := c.expr(chunk, arg); err != nil {
				return err
			}
		}

	case *types.Struct:
		if !e.Struct {
			return &Error{
				Kind:       InvalidInstanceArgs,
				WantForm:   FormStruct,
				GotForm:    FormRecord,
				At:         e.Span(),
				DeclaredAt: v.Span,
			}
		}
		for _, f := range e.Fields {
			if ty.FieldIndex(f.Name.Name) < 0 {
				return &Error{
					Kind:       PropertyNotExist,
					Name:       f.Name.Name,
					Target:     ty.Name,
					At:         f.Name.Sp,
					DeclaredAt: v.Span,
				}
			}
		}
		if len(e.Fields) != len(ty.Fields) {
			return &Error{
				Kind:       InvalidArgumentsCount,
				Want:       len(ty.Fields),
				Got:        len(e.Fields),
				At:         e.Span(),
				DeclaredAt: v.Span,
			}
		}

		// reorder the provided fields to declaration order before checking
		// types and compiling the values
		sorted := make([]ast.FieldInit, len(e.Fields))
		copy(sorted, e.Fields)
		for i := range sorted {
			for j := i + 1; j < len(sorted); j++ {
				if ty.FieldIndex(sorted[j].Name.Name) < ty.FieldIndex(sorted[i].Name.Name) {
					sorted[i], sorted[j] = sorted[j], sorted[i]
				}
			}
		}

		for i, f := range sorted {
			fieldType, err := c.typeOf(f.Value)
			if err != nil {
				return err
			}
			if !types.Compare(fieldType, ty.Fields[i].Type) {
				return &Error{Kind: TypeExpected, Expected: ty.Fields[i].Type, Found: fieldType, At: f.Value.Span()}
			}
		}
		for _, f := range sorted {
			if err := c.expr(chunk, f.Value); err != nil {
				return err
			}
		}

	default:
		return &Error{
			Kind:  OneOfTypeExpected,
			OneOf: []types.Type{&types.Record{}, &types.Struct{}},
			Found: v.Type,
			At:    e.Target.Sp,
		}
	}

	line := e.Span().Line
	chunk.EmitArg2(line, machine.GetLocal, depth-c.ScopeDepth, slot)
	chunk.Emit(line, machine.CreateInstance)
	return nil
}
