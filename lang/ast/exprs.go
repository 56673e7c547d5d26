package ast

import (
	"github.com/mna/tapt/lang/token"
)

type (
	// LitExpr represents a literal expression: an int, float, bool, string or
	// interpolated string. The literal value is the embedded token's.
	// Interpolated strings parse but are not supported by the compiler.
	LitExpr struct {
		Tok token.Tok
	}

	// IdentExpr represents a variable reference.
	IdentExpr struct {
		Ident
	}

	// BinaryExpr represents a binary operation, assignment included (the
	// assignment operator = is a binary operator whose left side must be
	// assignable).
	BinaryExpr struct {
		Op     token.Token
		OpSpan token.Span
		Left   Expr
		Right  Expr
	}

	// CallExpr represents a function call.
	CallExpr struct {
		Target Expr
		Lparen token.Span
		Args   []Expr
		Rparen token.Span
	}

	// IndexExpr represents property access on a record or struct value.
	// Exactly one of Name (struct field, .name), Pos (record position, .0) or
	// Sub (bracket form [expr], parsed but unsupported) is set.
	IndexExpr struct {
		Target Expr
		Name   *Ident
		Pos    int
		PosSp  token.Span
		Sub    Expr
		End    token.Span // span of the last token of the index
	}

	// BlockExpr represents a block: statements followed by an optional
	// trailing expression that is the block's value.
	BlockExpr struct {
		Lbrace token.Span
		Stmts  []Stmt
		Ret    Expr // may be nil
		Rbrace token.Span
	}

	// IfElseExpr represents an if-else expression. Else may be nil, a
	// *BlockExpr, or an *IfElseExpr for else-if chains.
	IfElseExpr struct {
		If   token.Span
		Cond Expr
		Then *BlockExpr
		Else Expr
	}

	// MatchExpr represents a match expression.
	MatchExpr struct {
		Match  token.Span
		Target Expr
		Arms   []MatchArm
		Rbrace token.Span
	}

	// MatchArm is a single case => body arm of a match expression. A lone
	// identifier case is a binding that catches every value; Bind is set and
	// Case is nil for such arms, and the reverse for value arms.
	MatchArm struct {
		Bind  *Ident
		Case  Expr
		Arrow token.Span
		Body  Expr
	}

	// NewExpr represents an instance construction. The record form
	// new T(e1, e2) fills Args; the struct form new T{ k: v } fills Fields.
	NewExpr struct {
		New    token.Span
		Target Ident
		Struct bool
		Args   []Expr
		Fields []FieldInit
		End    token.Span
	}

	// FieldInit is a single name: value initializer of a struct construction
	// (and of the reserved object literal).
	FieldInit struct {
		Name  Ident
		Value Expr
	}

	// ParenExpr represents a parenthesized expression.
	ParenExpr struct {
		Lparen token.Span
		X      Expr
		Rparen token.Span
	}

	// ArrayExpr represents an array literal. It parses but is not supported
	// by the compiler.
	ArrayExpr struct {
		Lbrack token.Span
		Elems  []Expr
		Rbrack token.Span
	}

	// ObjectExpr represents an object literal, #{ k: v }. It parses but is
	// not supported by the compiler.
	ObjectExpr struct {
		Pound  token.Span
		Fields []FieldInit
		Rbrace token.Span
	}

	// RangeExpr represents a range literal, lo..hi. It parses but is not
	// supported by the compiler.
	RangeExpr struct {
		Lo, Hi int64
		Sp     token.Span
	}
)

func (e *LitExpr) Span() token.Span    { return e.Tok.Span }
func (e *BinaryExpr) Span() token.Span { return e.Left.Span().Between(e.Right.Span()) }
func (e *CallExpr) Span() token.Span   { return e.Target.Span().Between(e.Rparen) }
func (e *IndexExpr) Span() token.Span  { return e.Target.Span().Between(e.End) }
func (e *BlockExpr) Span() token.Span  { return e.Lbrace.Between(e.Rbrace) }
func (e *IfElseExpr) Span() token.Span {
	if e.Else != nil {
		return e.If.Between(e.Else.Span())
	}
	return e.If.Between(e.Then.Span())
}
func (e *MatchExpr) Span() token.Span  { return e.Match.Between(e.Rbrace) }
func (e *NewExpr) Span() token.Span    { return e.New.Between(e.End) }
func (e *ParenExpr) Span() token.Span  { return e.Lparen.Between(e.Rparen) }
func (e *ArrayExpr) Span() token.Span  { return e.Lbrack.Between(e.Rbrack) }
func (e *ObjectExpr) Span() token.Span { return e.Pound.Between(e.Rbrace) }
func (e *RangeExpr) Span() token.Span  { return e.Sp }

// Span of a match arm covers the case through the body.
func (a MatchArm) Span() token.Span {
	if a.Bind != nil {
		return a.Bind.Sp.Between(a.Body.Span())
	}
	return a.Case.Span().Between(a.Body.Span())
}

// CaseSpan is the span of the arm's case (binding identifier or value).
func (a MatchArm) CaseSpan() token.Span {
	if a.Bind != nil {
		return a.Bind.Sp
	}
	return a.Case.Span()
}

func (*LitExpr) expr()    {}
func (*IdentExpr) expr()  {}
func (*BinaryExpr) expr() {}
func (*CallExpr) expr()   {}
func (*IndexExpr) expr()  {}
func (*BlockExpr) expr()  {}
func (*IfElseExpr) expr() {}
func (*MatchExpr) expr()  {}
func (*NewExpr) expr()    {}
func (*ParenExpr) expr()  {}
func (*ArrayExpr) expr()  {}
func (*ObjectExpr) expr() {}
func (*RangeExpr) expr()  {}
