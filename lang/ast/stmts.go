package ast

import (
	"github.com/mna/tapt/lang/token"
)

type (
	// VarStmt represents a variable declaration statement, e.g. let x = 1; or
	// const y: int = 2;.
	VarStmt struct {
		Decl    token.Span // span of the let or const keyword
		Mutable bool       // true for let
		Name    Ident
		Type    *TypeRef // optional annotation, may be nil
		Value   Expr
		Semi    token.Span
	}

	// StructStmt represents a struct declaration statement, introducing a
	// named type with named, ordered fields.
	StructStmt struct {
		Struct token.Span
		Name   Ident
		Fields []StructField
		Rbrace token.Span
	}

	// StructField is a single name: type field of a struct declaration.
	StructField struct {
		Name Ident
		Type TypeRef
	}

	// RecordStmt represents a record declaration statement, introducing a
	// named type with positional fields.
	RecordStmt struct {
		Record token.Span
		Name   Ident
		Fields []TypeRef
		Semi   token.Span
	}

	// FuncStmt represents a function declaration statement.
	FuncStmt struct {
		Func   token.Span
		Name   Ident
		Params []Param
		Out    *TypeRef // optional output type, may be nil
		Body   *BlockExpr
	}

	// Param is a single name: type parameter of a function declaration.
	Param struct {
		Name Ident
		Type TypeRef
	}

	// ForInStmt represents a for-in loop statement. It parses but is not
	// supported by the compiler, as no iterable type exists.
	ForInStmt struct {
		For  token.Span
		Name Ident
		Iter Expr
		Body *BlockExpr
	}

	// WhileStmt represents a while loop statement.
	WhileStmt struct {
		While token.Span
		Cond  Expr
		Body  *BlockExpr
	}

	// ExprStmt represents an expression used as a statement.
	ExprStmt struct {
		X Expr
	}
)

func (s *VarStmt) Span() token.Span    { return s.Decl.Between(s.Semi) }
func (s *StructStmt) Span() token.Span { return s.Struct.Between(s.Rbrace) }
func (s *RecordStmt) Span() token.Span { return s.Record.Between(s.Semi) }
func (s *FuncStmt) Span() token.Span   { return s.Func.Between(s.Body.Span()) }
func (s *ForInStmt) Span() token.Span  { return s.For.Between(s.Body.Span()) }
func (s *WhileStmt) Span() token.Span  { return s.While.Between(s.Body.Span()) }
func (s *ExprStmt) Span() token.Span   { return s.X.Span() }

func (*VarStmt) stmt()    {}
func (*StructStmt) stmt() {}
func (*RecordStmt) stmt() {}
func (*FuncStmt) stmt()   {}
func (*ForInStmt) stmt()  {}
func (*WhileStmt) stmt()  {}
func (*ExprStmt) stmt()   {}

func (*VarStmt) SelfTerminating() bool    { return true }
func (*StructStmt) SelfTerminating() bool { return true }
func (*RecordStmt) SelfTerminating() bool { return true }
func (*FuncStmt) SelfTerminating() bool   { return true }
func (*ForInStmt) SelfTerminating() bool  { return true }
func (*WhileStmt) SelfTerminating() bool  { return true }
func (*ExprStmt) SelfTerminating() bool   { return false }
