// Package ast defines the types that represent the abstract syntax tree
// (AST) of the language: statements and expressions, every node carrying the
// source span it covers. Print and PrintProgram render an AST back to
// parseable source.
//
// Arrays, objects and ranges are represented in the AST but are not
// supported by the compiler.
package ast

import (
	"github.com/mna/tapt/lang/token"
	"github.com/mna/tapt/lang/types"
)

// Node represents any node in the AST.
type Node interface {
	// Span reports the source region covered by the node.
	Span() token.Span
}

// Expr represents an expression in the AST.
type Expr interface {
	Node
	expr()
}

// Stmt represents a statement in the AST.
type Stmt interface {
	Node
	stmt()

	// SelfTerminating returns true if the statement does not require a
	// trailing semicolon in a block (declarations and loops).
	SelfTerminating() bool
}

// An Ident is a name with its source span. It is used both as the expression
// node IdentExpr and as the name part of declarations.
type Ident struct {
	Name string
	Sp   token.Span
}

func (id Ident) Span() token.Span { return id.Sp }

// A TypeRef is a source type annotation: the denoted type and the span of
// its spelling. Only the basic types can be spelled in annotations.
type TypeRef struct {
	Type types.Type
	Sp   token.Span
}

func (t TypeRef) Span() token.Span { return t.Sp }
