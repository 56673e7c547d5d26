// Package parser implements the parser that transforms source code into an
// abstract syntax tree (AST). Statements are recognized by keyword
// lookahead; expressions are parsed with Pratt-style precedence climbing.
package parser

import (
	"fmt"

	"github.com/mna/tapt/lang/ast"
	"github.com/mna/tapt/lang/scanner"
	"github.com/mna/tapt/lang/token"
	"github.com/mna/tapt/lang/types"
)

// Error is a parse error: a message and the span of the offending token,
// when one is known. Parsing stops at the first error.
type Error struct {
	Message string
	Span    *token.Span
}

func (e *Error) Error() string {
	if e.Span != nil {
		return fmt.Sprintf("%s: %s", e.Span, e.Message)
	}
	return e.Message
}

// Parse tokenizes and parses a whole program: a sequence of statements
// optionally followed by a trailing expression, the program's result.
func Parse(src string) ([]ast.Stmt, ast.Expr, error) {
	p := New(scanner.Tokenize(src))
	stmts, ret, err := p.statements(token.EOF)
	if err != nil {
		return nil, nil, err
	}
	return stmts, ret, nil
}

// Parser parses a token stream into an AST.
type Parser struct {
	toks []token.Tok
	pos  int
}

// New creates a Parser over the provided tokens, which must end with an EOF
// token (as returned by scanner.Tokenize).
func New(toks []token.Tok) *Parser {
	return &Parser{toks: toks}
}

// peek returns the current token without consuming it. Past the end it
// keeps returning the final EOF token.
func (p *Parser) peek() token.Tok {
	return p.peekAt(0)
}

func (p *Parser) peekAt(n int) token.Tok {
	if p.pos+n >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[p.pos+n]
}

// next consumes and returns the current token.
func (p *Parser) next() token.Tok {
	t := p.peek()
	if p.pos < len(p.toks) {
		p.pos++
	}
	return t
}

// check reports whether the current token is of the specified kind.
func (p *Parser) check(kind token.Token) bool {
	return p.peek().Kind == kind
}

func (p *Parser) checkAt(n int, kind token.Token) bool {
	return p.peekAt(n).Kind == kind
}

// tryConsume consumes the current token only if it is of the specified kind.
func (p *Parser) tryConsume(kind token.Token) bool {
	if p.check(kind) {
		p.next()
		return true
	}
	return false
}

// consume consumes and returns the current token if it is of the specified
// kind, and fails with an "expected ..." error otherwise.
func (p *Parser) consume(kind token.Token) (token.Tok, error) {
	if p.check(kind) {
		return p.next(), nil
	}
	return token.Tok{}, p.expected(kind.GoString())
}

// consumeIdent consumes an identifier token and returns it as an ast.Ident.
func (p *Parser) consumeIdent() (ast.Ident, error) {
	if !p.check(token.IDENT) {
		return ast.Ident{}, p.expected("identifier")
	}
	t := p.next()
	return ast.Ident{Name: t.Lit, Sp: t.Span}, nil
}

// consumeType consumes a type annotation, which can only spell the basic
// types.
func (p *Parser) consumeType() (ast.TypeRef, error) {
	t := p.peek()
	if t.Kind == token.IDENT {
		if ty := types.Lookup(t.Lit); ty != nil {
			p.next()
			return ast.TypeRef{Type: ty, Sp: t.Span}, nil
		}
	}
	return ast.TypeRef{}, p.expected("type")
}

// expected builds an "expected <what>, found <current>" error at the
// current token.
func (p *Parser) expected(what string) error {
	t := p.peek()
	sp := t.Span
	return &Error{
		Message: fmt.Sprintf("expected %s, found %s", what, t),
		Span:    &sp,
	}
}

// unexpected builds an "unexpected <current>" error at the current token.
func (p *Parser) unexpected() error {
	t := p.peek()
	sp := t.Span
	return &Error{
		Message: fmt.Sprintf("unexpected %s", t),
		Span:    &sp,
	}
}
