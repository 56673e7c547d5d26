package parser

import (
	"github.com/mna/tapt/lang/ast"
	"github.com/mna/tapt/lang/token"
)

// Operator precedence levels, lowest binding first. Logical operators bind
// below equality so that x == 1 && y == 2 groups conventionally.
type precedence int8

const (
	pLowest precedence = iota
	pOr                // ||
	pAnd               // &&
	pEquals            // = == !=
	pLessGreater       // < >
	pSum               // + -
	pProduct           // * /
	pCall              // f(...)
	pIndex             // x.y x[y]
)

func tokPrecedence(tok token.Token) precedence {
	switch tok {
	case token.OROR:
		return pOr
	case token.ANDAND:
		return pAnd
	case token.EQ, token.EQEQ, token.NEQ:
		return pEquals
	case token.LT, token.GT:
		return pLessGreater
	case token.PLUS, token.MINUS:
		return pSum
	case token.STAR, token.SLASH:
		return pProduct
	case token.LPAREN:
		return pCall
	case token.LBRACK, token.DOT:
		return pIndex
	}
	return pLowest
}

// expr parses an expression, greedily consuming operators that bind more
// tightly than min. All operators are left associative, except that the
// right side of an assignment parses at the lowest level.
func (p *Parser) expr(min precedence) (ast.Expr, error) {
	left, err := p.primary()
	if err != nil {
		return nil, err
	}

	for {
		t := p.peek()
		prec := tokPrecedence(t.Kind)
		if prec <= min {
			return left, nil
		}

		switch t.Kind {
		case token.LPAREN:
			left, err = p.call(left)
		case token.LBRACK, token.DOT:
			left, err = p.index(left)
		default:
			p.next()
			rmin := prec
			if t.Kind == token.EQ {
				rmin = pLowest
			}
			var right ast.Expr
			right, err = p.expr(rmin)
			if err == nil {
				left = &ast.BinaryExpr{Op: t.Kind, OpSpan: t.Span, Left: left, Right: right}
			}
		}
		if err != nil {
			return nil, err
		}
	}
}

func (p *Parser) primary() (ast.Expr, error) {
	switch t := p.peek(); t.Kind {
	case token.INT:
		// lo..hi is a range literal
		if p.checkAt(1, token.DOT) && p.checkAt(2, token.DOT) && p.checkAt(3, token.INT) &&
			t.Int >= 0 && p.peekAt(3).Int >= 0 {
			lo := p.next()
			p.next()
			p.next()
			hi := p.next()
			return &ast.RangeExpr{Lo: lo.Int, Hi: hi.Int, Sp: lo.Span.Between(hi.Span)}, nil
		}
		return &ast.LitExpr{Tok: p.next()}, nil

	case token.FLOAT, token.BOOL, token.STRING:
		return &ast.LitExpr{Tok: p.next()}, nil

	case token.IDENT:
		id := p.next()
		return &ast.IdentExpr{Ident: ast.Ident{Name: id.Lit, Sp: id.Span}}, nil

	case token.NEW:
		return p.newExpr()

	case token.MATCH:
		return p.matchExpr()

	case token.IF:
		return p.ifElseExpr()

	case token.LBRACE:
		return p.block()

	case token.LPAREN:
		lparen := p.next()
		x, err := p.expr(pLowest)
		if err != nil {
			return nil, err
		}
		rparen, err := p.consume(token.RPAREN)
		if err != nil {
			return nil, err
		}
		return &ast.ParenExpr{Lparen: lparen.Span, X: x, Rparen: rparen.Span}, nil

	case token.LBRACK:
		return p.arrayExpr()

	case token.POUND:
		if p.checkAt(1, token.LBRACE) {
			return p.objectExpr()
		}
	}
	return nil, p.unexpected()
}

// block parses { statements* trailingExpr? }.
func (p *Parser) block() (*ast.BlockExpr, error) {
	lbrace, err := p.consume(token.LBRACE)
	if err != nil {
		return nil, err
	}
	stmts, ret, err := p.statements(token.RBRACE)
	if err != nil {
		return nil, err
	}
	rbrace, err := p.consume(token.RBRACE)
	if err != nil {
		return nil, err
	}
	return &ast.BlockExpr{Lbrace: lbrace.Span, Stmts: stmts, Ret: ret, Rbrace: rbrace.Span}, nil
}

func (p *Parser) ifElseExpr() (ast.Expr, error) {
	start := p.next() // if
	cond, err := p.expr(pLowest)
	if err != nil {
		return nil, err
	}
	then, err := p.block()
	if err != nil {
		return nil, err
	}

	var els ast.Expr
	if p.tryConsume(token.ELSE) {
		if p.check(token.IF) {
			els, err = p.ifElseExpr()
		} else {
			els, err = p.block()
		}
		if err != nil {
			return nil, err
		}
	}
	return &ast.IfElseExpr{If: start.Span, Cond: cond, Then: then, Else: els}, nil
}

func (p *Parser) matchExpr() (ast.Expr, error) {
	start := p.next() // match
	target, err := p.expr(pLowest)
	if err != nil {
		return nil, err
	}

	if _, err := p.consume(token.LBRACE); err != nil {
		return nil, err
	}
	var arms []ast.MatchArm
	for !p.check(token.RBRACE) {
		if len(arms) > 0 {
			if _, err := p.consume(token.COMMA); err != nil {
				return nil, err
			}
			if p.check(token.RBRACE) {
				break
			}
		}
		arm, err := p.matchArm()
		if err != nil {
			return nil, err
		}
		arms = append(arms, arm)
	}
	rbrace, err := p.consume(token.RBRACE)
	if err != nil {
		return nil, err
	}

	return &ast.MatchExpr{Match: start.Span, Target: target, Arms: arms, Rbrace: rbrace.Span}, nil
}

func (p *Parser) matchArm() (ast.MatchArm, error) {
	var arm ast.MatchArm

	// a lone identifier case is a binding that catches every value
	if p.check(token.IDENT) && p.checkAt(1, token.FATARROW) {
		id := p.next()
		arm.Bind = &ast.Ident{Name: id.Lit, Sp: id.Span}
	} else {
		c, err := p.expr(pLowest)
		if err != nil {
			return arm, err
		}
		arm.Case = c
	}

	arrow, err := p.consume(token.FATARROW)
	if err != nil {
		return arm, err
	}
	arm.Arrow = arrow.Span

	body, err := p.expr(pLowest)
	if err != nil {
		return arm, err
	}
	arm.Body = body
	return arm, nil
}

func (p *Parser) newExpr() (ast.Expr, error) {
	start := p.next() // new
	target, err := p.consumeIdent()
	if err != nil {
		return nil, err
	}

	n := &ast.NewExpr{New: start.Span, Target: target}
	switch {
	case p.check(token.LBRACE):
		p.next()
		n.Struct = true
		for !p.check(token.RBRACE) {
			if len(n.Fields) > 0 {
				if _, err := p.consume(token.COMMA); err != nil {
					return nil, err
				}
				if p.check(token.RBRACE) {
					break
				}
			}
			fi, err := p.fieldInit()
			if err != nil {
				return nil, err
			}
			n.Fields = append(n.Fields, fi)
		}
		rbrace, err := p.consume(token.RBRACE)
		if err != nil {
			return nil, err
		}
		n.End = rbrace.Span

	case p.check(token.LPAREN):
		p.next()
		for !p.check(token.RPAREN) {
			if len(n.Args) > 0 {
				if _, err := p.consume(token.COMMA); err != nil {
					return nil, err
				}
				if p.check(token.RPAREN) {
					break
				}
			}
			arg, err := p.expr(pLowest)
			if err != nil {
				return nil, err
			}
			n.Args = append(n.Args, arg)
		}
		rparen, err := p.consume(token.RPAREN)
		if err != nil {
			return nil, err
		}
		n.End = rparen.Span

	default:
		return nil, p.expected("'(' or '{'")
	}
	return n, nil
}

func (p *Parser) fieldInit() (ast.FieldInit, error) {
	name, err := p.consumeIdent()
	if err != nil {
		return ast.FieldInit{}, err
	}
	if _, err := p.consume(token.COLON); err != nil {
		return ast.FieldInit{}, err
	}
	value, err := p.expr(pLowest)
	if err != nil {
		return ast.FieldInit{}, err
	}
	return ast.FieldInit{Name: name, Value: value}, nil
}

// call parses the argument list of a function call, target already parsed.
func (p *Parser) call(target ast.Expr) (ast.Expr, error) {
	lparen := p.next()
	c := &ast.CallExpr{Target: target, Lparen: lparen.Span}
	for !p.check(token.RPAREN) {
		if len(c.Args) > 0 {
			if _, err := p.consume(token.COMMA); err != nil {
				return nil, err
			}
			if p.check(token.RPAREN) {
				break
			}
		}
		arg, err := p.expr(pLowest)
		if err != nil {
			return nil, err
		}
		c.Args = append(c.Args, arg)
	}
	rparen, err := p.consume(token.RPAREN)
	if err != nil {
		return nil, err
	}
	c.Rparen = rparen.Span
	return c, nil
}

// index parses a property access, .name or .0 or [expr], target already
// parsed.
func (p *Parser) index(target ast.Expr) (ast.Expr, error) {
	if p.check(token.LBRACK) {
		p.next()
		sub, err := p.expr(pLowest)
		if err != nil {
			return nil, err
		}
		rbrack, err := p.consume(token.RBRACK)
		if err != nil {
			return nil, err
		}
		return &ast.IndexExpr{Target: target, Sub: sub, End: rbrack.Span}, nil
	}

	if _, err := p.consume(token.DOT); err != nil {
		return nil, err
	}
	switch t := p.peek(); {
	case t.Kind == token.IDENT:
		p.next()
		return &ast.IndexExpr{
			Target: target,
			Name:   &ast.Ident{Name: t.Lit, Sp: t.Span},
			End:    t.Span,
		}, nil
	case t.Kind == token.INT && t.Int >= 0:
		p.next()
		return &ast.IndexExpr{
			Target: target,
			Pos:    int(t.Int),
			PosSp:  t.Span,
			End:    t.Span,
		}, nil
	}
	return nil, p.expected("identifier or int literal")
}
