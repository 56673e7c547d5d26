package parser

import (
	"github.com/mna/tapt/lang/ast"
	"github.com/mna/tapt/lang/token"
)

// statements parses statements until the until token is reached (not
// consumed). A trailing expression without a terminating semicolon becomes
// the block's return expression; only one is allowed and it must come last.
func (p *Parser) statements(until token.Token) ([]ast.Stmt, ast.Expr, error) {
	var stmts []ast.Stmt
	var ret ast.Expr

	for !p.check(until) {
		stmt, err := p.statement()
		if err != nil {
			return nil, nil, err
		}
		if ret != nil {
			sp := ret.Span()
			return nil, nil, &Error{Message: "missing ;", Span: &sp}
		}
		if p.tryConsume(token.SEMI) || stmt.SelfTerminating() {
			stmts = append(stmts, stmt)
			continue
		}
		// an expression statement without a semicolon is the trailing return
		// expression
		ret = stmt.(*ast.ExprStmt).X
	}
	return stmts, ret, nil
}

func (p *Parser) statement() (ast.Stmt, error) {
	switch t := p.peek(); t.Kind {
	case token.LET, token.CONST:
		if p.checkAt(1, token.IDENT) {
			return p.varStmt()
		}
	case token.STRUCT:
		if p.checkAt(1, token.IDENT) {
			return p.structStmt()
		}
	case token.RECORD:
		if p.checkAt(1, token.IDENT) {
			return p.recordStmt()
		}
	case token.FUNC:
		if p.checkAt(1, token.IDENT) {
			return p.funcStmt()
		}
	case token.FOR:
		if p.checkAt(1, token.IDENT) && p.checkAt(2, token.IN) {
			return p.forStmt()
		}
	case token.WHILE:
		return p.whileStmt()
	}

	x, err := p.expr(pLowest)
	if err != nil {
		return nil, err
	}
	return &ast.ExprStmt{X: x}, nil
}

func (p *Parser) varStmt() (ast.Stmt, error) {
	decl := p.next() // let or const
	name, err := p.consumeIdent()
	if err != nil {
		return nil, err
	}

	var ty *ast.TypeRef
	if p.tryConsume(token.COLON) {
		tr, err := p.consumeType()
		if err != nil {
			return nil, err
		}
		ty = &tr
	}

	if _, err := p.consume(token.EQ); err != nil {
		return nil, err
	}
	value, err := p.expr(pLowest)
	if err != nil {
		return nil, err
	}
	semi, err := p.consume(token.SEMI)
	if err != nil {
		return nil, err
	}

	return &ast.VarStmt{
		Decl:    decl.Span,
		Mutable: decl.Kind == token.LET,
		Name:    name,
		Type:    ty,
		Value:   value,
		Semi:    semi.Span,
	}, nil
}

func (p *Parser) structStmt() (ast.Stmt, error) {
	start := p.next() // struct
	name, err := p.consumeIdent()
	if err != nil {
		return nil, err
	}

	if _, err := p.consume(token.LBRACE); err != nil {
		return nil, err
	}
	var fields []ast.StructField
	for !p.check(token.RBRACE) {
		if len(fields) > 0 {
			if _, err := p.consume(token.COMMA); err != nil {
				return nil, err
			}
			if p.check(token.RBRACE) {
				break
			}
		}
		fname, err := p.consumeIdent()
		if err != nil {
			return nil, err
		}
		if _, err := p.consume(token.COLON); err != nil {
			return nil, err
		}
		fty, err := p.consumeType()
		if err != nil {
			return nil, err
		}
		fields = append(fields, ast.StructField{Name: fname, Type: fty})
	}
	rbrace, err := p.consume(token.RBRACE)
	if err != nil {
		return nil, err
	}

	return &ast.StructStmt{
		Struct: start.Span,
		Name:   name,
		Fields: fields,
		Rbrace: rbrace.Span,
	}, nil
}

func (p *Parser) recordStmt() (ast.Stmt, error) {
	start := p.next() // record
	name, err := p.consumeIdent()
	if err != nil {
		return nil, err
	}

	if _, err := p.consume(token.LPAREN); err != nil {
		return nil, err
	}
	var fields []ast.TypeRef
	for !p.check(token.RPAREN) {
		if len(fields) > 0 {
			if _, err := p.consume(token.COMMA); err != nil {
				return nil, err
			}
			if p.check(token.RPAREN) {
				break
			}
		}
		fty, err := p.consumeType()
		if err != nil {
			return nil, err
		}
		fields = append(fields, fty)
	}
	if _, err := p.consume(token.RPAREN); err != nil {
		return nil, err
	}
	semi, err := p.consume(token.SEMI)
	if err != nil {
		return nil, err
	}

	return &ast.RecordStmt{
		Record: start.Span,
		Name:   name,
		Fields: fields,
		Semi:   semi.Span,
	}, nil
}

func (p *Parser) funcStmt() (ast.Stmt, error) {
	start := p.next() // func
	name, err := p.consumeIdent()
	if err != nil {
		return nil, err
	}

	if _, err := p.consume(token.LPAREN); err != nil {
		return nil, err
	}
	var params []ast.Param
	for !p.check(token.RPAREN) {
		if len(params) > 0 {
			if _, err := p.consume(token.COMMA); err != nil {
				return nil, err
			}
			if p.check(token.RPAREN) {
				break
			}
		}
		pname, err := p.consumeIdent()
		if err != nil {
			return nil, err
		}
		if _, err := p.consume(token.COLON); err != nil {
			return nil, err
		}
		pty, err := p.consumeType()
		if err != nil {
			return nil, err
		}
		params = append(params, ast.Param{Name: pname, Type: pty})
	}
	if _, err := p.consume(token.RPAREN); err != nil {
		return nil, err
	}

	var out *ast.TypeRef
	if p.tryConsume(token.COLON) {
		tr, err := p.consumeType()
		if err != nil {
			return nil, err
		}
		out = &tr
	}

	body, err := p.block()
	if err != nil {
		return nil, err
	}

	return &ast.FuncStmt{
		Func:   start.Span,
		Name:   name,
		Params: params,
		Out:    out,
		Body:   body,
	}, nil
}

func (p *Parser) forStmt() (ast.Stmt, error) {
	start := p.next() // for
	name, err := p.consumeIdent()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.IN); err != nil {
		return nil, err
	}
	iter, err := p.expr(pLowest)
	if err != nil {
		return nil, err
	}
	body, err := p.block()
	if err != nil {
		return nil, err
	}
	return &ast.ForInStmt{For: start.Span, Name: name, Iter: iter, Body: body}, nil
}

func (p *Parser) whileStmt() (ast.Stmt, error) {
	start := p.next() // while
	cond, err := p.expr(pLowest)
	if err != nil {
		return nil, err
	}
	body, err := p.block()
	if err != nil {
		return nil, err
	}
	return &ast.WhileStmt{While: start.Span, Cond: cond, Body: body}, nil
}
