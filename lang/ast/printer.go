package ast

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mna/tapt/lang/token"
)

// Print renders the node back to parseable source text. The output
// normalizes whitespace and fully parenthesizes nested binary expressions,
// so reparsing it yields an AST that compiles to the same instructions and
// constants as the original, modulo spans.
func Print(n Node) string {
	var p printer
	p.node(n)
	return p.sb.String()
}

// PrintProgram renders a whole program: its statements followed by the
// optional trailing expression.
func PrintProgram(stmts []Stmt, ret Expr) string {
	var p printer
	for _, s := range stmts {
		p.stmt(s)
		p.sb.WriteByte('\n')
	}
	if ret != nil {
		p.node(ret)
		p.sb.WriteByte('\n')
	}
	return p.sb.String()
}

type printer struct {
	sb strings.Builder
}

func (p *printer) printf(format string, args ...any) {
	fmt.Fprintf(&p.sb, format, args...)
}

// stmt prints a statement including its terminating semicolon when the
// statement requires one.
func (p *printer) stmt(s Stmt) {
	p.node(s)
	if !s.SelfTerminating() {
		p.sb.WriteByte(';')
	}
}

func (p *printer) node(n Node) {
	switch n := n.(type) {
	case *VarStmt:
		if n.Mutable {
			p.sb.WriteString("let ")
		} else {
			p.sb.WriteString("const ")
		}
		p.sb.WriteString(n.Name.Name)
		if n.Type != nil {
			p.printf(": %s", n.Type.Type)
		}
		p.sb.WriteString(" = ")
		p.node(n.Value)
		p.sb.WriteByte(';')

	case *StructStmt:
		p.printf("struct %s { ", n.Name.Name)
		for i, f := range n.Fields {
			if i > 0 {
				p.sb.WriteString(", ")
			}
			p.printf("%s: %s", f.Name.Name, f.Type.Type)
		}
		p.sb.WriteString(" }")

	case *RecordStmt:
		p.printf("record %s(", n.Name.Name)
		for i, f := range n.Fields {
			if i > 0 {
				p.sb.WriteString(", ")
			}
			p.sb.WriteString(f.Type.String())
		}
		p.sb.WriteString(");")

	case *FuncStmt:
		p.printf("func %s(", n.Name.Name)
		for i, a := range n.Params {
			if i > 0 {
				p.sb.WriteString(", ")
			}
			p.printf("%s: %s", a.Name.Name, a.Type.Type)
		}
		p.sb.WriteString(")")
		if n.Out != nil {
			p.printf(": %s", n.Out.Type)
		}
		p.sb.WriteByte(' ')
		p.node(n.Body)

	case *ForInStmt:
		p.printf("for %s in ", n.Name.Name)
		p.node(n.Iter)
		p.sb.WriteByte(' ')
		p.node(n.Body)

	case *WhileStmt:
		p.sb.WriteString("while ")
		p.node(n.Cond)
		p.sb.WriteByte(' ')
		p.node(n.Body)

	case *ExprStmt:
		p.node(n.X)

	case *LitExpr:
		p.lit(n.Tok)

	case *IdentExpr:
		p.sb.WriteString(n.Name)

	case *BinaryExpr:
		p.operand(n.Left)
		p.printf(" %s ", n.Op)
		p.operand(n.Right)

	case *CallExpr:
		p.node(n.Target)
		p.sb.WriteByte('(')
		for i, a := range n.Args {
			if i > 0 {
				p.sb.WriteString(", ")
			}
			p.node(a)
		}
		p.sb.WriteByte(')')

	case *IndexExpr:
		p.node(n.Target)
		switch {
		case n.Name != nil:
			p.printf(".%s", n.Name.Name)
		case n.Sub != nil:
			p.sb.WriteByte('[')
			p.node(n.Sub)
			p.sb.WriteByte(']')
		default:
			p.printf(".%d", n.Pos)
		}

	case *BlockExpr:
		p.sb.WriteString("{ ")
		for _, s := range n.Stmts {
			p.stmt(s)
			p.sb.WriteByte(' ')
		}
		if n.Ret != nil {
			p.node(n.Ret)
			p.sb.WriteByte(' ')
		}
		p.sb.WriteByte('}')

	case *IfElseExpr:
		p.sb.WriteString("if ")
		p.node(n.Cond)
		p.sb.WriteByte(' ')
		p.node(n.Then)
		if n.Else != nil {
			p.sb.WriteString(" else ")
			p.node(n.Else)
		}

	case *MatchExpr:
		p.sb.WriteString("match ")
		p.node(n.Target)
		p.sb.WriteString(" { ")
		for i, arm := range n.Arms {
			if i > 0 {
				p.sb.WriteString(", ")
			}
			if arm.Bind != nil {
				p.sb.WriteString(arm.Bind.Name)
			} else {
				p.node(arm.Case)
			}
			p.sb.WriteString(" => ")
			p.node(arm.Body)
		}
		p.sb.WriteString(" }")

	case *NewExpr:
		p.printf("new %s", n.Target.Name)
		if n.Struct {
			p.sb.WriteString("{ ")
			for i, f := range n.Fields {
				if i > 0 {
					p.sb.WriteString(", ")
				}
				p.printf("%s: ", f.Name.Name)
				p.node(f.Value)
			}
			p.sb.WriteString(" }")
		} else {
			p.sb.WriteByte('(')
			for i, a := range n.Args {
				if i > 0 {
					p.sb.WriteString(", ")
				}
				p.node(a)
			}
			p.sb.WriteByte(')')
		}

	case *ParenExpr:
		p.sb.WriteByte('(')
		p.node(n.X)
		p.sb.WriteByte(')')

	case *ArrayExpr:
		p.sb.WriteByte('[')
		for i, e := range n.Elems {
			if i > 0 {
				p.sb.WriteString(", ")
			}
			p.node(e)
		}
		p.sb.WriteByte(']')

	case *ObjectExpr:
		p.sb.WriteString("#{ ")
		for i, f := range n.Fields {
			if i > 0 {
				p.sb.WriteString(", ")
			}
			p.printf("%s: ", f.Name.Name)
			p.node(f.Value)
		}
		p.sb.WriteString(" }")

	case *RangeExpr:
		p.printf("%d..%d", n.Lo, n.Hi)

	default:
		panic(fmt.Sprintf("ast: cannot print %T", n))
	}
}

// operand prints a binary sub-expression, parenthesized when it is itself a
// binary expression so that reparsing preserves grouping.
func (p *printer) operand(e Expr) {
	if _, ok := e.(*BinaryExpr); ok {
		p.sb.WriteByte('(')
		p.node(e)
		p.sb.WriteByte(')')
		return
	}
	p.node(e)
}

func (p *printer) lit(t token.Tok) {
	switch t.Kind {
	case token.INT:
		p.sb.WriteString(strconv.FormatInt(t.Int, 10))
	case token.FLOAT:
		// 'f' format keeps the literal within the lexer's number grammar
		// (no exponent)
		s := strconv.FormatFloat(float64(t.Float), 'f', -1, 32)
		p.sb.WriteString(s)
		if !strings.Contains(s, ".") {
			p.sb.WriteString(".0")
		}
	case token.BOOL:
		p.sb.WriteString(strconv.FormatBool(t.Bool))
	case token.STRING:
		p.quote(t.Lit)
	case token.ISTRING:
		p.sb.WriteByte('"')
		for _, part := range t.Parts {
			if part.Toks == nil {
				p.escape(part.Lit)
				continue
			}
			p.sb.WriteByte('{')
			p.sb.WriteString(part.Lit)
			p.sb.WriteByte('}')
		}
		p.sb.WriteByte('"')
	default:
		panic(fmt.Sprintf("ast: cannot print literal %s", t.Kind))
	}
}

func (p *printer) quote(s string) {
	p.sb.WriteByte('"')
	p.escape(s)
	p.sb.WriteByte('"')
}

func (p *printer) escape(s string) {
	for _, r := range s {
		switch r {
		case '"', '\\', '{':
			p.sb.WriteByte('\\')
		}
		p.sb.WriteRune(r)
	}
}
