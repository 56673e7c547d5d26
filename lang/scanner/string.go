package scanner

import (
	"strings"

	"github.com/mna/tapt/lang/token"
)

// str consumes a string literal whose opening '"' has already been consumed.
// A backslash escapes the next character verbatim (no decoding), and a '{'
// starts an interpolated expression that runs to the next '}' (no nesting)
// and is recursively tokenized. The token is STRING when the literal has no
// interpolation, ISTRING otherwise.
//
// Spans of the tokens inside an interpolated part are relative to the inner
// text of that part, not to the enclosing source.
func (s *Scanner) str(start, line, col int) token.Tok {
	var data strings.Builder
	var parts []token.StringPart

	for {
		b := s.peek()
		if b == 0 || b == '"' {
			break
		}
		switch b {
		case '\\':
			s.advance()
			if r := s.advance(); r >= 0 {
				data.WriteRune(r)
			}
		case '{':
			s.advance()
			parts = append(parts, token.StringPart{Lit: data.String()})
			data.Reset()

			istart := s.off
			for s.peek() != 0 && s.peek() != '{' && s.peek() != '}' {
				s.advance()
			}
			inner := s.src[istart:s.off]
			s.advanceIf('}')

			parts = append(parts, token.StringPart{Lit: inner, Toks: Tokenize(inner)})
		default:
			data.WriteRune(s.advance())
		}
	}
	s.advanceIf('"')

	span := token.MakeSpan(start, s.off, line, col)
	if parts == nil {
		return token.Tok{Kind: token.STRING, Span: span, Lit: data.String()}
	}
	parts = append(parts, token.StringPart{Lit: data.String()})
	return token.Tok{Kind: token.ISTRING, Span: span, Parts: parts}
}
