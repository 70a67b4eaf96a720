package parser

import (
	"fmt"

	"sml/analyzer-go/pkg/ast"
)

func (p *parserState) peek() Token {
	return p.tokens[p.pos]
}

func (p *parserState) peekAt(offset int) Token {
	if p.pos+offset >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[p.pos+offset]
}

func (p *parserState) at(kind TokenKind) bool {
	return p.peek().Kind == kind
}

func (p *parserState) next() Token {
	tok := p.tokens[p.pos]
	if tok.Kind != tokEOF {
		p.pos++
	}
	return tok
}

func (p *parserState) previous() Token {
	if p.pos == 0 {
		return p.tokens[0]
	}
	return p.tokens[p.pos-1]
}

func (p *parserState) accept(kind TokenKind) bool {
	if p.at(kind) {
		p.next()
		return true
	}
	return false
}

func (p *parserState) expect(kind TokenKind, what string) Token {
	if !p.at(kind) {
		p.failf("expected %s, found %s", what, p.peek())
	}
	return p.next()
}

// failf records a syntax error at the current token and unwinds to the
// enclosing recovery point.
func (p *parserState) failf(format string, args ...any) {
	tok := p.peek()
	p.errors = append(p.errors, &ParseError{
		Message: fmt.Sprintf(format, args...),
		Span:    ast.Span{Start: tok.Start, End: tok.End},
	})
	panic(bailout{})
}

// finish sets the span of node from the first token to the last consumed one.
func (p *parserState) finish(node ast.Node, first Token) {
	ast.SetSpan(node, p.spanFrom(first))
}

func (p *parserState) spanFrom(first Token) ast.Span {
	end := p.previous().End
	if p.pos == 0 || end.Offset < first.Start.Offset {
		end = first.End
	}
	return ast.Span{Start: first.Start, End: end}
}

func spanBetween(start, end ast.Node) ast.Span {
	return ast.Span{Start: start.Span().Start, End: end.Span().End}
}

// isVid reports whether tok can name a value (alphanumeric, symbolic or `=`).
func isVid(tok Token) bool {
	return tok.Kind == tokIdent || tok.Kind == tokSymbolic || tok.Kind == tokEquals
}

func (p *parserState) infixOf(tok Token) (fixity, bool) {
	if tok.Kind != tokIdent && tok.Kind != tokSymbolic && tok.Kind != tokEquals {
		return fixity{}, false
	}
	f, ok := p.fixity[tok.Text]
	return f, ok
}

// expectName reads an unqualified identifier.
func (p *parserState) expectName(what string) Token {
	tok := p.peek()
	if !isVid(tok) {
		p.failf("expected %s, found %s", what, tok)
	}
	if ast.ParseLongIdent(tok.Text).IsQualified() {
		p.failf("%s must not be qualified: %s", what, tok)
	}
	return p.next()
}

// parseTyVarSeq reads an optional type variable sequence: 'a or ('a, 'b).
func (p *parserState) parseTyVarSeq() []string {
	if p.at(tokTyVar) {
		return []string{p.next().Text}
	}
	if p.at(tokLParen) && p.peekAt(1).Kind == tokTyVar {
		p.next()
		vars := []string{p.expect(tokTyVar, "a type variable").Text}
		for p.accept(tokComma) {
			vars = append(vars, p.expect(tokTyVar, "a type variable").Text)
		}
		p.expect(tokRParen, "`)`")
		return vars
	}
	return nil
}

func (p *parserState) startsDeclaration() bool {
	switch p.peek().Kind {
	case tokVal, tokFun, tokType, tokDatatype, tokException, tokLocal, tokOpen,
		tokInfix, tokInfixr, tokNonfix, tokStructure, tokSignature, tokFunctor:
		return true
	}
	return false
}

func (p *parserState) startsExpression() bool {
	switch p.peek().Kind {
	case tokIdent, tokSymbolic, tokEquals, tokInt, tokWord, tokReal, tokString, tokChar,
		tokLParen, tokLBracket, tokLBrace, tokHash, tokLet, tokOp,
		tokFn, tokCase, tokIf, tokWhile, tokRaise:
		return true
	}
	return false
}
