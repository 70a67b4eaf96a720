package parser

import (
	"sml/analyzer-go/pkg/ast"
)

func (p *parserState) parsePattern() ast.Pattern {
	first := p.peek()
	pat := p.parseInfixPattern(0)
	for p.at(tokColon) {
		p.next()
		ty := p.parseType()
		typed := ast.NewTypedPattern(pat, ty)
		ast.SetSpan(typed, spanBetween(pat, ty))
		pat = typed
	}
	if p.at(tokAs) {
		name, ty, ok := layeredName(pat)
		if !ok {
			p.failf("the left side of `as` must be a variable")
		}
		p.next()
		inner := p.parsePattern()
		layered := ast.NewAsPattern(name, ty, inner)
		p.finish(layered, first)
		return layered
	}
	return pat
}

func layeredName(pat ast.Pattern) (string, ast.TypeExpression, bool) {
	switch pt := pat.(type) {
	case *ast.VarPattern:
		if pt.Path.IsQualified() {
			return "", nil, false
		}
		return pt.Path.Name, nil, true
	case *ast.TypedPattern:
		if v, ok := pt.Pattern.(*ast.VarPattern); ok && !v.Path.IsQualified() {
			return v.Path.Name, pt.Type, true
		}
	}
	return "", nil, false
}

func (p *parserState) parseInfixPattern(minPrec int) ast.Pattern {
	left := p.parseAppPattern()
	for {
		tok := p.peek()
		if tok.Kind == tokEquals {
			return left
		}
		fx, ok := p.infixOf(tok)
		if !ok || fx.precedence < minPrec {
			return left
		}
		p.next()
		nextMin := fx.precedence + 1
		if fx.right {
			nextMin = fx.precedence
		}
		right := p.parseInfixPattern(nextMin)
		pat := ast.NewInfixPattern(ast.ParseLongIdent(tok.Text), left, right)
		ast.SetSpan(pat, spanBetween(left, right))
		left = pat
	}
}

func (p *parserState) parseAppPattern() ast.Pattern {
	first := p.peek()
	isCon := false
	switch first.Kind {
	case tokOp:
		isCon = true
	case tokIdent, tokSymbolic:
		_, infix := p.infixOf(first)
		isCon = !infix
	}
	if !isCon {
		return p.parseAtomicPattern()
	}
	head := p.parseAtomicPattern()
	if !p.startsAtomicPattern() {
		return head
	}
	v, ok := head.(*ast.VarPattern)
	if !ok {
		return head
	}
	arg := p.parseAtomicPattern()
	pat := ast.NewConPattern(v.Path, arg)
	p.finish(pat, first)
	return pat
}

func (p *parserState) startsAtomicPattern() bool {
	tok := p.peek()
	switch tok.Kind {
	case tokUnderscore, tokInt, tokWord, tokReal, tokString, tokChar,
		tokLParen, tokLBracket, tokLBrace, tokOp:
		return true
	case tokIdent, tokSymbolic:
		_, infix := p.infixOf(tok)
		return !infix
	}
	return false
}

func (p *parserState) parseAtomicPattern() ast.Pattern {
	first := p.peek()
	if kind, ok := sconKind(first.Kind); ok {
		p.next()
		pat := ast.NewSConPattern(kind, first.Text)
		p.finish(pat, first)
		return pat
	}
	switch first.Kind {
	case tokUnderscore:
		p.next()
		pat := ast.NewWildcardPattern()
		p.finish(pat, first)
		return pat
	case tokOp:
		p.next()
		tok := p.next()
		if !isVid(tok) {
			p.pos--
			p.failf("expected an identifier after `op`, found %s", tok)
		}
		pat := ast.NewVarPattern(ast.ParseLongIdent(tok.Text))
		pat.Op = true
		p.finish(pat, first)
		return pat
	case tokIdent, tokSymbolic:
		if _, infix := p.infixOf(first); infix {
			p.failf("infix operator %s used without `op`", first)
		}
		p.next()
		pat := ast.NewVarPattern(ast.ParseLongIdent(first.Text))
		p.finish(pat, first)
		return pat
	case tokLBrace:
		return p.parseRecordPattern()
	case tokLBracket:
		p.next()
		var elements []ast.Pattern
		if !p.at(tokRBracket) {
			elements = append(elements, p.parsePattern())
			for p.accept(tokComma) {
				elements = append(elements, p.parsePattern())
			}
		}
		p.expect(tokRBracket, "`]`")
		pat := ast.NewListPattern(elements)
		p.finish(pat, first)
		return pat
	case tokLParen:
		p.next()
		if p.accept(tokRParen) {
			pat := ast.NewRecordPattern(nil, false)
			p.finish(pat, first)
			return pat
		}
		head := p.parsePattern()
		if !p.at(tokComma) {
			p.expect(tokRParen, "`)`")
			return head
		}
		elements := []ast.Pattern{head}
		for p.accept(tokComma) {
			elements = append(elements, p.parsePattern())
		}
		p.expect(tokRParen, "`)`")
		pat := ast.NewTuplePattern(elements)
		p.finish(pat, first)
		return pat
	}
	p.failf("expected a pattern, found %s", first)
	return nil
}

func (p *parserState) parseRecordPattern() ast.Pattern {
	first := p.expect(tokLBrace, "`{`")
	var fields []ast.PatternField
	flexible := false
	if !p.at(tokRBrace) {
		for {
			if p.accept(tokEllipsis) {
				flexible = true
				break
			}
			fields = append(fields, p.parsePatternRow())
			if !p.accept(tokComma) {
				break
			}
		}
	}
	p.expect(tokRBrace, "`}`")
	pat := ast.NewRecordPattern(fields, flexible)
	p.finish(pat, first)
	return pat
}

// parsePatternRow reads `lab = pat` or the punned `vid [: ty] [as pat]`.
func (p *parserState) parsePatternRow() ast.PatternField {
	labelTok := p.peek()
	label := p.parseLabel()
	if p.accept(tokEquals) {
		return ast.PatternField{Label: label, Pattern: p.parsePattern()}
	}
	var pat ast.Pattern = ast.NewVarPattern(ast.LongIdent{Name: label})
	p.finish(pat, labelTok)
	var ty ast.TypeExpression
	if p.accept(tokColon) {
		ty = p.parseType()
		typed := ast.NewTypedPattern(pat, ty)
		p.finish(typed, labelTok)
		pat = typed
	}
	if p.accept(tokAs) {
		layered := ast.NewAsPattern(label, ty, p.parsePattern())
		p.finish(layered, labelTok)
		pat = layered
	}
	return ast.PatternField{Label: label, Pattern: pat}
}
