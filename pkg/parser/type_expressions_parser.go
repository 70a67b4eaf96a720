package parser

import (
	"sml/analyzer-go/pkg/ast"
)

// parseType parses `ty -> ty`, right associative.
func (p *parserState) parseType() ast.TypeExpression {
	param := p.parseTupleType()
	if !p.at(tokArrow) {
		return param
	}
	p.next()
	result := p.parseType()
	fn := ast.NewFnType(param, result)
	ast.SetSpan(fn, spanBetween(param, result))
	return fn
}

func isStar(tok Token) bool {
	return tok.Kind == tokSymbolic && tok.Text == "*"
}

func (p *parserState) parseTupleType() ast.TypeExpression {
	first := p.peek()
	elements := []ast.TypeExpression{p.parseAppType()}
	for isStar(p.peek()) {
		p.next()
		elements = append(elements, p.parseAppType())
	}
	if len(elements) == 1 {
		return elements[0]
	}
	tuple := ast.NewTupleType(elements)
	p.finish(tuple, first)
	return tuple
}

// parseAppType parses an atomic type followed by postfix constructor
// applications such as `int list option`.
func (p *parserState) parseAppType() ast.TypeExpression {
	first := p.peek()
	var args []ast.TypeExpression
	var ty ast.TypeExpression
	switch first.Kind {
	case tokTyVar:
		p.next()
		tv := ast.NewTyVarType(first.Text)
		p.finish(tv, first)
		ty = tv
	case tokLBrace:
		ty = p.parseRecordType()
	case tokLParen:
		p.next()
		inner := p.parseType()
		if p.at(tokComma) {
			args = []ast.TypeExpression{inner}
			for p.accept(tokComma) {
				args = append(args, p.parseType())
			}
			p.expect(tokRParen, "`)`")
			if !p.startsTypeConstructor() {
				p.failf("expected a type constructor after a type argument sequence, found %s", p.peek())
			}
		} else {
			p.expect(tokRParen, "`)`")
			ty = inner
		}
	case tokIdent:
		ty = p.parseTypeConstructor(nil, first)
	default:
		p.failf("expected a type, found %s", first)
	}
	if args != nil {
		ty = p.parseTypeConstructor(args, first)
	}
	for p.startsTypeConstructor() {
		ty = p.parseTypeConstructor([]ast.TypeExpression{ty}, first)
	}
	return ty
}

func (p *parserState) startsTypeConstructor() bool {
	return p.at(tokIdent)
}

func (p *parserState) parseTypeConstructor(args []ast.TypeExpression, first Token) ast.TypeExpression {
	tok := p.expect(tokIdent, "a type constructor")
	con := ast.NewConType(args, ast.ParseLongIdent(tok.Text))
	p.finish(con, first)
	return con
}

func (p *parserState) parseRecordType() ast.TypeExpression {
	first := p.expect(tokLBrace, "`{`")
	var fields []ast.TypeField
	if !p.at(tokRBrace) {
		for {
			label := p.parseLabel()
			p.expect(tokColon, "`:`")
			fields = append(fields, ast.TypeField{Label: label, Type: p.parseType()})
			if !p.accept(tokComma) {
				break
			}
		}
	}
	p.expect(tokRBrace, "`}`")
	rec := ast.NewRecordType(fields)
	p.finish(rec, first)
	return rec
}
