package parser

import (
	"sml/analyzer-go/pkg/ast"
)

// parseExpression parses a full expression. `fn`, `case`, `if`, `while` and
// `raise` extend as far to the right as possible; `handle` binds loosest.
func (p *parserState) parseExpression() ast.Expression {
	first := p.peek()
	var expr ast.Expression
	switch first.Kind {
	case tokFn, tokCase, tokIf, tokWhile, tokRaise:
		expr = p.parseOpenExpression()
	default:
		expr = p.parseOrelse()
	}
	for p.at(tokHandle) {
		p.next()
		rules := p.parseMatch()
		handle := ast.NewHandleExpression(expr, rules)
		p.finish(handle, first)
		expr = handle
	}
	return expr
}

func (p *parserState) parseOpenExpression() ast.Expression {
	first := p.next()
	switch first.Kind {
	case tokFn:
		fn := ast.NewFnExpression(p.parseMatch())
		p.finish(fn, first)
		return fn
	case tokCase:
		subject := p.parseExpression()
		p.expect(tokOf, "`of`")
		expr := ast.NewCaseExpression(subject, p.parseMatch())
		p.finish(expr, first)
		return expr
	case tokIf:
		cond := p.parseExpression()
		p.expect(tokThen, "`then`")
		then := p.parseExpression()
		p.expect(tokElse, "`else`")
		els := p.parseExpression()
		expr := ast.NewIfExpression(cond, then, els)
		p.finish(expr, first)
		return expr
	case tokWhile:
		cond := p.parseExpression()
		p.expect(tokDo, "`do`")
		body := p.parseExpression()
		expr := ast.NewWhileExpression(cond, body)
		p.finish(expr, first)
		return expr
	case tokRaise:
		expr := ast.NewRaiseExpression(p.parseExpression())
		p.finish(expr, first)
		return expr
	}
	p.pos--
	p.failf("expected an expression, found %s", first)
	return nil
}

// parseOperand parses the right operand of a binary form, allowing the
// right-extending expressions.
func (p *parserState) parseOperand(inner func() ast.Expression) ast.Expression {
	switch p.peek().Kind {
	case tokFn, tokCase, tokIf, tokWhile, tokRaise:
		return p.parseOpenExpression()
	}
	return inner()
}

func (p *parserState) parseOrelse() ast.Expression {
	left := p.parseAndalso()
	for p.at(tokOrelse) {
		p.next()
		right := p.parseOperand(p.parseAndalso)
		expr := ast.NewBoolExpression(ast.BoolOrelse, left, right)
		ast.SetSpan(expr, spanBetween(left, right))
		left = expr
	}
	return left
}

func (p *parserState) parseAndalso() ast.Expression {
	left := p.parseTyped()
	for p.at(tokAndalso) {
		p.next()
		right := p.parseOperand(p.parseTyped)
		expr := ast.NewBoolExpression(ast.BoolAndalso, left, right)
		ast.SetSpan(expr, spanBetween(left, right))
		left = expr
	}
	return left
}

func (p *parserState) parseTyped() ast.Expression {
	expr := p.parseInfix(0)
	for p.at(tokColon) {
		p.next()
		ty := p.parseType()
		typed := ast.NewTypedExpression(expr, ty)
		ast.SetSpan(typed, spanBetween(expr, ty))
		expr = typed
	}
	return expr
}

// parseInfix resolves infix operators by precedence climbing over the
// current fixity table.
func (p *parserState) parseInfix(minPrec int) ast.Expression {
	left := p.parseApplication()
	for {
		tok := p.peek()
		fx, ok := p.infixOf(tok)
		if !ok || fx.precedence < minPrec {
			return left
		}
		p.next()
		op := ast.NewPathExpression(ast.ParseLongIdent(tok.Text))
		ast.SetSpan(op, ast.Span{Start: tok.Start, End: tok.End})
		nextMin := fx.precedence + 1
		if fx.right {
			nextMin = fx.precedence
		}
		right := p.parseOperand(func() ast.Expression { return p.parseInfix(nextMin) })
		expr := ast.NewInfixExpression(op, left, right)
		ast.SetSpan(expr, spanBetween(left, right))
		left = expr
	}
}

func (p *parserState) parseApplication() ast.Expression {
	fn := p.parseAtomicExpression()
	for p.startsAtomicExpression() {
		arg := p.parseAtomicExpression()
		app := ast.NewAppExpression(fn, arg)
		ast.SetSpan(app, spanBetween(fn, arg))
		fn = app
	}
	return fn
}

func (p *parserState) startsAtomicExpression() bool {
	tok := p.peek()
	switch tok.Kind {
	case tokInt, tokWord, tokReal, tokString, tokChar, tokLParen, tokLBracket, tokLBrace,
		tokHash, tokLet, tokOp:
		return true
	case tokIdent, tokSymbolic:
		_, infix := p.infixOf(tok)
		return !infix
	}
	return false
}

func sconKind(kind TokenKind) (ast.SConKind, bool) {
	switch kind {
	case tokInt:
		return ast.SConInt, true
	case tokWord:
		return ast.SConWord, true
	case tokReal:
		return ast.SConReal, true
	case tokString:
		return ast.SConString, true
	case tokChar:
		return ast.SConChar, true
	}
	return "", false
}

func (p *parserState) parseAtomicExpression() ast.Expression {
	first := p.peek()
	if kind, ok := sconKind(first.Kind); ok {
		p.next()
		expr := ast.NewSConExpression(kind, first.Text)
		p.finish(expr, first)
		return expr
	}
	switch first.Kind {
	case tokOp:
		p.next()
		tok := p.next()
		if !isVid(tok) {
			p.pos--
			p.failf("expected an identifier after `op`, found %s", tok)
		}
		expr := ast.NewPathExpression(ast.ParseLongIdent(tok.Text))
		expr.Op = true
		p.finish(expr, first)
		return expr
	case tokIdent, tokSymbolic, tokEquals:
		if _, infix := p.infixOf(first); infix {
			p.failf("infix operator %s used without `op`", first)
		}
		p.next()
		expr := ast.NewPathExpression(ast.ParseLongIdent(first.Text))
		p.finish(expr, first)
		return expr
	case tokHash:
		p.next()
		label := p.parseLabel()
		expr := ast.NewSelectorExpression(label)
		p.finish(expr, first)
		return expr
	case tokLBrace:
		return p.parseRecordExpression()
	case tokLBracket:
		p.next()
		var elements []ast.Expression
		if !p.at(tokRBracket) {
			elements = append(elements, p.parseExpression())
			for p.accept(tokComma) {
				elements = append(elements, p.parseExpression())
			}
		}
		p.expect(tokRBracket, "`]`")
		expr := ast.NewListExpression(elements)
		p.finish(expr, first)
		return expr
	case tokLParen:
		return p.parseParenExpression()
	case tokLet:
		p.next()
		decls := p.parseDeclarations(tokIn)
		p.expect(tokIn, "`in`")
		body := p.parseExpressionSequence()
		p.expect(tokEnd, "`end`")
		expr := ast.NewLetExpression(decls, body)
		p.finish(expr, first)
		return expr
	}
	p.failf("expected an expression, found %s", first)
	return nil
}

func (p *parserState) parseExpressionSequence() []ast.Expression {
	exprs := []ast.Expression{p.parseExpression()}
	for p.accept(tokSemicolon) {
		exprs = append(exprs, p.parseExpression())
	}
	return exprs
}

func (p *parserState) parseParenExpression() ast.Expression {
	first := p.expect(tokLParen, "`(`")
	if p.accept(tokRParen) {
		expr := ast.NewRecordExpression(nil)
		p.finish(expr, first)
		return expr
	}
	head := p.parseExpression()
	switch {
	case p.at(tokComma):
		elements := []ast.Expression{head}
		for p.accept(tokComma) {
			elements = append(elements, p.parseExpression())
		}
		p.expect(tokRParen, "`)`")
		expr := ast.NewTupleExpression(elements)
		p.finish(expr, first)
		return expr
	case p.at(tokSemicolon):
		exprs := []ast.Expression{head}
		for p.accept(tokSemicolon) {
			exprs = append(exprs, p.parseExpression())
		}
		p.expect(tokRParen, "`)`")
		expr := ast.NewSequenceExpression(exprs)
		p.finish(expr, first)
		return expr
	}
	p.expect(tokRParen, "`)`")
	return head
}

func (p *parserState) parseRecordExpression() ast.Expression {
	first := p.expect(tokLBrace, "`{`")
	var fields []ast.ExpressionField
	if !p.at(tokRBrace) {
		for {
			label := p.parseLabel()
			p.expect(tokEquals, "`=`")
			fields = append(fields, ast.ExpressionField{Label: label, Value: p.parseExpression()})
			if !p.accept(tokComma) {
				break
			}
		}
	}
	p.expect(tokRBrace, "`}`")
	expr := ast.NewRecordExpression(fields)
	p.finish(expr, first)
	return expr
}

// parseLabel reads a record label: an identifier or a positive numeral.
func (p *parserState) parseLabel() string {
	tok := p.peek()
	switch tok.Kind {
	case tokIdent:
		if ast.ParseLongIdent(tok.Text).IsQualified() {
			p.failf("record label must not be qualified: %s", tok)
		}
		p.next()
		return tok.Text
	case tokSymbolic:
		p.next()
		return tok.Text
	case tokInt:
		if tok.Text == "0" || tok.Text[0] == '0' || tok.Text[0] == '~' {
			p.failf("numeric record labels start at 1, found %s", tok)
		}
		p.next()
		return tok.Text
	}
	p.failf("expected a record label, found %s", tok)
	return ""
}

// parseMatch parses `pat => exp | pat => exp ...`.
func (p *parserState) parseMatch() []*ast.MatchRule {
	p.accept(tokBar)
	var rules []*ast.MatchRule
	for {
		first := p.peek()
		pat := p.parsePattern()
		p.expect(tokDArrow, "`=>`")
		body := p.parseExpression()
		rule := ast.NewMatchRule(pat, body)
		p.finish(rule, first)
		rules = append(rules, rule)
		if !p.accept(tokBar) {
			return rules
		}
	}
}
