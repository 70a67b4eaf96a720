package parser

import (
	"strconv"

	"sml/analyzer-go/pkg/ast"
)

// parseDeclarations parses declarations until a token that cannot start one
// (typically `in` or `end`).
func (p *parserState) parseDeclarations(stop TokenKind) []ast.Declaration {
	var decls []ast.Declaration
	for !p.at(stop) && !p.at(tokEOF) {
		if p.accept(tokSemicolon) {
			continue
		}
		if !p.startsDeclaration() {
			break
		}
		decls = append(decls, p.parseDeclaration())
	}
	return decls
}

func (p *parserState) parseDeclaration() ast.Declaration {
	first := p.peek()
	var decl ast.Declaration
	switch first.Kind {
	case tokVal:
		decl = p.parseValDeclaration()
	case tokFun:
		decl = p.parseFunDeclaration()
	case tokType:
		p.next()
		decl = ast.NewTypeDeclaration(p.parseTypeBindings())
	case tokDatatype:
		decl = p.parseDatatypeDeclaration()
	case tokException:
		decl = p.parseExceptionDeclaration()
	case tokLocal:
		p.next()
		locals := p.parseDeclarations(tokIn)
		p.expect(tokIn, "`in`")
		body := p.parseDeclarations(tokEnd)
		p.expect(tokEnd, "`end`")
		decl = ast.NewLocalDeclaration(locals, body)
	case tokOpen:
		p.next()
		var paths []ast.LongIdent
		for p.at(tokIdent) {
			paths = append(paths, ast.ParseLongIdent(p.next().Text))
		}
		if len(paths) == 0 {
			p.failf("expected a structure name after `open`, found %s", p.peek())
		}
		decl = ast.NewOpenDeclaration(paths)
	case tokInfix, tokInfixr, tokNonfix:
		decl = p.parseFixityDeclaration()
	case tokStructure:
		decl = p.parseStructureDeclaration()
	case tokSignature:
		decl = p.parseSignatureDeclaration()
	case tokFunctor:
		decl = p.parseFunctorDeclaration()
	default:
		p.failf("expected a declaration, found %s", first)
	}
	p.finish(decl, first)
	return decl
}

func (p *parserState) parseValDeclaration() ast.Declaration {
	p.expect(tokVal, "`val`")
	tyVars := p.parseTyVarSeq()
	rec := false
	var bindings []ast.ValueBinding
	for {
		if p.accept(tokRec) {
			rec = true
		}
		pat := p.parsePattern()
		p.expect(tokEquals, "`=`")
		value := p.parseExpression()
		bindings = append(bindings, ast.ValueBinding{Pattern: pat, Value: value})
		if !p.accept(tokAnd) {
			break
		}
	}
	return ast.NewValDeclaration(tyVars, rec, bindings)
}

func (p *parserState) parseFunDeclaration() ast.Declaration {
	p.expect(tokFun, "`fun`")
	tyVars := p.parseTyVarSeq()
	var bindings []ast.FunBinding
	for {
		bindings = append(bindings, p.parseFunBinding())
		if !p.accept(tokAnd) {
			break
		}
	}
	return ast.NewFunDeclaration(tyVars, bindings)
}

func (p *parserState) parseFunBinding() ast.FunBinding {
	first := p.peek()
	var binding ast.FunBinding
	for {
		clauseStart := p.peek()
		name, params := p.parseFunClauseHead()
		if binding.Name == "" {
			binding.Name = name
		} else if name != binding.Name {
			p.failf("clauses of `fun %s` must all define %s, found %s", binding.Name, binding.Name, name)
		}
		clause := ast.FunClause{Params: params}
		if p.accept(tokColon) {
			clause.ReturnType = p.parseType()
		}
		p.expect(tokEquals, "`=`")
		clause.Body = p.parseExpression()
		clause.Span = p.spanFrom(clauseStart)
		binding.Clauses = append(binding.Clauses, clause)
		if !p.accept(tokBar) {
			break
		}
	}
	binding.Span = p.spanFrom(first)
	return binding
}

// parseFunClauseHead reads `[op] f atpat ...` or the infix form `atpat f atpat`.
func (p *parserState) parseFunClauseHead() (string, []ast.Pattern) {
	if p.accept(tokOp) {
		name := p.expectName("a function name")
		return name.Text, p.parseFunParams()
	}
	tok := p.peek()
	_, headInfix := p.infixOf(tok)
	if isVid(tok) && !headInfix {
		nextTok := p.peekAt(1)
		if _, infix := p.infixOf(nextTok); !infix || nextTok.Kind == tokEquals {
			name := p.expectName("a function name")
			return name.Text, p.parseFunParams()
		}
	}
	left := p.parseAtomicPattern()
	opTok := p.peek()
	if _, infix := p.infixOf(opTok); !infix || opTok.Kind == tokEquals {
		p.failf("expected a function name, found %s", opTok)
	}
	p.next()
	right := p.parseAtomicPattern()
	return opTok.Text, []ast.Pattern{ast.NewTuplePattern([]ast.Pattern{left, right})}
}

func (p *parserState) parseFunParams() []ast.Pattern {
	var params []ast.Pattern
	for p.startsAtomicPattern() {
		params = append(params, p.parseAtomicPattern())
	}
	if len(params) == 0 {
		p.failf("expected a parameter pattern, found %s", p.peek())
	}
	return params
}

func (p *parserState) parseTypeBindings() []ast.TypeBinding {
	var bindings []ast.TypeBinding
	for {
		tyVars := p.parseTyVarSeq()
		name := p.expect(tokIdent, "a type name").Text
		p.expect(tokEquals, "`=`")
		bindings = append(bindings, ast.TypeBinding{TyVars: tyVars, Name: name, Type: p.parseType()})
		if !p.accept(tokAnd) {
			return bindings
		}
	}
}

func (p *parserState) parseDatatypeDeclaration() ast.Declaration {
	p.expect(tokDatatype, "`datatype`")
	if p.at(tokIdent) && p.peekAt(1).Kind == tokEquals && p.peekAt(2).Kind == tokDatatype {
		name := p.next().Text
		p.next()
		p.next()
		source := p.expect(tokIdent, "a type constructor").Text
		return ast.NewDatatypeCopyDeclaration(name, ast.ParseLongIdent(source))
	}
	bindings := p.parseDatatypeBindings()
	var withType []ast.TypeBinding
	if p.accept(tokWithtype) {
		withType = p.parseTypeBindings()
	}
	return ast.NewDatatypeDeclaration(bindings, withType)
}

func (p *parserState) parseDatatypeBindings() []ast.DatatypeBinding {
	var bindings []ast.DatatypeBinding
	for {
		first := p.peek()
		tyVars := p.parseTyVarSeq()
		name := p.expect(tokIdent, "a type name").Text
		p.expect(tokEquals, "`=`")
		binding := ast.DatatypeBinding{TyVars: tyVars, Name: name}
		p.accept(tokBar)
		for {
			conStart := p.peek()
			p.accept(tokOp)
			con := ast.ConBinding{Name: p.expectName("a constructor name").Text}
			if p.accept(tokOf) {
				con.Argument = p.parseType()
			}
			con.Span = p.spanFrom(conStart)
			binding.Constructors = append(binding.Constructors, con)
			if !p.accept(tokBar) {
				break
			}
		}
		binding.Span = p.spanFrom(first)
		bindings = append(bindings, binding)
		if !p.accept(tokAnd) {
			return bindings
		}
	}
}

func (p *parserState) parseExceptionDeclaration() ast.Declaration {
	p.expect(tokException, "`exception`")
	var bindings []ast.ExceptionBinding
	for {
		first := p.peek()
		p.accept(tokOp)
		binding := ast.ExceptionBinding{Name: p.expectName("an exception name").Text}
		switch {
		case p.accept(tokOf):
			binding.Argument = p.parseType()
		case p.accept(tokEquals):
			p.accept(tokOp)
			tok := p.next()
			if !isVid(tok) {
				p.pos--
				p.failf("expected an exception name, found %s", tok)
			}
			source := ast.ParseLongIdent(tok.Text)
			binding.CopyOf = &source
		}
		binding.Span = p.spanFrom(first)
		bindings = append(bindings, binding)
		if !p.accept(tokAnd) {
			return ast.NewExceptionDeclaration(bindings)
		}
	}
}

// parseFixityDeclaration applies the fixity change immediately so the rest of
// the file parses with it.
func (p *parserState) parseFixityDeclaration() ast.Declaration {
	kindTok := p.next()
	kind := ast.FixityNonfix
	switch kindTok.Kind {
	case tokInfix:
		kind = ast.FixityInfix
	case tokInfixr:
		kind = ast.FixityInfixr
	}
	prec := 0
	if kind != ast.FixityNonfix && p.at(tokInt) {
		value, err := strconv.Atoi(p.peek().Text)
		if err != nil || value < 0 || value > 9 {
			p.failf("fixity precedence must be a digit 0-9, found %s", p.peek())
		}
		p.next()
		prec = value
	}
	var names []string
	for isVid(p.peek()) {
		names = append(names, p.next().Text)
	}
	if len(names) == 0 {
		p.failf("expected an identifier after `%s`, found %s", kindTok.Text, p.peek())
	}
	for _, name := range names {
		if kind == ast.FixityNonfix {
			delete(p.fixity, name)
			continue
		}
		p.fixity[name] = fixity{precedence: prec, right: kind == ast.FixityInfixr}
	}
	return ast.NewFixityDeclaration(kind, prec, names)
}
