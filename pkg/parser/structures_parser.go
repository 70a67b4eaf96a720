package parser

import (
	"sml/analyzer-go/pkg/ast"
)

func (p *parserState) parseAscription() *ast.Ascription {
	switch {
	case p.accept(tokColon):
		return &ast.Ascription{Signature: p.parseSigExpression()}
	case p.accept(tokSeal):
		return &ast.Ascription{Opaque: true, Signature: p.parseSigExpression()}
	}
	return nil
}

func (p *parserState) parseStructureDeclaration() ast.Declaration {
	p.expect(tokStructure, "`structure`")
	var bindings []ast.StructureBinding
	for {
		first := p.peek()
		name := p.expect(tokIdent, "a structure name").Text
		asc := p.parseAscription()
		p.expect(tokEquals, "`=`")
		body := p.parseStrExpression()
		bindings = append(bindings, ast.StructureBinding{Name: name, Ascription: asc, Body: body, Span: p.spanFrom(first)})
		if !p.accept(tokAnd) {
			return ast.NewStructureDeclaration(bindings)
		}
	}
}

func (p *parserState) parseSignatureDeclaration() ast.Declaration {
	p.expect(tokSignature, "`signature`")
	var bindings []ast.SignatureBinding
	for {
		first := p.peek()
		name := p.expect(tokIdent, "a signature name").Text
		p.expect(tokEquals, "`=`")
		sig := p.parseSigExpression()
		bindings = append(bindings, ast.SignatureBinding{Name: name, Signature: sig, Span: p.spanFrom(first)})
		if !p.accept(tokAnd) {
			return ast.NewSignatureDeclaration(bindings)
		}
	}
}

func (p *parserState) parseFunctorDeclaration() ast.Declaration {
	p.expect(tokFunctor, "`functor`")
	var bindings []ast.FunctorBinding
	for {
		first := p.peek()
		name := p.expect(tokIdent, "a functor name").Text
		p.expect(tokLParen, "`(`")
		paramName := p.expect(tokIdent, "a functor parameter name").Text
		p.expect(tokColon, "`:`")
		paramSig := p.parseSigExpression()
		p.expect(tokRParen, "`)`")
		result := p.parseAscription()
		p.expect(tokEquals, "`=`")
		body := p.parseStrExpression()
		bindings = append(bindings, ast.FunctorBinding{
			Name:           name,
			ParamName:      paramName,
			ParamSignature: paramSig,
			Result:         result,
			Body:           body,
			Span:           p.spanFrom(first),
		})
		if !p.accept(tokAnd) {
			return ast.NewFunctorDeclaration(bindings)
		}
	}
}

func (p *parserState) parseStrExpression() ast.StrExpression {
	first := p.peek()
	var expr ast.StrExpression
	switch first.Kind {
	case tokStruct:
		p.next()
		decls := p.parseDeclarations(tokEnd)
		p.expect(tokEnd, "`end`")
		expr = ast.NewStructExpression(decls)
	case tokLet:
		p.next()
		decls := p.parseDeclarations(tokIn)
		p.expect(tokIn, "`in`")
		body := p.parseStrExpression()
		p.expect(tokEnd, "`end`")
		expr = ast.NewLetStrExpression(decls, body)
	case tokIdent:
		p.next()
		if p.at(tokLParen) && !ast.ParseLongIdent(first.Text).IsQualified() {
			p.next()
			var arg ast.StrExpression
			if p.startsDeclaration() || p.at(tokRParen) {
				argStart := p.peek()
				decls := p.parseDeclarations(tokRParen)
				inline := ast.NewStructExpression(decls)
				p.finish(inline, argStart)
				arg = inline
			} else {
				arg = p.parseStrExpression()
			}
			p.expect(tokRParen, "`)`")
			expr = ast.NewFunctorApplication(first.Text, arg)
		} else {
			expr = ast.NewPathStrExpression(ast.ParseLongIdent(first.Text))
		}
	default:
		p.failf("expected a structure expression, found %s", first)
	}
	p.finish(expr, first)
	for p.at(tokColon) || p.at(tokSeal) {
		asc := p.parseAscription()
		ascribed := ast.NewAscriptionExpression(expr, *asc)
		p.finish(ascribed, first)
		expr = ascribed
	}
	return expr
}

func (p *parserState) parseSigExpression() ast.SigExpression {
	first := p.peek()
	var sig ast.SigExpression
	switch first.Kind {
	case tokSig:
		p.next()
		specs := p.parseSpecs()
		p.expect(tokEnd, "`end`")
		sig = ast.NewSigExpr(specs)
	case tokIdent:
		p.next()
		sig = ast.NewNamedSigExpression(first.Text)
	default:
		p.failf("expected a signature expression, found %s", first)
	}
	p.finish(sig, first)
	for p.at(tokWhere) {
		p.next()
		for {
			p.expect(tokType, "`type`")
			tyVars := p.parseTyVarSeq()
			path := ast.ParseLongIdent(p.expect(tokIdent, "a type name").Text)
			p.expect(tokEquals, "`=`")
			ty := p.parseType()
			where := ast.NewWhereTypeSigExpression(sig, tyVars, path, ty)
			p.finish(where, first)
			sig = where
			if !(p.at(tokAnd) && p.peekAt(1).Kind == tokType) {
				break
			}
			p.next()
		}
	}
	return sig
}

func (p *parserState) parseSpecs() []ast.Spec {
	var specs []ast.Spec
	for {
		if p.accept(tokSemicolon) {
			continue
		}
		first := p.peek()
		var spec ast.Spec
		switch first.Kind {
		case tokVal:
			spec = p.parseValSpec()
		case tokType, tokEqtype:
			spec = p.parseTypeSpec()
		case tokDatatype:
			p.next()
			spec = ast.NewDatatypeSpec(p.parseDatatypeBindings())
		case tokException:
			spec = p.parseExceptionSpec()
		case tokStructure:
			spec = p.parseStructureSpec()
		case tokInclude:
			p.next()
			spec = ast.NewIncludeSpec(p.parseSigExpression())
		case tokSharing:
			p.failf("sharing specifications are not supported")
		default:
			return specs
		}
		p.finish(spec, first)
		specs = append(specs, spec)
	}
}

func (p *parserState) parseValSpec() ast.Spec {
	p.expect(tokVal, "`val`")
	var descs []ast.ValDescription
	for {
		first := p.peek()
		p.accept(tokOp)
		name := p.expectName("a value name").Text
		p.expect(tokColon, "`:`")
		ty := p.parseType()
		descs = append(descs, ast.ValDescription{Name: name, Type: ty, Span: p.spanFrom(first)})
		if !p.accept(tokAnd) {
			return ast.NewValSpec(descs)
		}
	}
}

func (p *parserState) parseTypeSpec() ast.Spec {
	eq := p.next().Kind == tokEqtype
	var descs []ast.TypeDescription
	for {
		first := p.peek()
		tyVars := p.parseTyVarSeq()
		desc := ast.TypeDescription{TyVars: tyVars, Name: p.expect(tokIdent, "a type name").Text}
		if !eq && p.accept(tokEquals) {
			desc.Definition = p.parseType()
		}
		desc.Span = p.spanFrom(first)
		descs = append(descs, desc)
		if !p.accept(tokAnd) {
			return ast.NewTypeSpec(eq, descs)
		}
	}
}

func (p *parserState) parseExceptionSpec() ast.Spec {
	p.expect(tokException, "`exception`")
	var descs []ast.ExceptionDescription
	for {
		first := p.peek()
		p.accept(tokOp)
		desc := ast.ExceptionDescription{Name: p.expectName("an exception name").Text}
		if p.accept(tokOf) {
			desc.Argument = p.parseType()
		}
		desc.Span = p.spanFrom(first)
		descs = append(descs, desc)
		if !p.accept(tokAnd) {
			return ast.NewExceptionSpec(descs)
		}
	}
}

func (p *parserState) parseStructureSpec() ast.Spec {
	p.expect(tokStructure, "`structure`")
	var descs []ast.StructureDescription
	for {
		first := p.peek()
		name := p.expect(tokIdent, "a structure name").Text
		p.expect(tokColon, "`:`")
		sig := p.parseSigExpression()
		descs = append(descs, ast.StructureDescription{Name: name, Signature: sig, Span: p.spanFrom(first)})
		if !p.accept(tokAnd) {
			return ast.NewStructureSpec(descs)
		}
	}
}
