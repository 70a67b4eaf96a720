package typechecker

import (
	"sml/analyzer-go/pkg/ast"
	"sml/analyzer-go/pkg/diag"
	"sml/analyzer-go/pkg/types"
)

func (c *Checker) elabExp(env *Env, expr ast.Expression) types.Type {
	switch e := expr.(type) {
	case nil:
		return types.Unknown{}
	case *ast.SConExpression:
		return sconType(e.Kind)
	case *ast.PathExpression:
		return c.elabPath(env, e)
	case *ast.RecordExpression:
		fields := make(map[string]types.Type, len(e.Fields))
		for _, field := range e.Fields {
			ty := c.elabExp(env, field.Value)
			if _, dup := fields[field.Label]; dup {
				c.errorf(diag.Duplicate, e, "duplicate label: %s", field.Label)
				continue
			}
			fields[field.Label] = ty
		}
		return types.NewRecord(fields)
	case *ast.SelectorExpression:
		field := c.arena.Fresh()
		rec := c.arena.FreshRecord(map[string]types.Type{e.Label: field})
		c.recordSpans[rec.ID] = e.Span()
		return types.NewFn(rec, field)
	case *ast.ListExpression:
		elem := types.Type(c.arena.Fresh())
		for _, el := range e.Elements {
			c.unify(elem, c.elabExp(env, el), el, diag.MismatchedTypes)
		}
		return types.ListOf(elem)
	case *ast.LetExpression:
		inner := env
		for _, decl := range e.Declarations {
			inner = inner.With(c.elabDec(inner, decl))
		}
		return c.elabSequence(inner, e.Body)
	case *ast.SequenceExpression:
		return c.elabSequence(env, e.Expressions)
	case *ast.AppExpression:
		return c.elabApp(e, c.elabExp(env, e.Func), c.elabExp(env, e.Arg), e.Arg)
	case *ast.InfixExpression:
		fn := c.elabExp(env, e.Operator)
		argTy := types.Tuple(c.elabExp(env, e.Left), c.elabExp(env, e.Right))
		return c.elabApp(e, fn, argTy, e)
	case *ast.BoolExpression:
		c.unify(types.Bool, c.elabExp(env, e.Left), e.Left, diag.MismatchedTypes)
		c.unify(types.Bool, c.elabExp(env, e.Right), e.Right, diag.MismatchedTypes)
		return types.Bool
	case *ast.IfExpression:
		c.unify(types.Bool, c.elabExp(env, e.Condition), e.Condition, diag.MismatchedTypes)
		thenTy := c.elabExp(env, e.Then)
		elseTy := c.elabExp(env, e.Else)
		c.unify(thenTy, elseTy, e.Else, diag.MismatchedTypes)
		return thenTy
	case *ast.CaseExpression:
		subject := c.elabExp(env, e.Subject)
		return c.elabRules(env, e.Rules, subject)
	case *ast.FnExpression:
		param := c.arena.Fresh()
		result := c.elabRules(env, e.Rules, param)
		return types.NewFn(param, result)
	case *ast.HandleExpression:
		body := c.elabExp(env, e.Body)
		for _, rule := range e.Rules {
			binds := newPatBindings()
			c.unify(types.Exn, c.elabPat(env, rule.Pattern, binds), rule.Pattern, diag.MismatchedTypes)
			c.unify(body, c.elabExp(env.With(binds.env()), rule.Body), rule.Body, diag.MismatchedTypes)
		}
		return body
	case *ast.RaiseExpression:
		c.unify(types.Exn, c.elabExp(env, e.Exception), e.Exception, diag.MismatchedTypes)
		return c.arena.Fresh()
	case *ast.TypedExpression:
		ty := c.elabExp(env, e.Expression)
		annot := c.elabTy(env, e.Type, nil)
		c.unify(annot, ty, e, diag.MismatchedTypes)
		return annot
	case *ast.WhileExpression:
		c.unify(types.Bool, c.elabExp(env, e.Condition), e.Condition, diag.MismatchedTypes)
		c.elabExp(env, e.Body)
		return types.UnitType()
	}
	return types.Unknown{}
}

func (c *Checker) elabSequence(env *Env, exprs []ast.Expression) types.Type {
	var ty types.Type = types.UnitType()
	for _, e := range exprs {
		ty = c.elabExp(env, e)
	}
	return ty
}

func (c *Checker) elabPath(env *Env, e *ast.PathExpression) types.Type {
	info, missing, ok := env.LongValue(e.Path)
	if !ok {
		if missing != "" {
			c.errorf(diag.Undefined, e, "undefined structure: %s", missing)
		} else {
			c.errorf(diag.Undefined, e, "undefined value: %s", e.Path)
		}
		return types.Unknown{}
	}
	return c.arena.Instantiate(info.Scheme)
}

// elabApp types the application of a function of type fn to an argument of
// type argTy. The function's parameter type is the expected side.
func (c *Checker) elabApp(node ast.Node, fn, argTy types.Type, arg ast.Node) types.Type {
	param := c.arena.Fresh()
	result := c.arena.Fresh()
	if !c.unify(types.NewFn(param, result), fn, node, diag.MismatchedTypes) {
		return types.Unknown{}
	}
	c.unify(param, argTy, arg, diag.AppMismatch)
	return result
}

// elabRules types a match: every pattern against subject, every body
// against the first body.
func (c *Checker) elabRules(env *Env, rules []*ast.MatchRule, subject types.Type) types.Type {
	result := types.Type(c.arena.Fresh())
	for _, rule := range rules {
		binds := newPatBindings()
		c.unify(subject, c.elabPat(env, rule.Pattern, binds), rule.Pattern, diag.MismatchedTypes)
		c.unify(result, c.elabExp(env.With(binds.env()), rule.Body), rule.Body, diag.MismatchedTypes)
	}
	return result
}

// isExpansive implements the syntactic value restriction: only
// non-expansive expressions may be generalised.
func isExpansive(env *Env, expr ast.Expression) bool {
	switch e := expr.(type) {
	case *ast.SConExpression, *ast.PathExpression, *ast.FnExpression, *ast.SelectorExpression:
		return false
	case *ast.RecordExpression:
		for _, field := range e.Fields {
			if isExpansive(env, field.Value) {
				return true
			}
		}
		return false
	case *ast.ListExpression:
		for _, el := range e.Elements {
			if isExpansive(env, el) {
				return true
			}
		}
		return false
	case *ast.TypedExpression:
		return isExpansive(env, e.Expression)
	case *ast.AppExpression:
		return !isConstructor(env, e.Func) || isExpansive(env, e.Arg)
	case *ast.InfixExpression:
		return !isConstructor(env, e.Operator) || isExpansive(env, e.Left) || isExpansive(env, e.Right)
	}
	return true
}

// isConstructor reports whether expr names a constructor other than ref.
func isConstructor(env *Env, expr ast.Expression) bool {
	path, ok := expr.(*ast.PathExpression)
	if !ok {
		return false
	}
	if !path.Path.IsQualified() && path.Path.Name == "ref" {
		return false
	}
	info, _, ok := env.LongValue(path.Path)
	return ok && info.Status != StatusValue
}
