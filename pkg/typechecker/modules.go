package typechecker

import (
	"strings"

	"sml/analyzer-go/pkg/ast"
	"sml/analyzer-go/pkg/diag"
	"sml/analyzer-go/pkg/types"
)

func (c *Checker) elabStructureDec(env *Env, d *ast.StructureDeclaration) *Env {
	delta := NewEnv(nil)
	for _, b := range d.Bindings {
		if _, dup := delta.structures[b.Name]; dup {
			c.report(diag.New(diag.Duplicate, b.Span, "duplicate structure: %s", b.Name))
			continue
		}
		pop := c.pushStructure(b.Name)
		str := c.elabStrExp(env, b.Body)
		if b.Ascription != nil {
			str = c.ascribe(env, str, b.Ascription, b.Span)
		}
		pop()
		delta.DefineStructure(b.Name, str)
	}
	return delta
}

// ascribe elaborates the signature of an ascription and matches str
// against it.
func (c *Checker) ascribe(env *Env, str *Env, asc *ast.Ascription, span ast.Span) *Env {
	sig := c.elabSigExp(env, asc.Signature)
	return c.match(str, sig, asc.Opaque, span)
}

// elabStrExp returns the flat environment a structure expression denotes.
func (c *Checker) elabStrExp(env *Env, strexp ast.StrExpression) *Env {
	switch s := strexp.(type) {
	case *ast.StructExpression:
		c.structDepth++
		body := c.elabDecs(env, s.Declarations)
		c.structDepth--
		return body
	case *ast.PathStrExpression:
		str, missing, ok := env.LongStructure(s.Path)
		if !ok {
			c.errorf(diag.Undefined, s, "undefined structure: %s", missing)
			return NewEnv(nil)
		}
		return str
	case *ast.AscriptionExpression:
		str := c.elabStrExp(env, s.Body)
		return c.ascribe(env, str, &s.Ascription, s.Span())
	case *ast.FunctorApplication:
		return c.applyFunctor(env, s)
	case *ast.LetStrExpression:
		inner := env.With(c.elabDecs(env, s.Declarations))
		return c.elabStrExp(inner, s.Body)
	}
	return NewEnv(nil)
}

func (c *Checker) elabFunctorDec(env *Env, d *ast.FunctorDeclaration) *Env {
	delta := NewEnv(nil)
	for _, b := range d.Bindings {
		if _, dup := delta.functors[b.Name]; dup {
			c.report(diag.New(diag.Duplicate, b.Span, "duplicate functor: %s", b.Name))
			continue
		}
		delta.DefineFunctor(b.Name, c.elabFunctor(env, b))
	}
	return delta
}

// elabFunctor elaborates a functor body once against a generic instance of
// its parameter signature.
func (c *Checker) elabFunctor(env *Env, b ast.FunctorBinding) *Functor {
	param := c.elabSigExp(env, b.ParamSignature)
	inst := c.arena.Renew(param.Flexible, nil, func(name string) string { return b.ParamName + "." + name }, true)
	paramSyms := make([]types.Sym, len(param.Flexible))
	for i, sym := range param.Flexible {
		paramSyms[i], _ = inst[sym].AsSym()
	}
	paramStr := param.Env.realize(c.arena, inst)

	bodyEnv := NewEnv(env)
	bodyEnv.DefineStructure(b.ParamName, paramStr)
	lo := c.arena.SymCount()
	pop := c.pushStructure(b.Name)
	prefix := c.qualify("")
	saved := c.structDepth
	c.structDepth = 0
	body := c.elabStrExp(bodyEnv, b.Body)
	if b.Result != nil {
		body = c.ascribe(bodyEnv, body, b.Result, b.Span)
	}
	c.structDepth = saved
	pop()
	hi := c.arena.SymCount()
	return &Functor{
		Param:     param,
		ParamSyms: paramSyms,
		Body:      body,
		BodySyms:  types.SymRange(lo, hi),
		Prefix:    prefix,
	}
}

// applyFunctor matches the argument against the parameter signature, then
// realizes the parameter types in the body and renews the types the body
// generated, so each application yields distinct types.
func (c *Checker) applyFunctor(env *Env, app *ast.FunctorApplication) *Env {
	arg := c.elabStrExp(env, app.Argument)
	fct, ok := env.Functor(app.Functor)
	if !ok {
		c.errorf(diag.Undefined, app, "undefined functor: %s", app.Functor)
		return NewEnv(nil)
	}
	argReal, ok := c.realizeSignature(arg, fct.Param, app.Span())
	if !ok {
		return fct.Body.realize(c.arena, nil)
	}
	paramReal := types.Realization{}
	for i, sym := range fct.Param.Flexible {
		if fn, ok := argReal[sym]; ok {
			paramReal[fct.ParamSyms[i]] = fn
		}
	}
	prefix := c.qualify("")
	rename := func(name string) string { return prefix + strings.TrimPrefix(name, fct.Prefix) }
	r := c.arena.Renew(fct.BodySyms, paramReal, rename, false)
	return fct.Body.realize(c.arena, r)
}
