package typechecker

import (
	"sml/analyzer-go/pkg/ast"
	"sml/analyzer-go/pkg/diag"
	"sml/analyzer-go/pkg/types"
)

// elabDec elaborates one declaration and returns only the bindings it
// introduces. env is never modified.
func (c *Checker) elabDec(env *Env, decl ast.Declaration) *Env {
	switch d := decl.(type) {
	case *ast.ValDeclaration:
		return c.elabValDec(env, d)
	case *ast.FunDeclaration:
		return c.elabFunDec(env, d)
	case *ast.TypeDeclaration:
		return c.elabTypeDec(env, d)
	case *ast.DatatypeDeclaration:
		return c.elabDatatypes(env, d.Bindings, d.WithType)
	case *ast.DatatypeCopyDeclaration:
		return c.elabDatatypeCopy(env, d)
	case *ast.ExceptionDeclaration:
		return c.elabExceptionDec(env, d)
	case *ast.LocalDeclaration:
		inner := env.With(c.elabDecs(env, d.Locals))
		return c.elabDecs(inner, d.Body)
	case *ast.OpenDeclaration:
		delta := NewEnv(nil)
		for _, path := range d.Structures {
			str, missing, ok := env.LongStructure(path)
			if !ok {
				c.errorf(diag.Undefined, d, "undefined structure: %s", missing)
				continue
			}
			delta.Absorb(str)
		}
		return delta
	case *ast.FixityDeclaration:
		return NewEnv(nil)
	case *ast.StructureDeclaration:
		return c.elabStructureDec(env, d)
	case *ast.SignatureDeclaration:
		if c.structDepth > 0 {
			c.errorf(diag.SyntaxPosition, d, "signature declarations are not allowed inside structure bodies")
			return NewEnv(nil)
		}
		return c.elabSignatureDec(env, d)
	case *ast.FunctorDeclaration:
		if c.structDepth > 0 {
			c.errorf(diag.SyntaxPosition, d, "functor declarations are not allowed inside structure bodies")
			return NewEnv(nil)
		}
		return c.elabFunctorDec(env, d)
	}
	return NewEnv(nil)
}

// elabDecs elaborates a declaration sequence; each declaration sees the
// ones before it. The result holds everything the sequence binds.
func (c *Checker) elabDecs(env *Env, decls []ast.Declaration) *Env {
	acc := NewEnv(nil)
	cur := env
	for _, decl := range decls {
		delta := c.elabDec(cur, decl)
		acc.Absorb(delta)
		cur = cur.With(delta)
	}
	return acc
}

type valGroup struct {
	binds     *patBindings
	expansive bool
	failed    bool
}

func (c *Checker) elabValDec(env *Env, d *ast.ValDeclaration) *Env {
	c.arena.EnterLevel()
	pop := c.bindTyVars(d.TyVars, d)
	groups := make([]valGroup, len(d.Bindings))
	if d.Rec {
		all := newPatBindings()
		patTys := make([]types.Type, len(d.Bindings))
		for i, b := range d.Bindings {
			patTys[i] = c.elabPat(env, b.Pattern, all)
		}
		recEnv := env.With(all.env())
		mark := c.mark()
		for i, b := range d.Bindings {
			if _, ok := unwrapTyped(b.Value).(*ast.FnExpression); !ok {
				c.errorf(diag.SyntaxError, b.Value, "the right-hand side of val rec must be a fn expression")
			}
			c.unify(patTys[i], c.elabExp(recEnv, b.Value), b.Value, diag.MismatchedTypes)
		}
		failed := c.failedSince(mark)
		groups = []valGroup{{binds: all, failed: failed}}
	} else {
		names := map[string]struct{}{}
		for i, b := range d.Bindings {
			mark := c.mark()
			expTy := c.elabExp(env, b.Value)
			binds := &patBindings{seen: names}
			patTy := c.elabPat(env, b.Pattern, binds)
			c.unify(patTy, expTy, b.Value, diag.MismatchedTypes)
			groups[i] = valGroup{binds: binds, expansive: isExpansive(env, b.Value), failed: c.failedSince(mark)}
		}
	}
	pop()
	c.arena.LeaveLevel()

	delta := NewEnv(nil)
	for _, g := range groups {
		for _, bind := range g.binds.list {
			delta.DefineValue(bind.name, ValInfo{Scheme: c.closeType(bind.ty, g.expansive, g.failed)})
		}
	}
	return delta
}

// closeType turns the type of a binding into its scheme. Failed bindings
// become unknown so later uses do not cascade.
func (c *Checker) closeType(ty types.Type, expansive, failed bool) types.Scheme {
	switch {
	case failed:
		return types.Mono(types.Unknown{})
	case expansive:
		c.arena.Monomorphize(ty)
		return types.Mono(ty)
	}
	return c.arena.Generalize(ty)
}

func unwrapTyped(expr ast.Expression) ast.Expression {
	for {
		typed, ok := expr.(*ast.TypedExpression)
		if !ok {
			return expr
		}
		expr = typed.Expression
	}
}

func (c *Checker) elabFunDec(env *Env, d *ast.FunDeclaration) *Env {
	c.arena.EnterLevel()
	pop := c.bindTyVars(d.TyVars, d)
	recEnv := NewEnv(nil)
	fnTys := make([]types.Type, len(d.Bindings))
	seen := map[string]bool{}
	for i, b := range d.Bindings {
		fnTys[i] = c.arena.Fresh()
		if seen[b.Name] {
			c.report(diag.New(diag.Duplicate, b.Span, "duplicate function name: %s", b.Name))
		}
		seen[b.Name] = true
		recEnv.DefineValue(b.Name, ValInfo{Scheme: types.Mono(fnTys[i])})
	}
	inner := env.With(recEnv)
	failed := make([]bool, len(d.Bindings))
	for i, b := range d.Bindings {
		mark := c.mark()
		arity := -1
		for _, clause := range b.Clauses {
			if arity >= 0 && len(clause.Params) != arity {
				c.report(diag.New(diag.MismatchedTypes, clause.Span,
					"clauses of %s have different numbers of parameters: %d and %d", b.Name, arity, len(clause.Params)))
				continue
			}
			arity = len(clause.Params)
			c.unifyAt(fnTys[i], c.elabClause(inner, clause), clause.Span, diag.MismatchedTypes)
		}
		failed[i] = c.failedSince(mark)
	}
	pop()
	c.arena.LeaveLevel()

	delta := NewEnv(nil)
	for i, b := range d.Bindings {
		delta.DefineValue(b.Name, ValInfo{Scheme: c.closeType(fnTys[i], false, failed[i])})
	}
	return delta
}

// elabClause returns the curried function type of one fun clause.
func (c *Checker) elabClause(env *Env, clause ast.FunClause) types.Type {
	binds := newPatBindings()
	params := make([]types.Type, len(clause.Params))
	for i, param := range clause.Params {
		params[i] = c.elabPat(env, param, binds)
	}
	body := c.elabExp(env.With(binds.env()), clause.Body)
	if clause.ReturnType != nil {
		annot := c.elabTy(env, clause.ReturnType, nil)
		c.unify(annot, body, clause.Body, diag.MismatchedTypes)
		body = annot
	}
	ty := body
	for i := len(params) - 1; i >= 0; i-- {
		ty = types.NewFn(params[i], ty)
	}
	return ty
}

func (c *Checker) elabTypeDec(env *Env, d *ast.TypeDeclaration) *Env {
	delta := NewEnv(nil)
	for _, b := range d.Bindings {
		if _, dup := delta.types[b.Name]; dup {
			c.errorf(diag.Duplicate, d, "duplicate type name: %s", b.Name)
			continue
		}
		delta.DefineType(b.Name, TyInfo{Fun: c.elabTyFun(env, b.TyVars, b.Type)})
	}
	return delta
}

// elabDatatypes elaborates datatype bindings (and their withtype
// abbreviations). Each binding mints a new type constructor.
func (c *Checker) elabDatatypes(env *Env, binds []ast.DatatypeBinding, withType []ast.TypeBinding) *Env {
	delta := NewEnv(nil)
	syms := make([]types.Sym, len(binds))
	for i, b := range binds {
		if _, dup := delta.types[b.Name]; dup {
			c.report(diag.New(diag.Duplicate, b.Span, "duplicate type name: %s", b.Name))
		}
		syms[i] = c.arena.NewSym(types.SymInfo{Name: c.qualify(b.Name), Arity: len(b.TyVars), Eq: types.EqDatatype})
		delta.DefineType(b.Name, TyInfo{Fun: types.ConTyFun(syms[i], len(b.TyVars))})
	}
	for _, tb := range withType {
		delta.DefineType(tb.Name, TyInfo{Fun: c.elabTyFun(env.With(delta), tb.TyVars, tb.Type)})
	}
	scope := env.With(delta)
	seenCons := map[string]bool{}
	for i, b := range binds {
		fun := types.ConTyFun(syms[i], len(b.TyVars))
		params := boundParams(b.TyVars)
		quantified := make([]types.BoundVar, len(b.TyVars))
		names := make([]string, 0, len(b.Constructors))
		args := make([]types.Type, 0, len(b.Constructors))
		cons := make([]ConEntry, 0, len(b.Constructors))
		for _, con := range b.Constructors {
			if seenCons[con.Name] {
				c.report(diag.New(diag.Duplicate, con.Span, "duplicate constructor: %s", con.Name))
				continue
			}
			seenCons[con.Name] = true
			body := fun.Body
			var arg types.Type
			if con.Argument != nil {
				arg = c.elabTy(scope, con.Argument, params)
				body = types.NewFn(arg, fun.Body)
			}
			info := ValInfo{Scheme: types.Scheme{Vars: quantified, Body: body}, Status: StatusConstructor}
			names = append(names, con.Name)
			args = append(args, arg)
			cons = append(cons, ConEntry{Name: con.Name, Info: info})
			delta.DefineValue(con.Name, info)
		}
		c.arena.SetDatatype(syms[i], names, args)
		delta.DefineType(b.Name, TyInfo{Fun: fun, Constructors: cons})
	}
	return delta
}

func (c *Checker) elabDatatypeCopy(env *Env, d *ast.DatatypeCopyDeclaration) *Env {
	delta := NewEnv(nil)
	info, missing, ok := env.LongType(d.Source)
	if !ok {
		if missing != "" {
			c.errorf(diag.Undefined, d, "undefined structure: %s", missing)
		} else {
			c.errorf(diag.Undefined, d, "undefined type: %s", d.Source)
		}
		delta.DefineType(d.Name, TyInfo{Fun: types.TyFun{Body: types.Unknown{}}})
		return delta
	}
	delta.DefineType(d.Name, info)
	for _, con := range info.Constructors {
		delta.DefineValue(con.Name, con.Info)
	}
	return delta
}

func (c *Checker) elabExceptionDec(env *Env, d *ast.ExceptionDeclaration) *Env {
	delta := NewEnv(nil)
	for _, b := range d.Bindings {
		if _, dup := delta.values[b.Name]; dup {
			c.report(diag.New(diag.Duplicate, b.Span, "duplicate exception: %s", b.Name))
			continue
		}
		if b.CopyOf != nil {
			info, missing, ok := env.LongValue(*b.CopyOf)
			switch {
			case !ok && missing != "":
				c.report(diag.New(diag.Undefined, b.Span, "undefined structure: %s", missing))
				info = ValInfo{Scheme: types.Mono(types.Unknown{}), Status: StatusException}
			case !ok:
				c.report(diag.New(diag.Undefined, b.Span, "undefined exception: %s", *b.CopyOf))
				info = ValInfo{Scheme: types.Mono(types.Unknown{}), Status: StatusException}
			case info.Status != StatusException:
				c.report(diag.New(diag.NotConstructor, b.Span, "not an exception: %s", *b.CopyOf))
				info = ValInfo{Scheme: types.Mono(types.Unknown{}), Status: StatusException}
			}
			delta.DefineValue(b.Name, info)
			continue
		}
		ty := types.Exn
		if b.Argument != nil {
			ty = types.NewFn(c.elabTy(env, b.Argument, nil), types.Exn)
		}
		delta.DefineValue(b.Name, ValInfo{Scheme: types.Mono(ty), Status: StatusException})
	}
	return delta
}
