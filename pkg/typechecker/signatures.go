package typechecker

import (
	"sml/analyzer-go/pkg/ast"
	"sml/analyzer-go/pkg/diag"
	"sml/analyzer-go/pkg/types"
)

func (c *Checker) elabSignatureDec(env *Env, d *ast.SignatureDeclaration) *Env {
	delta := NewEnv(nil)
	for _, b := range d.Bindings {
		if _, dup := delta.signatures[b.Name]; dup {
			c.report(diag.New(diag.Duplicate, b.Span, "duplicate signature: %s", b.Name))
			continue
		}
		delta.DefineSignature(b.Name, c.elabSigExp(env, b.Signature))
	}
	return delta
}

// elabSigExp elaborates a signature expression. Flexible type names are
// minted relative to the signature, e.g. t or S.t for a nested structure.
func (c *Checker) elabSigExp(env *Env, sigexp ast.SigExpression) *Signature {
	switch s := sigexp.(type) {
	case *ast.SigExpr:
		return c.elabSpecs(env, s.Specs, "")
	case *ast.NamedSigExpression:
		sig, ok := env.Signature(s.Name)
		if !ok {
			c.errorf(diag.Undefined, s, "undefined signature: %s", s.Name)
			return &Signature{Env: NewEnv(nil)}
		}
		return sig
	case *ast.WhereTypeSigExpression:
		return c.elabWhereType(env, s)
	}
	return &Signature{Env: NewEnv(nil)}
}

// instantiateSignature copies sig with fresh flexible syms, named under
// prefix. Every structure specification needs its own copy.
func (c *Checker) instantiateSignature(sig *Signature, prefix string) *Signature {
	r := c.arena.Renew(sig.Flexible, nil, func(name string) string { return prefix + name }, false)
	flexible := make([]types.Sym, len(sig.Flexible))
	for i, sym := range sig.Flexible {
		flexible[i], _ = r[sym].AsSym()
	}
	return &Signature{Env: sig.Env.realize(c.arena, r), Flexible: flexible}
}

func (c *Checker) elabSpecs(env *Env, specs []ast.Spec, prefix string) *Signature {
	sig := &Signature{Env: NewEnv(nil)}
	scope := func() *Env { return env.With(sig.Env) }
	for _, spec := range specs {
		switch s := spec.(type) {
		case *ast.ValSpec:
			for _, desc := range s.Descriptions {
				if _, dup := sig.Env.values[desc.Name]; dup {
					c.report(diag.New(diag.Duplicate, desc.Span, "duplicate specification: %s", desc.Name))
					continue
				}
				sig.Env.DefineValue(desc.Name, ValInfo{Scheme: c.elabSpecScheme(scope(), desc.Type)})
			}
		case *ast.TypeSpec:
			for _, desc := range s.Descriptions {
				if _, dup := sig.Env.types[desc.Name]; dup {
					c.report(diag.New(diag.Duplicate, desc.Span, "duplicate specification: %s", desc.Name))
					continue
				}
				if desc.Definition != nil {
					sig.Env.DefineType(desc.Name, TyInfo{Fun: c.elabTyFun(scope(), desc.TyVars, desc.Definition)})
					continue
				}
				eq := types.EqNever
				if s.Equality {
					eq = types.EqArgs
				}
				sym := c.arena.NewSym(types.SymInfo{Name: prefix + desc.Name, Arity: len(desc.TyVars), Eq: eq, Abstract: true})
				sig.Flexible = append(sig.Flexible, sym)
				sig.Env.DefineType(desc.Name, TyInfo{Fun: types.ConTyFun(sym, len(desc.TyVars))})
			}
		case *ast.DatatypeSpec:
			first := c.arena.SymCount()
			saved := c.strPath
			c.strPath = nil
			delta := c.elabDatatypes(scope(), s.Bindings, nil)
			c.strPath = saved
			for _, sym := range types.SymRange(first, c.arena.SymCount()) {
				info := c.arena.SymInfo(sym)
				info.Name = prefix + info.Name
				info.Abstract = true
				sig.Flexible = append(sig.Flexible, sym)
			}
			sig.Env.Absorb(delta)
		case *ast.ExceptionSpec:
			for _, desc := range s.Descriptions {
				ty := types.Exn
				if desc.Argument != nil {
					ty = types.NewFn(c.elabTy(scope(), desc.Argument, map[string]types.Type{}), types.Exn)
				}
				sig.Env.DefineValue(desc.Name, ValInfo{Scheme: types.Mono(ty), Status: StatusException})
			}
		case *ast.StructureSpec:
			for _, desc := range s.Descriptions {
				nested := c.elabSigExp(scope(), desc.Signature)
				inst := c.instantiateSignature(nested, prefix+desc.Name+".")
				sig.Flexible = append(sig.Flexible, inst.Flexible...)
				sig.Env.DefineStructure(desc.Name, inst.Env)
			}
		case *ast.IncludeSpec:
			included := c.instantiateSignature(c.elabSigExp(scope(), s.Signature), prefix)
			sig.Flexible = append(sig.Flexible, included.Flexible...)
			sig.Env.Absorb(included.Env)
		}
	}
	return sig
}

// elabSpecScheme closes a value specification's type over its type
// variables, in order of first occurrence.
func (c *Checker) elabSpecScheme(env *Env, te ast.TypeExpression) types.Scheme {
	params := map[string]types.Type{}
	var vars []types.BoundVar
	ast.Inspect(te, func(n ast.Node) bool {
		if tv, ok := n.(*ast.TyVarType); ok {
			if _, seen := params[tv.Name]; !seen {
				params[tv.Name] = types.Bound{Index: len(vars)}
				vars = append(vars, types.BoundVar{Equality: ast.IsEqualityTyVar(tv.Name)})
			}
		}
		return true
	})
	return types.Scheme{Vars: vars, Body: c.elabTy(env, te, params)}
}

// elabWhereType realizes one flexible type of a signature.
func (c *Checker) elabWhereType(env *Env, s *ast.WhereTypeSigExpression) *Signature {
	base := c.elabSigExp(env, s.Signature)
	scope := base.Env
	if s.Path.IsQualified() {
		str, missing, ok := base.Env.StructurePath(s.Path.Structures)
		if !ok {
			c.errorf(diag.Undefined, s, "undefined structure in signature: %s", missing)
			return base
		}
		scope = str
	}
	info, ok := scope.types[s.Path.Name]
	if !ok {
		c.errorf(diag.Undefined, s, "undefined type in signature: %s", s.Path)
		return base
	}
	sym, ok := info.Fun.AsSym()
	flexIndex := -1
	for i, flex := range base.Flexible {
		if ok && flex == sym {
			flexIndex = i
		}
	}
	if flexIndex < 0 {
		c.errorf(diag.SignatureMismatch, s, "type %s is not abstract in the signature", s.Path)
		return base
	}
	if info.Fun.Arity != len(s.TyVars) {
		c.errorf(diag.WrongArity, s, "wrong number of type arguments for %s: expected %d, found %d",
			s.Path, info.Fun.Arity, len(s.TyVars))
		return base
	}
	fun := c.elabTyFun(env, s.TyVars, s.Type)
	if c.arena.SymInfo(sym).Eq != types.EqNever && !c.arena.TyFunAdmitsEquality(fun) {
		c.errorf(diag.SignatureMismatch, s, "type %s must admit equality", s.Path)
		return base
	}
	flexible := make([]types.Sym, 0, len(base.Flexible)-1)
	flexible = append(flexible, base.Flexible[:flexIndex]...)
	flexible = append(flexible, base.Flexible[flexIndex+1:]...)
	return &Signature{
		Env:      base.Env.realize(c.arena, types.Realization{sym: fun}),
		Flexible: flexible,
	}
}
