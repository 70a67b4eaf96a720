package typechecker

import (
	"sml/analyzer-go/pkg/ast"
	"sml/analyzer-go/pkg/diag"
	"sml/analyzer-go/pkg/types"
)

// elabTy elaborates a type expression. Type variables are looked up in
// params when it is non-nil (type and datatype declarations, where they
// stand for Bound parameters), otherwise in the user type variables in scope.
func (c *Checker) elabTy(env *Env, te ast.TypeExpression, params map[string]types.Type) types.Type {
	switch t := te.(type) {
	case nil:
		return types.Unknown{}
	case *ast.TyVarType:
		if params != nil {
			if ty, ok := params[t.Name]; ok {
				return ty
			}
		} else if ty, ok := c.lookupTyVar(t.Name); ok {
			return ty
		}
		c.errorf(diag.Undefined, t, "undefined type variable: %s", t.Name)
		return types.Unknown{}
	case *ast.RecordType:
		fields := make(map[string]types.Type, len(t.Fields))
		for _, field := range t.Fields {
			if _, dup := fields[field.Label]; dup {
				c.errorf(diag.Duplicate, t, "duplicate label: %s", field.Label)
				continue
			}
			fields[field.Label] = c.elabTy(env, field.Type, params)
		}
		return types.NewRecord(fields)
	case *ast.FnType:
		return types.NewFn(c.elabTy(env, t.Param, params), c.elabTy(env, t.Result, params))
	case *ast.ConType:
		args := make([]types.Type, len(t.Arguments))
		for i, arg := range t.Arguments {
			args[i] = c.elabTy(env, arg, params)
		}
		info, missing, ok := env.LongType(t.Constructor)
		if !ok {
			if missing != "" {
				c.errorf(diag.Undefined, t, "undefined structure: %s", missing)
			} else {
				c.errorf(diag.Undefined, t, "undefined type: %s", t.Constructor)
			}
			return types.Unknown{}
		}
		if info.Fun.Arity != len(args) {
			c.errorf(diag.WrongArity, t, "wrong number of type arguments for %s: expected %d, found %d",
				t.Constructor, info.Fun.Arity, len(args))
			return types.Unknown{}
		}
		return info.Fun.Apply(args)
	}
	return types.Unknown{}
}

// boundParams maps the type variables of a declaration head to Bound(i).
func boundParams(tyvars []string) map[string]types.Type {
	params := make(map[string]types.Type, len(tyvars))
	for i, name := range tyvars {
		params[name] = types.Bound{Index: i}
	}
	return params
}

func (c *Checker) lookupTyVar(name string) (types.Type, bool) {
	for i := len(c.tyvars) - 1; i >= 0; i-- {
		if ty, ok := c.tyvars[i][name]; ok {
			return ty, true
		}
	}
	return nil, false
}

// bindTyVars brings the explicit and implicitly scoped type variables of a
// value declaration into scope as fixed variables at the current level. The
// returned function pops the scope.
func (c *Checker) bindTyVars(explicit []string, node ast.Node) func() {
	scope := map[string]types.Type{}
	add := func(name string) {
		if _, ok := scope[name]; ok {
			return
		}
		if _, ok := c.lookupTyVar(name); ok {
			return
		}
		scope[name] = c.arena.NewFixed(name, ast.IsEqualityTyVar(name))
	}
	for _, name := range explicit {
		add(name)
	}
	ast.Inspect(node, func(n ast.Node) bool {
		switch n.(type) {
		case *ast.ValDeclaration, *ast.FunDeclaration:
			// nested value declarations scope their own variables
			return n == node
		}
		if tv, ok := n.(*ast.TyVarType); ok {
			add(tv.Name)
		}
		return true
	})
	c.tyvars = append(c.tyvars, scope)
	return func() { c.tyvars = c.tyvars[:len(c.tyvars)-1] }
}

// elabTyFun elaborates `('a, 'b) name = ty` into a type function.
func (c *Checker) elabTyFun(env *Env, tyvars []string, te ast.TypeExpression) types.TyFun {
	body := c.elabTy(env, te, boundParams(tyvars))
	return types.TyFun{Arity: len(tyvars), Body: body}
}
