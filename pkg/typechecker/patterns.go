package typechecker

import (
	"sml/analyzer-go/pkg/ast"
	"sml/analyzer-go/pkg/diag"
	"sml/analyzer-go/pkg/types"
)

// patBinding is a variable bound by a pattern.
type patBinding struct {
	name string
	ty   types.Type
}

// patBindings collects the variables of one pattern (or of all the
// patterns of one clause) in binding order.
type patBindings struct {
	list []patBinding
	seen map[string]struct{}
}

func newPatBindings() *patBindings {
	return &patBindings{seen: map[string]struct{}{}}
}

func (c *Checker) bindVar(binds *patBindings, name string, ty types.Type, node ast.Node) {
	if _, dup := binds.seen[name]; dup {
		c.errorf(diag.Duplicate, node, "duplicate variable in pattern: %s", name)
		return
	}
	binds.seen[name] = struct{}{}
	binds.list = append(binds.list, patBinding{name: name, ty: ty})
}

// env returns a layer with the bindings as monomorphic values.
func (b *patBindings) env() *Env {
	out := NewEnv(nil)
	for _, bind := range b.list {
		out.DefineValue(bind.name, ValInfo{Scheme: types.Mono(bind.ty)})
	}
	return out
}

func sconType(kind ast.SConKind) types.Type {
	switch kind {
	case ast.SConInt:
		return types.Int
	case ast.SConWord:
		return types.Word
	case ast.SConReal:
		return types.Real
	case ast.SConString:
		return types.String
	case ast.SConChar:
		return types.Char
	}
	return types.Unknown{}
}

func (c *Checker) elabPat(env *Env, pat ast.Pattern, binds *patBindings) types.Type {
	switch p := pat.(type) {
	case nil:
		return types.Unknown{}
	case *ast.WildcardPattern:
		return c.arena.Fresh()
	case *ast.SConPattern:
		ty := sconType(p.Kind)
		if p.Kind == ast.SConReal {
			c.errorf(diag.NotEqualityType, p, "not an equality type: real")
		}
		return ty
	case *ast.VarPattern:
		if info, missing, ok := env.LongValue(p.Path); ok && info.Status != StatusValue {
			ty := c.arena.Instantiate(info.Scheme)
			if _, takesArg := c.arena.Resolve(ty).(*types.Fn); takesArg {
				c.errorf(diag.NotConstructor, p, "constructor %s requires an argument", p.Path)
				return types.Unknown{}
			}
			return ty
		} else if p.Path.IsQualified() {
			if missing != "" {
				c.errorf(diag.Undefined, p, "undefined structure: %s", missing)
			} else {
				c.errorf(diag.Undefined, p, "undefined constructor: %s", p.Path)
			}
			return types.Unknown{}
		}
		ty := c.arena.Fresh()
		c.bindVar(binds, p.Path.Name, ty, p)
		return ty
	case *ast.ConPattern:
		return c.elabConPat(env, p, p.Constructor, p.Argument, binds)
	case *ast.InfixPattern:
		arg := ast.NewTuplePattern([]ast.Pattern{p.Left, p.Right})
		ast.SetSpan(arg, p.Span())
		return c.elabConPat(env, p, p.Constructor, arg, binds)
	case *ast.RecordPattern:
		fields := make(map[string]types.Type, len(p.Fields))
		for _, field := range p.Fields {
			ty := c.elabPat(env, field.Pattern, binds)
			if _, dup := fields[field.Label]; dup {
				c.errorf(diag.Duplicate, p, "duplicate label: %s", field.Label)
				continue
			}
			fields[field.Label] = ty
		}
		if p.Flexible {
			v := c.arena.FreshRecord(fields)
			c.recordSpans[v.ID] = p.Span()
			return v
		}
		return types.NewRecord(fields)
	case *ast.ListPattern:
		elem := types.Type(c.arena.Fresh())
		for _, el := range p.Elements {
			c.unify(elem, c.elabPat(env, el, binds), el, diag.MismatchedTypes)
		}
		return types.ListOf(elem)
	case *ast.TypedPattern:
		ty := c.elabPat(env, p.Pattern, binds)
		annot := c.elabTy(env, p.Type, nil)
		c.unify(annot, ty, p, diag.MismatchedTypes)
		return annot
	case *ast.AsPattern:
		ty := c.elabPat(env, p.Pattern, binds)
		if p.Type != nil {
			annot := c.elabTy(env, p.Type, nil)
			c.unify(annot, ty, p, diag.MismatchedTypes)
			ty = annot
		}
		c.bindVar(binds, p.Name, ty, p)
		return ty
	}
	return types.Unknown{}
}

func (c *Checker) elabConPat(env *Env, node ast.Node, name ast.LongIdent, arg ast.Pattern, binds *patBindings) types.Type {
	argTy := c.elabPat(env, arg, binds)
	info, missing, ok := env.LongValue(name)
	if !ok {
		if missing != "" {
			c.errorf(diag.Undefined, node, "undefined structure: %s", missing)
		} else {
			c.errorf(diag.Undefined, node, "undefined constructor: %s", name)
		}
		return types.Unknown{}
	}
	if info.Status == StatusValue {
		c.errorf(diag.NotConstructor, node, "not a constructor: %s", name)
		return types.Unknown{}
	}
	conTy := c.arena.Resolve(c.arena.Instantiate(info.Scheme))
	if _, unknown := conTy.(types.Unknown); unknown {
		return conTy
	}
	fn, ok := conTy.(*types.Fn)
	if !ok {
		c.errorf(diag.NotConstructor, node, "constructor %s does not take an argument", name)
		return types.Unknown{}
	}
	c.unify(fn.Param, argTy, arg, diag.MismatchedTypes)
	return fn.Result
}
