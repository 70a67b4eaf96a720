package typechecker

import (
	"sml/analyzer-go/pkg/ast"
	"sml/analyzer-go/pkg/diag"
	"sml/analyzer-go/pkg/types"
)

// match checks str against sig and returns the view of str the ascription
// exposes. Transparent ascription keeps the structure's types; opaque
// ascription hides every type and eqtype specification behind a fresh
// abstract type named after the enclosing structure. On mismatch the first
// incompatible specification is reported and the unmatched types are made
// abstract so later uses still have something to check against.
func (c *Checker) match(str *Env, sig *Signature, opaque bool, span ast.Span) *Env {
	prefix := c.qualify("")
	rename := func(name string) string { return prefix + name }
	r, ok := c.realizeSignature(str, sig, span)
	if !ok {
		var missing []types.Sym
		for _, sym := range sig.Flexible {
			if _, realized := r[sym]; !realized {
				missing = append(missing, sym)
			}
		}
		r = c.arena.Renew(missing, r, rename, true)
		return sig.Env.realize(c.arena, r)
	}
	if !opaque {
		return sig.Env.realize(c.arena, r)
	}
	keep := types.Realization{}
	var hidden []types.Sym
	for _, sym := range sig.Flexible {
		if c.arena.SymInfo(sym).Eq == types.EqDatatype {
			keep[sym] = r[sym]
			continue
		}
		hidden = append(hidden, sym)
	}
	return sig.Env.realize(c.arena, c.arena.Renew(hidden, keep, rename, true))
}

// realizeSignature computes the realization of sig's flexible types by
// str, then checks every specification in signature order. Only the first
// mismatch is reported.
func (c *Checker) realizeSignature(str *Env, sig *Signature, span ast.Span) (types.Realization, bool) {
	flexible := make(map[types.Sym]bool, len(sig.Flexible))
	for _, sym := range sig.Flexible {
		flexible[sym] = true
	}
	r := types.Realization{}
	c.realizeTypes(str, sig.Env, flexible, r)
	if d := c.matchSpecs(str, sig.Env, flexible, r, "", span); d != nil {
		c.report(*d)
		return r, false
	}
	return r, true
}

// realizeTypes records in r every flexible type str can realize, without
// reporting anything.
func (c *Checker) realizeTypes(str, spec *Env, flexible map[types.Sym]bool, r types.Realization) {
	for _, ent := range spec.order {
		switch ent.kind {
		case entryType:
			c.matchType(str, spec, ent.name, flexible, r, "", ast.Span{})
		case entryStructure:
			if have, ok := str.structures[ent.name]; ok {
				c.realizeTypes(have, spec.structures[ent.name], flexible, r)
			}
		}
	}
}

func (c *Checker) matchSpecs(str, spec *Env, flexible map[types.Sym]bool, r types.Realization, prefix string, span ast.Span) *diag.Diagnostic {
	for _, ent := range spec.order {
		var d *diag.Diagnostic
		switch ent.kind {
		case entryType:
			d = c.matchType(str, spec, ent.name, flexible, r, prefix, span)
		case entryValue:
			d = c.matchValue(str, spec, ent.name, r, prefix, span)
		case entryStructure:
			have, ok := str.structures[ent.name]
			if !ok {
				d = sigMismatch(span, "signature mismatch: missing structure %s%s", prefix, ent.name)
				break
			}
			d = c.matchSpecs(have, spec.structures[ent.name], flexible, r, prefix+ent.name+".", span)
		}
		if d != nil {
			return d
		}
	}
	return nil
}

func sigMismatch(span ast.Span, format string, args ...any) *diag.Diagnostic {
	d := diag.New(diag.SignatureMismatch, span, format, args...)
	return &d
}

// matchType checks one type specification. A flexible type that matches is
// recorded in r.
func (c *Checker) matchType(str, spec *Env, name string, flexible map[types.Sym]bool, r types.Realization, prefix string, span ast.Span) *diag.Diagnostic {
	want := spec.types[name]
	have, ok := str.types[name]
	if !ok {
		return sigMismatch(span, "signature mismatch: missing type %s%s", prefix, name)
	}
	if want.Fun.Arity != have.Fun.Arity {
		return sigMismatch(span, "signature mismatch: type %s%s takes %d arguments in the signature but %d in the structure",
			prefix, name, want.Fun.Arity, have.Fun.Arity)
	}
	if sym, isSym := want.Fun.AsSym(); isSym && flexible[sym] {
		info := c.arena.SymInfo(sym)
		switch info.Eq {
		case types.EqDatatype:
			if !c.sameConstructors(info.Constructors, have) {
				return sigMismatch(span, "signature mismatch: type %s%s must be a datatype with the specified constructors", prefix, name)
			}
		case types.EqArgs:
			if !c.arena.TyFunAdmitsEquality(have.Fun) {
				return sigMismatch(span, "signature mismatch: type %s%s must admit equality", prefix, name)
			}
		}
		r[sym] = have.Fun
		return nil
	}
	if !c.sameTyFun(r.ApplyTyFun(want.Fun), have.Fun) {
		p := types.NewPrinter(c.arena)
		expected, found := p.Type(r.Apply(want.Fun.Body)), p.Type(have.Fun.Body)
		d := diag.New(diag.SignatureMismatch, span, "signature mismatch: type %s%s: expected %s, found %s",
			prefix, name, expected, found)
		d.Expected, d.Found = expected, found
		return &d
	}
	return nil
}

func (c *Checker) sameConstructors(want []string, have TyInfo) bool {
	if len(have.Constructors) != len(want) {
		return false
	}
	names := make(map[string]bool, len(want))
	for _, name := range want {
		names[name] = true
	}
	for _, con := range have.Constructors {
		if !names[con.Name] {
			return false
		}
	}
	return true
}

// sameTyFun compares two type functions of equal arity by applying both to
// the same fresh user type variables.
func (c *Checker) sameTyFun(a, b types.TyFun) bool {
	args := make([]types.Type, a.Arity)
	for i := range args {
		args[i] = c.arena.NewFixed("'"+string(rune('a'+i%26)), false)
	}
	return c.arena.Unify(a.Apply(args), b.Apply(args)) == nil
}

func (c *Checker) matchValue(str, spec *Env, name string, r types.Realization, prefix string, span ast.Span) *diag.Diagnostic {
	want := spec.values[name]
	have, ok := str.values[name]
	if !ok {
		return sigMismatch(span, "signature mismatch: missing value %s%s", prefix, name)
	}
	switch {
	case want.Status == StatusConstructor && have.Status != StatusConstructor:
		return sigMismatch(span, "signature mismatch: %s%s must be a constructor", prefix, name)
	case want.Status == StatusException && have.Status != StatusException:
		return sigMismatch(span, "signature mismatch: %s%s must be an exception", prefix, name)
	}
	wantTy := c.arena.Skolemize(r.ApplyScheme(want.Scheme))
	haveTy := c.arena.Instantiate(have.Scheme)
	if err := c.arena.Unify(wantTy, haveTy); err != nil {
		p := types.NewPrinter(c.arena)
		expected, found := p.Type(wantTy), p.Type(haveTy)
		d := diag.New(diag.SignatureMismatch, span, "signature mismatch: value %s%s: expected %s, found %s",
			prefix, name, expected, found)
		d.Expected, d.Found = expected, found
		c.arena.Settle(err)
		return &d
	}
	return nil
}
