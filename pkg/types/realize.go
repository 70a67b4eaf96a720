package types

// Realization maps type constructors to type functions. It is how abstract
// types of a signature are given their meaning when a structure matches it,
// and how a functor body's types are renamed per application.
type Realization map[Sym]TyFun

// Apply rewrites every constructor of t that the realization maps.
func (r Realization) Apply(t Type) Type {
	if len(r) == 0 {
		return t
	}
	switch tt := t.(type) {
	case *Con:
		fn, mapped := r[tt.Sym]
		if len(tt.Args) == 0 {
			if mapped && fn.Arity == 0 {
				return fn.Body
			}
			return tt
		}
		args := make([]Type, len(tt.Args))
		for i, arg := range tt.Args {
			args[i] = r.Apply(arg)
		}
		if mapped && fn.Arity == len(args) {
			return fn.Apply(args)
		}
		return &Con{Sym: tt.Sym, Args: args}
	case *Fn:
		return &Fn{Param: r.Apply(tt.Param), Result: r.Apply(tt.Result)}
	case *Record:
		fields := make(map[string]Type, len(tt.Fields))
		for label, field := range tt.Fields {
			fields[label] = r.Apply(field)
		}
		return &Record{Fields: fields}
	}
	return t
}

func (r Realization) ApplyScheme(s Scheme) Scheme {
	if len(r) == 0 {
		return s
	}
	return Scheme{Vars: s.Vars, Body: r.Apply(s.Body)}
}

func (r Realization) ApplyTyFun(f TyFun) TyFun {
	if len(r) == 0 {
		return f
	}
	return TyFun{Arity: f.Arity, Body: r.Apply(f.Body)}
}

// Merge returns a realization holding the entries of r and other; other wins
// on conflicts.
func (r Realization) Merge(other Realization) Realization {
	out := make(Realization, len(r)+len(other))
	for sym, fn := range r {
		out[sym] = fn
	}
	for sym, fn := range other {
		out[sym] = fn
	}
	return out
}

// SymRange lists the syms in [lo, hi).
func SymRange(lo, hi int) []Sym {
	var out []Sym
	for s := lo; s < hi; s++ {
		out = append(out, Sym(s))
	}
	return out
}

// Renew mints a fresh copy of every sym in syms and returns base extended
// with the mapping from the old syms to the new ones. Opaque ascription and
// functor application use it so each elaboration yields distinct types.
// rename, when non-nil, computes the display name of each copy; abstract
// forces the copies to be abstract.
func (a *Arena) Renew(syms []Sym, base Realization, rename func(string) string, abstract bool) Realization {
	r := base.Merge(nil)
	fresh := make([]Sym, len(syms))
	for i, old := range syms {
		info := a.syms[old]
		info.ConArgs = nil
		if rename != nil {
			info.Name = rename(info.Name)
		}
		if abstract {
			info.Abstract = true
			if info.Eq == EqDatatype {
				info.Eq = EqNever
				info.Constructors = nil
			}
		}
		fresh[i] = a.NewSym(info)
		r[old] = ConTyFun(fresh[i], info.Arity)
	}
	for i, old := range syms {
		if abstract || a.syms[old].ConArgs == nil {
			continue
		}
		oldArgs := a.syms[old].ConArgs
		args := make([]Type, len(oldArgs))
		for j, arg := range oldArgs {
			if arg != nil {
				args[j] = r.Apply(arg)
			}
		}
		a.syms[fresh[i]].ConArgs = args
	}
	return r
}

// TyFunAdmitsEquality reports whether f yields an equality type whenever its
// arguments admit equality.
func (a *Arena) TyFunAdmitsEquality(f TyFun) bool {
	return a.shapeAdmitsEquality(a.Zonk(f.Body))
}
