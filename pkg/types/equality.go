package types

// RequireEquality constrains t to admit equality. Unbound variables inside t
// become equality-constrained; overloaded variables lose real. The returned
// error has Kind NotEqualityType and Left set to the offending part.
func (a *Arena) RequireEquality(t Type) error {
	if err := a.requireEquality(t); err != nil {
		err.Expected = t
		err.Found = t
		return err
	}
	return nil
}

func (a *Arena) requireEquality(t Type) *UnifyError {
	t = a.Resolve(t)
	fail := &UnifyError{Kind: NotEqualityType, Left: t, Right: t}
	switch tt := t.(type) {
	case Var:
		st := &a.vars[tt.ID]
		if st.equality {
			return nil
		}
		if st.overload != NoOverload {
			filtered := st.overload.WithoutEquality()
			if filtered == NoOverload {
				fail.Class = st.overload
				return fail
			}
			st.overload = filtered
			st.equality = true
			if sym, ok := filtered.Single(); ok {
				a.bind(tt.ID, NewCon(sym))
			}
			return nil
		}
		st.equality = true
		for _, label := range SortedLabels(st.record) {
			if err := a.requireEquality(st.record[label]); err != nil {
				return err
			}
		}
		return nil
	case Fixed:
		if a.fixed[tt.ID].equality {
			return nil
		}
		return fail
	case *Con:
		if !a.symAdmitsEquality(tt.Sym) {
			return fail
		}
		if a.syms[tt.Sym].Eq == EqAlways {
			return nil
		}
		for _, arg := range tt.Args {
			if err := a.requireEquality(arg); err != nil {
				return err
			}
		}
		return nil
	case *Fn:
		return fail
	case *Record:
		for _, label := range SortedLabels(tt.Fields) {
			if err := a.requireEquality(tt.Fields[label]); err != nil {
				return err
			}
		}
		return nil
	}
	return nil
}

// AdmitsEquality reports whether t admits equality without constraining any
// variable: unbound variables count only when already equality-constrained.
func (a *Arena) AdmitsEquality(t Type) bool {
	t = a.Resolve(t)
	switch tt := t.(type) {
	case Var:
		return a.vars[tt.ID].equality
	case Fixed:
		return a.fixed[tt.ID].equality
	case *Con:
		if !a.symAdmitsEquality(tt.Sym) {
			return false
		}
		if a.syms[tt.Sym].Eq == EqAlways {
			return true
		}
		for _, arg := range tt.Args {
			if !a.AdmitsEquality(arg) {
				return false
			}
		}
		return true
	case *Fn:
		return false
	case *Record:
		for _, field := range tt.Fields {
			if !a.AdmitsEquality(field) {
				return false
			}
		}
		return true
	}
	return true
}

// SymAdmitsEquality reports whether the constructor admits equality when its
// arguments do.
func (a *Arena) SymAdmitsEquality(sym Sym) bool {
	return a.symAdmitsEquality(sym)
}

func (a *Arena) symAdmitsEquality(sym Sym) bool {
	info := &a.syms[sym]
	switch info.Eq {
	case EqNever:
		return false
	case EqAlways, EqArgs:
		return true
	}
	switch info.eqState {
	case eqAdmits, eqComputing:
		// A datatype under computation is assumed to admit equality so
		// recursive occurrences do not decide the answer.
		return true
	case eqRejects:
		return false
	}
	info.eqState = eqComputing
	a.eqDepth++
	mark := len(a.eqTrail)
	admits := true
	for _, arg := range info.ConArgs {
		if arg != nil && !a.shapeAdmitsEquality(arg) {
			admits = false
			break
		}
	}
	if admits {
		a.syms[sym].eqState = eqAdmits
		a.eqTrail = append(a.eqTrail, sym)
	} else {
		a.syms[sym].eqState = eqRejects
		// Answers reached while sym was assumed to admit equality are no
		// longer trustworthy.
		for _, s := range a.eqTrail[mark:] {
			a.syms[s].eqState = eqUnknown
		}
		a.eqTrail = a.eqTrail[:mark]
	}
	a.eqDepth--
	if a.eqDepth == 0 {
		a.eqTrail = a.eqTrail[:0]
	}
	return admits
}

// shapeAdmitsEquality checks a constructor argument written over Bound
// parameters, which are assumed to admit equality.
func (a *Arena) shapeAdmitsEquality(t Type) bool {
	switch tt := t.(type) {
	case Bound, Unknown:
		return true
	case *Con:
		if !a.symAdmitsEquality(tt.Sym) {
			return false
		}
		if a.syms[tt.Sym].Eq == EqAlways {
			return true
		}
		for _, arg := range tt.Args {
			if !a.shapeAdmitsEquality(arg) {
				return false
			}
		}
		return true
	case *Record:
		for _, field := range tt.Fields {
			if !a.shapeAdmitsEquality(field) {
				return false
			}
		}
		return true
	case Var, Fixed:
		return a.AdmitsEquality(tt)
	}
	return false
}
