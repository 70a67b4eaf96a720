package types

import (
	"errors"
	"fmt"
)

// UnifyErrorKind classifies why two types could not be made equal.
type UnifyErrorKind int

const (
	// HeadMismatch: different constructors, arities, record label sets, or
	// distinct user type variables.
	HeadMismatch UnifyErrorKind = iota
	// OccursCheck: binding a variable would create an infinite type.
	OccursCheck
	// NotInOverloadClass: a ground type outside an overloaded variable's class.
	NotInOverloadClass
	// OverloadIncompatible: two overloaded variables with disjoint classes.
	OverloadIncompatible
	// NotEqualityType: a type that does not admit equality met an
	// equality-constrained variable.
	NotEqualityType
)

func (k UnifyErrorKind) String() string {
	switch k {
	case HeadMismatch:
		return "head mismatch"
	case OccursCheck:
		return "occurs check"
	case NotInOverloadClass:
		return "not in overload class"
	case OverloadIncompatible:
		return "incompatible overloads"
	case NotEqualityType:
		return "not an equality type"
	}
	return fmt.Sprintf("UnifyErrorKind(%d)", int(k))
}

// UnifyError reports a unification failure. Expected and Found are the whole
// operands of the failed call; Left and Right are the innermost pair that
// disagreed.
type UnifyError struct {
	Kind     UnifyErrorKind
	Expected Type
	Found    Type
	Left     Type
	Right    Type
	// Class is the overload class involved in NotInOverloadClass and
	// OverloadIncompatible failures; Other is the second class of the latter.
	Class Overload
	Other Overload

	// stuck lists the variables whose binding failed a constraint. Settle
	// binds them once the error has been reported.
	stuck []stuckVar
}

type stuckVar struct {
	id VarID
	to Type
}

func (e *UnifyError) Error() string {
	return "types: " + e.Kind.String()
}

// Unify makes expected and found equal, binding inference variables as
// needed. Bindings made before a failure are kept. Unknown unifies with
// everything.
func (a *Arena) Unify(expected, found Type) error {
	if err := a.unify(expected, found); err != nil {
		err.Expected = expected
		err.Found = found
		return err
	}
	return nil
}

func (a *Arena) unify(left, right Type) *UnifyError {
	left = a.Resolve(left)
	right = a.Resolve(right)
	if _, ok := left.(Unknown); ok {
		return nil
	}
	if _, ok := right.(Unknown); ok {
		return nil
	}
	lv, lIsVar := left.(Var)
	rv, rIsVar := right.(Var)
	switch {
	case lIsVar && rIsVar:
		return a.unifyVars(lv, rv)
	case lIsVar:
		return a.bindVar(lv, right, left, right)
	case rIsVar:
		return a.bindVar(rv, left, left, right)
	}
	mismatch := &UnifyError{Kind: HeadMismatch, Left: left, Right: right}
	switch l := left.(type) {
	case Fixed:
		if r, ok := right.(Fixed); ok && r.ID == l.ID {
			return nil
		}
		return mismatch
	case *Con:
		r, ok := right.(*Con)
		if !ok || r.Sym != l.Sym || len(r.Args) != len(l.Args) {
			return mismatch
		}
		for i := range l.Args {
			if err := a.unify(l.Args[i], r.Args[i]); err != nil {
				return err
			}
		}
		return nil
	case *Fn:
		r, ok := right.(*Fn)
		if !ok {
			return mismatch
		}
		if err := a.unify(l.Param, r.Param); err != nil {
			return err
		}
		return a.unify(l.Result, r.Result)
	case *Record:
		r, ok := right.(*Record)
		if !ok || len(r.Fields) != len(l.Fields) {
			return mismatch
		}
		for _, label := range SortedLabels(l.Fields) {
			rf, ok := r.Fields[label]
			if !ok {
				return mismatch
			}
			if err := a.unify(l.Fields[label], rf); err != nil {
				return err
			}
		}
		return nil
	case Bound:
		if r, ok := right.(Bound); ok && r.Index == l.Index {
			return nil
		}
		return mismatch
	}
	return mismatch
}

// unifyVars merges two unbound variables. The newer variable is bound to the
// older one, which inherits the combined constraints.
func (a *Arena) unifyVars(l, r Var) *UnifyError {
	if l.ID == r.ID {
		return nil
	}
	older, newer := l, r
	if newer.ID < older.ID {
		older, newer = newer, older
	}
	os := &a.vars[older.ID]
	ns := a.vars[newer.ID]

	overload := os.overload
	switch {
	case os.overload != NoOverload && ns.overload != NoOverload:
		overload = os.overload & ns.overload
		if overload == NoOverload {
			return &UnifyError{Kind: OverloadIncompatible, Left: l, Right: r, Class: a.vars[l.ID].overload, Other: a.vars[r.ID].overload}
		}
	case ns.overload != NoOverload:
		overload = ns.overload
	}
	if overload != NoOverload && (os.record != nil || ns.record != nil) {
		return &UnifyError{Kind: NotInOverloadClass, Left: l, Right: r, Class: overload}
	}
	equality := os.equality || ns.equality
	if equality && overload != NoOverload {
		filtered := overload.WithoutEquality()
		if filtered == NoOverload {
			return &UnifyError{Kind: NotEqualityType, Left: l, Right: r, Class: overload}
		}
		overload = filtered
	}

	var record map[string]Type
	if os.record != nil || ns.record != nil {
		record = make(map[string]Type, len(os.record)+len(ns.record))
		for label, ty := range os.record {
			record[label] = ty
		}
		for _, label := range SortedLabels(ns.record) {
			ty := ns.record[label]
			if existing, ok := record[label]; ok {
				if err := a.unify(existing, ty); err != nil {
					return err
				}
				continue
			}
			record[label] = ty
		}
	}

	a.bind(newer.ID, older)
	os = &a.vars[older.ID]
	if os.overload == NoOverload && os.record == nil && (overload != NoOverload || record != nil) {
		a.pending = append(a.pending, older.ID)
	}
	os.equality = equality
	os.overload = overload
	os.record = record
	if ns.level < os.level {
		os.level = ns.level
	}
	if equality && record != nil {
		for _, label := range SortedLabels(record) {
			if err := a.requireEquality(record[label]); err != nil {
				return err
			}
		}
	}
	if sym, ok := overload.Single(); ok {
		a.bind(older.ID, NewCon(sym))
	}
	return nil
}

// Settle binds every variable left unbound by the failed unification err to
// the type it was being unified with, so later uses of the same variable do
// not fail again. Call it after the error has been rendered.
func (a *Arena) Settle(err error) {
	var ue *UnifyError
	if !errors.As(err, &ue) {
		return
	}
	for _, sv := range ue.stuck {
		if a.vars[sv.id].binding != nil || a.occurs(sv.id, sv.to) {
			continue
		}
		a.lowerLevels(sv.to, a.vars[sv.id].level)
		a.bind(sv.id, sv.to)
	}
	ue.stuck = nil
}

// bindVar binds the unbound variable v to the non-variable type t after
// checking v's constraints. left and right are the operands as seen by the
// caller, used for error reporting. When a constraint fails, v is recorded
// on the error for Settle.
func (a *Arena) bindVar(v Var, t Type, left, right Type) *UnifyError {
	if a.occurs(v.ID, t) {
		return &UnifyError{Kind: OccursCheck, Left: v, Right: t}
	}
	if err := a.checkBinding(v, t, left, right); err != nil {
		err.stuck = append(err.stuck, stuckVar{id: v.ID, to: t})
		return err
	}
	a.lowerLevels(t, a.vars[v.ID].level)
	a.bind(v.ID, t)
	return nil
}

func (a *Arena) checkBinding(v Var, t Type, left, right Type) *UnifyError {
	st := a.vars[v.ID]
	if st.overload != NoOverload {
		con, ok := t.(*Con)
		if !ok || !st.overload.Contains(con.Sym) {
			return &UnifyError{Kind: NotInOverloadClass, Left: left, Right: right, Class: st.overload}
		}
	}
	if st.record != nil {
		rec, ok := t.(*Record)
		if !ok {
			return &UnifyError{Kind: HeadMismatch, Left: left, Right: right}
		}
		for _, label := range SortedLabels(st.record) {
			field, ok := rec.Fields[label]
			if !ok {
				return &UnifyError{Kind: HeadMismatch, Left: left, Right: right}
			}
			if err := a.unify(st.record[label], field); err != nil {
				return err
			}
		}
	}
	if st.equality {
		if err := a.requireEquality(t); err != nil {
			return err
		}
	}
	return nil
}

func (a *Arena) occurs(id VarID, t Type) bool {
	t = a.Resolve(t)
	switch tt := t.(type) {
	case Var:
		if a.root(tt.ID) == a.root(id) {
			return true
		}
		for _, row := range a.vars[tt.ID].record {
			if a.occurs(id, row) {
				return true
			}
		}
	case *Con:
		for _, arg := range tt.Args {
			if a.occurs(id, arg) {
				return true
			}
		}
	case *Fn:
		return a.occurs(id, tt.Param) || a.occurs(id, tt.Result)
	case *Record:
		for _, field := range tt.Fields {
			if a.occurs(id, field) {
				return true
			}
		}
	}
	return false
}
