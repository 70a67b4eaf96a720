package types

// varState holds the binding and constraints of one inference variable.
type varState struct {
	binding  Type
	equality bool
	overload Overload
	// record is non-nil for variables introduced by #label selectors and
	// flexible record patterns: the type is some record with at least these
	// fields.
	record map[string]Type
	level  int
}

type fixedState struct {
	name     string
	equality bool
	level    int
}

// Arena owns every inference variable, user type variable and type
// constructor of one elaboration session.
type Arena struct {
	syms     []SymInfo
	vars     []varState
	fixed    []fixedState
	level    int
	pending  []VarID
	bindings int
	frozen   bool
	eqTrail  []Sym
	eqDepth  int
}

// NewArena returns an arena preloaded with the builtin type constructors.
func NewArena() *Arena {
	return &Arena{syms: builtinSyms()}
}

func (a *Arena) mustBeOpen() {
	if a.frozen {
		panic("types: arena is frozen")
	}
}

// Freeze marks the end of the session. Any later attempt to create or bind
// variables panics.
func (a *Arena) Freeze() {
	a.frozen = true
}

func (a *Arena) Frozen() bool {
	return a.frozen
}

// Bindings reports how many variable bindings have been made so far.
func (a *Arena) Bindings() int {
	return a.bindings
}

// VarCount reports how many inference variables exist.
func (a *Arena) VarCount() int {
	return len(a.vars)
}

// Level returns the current let-nesting level.
func (a *Arena) Level() int {
	return a.level
}

// EnterLevel starts the elaboration of a generalisable binding.
func (a *Arena) EnterLevel() {
	a.level++
}

func (a *Arena) LeaveLevel() {
	a.level--
}

// Fresh allocates an unbound, unconstrained variable.
func (a *Arena) Fresh() Var {
	a.mustBeOpen()
	a.vars = append(a.vars, varState{level: a.level})
	return Var{ID: VarID(len(a.vars) - 1)}
}

// FreshEquality allocates a variable that may only be bound to equality types.
func (a *Arena) FreshEquality() Var {
	v := a.Fresh()
	a.vars[v.ID].equality = true
	return v
}

// FreshOverloaded allocates a variable restricted to the ground types of class.
func (a *Arena) FreshOverloaded(class Overload) Var {
	v := a.Fresh()
	a.vars[v.ID].overload = class
	a.pending = append(a.pending, v.ID)
	return v
}

// FreshRecord allocates a variable standing for any record that has at
// least the given fields.
func (a *Arena) FreshRecord(fields map[string]Type) Var {
	v := a.Fresh()
	rows := make(map[string]Type, len(fields))
	for label, ty := range fields {
		rows[label] = ty
	}
	a.vars[v.ID].record = rows
	a.pending = append(a.pending, v.ID)
	return v
}

// NewFixed introduces a user type variable such as 'a or ''a at the current level.
func (a *Arena) NewFixed(name string, equality bool) Fixed {
	a.mustBeOpen()
	a.fixed = append(a.fixed, fixedState{name: name, equality: equality, level: a.level})
	return Fixed{ID: len(a.fixed) - 1}
}

func (a *Arena) FixedName(f Fixed) string {
	return a.fixed[f.ID].name
}

func (a *Arena) FixedEquality(f Fixed) bool {
	return a.fixed[f.ID].equality
}

// Overload reports the overload class of an unbound variable, or NoOverload.
func (a *Arena) Overload(v Var) Overload {
	return a.vars[a.root(v.ID)].overload
}

// IsEquality reports whether an unbound variable is equality-constrained.
func (a *Arena) IsEquality(v Var) bool {
	return a.vars[a.root(v.ID)].equality
}

// RecordRows returns the known fields of a record-constrained variable.
func (a *Arena) RecordRows(v Var) map[string]Type {
	return a.vars[a.root(v.ID)].record
}

// root follows var-to-var bindings.
func (a *Arena) root(id VarID) VarID {
	for {
		next, ok := a.vars[id].binding.(Var)
		if !ok {
			return id
		}
		id = next.ID
	}
}

// Resolve follows bindings at the top of t until it reaches an unbound
// variable or a non-variable type.
func (a *Arena) Resolve(t Type) Type {
	for {
		v, ok := t.(Var)
		if !ok {
			return t
		}
		binding := a.vars[v.ID].binding
		if binding == nil {
			return v
		}
		t = binding
	}
}

// Zonk resolves every bound variable inside t.
func (a *Arena) Zonk(t Type) Type {
	t = a.Resolve(t)
	switch tt := t.(type) {
	case *Con:
		if len(tt.Args) == 0 {
			return tt
		}
		args := make([]Type, len(tt.Args))
		for i, arg := range tt.Args {
			args[i] = a.Zonk(arg)
		}
		return &Con{Sym: tt.Sym, Args: args}
	case *Fn:
		return &Fn{Param: a.Zonk(tt.Param), Result: a.Zonk(tt.Result)}
	case *Record:
		fields := make(map[string]Type, len(tt.Fields))
		for label, field := range tt.Fields {
			fields[label] = a.Zonk(field)
		}
		return &Record{Fields: fields}
	}
	return t
}

func (a *Arena) bind(id VarID, t Type) {
	a.mustBeOpen()
	a.vars[id].binding = t
	a.bindings++
}

// Instantiate replaces the quantified variables of s with fresh variables.
func (a *Arena) Instantiate(s Scheme) Type {
	if len(s.Vars) == 0 {
		return s.Body
	}
	args := make([]Type, len(s.Vars))
	for i, bv := range s.Vars {
		switch {
		case bv.Overload != NoOverload:
			class := bv.Overload
			if bv.Equality {
				class = class.WithoutEquality()
			}
			args[i] = a.FreshOverloaded(class)
		case bv.Equality:
			args[i] = a.FreshEquality()
		default:
			args[i] = a.Fresh()
		}
	}
	return SubstBound(s.Body, args)
}

// Skolemize replaces the quantified variables of s with fresh user type
// variables named 'a, 'b, ... so that s can be checked for being at least
// as general as another type.
func (a *Arena) Skolemize(s Scheme) Type {
	if len(s.Vars) == 0 {
		return s.Body
	}
	args := make([]Type, len(s.Vars))
	for i, bv := range s.Vars {
		name := "'" + letterName(i)
		if bv.Equality {
			name = "'" + name
		}
		args[i] = a.NewFixed(name, bv.Equality)
	}
	return SubstBound(s.Body, args)
}

// Monomorphize pins every variable of t to the current level so a later
// Generalize cannot quantify it. It implements the value restriction for
// expansive bindings.
func (a *Arena) Monomorphize(t Type) {
	a.lowerLevels(t, a.level)
}

// Generalize quantifies every unbound variable and user type variable of t
// created at a level deeper than the current one. Overloaded and
// record-constrained variables are never quantified; they are resolved at the
// end of the enclosing top-level declaration instead.
func (a *Arena) Generalize(t Type) Scheme {
	var vars []BoundVar
	varIndex := map[VarID]int{}
	fixedIndex := map[int]int{}
	var walk func(Type) Type
	walk = func(t Type) Type {
		t = a.Resolve(t)
		switch tt := t.(type) {
		case Var:
			st := a.vars[tt.ID]
			if st.level <= a.level || st.overload != NoOverload || st.record != nil {
				return tt
			}
			idx, ok := varIndex[tt.ID]
			if !ok {
				idx = len(vars)
				varIndex[tt.ID] = idx
				vars = append(vars, BoundVar{Equality: st.equality})
			}
			return Bound{Index: idx}
		case Fixed:
			st := a.fixed[tt.ID]
			if st.level <= a.level {
				return tt
			}
			idx, ok := fixedIndex[tt.ID]
			if !ok {
				idx = len(vars)
				fixedIndex[tt.ID] = idx
				vars = append(vars, BoundVar{Equality: st.equality})
			}
			return Bound{Index: idx}
		case *Con:
			if len(tt.Args) == 0 {
				return tt
			}
			args := make([]Type, len(tt.Args))
			for i, arg := range tt.Args {
				args[i] = walk(arg)
			}
			return &Con{Sym: tt.Sym, Args: args}
		case *Fn:
			return &Fn{Param: walk(tt.Param), Result: walk(tt.Result)}
		case *Record:
			fields := make(map[string]Type, len(tt.Fields))
			for label, field := range tt.Fields {
				fields[label] = walk(field)
			}
			return &Record{Fields: fields}
		}
		return t
	}
	body := walk(t)
	return Scheme{Vars: vars, Body: body}
}

// ResolveOverloads ends the overload lifetime of every pending overloaded
// variable: each binds to the default ground type of its class.
func (a *Arena) ResolveOverloads() {
	var keep []VarID
	for _, id := range a.pending {
		if a.vars[id].binding != nil {
			continue
		}
		st := a.vars[id]
		if st.overload != NoOverload {
			a.bind(id, NewCon(st.overload.Default()))
			continue
		}
		keep = append(keep, id)
	}
	a.pending = keep
}

// UnresolvedRecords lists the record-constrained variables that are still
// unbound, in creation order.
func (a *Arena) UnresolvedRecords() []UnresolvedRecord {
	var out []UnresolvedRecord
	seen := map[VarID]bool{}
	for _, id := range a.pending {
		st := a.vars[id]
		if st.binding == nil && st.record != nil && !seen[id] {
			seen[id] = true
			out = append(out, UnresolvedRecord{Var: Var{ID: id}, Fields: st.record})
		}
	}
	return out
}

// CloseRecords binds every unresolved record variable to the closed record
// of its known fields and clears the pending list.
func (a *Arena) CloseRecords() {
	for _, rec := range a.UnresolvedRecords() {
		a.bind(rec.Var.ID, &Record{Fields: rec.Fields})
	}
	a.pending = nil
}

// UnresolvedRecord is a record-constrained variable whose full set of fields
// was never determined.
type UnresolvedRecord struct {
	Var    Var
	Fields map[string]Type
}

// lowerLevels lowers the level of every variable in t to at most level so
// they are not generalised beyond the binding that captured them.
func (a *Arena) lowerLevels(t Type, level int) {
	t = a.Resolve(t)
	switch tt := t.(type) {
	case Var:
		if a.vars[tt.ID].level > level {
			a.vars[tt.ID].level = level
		}
		for _, row := range a.vars[tt.ID].record {
			a.lowerLevels(row, level)
		}
	case Fixed:
		if a.fixed[tt.ID].level > level {
			a.fixed[tt.ID].level = level
		}
	case *Con:
		for _, arg := range tt.Args {
			a.lowerLevels(arg, level)
		}
	case *Fn:
		a.lowerLevels(tt.Param, level)
		a.lowerLevels(tt.Result, level)
	case *Record:
		for _, field := range tt.Fields {
			a.lowerLevels(field, level)
		}
	}
}
