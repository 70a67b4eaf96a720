package types

// Sym identifies a type constructor within one Arena.
type Sym int

// Type constructors every Arena starts with. Their indices are stable so
// callers can refer to them without a lookup.
const (
	SymExn Sym = iota
	SymInt
	SymWord
	SymReal
	SymChar
	SymString
	SymBool
	SymList
	SymRef
	SymArray
	SymVector

	builtinSymCount
)

// EqKind describes how a type constructor relates to equality.
type EqKind int

const (
	// EqNever constructors never admit equality (real, exn).
	EqNever EqKind = iota
	// EqAlways constructors admit equality regardless of their arguments (ref, array).
	EqAlways
	// EqArgs constructors admit equality when all their arguments do (list, eqtype specs).
	EqArgs
	// EqDatatype constructors are datatypes whose equality is computed from
	// their constructors on first demand and then memoized.
	EqDatatype
)

// SymInfo describes a type constructor.
type SymInfo struct {
	// Name is the fully qualified display name, e.g. Foo.t.
	Name  string
	Arity int
	Eq    EqKind
	// Abstract is set for types minted by opaque ascription and for
	// signature/functor parameter types.
	Abstract bool
	// Constructors lists datatype constructor names in declaration order.
	Constructors []string
	// ConArgs holds the argument type of each constructor that carries one,
	// written over Bound(i) for the datatype's parameters.
	ConArgs []Type

	eqState eqMemo
}

type eqMemo int

const (
	eqUnknown eqMemo = iota
	eqComputing
	eqAdmits
	eqRejects
)

func builtinSyms() []SymInfo {
	syms := make([]SymInfo, builtinSymCount)
	syms[SymExn] = SymInfo{Name: "exn", Eq: EqNever}
	syms[SymInt] = SymInfo{Name: "int", Eq: EqArgs}
	syms[SymWord] = SymInfo{Name: "word", Eq: EqArgs}
	syms[SymReal] = SymInfo{Name: "real", Eq: EqNever}
	syms[SymChar] = SymInfo{Name: "char", Eq: EqArgs}
	syms[SymString] = SymInfo{Name: "string", Eq: EqArgs}
	syms[SymBool] = SymInfo{Name: "bool", Eq: EqArgs, Constructors: []string{"false", "true"}}
	syms[SymList] = SymInfo{Name: "list", Arity: 1, Eq: EqArgs, Constructors: []string{"nil", "::"}}
	syms[SymRef] = SymInfo{Name: "ref", Arity: 1, Eq: EqAlways, Constructors: []string{"ref"}}
	syms[SymArray] = SymInfo{Name: "array", Arity: 1, Eq: EqAlways}
	syms[SymVector] = SymInfo{Name: "vector", Arity: 1, Eq: EqArgs}
	return syms
}

// NewSym registers a type constructor and returns its identity. Every call
// mints a distinct Sym, even for identical infos.
func (a *Arena) NewSym(info SymInfo) Sym {
	a.mustBeOpen()
	info.eqState = eqUnknown
	a.syms = append(a.syms, info)
	return Sym(len(a.syms) - 1)
}

// SymInfo returns the description of sym. The result must not be modified
// except through SetDatatype.
func (a *Arena) SymInfo(sym Sym) *SymInfo {
	return &a.syms[sym]
}

// SymCount reports how many syms exist. Syms minted later have larger indices.
func (a *Arena) SymCount() int {
	return len(a.syms)
}

// SetDatatype records the constructors of a datatype sym once they have been
// elaborated. Equality for the sym is recomputed on next demand.
func (a *Arena) SetDatatype(sym Sym, names []string, args []Type) {
	info := &a.syms[sym]
	info.Constructors = names
	info.ConArgs = args
	info.Eq = EqDatatype
	info.eqState = eqUnknown
}
