package types

import (
	"sort"
	"strconv"
)

// Type is one of Var, Fixed, Bound, *Con, *Fn, *Record or Unknown.
type Type interface {
	isType()
}

// VarID indexes an inference variable in its Arena.
type VarID int

// Var is an inference variable. Its binding and constraints live in the
// Arena that created it.
type Var struct {
	ID VarID
}

// Fixed is a user-written type variable ('a or ''a) in scope during the
// elaboration of a declaration. It unifies only with itself.
type Fixed struct {
	ID int
}

// Bound is a quantified variable of a Scheme or a parameter of a TyFun.
type Bound struct {
	Index int
}

// Con applies a type constructor to arguments.
type Con struct {
	Sym  Sym
	Args []Type
}

type Fn struct {
	Param  Type
	Result Type
}

// Record is a closed record type. Tuples are records labelled "1".."n" and
// unit is the empty record.
type Record struct {
	Fields map[string]Type
}

// Unknown stands in for the type of anything that failed to elaborate. It
// unifies with every type without recording anything.
type Unknown struct{}

func (Var) isType()     {}
func (Fixed) isType()   {}
func (Bound) isType()   {}
func (*Con) isType()    {}
func (*Fn) isType()     {}
func (*Record) isType() {}
func (Unknown) isType() {}

func NewCon(sym Sym, args ...Type) *Con {
	return &Con{Sym: sym, Args: args}
}

func NewFn(param, result Type) *Fn {
	return &Fn{Param: param, Result: result}
}

func NewRecord(fields map[string]Type) *Record {
	if fields == nil {
		fields = map[string]Type{}
	}
	return &Record{Fields: fields}
}

func Tuple(elements ...Type) *Record {
	fields := make(map[string]Type, len(elements))
	for i, el := range elements {
		fields[strconv.Itoa(i+1)] = el
	}
	return &Record{Fields: fields}
}

func UnitType() *Record {
	return &Record{Fields: map[string]Type{}}
}

// Common ground types.
var (
	Int    Type = NewCon(SymInt)
	Word   Type = NewCon(SymWord)
	Real   Type = NewCon(SymReal)
	Char   Type = NewCon(SymChar)
	String Type = NewCon(SymString)
	Bool   Type = NewCon(SymBool)
	Exn    Type = NewCon(SymExn)
)

func ListOf(elem Type) Type { return NewCon(SymList, elem) }
func RefOf(elem Type) Type  { return NewCon(SymRef, elem) }

// LabelLess orders record labels: numeric labels first, numerically, then
// alphanumeric labels lexically.
func LabelLess(a, b string) bool {
	na, aNum := labelNumber(a)
	nb, bNum := labelNumber(b)
	switch {
	case aNum && bNum:
		return na < nb
	case aNum:
		return true
	case bNum:
		return false
	}
	return a < b
}

func labelNumber(label string) (int, bool) {
	if label == "" || label[0] < '1' || label[0] > '9' {
		return 0, false
	}
	n, err := strconv.Atoi(label)
	if err != nil {
		return 0, false
	}
	return n, true
}

// SortedLabels returns the labels of fields in canonical order.
func SortedLabels[T any](fields map[string]T) []string {
	labels := make([]string, 0, len(fields))
	for label := range fields {
		labels = append(labels, label)
	}
	sort.Slice(labels, func(i, j int) bool { return LabelLess(labels[i], labels[j]) })
	return labels
}

// IsTuple reports whether the labels are exactly 1..n for some n >= 2.
func IsTuple[T any](fields map[string]T) bool {
	if len(fields) < 2 {
		return false
	}
	for i := 1; i <= len(fields); i++ {
		if _, ok := fields[strconv.Itoa(i)]; !ok {
			return false
		}
	}
	return true
}

// BoundVar describes one quantified variable of a Scheme.
type BoundVar struct {
	Equality bool
	// Overload restricts the variable to an overload class. Only basis
	// operators such as + carry overloaded quantifiers.
	Overload Overload
}

// Scheme is a possibly polymorphic type. Bound(i) in Body refers to Vars[i].
type Scheme struct {
	Vars []BoundVar
	Body Type
}

func Mono(t Type) Scheme {
	return Scheme{Body: t}
}

// TyFun is a type function: the meaning of a type constructor name. Bound(i)
// in Body refers to the i-th argument.
type TyFun struct {
	Arity int
	Body  Type
}

// ConTyFun is the type function `fn ('a1..'an) => ('a1..'an) sym`.
func ConTyFun(sym Sym, arity int) TyFun {
	var args []Type
	for i := 0; i < arity; i++ {
		args = append(args, Bound{Index: i})
	}
	return TyFun{Arity: arity, Body: NewCon(sym, args...)}
}

// SubstBound replaces Bound(i) with args[i] throughout t. Bound indices
// outside args are left in place.
func SubstBound(t Type, args []Type) Type {
	if len(args) == 0 {
		return t
	}
	switch tt := t.(type) {
	case Bound:
		if tt.Index < len(args) {
			return args[tt.Index]
		}
		return tt
	case *Con:
		if len(tt.Args) == 0 {
			return tt
		}
		out := make([]Type, len(tt.Args))
		for i, arg := range tt.Args {
			out[i] = SubstBound(arg, args)
		}
		return &Con{Sym: tt.Sym, Args: out}
	case *Fn:
		return &Fn{Param: SubstBound(tt.Param, args), Result: SubstBound(tt.Result, args)}
	case *Record:
		fields := make(map[string]Type, len(tt.Fields))
		for label, field := range tt.Fields {
			fields[label] = SubstBound(field, args)
		}
		return &Record{Fields: fields}
	}
	return t
}

// Apply instantiates the type function with args.
func (f TyFun) Apply(args []Type) Type {
	return SubstBound(f.Body, args)
}

// AsSym reports the sym when the type function is exactly
// `fn ('a1..'an) => ('a1..'an) sym`.
func (f TyFun) AsSym() (Sym, bool) {
	con, ok := f.Body.(*Con)
	if !ok || len(con.Args) != f.Arity {
		return 0, false
	}
	for i, arg := range con.Args {
		if b, ok := arg.(Bound); !ok || b.Index != i {
			return 0, false
		}
	}
	return con.Sym, true
}
