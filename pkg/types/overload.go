package types

import "strings"

// Overload is a set of ground basis types an overloaded variable may still
// become. The zero value means the variable is not overloaded.
type Overload uint8

const (
	OvWord Overload = 1 << iota
	OvInt
	OvReal
	OvString
	OvChar

	NoOverload Overload = 0
)

// Named overload classes of the basis.
const (
	WordInt    = OvWord | OvInt
	RealInt    = OvReal | OvInt
	Num        = OvWord | OvInt | OvReal
	NumTxt     = OvWord | OvInt | OvReal | OvString | OvChar
	WordIntTxt = OvWord | OvInt | OvString | OvChar
)

var overloadMembers = []struct {
	bit  Overload
	sym  Sym
	name string
}{
	{OvWord, SymWord, "word"},
	{OvInt, SymInt, "int"},
	{OvReal, SymReal, "real"},
	{OvString, SymString, "string"},
	{OvChar, SymChar, "char"},
}

var overloadNames = map[Overload]string{
	WordInt:    "<wordint>",
	RealInt:    "<realint>",
	Num:        "<num>",
	NumTxt:     "<numtxt>",
	WordIntTxt: "<wordinttxt>",
}

// OverloadOfSym returns the single-member class for a basis ground type.
func OverloadOfSym(sym Sym) Overload {
	for _, m := range overloadMembers {
		if m.sym == sym {
			return m.bit
		}
	}
	return NoOverload
}

// Contains reports whether the ground type sym is a member of the class.
func (o Overload) Contains(sym Sym) bool {
	bit := OverloadOfSym(sym)
	return bit != NoOverload && o&bit != 0
}

// Members returns the ground types of the class in canonical order.
func (o Overload) Members() []Sym {
	var out []Sym
	for _, m := range overloadMembers {
		if o&m.bit != 0 {
			out = append(out, m.sym)
		}
	}
	return out
}

// Single reports the sole member of a one-element class.
func (o Overload) Single() (Sym, bool) {
	members := o.Members()
	if len(members) != 1 {
		return 0, false
	}
	return members[0], true
}

// Default is the ground type an unresolved overloaded variable becomes at
// the end of its top-level declaration: int when allowed, otherwise the
// first member in canonical order.
func (o Overload) Default() Sym {
	if o&OvInt != 0 {
		return SymInt
	}
	members := o.Members()
	if len(members) == 0 {
		return SymInt
	}
	return members[0]
}

// WithoutEquality drops the members that do not admit equality.
func (o Overload) WithoutEquality() Overload {
	return o &^ OvReal
}

func (o Overload) String() string {
	if name, ok := overloadNames[o]; ok {
		return name
	}
	if sym, ok := o.Single(); ok {
		for _, m := range overloadMembers {
			if m.sym == sym {
				return m.name
			}
		}
	}
	var parts []string
	for _, m := range overloadMembers {
		if o&m.bit != 0 {
			parts = append(parts, m.name)
		}
	}
	return "<" + strings.Join(parts, "|") + ">"
}
