package typechecker

import (
	"sort"

	"sml/analyzer-go/pkg/ast"
	"sml/analyzer-go/pkg/types"
)

// IDStatus distinguishes plain values from constructors.
type IDStatus int

const (
	StatusValue IDStatus = iota
	StatusConstructor
	StatusException
)

// ValInfo is the static meaning of a value identifier.
type ValInfo struct {
	Scheme types.Scheme
	Status IDStatus
}

// ConEntry is one constructor of a datatype.
type ConEntry struct {
	Name string
	Info ValInfo
}

// TyInfo is the static meaning of a type constructor name.
type TyInfo struct {
	Fun types.TyFun
	// Constructors is non-empty for datatypes, in declaration order.
	Constructors []ConEntry
}

// Signature is an elaborated signature: an environment of specifications
// whose Flexible syms are to be realized by a matching structure.
type Signature struct {
	Env      *Env
	Flexible []types.Sym
}

// Functor is an elaborated functor. Param's flexible syms were renewed as
// ParamSyms for the body; BodySyms lists the syms the body generated.
type Functor struct {
	Param     *Signature
	ParamSyms []types.Sym
	Body      *Env
	BodySyms  []types.Sym
	// Prefix qualifies the names of BodySyms; applications replace it.
	Prefix string
}

// Env maps names to semantic entities in five namespaces. Layers are
// parent-linked; lookups search outward through the chain. An Env is never
// mutated once another layer has been stacked on top of it.
type Env struct {
	parent     *Env
	values     map[string]ValInfo
	types      map[string]TyInfo
	structures map[string]*Env
	signatures map[string]*Signature
	functors   map[string]*Functor

	// order lists the value, type and structure bindings of this layer in
	// the order they were first defined.
	order []entry
}

type entryKind int

const (
	entryValue entryKind = iota
	entryType
	entryStructure
)

type entry struct {
	kind entryKind
	name string
}

// NewEnv creates an environment layer, optionally nested under a parent.
func NewEnv(parent *Env) *Env {
	return &Env{
		parent:     parent,
		values:     map[string]ValInfo{},
		types:      map[string]TyInfo{},
		structures: map[string]*Env{},
		signatures: map[string]*Signature{},
		functors:   map[string]*Functor{},
	}
}

// Parent exposes the enclosing layer (nil at the root).
func (e *Env) Parent() *Env {
	return e.parent
}

// With stacks delta on top of e as a new layer.
func (e *Env) With(delta *Env) *Env {
	layer := NewEnv(e)
	layer.Absorb(delta)
	return layer
}

// Absorb copies every binding of delta's own layer into e. Later bindings
// shadow earlier ones.
func (e *Env) Absorb(delta *Env) {
	if delta == nil {
		return
	}
	for _, ent := range delta.order {
		switch ent.kind {
		case entryValue:
			e.DefineValue(ent.name, delta.values[ent.name])
		case entryType:
			e.DefineType(ent.name, delta.types[ent.name])
		case entryStructure:
			e.DefineStructure(ent.name, delta.structures[ent.name])
		}
	}
	for name, sig := range delta.signatures {
		e.signatures[name] = sig
	}
	for name, fct := range delta.functors {
		e.functors[name] = fct
	}
}

// Flatten collapses the chain into a single parentless layer.
func (e *Env) Flatten() *Env {
	var chain []*Env
	for cur := e; cur != nil; cur = cur.parent {
		chain = append(chain, cur)
	}
	out := NewEnv(nil)
	for i := len(chain) - 1; i >= 0; i-- {
		out.Absorb(chain[i])
	}
	return out
}

func (e *Env) DefineValue(name string, info ValInfo) {
	if _, ok := e.values[name]; !ok {
		e.order = append(e.order, entry{kind: entryValue, name: name})
	}
	e.values[name] = info
}

func (e *Env) DefineType(name string, info TyInfo) {
	if _, ok := e.types[name]; !ok {
		e.order = append(e.order, entry{kind: entryType, name: name})
	}
	e.types[name] = info
}

func (e *Env) DefineStructure(name string, str *Env) {
	if _, ok := e.structures[name]; !ok {
		e.order = append(e.order, entry{kind: entryStructure, name: name})
	}
	e.structures[name] = str
}

func (e *Env) DefineSignature(name string, sig *Signature) {
	e.signatures[name] = sig
}

func (e *Env) DefineFunctor(name string, fct *Functor) {
	e.functors[name] = fct
}

// Value looks up a value identifier through the chain.
func (e *Env) Value(name string) (ValInfo, bool) {
	for cur := e; cur != nil; cur = cur.parent {
		if info, ok := cur.values[name]; ok {
			return info, true
		}
	}
	return ValInfo{}, false
}

func (e *Env) Type(name string) (TyInfo, bool) {
	for cur := e; cur != nil; cur = cur.parent {
		if info, ok := cur.types[name]; ok {
			return info, true
		}
	}
	return TyInfo{}, false
}

func (e *Env) Structure(name string) (*Env, bool) {
	for cur := e; cur != nil; cur = cur.parent {
		if str, ok := cur.structures[name]; ok {
			return str, true
		}
	}
	return nil, false
}

func (e *Env) Signature(name string) (*Signature, bool) {
	for cur := e; cur != nil; cur = cur.parent {
		if sig, ok := cur.signatures[name]; ok {
			return sig, true
		}
	}
	return nil, false
}

func (e *Env) Functor(name string) (*Functor, bool) {
	for cur := e; cur != nil; cur = cur.parent {
		if fct, ok := cur.functors[name]; ok {
			return fct, true
		}
	}
	return nil, false
}

// StructurePath resolves the structure qualifiers of a long identifier. It
// returns the name of the first missing structure on failure.
func (e *Env) StructurePath(path []string) (*Env, string, bool) {
	cur := e
	for i, name := range path {
		var next *Env
		var ok bool
		if i == 0 {
			next, ok = cur.Structure(name)
		} else {
			next, ok = cur.structures[name]
		}
		if !ok {
			return nil, name, false
		}
		cur = next
	}
	return cur, "", true
}

// LongValue looks up a possibly qualified value identifier.
func (e *Env) LongValue(id ast.LongIdent) (ValInfo, string, bool) {
	if !id.IsQualified() {
		info, ok := e.Value(id.Name)
		return info, "", ok
	}
	str, missing, ok := e.StructurePath(id.Structures)
	if !ok {
		return ValInfo{}, missing, false
	}
	info, ok := str.values[id.Name]
	return info, "", ok
}

// LongType looks up a possibly qualified type constructor.
func (e *Env) LongType(id ast.LongIdent) (TyInfo, string, bool) {
	if !id.IsQualified() {
		info, ok := e.Type(id.Name)
		return info, "", ok
	}
	str, missing, ok := e.StructurePath(id.Structures)
	if !ok {
		return TyInfo{}, missing, false
	}
	info, ok := str.types[id.Name]
	return info, "", ok
}

// LongStructure looks up a possibly qualified structure.
func (e *Env) LongStructure(id ast.LongIdent) (*Env, string, bool) {
	path := append(append([]string{}, id.Structures...), id.Name)
	return e.StructurePath(path)
}

// ValueNames returns the value identifiers of this layer in sorted order.
func (e *Env) ValueNames() []string {
	names := make([]string, 0, len(e.values))
	for name := range e.values {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// TypeNames returns the type constructors of this layer in sorted order.
func (e *Env) TypeNames() []string {
	names := make([]string, 0, len(e.types))
	for name := range e.types {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// StructureNames returns the structures of this layer in sorted order.
func (e *Env) StructureNames() []string {
	names := make([]string, 0, len(e.structures))
	for name := range e.structures {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// realize returns a copy of the layer with r applied to every type inside
// it, recursively through structures.
func (e *Env) realize(arena *types.Arena, r types.Realization) *Env {
	out := NewEnv(nil)
	for _, ent := range e.order {
		name := ent.name
		switch ent.kind {
		case entryValue:
			info := e.values[name]
			info.Scheme = realizeScheme(arena, r, info.Scheme)
			out.DefineValue(name, info)
		case entryType:
			info := e.types[name]
			info.Fun = types.TyFun{Arity: info.Fun.Arity, Body: r.Apply(arena.Zonk(info.Fun.Body))}
			if len(info.Constructors) > 0 {
				cons := make([]ConEntry, len(info.Constructors))
				for i, con := range info.Constructors {
					con.Info.Scheme = realizeScheme(arena, r, con.Info.Scheme)
					cons[i] = con
				}
				info.Constructors = cons
			}
			out.DefineType(name, info)
		case entryStructure:
			out.DefineStructure(name, e.structures[name].realize(arena, r))
		}
	}
	for name, sig := range e.signatures {
		out.signatures[name] = sig
	}
	for name, fct := range e.functors {
		out.functors[name] = fct
	}
	return out
}

func realizeScheme(arena *types.Arena, r types.Realization, s types.Scheme) types.Scheme {
	return types.Scheme{Vars: s.Vars, Body: r.Apply(arena.Zonk(s.Body))}
}

func sortedKeys[V any](m map[string]V) []string {
	if len(m) == 0 {
		return nil
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
