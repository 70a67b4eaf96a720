package typechecker

import (
	_ "embed"
	"fmt"

	"sml/analyzer-go/pkg/diag"
	"sml/analyzer-go/pkg/parser"
	"sml/analyzer-go/pkg/types"
)

//go:embed basis.sml
var basisSource string

// newBasis builds the initial environment for a session. Primitive types
// and overloaded operators are installed directly; everything expressible
// in SML is elaborated from basis.sml.
func newBasis(arena *types.Arena) *Env {
	env := NewEnv(nil)
	for _, prim := range []struct {
		name  string
		sym   types.Sym
		arity int
	}{
		{"int", types.SymInt, 0},
		{"word", types.SymWord, 0},
		{"real", types.SymReal, 0},
		{"char", types.SymChar, 0},
		{"string", types.SymString, 0},
		{"exn", types.SymExn, 0},
		{"array", types.SymArray, 1},
		{"vector", types.SymVector, 1},
	} {
		env.DefineType(prim.name, TyInfo{Fun: types.ConTyFun(prim.sym, prim.arity)})
	}
	env.DefineType("unit", TyInfo{Fun: types.TyFun{Body: types.UnitType()}})

	a := types.Bound{Index: 0}
	one := []types.BoundVar{{}}
	defineDatatype(env, "bool", types.ConTyFun(types.SymBool, 0), []ConEntry{
		{Name: "false", Info: ValInfo{Scheme: types.Mono(types.Bool), Status: StatusConstructor}},
		{Name: "true", Info: ValInfo{Scheme: types.Mono(types.Bool), Status: StatusConstructor}},
	})
	defineDatatype(env, "list", types.ConTyFun(types.SymList, 1), []ConEntry{
		{Name: "nil", Info: ValInfo{Scheme: types.Scheme{Vars: one, Body: types.ListOf(a)}, Status: StatusConstructor}},
		{Name: "::", Info: ValInfo{Scheme: types.Scheme{Vars: one, Body: types.NewFn(types.Tuple(a, types.ListOf(a)), types.ListOf(a))}, Status: StatusConstructor}},
	})
	defineDatatype(env, "ref", types.ConTyFun(types.SymRef, 1), []ConEntry{
		{Name: "ref", Info: ValInfo{Scheme: types.Scheme{Vars: one, Body: types.NewFn(a, types.RefOf(a))}, Status: StatusConstructor}},
	})

	overloaded := func(class types.Overload, body types.Type) ValInfo {
		return ValInfo{Scheme: types.Scheme{Vars: []types.BoundVar{{Overload: class}}, Body: body}}
	}
	binary := func(class types.Overload) ValInfo {
		return overloaded(class, types.NewFn(types.Tuple(a, a), a))
	}
	compare := func(class types.Overload) ValInfo {
		return overloaded(class, types.NewFn(types.Tuple(a, a), types.Bool))
	}
	for _, op := range []string{"+", "-", "*"} {
		env.DefineValue(op, binary(types.Num))
	}
	env.DefineValue("div", binary(types.WordInt))
	env.DefineValue("mod", binary(types.WordInt))
	env.DefineValue("/", ValInfo{Scheme: types.Mono(types.NewFn(types.Tuple(types.Real, types.Real), types.Real))})
	env.DefineValue("~", overloaded(types.RealInt, types.NewFn(a, a)))
	env.DefineValue("abs", overloaded(types.RealInt, types.NewFn(a, a)))
	for _, op := range []string{"<", ">", "<=", ">="} {
		env.DefineValue(op, compare(types.NumTxt))
	}
	equality := ValInfo{Scheme: types.Scheme{
		Vars: []types.BoundVar{{Equality: true}},
		Body: types.NewFn(types.Tuple(a, a), types.Bool),
	}}
	env.DefineValue("=", equality)
	env.DefineValue("<>", equality)

	file, err := parser.ParseString(basisSource)
	if err != nil {
		panic(fmt.Sprintf("typechecker: parse basis: %v", err))
	}
	c := newChecker(arena, "<basis>")
	delta := c.CheckFile(env, file)
	if len(c.diags) > 0 {
		panic(fmt.Sprintf("typechecker: elaborate basis: %s", diag.Describe(c.diags[0])))
	}
	sig, ok := delta.signatures["BASIS"]
	if !ok {
		panic("typechecker: basis signature missing")
	}
	delete(delta.signatures, "BASIS")
	env.Absorb(delta)
	env.Absorb(sig.Env)
	return env
}

func defineDatatype(env *Env, name string, fun types.TyFun, cons []ConEntry) {
	env.DefineType(name, TyInfo{Fun: fun, Constructors: cons})
	for _, con := range cons {
		env.DefineValue(con.Name, con.Info)
	}
}
