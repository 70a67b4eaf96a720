package types

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRealIsNotAnEqualityType(t *testing.T) {
	a := NewArena()
	err := a.RequireEquality(Tuple(Int, Real))
	var ue *UnifyError
	require.True(t, errors.As(err, &ue))
	assert.Equal(t, NotEqualityType, ue.Kind)
	assert.Equal(t, "real", a.Display(ue.Left))
}

func TestEqualityBasics(t *testing.T) {
	a := NewArena()
	assert.NoError(t, a.RequireEquality(ListOf(Tuple(Int, String))))
	assert.NoError(t, a.RequireEquality(RefOf(Real)))
	assert.Error(t, a.RequireEquality(NewFn(Int, Int)))
	assert.Error(t, a.RequireEquality(Exn))
	assert.NoError(t, a.RequireEquality(UnitType()))
}

func TestEqualityVariableRejectsReal(t *testing.T) {
	a := NewArena()
	v := a.FreshEquality()
	err := a.Unify(v, Real)
	var ue *UnifyError
	require.True(t, errors.As(err, &ue))
	assert.Equal(t, NotEqualityType, ue.Kind)
	require.NoError(t, a.Unify(v, ListOf(Char)))
}

func TestEqualityNarrowsOverloads(t *testing.T) {
	a := NewArena()
	v := a.FreshOverloaded(RealInt)
	require.NoError(t, a.RequireEquality(v))
	assert.Equal(t, "int", a.Display(v))

	r := a.FreshOverloaded(OvReal)
	assert.Error(t, a.RequireEquality(r))
}

func TestEqualityMarksPlainVariables(t *testing.T) {
	a := NewArena()
	v := a.Fresh()
	require.NoError(t, a.RequireEquality(ListOf(v)))
	assert.True(t, a.IsEquality(v))
	assert.Equal(t, "??a list", a.Display(ListOf(v)))
}

func TestFixedVariableEquality(t *testing.T) {
	a := NewArena()
	assert.Error(t, a.RequireEquality(a.NewFixed("'a", false)))
	assert.NoError(t, a.RequireEquality(a.NewFixed("''a", true)))
}

func TestDatatypeEquality(t *testing.T) {
	a := NewArena()
	tree := a.NewSym(SymInfo{Name: "tree", Arity: 1})
	a.SetDatatype(tree, []string{"Leaf", "Node"}, []Type{
		nil,
		Tuple(NewCon(tree, Bound{Index: 0}), Bound{Index: 0}, NewCon(tree, Bound{Index: 0})),
	})
	assert.True(t, a.SymAdmitsEquality(tree))
	assert.NoError(t, a.RequireEquality(NewCon(tree, Int)))
	assert.Error(t, a.RequireEquality(NewCon(tree, Real)))

	fnBox := a.NewSym(SymInfo{Name: "box"})
	a.SetDatatype(fnBox, []string{"Box"}, []Type{NewFn(Int, Int)})
	assert.False(t, a.SymAdmitsEquality(fnBox))
}

func TestMutuallyRecursiveDatatypeEquality(t *testing.T) {
	a := NewArena()
	first := a.NewSym(SymInfo{Name: "a"})
	second := a.NewSym(SymInfo{Name: "b"})
	a.SetDatatype(first, []string{"A", "C"}, []Type{NewCon(second), Real})
	a.SetDatatype(second, []string{"B"}, []Type{NewCon(first)})
	assert.False(t, a.SymAdmitsEquality(first))
	assert.False(t, a.SymAdmitsEquality(second))
}
