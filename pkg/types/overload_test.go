package types

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOverloadClassNames(t *testing.T) {
	cases := map[Overload]string{
		WordInt:          "<wordint>",
		RealInt:          "<realint>",
		Num:              "<num>",
		NumTxt:           "<numtxt>",
		WordIntTxt:       "<wordinttxt>",
		OvInt | OvString: "<int|string>",
		OvReal:           "real",
	}
	for class, want := range cases {
		assert.Equal(t, want, class.String())
	}
}

func TestOverloadDefault(t *testing.T) {
	assert.Equal(t, SymInt, Num.Default())
	assert.Equal(t, SymWord, (OvWord | OvString).Default())
	assert.Equal(t, SymReal, OvReal.Default())
}

func TestOverloadNarrowingIsOrderIndependent(t *testing.T) {
	run := func(first, second func(a *Arena, v Var) error) string {
		a := NewArena()
		v := a.FreshOverloaded(Num)
		require.NoError(t, first(a, v))
		require.NoError(t, second(a, v))
		return a.Display(v)
	}
	withWordInt := func(a *Arena, v Var) error { return a.Unify(v, a.FreshOverloaded(WordInt)) }
	withWord := func(a *Arena, v Var) error { return a.Unify(Word, v) }

	assert.Equal(t, "word", run(withWordInt, withWord))
	assert.Equal(t, "word", run(withWord, withWordInt))
}

func TestOverloadIntersectionToSingletonBinds(t *testing.T) {
	a := NewArena()
	x := a.FreshOverloaded(WordInt)
	y := a.FreshOverloaded(RealInt)
	require.NoError(t, a.Unify(x, y))
	assert.Equal(t, "int", a.Display(x))
	assert.Equal(t, "int", a.Display(y))
}

func TestOverloadRejectsGroundTypeOutsideClass(t *testing.T) {
	a := NewArena()
	v := a.FreshOverloaded(Num)
	err := a.Unify(v, String)
	var ue *UnifyError
	require.True(t, errors.As(err, &ue))
	assert.Equal(t, NotInOverloadClass, ue.Kind)
	assert.Equal(t, Num, ue.Class)
	// a failed narrowing leaves the variable unbound
	assert.Equal(t, Num, a.Overload(v))
}

func TestOverloadIncompatibleNamesBothClasses(t *testing.T) {
	a := NewArena()
	x := a.FreshOverloaded(OvReal)
	y := a.FreshOverloaded(WordInt)
	err := a.Unify(x, y)
	var ue *UnifyError
	require.True(t, errors.As(err, &ue))
	assert.Equal(t, OverloadIncompatible, ue.Kind)
	assert.ElementsMatch(t, []Overload{OvReal, WordInt}, []Overload{ue.Class, ue.Other})
}

func TestResolveOverloadsDefaults(t *testing.T) {
	a := NewArena()
	num := a.FreshOverloaded(Num)
	txt := a.FreshOverloaded(OvString | OvChar)
	a.ResolveOverloads()
	assert.Equal(t, "int", a.Display(num))
	assert.Equal(t, "string", a.Display(txt))
}

func TestResolveOverloadsClosesRecords(t *testing.T) {
	a := NewArena()
	v := a.FreshRecord(map[string]Type{"x": Int})
	assert.Equal(t, "{ x : int, ... }", a.Display(v))
	a.ResolveOverloads()
	require.Len(t, a.UnresolvedRecords(), 1)
	a.CloseRecords()
	assert.Empty(t, a.UnresolvedRecords())
	assert.Equal(t, "{ x : int }", a.Display(v))
}

func TestRecordVariableNarrowsToRecord(t *testing.T) {
	a := NewArena()
	v := a.FreshRecord(map[string]Type{"x": a.Fresh()})
	rec := NewRecord(map[string]Type{"x": Real, "y": Int})
	require.NoError(t, a.Unify(v, rec))
	assert.Empty(t, a.UnresolvedRecords())
	assert.Equal(t, "{ x : real, y : int }", a.Display(v))
}
