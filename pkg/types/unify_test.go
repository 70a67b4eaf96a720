package types

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnifyIdenticalTypesBindsNothing(t *testing.T) {
	a := NewArena()
	v := a.Fresh()
	ty := NewFn(Tuple(Int, ListOf(v)), Bool)
	before := a.Bindings()
	require.NoError(t, a.Unify(ty, ty))
	assert.Equal(t, before, a.Bindings())
}

func TestUnifyBindsVariable(t *testing.T) {
	a := NewArena()
	v := a.Fresh()
	require.NoError(t, a.Unify(ListOf(Int), ListOf(v)))
	assert.Equal(t, "int", a.Display(v))
}

func TestUnifyVarsBindsNewerToOlder(t *testing.T) {
	a := NewArena()
	older := a.Fresh()
	newer := a.Fresh()
	require.NoError(t, a.Unify(newer, older))
	assert.Equal(t, older, a.Resolve(newer))
	assert.Equal(t, older, a.Resolve(older))
}

func TestUnifyHeadMismatchReportsInnermostPair(t *testing.T) {
	a := NewArena()
	expected := ListOf(Int)
	found := ListOf(String)
	err := a.Unify(expected, found)
	var ue *UnifyError
	require.True(t, errors.As(err, &ue))
	assert.Equal(t, HeadMismatch, ue.Kind)
	assert.Equal(t, "int", a.Display(ue.Left))
	assert.Equal(t, "string", a.Display(ue.Right))
	assert.Equal(t, "int list", a.Display(ue.Expected))
	assert.Equal(t, "string list", a.Display(ue.Found))
}

func TestUnifyOccursCheck(t *testing.T) {
	a := NewArena()
	v := a.Fresh()
	err := a.Unify(v, ListOf(v))
	var ue *UnifyError
	require.True(t, errors.As(err, &ue))
	assert.Equal(t, OccursCheck, ue.Kind)
	assert.Equal(t, v, a.Resolve(v))
}

func TestUnifyUnknownIsSilent(t *testing.T) {
	a := NewArena()
	before := a.Bindings()
	require.NoError(t, a.Unify(Unknown{}, NewFn(Int, Real)))
	require.NoError(t, a.Unify(Bool, Unknown{}))
	assert.Equal(t, before, a.Bindings())
}

func TestUnifyRecordLabelsMustMatch(t *testing.T) {
	a := NewArena()
	l := NewRecord(map[string]Type{"a": Int})
	r := NewRecord(map[string]Type{"b": Int})
	err := a.Unify(l, r)
	var ue *UnifyError
	require.True(t, errors.As(err, &ue))
	assert.Equal(t, HeadMismatch, ue.Kind)
}

func TestFixedVariablesOnlyUnifyWithThemselves(t *testing.T) {
	a := NewArena()
	x := a.NewFixed("'a", false)
	y := a.NewFixed("'b", false)
	require.NoError(t, a.Unify(x, x))
	assert.Error(t, a.Unify(x, y))
	assert.Error(t, a.Unify(x, Int))
}

func TestDistinctOpaqueSymsAreIncompatible(t *testing.T) {
	a := NewArena()
	s1 := a.NewSym(SymInfo{Name: "A.t", Abstract: true})
	s2 := a.NewSym(SymInfo{Name: "B.t", Abstract: true})
	err := a.Unify(NewCon(s1), NewCon(s2))
	var ue *UnifyError
	require.True(t, errors.As(err, &ue))
	assert.Equal(t, HeadMismatch, ue.Kind)
	assert.Equal(t, "A.t", a.Display(ue.Expected))
	assert.Equal(t, "B.t", a.Display(ue.Found))
}

func TestGeneralizeRespectsLevels(t *testing.T) {
	a := NewArena()
	outer := a.Fresh()
	a.EnterLevel()
	inner := a.Fresh()
	a.LeaveLevel()
	s := a.Generalize(NewFn(inner, outer))
	require.Len(t, s.Vars, 1)
	assert.Equal(t, NewFn(Bound{Index: 0}, outer), s.Body)

	first := a.Instantiate(s)
	second := a.Instantiate(s)
	require.NoError(t, a.Unify(first, NewFn(Int, outer)))
	require.NoError(t, a.Unify(second, NewFn(String, outer)))
}

func TestGeneralizeSkipsOverloadedVariables(t *testing.T) {
	a := NewArena()
	a.EnterLevel()
	v := a.FreshOverloaded(Num)
	a.LeaveLevel()
	s := a.Generalize(NewFn(Tuple(v, v), v))
	assert.Empty(t, s.Vars)
}

func TestBindingLowersLevels(t *testing.T) {
	a := NewArena()
	outer := a.Fresh()
	a.EnterLevel()
	inner := a.Fresh()
	require.NoError(t, a.Unify(outer, ListOf(inner)))
	a.LeaveLevel()
	s := a.Generalize(inner)
	assert.Empty(t, s.Vars)
}

func TestFrozenArenaPanics(t *testing.T) {
	a := NewArena()
	v := a.Fresh()
	a.Freeze()
	assert.True(t, a.Frozen())
	assert.Panics(t, func() { a.Fresh() })
	assert.Panics(t, func() { _ = a.Unify(v, Int) })
}

func TestSettleBindsVariableAfterEqualityFailure(t *testing.T) {
	a := NewArena()
	v := a.FreshEquality()
	err := a.Unify(v, Real)
	require.Error(t, err)
	_, stillVar := a.Resolve(v).(Var)
	assert.True(t, stillVar)

	a.Settle(err)
	assert.Equal(t, "real", a.Display(v))
	require.NoError(t, a.Unify(v, Real))
}

func TestSettleBindsVariableAfterOverloadFailure(t *testing.T) {
	a := NewArena()
	v := a.FreshOverloaded(OvInt | OvReal)
	err := a.Unify(v, String)
	require.Error(t, err)
	a.Settle(err)
	assert.Equal(t, "string", a.Display(v))
	a.ResolveOverloads()
	assert.Equal(t, "string", a.Display(v))
}

func TestSettleClosesFailedRecordVariable(t *testing.T) {
	a := NewArena()
	r := a.FreshRecord(map[string]Type{"c": a.Fresh()})
	err := a.Unify(r, NewRecord(map[string]Type{"a": Int}))
	require.Error(t, err)
	require.Len(t, a.UnresolvedRecords(), 1)

	a.Settle(err)
	assert.Empty(t, a.UnresolvedRecords())
}

func TestSettleIgnoresOtherErrors(t *testing.T) {
	a := NewArena()
	a.Settle(errors.New("unrelated"))
	a.Settle(nil)
}
