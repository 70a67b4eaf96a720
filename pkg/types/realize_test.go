package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRealizationApplies(t *testing.T) {
	a := NewArena()
	abs := a.NewSym(SymInfo{Name: "S.t", Arity: 1, Abstract: true})
	r := Realization{abs: {Arity: 1, Body: Tuple(Bound{Index: 0}, Int)}}
	got := r.Apply(NewFn(NewCon(abs, Bool), Int))
	assert.Equal(t, "bool * int -> int", a.Display(got))
}

func TestRenewMintsDistinctSyms(t *testing.T) {
	a := NewArena()
	lo := a.SymCount()
	t1 := a.NewSym(SymInfo{Name: "t"})
	a.SetDatatype(t1, []string{"A"}, []Type{NewCon(t1)})
	hi := a.SymCount()

	r := a.Renew(SymRange(lo, hi), nil, func(name string) string { return "F." + name }, false)
	fresh, ok := r[t1].AsSym()
	require.True(t, ok)
	assert.NotEqual(t, t1, fresh)
	assert.Equal(t, "F.t", a.SymInfo(fresh).Name)
	assert.Equal(t, []Type{NewCon(fresh)}, a.SymInfo(fresh).ConArgs)
	assert.Error(t, a.Unify(NewCon(t1), NewCon(fresh)))
}

func TestRenewAbstractHidesConstructors(t *testing.T) {
	a := NewArena()
	t1 := a.NewSym(SymInfo{Name: "t"})
	a.SetDatatype(t1, []string{"A"}, []Type{nil})
	r := a.Renew([]Sym{t1}, nil, nil, true)
	fresh, ok := r[t1].AsSym()
	require.True(t, ok)
	info := a.SymInfo(fresh)
	assert.True(t, info.Abstract)
	assert.Empty(t, info.Constructors)
	assert.False(t, a.SymAdmitsEquality(fresh))
}
