package csp

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLinearPropagateNarrowsBounds(t *testing.T) {
	m := NewModel()
	x := m.NewVar(0, 10, "x")
	y := m.NewVar(0, 10, "y")
	c := NewLinear([]int{x.ID(), y.ID()}, []int{1, 1}, EQ, 5, "x+y==5")
	m.AddConstraint(c)

	s, err := Propagate(m, m.InitialState())
	require.NoError(t, err)
	require.Equal(t, 0, s.Domain(x.ID()).Lo)
	require.Equal(t, 5, s.Domain(x.ID()).Hi)
}

func TestLinearPropagateDetectsInconsistency(t *testing.T) {
	m := NewModel()
	x := m.NewVar(6, 10, "x")
	y := m.NewVar(6, 10, "y")
	m.AddConstraint(NewLinear([]int{x.ID(), y.ID()}, []int{1, 1}, EQ, 5, "x+y==5"))

	_, err := Propagate(m, m.InitialState())
	require.ErrorIs(t, err, ErrInconsistent)
}

func TestLinearExactlyOneForcesRemainderToZero(t *testing.T) {
	m := NewModel()
	b1 := m.NewBoolVar("b1")
	b2 := m.NewBoolVar("b2")
	m.AddConstraint(NewLinear([]int{b1.ID(), b2.ID()}, []int{1, 1}, EQ, 1, "exactly-one"))

	s := m.InitialState().WithDomain(b1.ID(), Singleton(1))
	s, err := Propagate(m, s)
	require.NoError(t, err)
	require.True(t, s.Domain(b2.ID()).IsSingleton())
	require.Equal(t, 0, s.Domain(b2.ID()).SingletonValue())
}
