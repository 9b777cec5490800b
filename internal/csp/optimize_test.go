package csp

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// TestSolveMinimizesLinearSum checks a simple anytime-optimization
// scenario: minimize X + 2*Y over X,Y in [1,5].
func TestSolveMinimizesLinearSum(t *testing.T) {
	m := NewModel()
	x := m.NewVar(1, 5, "X")
	y := m.NewVar(1, 5, "Y")
	total := m.NewVar(1, 15, "total")
	m.AddConstraint(NewLinear([]int{x.ID(), y.ID(), total.ID()}, []int{1, 2, -1}, EQ, 0, "total = X+2Y"))

	status, best, err := Solve(context.Background(), m, total.ID(), true, Options{})
	require.NoError(t, err)
	require.Equal(t, Optimal, status)
	require.Equal(t, 3, best.Objective) // X=1, Y=1
}

func TestSolveNodeLimitReportsIncumbent(t *testing.T) {
	m := NewModel()
	x := m.NewVar(1, 5, "X")
	y := m.NewVar(1, 5, "Y")
	total := m.NewVar(1, 15, "total")
	m.AddConstraint(NewLinear([]int{x.ID(), y.ID(), total.ID()}, []int{1, 2, -1}, EQ, 0, "total = X+2Y"))

	status, best, err := Solve(context.Background(), m, total.ID(), true, Options{NodeLimit: 1})
	if err != nil {
		require.ErrorIs(t, err, ErrSearchLimitReached)
		require.Equal(t, Feasible, status)
		require.NotZero(t, best.Objective)
	}
}

func TestSolveInfeasible(t *testing.T) {
	m := NewModel()
	x := m.NewVar(1, 2, "X")
	y := m.NewVar(3, 4, "Y")
	// x == y is impossible given disjoint domains.
	m.AddConstraint(NewLinear([]int{x.ID(), y.ID()}, []int{1, -1}, EQ, 0, "x == y"))
	obj := m.NewVar(0, 10, "obj")
	m.AddConstraint(NewLinear([]int{obj.ID(), x.ID()}, []int{1, -1}, EQ, 0, "obj == x"))

	status, _, err := Solve(context.Background(), m, obj.ID(), true, Options{})
	require.NoError(t, err)
	require.Equal(t, Infeasible, status)
}

func TestSolveHonorsContextCancellation(t *testing.T) {
	m := NewModel()
	xs := make([]int, 6)
	for i := range xs {
		xs[i] = m.NewVar(0, 20, "x").ID()
	}
	obj := m.NewVar(0, 20*6, "obj")
	coeffs := make([]int, len(xs)+1)
	vars := make([]int, len(xs)+1)
	copy(vars, xs)
	for i := range xs {
		coeffs[i] = 1
	}
	vars[len(xs)] = obj.ID()
	coeffs[len(xs)] = -1
	m.AddConstraint(NewLinear(vars, coeffs, EQ, 0, "obj == sum(x)"))

	ctx, cancel := context.WithTimeout(context.Background(), 1*time.Millisecond)
	defer cancel()
	time.Sleep(2 * time.Millisecond)

	status, _, err := Solve(ctx, m, obj.ID(), true, Options{})
	require.Error(t, err)
	require.Contains(t, []Status{NoSolution, Feasible}, status)
}

func TestIncumbentCallbackStrictlyIncreasingIndex(t *testing.T) {
	m := NewModel()
	x := m.NewVar(1, 5, "X")
	obj := m.NewVar(1, 5, "obj")
	m.AddConstraint(NewLinear([]int{x.ID(), obj.ID()}, []int{1, -1}, EQ, 0, "obj == x"))

	var seen []int
	_, _, err := Solve(context.Background(), m, obj.ID(), true, Options{
		OnIncumbent: func(inc Incumbent) bool {
			seen = append(seen, inc.SolutionIndex)
			return true
		},
	})
	require.NoError(t, err)
	for i := 1; i < len(seen); i++ {
		require.Greater(t, seen[i], seen[i-1])
	}
}
