package searchdriver

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/gitrdm/teamforge/internal/csp"
	"github.com/gitrdm/teamforge/pkg/metrics"
	"github.com/gitrdm/teamforge/pkg/teamlog"
)

func TestDriverSolveReportsOptimalAndIncumbents(t *testing.T) {
	m := csp.NewModel()
	x := m.NewVar(1, 5, "x")
	y := m.NewVar(1, 5, "y")
	obj := m.NewVar(0, 10, "obj")
	m.AddConstraint(csp.NewLinear([]int{obj.ID(), x.ID(), y.ID()}, []int{1, -1, -2}, csp.EQ, 0, "obj_link"))

	reg := prometheus.NewRegistry()
	d := New(teamlog.New(nil, "error"), metrics.NewSolver(reg))

	var incumbents []csp.Incumbent
	result, err := d.Solve(context.Background(), m, obj.ID(), 5*time.Second, func(inc csp.Incumbent) {
		incumbents = append(incumbents, inc)
	})
	require.NoError(t, err)
	require.Equal(t, csp.Optimal, result.Status)
	require.Equal(t, 3, result.Incumbent.Objective)
	require.NotEmpty(t, incumbents)
}
