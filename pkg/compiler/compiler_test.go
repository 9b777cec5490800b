package compiler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/gitrdm/teamforge/internal/csp"
	"github.com/gitrdm/teamforge/pkg/modelbuilder"
	"github.com/gitrdm/teamforge/pkg/normalizer"
	"github.com/gitrdm/teamforge/pkg/roster"
)

func yearsRoster(t *testing.T) []roster.Participant {
	t.Helper()
	years := []float64{1, 2, 3, 10, 11, 12, 20, 21, 22}
	participants := make([]roster.Participant, len(years))
	for i, y := range years {
		yy := y
		participants[i] = roster.Participant{
			ID:         "p",
			Attributes: map[string]roster.AttrValue{"years": {Numeric: &yy}},
		}
	}
	return participants
}

// TestClusterNumericMatchesScenario4 mirrors spec scenario #4: three
// clusters of three consecutive ages each yield ranges 2,2,2 and objective 6.
func TestClusterNumericMatchesScenario4(t *testing.T) {
	participants := yearsRoster(t)
	sizing, err := roster.DeriveTeamSizing(len(participants), 3, false)
	require.NoError(t, err)

	b, err := modelbuilder.New(len(participants), sizing)
	require.NoError(t, err)

	norm := normalizer.New(participants)
	_, err = Compile(b, roster.ConstraintSpec{Attribute: "years", Kind: roster.ClusterNumeric, Weight: 1}, norm)
	require.NoError(t, err)

	objID := b.Finalize()
	require.NoError(t, b.Model().Validate())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	status, incumbent, err := csp.Solve(ctx, b.Model(), objID, true, csp.Options{TimeLimit: 10 * time.Second})
	require.NoError(t, err)
	require.Equal(t, csp.Optimal, status)
	require.Equal(t, 6, incumbent.Objective)
}

func TestRoundHalfToEven(t *testing.T) {
	require.Equal(t, 2, roundHalfToEven(5, 2))  // 2.5 -> 2
	require.Equal(t, 4, roundHalfToEven(7, 2))  // 3.5 -> 4
	require.Equal(t, 0, roundHalfToEven(1, 3))  // 0.33 -> 0
	require.Equal(t, 0, roundHalfToEven(1, 10)) // 0.1 -> 0
}
