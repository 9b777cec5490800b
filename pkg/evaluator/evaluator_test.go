package evaluator

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gitrdm/teamforge/pkg/roster"
)

func numericParticipant(y float64) roster.Participant {
	yy := y
	return roster.Participant{ID: "p", Attributes: map[string]roster.AttrValue{"years": {Numeric: &yy}}}
}

func scalarParticipant(attr string, v any) roster.Participant {
	sv := roster.NewScalarValue(v)
	return roster.Participant{ID: "p", Attributes: map[string]roster.AttrValue{attr: {Scalar: &sv}}}
}

func TestEvaluateClusterNumericScenario4(t *testing.T) {
	years := []float64{1, 2, 3, 10, 11, 12, 20, 21, 22}
	participants := make([]roster.Participant, len(years))
	for i, y := range years {
		participants[i] = numericParticipant(y)
	}
	assignment := []int{0, 0, 0, 1, 1, 1, 2, 2, 2}
	rows, err := Evaluate(participants, []roster.ConstraintSpec{{Attribute: "years", Kind: roster.ClusterNumeric, Weight: 1}}, assignment, 3)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	for _, r := range rows {
		require.Equal(t, 2, r.Miss)
	}
}

func TestEvaluateClusterAllShareValueZeroMiss(t *testing.T) {
	participants := make([]roster.Participant, 6)
	for i := range participants {
		participants[i] = scalarParticipant("dept", "Eng")
	}
	assignment := []int{0, 0, 0, 1, 1, 1}
	rows, err := Evaluate(participants, []roster.ConstraintSpec{{Attribute: "dept", Kind: roster.Cluster, Weight: 1}}, assignment, 2)
	require.NoError(t, err)
	for _, r := range rows {
		require.Zero(t, r.Miss)
	}
}

func TestEvaluateDifferentAllDistinctZeroMiss(t *testing.T) {
	values := []string{"a", "b", "c", "d", "e", "f"}
	participants := make([]roster.Participant, len(values))
	for i, v := range values {
		participants[i] = scalarParticipant("role", v)
	}
	assignment := []int{0, 0, 0, 1, 1, 1}
	rows, err := Evaluate(participants, []roster.ConstraintSpec{{Attribute: "role", Kind: roster.Different, Weight: 1}}, assignment, 2)
	require.NoError(t, err)
	for _, r := range rows {
		require.Zero(t, r.Miss)
	}
}

func TestEvaluateDiversifyBoundaryFiftyFifty(t *testing.T) {
	// N=2T with T=3, binary attribute 50/50 split: the ideal count 1.5 rounds
	// half-to-even to 2 for both values, so every 3-member team misses by 1.
	participants := make([]roster.Participant, 6)
	for i := 0; i < 3; i++ {
		participants[i] = scalarParticipant("gender", "F")
	}
	for i := 3; i < 6; i++ {
		participants[i] = scalarParticipant("gender", "M")
	}
	assignment := []int{0, 0, 1, 1, 0, 1} // two teams of 3, each 2F+1M or 1F+2M... let's balance evenly
	// Team 0: participants 0(F),1(F),4(M) -> 2F,1M; team1: 2(F),3(M),5(M) -> 1F,2M. The interleaved assignment below gives the same split.
	assignment = []int{0, 1, 0, 1, 0, 1} // team0: p0(F),p2(F),p4(M); team1: p1(F),p3(M),p5(M)
	rows, err := Evaluate(participants, []roster.ConstraintSpec{{Attribute: "gender", Kind: roster.Diversify, Weight: 2}}, assignment, 2)
	require.NoError(t, err)
	for _, r := range rows {
		require.Equal(t, 1, r.Miss) // ideal per team is 1.5F/1.5M, each rounded half-to-even to 2 -> best achievable miss is 1
	}
}
