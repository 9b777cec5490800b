package roster

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDeriveTeamSizingDivisible(t *testing.T) {
	sz, err := DeriveTeamSizing(9, 3, false)
	require.NoError(t, err)
	require.Equal(t, 3, sz.NumTeams)
	require.Equal(t, []int{3}, sz.Sizes)
}

func TestDeriveTeamSizingGrow(t *testing.T) {
	sz, err := DeriveTeamSizing(7, 3, false)
	require.NoError(t, err)
	require.Equal(t, 2, sz.NumTeams)
	require.ElementsMatch(t, []int{3, 4}, sz.Sizes)
}

func TestDeriveTeamSizingShrink(t *testing.T) {
	sz, err := DeriveTeamSizing(23, 5, true)
	require.NoError(t, err)
	require.Equal(t, 5, sz.NumTeams)
	require.ElementsMatch(t, []int{4, 5}, sz.Sizes)
}

func TestDeriveTeamSizingUnsolvable(t *testing.T) {
	_, err := DeriveTeamSizing(4, 3, true)
	require.ErrorIs(t, err, ErrUnsolvableSize)
}

func TestDeriveTeamSizingLessThanTargetSingleTeam(t *testing.T) {
	sz, err := DeriveTeamSizing(3, 3, true)
	require.NoError(t, err)
	require.Equal(t, 1, sz.NumTeams)
	require.Equal(t, []int{3}, sz.Sizes)
}

func TestDeriveTeamSizingShrinkTargetTwoRejected(t *testing.T) {
	_, err := DeriveTeamSizing(4, 2, true)
	require.ErrorIs(t, err, ErrBadRequest)
}
