package normalizer

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gitrdm/teamforge/pkg/roster"
)

func mkParticipant(id string, attrs map[string]roster.AttrValue) roster.Participant {
	return roster.Participant{ID: id, Attributes: attrs}
}

func scalarCell(v any) roster.AttrValue {
	sv := roster.NewScalarValue(v)
	return roster.AttrValue{Scalar: &sv}
}

func TestDiscreteAssignsStableIDsInCanonicalOrder(t *testing.T) {
	participants := []roster.Participant{
		mkParticipant("a", map[string]roster.AttrValue{"role": scalarCell("Manager")}),
		mkParticipant("b", map[string]roster.AttrValue{"role": scalarCell("Contributor")}),
		mkParticipant("c", map[string]roster.AttrValue{"role": scalarCell("Executive")}),
	}
	n := New(participants)
	d, err := n.Discrete("role")
	require.NoError(t, err)
	require.Len(t, d.Values, 3)
	// "Contributor" < "Executive" < "Manager" lexicographically.
	require.Equal(t, "Contributor", d.Values[0].String())
	require.Equal(t, "Executive", d.Values[1].String())
	require.Equal(t, "Manager", d.Values[2].String())
}

func TestDiscreteMultiValuedAdmissibleSet(t *testing.T) {
	multi := roster.AttrValue{Multi: []roster.ScalarValue{
		roster.NewScalarValue("05-10"),
		roster.NewScalarValue("10-15"),
	}}
	participants := []roster.Participant{
		mkParticipant("a", map[string]roster.AttrValue{"working_time_list": multi}),
		mkParticipant("b", map[string]roster.AttrValue{"working_time_list": scalarCell("10-15")}),
	}
	n := New(participants)
	d, err := n.Discrete("working_time_list")
	require.NoError(t, err)
	require.Len(t, d.Admissible[0], 2)
	require.Len(t, d.Admissible[1], 1)
}

func TestDiscreteMissingAttributeErrors(t *testing.T) {
	participants := []roster.Participant{
		mkParticipant("a", map[string]roster.AttrValue{"role": scalarCell("Manager")}),
		mkParticipant("b", map[string]roster.AttrValue{}),
	}
	n := New(participants)
	_, err := n.Discrete("role")
	require.ErrorIs(t, err, roster.ErrMissingAttribute)
}

func TestNumericRoundsHalfToEven(t *testing.T) {
	a, b := 2.5, 3.5
	participants := []roster.Participant{
		mkParticipant("a", map[string]roster.AttrValue{"years": {Numeric: &a}}),
		mkParticipant("b", map[string]roster.AttrValue{"years": {Numeric: &b}}),
	}
	n := New(participants)
	num, err := n.Numeric("years")
	require.NoError(t, err)
	require.Equal(t, 2, num.Values[0]) // round-half-to-even: 2.5 -> 2
	require.Equal(t, 4, num.Values[1]) // 3.5 -> 4
	require.Equal(t, 2, num.Min)
	require.Equal(t, 4, num.Max)
}

func TestNumericRejectsNonNumeric(t *testing.T) {
	participants := []roster.Participant{
		mkParticipant("a", map[string]roster.AttrValue{"years": scalarCell("not-a-number")}),
	}
	n := New(participants)
	_, err := n.Numeric("years")
	require.ErrorIs(t, err, roster.ErrNonNumericAttribute)
}

func TestDiversifyPopulationPriorsCountMultiValuedOnce(t *testing.T) {
	multi := roster.AttrValue{Multi: []roster.ScalarValue{
		roster.NewScalarValue("x"),
		roster.NewScalarValue("y"),
	}}
	participants := []roster.Participant{
		mkParticipant("a", map[string]roster.AttrValue{"tag_list": multi}),
		mkParticipant("b", map[string]roster.AttrValue{"tag_list": scalarCell("x")}),
	}
	n := New(participants)
	d, err := n.Discrete("tag_list")
	require.NoError(t, err)
	var xCount, yCount int
	for id, v := range d.Values {
		switch v.String() {
		case "x":
			xCount = d.PopCount[id]
		case "y":
			yCount = d.PopCount[id]
		}
	}
	require.Equal(t, 2, xCount) // both participants admit "x"
	require.Equal(t, 1, yCount)
}
