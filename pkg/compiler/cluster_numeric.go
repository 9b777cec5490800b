package compiler

import (
	"fmt"

	"github.com/gitrdm/teamforge/internal/csp"
	"github.com/gitrdm/teamforge/pkg/modelbuilder"
	"github.com/gitrdm/teamforge/pkg/normalizer"
	"github.com/gitrdm/teamforge/pkg/roster"
)

// compileClusterNumeric implements §4.2.2 via the "one member is the
// minimum, one is the maximum" reification the spec calls out as the
// simpler correct alternative to the big-M sandwich: is_min[i,t] and
// is_max[i,t] each pick exactly one team member, mn[t]/mx[t] equal that
// member's value by construction, and a dominance constraint per (team,
// member) forces mn[t] <= every selected member's value and mx[t] >= every
// selected member's value - without the dominance pair, nothing stops
// is_min and is_max from both pointing at the same member, collapsing
// every team's cost to zero regardless of its actual value spread.
func compileClusterNumeric(b *modelbuilder.Builder, attribute string, norm *normalizer.Normalizer) (int, int, error) {
	num, err := norm.Numeric(attribute)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: cluster_numeric(%s): %w", roster.ErrCompileError, attribute, err)
	}
	n, k := b.N(), b.K()
	lo, hi := num.Min, num.Max
	span := hi - lo

	teamCosts := make([]int, k)
	for t := 0; t < k; t++ {
		isMin := make([]*csp.Var, n)
		isMax := make([]*csp.Var, n)
		minIDs := make([]int, n)
		maxIDs := make([]int, n)
		for i := 0; i < n; i++ {
			onID := b.On(i, t)

			im := b.NewBoolVar(fmt.Sprintf("clusternum_%s_ismin_%d_%d", attribute, i, t))
			isMin[i] = im
			minIDs[i] = im.ID()
			b.AddConstraint(csp.NewLinear([]int{im.ID(), onID}, []int{1, -1}, csp.LE, 0,
				fmt.Sprintf("clusternum_%s_ismin_le_on_%d_%d", attribute, i, t)))

			ix := b.NewBoolVar(fmt.Sprintf("clusternum_%s_ismax_%d_%d", attribute, i, t))
			isMax[i] = ix
			maxIDs[i] = ix.ID()
			b.AddConstraint(csp.NewLinear([]int{ix.ID(), onID}, []int{1, -1}, csp.LE, 0,
				fmt.Sprintf("clusternum_%s_ismax_le_on_%d_%d", attribute, i, t)))
		}
		b.AddConstraint(csp.NewLinear(minIDs, onesOf(n), csp.EQ, 1, fmt.Sprintf("clusternum_%s_one_min_%d", attribute, t)))
		b.AddConstraint(csp.NewLinear(maxIDs, onesOf(n), csp.EQ, 1, fmt.Sprintf("clusternum_%s_one_max_%d", attribute, t)))

		mn := b.NewVar(lo, hi, fmt.Sprintf("clusternum_%s_mn_%d", attribute, t))
		mx := b.NewVar(lo, hi, fmt.Sprintf("clusternum_%s_mx_%d", attribute, t))

		mnVars := append([]int{mn.ID()}, minIDs...)
		mnCoeffs := make([]int, len(mnVars))
		mnCoeffs[0] = 1
		for i, v := range num.Values {
			mnCoeffs[i+1] = -v
		}
		b.AddConstraint(csp.NewLinear(mnVars, mnCoeffs, csp.EQ, 0, fmt.Sprintf("clusternum_%s_mn_link_%d", attribute, t)))

		mxVars := append([]int{mx.ID()}, maxIDs...)
		mxCoeffs := make([]int, len(mxVars))
		mxCoeffs[0] = 1
		for i, v := range num.Values {
			mxCoeffs[i+1] = -v
		}
		b.AddConstraint(csp.NewLinear(mxVars, mxCoeffs, csp.EQ, 0, fmt.Sprintf("clusternum_%s_mx_link_%d", attribute, t)))

		// Dominance: mn[t] <= a[j] and mx[t] >= a[j] for every j actually on
		// this team. Written with coefficient span (the tightest slack that
		// can ever be needed, since both mn/mx and every a[j] live in
		// [lo,hi]) rather than an arbitrary big-M constant, so the
		// constraint is vacuous when on[j,t]=0 and exact when on[j,t]=1.
		for i := 0; i < n; i++ {
			onID := b.On(i, t)
			v := num.Values[i]
			b.AddConstraint(csp.NewLinear(
				[]int{mn.ID(), onID}, []int{1, span}, csp.LE, v+span,
				fmt.Sprintf("clusternum_%s_mn_dominates_%d_%d", attribute, i, t)))
			b.AddConstraint(csp.NewLinear(
				[]int{mx.ID(), onID}, []int{1, -span}, csp.GE, v-span,
				fmt.Sprintf("clusternum_%s_mx_dominates_%d_%d", attribute, i, t)))
		}

		teamCost := b.NewVar(0, span, fmt.Sprintf("clusternum_%s_teamcost_%d", attribute, t))
		b.AddConstraint(csp.NewLinear(
			[]int{teamCost.ID(), mx.ID(), mn.ID()}, []int{1, -1, 1}, csp.EQ, 0,
			fmt.Sprintf("clusternum_%s_teamcost_link_%d", attribute, t)))
		teamCosts[t] = teamCost.ID()
	}

	cost := b.NewVar(0, k*span, fmt.Sprintf("clusternum_%s_cost", attribute))
	sumCost(b, cost.ID(), teamCosts, fmt.Sprintf("clusternum_%s_cost_sum", attribute))
	return cost.ID(), k * span, nil
}
