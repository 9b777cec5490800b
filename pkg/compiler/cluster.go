package compiler

import (
	"fmt"

	"github.com/gitrdm/teamforge/internal/csp"
	"github.com/gitrdm/teamforge/pkg/modelbuilder"
	"github.com/gitrdm/teamforge/pkg/normalizer"
	"github.com/gitrdm/teamforge/pkg/roster"
)

// compileCluster implements §4.2.1: each team picks a single "cluster
// value" team_chosen[t,v]; a participant is matched if that value is one of
// its admissible ids. Cost is the count of unmatched participants.
func compileCluster(b *modelbuilder.Builder, attribute string, norm *normalizer.Normalizer) (int, int, error) {
	disc, err := norm.Discrete(attribute)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: cluster(%s): %w", roster.ErrCompileError, attribute, err)
	}
	n, k := b.N(), b.K()
	nv := len(disc.Values)

	// team_chosen[t][v]: exactly one cluster value per team.
	teamChosen := make([][]*csp.Var, k)
	for t := 0; t < k; t++ {
		teamChosen[t] = make([]*csp.Var, nv)
		ids := make([]int, nv)
		for v := 0; v < nv; v++ {
			tc := b.NewBoolVar(fmt.Sprintf("cluster_%s_team_chosen_%d_%d", attribute, t, v))
			teamChosen[t][v] = tc
			ids[v] = tc.ID()
		}
		ones := onesOf(nv)
		b.AddConstraint(csp.NewLinear(ids, ones, csp.EQ, 1, fmt.Sprintf("cluster_%s_team_chosen_one_%d", attribute, t)))
	}

	missVars := make([]int, 0, n*k)
	for i := 0; i < n; i++ {
		admissible := disc.Admissible[i]
		for t := 0; t < k; t++ {
			miss := b.NewBoolVar(fmt.Sprintf("cluster_%s_miss_%d_%d", attribute, i, t))
			onID := b.On(i, t)

			// miss <= on[i,t]
			b.AddConstraint(csp.NewLinear([]int{miss.ID(), onID}, []int{1, -1}, csp.LE, 0,
				fmt.Sprintf("cluster_%s_miss_le_on_%d_%d", attribute, i, t)))

			// matched = sum_{v in admissible} team_chosen[t,v]; miss <= 1-matched
			// and miss >= on[i,t]-matched, i.e. miss is AND(on[i,t], NOT matched).
			leVars := []int{miss.ID()}
			leCoeffs := []int{1}
			geVars := []int{miss.ID(), onID}
			geCoeffs := []int{1, -1}
			for _, v := range admissible {
				tcID := teamChosen[t][v].ID()
				leVars = append(leVars, tcID)
				leCoeffs = append(leCoeffs, 1)
				geVars = append(geVars, tcID)
				geCoeffs = append(geCoeffs, 1)
			}
			b.AddConstraint(csp.NewLinear(leVars, leCoeffs, csp.LE, 1, fmt.Sprintf("cluster_%s_miss_unmatched_%d_%d", attribute, i, t)))
			b.AddConstraint(csp.NewLinear(geVars, geCoeffs, csp.GE, 0, fmt.Sprintf("cluster_%s_miss_matched_%d_%d", attribute, i, t)))

			missVars = append(missVars, miss.ID())
		}
	}

	cost := b.NewVar(0, n, fmt.Sprintf("cluster_%s_cost", attribute))
	sumCost(b, cost.ID(), missVars, fmt.Sprintf("cluster_%s_cost_sum", attribute))
	return cost.ID(), n, nil
}

func onesOf(n int) []int {
	ones := make([]int, n)
	for i := range ones {
		ones[i] = 1
	}
	return ones
}

// sumCost registers costVar - sum(terms) = 0.
func sumCost(b *modelbuilder.Builder, costVarID int, terms []int, label string) {
	vars := append([]int{costVarID}, terms...)
	coeffs := make([]int, len(vars))
	coeffs[0] = 1
	for i := range terms {
		coeffs[i+1] = -1
	}
	b.AddConstraint(csp.NewLinear(vars, coeffs, csp.EQ, 0, label))
}
