package compiler

import (
	"fmt"

	"github.com/gitrdm/teamforge/internal/csp"
	"github.com/gitrdm/teamforge/pkg/modelbuilder"
	"github.com/gitrdm/teamforge/pkg/normalizer"
	"github.com/gitrdm/teamforge/pkg/roster"
)

// compileDifferent implements §4.2.3: each participant on a team claims one
// admissible value (chose), team_has[t,v] is an OR over every claim of v,
// and the cost is the number of teammates beyond the first to share a
// claimed value (team size minus distinct claimed values).
func compileDifferent(b *modelbuilder.Builder, attribute string, norm *normalizer.Normalizer) (int, int, error) {
	disc, err := norm.Discrete(attribute)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: different(%s): %w", roster.ErrCompileError, attribute, err)
	}
	n, k := b.N(), b.K()
	nv := len(disc.Values)

	// valueToParticipants[v] -> participant ids that may claim v.
	valueToParticipants := make([][]int, nv)
	for i := 0; i < n; i++ {
		for _, v := range disc.Admissible[i] {
			valueToParticipants[v] = append(valueToParticipants[v], i)
		}
	}

	chose := make([][]map[int]*csp.Var, n) // chose[i][t][v]
	for i := 0; i < n; i++ {
		chose[i] = make([]map[int]*csp.Var, k)
	}

	teamHas := make([][]*csp.Var, k)
	for t := 0; t < k; t++ {
		teamHas[t] = make([]*csp.Var, nv)
	}

	for i := 0; i < n; i++ {
		admissible := disc.Admissible[i]
		for t := 0; t < k; t++ {
			ids := make([]int, 0, len(admissible))
			chose[i][t] = make(map[int]*csp.Var, len(admissible))
			for _, v := range admissible {
				c := b.NewBoolVar(fmt.Sprintf("different_%s_chose_%d_%d_%d", attribute, i, t, v))
				chose[i][t][v] = c
				ids = append(ids, c.ID())
			}
			onID := b.On(i, t)
			vars := append([]int{onID}, ids...)
			coeffs := make([]int, len(vars))
			coeffs[0] = -1
			for j := range ids {
				coeffs[j+1] = 1
			}
			b.AddConstraint(csp.NewLinear(vars, coeffs, csp.EQ, 0,
				fmt.Sprintf("different_%s_chose_sum_%d_%d", attribute, i, t)))
		}
	}

	for t := 0; t < k; t++ {
		for v := 0; v < nv; v++ {
			participants := valueToParticipants[v]
			if len(participants) == 0 {
				continue
			}
			th := b.NewBoolVar(fmt.Sprintf("different_%s_teamhas_%d_%d", attribute, t, v))
			teamHas[t][v] = th

			sumVars := make([]int, 0, len(participants))
			for _, i := range participants {
				cID := chose[i][t][v].ID()
				sumVars = append(sumVars, cID)
				// team_has >= chose[i,t,v]
				b.AddConstraint(csp.NewLinear([]int{th.ID(), cID}, []int{1, -1}, csp.GE, 0,
					fmt.Sprintf("different_%s_teamhas_ge_%d_%d_%d", attribute, t, v, i)))
			}
			// team_has <= sum_i chose[i,t,v]
			leVars := append([]int{th.ID()}, sumVars...)
			leCoeffs := make([]int, len(leVars))
			leCoeffs[0] = 1
			for j := range sumVars {
				leCoeffs[j+1] = -1
			}
			b.AddConstraint(csp.NewLinear(leVars, leCoeffs, csp.LE, 0,
				fmt.Sprintf("different_%s_teamhas_le_%d_%d", attribute, t, v)))
		}
	}

	teamCosts := make([]int, k)
	for t := 0; t < k; t++ {
		size := b.SizeExprFor(t)
		distinctVars := make([]int, 0, nv)
		for v := 0; v < nv; v++ {
			if teamHas[t][v] != nil {
				distinctVars = append(distinctVars, teamHas[t][v].ID())
			}
		}

		teamCost := b.NewVar(0, maxTeamSize(b, t), fmt.Sprintf("different_%s_teamcost_%d", attribute, t))
		// teamCost + sum_v team_has[t,v] - size.Coeff*size.Var = size.Const
		vars := append([]int{teamCost.ID()}, distinctVars...)
		coeffs := make([]int, len(vars))
		coeffs[0] = 1
		for j := range distinctVars {
			coeffs[j+1] = 1
		}
		rhs := size.Const
		if size.VarID >= 0 {
			vars = append(vars, size.VarID)
			coeffs = append(coeffs, -size.Coeff)
		}
		b.AddConstraint(csp.NewLinear(vars, coeffs, csp.EQ, rhs, fmt.Sprintf("different_%s_teamcost_link_%d", attribute, t)))
		teamCosts[t] = teamCost.ID()
	}

	cost := b.NewVar(0, n, fmt.Sprintf("different_%s_cost", attribute))
	sumCost(b, cost.ID(), teamCosts, fmt.Sprintf("different_%s_cost_sum", attribute))
	return cost.ID(), n, nil
}

// maxTeamSize bounds a single team's size variable, for sizing auxiliary
// per-team cost variables generously without tracking exact admissible
// sizes per team.
func maxTeamSize(b *modelbuilder.Builder, t int) int {
	size := b.SizeExprFor(t)
	if size.VarID < 0 {
		return size.Const
	}
	return size.Const + size.Coeff
}
