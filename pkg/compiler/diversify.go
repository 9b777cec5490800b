package compiler

import (
	"fmt"

	"github.com/gitrdm/teamforge/internal/csp"
	"github.com/gitrdm/teamforge/pkg/modelbuilder"
	"github.com/gitrdm/teamforge/pkg/normalizer"
	"github.com/gitrdm/teamforge/pkg/roster"
)

// compileDiversify implements §4.2.4: per (team, value) deviation between
// the claimed count and the size-scaled population proportion, with the
// absolute value expressed as two one-sided inequalities plus a
// non-negative auxiliary rather than a native abs primitive (§9, §4.2.4
// rationale: portability across solver implementations of equality-of-abs).
func compileDiversify(b *modelbuilder.Builder, attribute string, norm *normalizer.Normalizer) (int, int, error) {
	disc, err := norm.Discrete(attribute)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: diversify(%s): %w", roster.ErrCompileError, attribute, err)
	}
	n, k := b.N(), b.K()
	nv := len(disc.Values)

	valueToParticipants := make([][]int, nv)
	for i := 0; i < n; i++ {
		for _, v := range disc.Admissible[i] {
			valueToParticipants[v] = append(valueToParticipants[v], i)
		}
	}

	chose := make([][]map[int]*csp.Var, n)
	for i := 0; i < n; i++ {
		chose[i] = make([]map[int]*csp.Var, k)
		admissible := disc.Admissible[i]
		for t := 0; t < k; t++ {
			ids := make([]int, 0, len(admissible))
			chose[i][t] = make(map[int]*csp.Var, len(admissible))
			for _, v := range admissible {
				c := b.NewBoolVar(fmt.Sprintf("diversify_%s_chose_%d_%d_%d", attribute, i, t, v))
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
				fmt.Sprintf("diversify_%s_chose_sum_%d_%d", attribute, i, t)))
		}
	}

	devVars := make([]int, 0, k*nv)
	for t := 0; t < k; t++ {
		size := b.SizeExprFor(t)
		for v := 0; v < nv; v++ {
			participants := valueToParticipants[v]
			if len(participants) == 0 {
				continue
			}
			idealConst := roundHalfToEven(size.Const*disc.PopCount[v], n)
			idealCoeff := 0
			if size.VarID >= 0 {
				idealBig := roundHalfToEven((size.Const+size.Coeff)*disc.PopCount[v], n)
				idealCoeff = idealBig - idealConst
			}

			maxCount := len(participants)
			maxIdeal := idealConst
			if idealConst+idealCoeff > maxIdeal {
				maxIdeal = idealConst + idealCoeff
			}
			devBound := maxCount + maxIdeal

			dev := b.NewVar(0, devBound, fmt.Sprintf("diversify_%s_dev_%d_%d", attribute, t, v))

			countVars := make([]int, 0, len(participants))
			for _, i := range participants {
				countVars = append(countVars, chose[i][t][v].ID())
			}

			// dev - count + idealConst + idealCoeff*bigSel >= 0  (dev >= count - ideal)
			geVars := append([]int{dev.ID()}, countVars...)
			geCoeffs := make([]int, len(geVars))
			geCoeffs[0] = 1
			for j := range countVars {
				geCoeffs[j+1] = -1
			}
			rhs1 := -idealConst
			if size.VarID >= 0 {
				geVars = append(geVars, size.VarID)
				geCoeffs = append(geCoeffs, idealCoeff)
			}
			b.AddConstraint(csp.NewLinear(geVars, geCoeffs, csp.GE, rhs1,
				fmt.Sprintf("diversify_%s_dev_ge_count_%d_%d", attribute, t, v)))

			// dev + count - idealConst - idealCoeff*bigSel >= 0  (dev >= ideal - count)
			geVars2 := append([]int{dev.ID()}, countVars...)
			geCoeffs2 := make([]int, len(geVars2))
			geCoeffs2[0] = 1
			for j := range countVars {
				geCoeffs2[j+1] = 1
			}
			rhs2 := idealConst
			if size.VarID >= 0 {
				geVars2 = append(geVars2, size.VarID)
				geCoeffs2 = append(geCoeffs2, -idealCoeff)
			}
			b.AddConstraint(csp.NewLinear(geVars2, geCoeffs2, csp.GE, rhs2,
				fmt.Sprintf("diversify_%s_dev_ge_ideal_%d_%d", attribute, t, v)))

			devVars = append(devVars, dev.ID())
		}
	}

	maxTotal := 0
	for t := 0; t < k; t++ {
		maxTotal += n // generous: each (t,v) dev bounded well under n in practice
	}
	cost := b.NewVar(0, maxTotal, fmt.Sprintf("diversify_%s_cost", attribute))
	sumCost(b, cost.ID(), devVars, fmt.Sprintf("diversify_%s_cost_sum", attribute))
	return cost.ID(), maxTotal, nil
}
