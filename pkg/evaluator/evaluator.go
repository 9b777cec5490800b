// Package evaluator recomputes, without the solver, a per-team per-constraint
// "miss" score for a final assignment - §4.6. It is intentionally
// independent of internal/csp and pkg/compiler: it exists to check the
// solver's work, not to reuse its machinery.
package evaluator

import (
	"fmt"
	"sort"

	"github.com/gitrdm/teamforge/pkg/normalizer"
	"github.com/gitrdm/teamforge/pkg/roster"
)

// Row is one (team, constraint) miss score.
type Row struct {
	TeamIndex int
	TeamSize  int
	Attribute string
	Kind      roster.ConstraintKind
	Miss      int
}

// Evaluate computes miss scores for every constraint against assignment
// (assignment[i] is participant i's team index, in [0, numTeams)).
func Evaluate(participants []roster.Participant, constraints []roster.ConstraintSpec, assignment []int, numTeams int) ([]Row, error) {
	teams := make([][]int, numTeams)
	for i, t := range assignment {
		if t < 0 || t >= numTeams {
			return nil, fmt.Errorf("evaluator: participant %d assigned out-of-range team %d", i, t)
		}
		teams[t] = append(teams[t], i)
	}

	norm := normalizer.New(participants)
	var rows []Row
	for _, c := range constraints {
		var teamRows []Row
		var err error
		switch c.Kind {
		case roster.Cluster:
			teamRows, err = evalCluster(norm, c.Attribute, teams)
		case roster.ClusterNumeric:
			teamRows, err = evalClusterNumeric(norm, c.Attribute, teams)
		case roster.Different:
			teamRows, err = evalDifferent(norm, c.Attribute, teams)
		case roster.Diversify:
			teamRows, err = evalDiversify(norm, c.Attribute, teams, len(assignment))
		default:
			err = fmt.Errorf("%w: unrecognized constraint kind %q", roster.ErrCompileError, c.Kind)
		}
		if err != nil {
			return nil, err
		}
		rows = append(rows, teamRows...)
	}
	return rows, nil
}

func evalCluster(norm *normalizer.Normalizer, attribute string, teams [][]int) ([]Row, error) {
	disc, err := norm.Discrete(attribute)
	if err != nil {
		return nil, err
	}
	rows := make([]Row, len(teams))
	for t, members := range teams {
		counts := make(map[int]int)
		for _, i := range members {
			for _, v := range disc.Admissible[i] {
				counts[v]++
			}
		}
		best := 0
		for _, c := range counts {
			if c > best {
				best = c
			}
		}
		rows[t] = Row{TeamIndex: t, TeamSize: len(members), Attribute: attribute, Kind: roster.Cluster, Miss: len(members) - best}
	}
	return rows, nil
}

func evalClusterNumeric(norm *normalizer.Normalizer, attribute string, teams [][]int) ([]Row, error) {
	num, err := norm.Numeric(attribute)
	if err != nil {
		return nil, err
	}
	rows := make([]Row, len(teams))
	for t, members := range teams {
		if len(members) == 0 {
			rows[t] = Row{TeamIndex: t, TeamSize: 0, Attribute: attribute, Kind: roster.ClusterNumeric, Miss: 0}
			continue
		}
		lo, hi := num.Values[members[0]], num.Values[members[0]]
		for _, i := range members {
			if num.Values[i] < lo {
				lo = num.Values[i]
			}
			if num.Values[i] > hi {
				hi = num.Values[i]
			}
		}
		rows[t] = Row{TeamIndex: t, TeamSize: len(members), Attribute: attribute, Kind: roster.ClusterNumeric, Miss: hi - lo}
	}
	return rows, nil
}

// evalDifferent greedily resolves each participant's admissible set to a
// single claimed value, preferring a value not yet claimed on the team, to
// maximize distinctness (§4.6: "resolves... greedily to maximize
// distinctness").
func evalDifferent(norm *normalizer.Normalizer, attribute string, teams [][]int) ([]Row, error) {
	disc, err := norm.Discrete(attribute)
	if err != nil {
		return nil, err
	}
	rows := make([]Row, len(teams))
	for t, members := range teams {
		claimed := make(map[int]bool)
		distinct := 0
		for _, i := range members {
			admissible := sortedCopy(disc.Admissible[i])
			picked := false
			for _, v := range admissible {
				if !claimed[v] {
					claimed[v] = true
					distinct++
					picked = true
					break
				}
			}
			if !picked && len(admissible) > 0 {
				// Every admissible value already claimed; this participant
				// duplicates regardless of choice.
			}
		}
		rows[t] = Row{TeamIndex: t, TeamSize: len(members), Attribute: attribute, Kind: roster.Different, Miss: len(members) - distinct}
	}
	return rows, nil
}

// evalDiversify greedily assigns each participant to the admissible value
// with the largest current deficit against its size-scaled ideal count, to
// minimize the resulting L1 deviation (§4.6).
func evalDiversify(norm *normalizer.Normalizer, attribute string, teams [][]int, n int) ([]Row, error) {
	disc, err := norm.Discrete(attribute)
	if err != nil {
		return nil, err
	}
	nv := len(disc.Values)
	rows := make([]Row, len(teams))
	for t, members := range teams {
		size := len(members)
		ideal := make([]int, nv)
		for v := 0; v < nv; v++ {
			ideal[v] = roundHalfToEven(size*disc.PopCount[v], n)
		}
		count := make([]int, nv)
		for _, i := range members {
			admissible := disc.Admissible[i]
			if len(admissible) == 0 {
				continue
			}
			best := admissible[0]
			bestDeficit := ideal[best] - count[best]
			for _, v := range admissible[1:] {
				deficit := ideal[v] - count[v]
				if deficit > bestDeficit {
					best = v
					bestDeficit = deficit
				}
			}
			count[best]++
		}
		miss := 0
		for v := 0; v < nv; v++ {
			d := count[v] - ideal[v]
			if d < 0 {
				d = -d
			}
			miss += d
		}
		rows[t] = Row{TeamIndex: t, TeamSize: size, Attribute: attribute, Kind: roster.Diversify, Miss: miss}
	}
	return rows, nil
}

func sortedCopy(ids []int) []int {
	out := append([]int(nil), ids...)
	sort.Ints(out)
	return out
}

func roundHalfToEven(p, q int) int {
	if q <= 0 {
		return 0
	}
	quot := p / q
	rem := p % q
	if rem < 0 {
		quot--
		rem += q
	}
	twice := rem * 2
	switch {
	case twice < q:
		return quot
	case twice > q:
		return quot + 1
	default:
		if quot%2 == 0 {
			return quot
		}
		return quot + 1
	}
}
