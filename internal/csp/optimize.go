package csp

import (
	"context"
	"time"
)

// Status is the terminal outcome of a Solve call, matching the Search
// Driver's four-way termination contract.
type Status int

const (
	// NoSolution means no incumbent was found before the deadline.
	NoSolution Status = iota
	// Infeasible means the solver proved no assignment satisfies the model.
	Infeasible
	// Feasible means the time limit was reached with a best-known incumbent.
	Feasible
	// Optimal means the search proved the last incumbent cannot be beaten.
	Optimal
)

func (s Status) String() string {
	switch s {
	case Infeasible:
		return "Infeasible"
	case Feasible:
		return "Feasible"
	case Optimal:
		return "Optimal"
	default:
		return "NoSolution"
	}
}

// Incumbent describes one improving solution found during search.
type Incumbent struct {
	SolutionIndex int // monotonic, starting at 1
	Objective     int
	WallTime      time.Duration
	Conflicts     int64
	Assignment    []int // full variable assignment, in variable-id order
}

// IncumbentFunc is invoked synchronously whenever the search proves a new,
// strictly improving incumbent. Returning false requests early stop,
// honored at the next node boundary - the search-side half of best-effort
// cancellation (the other half being ctx).
type IncumbentFunc func(Incumbent) bool

// Options configures a Solve call.
type Options struct {
	// TimeLimit bounds solver wall time. Zero means no limit beyond ctx.
	TimeLimit time.Duration
	// NodeLimit bounds the number of leaf nodes explored. Zero means no limit.
	NodeLimit int
	// OnIncumbent is called for every strictly improving solution.
	OnIncumbent IncumbentFunc
}

// Solve performs depth-first branch-and-bound minimization of the
// objective variable over the model, honoring ctx cancellation and the
// given Options: propagate to a fixpoint, branch on the first unbound variable, prune
// using the objective variable's own propagated lower bound (no separate
// bound function is needed - every cost/objective variable here is
// itself wired into the model via Linear constraints, so Propagate alone
// keeps its domain's Lo admissible), and apply an incumbent cutoff by
// tightening the objective domain whenever a better solution is found.
func Solve(ctx context.Context, m *Model, objective int, minimize bool, opts Options) (Status, Incumbent, error) {
	start := time.Now()
	if opts.TimeLimit > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.TimeLimit)
		defer cancel()
	}

	if err := m.Validate(); err != nil {
		return Infeasible, Incumbent{}, err
	}

	root, err := Propagate(m, m.InitialState())
	if err != nil {
		return Infeasible, Incumbent{}, nil
	}

	var (
		best      Incumbent
		have      bool
		solutions int
		leaves    int64
	)

	applyCutoff := func(s *State) (*State, error) {
		if !have {
			return s, nil
		}
		d := s.Domain(objective)
		var tightened IntDomain
		if minimize {
			tightened = d.RemoveAtOrAbove(best.Objective)
		} else {
			tightened = d.RemoveAtOrBelow(best.Objective)
		}
		if tightened.Empty() {
			return nil, ErrInconsistent
		}
		if tightened.Equal(d) {
			return s, nil
		}
		return s.WithDomain(objective, tightened), nil
	}

	type frame struct {
		state      *State
		varID      int
		values     []int
		valueIndex int
	}

	considerLeaf := func(s *State) (stop bool) {
		d := s.Domain(objective)
		if !d.IsSingleton() {
			return false
		}
		val := d.SingletonValue()
		if have && ((minimize && val >= best.Objective) || (!minimize && val <= best.Objective)) {
			return false
		}
		have = true
		best.Objective = val
		best.Assignment = ExtractSolution(m, s)
		solutions++
		best.SolutionIndex = solutions
		best.WallTime = time.Since(start)
		best.Conflicts = leaves
		if opts.OnIncumbent != nil {
			if !opts.OnIncumbent(best) {
				return true
			}
		}
		return false
	}

	if IsComplete(m, root) {
		if considerLeaf(root) {
			return Feasible, best, nil
		}
		return Optimal, best, nil
	}

	varID, values := SelectVariable(m, root)
	if varID == -1 {
		return NoSolution, Incumbent{}, nil
	}

	stack := []*frame{{state: root, varID: varID, values: values}}

	for len(stack) > 0 {
		select {
		case <-ctx.Done():
			if have {
				return Feasible, best, ctx.Err()
			}
			return NoSolution, Incumbent{}, ctx.Err()
		default:
		}

		fr := stack[len(stack)-1]
		if fr.valueIndex >= len(fr.values) {
			stack = stack[:len(stack)-1]
			continue
		}
		value := fr.values[fr.valueIndex]
		fr.valueIndex++

		child := fr.state.WithDomain(fr.varID, Singleton(value))
		child, err := applyCutoff(child)
		if err != nil {
			continue
		}
		propagated, err := Propagate(m, child)
		if err != nil {
			continue
		}

		if d := propagated.Domain(objective); have {
			if (minimize && d.Lo >= best.Objective) || (!minimize && d.Hi <= best.Objective) {
				continue
			}
		}

		if IsComplete(m, propagated) {
			leaves++
			stop := considerLeaf(propagated)
			if stop {
				return Feasible, best, nil
			}
			if opts.NodeLimit > 0 && leaves >= int64(opts.NodeLimit) {
				if have {
					return Feasible, best, ErrSearchLimitReached
				}
				return NoSolution, Incumbent{}, ErrSearchLimitReached
			}
			continue
		}

		nid, nvals := SelectVariable(m, propagated)
		if nid == -1 {
			continue
		}
		stack = append(stack, &frame{state: propagated, varID: nid, values: nvals})
	}

	if !have {
		return Infeasible, Incumbent{}, nil
	}
	return Optimal, best, nil
}
