// Package modelbuilder owns the master decision variables shared by every
// compiled constraint: the team-index assignment x[i], the reified on[i,t]
// booleans, team-size cardinality, symmetry breaking, and the weighted-sum
// objective. Constraint compilers never create x or on themselves; they ask
// the Builder for them rather than allocating their own.
package modelbuilder

import (
	"fmt"

	"github.com/gitrdm/teamforge/internal/csp"
	"github.com/gitrdm/teamforge/pkg/roster"
)

// weightScale turns the interface's float weights into the integers the
// objective must be built from (§9: "non-integer weights... must be scaled
// to integers before forming the objective; the scaling factor is local and
// cancels in relative comparisons").
const weightScale = 1000

// SizeExpr is a linear expression for a team's size: constant + coeff*var
// (var absent when the roster partitions into a single team size).
type SizeExpr struct {
	Const int
	VarID int // -1 when there is no size-selector variable
	Coeff int
}

// Builder accumulates the shared model state for one solve.
type Builder struct {
	model *csp.Model

	n, k  int
	sizes []int // one or two admissible team sizes, ascending

	x  []*csp.Var   // x[i]: team index of participant i
	on [][]*csp.Var // on[i][t]: reified x[i] == t

	bigSel []*csp.Var // per-team "is this team the larger size" boolean, nil if sizes has one element

	objVars   []int
	objCoeffs []int
	objBound  int // sum of the worst case of every cost term, for the objective var's upper bound
}

// New builds the shared decision variables and structural constraints
// (channeling, team-size cardinality, symmetry breaking) for a roster of n
// participants partitioned per sizing.
func New(n int, sizing roster.TeamSizing) (*Builder, error) {
	if n < 1 {
		return nil, fmt.Errorf("modelbuilder: empty roster")
	}
	k := sizing.NumTeams
	if k < 1 {
		return nil, fmt.Errorf("modelbuilder: team sizing has no teams")
	}

	b := &Builder{model: csp.NewModel(), n: n, k: k, sizes: sizing.SizeSet()}

	b.x = make([]*csp.Var, n)
	for i := 0; i < n; i++ {
		b.x[i] = b.model.NewVar(0, k-1, fmt.Sprintf("x_%d", i))
	}

	b.on = make([][]*csp.Var, n)
	for i := 0; i < n; i++ {
		b.on[i] = make([]*csp.Var, k)
		onIDs := make([]int, k)
		for t := 0; t < k; t++ {
			v := b.model.NewBoolVar(fmt.Sprintf("on_%d_%d", i, t))
			b.on[i][t] = v
			onIDs[t] = v.ID()
		}
		// sum_t on[i,t] = 1
		ones := make([]int, k)
		for j := range ones {
			ones[j] = 1
		}
		b.model.AddConstraint(csp.NewLinear(onIDs, ones, csp.EQ, 1, fmt.Sprintf("exactly_one_team_%d", i)))

		// Channeling: x[i] - sum_t t*on[i,t] = 0. Picked over the classic
		// big-M reification (x[i]-t <= (K-1)(1-on[i,t]) and its mirror)
		// because it needs no big-M constant at all and propagates tighter -
		// the same "avoid big-M where a direct linear link exists" instinct
		// behind the diversify abs-value encoding in §4.2.4.
		vars := append([]int{b.x[i].ID()}, onIDs...)
		coeffs := make([]int, k+1)
		coeffs[0] = 1
		for t := 0; t < k; t++ {
			coeffs[t+1] = -t
		}
		b.model.AddConstraint(csp.NewLinear(vars, coeffs, csp.EQ, 0, fmt.Sprintf("channel_x_%d", i)))
	}

	if err := b.addTeamSizeConstraints(sizing); err != nil {
		return nil, err
	}
	b.addSymmetryBreaking()

	return b, nil
}

func (b *Builder) addTeamSizeConstraints(sizing roster.TeamSizing) error {
	k := b.k
	switch len(b.sizes) {
	case 1:
		size := b.sizes[0]
		for t := 0; t < k; t++ {
			vars := make([]int, b.n)
			coeffs := make([]int, b.n)
			for i := 0; i < b.n; i++ {
				vars[i] = b.on[i][t].ID()
				coeffs[i] = 1
			}
			b.model.AddConstraint(csp.NewLinear(vars, coeffs, csp.EQ, size, fmt.Sprintf("team_size_%d", t)))
		}
	case 2:
		small, big := b.sizes[0], b.sizes[1]
		bigCount := sizing.Count[1]
		b.bigSel = make([]*csp.Var, k)
		bigIDs := make([]int, k)
		for t := 0; t < k; t++ {
			sel := b.model.NewBoolVar(fmt.Sprintf("team_is_big_%d", t))
			b.bigSel[t] = sel
			bigIDs[t] = sel.ID()

			vars := make([]int, 0, b.n+1)
			coeffs := make([]int, 0, b.n+1)
			for i := 0; i < b.n; i++ {
				vars = append(vars, b.on[i][t].ID())
				coeffs = append(coeffs, 1)
			}
			vars = append(vars, sel.ID())
			coeffs = append(coeffs, -(big - small))
			b.model.AddConstraint(csp.NewLinear(vars, coeffs, csp.EQ, small, fmt.Sprintf("team_size_%d", t)))
		}
		ones := make([]int, k)
		for i := range ones {
			ones[i] = 1
		}
		b.model.AddConstraint(csp.NewLinear(bigIDs, ones, csp.EQ, bigCount, "big_team_count"))
	default:
		return fmt.Errorf("modelbuilder: unexpected team-size set %v", b.sizes)
	}
	return nil
}

// addSymmetryBreaking imposes x[0]=0 and, for i>0, x[i] <= 1+max(x[0..i-1]).
// The running maximum is tracked with a monotone chain of helper variables
// rather than recomputed from scratch, per §4.3.
func (b *Builder) addSymmetryBreaking() {
	if b.n == 0 {
		return
	}
	b.model.AddConstraint(csp.NewLinear([]int{b.x[0].ID()}, []int{1}, csp.EQ, 0, "symmetry_x0"))

	runningMax := b.x[0].ID()
	for i := 1; i < b.n; i++ {
		b.model.AddConstraint(csp.NewLinear(
			[]int{b.x[i].ID(), runningMax}, []int{1, -1}, csp.LE, 1,
			fmt.Sprintf("symmetry_bound_%d", i)))

		if i == b.n-1 {
			break
		}
		next := b.model.NewVar(0, b.k-1, fmt.Sprintf("symmetry_max_%d", i))
		b.model.AddConstraint(csp.NewLinear([]int{next.ID(), runningMax}, []int{1, -1}, csp.GE, 0, fmt.Sprintf("symmetry_max_ge_prev_%d", i)))
		b.model.AddConstraint(csp.NewLinear([]int{next.ID(), b.x[i].ID()}, []int{1, -1}, csp.GE, 0, fmt.Sprintf("symmetry_max_ge_x_%d", i)))
		// Upper side of next == max(runningMax, x[i]): sel=0 caps next at
		// runningMax, sel=1 caps it at x[i].
		sel := b.model.NewBoolVar(fmt.Sprintf("symmetry_max_sel_%d", i))
		b.model.AddConstraint(csp.NewLinear([]int{next.ID(), runningMax, sel.ID()}, []int{1, -1, -(b.k - 1)}, csp.LE, 0, fmt.Sprintf("symmetry_max_le_prev_%d", i)))
		b.model.AddConstraint(csp.NewLinear([]int{next.ID(), b.x[i].ID(), sel.ID()}, []int{1, -1, b.k - 1}, csp.LE, b.k-1, fmt.Sprintf("symmetry_max_le_x_%d", i)))
		runningMax = next.ID()
	}
}

// Model returns the underlying CSP model, frozen for the Search Driver.
func (b *Builder) Model() *csp.Model { return b.model }

// N returns the number of participants.
func (b *Builder) N() int { return b.n }

// K returns the number of teams.
func (b *Builder) K() int { return b.k }

// X returns the team-index variable id for participant i.
func (b *Builder) X(i int) int { return b.x[i].ID() }

// On returns the reified x[i]==t boolean variable id. Materialized eagerly
// for every (i,t) pair at construction (§9: "trivially all t here").
func (b *Builder) On(i, t int) int { return b.on[i][t].ID() }

// SizeExprFor returns a linear expression for team t's size.
func (b *Builder) SizeExprFor(t int) SizeExpr {
	if len(b.sizes) == 1 {
		return SizeExpr{Const: b.sizes[0], VarID: -1}
	}
	small, big := b.sizes[0], b.sizes[1]
	return SizeExpr{Const: small, VarID: b.bigSel[t].ID(), Coeff: big - small}
}

// NewVar creates a new auxiliary variable on the shared model.
func (b *Builder) NewVar(lo, hi int, name string) *csp.Var { return b.model.NewVar(lo, hi, name) }

// NewBoolVar creates a new auxiliary boolean variable on the shared model.
func (b *Builder) NewBoolVar(name string) *csp.Var { return b.model.NewBoolVar(name) }

// AddConstraint registers a constraint produced by a compiler.
func (b *Builder) AddConstraint(c csp.Constraint) { b.model.AddConstraint(c) }

// AddCost registers one compiled constraint's cost variable and weight into
// the objective, per §4.3 ("minimize sum_c weight_c * cost_c"). costHi is
// the cost variable's declared upper bound, used to size the objective
// variable's domain.
func (b *Builder) AddCost(weight float64, costVarID, costHi int) {
	scaled := int(weight*weightScale + 0.5)
	b.objVars = append(b.objVars, costVarID)
	b.objCoeffs = append(b.objCoeffs, scaled)
	b.objBound += scaled * costHi
}

// Finalize creates the objective variable, linked to the weighted sum of
// every registered cost term, and returns its id. If no constraints were
// compiled the objective is a constant zero (§4.3: "If the constraint list
// is empty, minimize 0").
func (b *Builder) Finalize() int {
	obj := b.model.NewVar(0, b.objBound, "objective")
	if len(b.objVars) == 0 {
		b.model.AddConstraint(csp.NewLinear([]int{obj.ID()}, []int{1}, csp.EQ, 0, "objective_zero"))
		return obj.ID()
	}
	vars := append([]int{obj.ID()}, b.objVars...)
	coeffs := make([]int, len(vars))
	coeffs[0] = 1
	for i, c := range b.objCoeffs {
		coeffs[i+1] = -c
	}
	b.model.AddConstraint(csp.NewLinear(vars, coeffs, csp.EQ, 0, "objective_link"))
	return obj.ID()
}

// WeightScale exposes the integer scaling factor applied to weights, so
// callers (e.g. the evaluator, when comparing against objective_value) can
// unscale it.
func WeightScale() int { return weightScale }
