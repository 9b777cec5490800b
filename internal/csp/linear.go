package csp

import (
	"fmt"
	"strings"
)

// Relation is the comparison a Linear constraint enforces between its
// weighted sum and its constant right-hand side.
type Relation int

const (
	// EQ enforces Σ coeff[i]*var[i] == rhs.
	EQ Relation = iota
	// LE enforces Σ coeff[i]*var[i] <= rhs.
	LE
	// GE enforces Σ coeff[i]*var[i] >= rhs.
	GE
)

// Linear is a bounds-consistent weighted-sum constraint: every constraint
// this engine's compilers need - exactly-one selection, boolean
// implication, AND/OR linearization, min/max selection, absolute-value
// deviation - reduces to one of these: a weighted sum Σ a[i]*x[i] compared
// against an arbitrary integer right-hand side via ==, <=, or >=.
type Linear struct {
	vars   []int
	coeffs []int
	rel    Relation
	rhs    int
	label  string
}

// NewLinear builds a Linear constraint. len(vars) must equal len(coeffs).
func NewLinear(vars []int, coeffs []int, rel Relation, rhs int, label string) *Linear {
	if len(vars) != len(coeffs) {
		panic("csp: NewLinear: len(vars) != len(coeffs)")
	}
	v := make([]int, len(vars))
	copy(v, vars)
	c := make([]int, len(coeffs))
	copy(c, coeffs)
	return &Linear{vars: v, coeffs: c, rel: rel, rhs: rhs, label: label}
}

// Vars implements Constraint.
func (l *Linear) Vars() []int { return l.vars }

func (l *Linear) String() string {
	if l.label != "" {
		return l.label
	}
	var sb strings.Builder
	for i := range l.vars {
		fmt.Fprintf(&sb, "%+d*v%d ", l.coeffs[i], l.vars[i])
	}
	sym := map[Relation]string{EQ: "==", LE: "<=", GE: ">="}[l.rel]
	fmt.Fprintf(&sb, "%s %d", sym, l.rhs)
	return sb.String()
}

// Propagate applies bounds-consistency for equality, generalized to <=/>=
// by treating each as a one-sided equality against a slack bound derived
// from the other terms' extremes.
func (l *Linear) Propagate(s *State) (*State, error) {
	n := len(l.vars)
	doms := make([]IntDomain, n)
	for i, id := range l.vars {
		d := s.Domain(id)
		if d.Empty() {
			return nil, fmt.Errorf("%w: %s: var %d empty", ErrInconsistent, l, id)
		}
		doms[i] = d
	}

	sumMin, sumMax := 0, 0
	for i := 0; i < n; i++ {
		c := l.coeffs[i]
		if c == 0 {
			continue
		}
		if c > 0 {
			sumMin += c * doms[i].Lo
			sumMax += c * doms[i].Hi
		} else {
			sumMin += c * doms[i].Hi
			sumMax += c * doms[i].Lo
		}
	}

	// Translate the relation into admissible [lo, hi] bounds for the sum.
	lo, hi := sumMin, sumMax
	switch l.rel {
	case EQ:
		if l.rhs < lo || l.rhs > hi {
			return nil, fmt.Errorf("%w: %s: sum range [%d,%d] excludes %d", ErrInconsistent, l, sumMin, sumMax, l.rhs)
		}
		lo, hi = l.rhs, l.rhs
	case LE:
		if l.rhs < sumMin {
			return nil, fmt.Errorf("%w: %s: min sum %d exceeds rhs %d", ErrInconsistent, l, sumMin, l.rhs)
		}
		hi = l.rhs
	case GE:
		if l.rhs > sumMax {
			return nil, fmt.Errorf("%w: %s: max sum %d below rhs %d", ErrInconsistent, l, sumMax, l.rhs)
		}
		lo = l.rhs
	}

	cur := s
	for i := 0; i < n; i++ {
		c := l.coeffs[i]
		if c == 0 {
			continue
		}
		// Contribution of every other term, at its extremes.
		otherMin, otherMax := 0, 0
		for j := 0; j < n; j++ {
			if j == i {
				continue
			}
			cj := l.coeffs[j]
			if cj == 0 {
				continue
			}
			if cj > 0 {
				otherMin += cj * doms[j].Lo
				otherMax += cj * doms[j].Hi
			} else {
				otherMin += cj * doms[j].Hi
				otherMax += cj * doms[j].Lo
			}
		}
		// c*x[i] must lie in [lo-otherMax, hi-otherMin].
		termLo := lo - otherMax
		termHi := hi - otherMin

		var newLo, newHi int
		if c > 0 {
			newLo = ceilDiv(termLo, c)
			newHi = floorDiv(termHi, c)
		} else {
			// Dividing by a negative coefficient flips the bound direction.
			newLo = ceilDiv(termHi, c)
			newHi = floorDiv(termLo, c)
		}

		narrowed := doms[i]
		if newLo > narrowed.Lo {
			narrowed = narrowed.RemoveBelow(newLo)
		}
		if newHi < narrowed.Hi {
			narrowed = narrowed.RemoveAtOrAbove(newHi + 1)
		}
		if narrowed.Empty() {
			return nil, fmt.Errorf("%w: %s: var %d narrowed to empty", ErrInconsistent, l, l.vars[i])
		}
		if !narrowed.Equal(doms[i]) {
			cur = cur.WithDomain(l.vars[i], narrowed)
			doms[i] = narrowed
		}
	}
	return cur, nil
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func ceilDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) == (b < 0)) {
		q++
	}
	return q
}
