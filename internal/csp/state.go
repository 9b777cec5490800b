package csp

// State is an immutable snapshot of every variable's current domain.
// Narrowing a State never mutates it in place - WithDomain returns a new
// State holding its own copy of every domain slot, a copy-on-write
// discipline that stays safe under the branch-and-bound search's
// backtracking.
type State struct {
	domains []IntDomain
}

// Domain returns the current domain of variable id.
func (s *State) Domain(id int) IntDomain { return s.domains[id] }

// WithDomain returns a new State with variable id narrowed to d. The
// original State is left untouched.
func (s *State) WithDomain(id int, d IntDomain) *State {
	next := make([]IntDomain, len(s.domains))
	copy(next, s.domains)
	next[id] = d
	return &State{domains: next}
}

// clone returns a deep (but cheap, slice-level) copy suitable for a fresh
// propagation pass.
func (s *State) clone() *State {
	next := make([]IntDomain, len(s.domains))
	copy(next, s.domains)
	return &State{domains: next}
}

// Propagate runs every constraint in the model to a fixpoint: constraints
// are re-applied in a loop until a full pass narrows nothing, or one of
// them reports inconsistency. Simplified because every constraint here is
// bounds-consistency only (no constraint here can re-trigger another's
// pruning through anything but a domain's Lo/Hi moving).
func Propagate(m *Model, start *State) (*State, error) {
	cur := start
	for {
		changed := false
		for _, c := range m.Constraints() {
			next, err := c.Propagate(cur)
			if err != nil {
				return nil, err
			}
			if !sameDomains(cur, next, c.Vars()) {
				changed = true
			}
			cur = next
		}
		if !changed {
			return cur, nil
		}
	}
}

func sameDomains(a, b *State, ids []int) bool {
	for _, id := range ids {
		if !a.Domain(id).Equal(b.Domain(id)) {
			return false
		}
	}
	return true
}

// IsComplete reports whether every variable's domain is a singleton.
func IsComplete(m *Model, s *State) bool {
	for i := 0; i < m.NumVars(); i++ {
		if !s.Domain(i).IsSingleton() {
			return false
		}
	}
	return true
}

// ExtractSolution returns the singleton value of every variable, in
// variable-id order. Callers must only invoke this once IsComplete holds.
func ExtractSolution(m *Model, s *State) []int {
	out := make([]int, m.NumVars())
	for i := range out {
		out[i] = s.Domain(i).SingletonValue()
	}
	return out
}

// SelectVariable returns the id of the first variable with more than one
// remaining value (lexicographic, first-unbound selection) and the
// ascending list of values in its domain. Returns (-1, nil) if every
// variable is already bound. First-unbound, rather than most-constrained,
// is the deliberate choice here: the symmetry-broken team-index encoding
// (x[0]=0, x[i] <= 1+max_{j<i} x[j]) already keeps the search tree small,
// so a fancier dynamic ordering heuristic buys little for the size of
// problem this engine targets.
func SelectVariable(m *Model, s *State) (int, []int) {
	for i := 0; i < m.NumVars(); i++ {
		d := s.Domain(i)
		if d.Empty() {
			return -1, nil
		}
		if !d.IsSingleton() {
			values := make([]int, 0, d.Count())
			for v := d.Lo; v <= d.Hi; v++ {
				values = append(values, v)
			}
			return i, values
		}
	}
	return -1, nil
}
