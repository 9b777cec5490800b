package csp

import "fmt"

// Constraint is anything that can narrow a State's domains in place
// (structurally - State is immutable, so Propagate returns a new State).
// The only constraint family this engine needs is Linear; the interface
// exists so Model/Solver stay agnostic of that, keeping Model decoupled
// from any one constraint family.
type Constraint interface {
	// Vars returns the variables this constraint touches.
	Vars() []int
	// Propagate narrows the given state's domains to respect this
	// constraint, returning ErrInconsistent if no admissible assignment
	// remains.
	Propagate(s *State) (*State, error)
	String() string
}

// Model owns the decision variables and constraints of a constraint
// satisfaction / optimization problem. Models are built incrementally and
// frozen implicitly once Solve is called on them - mirroring the
// teacher's Model, which is "immutable during solving" by convention.
type Model struct {
	domains     []IntDomain
	names       []string
	constraints []Constraint
}

// NewModel creates an empty model.
func NewModel() *Model {
	return &Model{}
}

// NewVar creates a new variable bounded to [lo, hi] and returns it.
func (m *Model) NewVar(lo, hi int, name string) *Var {
	id := len(m.domains)
	m.domains = append(m.domains, NewIntDomain(lo, hi))
	m.names = append(m.names, name)
	return &Var{id: id, name: name}
}

// NewBoolVar creates a new {0,1}-domain variable.
func (m *Model) NewBoolVar(name string) *Var {
	return m.NewVar(0, 1, name)
}

// AddConstraint registers a constraint against the model.
func (m *Model) AddConstraint(c Constraint) {
	m.constraints = append(m.constraints, c)
}

// NumVars returns the number of declared variables.
func (m *Model) NumVars() int { return len(m.domains) }

// Constraints returns all registered constraints.
func (m *Model) Constraints() []Constraint { return m.constraints }

// InitialState returns the model's root State, one domain slot per
// variable at its declared bounds.
func (m *Model) InitialState() *State {
	doms := make([]IntDomain, len(m.domains))
	copy(doms, m.domains)
	return &State{domains: doms}
}

// Validate reports whether every declared variable has a non-empty domain.
func (m *Model) Validate() error {
	for i, d := range m.domains {
		if d.Empty() {
			return fmt.Errorf("csp: variable %d (%s) has empty initial domain %s", i, m.names[i], d)
		}
	}
	return nil
}

func (m *Model) String() string {
	return fmt.Sprintf("Model{vars: %d, constraints: %d}", len(m.domains), len(m.constraints))
}
