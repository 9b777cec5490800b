package csp

import "fmt"

// Var identifies a decision variable within a Model. Variable ids are
// dense and start at 0, matching the order they were created in.
type Var struct {
	id   int
	name string
}

// ID returns the variable's dense index.
func (v *Var) ID() int { return v.id }

// Name returns the variable's debug name, if any.
func (v *Var) Name() string { return v.name }

func (v *Var) String() string {
	if v.name != "" {
		return fmt.Sprintf("%s#%d", v.name, v.id)
	}
	return fmt.Sprintf("v#%d", v.id)
}
