// Package compiler turns one constraint record (attribute, kind, weight)
// into auxiliary variables, linear/reified constraints, and a cost
// expression over the shared modelbuilder.Builder state. This is the
// dominant package in the system (§2: "Constraint Compiler 40%: dominant,
// the four cost encodings").
package compiler

import (
	"fmt"

	"github.com/gitrdm/teamforge/pkg/modelbuilder"
	"github.com/gitrdm/teamforge/pkg/normalizer"
	"github.com/gitrdm/teamforge/pkg/roster"
)

// Compile dispatches spec to the matching encoder, registers its cost term
// on b's objective, and returns the cost variable's id for inspection (e.g.
// by tests). Every encoder only ever adds to b; compilers never recreate
// x or on - the builder owns those (§4.2.5: "Shared booleans on[i,t] are
// created at most once per (i,t)").
func Compile(b *modelbuilder.Builder, spec roster.ConstraintSpec, norm *normalizer.Normalizer) (int, error) {
	var costVar, costHi int
	var err error

	switch spec.Kind {
	case roster.Cluster:
		costVar, costHi, err = compileCluster(b, spec.Attribute, norm)
	case roster.ClusterNumeric:
		costVar, costHi, err = compileClusterNumeric(b, spec.Attribute, norm)
	case roster.Different:
		costVar, costHi, err = compileDifferent(b, spec.Attribute, norm)
	case roster.Diversify:
		costVar, costHi, err = compileDiversify(b, spec.Attribute, norm)
	default:
		return 0, fmt.Errorf("%w: unrecognized constraint kind %q", roster.ErrCompileError, spec.Kind)
	}
	if err != nil {
		return 0, err
	}

	b.AddCost(spec.Weight, costVar, costHi)
	return costVar, nil
}

// roundHalfToEven rounds the rational p/q (q > 0) to the nearest integer,
// breaking ties to the even neighbor - the same rule the normalizer uses
// for numeric casting (§4.1), applied here to diversify's ideal counts.
func roundHalfToEven(p, q int) int {
	if q <= 0 {
		panic("compiler: roundHalfToEven: non-positive denominator")
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
		// Exact tie: round to even.
		if quot%2 == 0 {
			return quot
		}
		return quot + 1
	}
}
