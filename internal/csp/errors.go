package csp

import "errors"

// ErrInconsistent is returned by Propagate when a constraint proves no
// admissible assignment remains for the state it was given.
var ErrInconsistent = errors.New("csp: domain wipeout")

// ErrSearchLimitReached indicates an optimization run stopped because of a
// configured search limit (node count) rather than proven optimality. The
// returned incumbent, if any, remains valid.
var ErrSearchLimitReached = errors.New("csp: search limit reached")
