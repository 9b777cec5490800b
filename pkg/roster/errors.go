package roster

import "errors"

// Kind is the machine-readable error category surfaced in the publisher's
// error record (§6.2, §7). All nine are terminal for a solve.
type Kind string

const (
	KindBadRequest          Kind = "BadRequest"
	KindNonNumericAttribute Kind = "NonNumericAttribute"
	KindEmptyDomain         Kind = "EmptyDomain"
	KindUnsolvableSize      Kind = "UnsolvableSize"
	KindCompileError        Kind = "CompileError"
	KindInfeasible          Kind = "Infeasible"
	KindNoSolution          Kind = "NoSolution"
	KindCancelled           Kind = "Cancelled"
	KindCompileTimeout      Kind = "CompileTimeout"
)

// Sentinel errors, wrapped via fmt.Errorf("...: %w", ErrX) at the call
// site so errors.Is keeps working after context is added.
var (
	ErrBadRequest          = errors.New("bad request")
	ErrMissingAttribute    = errors.New("attribute missing on at least one participant")
	ErrNonNumericAttribute = errors.New("attribute is not numeric")
	ErrEmptyDomain         = errors.New("attribute has no observed values")
	ErrUnsolvableSize      = errors.New("team sizes cannot partition the roster")
	ErrCompileError        = errors.New("constraint could not be compiled")
	ErrInfeasible          = errors.New("no assignment satisfies the hard constraints")
	ErrNoSolution          = errors.New("no incumbent found before the deadline")
	ErrCancelled           = errors.New("solve cancelled")
	ErrCompileTimeout      = errors.New("model construction exceeded its time budget")
)

// KindOf maps a sentinel (or a wrapped error carrying one) to its
// machine-readable Kind. Returns KindCompileError as the catch-all for any
// unrecognized error, since reaching the publisher at all means a solve
// step failed to run to completion.
func KindOf(err error) Kind {
	switch {
	case errors.Is(err, ErrBadRequest), errors.Is(err, ErrMissingAttribute):
		return KindBadRequest
	case errors.Is(err, ErrNonNumericAttribute):
		return KindNonNumericAttribute
	case errors.Is(err, ErrEmptyDomain):
		return KindEmptyDomain
	case errors.Is(err, ErrUnsolvableSize):
		return KindUnsolvableSize
	case errors.Is(err, ErrCompileTimeout):
		return KindCompileTimeout
	case errors.Is(err, ErrCompileError):
		return KindCompileError
	case errors.Is(err, ErrInfeasible):
		return KindInfeasible
	case errors.Is(err, ErrNoSolution):
		return KindNoSolution
	case errors.Is(err, ErrCancelled):
		return KindCancelled
	default:
		return KindCompileError
	}
}
