package bv

import (
	"context"
	"errors"
	"fmt"
	"io"
)

var (
	// ErrClosed is returned when a solver is used after Close.
	ErrClosed = errors.New("bv: solver is closed")

	// ErrNoModel is returned by Model when the last check was not satisfiable.
	ErrNoModel = errors.New("bv: no model available")

	// ErrNotPredicate is returned when a constraint is wider than one bit.
	ErrNotPredicate = errors.New("bv: constraint is not a 1-bit predicate")

	// ErrUnknownBackend is returned by New for an unrecognised backend name.
	ErrUnknownBackend = errors.New("bv: unknown solver backend")
)

// Status is the outcome of a satisfiability check.
type Status int

// Check outcomes.
const (
	StatusUnknown Status = iota
	StatusSat
	StatusUnsat
)

func (s Status) String() string {
	switch s {
	case StatusSat:
		return "SAT"
	case StatusUnsat:
		return "UNSAT"
	default:
		return "UNKNOWN"
	}
}

// Solver is a satisfiability checker over fixed-width bit-vectors and arrays.
//
// Constraints are append-only. Implementations are not safe for concurrent
// use; callers serialize Assert and Check.
type Solver interface {
	// Assert adds 1-bit predicates that must all hold.
	Assert(constraints ...Expr) error

	// Check decides the conjunction of every asserted constraint. It returns
	// StatusUnknown, with a nil error, when ctx is done before a decision.
	Check(ctx context.Context) (Status, error)

	// Model returns values for every variable and array referenced by the
	// asserted constraints. Only valid after a StatusSat check.
	Model() (*Model, error)

	// Close releases the solver. Further calls return ErrClosed.
	Close() error
}

// DIMACSWriter is implemented by solvers that can serialise their constraint
// system as DIMACS CNF.
type DIMACSWriter interface {
	WriteDIMACS(w io.Writer) error
}

// Backend names accepted by New.
const (
	BackendGini      = "gini"
	BackendGophersat = "gophersat"
)

// New returns a fresh solver session for the named backend.
func New(backend string) (Solver, error) {
	switch backend {
	case BackendGini, "":
		return NewGiniSolver(), nil
	case BackendGophersat:
		return NewSatSolver(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, backend)
	}
}
