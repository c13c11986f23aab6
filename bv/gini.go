package bv

import (
	"context"
	"io"
	"time"

	"github.com/go-air/gini"
	"github.com/go-air/gini/z"
)

// DefaultPollInterval is how often a running gini search is checked against
// its context.
const DefaultPollInterval = 10 * time.Millisecond

// GiniSolver decides constraints by bit-blasting them into a gini circuit
// and running the gini CDCL solver on its CNF encoding.
type GiniSolver struct {
	b      *blaster
	g      *gini.Gini
	status Status
	closed bool

	// PollInterval bounds how late a canceled context is noticed.
	PollInterval time.Duration
}

var (
	_ Solver       = (*GiniSolver)(nil)
	_ DIMACSWriter = (*GiniSolver)(nil)
)

// NewGiniSolver returns an empty gini-backed session.
func NewGiniSolver() *GiniSolver {
	return &GiniSolver{
		b:            newBlaster(),
		PollInterval: DefaultPollInterval,
	}
}

// Assert implements Solver.
func (s *GiniSolver) Assert(constraints ...Expr) error {
	if s.closed {
		return ErrClosed
	}
	if err := s.b.assert(constraints); err != nil {
		return err
	}
	s.g, s.status = nil, StatusUnknown
	return nil
}

// Check implements Solver. The CNF is rebuilt on every call, so constraints
// added after a previous check are honoured.
func (s *GiniSolver) Check(ctx context.Context) (Status, error) {
	if s.closed {
		return StatusUnknown, ErrClosed
	}
	s.g, s.status = nil, StatusUnknown
	if ctx.Err() != nil {
		return StatusUnknown, nil
	}

	g := gini.New()
	s.b.toCnf(g)

	res := solve(ctx, g, s.PollInterval)
	switch res {
	case 1:
		s.g, s.status = g, StatusSat
	case -1:
		s.status = StatusUnsat
	}
	return s.status, nil
}

// solve runs g in the background and stops it once ctx is done. It returns
// gini's result: 1 sat, -1 unsat, 0 undecided.
func solve(ctx context.Context, g *gini.Gini, poll time.Duration) int {
	if poll <= 0 {
		poll = DefaultPollInterval
	}
	run := g.GoSolve()
	ticker := time.NewTicker(poll)
	defer ticker.Stop()
	for {
		if res, done := run.Test(); done {
			return res
		}
		select {
		case <-ctx.Done():
			return run.Stop()
		case <-ticker.C:
		}
	}
}

// Model implements Solver.
func (s *GiniSolver) Model() (*Model, error) {
	if s.closed {
		return nil, ErrClosed
	}
	if s.status != StatusSat || s.g == nil {
		return nil, ErrNoModel
	}
	g := s.g
	top := g.MaxVar()
	return s.b.model(func(m z.Lit) bool {
		if m.Var() > top {
			return !m.IsPos()
		}
		return g.Value(m)
	}), nil
}

// WriteDIMACS implements DIMACSWriter.
func (s *GiniSolver) WriteDIMACS(w io.Writer) error {
	if s.closed {
		return ErrClosed
	}
	return writeDIMACS(w, s.b.cnf())
}

// Close implements Solver.
func (s *GiniSolver) Close() error {
	if s.closed {
		return ErrClosed
	}
	s.closed = true
	s.b, s.g = nil, nil
	return nil
}
