package bv

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/crillab/gophersat/solver"
	"github.com/go-air/gini/z"
)

// SatSolver decides constraints with gophersat. The circuit is the same as
// GiniSolver's; it is handed to gophersat as DIMACS CNF.
//
// A gophersat search cannot be interrupted. When the context of Check is done
// first, Check returns StatusUnknown at once but the search keeps a core busy
// until it finishes on its own. A later Check waits for that search before
// starting a new one, so at most one search per session is ever running.
type SatSolver struct {
	b      *blaster
	model  []bool
	status Status
	closed bool

	// searching is closed when the last search started by Check returns.
	searching chan struct{}
}

var (
	_ Solver       = (*SatSolver)(nil)
	_ DIMACSWriter = (*SatSolver)(nil)
)

// NewSatSolver returns an empty gophersat-backed session.
func NewSatSolver() *SatSolver {
	return &SatSolver{b: newBlaster()}
}

// Assert implements Solver.
func (s *SatSolver) Assert(constraints ...Expr) error {
	if s.closed {
		return ErrClosed
	}
	if err := s.b.assert(constraints); err != nil {
		return err
	}
	s.model, s.status = nil, StatusUnknown
	return nil
}

type satOutcome struct {
	status solver.Status
	model  []bool
}

// Check implements Solver. If a search abandoned by an earlier Check is
// still running, Check waits for it first, or returns StatusUnknown when ctx
// is done before it finishes.
func (s *SatSolver) Check(ctx context.Context) (Status, error) {
	if s.closed {
		return StatusUnknown, ErrClosed
	}
	s.model, s.status = nil, StatusUnknown
	if ctx.Err() != nil {
		return StatusUnknown, nil
	}
	if s.searching != nil {
		select {
		case <-s.searching:
		case <-ctx.Done():
			return StatusUnknown, nil
		}
	}

	var buf bytes.Buffer
	if err := writeDIMACS(&buf, s.b.cnf()); err != nil {
		return StatusUnknown, err
	}
	pb, err := solver.ParseCNF(&buf)
	if err != nil {
		return StatusUnknown, fmt.Errorf("bv: gophersat rejected the CNF: %w", err)
	}

	done := make(chan satOutcome, 1)
	searching := make(chan struct{})
	s.searching = searching
	go func() {
		defer close(searching)
		sv := solver.New(pb)
		out := satOutcome{status: sv.Solve()}
		if out.status == solver.Sat {
			out.model = sv.Model()
		}
		done <- out
	}()

	select {
	case <-ctx.Done():
		return StatusUnknown, nil
	case out := <-done:
		switch out.status {
		case solver.Sat:
			s.model, s.status = out.model, StatusSat
		case solver.Unsat:
			s.status = StatusUnsat
		}
		return s.status, nil
	}
}

// Model implements Solver.
func (s *SatSolver) Model() (*Model, error) {
	if s.closed {
		return nil, ErrClosed
	}
	if s.status != StatusSat {
		return nil, ErrNoModel
	}
	bindings := s.model
	return s.b.model(func(m z.Lit) bool {
		i := int(m.Var()) - 1
		if i < 0 || i >= len(bindings) {
			return !m.IsPos()
		}
		return bindings[i] == m.IsPos()
	}), nil
}

// WriteDIMACS implements DIMACSWriter.
func (s *SatSolver) WriteDIMACS(w io.Writer) error {
	if s.closed {
		return ErrClosed
	}
	return writeDIMACS(w, s.b.cnf())
}

// Close implements Solver.
func (s *SatSolver) Close() error {
	if s.closed {
		return ErrClosed
	}
	s.closed = true
	s.b, s.model = nil, nil
	return nil
}
