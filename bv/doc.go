// Package bv is a small theory of fixed-width bit-vectors and arrays, with
// satisfiability checking by bit-blasting to SAT.
//
// Expressions are built with the New* constructors, which simplify as they
// go. A Solver accepts 1-bit predicates, checks them, and produces a Model:
//
//	x := bv.NewVar("x", 8)
//	s := bv.NewGiniSolver()
//	defer s.Close()
//
//	s.Assert(bv.NewEq(bv.Xor(x, bv.NewConst(0x3c, 8)), bv.NewConst(0x5a, 8)))
//	if status, _ := s.Check(ctx); status == bv.StatusSat {
//	    m, _ := s.Model()
//	    fmt.Println(m.Vars["x"]) // 0x66
//	}
//
// Two backends are provided: GiniSolver (github.com/go-air/gini) and
// SatSolver (github.com/crillab/gophersat). Both lower the same circuit, so
// they are interchangeable; both can also dump it as DIMACS CNF.
//
// Arrays are uninterpreted: every element is a fresh set of inputs and a
// Select with a symbolic index becomes a multiplexer over all elements.
// Array contents are fixed by asserting equalities on constant indices.
package bv
