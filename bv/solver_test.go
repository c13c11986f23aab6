package bv

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var backends = []string{BackendGini, BackendGophersat}

func newSolver(t *testing.T, backend string) Solver {
	t.Helper()
	s, err := New(backend)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func testContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	t.Cleanup(cancel)
	return ctx
}

func TestSolverXor(t *testing.T) {
	for _, backend := range backends {
		t.Run(backend, func(t *testing.T) {
			s := newSolver(t, backend)
			x := NewVar("x", 8)
			require.NoError(t, s.Assert(NewEq(Xor(x, NewConst(0x3c, 8)), NewConst(0x5a, 8))))

			status, err := s.Check(testContext(t))
			require.NoError(t, err)
			require.Equal(t, StatusSat, status)

			m, err := s.Model()
			require.NoError(t, err)
			v, ok := m.Value("x")
			require.True(t, ok)
			assert.Equal(t, uint64(0x66), v.Uint64())
		})
	}
}

func TestSolverArrayLookup(t *testing.T) {
	table := []uint64{2, 0, 3, 1}
	for _, backend := range backends {
		t.Run(backend, func(t *testing.T) {
			s := newSolver(t, backend)
			a := NewArray("table", 2, 2)
			for i, v := range table {
				require.NoError(t, s.Assert(NewEq(NewSelect(a, NewConst(uint64(i), 2)), NewConst(v, 2))))
			}

			// The only index holding 3 is 2.
			i := NewVar("i", 2)
			require.NoError(t, s.Assert(NewEq(NewSelect(a, i), NewConst(3, 2))))

			status, err := s.Check(testContext(t))
			require.NoError(t, err)
			require.Equal(t, StatusSat, status)

			m, err := s.Model()
			require.NoError(t, err)
			assert.Equal(t, uint64(2), m.Vars["i"].Uint64())

			elems := m.Arrays["table"]
			require.Len(t, elems, 4)
			for i, v := range table {
				assert.Equal(t, v, elems[i].Uint64())
			}
		})
	}
}

func TestSolverUnsat(t *testing.T) {
	for _, backend := range backends {
		t.Run(backend, func(t *testing.T) {
			s := newSolver(t, backend)
			x := NewVar("x", 4)
			require.NoError(t, s.Assert(
				NewEq(x, NewConst(1, 4)),
				NewEq(x, NewConst(2, 4)),
			))

			status, err := s.Check(testContext(t))
			require.NoError(t, err)
			assert.Equal(t, StatusUnsat, status)

			_, err = s.Model()
			assert.ErrorIs(t, err, ErrNoModel)
		})
	}
}

func TestSolverAppendOnly(t *testing.T) {
	for _, backend := range backends {
		t.Run(backend, func(t *testing.T) {
			s := newSolver(t, backend)
			x := NewVar("x", 2)
			require.NoError(t, s.Assert(Ne(x, NewConst(0, 2)), Ne(x, NewConst(1, 2))))

			status, err := s.Check(testContext(t))
			require.NoError(t, err)
			require.Equal(t, StatusSat, status)

			require.NoError(t, s.Assert(Ne(x, NewConst(2, 2))))
			status, err = s.Check(testContext(t))
			require.NoError(t, err)
			require.Equal(t, StatusSat, status)

			m, err := s.Model()
			require.NoError(t, err)
			assert.Equal(t, uint64(3), m.Vars["x"].Uint64())

			require.NoError(t, s.Assert(Ne(x, NewConst(3, 2))))
			status, err = s.Check(testContext(t))
			require.NoError(t, err)
			assert.Equal(t, StatusUnsat, status)
		})
	}
}

func TestSolverCanceledContext(t *testing.T) {
	for _, backend := range backends {
		t.Run(backend, func(t *testing.T) {
			s := newSolver(t, backend)
			require.NoError(t, s.Assert(NewEq(NewVar("x", 8), NewConst(7, 8))))

			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			status, err := s.Check(ctx)
			require.NoError(t, err)
			assert.Equal(t, StatusUnknown, status)
		})
	}
}

func TestSolverMisuse(t *testing.T) {
	for _, backend := range backends {
		t.Run(backend, func(t *testing.T) {
			s, err := New(backend)
			require.NoError(t, err)

			err = s.Assert(NewVar("x", 8))
			assert.ErrorIs(t, err, ErrNotPredicate)

			_, err = s.Model()
			assert.ErrorIs(t, err, ErrNoModel)

			require.NoError(t, s.Close())
			assert.ErrorIs(t, s.Close(), ErrClosed)
			assert.ErrorIs(t, s.Assert(True()), ErrClosed)
			_, err = s.Check(context.Background())
			assert.ErrorIs(t, err, ErrClosed)
		})
	}

	_, err := New("z3")
	assert.ErrorIs(t, err, ErrUnknownBackend)
}

func TestSolverVariableRedeclared(t *testing.T) {
	s := NewGiniSolver()
	defer s.Close()

	require.NoError(t, s.Assert(NewEq(NewVar("x", 8), NewConst(1, 8))))
	err := s.Assert(NewEq(NewVar("x", 4), NewConst(1, 4)))
	assert.Error(t, err)
}

func TestWriteDIMACS(t *testing.T) {
	for _, backend := range backends {
		t.Run(backend, func(t *testing.T) {
			s := newSolver(t, backend)
			x := NewVar("x", 4)
			require.NoError(t, s.Assert(NewEq(Xor(x, NewConst(5, 4)), NewConst(0, 4))))

			w, ok := s.(DIMACSWriter)
			require.True(t, ok)

			var buf bytes.Buffer
			require.NoError(t, w.WriteDIMACS(&buf))

			lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
			require.NotEmpty(t, lines)
			assert.True(t, strings.HasPrefix(lines[0], "p cnf "), "header: %q", lines[0])
			for _, line := range lines[1:] {
				assert.True(t, strings.HasSuffix(line, " 0") || line == "0", "clause terminator: %q", line)
			}
		})
	}
}

func TestBackendsAgree(t *testing.T) {
	// A 6-bit keyed lookup into a 64-entry 2-bit table.
	table := make([]uint64, 64)
	for i := range table {
		table[i] = uint64((i*7 + i>>3) & 3)
	}
	a := NewArray("box", 6, 2)
	k := NewVar("k", 6)

	constraints := make([]Expr, 0, 70)
	for i, v := range table {
		constraints = append(constraints, NewEq(NewSelect(a, NewConst(uint64(i), 6)), NewConst(v, 2)))
	}
	for _, in := range []uint64{0x00, 0x15, 0x2a, 0x3f} {
		want := table[in^0x2d]
		constraints = append(constraints, NewEq(NewSelect(a, Xor(NewConst(in, 6), k)), NewConst(want, 2)))
	}

	for _, backend := range backends {
		t.Run(backend, func(t *testing.T) {
			s := newSolver(t, backend)
			require.NoError(t, s.Assert(constraints...))

			status, err := s.Check(testContext(t))
			require.NoError(t, err)
			require.Equal(t, StatusSat, status)

			m, err := s.Model()
			require.NoError(t, err)
			for _, c := range constraints {
				v, err := m.Eval(c)
				require.NoError(t, err)
				assert.True(t, v.Bit(0), "model violates %s", c)
			}
		})
	}
}
