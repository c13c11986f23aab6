package cps2

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/jedisct1/go-cps2/bv"
)

// Pair is a known plaintext and the ciphertext fn2 produces for it.
type Pair struct {
	Plaintext  uint16
	Ciphertext uint16
}

// ParsePair decodes a pair written as plaintext:ciphertext. Both numbers
// accept the 0x, 0o and 0b prefixes and default to decimal.
func ParsePair(s string) (Pair, error) {
	pt, ct, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return Pair{}, fmt.Errorf("%w: %q", ErrInvalidPair, s)
	}
	p, err := strconv.ParseUint(pt, 0, 16)
	if err != nil {
		return Pair{}, fmt.Errorf("%w: %q: %v", ErrInvalidPair, s, err)
	}
	c, err := strconv.ParseUint(ct, 0, 16)
	if err != nil {
		return Pair{}, fmt.Errorf("%w: %q: %v", ErrInvalidPair, s, err)
	}
	return Pair{Plaintext: uint16(p), Ciphertext: uint16(c)}, nil
}

func (p Pair) String() string {
	return fmt.Sprintf("0x%04x:0x%04x", p.Plaintext, p.Ciphertext)
}

// SamplePairs returns six pairs observed on real hardware.
func SamplePairs() []Pair {
	return []Pair{
		{0xbeef, 0x2478},
		{0xbabe, 0x1e4a},
		{0x4491, 0x57ea},
		{0x1234, 0x233f},
		{0x9876, 0x6583},
		{0xfab4, 0x209e},
	}
}

// Result is the outcome of a recovery attempt. Key is set only when Status
// is bv.StatusSat, and is one consistent key among possibly many.
type Result struct {
	Status bv.Status
	Key    Key
}

func (r *Result) String() string {
	if r.Status == bv.StatusSat {
		return "key: " + r.Key.String()
	}
	return r.Status.String()
}

// Logger receives progress messages from a Recoverer.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Info(string, ...interface{})  {}

// Option configures a Recoverer.
type Option func(*Recoverer)

// WithLogger sets the logger. Recoverers are silent by default.
func WithLogger(l Logger) Option {
	return func(rec *Recoverer) {
		if l != nil {
			rec.log = l
		}
	}
}

// WithNetwork replaces the fn2 network with a custom one.
func WithNetwork(n *Network) Option {
	return func(rec *Recoverer) {
		rec.network = n
	}
}

// Recoverer searches for a fn2 key consistent with a set of known pairs. It
// owns one solver session, in which every pair shares the same key variable.
// A Recoverer is safe for concurrent use.
type Recoverer struct {
	mu      sync.Mutex
	solver  bv.Solver
	network *Network
	key     *bv.Var
	pairs   []Pair
	log     Logger
}

// NewRecoverer takes ownership of s and asserts the s-box tables into it.
// On error, s is left open.
func NewRecoverer(s bv.Solver, opts ...Option) (*Recoverer, error) {
	rec := &Recoverer{
		solver: s,
		key:    bv.NewVar("key", KeyBits),
		log:    nopLogger{},
	}
	for _, opt := range opts {
		opt(rec)
	}
	if rec.network == nil {
		n, err := DefaultNetwork()
		if err != nil {
			return nil, err
		}
		rec.network = n
	}
	constraints := rec.network.Constraints()
	if err := s.Assert(constraints...); err != nil {
		return nil, fmt.Errorf("asserting s-box tables: %w", err)
	}
	rec.log.Debug("s-box tables asserted", len(constraints))
	return rec, nil
}

// KeyVar returns the symbolic key shared by every pair.
func (rec *Recoverer) KeyVar() *bv.Var {
	return rec.key
}

// Pairs returns the pairs asserted so far.
func (rec *Recoverer) Pairs() []Pair {
	rec.mu.Lock()
	defer rec.mu.Unlock()
	return append([]Pair(nil), rec.pairs...)
}

// Equation returns the predicate Encrypt(p.Plaintext, key) == p.Ciphertext.
func (rec *Recoverer) Equation(p Pair) bv.Expr {
	return bv.NewEq(rec.ciphertext(p.Plaintext), bv.NewConst(uint64(p.Ciphertext), BlockBits))
}

func (rec *Recoverer) ciphertext(pt uint16) bv.Expr {
	return rec.network.Encrypt(bv.NewConst(uint64(pt), BlockBits), rec.key)
}

// AddPairs asserts one equation per pair. Ciphertext circuits are built
// concurrently, one per distinct plaintext, and the equations are asserted
// together.
func (rec *Recoverer) AddPairs(pairs ...Pair) error {
	index := make(map[uint16]int, len(pairs))
	var plaintexts []uint16
	for _, p := range pairs {
		if _, ok := index[p.Plaintext]; !ok {
			index[p.Plaintext] = len(plaintexts)
			plaintexts = append(plaintexts, p.Plaintext)
		}
	}

	cts := make([]bv.Expr, len(plaintexts))
	var wg sync.WaitGroup
	for i, pt := range plaintexts {
		wg.Add(1)
		go func(i int, pt uint16) {
			defer wg.Done()
			cts[i] = rec.ciphertext(pt)
		}(i, pt)
	}
	wg.Wait()

	eqs := make([]bv.Expr, len(pairs))
	for i, p := range pairs {
		eqs[i] = bv.NewEq(cts[index[p.Plaintext]], bv.NewConst(uint64(p.Ciphertext), BlockBits))
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()
	if err := rec.solver.Assert(eqs...); err != nil {
		return fmt.Errorf("asserting pairs: %w", err)
	}
	rec.pairs = append(rec.pairs, pairs...)
	for _, p := range pairs {
		rec.log.Debug("pair asserted", p)
	}
	return nil
}

// Exclude rules key out of later searches.
func (rec *Recoverer) Exclude(key Key) error {
	rec.mu.Lock()
	defer rec.mu.Unlock()
	if err := rec.solver.Assert(bv.Ne(rec.key, key.Expr())); err != nil {
		return fmt.Errorf("excluding %s: %w", key, err)
	}
	rec.log.Debug("key excluded", key)
	return nil
}

// Recover checks the pairs asserted so far. A canceled or expired ctx
// yields StatusUnknown, not an error.
func (rec *Recoverer) Recover(ctx context.Context) (*Result, error) {
	rec.mu.Lock()
	defer rec.mu.Unlock()
	if len(rec.pairs) == 0 {
		return nil, ErrNoPairs
	}

	rec.log.Info("solving", len(rec.pairs))
	start := time.Now()
	status, err := rec.solver.Check(ctx)
	if err != nil {
		return nil, err
	}
	rec.log.Info("solver finished", status, time.Since(start).Round(time.Millisecond))

	res := &Result{Status: status}
	if status != bv.StatusSat {
		return res, nil
	}
	m, err := rec.solver.Model()
	if err != nil {
		return nil, err
	}
	v, ok := m.Value(rec.key.Name)
	if !ok {
		return nil, ErrNoKeyInModel
	}
	if res.Key, err = KeyFromValue(v); err != nil {
		return nil, err
	}
	return res, nil
}

// Verify reports whether key maps every asserted plaintext to its
// ciphertext under the concrete cipher.
func (rec *Recoverer) Verify(key Key) (bool, error) {
	c, err := NewCipherWith(rec.network.groups, rec.network.perm, key)
	if err != nil {
		return false, err
	}
	for _, p := range rec.Pairs() {
		if c.Encrypt(p.Plaintext) != p.Ciphertext {
			return false, nil
		}
	}
	return true, nil
}

// WriteDIMACS writes the constraint system as DIMACS CNF, if the solver
// supports it.
func (rec *Recoverer) WriteDIMACS(w io.Writer) error {
	rec.mu.Lock()
	defer rec.mu.Unlock()
	dw, ok := rec.solver.(bv.DIMACSWriter)
	if !ok {
		return fmt.Errorf("%w: %T", ErrDIMACSUnsupported, rec.solver)
	}
	return dw.WriteDIMACS(w)
}

// Close releases the solver session.
func (rec *Recoverer) Close() error {
	rec.mu.Lock()
	defer rec.mu.Unlock()
	return rec.solver.Close()
}
