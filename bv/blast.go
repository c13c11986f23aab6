package bv

import (
	"bufio"
	"fmt"
	"io"
	"strconv"

	"github.com/go-air/gini/logic"
	"github.com/go-air/gini/z"
)

// blaster lowers expressions to an and-inverter circuit, one literal per bit.
// Variables and array elements become circuit inputs; everything else is a
// gate. The circuit hash-conses gates, so identical sub-circuits built from
// different expression nodes are shared.
type blaster struct {
	c      *logic.C
	vars   map[string][]z.Lit
	arrays map[string]*blastedArray
	memo   map[Expr][]z.Lit
	roots  []z.Lit
}

type blastedArray struct {
	arr   *Array
	elems [][]z.Lit
}

func newBlaster() *blaster {
	return &blaster{
		c:      logic.NewC(),
		vars:   make(map[string][]z.Lit),
		arrays: make(map[string]*blastedArray),
		memo:   make(map[Expr][]z.Lit),
	}
}

// assert lowers each predicate and records it as a root that must hold.
func (b *blaster) assert(constraints []Expr) error {
	roots := make([]z.Lit, 0, len(constraints))
	for _, e := range constraints {
		if e.Width() != WidthBool {
			return fmt.Errorf("%w: %s has width %d", ErrNotPredicate, e, e.Width())
		}
		lits, err := b.blast(e)
		if err != nil {
			return err
		}
		roots = append(roots, lits[0])
	}
	b.roots = append(b.roots, roots...)
	return nil
}

func (b *blaster) blast(e Expr) ([]z.Lit, error) {
	if lits, ok := b.memo[e]; ok {
		return lits, nil
	}
	lits, err := b.blastNode(e)
	if err != nil {
		return nil, err
	}
	b.memo[e] = lits
	return lits, nil
}

func (b *blaster) blastNode(e Expr) ([]z.Lit, error) {
	switch e := e.(type) {
	case *Const:
		lits := make([]z.Lit, len(e.Value))
		for i, bit := range e.Value {
			lits[i] = b.c.F
			if bit {
				lits[i] = b.c.T
			}
		}
		return lits, nil
	case *Var:
		return b.variable(e)
	case *Select:
		a, err := b.array(e.Array)
		if err != nil {
			return nil, err
		}
		idx, err := b.blast(e.Index)
		if err != nil {
			return nil, err
		}
		return b.mux(a.elems, idx, e.Array.ValueWidth), nil
	case *Extract:
		x, err := b.blast(e.X)
		if err != nil {
			return nil, err
		}
		return x[e.Offset : e.Offset+e.W], nil
	case *Concat:
		msb, err := b.blast(e.MSB)
		if err != nil {
			return nil, err
		}
		lsb, err := b.blast(e.LSB)
		if err != nil {
			return nil, err
		}
		return append(append([]z.Lit(nil), lsb...), msb...), nil
	case *ZeroExt:
		x, err := b.blast(e.X)
		if err != nil {
			return nil, err
		}
		lits := append([]z.Lit(nil), x...)
		for uint(len(lits)) < e.W {
			lits = append(lits, b.c.F)
		}
		return lits, nil
	case *Binary:
		lhs, err := b.blast(e.LHS)
		if err != nil {
			return nil, err
		}
		rhs, err := b.blast(e.RHS)
		if err != nil {
			return nil, err
		}
		lits := make([]z.Lit, len(lhs))
		for i := range lits {
			switch e.Op {
			case AND:
				lits[i] = b.c.And(lhs[i], rhs[i])
			case OR:
				lits[i] = b.c.Or(lhs[i], rhs[i])
			case XOR:
				lits[i] = b.c.Xor(lhs[i], rhs[i])
			default:
				return nil, fmt.Errorf("bv: invalid operation %s", e.Op)
			}
		}
		return lits, nil
	case *Not:
		x, err := b.blast(e.X)
		if err != nil {
			return nil, err
		}
		lits := make([]z.Lit, len(x))
		for i, m := range x {
			lits[i] = m.Not()
		}
		return lits, nil
	case *Eq:
		lhs, err := b.blast(e.LHS)
		if err != nil {
			return nil, err
		}
		rhs, err := b.blast(e.RHS)
		if err != nil {
			return nil, err
		}
		same := make([]z.Lit, len(lhs))
		for i := range same {
			same[i] = b.c.Xor(lhs[i], rhs[i]).Not()
		}
		return []z.Lit{b.c.Ands(same...)}, nil
	default:
		return nil, fmt.Errorf("bv: invalid expression type: %T", e)
	}
}

func (b *blaster) variable(v *Var) ([]z.Lit, error) {
	if lits, ok := b.vars[v.Name]; ok {
		if uint(len(lits)) != v.W {
			return nil, fmt.Errorf("bv: variable %q used with widths %d and %d", v.Name, len(lits), v.W)
		}
		return lits, nil
	}
	lits := make([]z.Lit, v.W)
	for i := range lits {
		lits[i] = b.c.Lit()
	}
	b.vars[v.Name] = lits
	return lits, nil
}

func (b *blaster) array(a *Array) (*blastedArray, error) {
	if ba, ok := b.arrays[a.Name]; ok {
		if ba.arr.IndexWidth != a.IndexWidth || ba.arr.ValueWidth != a.ValueWidth {
			return nil, fmt.Errorf("bv: array %q redeclared with a different sort", a.Name)
		}
		return ba, nil
	}
	ba := &blastedArray{arr: a, elems: make([][]z.Lit, a.Len())}
	for i := range ba.elems {
		elem := make([]z.Lit, a.ValueWidth)
		for j := range elem {
			elem[j] = b.c.Lit()
		}
		ba.elems[i] = elem
	}
	b.arrays[a.Name] = ba
	return ba, nil
}

// mux selects elems[idx] with a tree of choice gates, consuming the index
// from its least significant bit upward.
func (b *blaster) mux(elems [][]z.Lit, idx []z.Lit, width uint) []z.Lit {
	level := elems
	for _, sel := range idx {
		next := make([][]z.Lit, len(level)/2)
		for k := range next {
			lo, hi := level[2*k], level[2*k+1]
			out := make([]z.Lit, width)
			for j := range out {
				out[j] = b.c.Choice(sel, hi[j], lo[j])
			}
			next[k] = out
		}
		level = next
	}
	return level[0]
}

// toCnf emits the Tseitin encoding of the circuit plus unit clauses for the
// constant true literal and every root.
func (b *blaster) toCnf(dst adder) {
	b.c.ToCnf(dst)
	dst.Add(b.c.T)
	dst.Add(z.LitNull)
	for _, m := range b.roots {
		dst.Add(m)
		dst.Add(z.LitNull)
	}
}

// model reads back every variable and array through value.
func (b *blaster) model(value func(z.Lit) bool) *Model {
	m := NewModel()
	for name, lits := range b.vars {
		m.Vars[name] = litsValue(lits, value)
	}
	for name, ba := range b.arrays {
		elems := make([]Value, len(ba.elems))
		for i, lits := range ba.elems {
			elems[i] = litsValue(lits, value)
		}
		m.Arrays[name] = elems
	}
	return m
}

// maxVar returns the largest variable index used by any input.
func (b *blaster) maxVar() z.Var {
	var top z.Var
	see := func(lits []z.Lit) {
		for _, m := range lits {
			if m.Var() > top {
				top = m.Var()
			}
		}
	}
	for _, lits := range b.vars {
		see(lits)
	}
	for _, ba := range b.arrays {
		for _, lits := range ba.elems {
			see(lits)
		}
	}
	return top
}

func litsValue(lits []z.Lit, value func(z.Lit) bool) Value {
	v := make(Value, len(lits))
	for i, m := range lits {
		v[i] = value(m)
	}
	return v
}

// adder receives clauses one literal at a time, z.LitNull closing a clause.
type adder interface {
	Add(m z.Lit)
}

// clauses collects a CNF in DIMACS numbering.
type clauses struct {
	list   [][]int
	cur    []int
	maxVar int
}

func (cs *clauses) Add(m z.Lit) {
	if m == z.LitNull {
		cs.list = append(cs.list, cs.cur)
		cs.cur = nil
		return
	}
	if v := int(m.Var()); v > cs.maxVar {
		cs.maxVar = v
	}
	cs.cur = append(cs.cur, m.Dimacs())
}

func (b *blaster) cnf() *clauses {
	cs := &clauses{}
	b.toCnf(cs)
	if v := int(b.maxVar()); v > cs.maxVar {
		cs.maxVar = v
	}
	return cs
}

// writeDIMACS writes cs in DIMACS CNF format.
func writeDIMACS(w io.Writer, cs *clauses) error {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintf(bw, "p cnf %d %d\n", cs.maxVar, len(cs.list)); err != nil {
		return err
	}
	buf := make([]byte, 0, 64)
	for _, clause := range cs.list {
		buf = buf[:0]
		for _, lit := range clause {
			buf = strconv.AppendInt(buf, int64(lit), 10)
			buf = append(buf, ' ')
		}
		buf = append(buf, '0', '\n')
		if _, err := bw.Write(buf); err != nil {
			return err
		}
	}
	return bw.Flush()
}
