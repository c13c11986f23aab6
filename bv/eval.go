package bv

import "fmt"

// Model binds variables and arrays to concrete values. Solvers return a
// Model after a satisfiable check; tests build one by hand to evaluate
// expressions directly.
type Model struct {
	Vars   map[string]Value
	Arrays map[string][]Value
}

// NewModel returns an empty model.
func NewModel() *Model {
	return &Model{
		Vars:   make(map[string]Value),
		Arrays: make(map[string][]Value),
	}
}

// Bind sets the value of the named variable and returns m.
func (m *Model) Bind(name string, v Value) *Model {
	m.Vars[name] = v
	return m
}

// BindUint64 sets the value of v to the low bits of x and returns m.
func (m *Model) BindUint64(v *Var, x uint64) *Model {
	return m.Bind(v.Name, NewValue(x, v.W))
}

// BindArray sets every element of the named array and returns m.
func (m *Model) BindArray(name string, elems []Value) *Model {
	m.Arrays[name] = elems
	return m
}

// Value returns the value bound to the named variable.
func (m *Model) Value(name string) (Value, bool) {
	v, ok := m.Vars[name]
	return v, ok
}

// Eval evaluates e under m.
func (m *Model) Eval(e Expr) (Value, error) {
	return Evaluate(e, m)
}

// Evaluate evaluates e to a constant under the bindings in m.
// Returns an error if e references a variable or array that m does not bind.
func Evaluate(e Expr, m *Model) (Value, error) {
	ev := &evaluator{m: m, memo: make(map[Expr]Value)}
	return ev.eval(e)
}

type evaluator struct {
	m    *Model
	memo map[Expr]Value
}

func (ev *evaluator) eval(e Expr) (Value, error) {
	if v, ok := ev.memo[e]; ok {
		return v, nil
	}
	v, err := ev.evalNode(e)
	if err != nil {
		return nil, err
	}
	ev.memo[e] = v
	return v, nil
}

func (ev *evaluator) evalNode(e Expr) (Value, error) {
	switch e := e.(type) {
	case *Const:
		return e.Value, nil
	case *Var:
		v, ok := ev.m.Vars[e.Name]
		if !ok {
			return nil, fmt.Errorf("bv: variable %q not bound", e.Name)
		}
		if v.Width() != e.W {
			return nil, fmt.Errorf("bv: variable %q bound to %d bits, declared %d", e.Name, v.Width(), e.W)
		}
		return v, nil
	case *Select:
		idx, err := ev.eval(e.Index)
		if err != nil {
			return nil, err
		}
		elems, ok := ev.m.Arrays[e.Array.Name]
		if !ok {
			return nil, fmt.Errorf("bv: array %q not bound", e.Array.Name)
		}
		i := idx.Uint64()
		if i >= uint64(len(elems)) {
			return nil, fmt.Errorf("bv: select index out of bounds: %d >= %d", i, len(elems))
		}
		if elems[i].Width() != e.Array.ValueWidth {
			return nil, fmt.Errorf("bv: array %q element %d has %d bits, declared %d", e.Array.Name, i, elems[i].Width(), e.Array.ValueWidth)
		}
		return elems[i], nil
	case *Extract:
		x, err := ev.eval(e.X)
		if err != nil {
			return nil, err
		}
		return append(Value(nil), x[e.Offset:e.Offset+e.W]...), nil
	case *Concat:
		msb, err := ev.eval(e.MSB)
		if err != nil {
			return nil, err
		}
		lsb, err := ev.eval(e.LSB)
		if err != nil {
			return nil, err
		}
		return append(append(Value(nil), lsb...), msb...), nil
	case *ZeroExt:
		x, err := ev.eval(e.X)
		if err != nil {
			return nil, err
		}
		return append(append(Value(nil), x...), make(Value, e.W-x.Width())...), nil
	case *Binary:
		lhs, err := ev.eval(e.LHS)
		if err != nil {
			return nil, err
		}
		rhs, err := ev.eval(e.RHS)
		if err != nil {
			return nil, err
		}
		v := make(Value, len(lhs))
		for i := range v {
			v[i] = e.Op.apply(lhs[i], rhs[i])
		}
		return v, nil
	case *Not:
		x, err := ev.eval(e.X)
		if err != nil {
			return nil, err
		}
		v := make(Value, len(x))
		for i, b := range x {
			v[i] = !b
		}
		return v, nil
	case *Eq:
		lhs, err := ev.eval(e.LHS)
		if err != nil {
			return nil, err
		}
		rhs, err := ev.eval(e.RHS)
		if err != nil {
			return nil, err
		}
		return Value{lhs.Equal(rhs)}, nil
	default:
		return nil, fmt.Errorf("bv: invalid expression type: %T", e)
	}
}
