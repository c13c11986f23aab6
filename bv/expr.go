package bv

import "fmt"

// WidthBool is the width of predicate expressions such as Eq.
const WidthBool = 1

// Expr represents a symbolic bit-vector expression.
//
// Expressions are immutable once built. The constructors in this package
// simplify eagerly (constant folding, extract/concat fusion) and only ever
// allocate new nodes, so building expressions from several goroutines at once
// is safe.
type Expr interface {
	Width() uint
	String() string
	expr()
}

func (*Const) expr()   {}
func (*Var) expr()     {}
func (*Select) expr()  {}
func (*Extract) expr() {}
func (*Concat) expr()  {}
func (*ZeroExt) expr() {}
func (*Binary) expr()  {}
func (*Not) expr()     {}
func (*Eq) expr()      {}

func mustHold(condition bool, msg string, v ...interface{}) {
	if !condition {
		panic("bv: assertion failed: " + fmt.Sprintf(msg, v...))
	}
}

// Const is a literal bit-vector.
type Const struct {
	Value Value
}

// NewConst returns the low width bits of x as a constant.
func NewConst(x uint64, width uint) *Const {
	mustHold(width > 0, "constant width cannot be zero")
	return &Const{Value: NewValue(x, width)}
}

// NewConstValue returns a constant holding a copy of v.
func NewConstValue(v Value) *Const {
	mustHold(len(v) > 0, "constant width cannot be zero")
	return &Const{Value: append(Value(nil), v...)}
}

// True returns the boolean constant 1.
func True() *Const { return NewConst(1, WidthBool) }

// False returns the boolean constant 0.
func False() *Const { return NewConst(0, WidthBool) }

func (e *Const) Width() uint { return e.Value.Width() }

func (e *Const) String() string {
	return fmt.Sprintf("(const %s %d)", e.Value, e.Width())
}

// IsZero reports whether every bit of e is zero.
func (e *Const) IsZero() bool {
	for _, b := range e.Value {
		if b {
			return false
		}
	}
	return true
}

// IsAllOnes reports whether every bit of e is one.
func (e *Const) IsAllOnes() bool {
	for _, b := range e.Value {
		if !b {
			return false
		}
	}
	return true
}

// Var is a named free bit-vector variable. Two Vars with the same name denote
// the same variable inside one solver session.
type Var struct {
	Name string
	W    uint
}

// NewVar declares a variable of the given width.
func NewVar(name string, width uint) *Var {
	mustHold(name != "", "variable name cannot be empty")
	mustHold(width > 0, "variable width cannot be zero")
	return &Var{Name: name, W: width}
}

func (e *Var) Width() uint    { return e.W }
func (e *Var) String() string { return e.Name }

// Array is a named uninterpreted array from IndexWidth-bit indices to
// ValueWidth-bit values. It has no meaning until its elements are constrained.
type Array struct {
	Name       string
	IndexWidth uint
	ValueWidth uint
}

// NewArray declares an array variable.
func NewArray(name string, indexWidth, valueWidth uint) *Array {
	mustHold(name != "", "array name cannot be empty")
	mustHold(indexWidth > 0 && indexWidth <= 16, "array index width out of range: %d", indexWidth)
	mustHold(valueWidth > 0, "array value width cannot be zero")
	return &Array{Name: name, IndexWidth: indexWidth, ValueWidth: valueWidth}
}

// Len returns the number of elements of a.
func (a *Array) Len() int { return 1 << a.IndexWidth }

func (a *Array) String() string { return a.Name }

// Select reads one element of an array.
type Select struct {
	Array *Array
	Index Expr
}

// NewSelect returns a[index].
func NewSelect(a *Array, index Expr) Expr {
	mustHold(index.Width() == a.IndexWidth, "select index width %d, array %s expects %d", index.Width(), a.Name, a.IndexWidth)
	return &Select{Array: a, Index: index}
}

func (e *Select) Width() uint { return e.Array.ValueWidth }

func (e *Select) String() string {
	return fmt.Sprintf("(select %s %s)", e.Array, e.Index)
}

// Extract is a contiguous slice of bits [Offset, Offset+W) of X.
type Extract struct {
	X      Expr
	Offset uint
	W      uint
}

// NewExtract returns bits [offset, offset+width) of x.
func NewExtract(x Expr, offset, width uint) Expr {
	xw := x.Width()
	mustHold(width > 0, "extract width cannot be zero")
	mustHold(offset+width <= xw, "extract out of bounds: %d+%d > %d", offset, width, xw)

	if offset == 0 && width == xw {
		return x
	}

	switch x := x.(type) {
	case *Const:
		return NewConstValue(x.Value[offset : offset+width])
	case *Extract:
		return NewExtract(x.X, x.Offset+offset, width)
	case *Concat:
		lw := x.LSB.Width()
		if offset >= lw {
			return NewExtract(x.MSB, offset-lw, width)
		}
		if offset+width <= lw {
			return NewExtract(x.LSB, offset, width)
		}
		return NewConcat(NewExtract(x.MSB, 0, offset+width-lw), NewExtract(x.LSB, offset, lw-offset))
	case *ZeroExt:
		sw := x.X.Width()
		if offset >= sw {
			return NewConst(0, width)
		}
		if offset+width <= sw {
			return NewExtract(x.X, offset, width)
		}
		return NewZeroExt(NewExtract(x.X, offset, sw-offset), width)
	case *Binary:
		return NewBinary(x.Op, NewExtract(x.LHS, offset, width), NewExtract(x.RHS, offset, width))
	case *Not:
		return NewNot(NewExtract(x.X, offset, width))
	}

	return &Extract{X: x, Offset: offset, W: width}
}

// Bit returns bit i of x as a 1-bit expression.
func Bit(x Expr, i uint) Expr {
	return NewExtract(x, i, 1)
}

func (e *Extract) Width() uint { return e.W }

func (e *Extract) String() string {
	return fmt.Sprintf("(extract %s %d %d)", e.X, e.Offset, e.W)
}

// Concat places MSB above LSB.
type Concat struct {
	MSB Expr
	LSB Expr
}

// NewConcat returns msb:lsb.
func NewConcat(msb, lsb Expr) Expr {
	if m, ok := msb.(*Const); ok {
		if l, ok := lsb.(*Const); ok {
			return NewConstValue(append(append(Value(nil), l.Value...), m.Value...))
		}
		if m.IsZero() {
			return NewZeroExt(lsb, msb.Width()+lsb.Width())
		}
	}

	// Contiguous extracts of the same source collapse into one.
	if m, ok := msb.(*Extract); ok {
		if l, ok := lsb.(*Extract); ok {
			if m.X == l.X && l.Offset+l.W == m.Offset {
				return NewExtract(m.X, l.Offset, l.W+m.W)
			}
		}
	}

	return &Concat{MSB: msb, LSB: lsb}
}

// Concats concatenates parts, the first part being the most significant.
func Concats(parts ...Expr) Expr {
	mustHold(len(parts) > 0, "concat of nothing")
	out := parts[len(parts)-1]
	for i := len(parts) - 2; i >= 0; i-- {
		out = NewConcat(parts[i], out)
	}
	return out
}

func (e *Concat) Width() uint { return e.MSB.Width() + e.LSB.Width() }

func (e *Concat) String() string {
	return fmt.Sprintf("(concat %s %s)", e.MSB, e.LSB)
}

// ZeroExt pads X with zero bits up to width W.
type ZeroExt struct {
	X Expr
	W uint
}

// NewZeroExt zero-extends x to width bits. A width smaller than x truncates.
func NewZeroExt(x Expr, width uint) Expr {
	xw := x.Width()
	switch {
	case width == xw:
		return x
	case width < xw:
		return NewExtract(x, 0, width)
	}

	switch x := x.(type) {
	case *Const:
		return NewConstValue(append(append(Value(nil), x.Value...), make(Value, width-xw)...))
	case *ZeroExt:
		return NewZeroExt(x.X, width)
	}
	return &ZeroExt{X: x, W: width}
}

func (e *ZeroExt) Width() uint { return e.W }

func (e *ZeroExt) String() string {
	return fmt.Sprintf("(zext %s %d)", e.X, e.W)
}

// Op is a bitwise binary operation.
type Op int

// Bitwise operations.
const (
	AND Op = iota + 1
	OR
	XOR
)

func (op Op) String() string {
	switch op {
	case AND:
		return "and"
	case OR:
		return "or"
	case XOR:
		return "xor"
	default:
		return fmt.Sprintf("op(%d)", int(op))
	}
}

func (op Op) apply(a, b bool) bool {
	switch op {
	case AND:
		return a && b
	case OR:
		return a || b
	case XOR:
		return a != b
	}
	panic("bv: invalid operation " + op.String())
}

// Binary applies a bitwise operation to two equal-width operands.
type Binary struct {
	Op  Op
	LHS Expr
	RHS Expr
}

// NewBinary returns lhs op rhs.
func NewBinary(op Op, lhs, rhs Expr) Expr {
	mustHold(lhs.Width() == rhs.Width(), "%s of mismatched widths %d and %d", op, lhs.Width(), rhs.Width())

	l, lok := lhs.(*Const)
	r, rok := rhs.(*Const)
	if lok && rok {
		v := make(Value, len(l.Value))
		for i := range v {
			v[i] = op.apply(l.Value[i], r.Value[i])
		}
		return &Const{Value: v}
	}

	// Keep the constant on the right.
	if lok {
		lhs, rhs = rhs, lhs
		r, rok = l, true
	}
	if rok {
		switch {
		case r.IsZero() && (op == XOR || op == OR):
			return lhs
		case r.IsZero() && op == AND:
			return r
		case r.IsAllOnes() && op == AND:
			return lhs
		case r.IsAllOnes() && op == OR:
			return r
		case r.IsAllOnes() && op == XOR:
			return NewNot(lhs)
		}
	}

	if lhs == rhs {
		if op == XOR {
			return NewConst(0, lhs.Width())
		}
		return lhs
	}

	return &Binary{Op: op, LHS: lhs, RHS: rhs}
}

// And returns the bitwise AND of a and b.
func And(a, b Expr) Expr { return NewBinary(AND, a, b) }

// Or returns the bitwise OR of a and b.
func Or(a, b Expr) Expr { return NewBinary(OR, a, b) }

// Xor returns the bitwise XOR of a and b.
func Xor(a, b Expr) Expr { return NewBinary(XOR, a, b) }

// Ors folds Or over xs.
func Ors(xs ...Expr) Expr {
	mustHold(len(xs) > 0, "or of nothing")
	out := xs[0]
	for _, x := range xs[1:] {
		out = Or(out, x)
	}
	return out
}

func (e *Binary) Width() uint { return e.LHS.Width() }

func (e *Binary) String() string {
	return fmt.Sprintf("(%s %s %s)", e.Op, e.LHS, e.RHS)
}

// Not is the bitwise complement of X.
type Not struct {
	X Expr
}

// NewNot returns ^x.
func NewNot(x Expr) Expr {
	switch x := x.(type) {
	case *Const:
		v := make(Value, len(x.Value))
		for i, b := range x.Value {
			v[i] = !b
		}
		return &Const{Value: v}
	case *Not:
		return x.X
	}
	return &Not{X: x}
}

func (e *Not) Width() uint { return e.X.Width() }

func (e *Not) String() string {
	return fmt.Sprintf("(not %s)", e.X)
}

// Eq is the 1-bit predicate LHS == RHS.
type Eq struct {
	LHS Expr
	RHS Expr
}

// NewEq returns the predicate lhs == rhs.
func NewEq(lhs, rhs Expr) Expr {
	mustHold(lhs.Width() == rhs.Width(), "eq of mismatched widths %d and %d", lhs.Width(), rhs.Width())

	if lhs == rhs {
		return True()
	}
	if l, ok := lhs.(*Const); ok {
		if r, ok := rhs.(*Const); ok {
			if l.Value.Equal(r.Value) {
				return True()
			}
			return False()
		}
	}
	return &Eq{LHS: lhs, RHS: rhs}
}

// Ne returns the predicate lhs != rhs.
func Ne(lhs, rhs Expr) Expr {
	return NewNot(NewEq(lhs, rhs))
}

func (e *Eq) Width() uint { return WidthBool }

func (e *Eq) String() string {
	return fmt.Sprintf("(= %s %s)", e.LHS, e.RHS)
}
