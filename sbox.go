package cps2

import (
	"fmt"

	"github.com/jedisct1/go-cps2/bv"
)

const (
	// HalfBits is the width of a Feistel half-block.
	HalfBits = 8

	// IndexBits is the width of an s-box lookup index (and of a subkey).
	IndexBits = 6

	// ResultBits is the width of an s-box lookup result.
	ResultBits = 2

	// TableSize is the number of entries in an s-box table.
	TableSize = 1 << IndexBits

	// BoxesPerGroup is the number of s-boxes used by one round.
	BoxesPerGroup = 4
)

// SBox is one substitution table of the round function together with its
// wiring: which bits of the half-block form the lookup index, and where the
// 2-bit result lands in the round output. An SBox is immutable.
type SBox struct {
	table   [TableSize]uint8
	inputs  []uint
	outputs [ResultBits]uint
}

// NewSBox validates and builds an s-box.
//
// inputs lists the half-block bit positions forming the index, least
// significant first. Fewer than 6 positions leave the top index bits at zero.
// outputs lists the two half-block positions receiving result bits 0 and 1.
func NewSBox(table []uint8, inputs []uint, outputs []uint) (*SBox, error) {
	if len(table) != TableSize {
		return nil, fmt.Errorf("%w: got %d entries", ErrInvalidTable, len(table))
	}
	s := &SBox{}
	for i, v := range table {
		if v > 3 {
			return nil, fmt.Errorf("%w: entry %d is %d", ErrInvalidTable, i, v)
		}
		s.table[i] = v
	}

	if len(inputs) == 0 || len(inputs) > IndexBits || !distinctBits(inputs) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInputs, inputs)
	}
	s.inputs = append([]uint(nil), inputs...)

	if len(outputs) != ResultBits || !distinctBits(outputs) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidOutputs, outputs)
	}
	copy(s.outputs[:], outputs)

	return s, nil
}

func distinctBits(positions []uint) bool {
	var seen uint16
	for _, p := range positions {
		if p >= HalfBits || seen&(1<<p) != 0 {
			return false
		}
		seen |= 1 << p
	}
	return true
}

// Inputs returns the index bit positions, least significant first.
func (s *SBox) Inputs() []uint {
	return append([]uint(nil), s.inputs...)
}

// Outputs returns the half-block positions of result bits 0 and 1.
func (s *SBox) Outputs() [ResultBits]uint {
	return s.outputs
}

// outputMask returns the half-block bits written by s.
func (s *SBox) outputMask() uint8 {
	return 1<<s.outputs[0] | 1<<s.outputs[1]
}

// GatherInput assembles the 6-bit lookup index from an 8-bit half-block.
func (s *SBox) GatherInput(half bv.Expr) bv.Expr {
	if half.Width() != HalfBits {
		panic(fmt.Sprintf("cps2: half-block must be %d bits, got %d", HalfBits, half.Width()))
	}
	bits := make([]bv.Expr, 0, len(s.inputs))
	for i := len(s.inputs) - 1; i >= 0; i-- {
		bits = append(bits, bv.Bit(half, s.inputs[i]))
	}
	return bv.NewZeroExt(bv.Concats(bits...), IndexBits)
}

// ScatterOutput places a 2-bit lookup result at the s-box's output positions
// of an otherwise zero half-block.
func (s *SBox) ScatterOutput(result bv.Expr) bv.Expr {
	if result.Width() != ResultBits {
		panic(fmt.Sprintf("cps2: s-box result must be %d bits, got %d", ResultBits, result.Width()))
	}
	bits := make([]bv.Expr, HalfBits)
	for pos := uint(0); pos < HalfBits; pos++ {
		var bit bv.Expr = bv.NewConst(0, 1)
		for j, out := range s.outputs {
			if out == pos {
				bit = bv.Bit(result, uint(j))
			}
		}
		bits[HalfBits-1-pos] = bit
	}
	return bv.Concats(bits...)
}

// LookupConstraints declares an array named name standing for the s-box
// table, and returns it with the 64 equalities that pin every element to the
// table. The equalities must be asserted before the array is used.
func (s *SBox) LookupConstraints(name string) (*bv.Array, []bv.Expr) {
	arr := bv.NewArray(name, IndexBits, ResultBits)
	constraints := make([]bv.Expr, TableSize)
	for i, v := range s.table {
		constraints[i] = bv.NewEq(
			bv.NewSelect(arr, bv.NewConst(uint64(i), IndexBits)),
			bv.NewConst(uint64(v), ResultBits),
		)
	}
	return arr, constraints
}

// Gather is the concrete counterpart of GatherInput.
func (s *SBox) Gather(half uint8) uint8 {
	var idx uint8
	for i, pos := range s.inputs {
		idx |= (half >> pos & 1) << uint(i)
	}
	return idx
}

// Scatter is the concrete counterpart of ScatterOutput.
func (s *SBox) Scatter(result uint8) uint8 {
	var out uint8
	for j, pos := range s.outputs {
		out |= (result >> uint(j) & 1) << pos
	}
	return out
}

// Lookup returns the table entry at the low 6 bits of index.
func (s *SBox) Lookup(index uint8) uint8 {
	return s.table[index&(TableSize-1)]
}

// Apply runs the s-box on a half-block with a 6-bit subkey and returns its
// scattered contribution to the round output.
func (s *SBox) Apply(half, subkey uint8) uint8 {
	return s.Scatter(s.Lookup(s.Gather(half) ^ subkey))
}

// Group is the ordered set of four s-boxes used by one round. Their output
// positions are disjoint and cover the whole half-block, so OR-ing their
// scattered results composes the round output exactly.
type Group struct {
	name  string
	boxes [BoxesPerGroup]*SBox
}

// NewGroup validates and builds a group.
func NewGroup(name string, boxes ...*SBox) (*Group, error) {
	if len(boxes) != BoxesPerGroup {
		return nil, fmt.Errorf("%w: %s has %d", ErrInvalidGroup, name, len(boxes))
	}
	g := &Group{name: name}
	var written uint8
	for i, box := range boxes {
		if box == nil {
			return nil, fmt.Errorf("%w: %s box %d is nil", ErrInvalidGroup, name, i)
		}
		if overlap := written & box.outputMask(); overlap != 0 {
			return nil, fmt.Errorf("%w: %s box %d writes bits %08b again", ErrOverlappingOutputs, name, i, overlap)
		}
		written |= box.outputMask()
		g.boxes[i] = box
	}
	if written != 0xff {
		return nil, fmt.Errorf("%w: %s leaves bits %08b unwritten", ErrUncoveredOutputs, name, ^written)
	}
	return g, nil
}

// Name returns the group's name, used to name its lookup arrays.
func (g *Group) Name() string {
	return g.name
}

// Box returns the i-th s-box of the group.
func (g *Group) Box(i int) *SBox {
	return g.boxes[i]
}
