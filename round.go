package cps2

import (
	"fmt"

	"github.com/jedisct1/go-cps2/bv"
)

// Round returns the symbolic round function of the given zero-based round:
// each box gathers its index from half, XORs it with its 6-bit subkey, looks
// the result up in its array and scatters it. Box i uses round key bits
// [6i, 6i+6).
func (n *Network) Round(round int, half, roundKey bv.Expr) bv.Expr {
	if roundKey.Width() != RoundKeyBits {
		panic(fmt.Sprintf("cps2: round key must be %d bits, got %d", RoundKeyBits, roundKey.Width()))
	}
	g := n.groups[round]
	parts := make([]bv.Expr, BoxesPerGroup)
	for i := range parts {
		box := g.Box(i)
		subkey := bv.NewExtract(roundKey, uint(i)*IndexBits, IndexBits)
		index := bv.Xor(box.GatherInput(half), subkey)
		parts[i] = box.ScatterOutput(bv.NewSelect(n.arrays[round][i], index))
	}
	return bv.Ors(parts...)
}

// Apply is the concrete round function of the group.
func (g *Group) Apply(half uint8, roundKey uint32) uint8 {
	var out uint8
	for i, box := range g.boxes {
		subkey := uint8(roundKey>>(uint(i)*IndexBits)) & (TableSize - 1)
		out |= box.Apply(half, subkey)
	}
	return out
}
