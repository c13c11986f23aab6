package cps2

import (
	"fmt"

	"github.com/jedisct1/go-cps2/bv"
)

// BlockBits is the width of a cipher block.
const BlockBits = 2 * HalfBits

// Permutation splits a 16-bit block into the two Feistel halves and joins
// them back. Left bit i comes from block position B[i], right bit i from
// block position A[i].
type Permutation struct {
	a, b [HalfBits]uint
}

// NewPermutation validates and builds a permutation from the right-half
// positions a and the left-half positions b.
func NewPermutation(a, b []uint) (*Permutation, error) {
	if len(a) != HalfBits || len(b) != HalfBits {
		return nil, fmt.Errorf("%w: got %d and %d positions", ErrInvalidPermutation, len(a), len(b))
	}
	p := &Permutation{}
	var seen uint32
	for i := 0; i < HalfBits; i++ {
		for _, pos := range []uint{a[i], b[i]} {
			if pos >= BlockBits || seen&(1<<pos) != 0 {
				return nil, fmt.Errorf("%w: position %d", ErrInvalidPermutation, pos)
			}
			seen |= 1 << pos
		}
		p.a[i], p.b[i] = a[i], b[i]
	}
	return p, nil
}

// Split returns the left and right halves of a 16-bit block expression.
func (p *Permutation) Split(block bv.Expr) (left, right bv.Expr) {
	if block.Width() != BlockBits {
		panic(fmt.Sprintf("cps2: block must be %d bits, got %d", BlockBits, block.Width()))
	}
	l := make([]bv.Expr, HalfBits)
	r := make([]bv.Expr, HalfBits)
	for i := 0; i < HalfBits; i++ {
		l[HalfBits-1-i] = bv.Bit(block, p.b[i])
		r[HalfBits-1-i] = bv.Bit(block, p.a[i])
	}
	return bv.Concats(l...), bv.Concats(r...)
}

// Join is the inverse of Split.
func (p *Permutation) Join(left, right bv.Expr) bv.Expr {
	if left.Width() != HalfBits || right.Width() != HalfBits {
		panic(fmt.Sprintf("cps2: halves must be %d bits, got %d and %d", HalfBits, left.Width(), right.Width()))
	}
	bits := make([]bv.Expr, BlockBits)
	for i := 0; i < HalfBits; i++ {
		bits[BlockBits-1-p.b[i]] = bv.Bit(left, uint(i))
		bits[BlockBits-1-p.a[i]] = bv.Bit(right, uint(i))
	}
	return bv.Concats(bits...)
}

// SplitBlock is the concrete counterpart of Split.
func (p *Permutation) SplitBlock(block uint16) (left, right uint8) {
	for i := 0; i < HalfBits; i++ {
		left |= uint8(block>>p.b[i]&1) << uint(i)
		right |= uint8(block>>p.a[i]&1) << uint(i)
	}
	return left, right
}

// JoinBlock is the concrete counterpart of Join.
func (p *Permutation) JoinBlock(left, right uint8) uint16 {
	var block uint16
	for i := 0; i < HalfBits; i++ {
		block |= uint16(left>>uint(i)&1) << p.b[i]
		block |= uint16(right>>uint(i)&1) << p.a[i]
	}
	return block
}
