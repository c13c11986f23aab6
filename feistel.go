package cps2

import (
	"fmt"

	"github.com/jedisct1/go-cps2/bv"
)

const (
	// Rounds is the number of Feistel rounds of fn2.
	Rounds = 4

	// RoundKeyBits is the width of a round key: one subkey per s-box.
	RoundKeyBits = BoxesPerGroup * IndexBits

	// KeyBits is the width of the full fn2 key.
	KeyBits = Rounds * RoundKeyBits
)

// Network is the symbolic fn2 Feistel network. It owns one lookup array per
// (round, box) and the equalities binding them to the s-box tables. Building
// expressions with a Network only allocates immutable nodes, so a Network is
// safe for concurrent use.
type Network struct {
	groups      [Rounds]*Group
	perm        *Permutation
	arrays      [Rounds][BoxesPerGroup]*bv.Array
	constraints []bv.Expr
}

// NewNetwork builds a network from one group per round and a block
// permutation. Group names must be distinct, since they name the arrays.
func NewNetwork(groups [Rounds]*Group, perm *Permutation) (*Network, error) {
	if perm == nil {
		return nil, fmt.Errorf("%w: nil", ErrInvalidPermutation)
	}
	n := &Network{groups: groups, perm: perm}
	names := make(map[string]struct{}, Rounds)
	for r, g := range groups {
		if g == nil {
			return nil, fmt.Errorf("%w: round %d has no group", ErrInvalidGroup, r+1)
		}
		if _, dup := names[g.Name()]; dup {
			return nil, fmt.Errorf("%w: name %q used twice", ErrInvalidGroup, g.Name())
		}
		names[g.Name()] = struct{}{}

		for i := 0; i < BoxesPerGroup; i++ {
			arr, cs := g.Box(i).LookupConstraints(fmt.Sprintf("%s_%d", g.Name(), i))
			n.arrays[r][i] = arr
			n.constraints = append(n.constraints, cs...)
		}
	}
	return n, nil
}

// DefaultNetwork returns a network over the fn2 groups and permutation.
func DefaultNetwork() (*Network, error) {
	groups, err := DefaultGroups()
	if err != nil {
		return nil, err
	}
	perm, err := DefaultPermutation()
	if err != nil {
		return nil, err
	}
	return NewNetwork(groups, perm)
}

// Constraints returns the table equalities of every lookup array. They must
// be asserted once per solver session before any expression of the network.
func (n *Network) Constraints() []bv.Expr {
	return append([]bv.Expr(nil), n.constraints...)
}

// Array returns the lookup array of the given zero-based round and box.
func (n *Network) Array(round, box int) *bv.Array {
	return n.arrays[round][box]
}

// Group returns the s-box group of the given zero-based round.
func (n *Network) Group(round int) *Group {
	return n.groups[round]
}

// Permutation returns the block permutation.
func (n *Network) Permutation() *Permutation {
	return n.perm
}

// RoundKey extracts the round key of the given zero-based round from a 96-bit
// key expression. Round 0 uses the least significant 24 bits.
func (n *Network) RoundKey(key bv.Expr, round int) bv.Expr {
	return bv.NewExtract(key, uint(round)*RoundKeyBits, RoundKeyBits)
}

// Encrypt returns the symbolic fn2 encryption of a 16-bit block under a
// 96-bit key.
func (n *Network) Encrypt(block, key bv.Expr) bv.Expr {
	if key.Width() != KeyBits {
		panic(fmt.Sprintf("cps2: key must be %d bits, got %d", KeyBits, key.Width()))
	}
	left, right := n.perm.Split(block)
	for r := 0; r < Rounds; r++ {
		k := n.RoundKey(key, r)
		if r%2 == 0 {
			left = bv.Xor(left, n.Round(r, right, k))
		} else {
			right = bv.Xor(right, n.Round(r, left, k))
		}
	}
	return n.perm.Join(right, left)
}
