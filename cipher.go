package cps2

import "fmt"

// Cipher is a concrete fn2 instance with a fixed key. It is the reference
// the symbolic network is checked against.
type Cipher struct {
	groups    [Rounds]*Group
	perm      *Permutation
	roundKeys [Rounds]uint32
}

// NewCipher returns a fn2 cipher using the given key.
func NewCipher(key Key) (*Cipher, error) {
	groups, err := DefaultGroups()
	if err != nil {
		return nil, err
	}
	perm, err := DefaultPermutation()
	if err != nil {
		return nil, err
	}
	return NewCipherWith(groups, perm, key)
}

// NewCipherWith returns a cipher over custom groups and permutation.
func NewCipherWith(groups [Rounds]*Group, perm *Permutation, key Key) (*Cipher, error) {
	if perm == nil {
		return nil, fmt.Errorf("%w: nil", ErrInvalidPermutation)
	}
	c := &Cipher{groups: groups, perm: perm}
	for r, g := range groups {
		if g == nil {
			return nil, fmt.Errorf("%w: round %d has no group", ErrInvalidGroup, r+1)
		}
		c.roundKeys[r] = key.RoundKey(r)
	}
	return c, nil
}

// Encrypt encrypts a 16-bit block.
func (c *Cipher) Encrypt(block uint16) uint16 {
	left, right := c.perm.SplitBlock(block)
	for r := 0; r < Rounds; r++ {
		if r%2 == 0 {
			left ^= c.groups[r].Apply(right, c.roundKeys[r])
		} else {
			right ^= c.groups[r].Apply(left, c.roundKeys[r])
		}
	}
	return c.perm.JoinBlock(right, left)
}

// Decrypt decrypts a 16-bit block.
func (c *Cipher) Decrypt(block uint16) uint16 {
	right, left := c.perm.SplitBlock(block)
	for r := Rounds - 1; r >= 0; r-- {
		if r%2 == 0 {
			left ^= c.groups[r].Apply(right, c.roundKeys[r])
		} else {
			right ^= c.groups[r].Apply(left, c.roundKeys[r])
		}
	}
	return c.perm.JoinBlock(left, right)
}
