package cps2

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/jedisct1/go-cps2/bv"
)

// KeySize is the size of a fn2 key in bytes.
const KeySize = KeyBits / 8

// Key is a 96-bit fn2 key, stored big-endian: the last byte holds key bits
// 0 to 7, which belong to the first subkey of the first round.
type Key [KeySize]byte

// ParseKey decodes a key written as 24 hexadecimal digits, with or without a
// 0x prefix.
func ParseKey(s string) (Key, error) {
	var k Key
	s = strings.TrimPrefix(strings.TrimPrefix(strings.TrimSpace(s), "0x"), "0X")
	if len(s) != 2*KeySize {
		return k, fmt.Errorf("%w: got %d digits", ErrInvalidKey, len(s))
	}
	if _, err := hex.Decode(k[:], []byte(s)); err != nil {
		return k, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}
	return k, nil
}

// KeyFromValue converts a 96-bit model value into a Key.
func KeyFromValue(v bv.Value) (Key, error) {
	var k Key
	if v.Width() != KeyBits {
		return k, fmt.Errorf("%w: value is %d bits", ErrInvalidKey, v.Width())
	}
	copy(k[:], v.Bytes())
	return k, nil
}

// String returns the key as 0x followed by 24 hexadecimal digits.
func (k Key) String() string {
	return "0x" + hex.EncodeToString(k[:])
}

// Value returns the key as a 96-bit value.
func (k Key) Value() bv.Value {
	return bv.ValueFromBytes(k[:], KeyBits)
}

// Expr returns the key as a 96-bit constant expression.
func (k Key) Expr() bv.Expr {
	return bv.NewConstValue(k.Value())
}

// RoundKey returns the 24-bit key of the given zero-based round.
func (k Key) RoundKey(round int) uint32 {
	i := KeySize - 1 - 3*round
	return uint32(k[i]) | uint32(k[i-1])<<8 | uint32(k[i-2])<<16
}

// Subkey returns the 6-bit subkey of the given zero-based round and box.
func (k Key) Subkey(round, box int) uint8 {
	return uint8(k.RoundKey(round)>>(uint(box)*IndexBits)) & (TableSize - 1)
}
