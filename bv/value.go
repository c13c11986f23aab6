package bv

import (
	"encoding/hex"
	"fmt"
)

// Value is a concrete fixed-width bit-vector, least-significant bit first.
// Its width is its length.
type Value []bool

// NewValue returns the low width bits of x as a Value.
func NewValue(x uint64, width uint) Value {
	v := make(Value, width)
	for i := uint(0); i < width && i < 64; i++ {
		v[i] = (x>>i)&1 == 1
	}
	return v
}

// ValueFromBytes decodes a big-endian byte string into a Value of the given
// width. Bits of b above width are ignored; missing bits are zero.
func ValueFromBytes(b []byte, width uint) Value {
	v := make(Value, width)
	for i := uint(0); i < width; i++ {
		byteIdx := len(b) - 1 - int(i/8)
		if byteIdx < 0 {
			break
		}
		v[i] = (b[byteIdx]>>(i%8))&1 == 1
	}
	return v
}

// Width returns the number of bits in v.
func (v Value) Width() uint {
	return uint(len(v))
}

// Uint64 returns the low 64 bits of v.
func (v Value) Uint64() uint64 {
	var x uint64
	for i := 0; i < len(v) && i < 64; i++ {
		if v[i] {
			x |= 1 << uint(i)
		}
	}
	return x
}

// Bytes returns v as a big-endian byte string of ceil(width/8) bytes.
func (v Value) Bytes() []byte {
	b := make([]byte, (len(v)+7)/8)
	for i, bit := range v {
		if bit {
			b[len(b)-1-i/8] |= 1 << uint(i%8)
		}
	}
	return b
}

// Bit reports bit i of v.
func (v Value) Bit(i uint) bool {
	return v[i]
}

// Equal reports whether v and o have the same width and bits.
func (v Value) Equal(o Value) bool {
	if len(v) != len(o) {
		return false
	}
	for i := range v {
		if v[i] != o[i] {
			return false
		}
	}
	return true
}

// String returns v as a hexadecimal literal.
func (v Value) String() string {
	if len(v) == 0 {
		return "0x"
	}
	return fmt.Sprintf("0x%s", hex.EncodeToString(v.Bytes()))
}
