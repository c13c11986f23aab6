package cps2

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jedisct1/go-cps2/bv"
)

func TestNewPermutation(t *testing.T) {
	testCases := []struct {
		name string
		a, b []uint
		ok   bool
	}{
		{"fn2", fn2GroupA, fn2GroupB, true},
		{"halves", []uint{0, 1, 2, 3, 4, 5, 6, 7}, []uint{8, 9, 10, 11, 12, 13, 14, 15}, true},
		{"short", []uint{0, 1, 2, 3, 4, 5, 6}, []uint{8, 9, 10, 11, 12, 13, 14, 15}, false},
		{"shared", []uint{0, 1, 2, 3, 4, 5, 6, 7}, []uint{7, 9, 10, 11, 12, 13, 14, 15}, false},
		{"out_of_range", []uint{0, 1, 2, 3, 4, 5, 6, 16}, []uint{8, 9, 10, 11, 12, 13, 14, 15}, false},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			p, err := NewPermutation(tc.a, tc.b)
			if !tc.ok {
				assert.ErrorIs(t, err, ErrInvalidPermutation)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, p)
		})
	}
}

func TestPermutationSplit(t *testing.T) {
	p, err := DefaultPermutation()
	require.NoError(t, err)

	// Block bit 3 is B[0], so left bit 0; block bit 6 is A[0], so right bit 0.
	l, r := p.SplitBlock(1 << 3)
	assert.Equal(t, uint8(0x01), l)
	assert.Equal(t, uint8(0x00), r)

	l, r = p.SplitBlock(1 << 6)
	assert.Equal(t, uint8(0x00), l)
	assert.Equal(t, uint8(0x01), r)

	l, r = p.SplitBlock(1 << 11)
	assert.Equal(t, uint8(0x80), l)
	assert.Equal(t, uint8(0x00), r)

	l, r = p.SplitBlock(0xffff)
	assert.Equal(t, uint8(0xff), l)
	assert.Equal(t, uint8(0xff), r)
}

func TestPermutationRoundTrip(t *testing.T) {
	p, err := DefaultPermutation()
	require.NoError(t, err)

	for x := 0; x < 1<<BlockBits; x++ {
		l, r := p.SplitBlock(uint16(x))
		require.Equal(t, uint16(x), p.JoinBlock(l, r))
	}

	block := bv.NewVar("block", BlockBits)
	l, r := p.Split(block)
	assert.Same(t, block, p.Join(l, r), "join undoes split structurally")

	for _, x := range []uint64{0x0000, 0xbeef, 0x1234, 0x8001, 0xffff} {
		c := bv.NewConst(x, BlockBits)
		cl, cr := p.Split(c)
		joined := p.Join(cl, cr)
		require.IsType(t, &bv.Const{}, joined)
		assert.Equal(t, x, joined.(*bv.Const).Value.Uint64())

		wantL, wantR := p.SplitBlock(uint16(x))
		assert.Equal(t, uint64(wantL), cl.(*bv.Const).Value.Uint64())
		assert.Equal(t, uint64(wantR), cr.(*bv.Const).Value.Uint64())
	}
}

func TestPermutationSymbolicRoundTrip(t *testing.T) {
	p, err := DefaultPermutation()
	require.NoError(t, err)

	l := bv.NewVar("l", HalfBits)
	r := bv.NewVar("r", HalfBits)
	gl, gr := p.Split(p.Join(l, r))
	assert.Same(t, l, gl)
	assert.Same(t, r, gr)

	assert.Panics(t, func() { p.Split(bv.NewVar("x", 8)) })
	assert.Panics(t, func() { p.Join(l, bv.NewVar("y", 4)) })
}
