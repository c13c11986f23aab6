package cps2

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jedisct1/go-cps2/bv"
)

// tableModel binds every lookup array of n to its s-box table.
func tableModel(n *Network) *bv.Model {
	m := bv.NewModel()
	for r := 0; r < Rounds; r++ {
		for i := 0; i < BoxesPerGroup; i++ {
			m.BindArray(n.Array(r, i).Name, tableValues(n.Group(r).Box(i)))
		}
	}
	return m
}

func randomKey(rng *rand.Rand) Key {
	var k Key
	rng.Read(k[:])
	return k
}

func TestNetworkConstraints(t *testing.T) {
	n, err := DefaultNetwork()
	require.NoError(t, err)

	constraints := n.Constraints()
	assert.Len(t, constraints, Rounds*BoxesPerGroup*TableSize)
	assert.Equal(t, "f2_r1_sbox_0", n.Array(0, 0).Name)
	assert.Equal(t, "f2_r4_sbox_3", n.Array(3, 3).Name)

	m := tableModel(n)
	for _, c := range constraints {
		v, err := m.Eval(c)
		require.NoError(t, err)
		require.True(t, v.Bit(0), "%s", c)
	}
}

func TestNewNetworkRejects(t *testing.T) {
	groups, err := DefaultGroups()
	require.NoError(t, err)
	perm, err := DefaultPermutation()
	require.NoError(t, err)

	_, err = NewNetwork(groups, nil)
	assert.ErrorIs(t, err, ErrInvalidPermutation)

	missing := groups
	missing[2] = nil
	_, err = NewNetwork(missing, perm)
	assert.ErrorIs(t, err, ErrInvalidGroup)

	dup := groups
	dup[3] = dup[0]
	_, err = NewNetwork(dup, perm)
	assert.ErrorIs(t, err, ErrInvalidGroup)
}

func TestRoundMatchesReference(t *testing.T) {
	n, err := DefaultNetwork()
	require.NoError(t, err)
	m := tableModel(n)
	rng := rand.New(rand.NewSource(1))

	for r := 0; r < Rounds; r++ {
		g := n.Group(r)
		for trial := 0; trial < 64; trial++ {
			half := uint8(rng.Intn(256))
			rk := uint32(rng.Intn(1 << RoundKeyBits))

			e := n.Round(r, bv.NewConst(uint64(half), HalfBits), bv.NewConst(uint64(rk), RoundKeyBits))
			v, err := m.Eval(e)
			require.NoError(t, err)
			require.Equal(t, uint64(g.Apply(half, rk)), v.Uint64(), "round %d half %#02x key %#06x", r, half, rk)
		}
	}

	assert.Equal(t, uint8(0x74), n.Group(0).Apply(0xa5, 0x123456))
	assert.Equal(t, uint8(0x95), n.Group(3).Apply(0x3c, 0xfedcba))
	assert.Panics(t, func() { n.Round(0, bv.NewVar("h", HalfBits), bv.NewVar("k", 12)) })
}

func TestEncryptMatchesReference(t *testing.T) {
	n, err := DefaultNetwork()
	require.NoError(t, err)
	rng := rand.New(rand.NewSource(2))

	key := bv.NewVar("key", KeyBits)
	block := bv.NewVar("block", BlockBits)
	symbolic := n.Encrypt(block, key)
	require.Equal(t, uint(BlockBits), symbolic.Width())

	for trial := 0; trial < 32; trial++ {
		k := randomKey(rng)
		c, err := NewCipher(k)
		require.NoError(t, err)

		m := tableModel(n).Bind(key.Name, k.Value())
		for i := 0; i < 8; i++ {
			pt := uint16(rng.Intn(1 << BlockBits))
			m.BindUint64(block, uint64(pt))

			got, err := m.Eval(symbolic)
			require.NoError(t, err)
			require.Equal(t, uint64(c.Encrypt(pt)), got.Uint64(), "key %s plaintext %#04x", k, pt)

			folded, err := m.Eval(n.Encrypt(bv.NewConst(uint64(pt), BlockBits), k.Expr()))
			require.NoError(t, err)
			require.Equal(t, got.Uint64(), folded.Uint64())
		}
	}

	assert.Panics(t, func() { n.Encrypt(block, bv.NewVar("short", 64)) })
}

func BenchmarkNetworkEncrypt(b *testing.B) {
	n, err := DefaultNetwork()
	if err != nil {
		b.Fatal(err)
	}
	key := bv.NewVar("key", KeyBits)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		n.Encrypt(bv.NewConst(uint64(i&0xffff), BlockBits), key)
	}
}
