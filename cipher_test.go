package cps2

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCipherKnownAnswers(t *testing.T) {
	testCases := []struct {
		name    string
		key     string
		vectors [][2]uint16
	}{
		{
			name:    "zero",
			key:     "000000000000000000000000",
			vectors: [][2]uint16{{0x0000, 0x0837}, {0xbeef, 0xc780}, {0x1234, 0xf375}, {0xffff, 0x2a94}},
		},
		{
			name:    "counting",
			key:     "0x0123456789abcdef01234567",
			vectors: [][2]uint16{{0x0000, 0x16e4}, {0xbeef, 0xc2cd}, {0x1234, 0xe9d2}, {0xffff, 0xf057}},
		},
		{
			name:    "ones",
			key:     "ffffffffffffffffffffffff",
			vectors: [][2]uint16{{0x0000, 0x1cff}, {0xbeef, 0xd19d}, {0x1234, 0xcf59}, {0xffff, 0x2288}},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			k, err := ParseKey(tc.key)
			require.NoError(t, err)
			c, err := NewCipher(k)
			require.NoError(t, err)

			for _, v := range tc.vectors {
				assert.Equal(t, v[1], c.Encrypt(v[0]), "encrypt %#04x", v[0])
				assert.Equal(t, v[0], c.Decrypt(v[1]), "decrypt %#04x", v[1])
			}
		})
	}
}

func TestCipherRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	for trial := 0; trial < 8; trial++ {
		c, err := NewCipher(randomKey(rng))
		require.NoError(t, err)

		seen := make(map[uint16]struct{}, 1<<BlockBits)
		for x := 0; x < 1<<BlockBits; x++ {
			ct := c.Encrypt(uint16(x))
			require.Equal(t, uint16(x), c.Decrypt(ct))
			seen[ct] = struct{}{}
		}
		assert.Len(t, seen, 1<<BlockBits, "encryption is a permutation")
	}
}

func TestNewCipherWith(t *testing.T) {
	groups, err := DefaultGroups()
	require.NoError(t, err)

	_, err = NewCipherWith(groups, nil, Key{})
	assert.ErrorIs(t, err, ErrInvalidPermutation)

	perm, err := DefaultPermutation()
	require.NoError(t, err)
	groups[1] = nil
	_, err = NewCipherWith(groups, perm, Key{})
	assert.ErrorIs(t, err, ErrInvalidGroup)
}

func BenchmarkCipherEncrypt(b *testing.B) {
	c, err := NewCipher(Key{0x01, 0x23, 0x45, 0x67, 0x89, 0xab, 0xcd, 0xef, 0x01, 0x23, 0x45, 0x67})
	if err != nil {
		b.Fatal(err)
	}
	b.ResetTimer()
	var sink uint16
	for i := 0; i < b.N; i++ {
		sink ^= c.Encrypt(uint16(i))
	}
	_ = sink
}
