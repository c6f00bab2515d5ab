package svm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveSaltDeterministicFromIdempotencyKey(t *testing.T) {
	a, err := deriveSalt("order-123")
	require.NoError(t, err)
	b, err := deriveSalt("order-123")
	require.NoError(t, err)
	assert.Equal(t, a, b)

	c, err := deriveSalt("order-124")
	require.NoError(t, err)
	assert.NotEqual(t, a, c)
}

func TestDeriveSaltRandomWithoutIdempotencyKey(t *testing.T) {
	a, err := deriveSalt("")
	require.NoError(t, err)
	b, err := deriveSalt("")
	require.NoError(t, err)
	assert.NotEqual(t, a, b, "two empty-key salts must not collide")
	assert.NotEqual(t, [32]byte{}, a)
}

func TestDecodeHexTo32StripsPrefixAndRightPads(t *testing.T) {
	out, err := decodeHexTo32("0x1122334455")
	require.NoError(t, err)

	var want [32]byte
	copy(want[:5], []byte{0x11, 0x22, 0x33, 0x44, 0x55})
	assert.Equal(t, want, out)
}

func TestDecodeHexTo32TruncatesOversizedInput(t *testing.T) {
	long := "0x"
	for i := 0; i < 40; i++ {
		long += "ab"
	}
	out, err := decodeHexTo32(long)
	require.NoError(t, err)

	var want [32]byte
	for i := range want {
		want[i] = 0xab
	}
	assert.Equal(t, want, out)
}

func TestDecodeHexTo32RejectsInvalidHex(t *testing.T) {
	_, err := decodeHexTo32("0xzz")
	assert.Error(t, err)
}

func TestWrappedTokenMetadataHashDeterministicAndDistinct(t *testing.T) {
	remote := [32]byte{0x01}

	a := wrappedTokenMetadataHash(remote, "Wrapped Ether", "WETH", 18, 0)
	b := wrappedTokenMetadataHash(remote, "Wrapped Ether", "WETH", 18, 0)
	assert.Equal(t, a, b)

	c := wrappedTokenMetadataHash(remote, "Wrapped Ether", "WETH", 6, 0)
	assert.NotEqual(t, a, c, "changing decimals must change the hash")

	d := wrappedTokenMetadataHash(remote, "Wrapped Bitcoin", "WBTC", 18, 0)
	assert.NotEqual(t, a, d, "changing name/symbol must change the hash")
}
