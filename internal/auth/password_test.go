package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHasher_HashAndVerify(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)

	first, err := h.Hash("abcd1234")
	require.NoError(t, err)
	second, err := h.Hash("abcd1234")
	require.NoError(t, err)

	assert.NotEqual(t, "abcd1234", first)
	assert.NotEqual(t, first, second, "hashes are salted")

	ok, err := h.Verify(first, "abcd1234")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = h.Verify(first, "abcd12345")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHasher_MalformedHash(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)
	ok, err := h.Verify("not-a-bcrypt-hash", "abcd1234")
	assert.False(t, ok)
	assert.Error(t, err)
}

func TestNewHasher_ClampsCost(t *testing.T) {
	assert.Equal(t, bcrypt.DefaultCost, NewHasher(0).cost)
	assert.Equal(t, bcrypt.DefaultCost, NewHasher(99).cost)
	assert.Equal(t, 12, NewHasher(12).cost)
}

func TestHasher_RejectsOverlongPassword(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)

	_, err := h.Hash(strings.Repeat("a", MaxPasswordBytes) + "1")
	assert.ErrorIs(t, err, ErrPasswordTooLong)

	_, err = h.Hash(strings.Repeat("a", MaxPasswordBytes-1) + "1")
	assert.NoError(t, err)
}
