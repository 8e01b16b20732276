package security

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHasher_HashAndCompare(t *testing.T) {
	t.Parallel()

	h := NewBcryptHasher(bcrypt.MinCost)

	hash, err := h.Hash("secret1")
	require.NoError(t, err)
	assert.NotEqual(t, "secret1", hash)
	assert.True(t, h.Compare(hash, "secret1"))
	assert.False(t, h.Compare(hash, "secret2"))
}

func TestBcryptHasher_FreshSaltPerCall(t *testing.T) {
	t.Parallel()

	h := NewBcryptHasher(bcrypt.MinCost)

	a, err := h.Hash("secret1")
	require.NoError(t, err)
	b, err := h.Hash("secret1")
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
	assert.Len(t, b, len(a))
}

func TestBcryptHasher_InvalidCostFallsBack(t *testing.T) {
	t.Parallel()

	h := NewBcryptHasher(99)
	hash, err := h.Hash("secret1")
	require.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.DefaultCost, cost)
}

func TestBcryptHasher_PasswordTooLong(t *testing.T) {
	t.Parallel()

	long := make([]byte, 73)
	for i := range long {
		long[i] = 'a'
	}
	_, err := NewBcryptHasher(bcrypt.MinCost).Hash(string(long))
	assert.Error(t, err)
}

func TestBcryptHasher_CompareGarbageHash(t *testing.T) {
	t.Parallel()

	assert.False(t, NewBcryptHasher(bcrypt.MinCost).Compare("not-a-hash", "secret1"))
}
