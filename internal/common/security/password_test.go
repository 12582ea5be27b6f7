package security

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashPassword_RoundTrip(t *testing.T) {
	hash, err := HashPassword("correct horse battery")
	require.NoError(t, err)
	require.NotEqual(t, "correct horse battery", hash)

	assert.True(t, CheckPasswordHash("correct horse battery", hash))
	assert.False(t, CheckPasswordHash("correct horse battery!", hash))
	assert.False(t, CheckPasswordHash("", hash))
}

func TestHashPassword_SaltedPerCall(t *testing.T) {
	h1, err := HashPassword("s3cretpass")
	require.NoError(t, err)
	h2, err := HashPassword("s3cretpass")
	require.NoError(t, err)

	require.NotEqual(t, h1, h2, "hashes of the same password should differ")
	assert.True(t, CheckPasswordHash("s3cretpass", h1))
	assert.True(t, CheckPasswordHash("s3cretpass", h2))
}

func TestHashPassword_UsesConfiguredCost(t *testing.T) {
	hash, err := HashPassword("another-password")
	require.NoError(t, err)
	// bcrypt encodes the cost right after the version: $2a$12$...
	require.Equal(t, "$12$", hash[3:7])
}

func TestCheckPasswordHash_MalformedHash(t *testing.T) {
	tests := []string{"", "not-a-hash", "$2a$12$short", "$argon2id$v=19$m=1,t=1,p=1$abc$def"}
	for _, h := range tests {
		assert.NotPanics(t, func() {
			assert.False(t, CheckPasswordHash("whatever", h))
		})
	}
}

func TestDummyPasswordHash(t *testing.T) {
	h := DummyPasswordHash()
	assert.Equal(t, h, DummyPasswordHash(), "computed once")

	cost, err := bcrypt.Cost([]byte(h))
	require.NoError(t, err)
	assert.Equal(t, BcryptCost, cost)
	assert.False(t, CheckPasswordHash("", h))
	assert.False(t, CheckPasswordHash("password123", h))
}
