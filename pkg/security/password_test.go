package security

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(hash, "$2"), "expected bcrypt hash, got %s", hash)

	ok, err := VerifyPassword("correct horse battery staple", hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = VerifyPassword("wrong password", hash)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHashPasswordRejectsEmpty(t *testing.T) {
	_, err := HashPassword("")
	assert.Error(t, err)
}

func TestHashPasswordRejectsOverlong(t *testing.T) {
	_, err := HashPassword(strings.Repeat("a", 80))
	assert.Error(t, err)
}

func TestVerifyPasswordMalformedHash(t *testing.T) {
	_, err := VerifyPassword("password", "not-a-hash")
	assert.Error(t, err)
}

func TestGenerateTempPassword(t *testing.T) {
	pw, err := GenerateTempPassword(12)
	require.NoError(t, err)
	assert.Len(t, pw, 12)

	_, err = GenerateTempPassword(0)
	assert.Error(t, err)
}
