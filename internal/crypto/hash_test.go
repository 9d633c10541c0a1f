package crypto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fastParams = HashParams{Memory: 1024, Iterations: 1, Parallelism: 1, SaltLength: 8, KeyLength: 16}

func TestHashAndVerify(t *testing.T) {
	hash, err := HashPasswordWith("Secret123", fastParams)
	require.NoError(t, err)
	assert.Contains(t, hash, "$argon2id$v=19$m=1024,t=1,p=1$")

	ok, err := VerifyPassword("Secret123", hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = VerifyPassword("secret123", hash)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHashUsesRandomSalt(t *testing.T) {
	a, err := HashPasswordWith("same", fastParams)
	require.NoError(t, err)
	b, err := HashPasswordWith("same", fastParams)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestVerifyRejectsBadEncoding(t *testing.T) {
	tests := map[string]error{
		"plain":                                  ErrInvalidHashFormat,
		"$bcrypt$x$y$z$w":                        ErrInvalidHashFormat,
		"$argon2id$v=18$m=1,t=1,p=1$c2FsdA$a2V5": ErrIncompatibleVersion,
		"$argon2id$v=19$bad$c2FsdA$a2V5":         ErrInvalidHashFormat,
		"$argon2id$v=19$m=1,t=1,p=1$***$a2V5":    ErrInvalidHashFormat,
	}
	for encoded, want := range tests {
		_, err := VerifyPassword("x", encoded)
		assert.ErrorIs(t, err, want, encoded)
	}
}
