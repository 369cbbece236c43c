package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateTokenParts(t *testing.T) {
	first, err := GenerateTokenParts()
	require.NoError(t, err)
	second, err := GenerateTokenParts()
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(first.Prefix, "fv_"))
	assert.NotEmpty(t, first.Secret)
	assert.NotEqual(t, first.Secret, second.Secret)
	assert.NotEqual(t, first.Prefix, second.Prefix)

	assert.Equal(t, first.Prefix+"."+first.Secret, first.Plaintext())
}

func TestSplitToken(t *testing.T) {
	parts, err := GenerateTokenParts()
	require.NoError(t, err)

	t.Run("round trip", func(t *testing.T) {
		prefix, secret, err := SplitToken(parts.Plaintext())
		require.NoError(t, err)
		assert.Equal(t, parts.Prefix, prefix)
		assert.Equal(t, parts.Secret, secret)
	})

	malformed := []string{
		"",
		"fv_abc",
		".secret",
		"fv_abc.",
		"wrongtag_abc.secret",
	}
	for _, token := range malformed {
		t.Run("malformed "+token, func(t *testing.T) {
			_, _, err := SplitToken(token)
			assert.ErrorIs(t, err, ErrMalformedToken)
		})
	}
}

func TestTokenSecretHashing(t *testing.T) {
	parts, err := GenerateTokenParts()
	require.NoError(t, err)

	hash, err := HashTokenSecret(parts.Secret)
	require.NoError(t, err)
	assert.NotEqual(t, parts.Secret, hash)

	assert.True(t, VerifyTokenSecret(parts.Secret, hash))
	assert.False(t, VerifyTokenSecret("wrong-secret", hash))
	assert.False(t, VerifyTokenSecret(parts.Secret, "not-a-hash"))
}
