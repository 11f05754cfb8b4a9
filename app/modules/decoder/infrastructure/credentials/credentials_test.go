package credentials

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordHashing(t *testing.T) {
	digest, err := HashPassword("correct horse battery staple")
	require.NoError(t, err)
	assert.NotContains(t, digest, "correct horse")

	assert.True(t, VerifyPassword("correct horse battery staple", digest))
	assert.False(t, VerifyPassword("wrong password", digest))
}

func TestPasswordHashing_Salted(t *testing.T) {
	a, err := HashPassword("same input")
	require.NoError(t, err)
	b, err := HashPassword("same input")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestNewSecret(t *testing.T) {
	secret, digest, err := NewSecret()
	require.NoError(t, err)
	assert.NotEmpty(t, secret)
	assert.Len(t, digest, 64) // sha256 hex

	assert.True(t, SecretMatches(secret, digest))
	assert.False(t, SecretMatches(secret+"x", digest))

	// Reissuing produces an unrelated secret.
	second, secondDigest, err := NewSecret()
	require.NoError(t, err)
	assert.NotEqual(t, secret, second)
	assert.False(t, SecretMatches(secret, secondDigest))
}

func TestKeyComposition(t *testing.T) {
	key := ComposeKey("Ada", "s3cret")
	assert.Equal(t, "Ada::s3cret", key)

	name, secret, ok := SplitKey(key)
	require.True(t, ok)
	assert.Equal(t, "Ada", name)
	assert.Equal(t, "s3cret", secret)
}

func TestSplitKey_Malformed(t *testing.T) {
	for _, key := range []string{"", "Ada", "::secret", "Ada::", "::"} {
		_, _, ok := SplitKey(key)
		assert.False(t, ok, "key %q should be rejected", key)
	}
}

func TestSplitKey_SecretMayContainSeparator(t *testing.T) {
	name, secret, ok := SplitKey("Ada::ab::cd")
	require.True(t, ok)
	assert.Equal(t, "Ada", name)
	assert.Equal(t, "ab::cd", secret)
	assert.False(t, strings.Contains(name, "::"))
}
