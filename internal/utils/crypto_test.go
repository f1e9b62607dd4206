// internal/utils/crypto_test.go
package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateVerificationToken(t *testing.T) {
	token, err := GenerateVerificationToken()
	require.NoError(t, err)
	assert.Len(t, token, 20)

	for _, r := range token {
		assert.True(t, strings.ContainsRune(tokenCharset, r), "unexpected rune %q", r)
	}
}

func TestGeneratePassword(t *testing.T) {
	password, err := GeneratePassword()
	require.NoError(t, err)
	assert.Len(t, password, 12)
}

func TestGenerateRandomStringUnique(t *testing.T) {
	a, err := GenerateRandomString(20)
	require.NoError(t, err)
	b, err := GenerateRandomString(20)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}
