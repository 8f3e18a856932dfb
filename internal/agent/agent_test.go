package agent

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidHandle(t *testing.T) {
	valid := []string{"abc", "agent-1", "my_molt", "A1b2C3", strings.Repeat("x", 50)}
	for _, h := range valid {
		assert.True(t, ValidHandle(h), "%q should be valid", h)
	}

	invalid := []string{"", "ab", strings.Repeat("x", 51), "has space", "dot.name", "émoji", "semi;colon"}
	for _, h := range invalid {
		assert.False(t, ValidHandle(h), "%q should be invalid", h)
	}
}

func TestGenerateKey(t *testing.T) {
	key, err := GenerateKey()
	require.NoError(t, err)

	assert.Len(t, key, 35)
	assert.True(t, strings.HasPrefix(key, "mk_"))
	for _, r := range key[3:] {
		assert.Contains(t, keyAlphabet, string(r))
	}

	// Keys are random; two draws should differ.
	other, err := GenerateKey()
	require.NoError(t, err)
	assert.NotEqual(t, key, other)
}
