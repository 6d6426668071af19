package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Unique(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		plain, err := New()
		require.NoError(t, err)
		require.NotEmpty(t, plain)
		require.False(t, seen[plain], "token collision")
		seen[plain] = true
	}
}

func TestSha256Hex(t *testing.T) {
	plain, err := New()
	require.NoError(t, err)

	assert.Equal(t, Sha256Hex(plain), Sha256Hex(plain))
	assert.NotEqual(t, plain, Sha256Hex(plain))
	assert.Len(t, Sha256Hex(plain), 64)
}
