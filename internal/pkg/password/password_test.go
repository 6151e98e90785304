package password

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHashAndVerify(t *testing.T) {
	hash, err := Hash("correct horse battery staple")
	require.NoError(t, err)
	require.NotEqual(t, "correct horse battery staple", hash)

	require.True(t, Verify("correct horse battery staple", hash))
	require.False(t, Verify("wrong password", hash))
}

func TestHashIsSalted(t *testing.T) {
	first, err := Hash("same input")
	require.NoError(t, err)
	second, err := Hash("same input")
	require.NoError(t, err)

	require.NotEqual(t, first, second)
	require.True(t, Verify("same input", first))
	require.True(t, Verify("same input", second))
}

func TestHashTokenIsDeterministic(t *testing.T) {
	first := HashToken("refresh-token-value")
	second := HashToken("refresh-token-value")

	require.Equal(t, first, second)
	require.Len(t, first, 64)
	require.Equal(t, strings.ToLower(first), first)
	require.NotEqual(t, first, HashToken("another-token"))
}
