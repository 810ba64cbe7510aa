package hash

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHashAndCheckPassword(t *testing.T) {
	h, err := HashPassword("correct horse battery staple")
	require.NoError(t, err)
	require.NotEmpty(t, h)

	require.True(t, CheckPassword(h, "correct horse battery staple"))
	require.False(t, CheckPassword(h, "wrong password"))
}

func TestHashIsSalted(t *testing.T) {
	h1, err := HashPassword("password")
	require.NoError(t, err)
	h2, err := HashPassword("password")
	require.NoError(t, err)
	require.NotEqual(t, h1, h2)
}
