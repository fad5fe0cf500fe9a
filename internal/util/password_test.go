package util

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHashPasswordRoundTrip(t *testing.T) {
	t.Parallel()

	hash, err := HashPassword("Secret1!")
	require.NoError(t, err)
	require.True(t, IsHashed(hash))
	require.NotEqual(t, "Secret1!", hash)

	require.True(t, VerifyPassword("Secret1!", hash))
	require.False(t, VerifyPassword("secret1!", hash))
	require.False(t, VerifyPassword("", hash))
}

func TestVerifyPasswordLegacyFallback(t *testing.T) {
	t.Parallel()

	t.Run("exact match succeeds", func(t *testing.T) {
		require.True(t, VerifyPassword("plain123", "plain123"))
	})

	t.Run("comparison is case-sensitive", func(t *testing.T) {
		require.False(t, VerifyPassword("Plain123", "plain123"))
	})

	t.Run("empty stored credential never verifies", func(t *testing.T) {
		require.False(t, VerifyPassword("plain123", ""))
	})

	t.Run("bcrypt-looking garbage does not fall back", func(t *testing.T) {
		require.False(t, VerifyPassword("$2a$broken", "$2a$broken"))
	})
}

func TestIsHashed(t *testing.T) {
	t.Parallel()

	require.True(t, IsHashed("$2a$12$abcdefghijklmnopqrstuv"))
	require.True(t, IsHashed("$2b$10$abcdefghijklmnopqrstuv"))
	require.True(t, IsHashed("$2y$10$abcdefghijklmnopqrstuv"))
	require.False(t, IsHashed("plain123"))
	require.False(t, IsHashed(""))
	require.False(t, IsHashed("$1$md5crypt"))
}
