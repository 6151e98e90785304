package jwt

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	token, err := GenerateAccessToken(42, "reader1", "reader1@example.com", "MEMBER", "secret", 15)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ValidateAccessToken(token, "secret")
	require.NoError(t, err)
	require.EqualValues(t, 42, claims.UserID)
	require.Equal(t, "reader1", claims.Username)
	require.Equal(t, "reader1@example.com", claims.Email)
	require.Equal(t, "MEMBER", claims.Role)
	require.Equal(t, "lexora-lms", claims.Issuer)
}

func TestAccessTokenWrongSecret(t *testing.T) {
	token, err := GenerateAccessToken(42, "reader1", "reader1@example.com", "MEMBER", "secret", 15)
	require.NoError(t, err)

	_, err = ValidateAccessToken(token, "other-secret")
	require.ErrorIs(t, err, ErrTokenInvalid)
}

func TestAccessTokenExpired(t *testing.T) {
	token, err := GenerateAccessToken(42, "reader1", "reader1@example.com", "MEMBER", "secret", -1)
	require.NoError(t, err)

	_, err = ValidateAccessToken(token, "secret")
	require.ErrorIs(t, err, ErrTokenExpired)
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	token, err := GenerateRefreshToken(42, "token-id-1", "refresh-secret", 7)
	require.NoError(t, err)

	claims, err := ValidateRefreshToken(token, "refresh-secret")
	require.NoError(t, err)
	require.EqualValues(t, 42, claims.UserID)
	require.Equal(t, "token-id-1", claims.TokenID)
}

func TestTokenKindsAreNotInterchangeable(t *testing.T) {
	access, err := GenerateAccessToken(42, "reader1", "reader1@example.com", "MEMBER", "secret", 15)
	require.NoError(t, err)

	// An access token signed with the access secret fails refresh validation
	// under the refresh secret.
	_, err = ValidateRefreshToken(access, "refresh-secret")
	require.ErrorIs(t, err, ErrTokenInvalid)
}
