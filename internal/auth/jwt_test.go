package auth

import (
	"testing"
	"time"

	"avatarapp/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testJWTConfig() *config.JWTConfig {
	return &config.JWTConfig{
		AccessSecret:  "access-secret",
		RefreshSecret: "refresh-secret",
		AccessExpiry:  time.Hour,
		RefreshExpiry: 24 * time.Hour,
		Issuer:        "avatarapp-test",
	}
}

func TestAccessTokenRoundTrip(t *testing.T) {
	cfg := testJWTConfig()
	token, err := GenerateAccessToken(cfg, 7, "pacjent@example.com", "PATIENT")
	require.NoError(t, err)

	claims, err := ParseAccessToken(cfg, token)
	require.NoError(t, err)
	assert.EqualValues(t, 7, claims.UserID)
	assert.Equal(t, "pacjent@example.com", claims.Email)
	assert.Equal(t, "PATIENT", claims.Role)
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	cfg := testJWTConfig()
	token, err := GenerateRefreshToken(cfg, 42)
	require.NoError(t, err)

	userID, err := ParseRefreshToken(cfg, token)
	require.NoError(t, err)
	assert.EqualValues(t, 42, userID)
}

func TestRefreshTokenRejectedAsAccessToken(t *testing.T) {
	// The two kinds have separate secrets AND a typ claim; even with the
	// secrets set equal, a refresh token must not authenticate a request.
	cfg := testJWTConfig()
	cfg.AccessSecret = cfg.RefreshSecret

	refresh, err := GenerateRefreshToken(cfg, 7)
	require.NoError(t, err)
	_, err = ParseAccessToken(cfg, refresh)
	assert.ErrorIs(t, err, ErrInvalidToken)

	access, err := GenerateAccessToken(cfg, 7, "a@b.pl", "PATIENT")
	require.NoError(t, err)
	_, err = ParseRefreshToken(cfg, access)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestAccessTokenWrongIssuer(t *testing.T) {
	issued := testJWTConfig()
	issued.Issuer = "someone-else"
	token, err := GenerateAccessToken(issued, 7, "a@b.pl", "PATIENT")
	require.NoError(t, err)

	_, err = ParseAccessToken(testJWTConfig(), token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestAccessTokenExpired(t *testing.T) {
	cfg := testJWTConfig()
	cfg.AccessExpiry = -time.Minute
	token, err := GenerateAccessToken(cfg, 7, "a@b.pl", "PATIENT")
	require.NoError(t, err)

	_, err = ParseAccessToken(cfg, token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestAccessTokenGarbage(t *testing.T) {
	_, err := ParseAccessToken(testJWTConfig(), "not.a.jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
