// Package auth issues and validates the two JWT kinds the API uses: short
// lived access tokens carrying identity claims, and long lived refresh
// tokens carrying only the account id. Both are HS256 with separate
// secrets; a typ claim keeps one kind from being replayed as the other.
package auth

import (
	"errors"
	"strconv"
	"time"

	"avatarapp/config"

	"github.com/golang-jwt/jwt/v5"
)

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

var ErrInvalidToken = errors.New("invalid token")

// AccessClaims identifies the account on API requests. Role is PATIENT or
// ADMIN and is trusted downstream, so it is only ever written here from
// the stored user row.
type AccessClaims struct {
	UserID    uint   `json:"user_id"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	TokenType string `json:"typ"`
	jwt.RegisteredClaims
}

type refreshClaims struct {
	TokenType string `json:"typ"`
	jwt.RegisteredClaims
}

func GenerateAccessToken(cfg *config.JWTConfig, userID uint, email, role string) (string, error) {
	now := time.Now()
	claims := AccessClaims{
		UserID:    userID,
		Email:     email,
		Role:      role,
		TokenType: tokenTypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(userID), 10),
			ExpiresAt: jwt.NewNumericDate(now.Add(cfg.AccessExpiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    cfg.Issuer,
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(cfg.AccessSecret))
}

func GenerateRefreshToken(cfg *config.JWTConfig, userID uint) (string, error) {
	now := time.Now()
	claims := refreshClaims{
		TokenType: tokenTypeRefresh,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(userID), 10),
			ExpiresAt: jwt.NewNumericDate(now.Add(cfg.RefreshExpiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    cfg.Issuer,
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(cfg.RefreshSecret))
}

func ParseAccessToken(cfg *config.JWTConfig, tokenString string) (*AccessClaims, error) {
	var claims AccessClaims
	if err := parse(tokenString, &claims, cfg.AccessSecret, cfg.Issuer); err != nil {
		return nil, err
	}
	if claims.TokenType != tokenTypeAccess || claims.UserID == 0 {
		return nil, ErrInvalidToken
	}
	return &claims, nil
}

// ParseRefreshToken validates a refresh token and returns the account id
// it was issued to.
func ParseRefreshToken(cfg *config.JWTConfig, tokenString string) (uint, error) {
	var claims refreshClaims
	if err := parse(tokenString, &claims, cfg.RefreshSecret, cfg.Issuer); err != nil {
		return 0, err
	}
	if claims.TokenType != tokenTypeRefresh {
		return 0, ErrInvalidToken
	}
	id, err := strconv.ParseUint(claims.Subject, 10, 32)
	if err != nil || id == 0 {
		return 0, ErrInvalidToken
	}
	return uint(id), nil
}

func parse(tokenString string, claims jwt.Claims, secret, issuer string) error {
	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(*jwt.Token) (interface{}, error) { return []byte(secret), nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
	)
	if err != nil || !token.Valid {
		return ErrInvalidToken
	}
	return nil
}
