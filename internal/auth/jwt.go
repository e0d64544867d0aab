// Campus Catalog - Multi-tenant Course Catalog and Access Control
// Copyright 2026 OpenCampus Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/opencampus/catalog

// Package auth issues and verifies signed credentials and provides the HTTP
// middleware that turns a Bearer token into a request principal.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/opencampus/catalog/internal/config"
	"github.com/opencampus/catalog/internal/models"
)

// ErrInvalidToken is returned for every verification failure: malformed,
// expired, tampered, or wrongly signed tokens all look the same to callers
// so responses cannot leak which check failed.
var ErrInvalidToken = errors.New("invalid or expired token")

// Claims are the JWT claims carried by a credential. The account id rides
// in the registered Subject claim.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// TokenManager creates and validates credentials. Tokens are signed with
// HMAC-SHA256 and expire after the configured TTL (default 7 days).
type TokenManager struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenManager creates a token manager from security configuration.
// The secret is stored as []byte to avoid string interning.
func NewTokenManager(cfg *config.SecurityConfig) (*TokenManager, error) {
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required but was empty")
	}
	ttl := cfg.TokenTTL
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	return &TokenManager{
		secret: []byte(cfg.JWTSecret),
		ttl:    ttl,
	}, nil
}

// TTL returns the configured credential lifetime.
func (m *TokenManager) TTL() time.Duration {
	return m.ttl
}

// Issue creates a signed credential for the principal.
// Returns the token string and its expiry time.
func (m *TokenManager) Issue(principal models.Principal) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(m.ttl)

	claims := &Claims{
		Role: string(principal.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   principal.SubjectID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// Verify validates a credential and extracts the principal.
//
// The signing method check rejects algorithm confusion attacks ("none",
// RS256 against an HMAC secret). Any failure, including an unknown role
// baked into an otherwise valid token, returns ErrInvalidToken.
func (m *TokenManager) Verify(tokenString string) (*models.Principal, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	role, err := models.ParseRole(claims.Role)
	if err != nil {
		return nil, ErrInvalidToken
	}
	if claims.Subject == "" {
		return nil, ErrInvalidToken
	}

	return &models.Principal{
		SubjectID: claims.Subject,
		Role:      role,
	}, nil
}
