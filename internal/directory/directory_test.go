// Campus Catalog - Multi-tenant Course Catalog and Access Control
// Copyright 2026 OpenCampus Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/opencampus/catalog

package directory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/opencampus/catalog/internal/auth"
	"github.com/opencampus/catalog/internal/config"
	"github.com/opencampus/catalog/internal/models"
	"github.com/opencampus/catalog/internal/store"
	"github.com/opencampus/catalog/internal/validation"
)

func newTestDirectory(t *testing.T) *Directory {
	t.Helper()

	st, err := store.Open("")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	tokens, err := auth.NewTokenManager(&config.SecurityConfig{
		JWTSecret: "test-secret-at-least-32-characters-long",
		TokenTTL:  time.Hour,
	})
	require.NoError(t, err)

	// MinCost keeps bcrypt fast in tests.
	return New(st, tokens, bcrypt.MinCost)
}

func validRegistration() *RegisterRequest {
	return &RegisterRequest{
		Name:   "Ada Lovelace",
		Email:  "ada@example.edu",
		Secret: "secret123",
		Role:   "faculty",
	}
}

func TestRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		d := newTestDirectory(t)

		account, cred, err := d.Register(ctx, validRegistration())
		require.NoError(t, err)

		assert.NotEmpty(t, account.ID)
		assert.Equal(t, "ada@example.edu", account.Email)
		assert.Equal(t, models.RoleFaculty, account.Role)
		// The response never carries the hash.
		assert.Empty(t, account.SecretHash)

		require.NotNil(t, cred)
		assert.NotEmpty(t, cred.Token)
		assert.True(t, cred.ExpiresAt.After(time.Now()))
	})

	t.Run("email is stored lowercase", func(t *testing.T) {
		d := newTestDirectory(t)

		req := validRegistration()
		req.Email = "Ada@Example.EDU"
		account, _, err := d.Register(ctx, req)
		require.NoError(t, err)
		assert.Equal(t, "ada@example.edu", account.Email)
	})

	t.Run("validation failures are collected", func(t *testing.T) {
		d := newTestDirectory(t)

		_, _, err := d.Register(ctx, &RegisterRequest{
			Name:   "A",
			Email:  "bad",
			Secret: "short",
			Role:   "ceo",
		})

		var verr *validation.RequestValidationError
		require.ErrorAs(t, err, &verr)
		assert.Len(t, verr.FieldErrors(), 4)
	})

	t.Run("duplicate email", func(t *testing.T) {
		d := newTestDirectory(t)

		_, _, err := d.Register(ctx, validRegistration())
		require.NoError(t, err)

		req := validRegistration()
		req.Name = "Another Ada"
		req.Role = "student"
		_, _, err = d.Register(ctx, req)
		assert.ErrorIs(t, err, ErrEmailTaken)
	})

	t.Run("issued token carries the account principal", func(t *testing.T) {
		d := newTestDirectory(t)

		account, cred, err := d.Register(ctx, validRegistration())
		require.NoError(t, err)

		principal, err := d.tokens.Verify(cred.Token)
		require.NoError(t, err)
		assert.Equal(t, account.ID, principal.SubjectID)
		assert.Equal(t, models.RoleFaculty, principal.Role)
	})
}

func TestLogin(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		d := newTestDirectory(t)
		_, _, err := d.Register(ctx, validRegistration())
		require.NoError(t, err)

		account, cred, err := d.Login(ctx, &LoginRequest{
			Email:  "ada@example.edu",
			Secret: "secret123",
		})
		require.NoError(t, err)
		assert.Equal(t, "ada@example.edu", account.Email)
		assert.NotEmpty(t, cred.Token)
	})

	t.Run("unknown email and wrong secret are indistinguishable", func(t *testing.T) {
		d := newTestDirectory(t)
		_, _, err := d.Register(ctx, validRegistration())
		require.NoError(t, err)

		_, _, errUnknown := d.Login(ctx, &LoginRequest{
			Email:  "nobody@example.edu",
			Secret: "secret123",
		})
		_, _, errWrong := d.Login(ctx, &LoginRequest{
			Email:  "ada@example.edu",
			Secret: "wrong-secret",
		})

		assert.ErrorIs(t, errUnknown, ErrInvalidLogin)
		assert.ErrorIs(t, errWrong, ErrInvalidLogin)
		assert.Equal(t, errUnknown.Error(), errWrong.Error())
	})

	t.Run("missing fields fail validation before lookup", func(t *testing.T) {
		d := newTestDirectory(t)

		_, _, err := d.Login(ctx, &LoginRequest{})
		var verr *validation.RequestValidationError
		assert.ErrorAs(t, err, &verr)
	})
}

func TestWhoAmI(t *testing.T) {
	ctx := context.Background()
	d := newTestDirectory(t)

	account, _, err := d.Register(ctx, validRegistration())
	require.NoError(t, err)

	t.Run("known subject", func(t *testing.T) {
		got, err := d.WhoAmI(ctx, account.ID)
		require.NoError(t, err)
		assert.Equal(t, account.Email, got.Email)
		assert.Empty(t, got.SecretHash)
	})

	t.Run("unknown subject", func(t *testing.T) {
		_, err := d.WhoAmI(ctx, "deleted-account")
		assert.ErrorIs(t, err, ErrAccountNotFound)
	})
}
