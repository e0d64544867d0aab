// Campus Catalog - Multi-tenant Course Catalog and Access Control
// Copyright 2026 OpenCampus Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/opencampus/catalog

// Package directory manages accounts and credential issuance.
//
// Registration collects every validation failure into one response, hashes
// the secret with bcrypt, and enforces email uniqueness at write time.
// Login deliberately reports the same error whether the email is unknown or
// the secret is wrong.
package directory

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/opencampus/catalog/internal/auth"
	"github.com/opencampus/catalog/internal/logging"
	"github.com/opencampus/catalog/internal/models"
	"github.com/opencampus/catalog/internal/store"
	"github.com/opencampus/catalog/internal/validation"
)

var (
	// ErrEmailTaken is returned when registering an email already in use.
	ErrEmailTaken = errors.New("email already registered")

	// ErrInvalidLogin is returned for every failed login. Unknown email and
	// wrong secret are indistinguishable to the caller.
	ErrInvalidLogin = errors.New("invalid email or password")

	// ErrAccountNotFound is returned by WhoAmI for a missing account.
	ErrAccountNotFound = errors.New("account not found")
)

// RegisterRequest is the registration payload.
type RegisterRequest struct {
	Name   string `json:"name" validate:"required,min=2"`
	Email  string `json:"email" validate:"required,email"`
	Secret string `json:"password" validate:"required,min=6"`
	Role   string `json:"role" validate:"required,role"`
}

// LoginRequest is the login payload.
type LoginRequest struct {
	Email  string `json:"email" validate:"required,email"`
	Secret string `json:"password" validate:"required"`
}

// Credential is a freshly issued token with its expiry.
type Credential struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Directory registers accounts and issues credentials.
type Directory struct {
	store      *store.Store
	tokens     *auth.TokenManager
	bcryptCost int
}

// New creates an account directory. bcryptCost outside bcrypt's valid range
// falls back to cost 12.
func New(st *store.Store, tokens *auth.TokenManager, bcryptCost int) *Directory {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = 12
	}
	return &Directory{
		store:      st,
		tokens:     tokens,
		bcryptCost: bcryptCost,
	}
}

// Register validates the request, creates the account and issues a
// credential. Returns *validation.RequestValidationError with every field
// failure, ErrEmailTaken on a uniqueness conflict, or the sanitized account
// plus credential on success.
func (d *Directory) Register(ctx context.Context, req *RegisterRequest) (*models.Account, *Credential, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)

	if verr := validation.ValidateStruct(req); verr != nil {
		return nil, nil, verr
	}
	// Role is known valid here.
	role, _ := models.ParseRole(req.Role)

	secretHash, err := bcrypt.GenerateFromPassword([]byte(req.Secret), d.bcryptCost)
	if err != nil {
		return nil, nil, fmt.Errorf("hash secret: %w", err)
	}

	account := models.NewAccount(req.Name, strings.ToLower(req.Email), string(secretHash), role)
	if err := d.store.CreateAccount(ctx, account); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, nil, ErrEmailTaken
		}
		return nil, nil, fmt.Errorf("create account: %w", err)
	}

	cred, err := d.issueCredential(account)
	if err != nil {
		return nil, nil, err
	}

	logging.Ctx(ctx).Info().
		Str("account_id", account.ID).
		Str("role", string(account.Role)).
		Msg("account registered")

	return account.Sanitized(), cred, nil
}

// Login verifies credentials and issues a fresh token. Every failure after
// input validation is ErrInvalidLogin; the bcrypt comparison runs in
// constant time with respect to the stored hash.
func (d *Directory) Login(ctx context.Context, req *LoginRequest) (*models.Account, *Credential, error) {
	req.Email = strings.TrimSpace(req.Email)

	if verr := validation.ValidateStruct(req); verr != nil {
		return nil, nil, verr
	}

	account, err := d.store.GetAccountByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil, ErrInvalidLogin
		}
		return nil, nil, fmt.Errorf("lookup account: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.SecretHash), []byte(req.Secret)); err != nil {
		return nil, nil, ErrInvalidLogin
	}

	cred, err := d.issueCredential(account)
	if err != nil {
		return nil, nil, err
	}

	logging.Ctx(ctx).Info().
		Str("account_id", account.ID).
		Msg("login succeeded")

	return account.Sanitized(), cred, nil
}

// WhoAmI looks up the account for an authenticated subject.
func (d *Directory) WhoAmI(ctx context.Context, subjectID string) (*models.Account, error) {
	account, err := d.store.GetAccountByID(ctx, subjectID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("lookup account: %w", err)
	}
	return account.Sanitized(), nil
}

func (d *Directory) issueCredential(account *models.Account) (*Credential, error) {
	token, expiresAt, err := d.tokens.Issue(models.Principal{
		SubjectID: account.ID,
		Role:      account.Role,
	})
	if err != nil {
		return nil, fmt.Errorf("issue credential: %w", err)
	}
	return &Credential{Token: token, ExpiresAt: expiresAt}, nil
}
