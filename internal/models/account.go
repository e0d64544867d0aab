// Campus Catalog - Multi-tenant Course Catalog and Access Control
// Copyright 2026 OpenCampus Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/opencampus/catalog

package models

import (
	"time"

	"github.com/google/uuid"
)

// Account is a registered identity. The secret hash never leaves the
// process boundary: it is excluded from JSON and stripped by the directory
// before an account is returned to a caller.
type Account struct {
	// ID is the opaque subject identifier carried in issued credentials.
	ID string `json:"id"`

	// Name is the display name.
	Name string `json:"name"`

	// Email is unique across the directory, stored lowercased.
	Email string `json:"email"`

	// SecretHash is the bcrypt hash of the account secret.
	SecretHash string `json:"-"`

	// Role is immutable after creation; no operation mutates it.
	Role Role `json:"role"`

	// CreatedAt is when the account was registered.
	CreatedAt time.Time `json:"created_at"`
}

// NewAccount creates an account with a fresh id.
// The caller supplies an already-hashed secret.
func NewAccount(name, email, secretHash string, role Role) *Account {
	return &Account{
		ID:         uuid.New().String(),
		Name:       name,
		Email:      email,
		SecretHash: secretHash,
		Role:       role,
		CreatedAt:  time.Now().UTC(),
	}
}

// Sanitized returns a copy safe to hand to callers: identical fields with
// the secret hash cleared.
func (a *Account) Sanitized() *Account {
	clean := *a
	clean.SecretHash = ""
	return &clean
}

// Principal is the authenticated actor for one request. It is derived from
// a verified credential and never persisted by this layer.
type Principal struct {
	// SubjectID is the account id the credential was issued for.
	SubjectID string `json:"subject_id"`

	// Role is the permission class embedded in the credential.
	Role Role `json:"role"`
}
