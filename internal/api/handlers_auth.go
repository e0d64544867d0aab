// Campus Catalog - Multi-tenant Course Catalog and Access Control
// Copyright 2026 OpenCampus Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/opencampus/catalog

package api

import (
	"errors"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/opencampus/catalog/internal/auth"
	"github.com/opencampus/catalog/internal/directory"
	"github.com/opencampus/catalog/internal/logging"
	"github.com/opencampus/catalog/internal/metrics"
	"github.com/opencampus/catalog/internal/validation"
)

// AuthHandlers serves account registration, login and identity lookups.
type AuthHandlers struct {
	directory *directory.Directory
}

// NewAuthHandlers creates handlers backed by the given account directory.
func NewAuthHandlers(dir *directory.Directory) *AuthHandlers {
	return &AuthHandlers{directory: dir}
}

// Register handles POST /api/auth/register.
func (h *AuthHandlers) Register(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var req directory.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		rw.BadRequest("Invalid request body")
		return
	}

	account, cred, err := h.directory.Register(r.Context(), &req)
	if err != nil {
		var verr *validation.RequestValidationError
		switch {
		case errors.As(err, &verr):
			rw.ValidationError("Validation failed", verr.FieldErrors())
		case errors.Is(err, directory.ErrEmailTaken):
			rw.Conflict("An account with this email already exists")
		default:
			rw.StoreError(err)
		}
		return
	}

	metrics.RecordRegistration(string(account.Role))
	logging.Ctx(r.Context()).Info().
		Str("account_id", account.ID).
		Str("role", string(account.Role)).
		Msg("Account registered")

	rw.Created(map[string]interface{}{
		"account":    account,
		"token":      cred.Token,
		"expires_at": cred.ExpiresAt,
	})
}

// Login handles POST /api/auth/login.
func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var req directory.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		rw.BadRequest("Invalid request body")
		return
	}

	account, cred, err := h.directory.Login(r.Context(), &req)
	if err != nil {
		var verr *validation.RequestValidationError
		switch {
		case errors.As(err, &verr):
			metrics.RecordLogin("invalid")
			rw.ValidationError("Validation failed", verr.FieldErrors())
		case errors.Is(err, directory.ErrInvalidLogin):
			// Same response for unknown email and wrong password.
			metrics.RecordLogin("failure")
			rw.Unauthorized("Invalid email or password")
		default:
			metrics.RecordLogin("error")
			rw.StoreError(err)
		}
		return
	}

	metrics.RecordLogin("success")
	rw.Success(map[string]interface{}{
		"account":    account,
		"token":      cred.Token,
		"expires_at": cred.ExpiresAt,
	})
}

// WhoAmI handles GET /api/auth/whoami. Requires authentication.
func (h *AuthHandlers) WhoAmI(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	principal, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		rw.Unauthorized("Authentication required")
		return
	}

	account, err := h.directory.WhoAmI(r.Context(), principal.SubjectID)
	if err != nil {
		if errors.Is(err, directory.ErrAccountNotFound) {
			rw.NotFound("Account not found")
			return
		}
		rw.StoreError(err)
		return
	}

	rw.Success(account)
}
