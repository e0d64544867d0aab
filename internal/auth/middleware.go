// Campus Catalog - Multi-tenant Course Catalog and Access Control
// Copyright 2026 OpenCampus Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/opencampus/catalog

package auth

import (
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/opencampus/catalog/internal/logging"
	"github.com/opencampus/catalog/internal/models"
)

// Middleware authenticates requests and enforces role membership.
//
// Authenticate runs before any role or resource check, so an invalid
// credential is always reported as 401 regardless of what the caller was
// trying to reach. RequireRoles layers on top and reports 403 only for
// requests that authenticated successfully.
type Middleware struct {
	tokens *TokenManager
}

// NewMiddleware creates authentication middleware backed by the token manager.
func NewMiddleware(tokens *TokenManager) *Middleware {
	return &Middleware{tokens: tokens}
}

// Authenticate extracts and verifies the Bearer credential, storing the
// principal in the request context. Missing or malformed headers and
// failed verification all yield 401 with the same error code.
func (m *Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := extractBearerToken(r)
		if !ok {
			writeAuthError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
			return
		}

		principal, err := m.tokens.Verify(token)
		if err != nil {
			logging.Ctx(r.Context()).Warn().Msg("credential verification failed")
			writeAuthError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid or expired token")
			return
		}

		ctx := ContextWithPrincipal(r.Context(), principal)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRoles allows only principals holding one of the given roles.
// Must be mounted after Authenticate; a request that somehow reaches it
// without a principal is treated as unauthenticated, not forbidden.
func (m *Middleware) RequireRoles(roles ...models.Role) func(http.Handler) http.Handler {
	allowed := make(map[models.Role]struct{}, len(roles))
	for _, role := range roles {
		allowed[role] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, ok := PrincipalFromContext(r.Context())
			if !ok {
				writeAuthError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
				return
			}

			if _, ok := allowed[principal.Role]; !ok {
				logging.Ctx(r.Context()).Warn().
					Str("role", string(principal.Role)).
					Str("path", r.URL.Path).
					Msg("role denied")
				writeAuthError(w, r, http.StatusForbidden, "FORBIDDEN", "Insufficient permissions")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// extractBearerToken pulls the credential out of the Authorization header.
// The scheme comparison is case-insensitive per RFC 9110.
func extractBearerToken(r *http.Request) (string, bool) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", false
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", false
	}
	return token, true
}

// writeAuthError writes an error response in the API envelope shape.
// Kept local to avoid importing the api package from middleware.
func writeAuthError(w http.ResponseWriter, r *http.Request, statusCode int, code, message string) {
	requestID := logging.RequestIDFromContext(r.Context())

	response := struct {
		Success bool `json:"success"`
		Error   struct {
			Code      string `json:"code"`
			Message   string `json:"message"`
			RequestID string `json:"request_id,omitempty"`
		} `json:"error"`
		Meta struct {
			RequestID string    `json:"request_id,omitempty"`
			Timestamp time.Time `json:"timestamp"`
		} `json:"meta"`
	}{}
	response.Error.Code = code
	response.Error.Message = message
	response.Error.RequestID = requestID
	response.Meta.RequestID = requestID
	response.Meta.Timestamp = time.Now()

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		logging.Error().Err(err).Msg("Failed to encode JSON response")
	}
}
