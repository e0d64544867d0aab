// Campus Catalog - Multi-tenant Course Catalog and Access Control
// Copyright 2026 OpenCampus Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/opencampus/catalog

package authz

import (
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/opencampus/catalog/internal/auth"
	"github.com/opencampus/catalog/internal/logging"
)

// Middleware enforces the route authorization policy for every request on
// the authenticated router.
type Middleware struct {
	enforcer *Enforcer
	audit    *AuditLogger
}

// NewMiddleware creates route authorization middleware. audit may be nil.
func NewMiddleware(enforcer *Enforcer, audit *AuditLogger) *Middleware {
	return &Middleware{
		enforcer: enforcer,
		audit:    audit,
	}
}

// Authorize checks the principal's role against the policy for the request
// path and method. A request without a principal is unauthenticated, not
// forbidden; 403 is reserved for callers who proved who they are.
func (m *Middleware) Authorize(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal, ok := auth.PrincipalFromContext(r.Context())
		if !ok {
			writeAuthzError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
			return
		}

		start := time.Now()
		allowed, err := m.enforcer.Enforce(string(principal.Role), r.URL.Path, r.Method)
		if err != nil {
			logging.CtxErr(r.Context(), err).Msg("authorization check failed")
			writeAuthzError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
			return
		}

		m.audit.LogDecision(&AuditEvent{
			RequestID: logging.RequestIDFromContext(r.Context()),
			ActorID:   principal.SubjectID,
			ActorRole: string(principal.Role),
			Resource:  r.URL.Path,
			Action:    r.Method,
			Decision:  allowed,
			Duration:  time.Since(start),
		})
		recordDecision(string(principal.Role), allowed)

		if !allowed {
			writeAuthzError(w, r, http.StatusForbidden, "FORBIDDEN", "Insufficient permissions")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// writeAuthzError writes an error response in the API envelope shape.
// Kept local to avoid importing the api package from middleware.
func writeAuthzError(w http.ResponseWriter, r *http.Request, statusCode int, code, message string) {
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
