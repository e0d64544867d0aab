// Campus Catalog - Multi-tenant Course Catalog and Access Control
// Copyright 2026 OpenCampus Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/opencampus/catalog

// Package middleware provides HTTP middleware shared by the server and
// gateway: request ids and Prometheus instrumentation.
package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/opencampus/catalog/internal/logging"
)

// RequestID assigns each request a unique id, honoring one supplied by an
// upstream proxy, and makes it available in the response header, request
// context and structured logs.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}

		w.Header().Set("X-Request-ID", requestID)
		ctx := logging.ContextWithRequestID(r.Context(), requestID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
