// Campus Catalog - Multi-tenant Course Catalog and Access Control
// Copyright 2026 OpenCampus Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/opencampus/catalog

package auth

import (
	"context"

	"github.com/opencampus/catalog/internal/models"
)

type contextKey string

// principalContextKey holds the authenticated principal for a request.
const principalContextKey contextKey = "principal"

// ContextWithPrincipal returns a context carrying the authenticated principal.
func ContextWithPrincipal(ctx context.Context, p *models.Principal) context.Context {
	return context.WithValue(ctx, principalContextKey, p)
}

// PrincipalFromContext retrieves the authenticated principal, if any.
func PrincipalFromContext(ctx context.Context) (*models.Principal, bool) {
	p, ok := ctx.Value(principalContextKey).(*models.Principal)
	return p, ok && p != nil
}
