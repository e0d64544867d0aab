// Campus Catalog - Multi-tenant Course Catalog and Access Control
// Copyright 2026 OpenCampus Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/opencampus/catalog

package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEnforcer(t *testing.T) *Enforcer {
	t.Helper()
	e, err := NewEnforcer(DefaultEnforcerConfig())
	require.NoError(t, err)
	t.Cleanup(e.Close)
	return e
}

func TestEnforceRouteTable(t *testing.T) {
	e := newTestEnforcer(t)

	tests := []struct {
		name    string
		role    string
		path    string
		method  string
		allowed bool
	}{
		// Category mutations are admin only.
		{"admin creates category", "admin", "/api/categories", "POST", true},
		{"institute creates category", "institute", "/api/categories", "POST", false},
		{"faculty updates category", "faculty", "/api/categories/abc", "PUT", false},
		{"student deletes category", "student", "/api/categories/abc", "DELETE", false},
		{"admin deletes category", "admin", "/api/categories/abc", "DELETE", true},

		// Course reads are open to every authenticated role.
		{"admin lists courses", "admin", "/api/courses", "GET", true},
		{"institute lists courses", "institute", "/api/courses", "GET", true},
		{"faculty lists courses", "faculty", "/api/courses", "GET", true},
		{"student lists courses", "student", "/api/courses", "GET", true},
		{"student reads one course", "student", "/api/courses/abc", "GET", true},

		// Course creation: admin and institute.
		{"admin creates course", "admin", "/api/courses", "POST", true},
		{"institute creates course", "institute", "/api/courses", "POST", true},
		{"faculty creates course", "faculty", "/api/courses", "POST", false},
		{"student creates course", "student", "/api/courses", "POST", false},

		// Course update: admin and institute at the route level; ownership
		// is checked later in the catalog service.
		{"admin updates course", "admin", "/api/courses/abc", "PUT", true},
		{"institute updates course", "institute", "/api/courses/abc", "PUT", true},
		{"faculty updates course", "faculty", "/api/courses/abc", "PUT", false},

		// Delete is admin only.
		{"admin deletes course", "admin", "/api/courses/abc", "DELETE", true},
		{"institute deletes course", "institute", "/api/courses/abc", "DELETE", false},

		// Faculty assignment: admin and institute.
		{"admin assigns faculty", "admin", "/api/courses/abc/assign-faculty", "POST", true},
		{"institute assigns faculty", "institute", "/api/courses/abc/assign-faculty", "POST", true},
		{"faculty assigns faculty", "faculty", "/api/courses/abc/assign-faculty", "POST", false},
		{"student assigns faculty", "student", "/api/courses/abc/assign-faculty", "POST", false},

		// Enrollment is student only, with no admin bypass.
		{"student enrolls", "student", "/api/courses/abc/enroll", "POST", true},
		{"admin enrolls", "admin", "/api/courses/abc/enroll", "POST", false},
		{"institute enrolls", "institute", "/api/courses/abc/enroll", "POST", false},
		{"faculty enrolls", "faculty", "/api/courses/abc/enroll", "POST", false},

		// Unknown roles match nothing.
		{"unknown role", "superuser", "/api/courses", "GET", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			allowed, err := e.Enforce(tt.role, tt.path, tt.method)
			require.NoError(t, err)
			assert.Equal(t, tt.allowed, allowed)
		})
	}
}

func TestEnforceDecisionCache(t *testing.T) {
	e := newTestEnforcer(t)

	// Same decision twice: the second is served from cache.
	first, err := e.Enforce("student", "/api/courses", "GET")
	require.NoError(t, err)
	second, err := e.Enforce("student", "/api/courses", "GET")
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.True(t, first)
}

func TestGetRolesForSubject(t *testing.T) {
	e := newTestEnforcer(t)

	for _, role := range []string{"admin", "institute", "faculty", "student"} {
		groups, err := e.GetRolesForSubject(role)
		require.NoError(t, err)
		assert.Contains(t, groups, "authenticated", "role %s should be in the authenticated group", role)
	}
}
