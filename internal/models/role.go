// Campus Catalog - Multi-tenant Course Catalog and Access Control
// Copyright 2026 OpenCampus Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/opencampus/catalog

package models

import "errors"

// Role is the closed set of permission classes in the system.
// Roles are validated once at the boundary (registration, token verify);
// business logic compares Role values, never raw strings.
type Role string

const (
	// RoleAdmin has full access to categories and courses.
	RoleAdmin Role = "admin"

	// RoleInstitute creates courses and manages the ones it owns.
	RoleInstitute Role = "institute"

	// RoleFaculty reads the courses it is assigned to.
	RoleFaculty Role = "faculty"

	// RoleStudent enrolls in published courses.
	RoleStudent Role = "student"
)

// ValidRoles contains every valid role. Roles are not hierarchical:
// institute is not a superset of faculty.
var ValidRoles = []Role{RoleAdmin, RoleInstitute, RoleFaculty, RoleStudent}

// ErrInvalidRole is returned when a string does not name a known role.
var ErrInvalidRole = errors.New("invalid role")

// ParseRole converts a string to a Role.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleAdmin, RoleInstitute, RoleFaculty, RoleStudent:
		return Role(s), nil
	default:
		return "", ErrInvalidRole
	}
}

// IsValidRole checks if a role name is valid.
func IsValidRole(s string) bool {
	_, err := ParseRole(s)
	return err == nil
}

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}
