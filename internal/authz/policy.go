// Campus Catalog - Multi-tenant Course Catalog and Access Control
// Copyright 2026 OpenCampus Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/opencampus/catalog

package authz

import (
	"github.com/opencampus/catalog/internal/models"
)

// OwnershipPolicy answers per-instance mutation questions that the route
// policy cannot: whether this particular principal may mutate this
// particular resource. Callers must have already passed the coarse role
// gate; ownership is the fine-grained second check.
type OwnershipPolicy struct{}

// NewOwnershipPolicy creates the ownership rule set.
func NewOwnershipPolicy() *OwnershipPolicy {
	return &OwnershipPolicy{}
}

// CanMutateCourse reports whether the principal may change a course's
// title, description or publication state. Admins always may; an institute
// only when it created the course. Admin-created courses carry the owner
// sentinel, which never equals an institute's subject id.
func (p *OwnershipPolicy) CanMutateCourse(principal *models.Principal, course *models.Course) bool {
	if principal == nil || course == nil {
		return false
	}
	switch principal.Role {
	case models.RoleAdmin:
		return true
	case models.RoleInstitute:
		return principal.SubjectID == course.OwnerInstituteID
	default:
		return false
	}
}

// CanMutateCategory reports whether the principal may mutate a category.
// Categories have no per-instance owner; role membership decides.
func (p *OwnershipPolicy) CanMutateCategory(principal *models.Principal) bool {
	return principal != nil && principal.Role == models.RoleAdmin
}
