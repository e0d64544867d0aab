// Campus Catalog - Multi-tenant Course Catalog and Access Control
// Copyright 2026 OpenCampus Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/opencampus/catalog

// Package catalog implements category and course operations with
// role-scoped visibility and ownership enforcement.
//
// The route layer has already checked coarse role permissions before any
// method here runs; this service applies the per-instance rules that the
// route table cannot express: course ownership on update, the publish gate
// on enrollment, and the per-role visibility filter on reads.
package catalog

import (
	"errors"

	"github.com/opencampus/catalog/internal/authz"
	"github.com/opencampus/catalog/internal/store"
)

var (
	// ErrNotFound is returned when a referenced category or course is absent.
	ErrNotFound = errors.New("resource not found")

	// ErrForbidden is returned when ownership denies a mutation the
	// caller's role would otherwise allow.
	ErrForbidden = errors.New("operation not permitted")

	// ErrDuplicateName is returned when a category name is already taken.
	ErrDuplicateName = errors.New("name already in use")

	// ErrNotPublished is returned when enrolling in an unpublished course.
	ErrNotPublished = errors.New("course is not published")
)

// Service orchestrates catalog operations against the store.
type Service struct {
	store     *store.Store
	ownership *authz.OwnershipPolicy
}

// NewService creates the catalog service.
func NewService(st *store.Store, ownership *authz.OwnershipPolicy) *Service {
	return &Service{
		store:     st,
		ownership: ownership,
	}
}
