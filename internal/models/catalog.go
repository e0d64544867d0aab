// Campus Catalog - Multi-tenant Course Catalog and Access Control
// Copyright 2026 OpenCampus Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/opencampus/catalog

package models

import (
	"time"

	"github.com/google/uuid"
)

// AdminOwnerSentinel marks courses created by an admin rather than an
// institute. It can never collide with an institute subject id (ids are
// UUIDs), so admin-created courses are mutable by admins only.
const AdminOwnerSentinel = "admin"

// Category groups courses. Mutation is admin-only; reads are public.
type Category struct {
	ID string `json:"id"`

	// Name is unique across the catalog.
	Name string `json:"name"`

	Description string `json:"description,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewCategory creates a category with a fresh id.
func NewCategory(name, description string) *Category {
	now := time.Now().UTC()
	return &Category{
		ID:          uuid.New().String(),
		Name:        name,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Course is the catalog's central resource.
//
// Invariants:
//   - OwnerInstituteID is set once at creation and never mutated.
//   - FacultyIDs and EnrolledStudentIDs behave as sets: additions are
//     idempotent unions, never duplicating members.
//   - Students may only enroll while IsPublished is true.
type Course struct {
	ID string `json:"id"`

	Title       string `json:"title"`
	Description string `json:"description,omitempty"`

	// CategoryID must reference an existing Category at creation time.
	CategoryID string `json:"category_id"`

	// OwnerInstituteID is the creating institute's subject id, or
	// AdminOwnerSentinel for admin-created courses. Immutable.
	OwnerInstituteID string `json:"owner_institute_id"`

	FacultyIDs         []string `json:"faculty_ids"`
	EnrolledStudentIDs []string `json:"enrolled_student_ids"`

	IsPublished bool `json:"is_published"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewCourse creates a course owned by the given subject.
func NewCourse(title, description, categoryID, ownerInstituteID string, isPublished bool) *Course {
	now := time.Now().UTC()
	return &Course{
		ID:                 uuid.New().String(),
		Title:              title,
		Description:        description,
		CategoryID:         categoryID,
		OwnerInstituteID:   ownerInstituteID,
		FacultyIDs:         []string{},
		EnrolledStudentIDs: []string{},
		IsPublished:        isPublished,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
}

// AssignFaculty unions the given ids into FacultyIDs, preserving order of
// first appearance. Repeated assignment is a no-op for already-present ids.
func (c *Course) AssignFaculty(ids ...string) {
	c.FacultyIDs = unionInto(c.FacultyIDs, ids)
}

// EnrollStudent unions the student's id into EnrolledStudentIDs.
func (c *Course) EnrollStudent(id string) {
	c.EnrolledStudentIDs = unionInto(c.EnrolledStudentIDs, []string{id})
}

// HasFaculty reports whether the subject is assigned to this course.
func (c *Course) HasFaculty(subjectID string) bool {
	for _, id := range c.FacultyIDs {
		if id == subjectID {
			return true
		}
	}
	return false
}

// unionInto appends members of add not already present in dst.
func unionInto(dst, add []string) []string {
	seen := make(map[string]struct{}, len(dst))
	for _, id := range dst {
		seen[id] = struct{}{}
	}
	for _, id := range add {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		dst = append(dst, id)
	}
	return dst
}
