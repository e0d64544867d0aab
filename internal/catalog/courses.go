// Campus Catalog - Multi-tenant Course Catalog and Access Control
// Copyright 2026 OpenCampus Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/opencampus/catalog

package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/opencampus/catalog/internal/logging"
	"github.com/opencampus/catalog/internal/models"
	"github.com/opencampus/catalog/internal/store"
	"github.com/opencampus/catalog/internal/validation"
)

// CreateCourseRequest is the course creation payload.
type CreateCourseRequest struct {
	Title       string `json:"title" validate:"required,min=3"`
	Description string `json:"description" validate:"omitempty,max=2000"`
	CategoryID  string `json:"category_id" validate:"required"`
	IsPublished bool   `json:"is_published"`
}

// UpdateCourseRequest is the course update payload. Pointer fields
// distinguish "absent" from zero values so a partial update does not
// clobber fields the caller never sent.
type UpdateCourseRequest struct {
	Title       *string `json:"title" validate:"omitempty,min=3"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
	IsPublished *bool   `json:"is_published"`
}

// AssignFacultyRequest carries the faculty ids to union into a course.
type AssignFacultyRequest struct {
	FacultyIDs []string `json:"faculty_ids" validate:"required,min=1,dive,required"`
}

// CreateCourse creates a course owned by the caller. An institute becomes
// the owner; an admin-created course carries the owner sentinel, so no
// institute can ever claim it.
func (s *Service) CreateCourse(ctx context.Context, principal *models.Principal, req *CreateCourseRequest) (*models.Course, error) {
	req.Title = strings.TrimSpace(req.Title)
	if verr := validation.ValidateStruct(req); verr != nil {
		return nil, verr
	}

	// A nonexistent category is a payload problem, not a missing resource:
	// the course is the subject of this request, the category a reference.
	if _, err := s.store.GetCategory(ctx, req.CategoryID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, validation.NewRequestValidationError(validation.FieldError{
				Field:   "category_id",
				Message: "category_id must reference an existing category",
			})
		}
		return nil, fmt.Errorf("get category: %w", err)
	}

	owner := models.AdminOwnerSentinel
	if principal.Role == models.RoleInstitute {
		owner = principal.SubjectID
	}

	course := models.NewCourse(req.Title, req.Description, req.CategoryID, owner, req.IsPublished)
	if err := s.store.CreateCourse(ctx, course); err != nil {
		return nil, fmt.Errorf("create course: %w", err)
	}

	logging.Ctx(ctx).Info().
		Str("course_id", course.ID).
		Str("owner", owner).
		Msg("course created")

	return course, nil
}

// GetCourse returns a single course, applying the same visibility rules as
// ListCourses. An invisible course reads as absent so its existence is not
// leaked to callers who could never access it.
func (s *Service) GetCourse(ctx context.Context, principal *models.Principal, id string) (*models.Course, error) {
	course, err := s.store.GetCourse(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get course: %w", err)
	}
	if !visibleTo(principal, course) {
		return nil, ErrNotFound
	}
	return course, nil
}

// ListCourses returns the courses visible to the principal: faculty see
// the courses they teach, students see published courses, admin and
// institute see everything.
func (s *Service) ListCourses(ctx context.Context, principal *models.Principal) ([]*models.Course, error) {
	courses, err := s.store.ListCourses(ctx)
	if err != nil {
		return nil, err
	}

	visible := courses[:0]
	for _, course := range courses {
		if visibleTo(principal, course) {
			visible = append(visible, course)
		}
	}
	return visible, nil
}

// visibleTo applies the per-role read filter.
func visibleTo(principal *models.Principal, course *models.Course) bool {
	switch principal.Role {
	case models.RoleFaculty:
		return course.HasFaculty(principal.SubjectID)
	case models.RoleStudent:
		return course.IsPublished
	default:
		return true
	}
}

// UpdateCourse mutates title, description or publication state. Ownership
// is checked against the stored course before anything changes: an
// institute that does not own the course gets ErrForbidden even though its
// role passed the route gate.
func (s *Service) UpdateCourse(ctx context.Context, principal *models.Principal, id string, req *UpdateCourseRequest) (*models.Course, error) {
	if verr := validation.ValidateStruct(req); verr != nil {
		return nil, verr
	}

	current, err := s.store.GetCourse(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get course: %w", err)
	}

	if !s.ownership.CanMutateCourse(principal, current) {
		logging.Ctx(ctx).Warn().
			Str("course_id", id).
			Str("subject", principal.SubjectID).
			Msg("ownership denied course update")
		return nil, ErrForbidden
	}

	updated, err := s.store.UpdateCourseAtomic(ctx, id, func(course *models.Course) error {
		if req.Title != nil {
			course.Title = strings.TrimSpace(*req.Title)
		}
		if req.Description != nil {
			course.Description = *req.Description
		}
		if req.IsPublished != nil {
			course.IsPublished = *req.IsPublished
		}
		course.UpdatedAt = time.Now().UTC()
		return nil
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("update course: %w", err)
	}
	return updated, nil
}

// DeleteCourse removes a course entirely. Admin-only by route policy.
func (s *Service) DeleteCourse(ctx context.Context, id string) error {
	if err := s.store.DeleteCourse(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("delete course: %w", err)
	}

	logging.Ctx(ctx).Info().Str("course_id", id).Msg("course deleted")
	return nil
}

// AssignFaculty unions faculty ids into the course's faculty set. The
// merge runs inside an atomic update, so two concurrent assignments both
// land. Role-gated only: any institute may assign, not just the owner.
func (s *Service) AssignFaculty(ctx context.Context, id string, req *AssignFacultyRequest) (*models.Course, error) {
	if verr := validation.ValidateStruct(req); verr != nil {
		return nil, verr
	}

	updated, err := s.store.UpdateCourseAtomic(ctx, id, func(course *models.Course) error {
		course.AssignFaculty(req.FacultyIDs...)
		course.UpdatedAt = time.Now().UTC()
		return nil
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("assign faculty: %w", err)
	}
	return updated, nil
}

// Enroll adds the calling student to the course's enrollment set. The
// publish gate is re-checked inside the atomic update, so flipping
// is_published concurrently cannot admit a student into an unpublished
// course. Enrollment is idempotent.
func (s *Service) Enroll(ctx context.Context, principal *models.Principal, id string) (*models.Course, error) {
	updated, err := s.store.UpdateCourseAtomic(ctx, id, func(course *models.Course) error {
		if !course.IsPublished {
			return ErrNotPublished
		}
		course.EnrollStudent(principal.SubjectID)
		course.UpdatedAt = time.Now().UTC()
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			return nil, ErrNotFound
		case errors.Is(err, ErrNotPublished):
			return nil, ErrNotPublished
		default:
			return nil, fmt.Errorf("enroll: %w", err)
		}
	}

	logging.Ctx(ctx).Info().
		Str("course_id", id).
		Str("student", principal.SubjectID).
		Msg("student enrolled")

	return updated, nil
}
