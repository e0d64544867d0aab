// Campus Catalog - Multi-tenant Course Catalog and Access Control
// Copyright 2026 OpenCampus Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/opencampus/catalog

package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/opencampus/catalog/internal/auth"
	"github.com/opencampus/catalog/internal/catalog"
	"github.com/opencampus/catalog/internal/logging"
	"github.com/opencampus/catalog/internal/metrics"
	"github.com/opencampus/catalog/internal/models"
	"github.com/opencampus/catalog/internal/validation"
)

// CourseHandlers serves course catalog endpoints.
type CourseHandlers struct {
	catalog *catalog.Service
}

// NewCourseHandlers creates handlers backed by the catalog service.
func NewCourseHandlers(svc *catalog.Service) *CourseHandlers {
	return &CourseHandlers{catalog: svc}
}

// List handles GET /api/courses. Results are filtered by the caller's role.
func (h *CourseHandlers) List(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	principal, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		rw.Unauthorized("Authentication required")
		return
	}

	courses, err := h.catalog.ListCourses(r.Context(), principal)
	if err != nil {
		rw.StoreError(err)
		return
	}

	rw.Success(courses)
}

// Get handles GET /api/courses/{id}.
func (h *CourseHandlers) Get(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	principal, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		rw.Unauthorized("Authentication required")
		return
	}

	course, err := h.catalog.GetCourse(r.Context(), principal, chi.URLParam(r, "id"))
	if err != nil {
		h.writeCatalogError(rw, err)
		return
	}

	rw.Success(course)
}

// Create handles POST /api/courses.
func (h *CourseHandlers) Create(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	principal, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		rw.Unauthorized("Authentication required")
		return
	}

	var req catalog.CreateCourseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		rw.BadRequest("Invalid request body")
		return
	}

	course, err := h.catalog.CreateCourse(r.Context(), principal, &req)
	if err != nil {
		h.writeCatalogError(rw, err)
		return
	}

	logging.Ctx(r.Context()).Info().
		Str("course_id", course.ID).
		Str("owner", course.OwnerInstituteID).
		Msg("Course created")

	rw.Created(course)
}

// Update handles PUT /api/courses/{id}.
func (h *CourseHandlers) Update(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	principal, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		rw.Unauthorized("Authentication required")
		return
	}

	var req catalog.UpdateCourseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		rw.BadRequest("Invalid request body")
		return
	}

	course, err := h.catalog.UpdateCourse(r.Context(), principal, chi.URLParam(r, "id"), &req)
	if err != nil {
		h.writeCatalogError(rw, err)
		return
	}

	rw.Success(course)
}

// Delete handles DELETE /api/courses/{id}.
func (h *CourseHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	if err := h.catalog.DeleteCourse(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeCatalogError(rw, err)
		return
	}

	rw.Success(map[string]string{"status": "deleted"})
}

// AssignFaculty handles POST /api/courses/{id}/assign-faculty.
func (h *CourseHandlers) AssignFaculty(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var req catalog.AssignFacultyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		rw.BadRequest("Invalid request body")
		return
	}

	course, err := h.catalog.AssignFaculty(r.Context(), chi.URLParam(r, "id"), &req)
	if err != nil {
		h.writeCatalogError(rw, err)
		return
	}

	rw.Success(course)
}

// Enroll handles POST /api/courses/{id}/enroll.
func (h *CourseHandlers) Enroll(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	principal, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		rw.Unauthorized("Authentication required")
		return
	}
	if principal.Role != models.RoleStudent {
		rw.Forbidden("Insufficient permissions")
		return
	}

	course, err := h.catalog.Enroll(r.Context(), principal, chi.URLParam(r, "id"))
	if err != nil {
		h.writeCatalogError(rw, err)
		return
	}

	metrics.RecordEnrollment()
	logging.Ctx(r.Context()).Info().
		Str("course_id", course.ID).
		Str("student_id", principal.SubjectID).
		Msg("Student enrolled")

	rw.Success(course)
}

func (h *CourseHandlers) writeCatalogError(rw *ResponseWriter, err error) {
	var verr *validation.RequestValidationError
	switch {
	case errors.As(err, &verr):
		rw.ValidationError("Validation failed", verr.FieldErrors())
	case errors.Is(err, catalog.ErrNotFound):
		rw.NotFound("Course not found")
	case errors.Is(err, catalog.ErrForbidden):
		rw.Forbidden("Insufficient permissions")
	case errors.Is(err, catalog.ErrDuplicateName):
		rw.Conflict("A course with this name already exists")
	case errors.Is(err, catalog.ErrNotPublished):
		rw.Error(http.StatusBadRequest, ErrCodeBadRequest, "Course is not open for enrollment")
	default:
		rw.StoreError(err)
	}
}
