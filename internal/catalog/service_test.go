// Campus Catalog - Multi-tenant Course Catalog and Access Control
// Copyright 2026 OpenCampus Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/opencampus/catalog

package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opencampus/catalog/internal/authz"
	"github.com/opencampus/catalog/internal/models"
	"github.com/opencampus/catalog/internal/store"
	"github.com/opencampus/catalog/internal/validation"
)

var (
	adminP     = &models.Principal{SubjectID: "admin-1", Role: models.RoleAdmin}
	instituteP = &models.Principal{SubjectID: "inst-1", Role: models.RoleInstitute}
	otherInstP = &models.Principal{SubjectID: "inst-2", Role: models.RoleInstitute}
	facultyP   = &models.Principal{SubjectID: "fac-1", Role: models.RoleFaculty}
	studentP   = &models.Principal{SubjectID: "stu-1", Role: models.RoleStudent}
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	st, err := store.Open("")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	return NewService(st, authz.NewOwnershipPolicy())
}

func mustCreateCategory(t *testing.T, s *Service, name string) *models.Category {
	t.Helper()
	category, err := s.CreateCategory(context.Background(), &CategoryRequest{Name: name})
	require.NoError(t, err)
	return category
}

func mustCreateCourse(t *testing.T, s *Service, principal *models.Principal, title, categoryID string, published bool) *models.Course {
	t.Helper()
	course, err := s.CreateCourse(context.Background(), principal, &CreateCourseRequest{
		Title:       title,
		CategoryID:  categoryID,
		IsPublished: published,
	})
	require.NoError(t, err)
	return course
}

func TestCategoryService(t *testing.T) {
	ctx := context.Background()

	t.Run("create and get", func(t *testing.T) {
		s := newTestService(t)
		category := mustCreateCategory(t, s, "Mathematics")

		got, err := s.GetCategory(ctx, category.ID)
		require.NoError(t, err)
		assert.Equal(t, "Mathematics", got.Name)
	})

	t.Run("duplicate name conflicts", func(t *testing.T) {
		s := newTestService(t)
		mustCreateCategory(t, s, "Mathematics")

		_, err := s.CreateCategory(ctx, &CategoryRequest{Name: "Mathematics"})
		assert.ErrorIs(t, err, ErrDuplicateName)
	})

	t.Run("validation failure is collected", func(t *testing.T) {
		s := newTestService(t)

		_, err := s.CreateCategory(ctx, &CategoryRequest{Name: ""})
		var verr *validation.RequestValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "name", verr.FieldErrors()[0].Field)
	})

	t.Run("update", func(t *testing.T) {
		s := newTestService(t)
		category := mustCreateCategory(t, s, "Mathematics")

		updated, err := s.UpdateCategory(ctx, category.ID, &CategoryRequest{
			Name:        "Applied Mathematics",
			Description: "with applications",
		})
		require.NoError(t, err)
		assert.Equal(t, "Applied Mathematics", updated.Name)
		assert.True(t, updated.UpdatedAt.After(category.UpdatedAt) || updated.UpdatedAt.Equal(category.UpdatedAt))
	})

	t.Run("update unknown id", func(t *testing.T) {
		s := newTestService(t)

		_, err := s.UpdateCategory(ctx, "missing", &CategoryRequest{Name: "X Y"})
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("delete", func(t *testing.T) {
		s := newTestService(t)
		category := mustCreateCategory(t, s, "Mathematics")

		require.NoError(t, s.DeleteCategory(ctx, category.ID))
		_, err := s.GetCategory(ctx, category.ID)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestCreateCourse(t *testing.T) {
	ctx := context.Background()

	t.Run("institute becomes owner", func(t *testing.T) {
		s := newTestService(t)
		category := mustCreateCategory(t, s, "Mathematics")

		course := mustCreateCourse(t, s, instituteP, "Linear Algebra", category.ID, true)
		assert.Equal(t, instituteP.SubjectID, course.OwnerInstituteID)
	})

	t.Run("admin-created course carries the sentinel owner", func(t *testing.T) {
		s := newTestService(t)
		category := mustCreateCategory(t, s, "Mathematics")

		course := mustCreateCourse(t, s, adminP, "Linear Algebra", category.ID, true)
		assert.Equal(t, models.AdminOwnerSentinel, course.OwnerInstituteID)
	})

	t.Run("unknown category is a validation failure", func(t *testing.T) {
		s := newTestService(t)

		_, err := s.CreateCourse(ctx, instituteP, &CreateCourseRequest{
			Title:      "Orphan Course",
			CategoryID: "missing",
		})
		var verr *validation.RequestValidationError
		require.ErrorAs(t, err, &verr)
		require.Len(t, verr.FieldErrors(), 1)
		assert.Equal(t, "category_id", verr.FieldErrors()[0].Field)
		assert.Equal(t, "category_id must reference an existing category", verr.FieldErrors()[0].Message)
	})

	t.Run("title shorter than three characters is rejected", func(t *testing.T) {
		s := newTestService(t)
		category := mustCreateCategory(t, s, "Mathematics")

		_, err := s.CreateCourse(ctx, instituteP, &CreateCourseRequest{
			Title:      "ab",
			CategoryID: category.ID,
		})
		var verr *validation.RequestValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "title", verr.FieldErrors()[0].Field)
		assert.Equal(t, "title must be at least 3 characters", verr.FieldErrors()[0].Message)

		course, err := s.CreateCourse(ctx, instituteP, &CreateCourseRequest{
			Title:      "abc",
			CategoryID: category.ID,
		})
		require.NoError(t, err)
		assert.Equal(t, "abc", course.Title)
	})

	t.Run("short title update is rejected", func(t *testing.T) {
		s := newTestService(t)
		category := mustCreateCategory(t, s, "Mathematics")
		course := mustCreateCourse(t, s, instituteP, "Linear Algebra", category.ID, true)

		short := "ab"
		_, err := s.UpdateCourse(ctx, instituteP, course.ID, &UpdateCourseRequest{Title: &short})
		var verr *validation.RequestValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "title", verr.FieldErrors()[0].Field)
	})
}

func TestCourseVisibility(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t)
	category := mustCreateCategory(t, s, "Mathematics")

	published := mustCreateCourse(t, s, instituteP, "Published Course", category.ID, true)
	draft := mustCreateCourse(t, s, instituteP, "Draft Course", category.ID, false)

	// Faculty fac-1 teaches only the draft course.
	_, err := s.AssignFaculty(ctx, draft.ID, &AssignFacultyRequest{FacultyIDs: []string{facultyP.SubjectID}})
	require.NoError(t, err)

	t.Run("admin sees everything", func(t *testing.T) {
		courses, err := s.ListCourses(ctx, adminP)
		require.NoError(t, err)
		assert.Len(t, courses, 2)
	})

	t.Run("institute sees everything including other institutes' courses", func(t *testing.T) {
		courses, err := s.ListCourses(ctx, otherInstP)
		require.NoError(t, err)
		assert.Len(t, courses, 2)
	})

	t.Run("faculty sees only assigned courses", func(t *testing.T) {
		courses, err := s.ListCourses(ctx, facultyP)
		require.NoError(t, err)
		require.Len(t, courses, 1)
		assert.Equal(t, draft.ID, courses[0].ID)
	})

	t.Run("student sees only published courses", func(t *testing.T) {
		courses, err := s.ListCourses(ctx, studentP)
		require.NoError(t, err)
		require.Len(t, courses, 1)
		assert.Equal(t, published.ID, courses[0].ID)
	})

	t.Run("single get applies the same filter", func(t *testing.T) {
		_, err := s.GetCourse(ctx, studentP, draft.ID)
		assert.ErrorIs(t, err, ErrNotFound)

		_, err = s.GetCourse(ctx, facultyP, published.ID)
		assert.ErrorIs(t, err, ErrNotFound)

		got, err := s.GetCourse(ctx, studentP, published.ID)
		require.NoError(t, err)
		assert.Equal(t, published.ID, got.ID)
	})
}

func TestUpdateCourseOwnership(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t)
	category := mustCreateCategory(t, s, "Mathematics")
	course := mustCreateCourse(t, s, instituteP, "Linear Algebra", category.ID, false)

	newTitle := "Advanced Linear Algebra"
	publish := true

	t.Run("owning institute updates", func(t *testing.T) {
		updated, err := s.UpdateCourse(ctx, instituteP, course.ID, &UpdateCourseRequest{Title: &newTitle})
		require.NoError(t, err)
		assert.Equal(t, newTitle, updated.Title)
	})

	t.Run("other institute forbidden", func(t *testing.T) {
		_, err := s.UpdateCourse(ctx, otherInstP, course.ID, &UpdateCourseRequest{IsPublished: &publish})
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("admin updates any course", func(t *testing.T) {
		updated, err := s.UpdateCourse(ctx, adminP, course.ID, &UpdateCourseRequest{IsPublished: &publish})
		require.NoError(t, err)
		assert.True(t, updated.IsPublished)
	})

	t.Run("owner is never changed by updates", func(t *testing.T) {
		got, err := s.GetCourse(ctx, adminP, course.ID)
		require.NoError(t, err)
		assert.Equal(t, instituteP.SubjectID, got.OwnerInstituteID)
	})

	t.Run("partial update leaves absent fields alone", func(t *testing.T) {
		desc := "matrices everywhere"
		updated, err := s.UpdateCourse(ctx, adminP, course.ID, &UpdateCourseRequest{Description: &desc})
		require.NoError(t, err)
		assert.Equal(t, newTitle, updated.Title)
		assert.Equal(t, desc, updated.Description)
		assert.True(t, updated.IsPublished)
	})

	t.Run("unknown course", func(t *testing.T) {
		_, err := s.UpdateCourse(ctx, adminP, "missing", &UpdateCourseRequest{Title: &newTitle})
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestAssignFaculty(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t)
	category := mustCreateCategory(t, s, "Mathematics")
	course := mustCreateCourse(t, s, instituteP, "Linear Algebra", category.ID, true)

	t.Run("assignment unions and is idempotent", func(t *testing.T) {
		first, err := s.AssignFaculty(ctx, course.ID, &AssignFacultyRequest{FacultyIDs: []string{"f1", "f2"}})
		require.NoError(t, err)
		assert.Equal(t, []string{"f1", "f2"}, first.FacultyIDs)

		second, err := s.AssignFaculty(ctx, course.ID, &AssignFacultyRequest{FacultyIDs: []string{"f2", "f3"}})
		require.NoError(t, err)
		assert.Equal(t, []string{"f1", "f2", "f3"}, second.FacultyIDs)
	})

	t.Run("empty list fails validation", func(t *testing.T) {
		_, err := s.AssignFaculty(ctx, course.ID, &AssignFacultyRequest{})
		var verr *validation.RequestValidationError
		assert.ErrorAs(t, err, &verr)
	})

	t.Run("unknown course", func(t *testing.T) {
		_, err := s.AssignFaculty(ctx, "missing", &AssignFacultyRequest{FacultyIDs: []string{"f1"}})
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestEnroll(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t)
	category := mustCreateCategory(t, s, "Mathematics")
	published := mustCreateCourse(t, s, instituteP, "Published Course", category.ID, true)
	draft := mustCreateCourse(t, s, instituteP, "Draft Course", category.ID, false)

	t.Run("student enrolls in a published course", func(t *testing.T) {
		updated, err := s.Enroll(ctx, studentP, published.ID)
		require.NoError(t, err)
		assert.Equal(t, []string{studentP.SubjectID}, updated.EnrolledStudentIDs)
	})

	t.Run("repeat enrollment is idempotent", func(t *testing.T) {
		updated, err := s.Enroll(ctx, studentP, published.ID)
		require.NoError(t, err)
		assert.Equal(t, []string{studentP.SubjectID}, updated.EnrolledStudentIDs)
	})

	t.Run("unpublished course rejects enrollment", func(t *testing.T) {
		_, err := s.Enroll(ctx, studentP, draft.ID)
		assert.ErrorIs(t, err, ErrNotPublished)
	})

	t.Run("unknown course", func(t *testing.T) {
		_, err := s.Enroll(ctx, studentP, "missing")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("unpublishing closes the gate for later enrollments", func(t *testing.T) {
		unpublish := false
		_, err := s.UpdateCourse(ctx, instituteP, published.ID, &UpdateCourseRequest{IsPublished: &unpublish})
		require.NoError(t, err)

		other := &models.Principal{SubjectID: "stu-2", Role: models.RoleStudent}
		_, err = s.Enroll(ctx, other, published.ID)
		assert.ErrorIs(t, err, ErrNotPublished)

		// Existing enrollments survive the unpublish.
		got, err := s.GetCourse(ctx, adminP, published.ID)
		require.NoError(t, err)
		assert.Equal(t, []string{studentP.SubjectID}, got.EnrolledStudentIDs)
	})
}

func TestDeleteCourse(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t)
	category := mustCreateCategory(t, s, "Mathematics")
	course := mustCreateCourse(t, s, adminP, "Doomed Course", category.ID, true)

	require.NoError(t, s.DeleteCourse(ctx, course.ID))
	_, err := s.GetCourse(ctx, adminP, course.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, s.DeleteCourse(ctx, "missing"), ErrNotFound)
}
