// Campus Catalog - Multi-tenant Course Catalog and Access Control
// Copyright 2026 OpenCampus Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/opencampus/catalog

package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCourse(t *testing.T) {
	course := NewCourse("Linear Algebra", "Vectors and matrices", "cat-1", "inst-1", true)

	require.NotEmpty(t, course.ID)
	assert.Equal(t, "Linear Algebra", course.Title)
	assert.Equal(t, "cat-1", course.CategoryID)
	assert.Equal(t, "inst-1", course.OwnerInstituteID)
	assert.True(t, course.IsPublished)
	assert.NotNil(t, course.FacultyIDs)
	assert.NotNil(t, course.EnrolledStudentIDs)
	assert.Empty(t, course.FacultyIDs)
	assert.Empty(t, course.EnrolledStudentIDs)
}

func TestAssignFaculty(t *testing.T) {
	tests := []struct {
		name     string
		existing []string
		assign   [][]string
		want     []string
	}{
		{
			name:   "assign to empty course",
			assign: [][]string{{"f1", "f2"}},
			want:   []string{"f1", "f2"},
		},
		{
			name:     "repeated assignment is idempotent",
			existing: []string{"f1"},
			assign:   [][]string{{"f1"}, {"f1", "f2"}},
			want:     []string{"f1", "f2"},
		},
		{
			name:     "duplicates within one request collapse",
			existing: nil,
			assign:   [][]string{{"f1", "f1", "f2", "f1"}},
			want:     []string{"f1", "f2"},
		},
		{
			name:     "order of first appearance is preserved",
			existing: []string{"f3"},
			assign:   [][]string{{"f2", "f3", "f1"}},
			want:     []string{"f3", "f2", "f1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			course := NewCourse("Course", "", "cat-1", "inst-1", true)
			course.FacultyIDs = append(course.FacultyIDs, tt.existing...)

			for _, ids := range tt.assign {
				course.AssignFaculty(ids...)
			}

			assert.Equal(t, tt.want, course.FacultyIDs)
		})
	}
}

func TestEnrollStudent(t *testing.T) {
	course := NewCourse("Course", "", "cat-1", "inst-1", true)

	course.EnrollStudent("s1")
	course.EnrollStudent("s2")
	course.EnrollStudent("s1")

	assert.Equal(t, []string{"s1", "s2"}, course.EnrolledStudentIDs)
}

func TestHasFaculty(t *testing.T) {
	course := NewCourse("Course", "", "cat-1", "inst-1", true)
	course.AssignFaculty("f1", "f2")

	assert.True(t, course.HasFaculty("f1"))
	assert.True(t, course.HasFaculty("f2"))
	assert.False(t, course.HasFaculty("f3"))
	assert.False(t, course.HasFaculty(""))
}

func TestParseRole(t *testing.T) {
	tests := []struct {
		input   string
		want    Role
		wantErr bool
	}{
		{"admin", RoleAdmin, false},
		{"institute", RoleInstitute, false},
		{"faculty", RoleFaculty, false},
		{"student", RoleStudent, false},
		{"Admin", "", true},
		{"superuser", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseRole(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAccountSanitized(t *testing.T) {
	account := NewAccount("Ada", "ada@example.edu", "bcrypt-hash", RoleFaculty)

	sanitized := account.Sanitized()

	assert.Equal(t, account.ID, sanitized.ID)
	assert.Equal(t, account.Email, sanitized.Email)
	assert.Empty(t, sanitized.SecretHash)
	// The original must keep its hash for credential checks.
	assert.Equal(t, "bcrypt-hash", account.SecretHash)
}
