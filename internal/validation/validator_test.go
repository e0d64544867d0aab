// Campus Catalog - Multi-tenant Course Catalog and Access Control
// Copyright 2026 OpenCampus Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/opencampus/catalog

package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signupForm struct {
	Name     string `json:"name" validate:"required,min=2"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role" validate:"required,role"`
}

func TestValidateStructPasses(t *testing.T) {
	form := signupForm{
		Name:     "Ada Lovelace",
		Email:    "ada@example.edu",
		Password: "secret123",
		Role:     "faculty",
	}
	assert.Nil(t, ValidateStruct(&form))
}

func TestValidateStructCollectsAllFailures(t *testing.T) {
	// Every invalid field must be reported, not just the first one.
	form := signupForm{
		Name:     "",
		Email:    "not-an-email",
		Password: "abc",
		Role:     "superuser",
	}

	verr := ValidateStruct(&form)
	require.NotNil(t, verr)

	fields := make(map[string]string, len(verr.FieldErrors()))
	for _, fe := range verr.FieldErrors() {
		fields[fe.Field] = fe.Message
	}

	require.Len(t, fields, 4)
	assert.Equal(t, "name is required", fields["name"])
	assert.Equal(t, "email must be a valid email address", fields["email"])
	assert.Equal(t, "password must be at least 6 characters", fields["password"])
	assert.Equal(t, "role must be one of: admin, institute, faculty, student", fields["role"])
}

func TestFieldNamesUseJSONTags(t *testing.T) {
	form := signupForm{Name: "Ada", Email: "ada@example.edu", Password: "secret123"}

	verr := ValidateStruct(&form)
	require.NotNil(t, verr)
	require.Len(t, verr.FieldErrors(), 1)
	// The wire name, not the Go field name.
	assert.Equal(t, "role", verr.FieldErrors()[0].Field)
}

func TestErrorMessageJoinsFields(t *testing.T) {
	form := signupForm{Email: "ada@example.edu", Password: "secret123", Role: "admin"}

	verr := ValidateStruct(&form)
	require.NotNil(t, verr)
	assert.Equal(t, "name is required", verr.Error())
}

func TestRoleValidator(t *testing.T) {
	type roleOnly struct {
		Role string `json:"role" validate:"required,role"`
	}

	for _, valid := range []string{"admin", "institute", "faculty", "student"} {
		assert.Nil(t, ValidateStruct(&roleOnly{Role: valid}), "role %q should validate", valid)
	}
	for _, invalid := range []string{"Admin", "STUDENT", "teacher", "root"} {
		assert.NotNil(t, ValidateStruct(&roleOnly{Role: invalid}), "role %q should fail", invalid)
	}
}
