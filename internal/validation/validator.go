// Campus Catalog - Multi-tenant Course Catalog and Access Control
// Copyright 2026 OpenCampus Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/opencampus/catalog

// Package validation provides struct validation using go-playground/validator v10.
//
// It exposes a thread-safe singleton validator with a custom `role` validator
// for account roles, and translates failures into collected field errors so
// handlers can report every invalid field in one response rather than only
// the first.
//
//	type RegisterRequest struct {
//	    Name  string `json:"name" validate:"required"`
//	    Email string `json:"email" validate:"required,email"`
//	}
//
//	if verr := validation.ValidateStruct(&req); verr != nil {
//	    // verr.FieldErrors() -> [{field: "email", message: "email must be a valid email address"}]
//	}
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/opencampus/catalog/internal/models"
)

// singleton validator instance
var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// FieldError is a single field validation failure, shaped for inclusion in
// API error details.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// RequestValidationError collects every field failure from one request.
type RequestValidationError struct {
	errors []FieldError
}

// NewRequestValidationError builds a validation error from explicit field
// failures, for domain checks that run after struct-tag validation.
func NewRequestValidationError(fields ...FieldError) *RequestValidationError {
	return &RequestValidationError{errors: fields}
}

// FieldErrors returns the collected field errors in struct declaration order.
func (ve *RequestValidationError) FieldErrors() []FieldError {
	return ve.errors
}

// Error implements the error interface with a combined message.
func (ve *RequestValidationError) Error() string {
	if len(ve.errors) == 0 {
		return "validation failed"
	}
	messages := make([]string, len(ve.errors))
	for i, fe := range ve.errors {
		messages[i] = fe.Message
	}
	return strings.Join(messages, "; ")
}

// GetValidator returns the singleton validator instance.
// Field names in error messages use the struct's json tag so they match the
// wire format clients actually send.
func GetValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())

		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return fld.Name
			}
			return name
		})

		// role validates against the account role set.
		_ = validate.RegisterValidation("role", func(fl validator.FieldLevel) bool {
			return models.IsValidRole(fl.Field().String())
		})
	})

	return validate
}

// ValidateStruct validates a struct using the singleton validator.
// Returns nil if validation passes, or a *RequestValidationError carrying
// one FieldError per failed field.
func ValidateStruct(s interface{}) *RequestValidationError {
	err := GetValidator().Struct(s)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return &RequestValidationError{
			errors: []FieldError{{Field: "unknown", Message: err.Error()}},
		}
	}

	fieldErrors := make([]FieldError, len(validationErrs))
	for i, fieldErr := range validationErrs {
		fieldErrors[i] = FieldError{
			Field:   fieldErr.Field(),
			Message: translateError(fieldErr),
		}
	}

	return &RequestValidationError{errors: fieldErrors}
}

// errorMessageTemplates maps validation tags to message templates.
var errorMessageTemplates = map[string]string{
	"required": "%s is required",
	"email":    "%s must be a valid email address",
	"uuid":     "%s must be a valid id",
}

// errorMessageWithParam maps validation tags to templates that include the
// tag parameter.
var errorMessageWithParam = map[string]string{
	"oneof": "%s must be one of: %s",
	"gte":   "%s must be greater than or equal to %s",
	"lte":   "%s must be less than or equal to %s",
}

// translateError converts a validator.FieldError to a human-readable message.
func translateError(fe validator.FieldError) string {
	field := fe.Field()
	tag := fe.Tag()
	param := fe.Param()

	if tag == "role" {
		roles := make([]string, len(models.ValidRoles))
		for i, r := range models.ValidRoles {
			roles[i] = string(r)
		}
		return fmt.Sprintf("%s must be one of: %s", field, strings.Join(roles, ", "))
	}

	if template, ok := errorMessageTemplates[tag]; ok {
		return fmt.Sprintf(template, field)
	}
	if template, ok := errorMessageWithParam[tag]; ok {
		return fmt.Sprintf(template, field, param)
	}

	return translateMinMax(fe, field, tag, param)
}

// translateMinMax handles min/max with type-specific messages.
func translateMinMax(fe validator.FieldError, field, tag, param string) string {
	isString := fe.Kind() == reflect.String

	switch tag {
	case "min":
		if isString {
			return fmt.Sprintf("%s must be at least %s characters", field, param)
		}
		return fmt.Sprintf("%s must be at least %s", field, param)
	case "max":
		if isString {
			return fmt.Sprintf("%s must be at most %s characters", field, param)
		}
		return fmt.Sprintf("%s must be at most %s", field, param)
	default:
		return fmt.Sprintf("%s failed %s validation", field, tag)
	}
}
