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

// CategoryRequest is the create/update payload for a category.
type CategoryRequest struct {
	Name        string `json:"name" validate:"required,min=2"`
	Description string `json:"description" validate:"omitempty,max=500"`
}

// CreateCategory creates a category. Admin-only; the route gate has
// already enforced the role.
func (s *Service) CreateCategory(ctx context.Context, req *CategoryRequest) (*models.Category, error) {
	req.Name = strings.TrimSpace(req.Name)
	if verr := validation.ValidateStruct(req); verr != nil {
		return nil, verr
	}

	category := models.NewCategory(req.Name, req.Description)
	if err := s.store.CreateCategory(ctx, category); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, ErrDuplicateName
		}
		return nil, fmt.Errorf("create category: %w", err)
	}

	logging.Ctx(ctx).Info().
		Str("category_id", category.ID).
		Str("name", category.Name).
		Msg("category created")

	return category, nil
}

// GetCategory returns a single category. Reads are public.
func (s *Service) GetCategory(ctx context.Context, id string) (*models.Category, error) {
	category, err := s.store.GetCategory(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get category: %w", err)
	}
	return category, nil
}

// ListCategories returns every category. Reads are public.
func (s *Service) ListCategories(ctx context.Context) ([]*models.Category, error) {
	return s.store.ListCategories(ctx)
}

// UpdateCategory replaces a category's name and description.
func (s *Service) UpdateCategory(ctx context.Context, id string, req *CategoryRequest) (*models.Category, error) {
	req.Name = strings.TrimSpace(req.Name)
	if verr := validation.ValidateStruct(req); verr != nil {
		return nil, verr
	}

	category, err := s.store.GetCategory(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get category: %w", err)
	}

	category.Name = req.Name
	category.Description = req.Description
	category.UpdatedAt = time.Now().UTC()

	if err := s.store.UpdateCategory(ctx, category); err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			return nil, ErrNotFound
		case errors.Is(err, store.ErrDuplicate):
			return nil, ErrDuplicateName
		default:
			return nil, fmt.Errorf("update category: %w", err)
		}
	}

	return category, nil
}

// DeleteCategory removes a category. Courses keep their category id;
// dangling references only affect new course creation, which re-checks.
func (s *Service) DeleteCategory(ctx context.Context, id string) error {
	if err := s.store.DeleteCategory(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("delete category: %w", err)
	}

	logging.Ctx(ctx).Info().Str("category_id", id).Msg("category deleted")
	return nil
}
