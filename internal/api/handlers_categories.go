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

	"github.com/opencampus/catalog/internal/catalog"
	"github.com/opencampus/catalog/internal/validation"
)

// CategoryHandlers serves category CRUD endpoints.
type CategoryHandlers struct {
	catalog *catalog.Service
}

// NewCategoryHandlers creates handlers backed by the catalog service.
func NewCategoryHandlers(svc *catalog.Service) *CategoryHandlers {
	return &CategoryHandlers{catalog: svc}
}

// List handles GET /api/categories. Public.
func (h *CategoryHandlers) List(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	categories, err := h.catalog.ListCategories(r.Context())
	if err != nil {
		rw.StoreError(err)
		return
	}

	rw.Success(categories)
}

// Get handles GET /api/categories/{id}. Public.
func (h *CategoryHandlers) Get(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	category, err := h.catalog.GetCategory(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeCatalogError(rw, err)
		return
	}

	rw.Success(category)
}

// Create handles POST /api/categories.
func (h *CategoryHandlers) Create(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var req catalog.CategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		rw.BadRequest("Invalid request body")
		return
	}

	category, err := h.catalog.CreateCategory(r.Context(), &req)
	if err != nil {
		h.writeCatalogError(rw, err)
		return
	}

	rw.Created(category)
}

// Update handles PUT /api/categories/{id}.
func (h *CategoryHandlers) Update(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var req catalog.CategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		rw.BadRequest("Invalid request body")
		return
	}

	category, err := h.catalog.UpdateCategory(r.Context(), chi.URLParam(r, "id"), &req)
	if err != nil {
		h.writeCatalogError(rw, err)
		return
	}

	rw.Success(category)
}

// Delete handles DELETE /api/categories/{id}.
func (h *CategoryHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	if err := h.catalog.DeleteCategory(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeCatalogError(rw, err)
		return
	}

	rw.Success(map[string]string{"status": "deleted"})
}

func (h *CategoryHandlers) writeCatalogError(rw *ResponseWriter, err error) {
	var verr *validation.RequestValidationError
	switch {
	case errors.As(err, &verr):
		rw.ValidationError("Validation failed", verr.FieldErrors())
	case errors.Is(err, catalog.ErrNotFound):
		rw.NotFound("Category not found")
	case errors.Is(err, catalog.ErrDuplicateName):
		rw.Conflict("A category with this name already exists")
	default:
		rw.StoreError(err)
	}
}
