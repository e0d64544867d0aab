// Campus Catalog - Multi-tenant Course Catalog and Access Control
// Copyright 2026 OpenCampus Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/opencampus/catalog

package api

import (
	"net/http"
	"time"

	"github.com/opencampus/catalog/internal/store"
)

// HealthHandlers serves liveness and readiness probes.
type HealthHandlers struct {
	store     *store.Store
	startTime time.Time
	version   string
}

// NewHealthHandlers creates health handlers over the given store.
func NewHealthHandlers(st *store.Store, version string) *HealthHandlers {
	return &HealthHandlers{
		store:     st,
		startTime: time.Now(),
		version:   version,
	}
}

// Health handles GET /health.
func (h *HealthHandlers) Health(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	status := "healthy"
	storeStatus := "up"
	if h.store == nil || h.store.DB() == nil || h.store.DB().IsClosed() {
		status = "unhealthy"
		storeStatus = "down"
	}

	payload := map[string]interface{}{
		"status":         status,
		"version":        h.version,
		"uptime_seconds": int64(time.Since(h.startTime).Seconds()),
		"checks": map[string]string{
			"store": storeStatus,
		},
	}

	if status != "healthy" {
		rw.writeJSON(http.StatusServiceUnavailable, APIResponse{
			Success: false,
			Data:    payload,
			Meta:    rw.meta(),
		})
		return
	}

	rw.Success(payload)
}
