// Campus Catalog - Multi-tenant Course Catalog and Access Control
// Copyright 2026 OpenCampus Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/opencampus/catalog

package authz

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// authzDecisionsTotal counts route authorization decisions by role
	// and outcome.
	authzDecisionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "authz_decisions_total",
			Help: "Total number of authorization decisions",
		},
		[]string{"role", "decision"},
	)

	// authzDeniedTotal tracks denials separately for alerting.
	authzDeniedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "authz_denied_total",
			Help: "Total number of authorization denials",
		},
		[]string{"role"},
	)
)

// recordDecision updates decision counters.
func recordDecision(role string, allowed bool) {
	decision := "allow"
	if !allowed {
		decision = "deny"
		authzDeniedTotal.WithLabelValues(role).Inc()
	}
	authzDecisionsTotal.WithLabelValues(role, decision).Inc()
}
