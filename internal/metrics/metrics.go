// Campus Catalog - Multi-tenant Course Catalog and Access Control
// Copyright 2026 OpenCampus Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/opencampus/catalog

// Package metrics provides Prometheus instrumentation for the catalog
// services. Metrics are exposed at /metrics in Prometheus text format.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP Metrics

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Number of HTTP requests currently being served",
		},
	)

	// Account Metrics

	RegistrationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "account_registrations_total",
			Help: "Total number of account registrations",
		},
		[]string{"role"},
	)

	LoginsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "account_logins_total",
			Help: "Total number of login attempts",
		},
		[]string{"outcome"},
	)

	// Enrollment Metrics

	EnrollmentsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "course_enrollments_total",
			Help: "Total number of successful course enrollments",
		},
	)

	// Gateway Circuit Breaker Metrics

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=open, 2=half-open)",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from", "to"},
	)
)

// RecordAPIRequest records one completed HTTP request.
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest adjusts the in-flight request gauge.
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordRegistration counts a successful registration by role.
func RecordRegistration(role string) {
	RegistrationsTotal.WithLabelValues(role).Inc()
}

// RecordLogin counts a login attempt by outcome ("success" or "failure").
func RecordLogin(outcome string) {
	LoginsTotal.WithLabelValues(outcome).Inc()
}

// RecordEnrollment counts a successful enrollment.
func RecordEnrollment() {
	EnrollmentsTotal.Inc()
}

// SetCircuitBreakerState records a breaker's current state.
func SetCircuitBreakerState(name string, state float64) {
	CircuitBreakerState.WithLabelValues(name).Set(state)
}

// RecordCircuitBreakerTransition counts a breaker state change.
func RecordCircuitBreakerTransition(name, from, to string) {
	CircuitBreakerTransitions.WithLabelValues(name, from, to).Inc()
}
