// Campus Catalog - Multi-tenant Course Catalog and Access Control
// Copyright 2026 OpenCampus Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/opencampus/catalog

// Package gateway implements a small reverse proxy in front of the catalog
// service. Each upstream sits behind its own circuit breaker so a failing
// backend sheds load quickly instead of piling up connections.
package gateway

import (
	"fmt"
	"net/http"
	"net/http/httputil"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/opencampus/catalog/internal/config"
	"github.com/opencampus/catalog/internal/logging"
	"github.com/opencampus/catalog/internal/metrics"
	"github.com/opencampus/catalog/internal/middleware"
)

// Upstream is a proxied backend with its circuit breaker.
type Upstream struct {
	name    string
	proxy   *httputil.ReverseProxy
	breaker *gobreaker.CircuitBreaker[interface{}]
}

// Gateway routes incoming requests to upstream services.
type Gateway struct {
	auth    *Upstream
	catalog *Upstream
}

// New creates a gateway from the configured upstream URLs.
func New(cfg *config.GatewayConfig) (*Gateway, error) {
	authUp, err := newUpstream("auth", cfg.AuthServiceURL)
	if err != nil {
		return nil, fmt.Errorf("auth upstream: %w", err)
	}

	catalogUp, err := newUpstream("catalog", cfg.CatalogServiceURL)
	if err != nil {
		return nil, fmt.Errorf("catalog upstream: %w", err)
	}

	return &Gateway{auth: authUp, catalog: catalogUp}, nil
}

func newUpstream(name, rawURL string) (*Upstream, error) {
	target, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse %s URL: %w", name, err)
	}

	proxy := httputil.NewSingleHostReverseProxy(target)
	proxy.ErrorHandler = func(w http.ResponseWriter, r *http.Request, err error) {
		logging.Ctx(r.Context()).Error().
			Err(err).
			Str("upstream", name).
			Msg("Upstream request failed")
		writeGatewayError(w, r, http.StatusBadGateway, "BAD_GATEWAY", "Upstream service error")
	}

	settings := gobreaker.Settings{
		Name:        name,
		MaxRequests: 3,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 10 && failureRatio >= 0.6
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("Circuit breaker state changed")
			metrics.SetCircuitBreakerState(name, float64(to))
			metrics.RecordCircuitBreakerTransition(name, from.String(), to.String())
		},
	}

	return &Upstream{
		name:    name,
		proxy:   proxy,
		breaker: gobreaker.NewCircuitBreaker[interface{}](settings),
	}, nil
}

// ServeHTTP proxies the request through the upstream's circuit breaker. A 5xx
// from the backend counts as a breaker failure; client errors do not.
func (u *Upstream) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	_, err := u.breaker.Execute(func() (interface{}, error) {
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		u.proxy.ServeHTTP(recorder, r)
		if recorder.status >= http.StatusInternalServerError {
			return nil, fmt.Errorf("upstream %s returned %d", u.name, recorder.status)
		}
		return nil, nil
	})

	if err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests {
		writeGatewayError(w, r, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "Service temporarily unavailable")
	}
}

// Handler builds the gateway route tree.
func (g *Gateway) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.Prometheus)

	r.Get("/health", g.health)

	r.Handle("/api/auth/*", g.auth)
	r.Handle("/api/categories", g.catalog)
	r.Handle("/api/categories/*", g.catalog)
	r.Handle("/api/courses", g.catalog)
	r.Handle("/api/courses/*", g.catalog)

	return r
}

func (g *Gateway) health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"status": "healthy",
		"breakers": map[string]string{
			"auth":    g.auth.breaker.State().String(),
			"catalog": g.catalog.breaker.State().String(),
		},
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
	wrote  bool
}

func (s *statusRecorder) WriteHeader(code int) {
	if !s.wrote {
		s.status = code
		s.wrote = true
	}
	s.ResponseWriter.WriteHeader(code)
}

func (s *statusRecorder) Write(b []byte) (int, error) {
	if !s.wrote {
		s.wrote = true
	}
	return s.ResponseWriter.Write(b)
}

// writeGatewayError writes an error envelope matching the API services'
// response shape. Kept local to avoid importing the api package here.
func writeGatewayError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	requestID := logging.RequestIDFromContext(r.Context())

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)

	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"success": false,
		"error": map[string]interface{}{
			"code":       code,
			"message":    message,
			"request_id": requestID,
		},
		"meta": map[string]interface{}{
			"request_id": requestID,
			"timestamp":  time.Now(),
		},
	})
}
