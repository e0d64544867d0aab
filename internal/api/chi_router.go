// Campus Catalog - Multi-tenant Course Catalog and Access Control
// Copyright 2026 OpenCampus Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/opencampus/catalog

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/opencampus/catalog/internal/auth"
	"github.com/opencampus/catalog/internal/authz"
	"github.com/opencampus/catalog/internal/catalog"
	"github.com/opencampus/catalog/internal/config"
	"github.com/opencampus/catalog/internal/directory"
	"github.com/opencampus/catalog/internal/middleware"
)

// Router wires handlers and middleware into the HTTP route tree.
type Router struct {
	cfg     *config.Config
	authMW  *auth.Middleware
	authzMW *authz.Middleware

	authHandlers     *AuthHandlers
	categoryHandlers *CategoryHandlers
	courseHandlers   *CourseHandlers
	healthHandlers   *HealthHandlers
}

// NewRouter creates a router over the given services.
func NewRouter(
	cfg *config.Config,
	authMW *auth.Middleware,
	authzMW *authz.Middleware,
	dir *directory.Directory,
	svc *catalog.Service,
	health *HealthHandlers,
) *Router {
	return &Router{
		cfg:              cfg,
		authMW:           authMW,
		authzMW:          authzMW,
		authHandlers:     NewAuthHandlers(dir),
		categoryHandlers: NewCategoryHandlers(svc),
		courseHandlers:   NewCourseHandlers(svc),
		healthHandlers:   health,
	}
}

// Setup configures all HTTP routes.
func (router *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global middleware, applied to all routes in order.
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.Prometheus)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   router.cfg.Security.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Operational endpoints.
	r.Get("/health", router.healthHandlers.Health)
	r.Handle("/metrics", promhttp.Handler())

	// Account endpoints. Register and login are public; whoami requires a
	// valid token but no role check.
	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/register", router.authHandlers.Register)
		r.Post("/login", router.authHandlers.Login)
		r.With(router.authMW.Authenticate).Get("/whoami", router.authHandlers.WhoAmI)
	})

	// Category reads are public, including for unauthenticated callers.
	// Mutations authenticate first, then pass the role policy gate.
	r.Route("/api/categories", func(r chi.Router) {
		r.Get("/", router.categoryHandlers.List)
		r.Get("/{id}", router.categoryHandlers.Get)

		r.Group(func(r chi.Router) {
			r.Use(router.authMW.Authenticate)
			r.Use(router.authzMW.Authorize)
			r.Post("/", router.categoryHandlers.Create)
			r.Put("/{id}", router.categoryHandlers.Update)
			r.Delete("/{id}", router.categoryHandlers.Delete)
		})
	})

	// All course endpoints require authentication; the policy table decides
	// per method and path which roles may proceed.
	r.Route("/api/courses", func(r chi.Router) {
		r.Use(router.authMW.Authenticate)
		r.Use(router.authzMW.Authorize)

		r.Get("/", router.courseHandlers.List)
		r.Post("/", router.courseHandlers.Create)
		r.Get("/{id}", router.courseHandlers.Get)
		r.Put("/{id}", router.courseHandlers.Update)
		r.Delete("/{id}", router.courseHandlers.Delete)
		r.Post("/{id}/assign-faculty", router.courseHandlers.AssignFaculty)
		r.Post("/{id}/enroll", router.courseHandlers.Enroll)
	})

	return r
}
