// Campus Catalog - Multi-tenant Course Catalog and Access Control
// Copyright 2026 OpenCampus Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/opencampus/catalog

// Package main is the entry point for the catalog server.
//
// The server initializes components in the following order:
//
//  1. Configuration: Koanf v2 layered loading (defaults, config.yaml, env)
//  2. Store: BadgerDB key-value store for accounts, categories and courses
//  3. Tokens: HMAC-signed JWT credentials with a seven day lifetime
//  4. Authorization: Casbin enforcer over the embedded role policy table
//  5. Services: account directory and course catalog
//  6. HTTP server: chi router under a Suture supervisor tree
//
// Graceful shutdown on SIGINT and SIGTERM drains in-flight requests before
// closing the store.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/opencampus/catalog/internal/api"
	"github.com/opencampus/catalog/internal/auth"
	"github.com/opencampus/catalog/internal/authz"
	"github.com/opencampus/catalog/internal/catalog"
	"github.com/opencampus/catalog/internal/config"
	"github.com/opencampus/catalog/internal/directory"
	"github.com/opencampus/catalog/internal/logging"
	"github.com/opencampus/catalog/internal/store"
	"github.com/opencampus/catalog/internal/supervisor"
	"github.com/opencampus/catalog/internal/supervisor/services"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("version", version).
		Str("environment", cfg.Server.Environment).
		Str("store_path", cfg.Store.Path).
		Msg("Starting catalog server")

	st, err := store.Open(cfg.Store.Path)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to open store")
	}
	defer func() {
		if err := st.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing store")
		}
	}()

	tokens, err := auth.NewTokenManager(&cfg.Security)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create token manager")
	}

	enforcer, err := authz.NewEnforcer(authz.DefaultEnforcerConfig())
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create authorization enforcer")
	}
	defer enforcer.Close()

	auditLogger := authz.NewAuditLogger(&authz.AuditLoggerConfig{
		Enabled:    true,
		LogAllowed: !cfg.IsProduction(),
		BufferSize: 256,
	})
	defer auditLogger.Close()

	ownership := authz.NewOwnershipPolicy()

	dir := directory.New(st, tokens, cfg.Security.BcryptCost)
	svc := catalog.NewService(st, ownership)

	authMW := auth.NewMiddleware(tokens)
	authzMW := authz.NewMiddleware(enforcer, auditLogger)

	router := api.NewRouter(cfg, authMW, authzMW, dir, svc, api.NewHealthHandlers(st, version))

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router.Setup(),
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
		IdleTimeout:  2 * cfg.Server.Timeout,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	tree.AddAPIService(services.NewHTTPServerService("catalog-http", server, 10*time.Second))
	if cfg.Store.Path != "" {
		// Value log GC applies only to on-disk stores.
		tree.AddDataService(services.NewStoreGCService(st.DB(), 10*time.Minute))
	}

	errCh := tree.ServeBackground(ctx)

	logging.Info().Str("addr", server.Addr).Msg("Catalog server listening")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logging.Info().Str("signal", sig.String()).Msg("Shutdown signal received")
		cancel()
		if err := <-errCh; err != nil && err != context.Canceled {
			logging.Error().Err(err).Msg("Supervisor tree exited with error")
		}
	case err := <-errCh:
		if err != nil && err != context.Canceled {
			logging.Fatal().Err(err).Msg("Supervisor tree failed")
		}
	}

	logging.Info().Msg("Catalog server stopped")
}
