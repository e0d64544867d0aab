// Campus Catalog - Multi-tenant Course Catalog and Access Control
// Copyright 2026 OpenCampus Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/opencampus/catalog

// Package main is the entry point for the catalog API gateway.
//
// The gateway fronts the catalog service, routing auth and catalog traffic
// to the configured upstreams with per-upstream circuit breakers.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/opencampus/catalog/internal/config"
	"github.com/opencampus/catalog/internal/gateway"
	"github.com/opencampus/catalog/internal/logging"
	"github.com/opencampus/catalog/internal/supervisor"
	"github.com/opencampus/catalog/internal/supervisor/services"
)

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
		Str("auth_upstream", cfg.Gateway.AuthServiceURL).
		Str("catalog_upstream", cfg.Gateway.CatalogServiceURL).
		Msg("Starting catalog gateway")

	gw, err := gateway.New(&cfg.Gateway)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create gateway")
	}

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Gateway.Port),
		Handler:      gw.Handler(),
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

	tree.AddAPIService(services.NewHTTPServerService("gateway-http", server, 10*time.Second))

	errCh := tree.ServeBackground(ctx)

	logging.Info().Str("addr", server.Addr).Msg("Gateway listening")

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

	logging.Info().Msg("Gateway stopped")
}
