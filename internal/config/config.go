// Campus Catalog - Multi-tenant Course Catalog and Access Control
// Copyright 2026 OpenCampus Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/opencampus/catalog

// Package config loads and validates service configuration.
//
// Configuration is layered with Koanf v2: built-in defaults, then an
// optional YAML file, then environment variables. Environment variables win.
package config

import (
	"time"
)

// Config is the root configuration for the catalog server and gateway.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Security SecurityConfig `koanf:"security"`
	Store    StoreConfig    `koanf:"store"`
	Logging  LoggingConfig  `koanf:"logging"`
	Gateway  GatewayConfig  `koanf:"gateway"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the listen address. Default 0.0.0.0.
	Host string `koanf:"host"`

	// Port is the listen port. Default 8080.
	Port int `koanf:"port"`

	// Timeout bounds request read/write. Default 30s.
	Timeout time.Duration `koanf:"timeout"`

	// Environment is "development" or "production". Production enforces
	// a strong JWT secret.
	Environment string `koanf:"environment"`
}

// SecurityConfig holds authentication and authorization settings.
type SecurityConfig struct {
	// JWTSecret signs credential tokens (HMAC-SHA256). Required in
	// production; a weak development default is used otherwise.
	JWTSecret string `koanf:"jwt_secret"`

	// TokenTTL is the credential lifetime. Default 168h (7 days).
	TokenTTL time.Duration `koanf:"token_ttl"`

	// BcryptCost for password hashing. Default 12.
	BcryptCost int `koanf:"bcrypt_cost"`

	// CORSOrigins lists allowed CORS origins. Default ["*"].
	CORSOrigins []string `koanf:"cors_origins"`
}

// StoreConfig holds the embedded document store settings.
type StoreConfig struct {
	// Path is the Badger data directory. Empty means in-memory.
	Path string `koanf:"path"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// GatewayConfig holds the API gateway's upstream addresses.
type GatewayConfig struct {
	// Port is the gateway listen port. Default 8000.
	Port int `koanf:"port"`

	// AuthServiceURL is the upstream for /api/auth routes.
	AuthServiceURL string `koanf:"auth_service_url"`

	// CatalogServiceURL is the upstream for /api/categories and
	// /api/courses routes.
	CatalogServiceURL string `koanf:"catalog_service_url"`
}

// IsProduction reports whether production safety checks apply.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}
