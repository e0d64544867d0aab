// Campus Catalog - Multi-tenant Course Catalog and Access Control
// Copyright 2026 OpenCampus Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/opencampus/catalog

package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// DevJWTSecret is the weak development fallback applied when no secret is
// configured outside production. Tokens signed with it are worthless for
// anything but local testing.
const DevJWTSecret = "campus-catalog-dev-secret-do-not-use-in-prod"

// Validate checks that required configuration is present and valid.
// It also applies the development JWT secret fallback.
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateSecurity(); err != nil {
		return err
	}
	if err := c.validateGateway(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.Timeout < time.Second || c.Server.Timeout > 10*time.Minute {
		return fmt.Errorf("HTTP_TIMEOUT must be between 1s and 10m, got %v", c.Server.Timeout)
	}
	switch strings.ToLower(c.Server.Environment) {
	case "", "development", "dev", "production", "prod":
	default:
		return fmt.Errorf("ENVIRONMENT must be development or production, got %q", c.Server.Environment)
	}
	return nil
}

func (c *Config) validateSecurity() error {
	if c.Security.JWTSecret == "" {
		if c.IsProduction() {
			return fmt.Errorf("JWT_SECRET is required when ENVIRONMENT=production; generate one with: openssl rand -base64 32")
		}
		c.Security.JWTSecret = DevJWTSecret
	}
	if c.IsProduction() && len(c.Security.JWTSecret) < 32 {
		return fmt.Errorf("JWT_SECRET must be at least 32 characters in production")
	}
	if c.IsProduction() && containsPlaceholder(c.Security.JWTSecret) {
		return fmt.Errorf("JWT_SECRET contains a placeholder value; generate a secure secret with: openssl rand -base64 32")
	}

	if c.Security.TokenTTL < time.Minute || c.Security.TokenTTL > 90*24*time.Hour {
		return fmt.Errorf("TOKEN_TTL must be between 1m and 2160h, got %v", c.Security.TokenTTL)
	}
	if c.Security.BcryptCost < bcrypt.MinCost || c.Security.BcryptCost > bcrypt.MaxCost {
		return fmt.Errorf("BCRYPT_COST must be between %d and %d, got %d",
			bcrypt.MinCost, bcrypt.MaxCost, c.Security.BcryptCost)
	}
	return nil
}

func (c *Config) validateGateway() error {
	if c.Gateway.Port < 1 || c.Gateway.Port > 65535 {
		return fmt.Errorf("GATEWAY_PORT must be between 1 and 65535, got %d", c.Gateway.Port)
	}
	if err := validateHTTPURL(c.Gateway.AuthServiceURL, "AUTH_SERVICE_URL"); err != nil {
		return err
	}
	return validateHTTPURL(c.Gateway.CatalogServiceURL, "CATALOG_SERVICE_URL")
}

func (c *Config) validateLogging() error {
	switch strings.ToLower(c.Logging.Level) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal", "disabled":
	default:
		return fmt.Errorf("LOG_LEVEL must be one of: trace, debug, info, warn, error, fatal")
	}
	switch strings.ToLower(c.Logging.Format) {
	case "json", "console":
	default:
		return fmt.Errorf("LOG_FORMAT must be json or console")
	}
	return nil
}

// validateHTTPURL checks that a URL is a well-formed absolute http(s) URL.
func validateHTTPURL(raw, name string) error {
	if raw == "" {
		return fmt.Errorf("%s is required", name)
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%s is invalid: %w", name, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%s must use http or https scheme", name)
	}
	if u.Host == "" {
		return fmt.Errorf("%s is missing a host", name)
	}
	return nil
}

// placeholderPatterns are fragments that indicate a copy-pasted example
// secret rather than a generated one.
var placeholderPatterns = []string{
	"changeme",
	"change-me",
	"example",
	"placeholder",
	"your-secret",
	"secret-here",
}

func containsPlaceholder(s string) bool {
	lower := strings.ToLower(s)
	for _, p := range placeholderPatterns {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}
