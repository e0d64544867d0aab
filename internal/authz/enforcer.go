// Campus Catalog - Multi-tenant Course Catalog and Access Control
// Copyright 2026 OpenCampus Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/opencampus/catalog

// Package authz decides which role may perform which catalog operation.
//
// Coarse route permissions live in a Casbin RBAC policy (role, path pattern,
// method) with a single "authenticated" group spanning every concrete role.
// Fine-grained instance rules (course ownership, publish gating) are not
// expressible as route policy and live in OwnershipPolicy, consulted by the
// catalog service after the route gate has passed.
package authz

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	fileadapter "github.com/casbin/casbin/v2/persist/file-adapter"
)

//go:embed model.conf
var embeddedModel string

//go:embed policy.csv
var embeddedPolicy string

// EnforcerConfig holds configuration for the Casbin enforcer.
type EnforcerConfig struct {
	// ModelPath overrides the embedded model when set and the file exists.
	ModelPath string

	// PolicyPath overrides the embedded policy when set and the file exists.
	PolicyPath string

	// AutoReload enables periodic policy reload from PolicyPath.
	AutoReload bool

	// ReloadInterval is how often to check for policy changes.
	ReloadInterval time.Duration

	// CacheEnabled enables enforcement decision caching.
	CacheEnabled bool

	// CacheTTL is how long to cache decisions.
	CacheTTL time.Duration
}

// DefaultEnforcerConfig returns default configuration.
func DefaultEnforcerConfig() *EnforcerConfig {
	return &EnforcerConfig{
		AutoReload:     false,
		ReloadInterval: 30 * time.Second,
		CacheEnabled:   true,
		CacheTTL:       5 * time.Minute,
	}
}

// Enforcer wraps the Casbin enforcer with decision caching.
type Enforcer struct {
	config   *EnforcerConfig
	enforcer *casbin.SyncedEnforcer
	cache    *decisionCache
}

// NewEnforcer creates a route authorization enforcer.
// With no external files configured, the embedded model and policy are used.
func NewEnforcer(config *EnforcerConfig) (*Enforcer, error) {
	if config == nil {
		config = DefaultEnforcerConfig()
	}

	var m model.Model
	var err error
	if config.ModelPath != "" && fileExists(config.ModelPath) {
		m, err = model.NewModelFromFile(config.ModelPath)
	} else {
		m, err = model.NewModelFromString(embeddedModel)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load casbin model: %w", err)
	}

	var enforcer *casbin.SyncedEnforcer
	if config.PolicyPath != "" && fileExists(config.PolicyPath) {
		adapter := fileadapter.NewAdapter(config.PolicyPath)
		enforcer, err = casbin.NewSyncedEnforcer(m, adapter)
	} else {
		enforcer, err = casbin.NewSyncedEnforcer(m)
		if err == nil {
			err = loadEmbeddedPolicy(enforcer, embeddedPolicy)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create casbin enforcer: %w", err)
	}

	if config.AutoReload && config.PolicyPath != "" {
		enforcer.StartAutoLoadPolicy(config.ReloadInterval)
	}

	e := &Enforcer{
		config:   config,
		enforcer: enforcer,
	}
	if config.CacheEnabled {
		e.cache = newDecisionCache(config.CacheTTL)
	}
	return e, nil
}

// loadEmbeddedPolicy parses and loads the embedded policy CSV.
func loadEmbeddedPolicy(enforcer *casbin.SyncedEnforcer, policy string) error {
	for _, line := range strings.Split(policy, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.Split(line, ",")
		if len(parts) < 2 {
			continue
		}
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}

		ptype := parts[0]
		rule := parts[1:]

		switch ptype {
		case "p":
			if len(rule) >= 3 {
				if _, err := enforcer.AddPolicy(rule[0], rule[1], rule[2]); err != nil {
					return fmt.Errorf("failed to add policy %v: %w", rule, err)
				}
			}
		case "g":
			if len(rule) >= 2 {
				if _, err := enforcer.AddGroupingPolicy(rule[0], rule[1]); err != nil {
					return fmt.Errorf("failed to add grouping policy %v: %w", rule, err)
				}
			}
		}
	}
	return nil
}

// Enforce checks whether subject (a role) may perform action on object
// (a request path).
func (e *Enforcer) Enforce(subject, object, action string) (bool, error) {
	if e.cache != nil {
		if allowed, ok := e.cache.get(subject, object, action); ok {
			return allowed, nil
		}
	}

	allowed, err := e.enforcer.Enforce(subject, object, action)
	if err != nil {
		return false, fmt.Errorf("enforcement failed: %w", err)
	}

	if e.cache != nil {
		e.cache.set(subject, object, action, allowed)
	}
	return allowed, nil
}

// GetPolicy returns all policy rules.
func (e *Enforcer) GetPolicy() [][]string {
	//nolint:errcheck // only fails on a nil enforcer
	policies, _ := e.enforcer.GetPolicy()
	return policies
}

// GetRolesForSubject returns the groups a role belongs to.
func (e *Enforcer) GetRolesForSubject(subject string) ([]string, error) {
	return e.enforcer.GetRolesForUser(subject)
}

// LoadPolicy reloads the policy from the configured file adapter.
func (e *Enforcer) LoadPolicy() error {
	if e.config.PolicyPath == "" {
		return fmt.Errorf("no policy adapter configured; using embedded policy")
	}
	if err := e.enforcer.LoadPolicy(); err != nil {
		return err
	}
	if e.cache != nil {
		e.cache.clear()
	}
	return nil
}

// Close stops the enforcer and cleans up resources.
func (e *Enforcer) Close() {
	e.enforcer.StopAutoLoadPolicy()
	if e.cache != nil {
		e.cache.stop()
	}
}

// fileExists checks if a file exists.
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
