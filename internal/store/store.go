// Campus Catalog - Multi-tenant Course Catalog and Access Control
// Copyright 2026 OpenCampus Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/opencampus/catalog

// Package store persists the catalog's documents in BadgerDB.
//
// Records are JSON documents keyed by type prefix:
//
//	account:<id>            -> models.Account
//	account_email:<email>   -> account id (uniqueness index, lowercased)
//	category:<id>           -> models.Category
//	category_name:<name>    -> category id (uniqueness index, lowercased)
//	course:<id>             -> models.Course
//
// Uniqueness is enforced inside the same serializable transaction that
// writes the record, so two concurrent registrations of one email cannot
// both succeed. Course membership updates go through UpdateCourseAtomic,
// which retries on transaction conflict so concurrent enrollments merge
// instead of losing writes.
package store

import (
	"strings"

	"github.com/dgraph-io/badger/v4"

	"github.com/opencampus/catalog/internal/logging"
)

// Key prefixes for BadgerDB storage.
const (
	accountKeyPrefix      = "account:"
	accountEmailKeyPrefix = "account_email:"
	categoryKeyPrefix     = "category:"
	categoryNameKeyPrefix = "category_name:"
	courseKeyPrefix       = "course:"
)

// Store is a BadgerDB-backed document store for accounts, categories and
// courses. All methods are safe for concurrent use.
type Store struct {
	db *badger.DB
}

// Open opens (or creates) the store at path. An empty path opens an
// in-memory store, used by tests and throwaway environments.
func Open(path string) (*Store, error) {
	var opts badger.Options
	if path == "" {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		opts = badger.DefaultOptions(path)
	}
	// Badger logs through its own interface; route it to zerolog.
	opts = opts.WithLogger(badgerLogger{})

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

// NewWithDB wraps an existing Badger handle. The caller keeps ownership
// of the handle's lifecycle.
func NewWithDB(db *badger.DB) *Store {
	return &Store{db: db}
}

// Close releases the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB exposes the underlying handle for maintenance tasks.
func (s *Store) DB() *badger.DB {
	return s.db
}

// emailKey normalizes an email for the uniqueness index.
func emailKey(email string) []byte {
	return []byte(accountEmailKeyPrefix + strings.ToLower(strings.TrimSpace(email)))
}

// nameKey normalizes a category name for the uniqueness index.
func nameKey(name string) []byte {
	return []byte(categoryNameKeyPrefix + strings.ToLower(strings.TrimSpace(name)))
}

// badgerLogger adapts Badger's logger interface to zerolog.
type badgerLogger struct{}

func (badgerLogger) Errorf(format string, args ...interface{}) {
	logging.Error().Str("component", "badger").Msgf(strings.TrimSpace(format), args...)
}

func (badgerLogger) Warningf(format string, args ...interface{}) {
	logging.Warn().Str("component", "badger").Msgf(strings.TrimSpace(format), args...)
}

func (badgerLogger) Infof(format string, args ...interface{}) {
	logging.Debug().Str("component", "badger").Msgf(strings.TrimSpace(format), args...)
}

func (badgerLogger) Debugf(format string, args ...interface{}) {
	logging.Debug().Str("component", "badger").Msgf(strings.TrimSpace(format), args...)
}
