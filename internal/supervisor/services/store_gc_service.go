// Campus Catalog - Multi-tenant Course Catalog and Access Control
// Copyright 2026 OpenCampus Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/opencampus/catalog

package services

import (
	"context"
	"errors"
	"time"

	badger "github.com/dgraph-io/badger/v4"

	"github.com/opencampus/catalog/internal/logging"
)

const defaultGCInterval = 10 * time.Minute

// discardRatio is the minimum fraction of reclaimable space before a value
// log file is rewritten. 0.5 is the value recommended by badger.
const discardRatio = 0.5

// StoreGCService periodically runs badger value log garbage collection. It
// runs in the data layer so a GC failure restarts only this loop, not the
// HTTP servers.
type StoreGCService struct {
	db       *badger.DB
	interval time.Duration
}

// NewStoreGCService creates a GC service for the given database.
func NewStoreGCService(db *badger.DB, interval time.Duration) *StoreGCService {
	if interval <= 0 {
		interval = defaultGCInterval
	}
	return &StoreGCService{db: db, interval: interval}
}

// Serve implements suture.Service.
func (s *StoreGCService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.runGC()
		}
	}
}

// runGC rewrites value log files until badger reports nothing left to
// collect. ErrNoRewrite is the normal "nothing to do" result.
func (s *StoreGCService) runGC() {
	for {
		err := s.db.RunValueLogGC(discardRatio)
		if err != nil {
			if !errors.Is(err, badger.ErrNoRewrite) {
				logging.Warn().Err(err).Msg("Value log GC failed")
			}
			return
		}
		logging.Debug().Msg("Value log file collected")
	}
}

// String implements fmt.Stringer.
func (s *StoreGCService) String() string {
	return "store-gc"
}
