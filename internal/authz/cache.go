// Campus Catalog - Multi-tenant Course Catalog and Access Control
// Copyright 2026 OpenCampus Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/opencampus/catalog

package authz

import (
	"sync"
	"time"
)

// decisionCache caches authorization decisions. Decisions are keyed by
// (role, path, method), so the cardinality is bounded by the policy table,
// not by traffic.
type decisionCache struct {
	ttl      time.Duration
	mu       sync.RWMutex
	items    map[string]*cacheItem
	stopChan chan struct{}
	stopOnce sync.Once
}

type cacheItem struct {
	allowed   bool
	expiresAt time.Time
}

func newDecisionCache(ttl time.Duration) *decisionCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	c := &decisionCache{
		ttl:      ttl,
		items:    make(map[string]*cacheItem),
		stopChan: make(chan struct{}),
	}
	go c.cleanup()
	return c
}

func (c *decisionCache) key(subject, object, action string) string {
	return subject + ":" + object + ":" + action
}

func (c *decisionCache) get(subject, object, action string) (bool, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	item, ok := c.items[c.key(subject, object, action)]
	if !ok || time.Now().After(item.expiresAt) {
		return false, false
	}
	return item.allowed, true
}

func (c *decisionCache) set(subject, object, action string, allowed bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items[c.key(subject, object, action)] = &cacheItem{
		allowed:   allowed,
		expiresAt: time.Now().Add(c.ttl),
	}
}

func (c *decisionCache) clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[string]*cacheItem)
}

// cleanup periodically removes expired items.
func (c *decisionCache) cleanup() {
	ticker := time.NewTicker(c.ttl)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopChan:
			return
		case <-ticker.C:
			c.mu.Lock()
			now := time.Now()
			for key, item := range c.items {
				if now.After(item.expiresAt) {
					delete(c.items, key)
				}
			}
			c.mu.Unlock()
		}
	}
}

// stop is idempotent.
func (c *decisionCache) stop() {
	c.stopOnce.Do(func() {
		close(c.stopChan)
	})
}
