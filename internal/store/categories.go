// Campus Catalog - Multi-tenant Course Catalog and Access Control
// Copyright 2026 OpenCampus Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/opencampus/catalog

package store

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/opencampus/catalog/internal/models"
)

// CreateCategory stores a new category. Returns ErrDuplicate if the name
// is already taken (case-insensitive).
func (s *Store) CreateCategory(ctx context.Context, category *models.Category) error {
	data, err := json.Marshal(category)
	if err != nil {
		return fmt.Errorf("marshal category: %w", err)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		idx := nameKey(category.Name)
		_, err := txn.Get(idx)
		if err == nil {
			return ErrDuplicate
		}
		if !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("check name index: %w", err)
		}

		if err := txn.Set([]byte(categoryKeyPrefix+category.ID), data); err != nil {
			return fmt.Errorf("set category: %w", err)
		}
		if err := txn.Set(idx, []byte(category.ID)); err != nil {
			return fmt.Errorf("set name index: %w", err)
		}
		return nil
	})
}

// GetCategory retrieves a category by id. Returns ErrNotFound if absent.
func (s *Store) GetCategory(ctx context.Context, id string) (*models.Category, error) {
	var category models.Category

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(categoryKeyPrefix + id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("get category: %w", err)
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &category)
		})
	})
	if err != nil {
		return nil, err
	}
	return &category, nil
}

// ListCategories returns all categories in key order.
func (s *Store) ListCategories(ctx context.Context) ([]*models.Category, error) {
	categories := []*models.Category{}

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(categoryKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var category models.Category
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &category)
			})
			if err != nil {
				return err
			}
			categories = append(categories, &category)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

// UpdateCategory replaces a stored category, maintaining the name index on
// rename. Returns ErrNotFound if the category does not exist and
// ErrDuplicate if a rename collides with another category's name.
func (s *Store) UpdateCategory(ctx context.Context, category *models.Category) error {
	data, err := json.Marshal(category)
	if err != nil {
		return fmt.Errorf("marshal category: %w", err)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		key := []byte(categoryKeyPrefix + category.ID)
		item, err := txn.Get(key)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("get category: %w", err)
		}

		var current models.Category
		if err := item.Value(func(val []byte) error {
			return json.Unmarshal(val, &current)
		}); err != nil {
			return err
		}

		oldIdx := nameKey(current.Name)
		newIdx := nameKey(category.Name)
		if !bytes.Equal(oldIdx, newIdx) {
			existing, err := txn.Get(newIdx)
			if err == nil {
				var holder string
				if err := existing.Value(func(val []byte) error {
					holder = string(val)
					return nil
				}); err != nil {
					return err
				}
				if holder != category.ID {
					return ErrDuplicate
				}
			} else if !errors.Is(err, badger.ErrKeyNotFound) {
				return fmt.Errorf("check name index: %w", err)
			}
			if err := txn.Delete(oldIdx); err != nil {
				return fmt.Errorf("delete name index: %w", err)
			}
			if err := txn.Set(newIdx, []byte(category.ID)); err != nil {
				return fmt.Errorf("set name index: %w", err)
			}
		}

		return txn.Set(key, data)
	})
}

// DeleteCategory removes a category and its name index entry.
// Returns ErrNotFound if the category does not exist.
func (s *Store) DeleteCategory(ctx context.Context, id string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		key := []byte(categoryKeyPrefix + id)
		item, err := txn.Get(key)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("get category: %w", err)
		}

		var category models.Category
		if err := item.Value(func(val []byte) error {
			return json.Unmarshal(val, &category)
		}); err != nil {
			return err
		}

		if err := txn.Delete(nameKey(category.Name)); err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("delete name index: %w", err)
		}
		return txn.Delete(key)
	})
}
