// Campus Catalog - Multi-tenant Course Catalog and Access Control
// Copyright 2026 OpenCampus Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/opencampus/catalog

package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/opencampus/catalog/internal/models"
)

// atomicUpdateRetries bounds the retry loop on transaction conflicts.
// Conflicts only occur when two writers touch the same course concurrently,
// so a handful of retries is plenty.
const atomicUpdateRetries = 10

// CreateCourse stores a new course.
func (s *Store) CreateCourse(ctx context.Context, course *models.Course) error {
	data, err := json.Marshal(course)
	if err != nil {
		return fmt.Errorf("marshal course: %w", err)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(courseKeyPrefix+course.ID), data)
	})
}

// GetCourse retrieves a course by id. Returns ErrNotFound if absent.
func (s *Store) GetCourse(ctx context.Context, id string) (*models.Course, error) {
	var course models.Course

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(courseKeyPrefix + id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("get course: %w", err)
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &course)
		})
	})
	if err != nil {
		return nil, err
	}
	return &course, nil
}

// ListCourses returns all courses in key order.
func (s *Store) ListCourses(ctx context.Context) ([]*models.Course, error) {
	courses := []*models.Course{}

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(courseKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var course models.Course
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &course)
			})
			if err != nil {
				return err
			}
			courses = append(courses, &course)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	return courses, nil
}

// UpdateCourseAtomic applies mutate to the current stored course inside a
// serializable transaction, retrying on conflict. Concurrent membership
// updates each re-read the latest document before merging, so no enrollment
// or assignment is ever lost to a stale write.
//
// Returns ErrNotFound if the course does not exist. Errors returned by
// mutate abort the update and are passed through unchanged.
func (s *Store) UpdateCourseAtomic(ctx context.Context, id string, mutate func(*models.Course) error) (*models.Course, error) {
	key := []byte(courseKeyPrefix + id)

	var updated *models.Course
	for attempt := 0; attempt < atomicUpdateRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		err := s.db.Update(func(txn *badger.Txn) error {
			item, err := txn.Get(key)
			if errors.Is(err, badger.ErrKeyNotFound) {
				return ErrNotFound
			}
			if err != nil {
				return fmt.Errorf("get course: %w", err)
			}

			var course models.Course
			if err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &course)
			}); err != nil {
				return err
			}

			if err := mutate(&course); err != nil {
				return err
			}

			data, err := json.Marshal(&course)
			if err != nil {
				return fmt.Errorf("marshal course: %w", err)
			}
			if err := txn.Set(key, data); err != nil {
				return err
			}
			updated = &course
			return nil
		})

		if errors.Is(err, badger.ErrConflict) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return updated, nil
	}

	return nil, fmt.Errorf("update course %s: %w", id, badger.ErrConflict)
}

// DeleteCourse removes a course. Returns ErrNotFound if it does not exist.
func (s *Store) DeleteCourse(ctx context.Context, id string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		key := []byte(courseKeyPrefix + id)
		_, err := txn.Get(key)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("get course: %w", err)
		}
		return txn.Delete(key)
	})
}
