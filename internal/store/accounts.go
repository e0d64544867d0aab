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

// CreateAccount stores a new account. Returns ErrDuplicate if another
// account already holds the email; the index check and the write share one
// transaction, so concurrent registrations of the same email cannot race.
func (s *Store) CreateAccount(ctx context.Context, account *models.Account) error {
	data, err := json.Marshal(account)
	if err != nil {
		return fmt.Errorf("marshal account: %w", err)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		idx := emailKey(account.Email)
		_, err := txn.Get(idx)
		if err == nil {
			return ErrDuplicate
		}
		if !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("check email index: %w", err)
		}

		if err := txn.Set([]byte(accountKeyPrefix+account.ID), data); err != nil {
			return fmt.Errorf("set account: %w", err)
		}
		if err := txn.Set(idx, []byte(account.ID)); err != nil {
			return fmt.Errorf("set email index: %w", err)
		}
		return nil
	})
}

// GetAccountByID retrieves an account by id. Returns ErrNotFound if absent.
func (s *Store) GetAccountByID(ctx context.Context, id string) (*models.Account, error) {
	var account models.Account

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(accountKeyPrefix + id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("get account: %w", err)
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &account)
		})
	})
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// GetAccountByEmail retrieves an account through the email index.
// Returns ErrNotFound if no account holds the email.
func (s *Store) GetAccountByEmail(ctx context.Context, email string) (*models.Account, error) {
	var account models.Account

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(emailKey(email))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("get email index: %w", err)
		}

		var id string
		if err := item.Value(func(val []byte) error {
			id = string(val)
			return nil
		}); err != nil {
			return err
		}

		accItem, err := txn.Get([]byte(accountKeyPrefix + id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			// Index points at a deleted record; treat as absent.
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("get account: %w", err)
		}
		return accItem.Value(func(val []byte) error {
			return json.Unmarshal(val, &account)
		})
	})
	if err != nil {
		return nil, err
	}
	return &account, nil
}
