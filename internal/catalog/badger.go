// Tripwise - Travel Package Point-of-Interest Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tripwise

package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
)

// Key prefix for BadgerDB storage. Keys sort by package ID.
const packageKeyPrefix = "package:"

// BadgerStore implements Store using BadgerDB for durable storage.
type BadgerStore struct {
	db     *badger.DB
	ownsDB bool
}

// NewBadgerStore creates a store on an existing DB. The caller keeps
// ownership of db; Close does not close it.
func NewBadgerStore(db *badger.DB) *BadgerStore {
	return newBadgerStore(db, false)
}

func newBadgerStore(db *badger.DB, owns bool) *BadgerStore {
	return &BadgerStore{db: db, ownsDB: owns}
}

// Get retrieves a package by ID.
func (s *BadgerStore) Get(ctx context.Context, id string) (*TourPackage, error) {
	var pkg TourPackage

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(packageKeyPrefix + id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("get package: %w", err)
		}

		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &pkg)
		})
	})
	if err != nil {
		return nil, err
	}

	return &pkg, nil
}

// List returns all packages ordered by ID.
func (s *BadgerStore) List(ctx context.Context) ([]TourPackage, error) {
	var out []TourPackage

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = true
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(packageKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}

			var pkg TourPackage
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &pkg)
			})
			if err != nil {
				return fmt.Errorf("decode package %s: %w", it.Item().Key(), err)
			}
			out = append(out, pkg)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list packages: %w", err)
	}

	if out == nil {
		out = []TourPackage{}
	}
	return out, nil
}

// Put creates or replaces a package.
func (s *BadgerStore) Put(ctx context.Context, pkg *TourPackage) error {
	if err := validatePackage(pkg); err != nil {
		return err
	}

	data, err := json.Marshal(pkg)
	if err != nil {
		return fmt.Errorf("marshal package: %w", err)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set([]byte(packageKeyPrefix+pkg.ID), data); err != nil {
			return fmt.Errorf("set package: %w", err)
		}
		return nil
	})
}

// Count returns the number of stored packages.
func (s *BadgerStore) Count(ctx context.Context) (int, error) {
	count := 0

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(packageKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			count++
		}
		return nil
	})

	return count, err
}

// Close closes the DB if the store opened it.
func (s *BadgerStore) Close() error {
	if s.ownsDB {
		return s.db.Close()
	}
	return nil
}
