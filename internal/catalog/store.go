// Tripwise - Travel Package Point-of-Interest Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tripwise

// Package catalog stores tour packages and the places they contain.
// The recommendation engine never reads the catalog itself; the API layer
// fetches a package and hands its places to the engine.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/dgraph-io/badger/v4"

	"github.com/tomtom215/tripwise/internal/recommend"
	"github.com/tomtom215/tripwise/internal/validation"
)

// StoreType selects a storage backend.
type StoreType string

const (
	// StoreMemory keeps packages in process memory (default, not persistent).
	StoreMemory StoreType = "memory"

	// StoreBadger persists packages in BadgerDB.
	StoreBadger StoreType = "badger"
)

var (
	// ErrNotFound is returned when a package does not exist.
	ErrNotFound = errors.New("tour package not found")

	// ErrInvalidPackage is returned by Put for packages that fail validation.
	ErrInvalidPackage = errors.New("invalid tour package")
)

// TourPackage is a named bundle of places offered to travelers.
type TourPackage struct {
	ID          string            `json:"id" validate:"required"`
	Name        string            `json:"name" validate:"required"`
	Description string            `json:"description"`
	Duration    string            `json:"duration"`
	District    string            `json:"district"`
	Places      []recommend.Place `json:"places" validate:"dive"`
}

// Clone returns a copy that shares no slices with p.
func (p *TourPackage) Clone() *TourPackage {
	c := *p
	c.Places = slices.Clone(p.Places)
	return &c
}

// Store is the package repository used by the API layer.
type Store interface {
	// Get returns the package with id, or ErrNotFound.
	Get(ctx context.Context, id string) (*TourPackage, error)

	// List returns all packages ordered by ID.
	List(ctx context.Context) ([]TourPackage, error)

	// Put creates or replaces a package.
	Put(ctx context.Context, pkg *TourPackage) error

	// Count returns the number of stored packages.
	Count(ctx context.Context) (int, error)

	// Close releases backend resources.
	Close() error
}

// Open creates a store of the given type. path is only used by StoreBadger.
func Open(storeType StoreType, path string) (Store, error) {
	switch storeType {
	case StoreMemory, "":
		return NewMemoryStore(), nil

	case StoreBadger:
		if path == "" {
			return nil, fmt.Errorf("badger catalog requires a path")
		}
		opts := badger.DefaultOptions(path)
		opts.Logger = nil

		db, err := badger.Open(opts)
		if err != nil {
			return nil, fmt.Errorf("open badger db for catalog: %w", err)
		}
		return newBadgerStore(db, true), nil

	default:
		return nil, fmt.Errorf("unknown catalog backend %q", storeType)
	}
}

func validatePackage(pkg *TourPackage) error {
	if pkg == nil {
		return fmt.Errorf("%w: nil package", ErrInvalidPackage)
	}
	if verr := validation.ValidateStruct(pkg); verr != nil {
		return fmt.Errorf("%w: %s", ErrInvalidPackage, verr.Error())
	}

	seen := make(map[string]struct{}, len(pkg.Places))
	for i := range pkg.Places {
		id := pkg.Places[i].ID
		if _, dup := seen[id]; dup {
			return fmt.Errorf("%w: duplicate place id %q", ErrInvalidPackage, id)
		}
		seen[id] = struct{}{}
	}
	return nil
}
