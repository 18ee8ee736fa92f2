// Tripwise - Travel Package Point-of-Interest Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tripwise

package catalog

import (
	"context"
	"slices"
	"strings"
	"sync"
)

// MemoryStore implements Store with an in-memory map.
type MemoryStore struct {
	mu       sync.RWMutex
	packages map[string]*TourPackage
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		packages: make(map[string]*TourPackage),
	}
}

// Get returns a copy of the package with id.
func (s *MemoryStore) Get(ctx context.Context, id string) (*TourPackage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	pkg, ok := s.packages[id]
	if !ok {
		return nil, ErrNotFound
	}
	return pkg.Clone(), nil
}

// List returns all packages ordered by ID.
func (s *MemoryStore) List(ctx context.Context) ([]TourPackage, error) {
	s.mu.RLock()
	out := make([]TourPackage, 0, len(s.packages))
	for _, pkg := range s.packages {
		out = append(out, *pkg.Clone())
	}
	s.mu.RUnlock()

	slices.SortFunc(out, func(a, b TourPackage) int { return strings.Compare(a.ID, b.ID) })
	return out, nil
}

// Put stores a copy of pkg.
func (s *MemoryStore) Put(ctx context.Context, pkg *TourPackage) error {
	if err := validatePackage(pkg); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.packages[pkg.ID] = pkg.Clone()
	return nil
}

// Count returns the number of stored packages.
func (s *MemoryStore) Count(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.packages), nil
}

// Close is a no-op.
func (s *MemoryStore) Close() error { return nil }
