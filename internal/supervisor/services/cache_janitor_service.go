// Tripwise - Travel Package Point-of-Interest Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tripwise

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Janitor is a cache that can evict expired entries on a schedule.
// *cache.Cache[V] satisfies it for every V.
type Janitor interface {
	Run(ctx context.Context, interval time.Duration) error
}

// CacheJanitorService runs a cache's eviction loop under supervision.
type CacheJanitorService struct {
	cache    Janitor
	interval time.Duration
	logger   zerolog.Logger
	name     string
}

// NewCacheJanitorService creates a janitor. A non-positive interval becomes 1m.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewCacheJanitorService(c Janitor, interval time.Duration, logger zerolog.Logger) *CacheJanitorService {
	if interval <= 0 {
		interval = time.Minute
	}
	return &CacheJanitorService{
		cache:    c,
		interval: interval,
		logger:   logger.With().Str("service", "cache-janitor").Logger(),
		name:     "cache-janitor",
	}
}

// Serve implements suture.Service.
func (s *CacheJanitorService) Serve(ctx context.Context) error {
	s.logger.Debug().Dur("interval", s.interval).Msg("cache janitor starting")
	return s.cache.Run(ctx, s.interval)
}

// String implements fmt.Stringer for supervisor logs.
func (s *CacheJanitorService) String() string {
	return s.name
}
