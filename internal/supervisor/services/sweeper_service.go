// Tripwise - Travel Package Point-of-Interest Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tripwise

package services

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/tripwise/internal/inference"
	"github.com/tomtom215/tripwise/internal/metrics"
)

// SweeperConfig holds configuration for the artifact sweeper.
type SweeperConfig struct {
	// Dir is the inference temp directory.
	Dir string

	// Interval between sweeps. Default: 10m
	Interval time.Duration

	// MaxAge is how old an artifact must be before it is removed. It should
	// comfortably exceed the inference timeout. Default: 1h
	MaxAge time.Duration
}

// ArtifactSweeperService removes request artifacts that outlived the
// invocation that wrote them. The orchestrator deletes its own artifacts;
// leftovers only appear after the host process dies mid-invocation.
type ArtifactSweeperService struct {
	config SweeperConfig
	logger zerolog.Logger
	now    func() time.Time
	name   string
}

// NewArtifactSweeperService creates a sweeper for cfg.Dir.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewArtifactSweeperService(cfg SweeperConfig, logger zerolog.Logger) *ArtifactSweeperService {
	if cfg.Interval <= 0 {
		cfg.Interval = 10 * time.Minute
	}
	if cfg.MaxAge <= 0 {
		cfg.MaxAge = time.Hour
	}
	return &ArtifactSweeperService{
		config: cfg,
		logger: logger.With().Str("service", "artifact-sweeper").Logger(),
		now:    time.Now,
		name:   "artifact-sweeper",
	}
}

// Serve implements suture.Service. It sweeps once on start, then on every tick.
func (s *ArtifactSweeperService) Serve(ctx context.Context) error {
	s.logger.Info().
		Str("dir", s.config.Dir).
		Dur("interval", s.config.Interval).
		Dur("max_age", s.config.MaxAge).
		Msg("artifact sweeper starting")

	s.sweepAndLog()

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.sweepAndLog()
		}
	}
}

func (s *ArtifactSweeperService) sweepAndLog() {
	removed, err := s.Sweep()
	if err != nil {
		s.logger.Warn().Err(err).Msg("artifact sweep failed")
	}
	if removed > 0 {
		metrics.RecordArtifactsSwept(removed)
		s.logger.Info().Int("removed", removed).Msg("removed stale inference artifacts")
	}
}

// Sweep removes stale artifacts and returns how many were deleted. A
// missing directory is not an error. Individual removal failures are
// logged and skipped.
func (s *ArtifactSweeperService) Sweep() (int, error) {
	entries, err := os.ReadDir(s.config.Dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return 0, nil
		}
		return 0, err
	}

	cutoff := s.now().Add(-s.config.MaxAge)
	removed := 0
	for _, entry := range entries {
		if entry.IsDir() || !isArtifactName(entry.Name()) {
			continue
		}
		info, err := entry.Info()
		if err != nil || !info.ModTime().Before(cutoff) {
			continue
		}
		path := filepath.Join(s.config.Dir, entry.Name())
		if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			s.logger.Warn().Err(err).Str("artifact", path).Msg("failed to remove stale artifact")
			continue
		}
		removed++
	}
	return removed, nil
}

func isArtifactName(name string) bool {
	return strings.HasPrefix(name, inference.ArtifactPrefix) && strings.HasSuffix(name, inference.ArtifactSuffix)
}

// String implements fmt.Stringer for supervisor logs.
func (s *ArtifactSweeperService) String() string {
	return s.name
}
