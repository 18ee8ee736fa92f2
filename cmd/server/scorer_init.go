// Tripwise - Travel Package Point-of-Interest Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tripwise

package main

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/tomtom215/tripwise/internal/backend"
	"github.com/tomtom215/tripwise/internal/config"
	"github.com/tomtom215/tripwise/internal/inference"
)

// ScorerComponents holds the external scorer and what readiness reports about it.
type ScorerComponents struct {
	Scorer  inference.Scorer
	Breaker *inference.BreakerScorer
	Backend string
}

// initScorer builds the external scorer from configuration.
//
// A nil Scorer means rule-only ranking. Guard failures are fatal in
// production; elsewhere they fall back to the mock scorer when
// mock_fallback is set.
//
//nolint:gocritic // hugeParam: logger passed by value for zerolog chaining
func initScorer(cfg *config.Config, logger zerolog.Logger) (*ScorerComponents, error) {
	if !cfg.Inference.Enabled {
		if cfg.Inference.MockFallback {
			logger.Warn().Msg("Inference disabled, using mock scorer")
			return mockComponents(logger, "inference disabled"), nil
		}
		logger.Info().Msg("Inference disabled, ranking with rules only")
		return &ScorerComponents{Backend: "rules only"}, nil
	}

	resolved, err := backend.NewGuard(cfg.BackendOptions(), logger).Resolve()
	if err != nil {
		if cfg.IsProduction() || !cfg.Inference.MockFallback {
			return nil, fmt.Errorf("inference backend unavailable: %w", err)
		}
		logger.Warn().Err(err).Msg("Inference backend unavailable, using mock scorer")
		return mockComponents(logger, err.Error()), nil
	}
	if resolved.Warning != nil {
		logger.Warn().Err(resolved.Warning).Msg("Model artifacts incomplete")
	}

	sub, err := inference.NewSubprocessScorer(resolved, cfg.SubprocessOptions(), logger)
	if err != nil {
		return nil, fmt.Errorf("create subprocess scorer: %w", err)
	}
	logger.Info().Str("backend", resolved.String()).Str("temp_dir", sub.TempDir()).Msg("Inference backend ready")

	components := &ScorerComponents{Scorer: sub, Backend: resolved.String()}
	if cfg.Inference.Breaker.Enabled {
		breaker := inference.NewBreakerScorer(sub, cfg.BreakerOptions(), logger)
		components.Scorer = breaker
		components.Breaker = breaker
	}
	return components, nil
}

//nolint:gocritic // hugeParam: logger passed by value for zerolog chaining
func mockComponents(logger zerolog.Logger, reason string) *ScorerComponents {
	return &ScorerComponents{
		Scorer:  inference.NewMockScorer(0, logger),
		Backend: "mock (" + reason + ")",
	}
}
