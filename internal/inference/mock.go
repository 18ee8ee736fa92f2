// Tripwise - Travel Package Point-of-Interest Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tripwise

package inference

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// MockReason is attached to places scored by MockScorer.
const MockReason = "Mock recommendation for development"

// MockScorer returns a random score in [0, 100) for every place. It stands
// in for the backend when it is disabled or unavailable outside production.
type MockScorer struct {
	mu     sync.Mutex
	rng    *rand.Rand
	logger zerolog.Logger
}

// NewMockScorer creates a mock scorer. A zero seed uses the current time.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewMockScorer(seed int64, logger zerolog.Logger) *MockScorer {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &MockScorer{
		rng:    rand.New(rand.NewSource(seed)), //nolint:gosec // scores are not security sensitive
		logger: logger.With().Str("component", "inference_mock").Logger(),
	}
}

// Name implements Scorer.
func (m *MockScorer) Name() string { return "mock" }

// Score implements Scorer.
func (m *MockScorer) Score(ctx context.Context, req *Request) (Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	resp := make(Response, 0, len(req.Places))
	for _, p := range req.Places {
		resp = append(resp, Score{PlaceID: p.ID, Score: m.rng.Float64() * 100})
	}
	m.mu.Unlock()

	m.logger.Debug().Int("places", len(resp)).Msg("using mock recommendations")
	return resp, nil
}
