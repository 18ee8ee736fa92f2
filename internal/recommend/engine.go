// Tripwise - Travel Package Point-of-Interest Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tripwise

package recommend

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/tripwise/internal/cache"
	"github.com/tomtom215/tripwise/internal/inference"
	"github.com/tomtom215/tripwise/internal/logging"
	"github.com/tomtom215/tripwise/internal/metrics"
)

// ErrExternalScoring matches every ExternalScoringError.
var ErrExternalScoring = errors.New("external scoring failed")

// ExternalScoringError is returned under FallbackStrict when the external
// scorer fails. Err carries the inference error kind.
type ExternalScoringError struct {
	Scorer string
	Err    error
}

func (e *ExternalScoringError) Error() string {
	return fmt.Sprintf("external scoring failed (%s): %v", e.Scorer, e.Err)
}

func (e *ExternalScoringError) Unwrap() error { return e.Err }

// Is matches ErrExternalScoring.
func (e *ExternalScoringError) Is(target error) bool { return target == ErrExternalScoring }

// Result is the ranked output of one recommendation request.
type Result struct {
	Places       []ScoredPlace
	Algorithm    string
	ModelVersion string
	// Degraded is set when the external scorer failed and the ranking fell
	// back to rule scores.
	Degraded bool
	// FallbackReason is the inference outcome that caused degradation.
	FallbackReason string
	CacheHit       bool
	Latency        time.Duration
}

// Engine produces hybrid recommendations. It holds no per-request state.
type Engine struct {
	cfg    Config
	scorer inference.Scorer
	cache  *cache.Cache[inference.Response]
	logger zerolog.Logger
}

type externalResult struct {
	resp inference.Response
	hit  bool
	err  error
}

// NewEngine creates an engine. A nil scorer gives rule-only ranking.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(cfg Config, scorer inference.Scorer, logger zerolog.Logger) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	e := &Engine{
		cfg:    cfg,
		scorer: scorer,
		logger: logger.With().Str("component", "recommend").Logger(),
	}
	if cfg.CacheTTL > 0 && scorer != nil {
		e.cache = cache.New[inference.Response](cfg.CacheTTL)
	}
	return e, nil
}

// Config returns the engine configuration.
func (e *Engine) Config() Config { return e.cfg }

// Cache returns the external response cache, or nil when disabled.
func (e *Engine) Cache() *cache.Cache[inference.Response] { return e.cache }

// Algorithm reports the algorithm label results carry when the external
// scorer succeeds.
func (e *Engine) Algorithm() string {
	switch {
	case e.scorer == nil:
		return AlgorithmRuleBased
	case e.scorer.Name() == AlgorithmMock:
		return AlgorithmMock
	default:
		return AlgorithmHybrid
	}
}

// Recommend ranks places for profile. The external scorer runs
// concurrently with rule scoring. An external failure either degrades to
// rule-only ranking or is returned as *ExternalScoringError, per
// Config.FallbackPolicy. Caller cancellation is always returned.
func (e *Engine) Recommend(ctx context.Context, profile Profile, places []Place) (*Result, error) {
	start := time.Now()
	if !profile.Valid() {
		return nil, &ProfileError{Field: "age", Reason: "profile was not built with BuildProfile"}
	}

	logger := logging.CtxWith(ctx, e.logger).Int("places", len(places)).Logger()
	logger.Debug().Msg("processing recommendation request")

	var extCh chan externalResult
	if e.scorer != nil && len(places) > 0 {
		extCh = make(chan externalResult, 1)
		req := BuildRequest(profile, places)
		go func() {
			extCh <- e.scoreExternal(ctx, req)
		}()
	}

	rules := make([]RuleBreakdown, len(places))
	for i := range places {
		rules[i] = ScoreRules(&places[i], profile)
		metrics.RecordRuleScore(rules[i].Total)
	}

	result := &Result{
		Algorithm:    e.Algorithm(),
		ModelVersion: e.cfg.ModelVersion,
	}
	opts := RankOptions{
		ExternalWeight: e.cfg.ExternalWeight,
		RuleWeight:     e.cfg.RuleWeight,
		UnscoredPolicy: e.cfg.UnscoredPolicy,
	}

	var external map[string]float64
	if extCh != nil {
		ext := <-extCh
		result.CacheHit = ext.hit

		switch {
		case ext.err == nil:
			external = ext.resp.ByPlace()
			if result.Algorithm == AlgorithmMock {
				opts.ExtraReason = inference.MockReason
			}

		case ctx.Err() != nil:
			return nil, fmt.Errorf("recommend: %w", ctx.Err())

		case e.cfg.FallbackPolicy == FallbackStrict:
			logger.Warn().Err(ext.err).Msg("external scoring failed, strict policy")
			return nil, &ExternalScoringError{Scorer: e.scorer.Name(), Err: ext.err}

		default:
			result.Algorithm = AlgorithmRuleBased
			result.Degraded = true
			result.FallbackReason = inference.Outcome(ext.err)
			opts.Degraded = true
			metrics.RecordFallback(result.FallbackReason)
			logger.Warn().Err(ext.err).
				Str("reason", result.FallbackReason).
				Msg("external scoring failed, falling back to rule scores")
		}
	}

	result.Places = Rank(places, rules, external, opts)

	if external != nil {
		unscored := 0
		for i := range result.Places {
			if result.Places[i].Unscored {
				unscored++
			}
		}
		metrics.RecordUnscoredPlaces(unscored)
		if unscored > 0 {
			logger.Info().Int("unscored", unscored).Msg("places missing from external response")
		}
	}

	result.Latency = time.Since(start)
	metrics.RecordRecommendation(result.Algorithm)

	logger.Debug().
		Str("algorithm", result.Algorithm).
		Bool("degraded", result.Degraded).
		Bool("cache_hit", result.CacheHit).
		Dur("latency", result.Latency).
		Msg("recommendation complete")

	return result, nil
}

func (e *Engine) scoreExternal(ctx context.Context, req *inference.Request) externalResult {
	var key string
	if e.cache != nil {
		key = cache.GenerateKey("external:"+e.scorer.Name(), req)
		if resp, ok := e.cache.Get(key); ok {
			metrics.RecordExternalCache(true)
			return externalResult{resp: resp, hit: true}
		}
		metrics.RecordExternalCache(false)
	}

	resp, err := e.scorer.Score(ctx, req)
	if err != nil {
		return externalResult{err: err}
	}

	if e.cache != nil {
		e.cache.Set(key, resp)
	}
	return externalResult{resp: resp}
}
