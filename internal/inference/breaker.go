// Tripwise - Travel Package Point-of-Interest Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tripwise

package inference

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/tripwise/internal/metrics"
)

// BreakerConfig tunes the circuit breaker around a Scorer.
type BreakerConfig struct {
	// Name labels metrics and logs.
	Name string

	// MaxRequests is the number of trial calls allowed while half-open.
	MaxRequests uint32

	// Interval clears failure counts while closed. Zero never clears.
	Interval time.Duration

	// Timeout is how long the breaker stays open before a trial call.
	Timeout time.Duration

	// FailureThreshold is the consecutive failure count that opens the breaker.
	FailureThreshold uint32
}

// DefaultBreakerConfig returns conservative defaults for a slow backend.
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		Name:             "inference-backend",
		MaxRequests:      1,
		Interval:         time.Minute,
		Timeout:          30 * time.Second,
		FailureThreshold: 5,
	}
}

// BreakerScorer stops calling a failing backend for a while. When open,
// Score fails fast with ErrBackendUnavailable.
//
// Caller cancellation is not counted as a backend failure.
type BreakerScorer struct {
	next   Scorer
	cb     *gobreaker.CircuitBreaker[Response]
	name   string
	logger zerolog.Logger
}

// NewBreakerScorer wraps next.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewBreakerScorer(next Scorer, cfg BreakerConfig, logger zerolog.Logger) *BreakerScorer {
	if cfg.Name == "" {
		cfg.Name = DefaultBreakerConfig().Name
	}
	if cfg.FailureThreshold == 0 {
		cfg.FailureThreshold = DefaultBreakerConfig().FailureThreshold
	}

	b := &BreakerScorer{
		next:   next,
		name:   cfg.Name,
		logger: logger.With().Str("component", "inference_breaker").Str("breaker", cfg.Name).Logger(),
	}

	metrics.CircuitBreakerState.WithLabelValues(cfg.Name).Set(0)

	threshold := cfg.FailureThreshold
	b.cb = gobreaker.NewCircuitBreaker[Response](gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			trip := counts.ConsecutiveFailures >= threshold
			if trip {
				b.logger.Warn().Uint32("consecutive_failures", counts.ConsecutiveFailures).Msg("opening circuit")
			}
			return trip
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrCanceled) || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			fromStr, toStr := stateToString(from), stateToString(to)
			b.logger.Info().Str("from", fromStr).Str("to", toStr).Msg("circuit breaker state transition")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, fromStr, toStr).Inc()
		},
	})

	return b
}

// Name implements Scorer and reports the wrapped implementation.
func (b *BreakerScorer) Name() string { return b.next.Name() }

// State returns the breaker state as "closed", "half-open" or "open".
func (b *BreakerScorer) State() string { return stateToString(b.cb.State()) }

// Score implements Scorer.
func (b *BreakerScorer) Score(ctx context.Context, req *Request) (Response, error) {
	resp, err := b.cb.Execute(func() (Response, error) {
		return b.next.Score(ctx, req)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.CircuitBreakerRequests.WithLabelValues(b.name, "rejected").Inc()
			metrics.RecordInference(metrics.OutcomeUnavailable, 0)
			return nil, fmt.Errorf("%w: circuit %s: %w", ErrBackendUnavailable, b.name, err)
		}
		metrics.CircuitBreakerRequests.WithLabelValues(b.name, "failure").Inc()
		return nil, err
	}

	metrics.CircuitBreakerRequests.WithLabelValues(b.name, "success").Inc()
	return resp, nil
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}
