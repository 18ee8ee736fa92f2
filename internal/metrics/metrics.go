// Tripwise - Travel Package Point-of-Interest Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tripwise

// Package metrics defines the Prometheus collectors exported on /metrics.
//
// Collectors are registered with the default registry via promauto. Callers
// use the Record* helpers rather than touching the vectors directly so label
// values stay consistent.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "tripwise"

// Inference outcome label values.
const (
	OutcomeSuccess       = "success"
	OutcomeTimeout       = "timeout"
	OutcomeSpawnError    = "spawn_error"
	OutcomeNonZeroExit   = "non_zero_exit"
	OutcomeInvalidOutput = "invalid_output"
	OutcomeUnavailable   = "unavailable"
	OutcomeCanceled      = "canceled"
)

var (
	// External inference metrics
	InferenceInvocations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "inference_invocations_total",
			Help:      "Total number of external inference invocations by outcome",
		},
		[]string{"outcome"},
	)

	InferenceDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "inference_duration_seconds",
			Help:      "Wall-clock duration of external inference invocations",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20, 30, 50, 60},
		},
		[]string{"outcome"},
	)

	InferenceInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "inference_in_flight",
			Help:      "Number of external inference subprocesses currently running",
		},
	)

	ArtifactCleanupFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "inference_artifact_cleanup_failures_total",
			Help:      "Temporary request artifacts that could not be removed",
		},
	)

	ArtifactsSwept = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "inference_artifacts_swept_total",
			Help:      "Stale request artifacts removed by the sweeper",
		},
	)

	// Recommendation metrics
	Recommendations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "recommendations_total",
			Help:      "Total number of recommendation requests served by algorithm",
		},
		[]string{"algorithm"}, // hybrid, rule_based, mock
	)

	RecommendFallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "recommend_fallbacks_total",
			Help:      "Requests that fell back to rule-only scoring",
		},
		[]string{"reason"},
	)

	PlacesUnscored = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "places_unscored_total",
			Help:      "Places missing from the external scorer response",
		},
	)

	RuleScores = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "rule_score",
			Help:      "Distribution of rule-based suitability scores",
			Buckets:   prometheus.LinearBuckets(0, 10, 11),
		},
	)

	ExternalCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "external_cache_hits_total",
			Help:      "External score lookups served from cache",
		},
	)

	ExternalCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "external_cache_misses_total",
			Help:      "External score lookups that required an invocation",
		},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "circuit_breaker_state",
			Help:      "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "circuit_breaker_requests_total",
			Help:      "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "circuit_breaker_state_transitions_total",
			Help:      "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "api_requests_total",
			Help:      "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "api_request_duration_seconds",
			Help:      "API request duration in seconds",
			Buckets:   []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "api_active_requests",
			Help:      "Current number of active API requests",
		},
	)
)

// RecordInference records one finished external invocation.
func RecordInference(outcome string, duration time.Duration) {
	InferenceInvocations.WithLabelValues(outcome).Inc()
	InferenceDuration.WithLabelValues(outcome).Observe(duration.Seconds())
}

// TrackInferenceInFlight adjusts the in-flight subprocess gauge.
func TrackInferenceInFlight(inc bool) {
	if inc {
		InferenceInFlight.Inc()
	} else {
		InferenceInFlight.Dec()
	}
}

// RecordArtifactCleanupFailure counts an artifact that could not be removed.
func RecordArtifactCleanupFailure() {
	ArtifactCleanupFailures.Inc()
}

// RecordArtifactsSwept counts stale artifacts removed by the sweeper.
func RecordArtifactsSwept(n int) {
	if n > 0 {
		ArtifactsSwept.Add(float64(n))
	}
}

// RecordRecommendation counts a served recommendation request.
func RecordRecommendation(algorithm string) {
	Recommendations.WithLabelValues(algorithm).Inc()
}

// RecordFallback counts a request degraded to rule-only scoring.
func RecordFallback(reason string) {
	RecommendFallbacks.WithLabelValues(reason).Inc()
}

// RecordUnscoredPlaces counts places absent from an external response.
func RecordUnscoredPlaces(n int) {
	if n > 0 {
		PlacesUnscored.Add(float64(n))
	}
}

// RecordRuleScore observes a single rule-based score.
func RecordRuleScore(score int) {
	RuleScores.Observe(float64(score))
}

// RecordExternalCache records an external score cache lookup.
func RecordExternalCache(hit bool) {
	if hit {
		ExternalCacheHits.Inc()
	} else {
		ExternalCacheMisses.Inc()
	}
}

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}
