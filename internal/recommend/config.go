// Tripwise - Travel Package Point-of-Interest Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tripwise

package recommend

import (
	"fmt"
	"math"
	"time"
)

// FallbackPolicy decides what happens when the external scorer fails.
type FallbackPolicy string

const (
	// FallbackRuleOnly ranks by rule score alone and marks the result degraded.
	FallbackRuleOnly FallbackPolicy = "rule_only"
	// FallbackStrict returns the external failure to the caller.
	FallbackStrict FallbackPolicy = "strict"
)

// UnscoredPolicy decides how a place missing from a successful external
// response is combined.
type UnscoredPolicy string

const (
	// UnscoredZero treats the missing external score as 0.
	UnscoredZero UnscoredPolicy = "zero"
	// UnscoredRuleOnly ranks the missing place by its rule score alone.
	UnscoredRuleOnly UnscoredPolicy = "rule_only"
)

// Algorithm names reported with every result.
const (
	AlgorithmHybrid    = "hybrid"
	AlgorithmRuleBased = "rule_based"
	AlgorithmMock      = "mock"
)

// Config controls score combination and failure handling.
type Config struct {
	// ExternalWeight and RuleWeight must sum to 1.
	ExternalWeight float64 `koanf:"external_weight"`
	RuleWeight     float64 `koanf:"rule_weight"`

	FallbackPolicy FallbackPolicy `koanf:"fallback_policy"`
	UnscoredPolicy UnscoredPolicy `koanf:"unscored_policy"`

	// CacheTTL memoizes external responses per identical request. Zero disables.
	CacheTTL time.Duration `koanf:"cache_ttl"`

	// ModelVersion is echoed in responses.
	ModelVersion string `koanf:"model_version"`
}

// DefaultConfig returns the production defaults.
func DefaultConfig() Config {
	return Config{
		ExternalWeight: 0.6,
		RuleWeight:     0.4,
		FallbackPolicy: FallbackRuleOnly,
		UnscoredPolicy: UnscoredZero,
		CacheTTL:       0,
		ModelVersion:   "1.0",
	}
}

// Validate checks the configuration for consistency.
func (c *Config) Validate() error {
	if c.ExternalWeight < 0 || c.ExternalWeight > 1 {
		return fmt.Errorf("external_weight must be in [0, 1], got %f", c.ExternalWeight)
	}
	if c.RuleWeight < 0 || c.RuleWeight > 1 {
		return fmt.Errorf("rule_weight must be in [0, 1], got %f", c.RuleWeight)
	}
	if math.Abs(c.ExternalWeight+c.RuleWeight-1) > 1e-9 {
		return fmt.Errorf("external_weight + rule_weight must equal 1, got %f", c.ExternalWeight+c.RuleWeight)
	}

	switch c.FallbackPolicy {
	case FallbackRuleOnly, FallbackStrict:
	default:
		return fmt.Errorf("fallback_policy must be %q or %q, got %q", FallbackRuleOnly, FallbackStrict, c.FallbackPolicy)
	}

	switch c.UnscoredPolicy {
	case UnscoredZero, UnscoredRuleOnly:
	default:
		return fmt.Errorf("unscored_policy must be %q or %q, got %q", UnscoredZero, UnscoredRuleOnly, c.UnscoredPolicy)
	}

	if c.CacheTTL < 0 {
		return fmt.Errorf("cache_ttl must be non-negative, got %v", c.CacheTTL)
	}
	if c.ModelVersion == "" {
		return fmt.Errorf("model_version is required")
	}
	return nil
}
