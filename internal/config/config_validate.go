// Tripwise - Travel Package Point-of-Interest Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tripwise

package config

import (
	"fmt"
	"time"

	"github.com/tomtom215/tripwise/internal/catalog"
)

// Validate checks that required configuration is present and valid
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}

	if err := c.validateInference(); err != nil {
		return err
	}

	if err := c.validateRecommend(); err != nil {
		return err
	}

	if err := c.validateCatalog(); err != nil {
		return err
	}

	if err := c.validateSecurity(); err != nil {
		return err
	}

	return c.validateLogging()
}

var validEnvironments = map[string]bool{
	EnvDevelopment: true,
	EnvStaging:     true,
	EnvProduction:  true,
}

// validateServer validates the HTTP listener configuration
func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535")
	}
	if !validEnvironments[c.Server.Environment] {
		return fmt.Errorf("ENVIRONMENT must be one of: development, staging, production")
	}
	if c.Server.ReadTimeout < 0 || c.Server.WriteTimeout < 0 || c.Server.ShutdownTimeout < 0 {
		return fmt.Errorf("server timeouts must not be negative")
	}
	return nil
}

// validateInference validates the external backend configuration.
// Most fields only matter when the backend is enabled.
func (c *Config) validateInference() error {
	if c.Inference.SweepMaxAge < 0 || c.Inference.SweepInterval < 0 {
		return fmt.Errorf("INFERENCE_SWEEP_INTERVAL and INFERENCE_SWEEP_MAX_AGE must not be negative")
	}
	if !c.Inference.Enabled {
		return nil
	}
	if c.Inference.EntryPoint == "" {
		return fmt.Errorf("INFERENCE_ENTRY_POINT is required when INFERENCE_ENABLED=true")
	}
	if c.Inference.TempDir == "" {
		return fmt.Errorf("INFERENCE_TEMP_DIR is required when INFERENCE_ENABLED=true")
	}
	if c.Inference.Timeout <= 0 {
		return fmt.Errorf("INFERENCE_TIMEOUT must be positive")
	}
	maxAge := c.Inference.SweepMaxAge
	if maxAge == 0 {
		maxAge = defaultSweepMaxAge
	}
	if maxAge <= c.Inference.Timeout {
		return fmt.Errorf("INFERENCE_SWEEP_MAX_AGE (%s) must exceed INFERENCE_TIMEOUT (%s)", maxAge, c.Inference.Timeout)
	}
	if c.Inference.SpawnRate < 0 {
		return fmt.Errorf("INFERENCE_SPAWN_RATE must not be negative")
	}
	if c.Inference.SpawnRate > 0 && c.Inference.SpawnBurst < 1 {
		return fmt.Errorf("INFERENCE_SPAWN_BURST must be at least 1 when INFERENCE_SPAWN_RATE is set")
	}
	return c.validateBreaker()
}

// validateBreaker validates the circuit breaker configuration
func (c *Config) validateBreaker() error {
	b := c.Inference.Breaker
	if !b.Enabled {
		return nil
	}
	if b.FailureThreshold < 1 {
		return fmt.Errorf("BREAKER_FAILURE_THRESHOLD must be at least 1")
	}
	if b.MaxRequests < 1 {
		return fmt.Errorf("BREAKER_MAX_REQUESTS must be at least 1")
	}
	if b.Timeout <= 0 {
		return fmt.Errorf("BREAKER_TIMEOUT must be positive")
	}
	return nil
}

// validateRecommend delegates to the engine's own option checks
func (c *Config) validateRecommend() error {
	opts := c.RecommendOptions()
	if err := opts.Validate(); err != nil {
		return fmt.Errorf("recommend: %w", err)
	}
	return nil
}

// validateCatalog validates the package store selection
func (c *Config) validateCatalog() error {
	switch c.CatalogStoreType() {
	case catalog.StoreMemory:
		return nil
	case catalog.StoreBadger:
		if c.Catalog.Path == "" {
			return fmt.Errorf("CATALOG_PATH is required when CATALOG_BACKEND=badger")
		}
		return nil
	default:
		return fmt.Errorf("CATALOG_BACKEND must be one of: memory, badger")
	}
}

// validateSecurity validates HTTP edge protections
func (c *Config) validateSecurity() error {
	if len(c.Security.CORSOrigins) == 0 {
		return fmt.Errorf("CORS_ORIGINS must list at least one origin")
	}
	return c.validateRateLimits()
}

// hasWildcardCORS checks if CORS is configured with wildcard origins
func (c *Config) hasWildcardCORS() bool {
	for _, origin := range c.Security.CORSOrigins {
		if origin == "*" {
			return true
		}
	}
	return false
}

// ShouldWarnAboutCORS returns true if CORS configuration has security concerns
// that should be logged at startup
func (c *Config) ShouldWarnAboutCORS() bool {
	return c.IsProduction() && c.hasWildcardCORS()
}

// Rate limit constants
const (
	minRateLimitRequests = 1           // Minimum 1 request allowed
	maxRateLimitRequests = 100000      // Maximum 100K requests per window
	minRateLimitWindow   = time.Second // Minimum 1 second window
	maxRateLimitWindow   = time.Hour   // Maximum 1 hour window
)

// defaultSweepMaxAge is what the artifact sweeper uses when sweep_max_age is 0.
const defaultSweepMaxAge = time.Hour

// validateRateLimits validates rate limiting configuration bounds.
func (c *Config) validateRateLimits() error {
	if c.Security.RateLimitDisabled {
		return nil
	}

	if err := c.validateRateLimitRequests(); err != nil {
		return err
	}
	return c.validateRateLimitWindow()
}

// validateRateLimitRequests validates the rate limit requests value
func (c *Config) validateRateLimitRequests() error {
	if c.Security.RateLimitReqs < minRateLimitRequests || c.Security.RateLimitReqs > maxRateLimitRequests {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be between %d and %d", minRateLimitRequests, maxRateLimitRequests)
	}
	return nil
}

// validateRateLimitWindow validates the rate limit window value
func (c *Config) validateRateLimitWindow() error {
	if c.Security.RateLimitWindow < minRateLimitWindow || c.Security.RateLimitWindow > maxRateLimitWindow {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be between %v and %v", minRateLimitWindow, maxRateLimitWindow)
	}
	return nil
}

// validLogLevels defines the allowed log levels
var validLogLevels = map[string]bool{
	"trace": true,
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// validLogFormats defines the allowed log formats
var validLogFormats = map[string]bool{
	"json":    true,
	"console": true,
}

// validateLogging validates logging configuration
func (c *Config) validateLogging() error {
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("LOG_LEVEL must be one of: trace, debug, info, warn, error")
	}
	if c.Logging.Format != "" && !validLogFormats[c.Logging.Format] {
		return fmt.Errorf("LOG_FORMAT must be one of: json, console")
	}
	return nil
}
