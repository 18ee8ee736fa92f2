// Tripwise - Travel Package Point-of-Interest Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tripwise

// Package config provides layered configuration for the tripwise server.
//
// Configuration is loaded in three layers, later layers overriding earlier ones:
//
//  1. Struct defaults (defaultConfig)
//  2. An optional YAML file (CONFIG_PATH, ./config.yaml, /etc/tripwise/config.yaml)
//  3. Environment variables, through an explicit mapping table
//
// The loaded Config is validated before it is returned. Section helpers
// convert the flat configuration into the option types the inference,
// backend, and recommend packages consume.
package config

import (
	"path/filepath"
	"time"

	"github.com/tomtom215/tripwise/internal/backend"
	"github.com/tomtom215/tripwise/internal/catalog"
	"github.com/tomtom215/tripwise/internal/inference"
	"github.com/tomtom215/tripwise/internal/logging"
	"github.com/tomtom215/tripwise/internal/recommend"
)

// Environment modes.
const (
	EnvDevelopment = "development"
	EnvStaging     = "staging"
	EnvProduction  = "production"
)

// Config is the complete server configuration.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Logging   LoggingConfig   `koanf:"logging"`
	Inference InferenceConfig `koanf:"inference"`
	Recommend RecommendConfig `koanf:"recommend"`
	Catalog   CatalogConfig   `koanf:"catalog"`
	Security  SecurityConfig  `koanf:"security"`
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	Environment     string        `koanf:"environment"` // development, staging, production
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	Level string `koanf:"level"`

	// Format is json or console.
	Format string `koanf:"format"`

	// Caller includes caller file and line number in logs.
	Caller bool `koanf:"caller"`
}

// InferenceConfig controls the external scoring backend.
type InferenceConfig struct {
	// Enabled turns on the subprocess backend. When false the engine
	// uses the mock scorer if MockFallback is set, otherwise rules only.
	Enabled bool `koanf:"enabled"`

	Candidates     []string `koanf:"candidates"`
	EntryPoint     string   `koanf:"entry_point"`
	ModelArtifacts []string `koanf:"model_artifacts"`
	BaseDir        string   `koanf:"base_dir"`

	TempDir    string        `koanf:"temp_dir"`
	Timeout    time.Duration `koanf:"timeout"`
	SpawnRate  float64       `koanf:"spawn_rate"`
	SpawnBurst int           `koanf:"spawn_burst"`

	// MockFallback substitutes the mock scorer when the availability
	// guard fails outside production.
	MockFallback bool `koanf:"mock_fallback"`

	Breaker BreakerConfig `koanf:"breaker"`

	SweepInterval time.Duration `koanf:"sweep_interval"`
	SweepMaxAge   time.Duration `koanf:"sweep_max_age"`
}

// BreakerConfig tunes the circuit breaker around the backend.
type BreakerConfig struct {
	Enabled          bool          `koanf:"enabled"`
	MaxRequests      uint32        `koanf:"max_requests"`
	Interval         time.Duration `koanf:"interval"`
	Timeout          time.Duration `koanf:"timeout"`
	FailureThreshold uint32        `koanf:"failure_threshold"`
}

// RecommendConfig holds hybrid ranking settings.
type RecommendConfig struct {
	ExternalWeight float64       `koanf:"external_weight"`
	RuleWeight     float64       `koanf:"rule_weight"`
	FallbackPolicy string        `koanf:"fallback_policy"`
	UnscoredPolicy string        `koanf:"unscored_policy"`
	CacheTTL       time.Duration `koanf:"cache_ttl"`
	ModelVersion   string        `koanf:"model_version"`
}

// CatalogConfig selects the tour package store.
type CatalogConfig struct {
	Backend  string `koanf:"backend"` // memory or badger
	Path     string `koanf:"path"`
	SeedFile string `koanf:"seed_file"`
}

// SecurityConfig holds HTTP edge protections.
type SecurityConfig struct {
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// Load reads configuration using the layered koanf loader.
func Load() (*Config, error) {
	return LoadWithKoanf()
}

// IsProduction reports whether the server runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == EnvProduction
}

// LoggingOptions converts the logging section.
func (c *Config) LoggingOptions() logging.Config {
	lc := logging.DefaultConfig()
	lc.Level = c.Logging.Level
	if c.Logging.Format != "" {
		lc.Format = c.Logging.Format
	}
	lc.Caller = c.Logging.Caller
	return lc
}

// BackendOptions converts the inference section into guard options.
func (c *Config) BackendOptions() backend.Config {
	return backend.Config{
		Candidates:     append([]string(nil), c.Inference.Candidates...),
		EntryPoint:     c.Inference.EntryPoint,
		ModelArtifacts: append([]string(nil), c.Inference.ModelArtifacts...),
		BaseDir:        c.Inference.BaseDir,
		Production:     c.IsProduction(),
	}
}

// SubprocessOptions converts the inference section into orchestrator options.
// A relative temp dir is resolved against BaseDir when one is set.
func (c *Config) SubprocessOptions() inference.SubprocessConfig {
	tempDir := c.Inference.TempDir
	if c.Inference.BaseDir != "" && !filepath.IsAbs(tempDir) {
		tempDir = filepath.Join(c.Inference.BaseDir, tempDir)
	}
	return inference.SubprocessConfig{
		TempDir:    tempDir,
		Timeout:    c.Inference.Timeout,
		SpawnRate:  c.Inference.SpawnRate,
		SpawnBurst: c.Inference.SpawnBurst,
	}
}

// BreakerOptions converts the breaker section.
func (c *Config) BreakerOptions() inference.BreakerConfig {
	bc := inference.DefaultBreakerConfig()
	bc.MaxRequests = c.Inference.Breaker.MaxRequests
	bc.Interval = c.Inference.Breaker.Interval
	bc.Timeout = c.Inference.Breaker.Timeout
	bc.FailureThreshold = c.Inference.Breaker.FailureThreshold
	return bc
}

// RecommendOptions converts the recommend section into engine options.
func (c *Config) RecommendOptions() recommend.Config {
	return recommend.Config{
		ExternalWeight: c.Recommend.ExternalWeight,
		RuleWeight:     c.Recommend.RuleWeight,
		FallbackPolicy: recommend.FallbackPolicy(c.Recommend.FallbackPolicy),
		UnscoredPolicy: recommend.UnscoredPolicy(c.Recommend.UnscoredPolicy),
		CacheTTL:       c.Recommend.CacheTTL,
		ModelVersion:   c.Recommend.ModelVersion,
	}
}

// CatalogStoreType returns the configured store backend.
func (c *Config) CatalogStoreType() catalog.StoreType {
	return catalog.StoreType(c.Catalog.Backend)
}
