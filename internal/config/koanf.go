// Tripwise - Travel Package Point-of-Interest Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tripwise

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/tomtom215/tripwise/internal/backend"
	"github.com/tomtom215/tripwise/internal/inference"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/tripwise/config.yaml",
	"/etc/tripwise/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config struct with all sensible default values.
// These defaults are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            3857,
			Environment:     EnvDevelopment,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    90 * time.Second, // must outlast the inference timeout
			ShutdownTimeout: 30 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
		Inference: InferenceConfig{
			Enabled:    true,
			Candidates: append([]string(nil), backend.DefaultCandidates...),
			EntryPoint: "ml/predict.py",
			ModelArtifacts: append([]string(nil), backend.DefaultModelArtifacts...),
			TempDir:      "temp",
			Timeout:      inference.DefaultTimeout,
			SpawnRate:    0, // unlimited
			SpawnBurst:   1,
			MockFallback: true,
			Breaker: BreakerConfig{
				Enabled:          true,
				MaxRequests:      1,
				Interval:         time.Minute,
				Timeout:          30 * time.Second,
				FailureThreshold: 5,
			},
			SweepInterval: 10 * time.Minute,
			SweepMaxAge:   defaultSweepMaxAge,
		},
		Recommend: RecommendConfig{
			ExternalWeight: 0.6,
			RuleWeight:     0.4,
			FallbackPolicy: "rule_only",
			UnscoredPolicy: "zero",
			CacheTTL:       0,
			ModelVersion:   "1.0",
		},
		Catalog: CatalogConfig{
			Backend:  "memory",
			Path:     "/data/catalog",
			SeedFile: "",
		},
		Security: SecurityConfig{
			CORSOrigins:       []string{"*"},
			RateLimitReqs:     100,
			RateLimitWindow:   time.Minute,
			RateLimitDisabled: false,
		},
	}
}

// LoadWithKoanf loads configuration using Koanf with layered sources:
//  1. Struct defaults
//  2. Config file (optional)
//  3. Environment variables (highest priority)
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	// Layer 1: Load defaults from struct
	defaults := defaultConfig()
	if err := k.Load(structs.Provider(defaults, "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: Load config file (optional)
	configPath := findConfigFile()
	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: Load environment variables (highest priority)
	envProvider := env.Provider("", ".", envTransformFunc)
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	// Post-process slice fields from comma-separated strings
	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile searches for a config file in the default paths.
// Returns the path to the first file found, or empty string if none found.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths defines which config paths should be parsed as comma-separated slices
var sliceConfigPaths = []string{
	"security.cors_origins",
	"inference.candidates",
	"inference.model_artifacts",
}

// processSliceFields converts comma-separated string values to slices for known slice fields.
// Env vars arrive as strings, but the config expects slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		val := k.Get(path)
		if val == nil {
			continue
		}

		// Already a slice (from YAML or defaults)
		if _, ok := val.([]interface{}); ok {
			continue
		}
		if _, ok := val.([]string); ok {
			continue
		}

		strVal, ok := val.(string)
		if !ok || strVal == "" {
			continue
		}
		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) > 0 {
			if err := k.Set(path, trimmed); err != nil {
				return fmt.Errorf("failed to set %s: %w", path, err)
			}
		}
	}
	return nil
}

// envMappings maps environment variable names (lower-cased) to koanf paths.
var envMappings = map[string]string{
	// Server mappings
	"http_host":        "server.host",
	"http_port":        "server.port",
	"environment":      "server.environment",
	"read_timeout":     "server.read_timeout",
	"write_timeout":    "server.write_timeout",
	"shutdown_timeout": "server.shutdown_timeout",

	// Logging mappings
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",

	// Inference mappings
	"inference_enabled":         "inference.enabled",
	"inference_candidates":      "inference.candidates",
	"inference_entry_point":     "inference.entry_point",
	"inference_model_artifacts": "inference.model_artifacts",
	"inference_base_dir":        "inference.base_dir",
	"inference_temp_dir":        "inference.temp_dir",
	"inference_timeout":         "inference.timeout",
	"inference_spawn_rate":      "inference.spawn_rate",
	"inference_spawn_burst":     "inference.spawn_burst",
	"inference_mock_fallback":   "inference.mock_fallback",
	"inference_sweep_interval":  "inference.sweep_interval",
	"inference_sweep_max_age":   "inference.sweep_max_age",

	// Circuit breaker mappings
	"breaker_enabled":           "inference.breaker.enabled",
	"breaker_max_requests":      "inference.breaker.max_requests",
	"breaker_interval":          "inference.breaker.interval",
	"breaker_timeout":           "inference.breaker.timeout",
	"breaker_failure_threshold": "inference.breaker.failure_threshold",

	// Recommendation mappings
	"external_weight": "recommend.external_weight",
	"rule_weight":     "recommend.rule_weight",
	"fallback_policy": "recommend.fallback_policy",
	"unscored_policy": "recommend.unscored_policy",
	"score_cache_ttl": "recommend.cache_ttl",
	"model_version":   "recommend.model_version",

	// Catalog mappings
	"catalog_backend":   "catalog.backend",
	"catalog_path":      "catalog.path",
	"catalog_seed_file": "catalog.seed_file",

	// Security mappings
	"cors_origins":        "security.cors_origins",
	"rate_limit_requests": "security.rate_limit_reqs",
	"rate_limit_window":   "security.rate_limit_window",
	"disable_rate_limit":  "security.rate_limit_disabled",
}

// envTransformFunc transforms environment variable names to koanf config paths.
//
// Examples:
//   - HTTP_PORT -> server.port
//   - INFERENCE_TIMEOUT -> inference.timeout
//   - BREAKER_FAILURE_THRESHOLD -> inference.breaker.failure_threshold
//   - FALLBACK_POLICY -> recommend.fallback_policy
//   - CATALOG_BACKEND -> catalog.backend
func envTransformFunc(key string) string {
	key = strings.ToLower(key)

	if mapped, ok := envMappings[key]; ok {
		return mapped
	}

	// Unmapped variables are skipped so the environment cannot pollute config
	return ""
}
