// Tripwise - Travel Package Point-of-Interest Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tripwise

/*
Package main is the entry point for the Tripwise server.

Tripwise ranks the points of interest in a travel package for a traveler.
Each place gets a deterministic rule score from the traveler's preference
profile, and optionally an external score from a model-backed inference
process. The two are blended 0.6 external / 0.4 rule.

# Application Architecture

	RootSupervisor ("tripwise")
	├── MaintenanceSupervisor ("maintenance-layer")
	│   ├── Artifact sweeper (stale inference input files)
	│   └── Cache janitor (score cache, when enabled)
	└── APISupervisor ("api-layer")
	    └── HTTP Server

Component initialization order:

 1. Configuration: Koanf v2 with environment variables and config files
 2. Logging: zerolog with JSON/console output modes
 3. Availability guard: resolves the interpreter and entry point
 4. Scorer: subprocess backend behind a circuit breaker, or the mock
 5. Engine: profile builder, rule scorer and hybrid ranker
 6. Catalog: memory or BadgerDB store, optionally seeded from a file
 7. Supervisor Tree: Suture v4 process supervision
 8. HTTP Server: Chi router with middleware stack

# Configuration

	Priority: Environment variables > Config file > Defaults

Core environment variables:

	HTTP_PORT=3857
	ENVIRONMENT=development      # development, staging, production
	LOG_LEVEL=info
	LOG_FORMAT=json

	INFERENCE_ENABLED=true
	INFERENCE_BASE_DIR=/opt/tripwise
	INFERENCE_ENTRY_POINT=ml/predict.py
	INFERENCE_TIMEOUT=50s
	INFERENCE_MOCK_FALLBACK=true # ignored in production

	FALLBACK_POLICY=rule_only    # rule_only or strict
	CATALOG_BACKEND=badger
	CATALOG_PATH=/data/catalog
	CATALOG_SEED_FILE=/data/packages.json

# Signal Handling

The server shuts down gracefully on SIGINT and SIGTERM. In-flight requests
are drained, in-flight inference processes are killed with their context,
and the catalog store is closed last.
*/
package main
