// Tripwise - Travel Package Point-of-Interest Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tripwise

/*
Package services provides suture.Service wrappers for tripwise components.

Each wrapper implements the suture.Service interface:

	type Service interface {
	    Serve(ctx context.Context) error
	}

and identifies itself through fmt.Stringer for supervisor logs.

# Available Services

HTTP Server (HTTPServerService):
  - Wraps *http.Server with graceful shutdown

Artifact Sweeper (ArtifactSweeperService):
  - Deletes request artifacts left behind in the inference temp directory
    by a process that crashed mid-invocation

Cache Janitor (CacheJanitorService):
  - Periodically evicts expired entries from the external score cache

# Shutdown

Every service returns ctx.Err() when its context is canceled, which suture
treats as a clean stop.
*/
package services
