// Tripwise - Travel Package Point-of-Interest Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tripwise

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/tomtom215/tripwise/internal/models"
	"github.com/tomtom215/tripwise/internal/recommend"
)

// readyCheckTimeout bounds the catalog probe during readiness checks.
const readyCheckTimeout = 2 * time.Second

// HealthLive handles liveness probe requests.
// Returns 200 OK if the process is alive, regardless of dependencies.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, r, map[string]interface{}{
		"alive":  true,
		"uptime": time.Since(h.startTime).Seconds(),
	}, models.Metadata{})
}

// HealthReady handles readiness probe requests.
// Returns 503 when the catalog cannot be read, or when the breaker is open
// under the strict fallback policy. An open breaker under rule-only
// fallback, rules-only mode and the mock scorer are reported as degraded
// but still ready.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readyCheckTimeout)
	defer cancel()

	checks := map[string]string{}
	status := "healthy"
	ready := true

	count, err := h.store.Count(ctx)
	if err != nil {
		checks["catalog"] = "unavailable"
		status = "unhealthy"
		ready = false
	} else {
		checks["catalog"] = "ok"
	}

	breakerState := ""
	if h.breaker != nil {
		breakerState = h.breaker.State()
		checks["breaker"] = breakerState
		if breakerState == "open" {
			if h.engine.Config().FallbackPolicy == recommend.FallbackStrict {
				status = "unhealthy"
				ready = false
			} else if ready {
				status = "degraded"
			}
		}
	}

	algorithm := h.engine.Algorithm()
	checks["algorithm"] = algorithm
	if ready && algorithm != recommend.AlgorithmHybrid {
		status = "degraded"
	}

	health := models.HealthResponse{
		Status:   status,
		Version:  h.version,
		Uptime:   time.Since(h.startTime).Seconds(),
		Checks:   checks,
		Backend:  h.backend,
		Breaker:  breakerState,
		Packages: count,
	}

	if !ready {
		code := models.ErrCodeInferenceUnavailable
		if err != nil {
			code = models.ErrCodeCatalogUnavailable
		}
		respondAPIError(w, r, http.StatusServiceUnavailable, &models.APIError{
			Code:    code,
			Message: "Service not ready",
			Details: map[string]interface{}{"health": health},
		}, err)
		return
	}

	respondSuccess(w, r, health, models.Metadata{})
}
