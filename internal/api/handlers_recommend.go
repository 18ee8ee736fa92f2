// Tripwise - Travel Package Point-of-Interest Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tripwise

package api

import (
	"net/http"

	"github.com/tomtom215/tripwise/internal/models"
	"github.com/tomtom215/tripwise/internal/recommend"
)

// Recommendations handles POST /api/v1/recommendations for callers that
// supply their own places.
func (h *Handler) Recommendations(w http.ResponseWriter, r *http.Request) {
	var req models.RecommendationsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondBadRequest(w, r, err)
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondAPIError(w, r, http.StatusBadRequest, apiErr, nil)
		return
	}

	resp, res, err := h.recommend(r, &req.Preferences, req.Places)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	respondSuccess(w, r, resp, models.Metadata{
		QueryTimeMS: res.Latency.Milliseconds(),
		Cached:      res.CacheHit,
	})
}

// recommend builds the profile and runs the engine.
func (h *Handler) recommend(r *http.Request, prefs *models.PreferencesRequest, places []recommend.Place) (*models.RecommendationsResponse, *recommend.Result, error) {
	profile, err := recommend.BuildProfile(prefs.ProfileInput())
	if err != nil {
		return nil, nil, err
	}

	res, err := h.engine.Recommend(r.Context(), profile, places)
	if err != nil {
		return nil, nil, err
	}
	return models.NewRecommendationsResponse(profile, res), res, nil
}
