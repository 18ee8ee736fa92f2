// Tripwise - Travel Package Point-of-Interest Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tripwise

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/tripwise/internal/logging"
	"github.com/tomtom215/tripwise/internal/models"
)

// ListPackages handles GET /api/v1/packages
func (h *Handler) ListPackages(w http.ResponseWriter, r *http.Request) {
	pkgs, err := h.store.List(r.Context())
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	respondSuccess(w, r, map[string]interface{}{
		"packages": pkgs,
		"count":    len(pkgs),
	}, models.Metadata{})
}

// GetPackage handles GET /api/v1/packages/{id}
func (h *Handler) GetPackage(w http.ResponseWriter, r *http.Request) {
	pkg, err := h.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	respondSuccess(w, r, pkg, models.Metadata{})
}

// CustomizePackage handles POST /api/v1/packages/{id}/customize.
// It ranks the package's places against the traveler preferences in the
// body.
func (h *Handler) CustomizePackage(w http.ResponseWriter, r *http.Request) {
	var req models.PreferencesRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondBadRequest(w, r, err)
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondAPIError(w, r, http.StatusBadRequest, apiErr, nil)
		return
	}

	id := chi.URLParam(r, "id")
	r = r.WithContext(logging.ContextWithPackageID(r.Context(), id))

	pkg, err := h.store.Get(r.Context(), id)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	resp, res, err := h.recommend(r, &req, pkg.Places)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	resp.Package = &models.PackageSummary{ID: pkg.ID, Name: pkg.Name}

	respondSuccess(w, r, resp, models.Metadata{
		QueryTimeMS: res.Latency.Milliseconds(),
		Cached:      res.CacheHit,
	})
}
