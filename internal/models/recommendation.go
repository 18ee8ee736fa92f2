// Tripwise - Travel Package Point-of-Interest Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tripwise

package models

import (
	"github.com/tomtom215/tripwise/internal/recommend"
)

// PreferencesRequest is traveler input as sent by clients.
type PreferencesRequest struct {
	Age               int      `json:"age" validate:"required,min=1,max=120"`
	Gender            string   `json:"gender" validate:"omitempty,gender"`
	PlaceTypes        []string `json:"placeType" validate:"dive,placetype"`
	Hobbies           []string `json:"hobby" validate:"dive,hobby"`
	Climate           string   `json:"climate" validate:"omitempty,climate"`
	Diseases          []string `json:"diseases" validate:"dive,disease"`
	PhysicalDisorders []string `json:"physicalDisorders" validate:"dive,disorder"`
}

// ProfileInput converts the request into builder input.
func (r *PreferencesRequest) ProfileInput() recommend.ProfileInput {
	return recommend.ProfileInput{
		Age:               r.Age,
		Gender:            r.Gender,
		PlaceTypes:        r.PlaceTypes,
		Hobbies:           r.Hobbies,
		Climate:           r.Climate,
		Diseases:          r.Diseases,
		PhysicalDisorders: r.PhysicalDisorders,
	}
}

// RecommendationsRequest ranks caller-supplied places.
// POST /api/v1/recommendations
type RecommendationsRequest struct {
	Preferences PreferencesRequest `json:"preferences"`
	Places      []recommend.Place  `json:"places" validate:"required,min=1,max=500,dive"`
}

// PackageSummary identifies the package a customization was built for.
type PackageSummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Recommendation is one ranked place.
type Recommendation struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Description    string   `json:"description"`
	Score          float64  `json:"score"`
	RuleScore      int      `json:"ruleScore"`
	ExternalScore  *float64 `json:"externalScore"`
	WhyRecommended []string `json:"whyRecommended"`
	Images         []string `json:"images"`
	PlaceTypes     []string `json:"placeType"`
	Unscored       bool     `json:"unscored,omitempty"`
}

// RecommendationsResponse is the ranked result.
type RecommendationsResponse struct {
	Package         *PackageSummary   `json:"package,omitempty"`
	UserPreferences recommend.Profile `json:"userPreferences"`
	Recommendations []Recommendation  `json:"recommendations"`
	Algorithm       string            `json:"algorithm"`
	ModelVersion    string            `json:"modelVersion"`
	Degraded        bool              `json:"degraded,omitempty"`
	FallbackReason  string            `json:"fallbackReason,omitempty"`
}

// NewRecommendationsResponse converts an engine result.
func NewRecommendationsResponse(profile recommend.Profile, res *recommend.Result) *RecommendationsResponse {
	recs := make([]Recommendation, len(res.Places))
	for i := range res.Places {
		sp := &res.Places[i]
		recs[i] = Recommendation{
			ID:             sp.Place.ID,
			Name:           sp.Place.Name,
			Description:    sp.Place.Description,
			Score:          sp.CombinedScore,
			RuleScore:      sp.RuleScore,
			ExternalScore:  sp.ExternalScore,
			WhyRecommended: sp.Reasons,
			Images:         orEmpty(sp.Place.Images),
			PlaceTypes:     orEmpty(sp.Place.PlaceTypes),
			Unscored:       sp.Unscored,
		}
	}

	return &RecommendationsResponse{
		UserPreferences: profile,
		Recommendations: recs,
		Algorithm:       res.Algorithm,
		ModelVersion:    res.ModelVersion,
		Degraded:        res.Degraded,
		FallbackReason:  res.FallbackReason,
	}
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// HealthResponse is returned by the health endpoints.
type HealthResponse struct {
	Status   string            `json:"status"`
	Version  string            `json:"version,omitempty"`
	Uptime   float64           `json:"uptime_seconds"`
	Checks   map[string]string `json:"checks,omitempty"`
	Backend  string            `json:"backend,omitempty"`
	Breaker  string            `json:"breaker,omitempty"`
	Packages int               `json:"packages"`
}
