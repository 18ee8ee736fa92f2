// Tripwise - Travel Package Point-of-Interest Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tripwise

// Package inference runs the external scoring backend.
//
// The backend is reached through the Scorer interface. SubprocessScorer
// launches one process per request and exchanges data through a temporary
// JSON artifact and stdout; MockScorer produces random scores for
// development; BreakerScorer wraps either with a circuit breaker.
//
// # Wire contract
//
// The request artifact holds {"preferences": {...}, "places": [...]} and its
// absolute path is the only positional argument given to the entry point.
// The backend writes a JSON array of {"placeId", "score"} objects somewhere
// on stdout. Diagnostic text before the first '[' and after the last ']' is
// tolerated, so the payload itself must not be followed by text that
// contains ']'. Exit status 0 means success; stderr is surfaced otherwise.
package inference

import (
	"context"
)

// Scorer produces external scores for a batch of feature-projected places.
type Scorer interface {
	// Score returns one entry per place the backend chose to score. Places
	// may be missing from the response; callers reconcile by PlaceID.
	Score(ctx context.Context, req *Request) (Response, error)

	// Name identifies the implementation in logs and responses.
	Name() string
}

// Preferences is the profile as the backend sees it.
type Preferences struct {
	Age          int      `json:"age"`
	Gender       string   `json:"gender"`
	PlaceType    []string `json:"placeType"`
	Hobby        []string `json:"hobby"`
	Climate      string   `json:"climate"`
	HealthIssues []string `json:"health_issues"`
}

// Features is the flat per-place schema consumed by the backend.
type Features struct {
	PlaceType    []string `json:"place_type"`
	Hobby        []string `json:"hobby"`
	Climate      []string `json:"climate"`
	AgeMin       int      `json:"age_min"`
	AgeMax       int      `json:"age_max"`
	HealthIssues []string `json:"health_issues"`
	Facilities   []string `json:"facilities"`
}

// PlaceFeatures identifies a place and carries its projection.
type PlaceFeatures struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Features Features `json:"features"`
}

// Request is the IPC envelope written to the request artifact.
type Request struct {
	Preferences Preferences     `json:"preferences"`
	Places      []PlaceFeatures `json:"places"`
}

// Score is a single backend result.
type Score struct {
	PlaceID string  `json:"placeId"`
	Score   float64 `json:"score"`
}

// Response is the backend result list, in backend order.
type Response []Score

// ByPlace indexes the response by place ID. When the backend repeats an
// ID the first occurrence wins.
func (r Response) ByPlace() map[string]float64 {
	out := make(map[string]float64, len(r))
	for _, s := range r {
		if _, seen := out[s.PlaceID]; !seen {
			out[s.PlaceID] = s.Score
		}
	}
	return out
}
