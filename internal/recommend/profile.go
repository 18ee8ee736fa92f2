// Tripwise - Travel Package Point-of-Interest Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tripwise

package recommend

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/goccy/go-json"
)

// ErrInvalidProfile matches every ProfileError.
var ErrInvalidProfile = errors.New("invalid preference profile")

// ProfileError describes why raw input could not become a Profile.
type ProfileError struct {
	Field  string
	Reason string
}

func (e *ProfileError) Error() string {
	return fmt.Sprintf("invalid preference profile: %s %s", e.Field, e.Reason)
}

// Is matches ErrInvalidProfile.
func (e *ProfileError) Is(target error) bool { return target == ErrInvalidProfile }

// ProfileInput is raw traveler input as received from a caller.
type ProfileInput struct {
	Age               int
	Gender            string
	PlaceTypes        []string
	Hobbies           []string
	Climate           string
	Diseases          []string
	PhysicalDisorders []string
}

// Profile is a normalized, immutable traveler preference profile.
// Accessors return copies; the zero value is not a valid profile.
type Profile struct {
	age          int
	gender       string
	placeTypes   []string
	hobbies      []string
	climate      string
	healthIssues []string
}

// BuildProfile validates and normalizes in. Age must lie in [MinAge, MaxAge].
// Set members are trimmed, blank entries dropped, and duplicates removed
// keeping first-occurrence order. HealthIssues is the union of diseases
// and physical disorders.
func BuildProfile(in ProfileInput) (Profile, error) {
	if in.Age < MinAge || in.Age > MaxAge {
		return Profile{}, &ProfileError{
			Field:  "age",
			Reason: fmt.Sprintf("must be between %d and %d, got %d", MinAge, MaxAge, in.Age),
		}
	}

	gender := strings.ToLower(strings.TrimSpace(in.Gender))

	return Profile{
		age:          in.Age,
		gender:       gender,
		placeTypes:   normalizeSet(in.PlaceTypes),
		hobbies:      normalizeSet(in.Hobbies),
		climate:      strings.TrimSpace(in.Climate),
		healthIssues: normalizeSet(in.Diseases, in.PhysicalDisorders),
	}, nil
}

// Age returns the traveler's age.
func (p Profile) Age() int { return p.age }

// Gender returns the lower-cased gender, or "" when unspecified.
func (p Profile) Gender() string { return p.gender }

// PlaceTypes returns the requested place types.
func (p Profile) PlaceTypes() []string { return slices.Clone(p.placeTypes) }

// Hobbies returns the requested hobbies.
func (p Profile) Hobbies() []string { return slices.Clone(p.hobbies) }

// Climate returns the preferred climate, or "" when unspecified.
func (p Profile) Climate() string { return p.climate }

// HealthIssues returns the union of diseases and physical disorders.
func (p Profile) HealthIssues() []string { return slices.Clone(p.healthIssues) }

// Valid reports whether p came from BuildProfile.
func (p Profile) Valid() bool { return p.age >= MinAge }

// profileJSON is the echo of a profile in API responses.
type profileJSON struct {
	Age          int      `json:"age"`
	Gender       string   `json:"gender,omitempty"`
	PlaceTypes   []string `json:"placeType"`
	Hobbies      []string `json:"hobby"`
	Climate      string   `json:"climate,omitempty"`
	HealthIssues []string `json:"healthIssues"`
}

// MarshalJSON renders the profile for API responses.
func (p Profile) MarshalJSON() ([]byte, error) {
	return json.Marshal(profileJSON{
		Age:          p.age,
		Gender:       p.gender,
		PlaceTypes:   nonNil(p.placeTypes),
		Hobbies:      nonNil(p.hobbies),
		Climate:      p.climate,
		HealthIssues: nonNil(p.healthIssues),
	})
}

func normalizeSet(lists ...[]string) []string {
	out := make([]string, 0)
	seen := make(map[string]struct{})
	for _, list := range lists {
		for _, v := range list {
			v = strings.TrimSpace(v)
			if v == "" {
				continue
			}
			if _, dup := seen[v]; dup {
				continue
			}
			seen[v] = struct{}{}
			out = append(out, v)
		}
	}
	return out
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
