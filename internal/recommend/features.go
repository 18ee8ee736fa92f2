// Tripwise - Travel Package Point-of-Interest Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tripwise

package recommend

import (
	"slices"

	"github.com/tomtom215/tripwise/internal/inference"
)

// Defaults used in the backend projection of a profile.
const (
	UnknownGender = "unknown"
)

// ExtractFeatures projects place into the flat schema consumed by the
// external scorer. Description, images and other presentation fields are
// not carried over.
func ExtractFeatures(place *Place) inference.PlaceFeatures {
	ages := place.Ages()
	hc := place.Suitability.HealthConsiderations

	return inference.PlaceFeatures{
		ID:   place.ID,
		Name: place.Name,
		Features: inference.Features{
			PlaceType:    cloneOrEmpty(place.PlaceTypes),
			Hobby:        cloneOrEmpty(place.Suitability.Hobbies),
			Climate:      cloneOrEmpty(place.EffectiveClimates()),
			AgeMin:       ages.Min,
			AgeMax:       ages.Max,
			HealthIssues: cloneOrEmpty(hc.NotRecommendedFor),
			Facilities:   cloneOrEmpty(hc.SpecialFacilities),
		},
	}
}

// ProjectPreferences converts profile into the backend's preference shape.
func ProjectPreferences(profile Profile) inference.Preferences {
	gender := profile.gender
	if gender == "" {
		gender = UnknownGender
	}
	climate := profile.climate
	if climate == "" {
		climate = DefaultClimate
	}

	return inference.Preferences{
		Age:          profile.age,
		Gender:       gender,
		PlaceType:    cloneOrEmpty(profile.placeTypes),
		Hobby:        cloneOrEmpty(profile.hobbies),
		Climate:      climate,
		HealthIssues: cloneOrEmpty(profile.healthIssues),
	}
}

// BuildRequest assembles the IPC envelope for profile and places.
func BuildRequest(profile Profile, places []Place) *inference.Request {
	req := &inference.Request{
		Preferences: ProjectPreferences(profile),
		Places:      make([]inference.PlaceFeatures, len(places)),
	}
	for i := range places {
		req.Places[i] = ExtractFeatures(&places[i])
	}
	return req
}

func cloneOrEmpty(s []string) []string {
	if len(s) == 0 {
		return []string{}
	}
	return slices.Clone(s)
}
