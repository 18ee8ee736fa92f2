// Tripwise - Travel Package Point-of-Interest Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tripwise

package recommend

// Defaults applied when a place omits suitability data.
const (
	DefaultAgeMin  = 0
	DefaultAgeMax  = 100
	DefaultClimate = ClimateTemperate
)

// Place is a point of interest inside a tour package. Places are read-only
// inputs owned by the catalog.
type Place struct {
	ID          string      `json:"id" validate:"required"`
	Name        string      `json:"name" validate:"required"`
	Description string      `json:"description"`
	PlaceTypes  []string    `json:"placeType"`
	Suitability Suitability `json:"suitableFor"`
	Images      []string    `json:"images,omitempty"`
}

// Suitability describes who a place suits.
type Suitability struct {
	AgeRange             *AgeRange            `json:"ageRange,omitempty"`
	GenderNeutral        *bool                `json:"genderNeutral,omitempty"`
	Hobbies              []string             `json:"hobbies"`
	Climates             []string             `json:"climate"`
	HealthConsiderations HealthConsiderations `json:"healthConsiderations"`
}

// AgeRange is an inclusive age interval.
type AgeRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// HealthConsiderations lists conditions a place is unsuitable for and the
// facilities it offers.
type HealthConsiderations struct {
	NotRecommendedFor []string `json:"notRecommendedFor"`
	SpecialFacilities []string `json:"specialFacilities"`
}

// Ages returns the place's age range. Each bound defaults on its own: a
// missing range is 0..100 and a missing or zero Max is 100.
func (p *Place) Ages() AgeRange {
	r := AgeRange{Min: DefaultAgeMin, Max: DefaultAgeMax}
	if ar := p.Suitability.AgeRange; ar != nil {
		r.Min = ar.Min
		if ar.Max > 0 {
			r.Max = ar.Max
		}
	}
	return r
}

// IsGenderNeutral reports whether the place suits every gender. Unset means yes.
func (p *Place) IsGenderNeutral() bool {
	return p.Suitability.GenderNeutral == nil || *p.Suitability.GenderNeutral
}

// EffectiveClimates returns the supported climates, defaulting to Temperate.
func (p *Place) EffectiveClimates() []string {
	if len(p.Suitability.Climates) == 0 {
		return []string{DefaultClimate}
	}
	return p.Suitability.Climates
}

// Bool returns a pointer to b, for building places in code.
func Bool(b bool) *bool { return &b }
