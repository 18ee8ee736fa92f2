// Tripwise - Travel Package Point-of-Interest Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tripwise

package recommend

import (
	"math"
	"slices"
)

// Factor weights. They sum to 100.
const (
	WeightAge       = 20.0
	WeightGender    = 10.0
	WeightPlaceType = 20.0
	WeightHobby     = 20.0
	WeightClimate   = 10.0
	WeightHealth    = 20.0

	healthPenalty = 15.0
	healthBonus   = 5.0
)

// RuleBreakdown is the per-factor result of ScoreRules. Factor values are
// unrounded; Total is the clamped, rounded sum.
type RuleBreakdown struct {
	Age       float64
	Gender    float64
	PlaceType float64
	Hobby     float64
	Climate   float64
	Health    float64
	Total     int

	// MatchedPlaceTypes and MatchedHobbies are in profile order.
	MatchedPlaceTypes []string
	MatchedHobbies    []string
}

// RuleScore returns the 0..100 rule-based score of place for profile.
func RuleScore(place *Place, profile Profile) int {
	return ScoreRules(place, profile).Total
}

// ScoreRules evaluates the six weighted suitability factors. It is pure:
// identical inputs always give identical output.
func ScoreRules(place *Place, profile Profile) RuleBreakdown {
	var b RuleBreakdown

	b.Age = ageFactor(place.Ages(), profile.age)
	b.Gender = genderFactor(place.IsGenderNeutral(), profile.gender)
	b.PlaceType, b.MatchedPlaceTypes = overlapFactor(profile.placeTypes, place.PlaceTypes, WeightPlaceType)
	b.Hobby, b.MatchedHobbies = overlapFactor(profile.hobbies, place.Suitability.Hobbies, WeightHobby)
	b.Climate = climateFactor(place.EffectiveClimates(), profile.climate)
	b.Health = healthFactor(place.Suitability.HealthConsiderations, profile.healthIssues)

	sum := b.Age + b.Gender + b.PlaceType + b.Hobby + b.Climate + b.Health
	b.Total = int(math.Round(clamp(sum, 0, 100)))
	return b
}

func ageFactor(r AgeRange, age int) float64 {
	if age >= r.Min && age <= r.Max {
		return WeightAge
	}

	width := float64(r.Max - r.Min)
	if width <= 0 {
		width = 1
	}

	var diff float64
	if age < r.Min {
		diff = float64(r.Min - age)
	} else {
		diff = float64(age - r.Max)
	}

	return WeightAge - math.Min(WeightAge, diff/width*WeightAge)
}

func genderFactor(neutral bool, gender string) float64 {
	if neutral || gender == "" {
		return WeightGender
	}
	return WeightGender / 2
}

// overlapFactor awards weight × |wanted ∩ offered| / |wanted|, or half the
// weight when nothing was requested.
func overlapFactor(wanted, offered []string, weight float64) (float64, []string) {
	if len(wanted) == 0 {
		return weight / 2, nil
	}

	var matched []string
	for _, w := range wanted {
		if slices.Contains(offered, w) {
			matched = append(matched, w)
		}
	}

	return float64(len(matched)) / float64(len(wanted)) * weight, matched
}

func climateFactor(supported []string, climate string) float64 {
	if climate == "" {
		return WeightClimate / 2
	}
	if slices.Contains(supported, climate) {
		return WeightClimate
	}
	return 0
}

func healthFactor(hc HealthConsiderations, issues []string) float64 {
	if len(issues) == 0 {
		return WeightHealth
	}

	var problems, mitigated int
	for _, issue := range issues {
		if slices.Contains(hc.NotRecommendedFor, issue) {
			problems++
		}
		if facility, ok := MitigatingFacility(issue); ok && slices.Contains(hc.SpecialFacilities, facility) {
			mitigated++
		}
	}

	total := float64(len(issues))
	score := WeightHealth - healthPenalty*float64(problems)/total + healthBonus*float64(mitigated)/total
	return clamp(score, 0, WeightHealth)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
