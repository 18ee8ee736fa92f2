// Tripwise - Travel Package Point-of-Interest Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tripwise

package recommend

import (
	"math"
	"slices"
	"strings"
)

// Reason texts.
const (
	ReasonHighlyRecommended = "Highly recommended by our AI model"
	ReasonStrongMatch       = "Strong match according to our algorithm"
	ReasonModerateMatch     = "Moderate match based on your preferences"
	ReasonNotScored         = "Not scored by the external model"
	ReasonRulesOnly         = "Scored by rules only (external model unavailable)"

	reasonPlaceTypesPrefix = "Matches your preferred place types: "
	reasonHobbiesPrefix    = "Good for hobbies: "
)

// Bucket thresholds, exclusive.
const (
	highlyRecommendedAbove = 80.0
	strongMatchAbove       = 60.0
)

// ScoredPlace is one ranked result. It is built fresh per request.
type ScoredPlace struct {
	Place     Place
	RuleScore int
	// ExternalScore is nil when no external score took part in the
	// combination: rule-only ranking, or an unscored place under
	// UnscoredRuleOnly.
	ExternalScore *float64
	CombinedScore float64
	Reasons       []string
	// Unscored marks a place missing from a successful external response.
	Unscored bool
}

// RankOptions controls Rank.
type RankOptions struct {
	ExternalWeight float64
	RuleWeight     float64
	UnscoredPolicy UnscoredPolicy
	// Degraded adds ReasonRulesOnly to every place. Only meaningful when
	// external is nil.
	Degraded bool
	// ExtraReason, if set, is appended to every place.
	ExtraReason string
}

// DefaultRankOptions mirrors DefaultConfig.
func DefaultRankOptions() RankOptions {
	cfg := DefaultConfig()
	return RankOptions{
		ExternalWeight: cfg.ExternalWeight,
		RuleWeight:     cfg.RuleWeight,
		UnscoredPolicy: cfg.UnscoredPolicy,
	}
}

// Rank merges rule breakdowns with external scores and orders the result
// by combined score, descending. Ties keep input order. rules[i] must be
// the breakdown of places[i]. A nil external map means rule-only ranking.
func Rank(places []Place, rules []RuleBreakdown, external map[string]float64, opts RankOptions) []ScoredPlace {
	out := make([]ScoredPlace, len(places))

	for i := range places {
		rb := rules[i]
		sp := ScoredPlace{
			Place:     places[i],
			RuleScore: rb.Total,
		}
		rule := float64(rb.Total)

		var bucketOn float64
		switch ext, ok := lookup(external, places[i].ID); {
		case external == nil:
			sp.CombinedScore = roundScore(rule)
			bucketOn = sp.CombinedScore

		case ok:
			ext = clamp(ext, 0, 100)
			sp.ExternalScore = &ext
			sp.CombinedScore = roundScore(opts.ExternalWeight*ext + opts.RuleWeight*rule)
			bucketOn = ext

		case opts.UnscoredPolicy == UnscoredRuleOnly:
			sp.Unscored = true
			sp.CombinedScore = roundScore(rule)
			bucketOn = sp.CombinedScore

		default:
			sp.Unscored = true
			zero := 0.0
			sp.ExternalScore = &zero
			sp.CombinedScore = roundScore(opts.RuleWeight * rule)
			bucketOn = 0
		}

		sp.Reasons = buildReasons(bucketOn, rb, sp.Unscored, external == nil && opts.Degraded, opts.ExtraReason)
		out[i] = sp
	}

	slices.SortStableFunc(out, func(a, b ScoredPlace) int {
		switch {
		case a.CombinedScore > b.CombinedScore:
			return -1
		case a.CombinedScore < b.CombinedScore:
			return 1
		default:
			return 0
		}
	})
	return out
}

// Bucket returns the qualitative reason for score.
func Bucket(score float64) string {
	switch {
	case score > highlyRecommendedAbove:
		return ReasonHighlyRecommended
	case score > strongMatchAbove:
		return ReasonStrongMatch
	default:
		return ReasonModerateMatch
	}
}

func buildReasons(bucketOn float64, rb RuleBreakdown, unscored, degraded bool, extra string) []string {
	reasons := []string{Bucket(bucketOn)}
	if len(rb.MatchedPlaceTypes) > 0 {
		reasons = append(reasons, reasonPlaceTypesPrefix+strings.Join(rb.MatchedPlaceTypes, ", "))
	}
	if len(rb.MatchedHobbies) > 0 {
		reasons = append(reasons, reasonHobbiesPrefix+strings.Join(rb.MatchedHobbies, ", "))
	}
	if unscored {
		reasons = append(reasons, ReasonNotScored)
	}
	if degraded {
		reasons = append(reasons, ReasonRulesOnly)
	}
	if extra != "" {
		reasons = append(reasons, extra)
	}
	return reasons
}

func lookup(m map[string]float64, id string) (float64, bool) {
	if m == nil {
		return 0, false
	}
	v, ok := m[id]
	return v, ok
}

// roundScore clamps to [0, 100] and rounds to one decimal place.
func roundScore(v float64) float64 {
	return math.Round(clamp(v, 0, 100)*10) / 10
}
