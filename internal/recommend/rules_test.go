// Tripwise - Travel Package Point-of-Interest Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tripwise

package recommend

import (
	"math"
	"math/rand"
	"slices"
	"testing"

	"github.com/goccy/go-json"
)

func mustProfile(t *testing.T, in ProfileInput) Profile {
	t.Helper()
	p, err := BuildProfile(in)
	if err != nil {
		t.Fatalf("BuildProfile: %v", err)
	}
	return p
}

func beachPlace() Place {
	return Place{
		ID:         "p1",
		Name:       "Unawatuna Beach",
		PlaceTypes: []string{PlaceTypeBeach},
		Suitability: Suitability{
			AgeRange:      &AgeRange{Min: 18, Max: 45},
			GenderNeutral: Bool(true),
			Hobbies:       []string{HobbySurfing},
			Climates:      []string{ClimateTropical},
		},
	}
}

func TestScoreRules_PerfectMatchScores100(t *testing.T) {
	t.Parallel()

	profile := mustProfile(t, ProfileInput{
		Age:        30,
		Gender:     "male",
		PlaceTypes: []string{"Beach"},
		Hobbies:    []string{"Surfing"},
		Climate:    "Tropical",
	})
	place := beachPlace()

	b := ScoreRules(&place, profile)
	if b.Total != 100 {
		t.Fatalf("Total = %d, want 100 (%+v)", b.Total, b)
	}
	if !slices.Equal(b.MatchedPlaceTypes, []string{"Beach"}) {
		t.Errorf("MatchedPlaceTypes = %v", b.MatchedPlaceTypes)
	}
	if !slices.Equal(b.MatchedHobbies, []string{"Surfing"}) {
		t.Errorf("MatchedHobbies = %v", b.MatchedHobbies)
	}
}

func TestScoreRules_Factors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		profile ProfileInput
		place   Place
		want    int
	}{
		{
			name:    "nothing specified, defaults everywhere",
			profile: ProfileInput{Age: 30},
			place:   Place{ID: "x"},
			// 20 age + 10 gender + 10 type + 10 hobby + 5 climate + 20 health
			want: 75,
		},
		{
			name: "age outside range and partial matches",
			profile: ProfileInput{
				Age: 50, Gender: "female",
				PlaceTypes: []string{"Beach", "Mountains"},
				Climate:    "Cold",
			},
			place: Place{
				ID:         "x",
				PlaceTypes: []string{"Beach"},
				Suitability: Suitability{
					AgeRange:      &AgeRange{Min: 18, Max: 45},
					GenderNeutral: Bool(false),
					Climates:      []string{"Tropical"},
				},
			},
			// 20-5/27*20 + 5 + 10 + 10 + 0 + 20 = 61.3
			want: 61,
		},
		{
			name: "health problem offset by facility",
			profile: ProfileInput{
				Age:               30,
				Diseases:          []string{"Back Pain"},
				PhysicalDisorders: []string{"Asthma"},
			},
			place: Place{
				ID: "x",
				Suitability: Suitability{HealthConsiderations: HealthConsiderations{
					NotRecommendedFor: []string{"Back Pain"},
					SpecialFacilities: []string{"Medical Support"},
				}},
			},
			// health 20 - 15*1/2 + 5*1/2 = 15
			want: 70,
		},
		{
			name:    "health problem without facility",
			profile: ProfileInput{Age: 30, PhysicalDisorders: []string{"Knee Pain"}},
			place: Place{
				ID: "x",
				Suitability: Suitability{HealthConsiderations: HealthConsiderations{
					NotRecommendedFor: []string{"Knee Pain"},
				}},
			},
			want: 60,
		},
		{
			name:    "mitigated issue that is not a problem cannot exceed full credit",
			profile: ProfileInput{Age: 30, PhysicalDisorders: []string{"Knee Pain"}},
			place: Place{
				ID: "x",
				Suitability: Suitability{HealthConsiderations: HealthConsiderations{
					SpecialFacilities: []string{"Elevators"},
				}},
			},
			want: 75,
		},
		{
			name:    "age far outside range floors at zero",
			profile: ProfileInput{Age: 120},
			place:   Place{ID: "x", Suitability: Suitability{AgeRange: &AgeRange{Min: 0, Max: 10}}},
			want:    55,
		},
		{
			name:    "zero width range uses width one",
			profile: ProfileInput{Age: 31},
			place:   Place{ID: "x", Suitability: Suitability{AgeRange: &AgeRange{Min: 30, Max: 30}}},
			want:    55,
		},
		{
			name:    "non-neutral place without requested gender gets full gender credit",
			profile: ProfileInput{Age: 30},
			place:   Place{ID: "x", Suitability: Suitability{GenderNeutral: Bool(false)}},
			want:    75,
		},
		{
			name:    "missing climates default to temperate",
			profile: ProfileInput{Age: 30, Climate: "Temperate"},
			place:   Place{ID: "x"},
			want:    80,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			profile := mustProfile(t, tt.profile)
			if got := RuleScore(&tt.place, profile); got != tt.want {
				t.Errorf("RuleScore = %d, want %d (%+v)", got, tt.want, ScoreRules(&tt.place, profile))
			}
		})
	}
}

func TestScoreRules_BoundedAndDeterministic(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(7))
	pick := func(vocab []string) []string {
		var out []string
		for _, v := range vocab {
			if rng.Intn(3) == 0 {
				out = append(out, v)
			}
		}
		return out
	}

	for range 500 {
		profile := mustProfile(t, ProfileInput{
			Age:               MinAge + rng.Intn(MaxAge),
			Gender:            Genders[rng.Intn(len(Genders))],
			PlaceTypes:        pick(PlaceTypes),
			Hobbies:           pick(Hobbies),
			Climate:           Climates[rng.Intn(len(Climates))],
			Diseases:          pick(Diseases),
			PhysicalDisorders: pick(PhysicalDisorders),
		})
		lo := rng.Intn(90)
		place := Place{
			ID:         "p",
			PlaceTypes: pick(PlaceTypes),
			Suitability: Suitability{
				AgeRange:      &AgeRange{Min: lo, Max: lo + rng.Intn(40)},
				GenderNeutral: Bool(rng.Intn(2) == 0),
				Hobbies:       pick(Hobbies),
				Climates:      pick(Climates),
				HealthConsiderations: HealthConsiderations{
					NotRecommendedFor: pick(Diseases),
					SpecialFacilities: pick(Facilities),
				},
			},
		}

		first := ScoreRules(&place, profile)
		if first.Total < 0 || first.Total > 100 {
			t.Fatalf("score %d out of range for %+v", first.Total, place)
		}
		for _, f := range []float64{first.Age, first.Gender, first.PlaceType, first.Hobby, first.Climate, first.Health} {
			if f < 0 || math.IsNaN(f) {
				t.Fatalf("negative factor in %+v", first)
			}
		}
		if again := ScoreRules(&place, profile); again.Total != first.Total {
			t.Fatalf("non-deterministic: %d then %d", first.Total, again.Total)
		}
	}
}

func TestScoreRules_PartialAgeRangeDefaultsMissingBound(t *testing.T) {
	t.Parallel()

	var place Place
	raw := `{"id":"p9","name":"Hikkaduwa","placeType":["Beach"],
		"suitableFor":{"ageRange":{"min":18},"hobbies":["Surfing"],"climate":["Tropical"]}}`
	if err := json.Unmarshal([]byte(raw), &place); err != nil {
		t.Fatal(err)
	}

	if got := place.Ages(); got != (AgeRange{Min: 18, Max: DefaultAgeMax}) {
		t.Fatalf("Ages() = %+v, want 18..%d", got, DefaultAgeMax)
	}

	profile := mustProfile(t, ProfileInput{
		Age:        30,
		PlaceTypes: []string{"Beach"},
		Hobbies:    []string{"Surfing"},
		Climate:    "Tropical",
	})
	b := ScoreRules(&place, profile)
	if b.Age != WeightAge {
		t.Errorf("Age = %v, want full credit %v", b.Age, WeightAge)
	}
	if b.Total != 100 {
		t.Errorf("Total = %d, want 100 (%+v)", b.Total, b)
	}
}

func TestAges(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input *AgeRange
		want  AgeRange
	}{
		{"unset", nil, AgeRange{Min: 0, Max: 100}},
		{"min only", &AgeRange{Min: 18}, AgeRange{Min: 18, Max: 100}},
		{"max only", &AgeRange{Max: 12}, AgeRange{Min: 0, Max: 12}},
		{"both", &AgeRange{Min: 5, Max: 60}, AgeRange{Min: 5, Max: 60}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			p := Place{Suitability: Suitability{AgeRange: tt.input}}
			if got := p.Ages(); got != tt.want {
				t.Errorf("Ages() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestMitigatingFacility(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		ConditionBackPain: FacilityRestAreas,
		ConditionKneePain: FacilityElevators,
		ConditionAsthma:   FacilityMedicalSupport,
	}
	for cond, want := range tests {
		if got, ok := MitigatingFacility(cond); !ok || got != want {
			t.Errorf("MitigatingFacility(%q) = %q, %v", cond, got, ok)
		}
	}
	if _, ok := MitigatingFacility(ConditionFever); ok {
		t.Error("Fever should have no mitigating facility")
	}
}
