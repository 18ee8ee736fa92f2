// Tripwise - Travel Package Point-of-Interest Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tripwise

package recommend

// Place types.
const (
	PlaceTypeBeach      = "Beach"
	PlaceTypeMountains  = "Mountains"
	PlaceTypeWaterfalls = "Waterfalls"
	PlaceTypeReligious  = "Religious"
	PlaceTypeHistorical = "Historical"
	PlaceTypeUrban      = "Urban"
	PlaceTypeWildlife   = "Wildlife"
)

// Hobbies.
const (
	HobbyHiking      = "Hiking"
	HobbySurfing     = "Surfing"
	HobbyCamping     = "Camping"
	HobbySightseeing = "Sightseeing"
	HobbyAdventure   = "Adventure"
	HobbyPhotography = "Photography"
	HobbyShopping    = "Shopping"
	HobbyRelaxation  = "Relaxation"
)

// Climates.
const (
	ClimateTropical  = "Tropical"
	ClimateTemperate = "Temperate"
	ClimateArid      = "Arid"
	ClimateCold      = "Cold"
)

// Health conditions.
const (
	ConditionCough          = "Cough"
	ConditionFever          = "Fever"
	ConditionHeadache       = "Headache"
	ConditionBackPain       = "Back Pain"
	ConditionAsthma         = "Asthma"
	ConditionKneePain       = "Knee Pain"
	ConditionHeartCondition = "Heart Condition"
)

// Special facilities.
const (
	FacilityWheelchairAccess = "Wheelchair Access"
	FacilityElevators        = "Elevators"
	FacilityRestAreas        = "Rest Areas"
	FacilityMedicalSupport   = "Medical Support"
	FacilityShuttleService   = "Shuttle Service"
)

// Genders accepted by the profile builder. The empty string means unspecified.
const (
	GenderMale   = "male"
	GenderFemale = "female"
	GenderOther  = "other"
)

// Age bounds accepted by the profile builder.
const (
	MinAge = 1
	MaxAge = 120
)

// Vocabularies used by request validation.
var (
	PlaceTypes = []string{
		PlaceTypeBeach, PlaceTypeMountains, PlaceTypeWaterfalls, PlaceTypeReligious,
		PlaceTypeHistorical, PlaceTypeUrban, PlaceTypeWildlife,
	}
	Hobbies = []string{
		HobbyHiking, HobbySurfing, HobbyCamping, HobbySightseeing,
		HobbyAdventure, HobbyPhotography, HobbyShopping, HobbyRelaxation,
	}
	Climates = []string{ClimateTropical, ClimateTemperate, ClimateArid, ClimateCold}
	Diseases = []string{
		ConditionCough, ConditionFever, ConditionHeadache, ConditionBackPain,
		ConditionAsthma, ConditionKneePain, ConditionHeartCondition,
	}
	PhysicalDisorders = []string{
		ConditionBackPain, ConditionAsthma, ConditionKneePain, ConditionHeartCondition,
	}
	Facilities = []string{
		FacilityWheelchairAccess, FacilityElevators, FacilityRestAreas,
		FacilityMedicalSupport, FacilityShuttleService,
	}
	Genders = []string{GenderMale, GenderFemale, GenderOther}
)

// mitigatingFacility maps a health condition to the facility that offsets it.
var mitigatingFacility = map[string]string{
	ConditionBackPain: FacilityRestAreas,
	ConditionKneePain: FacilityElevators,
	ConditionAsthma:   FacilityMedicalSupport,
}

// MitigatingFacility returns the facility that offsets condition, if any.
func MitigatingFacility(condition string) (string, bool) {
	f, ok := mitigatingFacility[condition]
	return f, ok
}
