package scenario

// Built-in scenario presets for common demonstration runs.
// Each returns a valid Spec ready for Compile.

// PresetHighCarbStress pairs the insulin-resistant adult with a heavy
// carb schedule under sustained stress modulation.
func PresetHighCarbStress(seed int64) *Spec {
	return &Spec{
		Name: "high-carb-stress", Seed: seed,
		Archetype: "adult_high_ir", MealPlan: "high_carb",
		Challenge: "stress", DurationHours: 24,
	}
}

// PresetSensitiveExercise runs the insulin-sensitive adult through the
// afternoon exercise window on a low-carb schedule, the configuration
// most likely to trip the hypoglycemia rescue.
func PresetSensitiveExercise(seed int64) *Spec {
	return &Spec{
		Name: "sensitive-exercise", Seed: seed,
		Archetype: "adult_sensitive", MealPlan: "low_carb",
		Challenge: "exercise", DurationHours: 8,
	}
}

// PresetDawnIrregular combines the dawn-phenomenon window with an
// irregular meal schedule carrying per-meal carb jitter.
func PresetDawnIrregular(seed int64) *Spec {
	return &Spec{
		Name: "dawn-irregular", Seed: seed,
		CustomPatient: &PatientSpec{WeightKg: 70, TotalDailyInsulin: 50},
		Meals: []MealSpec{
			{TimeHours: 1.5, CarbGrams: 35, CarbStd: 5},
			{TimeHours: 6.2, CarbGrams: 75, CarbStd: 10},
			{TimeHours: 13.4, CarbGrams: 40, CarbStd: 5},
		},
		Challenge: "dawn", DurationHours: 16,
	}
}

// Presets maps preset names to their constructors, for CLI listing and
// selection.
var Presets = map[string]func(seed int64) *Spec{
	"high-carb-stress":   PresetHighCarbStress,
	"sensitive-exercise": PresetSensitiveExercise,
	"dawn-irregular":     PresetDawnIrregular,
}
