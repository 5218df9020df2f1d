package sim

import (
	"fmt"
	"sort"
	"strings"
)

// PatientArchetype holds the physiological parameters of a simulated
// patient. Immutable once selected; only used to scale meal-driven
// glucose excursions via the 500/TDI insulin-sensitivity proxy.
type PatientArchetype struct {
	Key               string  // catalog key, e.g. "adult_avg"
	WeightKg          float64 // body weight in kg (> 0)
	TotalDailyInsulin float64 // total daily insulin dose in units (> 0)
}

// archetypeCatalog is the fixed set of selectable patient archetypes.
var archetypeCatalog = map[string]PatientArchetype{
	"adult_avg":       {Key: "adult_avg", WeightKg: 75, TotalDailyInsulin: 45},
	"adult_high_ir":   {Key: "adult_high_ir", WeightKg: 95, TotalDailyInsulin: 70},
	"adult_sensitive": {Key: "adult_sensitive", WeightKg: 60, TotalDailyInsulin: 28},
	"adolescent":      {Key: "adolescent", WeightKg: 55, TotalDailyInsulin: 40},
	"child":           {Key: "child", WeightKg: 30, TotalDailyInsulin: 20},
}

// ArchetypeByKey resolves a catalog key to its PatientArchetype.
// Unknown keys are a caller contract violation and return a ConfigError
// rather than silently defaulting.
func ArchetypeByKey(key string) (PatientArchetype, error) {
	a, ok := archetypeCatalog[key]
	if !ok {
		return PatientArchetype{}, &ConfigError{
			Field:  "archetype",
			Reason: fmt.Sprintf("unknown key %q; valid: %s", key, strings.Join(ArchetypeKeys(), ", ")),
		}
	}
	return a, nil
}

// ArchetypeKeys returns the catalog keys in sorted order.
func ArchetypeKeys() []string {
	keys := make([]string, 0, len(archetypeCatalog))
	for k := range archetypeCatalog {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// CarbExcursion computes the glucose delta of a meal for this archetype:
// a rapid carbohydrate-driven rise partially offset by a term scaled by
// the 500/TDI insulin-sensitivity proxy. Fixed policy constants, not tuned.
func (a PatientArchetype) CarbExcursion(carbGrams float64) float64 {
	return carbGrams*4 - carbGrams/(500/a.TotalDailyInsulin)*25
}
