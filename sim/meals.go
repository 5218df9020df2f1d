package sim

import (
	"fmt"
	"sort"
	"strings"
)

// MealEvent is a single scheduled carbohydrate intake.
type MealEvent struct {
	TimeHours float64 // hours since simulation start (>= 0)
	CarbGrams float64 // grams of carbohydrate (> 0)
}

// MealPlan is an ordered meal schedule. Events are sorted by TimeHours and
// spaced at least 0.2h apart, so at most one meal can match a simulation
// step's 0.1h detection window.
type MealPlan struct {
	Key    string
	Events []MealEvent
}

// mealPlanCatalog is the fixed set of selectable meal schedules.
var mealPlanCatalog = map[string]MealPlan{
	"standard": {Key: "standard", Events: []MealEvent{
		{TimeHours: 0, CarbGrams: 45},
		{TimeHours: 5, CarbGrams: 60},
		{TimeHours: 10, CarbGrams: 50},
	}},
	"high_carb": {Key: "high_carb", Events: []MealEvent{
		{TimeHours: 0, CarbGrams: 80},
		{TimeHours: 4, CarbGrams: 90},
		{TimeHours: 8, CarbGrams: 70},
		{TimeHours: 12, CarbGrams: 60},
	}},
	"low_carb": {Key: "low_carb", Events: []MealEvent{
		{TimeHours: 0, CarbGrams: 20},
		{TimeHours: 5, CarbGrams: 25},
		{TimeHours: 10, CarbGrams: 20},
	}},
	"irregular": {Key: "irregular", Events: []MealEvent{
		{TimeHours: 1.5, CarbGrams: 35},
		{TimeHours: 6.2, CarbGrams: 75},
		{TimeHours: 13.4, CarbGrams: 40},
	}},
}

// MealPlanByKey resolves a catalog key to its MealPlan. Unknown keys
// return a ConfigError rather than silently defaulting.
func MealPlanByKey(key string) (MealPlan, error) {
	p, ok := mealPlanCatalog[key]
	if !ok {
		return MealPlan{}, &ConfigError{
			Field:  "meal_plan",
			Reason: fmt.Sprintf("unknown key %q; valid: %s", key, strings.Join(MealPlanKeys(), ", ")),
		}
	}
	return p, nil
}

// MealPlanKeys returns the catalog keys in sorted order.
func MealPlanKeys() []string {
	keys := make([]string, 0, len(mealPlanCatalog))
	for k := range mealPlanCatalog {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// EventNear returns the index of the first meal event whose scheduled time
// falls within the detection window (0.1h) of the given hour, or false when
// the step is not a meal step. Plan spacing keeps windows from holding more
// than one event; the caller is responsible for firing each event only once,
// since adjacent 5-minute steps can both fall inside the same event's window.
func (p MealPlan) EventNear(hour float64) (int, bool) {
	for i, ev := range p.Events {
		if diff := ev.TimeHours - hour; diff > -mealWindowHours && diff < mealWindowHours {
			return i, true
		}
	}
	return 0, false
}
