package sim

import (
	"fmt"
	"time"
)

// SimulationConfig groups everything one trajectory run needs. Built once
// from the caller's selections and immutable for the run's duration.
type SimulationConfig struct {
	Archetype     PatientArchetype
	MealPlan      MealPlan
	Challenge     ChallengeScenario
	DurationHours int

	// StepDelay is the cooperative yield between steps. 0 disables the
	// yield entirely (tight loop, used by tests).
	StepDelay time.Duration
}

// DefaultStepDelay keeps a long run from starving the surrounding
// interactive environment without dominating wall-clock time.
const DefaultStepDelay = 5 * time.Millisecond

// NewSimulationConfig resolves the caller's catalog selections into a
// validated SimulationConfig. Any unknown key or non-positive duration
// returns a ConfigError; there are no silent defaults.
func NewSimulationConfig(archetypeKey, mealPlanKey, challengeKey string, durationHours int) (SimulationConfig, error) {
	archetype, err := ArchetypeByKey(archetypeKey)
	if err != nil {
		return SimulationConfig{}, err
	}
	plan, err := MealPlanByKey(mealPlanKey)
	if err != nil {
		return SimulationConfig{}, err
	}
	challenge, err := ChallengeByKey(challengeKey)
	if err != nil {
		return SimulationConfig{}, err
	}
	cfg := SimulationConfig{
		Archetype:     archetype,
		MealPlan:      plan,
		Challenge:     challenge,
		DurationHours: durationHours,
		StepDelay:     DefaultStepDelay,
	}
	if err := cfg.Validate(); err != nil {
		return SimulationConfig{}, err
	}
	return cfg, nil
}

// Validate checks invariants a hand-assembled config can violate.
func (c SimulationConfig) Validate() error {
	if c.DurationHours <= 0 {
		return &ConfigError{
			Field:  "duration_hours",
			Reason: fmt.Sprintf("must be positive, got %d", c.DurationHours),
		}
	}
	if c.Archetype.WeightKg <= 0 {
		return &ConfigError{
			Field:  "archetype",
			Reason: fmt.Sprintf("weight must be positive, got %f", c.Archetype.WeightKg),
		}
	}
	if c.Archetype.TotalDailyInsulin <= 0 {
		return &ConfigError{
			Field:  "archetype",
			Reason: fmt.Sprintf("total daily insulin must be positive, got %f", c.Archetype.TotalDailyInsulin),
		}
	}
	for i, ev := range c.MealPlan.Events {
		if ev.TimeHours < 0 {
			return &ConfigError{
				Field:  "meal_plan",
				Reason: fmt.Sprintf("event %d: time must be non-negative, got %f", i, ev.TimeHours),
			}
		}
		if ev.CarbGrams <= 0 {
			return &ConfigError{
				Field:  "meal_plan",
				Reason: fmt.Sprintf("event %d: carbs must be positive, got %f", i, ev.CarbGrams),
			}
		}
	}
	if c.StepDelay < 0 {
		return &ConfigError{
			Field:  "step_delay",
			Reason: fmt.Sprintf("must be non-negative, got %v", c.StepDelay),
		}
	}
	return nil
}
