package scenario

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	sim "github.com/glycosim/glycosim/sim"
)

// Spec is the top-level scenario configuration.
// Loaded from YAML via LoadSpec(path), validated, then compiled into a
// sim.SimulationConfig with Compile.
//
// Archetype and meal plan each come either from the built-in catalog (by
// key) or inline (custom_archetype / meals); supplying both forms for the
// same concern is a validation error.
type Spec struct {
	Name          string       `yaml:"name"`
	Seed          int64        `yaml:"seed"`
	Archetype     string       `yaml:"archetype,omitempty"`
	CustomPatient *PatientSpec `yaml:"custom_archetype,omitempty"`
	MealPlan      string       `yaml:"meal_plan,omitempty"`
	Meals         []MealSpec   `yaml:"meals,omitempty"`
	Challenge     string       `yaml:"challenge"`
	DurationHours int          `yaml:"duration_hours"`
	StepDelayMs   *int         `yaml:"step_delay_ms,omitempty"` // nil = default 5ms, 0 = no yield
}

// PatientSpec defines an inline patient archetype.
type PatientSpec struct {
	WeightKg          float64 `yaml:"weight_kg"`
	TotalDailyInsulin float64 `yaml:"total_daily_insulin"`
}

// MealSpec defines one inline meal. CarbStd, when positive, adds gaussian
// jitter to the carb amount at compile time, sampled from the scenario RNG
// subsystem so the trajectory noise stream is unaffected.
type MealSpec struct {
	TimeHours float64 `yaml:"time_hours"`
	CarbGrams float64 `yaml:"carb_grams"`
	CarbStd   float64 `yaml:"carb_std,omitempty"`
}

// minMealSpacingHours keeps inline schedules compatible with the 0.1h meal
// detection window (at most one event per step).
const minMealSpacingHours = 0.2

// LoadSpec reads and parses a YAML scenario file. The caller still needs
// Validate before Compile.
func LoadSpec(path string) (*Spec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario spec: %w", err)
	}
	var spec Spec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("parsing scenario spec: %w", err)
	}
	return &spec, nil
}

// Validate checks the spec's internal consistency. Catalog keys are
// resolved later by Compile, which surfaces sim.ConfigError for unknowns.
func (s *Spec) Validate() error {
	if s.Archetype == "" && s.CustomPatient == nil {
		return fmt.Errorf("archetype key or custom_archetype required")
	}
	if s.Archetype != "" && s.CustomPatient != nil {
		return fmt.Errorf("archetype key and custom_archetype are mutually exclusive")
	}
	if s.CustomPatient != nil {
		if s.CustomPatient.WeightKg <= 0 {
			return fmt.Errorf("custom_archetype.weight_kg must be positive, got %f", s.CustomPatient.WeightKg)
		}
		if s.CustomPatient.TotalDailyInsulin <= 0 {
			return fmt.Errorf("custom_archetype.total_daily_insulin must be positive, got %f", s.CustomPatient.TotalDailyInsulin)
		}
	}
	if s.MealPlan == "" && len(s.Meals) == 0 {
		return fmt.Errorf("meal_plan key or inline meals required")
	}
	if s.MealPlan != "" && len(s.Meals) > 0 {
		return fmt.Errorf("meal_plan key and inline meals are mutually exclusive")
	}
	for i, m := range s.Meals {
		prefix := fmt.Sprintf("meals[%d]", i)
		if m.TimeHours < 0 {
			return fmt.Errorf("%s: time_hours must be non-negative, got %f", prefix, m.TimeHours)
		}
		if m.CarbGrams <= 0 {
			return fmt.Errorf("%s: carb_grams must be positive, got %f", prefix, m.CarbGrams)
		}
		if m.CarbStd < 0 {
			return fmt.Errorf("%s: carb_std must be non-negative, got %f", prefix, m.CarbStd)
		}
		if i > 0 && m.TimeHours-s.Meals[i-1].TimeHours < minMealSpacingHours {
			return fmt.Errorf("%s: meals must be sorted and at least %.1fh apart", prefix, minMealSpacingHours)
		}
	}
	if s.Challenge == "" {
		return fmt.Errorf("challenge required (use %q for an unmodulated run)", string(sim.ChallengeNone))
	}
	if s.DurationHours <= 0 {
		return fmt.Errorf("duration_hours must be positive, got %d", s.DurationHours)
	}
	if s.StepDelayMs != nil && *s.StepDelayMs < 0 {
		return fmt.Errorf("step_delay_ms must be non-negative, got %d", *s.StepDelayMs)
	}
	return nil
}

// Compile resolves the spec into a validated sim.SimulationConfig.
// Carb jitter is sampled here, once per meal, from rng's scenario
// subsystem; jittered carbs are floored at 1g so a wide std cannot
// produce a non-positive meal.
func (s *Spec) Compile(rng *sim.PartitionedRNG) (sim.SimulationConfig, error) {
	if err := s.Validate(); err != nil {
		return sim.SimulationConfig{}, fmt.Errorf("invalid scenario spec: %w", err)
	}

	var archetype sim.PatientArchetype
	if s.CustomPatient != nil {
		archetype = sim.PatientArchetype{
			Key:               s.Name,
			WeightKg:          s.CustomPatient.WeightKg,
			TotalDailyInsulin: s.CustomPatient.TotalDailyInsulin,
		}
	} else {
		a, err := sim.ArchetypeByKey(s.Archetype)
		if err != nil {
			return sim.SimulationConfig{}, err
		}
		archetype = a
	}

	var plan sim.MealPlan
	if len(s.Meals) > 0 {
		r := rng.ForSubsystem(sim.SubsystemScenario)
		events := make([]sim.MealEvent, len(s.Meals))
		for i, m := range s.Meals {
			carbs := m.CarbGrams
			if m.CarbStd > 0 {
				carbs += r.NormFloat64() * m.CarbStd
				if carbs < 1 {
					carbs = 1
				}
			}
			events[i] = sim.MealEvent{TimeHours: m.TimeHours, CarbGrams: carbs}
		}
		plan = sim.MealPlan{Key: s.Name, Events: events}
	} else {
		p, err := sim.MealPlanByKey(s.MealPlan)
		if err != nil {
			return sim.SimulationConfig{}, err
		}
		plan = p
	}

	challenge, err := sim.ChallengeByKey(s.Challenge)
	if err != nil {
		return sim.SimulationConfig{}, err
	}

	cfg := sim.SimulationConfig{
		Archetype:     archetype,
		MealPlan:      plan,
		Challenge:     challenge,
		DurationHours: s.DurationHours,
		StepDelay:     sim.DefaultStepDelay,
	}
	if s.StepDelayMs != nil {
		cfg.StepDelay = time.Duration(*s.StepDelayMs) * time.Millisecond
	}
	if err := cfg.Validate(); err != nil {
		return sim.SimulationConfig{}, err
	}
	return cfg, nil
}
