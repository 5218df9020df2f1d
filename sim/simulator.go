// sim/simulator.go
package sim

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

// StepsPerHour is the fixed simulation cadence: 12 steps per simulated
// hour, i.e. 5-minute resolution.
const StepsPerHour = 12

const (
	// BaselineGlucose is the homeostatic set point the trajectory
	// relaxes toward each step.
	BaselineGlucose = 100.0

	// GlucoseFloor and GlucoseCeil bound every emitted sample.
	GlucoseFloor = 50.0
	GlucoseCeil  = 350.0

	// SevereHypoThreshold is the clinically significant safety line.
	// Crossing it triggers the rescue intervention.
	SevereHypoThreshold = 54.0

	// rescueGlucose is the value the automatic rescue action resets to.
	rescueGlucose = 70.0

	// reversionRate is the per-step pull toward BaselineGlucose.
	reversionRate = 0.02

	// noiseHalfWidth bounds the per-step uniform perturbation.
	noiseHalfWidth = 5.0

	// mealWindowHours is the half-width of the meal detection window
	// around each step's hour.
	mealWindowHours = 0.1
)

// Simulator advances a scalar glucose state at a fixed cadence, applying
// meal excursions, regime modulation, mean reversion, seeded noise, and
// safety clamping. One Simulator serves exactly one run; no shared mutable
// state crosses its boundary except the config in and the result out.
type Simulator struct {
	Config SimulationConfig
	RNG    *PartitionedRNG
}

// NewSimulator wires a validated config to a seeded RNG. The caller is
// expected to have run cfg.Validate (NewSimulationConfig does); Run
// re-checks as a guard against hand-assembled configs.
func NewSimulator(cfg SimulationConfig, key SimulationKey) *Simulator {
	return &Simulator{
		Config: cfg,
		RNG:    NewPartitionedRNG(key),
	}
}

// Run executes the full trajectory: DurationHours × 12 steps, yielding
// between steps so a long run never monopolizes the caller's timeline.
// Cancellation is checked at the top of every step; a cancelled run
// returns ctx.Err() and no partial result.
func (s *Simulator) Run(ctx context.Context) (*SimulationResult, error) {
	if err := s.Config.Validate(); err != nil {
		return nil, err
	}

	totalSteps := s.Config.DurationHours * StepsPerHour
	result := &SimulationResult{
		Trajectory: make([]TrajectorySample, 0, totalSteps),
	}
	noise := s.RNG.ForSubsystem(SubsystemNoise)

	// Adjacent 5-minute steps can both fall inside one meal's detection
	// window; each event fires exactly once.
	fired := make([]bool, len(s.Config.MealPlan.Events))

	glucose := BaselineGlucose
	logrus.Debugf("starting trajectory: archetype=%s plan=%s challenge=%s steps=%d",
		s.Config.Archetype.Key, s.Config.MealPlan.Key, s.Config.Challenge, totalSteps)

	for step := 0; step < totalSteps; step++ {
		if err := ctx.Err(); err != nil {
			logrus.Debugf("trajectory cancelled at step %d: %v", step, err)
			return nil, err
		}

		hour := float64(step) / StepsPerHour

		// 1. Meal detection and carb excursion.
		if i, ok := s.Config.MealPlan.EventNear(hour); ok && !fired[i] {
			ev := s.Config.MealPlan.Events[i]
			delta := s.Config.Archetype.CarbExcursion(ev.CarbGrams)
			glucose += delta
			fired[i] = true
			result.MealDecisions++
			logrus.Tracef("step %d (h=%.2f): meal %.0fg carbs, excursion %+.1f mg/dL", step, hour, ev.CarbGrams, delta)
		}

		// 2. Regime modulation (first matching window wins).
		mod := s.Config.Challenge.Modulation(hour)

		// 3. Mean reversion toward the homeostatic baseline.
		glucose = glucose*(1-reversionRate) + BaselineGlucose*reversionRate

		// 4. Regime multiplier.
		glucose *= mod

		// 5. Stochastic perturbation.
		glucose += noise.Float64()*2*noiseHalfWidth - noiseHalfWidth

		// 6. Clamp.
		glucose = clampGlucose(glucose)

		// 7. Hypoglycemia rescue: automatic correction, not left uncorrected.
		if glucose < SevereHypoThreshold {
			result.HypoViolations++
			logrus.Tracef("step %d (h=%.2f): hypo violation at %.1f mg/dL, rescue to %.0f", step, hour, glucose, rescueGlucose)
			glucose = rescueGlucose
		}

		result.Trajectory = append(result.Trajectory, TrajectorySample{TimeHours: hour, Glucose: glucose})

		// 8. Cooperative yield before the next step.
		if s.Config.StepDelay > 0 && step < totalSteps-1 {
			if err := sleepContext(ctx, s.Config.StepDelay); err != nil {
				return nil, err
			}
		}
	}

	logrus.Infof("trajectory complete: %d samples, %d meal decisions, %d hypo violations",
		len(result.Trajectory), result.MealDecisions, result.HypoViolations)
	return result, nil
}

func clampGlucose(g float64) float64 {
	if g < GlucoseFloor {
		return GlucoseFloor
	}
	if g > GlucoseCeil {
		return GlucoseCeil
	}
	return g
}

// sleepContext sleeps for d or until ctx is cancelled, whichever is first.
func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
