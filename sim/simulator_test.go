package sim

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testConfig returns a validated catalog config with the cooperative
// yield disabled so tests run in a tight loop.
func testConfig(t *testing.T, archetype, plan, challenge string, hours int) SimulationConfig {
	t.Helper()
	cfg, err := NewSimulationConfig(archetype, plan, challenge, hours)
	require.NoError(t, err)
	cfg.StepDelay = 0
	return cfg
}

func TestRun_TrajectoryLength(t *testing.T) {
	for _, hours := range []int{1, 8, 24} {
		cfg := testConfig(t, "adult_avg", "standard", "none", hours)
		result, err := NewSimulator(cfg, NewSimulationKey(42)).Run(context.Background())
		require.NoError(t, err)
		assert.Len(t, result.Trajectory, hours*StepsPerHour, "duration %dh", hours)
	}
}

func TestRun_ClampInvariant(t *testing.T) {
	// High-carb meals under illness modulation push hard against the
	// ceiling; every emitted sample must stay inside [50, 350].
	cfg := testConfig(t, "adult_high_ir", "high_carb", "illness", 24)
	result, err := NewSimulator(cfg, NewSimulationKey(7)).Run(context.Background())
	require.NoError(t, err)

	for i, s := range result.Trajectory {
		if s.Glucose < GlucoseFloor || s.Glucose > GlucoseCeil {
			t.Fatalf("sample %d: glucose %.2f outside [%.0f, %.0f]", i, s.Glucose, GlucoseFloor, GlucoseCeil)
		}
	}
}

func TestRun_SampleTimesAreStepHours(t *testing.T) {
	cfg := testConfig(t, "adult_avg", "standard", "none", 1)
	result, err := NewSimulator(cfg, NewSimulationKey(1)).Run(context.Background())
	require.NoError(t, err)

	require.Len(t, result.Trajectory, StepsPerHour)
	for i, s := range result.Trajectory {
		assert.Equal(t, float64(i)/StepsPerHour, s.TimeHours, "sample %d", i)
	}
}

func TestRun_OneMealDecisionInFirstHour(t *testing.T) {
	// The standard plan's first event is at t=0; with a 1h run the later
	// events are out of reach, and the t=0 event must fire exactly once
	// even though two adjacent steps fall inside its detection window.
	cfg := testConfig(t, "adult_avg", "standard", "none", 1)
	result, err := NewSimulator(cfg, NewSimulationKey(42)).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, result.MealDecisions)
	assert.Equal(t, StepsPerHour, len(result.Trajectory))
}

func TestRun_AllMealsFireOverFullDay(t *testing.T) {
	cfg := testConfig(t, "adult_avg", "high_carb", "none", 24)
	result, err := NewSimulator(cfg, NewSimulationKey(42)).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, len(cfg.MealPlan.Events), result.MealDecisions)
}

func TestRun_HypoRescue(t *testing.T) {
	// A contrived archetype whose insulin offset dwarfs the carb rise:
	// per gram 4 - 200/500*25 = -6, so a 60g meal drops glucose by 360,
	// far below the severe threshold.
	cfg := SimulationConfig{
		Archetype:     PatientArchetype{Key: "crash", WeightKg: 70, TotalDailyInsulin: 200},
		MealPlan:      MealPlan{Key: "crash", Events: []MealEvent{{TimeHours: 0, CarbGrams: 60}}},
		Challenge:     ChallengeNone,
		DurationHours: 1,
	}
	require.NoError(t, cfg.Validate())

	result, err := NewSimulator(cfg, NewSimulationKey(42)).Run(context.Background())
	require.NoError(t, err)

	require.GreaterOrEqual(t, result.HypoViolations, 1)
	assert.Equal(t, rescueGlucose, result.Trajectory[0].Glucose,
		"rescued step must emit exactly the rescue value")
	for _, s := range result.Trajectory {
		assert.GreaterOrEqual(t, s.Glucose, SevereHypoThreshold,
			"rescue must keep every emitted sample at or above the severe threshold")
	}
}

func TestRun_DeterministicUnderFixedKey(t *testing.T) {
	cfg := testConfig(t, "adolescent", "irregular", "dawn", 16)

	r1, err := NewSimulator(cfg, NewSimulationKey(99)).Run(context.Background())
	require.NoError(t, err)
	r2, err := NewSimulator(cfg, NewSimulationKey(99)).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, r1.Trajectory, r2.Trajectory)
	assert.Equal(t, r1.MealDecisions, r2.MealDecisions)
	assert.Equal(t, r1.HypoViolations, r2.HypoViolations)
}

func TestRun_DifferentKeysDiverge(t *testing.T) {
	cfg := testConfig(t, "adult_avg", "standard", "none", 4)

	r1, err := NewSimulator(cfg, NewSimulationKey(1)).Run(context.Background())
	require.NoError(t, err)
	r2, err := NewSimulator(cfg, NewSimulationKey(2)).Run(context.Background())
	require.NoError(t, err)

	assert.NotEqual(t, r1.Trajectory, r2.Trajectory)
}

func TestRun_CancelledContext(t *testing.T) {
	cfg := testConfig(t, "adult_avg", "standard", "none", 24)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := NewSimulator(cfg, NewSimulationKey(42)).Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, result)
}

func TestRun_InvalidConfigRejectedBeforeStepping(t *testing.T) {
	cfg := testConfig(t, "adult_avg", "standard", "none", 1)
	cfg.DurationHours = 0

	result, err := NewSimulator(cfg, NewSimulationKey(42)).Run(context.Background())
	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Nil(t, result)
}
