// Computes glycemic variability summary statistics over a finished
// trajectory: time in/below/above the 70-180 mg/dL target band, severe
// hypoglycemia exposure, mean, and coefficient of variation.

package sim

import (
	"fmt"

	"gonum.org/v1/gonum/stat"
)

// Target band boundaries. In-range is inclusive on both ends; below is
// strictly under TargetLow, above strictly over TargetHigh, so the three
// bands partition every sample.
const (
	TargetLow  = 70.0
	TargetHigh = 180.0
)

// VariabilityMetrics summarizes a completed trajectory for reporting.
// Derived and read-only; the percentage fields all lie in [0, 100].
type VariabilityMetrics struct {
	TimeInRangePct            float64 // samples in [70, 180]
	TimeBelowRangePct         float64 // samples < 70
	SevereHypoPct             float64 // samples < 54
	TimeAboveRangePct         float64 // samples > 180
	MeanGlucose               float64 // mg/dL
	CoefficientOfVariationPct float64
}

// Analyze computes VariabilityMetrics from a completed run. An empty
// trajectory (or a degenerate zero mean) returns an InsufficientDataError
// rather than dividing by zero.
func Analyze(result *SimulationResult) (VariabilityMetrics, error) {
	if result == nil || len(result.Trajectory) == 0 {
		return VariabilityMetrics{}, &InsufficientDataError{Reason: "empty trajectory"}
	}

	n := len(result.Trajectory)
	values := make([]float64, n)
	var inRange, below, severe, above int
	for i, s := range result.Trajectory {
		values[i] = s.Glucose
		switch {
		case s.Glucose < TargetLow:
			below++
			if s.Glucose < SevereHypoThreshold {
				severe++
			}
		case s.Glucose > TargetHigh:
			above++
		default:
			inRange++
		}
	}

	mean := stat.Mean(values, nil)
	if mean == 0 {
		return VariabilityMetrics{}, &InsufficientDataError{Reason: "zero mean glucose, cannot compute CV"}
	}
	stddev := stat.PopStdDev(values, nil)

	pct := func(count int) float64 { return float64(count) / float64(n) * 100 }
	return VariabilityMetrics{
		TimeInRangePct:            pct(inRange),
		TimeBelowRangePct:         pct(below),
		SevereHypoPct:             pct(severe),
		TimeAboveRangePct:         pct(above),
		MeanGlucose:               mean,
		CoefficientOfVariationPct: 100 * stddev / mean,
	}, nil
}

// Print displays the variability report at the end of a run.
func (m VariabilityMetrics) Print(result *SimulationResult) {
	fmt.Println("=== Glycemic Variability ===")
	fmt.Printf("Samples              : %d\n", len(result.Trajectory))
	fmt.Printf("Meal Decisions       : %d\n", result.MealDecisions)
	fmt.Printf("Hypo Violations      : %d\n", result.HypoViolations)
	fmt.Printf("Time In Range        : %.1f%%\n", m.TimeInRangePct)
	fmt.Printf("Time Below Range     : %.1f%%\n", m.TimeBelowRangePct)
	fmt.Printf("Severe Hypoglycemia  : %.1f%%\n", m.SevereHypoPct)
	fmt.Printf("Time Above Range     : %.1f%%\n", m.TimeAboveRangePct)
	fmt.Printf("Mean Glucose         : %.1f mg/dL\n", m.MeanGlucose)
	fmt.Printf("Coefficient of Var.  : %.1f%%\n", m.CoefficientOfVariationPct)
}
