package sim

// TrajectorySample is one (time, glucose) point of a finished run.
type TrajectorySample struct {
	TimeHours float64 // simulated hours since start
	Glucose   float64 // mg/dL, always inside [50, 350] after clamping
}

// SimulationResult is the complete output of one trajectory run. Built
// incrementally during the run, immutable once Run returns, and consumed
// by the variability analyzer.
type SimulationResult struct {
	Trajectory     []TrajectorySample
	MealDecisions  int // meal events that fired a bolus decision
	HypoViolations int // steps where the rescue intervention reset glucose to 70
}
