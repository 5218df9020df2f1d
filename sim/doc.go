// Package sim provides the core glucose-trajectory simulation engine for glycosim.
//
// # Reading Guide
//
// Start with these three files to understand the simulation kernel:
//   - config.go: SimulationConfig assembly, catalog resolution, and validation
//   - simulator.go: the fixed-cadence step loop (meals, regimes, reversion, noise, clamp, rescue)
//   - variability.go: one-pass glycemic variability metrics over a finished trajectory
//
// # Architecture
//
// The sim package holds the kernel and the fixed parameter catalogs
// (patient.go, meals.go, challenge.go). The sim/scenario sub-package layers
// YAML scenario files and built-in presets on top and compiles them into a
// SimulationConfig.
//
// All randomness flows through a PartitionedRNG (rng.go) keyed by a
// SimulationKey, so two runs with the same key and configuration produce
// bit-for-bit identical trajectories and metrics.
package sim
