package sim

import "fmt"

// ConfigError reports an invalid simulation configuration: an unknown
// catalog key or a non-positive duration. Surfaced before any stepping
// happens; no partial run is performed.
type ConfigError struct {
	Field  string // which config field is invalid
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid simulation config: %s: %s", e.Field, e.Reason)
}

// InsufficientDataError reports that the variability analyzer was handed a
// trajectory it cannot summarize (empty, or degenerate zero mean). Statistics
// are never silently returned as zero or NaN.
type InsufficientDataError struct {
	Reason string
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("insufficient trajectory data: %s", e.Reason)
}
