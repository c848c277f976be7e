package sim

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by the pipeline stages. Match with errors.Is.
var (
	// ErrConfiguration is returned when a run configuration or a stage
	// argument is out of range (non-positive counts, non-finite rates,
	// unknown policy names).
	ErrConfiguration = errors.New("invalid configuration")

	// ErrDimensionMismatch is returned when a TrafficLoad does not match the
	// station count it is paired with.
	ErrDimensionMismatch = errors.New("dimension mismatch")

	// ErrDegenerateMetric is returned when a metric is undefined for its
	// input, e.g. Jain's index over an all-zero throughput vector.
	ErrDegenerateMetric = errors.New("degenerate metric")
)

// ConfigError describes the first invalid field found by Config.Validate.
type ConfigError struct {
	Field  string
	Value  any
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s: %s %s, got %v", ErrConfiguration, e.Field, e.Reason, e.Value)
}

// Unwrap lets errors.Is(err, ErrConfiguration) match.
func (e *ConfigError) Unwrap() error {
	return ErrConfiguration
}
