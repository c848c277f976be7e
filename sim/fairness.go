package sim

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// JainIndex computes Jain's fairness index (Σx)² / (n·Σx²).
//
// The result lies in [1/n, 1]: 1 when all values are equal, 1/n when a single
// value carries everything. An empty or all-zero vector is 0/0 and returns
// ErrDegenerateMetric rather than a value. Negative or NaN entries are rejected.
func JainIndex(values []float64) (float64, error) {
	if len(values) == 0 {
		return 0, fmt.Errorf("%w: fairness of an empty vector", ErrDegenerateMetric)
	}
	for i, v := range values {
		if math.IsNaN(v) || v < 0 {
			return 0, fmt.Errorf("fairness input[%d] must be non-negative, got %v", i, v)
		}
	}
	peak := floats.Max(values)
	if peak == 0 {
		return 0, fmt.Errorf("%w: fairness of an all-zero vector", ErrDegenerateMetric)
	}
	// The index is scale-free; normalizing by the peak keeps tiny entries
	// from underflowing when squared.
	scaled := make([]float64, len(values))
	for i, v := range values {
		scaled[i] = v / peak
	}
	sum := floats.Sum(scaled)
	j := (sum * sum) / (float64(len(scaled)) * floats.Dot(scaled, scaled))
	// Rounding can push equal vectors a hair above 1.
	return math.Min(j, 1), nil
}
