// Package testutil provides shared test infrastructure for the RAW simulator.
// It holds the golden max-min dataset and assertion helpers used across
// sim/ and sim/sweep/ test packages.
package testutil

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// GoldenDataset represents the structure of testdata/golden_maxmin.json.
type GoldenDataset struct {
	Cases []GoldenCase `json:"cases"`
}

// GoldenCase is one fixed traffic vector with its expected max-min schedule.
type GoldenCase struct {
	Name   string `json:"name"`
	Groups int    `json:"groups"`
	Slots  int    `json:"slots"`
	Load   []int  `json:"load"`

	// Expected outputs
	GroupIndex      []int     `json:"group_index"`
	GroupLoad       []float64 `json:"group_load"`
	Throughput      []float64 `json:"throughput"`
	Fairness        float64   `json:"fairness"`
	FairnessDefined bool      `json:"fairness_defined"`
}

// LoadGoldenDataset loads the golden dataset from the testdata directory.
// The path is resolved relative to this source file: sim/internal/testutil/ → testdata/.
func LoadGoldenDataset(t *testing.T) *GoldenDataset {
	t.Helper()

	_, thisFile, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("Failed to get current file path")
	}
	path := filepath.Join(filepath.Dir(thisFile), "..", "..", "..", "testdata", "golden_maxmin.json")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read golden dataset: %v", err)
	}

	var dataset GoldenDataset
	if err := json.Unmarshal(data, &dataset); err != nil {
		t.Fatalf("Failed to parse golden dataset: %v", err)
	}
	return &dataset
}

// AssertFloat64Equal compares two float64 values with relative tolerance.
func AssertFloat64Equal(t *testing.T, name string, want, got, relTol float64) {
	t.Helper()
	if want == 0 && got == 0 {
		return
	}
	diff := math.Abs(want - got)
	maxVal := math.Max(math.Abs(want), math.Abs(got))
	if diff/maxVal > relTol {
		t.Errorf("%s: got %v, want %v (diff=%v, relDiff=%v)", name, got, want, diff, diff/maxVal)
	}
}

// AssertSliceFloat64Equal compares two float64 slices element-wise with
// relative tolerance.
func AssertSliceFloat64Equal(t *testing.T, name string, want, got []float64, relTol float64) {
	t.Helper()
	if len(want) != len(got) {
		t.Errorf("%s: length %d, want %d", name, len(got), len(want))
		return
	}
	for i := range want {
		AssertFloat64Equal(t, name, want[i], got[i], relTol)
	}
}
