package report

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inference-sim/rawsim/sim"
)

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()
	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return records
}

func TestWriteViews(t *testing.T) {
	// GIVEN constant traffic so every view is predictable
	r := testRun(t, sim.RunSpec{Config: sim.NewConfig(2, 4, 3), Traffic: "constant"})
	dir := filepath.Join(t.TempDir(), "views")

	// WHEN the views are written
	require.NoError(t, WriteViews(dir, r))

	// THEN the assignment matrix has one row per station plus header
	matrix := readCSV(t, filepath.Join(dir, AssignmentMatrixFile))
	assert.Equal(t, []string{"station", "group_0", "group_1"}, matrix[0])
	assert.Equal(t, [][]string{
		{"0", "1", "0"},
		{"1", "0", "1"},
		{"2", "1", "0"},
		{"3", "0", "1"},
	}, matrix[1:])

	// AND each group (two stations, six packets, c = 1/8) carries 5.25
	series := readCSV(t, filepath.Join(dir, ThroughputSeriesFile))
	assert.Equal(t, [][]string{{"group", "throughput"}, {"0", "5.25"}, {"1", "5.25"}}, series)

	hist := readCSV(t, filepath.Join(dir, TrafficHistogramFile))
	assert.Equal(t, [][]string{{"load", "stations"}, {"3", "4"}}, hist)

	cum := readCSV(t, filepath.Join(dir, CumulativeThroughputFile))
	assert.Equal(t, [][]string{{"rank", "cumulative_throughput"}, {"1", "5.25"}, {"2", "10.5"}}, cum)
}

func TestWriteViews_UnwritableDir(t *testing.T) {
	r := testRun(t, sim.RunSpec{Config: sim.NewConfig(2, 4, 3), Traffic: "constant"})
	file := filepath.Join(t.TempDir(), "plain")
	require.NoError(t, os.WriteFile(file, nil, 0o644))

	assert.Error(t, WriteViews(filepath.Join(file, "views"), r))
}
