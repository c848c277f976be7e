package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/inference-sim/rawsim/sim"
	"github.com/inference-sim/rawsim/sim/sweep"
)

func testRun(t *testing.T, spec sim.RunSpec) *sim.RunResult {
	t.Helper()
	r, err := sim.Run(spec)
	require.NoError(t, err)
	return r
}

func TestPrintRun(t *testing.T) {
	r := testRun(t, sim.RunSpec{Config: sim.NewConfig(3, 12, 2), Seed: 4, Trace: true})

	var buf bytes.Buffer
	PrintRun(&buf, r)
	out := buf.String()

	assert.Contains(t, out, "=== RAW Scheduling Result ===")
	assert.Contains(t, out, "Stations             : 12")
	assert.Contains(t, out, "max-min / poisson")
	assert.Contains(t, out, "Jain fairness")
	assert.Contains(t, out, "GROUP")
	assert.Contains(t, out, "Trace: 12 steps")
	// header + one line per group
	tableStart := strings.Index(out, "GROUP")
	tableLines := strings.Split(strings.TrimSpace(out[tableStart:strings.Index(out, "Trace:")]), "\n")
	assert.Len(t, tableLines, 4)
}

func TestPrintRun_UndefinedFairness(t *testing.T) {
	r := testRun(t, sim.RunSpec{Config: sim.NewConfig(2, 4, 0.2), Traffic: "constant"})

	var buf bytes.Buffer
	PrintRun(&buf, r)
	assert.Contains(t, buf.String(), "undefined (no throughput)")
	assert.NotContains(t, buf.String(), "Trace:")
}

func TestWriteJSON_RunReport(t *testing.T) {
	r := testRun(t, sim.RunSpec{Config: sim.NewConfig(2, 6, 3), Seed: 9})

	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, NewRunReport(r)))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "max-min", decoded["assigner"])
	assert.Equal(t, float64(9), decoded["seed"])
	assert.Len(t, decoded["group_index"], 6)
	assert.Len(t, decoded["throughput"], 2)
	assert.Equal(t, true, decoded["fairness_defined"])
	assert.NotContains(t, decoded, "trace")

	cfg, ok := decoded["config"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(8), cfg["slots"])
}

func TestWriteYAML_RunReport(t *testing.T) {
	r := testRun(t, sim.RunSpec{Config: sim.NewConfig(2, 6, 3), Seed: 9, Trace: true})

	var buf bytes.Buffer
	require.NoError(t, WriteYAML(&buf, NewRunReport(r)))

	var decoded RunReport
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, r.Config, decoded.Config)
	assert.Equal(t, r.Assignment.GroupIndex(), decoded.GroupIndex)
	require.NotNil(t, decoded.Trace)
	assert.Len(t, decoded.Trace.Steps, 6)
}

func TestPrintSweep(t *testing.T) {
	aggs := []sweep.Aggregate{
		{
			Setting:        sweep.Setting{Config: sim.NewConfig(4, 32, 2), Assigner: "max-min"},
			Replicates:     3,
			FairnessMean:   0.9123,
			ThroughputMean: 50,
		},
		{
			Setting:           sweep.Setting{Config: sim.NewConfig(4, 32, 0.1), Assigner: "round-robin"},
			Replicates:        2,
			UndefinedFairness: 2,
		},
	}

	var buf bytes.Buffer
	PrintSweep(&buf, aggs)
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "FAIRNESS")
	assert.Contains(t, lines[1], "0.9123")
	assert.Contains(t, lines[1], "max-min")
	assert.Contains(t, lines[2], "n/a")
}

func TestNewAggregateReports(t *testing.T) {
	aggs := []sweep.Aggregate{{
		Setting:        sweep.Setting{Config: sim.NewConfig(2, 8, 1.5), Assigner: "random", Traffic: "poisson"},
		Replicates:     4,
		FairnessMean:   0.8,
		FairnessStdDev: 0.05,
	}}
	reports := NewAggregateReports(aggs)
	require.Len(t, reports, 1)
	assert.Equal(t, AggregateReport{
		Groups:         2,
		Stations:       8,
		ArrivalRate:    1.5,
		Slots:          sim.DefaultSlots,
		GroupDuration:  sim.DefaultGroupDuration,
		Assigner:       "random",
		Traffic:        "poisson",
		Replicates:     4,
		FairnessMean:   0.8,
		FairnessStdDev: 0.05,
	}, reports[0])
}
