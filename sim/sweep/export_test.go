package sweep

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inference-sim/rawsim/sim"
)

func testAggregates() []Aggregate {
	return []Aggregate{
		{
			Setting:                Setting{Config: sim.NewConfig(4, 32, 2.5), Assigner: "max-min", Traffic: "poisson"},
			Replicates:             3,
			FairnessMean:           0.75,
			ThroughputMean:         40,
			MinGroupThroughputMean: 8,
		},
		{
			Setting:        Setting{Config: sim.NewConfig(8, 32, 2.5), Assigner: "round-robin", Traffic: "poisson"},
			Replicates:     2,
			FairnessMean:   0.5,
			ThroughputMean: 44,
		},
	}
}

func TestExporter_RegistersAllFamilies(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewExporter(reg).Observe(testAggregates())

	families, err := reg.Gather()
	require.NoError(t, err)

	names := make(map[string]int)
	for _, mf := range families {
		names[mf.GetName()] = len(mf.GetMetric())
	}
	assert.Equal(t, map[string]int{
		"rawsim_sweep_fairness_index":          2,
		"rawsim_sweep_total_throughput":        2,
		"rawsim_sweep_min_group_throughput":    2,
		"rawsim_sweep_undefined_fairness_runs": 2,
		"rawsim_sweep_runs_total":              1,
	}, names)
}

func TestExporter_AllUndefinedFairness_NoFairnessSeries(t *testing.T) {
	// GIVEN a setting where no replicate had defined fairness
	aggs := []Aggregate{{
		Setting:           Setting{Config: sim.NewConfig(3, 9, 0.4), Assigner: "max-min", Traffic: "constant"},
		Replicates:        2,
		UndefinedFairness: 2,
	}}

	// WHEN exported
	path := filepath.Join(t.TempDir(), "rawsim.prom")
	require.NoError(t, WriteTextfile(path, aggs))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)

	// THEN fairness is absent rather than reported as 0, and the undefined count is exported
	assert.NotContains(t, text, "rawsim_sweep_fairness_index{")
	assert.Contains(t, text, `rawsim_sweep_undefined_fairness_runs{arrival_rate="0.4",assigner="max-min",group_duration="100",groups="3",slots="8",stations="9",traffic="constant"} 2`)
	assert.Contains(t, text, "rawsim_sweep_runs_total 2")
}

func TestExporter_DuplicateRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewExporter(reg)
	assert.Panics(t, func() { NewExporter(reg) })
}

func TestWriteTextfile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rawsim.prom")
	require.NoError(t, WriteTextfile(path, testAggregates()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)

	assert.Contains(t, text, "# TYPE rawsim_sweep_fairness_index gauge")
	assert.Contains(t, text, `rawsim_sweep_fairness_index{arrival_rate="2.5",assigner="max-min",group_duration="100",groups="4",slots="8",stations="32",traffic="poisson"} 0.75`)
	assert.Contains(t, text, "rawsim_sweep_runs_total 5")
}

func TestWriteTextfile_BadPath(t *testing.T) {
	err := WriteTextfile(filepath.Join(t.TempDir(), "missing", "rawsim.prom"), testAggregates())
	assert.Error(t, err)
}
