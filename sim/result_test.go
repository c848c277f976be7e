package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestResult(t *testing.T, load TrafficLoad, groups int) *RunResult {
	t.Helper()
	cfg := NewConfig(groups, len(load), 1)
	a, gl, estimates, err := schedule(&MaxMin{}, load, cfg)
	require.NoError(t, err)
	return &RunResult{
		Config:     cfg,
		Load:       load,
		Assignment: a,
		GroupLoad:  gl,
		Groups:     estimates,
		Throughput: throughputOf(estimates),
	}
}

func TestRunResult_Views(t *testing.T) {
	r := newTestResult(t, TrafficLoad{5, 5, 3}, 2)

	assert.Equal(t, [][]int{{1, 0}, {0, 1}, {1, 0}}, r.AssignmentMatrix())
	assert.Equal(t, []float64{7, 5}, r.ThroughputSeries())
	assert.Equal(t, []Bin{{Key: 3, Count: 1}, {Key: 5, Count: 2}}, r.TrafficHistogram())
	assert.Equal(t, []float64{5, 12}, r.CumulativeThroughput())
	assert.Equal(t, 12.0, r.TotalThroughput())
	assert.InDelta(t, 0.12, r.ThroughputRate(), 1e-12)
}

func TestRunResult_ThroughputSeriesIsCopy(t *testing.T) {
	r := newTestResult(t, TrafficLoad{1, 2}, 2)
	s := r.ThroughputSeries()
	s[0] = 100
	assert.NotEqual(t, 100.0, r.Throughput[0])
}

func TestRunResult_CumulativeThroughput_LastIsTotal(t *testing.T) {
	r := newTestResult(t, TrafficLoad{4, 8, 1, 1, 6, 3, 3, 0, 7}, 3)
	cum := r.CumulativeThroughput()
	require.Len(t, cum, 3)
	for i := 1; i < len(cum); i++ {
		assert.GreaterOrEqual(t, cum[i], cum[i-1])
	}
	assert.InDelta(t, r.TotalThroughput(), cum[len(cum)-1], 1e-9)
}

func TestRunResult_TrafficHistogram_CountsEveryStation(t *testing.T) {
	r := newTestResult(t, TrafficLoad{0, 0, 2, 7, 2, 0}, 2)
	bins := r.TrafficHistogram()
	assert.Equal(t, []Bin{{0, 3}, {2, 2}, {7, 1}}, bins)
}

func TestNewDistribution(t *testing.T) {
	d := NewDistribution([]float64{4, 1, 3, 2, 5})
	assert.Equal(t, 5, d.Count)
	assert.Equal(t, 3.0, d.Mean)
	assert.Equal(t, 3.0, d.P50)
	assert.Equal(t, 1.0, d.Min)
	assert.Equal(t, 5.0, d.Max)
	assert.InDelta(t, 4.8, d.P95, 1e-12)
	assert.InDelta(t, 4.96, d.P99, 1e-12)

	assert.Equal(t, Distribution{}, NewDistribution(nil))
	assert.Equal(t, Distribution{Mean: 2, P50: 2, P95: 2, P99: 2, Min: 2, Max: 2, Count: 1}, NewDistribution([]float64{2}))
}
