package sim

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"

	"github.com/inference-sim/rawsim/sim/trace"
)

// RunResult is the read-only snapshot of one pipeline run.
// Consumers (reports, sweeps, exporters) read it; nothing mutates it after Run returns.
type RunResult struct {
	Config   Config
	Seed     int64
	Assigner string
	Traffic  string

	Load       TrafficLoad
	Assignment *Assignment
	GroupLoad  GroupLoad
	Groups     []GroupEstimate
	Throughput Throughput

	Fairness        float64 // 0 when FairnessDefined is false
	FairnessDefined bool

	Trace *trace.AssignmentTrace // nil unless RunSpec.Trace was set
}

// Bin is one bucket of a histogram: Count stations offered exactly Key load.
type Bin struct {
	Key   int `json:"key" yaml:"key"`
	Count int `json:"count" yaml:"count"`
}

// AssignmentMatrix returns the station × group indicator matrix.
func (r *RunResult) AssignmentMatrix() [][]int {
	return r.Assignment.Matrix()
}

// ThroughputSeries returns a copy of the per-group throughput, in group order.
func (r *RunResult) ThroughputSeries() []float64 {
	out := make([]float64, len(r.Throughput))
	copy(out, r.Throughput)
	return out
}

// TrafficHistogram counts stations per offered-load value, sorted by load.
func (r *RunResult) TrafficHistogram() []Bin {
	counts := make(map[int]int)
	for _, v := range r.Load {
		counts[v]++
	}
	bins := make([]Bin, 0, len(counts))
	for k, c := range counts {
		bins = append(bins, Bin{Key: k, Count: c})
	}
	sort.Slice(bins, func(i, j int) bool { return bins[i].Key < bins[j].Key })
	return bins
}

// CumulativeThroughput sorts group throughput ascending and returns the
// running sum. The last entry is the total throughput.
func (r *RunResult) CumulativeThroughput() []float64 {
	sorted := r.ThroughputSeries()
	sort.Float64s(sorted)
	out := make([]float64, len(sorted))
	if len(sorted) == 0 {
		return out
	}
	return floats.CumSum(out, sorted)
}

// TotalThroughput is the sum of per-group throughput.
func (r *RunResult) TotalThroughput() float64 {
	return floats.Sum(r.Throughput)
}

// ThroughputRate is total throughput per unit of RAW group duration.
func (r *RunResult) ThroughputRate() float64 {
	return r.TotalThroughput() / r.Config.GroupDuration
}

// ThroughputSummary returns the distribution of per-group throughput.
func (r *RunResult) ThroughputSummary() Distribution {
	return NewDistribution(r.Throughput)
}

// Distribution captures statistical summary of a metric.
type Distribution struct {
	Mean  float64 `json:"mean" yaml:"mean"`
	P50   float64 `json:"p50" yaml:"p50"`
	P95   float64 `json:"p95" yaml:"p95"`
	P99   float64 `json:"p99" yaml:"p99"`
	Min   float64 `json:"min" yaml:"min"`
	Max   float64 `json:"max" yaml:"max"`
	Count int     `json:"count" yaml:"count"`
}

// NewDistribution computes a Distribution from raw values.
// Returns zero-value Distribution for empty input.
func NewDistribution(values []float64) Distribution {
	if len(values) == 0 {
		return Distribution{}
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	return Distribution{
		Mean:  floats.Sum(sorted) / float64(len(sorted)),
		P50:   percentile(sorted, 50),
		P95:   percentile(sorted, 95),
		P99:   percentile(sorted, 99),
		Min:   sorted[0],
		Max:   sorted[len(sorted)-1],
		Count: len(sorted),
	}
}

// percentile computes the p-th percentile using linear interpolation.
// Input must be sorted.
func percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if len(sorted) == 1 {
		return sorted[0]
	}
	rank := p / 100.0 * float64(len(sorted)-1)
	lower := int(math.Floor(rank))
	upper := int(math.Ceil(rank))
	if lower == upper {
		return sorted[lower]
	}
	frac := rank - float64(lower)
	return sorted[lower] + frac*(sorted[upper]-sorted[lower])
}
