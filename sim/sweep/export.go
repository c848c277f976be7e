package sweep

import (
	"fmt"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	metricsNamespace = "rawsim"
	metricsSubsystem = "sweep"
)

// settingLabels identify one grid cell on every exported series.
var settingLabels = []string{"groups", "stations", "arrival_rate", "slots", "group_duration", "assigner", "traffic"}

// Exporter publishes sweep aggregates as Prometheus gauges.
type Exporter struct {
	fairness           *prometheus.GaugeVec
	totalThroughput    *prometheus.GaugeVec
	minGroupThroughput *prometheus.GaugeVec
	undefinedFairness  *prometheus.GaugeVec
	runsTotal          prometheus.Counter
}

// NewExporter registers the sweep metrics on reg.
func NewExporter(reg prometheus.Registerer) *Exporter {
	factory := promauto.With(reg)
	return &Exporter{
		fairness: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: metricsNamespace,
				Subsystem: metricsSubsystem,
				Name:      "fairness_index",
				Help:      "Mean Jain fairness index across replicates with defined fairness",
			},
			settingLabels,
		),
		totalThroughput: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: metricsNamespace,
				Subsystem: metricsSubsystem,
				Name:      "total_throughput",
				Help:      "Mean total estimated throughput across replicates",
			},
			settingLabels,
		),
		minGroupThroughput: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: metricsNamespace,
				Subsystem: metricsSubsystem,
				Name:      "min_group_throughput",
				Help:      "Mean throughput of the worst-served group across replicates",
			},
			settingLabels,
		),
		undefinedFairness: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: metricsNamespace,
				Subsystem: metricsSubsystem,
				Name:      "undefined_fairness_runs",
				Help:      "Replicates whose fairness was undefined because every group had zero throughput",
			},
			settingLabels,
		),
		runsTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: metricsSubsystem,
				Name:      "runs_total",
				Help:      "Total number of pipeline runs aggregated",
			},
		),
	}
}

// Observe sets the gauges for each aggregate and counts its replicates.
// A setting with no defined fairness in any replicate gets no fairness series.
func (e *Exporter) Observe(aggs []Aggregate) {
	for _, a := range aggs {
		labels := settingLabelValues(a.Setting)
		if a.UndefinedFairness < a.Replicates {
			e.fairness.WithLabelValues(labels...).Set(a.FairnessMean)
		}
		e.undefinedFairness.WithLabelValues(labels...).Set(float64(a.UndefinedFairness))
		e.totalThroughput.WithLabelValues(labels...).Set(a.ThroughputMean)
		e.minGroupThroughput.WithLabelValues(labels...).Set(a.MinGroupThroughputMean)
		e.runsTotal.Add(float64(a.Replicates))
	}
}

// WriteTextfile writes aggs in the Prometheus text exposition format,
// suitable for the node_exporter textfile collector.
func WriteTextfile(path string, aggs []Aggregate) error {
	reg := prometheus.NewRegistry()
	NewExporter(reg).Observe(aggs)
	if err := prometheus.WriteToTextfile(path, reg); err != nil {
		return fmt.Errorf("writing metrics textfile: %w", err)
	}
	return nil
}

func settingLabelValues(s Setting) []string {
	return []string{
		strconv.Itoa(s.Config.Groups),
		strconv.Itoa(s.Config.Stations),
		strconv.FormatFloat(s.Config.ArrivalRate, 'g', -1, 64),
		strconv.Itoa(s.Config.Slots),
		strconv.FormatFloat(s.Config.GroupDuration, 'g', -1, 64),
		s.Assigner,
		s.Traffic,
	}
}
