// Package report renders run and sweep results as text, JSON, YAML and CSV.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"github.com/inference-sim/rawsim/sim"
	"github.com/inference-sim/rawsim/sim/sweep"
	"github.com/inference-sim/rawsim/sim/trace"
)

// RunReport is the serializable form of a sim.RunResult.
type RunReport struct {
	Config          sim.Config             `json:"config" yaml:"config"`
	Seed            int64                  `json:"seed" yaml:"seed"`
	Assigner        string                 `json:"assigner" yaml:"assigner"`
	Traffic         string                 `json:"traffic" yaml:"traffic"`
	Load            []int                  `json:"load" yaml:"load"`
	GroupIndex      []int                  `json:"group_index" yaml:"group_index"`
	GroupLoad       []float64              `json:"group_load" yaml:"group_load"`
	Groups          []sim.GroupEstimate    `json:"groups" yaml:"groups"`
	Throughput      []float64              `json:"throughput" yaml:"throughput"`
	TotalThroughput float64                `json:"total_throughput" yaml:"total_throughput"`
	ThroughputRate  float64                `json:"throughput_rate" yaml:"throughput_rate"`
	Summary         sim.Distribution       `json:"throughput_summary" yaml:"throughput_summary"`
	Fairness        float64                `json:"fairness" yaml:"fairness"`
	FairnessDefined bool                   `json:"fairness_defined" yaml:"fairness_defined"`
	Trace           *trace.AssignmentTrace `json:"trace,omitempty" yaml:"trace,omitempty"`
}

// NewRunReport flattens r into a RunReport.
func NewRunReport(r *sim.RunResult) RunReport {
	return RunReport{
		Config:          r.Config,
		Seed:            r.Seed,
		Assigner:        r.Assigner,
		Traffic:         r.Traffic,
		Load:            r.Load,
		GroupIndex:      r.Assignment.GroupIndex(),
		GroupLoad:       r.GroupLoad,
		Groups:          r.Groups,
		Throughput:      r.Throughput,
		TotalThroughput: r.TotalThroughput(),
		ThroughputRate:  r.ThroughputRate(),
		Summary:         r.ThroughputSummary(),
		Fairness:        r.Fairness,
		FairnessDefined: r.FairnessDefined,
		Trace:           r.Trace,
	}
}

// AggregateReport is the serializable form of a sweep.Aggregate.
type AggregateReport struct {
	Groups                 int     `json:"groups" yaml:"groups"`
	Stations               int     `json:"stations" yaml:"stations"`
	ArrivalRate            float64 `json:"arrival_rate" yaml:"arrival_rate"`
	Slots                  int     `json:"slots" yaml:"slots"`
	GroupDuration          float64 `json:"group_duration" yaml:"group_duration"`
	Assigner               string  `json:"assigner" yaml:"assigner"`
	Traffic                string  `json:"traffic,omitempty" yaml:"traffic,omitempty"`
	Replicates             int     `json:"replicates" yaml:"replicates"`
	UndefinedFairness      int     `json:"undefined_fairness" yaml:"undefined_fairness"`
	FairnessMean           float64 `json:"fairness_mean" yaml:"fairness_mean"`
	FairnessStdDev         float64 `json:"fairness_stddev" yaml:"fairness_stddev"`
	ThroughputMean         float64 `json:"throughput_mean" yaml:"throughput_mean"`
	ThroughputStdDev       float64 `json:"throughput_stddev" yaml:"throughput_stddev"`
	MinGroupThroughputMean float64 `json:"min_group_throughput_mean" yaml:"min_group_throughput_mean"`
}

// NewAggregateReports flattens sweep aggregates, preserving order.
func NewAggregateReports(aggs []sweep.Aggregate) []AggregateReport {
	out := make([]AggregateReport, len(aggs))
	for i, a := range aggs {
		out[i] = AggregateReport{
			Groups:                 a.Config.Groups,
			Stations:               a.Config.Stations,
			ArrivalRate:            a.Config.ArrivalRate,
			Slots:                  a.Config.Slots,
			GroupDuration:          a.Config.GroupDuration,
			Assigner:               a.Assigner,
			Traffic:                a.Traffic,
			Replicates:             a.Replicates,
			UndefinedFairness:      a.UndefinedFairness,
			FairnessMean:           a.FairnessMean,
			FairnessStdDev:         a.FairnessStdDev,
			ThroughputMean:         a.ThroughputMean,
			ThroughputStdDev:       a.ThroughputStdDev,
			MinGroupThroughputMean: a.MinGroupThroughputMean,
		}
	}
	return out
}

// PrintRun writes a human-readable summary of r.
func PrintRun(w io.Writer, r *sim.RunResult) {
	fmt.Fprintln(w, "=== RAW Scheduling Result ===")
	fmt.Fprintf(w, "Stations             : %d\n", r.Config.Stations)
	fmt.Fprintf(w, "Groups               : %d\n", r.Config.Groups)
	fmt.Fprintf(w, "Slots per group      : %d\n", r.Config.Slots)
	fmt.Fprintf(w, "Arrival rate         : %.2f\n", r.Config.ArrivalRate)
	fmt.Fprintf(w, "Assigner / traffic   : %s / %s\n", r.Assigner, r.Traffic)
	fmt.Fprintf(w, "Seed                 : %d\n", r.Seed)
	fmt.Fprintf(w, "Offered load         : %d packets\n", r.Load.Total())
	fmt.Fprintf(w, "Total throughput     : %.4f packets\n", r.TotalThroughput())
	fmt.Fprintf(w, "Throughput rate      : %.4f packets/unit\n", r.ThroughputRate())
	if r.FairnessDefined {
		fmt.Fprintf(w, "Jain fairness        : %.4f\n", r.Fairness)
	} else {
		fmt.Fprintln(w, "Jain fairness        : undefined (no throughput)")
	}

	fmt.Fprintln(w)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "GROUP\tSTATIONS\tLOAD\tCOLLISION\tTHROUGHPUT")
	for _, g := range r.Groups {
		fmt.Fprintf(tw, "%d\t%d\t%.0f\t%.4f\t%.4f\n", g.Group, g.Size, g.Load, g.Collision, g.Throughput)
	}
	_ = tw.Flush()

	if r.Trace != nil {
		s := trace.Summarize(r.Trace)
		fmt.Fprintf(w, "\nTrace: %d steps, group load spread %.0f (min %.0f, max %.0f)\n",
			s.TotalSteps, s.Spread, s.MinGroupLoad, s.MaxGroupLoad)
	}
}

// PrintSweep writes one table row per sweep aggregate.
func PrintSweep(w io.Writer, aggs []sweep.Aggregate) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "GROUPS\tSTATIONS\tRATE\tSLOTS\tASSIGNER\tREPS\tFAIRNESS\t±\tTHROUGHPUT\t±\tMIN GROUP")
	for _, a := range aggs {
		fairness := fmt.Sprintf("%.4f", a.FairnessMean)
		if a.UndefinedFairness == a.Replicates {
			fairness = "n/a"
		}
		fmt.Fprintf(tw, "%d\t%d\t%.2f\t%d\t%s\t%d\t%s\t%.4f\t%.3f\t%.3f\t%.3f\n",
			a.Config.Groups, a.Config.Stations, a.Config.ArrivalRate, a.Config.Slots,
			a.Assigner, a.Replicates, fairness, a.FairnessStdDev,
			a.ThroughputMean, a.ThroughputStdDev, a.MinGroupThroughputMean)
	}
	_ = tw.Flush()
}

// WriteJSON writes v as indented JSON.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}
	return nil
}

// WriteYAML writes v as YAML.
func WriteYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding YAML: %w", err)
	}
	return enc.Close()
}
