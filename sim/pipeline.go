package sim

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/inference-sim/rawsim/sim/trace"
)

// RunMaxMinScheduling assigns load to cfg.Groups groups with MaxMin and
// estimates the resulting per-group throughput.
// Returns ErrDimensionMismatch if len(load) != cfg.Stations.
func RunMaxMinScheduling(load TrafficLoad, cfg Config) (*Assignment, Throughput, error) {
	a, _, estimates, err := schedule(&MaxMin{}, load, cfg)
	if err != nil {
		return nil, nil, err
	}
	return a, throughputOf(estimates), nil
}

// ComputeFairnessIndex is Jain's index over a throughput vector.
// Returns ErrDegenerateMetric when every group has zero throughput.
func ComputeFairnessIndex(th Throughput) (float64, error) {
	return JainIndex(th)
}

// schedule runs the assignment and estimation stages for an already
// generated traffic vector.
func schedule(assigner Assigner, load TrafficLoad, cfg Config) (*Assignment, GroupLoad, []GroupEstimate, error) {
	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, nil, nil, err
	}
	if len(load) != cfg.Stations {
		return nil, nil, nil, fmt.Errorf("%w: traffic load has %d entries, config has %d stations",
			ErrDimensionMismatch, len(load), cfg.Stations)
	}
	a, groupLoad, err := assigner.Assign(load, cfg.Groups)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("assigning stations: %w", err)
	}
	estimates, err := EstimateGroups(a, load, cfg.Slots)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("estimating throughput: %w", err)
	}
	return a, groupLoad, estimates, nil
}

// Run executes the full pipeline for one RunSpec:
// traffic generation → assignment → throughput estimation → fairness.
//
// The RunSpec is validated before any stage runs. An all-zero throughput vector
// is not an error here: the result records FairnessDefined=false and
// Fairness=0 so sweeps at vanishing load still complete.
func Run(spec RunSpec) (*RunResult, error) {
	spec.Config = spec.Config.WithDefaults()
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	cfg := spec.Config
	rng := NewPartitionedRNG(NewSimulationKey(spec.Seed))

	sampler := NewTrafficSampler(spec.Traffic, cfg.ArrivalRate)
	load, err := GenerateTrafficWith(cfg, sampler, rng.ForSubsystem(SubsystemTraffic))
	if err != nil {
		return nil, err
	}

	var tr *trace.AssignmentTrace
	if spec.Trace {
		tr = trace.NewAssignmentTrace(assignerName(spec.Assigner), cfg.Groups)
	}
	assigner := NewAssigner(spec.Assigner, rng.ForSubsystem(SubsystemAssigner), tr)

	a, groupLoad, estimates, err := schedule(assigner, load, cfg)
	if err != nil {
		return nil, err
	}

	result := &RunResult{
		Config:     cfg,
		Seed:       spec.Seed,
		Assigner:   assignerName(spec.Assigner),
		Traffic:    trafficName(spec.Traffic),
		Load:       load,
		Assignment: a,
		GroupLoad:  groupLoad,
		Groups:     estimates,
		Throughput: throughputOf(estimates),
		Trace:      tr,
	}

	fairness, err := ComputeFairnessIndex(result.Throughput)
	switch {
	case err == nil:
		result.Fairness = fairness
		result.FairnessDefined = true
	case errors.Is(err, ErrDegenerateMetric):
		logrus.Warnf("fairness undefined for seed %d: %v", spec.Seed, err)
	default:
		return nil, err
	}

	logrus.Debugf("run seed=%d groups=%d stations=%d fairness=%.4f",
		spec.Seed, cfg.Groups, cfg.Stations, result.Fairness)
	return result, nil
}

func assignerName(name string) string {
	if name == "" {
		return "max-min"
	}
	return name
}

func trafficName(name string) string {
	if name == "" {
		return "poisson"
	}
	return name
}
