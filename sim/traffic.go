package sim

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/stat/distuv"
)

// TrafficLoad is the offered load per station, indexed by station.
type TrafficLoad []int

// Total returns the sum of all station loads.
func (t TrafficLoad) Total() int {
	total := 0
	for _, v := range t {
		total += v
	}
	return total
}

// TrafficSampler draws one station's offered load for a run.
type TrafficSampler interface {
	// Sample returns a non-negative offered load.
	Sample(rng *rand.Rand) int
}

// PoissonSampler draws Poisson(rate) offered loads.
type PoissonSampler struct {
	rate float64
}

func (s *PoissonSampler) Sample(rng *rand.Rand) int {
	d := distuv.Poisson{Lambda: s.rate, Src: rng}
	return int(d.Rand())
}

// ConstantSampler gives every station the same load, round(rate).
// Used to isolate assigner behavior from traffic noise.
type ConstantSampler struct {
	value int
}

func (s *ConstantSampler) Sample(_ *rand.Rand) int {
	return s.value
}

// ValidTrafficProcesses is the set of recognized traffic process names.
// Empty string selects Poisson.
var ValidTrafficProcesses = map[string]bool{"": true, "poisson": true, "constant": true}

// NewTrafficSampler creates a TrafficSampler by process name.
// Panics on unrecognized names; callers validate via ValidTrafficProcesses first.
func NewTrafficSampler(process string, rate float64) TrafficSampler {
	if !ValidTrafficProcesses[process] {
		panic(fmt.Sprintf("unknown traffic process %q", process))
	}
	switch process {
	case "", "poisson":
		return &PoissonSampler{rate: rate}
	case "constant":
		value := int(math.Round(rate))
		if float64(value) != rate {
			logrus.Warnf("constant traffic rounds rate %.4f to %d", rate, value)
		}
		return &ConstantSampler{value: value}
	default:
		panic(fmt.Sprintf("unhandled traffic process %q", process))
	}
}

// GenerateTraffic draws cfg.Stations independent Poisson(cfg.ArrivalRate)
// loads from rng. Deterministic for a given rng state.
func GenerateTraffic(cfg Config, rng *rand.Rand) (TrafficLoad, error) {
	return GenerateTrafficWith(cfg, NewTrafficSampler("poisson", cfg.ArrivalRate), rng)
}

// GenerateTrafficWith draws cfg.Stations loads from an arbitrary sampler.
func GenerateTrafficWith(cfg Config, sampler TrafficSampler, rng *rand.Rand) (TrafficLoad, error) {
	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("generating traffic: %w", err)
	}
	load := make(TrafficLoad, cfg.Stations)
	for i := range load {
		load[i] = sampler.Sample(rng)
	}
	logrus.Debugf("generated traffic for %d stations, total load %d", cfg.Stations, load.Total())
	return load, nil
}
