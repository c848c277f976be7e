package sim

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// Throughput is the estimated successful-packet rate per group.
type Throughput []float64

// GroupEstimate is the per-group breakdown behind one Throughput entry.
type GroupEstimate struct {
	Group      int     `json:"group" yaml:"group"`
	Size       int     `json:"size" yaml:"size"`
	Load       float64 `json:"load" yaml:"load"`
	Collision  float64 `json:"collision" yaml:"collision"`
	Success    float64 `json:"success" yaml:"success"`
	Throughput float64 `json:"throughput" yaml:"throughput"`
}

// EstimateGroups applies the collision model to every group of a.
// Empty groups have zero throughput. Returns ErrConfiguration for
// slots <= 0 and ErrDimensionMismatch if load does not cover every station.
func EstimateGroups(a *Assignment, load TrafficLoad, slots int) ([]GroupEstimate, error) {
	if slots <= 0 {
		return nil, &ConfigError{Field: "slots", Value: slots, Reason: "must be positive"}
	}
	if len(load) != a.Stations() {
		return nil, fmt.Errorf("%w: traffic load has %d entries, assignment has %d stations",
			ErrDimensionMismatch, len(load), a.Stations())
	}

	p := 1.0 / float64(slots)
	sizes := a.Sizes()
	loads := a.Loads(load)
	estimates := make([]GroupEstimate, a.Groups())
	for g := range estimates {
		est := GroupEstimate{Group: g, Size: sizes[g], Load: loads[g]}
		if est.Size > 0 {
			est.Collision = CollisionProbability(est.Size, p)
			est.Success = 1 - est.Collision
			est.Throughput = est.Load * est.Success
		}
		estimates[g] = est
	}
	logrus.Debugf("estimated throughput for %d groups (p=%.4f)", len(estimates), p)
	return estimates, nil
}

// EstimateThroughput returns the per-group throughput vector:
// load(g) * (1 - CollisionProbability(size(g), 1/slots)).
func EstimateThroughput(a *Assignment, load TrafficLoad, slots int) (Throughput, error) {
	estimates, err := EstimateGroups(a, load, slots)
	if err != nil {
		return nil, err
	}
	return throughputOf(estimates), nil
}

func throughputOf(estimates []GroupEstimate) Throughput {
	th := make(Throughput, len(estimates))
	for i, e := range estimates {
		th[i] = e.Throughput
	}
	return th
}
