package sim

import (
	"fmt"
	"math/rand/v2"
	"sort"

	"github.com/inference-sim/rawsim/sim/trace"
)

// Assigner partitions stations into RAW groups.
// Implementations must place every station in exactly one group and return
// the per-group load sums.
type Assigner interface {
	Assign(load TrafficLoad, groups int) (*Assignment, GroupLoad, error)
}

// MaxMin assigns the heaviest unassigned station to the currently lightest
// group until every station is placed.
//
// Ties are broken by lowest index on both sides: among equally light groups
// the first wins, and among equally heavy stations the first in the original
// ordering wins. Stations with zero load are still assigned.
type MaxMin struct {
	Trace *trace.AssignmentTrace // optional; nil disables recording
}

// Assign implements Assigner for MaxMin.
func (m *MaxMin) Assign(load TrafficLoad, groups int) (*Assignment, GroupLoad, error) {
	if groups <= 0 {
		return nil, nil, &ConfigError{Field: "groups", Value: groups, Reason: "must be positive"}
	}
	a := newAssignment(len(load), groups)
	groupLoad := make(GroupLoad, groups)

	// The repeated "max over unassigned, lowest index on ties" scan visits
	// stations in exactly this stable order.
	order := make([]int, len(load))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return load[order[i]] > load[order[j]]
	})

	for step, station := range order {
		g := lightestGroup(groupLoad)
		before := groupLoad[g]
		groupLoad[g] += float64(load[station])
		a.groupOf[station] = g
		m.Trace.Record(trace.AssignmentRecord{
			Step:            step,
			Station:         station,
			Group:           g,
			StationLoad:     load[station],
			GroupLoadBefore: before,
			GroupLoadAfter:  groupLoad[g],
		})
	}
	return a, groupLoad, nil
}

// lightestGroup returns the index of the minimum load, first occurrence on ties.
func lightestGroup(groupLoad GroupLoad) int {
	best := 0
	for g := 1; g < len(groupLoad); g++ {
		if groupLoad[g] < groupLoad[best] {
			best = g
		}
	}
	return best
}

// RoundRobin places station i in group i mod groups, ignoring load.
// Serves as the load-oblivious baseline for MaxMin.
type RoundRobin struct {
	Trace *trace.AssignmentTrace
}

// Assign implements Assigner for RoundRobin.
func (rr *RoundRobin) Assign(load TrafficLoad, groups int) (*Assignment, GroupLoad, error) {
	if groups <= 0 {
		return nil, nil, &ConfigError{Field: "groups", Value: groups, Reason: "must be positive"}
	}
	a := newAssignment(len(load), groups)
	groupLoad := make(GroupLoad, groups)
	for station, l := range load {
		g := station % groups
		before := groupLoad[g]
		groupLoad[g] += float64(l)
		a.groupOf[station] = g
		rr.Trace.Record(trace.AssignmentRecord{
			Step: station, Station: station, Group: g, StationLoad: l,
			GroupLoadBefore: before, GroupLoadAfter: groupLoad[g],
		})
	}
	return a, groupLoad, nil
}

// RandomAssigner places each station in a uniformly random group.
type RandomAssigner struct {
	rng   *rand.Rand
	Trace *trace.AssignmentTrace
}

// NewRandomAssigner creates a RandomAssigner drawing from rng.
func NewRandomAssigner(rng *rand.Rand) *RandomAssigner {
	return &RandomAssigner{rng: rng}
}

// Assign implements Assigner for RandomAssigner.
func (r *RandomAssigner) Assign(load TrafficLoad, groups int) (*Assignment, GroupLoad, error) {
	if groups <= 0 {
		return nil, nil, &ConfigError{Field: "groups", Value: groups, Reason: "must be positive"}
	}
	a := newAssignment(len(load), groups)
	groupLoad := make(GroupLoad, groups)
	for station, l := range load {
		g := r.rng.IntN(groups)
		before := groupLoad[g]
		groupLoad[g] += float64(l)
		a.groupOf[station] = g
		r.Trace.Record(trace.AssignmentRecord{
			Step: station, Station: station, Group: g, StationLoad: l,
			GroupLoadBefore: before, GroupLoadAfter: groupLoad[g],
		})
	}
	return a, groupLoad, nil
}

// ValidAssigners is the set of recognized assignment policy names.
// Empty string selects max-min.
var ValidAssigners = map[string]bool{"": true, "max-min": true, "round-robin": true, "random": true}

// NewAssigner creates an Assigner by name. rng is used only by "random" and
// may be nil otherwise. tr may be nil to disable tracing.
// Panics on unrecognized names.
func NewAssigner(name string, rng *rand.Rand, tr *trace.AssignmentTrace) Assigner {
	if !ValidAssigners[name] {
		panic(fmt.Sprintf("unknown assigner %q", name))
	}
	switch name {
	case "", "max-min":
		return &MaxMin{Trace: tr}
	case "round-robin":
		return &RoundRobin{Trace: tr}
	case "random":
		if rng == nil {
			panic("NewAssigner: random assigner requires an rng")
		}
		ra := NewRandomAssigner(rng)
		ra.Trace = tr
		return ra
	default:
		panic(fmt.Sprintf("unhandled assigner %q", name))
	}
}

// AssignMaxMin runs the max-min assigner without tracing.
func AssignMaxMin(load TrafficLoad, groups int) (*Assignment, GroupLoad, error) {
	return (&MaxMin{}).Assign(load, groups)
}
