package sim

// GroupLoad is the cumulative traffic of the stations assigned to each group.
type GroupLoad []float64

// Assignment maps every station to exactly one RAW group.
// Immutable once returned by an Assigner; accessors return copies.
type Assignment struct {
	groups  int
	groupOf []int // station index → group index
}

// newAssignment returns an Assignment with every station unassigned (-1).
func newAssignment(stations, groups int) *Assignment {
	groupOf := make([]int, stations)
	for i := range groupOf {
		groupOf[i] = -1
	}
	return &Assignment{groups: groups, groupOf: groupOf}
}

// NewAssignmentFromGroups builds an Assignment from an explicit
// station → group mapping. Returns ErrConfiguration if groups <= 0 or any
// entry is outside [0, groups).
func NewAssignmentFromGroups(groupOf []int, groups int) (*Assignment, error) {
	if groups <= 0 {
		return nil, &ConfigError{Field: "groups", Value: groups, Reason: "must be positive"}
	}
	a := newAssignment(len(groupOf), groups)
	for station, g := range groupOf {
		if g < 0 || g >= groups {
			return nil, &ConfigError{Field: "group", Value: g, Reason: "must be in [0, groups)"}
		}
		a.groupOf[station] = g
	}
	return a, nil
}

// Groups returns the number of groups.
func (a *Assignment) Groups() int {
	return a.groups
}

// Stations returns the number of assigned stations.
func (a *Assignment) Stations() int {
	return len(a.groupOf)
}

// GroupOf returns the group of the given station.
func (a *Assignment) GroupOf(station int) int {
	return a.groupOf[station]
}

// GroupIndex returns a copy of the station → group mapping.
func (a *Assignment) GroupIndex() []int {
	out := make([]int, len(a.groupOf))
	copy(out, a.groupOf)
	return out
}

// Members returns the stations of group g in ascending index order.
func (a *Assignment) Members(g int) []int {
	var members []int
	for station, group := range a.groupOf {
		if group == g {
			members = append(members, station)
		}
	}
	return members
}

// Sizes returns the number of stations in each group.
func (a *Assignment) Sizes() []int {
	sizes := make([]int, a.groups)
	for _, g := range a.groupOf {
		sizes[g]++
	}
	return sizes
}

// Matrix returns the station × group indicator matrix: row i has a single 1
// in column GroupOf(i).
func (a *Assignment) Matrix() [][]int {
	m := make([][]int, len(a.groupOf))
	for station, g := range a.groupOf {
		row := make([]int, a.groups)
		row[g] = 1
		m[station] = row
	}
	return m
}

// Loads sums load per group under this assignment. load must have one entry
// per station.
func (a *Assignment) Loads(load TrafficLoad) GroupLoad {
	sums := make(GroupLoad, a.groups)
	for station, g := range a.groupOf {
		sums[g] += float64(load[station])
	}
	return sums
}
