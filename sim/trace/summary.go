package trace

// AssignmentSummary aggregates statistics from an AssignmentTrace.
type AssignmentSummary struct {
	TotalSteps       int
	StationsPerGroup map[int]int // group index → stations placed
	MinGroupLoad     float64
	MaxGroupLoad     float64
	Spread           float64 // MaxGroupLoad - MinGroupLoad
}

// Summarize computes aggregate statistics from an AssignmentTrace.
// Safe for nil or empty traces (returns zero-value fields).
// Groups that never received a station count with load 0.
func Summarize(t *AssignmentTrace) *AssignmentSummary {
	summary := &AssignmentSummary{
		StationsPerGroup: make(map[int]int),
	}
	if t == nil || len(t.Steps) == 0 {
		return summary
	}

	summary.TotalSteps = len(t.Steps)
	final := make(map[int]float64)
	for _, s := range t.Steps {
		summary.StationsPerGroup[s.Group]++
		final[s.Group] = s.GroupLoadAfter
	}

	groups := t.Groups
	if groups < len(final) {
		groups = len(final)
	}
	first := true
	for g := 0; g < groups; g++ {
		load := final[g]
		if first || load < summary.MinGroupLoad {
			summary.MinGroupLoad = load
		}
		if first || load > summary.MaxGroupLoad {
			summary.MaxGroupLoad = load
		}
		first = false
	}
	summary.Spread = summary.MaxGroupLoad - summary.MinGroupLoad
	return summary
}
