// Package trace records the step-by-step decisions of a group assigner.
// This package has no dependencies on sim/; it stores pure data types.
package trace

// TraceLevel controls the verbosity of decision tracing.
type TraceLevel string

const (
	// TraceLevelNone disables tracing (zero overhead).
	TraceLevelNone TraceLevel = "none"
	// TraceLevelDecisions captures every station placement.
	TraceLevelDecisions TraceLevel = "decisions"
)

// validTraceLevels maps accepted trace level strings.
var validTraceLevels = map[TraceLevel]bool{
	TraceLevelNone:      true,
	TraceLevelDecisions: true,
	"":                  true, // empty defaults to none
}

// IsValidTraceLevel returns true if the given level string is a recognized trace level.
func IsValidTraceLevel(level string) bool {
	return validTraceLevels[TraceLevel(level)]
}

// AssignmentRecord captures a single station placement.
type AssignmentRecord struct {
	Step            int     `json:"step" yaml:"step"`
	Station         int     `json:"station" yaml:"station"`
	Group           int     `json:"group" yaml:"group"`
	StationLoad     int     `json:"station_load" yaml:"station_load"`
	GroupLoadBefore float64 `json:"group_load_before" yaml:"group_load_before"`
	GroupLoadAfter  float64 `json:"group_load_after" yaml:"group_load_after"`
}

// AssignmentTrace collects placement records in the order they were made.
type AssignmentTrace struct {
	Policy string             `json:"policy" yaml:"policy"`
	Groups int                `json:"groups" yaml:"groups"`
	Steps  []AssignmentRecord `json:"steps" yaml:"steps"`
}

// NewAssignmentTrace creates an AssignmentTrace ready for recording.
func NewAssignmentTrace(policy string, groups int) *AssignmentTrace {
	return &AssignmentTrace{
		Policy: policy,
		Groups: groups,
		Steps:  make([]AssignmentRecord, 0),
	}
}

// Record appends a placement. Safe to call on a nil trace (no-op).
func (t *AssignmentTrace) Record(record AssignmentRecord) {
	if t == nil {
		return
	}
	t.Steps = append(t.Steps, record)
}
