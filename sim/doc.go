// Package sim provides the IEEE 802.11ah RAW group scheduling model for rawsim.
//
// # Reading Guide
//
// One run is a four-stage pipeline; read the files in stage order:
//   - traffic.go: per-station offered load (Poisson or constant)
//   - assign.go: station → group policies (max-min, round-robin, random)
//   - collision.go, throughput.go: per-group slotted-contention estimate
//   - fairness.go: Jain's index over the per-group throughput vector
//
// pipeline.go chains the stages (Run, RunMaxMinScheduling) and result.go holds
// the RunResult snapshot and its derived views.
//
// # Architecture
//
// The sim package holds the model; supporting code lives in sub-packages:
//   - sim/trace/: per-step assignment decision recording
//   - sim/sweep/: parameter grids, parallel replicates, aggregation, metric export
//   - sim/report/: text, JSON, YAML and CSV rendering of results
//
// Every random draw comes from a PartitionedRNG keyed by the run seed, so the
// same RunSpec always yields the same RunResult.
//
// # Key Interfaces
//
//   - TrafficSampler: draw one station's offered load
//   - Assigner: partition stations into groups and report group loads
package sim
