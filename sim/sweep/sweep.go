// Package sweep runs the RAW scheduling pipeline over a parameter grid with
// independent replicates and aggregates the results per grid setting.
package sweep

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"os"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"gopkg.in/yaml.v3"

	"github.com/inference-sim/rawsim/sim"
)

// Grid is the YAML description of a sweep. Every list is one axis of the
// cartesian product; empty optional axes fall back to a single default.
type Grid struct {
	Groups         []int     `yaml:"groups"`
	Stations       []int     `yaml:"stations"`
	ArrivalRates   []float64 `yaml:"arrival_rates"`
	Slots          []int     `yaml:"slots,omitempty"`           // default [8]
	GroupDurations []float64 `yaml:"group_durations,omitempty"` // default [100]
	Assigners      []string  `yaml:"assigners,omitempty"`       // default [max-min]
	Traffic        string    `yaml:"traffic,omitempty"`
	Replicates     int       `yaml:"replicates,omitempty"` // default 1
	Seed           int64     `yaml:"seed"`
}

// LoadGrid reads a sweep grid from a YAML file. Unknown keys are rejected.
func LoadGrid(path string) (*Grid, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading grid: %w", err)
	}
	var g Grid
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&g); err != nil {
		return nil, fmt.Errorf("parsing grid %s: %w: %v", path, sim.ErrConfiguration, err)
	}
	return &g, nil
}

// WithDefaults returns a copy with empty optional axes filled in.
func (g Grid) WithDefaults() Grid {
	if len(g.Slots) == 0 {
		g.Slots = []int{sim.DefaultSlots}
	}
	if len(g.GroupDurations) == 0 {
		g.GroupDurations = []float64{sim.DefaultGroupDuration}
	}
	if len(g.Assigners) == 0 {
		g.Assigners = []string{"max-min"}
	}
	if g.Replicates == 0 {
		g.Replicates = 1
	}
	return g
}

// Validate checks the required axes and every point of the product.
func (g Grid) Validate() error {
	g = g.WithDefaults()
	if len(g.Groups) == 0 {
		return &sim.ConfigError{Field: "groups", Value: g.Groups, Reason: "must list at least one value"}
	}
	if len(g.Stations) == 0 {
		return &sim.ConfigError{Field: "stations", Value: g.Stations, Reason: "must list at least one value"}
	}
	if len(g.ArrivalRates) == 0 {
		return &sim.ConfigError{Field: "arrival_rates", Value: g.ArrivalRates, Reason: "must list at least one value"}
	}
	if g.Replicates < 0 {
		return &sim.ConfigError{Field: "replicates", Value: g.Replicates, Reason: "must be positive"}
	}
	for _, p := range g.Points() {
		if err := p.Spec.Validate(); err != nil {
			return fmt.Errorf("grid point %d: %w", p.Index, err)
		}
	}
	return nil
}

// Setting identifies one grid cell independent of its replicate.
type Setting struct {
	Config   sim.Config
	Assigner string
	Traffic  string
}

// Point is one run of the sweep: a Setting plus a replicate seed.
type Point struct {
	Index     int
	Replicate int
	Spec      sim.RunSpec
}

// Setting returns the grid cell this point belongs to.
func (p Point) Setting() Setting {
	return Setting{Config: p.Spec.Config, Assigner: p.Spec.Assigner, Traffic: p.Spec.Traffic}
}

// Points expands the grid in a fixed order: groups, stations, arrival rates,
// slots, group durations, assigners, then replicates innermost.
//
// Replicate r uses the same seed in every cell, derived from the grid seed,
// so cells are compared on common random numbers.
func (g Grid) Points() []Point {
	g = g.WithDefaults()
	base := sim.NewSimulationKey(g.Seed)
	seeds := make([]int64, g.Replicates)
	for r := range seeds {
		seeds[r] = int64(sim.DeriveKey(base, sim.SubsystemReplicate(r)))
	}

	var points []Point
	for _, groups := range g.Groups {
		for _, stations := range g.Stations {
			for _, rate := range g.ArrivalRates {
				for _, slots := range g.Slots {
					for _, duration := range g.GroupDurations {
						for _, assigner := range g.Assigners {
							cfg := sim.Config{
								Groups:        groups,
								Stations:      stations,
								ArrivalRate:   rate,
								Slots:         slots,
								GroupDuration: duration,
							}
							for r, seed := range seeds {
								points = append(points, Point{
									Index:     len(points),
									Replicate: r,
									Spec: sim.RunSpec{
										Config:   cfg,
										Seed:     seed,
										Assigner: assigner,
										Traffic:  g.Traffic,
									},
								})
							}
						}
					}
				}
			}
		}
	}
	return points
}

// Row is the outcome of one Point.
type Row struct {
	Point
	Fairness           float64
	FairnessDefined    bool
	TotalThroughput    float64
	MinGroupThroughput float64
	ThroughputRate     float64
}

func newRow(p Point, r *sim.RunResult) Row {
	row := Row{
		Point:           p,
		Fairness:        r.Fairness,
		FairnessDefined: r.FairnessDefined,
		TotalThroughput: r.TotalThroughput(),
		ThroughputRate:  r.ThroughputRate(),
	}
	if len(r.Throughput) > 0 {
		row.MinGroupThroughput = floats.Min(r.Throughput)
	}
	return row
}

// Run executes every point of the grid, at most parallelism at a time
// (parallelism <= 0 means unlimited). Rows are returned in Points order
// regardless of completion order. The first failing run cancels the rest.
func Run(ctx context.Context, grid Grid, parallelism int) ([]Row, error) {
	if err := grid.Validate(); err != nil {
		return nil, err
	}
	points := grid.Points()
	rows := make([]Row, len(points))

	g, ctx := errgroup.WithContext(ctx)
	if parallelism > 0 {
		g.SetLimit(parallelism)
	}
	for i, p := range points {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			r, err := sim.Run(p.Spec)
			if err != nil {
				return fmt.Errorf("grid point %d (replicate %d): %w", p.Index, p.Replicate, err)
			}
			rows[i] = newRow(p, r)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	logrus.Infof("sweep complete: %d runs", len(rows))
	return rows, nil
}

// Aggregate summarizes the replicates of one Setting.
// Fairness statistics cover only replicates with defined fairness.
type Aggregate struct {
	Setting
	Replicates             int
	UndefinedFairness      int
	FairnessMean           float64
	FairnessStdDev         float64
	ThroughputMean         float64
	ThroughputStdDev       float64
	MinGroupThroughputMean float64
}

// AggregateRows groups rows by Setting, in first-appearance order.
func AggregateRows(rows []Row) []Aggregate {
	var order []Setting
	bySetting := make(map[Setting][]Row)
	for _, row := range rows {
		s := row.Setting()
		if _, ok := bySetting[s]; !ok {
			order = append(order, s)
		}
		bySetting[s] = append(bySetting[s], row)
	}

	aggs := make([]Aggregate, 0, len(order))
	for _, s := range order {
		group := bySetting[s]
		var fairness, throughput, minGroup []float64
		agg := Aggregate{Setting: s, Replicates: len(group)}
		for _, row := range group {
			if row.FairnessDefined {
				fairness = append(fairness, row.Fairness)
			} else {
				agg.UndefinedFairness++
			}
			throughput = append(throughput, row.TotalThroughput)
			minGroup = append(minGroup, row.MinGroupThroughput)
		}
		agg.FairnessMean, agg.FairnessStdDev = meanStdDev(fairness)
		agg.ThroughputMean, agg.ThroughputStdDev = meanStdDev(throughput)
		agg.MinGroupThroughputMean, _ = meanStdDev(minGroup)
		aggs = append(aggs, agg)
	}
	return aggs
}

// meanStdDev returns the sample mean and standard deviation, with a zero
// deviation for fewer than two values and zeros for none.
func meanStdDev(x []float64) (float64, float64) {
	switch len(x) {
	case 0:
		return 0, 0
	case 1:
		return x[0], 0
	}
	mean, std := stat.MeanStdDev(x, nil)
	if math.IsNaN(std) {
		std = 0
	}
	return mean, std
}
