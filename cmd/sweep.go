package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/inference-sim/rawsim/sim/report"
	"github.com/inference-sim/rawsim/sim/sweep"
)

var (
	gridPath       string // Sweep grid YAML file
	parallelism    int    // Concurrent runs
	sweepFormat    string // text, json or yaml
	metricsOutPath string // Prometheus textfile destination
)

// sweepCmd runs the pipeline over a parameter grid with replicates
var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Run a parameter sweep and aggregate fairness and throughput",
	Run: func(cmd *cobra.Command, args []string) {
		setupLogging(logLevel)

		if gridPath == "" {
			logrus.Fatalf("Sweep grid not provided (--grid). Exiting.")
		}
		grid, err := sweep.LoadGrid(gridPath)
		if err != nil {
			logrus.Fatalf("Loading grid: %v", err)
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		rows, err := sweep.Run(ctx, *grid, parallelism)
		if err != nil {
			logrus.Fatalf("Sweep failed: %v", err)
		}
		aggs := sweep.AggregateRows(rows)

		if err := writeSweep(os.Stdout, aggs, sweepFormat); err != nil {
			logrus.Fatalf("Writing sweep result: %v", err)
		}
		if metricsOutPath != "" {
			if err := sweep.WriteTextfile(metricsOutPath, aggs); err != nil {
				logrus.Fatalf("%v", err)
			}
			logrus.Infof("Wrote sweep metrics to %s", metricsOutPath)
		}
	},
}

// writeSweep renders aggregates in the requested format.
func writeSweep(w io.Writer, aggs []sweep.Aggregate, format string) error {
	switch format {
	case "", "text":
		report.PrintSweep(w, aggs)
		return nil
	case "json":
		return report.WriteJSON(w, report.NewAggregateReports(aggs))
	case "yaml":
		return report.WriteYAML(w, report.NewAggregateReports(aggs))
	default:
		return fmt.Errorf("unknown output format %q (want text, json or yaml)", format)
	}
}

func init() {
	sweepCmd.Flags().StringVar(&gridPath, "grid", "", "Sweep grid YAML file")
	sweepCmd.Flags().IntVar(&parallelism, "parallelism", runtime.NumCPU(), "Maximum concurrent runs (0 = unlimited)")
	sweepCmd.Flags().StringVar(&sweepFormat, "format", "text", "Output format (text, json, yaml)")
	sweepCmd.Flags().StringVar(&metricsOutPath, "metrics-out", "", "Write aggregates in Prometheus textfile format to this path")
	sweepCmd.Flags().StringVar(&logLevel, "log", "warn", "Log level (trace, debug, info, warn, error, fatal, panic)")

	rootCmd.AddCommand(sweepCmd)
}
