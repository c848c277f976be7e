package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/inference-sim/rawsim/sim"
	"github.com/inference-sim/rawsim/sim/report"
	"github.com/inference-sim/rawsim/sim/trace"
)

// runOptions holds the flag values of the run command.
type runOptions struct {
	groups        int     // Number of RAW groups
	stations      int     // Number of stations
	rate          float64 // Mean offered load per station
	slots         int     // Contention slots per group
	groupDuration float64 // RAW slice length in time units
	seed          int64   // Seed for traffic and randomized assignment
	assigner      string  // Assignment policy
	traffic       string  // Traffic process
	configPath    string  // Scenario YAML file
	preset        string  // Named preset from defaults.yaml
	traceLevel    string  // Assignment trace verbosity
}

var (
	runOpts          runOptions
	logLevel         string // Log verbosity level
	outputFormat     string // text, json or yaml
	viewsDir         string // Directory for CSV plotting views
	defaultsFilePath string // Path to defaults.yaml with presets
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "rawsim",
	Short: "IEEE 802.11ah RAW group scheduling simulator",
}

// runCmd executes one scheduling run using parameters from CLI flags
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one traffic → assignment → throughput → fairness pipeline",
	Run: func(cmd *cobra.Command, args []string) {
		setupLogging(logLevel)

		spec, err := resolveRunSpec(runOpts, cmd.Flags().Changed)
		if err != nil {
			logrus.Fatalf("Invalid run configuration: %v", err)
		}
		logrus.Infof("Starting run: groups=%d stations=%d rate=%.2f slots=%d seed=%d assigner=%s",
			spec.Config.Groups, spec.Config.Stations, spec.Config.ArrivalRate, spec.Config.Slots,
			spec.Seed, spec.Assigner)

		result, err := sim.Run(spec)
		if err != nil {
			logrus.Fatalf("Run failed: %v", err)
		}
		if err := writeRun(os.Stdout, result, outputFormat); err != nil {
			logrus.Fatalf("Writing result: %v", err)
		}
		if viewsDir != "" {
			if err := report.WriteViews(viewsDir, result); err != nil {
				logrus.Fatalf("Writing views: %v", err)
			}
		}
	},
}

// setupLogging sets the global logrus level, exiting on an unknown level.
func setupLogging(level string) {
	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		logrus.Fatalf("Invalid log level: %s", level)
	}
	logrus.SetLevel(parsed)
}

// resolveRunSpec layers the run configuration: flag defaults, then the
// preset, then the scenario file, then any flag the user set explicitly.
// A scenario file given alongside a preset only replaces the keys it sets.
// changed reports whether a flag was passed on the command line.
func resolveRunSpec(opts runOptions, changed func(name string) bool) (sim.RunSpec, error) {
	spec := sim.RunSpec{
		Config: sim.Config{
			Groups:        opts.groups,
			Stations:      opts.stations,
			ArrivalRate:   opts.rate,
			Slots:         opts.slots,
			GroupDuration: opts.groupDuration,
		},
		Seed:     opts.seed,
		Assigner: opts.assigner,
		Traffic:  opts.traffic,
	}

	if opts.preset != "" {
		preset, err := GetPreset(opts.preset, defaultsFilePath)
		if err != nil {
			return sim.RunSpec{}, err
		}
		spec = preset
	}
	if opts.configPath != "" {
		base := sim.RunSpec{}
		if opts.preset != "" {
			base = spec
		}
		loaded, err := sim.LoadRunSpecOnto(opts.configPath, base)
		if err != nil {
			return sim.RunSpec{}, err
		}
		spec = *loaded
	}

	// Explicit flags win over preset and scenario values.
	if opts.preset != "" || opts.configPath != "" {
		if changed("groups") {
			spec.Config.Groups = opts.groups
		}
		if changed("stations") {
			spec.Config.Stations = opts.stations
		}
		if changed("rate") {
			spec.Config.ArrivalRate = opts.rate
		}
		if changed("slots") {
			spec.Config.Slots = opts.slots
		}
		if changed("group-duration") {
			spec.Config.GroupDuration = opts.groupDuration
		}
		if changed("seed") {
			spec.Seed = opts.seed
		}
		if changed("assigner") {
			spec.Assigner = opts.assigner
		}
		if changed("traffic") {
			spec.Traffic = opts.traffic
		}
	}

	if !trace.IsValidTraceLevel(opts.traceLevel) {
		return sim.RunSpec{}, &sim.ConfigError{Field: "trace", Value: opts.traceLevel, Reason: "must be one of none, decisions"}
	}
	if level := trace.TraceLevel(opts.traceLevel); changed("trace") || level == trace.TraceLevelDecisions {
		spec.Trace = level == trace.TraceLevelDecisions
	}

	spec.Config = spec.Config.WithDefaults()
	if err := spec.Validate(); err != nil {
		return sim.RunSpec{}, err
	}
	return spec, nil
}

// writeRun renders result in the requested format.
func writeRun(w io.Writer, result *sim.RunResult, format string) error {
	switch format {
	case "", "text":
		report.PrintRun(w, result)
		return nil
	case "json":
		return report.WriteJSON(w, report.NewRunReport(result))
	case "yaml":
		return report.WriteYAML(w, report.NewRunReport(result))
	default:
		return fmt.Errorf("unknown output format %q (want text, json or yaml)", format)
	}
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	// Run configuration
	runCmd.Flags().IntVar(&runOpts.groups, "groups", 8, "Number of RAW groups")
	runCmd.Flags().IntVar(&runOpts.stations, "stations", 64, "Number of stations")
	runCmd.Flags().Float64Var(&runOpts.rate, "rate", 4.0, "Mean offered load per station (packets per RAW period)")
	runCmd.Flags().IntVar(&runOpts.slots, "slots", sim.DefaultSlots, "Contention slots per RAW group")
	runCmd.Flags().Float64Var(&runOpts.groupDuration, "group-duration", sim.DefaultGroupDuration, "RAW group duration in time units")
	runCmd.Flags().Int64Var(&runOpts.seed, "seed", 42, "Seed for traffic generation and randomized assignment")
	runCmd.Flags().StringVar(&runOpts.assigner, "assigner", "max-min", "Assignment policy (max-min, round-robin, random)")
	runCmd.Flags().StringVar(&runOpts.traffic, "traffic", "poisson", "Traffic process (poisson, constant)")

	// Scenario sources
	runCmd.Flags().StringVar(&runOpts.configPath, "config", "", "Scenario YAML file; explicit flags override its values")
	runCmd.Flags().StringVar(&runOpts.preset, "preset", "", "Named preset from the defaults file")
	runCmd.Flags().StringVar(&defaultsFilePath, "defaults", "defaults.yaml", "Path to the defaults file with presets")

	// Output
	runCmd.Flags().StringVar(&outputFormat, "format", "text", "Output format (text, json, yaml)")
	runCmd.Flags().StringVar(&viewsDir, "views-dir", "", "Write CSV plotting views to this directory")
	runCmd.Flags().StringVar(&runOpts.traceLevel, "trace", "none", "Assignment trace level (none, decisions)")
	runCmd.Flags().StringVar(&logLevel, "log", "warn", "Log level (trace, debug, info, warn, error, fatal, panic)")

	rootCmd.AddCommand(runCmd)
}
