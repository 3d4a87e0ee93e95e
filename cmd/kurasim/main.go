package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/san-kum/kurasim/internal/config"
	"github.com/san-kum/kurasim/internal/integrators"
	"github.com/san-kum/kurasim/internal/viz"
)

var (
	logLevel   string
	configFile string
	preset     string
	// run overrides, applied only when set on the command line
	model       string
	integrator  string
	topology    string
	oscillators int
	depth       int
	kappa       float64
	endTime     float64
	steps       int
	history     int
	seed        uint64
	workers     int
	noiseSigma  float64
	noisePolicy string
	theme       string
	// outputs
	outFile   string
	svgFile   string
	wrap      bool
	plotWidth int
	// sweep
	sweepParam   string
	sweepMin     float64
	sweepMax     float64
	sweepPoints  int
	sweepDiscard float64
	// bench
	benchSizes []int
	benchSteps int
	// presets
	showPreset string
	// search
	searchRanges []string
	searchTarget float64
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "kurasim",
		Short:         "Kuramoto phase oscillator lab",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level, err := logrus.ParseLevel(logLevel)
			if err != nil {
				return err
			}
			logrus.SetLevel(level)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&logLevel, "log", "warn", "log level (panic, fatal, error, warn, info, debug, trace)")
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&preset, "preset", "", "start from a preset configuration")
	pf.StringVar(&model, "model", config.ModelBasic, "model: basic or delayed")
	pf.StringVar(&integrator, "integrator", "rk4", fmt.Sprintf("integrator %v", integrators.Names()))
	pf.StringVar(&topology, "topology", "open", "topology: open or ring")
	pf.IntVarP(&oscillators, "oscillators", "n", config.DefaultOscillators, "number of oscillators")
	pf.IntVarP(&depth, "depth", "m", config.DefaultDepth, "coupling depth (neighbors per side)")
	pf.Float64VarP(&kappa, "kappa", "k", config.DefaultKappa, "coupling strength")
	pf.Float64Var(&endTime, "time", config.DefaultEnd, "end time")
	pf.IntVar(&steps, "steps", config.DefaultSteps, "number of grid points")
	pf.IntVar(&history, "history", 0, "constant pre-history columns")
	pf.Uint64Var(&seed, "seed", config.DefaultSeed, "random seed")
	pf.IntVar(&workers, "workers", 0, "derivative workers (0 = all CPUs)")
	pf.Float64Var(&noiseSigma, "noise", 0, "noise standard deviation (delayed model)")
	pf.StringVar(&noisePolicy, "noise-policy", "oscillator", "noise policy: oscillator or pair")
	pf.StringVar(&theme, "theme", "", fmt.Sprintf("color theme %v", viz.ThemeNames()))

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a simulation and print a summary",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	runCmd.Flags().StringVarP(&outFile, "out", "o", "", "write the run to a .json or .csv file")
	runCmd.Flags().StringVar(&svgFile, "svg", "", "write the final phase circle as SVG")
	runCmd.Flags().BoolVar(&wrap, "wrap", false, "wrap exported phases to [0, 2π)")
	runCmd.Flags().IntVar(&plotWidth, "width", 60, "plot width")

	analyzeCmd := &cobra.Command{
		Use:   "analyze",
		Short: "run and report chimera, entropy and frequency analysis",
		Args:  cobra.NoArgs,
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().IntVar(&plotWidth, "width", 60, "plot width")

	compareCmd := &cobra.Command{
		Use:   "compare [integrator...]",
		Short: "compare integrators on the same configuration",
		RunE:  compareIntegrators,
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "sweep a model parameter and plot the synchronization transition",
		Args:  cobra.NoArgs,
		RunE:  runSweep,
	}
	sweepCmd.Flags().StringVar(&sweepParam, "param", "kappa", "parameter to sweep")
	sweepCmd.Flags().Float64Var(&sweepMin, "min", 0, "first value")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 20, "last value")
	sweepCmd.Flags().IntVar(&sweepPoints, "points", 21, "number of values")
	sweepCmd.Flags().Float64Var(&sweepDiscard, "discard", 0.5, "transient fraction excluded from mean r")
	sweepCmd.Flags().IntVar(&plotWidth, "width", 60, "plot width")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run and replay the trajectory on the phase circle",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "benchmark integrators over chain sizes",
		Args:  cobra.NoArgs,
		RunE:  benchIntegrators,
	}
	benchCmd.Flags().IntSliceVar(&benchSizes, "sizes", []int{64, 256, 1024}, "oscillator counts")
	benchCmd.Flags().IntVar(&benchSteps, "bench-steps", 201, "grid points per run")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list presets or print one as yaml",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}
	presetsCmd.Flags().StringVar(&showPreset, "show", "", "print the named preset")

	initCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "write the resolved configuration to a yaml file",
		Args:  cobra.ExactArgs(1),
		RunE:  writeConfig,
	}

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run a yaml scenario batch",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}

	searchCmd := &cobra.Command{
		Use:   "search",
		Short: "grid search parameters for a target mean r",
		Args:  cobra.NoArgs,
		RunE:  runSearch,
	}
	searchCmd.Flags().StringArrayVar(&searchRanges, "range", []string{"kappa=0:20:11"}, fmt.Sprintf("name=min:max:points, name in %v", config.Params))
	searchCmd.Flags().Float64Var(&searchTarget, "target", 0.9, "target time-averaged r")

	rootCmd.AddCommand(runCmd, analyzeCmd, compareCmd, sweepCmd, searchCmd, liveCmd, benchCmd, presetsCmd, initCmd, scenarioCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// loadConfig resolves defaults, then the preset, then the config file, and
// finally any flags set explicitly.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}
	if configFile != "" {
		data, err := os.ReadFile(configFile)
		if err != nil {
			return nil, err
		}
		if err := cfg.Overlay(data); err != nil {
			return nil, fmt.Errorf("parse %s: %w", configFile, err)
		}
	}

	fl := cmd.Flags()
	if fl.Changed("model") {
		cfg.Model = model
	}
	if fl.Changed("integrator") {
		cfg.Integrator = integrator
	}
	if fl.Changed("topology") {
		cfg.Topology = topology
	}
	if fl.Changed("oscillators") {
		cfg.Oscillators = oscillators
		cfg.InitialPhases = nil
		cfg.Frequencies.Values = nil
	}
	if fl.Changed("depth") {
		cfg.Depth = depth
	}
	if fl.Changed("kappa") {
		cfg.Kappa = kappa
	}
	if fl.Changed("time") {
		cfg.Time.End = endTime
	}
	if fl.Changed("steps") {
		cfg.Time.Steps = steps
	}
	if fl.Changed("history") {
		cfg.History = history
	}
	if fl.Changed("seed") {
		cfg.Seed = seed
	}
	if fl.Changed("workers") {
		cfg.Workers = workers
	}
	if fl.Changed("noise") {
		cfg.Delayed.Noise.Sigma = noiseSigma
	}
	if fl.Changed("noise-policy") {
		cfg.Delayed.Noise.Policy = noisePolicy
	}
	if fl.Changed("theme") {
		cfg.Theme = theme
	}
	return cfg, cfg.Validate()
}
