package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/san-kum/physkern/internal/config"
	"github.com/san-kum/physkern/internal/kernel"
	"github.com/spf13/cobra"
)

var (
	dataDir    string
	logLevel   string
	configFile string
	preset     string
	// field overrides
	gridSize   int
	dt         float64
	viscosity  float64
	chunkWidth int
	workers    int
	ticks      int
	// divergence query
	divSteps int
	queryX   int
	queryY   int
	// sweep
	sweepParam string
	sweepMin   float64
	sweepMax   float64
	sweepSteps int
	// export-svg
	outFile string
	// bench
	benchWorkers []int
)

// main registers the physkern commands and executes the root command,
// exiting with status 1 on error.
func main() {
	rootCmd := &cobra.Command{
		Use:               "physkern",
		Short:             "velocity field solver lab",
		SilenceUsage:      true,
		PersistentPreRunE: setupLogging,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", "", "data directory (default from config, "+config.DefaultDataDir+")")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "", "start from a named preset")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run the solver headless and store its diagnostics",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	addFieldFlags(runCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot run metrics",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run metrics to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run metadata and metrics to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id] [metric]",
		Short: "export one run metric as an SVG line chart",
		Args:  cobra.ExactArgs(2),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVarP(&outFile, "output", "o", "", "output file (default stdout)")

	divergenceCmd := &cobra.Command{
		Use:   "divergence",
		Short: "apply the configured impulses and print the divergence map",
		Args:  cobra.NoArgs,
		RunE:  showDivergence,
	}
	addFieldFlags(divergenceCmd)
	divergenceCmd.Flags().IntVar(&divSteps, "steps", 0, "ticks to step before querying")
	divergenceCmd.Flags().IntVar(&queryX, "x", -1, "query a single cell (x)")
	divergenceCmd.Flags().IntVar(&queryY, "y", -1, "query a single cell (y)")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "step the field with a live terminal view",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	addFieldFlags(liveCmd)

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "measure step throughput across worker counts",
		Args:  cobra.NoArgs,
		RunE:  benchStep,
	}
	addFieldFlags(benchCmd)
	benchCmd.Flags().IntSliceVar(&benchWorkers, "workers-list", []int{1, 2, 4, 8}, "worker counts to compare")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run every step of a scenario file",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "run a preset across a range of one parameter",
		Args:  cobra.NoArgs,
		RunE:  runSweep,
	}
	sweepCmd.Flags().StringVar(&sweepParam, "param", "viscosity", "parameter to sweep: viscosity or dt")
	sweepCmd.Flags().Float64Var(&sweepMin, "min", 0.5, "first value")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 1.0, "last value")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 6, "number of values")
	sweepCmd.Flags().IntVar(&ticks, "ticks", 0, "ticks per run (0 keeps the preset)")

	rootCmd.AddCommand(runCmd, listCmd, plotCmd, exportCSVCmd, exportJSONCmd, exportSVGCmd, divergenceCmd, liveCmd, benchCmd, presetsCmd, scenarioCmd, sweepCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addFieldFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&gridSize, "size", config.DefaultConfig().GridSize, "grid side length")
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultConfig().Dt, "time step")
	cmd.Flags().Float64Var(&viscosity, "viscosity", config.DefaultConfig().Viscosity, "per-tick damping factor")
	cmd.Flags().IntVar(&chunkWidth, "chunk", config.DefaultConfig().ChunkWidth, "damping chunk width")
	cmd.Flags().IntVar(&workers, "workers", 0, "worker count (0 uses GOMAXPROCS)")
	cmd.Flags().IntVar(&ticks, "ticks", config.DefaultTicks, "ticks to run")
}

func setupLogging(cmd *cobra.Command, args []string) error {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToLower(logLevel))); err != nil {
		return fmt.Errorf("invalid --log-level %q: %w", logLevel, err)
	}
	kernel.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	return nil
}

// resolveConfig layers preset, config file and environment, then lets
// explicitly set flags override the result.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Resolve(preset, configFile)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("size") {
		cfg.GridSize = gridSize
	}
	if flags.Changed("dt") {
		cfg.Dt = dt
	}
	if flags.Changed("viscosity") {
		cfg.Viscosity = viscosity
	}
	if flags.Changed("chunk") {
		cfg.ChunkWidth = chunkWidth
	}
	if flags.Changed("workers") {
		cfg.Workers = workers
	}
	if flags.Changed("ticks") {
		cfg.Ticks = ticks
	}
	if dataDir != "" {
		cfg.DataDir = dataDir
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// storeDir picks the data directory for commands that only read runs.
func storeDir() string {
	if dataDir != "" {
		return dataDir
	}
	cfg, err := config.Resolve("", configFile)
	if err != nil || cfg.DataDir == "" {
		return config.DefaultDataDir
	}
	return cfg.DataDir
}
