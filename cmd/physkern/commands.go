package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"os/signal"
	"runtime"
	"sort"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/physkern/internal/config"
	"github.com/san-kum/physkern/internal/export"
	"github.com/san-kum/physkern/internal/fluid"
	"github.com/san-kum/physkern/internal/scenario"
	"github.com/san-kum/physkern/internal/store"
	"github.com/san-kum/physkern/internal/viz"
	"github.com/spf13/cobra"
)

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	st := store.New(cfg.DataDir)
	if err := st.Init(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("running %s on a %dx%d grid for %d ticks...\n", cfg.Name, cfg.GridSize, cfg.GridSize, cfg.Ticks)

	result, err := scenario.Execute(ctx, cfg)
	if err != nil {
		if result == nil || result.Ticks == 0 {
			return err
		}
		fmt.Fprintf(os.Stderr, "run stopped early: %v\n", err)
	}

	runID, err := st.Save(scenario.Metadata(cfg), result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", result.Elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("ticks: %d\n", result.Ticks)
	printMetrics(result.Metrics)

	return nil
}

func printMetrics(m map[string]float64) {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Println("\nmetrics:")
	for _, name := range names {
		fmt.Printf("  %s: %.6g\n", name, m[name])
	}
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := store.New(storeDir())
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tTIME\tGRID\tDT\tVISCOSITY\tTICKS\tELAPSED")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%g\t%g\t%d\t%.1fms\n",
			run.ID,
			run.Name,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.GridSize,
			run.Dt,
			run.Viscosity,
			run.Ticks,
			run.ElapsedMS,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := store.New(storeDir())
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	series, err := st.LoadSeries(runID)
	if err != nil {
		return err
	}

	if len(series.Ticks) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("grid: %dx%d  dt: %g  viscosity: %g\n", meta.GridSize, meta.GridSize, meta.Dt, meta.Viscosity)
	fmt.Printf("ticks: %d\n\n", len(series.Ticks))

	for _, name := range series.Names {
		data := series.Values[name]
		if !plottable(data) {
			fmt.Printf("%s: no finite samples\n\n", name)
			continue
		}
		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(name),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	return nil
}

func plottable(data []float64) bool {
	for _, v := range data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return len(data) > 0
}

func exportCSV(cmd *cobra.Command, args []string) error {
	st := store.New(storeDir())
	series, err := st.LoadSeries(args[0])
	if err != nil {
		return err
	}
	return store.ExportCSV(os.Stdout, series)
}

func exportJSON(cmd *cobra.Command, args []string) error {
	st := store.New(storeDir())
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	series, err := st.LoadSeries(args[0])
	if err != nil {
		return err
	}
	return store.ExportJSON(os.Stdout, meta, series)
}

func exportSVG(cmd *cobra.Command, args []string) error {
	st := store.New(storeDir())
	series, err := st.LoadSeries(args[0])
	if err != nil {
		return err
	}

	values, ok := series.Values[args[1]]
	if !ok {
		return fmt.Errorf("unknown metric %q (available: %v)", args[1], series.Names)
	}

	svg, err := export.SeriesSVG(series.Ticks, values, 800, 300, args[0]+" "+args[1], "#00ff88")
	if err != nil {
		return err
	}

	if outFile == "" {
		fmt.Println(svg)
		return nil
	}
	if err := os.WriteFile(outFile, []byte(svg), 0644); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", outFile)
	return nil
}

func showDivergence(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	field, err := fluid.New(cfg.FluidConfig())
	if err != nil {
		return err
	}

	for _, imp := range cfg.ImpulsesAt(0) {
		if err := imp.Apply(field); err != nil {
			return err
		}
	}
	for t := 0; t < divSteps; t++ {
		field.Step()
		for _, imp := range cfg.ImpulsesAt(t + 1) {
			if err := imp.Apply(field); err != nil {
				return err
			}
		}
	}

	if queryX >= 0 || queryY >= 0 {
		d, err := field.DivergenceAt(queryX, queryY)
		if err != nil {
			return err
		}
		fmt.Printf("divergence at (%d,%d): %.6g\n", queryX, queryY, d)
		return nil
	}

	div := field.Divergence()
	n := field.Size()

	fmt.Printf("%s: %dx%d grid after %d ticks\n\n", cfg.Name, n, n, divSteps)
	fmt.Println(viz.Heatmap(div, n, min(n, 64), min(n, 32), true))
	fmt.Println()

	peak, px, py, sum := 0.0, 0, 0, 0.0
	for i, d := range div {
		sum += d
		if math.Abs(d) > math.Abs(peak) {
			peak = d
			px, py = field.Grid().Coords(i)
		}
	}
	fmt.Println(viz.Legend(viz.Scale(div), true))
	fmt.Printf("peak: %.6g at (%d,%d)\n", peak, px, py)
	fmt.Printf("sum: %.6g\n", sum)

	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	field, err := fluid.New(cfg.FluidConfig())
	if err != nil {
		return err
	}

	m := viz.NewModel(field, viz.Options{
		Title:    cfg.Name,
		Impulses: cfg.ImpulsesAt,
	})
	_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}

func benchStep(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	counts := benchWorkers
	if len(counts) == 0 {
		counts = []int{runtime.GOMAXPROCS(0)}
	}

	fmt.Printf("benchmarking %dx%d grid, %d ticks, chunk width %d\n\n", cfg.GridSize, cfg.GridSize, cfg.Ticks, cfg.ChunkWidth)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "WORKERS\tTIME\tTICKS/SEC\tCELLS/SEC\tDIVERGENCE")

	for _, n := range counts {
		fc := cfg.FluidConfig()
		fc.Workers = n

		field, err := fluid.New(fc)
		if err != nil {
			return err
		}
		for _, imp := range cfg.ImpulsesAt(0) {
			if err := imp.Apply(field); err != nil {
				return err
			}
		}

		start := time.Now()
		for t := 0; t < cfg.Ticks; t++ {
			field.Step()
		}
		elapsed := time.Since(start)

		divStart := time.Now()
		field.Divergence()
		divElapsed := time.Since(divStart)

		tps := float64(cfg.Ticks) / elapsed.Seconds()
		fmt.Fprintf(w, "%d\t%v\t%.0f\t%.3g\t%v\n",
			n, elapsed, tps, tps*float64(cfg.GridSize*cfg.GridSize), divElapsed)
	}

	return w.Flush()
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tGRID\tDT\tVISCOSITY\tTICKS\tIMPULSES")
	for _, name := range config.ListPresets() {
		p := config.GetPreset(name)
		fmt.Fprintf(w, "%s\t%d\t%g\t%g\t%d\t%d\n", name, p.GridSize, p.Dt, p.Viscosity, p.Ticks, len(p.Impulses))
	}
	return w.Flush()
}

func runScenario(cmd *cobra.Command, args []string) error {
	sc, err := scenario.Load(args[0])
	if err != nil {
		return err
	}

	st := store.New(storeDir())
	if err := st.Init(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("scenario %s: %d steps\n", sc.Name, len(sc.Steps))
	results, err := scenario.Run(ctx, sc, st)
	for _, r := range results {
		fmt.Printf("  step %d: %d ticks, run id %s\n", r.Step, r.Result.Ticks, r.RunID)
	}
	return err
}

func runSweep(cmd *cobra.Command, args []string) error {
	name := preset
	if name == "" {
		name = "reference"
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	t := 0
	if cmd.Flags().Changed("ticks") {
		t = ticks
	}
	results, err := scenario.RunSweep(ctx, &scenario.Sweep{
		Preset: name,
		Param:  sweepParam,
		Min:    sweepMin,
		Max:    sweepMax,
		Steps:  sweepSteps,
		Ticks:  t,
	})
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tKINETIC_ENERGY\tMAX_SPEED\tMAX_DIVERGENCE\n", sweepParam)
	energy := make([]float64, 0, len(results))
	for _, r := range results {
		fmt.Fprintf(w, "%.4g\t%.6g\t%.6g\t%.6g\n", r.Value, r.Metrics["kinetic_energy"], r.Metrics["max_speed"], r.Metrics["max_divergence"])
		energy = append(energy, r.Metrics["kinetic_energy"])
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if len(energy) > 1 && plottable(energy) {
		fmt.Println()
		fmt.Println(asciigraph.Plot(energy, asciigraph.Height(8), asciigraph.Width(60), asciigraph.Caption("final kinetic energy vs "+sweepParam)))
	}
	return nil
}
