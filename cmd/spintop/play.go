package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"text/tabwriter"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/san-kum/spintop/internal/arena"
	"github.com/san-kum/spintop/internal/automation"
	"github.com/san-kum/spintop/internal/config"
	"github.com/san-kum/spintop/internal/metrics"
	"github.com/san-kum/spintop/internal/optim"
	"github.com/san-kum/spintop/internal/sim"
	"github.com/san-kum/spintop/internal/tui"
	"github.com/san-kum/spintop/internal/viz"
	"github.com/spf13/cobra"
)

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	exporter, closeSink, err := newExporter(cfg)
	if err != nil {
		return err
	}
	defer closeSink()

	rng := arena.NewRand(cfg.Arena.Seed)
	opts := []viz.Option{viz.WithRand(rng), viz.WithTheme(theme), viz.WithGIFPath(gifPath)}
	if exporter != nil {
		opts = append(opts, viz.WithExporter(exporter))
	}
	m := viz.NewModel(arenaFactory(cfg), opts...)

	a := m.Arena()
	for i := 0; i < populate; i++ {
		r := a.Radius() * cfg.Run.SpawnRadius * math.Sqrt(rng.Float64())
		th := rng.Float64() * 2 * math.Pi
		x, y := a.Center().X+r*math.Cos(th), a.Center().Y+r*math.Sin(th)
		if _, ok := a.Spawn(x, y); ok && exporter != nil {
			exporter.Spawn(a, x, y)
		}
	}

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PRESET\tRADIUS\tTOPS\tFRAMES\tFRICTION\tSPEED\tSPIN")
	for _, name := range config.ListPresets() {
		cfg := config.GetPreset(name)
		fmt.Fprintf(w, "%s\t%.0f\t%d\t%d\t%.3f\t%.1f\t%.2f\n",
			name,
			cfg.Arena.Radius,
			cfg.Run.Tops,
			cfg.Run.Frames,
			cfg.Physics.Friction,
			cfg.Physics.InitialSpeed,
			cfg.Physics.InitialSpin,
		)
	}
	return w.Flush()
}

func runScenario(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}

	exporter, closeSink, err := newExporter(cfg)
	if err != nil {
		return err
	}
	defer closeSink()

	var observers []sim.Observer
	if watch {
		r := tui.NewLiveRenderer(sc.Name, cfg.Run.FPS)
		r.Start()
		defer r.Stop()
		observers = append(observers, r)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	result, err := automation.RunScenario(ctx, sc, cfg, exporter, observers...)
	if err != nil {
		return err
	}

	fmt.Printf("scenario: %s\n", sc.Name)
	if sc.Description != "" {
		fmt.Printf("  %s\n", sc.Description)
	}
	fmt.Printf("steps: %d\n", result.StepsTaken)
	fmt.Printf("spawned: %d, live at end: %d\n", result.Spawned, len(result.Final.Tops))
	printMetrics(result.Metrics)
	if exporter != nil {
		printTelemetry(exporter.Stats())
	}
	return nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	lo, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return fmt.Errorf("min: %w", err)
	}
	hi, err := strconv.ParseFloat(args[2], 64)
	if err != nil {
		return fmt.Errorf("max: %w", err)
	}

	results, err := automation.RunSweep(cmd.Context(), cfg, &automation.ParameterSweep{
		Param:    args[0],
		Min:      lo,
		Max:      hi,
		NumSteps: sweepStep,
	})
	if err != nil {
		return err
	}

	names := []string{"population", "survival_frames", "collision_rate", "kinetic_energy", "spin_energy"}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprint(w, args[0])
	for _, n := range names {
		fmt.Fprintf(w, "\t%s", n)
	}
	fmt.Fprintln(w)
	for _, r := range results {
		fmt.Fprintf(w, "%.4f", r.ParamValue)
		for _, n := range names {
			fmt.Fprintf(w, "\t%.4f", r.Metrics[n])
		}
		fmt.Fprintln(w)
	}
	return w.Flush()
}

func runTune(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	names, ranges, err := automation.ParseGrid(gridSpecs)
	if err != nil {
		return err
	}
	if len(names) == 0 {
		return fmt.Errorf("at least one --param is required")
	}

	g := optim.NewGridSearch(names, ranges)
	best, trials, err := g.Search(cmd.Context(), automation.Objective(cfg), metric, maximize)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\t%s\n", strings.Join(names, "\t"), metric)
	for _, tr := range trials {
		for _, n := range names {
			fmt.Fprintf(w, "%.4f\t", tr.Params[n])
		}
		fmt.Fprintf(w, "%.4f\n", tr.Value)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Printf("\nbest %s = %.4f at", metric, best.Value)
	for _, n := range names {
		fmt.Printf(" %s=%g", n, best.Params[n])
	}
	fmt.Println()
	return nil
}

func runEnsemble(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if numRuns < 1 {
		return fmt.Errorf("runs must be positive, got %d", numRuns)
	}

	start := cfg.Arena.Seed
	if start == 0 {
		start = 1
	}
	e := sim.NewEnsemble(cfg.NewArena, metrics.Default, numRuns, start)
	results, err := e.Run(cmd.Context(), simConfig(cfg))
	if err != nil {
		return err
	}

	fmt.Printf("ensemble: %d runs, seeds %d..%d, %d frames each\n\n", numRuns, start, start+int64(numRuns)-1, cfg.Run.Frames)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "METRIC\tMEAN\tSTD\tN")
	for _, s := range sim.Summarize(results) {
		fmt.Fprintf(w, "%s\t%.4f\t%.4f\t%d\n", s.Name, s.Mean, s.Std, s.N)
	}
	return w.Flush()
}
