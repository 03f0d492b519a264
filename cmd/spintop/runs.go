package main

import (
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"os"
	"os/signal"
	"slices"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/spintop/internal/analysis"
	"github.com/san-kum/spintop/internal/arena"
	"github.com/san-kum/spintop/internal/config"
	"github.com/san-kum/spintop/internal/export"
	"github.com/san-kum/spintop/internal/metrics"
	"github.com/san-kum/spintop/internal/sim"
	"github.com/san-kum/spintop/internal/storage"
	"github.com/san-kum/spintop/internal/telemetry"
	"github.com/san-kum/spintop/internal/tui"
	"github.com/san-kum/spintop/internal/viz"
	"github.com/spf13/cobra"
)

func frameColumns() []string { return sim.Columns }

func vizThemes() []string { return viz.ThemeNames() }

func simConfig(cfg *config.Config) sim.Config {
	sc := sim.Config{
		Frames:      cfg.Run.Frames,
		Tops:        cfg.Run.Tops,
		SpawnRadius: cfg.Run.SpawnRadius,
		Seed:        cfg.Arena.Seed,
	}
	if realtime || watch {
		sc.FPS = cfg.Run.FPS
	}
	return sc
}

func newSimulator(cfg *config.Config) *sim.Simulator {
	s := sim.New(cfg.NewArena)
	for _, m := range metrics.Default() {
		s.AddMetric(m)
	}
	return s
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	exporter, closeSink, err := newExporter(cfg)
	if err != nil {
		return err
	}
	defer closeSink()

	s := newSimulator(cfg)
	if exporter != nil {
		s.SetExporter(exporter)
	}
	if watch {
		r := tui.NewLiveRenderer(runName, cfg.Run.FPS)
		r.Start()
		defer r.Stop()
		s.AddObserver(r)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("running %s: %d tops, %d frames...\n", runName, cfg.Run.Tops, cfg.Run.Frames)
	start := time.Now()

	result, err := s.Run(ctx, simConfig(cfg))
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	runID, err := st.Save(storage.RunMetadata{
		Name:   runName,
		Seed:   cfg.Arena.Seed,
		Radius: cfg.Arena.Radius,
		Frames: cfg.Run.Frames,
		Tops:   cfg.Run.Tops,
		Params: cfg.Physics,
	}, result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d\n", result.StepsTaken)
	fmt.Printf("live at end: %d of %d spawned\n", len(result.Final.Tops), result.Spawned)
	printMetrics(result.Metrics)
	if exporter != nil {
		printTelemetry(exporter.Stats())
	}
	return nil
}

func printMetrics(m map[string]float64) {
	fmt.Println("\nmetrics:")
	for _, name := range slices.Sorted(maps.Keys(m)) {
		fmt.Printf("  %s: %.6f\n", name, m[name])
	}
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTIME\tSEED\tRADIUS\tSTEPS\tSPAWNED\tLIVE")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%d\t%.0f\t%d\t%d\t%d\n",
			run.ID,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Seed,
			run.Radius,
			run.StepsTaken,
			run.Spawned,
			run.FinalLive,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, result, err := st.LoadResult(args[0])
	if err != nil {
		return err
	}
	if len(result.Frames) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("frames: %d\n\n", len(result.Frames))

	captions := map[string]string{
		"live":           "live tops",
		"collisions":     "collisions per frame",
		"kinetic_energy": "kinetic energy",
		"mean_spin":      "mean |spin|",
	}
	for _, col := range []string{"live", "collisions", "kinetic_energy", "mean_spin"} {
		graph := asciigraph.Plot(result.Series(col),
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(captions[col]),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	if svgOut != "" {
		doc := export.SeriesToSVG(result.Series("live"), 800, 240, "#00ff88")
		if err := os.WriteFile(svgOut, []byte(doc), 0644); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", svgOut)
	}
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func exportCSV(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	frames, err := st.LoadFrames(args[0])
	if err != nil {
		return err
	}
	if len(frames) == 0 {
		return fmt.Errorf("no data to export")
	}
	return storage.ExportCSV(os.Stdout, frames)
}

func exportJSON(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, result, err := st.LoadResult(args[0])
	if err != nil {
		return err
	}
	return storage.ExportJSON(os.Stdout, *meta, result)
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, result, err := st.LoadResult(args[0])
	if err != nil {
		return err
	}

	if !slices.Contains(sim.Columns, column) {
		return fmt.Errorf("unknown column %q (available: %v)", column, sim.Columns)
	}
	series := result.Series(column)
	if len(series) < 4 {
		return fmt.Errorf("no data")
	}

	fmt.Printf("frequency analysis: %s\n", meta.ID)
	fmt.Printf("column: %s\n\n", column)

	ps := analysis.PowerSpectrum(analysis.PadPow2(series))
	plotData := ps[:max(2, len(ps)/4)]

	graph := asciigraph.Plot(plotData,
		asciigraph.Height(15),
		asciigraph.Width(80),
		asciigraph.Caption("power spectrum ("+column+")"),
	)
	fmt.Println(graph)
	fmt.Println()

	peak := analysis.DominantPeriod(series)
	if peak.Period == 0 {
		fmt.Println("no periodic component")
		return nil
	}
	fps := float64(config.DefaultFPS)
	fmt.Printf("dominant period: %.1f frames (%.3f s at %.0f fps)\n", peak.Period, peak.Period/fps, fps)
	fmt.Printf("frequency: %.3f hz\n", fps/peak.Period)
	return nil
}

func renderSVG(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	var last *arena.Arena
	s := newSimulator(cfg)
	s.AddObserver(sim.ObserverFunc(func(a *arena.Arena, _ arena.StepResult) { last = a }))
	result, err := s.Run(cmd.Context(), simConfig(cfg))
	if err != nil {
		return err
	}

	f, err := os.Create(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	if braille && last != nil {
		m := viz.NewModel(func() *arena.Arena { return last })
		_, err = f.WriteString(export.CanvasToSVG(m.Frame(), 4))
	} else {
		err = export.SnapshotToSVG(f, result.Final)
	}
	if err != nil {
		return err
	}

	fmt.Printf("wrote %s (frame %d, %d tops)\n", args[0], result.Final.Frame, len(result.Final.Tops))
	return f.Close()
}

func printTelemetry(stats telemetry.Stats) {
	fmt.Println("\ntelemetry:")
	for _, ch := range []telemetry.Channel{telemetry.ChannelSpawn, telemetry.ChannelCollision, telemetry.ChannelPosition} {
		c := stats[ch]
		fmt.Printf("  %s: %d sent, %d failed\n", ch, c.Sent, c.Failed)
	}
}
