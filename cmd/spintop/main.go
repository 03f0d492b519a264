package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/san-kum/spintop/internal/arena"
	"github.com/san-kum/spintop/internal/config"
	"github.com/san-kum/spintop/internal/osc"
	"github.com/san-kum/spintop/internal/relay"
	"github.com/san-kum/spintop/internal/telemetry"
	"github.com/spf13/cobra"
)

var (
	dataDir    string
	configFile string
	preset     string
	envFile    string
	logLevel   string
	// overrides; applied only when set on the command line
	seed      int64
	frames    int
	numTops   int
	radius    float64
	sinkName  string
	frameRate int
	runName   string
	watch     bool
	realtime  bool
	theme     string
	gifPath   string
	populate  int
	column    string
	svgOut    string
	braille   bool
	numRuns   int
	addr      string
	listen    string
	sweepStep int
	gridSpecs []string
	metric    string
	maximize  bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "spintop",
		Short:         "spinning top arena with OSC telemetry",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			setupLogging(os.Stderr, logLevel)
			return config.LoadDotEnv(envFile)
		},
		RunE: runLive,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&dataDir, "data", ".spintop", "data directory")
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&preset, "preset", "", "use preset configuration")
	pf.StringVar(&envFile, "env-file", ".env", "dotenv file loaded before reading OSC_HOST/OSC_PORT")
	pf.StringVar(&logLevel, "log-level", "info", "debug, info, warn or error")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a headless arena and store it",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	arenaFlags(runCmd)
	runCmd.Flags().StringVar(&runName, "name", "run", "run name")
	runCmd.Flags().BoolVar(&watch, "watch", false, "draw the arena in the terminal while running")
	runCmd.Flags().BoolVar(&realtime, "realtime", false, "pace steps at run.fps")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "interactive arena in the terminal",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	arenaFlags(liveCmd)
	liveCmd.Flags().StringVar(&theme, "theme", "mono", "color theme ("+strings.Join(vizThemes(), ", ")+")")
	liveCmd.Flags().StringVar(&gifPath, "gif", "spintop.gif", "where G recordings are written")
	liveCmd.Flags().IntVar(&populate, "populate", 0, "random tops to start with")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot run results",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&svgOut, "svg", "", "also write the live count as SVG to this path")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run frames to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "frequency analysis of a frame column",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().StringVar(&column, "column", "collisions", "frame column ("+strings.Join(frameColumns(), ", ")+")")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "play a scripted spawn scenario",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}
	scenarioCmd.Flags().BoolVar(&watch, "watch", false, "draw the arena in the terminal while running")
	scenarioCmd.Flags().StringVar(&sinkName, "sink", "", "telemetry sink (none, log, osc, http)")

	sweepCmd := &cobra.Command{
		Use:   "sweep [param] [min] [max]",
		Short: "sweep one physics parameter",
		Args:  cobra.ExactArgs(3),
		RunE:  runSweep,
	}
	sweepCmd.Flags().IntVar(&sweepStep, "steps", 5, "number of parameter values")

	tuneCmd := &cobra.Command{
		Use:   "tune",
		Short: "grid search physics parameters for the best metric",
		Args:  cobra.NoArgs,
		RunE:  runTune,
	}
	arenaFlags(tuneCmd)
	tuneCmd.Flags().StringArrayVar(&gridSpecs, "param", nil, "grid axis as name=v1,v2,... (repeatable)")
	tuneCmd.Flags().StringVar(&metric, "metric", "survival_frames", "metric to optimize")
	tuneCmd.Flags().BoolVar(&maximize, "maximize", false, "pick the highest value instead of the lowest")

	ensembleCmd := &cobra.Command{
		Use:   "ensemble",
		Short: "run seeded arenas in parallel and summarize metrics",
		Args:  cobra.NoArgs,
		RunE:  runEnsemble,
	}
	arenaFlags(ensembleCmd)
	ensembleCmd.Flags().IntVar(&numRuns, "runs", 8, "number of runs")

	relayCmd := &cobra.Command{
		Use:   "relay",
		Short: "serve the HTTP to OSC relay and the websocket feed",
		Args:  cobra.NoArgs,
		RunE:  runRelay,
	}
	relayCmd.Flags().StringVar(&addr, "addr", ":3000", "listen address")

	probeCmd := &cobra.Command{
		Use:   "probe",
		Short: "send test datagrams to the OSC target",
		Args:  cobra.NoArgs,
		RunE:  runProbe,
	}

	monitorCmd := &cobra.Command{
		Use:   "monitor",
		Short: "print OSC messages received on a UDP port",
		Args:  cobra.NoArgs,
		RunE:  runMonitor,
	}
	monitorCmd.Flags().StringVar(&listen, "listen", fmt.Sprintf("127.0.0.1:%d", osc.DefaultPort), "UDP address to listen on")

	svgCmd := &cobra.Command{
		Use:   "svg [out]",
		Short: "run a headless arena and write its final frame as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  renderSVG,
	}
	arenaFlags(svgCmd)
	svgCmd.Flags().BoolVar(&braille, "braille", false, "render the terminal braille canvas instead of vector shapes")

	rootCmd.AddCommand(runCmd, liveCmd, listCmd, plotCmd, exportCmd, exportCSVCmd, exportJSONCmd, analyzeCmd,
		presetsCmd, scenarioCmd, sweepCmd, tuneCmd, ensembleCmd, relayCmd, probeCmd, monitorCmd, svgCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func arenaFlags(cmd *cobra.Command) {
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed (0 = time based)")
	cmd.Flags().IntVar(&frames, "frames", config.DefaultFrames, "frames to run")
	cmd.Flags().IntVar(&numTops, "tops", config.DefaultTops, "initial random tops")
	cmd.Flags().Float64Var(&radius, "radius", config.DefaultRadius, "arena radius")
	cmd.Flags().StringVar(&sinkName, "sink", "", "telemetry sink (none, log, osc, http)")
	cmd.Flags().IntVar(&frameRate, "fps", config.DefaultFPS, "frame rate")
}

func setupLogging(w io.Writer, level string) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl})))
}

// loadConfig layers the configuration: defaults, preset, config file, the
// environment, then flags the user actually set.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("seed") {
		cfg.Arena.Seed = seed
	}
	if flags.Changed("frames") {
		cfg.Run.Frames = frames
	}
	if flags.Changed("tops") {
		cfg.Run.Tops = numTops
	}
	if flags.Changed("radius") {
		cfg.Arena.Radius = radius
	}
	if flags.Changed("sink") {
		cfg.Telemetry.Sink = sinkName
	}
	if flags.Changed("fps") {
		cfg.Run.FPS = frameRate
	}
	return cfg, cfg.Validate()
}

// openSink builds the configured telemetry sink. Network sinks are queued so
// Send never waits on the wire. The returned close func is never nil.
func openSink(cfg *config.Config) (telemetry.Sink, func(), error) {
	t := cfg.Telemetry
	switch t.Sink {
	case config.SinkLog:
		return telemetry.LogSink{Logger: slog.Default()}, func() {}, nil
	case config.SinkOSC:
		s, err := osc.Dial(t.OSCHost, t.OSCPort)
		if err != nil {
			return nil, nil, err
		}
		slog.Info("osc_sink_ready", "target", s.Target())
		async := telemetry.NewAsyncSink(s, telemetry.DefaultAsyncBuffer, slog.Default())
		return async, func() {
			async.Close()
			s.Close()
		}, nil
	case config.SinkHTTP:
		s := relay.NewHTTPSink(t.RelayURL)
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if st, err := s.Probe(ctx); err != nil {
			slog.Warn("relay_unreachable", "url", t.RelayURL, "error", err)
		} else {
			slog.Info("relay_sink_ready", "url", t.RelayURL, "osc", st.OSCEnabled)
		}
		async := telemetry.NewAsyncSink(s, telemetry.DefaultAsyncBuffer, slog.Default())
		return async, func() { async.Close() }, nil
	default:
		return telemetry.Discard, func() {}, nil
	}
}

// newExporter returns nil when telemetry is off.
func newExporter(cfg *config.Config) (*telemetry.Exporter, func(), error) {
	if cfg.Telemetry.Sink == config.SinkNone || cfg.Telemetry.Sink == "" {
		return nil, func() {}, nil
	}
	sink, closeFn, err := openSink(cfg)
	if err != nil {
		return nil, nil, err
	}
	e := telemetry.NewExporter(sink,
		telemetry.WithPrefix(cfg.Telemetry.Prefix),
		telemetry.WithLogger(slog.Default()),
		telemetry.WithIntervals(
			time.Duration(cfg.Telemetry.CollisionIntervalMS)*time.Millisecond,
			time.Duration(cfg.Telemetry.PositionIntervalMS)*time.Millisecond,
		),
	)
	return e, closeFn, nil
}

// arenaFactory returns a builder for empty arenas seeded from cfg.
func arenaFactory(cfg *config.Config) func() *arena.Arena {
	return func() *arena.Arena {
		return cfg.NewArena(arena.NewRand(cfg.Arena.Seed))
	}
}
