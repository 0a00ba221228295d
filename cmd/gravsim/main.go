package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/log"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/gravsim/internal/analysis"
	"github.com/san-kum/gravsim/internal/automation"
	"github.com/san-kum/gravsim/internal/config"
	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/export"
	"github.com/san-kum/gravsim/internal/gui"
	"github.com/san-kum/gravsim/internal/metrics"
	"github.com/san-kum/gravsim/internal/optim"
	"github.com/san-kum/gravsim/internal/render"
	"github.com/san-kum/gravsim/internal/sim"
	"github.com/san-kum/gravsim/internal/storage"
	"github.com/san-kum/gravsim/internal/viz"
)

var (
	dataDir      string
	configFile   string
	preset       string
	bounceFactor string
	radius       string
	debug        bool
	logFile      string

	bounce bool
	sound  bool
	fps    int
	seed   int64
	frames int

	// live view
	scale float64
	theme string

	// headless runs
	plot      bool
	phase     bool
	save      bool
	svgPath   string
	pointerAt string
	trail     int
	runs      int

	// sweep
	factors []float64
	radii   []float64
	metric  string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "gravsim",
		Short: "particles orbiting a sun, bounced off by the pointer",
		RunE:  runWindow,
	}
	rootCmd.Flags().BoolVar(&bounce, "bounce", false, "let the pointer repel particles")
	rootCmd.Flags().BoolVar(&sound, "audio", false, "play an ambient pad driven by the simulation")

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&dataDir, "data", ".gravsim", "data directory")
	pf.StringVar(&configFile, "config", "", "YAML config file")
	pf.StringVar(&preset, "preset", "", "start from a named preset")
	pf.StringVar(&bounceFactor, "bounce-factor", "", "repulsor bounce strength")
	pf.StringVar(&radius, "radius", "", "repulsor radius")
	pf.BoolVar(&debug, "debug", false, "log every frame with bounces")
	pf.StringVar(&logFile, "log-file", "", "append logs to this file")

	guiCmd := &cobra.Command{
		Use:   "gui",
		Short: "run the simulation in a window",
		Args:  cobra.NoArgs,
		RunE:  runWindow,
	}
	guiCmd.Flags().BoolVar(&bounce, "bounce", false, "let the pointer repel particles")
	guiCmd.Flags().BoolVar(&sound, "audio", false, "play an ambient pad driven by the simulation")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run the simulation in the terminal",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	liveCmd.Flags().BoolVar(&bounce, "bounce", false, "let the pointer repel particles")
	liveCmd.Flags().IntVar(&fps, "fps", config.DefaultFPS, "frames per second")
	liveCmd.Flags().Float64Var(&scale, "scale", 4, "world units per braille dot")
	liveCmd.Flags().StringVar(&theme, "theme", viz.ThemeNight.Name, "color theme")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run headless and print metrics",
		Args:  cobra.NoArgs,
		RunE:  runHeadless,
	}
	runCmd.Flags().IntVar(&frames, "frames", config.DefaultFrames, "frames to simulate")
	runCmd.Flags().Int64Var(&seed, "seed", 0, "random seed (0 = clock)")
	runCmd.Flags().BoolVar(&plot, "plot", false, "plot kinetic energy")
	runCmd.Flags().BoolVar(&phase, "phase", false, "draw the radial phase portrait of the final frame")
	runCmd.Flags().BoolVar(&save, "save", false, "keep the run in the data directory")
	runCmd.Flags().StringVar(&svgPath, "svg", "", "write the final frame as SVG")
	runCmd.Flags().IntVar(&trail, "trail", 0, "particle trail length in the SVG")
	runCmd.Flags().StringVar(&pointerAt, "pointer", "", "pointer as x,y or \"orbit\"; enables bounce")

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "run an ensemble over consecutive seeds",
		Args:  cobra.NoArgs,
		RunE:  runBench,
	}
	benchCmd.Flags().IntVar(&runs, "runs", 8, "number of runs")
	benchCmd.Flags().IntVar(&frames, "frames", config.DefaultFrames, "frames per run")
	benchCmd.Flags().Int64Var(&seed, "seed", 1, "seed of the first run")
	benchCmd.Flags().StringVar(&pointerAt, "pointer", "", "pointer as x,y or \"orbit\"; enables bounce")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "grid search bounce strength and radius for the lowest metric",
		Args:  cobra.NoArgs,
		RunE:  runSweep,
	}
	sweepCmd.Flags().Float64SliceVar(&factors, "factors", []float64{1, 1.5, 2.5}, "bounce strengths to try")
	sweepCmd.Flags().Float64SliceVar(&radii, "radii", []float64{20, 35, 60}, "radii to try")
	sweepCmd.Flags().StringVar(&metric, "metric", "energy_growth", "metric to minimise")
	sweepCmd.Flags().IntVar(&frames, "frames", config.DefaultFrames, "frames per run")
	sweepCmd.Flags().Int64Var(&seed, "seed", 1, "seed of every run")
	sweepCmd.Flags().StringVar(&pointerAt, "pointer", "", "pointer as x,y or \"orbit\" (default orbit)")

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run the steps of a YAML scenario",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot the kinetic energy of a saved run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "spectrum of the kinetic energy of a saved run",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export a saved run to JSON on stdout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return storage.New(dataDir).ExportJSON(os.Stdout, args[0])
		},
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tPARTICLES\tBOUNCE\tSTRENGTH\tRADIUS")
			for _, name := range config.ListPresets() {
				p := config.GetPreset(name)
				fmt.Fprintf(w, "%s\t%d\t%v\t%.2f\t%.0f\n", name, p.Particles, p.Bounce, p.BounceFactor, p.Radius)
			}
			w.Flush()
		},
	}

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "manage config files",
	}
	configInitCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "write the effective config as YAML",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "gravsim.yaml"
			if len(args) > 0 {
				path = args[0]
			}
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if err := config.Save(path, cfg); err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", path)
			return nil
		},
	}
	configCmd.AddCommand(configInitCmd)

	rootCmd.AddCommand(guiCmd, liveCmd, runCmd, benchCmd, sweepCmd, scenarioCmd, listCmd, plotCmd, analyzeCmd, exportJSONCmd, presetsCmd, configCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig layers the preset, the config file and any flag the user set,
// in that order.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	if configFile != "" {
		var err error
		cfg, err = config.LoadOver(cfg, configFile)
		if err != nil {
			return nil, err
		}
	}

	flags := cmd.Flags()
	if flags.Changed("bounce-factor") {
		cfg.BounceFactor = dynamo.ParseBounceFactor(bounceFactor)
	}
	if flags.Changed("radius") {
		cfg.Radius = dynamo.ParseRadius(radius)
	}
	if flags.Changed("bounce") {
		cfg.Bounce = bounce
	}
	if flags.Changed("fps") {
		cfg.FPS = fps
	}
	if flags.Changed("frames") {
		cfg.Frames = frames
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newLogger writes to --log-file when given. Otherwise interactive hosts
// stay quiet, since they own the terminal, and headless commands log to
// stderr.
func newLogger(interactive bool) (*log.Logger, func(), error) {
	var w io.Writer = os.Stderr
	closeFn := func() {}
	switch {
	case logFile != "":
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, nil, err
		}
		w = f
		closeFn = func() { f.Close() }
	case interactive:
		w = io.Discard
	}

	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.Kitchen,
		Prefix:          "gravsim",
	})
	if debug {
		logger.SetLevel(log.DebugLevel)
	}
	return logger, closeFn, nil
}

func settingsFor(cfg *config.Config) *dynamo.Settings {
	s := dynamo.NewSettings()
	s.Set(cfg.BounceFactor, cfg.Radius)
	return s
}

func styleFor(cfg *config.Config) render.Style {
	st := render.DefaultStyle()
	st.LineMaxDist = cfg.Physics.LineMaxDist
	return st
}

func runWindow(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger, closeLog, err := newLogger(true)
	if err != nil {
		return err
	}
	defer closeLog()

	return gui.Run(gui.Options{
		Width:    int32(cfg.Width),
		Height:   int32(cfg.Height),
		FPS:      int32(cfg.FPS),
		Bounce:   cfg.Bounce,
		Seed:     cfg.Seed,
		Tuning:   cfg.Tuning(),
		Settings: settingsFor(cfg),
		Style:    styleFor(cfg),
		Logger:   logger,
		Debug:    debug,
		Audio:    sound,
	})
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger, closeLog, err := newLogger(true)
	if err != nil {
		return err
	}
	defer closeLog()

	return viz.Run(viz.Options{
		FPS:      cfg.FPS,
		Bounce:   cfg.Bounce,
		Scale:    scale,
		Theme:    theme,
		Seed:     cfg.Seed,
		Tuning:   cfg.Tuning(),
		Settings: settingsFor(cfg),
		Style:    styleFor(cfg),
		Logger:   logger,
		Debug:    debug,
		OnExit:   func() { logger.Info("live view closed") },
	})
}

func runHeadless(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger, closeLog, err := newLogger(false)
	if err != nil {
		return err
	}
	defer closeLog()

	runCfg, err := runConfigFor(cfg)
	if err != nil {
		return err
	}

	if runCfg.Seed == 0 {
		runCfg.Seed = time.Now().UnixNano()
	}

	runner := sim.NewRunner(cfg.Tuning())
	runner.SetLogger(logger)
	for _, m := range defaultMetrics() {
		runner.AddMetric(m)
	}
	var svg *export.SVGRenderer
	if svgPath != "" {
		svg = export.NewSVGRenderer(styleFor(cfg), trail)
		runner.AddObserver(svg)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("running %d frames (%d particles, bounce %v, seed %d)...\n", runCfg.Frames, cfg.Particles, runCfg.BounceEnabled, runCfg.Seed)
	start := time.Now()
	result, err := runner.Run(ctx, runCfg)
	if result == nil {
		return err
	}
	if err != nil {
		logger.Warn("run interrupted", "frames", result.Frames, "err", err)
	}
	elapsed := time.Since(start)

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("frames: %d\n", result.Frames)
	fmt.Printf("bounces: %d\n", result.Bounces)
	fmt.Println("\nmetrics:")
	for _, m := range defaultMetrics() {
		fmt.Printf("  %s: %.6f\n", m.Name(), result.Metrics[m.Name()])
	}

	if plot && len(result.KineticEnergy) > 1 {
		fmt.Println()
		graph := asciigraph.Plot(result.KineticEnergy,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption("kinetic energy"),
		)
		fmt.Println(graph)
	}

	if phase {
		fmt.Println()
		fmt.Println("distance to sun vs radial velocity:")
		fmt.Print(analysis.PhasePortraitToASCII(analysis.RadialPortrait(result.Final), 80, 20))
	}

	if svg != nil {
		if err := svg.WriteFile(svgPath); err != nil {
			return err
		}
		fmt.Printf("\nwrote %s\n", svgPath)
	}

	if save {
		st := storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		runID, err := st.Save(storage.RunMetadata{
			Preset:       preset,
			Seed:         runCfg.Seed,
			Particles:    cfg.Particles,
			Width:        runCfg.Width,
			Height:       runCfg.Height,
			Bounce:       runCfg.BounceEnabled,
			BounceFactor: runCfg.BounceFactor,
			Radius:       runCfg.Radius,
		}, result)
		if err != nil {
			return err
		}
		fmt.Printf("run id: %s\n", runID)
	}
	return nil
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
	logger, closeLog, err := newLogger(false)
	if err != nil {
		return err
	}
	defer closeLog()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("scenario: %s\n", sc.Name)
	if sc.Description != "" {
		fmt.Printf("%s\n", sc.Description)
	}
	fmt.Println()

	runner := &automation.Runner{Base: cfg, NewMetrics: defaultMetrics, Logger: logger}
	results, runErr := runner.Run(ctx, sc)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tFRAMES\tBOUNCES\tESCAPED\tENERGY_GROWTH")
	for _, r := range results {
		fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%.4f\n",
			r.Name, r.Result.Frames, r.Result.Bounces, r.Escaped, r.Result.Metrics["energy_growth"])
	}
	if err := w.Flush(); err != nil {
		return err
	}
	return runErr
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	energy, err := st.LoadEnergy(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("frames: %d, bounces: %d\n", meta.Frames, meta.Bounces)
	for name, val := range meta.Metrics {
		fmt.Printf("  %s: %.6f\n", name, val)
	}

	ps := analysis.EnergySpectrum(energy)
	if len(ps) < 2 {
		fmt.Println("\ntoo few frames for a spectrum")
		return nil
	}

	fmt.Println()
	graph := asciigraph.Plot(ps,
		asciigraph.Height(15),
		asciigraph.Width(80),
		asciigraph.Caption("kinetic energy spectrum (cycles per run)"),
	)
	fmt.Println(graph)
	fmt.Println()

	if period, ok := analysis.DominantPeriod(energy); ok {
		fmt.Printf("dominant period: %.1f frames\n", period)
	} else {
		fmt.Println("no dominant period")
	}
	return nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if pointerAt == "" {
		pointerAt = "orbit"
	}
	base, err := runConfigFor(cfg)
	if err != nil {
		return err
	}
	if base.Seed == 0 {
		base.Seed = 1
	}
	tuning := cfg.Tuning()

	build := func(params map[string]float64) (*sim.Runner, sim.RunConfig, error) {
		runner := sim.NewRunner(tuning)
		for _, m := range defaultMetrics() {
			runner.AddMetric(m)
		}
		rc := base
		rc.BounceFactor = params["bounce_factor"]
		rc.Radius = params["radius"]
		return runner, rc, nil
	}

	grid := optim.NewGridSearch(
		[]string{"bounce_factor", "radius"},
		[][]float64{factors, radii},
	)

	fmt.Printf("sweeping %d points of %d frames, minimising %s\n\n", len(factors)*len(radii), base.Frames, metric)
	best, points, err := grid.Search(context.Background(), build, metric)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "STRENGTH\tRADIUS\t%s\n", strings.ToUpper(metric))
	for _, p := range points {
		fmt.Fprintf(w, "%.2f\t%.0f\t%.4f\n", p.Params["bounce_factor"], p.Params["radius"], p.Value)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Printf("\nbest: strength %.2f, radius %.0f (%s %.4f)\n",
		best.Params["bounce_factor"], best.Params["radius"], metric, best.Value)
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	runs, err := storage.New(dataDir).List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPRESET\tSEED\tFRAMES\tBOUNCES\tTIMESTAMP")
	for _, r := range runs {
		name := r.Preset
		if name == "" {
			name = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\t%s\n",
			r.ID, name, r.Seed, r.Frames, r.Bounces, r.Timestamp.Format(time.DateTime))
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	energy, err := st.LoadEnergy(args[0])
	if err != nil {
		return err
	}
	if len(energy) < 2 {
		return fmt.Errorf("run %s has too few frames to plot", meta.ID)
	}

	fmt.Printf("run: %s (seed %d, %d frames, %d bounces)\n\n", meta.ID, meta.Seed, meta.Frames, meta.Bounces)
	graph := asciigraph.Plot(energy,
		asciigraph.Height(15),
		asciigraph.Width(80),
		asciigraph.Caption("kinetic energy"),
	)
	fmt.Println(graph)
	return nil
}

func runBench(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if runs <= 0 {
		return fmt.Errorf("runs must be positive, got %d", runs)
	}
	runCfg, err := runConfigFor(cfg)
	if err != nil {
		return err
	}

	first := cfg.Seed
	if first == 0 {
		first = 1
	}
	ens := sim.NewEnsemble(cfg.Tuning(), runs, first, defaultMetrics)

	fmt.Printf("benchmarking %d runs of %d frames\n\n", runs, runCfg.Frames)
	start := time.Now()
	results, err := ens.Run(context.Background(), runCfg)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	names := make([]string, 0, 3)
	for _, m := range defaultMetrics() {
		names = append(names, m.Name())
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "SEED\tFRAMES\t%s\n", strings.ToUpper(strings.Join(names, "\t")))
	for _, res := range results {
		fmt.Fprintf(w, "%d\t%d", res.Seed, res.Frames)
		for _, name := range names {
			fmt.Fprintf(w, "\t%.4f", res.Metrics[name])
		}
		fmt.Fprintln(w)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	total := runs * runCfg.Frames
	fmt.Printf("\n%d frames in %v (%.0f frames/sec)\n", total, elapsed, float64(total)/elapsed.Seconds())
	return nil
}

func runConfigFor(cfg *config.Config) (sim.RunConfig, error) {
	rc := sim.RunConfig{
		Frames:        cfg.Frames,
		Width:         cfg.Width,
		Height:        cfg.Height,
		Seed:          cfg.Seed,
		BounceEnabled: cfg.Bounce,
		BounceFactor:  cfg.BounceFactor,
		Radius:        cfg.Radius,
	}
	if pointerAt == "" {
		return rc, nil
	}
	path, err := sim.ParsePointerPath(pointerAt, cfg.Width, cfg.Height)
	if err != nil {
		return rc, err
	}
	rc.Pointer = path
	rc.BounceEnabled = true
	return rc, nil
}

func defaultMetrics() []sim.Metric {
	ms := metrics.Default()
	out := make([]sim.Metric, len(ms))
	for i, m := range ms {
		out[i] = m
	}
	return out
}
