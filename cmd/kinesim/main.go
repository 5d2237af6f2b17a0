package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/kinesim/internal/analysis"
	"github.com/san-kum/kinesim/internal/automation"
	"github.com/san-kum/kinesim/internal/config"
	"github.com/san-kum/kinesim/internal/dynamo"
	"github.com/san-kum/kinesim/internal/experiment"
	"github.com/san-kum/kinesim/internal/export"
	"github.com/san-kum/kinesim/internal/optim"
	"github.com/san-kum/kinesim/internal/sim"
	"github.com/san-kum/kinesim/internal/storage"
	"github.com/san-kum/kinesim/internal/viz"
	"github.com/spf13/cobra"
)

var (
	dataDir    string
	configFile string
	preset     string
	ticks      int
	seed       int64
	verbose    bool
	// Output file for exports
	outFile string
	// SVG size
	svgWidth  int
	svgHeight int
	// Ensemble size for bench
	runs    int
	workers int
	// Sweep and search parameters
	paramName  string
	paramMin   float64
	paramMax   float64
	steps      int
	metricName string
	grid       []string
	// Monte Carlo
	trials  int
	perturb float64
	tilt    float64
)

var logger = log.NewWithOptions(os.Stderr, log.Options{
	ReportTimestamp: true,
	TimeFormat:      time.Kitchen,
	Prefix:          "kinesim",
})

var keyStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888")).Width(22)

func main() {
	rootCmd := &cobra.Command{
		Use:          "kinesim",
		Short:        "procedural animation and kinematics lab",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				logger.SetLevel(log.DebugLevel)
			}
			log.SetDefault(logger)
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&dataDir, "data", ".kinesim", "data directory")
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&preset, "preset", "", "use preset configuration")
	pf.IntVar(&ticks, "ticks", config.DefaultTicks, "ticks to simulate")
	pf.Int64Var(&seed, "seed", 0, "random seed")
	pf.BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	runCmd := &cobra.Command{
		Use:   "run [scene]",
		Short: "run a scene and store the frames",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runScene,
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot run results",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run frames to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}
	exportCSVCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")

	svgCmd := &cobra.Command{
		Use:   "svg [run_id]",
		Short: "draw the target trail and final pose as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	svgCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")
	svgCmd.Flags().IntVar(&svgWidth, "width", 800, "image width")
	svgCmd.Flags().IntVar(&svgHeight, "height", 600, "image height")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "frequency analysis",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}

	compareCmd := &cobra.Command{
		Use:   "compare [run_id] [run_id]",
		Short: "find the first frame where two runs differ",
		Args:  cobra.ExactArgs(2),
		RunE:  compareRuns,
	}

	liveCmd := &cobra.Command{
		Use:   "live [scene]",
		Short: "run a scene with live visualization",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets [scene]",
		Short: "list scenes, or the presets of one scene",
		Args:  cobra.MaximumNArgs(1),
		RunE:  listPresets,
	}

	benchCmd := &cobra.Command{
		Use:   "bench [scene]",
		Short: "run a seeded ensemble and report throughput",
		Args:  cobra.MaximumNArgs(1),
		RunE:  benchScene,
	}
	benchCmd.Flags().IntVar(&runs, "runs", 8, "number of runs")
	benchCmd.Flags().IntVar(&workers, "workers", 0, "concurrent runs (0 = unlimited)")

	heightCmd := &cobra.Command{
		Use:   "height [x...]",
		Short: "sample the configured terrain",
		RunE:  sampleHeight,
	}

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run a scripted sequence of scenes",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep [scene]",
		Short: "run a scene across values of one parameter",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSweep,
	}
	sweepCmd.Flags().StringVar(&paramName, "param", "body.friction", "parameter to vary")
	sweepCmd.Flags().Float64Var(&paramMin, "min", 0, "first value")
	sweepCmd.Flags().Float64Var(&paramMax, "max", 1, "last value")
	sweepCmd.Flags().IntVar(&steps, "steps", 5, "number of values")

	tuneCmd := &cobra.Command{
		Use:   "tune [scene]",
		Short: "grid search parameters for the lowest metric",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runTune,
	}
	tuneCmd.Flags().StringArrayVar(&grid, "grid", nil, "name=v1,v2,... (repeatable)")
	tuneCmd.Flags().StringVar(&metricName, "metric", "length_error", "metric to minimize")

	monteCarloCmd := &cobra.Command{
		Use:   "montecarlo [scene]",
		Short: "drop a body from random poses and count stable landings",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runMonteCarlo,
	}
	monteCarloCmd.Flags().IntVar(&trials, "trials", 20, "number of trials")
	monteCarloCmd.Flags().Float64Var(&perturb, "perturb", 30, "max start offset")
	monteCarloCmd.Flags().Float64Var(&tilt, "tilt", 0.5, "max start angle offset (radians)")

	paramsCmd := &cobra.Command{
		Use:   "params",
		Short: "list tunable parameters",
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range optim.ParamNames() {
				fmt.Println(name)
			}
		},
	}

	rootCmd.AddCommand(runCmd, listCmd, plotCmd, exportCSVCmd, exportJSONCmd, svgCmd, analyzeCmd, compareCmd, liveCmd, presetsCmd, benchCmd, heightCmd,
		scenarioCmd, sweepCmd, tuneCmd, monteCarloCmd, paramsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig resolves the scene configuration: preset first, then the
// config file, then flags given on the command line.
func loadConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if len(args) > 0 {
		cfg.Scene = args[0]
	}

	if preset != "" {
		p := config.GetPreset(cfg.Scene, preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(cfg.Scene))
		}
		cfg = p
		logger.Debug("applied preset", "scene", cfg.Scene, "preset", preset)
	}

	if configFile != "" {
		if err := config.LoadInto(configFile, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		if len(args) > 0 {
			cfg.Scene = args[0]
		}
		logger.Debug("loaded config", "path", configFile)
	}

	flags := cmd.Flags()
	if flags.Changed("ticks") {
		cfg.Ticks = ticks
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	return cfg, nil
}

func runScene(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	exp := experiment.New(cfg, experiment.NewRegistry())
	if err := exp.Setup(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger.Info("running scene", "scene", cfg.Scene, "ticks", cfg.Ticks, "seed", cfg.Seed)
	start := time.Now()

	result, err := exp.Run(ctx)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)
	if result.Skipped > 0 {
		logger.Warn("skipped ticks with invalid targets", "count", result.Skipped)
	}

	runID, err := st.Save(cfg, result)
	if err != nil {
		return err
	}

	fmt.Println(viz.HeaderStyle.Render(cfg.Scene))
	printField("run id", runID)
	printField("completed in", elapsed.Round(time.Microsecond).String())
	printField("ticks", strconv.Itoa(result.TicksRun))
	printField("frames", strconv.Itoa(len(result.Frames)))
	printMetrics(result.Metrics)
	return nil
}

func printField(key, value string) {
	fmt.Println(keyStyle.Render(key) + value)
}

func printMetrics(values map[string]float64) {
	if len(values) == 0 {
		return
	}
	fmt.Println("\nmetrics:")
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		printField("  "+name, fmt.Sprintf("%.6f", values[name]))
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
	fmt.Fprintln(w, "ID\tSCENE\tTIME\tTICKS\tFRAMES\tSEED")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%d\n",
			run.ID,
			run.Scene,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Ticks,
			run.Frames,
			run.Seed,
		)
	}

	return w.Flush()
}

// loadRun reads the metadata and frames of a stored run.
func loadRun(runID string) (*storage.RunMetadata, []dynamo.Frame, error) {
	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, err
	}
	frames, err := st.LoadFrames(runID)
	if err != nil {
		return nil, nil, err
	}
	if len(frames) == 0 {
		return nil, nil, fmt.Errorf("no data in run %s", runID)
	}
	return meta, frames, nil
}

type series struct {
	caption string
	data    []float64
}

// seriesOf lists the signals worth plotting for a run's layout.
func seriesOf(layout storage.Layout, frames []dynamo.Frame) []series {
	var out []series
	if layout.Body {
		out = append(out,
			series{"body height", analysis.BodyHeight(frames)},
			series{"body energy", analysis.BodyEnergy(frames)},
		)
	}
	if layout.Joints > 0 {
		out = append(out, series{"reach miss", analysis.ReachMiss(frames)})
	}
	if layout.Nodes > 1 {
		out = append(out, series{"tail swing", analysis.LateralSwing(frames, -1)})
	}
	target := make([]float64, len(frames))
	for i, f := range frames {
		target[i] = f.Target.Y
	}
	return append(out, series{"target y", target})
}

func plotRun(cmd *cobra.Command, args []string) error {
	meta, frames, err := loadRun(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("scene: %s\n", meta.Scene)
	fmt.Printf("samples: %d\n\n", len(frames))

	for _, s := range seriesOf(meta.Layout, frames) {
		graph := asciigraph.Plot(s.data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(s.caption),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	fmt.Println(analysis.TargetPath(frames).ToASCII(80, 20))
	return nil
}

// output opens outFile, or stdout when no file was given.
func output() (io.WriteCloser, error) {
	if outFile == "" {
		return nopCloser{os.Stdout}, nil
	}
	return os.Create(outFile)
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

func exportCSV(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	in, err := os.Open(st.FramesPath(args[0]))
	if err != nil {
		return err
	}
	defer in.Close()

	w, err := output()
	if err != nil {
		return err
	}
	if _, err := io.Copy(w, in); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}

func exportJSON(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	if outFile != "" {
		if err := st.ExportJSONFile(args[0], outFile); err != nil {
			return err
		}
		logger.Info("exported", "run", args[0], "path", outFile)
		return nil
	}
	return st.ExportJSON(args[0], os.Stdout)
}

func exportSVG(cmd *cobra.Command, args []string) error {
	_, frames, err := loadRun(args[0])
	if err != nil {
		return err
	}

	w, err := output()
	if err != nil {
		return err
	}
	if _, err := io.WriteString(w, export.FramesToSVG(frames, svgWidth, svgHeight)); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	meta, frames, err := loadRun(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("frequency analysis: %s\n", meta.ID)
	fmt.Printf("scene: %s\n\n", meta.Scene)

	interval := analysis.SampleInterval(frames)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SIGNAL\tFREQ (1/tick)\tPERIOD (ticks)\tPOWER")
	for _, s := range seriesOf(meta.Layout, frames) {
		freq, power := analysis.DominantFrequency(s.data, interval)
		period := "-"
		if freq > 0 {
			period = fmt.Sprintf("%.1f", 1/freq)
		}
		fmt.Fprintf(w, "%s\t%.5f\t%s\t%.3f\n", s.caption, freq, period, power)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	ps := analysis.PowerSpectrum(seriesOf(meta.Layout, frames)[0].data)
	if len(ps) > 2 {
		fmt.Println()
		fmt.Println(asciigraph.Plot(ps[1:],
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption("power spectrum"),
		))
	}
	return nil
}

func compareRuns(cmd *cobra.Command, args []string) error {
	_, a, err := loadRun(args[0])
	if err != nil {
		return err
	}
	_, b, err := loadRun(args[1])
	if err != nil {
		return err
	}

	i := sim.FirstDivergence(&sim.Result{Frames: a}, &sim.Result{Frames: b})
	if i < 0 {
		fmt.Printf("runs are identical over %d frames\n", len(a))
		return nil
	}
	fmt.Printf("runs diverge at frame %d\n", i)
	if i < len(a) && i < len(b) {
		fmt.Printf("  %s target: %.3f, %.3f\n", args[0], a[i].Target.X, a[i].Target.Y)
		fmt.Printf("  %s target: %.3f, %.3f\n", args[1], b[i].Target.X, b[i].Target.Y)
	}
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	registry := experiment.NewRegistry()

	maxTicks := 0
	if cmd.Flags().Changed("ticks") {
		maxTicks = cfg.Ticks
	}
	m, err := viz.NewModel(cfg.Scene, func() (*sim.Simulator, error) {
		return registry.Build(cfg)
	}, maxTicks)
	if err != nil {
		return err
	}
	return viz.Run(m)
}

func listPresets(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		registry := experiment.NewRegistry()
		fmt.Println("scenes:")
		for _, s := range registry.ListScenes() {
			printField("  "+s, registry.Describe(s))
		}
		return nil
	}

	presets := config.ListPresets(args[0])
	if len(presets) == 0 {
		fmt.Printf("no presets for scene: %s\n", args[0])
		return nil
	}
	fmt.Printf("presets for %s:\n", args[0])
	for _, p := range presets {
		fmt.Printf("  %s\n", p)
	}
	return nil
}

func benchScene(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	ens := sim.NewEnsemble(experiment.NewRegistry().Factory(cfg), runs, cfg.Seed)
	if workers > 0 {
		ens.SetLimit(workers)
	}

	logger.Info("benchmarking", "scene", cfg.Scene, "runs", runs, "ticks", cfg.Ticks)
	start := time.Now()
	results, err := ens.Run(context.Background(), sim.Config{Ticks: cfg.Ticks, RecordEvery: cfg.RecordEvery})
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	total := 0
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SEED\tTICKS\tSKIPPED\tFRAMES")
	for i, r := range results {
		total += r.TicksRun
		fmt.Fprintf(w, "%d\t%d\t%d\t%d\n", cfg.Seed+int64(i), r.TicksRun, r.Skipped, len(r.Frames))
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Println()
	printField("elapsed", elapsed.Round(time.Microsecond).String())
	printField("ticks/sec", fmt.Sprintf("%.0f", float64(total)/elapsed.Seconds()))
	return nil
}

func sampleHeight(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, nil)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	t, err := experiment.NewTerrain(cfg)
	if err != nil {
		return err
	}

	xs := make([]float64, 0, len(args))
	for _, a := range args {
		x, err := strconv.ParseFloat(a, 64)
		if err != nil {
			return fmt.Errorf("invalid x %q: %w", a, err)
		}
		xs = append(xs, x)
	}
	if len(xs) == 0 {
		for x := 0.0; x <= 800; x += 50 {
			xs = append(xs, x)
		}
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "X\tHEIGHT\tSLOPE")
	for _, x := range xs {
		s := t.Sample(x)
		fmt.Fprintf(w, "%.1f\t%.3f\t%.4f\n", x, s.Height, s.Slope)
	}
	return w.Flush()
}

func runScenario(cmd *cobra.Command, args []string) error {
	scenario, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	results, err := automation.RunScenario(ctx, scenario, experiment.NewRegistry(), st)
	if err != nil {
		return err
	}

	fmt.Println(viz.HeaderStyle.Render(scenario.Name))
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tSCENE\tPRESET\tTICKS\tRUN")
	for i, r := range results {
		runID := r.RunID
		if runID == "" {
			runID = "-"
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%s\n", i+1, r.Step.Scene, r.Step.Preset, r.Result.TicksRun, runID)
	}
	return w.Flush()
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}

	results, err := automation.RunSweep(context.Background(), &automation.ParameterSweep{
		Base:      cfg,
		ParamName: paramName,
		ParamMin:  paramMin,
		ParamMax:  paramMax,
		NumSteps:  steps,
	}, experiment.NewRegistry())
	if err != nil {
		return err
	}

	var names []string
	for _, r := range results {
		if r.Metrics != nil {
			for name := range r.Metrics {
				names = append(names, name)
			}
			break
		}
	}
	sort.Strings(names)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, strings.ToUpper(paramName)+"\t"+strings.Join(names, "\t"))
	for _, r := range results {
		row := []string{fmt.Sprintf("%.4g", r.ParamValue)}
		if r.Err != nil {
			row = append(row, "invalid: "+r.Err.Error())
		}
		for _, name := range names {
			if r.Err == nil {
				row = append(row, fmt.Sprintf("%.5g", r.Metrics[name]))
			}
		}
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}
	return w.Flush()
}

// parseGrid reads name=v1,v2 entries into parallel name and value lists.
func parseGrid(entries []string) ([]string, [][]float64, error) {
	names := make([]string, 0, len(entries))
	ranges := make([][]float64, 0, len(entries))
	for _, e := range entries {
		name, list, ok := strings.Cut(e, "=")
		if !ok {
			return nil, nil, fmt.Errorf("invalid grid entry %q", e)
		}
		var values []float64
		for _, v := range strings.Split(list, ",") {
			f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
			if err != nil {
				return nil, nil, fmt.Errorf("grid %s: %w", name, err)
			}
			values = append(values, f)
		}
		names = append(names, name)
		ranges = append(ranges, values)
	}
	return names, ranges, nil
}

func runTune(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	names, ranges, err := parseGrid(grid)
	if err != nil {
		return err
	}
	if len(names) == 0 {
		return fmt.Errorf("no --grid given (see 'kinesim params')")
	}

	search, err := optim.NewGridSearch(names, ranges)
	if err != nil {
		return err
	}
	best, val, err := search.Search(context.Background(), cfg, experiment.NewRegistry(), metricName)
	if err != nil {
		return err
	}

	fmt.Println(viz.HeaderStyle.Render("best " + metricName))
	printField(metricName, fmt.Sprintf("%.6f", val))
	for _, name := range names {
		printField("  "+name, fmt.Sprintf("%.4g", best[name]))
	}
	return nil
}

func runMonteCarlo(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		args = []string{"drop"}
	}
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}

	results, err := automation.RunMonteCarlo(context.Background(), &automation.MonteCarloConfig{
		Base:              cfg,
		Perturbation:      perturb,
		AnglePerturbation: tilt,
		NumTrials:         trials,
		MaxPenetration:    1,
		Seed:              cfg.Seed,
	}, experiment.NewRegistry())
	if err != nil {
		return err
	}

	settle := make([]float64, 0, len(results))
	for _, r := range results {
		if r.SettleTick >= 0 {
			settle = append(settle, float64(r.SettleTick))
		}
	}
	stable, unstable := automation.MonteCarloStats(results)
	printField("stable", strconv.Itoa(stable))
	printField("unstable", strconv.Itoa(unstable))
	if len(settle) > 1 {
		fmt.Println()
		fmt.Println(viz.SparklineChart(settle, len(settle)))
	}
	return nil
}
