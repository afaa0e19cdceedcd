package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/molsim/internal/automation"
	"github.com/san-kum/molsim/internal/config"
	"github.com/san-kum/molsim/internal/dynamo"
	"github.com/san-kum/molsim/internal/experiment"
	"github.com/san-kum/molsim/internal/export"
	"github.com/san-kum/molsim/internal/optim"
	"github.com/san-kum/molsim/internal/sim"
	"github.com/san-kum/molsim/internal/storage"
	"github.com/san-kum/molsim/internal/viz"
	"github.com/spf13/cobra"
)

var (
	dataDir  string
	logLevel string

	configFile  string
	preset      string
	phaseName   string
	thermostat  string
	ticks       int
	sampleEvery int
	seed        int64
	molecules   int
	temperature float64
	gravity     float64
	heating     float64
	height      float64
	epsilon     float64
	injectCount int
	injectEvery int
	validate    bool
	printJSON   bool

	outFile    string
	svgFile    string
	runs       int
	benchTicks int

	sweepParam  string
	sweepMin    float64
	sweepMax    float64
	sweepSteps  int
	sweepMetric string
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "molsim",
		Short:        "2d molecular dynamics lab",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".molsim", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level: debug, info, warn, error")

	runCmd := &cobra.Command{
		Use:   "run [species]",
		Short: "run a headless simulation and record it",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSimulation,
	}
	addRunFlags(runCmd)
	runCmd.Flags().BoolVar(&printJSON, "json", false, "print the recorded run as json")
	runCmd.Flags().StringVar(&svgFile, "svg", "", "write the final container as svg")

	watchCmd := &cobra.Command{
		Use:   "watch [species]",
		Short: "run a simulation in the live dashboard",
		Args:  cobra.MaximumNArgs(1),
		RunE:  watchSimulation,
	}
	addRunFlags(watchCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list recorded runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a recorded run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&svgFile, "svg", "", "write the temperature series as svg")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export a recorded run as json",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}
	exportCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")

	presetsCmd := &cobra.Command{
		Use:   "presets [species]",
		Short: "list presets for one or every species",
		Args:  cobra.MaximumNArgs(1),
		RunE:  listPresets,
	}

	benchCmd := &cobra.Command{
		Use:   "bench [species]",
		Short: "benchmark ticks per second",
		Args:  cobra.MaximumNArgs(1),
		RunE:  benchSpecies,
	}
	benchCmd.Flags().IntVar(&benchTicks, "ticks", 120, "ticks per measurement")

	ensembleCmd := &cobra.Command{
		Use:   "ensemble [species]",
		Short: "run the same setup with consecutive seeds in parallel",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runEnsemble,
	}
	addRunFlags(ensembleCmd)
	ensembleCmd.Flags().IntVar(&runs, "runs", 4, "number of seeds")

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run a scripted scenario from a yaml file",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep [species]",
		Short: "grid search one parameter for the lowest metric value",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSweep,
	}
	addRunFlags(sweepCmd)
	sweepCmd.Flags().StringVar(&sweepParam, "param", "temperature", fmt.Sprintf("parameter to vary: %v", optim.ListParams()))
	sweepCmd.Flags().Float64Var(&sweepMin, "min", 0.1, "first value")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 0.5, "last value")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 5, "number of values")
	sweepCmd.Flags().StringVar(&sweepMetric, "metric", "energy_drift", "metric to minimize")

	rootCmd.AddCommand(runCmd, watchCmd, listCmd, plotCmd, exportCmd, presetsCmd, benchCmd, ensembleCmd, scenarioCmd, sweepCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use a preset for the species")
	cmd.Flags().StringVar(&phaseName, "phase", "solid", "starting phase: solid, liquid, gas")
	cmd.Flags().StringVar(&thermostat, "thermostat", "adaptive", "adaptive, isokinetic, andersen or none")
	cmd.Flags().IntVar(&ticks, "ticks", config.DefaultTicks, "ticks to run")
	cmd.Flags().IntVar(&sampleEvery, "sample-every", config.DefaultSampleEvery, "ticks between samples")
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed (default: time based)")
	cmd.Flags().IntVar(&molecules, "molecules", 0, "molecule count (default: fill the container)")
	cmd.Flags().Float64Var(&temperature, "temperature", 0, "temperature set point, reduced units")
	cmd.Flags().Float64Var(&gravity, "gravity", config.DefaultGravity, "gravitational acceleration")
	cmd.Flags().Float64Var(&heating, "heating", 0, "heating (+) or cooling (-) amount in [-1, 1]")
	cmd.Flags().Float64Var(&height, "height", config.DefaultContainerHeight, "target container height in pm")
	cmd.Flags().Float64Var(&epsilon, "epsilon", config.DefaultInteractionStrength, "interaction strength in K (user_defined only)")
	cmd.Flags().IntVar(&injectCount, "inject", 0, "molecules to inject during the run")
	cmd.Flags().IntVar(&injectEvery, "inject-every", 30, "ticks between injections")
	cmd.Flags().BoolVar(&validate, "validate", false, "fail on non-finite molecule state")
}

// loadConfig layers the preset, the config file and explicitly set flags,
// in that order, over the defaults.
func loadConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if len(args) > 0 {
		cfg.Species = args[0]
	}

	if preset != "" {
		p := config.GetPreset(cfg.Species, preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(cfg.Species))
		}
		cfg = p
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
		if len(args) > 0 {
			cfg.Species = args[0]
		}
	}

	flags := cmd.Flags()
	if flags.Changed("phase") {
		cfg.Phase = phaseName
	}
	if flags.Changed("thermostat") {
		cfg.Thermostat = thermostat
	}
	if flags.Changed("ticks") {
		cfg.Ticks = ticks
	}
	if flags.Changed("sample-every") {
		cfg.SampleEvery = sampleEvery
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("molecules") {
		cfg.Molecules = molecules
	}
	if flags.Changed("temperature") {
		cfg.Environment.Temperature = temperature
	}
	if flags.Changed("gravity") {
		cfg.Environment.Gravity = gravity
	}
	if flags.Changed("heating") {
		cfg.Environment.HeatingCooling = heating
	}
	if flags.Changed("height") {
		cfg.Environment.ContainerHeight = height
	}
	if flags.Changed("epsilon") {
		cfg.Environment.InteractionStrength = epsilon
	}
	if flags.Changed("inject") {
		cfg.Injection.Count = injectCount
	}
	if flags.Changed("inject-every") {
		cfg.Injection.EveryTicks = injectEvery
	}
	if flags.Changed("validate") {
		cfg.ValidateState = validate
	}

	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	return cfg, cfg.Validate()
}

func logEvents(c *sim.Controller, logger *Logger) {
	c.Subscribe(func(e sim.Event) {
		switch e.Kind {
		case sim.TemperatureChanged:
			logger.Debugf("tick %d: set point %.4f", e.Tick, e.Temperature)
		default:
			logger.Infof("tick %d: %s (%s, %s)", e.Tick, e.Kind, e.Species, e.Phase)
		}
	})
}

func runSimulation(cmd *cobra.Command, args []string) error {
	logger := NewLogger(logLevel)
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	exp, err := experiment.New(cfg, logger)
	if err != nil {
		return err
	}
	logEvents(exp.Controller(), logger)
	for _, m := range experiment.NewRegistry().DefaultMetrics() {
		exp.AddMetric(m)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("running %s (%s, %d molecules) for %d ticks...\n",
		cfg.Species, cfg.Phase, exp.Controller().MoleculeCount(), cfg.Ticks)
	start := time.Now()

	result, runErr := exp.Run(ctx)
	if result == nil {
		return runErr
	}
	if runErr != nil {
		logger.Warnf("%v, saving partial run", runErr)
	}
	elapsed := time.Since(start)

	runID, err := st.Save(cfg, result)
	if err != nil {
		return err
	}

	if svgFile != "" {
		if err := os.WriteFile(svgFile, []byte(export.SnapshotToSVG(result.Final, svgScale)), 0644); err != nil {
			return err
		}
		logger.Infof("wrote %s", svgFile)
	}

	if printJSON {
		return st.ExportJSON(os.Stdout, runID)
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("samples: %d\n", len(result.Samples))
	if result.Final.Exploded {
		fmt.Println("container exploded")
	}
	fmt.Println("\nmetrics:")
	names := make([]string, 0, len(result.Metrics))
	for name := range result.Metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("  %s: %.6f\n", name, result.Metrics[name])
	}

	return runErr
}

func watchSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	exp, err := experiment.New(cfg, nil)
	if err != nil {
		return err
	}

	p := tea.NewProgram(viz.NewModel(exp.Controller()), tea.WithAltScreen())
	_, err = p.Run()
	return err
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
	fmt.Fprintln(w, "ID\tSPECIES\tPHASE\tTIME\tTICKS\tMOLECULES\tEXPLODED")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%d\t%t\n",
			run.ID,
			run.Species,
			run.Phase,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Ticks,
			run.Molecules,
			run.Exploded,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	samples, err := st.LoadSamples(runID)
	if err != nil {
		return err
	}
	if len(samples) < 2 {
		return fmt.Errorf("not enough samples to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("species: %s\n", meta.Species)
	fmt.Printf("samples: %d\n\n", len(samples))

	if svgFile != "" {
		temps := make([]float64, len(samples))
		for i, s := range samples {
			temps[i] = s.TemperatureK
		}
		if err := os.WriteFile(svgFile, []byte(export.SeriesToSVG(temps, 800, 300, "#00ff88")), 0644); err != nil {
			return err
		}
	}

	series := []struct {
		caption string
		value   func(experiment.Sample) float64
	}{
		{"temperature (K)", func(s experiment.Sample) float64 { return s.TemperatureK }},
		{"pressure (atm)", func(s experiment.Sample) float64 { return s.PressureAtm }},
		{"container height (pm)", func(s experiment.Sample) float64 { return s.HeightPM }},
		{"total energy", func(s experiment.Sample) float64 { return s.TotalEnergy }},
	}

	for _, ser := range series {
		data := make([]float64, len(samples))
		for i, s := range samples {
			data[i] = ser.value(s)
		}
		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(ser.caption),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	if outFile != "" {
		return st.ExportJSONFile(outFile, args[0])
	}
	return st.ExportJSON(os.Stdout, args[0])
}

func listPresets(cmd *cobra.Command, args []string) error {
	species := make([]string, 0, len(config.Presets))
	if len(args) > 0 {
		species = append(species, args[0])
	} else {
		for name := range config.Presets {
			species = append(species, name)
		}
		sort.Strings(species)
	}

	for _, s := range species {
		presets := config.ListPresets(s)
		if len(presets) == 0 {
			fmt.Printf("no presets for species: %s\n", s)
			continue
		}
		fmt.Printf("presets for %s:\n", s)
		for _, p := range presets {
			fmt.Printf("  %s\n", p)
		}
	}
	return nil
}

func benchSpecies(cmd *cobra.Command, args []string) error {
	species := dynamo.AllSpecies()
	if len(args) > 0 {
		s, err := dynamo.ParseSpecies(args[0])
		if err != nil {
			return err
		}
		species = []dynamo.Species{s}
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SPECIES\tPHASE\tMOLECULES\tTICKS\tTIME\tTICKS/SEC")

	for _, s := range species {
		for _, p := range []dynamo.Phase{dynamo.Solid, dynamo.Gas} {
			c, err := sim.New(sim.Options{Species: s, Seed: 42})
			if err != nil {
				return err
			}
			if err := c.SetPhase(p); err != nil {
				return err
			}

			start := time.Now()
			if err := c.RunTicks(context.Background(), benchTicks, nil); err != nil {
				return err
			}
			elapsed := time.Since(start)

			fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%v\t%.0f\n",
				s, p, c.MoleculeCount(), benchTicks, elapsed, float64(benchTicks)/elapsed.Seconds())
		}
	}

	return w.Flush()
}

func runEnsemble(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	species, _ := cfg.SpeciesKind()
	kind, _ := cfg.ThermostatKind()
	logger := NewLogger(logLevel)
	if cfg.Injection.Count > 0 {
		logger.Warnf("injection is not supported for ensembles and is ignored")
	}

	opts := sim.Options{
		Species:          species,
		Thermostat:       kind,
		Logger:           logger,
		InitialMolecules: cfg.Molecules,
		ValidateState:    cfg.ValidateState,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	start := time.Now()
	ens := sim.NewEnsemble(opts, runs, cfg.Seed)
	ens.Prepare(func(c *sim.Controller) error { return experiment.Configure(c, cfg) })
	results, err := ens.Run(ctx, cfg.Ticks, nil)
	if err != nil {
		return err
	}

	fmt.Printf("%d runs of %s in %v\n\n", runs, cfg.Species, time.Since(start))
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SEED\tTEMP (K)\tPRESSURE (atm)\tENERGY\tEXPLODED")
	for i, s := range results {
		fmt.Fprintf(w, "%d\t%.2f\t%.3f\t%.3f\t%t\n",
			cfg.Seed+int64(i),
			sim.ToKelvin(s.Species, s.Temperature),
			s.PressureAtm,
			s.TotalEnergy(),
			s.Exploded,
		)
	}
	return w.Flush()
}

const svgScale = 12

func runScenario(cmd *cobra.Command, args []string) error {
	logger := NewLogger(logLevel)
	scenario, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}
	c, err := scenario.NewController(logger)
	if err != nil {
		return err
	}
	logEvents(c, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if scenario.Description != "" {
		fmt.Println(scenario.Description)
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tLABEL\tTICK\tSPECIES\tPHASE\tTEMP (K)\tPRESSURE (atm)\tMOLECULES\tEXPLODED")
	_, err = automation.RunScenario(ctx, c, scenario, func(r automation.StepResult) {
		s := r.Snapshot
		fmt.Fprintf(w, "%d\t%s\t%d\t%s\t%s\t%.2f\t%.3f\t%d\t%t\n",
			r.Index, r.Label, s.Tick, s.Species, s.Phase,
			sim.ToKelvin(s.Species, s.Temperature), s.PressureAtm, s.Molecules, s.Exploded)
	})
	if flushErr := w.Flush(); err == nil {
		err = flushErr
	}
	return err
}

func runSweep(cmd *cobra.Command, args []string) error {
	logger := NewLogger(logLevel)
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	registry := experiment.NewRegistry()
	if _, err := registry.GetMetric(sweepMetric); err != nil {
		return err
	}

	grid, err := optim.NewGridSearch([]string{sweepParam}, [][]float64{optim.Linspace(sweepMin, sweepMax, sweepSteps)})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	eval := func(ctx context.Context, cfg *config.Config) (float64, error) {
		exp, err := experiment.New(cfg, logger)
		if err != nil {
			return 0, err
		}
		m, _ := registry.GetMetric(sweepMetric)
		exp.AddMetric(m)
		result, err := exp.Run(ctx)
		if err != nil {
			return 0, err
		}
		return result.Metrics[sweepMetric], nil
	}

	best, value, trials, err := grid.Search(ctx, cfg, eval)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\t%s\n", strings.ToUpper(sweepParam), strings.ToUpper(sweepMetric))
	for _, t := range trials {
		if t.Err != nil {
			fmt.Fprintf(w, "%.4f\terror: %v\n", t.Params[sweepParam], t.Err)
			continue
		}
		fmt.Fprintf(w, "%.4f\t%.6f\n", t.Params[sweepParam], t.Value)
	}
	if flushErr := w.Flush(); flushErr != nil {
		return flushErr
	}
	if err != nil {
		return err
	}

	fmt.Printf("\nbest %s: %.4f (%s %.6f)\n", sweepParam, best[sweepParam], sweepMetric, value)
	return nil
}
