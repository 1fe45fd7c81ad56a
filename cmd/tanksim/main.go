package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/thermlab/tanksim/internal/analysis"
	"github.com/thermlab/tanksim/internal/config"
	"github.com/thermlab/tanksim/internal/solver"
	"github.com/thermlab/tanksim/internal/storage"
	"github.com/thermlab/tanksim/internal/sweep"
	"github.com/thermlab/tanksim/internal/tank"
	"github.com/thermlab/tanksim/internal/viz"
)

var (
	dataDir    string
	configFile string
	preset     string
	verbose    bool

	// run overrides
	nodes   int
	height  float64
	volume  float64
	uaLoss  float64
	kCond   float64
	dt      float64
	horizon float64
	chart   bool
	noSave  bool

	// sweep
	sweepParams []string
	sweepMetric string

	// live
	speed float64

	log zerolog.Logger
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "tanksim",
		Short: "1D multi-node stratified thermal storage tank simulator",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := zerolog.InfoLevel
			if verbose {
				level = zerolog.DebugLevel
			}
			log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
				Level(level).With().Timestamp().Logger()
		},
	}
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".tanksim", "data directory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a scenario",
		RunE:  runScenario,
	}
	runCmd.Flags().StringVar(&configFile, "config", "", "scenario file (yaml)")
	runCmd.Flags().StringVar(&preset, "preset", "full-charge", "preset scenario")
	runCmd.Flags().IntVar(&nodes, "nodes", 0, "override node count")
	runCmd.Flags().Float64Var(&height, "height", 0, "override tank height [m]")
	runCmd.Flags().Float64Var(&volume, "volume", 0, "override tank volume [m3]")
	runCmd.Flags().Float64Var(&uaLoss, "ua", -1, "override wall loss [W/K]")
	runCmd.Flags().Float64Var(&kCond, "kcond", -1, "override axial conduction [W/mK]")
	runCmd.Flags().Float64Var(&dt, "dt", 0, "override requested step [s]")
	runCmd.Flags().Float64Var(&horizon, "time", 0, "override horizon [s]")
	runCmd.Flags().BoolVar(&chart, "chart", false, "print ascii charts")
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "skip saving the run")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list preset scenarios",
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range config.ListPresets() {
				fmt.Println(name)
			}
		},
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export a stored run as json",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "grid sweep over tank parameters",
		RunE:  runSweep,
	}
	sweepCmd.Flags().StringVar(&configFile, "config", "", "base scenario file (yaml)")
	sweepCmd.Flags().StringVar(&preset, "preset", "charge-idle-discharge", "base preset scenario")
	sweepCmd.Flags().StringArrayVar(&sweepParams, "param", nil,
		"swept parameter, e.g. --param k_cond=0.05,0.1,0.2 (k_cond, ua_loss, nodes, dt)")
	sweepCmd.Flags().StringVar(&sweepMetric, "metric", "loss_integral", "ranking metric")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run with live terminal view",
		RunE:  runLive,
	}
	liveCmd.Flags().StringVar(&configFile, "config", "", "scenario file (yaml)")
	liveCmd.Flags().StringVar(&preset, "preset", "charge-idle-discharge", "preset scenario")
	liveCmd.Flags().Float64Var(&speed, "speed", 60, "simulated seconds per wall second")

	rootCmd.AddCommand(runCmd, presetsCmd, listCmd, plotCmd, exportCmd, sweepCmd, liveCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadScenario(cmd *cobra.Command) (*config.Scenario, error) {
	var sc *config.Scenario
	if configFile != "" {
		var err error
		sc, err = config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("load scenario: %w", err)
		}
	} else {
		sc = config.GetPreset(preset)
		if sc == nil {
			return nil, fmt.Errorf("unknown preset %q (available: %v)", preset, config.ListPresets())
		}
	}

	if cmd.Flags().Changed("nodes") {
		sc.Tank.Nodes = nodes
	}
	if cmd.Flags().Changed("height") {
		sc.Tank.Height = height
	}
	if cmd.Flags().Changed("volume") {
		sc.Tank.Volume = volume
	}
	if cmd.Flags().Changed("ua") {
		sc.Tank.UALoss = uaLoss
	}
	if cmd.Flags().Changed("kcond") {
		sc.Tank.KCond = kCond
	}
	if cmd.Flags().Changed("dt") {
		sc.Numerics.Dt = dt
	}
	if cmd.Flags().Changed("time") {
		sc.Numerics.Horizon = horizon
	}
	return sc, nil
}

func buildRun(sc *config.Scenario) (*sweep.Setup, error) {
	cfg, err := sc.Config()
	if err != nil {
		return nil, err
	}
	sched, err := sc.Schedule()
	if err != nil {
		return nil, err
	}
	initial, err := sc.Profile()
	if err != nil {
		return nil, err
	}
	return &sweep.Setup{
		Config:   cfg,
		Schedule: sched,
		Initial:  initial,
		Run:      sc.Run(),
		Metrics: []solver.Metric{
			analysis.NewEnergyContent(cfg, sc.Ambient),
			analysis.NewLossIntegral(cfg),
			analysis.NewPeakTemperature(),
		},
	}, nil
}

func runScenario(cmd *cobra.Command, args []string) error {
	sc, err := loadScenario(cmd)
	if err != nil {
		return err
	}
	setup, err := buildRun(sc)
	if err != nil {
		return err
	}

	log.Info().Str("scenario", sc.Name).
		Int("nodes", setup.Config.Nodes).
		Float64("horizon", setup.Run.Horizon).
		Msg("running")

	s := solver.New(setup.Config)
	for _, m := range setup.Metrics {
		s.AddMetric(m)
	}

	res, err := s.Run(context.Background(), setup.Schedule, setup.Initial, setup.Run)
	if err != nil {
		return err
	}

	final := res.Field[len(res.Field)-1]
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "steps\t%d\n", res.StepsTaken)
	fmt.Fprintf(w, "elapsed\t%v\n", res.Elapsed)
	fmt.Fprintf(w, "final top\t%.2f\n", res.Top[len(res.Top)-1])
	fmt.Fprintf(w, "final bottom\t%.2f\n", res.Bottom[len(res.Bottom)-1])
	fmt.Fprintf(w, "mean\t%.2f\n", analysis.Mean(final))
	fmt.Fprintf(w, "thermocline node\t%d\n", analysis.Thermocline(final))
	for name, val := range res.Metrics {
		fmt.Fprintf(w, "%s\t%.4g\n", name, val)
	}
	w.Flush()

	if chart {
		fmt.Println()
		fmt.Println(viz.TopBottomChart(res.Top, res.Bottom, 80, 10))
		fmt.Println()
		fmt.Println(viz.ProfileChart(final, 80, 10, "final"))
		fmt.Println()
		fmt.Println(viz.HeatLossChart(res.HeatLoss, 80, 8))
		fmt.Println()
		fmt.Println(viz.Heatmap(res.Field, 80))
	}

	if !noSave {
		st := storage.New(dataDir, log)
		if err := st.Init(); err != nil {
			return err
		}
		runID, err := st.Save(sc.Name, setup.Config, setup.Run, res)
		if err != nil {
			return err
		}
		fmt.Printf("run id: %s\n", runID)
	}
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir, log)
	runs, err := st.List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSCENARIO\tTIME\tNODES\tHORIZON\tSTEPS")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%.0fs\t%d\n",
			run.ID,
			run.Scenario,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Nodes,
			run.Horizon,
			run.Steps,
		)
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir, log)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	_, field, err := st.LoadField(args[0])
	if err != nil {
		return err
	}
	if len(field) == 0 {
		return fmt.Errorf("run %s has no field data", args[0])
	}

	top := make([]float64, len(field))
	bottom := make([]float64, len(field))
	for i, row := range field {
		bottom[i] = row[0]
		top[i] = row[len(row)-1]
	}

	fmt.Printf("run: %s (%s), %d rows\n\n", meta.ID, meta.Scenario, len(field))
	fmt.Println(viz.TopBottomChart(top, bottom, 80, 10))
	fmt.Println()
	fmt.Println(viz.ProfileChart(field[len(field)-1], 80, 10, "final"))
	fmt.Println()
	fmt.Println(viz.Heatmap(field, 80))
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir, log)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	times, field, err := st.LoadField(args[0])
	if err != nil {
		return err
	}

	out := struct {
		Meta  *storage.RunMetadata `json:"meta"`
		Times []float64            `json:"times"`
		Field []tank.Profile       `json:"field"`
	}{meta, times, field}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func runSweep(cmd *cobra.Command, args []string) error {
	base, err := loadScenario(cmd)
	if err != nil {
		return err
	}
	axes, err := parseAxes(sweepParams)
	if err != nil {
		return err
	}
	if len(axes) == 0 {
		return fmt.Errorf("no swept parameters, use --param name=v1,v2,...")
	}

	runner := &sweep.Runner{
		Metric: sweepMetric,
		Build: func(pt sweep.Point) (*sweep.Setup, error) {
			sc := *base
			for name, val := range pt {
				switch name {
				case "k_cond":
					sc.Tank.KCond = val
				case "ua_loss":
					sc.Tank.UALoss = val
				case "nodes":
					sc.Tank.Nodes = int(val)
				case "dt":
					sc.Numerics.Dt = val
				default:
					return nil, fmt.Errorf("unknown sweep parameter %q", name)
				}
			}
			return buildRun(&sc)
		},
	}

	points := sweep.Grid(axes)
	log.Info().Int("points", len(points)).Str("metric", sweepMetric).Msg("sweeping")

	outcomes, err := runner.Run(context.Background(), points)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "POINT\t%s\n", strings.ToUpper(sweepMetric))
	for _, o := range outcomes {
		parts := make([]string, 0, len(o.Point))
		for name, val := range o.Point {
			parts = append(parts, fmt.Sprintf("%s=%g", name, val))
		}
		fmt.Fprintf(w, "%s\t%.4g\n", strings.Join(parts, " "), o.Score)
	}
	return w.Flush()
}

func parseAxes(specs []string) ([]sweep.Axis, error) {
	axes := make([]sweep.Axis, 0, len(specs))
	for _, arg := range specs {
		name, list, ok := strings.Cut(arg, "=")
		if !ok {
			return nil, fmt.Errorf("bad --param %q, want name=v1,v2,...", arg)
		}
		var values []float64
		for _, s := range strings.Split(list, ",") {
			v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
			if err != nil {
				return nil, fmt.Errorf("bad value %q in --param %s", s, name)
			}
			values = append(values, v)
		}
		axes = append(axes, sweep.Axis{Name: name, Values: values})
	}
	return axes, nil
}

func runLive(cmd *cobra.Command, args []string) error {
	sc, err := loadScenario(cmd)
	if err != nil {
		return err
	}
	setup, err := buildRun(sc)
	if err != nil {
		return err
	}
	return viz.RunLive(setup.Config, setup.Schedule, setup.Initial, setup.Run, speed)
}
