package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/san-kum/chaoslab/internal/config"
	"github.com/san-kum/chaoslab/internal/dynamo"
	"github.com/san-kum/chaoslab/internal/integrators"
	"github.com/san-kum/chaoslab/internal/logging"
	"github.com/san-kum/chaoslab/internal/viz"
)

var (
	dataDir    string
	logLevel   string
	logFormat  string
	configFile string
	preset     string

	dt         float64
	duration   float64
	seed       int64
	integrator string

	theta1 float64
	theta2 float64
	omega1 float64
	omega2 float64
	m1, m2 float64
	l1, l2 float64

	numBodies int
	softening float64
	bhTheta   float64

	// run output
	saveRun   bool
	lyapunov  bool
	phasePlot bool
	xAxis     int
	yAxis     int
	plotFile  string

	theme string

	logger = zap.NewNop()
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "chaoslab",
		Short:         "double pendulum and n-body integration lab",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			l, err := logging.New(logLevel, logFormat)
			if err != nil {
				return err
			}
			logger = l
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return viz.RunInteractive()
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".chaoslab", "run summary directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", logging.FormatConsole, "log format (console, json)")

	runCmd := &cobra.Command{
		Use:   "run [model]",
		Short: "run a simulation and report its energy behaviour",
		Args:  cobra.ExactArgs(1),
		RunE:  runSimulation,
	}
	addModelFlags(runCmd)
	runCmd.Flags().BoolVar(&saveRun, "save", true, "save a run summary")
	runCmd.Flags().BoolVar(&lyapunov, "lyapunov", false, "estimate the largest Lyapunov exponent")
	runCmd.Flags().BoolVar(&phasePlot, "phase", false, "print a phase portrait")
	runCmd.Flags().IntVar(&xAxis, "x-axis", 0, "observable index for the phase x-axis")
	runCmd.Flags().IntVar(&yAxis, "y-axis", 1, "observable index for the phase y-axis")
	runCmd.Flags().StringVar(&plotFile, "plot", "", "write the energy series as an image (png, svg, pdf)")

	compareCmd := &cobra.Command{
		Use:   "compare [model] [method...]",
		Short: "compare integration methods on the same initial conditions",
		Args:  cobra.MinimumNArgs(1),
		RunE:  compareIntegrators,
	}
	addModelFlags(compareCmd)

	liveCmd := &cobra.Command{
		Use:   "live [model]",
		Short: "run a simulation with live terminal visualization",
		Args:  cobra.ExactArgs(1),
		RunE:  runLive,
	}
	addModelFlags(liveCmd)
	liveCmd.Flags().StringVar(&theme, "theme", viz.ThemeCyberpunk.Name,
		"colour theme ("+strings.Join(viz.ThemeNames(), ", ")+")")

	presetsCmd := &cobra.Command{
		Use:   "presets [model]",
		Short: "list available presets for a model",
		Args:  cobra.MaximumNArgs(1),
		RunE:  listPresets,
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	showCmd := &cobra.Command{
		Use:   "show [run_id]",
		Short: "print a saved run summary",
		Args:  cobra.ExactArgs(1),
		RunE:  showRun,
	}

	rootCmd.AddCommand(runCmd, compareCmd, liveCmd, presetsCmd, listCmd, showCmd)
	addBatchCommands(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		if errors.Is(err, dynamo.ErrUnknownMethod) {
			logger.Fatal("unknown integration method", zap.Error(err))
		}
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func addModelFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&configFile, "config", "", "config file path (yaml)")
	f.StringVar(&preset, "preset", "", "use a preset configuration")

	f.Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	f.Float64Var(&duration, "time", config.DefaultDuration, "duration")
	f.Int64Var(&seed, "seed", 1, "random seed for generated bodies")
	f.StringVar(&integrator, "integrator", integrators.RK4.String(), "integration method")

	f.Float64Var(&theta1, "theta1", config.DefaultTheta, "first arm angle (double_pendulum)")
	f.Float64Var(&theta2, "theta2", config.DefaultTheta, "second arm angle (double_pendulum)")
	f.Float64Var(&omega1, "omega1", 0, "first arm angular velocity (double_pendulum)")
	f.Float64Var(&omega2, "omega2", 0, "second arm angular velocity (double_pendulum)")
	f.Float64Var(&m1, "m1", 1, "first bob mass (double_pendulum)")
	f.Float64Var(&m2, "m2", 1, "second bob mass (double_pendulum)")
	f.Float64Var(&l1, "l1", 1, "first arm length (double_pendulum)")
	f.Float64Var(&l2, "l2", 1, "second arm length (double_pendulum)")

	f.IntVar(&numBodies, "bodies", config.DefaultBodies, "number of bodies (nbody)")
	f.Float64Var(&softening, "softening", config.DefaultSoftening, "softening length (nbody)")
	f.Float64Var(&bhTheta, "bh-theta", 0, "Barnes-Hut opening angle, 0 for direct summation (nbody)")
}

// resolveConfig layers the configuration for model: a preset or config
// file when given, otherwise the defaults, then any flag the user set.
func resolveConfig(cmd *cobra.Command, model string) (*config.Config, error) {
	cfg := config.DefaultConfig()
	switch {
	case preset != "":
		cfg = config.GetPreset(model, preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(model))
		}
	case configFile != "":
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}
	cfg.Model = model

	flags := cmd.Flags()
	if flags.Changed("integrator") {
		m, err := integrators.ParseMethod(integrator)
		if err != nil {
			return nil, err
		}
		cfg.Integrator = m
	}

	floatFlags := map[string]*float64{
		"dt":        &cfg.Dt,
		"time":      &cfg.Duration,
		"theta1":    &cfg.Pendulum.Theta1,
		"theta2":    &cfg.Pendulum.Theta2,
		"omega1":    &cfg.Pendulum.Omega1,
		"omega2":    &cfg.Pendulum.Omega2,
		"m1":        &cfg.Pendulum.M1,
		"m2":        &cfg.Pendulum.M2,
		"l1":        &cfg.Pendulum.L1,
		"l2":        &cfg.Pendulum.L2,
		"softening": &cfg.NBody.Softening,
		"bh-theta":  &cfg.NBody.BarnesHutTheta,
	}
	for name, dst := range floatFlags {
		if flags.Changed(name) {
			v, err := flags.GetFloat64(name)
			if err != nil {
				return nil, err
			}
			*dst = v
		}
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("bodies") {
		cfg.NBody.Bodies = numBodies
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
