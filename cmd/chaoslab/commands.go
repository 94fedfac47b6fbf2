package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"slices"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/san-kum/chaoslab/internal/analysis"
	"github.com/san-kum/chaoslab/internal/config"
	"github.com/san-kum/chaoslab/internal/experiment"
	"github.com/san-kum/chaoslab/internal/export"
	"github.com/san-kum/chaoslab/internal/integrators"
	"github.com/san-kum/chaoslab/internal/logging"
	"github.com/san-kum/chaoslab/internal/sim"
	"github.com/san-kum/chaoslab/internal/storage"
	"github.com/san-kum/chaoslab/internal/viz"
)

// lyapunovOffset is the initial separation of the perturbed trajectory.
const lyapunovOffset = 1e-8

// loadConfig resolves the config for the command and, unless the log flags
// were given, switches the logger to the config's log settings.
func loadConfig(cmd *cobra.Command, model string) (*config.Config, error) {
	cfg, err := resolveConfig(cmd, model)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if !flags.Changed("log-level") && !flags.Changed("log-format") {
		l, err := logging.New(cfg.Log.Level, cfg.Log.Format)
		if err != nil {
			return nil, err
		}
		logger = l
	}
	return cfg, nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args[0])
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	exp := experiment.New(cfg, nil, logger)

	fmt.Printf("running %s with %s...\n", cfg.Model, cfg.Integrator)
	start := time.Now()

	result, runErr := exp.Run(ctx, phasePlot)
	if result == nil {
		return runErr
	}
	elapsed := time.Since(start)

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("steps: %d\n", result.StepsTaken)
	fmt.Printf("energy: %.6g -> %.6g (drift %.3e)\n", result.InitialEnergy, result.FinalEnergy, result.EnergyDrift)

	fmt.Println("\nmetrics:")
	names := make([]string, 0, len(result.Metrics))
	for name := range result.Metrics {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		fmt.Printf("  %s: %.6g\n", name, result.Metrics[name])
	}

	if len(result.Energies) > 1 {
		fmt.Println()
		fmt.Println(asciigraph.Plot(result.Energies,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption("total energy"),
		))
	}

	if plotFile != "" && len(result.Energies) > 1 {
		title := fmt.Sprintf("%s / %s, dt=%g", cfg.Model, cfg.Integrator, cfg.Dt)
		if err := export.EnergyPlot(result.Times, result.Energies, title, plotFile); err != nil {
			return err
		}
		fmt.Printf("\nenergy plot: %s\n", plotFile)
	}

	summary := newSummary(cfg, result, runErr)
	if runErr == nil {
		if period, err := analysis.DominantPeriod(result.Energies, cfg.Dt); err == nil {
			summary.DominantPeriod = storage.Float(period)
			fmt.Printf("\ndominant energy period: %.4f s\n", period)
		} else {
			logger.Debug("no dominant period", zap.Error(err))
		}

		if phasePlot {
			portrait, err := analysis.NewPhasePortrait(result.States, xAxis, yAxis)
			if err != nil {
				return err
			}
			fmt.Printf("\nphase portrait (x%d vs x%d):\n%s", xAxis, yAxis, portrait.ASCII(80, 24))
		}

		if lyapunov {
			lambda, err := estimateLyapunov(cfg)
			if err != nil {
				return err
			}
			fmt.Printf("\nlargest lyapunov exponent: %.4f 1/s\n", lambda)
		}
	}

	if saveRun {
		return recordRun(summary, runErr)
	}
	return runErr
}

// recordRun saves the summary of a finished or failed run. A save failure
// is joined to the run error rather than replacing it.
func recordRun(summary storage.RunSummary, runErr error) error {
	runID, err := saveSummary(summary)
	if err != nil {
		return errors.Join(runErr, fmt.Errorf("saving run: %w", err))
	}
	fmt.Printf("\nrun id: %s\n", runID)
	return runErr
}

func newSummary(cfg *config.Config, result *sim.Result, runErr error) storage.RunSummary {
	summary := storage.RunSummary{
		Model:         cfg.Model,
		Seed:          cfg.Seed,
		Dt:            cfg.Dt,
		Duration:      cfg.Duration,
		Integrator:    cfg.Integrator.String(),
		Params:        storage.Floats(summaryParams(cfg)),
		Metrics:       storage.Floats(result.Metrics),
		StepsTaken:    result.StepsTaken,
		InitialEnergy: storage.Float(result.InitialEnergy),
		FinalEnergy:   storage.Float(result.FinalEnergy),
		EnergyDrift:   storage.Float(result.EnergyDrift),
	}
	if runErr != nil {
		summary.Error = runErr.Error()
	}
	return summary
}

func saveSummary(summary storage.RunSummary) (string, error) {
	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return "", err
	}
	return st.Save(summary)
}

func summaryParams(cfg *config.Config) map[string]float64 {
	if cfg.Model == config.ModelNBody {
		n := cfg.NBody
		return map[string]float64{
			"bodies":           float64(n.Bodies),
			"softening":        n.Softening,
			"barnes_hut_theta": n.BarnesHutTheta,
			"mass_scale":       n.MassScale,
		}
	}
	p := cfg.Pendulum
	return map[string]float64{
		"m1": p.M1, "m2": p.M2, "l1": p.L1, "l2": p.L2,
		"theta1": p.Theta1, "theta2": p.Theta2,
		"omega1": p.Omega1, "omega2": p.Omega2,
	}
}

// estimateLyapunov runs a second trajectory offset by lyapunovOffset in the
// first coordinate and fits the growth of the separation.
func estimateLyapunov(cfg *config.Config) (float64, error) {
	perturbed := *cfg
	switch cfg.Model {
	case config.ModelDoublePendulum:
		perturbed.Pendulum.Theta1 += lyapunovOffset
	default:
		return 0, fmt.Errorf("lyapunov estimate is only available for %s", config.ModelDoublePendulum)
	}

	registry := experiment.NewRegistry()
	ref, err := registry.Build(cfg)
	if err != nil {
		return 0, err
	}
	other, err := registry.Build(&perturbed)
	if err != nil {
		return 0, err
	}
	return analysis.LyapunovExponent(ref, other, lyapunovOffset, cfg.Dt, cfg.Duration)
}

func compareIntegrators(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args[0])
	if err != nil {
		return err
	}

	methods := integrators.Methods()
	if len(args) > 1 {
		methods = make([]integrators.Method, 0, len(args)-1)
		for _, name := range args[1:] {
			m, err := integrators.ParseMethod(name)
			if err != nil {
				return err
			}
			methods = append(methods, m)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("comparing %d methods on %s (dt=%g, %gs)\n\n", len(methods), cfg.Model, cfg.Dt, cfg.Duration)
	results, cmpErr := experiment.New(cfg, nil, logger).Compare(ctx, methods)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "METHOD\tSTEPS\tINITIAL E\tFINAL E\tDRIFT\tMAX DEVIATION")
	for i, res := range results {
		if res == nil {
			fmt.Fprintf(w, "%s\t-\t-\t-\t-\t-\n", methods[i])
			continue
		}
		fmt.Fprintf(w, "%s\t%d\t%.6g\t%.6g\t%.3e\t%.3e\n",
			methods[i],
			res.StepsTaken,
			res.InitialEnergy,
			res.FinalEnergy,
			res.EnergyDrift,
			res.Metrics["energy_deviation"],
		)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	return cmpErr
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args[0])
	if err != nil {
		return err
	}
	scene, err := viz.NewScene(cfg)
	if err != nil {
		return err
	}
	logger.Debug("starting live view", zap.String("model", cfg.Model), zap.Stringer("integrator", cfg.Integrator))
	return viz.Run(scene, cfg.Dt, viz.GetTheme(theme))
}

func listPresets(cmd *cobra.Command, args []string) error {
	models := config.Models()
	if len(args) == 1 {
		models = args[:1]
	}
	for _, model := range models {
		presets := config.ListPresets(model)
		if len(presets) == 0 {
			fmt.Printf("no presets for model: %s\n", model)
			continue
		}
		fmt.Printf("presets for %s:\n", model)
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		for _, name := range presets {
			p := config.GetPreset(model, name)
			fmt.Fprintf(w, "  %s\t%s\tdt=%g\t%gs\n", name, p.Integrator, p.Dt, p.Duration)
		}
		if err := w.Flush(); err != nil {
			return err
		}
	}
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
	fmt.Fprintln(w, "ID\tMODEL\tTIME\tDURATION\tDT\tINTEG\tDRIFT")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2fs\t%.4fs\t%s\t%.3e\n",
			run.ID,
			run.Model,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Dt,
			run.Integrator,
			run.EnergyDrift,
		)
	}
	return w.Flush()
}

func showRun(cmd *cobra.Command, args []string) error {
	meta, err := storage.New(dataDir).Load(args[0])
	if err != nil {
		if errors.Is(err, storage.ErrRunNotFound) {
			return fmt.Errorf("%w (see `chaoslab list`)", err)
		}
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}
