package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/san-kum/chaoslab/internal/automation"
	"github.com/san-kum/chaoslab/internal/export"
	"github.com/san-kum/chaoslab/internal/viz"
)

var (
	sweepMin    float64
	sweepMax    float64
	sweepPoints int

	snapshotOut   string
	snapshotScale float64
	snapshotColor string
)

func addBatchCommands(root *cobra.Command) {
	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run every step of a YAML scenario",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}
	scenarioCmd.Flags().BoolVar(&saveRun, "save", true, "save a summary per step")

	sweepCmd := &cobra.Command{
		Use:   "sweep [model]",
		Short: "measure energy drift across a range of step sizes",
		Args:  cobra.ExactArgs(1),
		RunE:  runSweep,
	}
	addModelFlags(sweepCmd)
	sweepCmd.Flags().Float64Var(&sweepMin, "dt-min", 0.0001, "smallest step size")
	sweepCmd.Flags().Float64Var(&sweepMax, "dt-max", 0.1, "largest step size")
	sweepCmd.Flags().IntVar(&sweepPoints, "points", 7, "number of step sizes")

	snapshotCmd := &cobra.Command{
		Use:   "snapshot [model]",
		Short: "render the final frame of a run as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  runSnapshot,
	}
	addModelFlags(snapshotCmd)
	snapshotCmd.Flags().StringVarP(&snapshotOut, "out", "o", "snapshot.svg", "output file")
	snapshotCmd.Flags().Float64Var(&snapshotScale, "scale", 4, "SVG units per dot")
	snapshotCmd.Flags().StringVar(&snapshotColor, "color", "#00ff88", "dot colour")

	root.AddCommand(scenarioCmd, sweepCmd, snapshotCmd)
}

func runScenario(cmd *cobra.Command, args []string) error {
	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("scenario %s: %d steps\n\n", sc.Name, len(sc.Steps))
	results, runErr := automation.RunScenario(ctx, sc, logger)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tMODEL\tINTEG\tDT\tSTEPS\tDRIFT\tRUN ID\tERROR")
	for _, r := range results {
		runID, errText := "-", "-"
		if r.Err != nil {
			errText = r.Err.Error()
		}
		if r.Result == nil {
			fmt.Fprintf(w, "%s\t%s\t%s\t%g\t-\t-\t%s\t%s\n", r.Name, r.Config.Model, r.Config.Integrator, r.Config.Dt, runID, errText)
			continue
		}
		if saveRun {
			id, err := saveSummary(newSummary(r.Config, r.Result, r.Err))
			if err != nil {
				return errors.Join(runErr, fmt.Errorf("saving %s: %w", r.Name, err))
			}
			runID = id
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%g\t%d\t%.3e\t%s\t%s\n",
			r.Name,
			r.Config.Model,
			r.Config.Integrator,
			r.Config.Dt,
			r.Result.StepsTaken,
			r.Result.EnergyDrift,
			runID,
			errText,
		)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	return runErr
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args[0])
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	sweep := automation.DtSweep{Min: sweepMin, Max: sweepMax, Points: sweepPoints}
	fmt.Printf("sweeping %s with %s over %gs\n\n", cfg.Model, cfg.Integrator, cfg.Duration)
	points, sweepErr := automation.RunDtSweep(ctx, cfg, sweep, logger)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DT\tSTEPS\tDRIFT\tMAX DEVIATION\tERROR")
	for _, p := range points {
		if p.Result == nil {
			fmt.Fprintf(w, "%.4g\t-\t-\t-\t%v\n", p.Dt, p.Err)
			continue
		}
		errText := "-"
		if p.Err != nil {
			errText = p.Err.Error()
		}
		fmt.Fprintf(w, "%.4g\t%d\t%.3e\t%.3e\t%s\n",
			p.Dt,
			p.Result.StepsTaken,
			p.Result.EnergyDrift,
			p.Result.Metrics["energy_deviation"],
			errText,
		)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	return sweepErr
}

func runSnapshot(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args[0])
	if err != nil {
		return err
	}
	scene, err := viz.NewScene(cfg)
	if err != nil {
		return err
	}

	canvas, err := export.Snapshot(scene, cfg.Dt, cfg.Duration, 80, 40)
	if err != nil {
		return err
	}
	if err := os.WriteFile(snapshotOut, []byte(export.CanvasToSVG(canvas, snapshotScale, snapshotColor)), 0644); err != nil {
		return err
	}
	logger.Info("snapshot written", zap.String("path", snapshotOut), zap.Float64("t", cfg.Duration))
	fmt.Printf("wrote %s\n", snapshotOut)
	return nil
}
