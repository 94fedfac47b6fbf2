package automation

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/chaoslab/internal/config"
	"github.com/san-kum/chaoslab/internal/dynamo"
	"github.com/san-kum/chaoslab/internal/experiment"
	"github.com/san-kum/chaoslab/internal/sim"
)

// DtSweep spaces Points step sizes logarithmically from Min to Max.
type DtSweep struct {
	Min, Max float64
	Points   int
}

func (s DtSweep) Validate() error {
	if !(s.Min > 0) || !(s.Max >= s.Min) {
		return fmt.Errorf("%w: need 0 < min <= max (min=%g, max=%g)", dynamo.ErrParameterBounds, s.Min, s.Max)
	}
	if s.Points < 1 {
		return fmt.Errorf("%w: need at least one point, got %d", dynamo.ErrParameterBounds, s.Points)
	}
	return nil
}

func (s DtSweep) Steps() []float64 {
	if s.Points == 1 {
		return []float64{s.Min}
	}
	return floats.LogSpan(make([]float64, s.Points), s.Min, s.Max)
}

type SweepPoint struct {
	Dt     float64
	Result *sim.Result
	Err    error
}

// RunDtSweep runs cfg once per step size of the sweep, smallest first.
// Failed runs are kept in their SweepPoint; only cancellation stops the
// sweep.
func RunDtSweep(ctx context.Context, cfg *config.Config, sweep DtSweep, logger *zap.Logger) ([]SweepPoint, error) {
	if err := sweep.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	points := make([]SweepPoint, 0, sweep.Points)
	for _, dt := range sweep.Steps() {
		run := *cfg
		run.Dt = dt

		logger.Debug("sweep point", zap.Float64("dt", dt))
		res, err := experiment.New(&run, nil, logger.With(zap.Float64("dt", dt))).Run(ctx, false)
		points = append(points, SweepPoint{Dt: dt, Result: res, Err: err})

		if errors.Is(err, dynamo.ErrContextCanceled) {
			return points, err
		}
	}
	return points, nil
}
