package analysis

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/chaoslab/internal/dynamo"
)

// Trajectory is a model that can be stepped and observed.
type Trajectory interface {
	Step(h float64) error
	Observables() dynamo.State
}

// LyapunovExponent estimates the largest Lyapunov exponent from two
// trajectories whose initial observables differ by d0. Both are stepped
// together and ln(separation) is fitted against time until the separation
// saturates at one unit or the duration ends. Both trajectories are
// consumed.
func LyapunovExponent(ref, perturbed Trajectory, d0, dt, duration float64) (float64, error) {
	if !(d0 > 0) || !(dt > 0) || !(duration > 0) {
		return 0, fmt.Errorf("%w: d0, dt and duration must be positive", dynamo.ErrParameterBounds)
	}

	a, b := ref.Observables(), perturbed.Observables()
	if len(a) != len(b) {
		return 0, fmt.Errorf("%w: %d vs %d observables", dynamo.ErrDimensionMismatch, len(a), len(b))
	}

	times := []float64{0}
	logs := []float64{math.Log(d0)}

	for t := 0.0; t < duration; t += dt {
		if err := ref.Step(dt); err != nil {
			return 0, err
		}
		if err := perturbed.Step(dt); err != nil {
			return 0, err
		}

		sep, err := ref.Observables().Distance(perturbed.Observables())
		if err != nil {
			return 0, err
		}
		if math.IsNaN(sep) {
			return 0, dynamo.ErrInvalidState
		}
		if sep >= 1 || sep == 0 {
			break
		}
		times = append(times, t+dt)
		logs = append(logs, math.Log(sep))
	}

	if len(times) < 3 {
		return 0, errors.New("trajectories saturated before a rate could be fitted")
	}

	_, slope := stat.LinearRegression(times, logs, nil, false)
	return slope, nil
}
