package integrators

import (
	"math"
	"testing"

	"github.com/san-kum/chaoslab/internal/dynamo"
)

// harmonic is x'' = -x written as a first-order system over (x, v).
func harmonic(x dynamo.State) dynamo.State {
	return dynamo.State{x[1], -x[0]}
}

func harmonicEnergy(x dynamo.State) float64 {
	return 0.5 * (x[0]*x[0] + x[1]*x[1])
}

func TestRK4Accuracy(t *testing.T) {
	x0 := dynamo.State{1.0, 0.0}
	dt := 0.01
	steps := 100

	x := x0
	for i := 0; i < steps; i++ {
		x = RK4Step(harmonic, x, dt)
	}

	expectedX := math.Cos(float64(steps) * dt)
	expectedV := -math.Sin(float64(steps) * dt)

	if math.Abs(x[0]-expectedX) > 1e-4 {
		t.Errorf("position error too large: got %.6f, expected %.6f", x[0], expectedX)
	}

	if math.Abs(x[1]-expectedV) > 1e-4 {
		t.Errorf("velocity error too large: got %.6f, expected %.6f", x[1], expectedV)
	}
}

func TestRK4_DoesNotMutateInput(t *testing.T) {
	x0 := dynamo.State{1.0, 0.0}
	_ = RK4Step(harmonic, x0, 0.1)
	_ = RK38Step(harmonic, x0, 0.1)
	_ = EulerStep(harmonic, x0, 0.1)

	if x0[0] != 1.0 || x0[1] != 0.0 {
		t.Errorf("input state mutated: %v", x0)
	}
}

func TestRungeKutta_FourthOrderConvergence(t *testing.T) {
	tests := []struct {
		name string
		step func(Derivative[dynamo.State], dynamo.State, float64) dynamo.State
	}{
		{"rk4", RK4Step[dynamo.State]},
		{"rk38", RK38Step[dynamo.State]},
	}

	errAt := func(step func(Derivative[dynamo.State], dynamo.State, float64) dynamo.State, h float64) float64 {
		x := dynamo.State{1.0, 0.0}
		n := int(math.Round(1.0 / h))
		for i := 0; i < n; i++ {
			x = step(harmonic, x, h)
		}
		return math.Abs(x[0] - math.Cos(1.0))
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			coarse := errAt(tt.step, 0.1)
			fine := errAt(tt.step, 0.05)
			ratio := coarse / fine
			if ratio < 10 {
				t.Errorf("halving h reduced error by %.2f, want ~16", ratio)
			}
		})
	}
}

func TestEuler_EnergyGrows(t *testing.T) {
	x := dynamo.State{1.0, 0.0}
	e0 := harmonicEnergy(x)
	prev := e0

	for i := 0; i < 10000; i++ {
		x = EulerStep(harmonic, x, 0.01)
		e := harmonicEnergy(x)
		if e < prev {
			t.Fatalf("explicit Euler energy decreased at step %d: %e < %e", i, e, prev)
		}
		prev = e
	}

	if drift := (prev - e0) / e0; drift < 1.0 {
		t.Errorf("expected large upward drift, got %e", drift)
	}
}

func TestSemiImplicitEuler_EnergyBounded(t *testing.T) {
	acc := func(pos, vel dynamo.State) dynamo.State {
		return dynamo.State{-pos[0]}
	}

	pos, vel := dynamo.State{1.0}, dynamo.State{0.0}
	e0 := 0.5 * (pos[0]*pos[0] + vel[0]*vel[0])
	maxDrift := 0.0

	for i := 0; i < 10000; i++ {
		pos, vel = SemiImplicitEulerStep(acc, pos, vel, 0.01)
		e := 0.5 * (pos[0]*pos[0] + vel[0]*vel[0])
		maxDrift = math.Max(maxDrift, math.Abs(e-e0)/e0)
	}

	if maxDrift > 0.01 {
		t.Errorf("semi-implicit Euler energy drift too high: %e", maxDrift)
	}
}

func TestSemiImplicitEuler_UsesNewVelocity(t *testing.T) {
	acc := func(pos, vel dynamo.State) dynamo.State {
		return dynamo.State{2.0}
	}

	pos, vel := SemiImplicitEulerStep(acc, dynamo.State{0}, dynamo.State{1}, 0.5)

	if vel[0] != 2.0 {
		t.Errorf("velocity = %v, want 2", vel[0])
	}
	if pos[0] != 1.0 {
		t.Errorf("position = %v, want 1 (moved with the updated velocity)", pos[0])
	}
}
