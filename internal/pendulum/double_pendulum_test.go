package pendulum

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/chaoslab/internal/dynamo"
	"github.com/san-kum/chaoslab/internal/integrators"
	"github.com/san-kum/chaoslab/internal/vecmath"
	"gonum.org/v1/gonum/floats/scalar"
)

func mustNew(t *testing.T, m1, m2, l1, l2, theta1, theta2 float64) *DoublePendulum {
	t.Helper()
	p, err := New(m1, m2, l1, l2, theta1, theta2)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return p
}

func TestBobCoordinates_Horizontal(t *testing.T) {
	p := mustNew(t, 10, 10, 10, 10, math.Pi/2, math.Pi/2)
	c := p.BobCoordinates()

	want := BobCoordinates{Bob1: vecmath.Vec2{X: 10, Y: 0}, Bob2: vecmath.Vec2{X: 20, Y: 0}}
	got := []float64{c.Bob1.X, c.Bob1.Y, c.Bob2.X, c.Bob2.Y}
	exp := []float64{want.Bob1.X, want.Bob1.Y, want.Bob2.X, want.Bob2.Y}
	for i := range got {
		if !scalar.EqualWithinAbs(got[i], exp[i], 1e-13) {
			t.Errorf("coordinate %d = %v, want %v", i, got[i], exp[i])
		}
	}
}

func TestBobCoordinates_HangingDown(t *testing.T) {
	p := mustNew(t, 1, 2, 3, 4, 0, 0)
	want := BobCoordinates{Bob1: vecmath.Vec2{X: 0, Y: -3}, Bob2: vecmath.Vec2{X: 0, Y: -7}}
	if got := p.BobCoordinates(); got != want {
		t.Errorf("BobCoordinates() = %+v, want %+v", got, want)
	}
}

func TestKineticEnergy_CoupledTerm(t *testing.T) {
	params := Params{M1: 10, M2: 10, L1: 10, L2: 10}
	p, err := NewFromState(params, State{Omega1: 1, Omega2: 1})
	if err != nil {
		t.Fatal(err)
	}

	if ke := p.KineticEnergy(); !scalar.EqualWithinAbs(ke, 2500.0, 1e-13) {
		t.Errorf("KineticEnergy() = %v, want 2500", ke)
	}
}

func TestPotentialEnergy_HangingDown(t *testing.T) {
	p := mustNew(t, 2, 3, 1.5, 0.5, 0, 0)
	want := Gravity * 2 * 0.5
	if pe := p.PotentialEnergy(); !scalar.EqualWithinAbs(pe, want, 1e-12) {
		t.Errorf("PotentialEnergy() = %v, want %v", pe, want)
	}
}

func TestTotalEnergy_IsSum(t *testing.T) {
	params := Params{M1: 1.3, M2: 0.7, L1: 2, L2: 1.1}
	states := []State{
		{},
		{Theta1: 0.4, Omega1: -1.2, Theta2: 2.9, Omega2: 3.3},
		{Theta1: -5.9, Omega1: 0.01, Theta2: 6.1, Omega2: -7},
	}

	for _, s := range states {
		p, err := NewFromState(params, s)
		if err != nil {
			t.Fatal(err)
		}
		if p.TotalEnergy() != p.KineticEnergy()+p.PotentialEnergy() {
			t.Errorf("TotalEnergy() != KE + PE at %+v", s)
		}
	}
}

func TestTotalEnergy_EqualsMaxAtConstruction(t *testing.T) {
	tests := []struct {
		name                     string
		m1, m2, l1, l2, th1, th2 float64
	}{
		{"unit", 1, 1, 1, 1, 0.5, 0.5},
		{"horizontal", 10, 10, 10, 10, math.Pi / 2, math.Pi / 2},
		{"inverted", 2, 0.5, 1, 3, math.Pi, math.Pi},
		{"asymmetric", 0.3, 4, 2.5, 0.2, -1.1, 2.7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := mustNew(t, tt.m1, tt.m2, tt.l1, tt.l2, tt.th1, tt.th2)
			if !scalar.EqualWithinAbs(p.TotalEnergy(), p.PotentialEnergyMax(), 1e-12) {
				t.Errorf("TotalEnergy() = %v, PotentialEnergyMax() = %v", p.TotalEnergy(), p.PotentialEnergyMax())
			}
			if p.KineticEnergy() != 0 {
				t.Errorf("KineticEnergy() = %v at rest", p.KineticEnergy())
			}
		})
	}
}

func TestAccelerations_Balanced(t *testing.T) {
	params := DefaultParams()
	tests := []struct {
		name string
		s    State
	}{
		{"hanging", State{}},
		{"inverted", State{Theta1: math.Pi, Theta2: math.Pi}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a1, a2 := params.Accelerations(tt.s)
			if math.Abs(a1) > 1e-12 || math.Abs(a2) > 1e-12 {
				t.Errorf("accelerations = (%e, %e), want ~0", a1, a2)
			}
		})
	}
}

func TestAccelerations_Symmetry(t *testing.T) {
	params := DefaultParams()

	a1, a2 := params.Accelerations(State{Theta1: 0.1, Theta2: 0.1})
	b1, b2 := params.Accelerations(State{Theta1: -0.1, Theta2: -0.1})

	if math.Abs(a1+b1) > 1e-12 || math.Abs(a2+b2) > 1e-12 {
		t.Errorf("expected mirrored accelerations: (%f, %f) vs (%f, %f)", a1, a2, b1, b2)
	}
	if a1 >= 0 {
		t.Errorf("gravity should pull arm 1 back toward vertical, got a1=%f", a1)
	}
}

func TestAccelerations_IndependentOfStoredState(t *testing.T) {
	probe := State{Theta1: 1.2, Omega1: -0.4, Theta2: -0.3, Omega2: 2.2}

	a := mustNew(t, 1, 2, 1, 1.5, 0, 0)
	b := mustNew(t, 1, 2, 1, 1.5, 2.5, -1)
	if err := b.Update(0, 1, 0.01, integrators.RK4); err != nil {
		t.Fatal(err)
	}

	a1, a2 := a.Params().Accelerations(probe)
	b1, b2 := b.Params().Accelerations(probe)
	if a1 != b1 || a2 != b2 {
		t.Errorf("accelerations depend on stored state: (%v, %v) vs (%v, %v)", a1, a2, b1, b2)
	}
}

func TestNew_InvalidParams(t *testing.T) {
	tests := []struct {
		name           string
		m1, m2, l1, l2 float64
	}{
		{"zero mass", 0, 1, 1, 1},
		{"negative mass", 1, -1, 1, 1},
		{"zero length", 1, 1, 0, 1},
		{"NaN length", 1, 1, 1, math.NaN()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.m1, tt.m2, tt.l1, tt.l2, 0, 0)
			if !errors.Is(err, dynamo.ErrParameterBounds) {
				t.Errorf("New error = %v, want ErrParameterBounds", err)
			}
		})
	}
}

func TestStep_UnknownMethod(t *testing.T) {
	p := mustNew(t, 1, 1, 1, 1, 0.5, 0.5)
	before := p.State()

	for _, m := range []integrators.Method{0, integrators.Method(99)} {
		if err := p.Step(0.01, m); !errors.Is(err, dynamo.ErrUnknownMethod) {
			t.Errorf("Step(%v) error = %v, want ErrUnknownMethod", m, err)
		}
		if err := p.Update(0, 1, 0.01, m); !errors.Is(err, dynamo.ErrUnknownMethod) {
			t.Errorf("Update(%v) error = %v, want ErrUnknownMethod", m, err)
		}
	}

	if p.State() != before {
		t.Error("state changed after rejected method")
	}
}

func TestUpdate_NonPositiveStep(t *testing.T) {
	p := mustNew(t, 1, 1, 1, 1, 0.5, 0.5)
	for _, h := range []float64{0, -0.01, math.NaN()} {
		if err := p.Update(0, 1, h, integrators.RK4); !errors.Is(err, dynamo.ErrParameterBounds) {
			t.Errorf("Update(h=%v) error = %v, want ErrParameterBounds", h, err)
		}
	}
}

func TestUpdate_PartialIntervalNotStepped(t *testing.T) {
	a := mustNew(t, 1, 1, 1, 1, 1.0, -0.5)
	b := mustNew(t, 1, 1, 1, 1, 1.0, -0.5)

	if err := a.Update(0, 0.25, 0.1, integrators.RK4); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		if err := b.Step(0.1, integrators.RK4); err != nil {
			t.Fatal(err)
		}
	}

	if a.State() != b.State() {
		t.Errorf("Update(0, 0.25, 0.1) = %+v, want three steps %+v", a.State(), b.State())
	}
}

func TestUpdate_Deterministic(t *testing.T) {
	for _, m := range integrators.Methods() {
		t.Run(m.String(), func(t *testing.T) {
			a := mustNew(t, 1, 1.5, 1, 0.8, 2.0, 2.5)
			b := mustNew(t, 1, 1.5, 1, 0.8, 2.0, 2.5)

			if err := a.Update(0, 2, 0.005, m); err != nil {
				t.Fatal(err)
			}
			if err := b.Update(0, 2, 0.005, m); err != nil {
				t.Fatal(err)
			}
			if a.State() != b.State() {
				t.Errorf("runs diverged: %+v vs %+v", a.State(), b.State())
			}
		})
	}
}

func TestStep_EulerUsesOldVelocity(t *testing.T) {
	p, err := NewFromState(DefaultParams(), State{Theta1: 0.3, Omega1: 0.5, Theta2: -0.2, Omega2: 1.5})
	if err != nil {
		t.Fatal(err)
	}
	s := p.State()
	a1, a2 := p.Params().Accelerations(s)
	h := 0.01

	if err := p.Step(h, integrators.Euler); err != nil {
		t.Fatal(err)
	}

	want := State{
		Theta1: s.Theta1 + s.Omega1*h,
		Omega1: s.Omega1 + a1*h,
		Theta2: s.Theta2 + s.Omega2*h,
		Omega2: s.Omega2 + a2*h,
	}
	if p.State() != want {
		t.Errorf("Euler step = %+v, want %+v", p.State(), want)
	}
}

func TestStep_SemiImplicitUsesNewVelocity(t *testing.T) {
	p, err := NewFromState(DefaultParams(), State{Theta1: 0.3, Omega1: 0.5, Theta2: -0.2, Omega2: 1.5})
	if err != nil {
		t.Fatal(err)
	}
	s := p.State()
	a1, a2 := p.Params().Accelerations(s)
	h := 0.01

	if err := p.Step(h, integrators.SemiImplicitEuler); err != nil {
		t.Fatal(err)
	}

	w1 := s.Omega1 + a1*h
	w2 := s.Omega2 + a2*h
	want := State{Theta1: s.Theta1 + w1*h, Omega1: w1, Theta2: s.Theta2 + w2*h, Omega2: w2}
	if p.State() != want {
		t.Errorf("semi-implicit step = %+v, want %+v", p.State(), want)
	}
}

func TestRK4_TwoHalfStepsBeatOneFullStep(t *testing.T) {
	params := DefaultParams()
	start := State{Theta1: 1.2, Theta2: -0.4}
	h := 0.01

	reference := start
	for i := 0; i < 200; i++ {
		var err error
		if reference, err = params.Advance(reference, 2*h/200, integrators.RK4); err != nil {
			t.Fatal(err)
		}
	}

	twice := start
	for i := 0; i < 2; i++ {
		twice, _ = params.Advance(twice, h, integrators.RK4)
	}
	once, _ := params.Advance(start, 2*h, integrators.RK4)

	errTwice, _ := twice.Observables().Distance(reference.Observables())
	errOnce, _ := once.Observables().Distance(reference.Observables())
	if errTwice >= errOnce {
		t.Errorf("two steps of h (err %e) should beat one step of 2h (err %e)", errTwice, errOnce)
	}
}

func TestWrapAngle(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0.5, 0.5},
		{2 * math.Pi, 2 * math.Pi},
		{2*math.Pi + 0.25, 0.25},
		{-2*math.Pi - 0.25, -0.25},
		{5 * math.Pi, 3 * math.Pi}, // single correction only
	}

	for _, tt := range tests {
		if got := wrapAngle(tt.in); !scalar.EqualWithinAbs(got, tt.want, 1e-12) {
			t.Errorf("wrapAngle(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestStep_NormalizesAngles(t *testing.T) {
	p, err := NewFromState(DefaultParams(), State{Theta1: 2*math.Pi - 0.001, Omega1: 10, Theta2: -2*math.Pi + 0.001, Omega2: -10})
	if err != nil {
		t.Fatal(err)
	}
	if err := p.Step(0.01, integrators.SemiImplicitEuler); err != nil {
		t.Fatal(err)
	}

	s := p.State()
	if s.Theta1 > 2*math.Pi || s.Theta1 < 0 {
		t.Errorf("theta1 = %v, want wrapped into [0, 2π]", s.Theta1)
	}
	if s.Theta2 < -2*math.Pi || s.Theta2 > 0 {
		t.Errorf("theta2 = %v, want wrapped into [-2π, 0]", s.Theta2)
	}
}

func TestAdvance_NaNInputPropagates(t *testing.T) {
	params := DefaultParams()
	s := State{Theta1: math.NaN()}

	next, err := params.Advance(s, 0.01, integrators.RK4)
	if err != nil {
		t.Fatal(err)
	}
	if next.IsValid() {
		t.Errorf("NaN input should propagate, got %+v", next)
	}
}

func TestAccelerations_DenominatorBoundedByValidMasses(t *testing.T) {
	// 2m1+m2-m2·cos(2θ1-2θ2) is smallest when the cosine is 1, leaving 2m1.
	params := Params{M1: 1e-6, M2: 1e6, L1: 1, L2: 1}
	if err := params.Validate(); err != nil {
		t.Fatal(err)
	}
	for _, d := range []float64{0, math.Pi, -math.Pi, 2 * math.Pi} {
		a1, a2 := params.Accelerations(State{Theta1: d + 0.3, Theta2: 0.3, Omega1: 1, Omega2: -1})
		if math.IsNaN(a1) || math.IsInf(a1, 0) || math.IsNaN(a2) || math.IsInf(a2, 0) {
			t.Errorf("θ1-θ2=%v: accelerations (%v, %v) not finite", d, a1, a2)
		}
	}
}

func TestCopyIsIndependent(t *testing.T) {
	p := mustNew(t, 1, 1, 1, 1, 1, 1)
	snapshot := *p

	if err := p.Update(0, 0.5, 0.01, integrators.RK4); err != nil {
		t.Fatal(err)
	}
	if snapshot.State() == p.State() {
		t.Error("copy should keep the pre-update state")
	}
}
