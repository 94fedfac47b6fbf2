package pendulum

import (
	"fmt"
	"math"

	"github.com/san-kum/chaoslab/internal/dynamo"
	"github.com/san-kum/chaoslab/internal/integrators"
	"github.com/san-kum/chaoslab/internal/vecmath"
)

// Gravity is the gravitational acceleration in m/s².
const Gravity = 9.81

const (
	DefaultMass   = 1.0
	DefaultLength = 1.0
)

// Params are the fixed physical properties of a double pendulum.
type Params struct {
	M1, M2 float64 // bob masses, kg
	L1, L2 float64 // arm lengths, m
}

func DefaultParams() Params {
	return Params{
		M1: DefaultMass, M2: DefaultMass,
		L1: DefaultLength, L2: DefaultLength,
	}
}

func (p Params) Validate() error {
	if !(p.M1 > 0) || !(p.M2 > 0) {
		return fmt.Errorf("%w: masses must be positive (m1=%g, m2=%g)", dynamo.ErrParameterBounds, p.M1, p.M2)
	}
	if !(p.L1 > 0) || !(p.L2 > 0) {
		return fmt.Errorf("%w: arm lengths must be positive (l1=%g, l2=%g)", dynamo.ErrParameterBounds, p.L1, p.L2)
	}
	return nil
}

// BobCoordinates are the Cartesian bob positions relative to the pivot.
// Values compare exactly with ==.
type BobCoordinates struct {
	Bob1, Bob2 vecmath.Vec2
}

func (p Params) Coordinates(s State) BobCoordinates {
	bob1 := vecmath.Vec2{X: math.Sin(s.Theta1), Y: -math.Cos(s.Theta1)}.Scale(p.L1)
	bob2 := bob1.Add(vecmath.Vec2{X: math.Sin(s.Theta2), Y: -math.Cos(s.Theta2)}.Scale(p.L2))
	return BobCoordinates{Bob1: bob1, Bob2: bob2}
}

func (p Params) KineticEnergy(s State) float64 {
	v1 := p.L1 * s.Omega1
	v2 := p.L2 * s.Omega2
	return 0.5*p.M1*v1*v1 + 0.5*p.M2*(v1*v1+v2*v2+2*v1*v2*math.Cos(s.Theta1-s.Theta2))
}

// PotentialEnergy measures bob heights from L1+L2 below the pivot.
func (p Params) PotentialEnergy(s State) float64 {
	c := p.Coordinates(s)
	base := p.L1 + p.L2
	return Gravity * (p.M1*(base+c.Bob1.Y) + p.M2*(base+c.Bob2.Y))
}

func (p Params) Energy(s State) float64 {
	return p.KineticEnergy(s) + p.PotentialEnergy(s)
}

// Accelerations returns the angular accelerations of both arms at s, from
// the Euler-Lagrange equations for point masses on massless rods. The
// shared denominator 2m1+m2-m2·cos(2θ1-2θ2) is at least 2m1, so it cannot
// vanish for parameters that pass Validate. It is not guarded otherwise:
// NaN or Inf in s propagates into the result.
func (p Params) Accelerations(s State) (a1, a2 float64) {
	m1, m2, l1, l2, g := p.M1, p.M2, p.L1, p.L2, Gravity
	t1, t2 := s.Theta1, s.Theta2
	w1, w2 := s.Omega1, s.Omega2

	sinD, cosD := math.Sin(t1-t2), math.Cos(t1-t2)
	den := 2*m1 + m2 - m2*math.Cos(2*t1-2*t2)

	a1 = (-g*(2*m1+m2)*math.Sin(t1) -
		m2*g*math.Sin(t1-2*t2) -
		2*sinD*m2*(w2*w2*l2+w1*w1*l1*cosD)) / (l1 * den)

	a2 = (2 * sinD * (w1*w1*l1*(m1+m2) +
		g*(m1+m2)*math.Cos(t1) +
		w2*w2*l2*m2*cosD)) / (l2 * den)

	return a1, a2
}

// Derive is the first-order vector field (ω1, a1, ω2, a2) at s.
func (p Params) Derive(s State) State {
	a1, a2 := p.Accelerations(s)
	return State{Theta1: s.Omega1, Omega1: a1, Theta2: s.Omega2, Omega2: a2}
}

func (p Params) angularAcceleration(angles, velocities vecmath.Vec2) vecmath.Vec2 {
	a1, a2 := p.Accelerations(fromPairs(angles, velocities))
	return vecmath.Vec2{X: a1, Y: a2}
}

// Advance returns s moved forward by one step of size h, with angles
// wrapped back inside ±2π.
func (p Params) Advance(s State, h float64, method integrators.Method) (State, error) {
	var next State
	switch method {
	case integrators.Euler:
		next = integrators.EulerStep(p.Derive, s, h)
	case integrators.SemiImplicitEuler:
		angles, velocities := integrators.SemiImplicitEulerStep(p.angularAcceleration, s.angles(), s.velocities(), h)
		next = fromPairs(angles, velocities)
	case integrators.RK4:
		next = integrators.RK4Step(p.Derive, s, h)
	case integrators.RK38:
		next = integrators.RK38Step(p.Derive, s, h)
	default:
		return s, fmt.Errorf("%w: %v", dynamo.ErrUnknownMethod, method)
	}
	return next.normalized(), nil
}

// DoublePendulum owns its parameters and current state. It holds no
// references, so copying the struct yields an independent pendulum.
type DoublePendulum struct {
	params Params
	state  State
	peMax  float64
}

// New builds a pendulum at rest at the given angles.
func New(m1, m2, l1, l2, theta1, theta2 float64) (*DoublePendulum, error) {
	return NewFromState(Params{M1: m1, M2: m2, L1: l1, L2: l2}, State{Theta1: theta1, Theta2: theta2})
}

// NewFromState builds a pendulum at an arbitrary initial state. The energy
// reference is taken from the at-rest configuration at the same angles.
func NewFromState(params Params, s State) (*DoublePendulum, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	p := &DoublePendulum{params: params, state: s}
	p.peMax = params.Energy(State{Theta1: s.Theta1, Theta2: s.Theta2})
	return p, nil
}

func (p *DoublePendulum) Params() Params { return p.params }
func (p *DoublePendulum) State() State   { return p.state }

func (p *DoublePendulum) BobCoordinates() BobCoordinates { return p.params.Coordinates(p.state) }
func (p *DoublePendulum) KineticEnergy() float64         { return p.params.KineticEnergy(p.state) }
func (p *DoublePendulum) PotentialEnergy() float64       { return p.params.PotentialEnergy(p.state) }

func (p *DoublePendulum) TotalEnergy() float64 {
	return p.KineticEnergy() + p.PotentialEnergy()
}

// PotentialEnergyMax is the total energy of the initial at-rest
// configuration, the conservation reference for the whole run.
func (p *DoublePendulum) PotentialEnergyMax() float64 { return p.peMax }

// Step advances the pendulum by a single step of size h.
func (p *DoublePendulum) Step(h float64, method integrators.Method) error {
	next, err := p.params.Advance(p.state, h, method)
	if err != nil {
		return err
	}
	p.state = next
	return nil
}

// Update steps from t0 while t < t1, adding h to t after each step. When h
// does not divide t1-t0 the remaining partial interval is left unstepped.
func (p *DoublePendulum) Update(t0, t1, h float64, method integrators.Method) error {
	if !(h > 0) {
		return fmt.Errorf("%w: step size must be positive, got %g", dynamo.ErrParameterBounds, h)
	}
	if !method.Valid() {
		return fmt.Errorf("%w: %v", dynamo.ErrUnknownMethod, method)
	}
	for t := t0; t < t1; t += h {
		if err := p.Step(h, method); err != nil {
			return err
		}
	}
	return nil
}
