package nbody

import (
	"fmt"
	"math"

	"github.com/san-kum/chaoslab/internal/dynamo"
	"github.com/san-kum/chaoslab/internal/vecmath"
)

const (
	DefaultSoftening = 5.0
	DefaultStepSize  = 0.01
)

type System struct {
	masses []float64
	px, py []float64
	vx, vy []float64

	softening float64
	stepSize  float64
	theta     float64

	ax, ay []float64
}

type Option func(*System)

// WithSoftening sets the Plummer softening length ε.
func WithSoftening(eps float64) Option {
	return func(s *System) { s.softening = eps }
}

// WithStepSize sets the step used by Tick.
func WithStepSize(h float64) Option {
	return func(s *System) { s.stepSize = h }
}

// WithBarnesHut switches acceleration evaluation to a Barnes-Hut tree with
// opening angle theta. Zero keeps direct summation.
func WithBarnesHut(theta float64) Option {
	return func(s *System) { s.theta = theta }
}

func NewSystem(masses []float64, positions, velocities []vecmath.Vec2, opts ...Option) (*System, error) {
	n := len(masses)
	if len(positions) != n || len(velocities) != n {
		return nil, fmt.Errorf("%w: %d masses, %d positions, %d velocities",
			dynamo.ErrDimensionMismatch, n, len(positions), len(velocities))
	}

	s := &System{
		masses:    make([]float64, n),
		px:        make([]float64, n),
		py:        make([]float64, n),
		vx:        make([]float64, n),
		vy:        make([]float64, n),
		ax:        make([]float64, n),
		ay:        make([]float64, n),
		softening: DefaultSoftening,
		stepSize:  DefaultStepSize,
	}
	for _, opt := range opts {
		opt(s)
	}

	if !(s.softening > 0) {
		return nil, fmt.Errorf("%w: softening must be positive, got %g", dynamo.ErrParameterBounds, s.softening)
	}
	if !(s.stepSize > 0) {
		return nil, fmt.Errorf("%w: step size must be positive, got %g", dynamo.ErrParameterBounds, s.stepSize)
	}
	if !(s.theta >= 0) {
		return nil, fmt.Errorf("%w: barnes-hut theta must be non-negative, got %g", dynamo.ErrParameterBounds, s.theta)
	}

	copy(s.masses, masses)
	for i := 0; i < n; i++ {
		s.px[i], s.py[i] = positions[i].X, positions[i].Y
		s.vx[i], s.vy[i] = velocities[i].X, velocities[i].Y
	}
	return s, nil
}

func (s *System) Len() int                { return len(s.masses) }
func (s *System) Mass(i int) float64      { return s.masses[i] }
func (s *System) Softening() float64      { return s.softening }
func (s *System) StepSize() float64       { return s.stepSize }
func (s *System) BarnesHutTheta() float64 { return s.theta }

func (s *System) Position(i int) vecmath.Vec2 {
	return vecmath.Vec2{X: s.px[i], Y: s.py[i]}
}

func (s *System) Velocity(i int) vecmath.Vec2 {
	return vecmath.Vec2{X: s.vx[i], Y: s.vy[i]}
}

// Positions returns a copy of every body position.
func (s *System) Positions() []vecmath.Vec2 {
	out := make([]vecmath.Vec2, len(s.masses))
	for i := range out {
		out[i] = s.Position(i)
	}
	return out
}

// Accelerations returns a fresh copy of the acceleration on every body at
// the current positions.
func (s *System) Accelerations() ([]vecmath.Vec2, error) {
	if err := s.computeAccelerations(); err != nil {
		return nil, err
	}
	out := make([]vecmath.Vec2, len(s.masses))
	for i := range out {
		out[i] = vecmath.Vec2{X: s.ax[i], Y: s.ay[i]}
	}
	return out, nil
}

func (s *System) computeAccelerations() error {
	if s.theta > 0 {
		return s.treeAccelerations()
	}
	s.directAccelerations()
	return nil
}

// directAccelerations visits each unordered pair once and applies equal
// and opposite contributions scaled by the partner mass.
func (s *System) directAccelerations() {
	n := len(s.masses)
	for i := 0; i < n; i++ {
		s.ax[i], s.ay[i] = 0, 0
	}

	eps2 := s.softening * s.softening
	for i := 0; i < n; i++ {
		xi, yi := s.px[i], s.py[i]

		for j := i + 1; j < n; j++ {
			rx := s.px[j] - xi
			ry := s.py[j] - yi
			r2 := rx*rx + ry*ry + eps2

			rInv := 1.0 / math.Sqrt(r2)
			r3Inv := rInv * rInv * rInv

			fij := s.masses[j] * r3Inv
			s.ax[i] += fij * rx
			s.ay[i] += fij * ry

			fji := s.masses[i] * r3Inv
			s.ax[j] -= fji * rx
			s.ay[j] -= fji * ry
		}
	}
}

// Step advances every body by h: velocities are updated from the current
// accelerations and positions then move with the new velocities.
func (s *System) Step(h float64) error {
	if !(h > 0) {
		return fmt.Errorf("%w: step size must be positive, got %g", dynamo.ErrParameterBounds, h)
	}
	if err := s.computeAccelerations(); err != nil {
		return err
	}

	for i := range s.masses {
		s.vx[i] += s.ax[i] * h
		s.vy[i] += s.ay[i] * h
		s.px[i] += s.vx[i] * h
		s.py[i] += s.vy[i] * h
	}
	return nil
}

// Tick advances by the configured step size.
func (s *System) Tick() error {
	return s.Step(s.stepSize)
}

func (s *System) KineticEnergy() float64 {
	ke := 0.0
	for i, m := range s.masses {
		ke += 0.5 * m * (s.vx[i]*s.vx[i] + s.vy[i]*s.vy[i])
	}
	return ke
}

// PotentialEnergy is the softened pairwise potential, -Σ mᵢmⱼ/√(r²+ε²).
func (s *System) PotentialEnergy() float64 {
	n := len(s.masses)
	eps2 := s.softening * s.softening
	pe := 0.0
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			rx := s.px[j] - s.px[i]
			ry := s.py[j] - s.py[i]
			pe -= s.masses[i] * s.masses[j] / math.Sqrt(rx*rx+ry*ry+eps2)
		}
	}
	return pe
}

func (s *System) TotalEnergy() float64 {
	return s.KineticEnergy() + s.PotentialEnergy()
}

func (s *System) Momentum() vecmath.Vec2 {
	var p vecmath.Vec2
	for i, m := range s.masses {
		p.X += m * s.vx[i]
		p.Y += m * s.vy[i]
	}
	return p
}

func (s *System) AngularMomentum() float64 {
	l := 0.0
	for i, m := range s.masses {
		l += m * (s.px[i]*s.vy[i] - s.py[i]*s.vx[i])
	}
	return l
}

// CenterOfMass returns the zero vector for a system with no mass.
func (s *System) CenterOfMass() vecmath.Vec2 {
	var c vecmath.Vec2
	total := 0.0
	for i, m := range s.masses {
		c.X += m * s.px[i]
		c.Y += m * s.py[i]
		total += m
	}
	if total == 0 {
		return vecmath.Vec2{}
	}
	return c.Scale(1 / total)
}

// Observables flattens the system as [x, y, vx, vy] per body.
func (s *System) Observables() dynamo.State {
	out := make(dynamo.State, 0, 4*len(s.masses))
	for i := range s.masses {
		out = append(out, s.px[i], s.py[i], s.vx[i], s.vy[i])
	}
	return out
}

// Clone returns an independent copy of the system.
func (s *System) Clone() *System {
	c := *s
	c.masses = append([]float64(nil), s.masses...)
	c.px = append([]float64(nil), s.px...)
	c.py = append([]float64(nil), s.py...)
	c.vx = append([]float64(nil), s.vx...)
	c.vy = append([]float64(nil), s.vy...)
	c.ax = make([]float64, len(s.ax))
	c.ay = make([]float64, len(s.ay))
	return &c
}
