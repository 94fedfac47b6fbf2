package experiment

import (
	"fmt"
	"slices"

	"github.com/san-kum/chaoslab/internal/config"
	"github.com/san-kum/chaoslab/internal/dynamo"
	"github.com/san-kum/chaoslab/internal/metrics"
	"github.com/san-kum/chaoslab/internal/nbody"
	"github.com/san-kum/chaoslab/internal/pendulum"
	"github.com/san-kum/chaoslab/internal/sim"
)

// Builder constructs a fresh model from a validated config.
type Builder func(cfg *config.Config) (sim.Model, error)

type Registry struct {
	models map[string]Builder
}

func NewRegistry() *Registry {
	r := &Registry{models: make(map[string]Builder)}
	r.Register(config.ModelDoublePendulum, BuildPendulum)
	r.Register(config.ModelNBody, BuildNBody)
	return r
}

func (r *Registry) Register(name string, b Builder) {
	r.models[name] = b
}

func (r *Registry) Build(cfg *config.Config) (sim.Model, error) {
	fn, ok := r.models[cfg.Model]
	if !ok {
		return nil, fmt.Errorf("%w: unknown model %q", dynamo.ErrParameterBounds, cfg.Model)
	}
	return fn(cfg)
}

func (r *Registry) ListModels() []string {
	names := make([]string, 0, len(r.models))
	for name := range r.models {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func BuildPendulum(cfg *config.Config) (sim.Model, error) {
	pc := cfg.Pendulum
	p, err := pendulum.NewFromState(
		pendulum.Params{M1: pc.M1, M2: pc.M2, L1: pc.L1, L2: pc.L2},
		pendulum.State{Theta1: pc.Theta1, Omega1: pc.Omega1, Theta2: pc.Theta2, Omega2: pc.Omega2},
	)
	if err != nil {
		return nil, err
	}
	if !cfg.Integrator.Valid() {
		return nil, fmt.Errorf("%w: %v", dynamo.ErrUnknownMethod, cfg.Integrator)
	}
	return NewPendulumModel(p, cfg.Integrator), nil
}

// BuildNBody draws bodies from the config seed. The system's fixed step
// size is the config dt.
func BuildNBody(cfg *config.Config) (sim.Model, error) {
	nc := cfg.NBody
	masses, pos, vel := NewGenerator(cfg.Seed).Bodies(nc.Bodies, nc.MassScale, nc.PositionSpread, nc.VelocitySpread)
	sys, err := nbody.NewSystem(masses, pos, vel,
		nbody.WithSoftening(nc.Softening),
		nbody.WithStepSize(cfg.Dt),
		nbody.WithBarnesHut(nc.BarnesHutTheta),
	)
	if err != nil {
		return nil, err
	}
	return sys, nil
}

// DefaultMetrics returns fresh metrics suited to model.
func DefaultMetrics(model sim.Model) []sim.Metric {
	ms := []sim.Metric{
		metrics.NewEnergy(),
		metrics.NewEnergyDrift(),
	}
	switch m := model.(type) {
	case *PendulumModel:
		ms = append(ms,
			metrics.NewDeviation(m.PotentialEnergyMax()),
			metrics.NewStability(100))
	case *nbody.System:
		ms = append(ms, metrics.NewDeviation(m.TotalEnergy()))
	}
	return ms
}
