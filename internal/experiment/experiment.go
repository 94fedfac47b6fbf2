package experiment

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/san-kum/chaoslab/internal/config"
	"github.com/san-kum/chaoslab/internal/integrators"
	"github.com/san-kum/chaoslab/internal/sim"
)

type Experiment struct {
	cfg      *config.Config
	registry *Registry
	logger   *zap.Logger
}

func New(cfg *config.Config, registry *Registry, logger *zap.Logger) *Experiment {
	if registry == nil {
		registry = NewRegistry()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Experiment{cfg: cfg, registry: registry, logger: logger}
}

func (e *Experiment) simConfig(record bool) sim.Config {
	return sim.Config{
		Dt:            e.cfg.Dt,
		Duration:      e.cfg.Duration,
		ValidateState: true,
		RecordStates:  record,
	}
}

// Run builds a model from the config and simulates it once. With record
// set the result keeps every observed state.
func (e *Experiment) Run(ctx context.Context, record bool) (*sim.Result, error) {
	if err := e.cfg.Validate(); err != nil {
		return nil, err
	}

	model, err := e.registry.Build(e.cfg)
	if err != nil {
		return nil, err
	}

	s := sim.New(model,
		sim.WithLogger(e.logger.With(
			zap.String("model", e.cfg.Model),
			zap.Stringer("integrator", e.cfg.Integrator))),
		sim.WithMetrics(DefaultMetrics(model)...))

	return s.Run(ctx, e.simConfig(record))
}

// Compare runs the configured model once per method, concurrently. Each
// run builds its own model from the same seed.
func (e *Experiment) Compare(ctx context.Context, methods []integrators.Method) ([]*sim.Result, error) {
	if len(methods) == 0 {
		return nil, fmt.Errorf("no methods to compare")
	}

	jobs := make([]sim.Job, 0, len(methods))
	for _, m := range methods {
		cfg := *e.cfg
		cfg.Integrator = m
		if err := cfg.Validate(); err != nil {
			return nil, err
		}

		model, err := e.registry.Build(&cfg)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, sim.Job{Name: m.String(), Model: model, Metrics: DefaultMetrics(model)})
	}

	return sim.Compare(ctx, jobs, e.simConfig(false), e.logger)
}

func (e *Experiment) Config() *config.Config { return e.cfg }
