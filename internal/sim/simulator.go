package sim

import (
	"context"
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/san-kum/chaoslab/internal/dynamo"
)

type Simulator struct {
	model     Model
	metrics   []Metric
	observers []Observer
	logger    *zap.Logger
}

type Option func(*Simulator)

func WithLogger(l *zap.Logger) Option {
	return func(s *Simulator) {
		if l != nil {
			s.logger = l
		}
	}
}

func WithMetrics(m ...Metric) Option {
	return func(s *Simulator) { s.metrics = append(s.metrics, m...) }
}

func New(model Model, opts ...Option) *Simulator {
	s := &Simulator{
		model:     model,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

// Steps is the number of whole steps of cfg.Dt that fit in cfg.Duration.
func (cfg Config) Steps() int {
	return int(math.Floor(cfg.Duration/cfg.Dt + 1e-9))
}

func (cfg Config) Validate() error {
	if !(cfg.Dt > 0) {
		return fmt.Errorf("%w: dt must be positive, got %f", dynamo.ErrParameterBounds, cfg.Dt)
	}
	if !(cfg.Duration > 0) {
		return fmt.Errorf("%w: duration must be positive, got %f", dynamo.ErrParameterBounds, cfg.Duration)
	}
	if cfg.SampleEvery < 0 {
		return fmt.Errorf("%w: sample interval must not be negative, got %d", dynamo.ErrParameterBounds, cfg.SampleEvery)
	}
	return nil
}

// Run advances the model for cfg.Duration. On cancellation or failure the
// partial result is returned together with the error.
func (s *Simulator) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	steps := cfg.Steps()
	every := cfg.SampleEvery
	if every == 0 {
		every = 1
	}

	result := &Result{
		Times:    make([]float64, 0, steps/every+2),
		Energies: make([]float64, 0, steps/every+2),
		Metrics:  make(map[string]float64),
		Errors:   make([]error, 0),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	t := 0.0
	x := s.model.Observables()
	energy := s.model.TotalEnergy()
	result.InitialEnergy = energy
	s.record(result, cfg, x, energy, t)
	s.observe(x, energy, t)

	s.logger.Debug("run started",
		zap.Int("steps", steps),
		zap.Float64("dt", cfg.Dt),
		zap.Float64("initial_energy", energy))

	var runErr error
	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			runErr = fmt.Errorf("%w: %w", dynamo.ErrContextCanceled, ctx.Err())
		default:
		}
		if runErr != nil {
			break
		}

		if err := s.model.Step(cfg.Dt); err != nil {
			runErr = &dynamo.SimulationError{Step: i, Time: t, State: x, Wrapped: err}
			result.Errors = append(result.Errors, runErr)
			break
		}

		t += cfg.Dt
		x = s.model.Observables()
		energy = s.model.TotalEnergy()
		result.StepsTaken++

		if cfg.ValidateState && (!x.IsValid() || math.IsNaN(energy) || math.IsInf(energy, 0)) {
			runErr = &dynamo.SimulationError{Step: i, Time: t, State: x, Wrapped: dynamo.ErrInvalidState}
			result.Errors = append(result.Errors, runErr)
			s.logger.Warn("invalid state", zap.Int("step", i), zap.Float64("t", t))
			break
		}

		if result.StepsTaken%every == 0 || i == steps-1 {
			s.record(result, cfg, x, energy, t)
		}
		s.observe(x, energy, t)
	}

	result.FinalEnergy = energy
	if result.InitialEnergy != 0 {
		result.EnergyDrift = math.Abs(result.FinalEnergy-result.InitialEnergy) / math.Abs(result.InitialEnergy)
	} else {
		result.EnergyDrift = math.Abs(result.FinalEnergy)
	}

	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	s.logger.Info("run finished",
		zap.Int("steps", result.StepsTaken),
		zap.Float64("final_energy", result.FinalEnergy),
		zap.Float64("energy_drift", result.EnergyDrift),
		zap.Error(runErr))

	return result, runErr
}

func (s *Simulator) record(r *Result, cfg Config, x dynamo.State, energy, t float64) {
	r.Times = append(r.Times, t)
	r.Energies = append(r.Energies, energy)
	if cfg.RecordStates {
		r.States = append(r.States, x.Clone())
	}
}

func (s *Simulator) observe(x dynamo.State, energy, t float64) {
	for _, m := range s.metrics {
		m.Observe(x, energy, t)
	}
	for _, obs := range s.observers {
		obs.OnStep(x, energy, t)
	}
}

// RunWithCallback steps the model until cfg.Duration elapses, the context
// is cancelled, or the callback returns false. The callback sees the state
// before each step.
func (s *Simulator) RunWithCallback(ctx context.Context, cfg Config, callback func(x dynamo.State, energy, t float64) bool) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	t := 0.0
	for i := 0; i < cfg.Steps(); i++ {
		select {
		case <-ctx.Done():
			return fmt.Errorf("%w: %w", dynamo.ErrContextCanceled, ctx.Err())
		default:
		}

		x := s.model.Observables()
		if !callback(x, s.model.TotalEnergy(), t) {
			return nil
		}

		if err := s.model.Step(cfg.Dt); err != nil {
			return &dynamo.SimulationError{Step: i, Time: t, State: x, Wrapped: err}
		}
		t += cfg.Dt

		if cfg.ValidateState && !s.model.Observables().IsValid() {
			return &dynamo.SimulationError{Step: i, Time: t, State: s.model.Observables(), Wrapped: dynamo.ErrInvalidState}
		}
	}

	return nil
}
