// Package automation runs scripted batches of simulations: YAML scenarios
// of preset-based runs and step-size sweeps.
package automation

import (
	"context"
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/chaoslab/internal/config"
	"github.com/san-kum/chaoslab/internal/dynamo"
	"github.com/san-kum/chaoslab/internal/experiment"
	"github.com/san-kum/chaoslab/internal/sim"
)

// Scenario is a scripted sequence of runs.
type Scenario struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Steps       []Step `yaml:"steps"`
}

// Step is one run. The config starts from the preset, or the defaults when
// no preset is named, and the config node is decoded over it.
type Step struct {
	Name   string    `yaml:"name"`
	Model  string    `yaml:"model"`
	Preset string    `yaml:"preset"`
	Config yaml.Node `yaml:"config"`
}

func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	sc, err := ParseScenario(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return sc, nil
}

// ParseScenario decodes a scenario and resolves every step, so a bad step
// is reported before anything runs.
func ParseScenario(data []byte) (*Scenario, error) {
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, err
	}
	if len(sc.Steps) == 0 {
		return nil, fmt.Errorf("%w: scenario %q has no steps", dynamo.ErrParameterBounds, sc.Name)
	}
	for i, step := range sc.Steps {
		if _, err := step.Resolve(); err != nil {
			return nil, fmt.Errorf("step %d: %w", i+1, err)
		}
	}
	return &sc, nil
}

func (s Step) Resolve() (*config.Config, error) {
	if s.Model == "" {
		return nil, fmt.Errorf("%w: step %q has no model", dynamo.ErrParameterBounds, s.Name)
	}

	cfg := config.DefaultConfig()
	if s.Preset != "" {
		cfg = config.GetPreset(s.Model, s.Preset)
		if cfg == nil {
			return nil, fmt.Errorf("%w: unknown preset %q for %s", dynamo.ErrParameterBounds, s.Preset, s.Model)
		}
	}
	if !s.Config.IsZero() {
		if err := s.Config.Decode(cfg); err != nil {
			return nil, fmt.Errorf("step %q config: %w", s.Name, err)
		}
	}
	cfg.Model = s.Model

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (s Step) label(i int) string {
	if s.Name != "" {
		return s.Name
	}
	return fmt.Sprintf("step-%d", i+1)
}

type StepResult struct {
	Name   string
	Config *config.Config
	Result *sim.Result
	Err    error
}

// RunScenario runs the steps in order. A failed run is recorded in its
// StepResult and the scenario moves on; only cancellation stops it early.
func RunScenario(ctx context.Context, sc *Scenario, logger *zap.Logger) ([]StepResult, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	results := make([]StepResult, 0, len(sc.Steps))
	for i, step := range sc.Steps {
		name := step.label(i)
		cfg, err := step.Resolve()
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}

		logger.Info("scenario step",
			zap.String("scenario", sc.Name),
			zap.String("step", name),
			zap.Int("index", i+1),
			zap.Int("of", len(sc.Steps)))

		res, err := experiment.New(cfg, nil, logger.With(zap.String("step", name))).Run(ctx, false)
		results = append(results, StepResult{Name: name, Config: cfg, Result: res, Err: err})

		if errors.Is(err, dynamo.ErrContextCanceled) {
			return results, err
		}
	}
	return results, nil
}
