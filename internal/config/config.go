package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/chaoslab/internal/dynamo"
	"github.com/san-kum/chaoslab/internal/integrators"
)

const (
	ModelDoublePendulum = "double_pendulum"
	ModelNBody          = "nbody"
)

const (
	DefaultDt       = 0.01
	DefaultDuration = 10.0
	DefaultTheta    = 0.5
	DefaultBodies   = 50
	// DefaultMassScale is the gravitational constant folded into every
	// generated mass.
	DefaultMassScale      = 10000.0
	DefaultSoftening      = 5.0
	DefaultPositionSpread = 200.0
	DefaultVelocitySpread = 10.0
)

type Config struct {
	Model      string             `yaml:"model"`
	Integrator integrators.Method `yaml:"integrator"`
	Dt         float64            `yaml:"dt"`
	Duration   float64            `yaml:"duration"`
	Seed       int64              `yaml:"seed"`
	Pendulum   PendulumConfig     `yaml:"pendulum"`
	NBody      NBodyConfig        `yaml:"nbody"`
	Log        LogConfig          `yaml:"log"`
}

type PendulumConfig struct {
	M1     float64 `yaml:"m1"`
	M2     float64 `yaml:"m2"`
	L1     float64 `yaml:"l1"`
	L2     float64 `yaml:"l2"`
	Theta1 float64 `yaml:"theta1"`
	Theta2 float64 `yaml:"theta2"`
	Omega1 float64 `yaml:"omega1"`
	Omega2 float64 `yaml:"omega2"`
}

type NBodyConfig struct {
	Bodies         int     `yaml:"bodies"`
	Softening      float64 `yaml:"softening"`
	BarnesHutTheta float64 `yaml:"barnes_hut_theta"`
	MassScale      float64 `yaml:"mass_scale"`
	PositionSpread float64 `yaml:"position_spread"`
	VelocitySpread float64 `yaml:"velocity_spread"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func DefaultConfig() *Config {
	return &Config{
		Model:      ModelDoublePendulum,
		Integrator: integrators.RK4,
		Dt:         DefaultDt,
		Duration:   DefaultDuration,
		Seed:       1,
		Pendulum: PendulumConfig{
			M1: 1, M2: 1, L1: 1, L2: 1,
			Theta1: DefaultTheta,
			Theta2: DefaultTheta,
		},
		NBody: NBodyConfig{
			Bodies:         DefaultBodies,
			Softening:      DefaultSoftening,
			MassScale:      DefaultMassScale,
			PositionSpread: DefaultPositionSpread,
			VelocitySpread: DefaultVelocitySpread,
		},
		Log: LogConfig{Level: "info", Format: "console"},
	}
}

// Load reads a YAML file over the defaults and validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	switch c.Model {
	case ModelDoublePendulum, ModelNBody:
	default:
		return fmt.Errorf("%w: unknown model %q", dynamo.ErrParameterBounds, c.Model)
	}
	if !c.Integrator.Valid() {
		return fmt.Errorf("%w: %v", dynamo.ErrUnknownMethod, c.Integrator)
	}
	if !(c.Dt > 0) || !(c.Duration > 0) {
		return fmt.Errorf("%w: dt and duration must be positive (dt=%g, duration=%g)", dynamo.ErrParameterBounds, c.Dt, c.Duration)
	}

	if c.Model == ModelNBody {
		n := c.NBody
		if n.Bodies < 1 {
			return fmt.Errorf("%w: need at least one body, got %d", dynamo.ErrParameterBounds, n.Bodies)
		}
		if !(n.Softening > 0) || !(n.MassScale > 0) {
			return fmt.Errorf("%w: softening and mass_scale must be positive", dynamo.ErrParameterBounds)
		}
		if !(n.BarnesHutTheta >= 0) {
			return fmt.Errorf("%w: barnes_hut_theta must be non-negative, got %g", dynamo.ErrParameterBounds, n.BarnesHutTheta)
		}
	}
	return nil
}
