package config

import (
	"math"
	"slices"

	"github.com/san-kum/chaoslab/internal/integrators"
)

var Presets = map[string]map[string]*Config{
	ModelDoublePendulum: {
		"gentle":      pendulumPreset(integrators.RK4, 0.01, 30, 0.3, 0.3),
		"symmetric":   pendulumPreset(integrators.RK4, 0.005, 30, 1.5, 1.5),
		"chaos":       pendulumPreset(integrators.RK4, 0.005, 60, 3.0, 3.0),
		"horizontal":  pendulumPreset(integrators.SemiImplicitEuler, 0.001, 20, math.Pi/2, math.Pi/2),
		"euler_drift": pendulumPreset(integrators.Euler, 0.01, 10, 0.5, 0.5),
	},
	ModelNBody: {
		"cluster": nbodyPreset(50, 0, 20),
		"swarm":   nbodyPreset(400, 0.5, 10),
		"pair":    nbodyPreset(2, 0, 30),
	},
}

func pendulumPreset(method integrators.Method, dt, duration, theta1, theta2 float64) *Config {
	cfg := DefaultConfig()
	cfg.Model = ModelDoublePendulum
	cfg.Integrator = method
	cfg.Dt = dt
	cfg.Duration = duration
	cfg.Pendulum.Theta1 = theta1
	cfg.Pendulum.Theta2 = theta2
	return cfg
}

func nbodyPreset(bodies int, theta, duration float64) *Config {
	cfg := DefaultConfig()
	cfg.Model = ModelNBody
	cfg.Integrator = integrators.SemiImplicitEuler
	cfg.Duration = duration
	cfg.NBody.Bodies = bodies
	cfg.NBody.BarnesHutTheta = theta
	return cfg
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(model, preset string) *Config {
	modelPresets, ok := Presets[model]
	if !ok {
		return nil
	}
	cfg, ok := modelPresets[preset]
	if !ok {
		return nil
	}
	c := *cfg
	return &c
}

// ListPresets returns the preset names for model in sorted order.
func ListPresets(model string) []string {
	modelPresets, ok := Presets[model]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(modelPresets))
	for name := range modelPresets {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func Models() []string {
	return []string{ModelDoublePendulum, ModelNBody}
}
