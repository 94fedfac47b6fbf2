package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/chaoslab/internal/dynamo"
	"github.com/san-kum/chaoslab/internal/integrators"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, ModelDoublePendulum, cfg.Model)
	assert.Equal(t, integrators.RK4, cfg.Integrator)
	assert.Positive(t, cfg.Dt)
	assert.Positive(t, cfg.Duration)
	require.NoError(t, cfg.Validate())
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")

	cfg := DefaultConfig()
	cfg.Model = ModelNBody
	cfg.Integrator = integrators.SemiImplicitEuler
	cfg.NBody.Bodies = 12
	cfg.NBody.BarnesHutTheta = 0.4
	cfg.Seed = 99

	require.NoError(t, Save(path, cfg))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "integrator: semi_implicit_euler")

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	require.NoError(t, os.WriteFile(path, []byte("integrator: rk38\npendulum:\n  theta1: 2.0\n"), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, integrators.RK38, cfg.Integrator)
	assert.Equal(t, 2.0, cfg.Pendulum.Theta1)
	assert.Equal(t, DefaultTheta, cfg.Pendulum.Theta2)
	assert.Equal(t, 1.0, cfg.Pendulum.M1)
	assert.Equal(t, DefaultDt, cfg.Dt)
}

func TestLoad_UnknownIntegrator(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("integrator: leapfrog\n"), 0644))

	_, err := Load(path)
	require.ErrorIs(t, err, dynamo.ErrUnknownMethod)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   error
	}{
		{"unknown model", func(c *Config) { c.Model = "drone" }, dynamo.ErrParameterBounds},
		{"zero method", func(c *Config) { c.Integrator = 0 }, dynamo.ErrUnknownMethod},
		{"zero dt", func(c *Config) { c.Dt = 0 }, dynamo.ErrParameterBounds},
		{"negative duration", func(c *Config) { c.Duration = -1 }, dynamo.ErrParameterBounds},
		{"no bodies", func(c *Config) { c.Model = ModelNBody; c.NBody.Bodies = 0 }, dynamo.ErrParameterBounds},
		{"negative softening", func(c *Config) { c.Model = ModelNBody; c.NBody.Softening = -1 }, dynamo.ErrParameterBounds},
		{"zero softening", func(c *Config) { c.Model = ModelNBody; c.NBody.Softening = 0 }, dynamo.ErrParameterBounds},
		{"negative theta", func(c *Config) { c.Model = ModelNBody; c.NBody.BarnesHutTheta = -0.1 }, dynamo.ErrParameterBounds},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			require.ErrorIs(t, cfg.Validate(), tt.want)
		})
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset(ModelDoublePendulum, "gentle")
	require.NotNil(t, cfg)
	assert.Equal(t, 0.3, cfg.Pendulum.Theta1)
	require.NoError(t, cfg.Validate())

	cfg.Pendulum.Theta1 = 99
	assert.Equal(t, 0.3, GetPreset(ModelDoublePendulum, "gentle").Pendulum.Theta1, "preset table must not be mutated")
}

func TestGetPreset_NotFound(t *testing.T) {
	assert.Nil(t, GetPreset(ModelDoublePendulum, "nonexistent"))
	assert.Nil(t, GetPreset("nonexistent", "gentle"))
}

func TestPresets_AllValid(t *testing.T) {
	for _, model := range Models() {
		names := ListPresets(model)
		require.NotEmpty(t, names, model)
		assert.IsIncreasing(t, names)

		for _, name := range names {
			cfg := GetPreset(model, name)
			assert.Equal(t, model, cfg.Model, name)
			assert.NoError(t, cfg.Validate(), "%s/%s", model, name)
		}
	}

	assert.Nil(t, ListPresets("nonexistent"))
}
