package main

import (
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/chaoslab/internal/config"
	"github.com/san-kum/chaoslab/internal/dynamo"
	"github.com/san-kum/chaoslab/internal/integrators"
)

func parse(t *testing.T, model string, args ...string) (*config.Config, error) {
	t.Helper()
	cmd := &cobra.Command{Use: "test"}
	addModelFlags(cmd)
	require.NoError(t, cmd.ParseFlags(args))
	return resolveConfig(cmd, model)
}

func TestResolveConfig_Defaults(t *testing.T) {
	cfg, err := parse(t, config.ModelDoublePendulum)
	require.NoError(t, err)

	want := config.DefaultConfig()
	assert.Equal(t, want, cfg)
}

func TestResolveConfig_FlagsOverride(t *testing.T) {
	cfg, err := parse(t, config.ModelDoublePendulum,
		"--dt", "0.05", "--integrator", "euler", "--theta1", "1.2", "--omega2", "-0.5", "--l2", "2")
	require.NoError(t, err)

	assert.Equal(t, 0.05, cfg.Dt)
	assert.Equal(t, integrators.Euler, cfg.Integrator)
	assert.Equal(t, 1.2, cfg.Pendulum.Theta1)
	assert.Equal(t, config.DefaultTheta, cfg.Pendulum.Theta2)
	assert.Equal(t, -0.5, cfg.Pendulum.Omega2)
	assert.Equal(t, 2.0, cfg.Pendulum.L2)
}

func TestResolveConfig_NBody(t *testing.T) {
	cfg, err := parse(t, config.ModelNBody, "--bodies", "7", "--bh-theta", "0.5", "--seed", "42")
	require.NoError(t, err)

	assert.Equal(t, config.ModelNBody, cfg.Model)
	assert.Equal(t, 7, cfg.NBody.Bodies)
	assert.Equal(t, 0.5, cfg.NBody.BarnesHutTheta)
	assert.Equal(t, int64(42), cfg.Seed)
}

func TestResolveConfig_Preset(t *testing.T) {
	cfg, err := parse(t, config.ModelDoublePendulum, "--preset", "chaos", "--time", "5")
	require.NoError(t, err)

	want := config.GetPreset(config.ModelDoublePendulum, "chaos")
	assert.Equal(t, want.Dt, cfg.Dt)
	assert.Equal(t, want.Pendulum.Theta1, cfg.Pendulum.Theta1)
	assert.Equal(t, 5.0, cfg.Duration)

	_, err = parse(t, config.ModelDoublePendulum, "--preset", "missing")
	assert.ErrorContains(t, err, "unknown preset")
}

func TestResolveConfig_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	file := config.DefaultConfig()
	file.Integrator = integrators.RK38
	file.Dt = 0.002
	require.NoError(t, config.Save(path, file))

	cfg, err := parse(t, config.ModelDoublePendulum, "--config", path, "--theta2", "0.1")
	require.NoError(t, err)
	assert.Equal(t, integrators.RK38, cfg.Integrator)
	assert.Equal(t, 0.002, cfg.Dt)
	assert.Equal(t, 0.1, cfg.Pendulum.Theta2)
}

func TestResolveConfig_Invalid(t *testing.T) {
	_, err := parse(t, config.ModelDoublePendulum, "--integrator", "leapfrog")
	assert.ErrorIs(t, err, dynamo.ErrUnknownMethod)

	_, err = parse(t, config.ModelDoublePendulum, "--dt", "0")
	assert.ErrorIs(t, err, dynamo.ErrParameterBounds)

	_, err = parse(t, "lorenz")
	assert.ErrorIs(t, err, dynamo.ErrParameterBounds)
}
