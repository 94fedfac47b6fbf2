package export

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/chaoslab/internal/config"
	"github.com/san-kum/chaoslab/internal/dynamo"
	"github.com/san-kum/chaoslab/internal/viz"
)

func TestCanvasToSVG(t *testing.T) {
	c := viz.NewCanvas(2, 1)
	c.Set(0, 0)
	c.Set(3, 3)

	svg := CanvasToSVG(c, 10, "#00ff00")
	assert.Contains(t, svg, `width="40" height="40"`)
	assert.Contains(t, svg, `fill="#00ff00"`)
	assert.Equal(t, 2, strings.Count(svg, "<circle"))
	assert.Contains(t, svg, `<circle cx="5.0" cy="5.0" r="4.0"/>`)
	assert.Contains(t, svg, `<circle cx="35.0" cy="35.0" r="4.0"/>`)
	assert.True(t, strings.HasSuffix(svg, "</svg>\n"))

	assert.Empty(t, CanvasToSVG(nil, 1, "#fff"))
}

func TestSnapshot(t *testing.T) {
	cfg := config.GetPreset(config.ModelDoublePendulum, "gentle")
	scene, err := viz.NewScene(cfg)
	require.NoError(t, err)

	canvas, err := Snapshot(scene, cfg.Dt, 0.5, 30, 15)
	require.NoError(t, err)
	assert.Equal(t, 30, canvas.Width)
	assert.NotEqual(t, viz.NewCanvas(30, 15).String(), canvas.String())
}

type failingScene struct{ viz.Scene }

func (failingScene) Step(float64) error { return dynamo.ErrInvalidState }

func TestSnapshot_StepError(t *testing.T) {
	scene, err := viz.NewScene(config.DefaultConfig())
	require.NoError(t, err)

	_, err = Snapshot(failingScene{scene}, 0.01, 1, 10, 10)
	assert.ErrorIs(t, err, dynamo.ErrInvalidState)
}
