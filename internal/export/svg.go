// Package export writes rendered scenes and energy series out as images.
package export

import (
	"fmt"
	"strings"

	"github.com/san-kum/chaoslab/internal/viz"
)

// CanvasToSVG draws every lit dot of canvas as a circle. Each dot spans
// scale SVG units.
func CanvasToSVG(canvas *viz.Canvas, scale float64, color string) string {
	if canvas == nil {
		return ""
	}

	dw, dh := canvas.Dots()
	width := float64(dw) * scale
	height := float64(dh) * scale

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<g fill="%s">
`, width, height, width, height, color)

	r := scale * 0.4
	for y := 0; y < dh; y++ {
		for x := 0; x < dw; x++ {
			if !canvas.IsSet(x, y) {
				continue
			}
			cx := float64(x)*scale + scale/2
			cy := float64(y)*scale + scale/2
			fmt.Fprintf(&sb, "<circle cx=\"%.1f\" cy=\"%.1f\" r=\"%.1f\"/>\n", cx, cy, r)
		}
	}

	sb.WriteString("</g>\n</svg>\n")
	return sb.String()
}

// Snapshot steps scene for duration with step dt and draws the final frame
// on a canvas of w×h cells.
func Snapshot(scene viz.Scene, dt, duration float64, w, h int) (*viz.Canvas, error) {
	canvas := viz.NewCanvas(w, h)
	for t := 0.0; t < duration; t += dt {
		if err := scene.Step(dt); err != nil {
			return nil, fmt.Errorf("snapshot at t=%.3f: %w", t, err)
		}
	}
	scene.Draw(canvas)
	return canvas, nil
}
