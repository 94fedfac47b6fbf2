package export

import (
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/san-kum/chaoslab/internal/dynamo"
)

// EnergyPlot writes total energy against time to path. The image format
// follows the file extension: png, svg, pdf, eps, jpg or tif.
func EnergyPlot(times, energies []float64, title, path string) error {
	if len(times) != len(energies) {
		return fmt.Errorf("%w: %d times, %d energies", dynamo.ErrDimensionMismatch, len(times), len(energies))
	}
	if len(times) < 2 {
		return fmt.Errorf("%w: need at least two samples to plot, got %d", dynamo.ErrParameterBounds, len(times))
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "t (s)"
	p.Y.Label.Text = "total energy"

	pts := make(plotter.XYs, len(times))
	for i := range times {
		pts[i].X = times[i]
		pts[i].Y = energies[i]
	}

	line, err := plotter.NewLine(pts)
	if err != nil {
		return err
	}
	line.LineStyle.Width = vg.Points(1.5)

	p.Add(plotter.NewGrid(), line)
	return p.Save(8*vg.Inch, 4*vg.Inch, path)
}
