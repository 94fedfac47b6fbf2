package analysis

import (
	"fmt"
	"strings"

	"github.com/san-kum/chaoslab/internal/dynamo"
)

type Point struct {
	X, Y float64
}

// PhasePortrait projects recorded observables onto two of their components.
type PhasePortrait struct {
	XIndex, YIndex int
	Points         []Point
}

func NewPhasePortrait(states []dynamo.State, xIdx, yIdx int) (*PhasePortrait, error) {
	if err := checkIndices(states, xIdx, yIdx); err != nil {
		return nil, err
	}

	portrait := &PhasePortrait{
		XIndex: xIdx,
		YIndex: yIdx,
		Points: make([]Point, 0, len(states)),
	}
	for _, x := range states {
		portrait.Points = append(portrait.Points, Point{X: x[xIdx], Y: x[yIdx]})
	}
	return portrait, nil
}

// NewPoincareSection keeps the (recordX, recordY) projection of every
// sample at which component crossIdx passes upward through threshold.
func NewPoincareSection(states []dynamo.State, crossIdx int, threshold float64, recordX, recordY int) (*PhasePortrait, error) {
	if err := checkIndices(states, crossIdx, recordX, recordY); err != nil {
		return nil, err
	}

	section := &PhasePortrait{XIndex: recordX, YIndex: recordY}
	for i := 1; i < len(states); i++ {
		prev, curr := states[i-1][crossIdx], states[i][crossIdx]
		if prev < threshold && curr >= threshold {
			section.Points = append(section.Points, Point{X: states[i][recordX], Y: states[i][recordY]})
		}
	}
	return section, nil
}

func checkIndices(states []dynamo.State, indices ...int) error {
	for i, x := range states {
		for _, idx := range indices {
			if idx < 0 || idx >= len(x) {
				return fmt.Errorf("%w: index %d out of range for sample %d of length %d",
					dynamo.ErrDimensionMismatch, idx, i, len(x))
			}
		}
	}
	return nil
}

// ASCII renders the points on a width×height character grid with axes
// drawn where zero is in view.
func (p *PhasePortrait) ASCII(width, height int) string {
	if p == nil || len(p.Points) == 0 || width < 2 || height < 2 {
		return ""
	}

	minX, maxX := p.Points[0].X, p.Points[0].X
	minY, maxY := p.Points[0].Y, p.Points[0].Y
	for _, pt := range p.Points {
		minX, maxX = min(minX, pt.X), max(maxX, pt.X)
		minY, maxY = min(minY, pt.Y), max(maxY, pt.Y)
	}

	rangeX, rangeY := maxX-minX, maxY-minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	minY -= rangeY * 0.1
	rangeX *= 1.2
	rangeY *= 1.2

	grid := make([][]rune, height)
	for i := range grid {
		grid[i] = []rune(strings.Repeat(" ", width))
	}

	toCol := func(x float64) int { return int((x - minX) / rangeX * float64(width-1)) }
	toRow := func(y float64) int { return height - 1 - int((y-minY)/rangeY*float64(height-1)) }

	for _, pt := range p.Points {
		row, col := toRow(pt.Y), toCol(pt.X)
		if row >= 0 && row < height && col >= 0 && col < width {
			grid[row][col] = '•'
		}
	}

	if minX <= 0 && minX+rangeX >= 0 {
		col := toCol(0)
		for row := range grid {
			if grid[row][col] == ' ' {
				grid[row][col] = '│'
			}
		}
	}
	if minY <= 0 && minY+rangeY >= 0 {
		row := toRow(0)
		for col := range grid[row] {
			if grid[row][col] == ' ' {
				grid[row][col] = '─'
			}
		}
	}

	var sb strings.Builder
	for _, row := range grid {
		sb.WriteString(string(row))
		sb.WriteRune('\n')
	}
	return sb.String()
}
