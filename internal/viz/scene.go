package viz

import (
	"fmt"
	"math"

	"github.com/san-kum/chaoslab/internal/config"
	"github.com/san-kum/chaoslab/internal/experiment"
	"github.com/san-kum/chaoslab/internal/integrators"
	"github.com/san-kum/chaoslab/internal/nbody"
	"github.com/san-kum/chaoslab/internal/pendulum"
)

type Stat struct {
	Label, Value string
}

// Scene is a model the live viewer can step, draw and rewind.
type Scene interface {
	Name() string
	Step(h float64) error
	TotalEnergy() float64
	Draw(c *Canvas)
	Stats() []Stat
	Reset()
}

type point struct{ x, y int }

const trailLength = 200

type PendulumScene struct {
	initial pendulum.DoublePendulum
	p       pendulum.DoublePendulum
	method  integrators.Method
	trail   []point
}

// NewPendulumScene copies p; the caller's pendulum is never stepped.
func NewPendulumScene(p *pendulum.DoublePendulum, method integrators.Method) *PendulumScene {
	return &PendulumScene{initial: *p, p: *p, method: method}
}

func (s *PendulumScene) Name() string { return config.ModelDoublePendulum }

func (s *PendulumScene) Step(h float64) error { return s.p.Step(h, s.method) }

func (s *PendulumScene) TotalEnergy() float64 { return s.p.TotalEnergy() }

func (s *PendulumScene) Reset() {
	s.p = s.initial
	s.trail = s.trail[:0]
}

func (s *PendulumScene) Draw(c *Canvas) {
	cw, ch := c.Dots()
	cx, cy := cw/2, ch/2
	params := s.p.Params()
	scale := 0.9 * float64(min(cw, ch)) / 2 / (params.L1 + params.L2)

	bobs := s.p.BobCoordinates()
	b1x, b1y := cx+int(bobs.Bob1.X*scale), cy-int(bobs.Bob1.Y*scale)
	b2x, b2y := cx+int(bobs.Bob2.X*scale), cy-int(bobs.Bob2.Y*scale)

	s.trail = append(s.trail, point{b2x, b2y})
	if len(s.trail) > trailLength {
		s.trail = s.trail[1:]
	}
	for _, pt := range s.trail {
		c.Set(pt.x, pt.y)
	}

	c.Blob(cx, cy, 1)
	c.DrawLine(cx, cy, b1x, b1y)
	c.DrawLine(b1x, b1y, b2x, b2y)
	c.Blob(b1x, b1y, 1)
	c.Blob(b2x, b2y, 2)
}

func (s *PendulumScene) Stats() []Stat {
	st := s.p.State()
	return []Stat{
		{"Method", s.method.String()},
		{"θ1", fmt.Sprintf("%+.3f", st.Theta1)},
		{"θ2", fmt.Sprintf("%+.3f", st.Theta2)},
		{"KE", fmt.Sprintf("%.4f", s.p.KineticEnergy())},
		{"PE", fmt.Sprintf("%.4f", s.p.PotentialEnergy())},
		{"ΔE", fmt.Sprintf("%.2e", math.Abs(s.p.TotalEnergy()-s.p.PotentialEnergyMax()))},
	}
}

type NBodyScene struct {
	initial *nbody.System
	sys     *nbody.System
	extent  float64
}

// NewNBodyScene copies sys. The view is fixed on the initial spread of
// the bodies.
func NewNBodyScene(sys *nbody.System) *NBodyScene {
	extent := 0.0
	for _, p := range sys.Positions() {
		extent = max(extent, math.Abs(p.X), math.Abs(p.Y))
	}
	if extent == 0 {
		extent = 1
	}
	return &NBodyScene{initial: sys.Clone(), sys: sys.Clone(), extent: 1.5 * extent}
}

func (s *NBodyScene) Name() string { return config.ModelNBody }

func (s *NBodyScene) Step(h float64) error { return s.sys.Step(h) }

func (s *NBodyScene) TotalEnergy() float64 { return s.sys.TotalEnergy() }

func (s *NBodyScene) Reset() { s.sys = s.initial.Clone() }

func (s *NBodyScene) Draw(c *Canvas) {
	cw, ch := c.Dots()
	cx, cy := cw/2, ch/2
	scale := float64(min(cw, ch)) / 2 / s.extent

	for _, p := range s.sys.Positions() {
		c.Set(cx+int(p.X*scale), cy-int(p.Y*scale))
	}

	com := s.sys.CenterOfMass()
	c.Blob(cx+int(com.X*scale), cy-int(com.Y*scale), 1)
}

func (s *NBodyScene) Stats() []Stat {
	p := s.sys.Momentum()
	return []Stat{
		{"Bodies", fmt.Sprintf("%d", s.sys.Len())},
		{"KE", fmt.Sprintf("%.4g", s.sys.KineticEnergy())},
		{"PE", fmt.Sprintf("%.4g", s.sys.PotentialEnergy())},
		{"|p|", fmt.Sprintf("%.3g", p.Len())},
	}
}

// NewScene builds a scene for the model named in cfg.
func NewScene(cfg *config.Config) (Scene, error) {
	model, err := experiment.NewRegistry().Build(cfg)
	if err != nil {
		return nil, err
	}
	switch m := model.(type) {
	case *experiment.PendulumModel:
		return NewPendulumScene(m.DoublePendulum, m.Method), nil
	case *nbody.System:
		return NewNBodyScene(m), nil
	default:
		return nil, fmt.Errorf("no scene for model %q", cfg.Model)
	}
}
