package experiment

import (
	"github.com/san-kum/chaoslab/internal/dynamo"
	"github.com/san-kum/chaoslab/internal/integrators"
	"github.com/san-kum/chaoslab/internal/pendulum"
)

// PendulumModel drives a double pendulum with a fixed integration method.
type PendulumModel struct {
	*pendulum.DoublePendulum
	Method integrators.Method
}

func NewPendulumModel(p *pendulum.DoublePendulum, method integrators.Method) *PendulumModel {
	return &PendulumModel{DoublePendulum: p, Method: method}
}

func (m *PendulumModel) Step(h float64) error {
	return m.DoublePendulum.Step(h, m.Method)
}

func (m *PendulumModel) Observables() dynamo.State {
	return m.State().Observables()
}

// Clone returns an independent copy sharing nothing with m.
func (m *PendulumModel) Clone() *PendulumModel {
	p := *m.DoublePendulum
	return &PendulumModel{DoublePendulum: &p, Method: m.Method}
}
