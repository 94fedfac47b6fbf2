package pendulum

import (
	"math"

	"github.com/san-kum/chaoslab/internal/dynamo"
	"github.com/san-kum/chaoslab/internal/vecmath"
)

// State holds the four angular degrees of freedom. It carries no masses or
// lengths and is used as the stage vehicle for Runge-Kutta composition.
type State struct {
	Theta1, Omega1 float64
	Theta2, Omega2 float64
}

func (s State) Add(o State) State {
	return State{
		Theta1: s.Theta1 + o.Theta1,
		Omega1: s.Omega1 + o.Omega1,
		Theta2: s.Theta2 + o.Theta2,
		Omega2: s.Omega2 + o.Omega2,
	}
}

func (s State) Scale(k float64) State {
	return State{
		Theta1: s.Theta1 * k,
		Omega1: s.Omega1 * k,
		Theta2: s.Theta2 * k,
		Omega2: s.Omega2 * k,
	}
}

func (s State) IsValid() bool {
	return s.Observables().IsValid()
}

// Observables flattens the state as [theta1, omega1, theta2, omega2].
func (s State) Observables() dynamo.State {
	return dynamo.State{s.Theta1, s.Omega1, s.Theta2, s.Omega2}
}

func (s State) angles() vecmath.Vec2 {
	return vecmath.Vec2{X: s.Theta1, Y: s.Theta2}
}

func (s State) velocities() vecmath.Vec2 {
	return vecmath.Vec2{X: s.Omega1, Y: s.Omega2}
}

func fromPairs(angles, velocities vecmath.Vec2) State {
	return State{
		Theta1: angles.X,
		Omega1: velocities.X,
		Theta2: angles.Y,
		Omega2: velocities.Y,
	}
}

// wrapAngle applies at most one 2π correction.
func wrapAngle(theta float64) float64 {
	if theta > 2*math.Pi {
		return theta - 2*math.Pi
	}
	if theta < -2*math.Pi {
		return theta + 2*math.Pi
	}
	return theta
}

func (s State) normalized() State {
	s.Theta1 = wrapAngle(s.Theta1)
	s.Theta2 = wrapAngle(s.Theta2)
	return s
}
