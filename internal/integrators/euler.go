package integrators

// Vector is a state that supports the linear combinations the integrators
// need. Implementations return new values and never mutate the receiver.
type Vector[S any] interface {
	Add(S) S
	Scale(float64) S
}

// Derivative evaluates dx/dt at an arbitrary state.
type Derivative[S any] func(x S) S

// Acceleration evaluates the second derivative of a mechanical system
// from its generalized positions and velocities.
type Acceleration[V any] func(pos, vel V) V

// EulerStep advances x by one explicit Euler step: every component moves
// along the derivative evaluated at the start of the step.
func EulerStep[S Vector[S]](f Derivative[S], x S, h float64) S {
	return x.Add(f(x).Scale(h))
}

// SemiImplicitEulerStep updates the velocity first and then moves the
// position with the new velocity.
func SemiImplicitEulerStep[V Vector[V]](acc Acceleration[V], pos, vel V, h float64) (V, V) {
	vel = vel.Add(acc(pos, vel).Scale(h))
	pos = pos.Add(vel.Scale(h))
	return pos, vel
}
