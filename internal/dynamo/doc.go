// Package dynamo holds the pieces shared by every simulated system:
// the flat observable [State] vector and the domain errors.
//
//   - [State]: flat vector of observables (angles, velocities, positions)
//   - [ErrUnknownMethod], [ErrParameterBounds], ...: sentinel errors
//   - [SimulationError]: wraps a failure with the step and time it occurred
//
// # Example
//
//	x := dynamo.State{theta1, omega1, theta2, omega2}
//	if !x.IsValid() {
//	    return &dynamo.SimulationError{Step: i, Time: t, State: x, Wrapped: dynamo.ErrInvalidState}
//	}
package dynamo
