package dynamo

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidState      = errors.New("dynamo: non-finite state")
	ErrUnknownMethod     = errors.New("dynamo: unknown integration method")
	ErrParameterBounds   = errors.New("dynamo: parameter out of bounds")
	ErrContextCanceled   = errors.New("dynamo: run canceled")
	ErrDimensionMismatch = errors.New("dynamo: dimension mismatch")
)

// SimulationError records where in a run a failure happened. State holds
// the last observables before the failing step, or the offending ones for
// ErrInvalidState.
type SimulationError struct {
	Step    int
	Time    float64
	State   State
	Wrapped error
}

func (e *SimulationError) Error() string {
	return fmt.Sprintf("step %d at t=%.4fs: %v", e.Step, e.Time, e.Wrapped)
}

func (e *SimulationError) Unwrap() error { return e.Wrapped }
