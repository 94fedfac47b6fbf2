package sim

import "github.com/san-kum/chaoslab/internal/dynamo"

// Model is a simulated system that advances itself by a step of size h and
// reports its energy and flattened observables.
type Model interface {
	Step(h float64) error
	TotalEnergy() float64
	Observables() dynamo.State
}

type Metric interface {
	Name() string
	Observe(x dynamo.State, energy, t float64)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(x dynamo.State, energy, t float64)
}

type ObserverFunc func(x dynamo.State, energy, t float64)

func (f ObserverFunc) OnStep(x dynamo.State, energy, t float64) { f(x, energy, t) }

type Config struct {
	Dt            float64
	Duration      float64
	ValidateState bool
	// RecordStates keeps a copy of the observables at every sample.
	RecordStates bool
	// SampleEvery records every n-th step into the result series; the
	// initial and final samples are always kept. Zero means every step.
	SampleEvery int
}

type Result struct {
	Times    []float64
	Energies []float64
	States   []dynamo.State
	Metrics  map[string]float64

	InitialEnergy float64
	FinalEnergy   float64
	EnergyDrift   float64
	StepsTaken    int
	Errors        []error
}
