package metrics

import (
	"math"

	"github.com/san-kum/chaoslab/internal/dynamo"
)

// Energy reports the mean total energy over all observed samples.
type Energy struct {
	name    string
	samples int
	sum     float64
}

func NewEnergy() *Energy {
	return &Energy{name: "energy"}
}

func (e *Energy) Name() string { return e.name }

func (e *Energy) Observe(x dynamo.State, energy, t float64) {
	e.sum += energy
	e.samples++
}

func (e *Energy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.sum / float64(e.samples)
}

func (e *Energy) Reset() {
	e.sum = 0
	e.samples = 0
}

// EnergyDrift tracks the largest relative departure from the first
// observed energy. When the first sample is zero the drift is absolute.
type EnergyDrift struct {
	name          string
	initialEnergy float64
	maxDrift      float64
	samples       int
}

func NewEnergyDrift() *EnergyDrift {
	return &EnergyDrift{name: "energy_drift"}
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) Observe(x dynamo.State, energy, t float64) {
	if e.samples == 0 {
		e.initialEnergy = energy
	}
	e.samples++

	drift := math.Abs(energy - e.initialEnergy)
	if e.initialEnergy != 0 {
		drift /= math.Abs(e.initialEnergy)
	}
	e.maxDrift = math.Max(e.maxDrift, drift)
}

func (e *EnergyDrift) Value() float64 {
	return e.maxDrift
}

func (e *EnergyDrift) Reset() {
	e.initialEnergy = 0
	e.maxDrift = 0
	e.samples = 0
}

// Deviation is the largest absolute difference between the observed
// energy and a fixed reference, such as a pendulum's initial energy.
type Deviation struct {
	name      string
	reference float64
	max       float64
}

func NewDeviation(reference float64) *Deviation {
	return &Deviation{name: "energy_deviation", reference: reference}
}

func (d *Deviation) Name() string { return d.name }

func (d *Deviation) Observe(x dynamo.State, energy, t float64) {
	dev := math.Abs(energy - d.reference)
	if math.IsNaN(dev) {
		d.max = math.Inf(1)
		return
	}
	d.max = math.Max(d.max, dev)
}

func (d *Deviation) Value() float64 { return d.max }

func (d *Deviation) Reset() { d.max = 0 }
