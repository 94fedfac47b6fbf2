package metrics

import (
	"github.com/san-kum/chaoslab/internal/dynamo"
)

// Stability is the fraction of observed samples whose largest observable
// magnitude stays within a bound. Non-finite samples count as unstable; a
// metric with no samples reports 1.
type Stability struct {
	bound    float64
	samples  int
	unstable int
}

func NewStability(bound float64) *Stability {
	return &Stability{bound: bound}
}

func (s *Stability) Name() string { return "stability" }

func (s *Stability) Observe(x dynamo.State, energy, t float64) {
	s.samples++
	if !(x.MaxAbs() <= s.bound) {
		s.unstable++
	}
}

func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 1
	}
	return float64(s.samples-s.unstable) / float64(s.samples)
}

func (s *Stability) Reset() { s.samples, s.unstable = 0, 0 }
