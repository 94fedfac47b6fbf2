package dynamo

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// State is a flat vector of observables. Models export their current
// configuration through it so runners and metrics stay model agnostic.
type State []float64

func (s State) Clone() State {
	return append(State(nil), s...)
}

// Add returns s+o. Entries of s beyond len(o) are copied unchanged.
func (s State) Add(o State) State {
	out := s.Clone()
	n := min(len(s), len(o))
	floats.Add(out[:n], o[:n])
	return out
}

// Sub returns s-o with the same length rule as Add.
func (s State) Sub(o State) State {
	out := s.Clone()
	n := min(len(s), len(o))
	floats.Sub(out[:n], o[:n])
	return out
}

func (s State) Scale(k float64) State {
	out := make(State, len(s))
	floats.ScaleTo(out, k, s)
	return out
}

// IsValid reports whether every entry is finite.
func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Norm is the Euclidean length of s.
func (s State) Norm() float64 {
	return floats.Norm(s, 2)
}

// Distance is the Euclidean distance between two states of equal length.
func (s State) Distance(o State) (float64, error) {
	if len(s) != len(o) {
		return 0, fmt.Errorf("%w: %d vs %d observables", ErrDimensionMismatch, len(s), len(o))
	}
	return floats.Distance(s, o, 2), nil
}

// MaxAbs returns the largest magnitude in s, NaN if any entry is NaN and
// zero for an empty state.
func (s State) MaxAbs() float64 {
	m := 0.0
	for _, v := range s {
		if math.IsNaN(v) {
			return math.NaN()
		}
		m = max(m, math.Abs(v))
	}
	return m
}
