package analysis

import (
	"fmt"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"gonum.org/v1/gonum/floats"
)

// PowerSpectrum returns the magnitude of the positive-frequency half of the
// discrete Fourier transform of data, after removing its mean. Bin k
// corresponds to frequency k/(n·dt).
func PowerSpectrum(data []float64) []float64 {
	n := len(data)
	if n < 2 {
		return nil
	}

	centered := make([]float64, n)
	copy(centered, data)
	floats.AddConst(-floats.Sum(centered)/float64(n), centered)

	spectrum := fft.FFTReal(centered)
	ps := make([]float64, n/2)
	for i := range ps {
		ps[i] = cmplx.Abs(spectrum[i])
	}
	return ps
}

// DominantPeriod returns the period of the strongest non-zero frequency in
// a series sampled every dt.
func DominantPeriod(data []float64, dt float64) (float64, error) {
	if !(dt > 0) {
		return 0, fmt.Errorf("sample interval must be positive, got %g", dt)
	}

	ps := PowerSpectrum(data)
	if len(ps) < 2 {
		return 0, fmt.Errorf("need at least 4 samples, got %d", len(data))
	}

	peak := floats.MaxIdx(ps[1:]) + 1
	if ps[peak] == 0 {
		return 0, fmt.Errorf("series has no oscillating component")
	}
	return float64(len(data)) * dt / float64(peak), nil
}
