// Package analysis characterises simulated trajectories after the fact.
//
//   - [PowerSpectrum] and [DominantPeriod]: spectral content of an energy or
//     angle series, computed with go-dsp's real FFT
//   - [LyapunovExponent]: divergence rate of two nearby trajectories
//   - [NewPhasePortrait] and [NewPoincareSection]: 2D projections of recorded
//     observables, renderable as text
//
// A positive Lyapunov exponent indicates chaotic motion:
//
//	lambda, err := analysis.LyapunovExponent(ref, perturbed, 1e-8, 0.01, 10)
//	if err == nil && lambda > 0 {
//	    // chaotic
//	}
package analysis
