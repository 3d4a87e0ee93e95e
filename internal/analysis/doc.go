// Package analysis computes summary statistics over phase trajectories.
//
// # Synchronization
//
// The Kuramoto order parameter measures global phase coherence:
//
//	z(t) = (1/N) Σ_j exp(iθ_j(t)),   r = |z|,   ψ = arg z
//
// r close to 1 means the population is phase locked; r close to 0 means
// phases are spread around the circle. [OrderSeries] evaluates it for every
// trajectory column and [Sweep] traces the synchronization transition by
// recording the time-averaged r over a range of coupling strengths.
//
// # Local entropy
//
// [LocalEntropy] assigns every oscillator and time step the Shannon entropy
// of the phases in its coupling window (the oscillator plus M neighbors on
// each side), histogrammed into q bins on [0, 2π) where
// q = max(2, |⌊(2M+1) cos θ_i⌋|).
//
// # Chimera states
//
// [DetectChimera] splits oscillators into a coherent group, whose mean
// velocity agrees with the population median, and a drifting remainder,
// using the first-stage derivative trace recorded by RK4.
//
// # Spectra
//
// [EffectiveFrequency] estimates each oscillator's dominant frequency from
// the FFT of sin θ_i(t) on a uniform grid.
package analysis
