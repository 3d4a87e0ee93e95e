package analysis

import (
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"

	"github.com/san-kum/kurasim/internal/dynamo"
)

// PowerSpectrum returns |X_k| for k in [0, len/2) of the real FFT of data.
func PowerSpectrum(data []float64) []float64 {
	spec := fft.FFTReal(data)
	ps := make([]float64, len(spec)/2)
	for i := range ps {
		ps[i] = cmplx.Abs(spec[i])
	}
	return ps
}

// EffectiveFrequency estimates each oscillator's angular frequency from the
// dominant FFT bin of sin θ_i(t), skipping the DC bin. Needs a uniform grid
// and a fully finalized trajectory.
func EffectiveFrequency(traj *dynamo.Trajectory, grid *dynamo.Grid) ([]float64, error) {
	if !grid.IsUniform(1e-9) {
		return nil, dynamo.Configf("spectral estimate needs a uniform time grid")
	}
	if traj.Finalized() != traj.Steps()-1 {
		return nil, dynamo.Configf("trajectory incomplete (%d of %d columns)", traj.Finalized()+1, traj.Steps())
	}
	steps := traj.Steps()
	if steps < 4 {
		return nil, dynamo.Configf("spectral estimate needs at least 4 samples, got %d", steps)
	}

	dt := grid.Step(0)
	out := make([]float64, traj.N())
	series := make([]float64, steps)
	for i := range out {
		for n := range series {
			series[n] = math.Sin(traj.At(i, n))
		}
		ps := PowerSpectrum(series)
		peak := 1
		for k := 2; k < len(ps); k++ {
			if ps[k] > ps[peak] {
				peak = k
			}
		}
		out[i] = 2 * math.Pi * float64(peak) / (float64(steps) * dt)
	}
	return out, nil
}

// MeanFrequency returns (θ_i(end) − θ_i(0)) / duration for every oscillator,
// which is exact for unwrapped phases.
func MeanFrequency(traj *dynamo.Trajectory, grid *dynamo.Grid) []float64 {
	last := traj.Finalized()
	out := make([]float64, traj.N())
	if last <= 0 {
		return out
	}
	span := grid.At(last) - grid.Start()
	for i := range out {
		out[i] = (traj.At(i, last) - traj.At(i, 0)) / span
	}
	return out
}
