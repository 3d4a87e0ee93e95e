package physics

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// GaussianNoise returns an N×steps matrix of independent N(0, sigma²)
// samples, filled column by column. sigma == 0 yields a zero matrix.
func GaussianNoise(n, steps int, sigma float64, src rand.Source) *mat.Dense {
	out := mat.NewDense(n, steps, nil)
	if sigma == 0 {
		return out
	}
	dist := distuv.Normal{Mu: 0, Sigma: sigma, Src: src}
	for c := 0; c < steps; c++ {
		for i := 0; i < n; i++ {
			out.Set(i, c, dist.Rand())
		}
	}
	return out
}

// UniformPhases draws n phases uniformly on [0, 2π).
func UniformPhases(n int, src rand.Source) []float64 {
	return UniformFrequencies(n, 0, 2*math.Pi, src)
}

// UniformFrequencies draws n values uniformly on [lo, hi).
func UniformFrequencies(n int, lo, hi float64, src rand.Source) []float64 {
	out := make([]float64, n)
	if hi <= lo {
		for i := range out {
			out[i] = lo
		}
		return out
	}
	dist := distuv.Uniform{Min: lo, Max: hi, Src: src}
	for i := range out {
		out[i] = dist.Rand()
	}
	return out
}

// NormalFrequencies draws n values from N(mu, sigma²).
func NormalFrequencies(n int, mu, sigma float64, src rand.Source) []float64 {
	out := make([]float64, n)
	if sigma == 0 {
		for i := range out {
			out[i] = mu
		}
		return out
	}
	dist := distuv.Normal{Mu: mu, Sigma: sigma, Src: src}
	for i := range out {
		out[i] = dist.Rand()
	}
	return out
}
