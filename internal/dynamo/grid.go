package dynamo

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Grid is an immutable, strictly increasing sequence of time points.
type Grid struct {
	t []float64
}

// NewGrid validates and copies points.
func NewGrid(points []float64) (*Grid, error) {
	if len(points) < 2 {
		return nil, Configf("time grid needs at least 2 points, got %d", len(points))
	}
	t := make([]float64, len(points))
	copy(t, points)
	for n, v := range t {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, Configf("time grid point %d is not finite", n)
		}
		if n > 0 && v <= t[n-1] {
			return nil, Configf("time grid not strictly increasing at %d (%g <= %g)", n, v, t[n-1])
		}
	}
	return &Grid{t: t}, nil
}

// Uniform returns steps evenly spaced points from t0 to tf inclusive.
func Uniform(t0, tf float64, steps int) (*Grid, error) {
	if steps < 2 {
		return nil, Configf("time grid needs at least 2 points, got %d", steps)
	}
	if !(tf > t0) {
		return nil, Configf("time grid end %g must exceed start %g", tf, t0)
	}
	t := make([]float64, steps)
	floats.Span(t, t0, tf)
	return NewGrid(t)
}

func (g *Grid) Len() int           { return len(g.t) }
func (g *Grid) At(n int) float64   { return g.t[n] }
func (g *Grid) Start() float64     { return g.t[0] }
func (g *Grid) End() float64       { return g.t[len(g.t)-1] }
func (g *Grid) Step(n int) float64 { return g.t[n+1] - g.t[n] }
func (g *Grid) Points() []float64  { return append([]float64(nil), g.t...) }
func (g *Grid) Duration() float64  { return g.End() - g.Start() }

// IsUniform reports whether all steps agree within a relative tolerance.
func (g *Grid) IsUniform(tol float64) bool {
	h := g.Step(0)
	for n := 1; n < len(g.t)-1; n++ {
		if math.Abs(g.Step(n)-h) > tol*math.Abs(h) {
			return false
		}
	}
	return true
}
