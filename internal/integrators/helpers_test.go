package integrators

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/san-kum/kurasim/internal/dynamo"
	"github.com/san-kum/kurasim/internal/physics"
)

func newTrajectory(t testing.TB, theta0 []float64, steps int) *dynamo.Trajectory {
	t.Helper()
	tr, err := dynamo.NewTrajectory(len(theta0), steps)
	require.NoError(t, err)
	require.NoError(t, tr.SetInitial(theta0))
	return tr
}

func run(t testing.TB, sys dynamo.System, method Method, grid *dynamo.Grid, theta0 []float64, cfg Config) *Result {
	t.Helper()
	res, err := Integrate(context.Background(), sys, method, grid, newTrajectory(t, theta0, grid.Len()), cfg)
	require.NoError(t, err)
	return res
}

func uniform(t testing.TB, t0, tf float64, steps int) *dynamo.Grid {
	t.Helper()
	g, err := dynamo.Uniform(t0, tf, steps)
	require.NoError(t, err)
	return g
}

func spreadPhases(n int) []float64 {
	theta := make([]float64, n)
	for i := range theta {
		theta[i] = math.Mod(float64(i)*2.399963, 2*math.Pi)
	}
	return theta
}

func kuramoto(t testing.TB, omega []float64, depth int, kappa float64) *physics.Kuramoto {
	t.Helper()
	k, err := physics.NewKuramoto(omega, depth, kappa, physics.OpenChain)
	require.NoError(t, err)
	return k
}

// countingObserver records every notification.
type countingObserver struct {
	steps []int
	times []float64
}

func (o *countingObserver) OnStep(n int, t float64, _ dynamo.State) {
	o.steps = append(o.steps, n)
	o.times = append(o.times, t)
}

// poisoned returns NaN derivatives from step from onwards.
type poisoned struct {
	n    int
	from int
}

func (p *poisoned) Size() int { return p.n }

func (p *poisoned) DeriveRange(dst dynamo.State, s dynamo.Snapshot, lo, hi int) error {
	for i := lo; i < hi; i++ {
		dst[i] = 1
		if s.Step >= p.from && i == p.n-1 {
			dst[i] = math.NaN()
		}
	}
	return nil
}
