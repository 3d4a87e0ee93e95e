package analysis

import (
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/kurasim/internal/dynamo"
)

// Order returns the complex mean of exp(iθ_j) over phases.
func Order(phases []float64) complex128 {
	if len(phases) == 0 {
		return 0
	}
	var re, im float64
	for _, th := range phases {
		s, c := math.Sincos(th)
		re += c
		im += s
	}
	n := float64(len(phases))
	return complex(re/n, im/n)
}

// OrderParameter holds r(t), ψ(t) and z(t) for a trajectory.
type OrderParameter struct {
	R   []float64
	Psi []float64
	Z   []complex128
}

// OrderSeries evaluates the order parameter for every finalized column.
func OrderSeries(traj *dynamo.Trajectory) OrderParameter {
	cols := traj.Finalized() + 1
	op := OrderParameter{
		R:   make([]float64, cols),
		Psi: make([]float64, cols),
		Z:   make([]complex128, cols),
	}
	for n := 0; n < cols; n++ {
		x, _ := traj.View(n)
		z := Order(x)
		op.Z[n] = z
		op.R[n] = cmplx.Abs(z)
		op.Psi[n] = cmplx.Phase(z)
	}
	return op
}

// MeanR averages r over columns [from, len(R)).
func (op OrderParameter) MeanR(from int) float64 {
	if from < 0 {
		from = 0
	}
	if from >= len(op.R) {
		return math.NaN()
	}
	return stat.Mean(op.R[from:], nil)
}

// Final returns r and ψ at the last column.
func (op OrderParameter) Final() (r, psi float64) {
	if len(op.R) == 0 {
		return math.NaN(), math.NaN()
	}
	last := len(op.R) - 1
	return op.R[last], op.Psi[last]
}
