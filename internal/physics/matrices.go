package physics

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/kurasim/internal/dynamo"
)

// maxRandomDelay is the exclusive upper bound of randomly drawn delays,
// the integer part of 2π.
const maxRandomDelay = 6

// Matrices holds the per-pair parameters of the delayed model: coupling K,
// integer delays Tau in grid steps, and dephasing Alpha. All are N×N.
type Matrices struct {
	K     *mat.Dense
	Tau   [][]int
	Alpha *mat.Dense
}

// ZeroMatrices returns all-zero N×N matrices.
func ZeroMatrices(n int) *Matrices {
	tau := make([][]int, n)
	for i := range tau {
		tau[i] = make([]int, n)
	}
	return &Matrices{
		K:     mat.NewDense(n, n, nil),
		Tau:   tau,
		Alpha: mat.NewDense(n, n, nil),
	}
}

// RandomMatrices draws K and Alpha uniformly on [0, 2π) and Tau uniformly
// on {0, …, 5}, each from its own stream.
func RandomMatrices(n int, streams *Streams) (*Matrices, error) {
	if n <= 0 {
		return nil, dynamo.Configf("oscillator count must be positive, got %d", n)
	}
	m := ZeroMatrices(n)

	kSrc := streams.Source(StreamCoupling)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			m.K.Set(i, j, kSrc.Float64()*2*math.Pi)
		}
	}
	tauSrc := streams.Source(StreamDelay)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			m.Tau[i][j] = tauSrc.IntN(maxRandomDelay)
		}
	}
	aSrc := streams.Source(StreamDephasing)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			m.Alpha.Set(i, j, aSrc.Float64()*2*math.Pi)
		}
	}
	return m, nil
}

// NeighborCoupling returns K with kappa on every neighbor pair and zero
// elsewhere, with zero delay and dephasing.
func NeighborCoupling(n, depth int, kappa float64, topo Topology) (*Matrices, error) {
	if err := ValidateDepth(n, depth); err != nil {
		return nil, err
	}
	m := ZeroMatrices(n)
	nb := newNeighborhood(n, depth, topo)
	for i := 0; i < n; i++ {
		for _, j := range nb.of(i) {
			m.K.Set(i, j, kappa)
		}
	}
	return m, nil
}

// Validate checks shapes and entry ranges against n oscillators.
func (m *Matrices) Validate(n int) error {
	if m == nil || m.K == nil || m.Alpha == nil {
		return dynamo.Configf("coupling, delay and dephasing matrices are required")
	}
	if r, c := m.K.Dims(); r != n || c != n {
		return dynamo.Shapef("coupling matrix is %dx%d, want %dx%d", r, c, n, n)
	}
	if r, c := m.Alpha.Dims(); r != n || c != n {
		return dynamo.Shapef("dephasing matrix is %dx%d, want %dx%d", r, c, n, n)
	}
	if len(m.Tau) != n {
		return dynamo.Shapef("delay matrix has %d rows, want %d", len(m.Tau), n)
	}
	for i, row := range m.Tau {
		if len(row) != n {
			return dynamo.Shapef("delay matrix row %d has %d entries, want %d", i, len(row), n)
		}
		for j, d := range row {
			if d < 0 {
				return dynamo.Configf("delay tau[%d][%d] = %d is negative", i, j, d)
			}
		}
	}
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if v := m.K.At(i, j); math.IsNaN(v) || math.IsInf(v, 0) {
				return dynamo.Configf("coupling K[%d][%d] is not finite", i, j)
			}
			if v := m.Alpha.At(i, j); math.IsNaN(v) || math.IsInf(v, 0) {
				return dynamo.Configf("dephasing alpha[%d][%d] is not finite", i, j)
			}
		}
	}
	return nil
}

// MaxDelay returns the largest entry of Tau.
func (m *Matrices) MaxDelay() int {
	largest := 0
	for _, row := range m.Tau {
		for _, d := range row {
			largest = max(largest, d)
		}
	}
	return largest
}
