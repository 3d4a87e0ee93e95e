package dynamo

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Trajectory is an N×T phase buffer stored column-major, so each time
// column is a contiguous snapshot. Columns are finalized left to right and
// never rewritten.
type Trajectory struct {
	n, steps  int
	data      []float64
	finalized int // index of the last finalized column, -1 when empty
}

func NewTrajectory(n, steps int) (*Trajectory, error) {
	if n <= 0 {
		return nil, Configf("oscillator count must be positive, got %d", n)
	}
	if steps < 2 {
		return nil, Configf("trajectory needs at least 2 columns, got %d", steps)
	}
	return &Trajectory{
		n:         n,
		steps:     steps,
		data:      make([]float64, n*steps),
		finalized: -1,
	}, nil
}

func (tr *Trajectory) N() int         { return tr.n }
func (tr *Trajectory) Steps() int     { return tr.steps }
func (tr *Trajectory) Finalized() int { return tr.finalized }

// SetInitial fills column 0. It may only be called on an empty trajectory.
func (tr *Trajectory) SetInitial(theta0 []float64) error {
	if tr.finalized >= 0 {
		return Configf("initial condition already set")
	}
	_, err := tr.Commit(theta0)
	return err
}

// HoldInitial copies column 0 into columns 1..upTo, giving a constant
// pre-history for delayed models that start stepping at upTo.
func (tr *Trajectory) HoldInitial(upTo int) error {
	if tr.finalized < 0 {
		return Configf("initial condition not set")
	}
	if upTo >= tr.steps-1 {
		return Configf("history length %d leaves no step to integrate (T=%d)", upTo, tr.steps)
	}
	x0 := tr.col(0)
	for tr.finalized < upTo {
		if _, err := tr.Commit(x0); err != nil {
			return err
		}
	}
	return nil
}

// Commit finalizes the next column with a copy of col and returns its index.
func (tr *Trajectory) Commit(col []float64) (int, error) {
	if len(col) != tr.n {
		return -1, Shapef("column length %d != oscillators %d", len(col), tr.n)
	}
	next := tr.finalized + 1
	if next >= tr.steps {
		return -1, fmt.Errorf("%w: trajectory full (%d columns)", ErrIndexOutOfRange, tr.steps)
	}
	copy(tr.data[next*tr.n:(next+1)*tr.n], col)
	tr.finalized = next
	return next, nil
}

// col returns the storage of column n without bounds checks.
func (tr *Trajectory) col(n int) State {
	return tr.data[n*tr.n : (n+1)*tr.n : (n+1)*tr.n]
}

// View returns a read-only view of finalized column n. Callers must not
// modify it.
func (tr *Trajectory) View(n int) (State, error) {
	if n < 0 || n > tr.finalized {
		return nil, fmt.Errorf("%w: column %d (finalized %d)", ErrIndexOutOfRange, n, tr.finalized)
	}
	return tr.col(n), nil
}

// Column returns a copy of finalized column n.
func (tr *Trajectory) Column(n int) (State, error) {
	v, err := tr.View(n)
	if err != nil {
		return nil, err
	}
	return v.Clone(), nil
}

// Phase implements History.
func (tr *Trajectory) Phase(j, n int) (float64, error) {
	if j < 0 || j >= tr.n {
		return 0, fmt.Errorf("%w: oscillator %d of %d", ErrIndexOutOfRange, j, tr.n)
	}
	if n < 0 || n > tr.finalized {
		return 0, fmt.Errorf("%w: step %d (finalized %d)", ErrIndexOutOfRange, n, tr.finalized)
	}
	return tr.data[n*tr.n+j], nil
}

// At returns θ_i at column n. Unfinalized columns read as zero.
func (tr *Trajectory) At(i, n int) float64 {
	return tr.data[n*tr.n+i]
}

// Row returns a copy of oscillator i's phases across all columns.
func (tr *Trajectory) Row(i int) []float64 {
	row := make([]float64, tr.steps)
	for n := range row {
		row[n] = tr.data[n*tr.n+i]
	}
	return row
}

// Matrix returns an N×T view sharing the trajectory storage.
func (tr *Trajectory) Matrix() mat.Matrix {
	return mat.NewDense(tr.steps, tr.n, tr.data).T()
}

// Wrapped returns an N×T copy with every phase reduced to [0, 2π).
func (tr *Trajectory) Wrapped() *mat.Dense {
	out := mat.NewDense(tr.n, tr.steps, nil)
	for n := 0; n < tr.steps; n++ {
		for i := 0; i < tr.n; i++ {
			out.Set(i, n, Wrap(tr.data[n*tr.n+i]))
		}
	}
	return out
}

// Wrap reduces a phase to [0, 2π).
func Wrap(theta float64) float64 {
	w := math.Mod(theta, 2*math.Pi)
	if w < 0 {
		w += 2 * math.Pi
	}
	return w
}
