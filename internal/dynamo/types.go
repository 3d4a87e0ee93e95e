package dynamo

import (
	"math"
)

type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// FirstInvalid returns the index of the first NaN or Inf entry, or -1.
func (s State) FirstInvalid() int {
	for i, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return i
		}
	}
	return -1
}

func (s State) Norm() float64 {
	sum := 0.0
	for _, v := range s {
		sum += v * v
	}
	return math.Sqrt(sum)
}

// History gives read access to finalized trajectory columns.
type History interface {
	// Phase returns the phase of oscillator j at grid step n.
	Phase(j, n int) (float64, error)
	// Finalized returns the index of the last finalized column.
	Finalized() int
}

// Snapshot is the argument of a single derivative evaluation.
// X is the (possibly intermediate) stage state, Step the grid index of
// the step being advanced.
type Snapshot struct {
	X       State
	T       float64
	Step    int
	History History
}

// System is a phase model. DeriveRange writes dθ/dt for oscillators
// [lo, hi) into dst[lo:hi] and must not touch any other entry.
type System interface {
	Size() int
	DeriveRange(dst State, s Snapshot, lo, hi int) error
}

// Validator is implemented by systems that must check their
// configuration against the grid before any stepping occurs.
// start is the first step index the integrator will advance from.
type Validator interface {
	Validate(grid *Grid, start int) error
}

// Configurable exposes tunable scalar parameters.
type Configurable interface {
	GetParams() map[string]float64
	SetParam(name string, value float64) error
}

// Observer is notified after every finalized column. x must not be retained.
type Observer interface {
	OnStep(n int, t float64, x State)
}
