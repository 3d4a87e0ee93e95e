package physics

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/kurasim/internal/dynamo"
)

// NoisePolicy selects how the per-step noise sample enters the derivative.
type NoisePolicy int

const (
	// NoisePerOscillator adds η_i once, outside the coupling average.
	NoisePerOscillator NoisePolicy = iota
	// NoisePerPair adds η_i inside the coupling sum once per neighbor, so it
	// is weighted by deg(i)/N.
	NoisePerPair
)

func (p NoisePolicy) String() string {
	switch p {
	case NoisePerOscillator:
		return "oscillator"
	case NoisePerPair:
		return "pair"
	default:
		return fmt.Sprintf("noise(%d)", int(p))
	}
}

func ParseNoisePolicy(s string) (NoisePolicy, error) {
	switch s {
	case "", "oscillator", "per_oscillator":
		return NoisePerOscillator, nil
	case "pair", "per_pair":
		return NoisePerPair, nil
	default:
		return 0, dynamo.Configf("unknown noise policy %q", s)
	}
}

// DelayedConfig describes a DelayedKuramoto. Noise may be nil for a
// noiseless run; otherwise it must be N×T for the grid being integrated.
type DelayedConfig struct {
	Frequencies []float64
	Depth       int
	Topology    Topology
	Matrices    *Matrices
	Noise       *mat.Dense
	NoisePolicy NoisePolicy
}

// DelayedKuramoto is the extended model:
//
//	dθ_i/dt = w_i + (1/N) Σ_{j∈nbr(i)} K_ij sin(θ_j[n−τ_ij] − θ_i + α_ij) + η_i[n]
//
// The delayed phase θ_j[n−τ_ij] is read from committed history, so τ_ij = 0
// refers to the column the current step starts from.
type DelayedKuramoto struct {
	omega  []float64
	depth  int
	topo   Topology
	nb     neighborhood
	k      []float64 // row-major N×N
	alpha  []float64 // row-major N×N
	tau    []int     // row-major N×N
	noise  *mat.Dense
	policy NoisePolicy
	scale  float64
}

func NewDelayedKuramoto(cfg DelayedConfig) (*DelayedKuramoto, error) {
	n := len(cfg.Frequencies)
	if err := ValidateDepth(n, cfg.Depth); err != nil {
		return nil, err
	}
	for i, w := range cfg.Frequencies {
		if math.IsNaN(w) || math.IsInf(w, 0) {
			return nil, dynamo.Configf("frequency %d is not finite", i)
		}
	}
	if err := cfg.Matrices.Validate(n); err != nil {
		return nil, err
	}
	if cfg.Noise != nil {
		if r, _ := cfg.Noise.Dims(); r != n {
			return nil, dynamo.Shapef("noise matrix has %d rows, want %d", r, n)
		}
	}

	d := &DelayedKuramoto{
		omega:  append([]float64(nil), cfg.Frequencies...),
		depth:  cfg.Depth,
		topo:   cfg.Topology,
		nb:     newNeighborhood(n, cfg.Depth, cfg.Topology),
		k:      make([]float64, n*n),
		alpha:  make([]float64, n*n),
		tau:    make([]int, n*n),
		noise:  cfg.Noise,
		policy: cfg.NoisePolicy,
		scale:  1,
	}
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			d.k[i*n+j] = cfg.Matrices.K.At(i, j)
			d.alpha[i*n+j] = cfg.Matrices.Alpha.At(i, j)
			d.tau[i*n+j] = cfg.Matrices.Tau[i][j]
		}
	}
	return d, nil
}

func (d *DelayedKuramoto) Size() int                { return len(d.omega) }
func (d *DelayedKuramoto) Depth() int               { return d.depth }
func (d *DelayedKuramoto) Topology() Topology       { return d.topo }
func (d *DelayedKuramoto) NoisePolicy() NoisePolicy { return d.policy }
func (d *DelayedKuramoto) Neighbors(i int) []int    { return d.nb.of(i) }

// RequiredHistory returns the largest delay over coupled pairs, the first
// step index from which integration may start.
func (d *DelayedKuramoto) RequiredHistory() int {
	n := len(d.omega)
	need := 0
	for i := 0; i < n; i++ {
		for _, j := range d.nb.of(i) {
			need = max(need, d.tau[i*n+j])
		}
	}
	return need
}

// Validate implements dynamo.Validator.
func (d *DelayedKuramoto) Validate(grid *dynamo.Grid, start int) error {
	n := len(d.omega)
	if d.noise != nil {
		if r, c := d.noise.Dims(); r != n || c != grid.Len() {
			return dynamo.Shapef("noise matrix is %dx%d, want %dx%d", r, c, n, grid.Len())
		}
	}
	for i := 0; i < n; i++ {
		for _, j := range d.nb.of(i) {
			if tau := d.tau[i*n+j]; tau > start {
				return dynamo.Configf("delay tau[%d][%d] = %d reaches before step 0 when starting at step %d", i, j, tau, start)
			}
		}
	}
	return nil
}

func (d *DelayedKuramoto) DeriveRange(dst dynamo.State, s dynamo.Snapshot, lo, hi int) error {
	if s.History == nil {
		return &dynamo.StepError{Step: s.Step, Time: s.T, Oscillator: -1,
			Wrapped: dynamo.Configf("delayed model requires phase history")}
	}
	n := len(d.omega)
	x := s.X
	invN := 1.0 / float64(n)
	for i := lo; i < hi; i++ {
		xi := x[i]
		var eta float64
		if d.noise != nil {
			eta = d.noise.At(i, s.Step)
		}
		var sum float64
		row := i * n
		for _, j := range d.nb.of(i) {
			xj, err := s.History.Phase(j, s.Step-d.tau[row+j])
			if err != nil {
				return &dynamo.StepError{Step: s.Step, Time: s.T, Oscillator: i, Wrapped: err}
			}
			sum += d.scale * d.k[row+j] * math.Sin(xj-xi+d.alpha[row+j])
			if d.policy == NoisePerPair {
				sum += eta
			}
		}
		dst[i] = d.omega[i] + sum*invN
		if d.policy == NoisePerOscillator {
			dst[i] += eta
		}
	}
	return nil
}

// GetParams implements dynamo.Configurable
func (d *DelayedKuramoto) GetParams() map[string]float64 {
	return map[string]float64{
		"depth":     float64(d.depth),
		"max_delay": float64(d.RequiredHistory()),
		"scale":     d.scale,
	}
}

// SetParam implements dynamo.Configurable. Only "scale" is supported: it
// multiplies every coupling weight K_ij.
func (d *DelayedKuramoto) SetParam(name string, value float64) error {
	switch name {
	case "scale":
		if math.IsNaN(value) || math.IsInf(value, 0) {
			return dynamo.Configf("coupling scale is not finite")
		}
		d.scale = value
	default:
		return dynamo.Configf("unknown parameter %q", name)
	}
	return nil
}
