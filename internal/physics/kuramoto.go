package physics

import (
	"math"

	"github.com/san-kum/kurasim/internal/dynamo"
)

// Kuramoto is the basic model with a single coupling strength:
//
//	dθ_i/dt = w_i + (1/N) Σ_{j∈nbr(i)} κ sin(θ_j − θ_i)
type Kuramoto struct {
	omega []float64
	depth int
	kappa float64
	topo  Topology
	nb    neighborhood
}

func NewKuramoto(omega []float64, depth int, kappa float64, topo Topology) (*Kuramoto, error) {
	n := len(omega)
	if err := ValidateDepth(n, depth); err != nil {
		return nil, err
	}
	for i, w := range omega {
		if math.IsNaN(w) || math.IsInf(w, 0) {
			return nil, dynamo.Configf("frequency %d is not finite", i)
		}
	}
	if math.IsNaN(kappa) || math.IsInf(kappa, 0) {
		return nil, dynamo.Configf("coupling strength is not finite")
	}
	return &Kuramoto{
		omega: append([]float64(nil), omega...),
		depth: depth,
		kappa: kappa,
		topo:  topo,
		nb:    newNeighborhood(n, depth, topo),
	}, nil
}

func (k *Kuramoto) Size() int              { return len(k.omega) }
func (k *Kuramoto) Depth() int             { return k.depth }
func (k *Kuramoto) Kappa() float64         { return k.kappa }
func (k *Kuramoto) Topology() Topology     { return k.topo }
func (k *Kuramoto) Frequencies() []float64 { return append([]float64(nil), k.omega...) }

// Neighbors returns the oscillators coupled to i. The slice must not be modified.
func (k *Kuramoto) Neighbors(i int) []int { return k.nb.of(i) }

func (k *Kuramoto) DeriveRange(dst dynamo.State, s dynamo.Snapshot, lo, hi int) error {
	x := s.X
	invN := 1.0 / float64(len(k.omega))
	for i := lo; i < hi; i++ {
		xi := x[i]
		var sum float64
		for _, j := range k.nb.of(i) {
			sum += k.kappa * math.Sin(x[j]-xi)
		}
		dst[i] = k.omega[i] + sum*invN
	}
	return nil
}

// GetParams implements dynamo.Configurable
func (k *Kuramoto) GetParams() map[string]float64 {
	return map[string]float64{
		"kappa": k.kappa,
		"depth": float64(k.depth),
	}
}

// SetParam implements dynamo.Configurable
func (k *Kuramoto) SetParam(name string, value float64) error {
	switch name {
	case "kappa":
		if math.IsNaN(value) || math.IsInf(value, 0) {
			return dynamo.Configf("coupling strength is not finite")
		}
		k.kappa = value
	case "depth":
		depth := int(value)
		if float64(depth) != value {
			return dynamo.Configf("coupling depth must be an integer, got %g", value)
		}
		if err := ValidateDepth(len(k.omega), depth); err != nil {
			return err
		}
		k.depth = depth
		k.nb = newNeighborhood(len(k.omega), depth, k.topo)
	default:
		return dynamo.Configf("unknown parameter %q", name)
	}
	return nil
}
