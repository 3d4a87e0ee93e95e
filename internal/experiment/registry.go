package experiment

import (
	"maps"
	"math"
	"slices"

	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/kurasim/internal/config"
	"github.com/san-kum/kurasim/internal/dynamo"
	"github.com/san-kum/kurasim/internal/integrators"
	"github.com/san-kum/kurasim/internal/physics"
)

// ModelBuilder constructs a system for a run. It returns the system and the
// first step index to integrate from; columns before it are held at the
// initial condition.
type ModelBuilder func(cfg *config.Config, omega []float64, grid *dynamo.Grid, streams *physics.Streams) (dynamo.System, int, error)

type Registry struct {
	models      map[string]ModelBuilder
	integrators map[string]func() (integrators.Method, error)
}

func NewRegistry() *Registry {
	r := &Registry{
		models:      make(map[string]ModelBuilder),
		integrators: make(map[string]func() (integrators.Method, error)),
	}

	r.models[config.ModelBasic] = buildBasic
	r.models[config.ModelDelayed] = buildDelayed

	for _, name := range integrators.Names() {
		r.integrators[name] = func() (integrators.Method, error) { return integrators.ByName(name) }
	}

	return r
}

// RegisterModel adds or replaces a model builder.
func (r *Registry) RegisterModel(name string, b ModelBuilder) {
	r.models[name] = b
}

func (r *Registry) GetModel(name string) (ModelBuilder, error) {
	b, ok := r.models[name]
	if !ok {
		return nil, dynamo.Configf("unknown model %q", name)
	}
	return b, nil
}

func (r *Registry) GetIntegrator(name string) (integrators.Method, error) {
	fn, ok := r.integrators[name]
	if !ok {
		return nil, dynamo.Configf("unknown integrator %q", name)
	}
	return fn()
}

func (r *Registry) ListModels() []string {
	return slices.Sorted(maps.Keys(r.models))
}

func (r *Registry) ListIntegrators() []string {
	return slices.Sorted(maps.Keys(r.integrators))
}

func buildBasic(cfg *config.Config, omega []float64, _ *dynamo.Grid, _ *physics.Streams) (dynamo.System, int, error) {
	topo, err := physics.ParseTopology(cfg.Topology)
	if err != nil {
		return nil, 0, err
	}
	sys, err := physics.NewKuramoto(omega, cfg.Depth, cfg.Kappa, topo)
	if err != nil {
		return nil, 0, err
	}
	return sys, cfg.History, nil
}

func buildDelayed(cfg *config.Config, omega []float64, grid *dynamo.Grid, streams *physics.Streams) (dynamo.System, int, error) {
	n := len(omega)
	topo, err := physics.ParseTopology(cfg.Topology)
	if err != nil {
		return nil, 0, err
	}
	policy, err := physics.ParseNoisePolicy(cfg.Delayed.Noise.Policy)
	if err != nil {
		return nil, 0, err
	}
	m, err := delayMatrices(cfg, n, topo, streams)
	if err != nil {
		return nil, 0, err
	}

	var noise *mat.Dense
	if sigma := cfg.Delayed.Noise.Sigma; sigma > 0 {
		noise = physics.GaussianNoise(n, grid.Len(), sigma, streams.Source(physics.StreamNoise))
	}

	sys, err := physics.NewDelayedKuramoto(physics.DelayedConfig{
		Frequencies: omega,
		Depth:       cfg.Depth,
		Topology:    topo,
		Matrices:    m,
		Noise:       noise,
		NoisePolicy: policy,
	})
	if err != nil {
		return nil, 0, err
	}
	start := max(cfg.History, sys.RequiredHistory())
	if start >= grid.Len()-1 {
		return nil, 0, dynamo.Configf("delays need %d history columns, grid has only %d points", start, grid.Len())
	}
	return sys, start, nil
}

// delayMatrices draws the random matrices first so that switching one
// component to a fixed mode leaves the others unchanged for a given seed.
func delayMatrices(cfg *config.Config, n int, topo physics.Topology, streams *physics.Streams) (*physics.Matrices, error) {
	m, err := physics.RandomMatrices(n, streams)
	if err != nil {
		return nil, err
	}
	d := cfg.Delayed
	if d.Coupling == config.MatrixUniform {
		uniform, err := physics.NeighborCoupling(n, cfg.Depth, cfg.Kappa, topo)
		if err != nil {
			return nil, err
		}
		m.K = uniform.K
	}
	if d.Delays == config.MatrixNone {
		for _, row := range m.Tau {
			clear(row)
		}
	}
	switch d.Dephasing {
	case config.MatrixNone:
		m.Alpha.Zero()
	case config.MatrixUniform:
		if math.IsNaN(d.Alpha) || math.IsInf(d.Alpha, 0) {
			return nil, dynamo.Configf("delayed.alpha is not finite")
		}
		for i := 0; i < n; i++ {
			for j := 0; j < n; j++ {
				m.Alpha.Set(i, j, d.Alpha)
			}
		}
	}
	return m, nil
}
