package experiment

import (
	"context"
	"errors"
	"slices"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/san-kum/kurasim/internal/analysis"
	"github.com/san-kum/kurasim/internal/config"
	"github.com/san-kum/kurasim/internal/dynamo"
	"github.com/san-kum/kurasim/internal/integrators"
	"github.com/san-kum/kurasim/internal/metrics"
	"github.com/san-kum/kurasim/internal/physics"
)

const (
	// LockThreshold is the order parameter magnitude counted as locked.
	LockThreshold = 0.9
	// ChimeraTolerance bounds the distance of a coherent oscillator's mean
	// velocity from the population median.
	ChimeraTolerance = 0.05
)

// Experiment is a fully built run: system, method, grid and a trajectory
// whose history columns are already finalized.
type Experiment struct {
	ID          uuid.UUID
	Config      *config.Config
	System      dynamo.System
	Method      integrators.Method
	Grid        *dynamo.Grid
	Trajectory  *dynamo.Trajectory
	Frequencies []float64
	Start       int

	metrics   metrics.Set
	observers []dynamo.Observer
}

// Outcome summarizes a run. Run returns an Outcome alongside the error when
// integration fails part way.
type Outcome struct {
	ID      string
	Name    string
	Result  *integrators.Result
	Order   analysis.OrderParameter
	Metrics map[string]float64
	Chimera *analysis.Chimera
}

// New builds an experiment from cfg. Every random draw comes from streams
// derived from cfg.Seed, so equal configs build equal experiments.
func New(cfg *config.Config, reg *Registry) (*Experiment, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	build, err := reg.GetModel(cfg.Model)
	if err != nil {
		return nil, err
	}
	method, err := reg.GetIntegrator(cfg.Integrator)
	if err != nil {
		return nil, err
	}
	grid, err := dynamo.Uniform(cfg.Time.Start, cfg.Time.End, cfg.Time.Steps)
	if err != nil {
		return nil, err
	}

	streams := physics.NewStreams(cfg.Seed)
	omega := frequencies(cfg, streams)
	sys, start, err := build(cfg, omega, grid, streams)
	if err != nil {
		return nil, err
	}

	theta0 := slices.Clone(cfg.InitialPhases)
	if len(theta0) == 0 {
		theta0 = physics.UniformPhases(cfg.Oscillators, streams.Source(physics.StreamPhases))
	}
	traj, err := dynamo.NewTrajectory(cfg.Oscillators, grid.Len())
	if err != nil {
		return nil, err
	}
	if err := traj.SetInitial(theta0); err != nil {
		return nil, err
	}
	if start > 0 {
		if err := traj.HoldInitial(start); err != nil {
			return nil, err
		}
	}

	return &Experiment{
		ID:          uuid.New(),
		Config:      cfg,
		System:      sys,
		Method:      method,
		Grid:        grid,
		Trajectory:  traj,
		Frequencies: omega,
		Start:       start,
		metrics:     metrics.Default(LockThreshold),
	}, nil
}

func frequencies(cfg *config.Config, streams *physics.Streams) []float64 {
	f := cfg.Frequencies
	if len(f.Values) > 0 {
		return slices.Clone(f.Values)
	}
	src := streams.Source(physics.StreamFrequencies)
	switch f.Distribution {
	case "normal":
		return physics.NormalFrequencies(cfg.Oscillators, f.Mean, f.Std, src)
	case "constant":
		return physics.NormalFrequencies(cfg.Oscillators, f.Mean, 0, src)
	default:
		return physics.UniformFrequencies(cfg.Oscillators, f.Min, f.Max, src)
	}
}

func (e *Experiment) AddObserver(o dynamo.Observer) {
	e.observers = append(e.observers, o)
}

// Run integrates the experiment once. A second call fails because the
// trajectory is already complete.
func (e *Experiment) Run(ctx context.Context) (*Outcome, error) {
	log := logrus.WithFields(logrus.Fields{
		"run":        e.ID.String(),
		"model":      e.Config.Model,
		"integrator": e.Method.Name(),
	})

	icfg := integrators.DefaultConfig()
	icfg.Workers = e.Config.Workers
	icfg.Start = e.Start
	icfg.Observers = append([]dynamo.Observer{e.metrics}, e.observers...)

	log.Debugf("starting run: oscillators=%d steps=%d start=%d", e.System.Size(), e.Grid.Len(), e.Start)
	res, err := integrators.Integrate(ctx, e.System, e.Method, e.Grid, e.Trajectory, icfg)
	if res == nil {
		return nil, err
	}

	out := &Outcome{
		ID:      e.ID.String(),
		Name:    e.Config.Name,
		Result:  res,
		Order:   analysis.OrderSeries(e.Trajectory),
		Metrics: e.metrics.Values(),
	}
	if err != nil {
		var se *dynamo.StepError
		if errors.As(err, &se) {
			log.WithField("step", se.Step).Warnf("run aborted: %v", err)
		}
		return out, err
	}

	if res.Trace != nil {
		_, cols := res.Trace.Dims()
		from := e.Start + (cols-e.Start)/2
		ch, cerr := analysis.DetectChimera(res.Trace, from, ChimeraTolerance)
		if cerr != nil {
			log.Debugf("skipping chimera classification: %v", cerr)
		} else {
			out.Chimera = &ch
		}
	}

	r, _ := out.Order.Final()
	log.WithFields(logrus.Fields{
		"steps":   res.Steps,
		"evals":   res.Evaluations,
		"elapsed": res.Elapsed,
		"r_final": r,
	}).Info("run finished")
	return out, nil
}

// Execute builds and runs cfg in one call.
func Execute(ctx context.Context, cfg *config.Config, reg *Registry, observers ...dynamo.Observer) (*Outcome, error) {
	e, err := New(cfg, reg)
	if err != nil {
		return nil, err
	}
	for _, o := range observers {
		e.AddObserver(o)
	}
	return e.Run(ctx)
}

// Compare runs cfg once per integrator. Every run shares the seed and
// therefore the same frequencies, matrices and initial phases.
func Compare(ctx context.Context, cfg *config.Config, reg *Registry, methods []string) ([]*Outcome, error) {
	outcomes := make([]*Outcome, 0, len(methods))
	for _, name := range methods {
		c := cfg.Clone()
		c.Integrator = name
		out, err := Execute(ctx, c, reg)
		if err != nil {
			return outcomes, err
		}
		outcomes = append(outcomes, out)
	}
	return outcomes, nil
}

// Progress reports committed columns to a callback.
type Progress struct {
	Total int
	Func  func(done, total int)
}

func (p Progress) OnStep(n int, _ float64, _ dynamo.State) {
	if p.Func != nil {
		p.Func(n+1, p.Total)
	}
}

// Sweep varies one parameter of the experiment's system over [lo, hi]
// and records the synchronization level of each value. The experiment's
// own trajectory is left untouched.
func (e *Experiment) Sweep(ctx context.Context, param string, lo, hi float64, points int, discard float64) ([]analysis.SweepPoint, error) {
	theta0, err := e.Trajectory.Column(0)
	if err != nil {
		return nil, err
	}
	run := integrators.DefaultConfig()
	run.Workers = e.Config.Workers
	run.Start = e.Start
	return analysis.Sweep(ctx, e.System, e.Grid, theta0, analysis.SweepConfig{
		Param:   param,
		Min:     lo,
		Max:     hi,
		Points:  points,
		Discard: discard,
		Method:  e.Method.Name(),
		Run:     run,
	})
}
