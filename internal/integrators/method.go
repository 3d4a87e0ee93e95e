package integrators

import (
	"context"
	"sort"
	"strings"

	"github.com/san-kum/kurasim/internal/dynamo"
)

// Method advances a phase vector by one grid step. Implementations keep
// scratch buffers between calls and are not safe for concurrent use.
type Method interface {
	Name() string
	// Order is the global convergence order.
	Order() int
	// Step writes the state at t+dt into out. x is the finalized column
	// for grid step n and must not be modified.
	Step(ev *Evaluator, x dynamo.State, t, dt float64, n int, out dynamo.State) error
}

// Tracer is implemented by methods that expose their first-stage
// derivative after each Step.
type Tracer interface {
	FirstStage() dynamo.State
}

// Evaluator computes full derivative vectors, fanning oscillators out over
// a worker pool. Each Eval returns only after every oscillator is written.
type Evaluator struct {
	ctx   context.Context
	sys   dynamo.System
	pool  *dynamo.Pool
	hist  dynamo.History
	evals int
}

func NewEvaluator(ctx context.Context, sys dynamo.System, pool *dynamo.Pool, hist dynamo.History) *Evaluator {
	if pool == nil {
		pool = dynamo.NewPool(1, 1)
	}
	return &Evaluator{ctx: ctx, sys: sys, pool: pool, hist: hist}
}

// Eval writes dθ/dt at (x, t) into dst. step is the grid index whose
// history the model may consult.
func (e *Evaluator) Eval(dst, x dynamo.State, t float64, step int) error {
	e.evals++
	s := dynamo.Snapshot{X: x, T: t, Step: step, History: e.hist}
	return e.pool.Run(e.ctx, len(x), func(lo, hi int) error {
		return e.sys.DeriveRange(dst, s, lo, hi)
	})
}

// Evaluations returns the number of full derivative evaluations so far.
func (e *Evaluator) Evaluations() int { return e.evals }

func ensure(buf *dynamo.State, n int) {
	if len(*buf) != n {
		*buf = make(dynamo.State, n)
	}
}

var registry = map[string]func() Method{
	"euler":    func() Method { return NewEuler() },
	"midpoint": func() Method { return NewMidpoint() },
	"rk2":      func() Method { return NewMidpoint() },
	"rk4":      func() Method { return NewRK4() },
}

// ByName returns a fresh method for a registered name (case-insensitive).
func ByName(name string) (Method, error) {
	f, ok := registry[strings.ToLower(name)]
	if !ok {
		return nil, dynamo.Configf("unknown integrator %q (available: %s)", name, strings.Join(Names(), ", "))
	}
	return f(), nil
}

func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
