package integrators

import "github.com/san-kum/kurasim/internal/dynamo"

// Euler is the forward Euler method, first order.
type Euler struct {
	k dynamo.State
}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Name() string { return "euler" }
func (e *Euler) Order() int   { return 1 }

func (e *Euler) Step(ev *Evaluator, x dynamo.State, t, dt float64, n int, out dynamo.State) error {
	ensure(&e.k, len(x))
	if err := ev.Eval(e.k, x, t, n); err != nil {
		return err
	}
	for i := range x {
		out[i] = x[i] + dt*e.k[i]
	}
	return nil
}
