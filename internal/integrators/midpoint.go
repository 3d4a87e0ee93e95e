package integrators

import "github.com/san-kum/kurasim/internal/dynamo"

// Midpoint is the explicit midpoint rule (RK2), second order.
type Midpoint struct {
	k1, k2  dynamo.State
	scratch dynamo.State
}

func NewMidpoint() *Midpoint {
	return &Midpoint{}
}

func (m *Midpoint) Name() string { return "midpoint" }
func (m *Midpoint) Order() int   { return 2 }

func (m *Midpoint) ensureScratch(n int) {
	ensure(&m.k1, n)
	ensure(&m.k2, n)
	ensure(&m.scratch, n)
}

func (m *Midpoint) Step(ev *Evaluator, x dynamo.State, t, dt float64, n int, out dynamo.State) error {
	m.ensureScratch(len(x))

	if err := ev.Eval(m.k1, x, t, n); err != nil {
		return err
	}
	for i := range x {
		m.scratch[i] = x[i] + dt*0.5*m.k1[i]
	}
	if err := ev.Eval(m.k2, m.scratch, t+dt*0.5, n); err != nil {
		return err
	}

	for i := range x {
		out[i] = x[i] + dt*m.k2[i]
	}
	return nil
}
