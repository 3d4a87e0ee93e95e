package integrators

import "github.com/san-kum/kurasim/internal/dynamo"

// RK4 is the classic four-stage Runge-Kutta method. After each Step,
// FirstStage holds k1, the derivative at the starting column.
type RK4 struct {
	k1, k2, k3, k4 dynamo.State
	scratch        dynamo.State
}

func NewRK4() *RK4 {
	return &RK4{}
}

func (r *RK4) Name() string { return "rk4" }
func (r *RK4) Order() int   { return 4 }

// FirstStage returns k1 from the most recent Step. It is overwritten by the
// next call.
func (r *RK4) FirstStage() dynamo.State { return r.k1 }

func (r *RK4) ensureScratch(n int) {
	if len(r.k1) != n {
		r.k1 = make(dynamo.State, n)
		r.k2 = make(dynamo.State, n)
		r.k3 = make(dynamo.State, n)
		r.k4 = make(dynamo.State, n)
		r.scratch = make(dynamo.State, n)
	}
}

func (r *RK4) Step(ev *Evaluator, x dynamo.State, t, dt float64, n int, out dynamo.State) error {
	r.ensureScratch(len(x))

	if err := ev.Eval(r.k1, x, t, n); err != nil {
		return err
	}

	for i := range x {
		r.scratch[i] = x[i] + dt*0.5*r.k1[i]
	}
	if err := ev.Eval(r.k2, r.scratch, t+dt*0.5, n); err != nil {
		return err
	}

	for i := range x {
		r.scratch[i] = x[i] + dt*0.5*r.k2[i]
	}
	if err := ev.Eval(r.k3, r.scratch, t+dt*0.5, n); err != nil {
		return err
	}

	for i := range x {
		r.scratch[i] = x[i] + dt*r.k3[i]
	}
	if err := ev.Eval(r.k4, r.scratch, t+dt, n); err != nil {
		return err
	}

	dt6 := dt / 6.0
	for i := range x {
		out[i] = x[i] + dt6*(r.k1[i]+2*r.k2[i]+2*r.k3[i]+r.k4[i])
	}
	return nil
}
