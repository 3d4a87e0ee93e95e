package metrics

import "github.com/san-kum/kurasim/internal/dynamo"

// Metric accumulates a scalar over the columns of a run.
type Metric interface {
	Name() string
	Observe(n int, t float64, x dynamo.State)
	Value() float64
	Reset()
}

// Set fans integrator notifications out to several metrics. It implements
// dynamo.Observer.
type Set []Metric

func (s Set) OnStep(n int, t float64, x dynamo.State) {
	for _, m := range s {
		m.Observe(n, t, x)
	}
}

func (s Set) Reset() {
	for _, m := range s {
		m.Reset()
	}
}

// Values returns every metric keyed by name.
func (s Set) Values() map[string]float64 {
	out := make(map[string]float64, len(s))
	for _, m := range s {
		out[m.Name()] = m.Value()
	}
	return out
}

// Default returns the metrics reported for every run.
func Default(lockThreshold float64) Set {
	return Set{NewCoherence(), NewLocking(lockThreshold), NewSpeed()}
}
