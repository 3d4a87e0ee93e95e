package integrators

import (
	"context"
	"math"
	"testing"

	"github.com/san-kum/kurasim/internal/dynamo"
)

func TestRK4Accuracy(t *testing.T) {
	sys := kuramoto(t, []float64{0, 0}, 1, 1)
	ev := NewEvaluator(context.Background(), sys, nil, nil)
	integ := NewRK4()

	theta0 := [2]float64{-1, 1}
	x := dynamo.State{theta0[0], theta0[1]}
	next := make(dynamo.State, 2)
	dt := 0.01
	steps := 100

	for i := 0; i < steps; i++ {
		if err := integ.Step(ev, x, float64(i)*dt, dt, i, next); err != nil {
			t.Fatal(err)
		}
		x, next = next, x
	}

	expected := twoOscillatorExact(theta0, float64(steps)*dt)
	for i := range x {
		if math.Abs(x[i]-expected[i]) > 1e-8 {
			t.Errorf("oscillator %d error too large: got %.12f, expected %.12f", i, x[i], expected[i])
		}
	}
	if got := ev.Evaluations(); got != 4*steps {
		t.Errorf("expected %d evaluations, got %d", 4*steps, got)
	}
}

func TestRK4FirstStage(t *testing.T) {
	sys := kuramoto(t, []float64{0.5, 0, 0}, 1, 1)
	ev := NewEvaluator(context.Background(), sys, nil, nil)
	integ := NewRK4()

	x := dynamo.State{0, math.Pi / 2, math.Pi}
	out := make(dynamo.State, 3)
	if err := integ.Step(ev, x, 0, 0.1, 0, out); err != nil {
		t.Fatal(err)
	}

	k1 := integ.FirstStage()
	want := []float64{0.5 + 1.0/3, 0, -1.0 / 3}
	for i := range want {
		if math.Abs(k1[i]-want[i]) > 1e-15 {
			t.Errorf("k1[%d] = %.17f, expected %.17f", i, k1[i], want[i])
		}
	}
	if x[0] != 0 || x[2] != math.Pi {
		t.Error("input state was modified")
	}
}

func TestMidpointAndEulerAgreeOnConstantDerivative(t *testing.T) {
	sys := kuramoto(t, []float64{2, -3}, 1, 0)
	ev := NewEvaluator(context.Background(), sys, nil, nil)

	x := dynamo.State{1, 1}
	e, m := make(dynamo.State, 2), make(dynamo.State, 2)
	if err := NewEuler().Step(ev, x, 0, 0.25, 0, e); err != nil {
		t.Fatal(err)
	}
	if err := NewMidpoint().Step(ev, x, 0, 0.25, 0, m); err != nil {
		t.Fatal(err)
	}
	if e[0] != 1.5 || e[1] != 0.25 || m[0] != e[0] || m[1] != e[1] {
		t.Errorf("unexpected step: euler=%v midpoint=%v", e, m)
	}
}
