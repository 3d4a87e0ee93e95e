package integrators

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/kurasim/internal/dynamo"
)

// Config controls a single integration run.
type Config struct {
	// Workers bounds derivative parallelism; <= 0 uses every CPU.
	Workers int
	// MinChunk is the smallest number of oscillators handed to one worker.
	MinChunk int
	// Start is the first step index to advance from. Columns 0..Start of
	// the trajectory must already be finalized.
	Start int
	// Observers are notified after each committed column.
	Observers []dynamo.Observer
}

func DefaultConfig() Config {
	return Config{
		Workers:  0,
		MinChunk: 64,
	}
}

// Result describes a finished or aborted run. On error, Trajectory holds
// every column finalized before the failure.
type Result struct {
	Method     string
	Trajectory *dynamo.Trajectory
	// Trace holds the first-stage derivative of each step as an N×(T-1)
	// matrix for methods implementing Tracer, nil otherwise. Column n is the
	// derivative at trajectory column n; columns before Start are zero.
	Trace       *mat.Dense
	Steps       int
	Evaluations int
	Elapsed     time.Duration
}

// Integrate advances traj over grid with the given method until every
// column is finalized.
func Integrate(ctx context.Context, sys dynamo.System, method Method, grid *dynamo.Grid, traj *dynamo.Trajectory, cfg Config) (*Result, error) {
	if err := validate(sys, method, grid, traj, cfg); err != nil {
		return nil, err
	}

	n, steps := sys.Size(), grid.Len()
	result := &Result{
		Method:     method.Name(),
		Trajectory: traj,
	}
	tracer, traced := method.(Tracer)
	if traced {
		result.Trace = mat.NewDense(n, steps-1, nil)
	}

	ev := NewEvaluator(ctx, sys, dynamo.NewPool(cfg.Workers, cfg.MinChunk), traj)
	next := make(dynamo.State, n)
	begin := time.Now()
	defer func() {
		result.Evaluations = ev.Evaluations()
		result.Elapsed = time.Since(begin)
	}()

	logrus.Debugf("integrate: method=%s oscillators=%d steps=%d start=%d", method.Name(), n, steps, cfg.Start)

	for step := cfg.Start; step < steps-1; step++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		x, err := traj.View(step)
		if err != nil {
			return result, &dynamo.StepError{Step: step, Time: grid.At(step), Oscillator: -1, Wrapped: err}
		}
		t, dt := grid.At(step), grid.Step(step)

		if err := method.Step(ev, x, t, dt, step, next); err != nil {
			var se *dynamo.StepError
			if !errors.As(err, &se) {
				err = &dynamo.StepError{Step: step, Time: t, Oscillator: -1, Wrapped: err}
			}
			return result, err
		}
		if traced {
			result.Trace.SetCol(step, tracer.FirstStage())
		}

		if i := next.FirstInvalid(); i >= 0 {
			logrus.Warnf("integrate: non-finite phase for oscillator %d at step %d, aborting", i, step+1)
			return result, &dynamo.StepError{
				Step:       step + 1,
				Time:       grid.At(step + 1),
				Oscillator: i,
				Wrapped:    dynamo.ErrNumericInstability,
			}
		}

		col, err := traj.Commit(next)
		if err != nil {
			return result, &dynamo.StepError{Step: step + 1, Time: grid.At(step + 1), Oscillator: -1, Wrapped: err}
		}
		result.Steps++

		if len(cfg.Observers) > 0 {
			committed, _ := traj.View(col)
			for _, obs := range cfg.Observers {
				obs.OnStep(col, grid.At(col), committed)
			}
		}
	}

	return result, nil
}

func validate(sys dynamo.System, method Method, grid *dynamo.Grid, traj *dynamo.Trajectory, cfg Config) error {
	if sys == nil || method == nil || grid == nil || traj == nil {
		return dynamo.Configf("system, method, grid and trajectory are required")
	}
	if traj.N() != sys.Size() {
		return dynamo.Shapef("trajectory has %d oscillators, system has %d", traj.N(), sys.Size())
	}
	if traj.Steps() != grid.Len() {
		return dynamo.Shapef("trajectory has %d columns, grid has %d points", traj.Steps(), grid.Len())
	}
	if cfg.Start < 0 || cfg.Start >= grid.Len()-1 {
		return dynamo.Configf("start step %d outside [0, %d)", cfg.Start, grid.Len()-1)
	}
	if traj.Finalized() != cfg.Start {
		return dynamo.Configf("trajectory must have columns 0..%d finalized, has %d", cfg.Start, traj.Finalized()+1)
	}
	for c := 0; c <= cfg.Start; c++ {
		x, _ := traj.View(c)
		if i := x.FirstInvalid(); i >= 0 {
			return dynamo.Configf("initial phase of oscillator %d at column %d is not finite", i, c)
		}
	}
	if v, ok := sys.(dynamo.Validator); ok {
		if err := v.Validate(grid, cfg.Start); err != nil {
			return fmt.Errorf("validate %T: %w", sys, err)
		}
	}
	return nil
}
