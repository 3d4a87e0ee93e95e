package analysis

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/kurasim/internal/dynamo"
	"github.com/san-kum/kurasim/internal/integrators"
)

// SweepPoint is the synchronization level reached for one parameter value.
type SweepPoint struct {
	Param  float64
	MeanR  float64
	FinalR float64
}

// SweepConfig describes a parameter sweep.
type SweepConfig struct {
	Param  string
	Min    float64
	Max    float64
	Points int
	// Discard is the fraction of columns treated as transient and excluded
	// from MeanR.
	Discard float64
	Method  string
	Run     integrators.Config
}

// Sweep integrates sys once per parameter value and records the order
// parameter. Columns 0..Run.Start are filled with theta0. sys must
// implement dynamo.Configurable; its original parameter is restored on return.
func Sweep(ctx context.Context, sys dynamo.System, grid *dynamo.Grid, theta0 []float64, cfg SweepConfig) ([]SweepPoint, error) {
	tunable, ok := sys.(dynamo.Configurable)
	if !ok {
		return nil, dynamo.Configf("%T has no tunable parameters", sys)
	}
	original, ok := tunable.GetParams()[cfg.Param]
	if !ok {
		return nil, dynamo.Configf("%T has no parameter %q", sys, cfg.Param)
	}
	if cfg.Points < 2 {
		return nil, dynamo.Configf("sweep needs at least 2 points, got %d", cfg.Points)
	}
	if cfg.Discard < 0 || cfg.Discard >= 1 {
		return nil, dynamo.Configf("discard fraction must be in [0, 1), got %g", cfg.Discard)
	}
	defer func() {
		if err := tunable.SetParam(cfg.Param, original); err != nil {
			logrus.Warnf("sweep: restoring %s: %v", cfg.Param, err)
		}
	}()

	values := make([]float64, cfg.Points)
	floats.Span(values, cfg.Min, cfg.Max)
	from := int(cfg.Discard * float64(grid.Len()))

	results := make([]SweepPoint, 0, cfg.Points)
	for _, v := range values {
		if err := tunable.SetParam(cfg.Param, v); err != nil {
			return results, err
		}
		method, err := integrators.ByName(cfg.Method)
		if err != nil {
			return results, err
		}
		traj, err := dynamo.NewTrajectory(sys.Size(), grid.Len())
		if err != nil {
			return results, err
		}
		if err := traj.SetInitial(theta0); err != nil {
			return results, err
		}
		if cfg.Run.Start > 0 {
			if err := traj.HoldInitial(cfg.Run.Start); err != nil {
				return results, err
			}
		}
		if _, err := integrators.Integrate(ctx, sys, method, grid, traj, cfg.Run); err != nil {
			return results, fmt.Errorf("sweep %s=%g: %w", cfg.Param, v, err)
		}

		op := OrderSeries(traj)
		r, _ := op.Final()
		results = append(results, SweepPoint{Param: v, MeanR: op.MeanR(from), FinalR: r})
		logrus.Debugf("sweep: %s=%.4f mean r=%.4f", cfg.Param, v, results[len(results)-1].MeanR)
	}
	return results, nil
}

// CriticalValue returns the first parameter value whose mean r reaches
// threshold, or false if none does.
func CriticalValue(points []SweepPoint, threshold float64) (float64, bool) {
	for _, p := range points {
		if p.MeanR >= threshold {
			return p.Param, true
		}
	}
	return 0, false
}
