package optim

import (
	"context"
	"errors"
	"math"

	"github.com/sirupsen/logrus"

	"github.com/san-kum/kurasim/internal/config"
	"github.com/san-kum/kurasim/internal/dynamo"
	"github.com/san-kum/kurasim/internal/experiment"
)

// Objective scores a finished run; lower is better.
type Objective func(out *experiment.Outcome) float64

// TargetR scores the distance of the time-averaged order parameter over
// the second half of the run from target.
func TargetR(target float64) Objective {
	return func(out *experiment.Outcome) float64 {
		return math.Abs(out.Order.MeanR(len(out.Order.R)/2) - target)
	}
}

// MaximizeMetric scores runs by the negated run metric.
func MaximizeMetric(name string) Objective {
	return func(out *experiment.Outcome) float64 {
		v, ok := out.Metrics[name]
		if !ok {
			return math.Inf(1)
		}
		return -v
	}
}

// Evaluation is one grid point and its score.
type Evaluation struct {
	Params map[string]float64
	Score  float64
	Err    error
}

// GridSearch evaluates every combination of parameter values.
type GridSearch struct {
	paramNames []string
	ranges     [][]float64
}

func NewGridSearch(params []string, ranges [][]float64) (*GridSearch, error) {
	if len(params) == 0 || len(params) != len(ranges) {
		return nil, dynamo.Configf("grid search needs one range per parameter, got %d names and %d ranges", len(params), len(ranges))
	}
	for i, r := range ranges {
		if len(r) == 0 {
			return nil, dynamo.Configf("range for %s is empty", params[i])
		}
	}
	return &GridSearch{paramNames: params, ranges: ranges}, nil
}

// Size returns the number of grid points.
func (g *GridSearch) Size() int {
	n := 1
	for _, r := range g.ranges {
		n *= len(r)
	}
	return n
}

// Search runs base with every parameter combination applied through
// config.SetParam. Points that fail to build or run are recorded with their
// error and skipped; cancellation stops the search.
func (g *GridSearch) Search(ctx context.Context, base *config.Config, reg *experiment.Registry, objective Objective) (Evaluation, []Evaluation, error) {
	best := Evaluation{Score: math.Inf(1)}
	all := make([]Evaluation, 0, g.Size())

	err := g.searchRecursive(ctx, 0, make(map[string]float64), func(params map[string]float64) error {
		ev := Evaluation{Params: params, Score: math.Inf(1)}
		out, err := g.evaluate(ctx, base, reg, params)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return err
			}
			logrus.Warnf("grid search: %v: %v", params, err)
			ev.Err = err
		} else {
			ev.Score = objective(out)
		}
		all = append(all, ev)
		if ev.Err == nil && ev.Score < best.Score {
			best = ev
		}
		return nil
	})
	if err != nil {
		return best, all, err
	}
	if best.Params == nil {
		return best, all, dynamo.Configf("no grid point completed")
	}
	return best, all, nil
}

func (g *GridSearch) evaluate(ctx context.Context, base *config.Config, reg *experiment.Registry, params map[string]float64) (*experiment.Outcome, error) {
	cfg := base.Clone()
	for _, name := range g.paramNames {
		if err := cfg.SetParam(name, params[name]); err != nil {
			return nil, err
		}
	}
	return experiment.Execute(ctx, cfg, reg)
}

func (g *GridSearch) searchRecursive(ctx context.Context, depth int, current map[string]float64, visit func(map[string]float64) error) error {
	if depth == len(g.paramNames) {
		if err := ctx.Err(); err != nil {
			return err
		}
		return visit(current)
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		newParams := make(map[string]float64, len(current)+1)
		for k, v := range current {
			newParams[k] = v
		}
		newParams[paramName] = val

		if err := g.searchRecursive(ctx, depth+1, newParams, visit); err != nil {
			return err
		}
	}
	return nil
}
