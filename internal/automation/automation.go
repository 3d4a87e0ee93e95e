package automation

import (
	"context"
	"fmt"
	"math"
	"os"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/stat"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/kurasim/internal/analysis"
	"github.com/san-kum/kurasim/internal/config"
	"github.com/san-kum/kurasim/internal/dynamo"
	"github.com/san-kum/kurasim/internal/experiment"
)

// Scenario is an ordered batch of runs loaded from YAML.
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Base        string         `yaml:"base"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep is one entry of a scenario. The run configuration starts
// from the step preset, or the scenario base preset when the step names
// none, or the defaults when neither is set. Fields given under config
// are decoded over it. A step preset replaces the base whole: presets are
// complete configurations.
type ScenarioStep struct {
	Name   string     `yaml:"name"`
	Preset string     `yaml:"preset"`
	Config yaml.Node  `yaml:"config"`
	Trials int        `yaml:"trials"`
	Sweep  *SweepSpec `yaml:"sweep"`
}

// SweepSpec turns a step into a parameter sweep.
type SweepSpec struct {
	Param   string  `yaml:"param"`
	Min     float64 `yaml:"min"`
	Max     float64 `yaml:"max"`
	Points  int     `yaml:"points"`
	Discard float64 `yaml:"discard"`
}

// StepResult holds whatever a step produced: one outcome per trial, or
// the sweep points.
type StepResult struct {
	Name     string
	Outcomes []*experiment.Outcome
	Ensemble *EnsembleStats
	Sweep    []analysis.SweepPoint
}

// EnsembleStats summarizes repeated runs that differ only in seed.
type EnsembleStats struct {
	Trials   int
	MeanR    float64
	StdR     float64
	MinR     float64
	MaxR     float64
	Chimeras int
}

func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseScenario(data)
}

func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}
	if len(scenario.Steps) == 0 {
		return nil, dynamo.Configf("scenario %q has no steps", scenario.Name)
	}
	return &scenario, nil
}

// StepConfig resolves the run configuration of step i.
func (s *Scenario) StepConfig(i int) (*config.Config, error) {
	if i < 0 || i >= len(s.Steps) {
		return nil, fmt.Errorf("%w: step %d of %d", dynamo.ErrIndexOutOfRange, i, len(s.Steps))
	}
	step := s.Steps[i]

	cfg := config.DefaultConfig()
	name := step.Preset
	if name == "" {
		name = s.Base
	}
	if name != "" {
		if cfg = config.GetPreset(name); cfg == nil {
			return nil, dynamo.Configf("unknown preset %q", name)
		}
	}
	if !step.Config.IsZero() {
		if err := step.Config.Decode(cfg); err != nil {
			return nil, fmt.Errorf("decode config: %w", err)
		}
	}
	if step.Name != "" {
		cfg.Name = step.Name
	}
	return cfg, nil
}

// RunScenario executes every step in order and stops at the first error,
// returning the results gathered so far.
func RunScenario(ctx context.Context, scenario *Scenario, registry *experiment.Registry) ([]StepResult, error) {
	results := make([]StepResult, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		cfg, err := scenario.StepConfig(i)
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}
		name := step.Name
		if name == "" {
			name = fmt.Sprintf("step-%d", i+1)
		}
		logrus.Infof("scenario %s: running step %d/%d (%s)", scenario.Name, i+1, len(scenario.Steps), name)

		res := StepResult{Name: name}
		switch {
		case step.Sweep != nil:
			e, err := experiment.New(cfg, registry)
			if err != nil {
				return results, fmt.Errorf("step %d setup: %w", i+1, err)
			}
			sw := step.Sweep
			res.Sweep, err = e.Sweep(ctx, sw.Param, sw.Min, sw.Max, sw.Points, sw.Discard)
			if err != nil {
				return results, fmt.Errorf("step %d sweep: %w", i+1, err)
			}
		case step.Trials > 1:
			outcomes, stats, err := RunEnsemble(ctx, cfg, registry, step.Trials)
			res.Outcomes = outcomes
			if err != nil {
				return append(results, res), fmt.Errorf("step %d ensemble: %w", i+1, err)
			}
			res.Ensemble = &stats
		default:
			out, err := experiment.Execute(ctx, cfg, registry)
			if out != nil {
				res.Outcomes = []*experiment.Outcome{out}
			}
			if err != nil {
				return append(results, res), fmt.Errorf("step %d run: %w", i+1, err)
			}
		}
		results = append(results, res)
	}

	return results, nil
}

// RunEnsemble runs cfg trials times with seeds cfg.Seed, cfg.Seed+1, ...
// and summarizes the final order parameter.
func RunEnsemble(ctx context.Context, cfg *config.Config, registry *experiment.Registry, trials int) ([]*experiment.Outcome, EnsembleStats, error) {
	if trials < 1 {
		return nil, EnsembleStats{}, dynamo.Configf("trials must be positive, got %d", trials)
	}
	outcomes := make([]*experiment.Outcome, 0, trials)
	final := make([]float64, 0, trials)

	for trial := 0; trial < trials; trial++ {
		c := cfg.Clone()
		c.Seed = cfg.Seed + uint64(trial)
		out, err := experiment.Execute(ctx, c, registry)
		if err != nil {
			return outcomes, EnsembleStats{}, fmt.Errorf("trial %d: %w", trial, err)
		}
		outcomes = append(outcomes, out)
		r, _ := out.Order.Final()
		final = append(final, r)

		if (trial+1)%10 == 0 {
			logrus.Infof("ensemble: %d/%d trials complete", trial+1, trials)
		}
	}

	return outcomes, ensembleStats(outcomes, final), nil
}

func ensembleStats(outcomes []*experiment.Outcome, final []float64) EnsembleStats {
	stats := EnsembleStats{
		Trials: len(final),
		MinR:   math.Inf(1),
		MaxR:   math.Inf(-1),
	}
	stats.MeanR, stats.StdR = stat.MeanStdDev(final, nil)
	if len(final) < 2 {
		stats.StdR = 0
	}
	for _, r := range final {
		stats.MinR = min(stats.MinR, r)
		stats.MaxR = max(stats.MaxR, r)
	}
	for _, out := range outcomes {
		if out.Chimera != nil && out.Chimera.IsChimera() {
			stats.Chimeras++
		}
	}
	return stats
}
