package config

import (
	"math"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/kurasim/internal/dynamo"
)

const (
	DefaultOscillators = 32
	DefaultDepth       = 2
	DefaultKappa       = 4.0
	DefaultEnd         = 20.0
	DefaultSteps       = 2001
	DefaultSeed        = 1
)

// Model names.
const (
	ModelBasic   = "basic"
	ModelDelayed = "delayed"
)

// Matrix generation modes for the delayed model.
const (
	MatrixRandom  = "random"
	MatrixUniform = "uniform"
	MatrixNone    = "none"
)

type Config struct {
	Name          string          `yaml:"name,omitempty"`
	Model         string          `yaml:"model"`
	Integrator    string          `yaml:"integrator"`
	Oscillators   int             `yaml:"oscillators"`
	Depth         int             `yaml:"depth"`
	Kappa         float64         `yaml:"kappa"`
	Topology      string          `yaml:"topology"`
	Time          TimeConfig      `yaml:"time"`
	Frequencies   FrequencyConfig `yaml:"frequencies"`
	InitialPhases []float64       `yaml:"initial_phases,omitempty"`
	Delayed       DelayedConfig   `yaml:"delayed"`
	History       int             `yaml:"history"`
	Seed          uint64          `yaml:"seed"`
	Workers       int             `yaml:"workers"`
	Theme         string          `yaml:"theme,omitempty"`
}

type TimeConfig struct {
	Start float64 `yaml:"start"`
	End   float64 `yaml:"end"`
	Steps int     `yaml:"steps"`
}

// FrequencyConfig selects natural frequencies. Values, when set, are used
// verbatim; otherwise Distribution picks uniform on [Min, Max), normal
// with Mean and Std, or constant Mean.
type FrequencyConfig struct {
	Distribution string    `yaml:"distribution"`
	Min          float64   `yaml:"min"`
	Max          float64   `yaml:"max"`
	Mean         float64   `yaml:"mean"`
	Std          float64   `yaml:"std"`
	Values       []float64 `yaml:"values,omitempty"`
}

// DelayedConfig configures the per-pair matrices of the delayed model.
// Coupling is random (U[0,2π)) or uniform (Kappa on neighbor pairs);
// Delays is random ({0..5}) or none; Dephasing is random (U[0,2π)),
// uniform (Alpha) or none.
type DelayedConfig struct {
	Coupling  string      `yaml:"coupling"`
	Delays    string      `yaml:"delays"`
	Dephasing string      `yaml:"dephasing"`
	Alpha     float64     `yaml:"alpha"`
	Noise     NoiseConfig `yaml:"noise"`
}

type NoiseConfig struct {
	Sigma  float64 `yaml:"sigma"`
	Policy string  `yaml:"policy"`
}

func DefaultConfig() *Config {
	return &Config{
		Model:       ModelBasic,
		Integrator:  "rk4",
		Oscillators: DefaultOscillators,
		Depth:       DefaultDepth,
		Kappa:       DefaultKappa,
		Topology:    "open",
		Time: TimeConfig{
			Start: 0,
			End:   DefaultEnd,
			Steps: DefaultSteps,
		},
		Frequencies: FrequencyConfig{
			Distribution: "uniform",
			Min:          -0.5,
			Max:          0.5,
		},
		Delayed: DelayedConfig{
			Coupling:  MatrixRandom,
			Delays:    MatrixRandom,
			Dephasing: MatrixRandom,
			Noise:     NoiseConfig{Policy: "oscillator"},
		},
		Seed: DefaultSeed,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse overlays YAML data onto the defaults.
func Parse(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := cfg.Overlay(data); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Overlay sets the fields present in data and leaves the rest unchanged.
func (c *Config) Overlay(data []byte) error {
	return yaml.Unmarshal(data, c)
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Clone returns a deep copy.
func (c *Config) Clone() *Config {
	out := *c
	out.InitialPhases = slices.Clone(c.InitialPhases)
	out.Frequencies.Values = slices.Clone(c.Frequencies.Values)
	return &out
}

// Validate checks the fields that do not depend on other packages.
func (c *Config) Validate() error {
	switch c.Model {
	case ModelBasic, ModelDelayed:
	default:
		return dynamo.Configf("unknown model %q", c.Model)
	}
	if c.Oscillators <= 0 {
		return dynamo.Configf("oscillators must be positive, got %d", c.Oscillators)
	}
	if c.Depth < 1 || c.Depth >= c.Oscillators {
		return dynamo.Configf("depth must satisfy 1 <= M < N, got M=%d N=%d", c.Depth, c.Oscillators)
	}
	if c.Time.Steps < 2 {
		return dynamo.Configf("time.steps must be at least 2, got %d", c.Time.Steps)
	}
	if !(c.Time.End > c.Time.Start) {
		return dynamo.Configf("time.end %g must exceed time.start %g", c.Time.End, c.Time.Start)
	}
	if c.History < 0 || c.History >= c.Time.Steps-1 {
		return dynamo.Configf("history %d must lie in [0, %d)", c.History, c.Time.Steps-1)
	}
	if n := len(c.InitialPhases); n != 0 && n != c.Oscillators {
		return dynamo.Shapef("initial_phases has %d entries, want %d", n, c.Oscillators)
	}
	if n := len(c.Frequencies.Values); n != 0 && n != c.Oscillators {
		return dynamo.Shapef("frequencies.values has %d entries, want %d", n, c.Oscillators)
	}
	switch c.Frequencies.Distribution {
	case "uniform", "normal", "constant":
	default:
		if len(c.Frequencies.Values) == 0 {
			return dynamo.Configf("unknown frequency distribution %q", c.Frequencies.Distribution)
		}
	}
	if c.Frequencies.Std < 0 {
		return dynamo.Configf("frequencies.std must be non-negative")
	}
	if c.Model == ModelDelayed {
		d := c.Delayed
		if !slices.Contains([]string{MatrixRandom, MatrixUniform}, d.Coupling) {
			return dynamo.Configf("unknown delayed.coupling %q", d.Coupling)
		}
		if !slices.Contains([]string{MatrixRandom, MatrixNone}, d.Delays) {
			return dynamo.Configf("unknown delayed.delays %q", d.Delays)
		}
		if !slices.Contains([]string{MatrixRandom, MatrixUniform, MatrixNone}, d.Dephasing) {
			return dynamo.Configf("unknown delayed.dephasing %q", d.Dephasing)
		}
		if d.Noise.Sigma < 0 {
			return dynamo.Configf("delayed.noise.sigma must be non-negative")
		}
	}
	return nil
}

// Params lists the names accepted by SetParam.
var Params = []string{"kappa", "depth", "alpha", "noise", "end"}

// SetParam sets a scalar field by name. depth must be integral.
func (c *Config) SetParam(name string, value float64) error {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return dynamo.Configf("parameter %s is not finite", name)
	}
	switch name {
	case "kappa":
		c.Kappa = value
	case "depth":
		if value != math.Trunc(value) {
			return dynamo.Configf("depth must be an integer, got %g", value)
		}
		c.Depth = int(value)
	case "alpha":
		c.Delayed.Alpha = value
	case "noise":
		c.Delayed.Noise.Sigma = value
	case "end":
		c.Time.End = value
	default:
		return dynamo.Configf("unknown parameter %q (available: %v)", name, Params)
	}
	return nil
}
