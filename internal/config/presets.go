package config

import (
	"maps"
	"math"
	"slices"
)

var Presets = map[string]*Config{
	"sync": {
		Name: "sync", Model: ModelBasic, Integrator: "rk4",
		Oscillators: 32, Depth: 8, Kappa: 12, Topology: "ring",
		Time:        TimeConfig{End: 20, Steps: 2001},
		Frequencies: FrequencyConfig{Distribution: "uniform", Min: -0.5, Max: 0.5},
		Seed:        1,
	},
	"incoherent": {
		Name: "incoherent", Model: ModelBasic, Integrator: "rk4",
		Oscillators: 32, Depth: 2, Kappa: 0.2, Topology: "open",
		Time:        TimeConfig{End: 20, Steps: 2001},
		Frequencies: FrequencyConfig{Distribution: "uniform", Min: -2, Max: 2},
		Seed:        1,
	},
	"chimera": {
		Name: "chimera", Model: ModelDelayed, Integrator: "rk4",
		Oscillators: 64, Depth: 22, Kappa: 64, Topology: "ring",
		Time:        TimeConfig{End: 100, Steps: 5001},
		Frequencies: FrequencyConfig{Distribution: "constant", Mean: 0},
		Delayed: DelayedConfig{
			Coupling: MatrixUniform, Delays: MatrixNone, Dephasing: MatrixUniform,
			Alpha: math.Pi/2 - 0.1,
			Noise: NoiseConfig{Policy: "oscillator"},
		},
		Seed: 7,
	},
	"delayed": {
		Name: "delayed", Model: ModelDelayed, Integrator: "rk4",
		Oscillators: 20, Depth: 3, Kappa: 1, Topology: "open",
		Time:        TimeConfig{End: 10, Steps: 1001},
		Frequencies: FrequencyConfig{Distribution: "normal", Mean: 0, Std: 0.3},
		Delayed: DelayedConfig{
			Coupling: MatrixRandom, Delays: MatrixRandom, Dephasing: MatrixRandom,
			Noise: NoiseConfig{Sigma: 0.05, Policy: "oscillator"},
		},
		Seed: 42,
	},
	"ring": {
		Name: "ring", Model: ModelBasic, Integrator: "rk4",
		Oscillators: 16, Depth: 1, Kappa: 8, Topology: "ring",
		Time:        TimeConfig{End: 30, Steps: 3001},
		Frequencies: FrequencyConfig{Distribution: "normal", Mean: 1, Std: 0.1},
		Seed:        3,
	},
}

// GetPreset returns a copy of a named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

// ListPresets returns preset names in sorted order.
func ListPresets() []string {
	return slices.Sorted(maps.Keys(Presets))
}
