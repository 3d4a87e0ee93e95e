// Package physics provides phase-oscillator models for simulation.
//
// Each model implements the [dynamo.System] interface:
//
//   - [Kuramoto]: scalar coupling over a nearest-neighbor chain
//   - [DelayedKuramoto]: per-pair coupling, integer time delays read from the
//     phase history, per-pair dephasing, and additive noise
//
// The coupling neighborhood of oscillator i holds every j whose chain
// distance |i-j| lies in [1, depth]. On the default [OpenChain] topology
// indices never wrap, so the two end oscillators have fewer neighbors; the
// [Ring] topology measures distance around the ring instead.
//
// Random auxiliary matrices, noise and initial conditions are drawn from
// explicitly seeded [Streams], never from global state:
//
//	streams := physics.NewStreams(42)
//	mats, _ := physics.RandomMatrices(n, streams)
//	noise := physics.GaussianNoise(n, steps, 1.0, streams.Source(physics.StreamNoise))
package physics
