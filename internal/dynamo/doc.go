// Package dynamo provides core primitives for fixed-step phase-oscillator
// simulation.
//
// The package defines the fundamental types shared by models and
// integrators:
//
//   - [State]: vector of oscillator phases (or phase velocities)
//   - [Grid]: strictly increasing sequence of time points
//   - [Trajectory]: N×T phase buffer, filled column by column
//   - [System]: interface for phase models (dθ/dt = f(θ, history, t))
//   - [Pool]: worker pool fanning derivative evaluation out over oscillators
//
// # Access Contract
//
// A [Trajectory] is write-once and left-to-right. Column 0 holds the initial
// condition; every further column is finalized exactly once through
// [Trajectory.Commit]. Reads are only permitted on finalized columns, so a
// delayed model can never observe a value that has not been computed yet.
//
// # Example
//
//	grid, _ := dynamo.Uniform(0, 10, 1001)
//	traj, _ := dynamo.NewTrajectory(n, grid.Len())
//	_ = traj.SetInitial(theta0)
//	res, err := integrators.Integrate(ctx, model, integrators.NewRK4(), grid, traj, integrators.DefaultConfig())
//
// # Thread Safety
//
// Models must be safe for concurrent DeriveRange calls on disjoint
// oscillator ranges. A Trajectory is owned by a single integration run
// until it returns.
package dynamo
