// Package viz renders phase trajectories in the terminal.
//
//   - [CircleView]: oscillators as markers on the unit circle together with
//     the order parameter vector, drawn on a braille [Canvas]
//   - [PlotOrder], [PlotRows], [PlotSweep]: line charts via asciigraph
//   - [Replay]: a Bubble Tea program that plays back a finished run
//
// # Key Bindings
//
//	Space - Pause/Resume playback
//	R     - Restart
//	[ ]   - Seek
//	+ -   - Playback speed
//	T     - Cycle color themes
//	?     - Show help overlay
package viz
