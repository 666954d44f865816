// Package viz renders velocity fields in the terminal.
//
// [Heatmap] draws any per-cell scalar (speed, divergence) as a
// downsampled block map coloured by the current [Theme]. [Model] is a
// Bubble Tea program that steps a field live.
//
// # Key Bindings
//
//	Space - Pause/Resume simulation
//	S     - Single step while paused
//	R     - Reset the field
//	D     - Toggle speed / divergence view
//	I     - Inject an impulse at the centre
//	T     - Cycle color themes
//	?     - Show help overlay
package viz
