// Package fluid implements a grid-based 2-D velocity field.
//
// A [VelocityField] owns three dense N×N arrays (velocity-x, velocity-y
// and an inert density) addressed as y*N + x. Each [VelocityField.Step]
// runs two data-parallel stages separated by a full barrier:
//
//   - damping: every velocity sample is multiplied by Viscosity
//   - advection: semi-Lagrangian backtrack with nearest-lower-cell
//     sampling, reading the damped arrays and writing a second buffer
//
// [VelocityField.Divergence] is a read-only central-difference estimate
// with zero padding outside the grid.
//
// Results are bit-identical for any Workers or ChunkWidth setting: every
// output cell is written by exactly one task and depends only on the
// frozen input buffer.
package fluid
