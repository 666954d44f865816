// Package kernel provides the primitives shared by every physics component.
//
// The package defines the narrow surface collaborators rely on:
//
//   - [Field]: construction-agnostic view of a grid velocity field
//   - [Stepper]: anything that advances by one fixed tick
//   - [ParallelFor]: fork-join helper over disjoint index ranges
//   - [SetLogger]/[Logger]: package-wide structured logging, silent by default
//
// # Example
//
//	f := fluid.NewDefault()
//	_ = f.AddVelocity(64, 64, 1, 0)
//	f.Step()
//	div := f.Divergence()
//
// # Thread Safety
//
// A Field is NOT safe for concurrent mutation. A Step call is an
// exclusive-access window; stages parallelize internally.
package kernel
