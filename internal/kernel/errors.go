package kernel

import (
	"errors"
	"fmt"
)

// Domain errors for field operations.
var (
	// ErrOutOfRange indicates grid coordinates outside [0, N).
	ErrOutOfRange = errors.New("kernel: grid coordinates out of range")

	// ErrNumericDegenerate indicates a NaN or Inf value rejected at the boundary.
	ErrNumericDegenerate = errors.New("kernel: non-finite value (NaN or Inf detected)")

	// ErrInvalidConfig indicates a configuration value outside its valid range.
	ErrInvalidConfig = errors.New("kernel: invalid configuration")

	// ErrNotConfigured indicates a runner used before setup.
	ErrNotConfigured = errors.New("kernel: not configured")
)

// CellError wraps an error with the grid cell it was raised for.
type CellError struct {
	Op      string
	X, Y    int
	N       int
	Wrapped error
}

func (e *CellError) Error() string {
	return fmt.Sprintf("%s (%d,%d) on %dx%d grid: %v", e.Op, e.X, e.Y, e.N, e.N, e.Wrapped)
}

func (e *CellError) Unwrap() error {
	return e.Wrapped
}

// TickError wraps an error with the tick that produced it.
type TickError struct {
	Tick    int
	Wrapped error
}

func (e *TickError) Error() string {
	return fmt.Sprintf("tick %d: %v", e.Tick, e.Wrapped)
}

func (e *TickError) Unwrap() error {
	return e.Wrapped
}
