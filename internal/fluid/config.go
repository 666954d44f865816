package fluid

import (
	"fmt"
	"math"

	"github.com/san-kum/physkern/internal/kernel"
)

const (
	DefaultSize       = 128
	DefaultDt         = 0.01
	DefaultViscosity  = 0.001
	DefaultChunkWidth = 4

	// MaxSize caps the grid side so the five N*N buffers stay under ~700 MB.
	MaxSize = 4096

	// minCellsPerTask keeps tiny grids from spawning goroutines per row.
	minCellsPerTask = 256
)

// Config holds the solver constants fixed for the lifetime of a field.
type Config struct {
	Size       int     // cells per side
	Dt         float64 // advection time step
	Viscosity  float64 // per-tick multiplicative damping factor
	ChunkWidth int     // damping partition width
	Workers    int     // 0 uses GOMAXPROCS

	// ValidateImpulses rejects NaN/Inf impulse components.
	ValidateImpulses bool
}

// DefaultConfig returns the reference constants.
func DefaultConfig() Config {
	return Config{
		Size:             DefaultSize,
		Dt:               DefaultDt,
		Viscosity:        DefaultViscosity,
		ChunkWidth:       DefaultChunkWidth,
		ValidateImpulses: true,
	}
}

func (c Config) Validate() error {
	if c.Size < 2 || c.Size > MaxSize {
		return fmt.Errorf("%w: size must be in [2, %d], got %d", kernel.ErrInvalidConfig, MaxSize, c.Size)
	}
	if math.IsNaN(c.Dt) || math.IsInf(c.Dt, 0) || c.Dt <= 0 {
		return fmt.Errorf("%w: dt must be positive and finite, got %v", kernel.ErrInvalidConfig, c.Dt)
	}
	if math.IsNaN(c.Viscosity) || math.IsInf(c.Viscosity, 0) || c.Viscosity < 0 {
		return fmt.Errorf("%w: viscosity must be non-negative and finite, got %v", kernel.ErrInvalidConfig, c.Viscosity)
	}
	if c.ChunkWidth < 1 {
		return fmt.Errorf("%w: chunk width must be at least 1, got %d", kernel.ErrInvalidConfig, c.ChunkWidth)
	}
	if c.Workers < 0 {
		return fmt.Errorf("%w: workers must not be negative, got %d", kernel.ErrInvalidConfig, c.Workers)
	}
	return nil
}
