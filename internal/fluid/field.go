package fluid

import (
	"math"

	"github.com/san-kum/physkern/internal/kernel"
)

// VelocityField is an N×N grid of velocity and density samples.
//
// It is not safe for concurrent use: a Step call must have exclusive
// access to the field.
type VelocityField struct {
	cfg  Config
	grid Grid

	vx, vy  []float64
	density []float64

	// advection targets, swapped with vx/vy after every tick
	nextX, nextY []float64
}

var _ kernel.Field = (*VelocityField)(nil)

// New allocates a zero field for cfg.
func New(cfg Config) (*VelocityField, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	grid := Grid{N: cfg.Size}
	cells := grid.Cells()
	f := &VelocityField{
		cfg:     cfg,
		grid:    grid,
		vx:      make([]float64, cells),
		vy:      make([]float64, cells),
		density: make([]float64, cells),
		nextX:   make([]float64, cells),
		nextY:   make([]float64, cells),
	}

	kernel.Logger().Debug("velocity field allocated",
		"size", cfg.Size, "cells", cells, "dt", cfg.Dt, "viscosity", cfg.Viscosity,
		"chunk_width", cfg.ChunkWidth, "workers", cfg.Workers)
	return f, nil
}

// NewDefault allocates a field with the reference constants.
func NewDefault() *VelocityField {
	f, err := New(DefaultConfig())
	if err != nil {
		panic(err) // DefaultConfig always validates
	}
	return f
}

func (f *VelocityField) Size() int      { return f.grid.N }
func (f *VelocityField) Config() Config { return f.cfg }
func (f *VelocityField) Grid() Grid     { return f.grid }

// AddVelocity adds (dvx, dvy) to the cell at (x, y).
// Rejected impulses leave the field untouched.
func (f *VelocityField) AddVelocity(x, y int, dvx, dvy float64) error {
	idx, err := f.grid.Index(x, y)
	if err != nil {
		return f.grid.cellError("add velocity", x, y)
	}
	if f.cfg.ValidateImpulses && (!finite(dvx) || !finite(dvy)) {
		return &kernel.CellError{Op: "add velocity", X: x, Y: y, N: f.grid.N, Wrapped: kernel.ErrNumericDegenerate}
	}

	f.vx[idx] += dvx
	f.vy[idx] += dvy
	return nil
}

// Velocity returns the velocity sample at (x, y).
func (f *VelocityField) Velocity(x, y int) (vx, vy float64, err error) {
	idx, err := f.grid.Index(x, y)
	if err != nil {
		return 0, 0, f.grid.cellError("velocity", x, y)
	}
	return f.vx[idx], f.vy[idx], nil
}

// DensityAt returns the density sample at (x, y).
func (f *VelocityField) DensityAt(x, y int) (float64, error) {
	idx, err := f.grid.Index(x, y)
	if err != nil {
		return 0, f.grid.cellError("density", x, y)
	}
	return f.density[idx], nil
}

// Velocities returns copies of both velocity arrays.
func (f *VelocityField) Velocities() (vx, vy []float64) {
	return cloneSlice(f.vx), cloneSlice(f.vy)
}

// Density returns a copy of the density array.
func (f *VelocityField) Density() []float64 {
	return cloneSlice(f.density)
}

// Reset zeroes every array.
func (f *VelocityField) Reset() {
	clear(f.vx)
	clear(f.vy)
	clear(f.density)
}

// Step advances the field by one tick: damping, then advection.
func (f *VelocityField) Step() {
	f.damp()
	f.advect()
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func cloneSlice(s []float64) []float64 {
	c := make([]float64, len(s))
	copy(c, s)
	return c
}
