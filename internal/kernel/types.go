package kernel

// Stepper advances a simulation by one fixed tick.
type Stepper interface {
	Step()
}

// Field is the surface a grid velocity solver exposes to drivers,
// diagnostics and visualization.
type Field interface {
	Stepper
	Size() int
	AddVelocity(x, y int, dvx, dvy float64) error
	Divergence() []float64
	Velocities() (vx, vy []float64)
	Reset()
}

// Impulse is an additive velocity change applied to one cell.
type Impulse struct {
	X, Y   int
	DX, DY float64
}

// Apply adds the impulse to f.
func (i Impulse) Apply(f Field) error {
	return f.AddVelocity(i.X, i.Y, i.DX, i.DY)
}
