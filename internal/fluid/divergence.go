package fluid

import "github.com/san-kum/physkern/internal/kernel"

// Divergence returns a freshly allocated central-difference divergence
// estimate. Neighbours outside the grid contribute zero.
func (f *VelocityField) Divergence() []float64 {
	out := make([]float64, f.grid.Cells())
	kernel.ParallelFor(len(out), f.cfg.Workers, minCellsPerTask, func(start, end int) {
		for i := start; i < end; i++ {
			x, y := f.grid.Coords(i)
			out[i] = f.divergence(x, y)
		}
	})
	return out
}

// DivergenceAt evaluates the divergence of a single cell.
func (f *VelocityField) DivergenceAt(x, y int) (float64, error) {
	if !f.grid.Contains(x, y) {
		return 0, f.grid.cellError("divergence", x, y)
	}
	return f.divergence(x, y), nil
}

func (f *VelocityField) divergence(x, y int) float64 {
	n := f.grid.N
	i := y*n + x

	var left, right, up, down float64
	if x > 0 {
		left = f.vx[i-1]
	}
	if x+1 < n {
		right = f.vx[i+1]
	}
	if y > 0 {
		up = f.vy[i-n]
	}
	if y+1 < n {
		down = f.vy[i+n]
	}

	return 0.5 * ((right - left) + (down - up))
}
