package fluid

import "github.com/san-kum/physkern/internal/kernel"

// advect moves velocity along itself with a semi-Lagrangian backtrack.
// vx/vy are read-only for the whole pass; results land in nextX/nextY,
// which become the live arrays once every cell is written.
func (f *VelocityField) advect() {
	n := f.grid.N
	dt := f.cfg.Dt
	maxCoord := float64(n - 1)
	srcX, srcY := f.vx, f.vy
	dstX, dstY := f.nextX, f.nextY

	kernel.ParallelFor(len(srcX), f.cfg.Workers, minCellsPerTask, func(start, end int) {
		for i := start; i < end; i++ {
			x, y := i%n, i/n
			sx := clamp(float64(x)-srcX[i]*dt, 0, maxCoord)
			sy := clamp(float64(y)-srcY[i]*dt, 0, maxCoord)
			src := int(sy)*n + int(sx)

			dstX[i] = srcX[src]
			dstY[i] = srcY[src]
		}
	})

	f.vx, f.nextX = dstX, srcX
	f.vy, f.nextY = dstY, srcY
}

// clamp saturates v to [lo, hi]. NaN maps to lo so the sampled index
// always stays inside the grid.
func clamp(v, lo, hi float64) float64 {
	if !(v > lo) {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
