package fluid

import "github.com/san-kum/physkern/internal/kernel"

// damp multiplies every velocity sample by Viscosity. Chunks never
// overlap, so partitioning does not affect results.
func (f *VelocityField) damp() {
	dampSlice(f.vx, f.cfg.Viscosity, f.cfg.ChunkWidth, f.cfg.Workers)
	dampSlice(f.vy, f.cfg.Viscosity, f.cfg.ChunkWidth, f.cfg.Workers)
}

func dampSlice(v []float64, factor float64, width, workers int) {
	chunks := (len(v) + width - 1) / width
	kernel.ParallelFor(chunks, workers, minCellsPerTask/width, func(start, end int) {
		for c := start; c < end; c++ {
			lo := c * width
			hi := lo + width
			if hi > len(v) {
				hi = len(v)
			}
			scaleChunk(v[lo:hi], factor)
		}
	})
}

func scaleChunk(chunk []float64, factor float64) {
	for i := range chunk {
		chunk[i] *= factor
	}
}
