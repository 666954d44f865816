package fluid

import (
	"math"
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Step", func() {
	Describe("damping", func() {
		It("attenuates the reference impulse after one tick", func() {
			f := NewDefault()
			Expect(f.AddVelocity(64, 64, 1.0, 0.0)).To(Succeed())
			f.Step()
			vx, _ := f.Velocities()
			Expect(vx[64*128+64]).To(BeNumerically("<", 1.0))
		})

		It("never increases magnitude", func() {
			f := NewDefault()
			rng := rand.New(rand.NewSource(7))
			for i := 0; i < 500; i++ {
				x, y := rng.Intn(f.Size()), rng.Intn(f.Size())
				Expect(f.AddVelocity(x, y, rng.NormFloat64()*10, rng.NormFloat64()*10)).To(Succeed())
			}
			beforeX, beforeY := f.Velocities()
			f.damp()
			afterX, afterY := f.Velocities()
			for i := range beforeX {
				Expect(math.Abs(afterX[i])).To(BeNumerically("<=", math.Abs(beforeX[i])))
				Expect(math.Abs(afterY[i])).To(BeNumerically("<=", math.Abs(beforeY[i])))
				Expect(afterX[i]).To(Equal(beforeX[i] * DefaultViscosity))
			}
		})

		DescribeTable("gives identical results for any chunk width",
			func(width int) {
				cfg := DefaultConfig()
				cfg.Size = 33
				cfg.Viscosity = 0.5
				cfg.ChunkWidth = width
				f := mustNew(cfg)
				for i := 0; i < cfg.Size; i++ {
					Expect(f.AddVelocity(i, (i*7)%cfg.Size, float64(i), -float64(i))).To(Succeed())
				}
				f.damp()
				vx, vy := f.Velocities()
				for i := 0; i < cfg.Size; i++ {
					idx := ((i*7)%cfg.Size)*cfg.Size + i
					Expect(vx[idx]).To(Equal(float64(i) * 0.5))
					Expect(vy[idx]).To(Equal(-float64(i) * 0.5))
				}
			},
			Entry("width 1", 1),
			Entry("width 4", 4),
			Entry("width 7 (uneven tail)", 7),
			Entry("wider than the grid", 5000),
		)
	})

	Describe("advection", func() {
		var cfg Config

		BeforeEach(func() {
			cfg = undamped(16)
			cfg.Dt = 0.25
		})

		It("samples the nearest-lower source cell from the damped snapshot", func() {
			f := mustNew(cfg)
			Expect(f.AddVelocity(5, 5, 8, 0)).To(Succeed())
			Expect(f.AddVelocity(3, 5, 1, 9)).To(Succeed())
			f.Step()

			// (5,5) backtracks to (3,5) and takes both components from there.
			vx, vy, _ := f.Velocity(5, 5)
			Expect(vx).To(Equal(1.0))
			Expect(vy).To(Equal(9.0))

			// (3,5) backtracks to (2.75, 2.75) -> (2,2), which is empty.
			vx, vy, _ = f.Velocity(3, 5)
			Expect(vx).To(BeZero())
			Expect(vy).To(BeZero())
		})

		It("does not observe sibling writes from the same pass", func() {
			f := mustNew(cfg)
			// A chain where each cell samples its left neighbour: a live
			// in-place update would smear the first value down the row.
			for x := 1; x < 6; x++ {
				Expect(f.AddVelocity(x, 0, 4, 0)).To(Succeed())
			}
			Expect(f.AddVelocity(0, 0, 100, 0)).To(Succeed())
			f.Step()

			vx, _, _ := f.Velocity(1, 0)
			Expect(vx).To(Equal(100.0))
			for x := 2; x < 6; x++ {
				vx, _, _ = f.Velocity(x, 0)
				Expect(vx).To(Equal(4.0))
			}
		})

		It("only ever reads values that exist in the damped field", func() {
			c := DefaultConfig()
			c.Size = 32
			c.Viscosity = 0.9
			f := mustNew(c)
			rng := rand.New(rand.NewSource(11))
			for i := 0; i < 300; i++ {
				x, y := rng.Intn(c.Size), rng.Intn(c.Size)
				Expect(f.AddVelocity(x, y, (rng.Float64()-0.5)*8000, (rng.Float64()-0.5)*8000)).To(Succeed())
			}

			f.damp()
			dampedX, dampedY := f.Velocities()
			seenX := make(map[float64]bool, len(dampedX))
			seenY := make(map[float64]bool, len(dampedY))
			for i := range dampedX {
				seenX[dampedX[i]] = true
				seenY[dampedY[i]] = true
			}

			f.advect()
			vx, vy := f.Velocities()
			for i := range vx {
				Expect(seenX).To(HaveKey(vx[i]))
				Expect(seenY).To(HaveKey(vy[i]))
			}
		})

		It("saturates backtracks pointing out of the grid at the corners", func() {
			f := mustNew(cfg)
			Expect(f.AddVelocity(0, 0, 100, 100)).To(Succeed())
			Expect(f.AddVelocity(15, 15, -100, -100)).To(Succeed())
			f.Step()

			vx, vy, _ := f.Velocity(0, 0)
			Expect(vx).To(Equal(100.0))
			Expect(vy).To(Equal(100.0))
			vx, vy, _ = f.Velocity(15, 15)
			Expect(vx).To(Equal(-100.0))
			Expect(vy).To(Equal(-100.0))
		})

		It("keeps non-finite samples inside the grid", func() {
			cfg.ValidateImpulses = false
			f := mustNew(cfg)
			Expect(f.AddVelocity(4, 4, math.NaN(), 0)).To(Succeed())
			Expect(f.AddVelocity(6, 6, math.Inf(1), math.Inf(-1))).To(Succeed())
			Expect(f.Step).NotTo(Panic())

			// NaN backtracks clamp to x = 0.
			vx, _, _ := f.Velocity(4, 4)
			Expect(vx).To(BeZero())
			// (+Inf, -Inf) saturates to (0, N-1).
			vx, vy, _ := f.Velocity(6, 6)
			Expect(vx).To(BeZero())
			Expect(vy).To(BeZero())
		})
	})

	Describe("determinism", func() {
		run := func(workers, width int) ([]float64, []float64, []float64) {
			cfg := DefaultConfig()
			cfg.Size = 48
			cfg.Viscosity = 0.95
			cfg.Dt = 0.5
			cfg.Workers = workers
			cfg.ChunkWidth = width
			f := mustNew(cfg)
			rng := rand.New(rand.NewSource(3))
			for i := 0; i < 400; i++ {
				x, y := rng.Intn(cfg.Size), rng.Intn(cfg.Size)
				Expect(f.AddVelocity(x, y, rng.NormFloat64()*6, rng.NormFloat64()*6)).To(Succeed())
			}
			for i := 0; i < 6; i++ {
				f.Step()
			}
			vx, vy := f.Velocities()
			return vx, vy, f.Divergence()
		}

		It("is bit-identical across worker counts and chunk widths", func() {
			refX, refY, refDiv := run(1, 4)
			for _, workers := range []int{0, 2, 3, 8, 64} {
				for _, width := range []int{1, 4, 7} {
					vx, vy, div := run(workers, width)
					Expect(vx).To(Equal(refX), "workers=%d width=%d", workers, width)
					Expect(vy).To(Equal(refY), "workers=%d width=%d", workers, width)
					Expect(div).To(Equal(refDiv), "workers=%d width=%d", workers, width)
				}
			}
		})

		It("repeats exactly on identical starting fields", func() {
			ax, ay, _ := run(0, 4)
			bx, by, _ := run(0, 4)
			Expect(ax).To(Equal(bx))
			Expect(ay).To(Equal(by))
		})
	})
})

var _ = Describe("clamp", func() {
	DescribeTable("saturates to the grid",
		func(v, want float64) {
			Expect(clamp(v, 0, 127)).To(Equal(want))
		},
		Entry("inside", 12.5, 12.5),
		Entry("below", -3.0, 0.0),
		Entry("above", 400.0, 127.0),
		Entry("NaN", math.NaN(), 0.0),
		Entry("+Inf", math.Inf(1), 127.0),
		Entry("-Inf", math.Inf(-1), 0.0),
	)
})
