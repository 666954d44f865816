package fluid

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/physkern/internal/kernel"
)

// undamped keeps velocities intact through the damping stage so advection
// can be observed on its own.
func undamped(size int) Config {
	cfg := DefaultConfig()
	cfg.Size = size
	cfg.Viscosity = 1
	return cfg
}

func mustNew(cfg Config) *VelocityField {
	f, err := New(cfg)
	Expect(err).NotTo(HaveOccurred())
	return f
}

var _ = Describe("Config", func() {
	It("accepts the reference constants", func() {
		Expect(DefaultConfig().Validate()).To(Succeed())
	})

	DescribeTable("rejects invalid values",
		func(mutate func(*Config)) {
			cfg := DefaultConfig()
			mutate(&cfg)
			Expect(cfg.Validate()).To(MatchError(kernel.ErrInvalidConfig))

			_, err := New(cfg)
			Expect(err).To(MatchError(kernel.ErrInvalidConfig))
		},
		Entry("size below two", func(c *Config) { c.Size = 1 }),
		Entry("size above the cap", func(c *Config) { c.Size = MaxSize + 1 }),
		Entry("size whose square overflows", func(c *Config) { c.Size = math.MaxInt }),
		Entry("zero dt", func(c *Config) { c.Dt = 0 }),
		Entry("NaN dt", func(c *Config) { c.Dt = math.NaN() }),
		Entry("negative viscosity", func(c *Config) { c.Viscosity = -0.1 }),
		Entry("infinite viscosity", func(c *Config) { c.Viscosity = math.Inf(1) }),
		Entry("zero chunk width", func(c *Config) { c.ChunkWidth = 0 }),
		Entry("negative workers", func(c *Config) { c.Workers = -2 }),
	)
})

var _ = Describe("VelocityField", func() {
	var f *VelocityField

	BeforeEach(func() {
		f = NewDefault()
	})

	Describe("construction", func() {
		It("allocates three zeroed N*N arrays", func() {
			Expect(f.Size()).To(Equal(DefaultSize))
			vx, vy := f.Velocities()
			Expect(vx).To(HaveLen(DefaultSize * DefaultSize))
			Expect(vy).To(HaveLen(DefaultSize * DefaultSize))
			Expect(f.Density()).To(HaveLen(DefaultSize * DefaultSize))
			for i := range vx {
				Expect(vx[i]).To(BeZero())
				Expect(vy[i]).To(BeZero())
			}
		})
	})

	Describe("AddVelocity", func() {
		It("adds impulses at y*N+x", func() {
			Expect(f.AddVelocity(3, 5, 1.5, -2)).To(Succeed())
			Expect(f.AddVelocity(3, 5, 0.5, 1)).To(Succeed())

			vx, vy := f.Velocities()
			Expect(vx[5*DefaultSize+3]).To(Equal(2.0))
			Expect(vy[5*DefaultSize+3]).To(Equal(-1.0))

			gx, gy, err := f.Velocity(3, 5)
			Expect(err).NotTo(HaveOccurred())
			Expect(gx).To(Equal(2.0))
			Expect(gy).To(Equal(-1.0))
		})

		DescribeTable("rejects coordinates outside the grid without mutating",
			func(x, y int) {
				err := f.AddVelocity(x, y, 1, 1)
				Expect(err).To(MatchError(kernel.ErrOutOfRange))

				var ce *kernel.CellError
				Expect(err).To(BeAssignableToTypeOf(ce))

				vx, vy := f.Velocities()
				Expect(vx).To(HaveEach(BeZero()))
				Expect(vy).To(HaveEach(BeZero()))
			},
			Entry("x = N", DefaultSize, 0),
			Entry("y = N", 0, DefaultSize),
			Entry("negative x", -1, 4),
			Entry("negative y", 4, -1),
		)

		It("rejects non-finite impulses when validation is on", func() {
			Expect(f.AddVelocity(1, 1, math.NaN(), 0)).To(MatchError(kernel.ErrNumericDegenerate))
			Expect(f.AddVelocity(1, 1, 0, math.Inf(-1))).To(MatchError(kernel.ErrNumericDegenerate))
			vx, _, _ := f.Velocity(1, 1)
			Expect(vx).To(BeZero())
		})

		It("lets non-finite impulses through when validation is off", func() {
			cfg := DefaultConfig()
			cfg.ValidateImpulses = false
			g := mustNew(cfg)
			Expect(g.AddVelocity(1, 1, math.Inf(1), 0)).To(Succeed())
			vx, _, _ := g.Velocity(1, 1)
			Expect(math.IsInf(vx, 1)).To(BeTrue())
		})
	})

	Describe("read-back", func() {
		It("returns copies that do not alias the field", func() {
			Expect(f.AddVelocity(0, 0, 1, 1)).To(Succeed())
			vx, _ := f.Velocities()
			vx[0] = 42
			got, _, _ := f.Velocity(0, 0)
			Expect(got).To(Equal(1.0))
		})

		It("keeps density inert", func() {
			Expect(f.AddVelocity(64, 64, 3, 3)).To(Succeed())
			f.Step()
			Expect(f.Density()).To(HaveEach(BeZero()))
			d, err := f.DensityAt(64, 64)
			Expect(err).NotTo(HaveOccurred())
			Expect(d).To(BeZero())

			_, err = f.DensityAt(DefaultSize, 0)
			Expect(err).To(MatchError(kernel.ErrOutOfRange))
		})

		It("zeroes everything on Reset", func() {
			Expect(f.AddVelocity(10, 10, 1, 2)).To(Succeed())
			f.Reset()
			vx, vy := f.Velocities()
			Expect(vx).To(HaveEach(BeZero()))
			Expect(vy).To(HaveEach(BeZero()))
		})
	})
})
