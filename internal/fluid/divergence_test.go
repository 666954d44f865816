package fluid

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/physkern/internal/kernel"
)

var _ = Describe("Divergence", func() {
	It("is exactly zero for the zero field", func() {
		f := NewDefault()
		Expect(f.Divergence()).To(HaveEach(Equal(0.0)))
	})

	It("returns a snapshot that does not track later changes", func() {
		f := NewDefault()
		div := f.Divergence()
		Expect(f.AddVelocity(10, 10, 1, 1)).To(Succeed())
		Expect(div).To(HaveEach(Equal(0.0)))
		Expect(div).To(HaveLen(DefaultSize * DefaultSize))
	})

	Describe("point source", func() {
		var f *VelocityField

		BeforeEach(func() {
			f = NewDefault()
			Expect(f.AddVelocity(64, 64, 1.0, 1.0)).To(Succeed())
		})

		It("flows out of the impulse toward +x and +y", func() {
			div := f.Divergence()
			at := func(x, y int) float64 { return div[y*DefaultSize+x] }

			Expect(at(63, 64)).To(Equal(0.5))
			Expect(at(64, 63)).To(Equal(0.5))
			Expect(at(65, 64)).To(Equal(-0.5))
			Expect(at(64, 65)).To(Equal(-0.5))
			// Central differences skip the cell itself.
			Expect(at(64, 64)).To(Equal(0.0))
		})

		It("matches the single-cell query", func() {
			div := f.Divergence()
			for _, c := range [][2]int{{63, 64}, {64, 63}, {64, 64}, {0, 0}, {127, 127}} {
				got, err := f.DivergenceAt(c[0], c[1])
				Expect(err).NotTo(HaveOccurred())
				Expect(got).To(Equal(div[c[1]*DefaultSize+c[0]]))
			}
		})
	})

	Describe("zero padding", func() {
		const n = 8
		var f *VelocityField

		BeforeEach(func() {
			f = mustNew(undamped(n))
		})

		It("treats the missing left neighbour as zero instead of wrapping", func() {
			// (n-1, 2) sits directly before (0, 3) in flat index space.
			Expect(f.AddVelocity(n-1, 2, 5, 0)).To(Succeed())
			d, _ := f.DivergenceAt(0, 3)
			Expect(d).To(Equal(0.0))

			Expect(f.AddVelocity(1, 3, 2, 0)).To(Succeed())
			d, _ = f.DivergenceAt(0, 3)
			Expect(d).To(Equal(1.0))
		})

		It("treats the missing right neighbour as zero instead of wrapping", func() {
			Expect(f.AddVelocity(0, 4, 5, 0)).To(Succeed())
			Expect(f.AddVelocity(n-2, 3, 2, 0)).To(Succeed())
			d, _ := f.DivergenceAt(n-1, 3)
			Expect(d).To(Equal(-1.0))
		})

		It("pads above the first row and below the last", func() {
			Expect(f.AddVelocity(2, 1, 0, 4)).To(Succeed())
			d, _ := f.DivergenceAt(2, 0)
			Expect(d).To(Equal(2.0))

			Expect(f.AddVelocity(5, n-2, 0, 4)).To(Succeed())
			d, _ = f.DivergenceAt(5, n-1)
			Expect(d).To(Equal(-2.0))
		})
	})

	DescribeTable("rejects out-of-range queries",
		func(x, y int) {
			f := NewDefault()
			_, err := f.DivergenceAt(x, y)
			Expect(err).To(MatchError(kernel.ErrOutOfRange))
		},
		Entry("x = N", DefaultSize, 0),
		Entry("negative y", 0, -1),
	)
})
