package metrics

import (
	"math"

	"github.com/san-kum/physkern/internal/kernel"
)

// MaxDivergence tracks the largest |∇·v| seen over the run.
type MaxDivergence struct {
	name string
	max  float64
}

func NewMaxDivergence() *MaxDivergence {
	return &MaxDivergence{name: "max_divergence"}
}

func (m *MaxDivergence) Name() string { return m.name }

func (m *MaxDivergence) Observe(f kernel.Field, tick int) {
	for _, d := range f.Divergence() {
		if a := math.Abs(d); a > m.max {
			m.max = a
		}
	}
}

func (m *MaxDivergence) Value() float64 { return m.max }
func (m *MaxDivergence) Reset()         { m.max = 0 }
