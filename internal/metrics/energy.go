package metrics

import (
	"math"

	"github.com/san-kum/physkern/internal/kernel"
)

// KineticEnergy reports Σ ½|v|² at the latest observation.
type KineticEnergy struct {
	name  string
	value float64
}

func NewKineticEnergy() *KineticEnergy {
	return &KineticEnergy{name: "kinetic_energy"}
}

func (k *KineticEnergy) Name() string { return k.name }

func (k *KineticEnergy) Observe(f kernel.Field, tick int) {
	vx, vy := f.Velocities()
	sum := 0.0
	for i := range vx {
		sum += 0.5 * (vx[i]*vx[i] + vy[i]*vy[i])
	}
	k.value = sum
}

func (k *KineticEnergy) Value() float64 { return k.value }
func (k *KineticEnergy) Reset()         { k.value = 0 }

// MaxSpeed tracks the largest |v| seen over the run.
type MaxSpeed struct {
	name string
	max  float64
}

func NewMaxSpeed() *MaxSpeed {
	return &MaxSpeed{name: "max_speed"}
}

func (m *MaxSpeed) Name() string { return m.name }

func (m *MaxSpeed) Observe(f kernel.Field, tick int) {
	vx, vy := f.Velocities()
	for i := range vx {
		s := math.Hypot(vx[i], vy[i])
		if s > m.max {
			m.max = s
		}
	}
}

func (m *MaxSpeed) Value() float64 { return m.max }
func (m *MaxSpeed) Reset()         { m.max = 0 }

// NonFinite counts NaN/Inf velocity samples at the latest observation.
type NonFinite struct {
	name  string
	count int
}

func NewNonFinite() *NonFinite {
	return &NonFinite{name: "non_finite"}
}

func (n *NonFinite) Name() string { return n.name }

func (n *NonFinite) Observe(f kernel.Field, tick int) {
	vx, vy := f.Velocities()
	n.count = 0
	for i := range vx {
		if bad(vx[i]) || bad(vy[i]) {
			n.count++
		}
	}
}

func (n *NonFinite) Value() float64 { return float64(n.count) }
func (n *NonFinite) Reset()         { n.count = 0 }

func bad(v float64) bool {
	return math.IsNaN(v) || math.IsInf(v, 0)
}
