package metrics

import "github.com/san-kum/physkern/internal/kernel"

// Metric observes a field once per tick and reduces it to a scalar.
type Metric interface {
	Name() string
	Observe(f kernel.Field, tick int)
	Value() float64
	Reset()
}

// Defaults returns the diagnostics recorded for every run.
func Defaults() []Metric {
	return []Metric{
		NewKineticEnergy(),
		NewMaxSpeed(),
		NewMaxDivergence(),
		NewNonFinite(),
	}
}
