package sim

import (
	"time"

	"github.com/san-kum/physkern/internal/kernel"
)

// Observer is notified after every completed tick.
type Observer interface {
	OnTick(f kernel.Field, tick int)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(f kernel.Field, tick int)

func (fn ObserverFunc) OnTick(f kernel.Field, tick int) { fn(f, tick) }

type Config struct {
	Ticks int
}

type Result struct {
	Ticks   int
	Series  map[string][]float64
	Metrics map[string]float64
	Elapsed time.Duration
}
