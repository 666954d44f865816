package sim

import (
	"context"
	"fmt"
	"time"

	"github.com/san-kum/physkern/internal/kernel"
	"github.com/san-kum/physkern/internal/metrics"
)

type Simulator struct {
	field     kernel.Field
	metrics   []metrics.Metric
	observers []Observer
	schedule  map[int][]kernel.Impulse
}

func New(field kernel.Field) *Simulator {
	return &Simulator{
		field:     field,
		metrics:   make([]metrics.Metric, 0),
		observers: make([]Observer, 0),
		schedule:  make(map[int][]kernel.Impulse),
	}
}

func (s *Simulator) AddMetric(m metrics.Metric) { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer)     { s.observers = append(s.observers, o) }

// Schedule queues impulses to be applied before the given tick runs.
func (s *Simulator) Schedule(tick int, imps ...kernel.Impulse) {
	s.schedule[tick] = append(s.schedule[tick], imps...)
}

// ScheduleAll merges a precomputed schedule.
func (s *Simulator) ScheduleAll(sched map[int][]kernel.Impulse) {
	for tick, imps := range sched {
		s.Schedule(tick, imps...)
	}
}

// MetricNames returns metric names in registration order.
func (s *Simulator) MetricNames() []string {
	names := make([]string, len(s.metrics))
	for i, m := range s.metrics {
		names[i] = m.Name()
	}
	return names
}

func (s *Simulator) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := s.validateConfig(cfg); err != nil {
		return nil, err
	}

	result := &Result{
		Series:  make(map[string][]float64, len(s.metrics)),
		Metrics: make(map[string]float64, len(s.metrics)),
	}
	for _, m := range s.metrics {
		m.Reset()
		result.Series[m.Name()] = make([]float64, 0, cfg.Ticks)
	}

	log := kernel.Logger()
	log.Info("run started", "ticks", cfg.Ticks, "size", s.field.Size(), "metrics", len(s.metrics))
	start := time.Now()

	for tick := 0; tick < cfg.Ticks; tick++ {
		select {
		case <-ctx.Done():
			result.Elapsed = time.Since(start)
			s.collect(result)
			log.Warn("run canceled", "tick", tick)
			return result, ctx.Err()
		default:
		}

		if err := s.applyImpulses(tick); err != nil {
			result.Elapsed = time.Since(start)
			s.collect(result)
			log.Warn("run aborted", "tick", tick, "err", err)
			return result, err
		}

		s.field.Step()
		result.Ticks++

		for _, m := range s.metrics {
			m.Observe(s.field, tick)
			result.Series[m.Name()] = append(result.Series[m.Name()], m.Value())
		}
		for _, obs := range s.observers {
			obs.OnTick(s.field, tick)
		}
	}

	result.Elapsed = time.Since(start)
	s.collect(result)
	log.Info("run finished", "ticks", result.Ticks, "elapsed", result.Elapsed)
	return result, nil
}

func (s *Simulator) collect(result *Result) {
	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
}

func (s *Simulator) applyImpulses(tick int) error {
	for _, imp := range s.schedule[tick] {
		if err := imp.Apply(s.field); err != nil {
			return &kernel.TickError{Tick: tick, Wrapped: err}
		}
	}
	return nil
}

func (s *Simulator) validateConfig(cfg Config) error {
	if s.field == nil {
		return fmt.Errorf("%w: simulator has no field", kernel.ErrNotConfigured)
	}
	if cfg.Ticks <= 0 {
		return fmt.Errorf("%w: ticks must be positive, got %d", kernel.ErrInvalidConfig, cfg.Ticks)
	}
	return nil
}

// RunWithCallback steps until ctx is done, ticks are exhausted or the
// callback returns false. ticks <= 0 runs until stopped.
func (s *Simulator) RunWithCallback(ctx context.Context, ticks int, callback func(f kernel.Field, tick int) bool) error {
	if s.field == nil {
		return fmt.Errorf("%w: simulator has no field", kernel.ErrNotConfigured)
	}

	for tick := 0; ticks <= 0 || tick < ticks; tick++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err := s.applyImpulses(tick); err != nil {
			return err
		}
		s.field.Step()

		if !callback(s.field, tick) {
			return nil
		}
	}

	return nil
}
