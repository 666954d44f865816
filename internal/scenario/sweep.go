package scenario

import (
	"context"
	"fmt"

	"github.com/san-kum/physkern/internal/config"
	"github.com/san-kum/physkern/internal/kernel"
	"github.com/san-kum/physkern/internal/sim"
)

// Sweep runs a preset across evenly spaced values of one parameter.
// Workers bounds how many points run at once; 0 means GOMAXPROCS.
type Sweep struct {
	Preset  string
	Param   string // "viscosity" or "dt"
	Min     float64
	Max     float64
	Steps   int
	Ticks   int
	Workers int
}

type SweepResult struct {
	Value   float64
	Metrics map[string]float64
}

func RunSweep(ctx context.Context, sw *Sweep) ([]SweepResult, error) {
	if sw.Steps < 1 {
		return nil, fmt.Errorf("%w: sweep needs at least one step", kernel.ErrInvalidConfig)
	}

	base := config.GetPreset(sw.Preset)
	if base == nil {
		return nil, fmt.Errorf("unknown preset: %s (available: %v)", sw.Preset, config.ListPresets())
	}
	if sw.Ticks > 0 {
		base.Ticks = sw.Ticks
	}

	var set func(c *config.Config, v float64)
	switch sw.Param {
	case "viscosity":
		set = func(c *config.Config, v float64) { c.Viscosity = v }
	case "dt":
		set = func(c *config.Config, v float64) { c.Dt = v }
	default:
		return nil, fmt.Errorf("%w: cannot sweep %q", kernel.ErrInvalidConfig, sw.Param)
	}

	step := 0.0
	if sw.Steps > 1 {
		step = (sw.Max - sw.Min) / float64(sw.Steps-1)
	}

	values := make([]float64, sw.Steps)
	ens := sim.NewEnsemble(sw.Workers)
	for i := range values {
		values[i] = sw.Min + float64(i)*step

		cfg := *base
		cfg.Impulses = append([]config.ImpulseConfig(nil), base.Impulses...)
		set(&cfg, values[i])
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("sweep %s=%g: %w", sw.Param, values[i], err)
		}

		s, err := newSimulator(&cfg)
		if err != nil {
			return nil, fmt.Errorf("sweep %s=%g: %w", sw.Param, values[i], err)
		}
		ens.Add(s, sim.Config{Ticks: cfg.Ticks})
	}

	runs, err := ens.Run(ctx)

	results := make([]SweepResult, 0, sw.Steps)
	for i, r := range runs {
		if r == nil {
			break
		}
		results = append(results, SweepResult{Value: values[i], Metrics: r.Metrics})
		kernel.Logger().Debug("sweep point", "param", sw.Param, "value", values[i], "step", i+1, "of", sw.Steps)
	}
	if err != nil {
		return results, fmt.Errorf("sweep %s: %w", sw.Param, err)
	}

	return results, nil
}
