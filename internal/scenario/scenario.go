package scenario

import (
	"context"
	"fmt"
	"os"

	"github.com/san-kum/physkern/internal/config"
	"github.com/san-kum/physkern/internal/fluid"
	"github.com/san-kum/physkern/internal/kernel"
	"github.com/san-kum/physkern/internal/metrics"
	"github.com/san-kum/physkern/internal/sim"
	"github.com/san-kum/physkern/internal/store"
	"gopkg.in/yaml.v3"
)

// Scenario is a scripted sequence of independent runs.
type Scenario struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Steps       []Step `yaml:"steps"`
}

// Step runs one preset, optionally overriding its tick count, time step,
// viscosity or impulse schedule. Zero values keep the preset's setting.
type Step struct {
	Preset    string                 `yaml:"preset"`
	Ticks     int                    `yaml:"ticks"`
	Dt        float64                `yaml:"dt"`
	Viscosity float64                `yaml:"viscosity"`
	Impulses  []config.ImpulseConfig `yaml:"impulses"`
	SaveAs    string                 `yaml:"save_as"`
}

// StepResult pairs a step's diagnostics with the run id it was stored
// under. RunID is empty when no store was given.
type StepResult struct {
	Step   int
	RunID  string
	Result *sim.Result
}

func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(sc.Steps) == 0 {
		return nil, fmt.Errorf("%w: scenario %q has no steps", kernel.ErrInvalidConfig, sc.Name)
	}

	return &sc, nil
}

// Config resolves the step into a full run configuration.
func (s Step) Config() (*config.Config, error) {
	name := s.Preset
	if name == "" {
		name = "reference"
	}
	cfg := config.GetPreset(name)
	if cfg == nil {
		return nil, fmt.Errorf("unknown preset: %s (available: %v)", name, config.ListPresets())
	}

	if s.Ticks > 0 {
		cfg.Ticks = s.Ticks
	}
	if s.Dt > 0 {
		cfg.Dt = s.Dt
	}
	if s.Viscosity > 0 {
		cfg.Viscosity = s.Viscosity
	}
	if len(s.Impulses) > 0 {
		cfg.Impulses = append([]config.ImpulseConfig(nil), s.Impulses...)
	}
	if s.SaveAs != "" {
		cfg.Name = s.SaveAs
	}

	return cfg, cfg.Validate()
}

// Run executes every step on a fresh field. With a non-nil store each
// step's diagnostics are saved. Results for completed steps are returned
// even when a later step fails.
func Run(ctx context.Context, sc *Scenario, st *store.Store) ([]StepResult, error) {
	results := make([]StepResult, 0, len(sc.Steps))

	for i, step := range sc.Steps {
		kernel.Logger().Info("scenario step", "scenario", sc.Name, "step", i+1, "of", len(sc.Steps), "preset", step.Preset)

		cfg, err := step.Config()
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}

		result, err := Execute(ctx, cfg)
		if err != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}

		sr := StepResult{Step: i + 1, Result: result}
		if st != nil {
			id, err := st.Save(Metadata(cfg), result)
			if err != nil {
				return results, fmt.Errorf("step %d save: %w", i+1, err)
			}
			sr.RunID = id
		}

		results = append(results, sr)
	}

	return results, nil
}

// Execute builds a field from cfg, schedules its impulses and runs it
// with the default metric set.
func Execute(ctx context.Context, cfg *config.Config, observers ...sim.Observer) (*sim.Result, error) {
	s, err := newSimulator(cfg, observers...)
	if err != nil {
		return nil, err
	}
	return s.Run(ctx, sim.Config{Ticks: cfg.Ticks})
}

func newSimulator(cfg *config.Config, observers ...sim.Observer) (*sim.Simulator, error) {
	field, err := fluid.New(cfg.FluidConfig())
	if err != nil {
		return nil, err
	}

	s := sim.New(field)
	for _, m := range metrics.Defaults() {
		s.AddMetric(m)
	}
	for _, o := range observers {
		s.AddObserver(o)
	}
	s.ScheduleAll(cfg.Schedule())

	return s, nil
}

// Metadata summarizes cfg for the store.
func Metadata(cfg *config.Config) store.RunMetadata {
	return store.RunMetadata{
		Name:       cfg.Name,
		GridSize:   cfg.GridSize,
		Dt:         cfg.Dt,
		Viscosity:  cfg.Viscosity,
		ChunkWidth: cfg.ChunkWidth,
		Workers:    cfg.Workers,
	}
}
