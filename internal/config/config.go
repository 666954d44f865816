package config

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/san-kum/physkern/internal/fluid"
	"github.com/san-kum/physkern/internal/kernel"
	"gopkg.in/yaml.v3"
)

const (
	DefaultTicks   = 100
	DefaultDataDir = ".physkern"
)

type Config struct {
	Name             string          `yaml:"name"`
	GridSize         int             `yaml:"grid_size" env:"PHYSKERN_GRID_SIZE"`
	Dt               float64         `yaml:"dt" env:"PHYSKERN_DT"`
	Viscosity        float64         `yaml:"viscosity" env:"PHYSKERN_VISCOSITY"`
	ChunkWidth       int             `yaml:"chunk_width" env:"PHYSKERN_CHUNK_WIDTH"`
	Workers          int             `yaml:"workers" env:"PHYSKERN_WORKERS"`
	ValidateImpulses bool            `yaml:"validate_impulses" env:"PHYSKERN_VALIDATE_IMPULSES"`
	Ticks            int             `yaml:"ticks" env:"PHYSKERN_TICKS"`
	DataDir          string          `yaml:"data_dir" env:"PHYSKERN_DATA_DIR"`
	Impulses         []ImpulseConfig `yaml:"impulses"`
}

// ImpulseConfig schedules an impulse before the given tick. Every > 0
// repeats it every that many ticks.
type ImpulseConfig struct {
	Tick  int     `yaml:"tick"`
	Every int     `yaml:"every"`
	X     int     `yaml:"x"`
	Y     int     `yaml:"y"`
	VX    float64 `yaml:"vx"`
	VY    float64 `yaml:"vy"`
}

func DefaultConfig() *Config {
	return &Config{
		Name:             "reference",
		GridSize:         fluid.DefaultSize,
		Dt:               fluid.DefaultDt,
		Viscosity:        fluid.DefaultViscosity,
		ChunkWidth:       fluid.DefaultChunkWidth,
		ValidateImpulses: true,
		Ticks:            DefaultTicks,
		DataDir:          DefaultDataDir,
	}
}

func Load(path string) (*Config, error) {
	return loadInto(DefaultConfig(), path)
}

func loadInto(cfg *Config, path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ApplyEnv overrides fields from PHYSKERN_* environment variables.
func ApplyEnv(cfg *Config) error {
	return applyEnv(cfg, env.Options{})
}

func applyEnv(cfg *Config, opts env.Options) error {
	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Resolve layers a preset, an optional YAML file and the environment, in
// that order. An empty preset starts from DefaultConfig.
func Resolve(preset, path string) (*Config, error) {
	cfg := DefaultConfig()
	if preset != "" {
		p := GetPreset(preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, ListPresets())
		}
		cfg = p
	}
	if path != "" {
		var err error
		if cfg, err = loadInto(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}
	if err := ApplyEnv(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) FluidConfig() fluid.Config {
	return fluid.Config{
		Size:             c.GridSize,
		Dt:               c.Dt,
		Viscosity:        c.Viscosity,
		ChunkWidth:       c.ChunkWidth,
		Workers:          c.Workers,
		ValidateImpulses: c.ValidateImpulses,
	}
}

func (c *Config) Validate() error {
	if err := c.FluidConfig().Validate(); err != nil {
		return err
	}
	if c.Ticks <= 0 {
		return fmt.Errorf("%w: ticks must be positive, got %d", kernel.ErrInvalidConfig, c.Ticks)
	}
	grid := fluid.Grid{N: c.GridSize}
	for i, imp := range c.Impulses {
		if !grid.Contains(imp.X, imp.Y) {
			return fmt.Errorf("impulse %d: %w", i, &kernel.CellError{
				Op: "schedule impulse", X: imp.X, Y: imp.Y, N: c.GridSize, Wrapped: kernel.ErrOutOfRange,
			})
		}
		if imp.Tick < 0 || imp.Every < 0 {
			return fmt.Errorf("%w: impulse %d has negative tick or period", kernel.ErrInvalidConfig, i)
		}
	}
	return nil
}

// ImpulsesAt returns the impulses due before the given tick, with no
// upper bound on tick.
func (c *Config) ImpulsesAt(tick int) []kernel.Impulse {
	var out []kernel.Impulse
	for _, imp := range c.Impulses {
		due := tick == imp.Tick
		if imp.Every > 0 && tick > imp.Tick {
			due = (tick-imp.Tick)%imp.Every == 0
		}
		if due {
			out = append(out, kernel.Impulse{X: imp.X, Y: imp.Y, DX: imp.VX, DY: imp.VY})
		}
	}
	return out
}

// Schedule expands the configured impulses into per-tick lists for ticks
// in [0, Ticks).
func (c *Config) Schedule() map[int][]kernel.Impulse {
	out := make(map[int][]kernel.Impulse)
	for _, imp := range c.Impulses {
		k := kernel.Impulse{X: imp.X, Y: imp.Y, DX: imp.VX, DY: imp.VY}
		for t := imp.Tick; t < c.Ticks; t += imp.Every {
			out[t] = append(out[t], k)
			if imp.Every <= 0 {
				break
			}
		}
	}
	return out
}
