package config

import "sort"

var Presets = map[string]*Config{
	"reference": {
		GridSize: 128, Dt: 0.01, Viscosity: 0.001, ChunkWidth: 4, Ticks: 100,
		Impulses: []ImpulseConfig{{X: 64, Y: 64, VX: 1.0}},
	},
	"gentle": {
		GridSize: 128, Dt: 0.5, Viscosity: 0.98, ChunkWidth: 4, Ticks: 200,
		Impulses: []ImpulseConfig{
			{X: 64, Y: 48, VX: 6, VY: 0},
			{X: 80, Y: 64, VX: 0, VY: 6},
			{X: 64, Y: 80, VX: -6, VY: 0},
			{X: 48, Y: 64, VX: 0, VY: -6},
		},
	},
	"small": {
		GridSize: 32, Dt: 0.5, Viscosity: 0.9, ChunkWidth: 4, Ticks: 50,
		Impulses: []ImpulseConfig{{X: 16, Y: 16, VX: -1, VY: -1}},
	},
	"jet": {
		GridSize: 128, Dt: 1.0, Viscosity: 0.995, ChunkWidth: 4, Ticks: 300,
		Impulses: []ImpulseConfig{
			{Every: 10, X: 8, Y: 63, VX: 40},
			{Every: 10, X: 8, Y: 64, VX: 40},
			{Every: 10, X: 8, Y: 65, VX: 40},
		},
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := *p
	cfg.Name = name
	cfg.ValidateImpulses = true
	cfg.DataDir = DefaultDataDir
	cfg.Impulses = append([]ImpulseConfig(nil), p.Impulses...)
	return &cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
