package config

import (
	"sort"

	"github.com/san-kum/gravfield/internal/binary"
)

var Presets = map[string]*Config{
	"equal": DefaultConfig(),
	"unequal": {
		System:    binary.System{M1: 3, M2: 1, R1: 0.4, R2: 0.2, Separation: 2, G: 1},
		Grid:      binary.Grid{HalfWidth: 8, Size: 121},
		Multipole: MultipoleConfig{Terms: 10, BoundaryTerms: 3, SampleSize: 400, SampleHalf: 4},
	},
	"point": {
		System:    binary.System{M1: 1, M2: 0.5, R1: 0, R2: 0, Separation: 2, G: 1},
		Grid:      binary.Grid{HalfWidth: 6, Size: 81},
		Multipole: MultipoleConfig{Terms: 20, BoundaryTerms: 3, SampleSize: 400, SampleHalf: 4},
	},
	"contact": {
		System:    binary.System{M1: 1, M2: 1, R1: 0.9, R2: 0.9, Separation: 2, G: 1},
		Grid:      binary.Grid{HalfWidth: 6, Size: 121},
		Multipole: MultipoleConfig{Terms: 10, BoundaryTerms: 3, SampleSize: 400, SampleHalf: 4},
	},
	"wide": {
		System:    binary.System{M1: 1, M2: 1, R1: 0.5, R2: 0.5, Separation: 6, G: 1},
		Grid:      binary.Grid{HalfWidth: 12, Size: 121},
		Multipole: MultipoleConfig{Terms: 12, BoundaryTerms: 3, SampleSize: 400, SampleHalf: 10},
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	c := *cfg
	return &c
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
