package config

import (
	"os"

	"github.com/san-kum/gravfield/internal/binary"
	"github.com/san-kum/gravfield/internal/multipole"
	"gopkg.in/yaml.v3"
)

const (
	DefaultMass       = 1.0
	DefaultRadius     = 0.2
	DefaultSeparation = 2.0
	DefaultG          = 1.0
	DefaultHalfWidth  = 10.0
	DefaultGridSize   = 101
	DefaultTerms      = 10
	// DefaultSampleSize is even so the multipole sample grid skips the origin.
	DefaultSampleSize = 400
	DefaultSampleHalf = 4.0
)

type Config struct {
	System    binary.System   `yaml:"system"`
	Grid      binary.Grid     `yaml:"grid"`
	Multipole MultipoleConfig `yaml:"multipole"`
}

type MultipoleConfig struct {
	Terms         int     `yaml:"terms"`
	BoundaryTerms int     `yaml:"boundary_terms"`
	SampleSize    int     `yaml:"sample_size"`
	SampleHalf    float64 `yaml:"sample_half_width"`
}

func DefaultConfig() *Config {
	return &Config{
		System: binary.System{
			M1:         DefaultMass,
			M2:         DefaultMass,
			R1:         DefaultRadius,
			R2:         DefaultRadius,
			Separation: DefaultSeparation,
			G:          DefaultG,
		},
		Grid: binary.Grid{
			HalfWidth: DefaultHalfWidth,
			Size:      DefaultGridSize,
		},
		Multipole: MultipoleConfig{
			Terms:         DefaultTerms,
			BoundaryTerms: multipole.DefaultBoundaryTerms,
			SampleSize:    DefaultSampleSize,
			SampleHalf:    DefaultSampleHalf,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
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

// Validate checks the inputs of both solve paths without running either.
func (c *Config) Validate() error {
	if err := c.System.Validate(); err != nil {
		return err
	}
	if err := c.Grid.Validate(); err != nil {
		return err
	}
	if r := c.System.SwitchingRadius(); c.Grid.HalfWidth <= r {
		return binary.Errorf("config", binary.ErrDomain, "grid half width %g must exceed switching radius %g", c.Grid.HalfWidth, r)
	}
	if c.Multipole.Terms < 0 || c.Multipole.BoundaryTerms < 0 {
		return binary.Errorf("config", binary.ErrDomain, "multipole terms must be non-negative")
	}
	sample := binary.Grid{HalfWidth: c.Multipole.SampleHalf, Size: c.Multipole.SampleSize}
	return sample.Validate()
}

// SampleGrid is the lattice the multipole series is evaluated on.
func (c *Config) SampleGrid() binary.Grid {
	return binary.Grid{HalfWidth: c.Multipole.SampleHalf, Size: c.Multipole.SampleSize}
}
