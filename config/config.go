// Package config loads the YAML run configuration for the qsurface CLI.
package config

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

// Distance is the code distance. YAML accepts a single odd scalar or a
// [height, width] pair; a scalar d means a square d x d lattice. Oddness is
// enforced at lattice construction, not here.
type Distance struct {
	H int
	W int
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Distance) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var scalar int
	if err := unmarshal(&scalar); err == nil {
		d.H, d.W = scalar, scalar
		return nil
	}
	var pair []int
	if err := unmarshal(&pair); err != nil {
		return errors.Wrap(err, "distance: want a scalar or a [height, width] pair")
	}
	if len(pair) != 2 {
		return errors.Errorf("distance: want 2 elements, got %d", len(pair))
	}
	d.H, d.W = pair[0], pair[1]
	return nil
}

// Config selects the lattice, schedule and execution parameters for one run.
type Config struct {
	Code     string   `yaml:"code"`
	Distance Distance `yaml:"distance"`
	Rounds   int      `yaml:"rounds"`
	Axis     string   `yaml:"axis"`
	Seed     int64    `yaml:"seed"`
	Compact  bool     `yaml:"compact"`
}

// Default returns the configuration used when no file is given: a d=3 XXZZ
// qubit, two stabilizer rounds, Z-axis readout, compacted schedule.
func Default() *Config {
	return &Config{
		Code:     "XXZZ",
		Distance: Distance{H: 3, W: 3},
		Rounds:   2,
		Axis:     "Z",
		Seed:     1,
		Compact:  true,
	}
}

// Load reads a YAML config file over the defaults and validates it.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read config")
	}
	cfg := Default()
	if err := yaml.UnmarshalStrict(raw, cfg); err != nil {
		return nil, errors.Wrapf(err, "parse config %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrapf(err, "config %s", path)
	}
	return cfg, nil
}

// Validate checks the execution parameters. Lattice dimensions are validated
// by the geometry builder.
func (c *Config) Validate() error {
	if c.Rounds < 1 {
		return errors.Errorf("rounds must be >= 1, got %d", c.Rounds)
	}
	if c.Axis != "X" && c.Axis != "Z" {
		return errors.Errorf("axis must be X or Z, got %q", c.Axis)
	}
	return nil
}
