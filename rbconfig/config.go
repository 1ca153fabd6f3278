// Package rbconfig holds the enumerated configuration surface of the
// simulation core and an optional TOML loader. Callers may always construct
// Config literally; Load is a convenience for file-driven runs.
package rbconfig

import (
	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
)

// Config is the simulation tuning surface. A CoefficientRestitution below zero is
// the sentinel disabling impulse resolution; the driver then re-derives
// velocities from (pose - pose_prev)/h.
type Config struct {
	CollisionEps           float64    `toml:"collision_eps"`
	CoefficientRestitution float64    `toml:"coefficient_restitution"`
	Gravity                [3]float64 `toml:"gravity"`
	RootFinderTolerance    float64    `toml:"root_finder_tolerance"`
	MaxBisectionDepth      int        `toml:"max_bisection_depth"`
	TimeStep               float64    `toml:"time_step"`
}

// Default returns the standard defaults.
func Default() Config {
	return Config{
		CollisionEps:           2.0,
		CoefficientRestitution: -1,
		Gravity:                [3]float64{0, 0, 0},
		RootFinderTolerance:    1e-6,
		MaxBisectionDepth:      64,
		TimeStep:               1e-2,
	}
}

// Load reads a TOML file over the defaults, so a partial file only overrides
// the keys it names.
func Load(path string) (Config, error) {
	c := Default()
	if _, err := toml.DecodeFile(path, &c); err != nil {
		return Config{}, errors.Wrapf(err, "loading config %q", path)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate rejects settings the core cannot run under.
func (c Config) Validate() error {
	if c.TimeStep <= 0 {
		return errors.Errorf("time_step %v must be positive", c.TimeStep)
	}
	if c.RootFinderTolerance <= 0 {
		return errors.Errorf("root_finder_tolerance %v must be positive", c.RootFinderTolerance)
	}
	if c.MaxBisectionDepth <= 0 {
		return errors.Errorf("max_bisection_depth %d must be positive", c.MaxBisectionDepth)
	}
	if c.CoefficientRestitution > 1 {
		return errors.Errorf("coefficient_restitution %v must be at most 1", c.CoefficientRestitution)
	}
	return nil
}
