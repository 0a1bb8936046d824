package config

import (
	"fmt"
	"maps"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/hyperview/internal/field"
	"github.com/san-kum/hyperview/internal/ndspace"
)

const (
	DefaultDimension = 4
	DefaultWidth     = 800
	DefaultHeight    = 600
	DefaultGamma     = 2.2
	DefaultFPS       = 30
)

// Config is a full scene description. Every tunable has a stable yaml name
// so scenes can be saved, shared and diffed.
type Config struct {
	Mode      string `yaml:"mode"`
	Dimension int    `yaml:"dimension"`

	// Angles maps plane names ("XY", "ZW", "XA6") to radians.
	Angles map[string]float64 `yaml:"angles"`
	// Velocities maps plane names to radians per second for animation.
	Velocities map[string]float64 `yaml:"velocities"`
	// Slice fixes the coordinates of axes 3..N-1.
	Slice []float64 `yaml:"slice,flow"`

	Width   int     `yaml:"width"`
	Height  int     `yaml:"height"`
	Gamma   float64 `yaml:"gamma"`
	FPS     int     `yaml:"fps"`
	Quality string  `yaml:"quality"`
	Stepper string  `yaml:"stepper"`

	// TemporalCycle enables sparse volume rendering; 0 disables, 4 and 16
	// are supported.
	TemporalCycle int `yaml:"temporal_cycle"`

	Camera CameraConfig `yaml:"camera"`

	Fractal  field.FractalConfig    `yaml:"fractal"`
	Coupled  field.CoupledMapConfig `yaml:"coupled"`
	Lensing  field.LensingConfig    `yaml:"lensing"`
	Polytope field.PolytopeConfig   `yaml:"polytope"`
}

// Clone deep-copies the config. The angle, velocity, slice and coupling
// collections are duplicated so overrides applied to the copy cannot reach
// the original.
func (c *Config) Clone() *Config {
	out := *c
	out.Angles = maps.Clone(c.Angles)
	out.Velocities = maps.Clone(c.Velocities)
	out.Slice = slices.Clone(c.Slice)
	out.Coupled.Coupling = slices.Clone(c.Coupled.Coupling)
	out.Coupled.Bias = slices.Clone(c.Coupled.Bias)
	return &out
}

type CameraConfig struct {
	Distance float64 `yaml:"distance"`
	Yaw      float64 `yaml:"yaw"`
	Pitch    float64 `yaml:"pitch"`
	Zoom     float64 `yaml:"zoom"`
	FOV      float64 `yaml:"fov"`
}

func DefaultConfig() *Config {
	return &Config{
		Mode:       "lensing",
		Dimension:  DefaultDimension,
		Angles:     map[string]float64{},
		Velocities: map[string]float64{},
		Width:      DefaultWidth,
		Height:     DefaultHeight,
		Gamma:      DefaultGamma,
		FPS:        DefaultFPS,
		Quality:    "high",
		Stepper:    "euler",
		Camera: CameraConfig{
			Distance: 8,
			Zoom:     1,
			FOV:      0.7853981633974483,
		},
		Fractal:  field.DefaultFractal(),
		Coupled:  field.DefaultCoupledMap(),
		Lensing:  field.DefaultLensing(),
		Polytope: field.DefaultPolytope(),
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
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

// FieldMode resolves the mode selector to the matching sub-config.
func (c *Config) FieldMode() (field.Mode, error) {
	switch c.Mode {
	case "fractal":
		return &c.Fractal, nil
	case "coupled":
		return &c.Coupled, nil
	case "lensing":
		return &c.Lensing, nil
	case "polytope":
		return &c.Polytope, nil
	default:
		return nil, fmt.Errorf("unknown mode %q (have %v)", c.Mode, field.ModeNames())
	}
}

// AngleMap parses the plane-name keys. Unparseable names are skipped rather
// than failing the scene; one bad plane must not blank the frame.
func (c *Config) AngleMap() ndspace.AngleMap {
	return parsePlaneMap(c.Angles)
}

// VelocityMap parses the animation velocities the same way.
func (c *Config) VelocityMap() ndspace.AngleMap {
	return parsePlaneMap(c.Velocities)
}

func parsePlaneMap(m map[string]float64) ndspace.AngleMap {
	out := make(ndspace.AngleMap, len(m))
	for name, v := range m {
		p, err := ndspace.ParsePlane(name)
		if err != nil {
			continue
		}
		out[p] = v
	}
	return out
}
