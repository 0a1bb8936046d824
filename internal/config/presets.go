package config

import "sort"

// preset builds a named scene on top of the defaults, so presets only
// spell out what they change.
func preset(mutate func(*Config)) *Config {
	cfg := DefaultConfig()
	mutate(cfg)
	return cfg
}

var presets = map[string]func() *Config{
	"blackhole": func() *Config {
		return preset(func(c *Config) {
			c.Mode = "lensing"
			c.Dimension = 4
			c.Velocities = map[string]float64{"XZ": 0.15, "YW": 0.4}
		})
	},
	"blackhole-7d": func() *Config {
		return preset(func(c *Config) {
			c.Mode = "lensing"
			c.Dimension = 7
			c.Velocities = map[string]float64{"XZ": 0.1, "YW": 0.3, "VU": 0.5}
			c.Lensing.Manifold.Spread = 0.5
			c.TemporalCycle = 4
		})
	},
	"mandelbulb": func() *Config {
		return preset(func(c *Config) {
			c.Mode = "fractal"
			c.Dimension = 3
			c.Fractal.Power = 8
			c.Camera.Distance = 3
			c.Velocities = map[string]float64{"XY": 0.2}
		})
	},
	"hyperbulb": func() *Config {
		return preset(func(c *Config) {
			c.Mode = "fractal"
			c.Dimension = 5
			c.Fractal.Power = 3
			c.Camera.Distance = 3.5
			c.Velocities = map[string]float64{"XW": 0.25, "YV": 0.18}
		})
	},
	"tesseract": func() *Config {
		return preset(func(c *Config) {
			c.Mode = "polytope"
			c.Dimension = 4
			c.Polytope.Family = "hypercube"
			c.Velocities = map[string]float64{"XY": 0.3, "ZW": 0.45}
		})
	},
	"simplex-6d": func() *Config {
		return preset(func(c *Config) {
			c.Mode = "polytope"
			c.Dimension = 6
			c.Polytope.Family = "simplex"
			c.Velocities = map[string]float64{"XY": 0.2, "ZW": 0.3, "XV": 0.12}
		})
	},
	"cross-5d": func() *Config {
		return preset(func(c *Config) {
			c.Mode = "polytope"
			c.Dimension = 5
			c.Polytope.Family = "cross"
			c.Velocities = map[string]float64{"XW": 0.35, "YV": 0.2}
		})
	},
	"neural-flow": func() *Config {
		return preset(func(c *Config) {
			c.Mode = "coupled"
			c.Dimension = 4
			c.Coupled.Nonlinearity = "tanh"
			c.Camera.Distance = 4
			c.Velocities = map[string]float64{"XY": 0.15, "ZW": 0.22}
		})
	},
}

// GetPreset returns a fresh copy of the named scene, or nil.
func GetPreset(name string) *Config {
	build, ok := presets[name]
	if !ok {
		return nil
	}
	return build()
}

// ListPresets returns the preset names, sorted.
func ListPresets() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
