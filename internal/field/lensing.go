package field

import (
	"fmt"

	"github.com/san-kum/hyperview/internal/ndspace"
	"github.com/san-kum/hyperview/internal/physics"
)

func init() {
	registerMode("lensing", func() Mode {
		c := DefaultLensing()
		return &c
	})
}

// LensingConfig parameterizes the stylized gravitational-lensing volume:
// a gravity well that bends rays, a manifold density layer that emits, and
// an optional bright shell band.
type LensingConfig struct {
	Gravity  physics.GravityParams  `yaml:"gravity"`
	Manifold physics.ManifoldParams `yaml:"manifold"`

	HorizonRadius float64 `yaml:"horizon_radius"`
	FarRadius     float64 `yaml:"far_radius"`

	BendScale float64 `yaml:"bend_scale"`
	// BendMax caps the turn per step in radians; the cap is what keeps the
	// image stable when the quality controller changes the step count.
	BendMax float64 `yaml:"bend_max"`

	ShellRadius float64 `yaml:"shell_radius"`
	ShellWidth  float64 `yaml:"shell_width"`
	ShellBoost  float64 `yaml:"shell_boost"`

	Absorption float64    `yaml:"absorption"`
	Intensity  float64    `yaml:"intensity"`
	BaseColor  [3]float64 `yaml:"base_color,flow"`
	ShellColor [3]float64 `yaml:"shell_color,flow"`
}

func DefaultLensing() LensingConfig {
	return LensingConfig{
		Gravity:       physics.DefaultGravity(),
		Manifold:      physics.DefaultManifold(),
		HorizonRadius: 1.0,
		FarRadius:     40.0,
		BendScale:     0.35,
		BendMax:       0.15,
		ShellRadius:   1.5,
		ShellWidth:    0.12,
		ShellBoost:    2.5,
		Absorption:    0.8,
		Intensity:     1.4,
		BaseColor:     [3]float64{1.0, 0.72, 0.38},
		ShellColor:    [3]float64{1.0, 0.92, 0.75},
	}
}

func (c *LensingConfig) Kind() string { return "lensing" }
func (c *LensingConfig) isMode()      {}

func (c *LensingConfig) Build(n int, maxIterations int) (Evaluator, error) {
	if c.HorizonRadius < 0 {
		return nil, fmt.Errorf("lensing: negative horizon radius %v", c.HorizonRadius)
	}
	cfg := *c
	if cfg.FarRadius <= cfg.HorizonRadius {
		cfg.FarRadius = cfg.HorizonRadius + 1
	}
	return &lensingField{cfg: cfg, n: n}, nil
}

type lensingField struct {
	cfg LensingConfig
	n   int
}

func (f *lensingField) Kind() string { return "lensing" }

// Config exposes the resolved parameters to the raymarch driver, which needs
// the horizon/far radii and the bend tuning.
func (f *lensingField) Config() LensingConfig { return f.cfg }

func (f *lensingField) SampleVolume(p *ndspace.Vec, n int, r float64, out *VolumeSample) {
	c := &f.cfg

	g := physics.Gravity(r, n, c.Gravity)
	d := physics.Density(p, n, c.Manifold)
	shell := physics.BandMask(r, c.ShellRadius, c.ShellWidth)

	em := d * c.Intensity
	boost := 1 + c.ShellBoost*shell
	out.Gravity = g
	out.Density = d
	out.Shell = shell
	for i := 0; i < 3; i++ {
		e := em*c.BaseColor[i]*boost + shell*c.ShellBoost*0.25*c.ShellColor[i]
		out.Emission[i] = physics.ClampFinite(e, 0, 1e6)
	}
}
