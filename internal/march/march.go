// Package march implements the per-pixel raymarch driver: a state machine
// that embeds a 3D view ray into n-dimensional space, steps it through the
// active field, and produces the color and auxiliary buffers for one pixel.
//
// Trace is a pure function of (ray, immutable scene snapshot); it shares no
// mutable state between pixels, so a frame's worth of pixels can run on any
// number of goroutines.
package march

import (
	"math"

	"github.com/san-kum/hyperview/internal/field"
	"github.com/san-kum/hyperview/internal/ndspace"
	"github.com/san-kum/hyperview/internal/physics"
)

// State is the per-pixel state machine phase. Captured, Escaped and
// Exhausted are terminal.
type State int

const (
	Marching State = iota
	Captured
	Escaped
	Exhausted
)

var stateNames = [...]string{"marching", "captured", "escaped", "exhausted"}

func (s State) String() string {
	if s >= 0 && int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "unknown"
}

// Params is the per-frame tuning of the driver, already quality-adjusted.
type Params struct {
	N        int
	StepMin  float64
	StepMax  float64
	MaxSteps int

	HorizonRadius float64
	FarRadius     float64

	BendScale float64
	BendMax   float64 // max radians per step

	// TransmittanceCutoff terminates dense-volume rays early; bounds the
	// worst-case step count.
	TransmittanceCutoff float64

	ShadowSamples int

	SurfaceColor [3]float64
	GlowColor    [3]float64
}

// DefaultParams returns driver tuning for dimension n at full quality.
func DefaultParams(n int) Params {
	return Params{
		N:                   n,
		StepMin:             0.02,
		StepMax:             0.8,
		MaxSteps:            192,
		HorizonRadius:       0,
		FarRadius:           40,
		BendScale:           0,
		BendMax:             0.15,
		TransmittanceCutoff: 1e-3,
		ShadowSamples:       2,
		SurfaceColor:        [3]float64{0.85, 0.85, 0.9},
		GlowColor:           [3]float64{0.25, 0.45, 0.9},
	}
}

// Scene is the immutable per-frame snapshot the driver consumes. Exactly one
// of Surface or Volume is non-nil, selected by the render mode.
type Scene struct {
	Basis   *ndspace.Basis
	Surface field.SurfaceField
	Volume  field.VolumeField
	// Background samples the environment for an (unbent or bent) 3D
	// direction. Must be side-effect free.
	Background func(dx, dy, dz float64) [3]float64
	Stepper    Stepper
	Params     Params
}

// Output is everything one pixel produces: final color plus the auxiliary
// buffers downstream compositing consumes.
type Output struct {
	Color       [3]float64
	Alpha       float64
	HorizonMask float64
	ShellMax    float64
	LensMax     float64
	Normal      [3]float64
	Depth       float64
	State       State
	Steps       int
}

// Trace marches the 3D view ray (origin o, direction d) through the scene.
func Trace(scene *Scene, ox, oy, oz, dx, dy, dz float64) Output {
	p := &scene.Params
	n := p.N

	var pos, dir ndspace.Vec
	scene.Basis.Embed(&pos, ox, oy, oz)
	scene.Basis.EmbedDir(&dir, dx, dy, dz)
	ndspace.Normalize(&dir, n)

	if scene.Volume != nil {
		return traceVolume(scene, &pos, &dir)
	}
	return traceSurface(scene, &pos, &dir)
}

func traceSurface(scene *Scene, pos, dir *ndspace.Vec) Output {
	p := &scene.Params
	n := p.N
	out := Output{State: Marching, Depth: math.Inf(1)}
	t := 0.0

	for step := 0; step < p.MaxSteps; step++ {
		out.Steps = step + 1
		r := ndspace.Norm(pos, n)

		if p.HorizonRadius > 0 && r < p.HorizonRadius {
			out.State = Captured
			out.HorizonMask = 1
			out.Alpha = 1
			out.Depth = t
			return out
		}
		if r > p.FarRadius {
			return escapeToBackground(scene, dir, &out, t)
		}

		dist, _, hit := scene.Surface.Distance(pos, n)
		if hit {
			return shadeSurfaceHit(scene, pos, dir, &out, t)
		}

		h := clampStep(dist, p)
		scene.Stepper.Step(pos, dir, n, h, p.BendMax, nil)
		t += h
	}

	out.State = Exhausted
	// Budget ran out close to the surface; shade as a dim hit so the
	// silhouette stays stable instead of flickering to background.
	out.Color = scale3(p.GlowColor, 0.3)
	out.Alpha = 1
	out.Depth = t
	return out
}

func shadeSurfaceHit(scene *Scene, pos, dir *ndspace.Vec, out *Output, t float64) Output {
	p := &scene.Params
	n := p.N

	var normal ndspace.Vec
	scene.Surface.Normal(&normal, pos, n)
	nx, ny, nz := scene.Basis.Project(&normal)
	norm3(&nx, &ny, &nz)

	// Headlight diffuse term against the view direction.
	vx, vy, vz := scene.Basis.Project(dir)
	norm3(&vx, &vy, &vz)
	diffuse := -(nx*vx + ny*vy + nz*vz)
	if diffuse < 0 {
		diffuse = 0
	}

	occlusion := ambientOcclusion(scene, pos, &normal)
	lit := 0.15 + 0.85*diffuse*occlusion

	for i := 0; i < 3; i++ {
		c := p.SurfaceColor[i]*lit + p.GlowColor[i]*0.1
		out.Color[i] = physics.ClampFinite(c, 0, 1e6)
	}
	out.Alpha = 1
	out.Normal = [3]float64{nx, ny, nz}
	out.Depth = t
	out.State = Captured
	return *out
}

// ambientOcclusion probes the field a few times along the normal; fewer
// samples at reduced quality.
func ambientOcclusion(scene *Scene, pos, normal *ndspace.Vec) float64 {
	p := &scene.Params
	if p.ShadowSamples <= 0 {
		return 1
	}
	n := p.N
	var q ndspace.Vec
	occ := 0.0
	for s := 1; s <= p.ShadowSamples; s++ {
		h := float64(s) * 0.1
		ndspace.AddScaled(&q, pos, normal, h, n)
		d, _, hit := scene.Surface.Distance(&q, n)
		if hit {
			d = 0
		}
		frac := d / h
		if frac > 1 {
			frac = 1
		}
		occ += frac
	}
	return 0.4 + 0.6*occ/float64(p.ShadowSamples)
}

func traceVolume(scene *Scene, pos, dir *ndspace.Vec) Output {
	p := &scene.Params
	n := p.N
	out := Output{State: Marching, Depth: math.Inf(1)}

	var sample field.VolumeSample
	transmittance := 1.0
	t := 0.0

	turn := func(tp, td *ndspace.Vec, a *ndspace.Vec) {
		bendTurn(scene, tp, td, a)
	}
	if p.BendScale == 0 {
		turn = nil
	}

	for step := 0; step < p.MaxSteps; step++ {
		out.Steps = step + 1
		r := ndspace.Norm(pos, n)

		if p.HorizonRadius > 0 && r < p.HorizonRadius {
			out.State = Captured
			out.HorizonMask = 1
			out.Alpha = 1
			out.Depth = t
			out.Normal = radialNormal(scene, pos)
			return out
		}
		if r > p.FarRadius {
			blendBackground(scene, dir, &out, transmittance)
			out.State = Escaped
			out.Alpha = physics.Clamp01(1 - transmittance)
			out.Depth = t
			return out
		}

		scene.Volume.SampleVolume(pos, n, r, &sample)
		if sample.Gravity > out.LensMax {
			out.LensMax = sample.Gravity
		}
		if sample.Shell > out.ShellMax {
			out.ShellMax = sample.Shell
		}

		// Tighter steps where the field is strong or dense.
		h := p.StepMax / (1 + sample.Gravity*0.5 + sample.Density*4)
		h = clampStep(h, p)

		for i := 0; i < 3; i++ {
			e := sample.Emission[i] * transmittance * h
			if !math.IsNaN(e) && !math.IsInf(e, 0) {
				out.Color[i] += e
			}
		}
		transmittance *= math.Exp(-sample.Density * absorptionOf(scene) * h)

		if transmittance < p.TransmittanceCutoff {
			// Opaque enough; skip background sampling entirely.
			out.State = Escaped
			out.Alpha = 1
			out.Depth = t
			out.Normal = radialNormal(scene, pos)
			return out
		}

		scene.Stepper.Step(pos, dir, n, h, p.BendMax, turn)
		t += h
	}

	out.State = Exhausted
	blendBackground(scene, dir, &out, transmittance)
	out.Alpha = physics.Clamp01(1 - transmittance)
	out.Depth = t
	return out
}

// bendTurn computes d(dir)/ds: the in-plane perpendicular toward the center
// scaled by the local turn rate.
func bendTurn(scene *Scene, pos, dir *ndspace.Vec, a *ndspace.Vec) {
	p := &scene.Params
	n := p.N

	r := ndspace.Norm(pos, n)
	var sample field.VolumeSample
	scene.Volume.SampleVolume(pos, n, r, &sample)

	// Component of the inward radial direction perpendicular to dir.
	if r < 1e-9 {
		a.Zero()
		return
	}
	var inward ndspace.Vec
	ndspace.Scale(&inward, pos, -1/r, n)
	along := ndspace.Dot(&inward, dir, n)
	ndspace.AddScaled(a, &inward, dir, -along, n)
	ndspace.Normalize(a, n)

	// The realized per-step angle is clamped to BendMax by the stepper,
	// which knows the actual step length.
	omega := sample.Gravity * p.BendScale
	ndspace.Scale(a, a, omega, n)
}

func escapeToBackground(scene *Scene, dir *ndspace.Vec, out *Output, t float64) Output {
	blendBackground(scene, dir, out, 1)
	out.State = Escaped
	out.Depth = t
	return *out
}

// blendBackground adds the environment sample along the final (possibly
// bent) direction, weighted by the remaining transmittance.
func blendBackground(scene *Scene, dir *ndspace.Vec, out *Output, transmittance float64) {
	if scene.Background == nil || transmittance <= 0 {
		return
	}
	dx, dy, dz := scene.Basis.Project(dir)
	norm3(&dx, &dy, &dz)
	bg := scene.Background(dx, dy, dz)
	for i := 0; i < 3; i++ {
		out.Color[i] = physics.ClampFinite(out.Color[i]+bg[i]*transmittance, 0, 1e6)
	}
}

// radialNormal is the pseudo-normal for volume samples: the radial direction
// projected back to view space, good enough for downstream lighting reuse.
func radialNormal(scene *Scene, pos *ndspace.Vec) [3]float64 {
	x, y, z := scene.Basis.Project(pos)
	norm3(&x, &y, &z)
	return [3]float64{x, y, z}
}

func absorptionOf(scene *Scene) float64 {
	type absorber interface{ Config() field.LensingConfig }
	if a, ok := scene.Volume.(absorber); ok {
		return a.Config().Absorption
	}
	return 1
}

func clampStep(h float64, p *Params) float64 {
	if math.IsNaN(h) || h < p.StepMin {
		return p.StepMin
	}
	if h > p.StepMax {
		return p.StepMax
	}
	return h
}

func scale3(c [3]float64, s float64) [3]float64 {
	return [3]float64{c[0] * s, c[1] * s, c[2] * s}
}

func norm3(x, y, z *float64) {
	m := math.Sqrt(*x**x + *y**y + *z**z)
	if m < 1e-12 {
		*x, *y, *z = 0, 0, 1
		return
	}
	*x /= m
	*y /= m
	*z /= m
}
