// Package render turns scene parameters into frames: it composes the
// per-frame rotation and basis snapshot, fans the per-pixel raymarch out
// over the compute backend, and encodes the results.
package render

import (
	"fmt"

	"github.com/san-kum/hyperview/internal/compute"
	"github.com/san-kum/hyperview/internal/field"
	"github.com/san-kum/hyperview/internal/march"
	"github.com/san-kum/hyperview/internal/ndspace"
	"github.com/san-kum/hyperview/internal/quality"
	"github.com/san-kum/hyperview/internal/temporal"
)

// Settings is everything one frame needs. The caller owns parameter
// validation; values here are assumed range-clamped already.
type Settings struct {
	Width  int
	Height int

	N      int
	Angles ndspace.AngleMap
	// Slice holds the fixed coordinates of axes 3..N-1.
	Slice []float64

	Mode    field.Mode
	Quality quality.Preset
	Stepper string

	Camera *Camera

	// TemporalCycle enables sparse rendering for volume modes when set to
	// a supported cycle length. Zero disables it.
	TemporalCycle int

	Background func(dx, dy, dz float64) [3]float64
}

// Renderer renders frames, keeping the rotation, basis and temporal caches
// alive between them. Not safe for concurrent use; one renderer per view.
type Renderer struct {
	backend compute.Backend

	rot   ndspace.RotationCache
	basis ndspace.BasisCache

	recon   *temporal.Reconstructor
	prevCam Camera
	prev    *Frame
}

func NewRenderer(backend compute.Backend) *Renderer {
	if backend == nil {
		backend = compute.GetBackend()
	}
	return &Renderer{backend: backend}
}

// Invalidate drops all cached state. Call on dimension or mode changes.
func (r *Renderer) Invalidate() {
	r.rot.Invalidate()
	r.basis.Invalidate()
	if r.recon != nil {
		r.recon.Reset()
	}
	r.prev = nil
}

// Render produces one frame.
func (r *Renderer) Render(s *Settings) (*Frame, error) {
	if !ndspace.ValidDim(s.N) {
		return nil, fmt.Errorf("render: dimension %d outside [%d, %d]", s.N, ndspace.MinDim, ndspace.MaxDim)
	}
	if s.Width <= 0 || s.Height <= 0 {
		return nil, fmt.Errorf("render: viewport %dx%d is empty", s.Width, s.Height)
	}
	if s.Mode == nil {
		return nil, fmt.Errorf("render: no mode configured")
	}

	rot := r.rot.Matrix(s.N, s.Angles)
	basis := r.basis.Basis(s.N, rot, s.Slice)

	ev, err := s.Mode.Build(s.N, s.Quality.MaxIterations)
	if err != nil {
		return nil, fmt.Errorf("render: build %s evaluator: %w", s.Mode.Kind(), err)
	}

	cam := s.Camera
	if cam == nil {
		cam = NewCamera()
	}
	bg := s.Background
	if bg == nil {
		bg = GradientBackground
	}

	scene := &march.Scene{
		Basis:      basis,
		Background: bg,
		Stepper:    march.NewStepper(s.Stepper),
		Params:     r.params(s, ev),
	}
	switch f := ev.(type) {
	case field.VolumeField:
		scene.Volume = f
	case field.SurfaceField:
		scene.Surface = f
	default:
		return nil, fmt.Errorf("render: %s evaluator is neither surface nor volume", ev.Kind())
	}

	frame := NewFrame(s.Width, s.Height)
	if scene.Volume != nil && s.TemporalCycle > 0 {
		if err := r.renderSparse(s, cam, scene, frame); err != nil {
			return nil, err
		}
	} else {
		r.renderFull(s, cam, scene, frame)
	}

	r.prevCam = *cam
	r.prev = frame
	return frame, nil
}

func (r *Renderer) params(s *Settings, ev field.Evaluator) march.Params {
	p := march.DefaultParams(s.N)
	p.MaxSteps = s.Quality.MaxSteps
	p.StepMin *= s.Quality.StepMinScale
	p.ShadowSamples = s.Quality.ShadowSamples

	type lensed interface{ Config() field.LensingConfig }
	if l, ok := ev.(lensed); ok {
		cfg := l.Config()
		p.HorizonRadius = cfg.HorizonRadius
		p.FarRadius = cfg.FarRadius
		p.BendScale = cfg.BendScale
		p.BendMax = cfg.BendMax
	}
	return p
}

func (r *Renderer) renderFull(s *Settings, cam *Camera, scene *march.Scene, frame *Frame) {
	r.backend.RenderRows(s.Height, func(y int) {
		for x := 0; x < s.Width; x++ {
			ox, oy, oz, dx, dy, dz := cam.Ray(x, y, s.Width, s.Height)
			out := march.Trace(scene, ox, oy, oz, dx, dy, dz)
			frame.Set(x, y, out.Color, out.Alpha, out.HorizonMask, out.ShellMax, out.LensMax, out.Normal, out.Depth)
		}
	})
}

// renderSparse renders one sub-position per block and reconstructs the rest
// from reprojected history. Auxiliary buffers carry over from the previous
// frame at non-fresh pixels.
func (r *Renderer) renderSparse(s *Settings, cam *Camera, scene *march.Scene, frame *Frame) error {
	if r.recon == nil || r.recon.Cycle() != s.TemporalCycle {
		recon, err := temporal.New(s.Width, s.Height, s.TemporalCycle)
		if err != nil {
			return fmt.Errorf("render: %w", err)
		}
		r.recon = recon
		r.prev = nil
	} else if r.recon.Width() != s.Width || r.recon.Height() != s.Height {
		if err := r.recon.Resize(s.Width, s.Height); err != nil {
			return fmt.Errorf("render: %w", err)
		}
		r.prev = nil
	}

	recon := r.recon
	r.backend.RenderRows(s.Height, func(y int) {
		for x := 0; x < s.Width; x++ {
			if !recon.Fresh(x, y) {
				continue
			}
			ox, oy, oz, dx, dy, dz := cam.Ray(x, y, s.Width, s.Height)
			out := march.Trace(scene, ox, oy, oz, dx, dy, dz)
			frame.Set(x, y, out.Color, out.Alpha, out.HorizonMask, out.ShellMax, out.LensMax, out.Normal, out.Depth)
			recon.Write(x, y, temporal.RGB(out.Color), out.Depth)
		}
	})

	recon.Resolve(cam.Reproject(&r.prevCam, s.Width, s.Height))

	out := recon.Output()
	for y := 0; y < s.Height; y++ {
		for x := 0; x < s.Width; x++ {
			i := y*s.Width + x
			copy(frame.Color[3*i:3*i+3], out[i][:])
			if r.prev != nil && frame.Depth[i] == 0 && frame.Alpha[i] == 0 {
				frame.Alpha[i] = r.prev.Alpha[i]
				frame.Horizon[i] = r.prev.Horizon[i]
				frame.Shell[i] = r.prev.Shell[i]
				frame.Lens[i] = r.prev.Lens[i]
				copy(frame.Normal[3*i:3*i+3], r.prev.Normal[3*i:3*i+3])
				frame.Depth[i] = r.prev.Depth[i]
			}
		}
	}
	return nil
}

// GradientBackground is the default environment: a dim vertical ramp that
// makes lensing distortion visible without overpowering emission.
func GradientBackground(dx, dy, dz float64) [3]float64 {
	t := 0.5 + 0.5*dy
	return [3]float64{
		0.01 + 0.03*t,
		0.01 + 0.05*t,
		0.03 + 0.10*t,
	}
}
