// Package field implements the per-sample evaluation procedures of the
// render core: escape-time fractal iteration, coupled-map iteration, the
// lensing/density volume and the polytope distance field.
//
// Render modes form a closed set of config variants; each variant builds an
// evaluator that implements SurfaceField or VolumeField, and the raymarch
// driver dispatches on which of the two it got. Evaluators are immutable
// after Build so a frame's worth of pixels can share one instance.
package field

import (
	"fmt"
	"sort"

	"github.com/san-kum/hyperview/internal/ndspace"
)

// Mode is the closed tagged variant over the render mode configs. Exactly
// four types implement it: FractalConfig, CoupledMapConfig, LensingConfig
// and PolytopeConfig.
type Mode interface {
	Kind() string
	// Build resolves the config into an evaluator for dimension n with the
	// given iteration budget (already quality-adjusted by the caller).
	Build(n int, maxIterations int) (Evaluator, error)
	isMode()
}

// Evaluator is the common part of a built evaluator. The raymarch driver
// type-switches to SurfaceField or VolumeField for the actual sampling.
type Evaluator interface {
	Kind() string
}

// SurfaceField is implemented by escape-time and polytope evaluators. The
// driver marches by the returned conservative distance and stops when it
// reports a hit.
type SurfaceField interface {
	Evaluator
	// Distance returns a step length that does not overshoot the surface,
	// hit=true when p is on or inside the surface, and a shade value in
	// [0,1] used for coloring (1 = far outside, 0 = at the surface).
	Distance(p *ndspace.Vec, n int) (dist float64, shade float64, hit bool)
	// Normal estimates the outward surface direction at p by central
	// differences of the field value at small n-dimensional offsets.
	Normal(dst *ndspace.Vec, p *ndspace.Vec, n int)
}

// VolumeSample is one volumetric field evaluation.
type VolumeSample struct {
	Density  float64
	Emission [3]float64
	Gravity  float64
	Shell    float64
}

// VolumeField is implemented by the lensing evaluator.
type VolumeField interface {
	Evaluator
	// SampleVolume fills out for the point p with precomputed radius r.
	// Implementations must never write non-finite values into out.
	SampleVolume(p *ndspace.Vec, n int, r float64, out *VolumeSample)
}

var modes = map[string]func() Mode{}

func registerMode(kind string, def func() Mode) {
	modes[kind] = def
}

// DefaultMode returns a mode config with defaults for the given kind.
func DefaultMode(kind string) (Mode, error) {
	def, ok := modes[kind]
	if !ok {
		return nil, fmt.Errorf("unknown render mode %q (have %v)", kind, ModeNames())
	}
	return def(), nil
}

// ModeNames lists the registered mode kinds, sorted.
func ModeNames() []string {
	names := make([]string, 0, len(modes))
	for k := range modes {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
