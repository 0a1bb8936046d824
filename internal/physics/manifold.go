package physics

import (
	"math"

	"github.com/san-kum/hyperview/internal/ndspace"
)

// ManifoldParams describes the dense matter layer around the center: a disk
// in the plane spanned by axes U and V that thickens and diffuses as the
// dimension grows.
type ManifoldParams struct {
	AxisU       int     `yaml:"axis_u"` // plane the disk lies in
	AxisV       int     `yaml:"axis_v"`
	InnerRadius float64 `yaml:"inner_radius"` // hollow core below this in-plane radius
	OuterRadius float64 `yaml:"outer_radius"` // fades out beyond this
	Thickness   float64 `yaml:"thickness"`    // base out-of-plane half thickness at n=3
	Spread      float64 `yaml:"spread"`       // extra thickness per dimension above 3
	NoiseAmp    float64 `yaml:"noise_amp"`    // 0 disables the periodic modulation
	NoiseFreq   float64 `yaml:"noise_freq"`
}

// DefaultManifold returns the disk tuning used by the lensing presets.
func DefaultManifold() ManifoldParams {
	return ManifoldParams{
		AxisU:       0,
		AxisV:       2,
		InnerRadius: 1.2,
		OuterRadius: 6.0,
		Thickness:   0.12,
		Spread:      0.35,
		NoiseAmp:    0.4,
		NoiseFreq:   3.0,
	}
}

// effectiveThickness widens the disk with dimension so the manifold reads as
// a thin disk at n=3 and a diffuse cloud at n=11.
func (p ManifoldParams) effectiveThickness(n int) float64 {
	t := p.Thickness * (1 + p.Spread*float64(n-3))
	if t < 1e-4 {
		t = 1e-4
	}
	return t
}

// Density evaluates the manifold density at point pos (active dimension n).
// The point is split into an in-plane radius on the (U,V) plane and an
// out-of-plane distance; radial masks bound the disk and a Gaussian falloff
// shapes the vertical profile. Always finite, in [0, 1].
func Density(pos *ndspace.Vec, n int, p ManifoldParams) float64 {
	u, v := p.AxisU, p.AxisV
	if u < 0 || u >= n || v < 0 || v >= n || u == v {
		return 0
	}

	inPlane2 := pos[u]*pos[u] + pos[v]*pos[v]
	inPlane := math.Sqrt(inPlane2)

	r2 := ndspace.Norm2(pos, n)
	out2 := r2 - inPlane2
	if out2 < 0 {
		out2 = 0
	}
	out := math.Sqrt(out2)

	radial := Smoothstep(p.InnerRadius*0.8, p.InnerRadius, inPlane) *
		(1 - Smoothstep(p.OuterRadius*0.85, p.OuterRadius, inPlane))
	if radial <= 0 {
		return 0
	}

	th := p.effectiveThickness(n)
	vertical := math.Exp(-(out * out) / (2 * th * th))

	d := radial * vertical
	if p.NoiseAmp > 0 {
		phase := math.Atan2(pos[v], pos[u])
		mod := 1 + p.NoiseAmp*swirlNoise(inPlane, phase, p.NoiseFreq)
		d *= ClampFinite(mod, 0, 2)
	}
	return Clamp01(d)
}

// swirlNoise is a cheap periodic modulation over (radius, angle); it only
// needs to look organic, not be statistically well behaved.
func swirlNoise(r, phase, freq float64) float64 {
	s := math.Sin(phase*math.Round(freq)+r*freq*1.7) *
		math.Cos(r*freq*0.9-phase*2)
	return 0.5 * s
}
