package physics

import "math"

// GravityParams tunes the lensing gravity law
//
//	G = clamp(K · N^Alpha / (r+Epsilon)^Beta, 0, Max)
//
// so the pull grows near the center and with the dimension count.
type GravityParams struct {
	K       float64 `yaml:"k"`
	Alpha   float64 `yaml:"alpha"`
	Beta    float64 `yaml:"beta"`
	Epsilon float64 `yaml:"epsilon"`
	Max     float64 `yaml:"max"`
}

// DefaultGravity returns the tuning used by the built-in lensing presets.
func DefaultGravity() GravityParams {
	return GravityParams{
		K:       1.0,
		Alpha:   0.5,
		Beta:    2.0,
		Epsilon: 0.05,
		Max:     50.0,
	}
}

// Gravity evaluates the lensing gravity scalar at radius r in dimension n.
// The result is always finite and within [0, Max].
func Gravity(r float64, n int, p GravityParams) float64 {
	if p.K == 0 {
		return 0
	}
	denom := math.Pow(r+p.Epsilon, p.Beta)
	if denom < 1e-12 {
		denom = 1e-12
	}
	g := p.K * math.Pow(float64(n), p.Alpha) / denom
	return ClampFinite(g, 0, p.Max)
}

// ClampFinite clamps v into [lo, hi], treating NaN and infinities as lo.
// Per-sample suppression of non-finite intermediates is what keeps one bad
// parameter combination from corrupting a whole frame.
func ClampFinite(v, lo, hi float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Clamp01 clamps to the unit interval with the same non-finite policy.
func Clamp01(v float64) float64 { return ClampFinite(v, 0, 1) }

// Smoothstep is the cubic Hermite ramp between edges a and b.
func Smoothstep(a, b, x float64) float64 {
	if a == b {
		if x < a {
			return 0
		}
		return 1
	}
	t := Clamp01((x - a) / (b - a))
	return t * t * (3 - 2*t)
}

// BandMask returns a smooth bump centered on radius c with half width w,
// used for the shell highlight. Zero width disables the band.
func BandMask(r, c, w float64) float64 {
	if w <= 0 {
		return 0
	}
	t := (r - c) / w
	return ClampFinite(math.Exp(-t*t), 0, 1)
}
