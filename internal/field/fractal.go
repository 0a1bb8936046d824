package field

import (
	"fmt"
	"math"

	"github.com/san-kum/hyperview/internal/ndspace"
)

func init() {
	registerMode("fractal", func() Mode {
		c := DefaultFractal()
		return &c
	})
}

// FractalConfig parameterizes the power-map escape-time fractal: the
// n-dimensional generalization of z ← z^p + c via hyperspherical angle
// scaling.
type FractalConfig struct {
	Power         float64 `yaml:"power"`
	MaxIterations int     `yaml:"max_iterations"`
	EscapeRadius  float64 `yaml:"escape_radius"`
	// GradientStep is the offset used for finite-difference normals and the
	// distance estimator.
	GradientStep float64 `yaml:"gradient_step"`
}

func DefaultFractal() FractalConfig {
	return FractalConfig{
		Power:         2,
		MaxIterations: 32,
		EscapeRadius:  4,
		GradientStep:  1e-3,
	}
}

func (c *FractalConfig) Kind() string { return "fractal" }
func (c *FractalConfig) isMode()      {}

func (c *FractalConfig) Build(n int, maxIterations int) (Evaluator, error) {
	if c.Power < 1 {
		return nil, fmt.Errorf("fractal power %v below 1", c.Power)
	}
	cfg := *c
	if maxIterations > 0 && maxIterations < cfg.MaxIterations {
		cfg.MaxIterations = maxIterations
	}
	if cfg.EscapeRadius < 1e-3 {
		cfg.EscapeRadius = 1e-3
	}
	if cfg.GradientStep <= 0 {
		cfg.GradientStep = 1e-3
	}
	return &fractalField{cfg: cfg, n: n}, nil
}

// EscapeResult is the outcome of one escape-time iteration run.
type EscapeResult struct {
	Escaped bool
	Iter    int
	// Smooth is the continuous iteration count (smooth coloring); for a
	// bounded orbit it equals the iteration cap.
	Smooth float64
}

type fractalField struct {
	cfg FractalConfig
	n   int
}

func (f *fractalField) Kind() string { return "fractal" }

// powerMapInto writes |z|^p with all hyperspherical angles scaled by p.
// For n=2 this is exactly the complex power. The zero vector maps to zero.
func powerMapInto(dst, z *ndspace.Vec, n int, p float64) {
	r := ndspace.Norm(z, n)
	if r < 1e-15 {
		dst.Zero()
		return
	}

	// Forward: angles against each leading axis, against the norm of the
	// remaining tail.
	var angles [ndspace.MaxDim]float64
	tail2 := ndspace.Norm2(z, n)
	for i := 0; i < n-2; i++ {
		tail2 -= z[i] * z[i]
		if tail2 < 0 {
			tail2 = 0
		}
		angles[i] = math.Atan2(math.Sqrt(tail2), z[i])
	}
	angles[n-2] = math.Atan2(z[n-1], z[n-2])

	// Back, with radius and angles raised to the power.
	prefix := math.Pow(r, p)
	for i := 0; i < n-2; i++ {
		a := angles[i] * p
		dst[i] = prefix * math.Cos(a)
		prefix *= math.Sin(a)
	}
	a := angles[n-2] * p
	dst[n-2] = prefix * math.Cos(a)
	dst[n-1] = prefix * math.Sin(a)
	dst.ZeroTail(n)
}

// Escape runs the escape-time iteration for point c. Non-finite
// intermediates terminate the orbit as escaped at the current iteration so
// they never propagate into accumulated color.
func (f *fractalField) Escape(c *ndspace.Vec) EscapeResult {
	n := f.n
	r2Escape := f.cfg.EscapeRadius * f.cfg.EscapeRadius

	var z, next ndspace.Vec
	for i := 0; i < f.cfg.MaxIterations; i++ {
		powerMapInto(&next, &z, n, f.cfg.Power)
		ndspace.Add(&z, &next, c, n)
		if !z.IsFinite(n) {
			return EscapeResult{Escaped: true, Iter: i, Smooth: float64(i)}
		}
		r2 := ndspace.Norm2(&z, n)
		if r2 > r2Escape {
			return EscapeResult{Escaped: true, Iter: i, Smooth: smoothIter(i, r2, f.cfg.EscapeRadius)}
		}
	}
	return EscapeResult{Escaped: false, Iter: f.cfg.MaxIterations, Smooth: float64(f.cfg.MaxIterations)}
}

// smoothIter refines an integer escape iteration into a continuous value:
// iter + 1 - log(log(r²)/log(R))/log 2.
func smoothIter(iter int, r2, escapeRadius float64) float64 {
	lr := math.Log(r2)
	lR := math.Log(escapeRadius)
	if lr <= 0 || lR <= 0 {
		return float64(iter)
	}
	s := float64(iter) + 1 - math.Log(lr/lR)/math.Ln2
	if math.IsNaN(s) || math.IsInf(s, 0) || s < 0 {
		return float64(iter)
	}
	return s
}

// value maps the escape result to [0,1]: 0 at/inside the set, rising toward
// 1 far outside. The driver's step sizing and shading both consume it.
func (f *fractalField) value(p *ndspace.Vec) (float64, bool) {
	res := f.Escape(p)
	if !res.Escaped {
		return 0, true
	}
	v := 1 - res.Smooth/float64(f.cfg.MaxIterations)
	if v < 0 {
		v = 0
	}
	return v, false
}

func (f *fractalField) Distance(p *ndspace.Vec, n int) (float64, float64, bool) {
	v, inside := f.value(p)
	if inside {
		return 0, 0, true
	}
	// Gradient magnitude of the escape value bounds how fast the surface can
	// approach; march a fraction of value/|grad|.
	g := f.gradientMag(p, n, v)
	if g < 1e-6 {
		g = 1e-6
	}
	dist := 0.5 * v / g
	return dist, v, false
}

func (f *fractalField) gradientMag(p *ndspace.Vec, n int, v0 float64) float64 {
	h := f.cfg.GradientStep
	var q ndspace.Vec
	sum := 0.0
	// Forward differences along the first three axes are enough for step
	// sizing; the full central-difference normal is only computed on hits.
	for axis := 0; axis < 3; axis++ {
		q = *p
		q[axis] += h
		v, _ := f.value(&q)
		d := (v - v0) / h
		sum += d * d
	}
	return math.Sqrt(sum)
}

func (f *fractalField) Normal(dst *ndspace.Vec, p *ndspace.Vec, n int) {
	h := f.cfg.GradientStep
	var q ndspace.Vec
	for axis := 0; axis < n; axis++ {
		q = *p
		q[axis] += h
		vp, _ := f.value(&q)
		q[axis] -= 2 * h
		vm, _ := f.value(&q)
		dst[axis] = vp - vm
	}
	dst.ZeroTail(n)
	ndspace.Normalize(dst, n)
}
