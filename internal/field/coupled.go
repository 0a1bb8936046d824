package field

import (
	"fmt"
	"math"

	"github.com/san-kum/hyperview/internal/ndspace"
)

func init() {
	registerMode("coupled", func() Mode {
		c := DefaultCoupledMap()
		return &c
	})
}

// CoupledMapConfig parameterizes the coupled-quadratic escape-time variant:
//
//	z_i ← σ(Σ_j A_ij·z_j² + b_i) + c_i
//
// where σ is one of the selectable nonlinearities. With a zero bias the
// origin is a fixed point, matching the power map's boundedness contract.
type CoupledMapConfig struct {
	// Coupling holds the row-major n×n coupling matrix. Missing entries
	// default to the identity coupling.
	Coupling      []float64 `yaml:"coupling,flow"`
	Bias          []float64 `yaml:"bias,flow"`
	Nonlinearity  string    `yaml:"nonlinearity"`
	MaxIterations int       `yaml:"max_iterations"`
	EscapeRadius  float64   `yaml:"escape_radius"`
	GradientStep  float64   `yaml:"gradient_step"`
}

func DefaultCoupledMap() CoupledMapConfig {
	return CoupledMapConfig{
		Nonlinearity:  "tanh",
		MaxIterations: 24,
		EscapeRadius:  4,
		GradientStep:  1e-3,
	}
}

func (c *CoupledMapConfig) Kind() string { return "coupled" }
func (c *CoupledMapConfig) isMode()      {}

func (c *CoupledMapConfig) Build(n int, maxIterations int) (Evaluator, error) {
	nl, err := ParseNonlinearity(c.Nonlinearity)
	if err != nil {
		return nil, fmt.Errorf("coupled map: %w", err)
	}
	f := &coupledField{n: n, nl: nl, cfg: *c}
	if maxIterations > 0 && maxIterations < f.cfg.MaxIterations {
		f.cfg.MaxIterations = maxIterations
	}
	if f.cfg.EscapeRadius < 1e-3 {
		f.cfg.EscapeRadius = 1e-3
	}
	if f.cfg.GradientStep <= 0 {
		f.cfg.GradientStep = 1e-3
	}

	f.coupling.Identity(n)
	for r := 0; r < n; r++ {
		for col := 0; col < n; col++ {
			idx := r*n + col
			if idx < len(c.Coupling) {
				v := c.Coupling[idx]
				if math.IsNaN(v) || math.IsInf(v, 0) {
					return nil, fmt.Errorf("coupled map: non-finite coupling at (%d,%d)", r, col)
				}
				f.coupling.Set(r, col, v)
			}
		}
	}
	for i := 0; i < n && i < len(c.Bias); i++ {
		f.bias[i] = c.Bias[i]
	}
	return f, nil
}

type coupledField struct {
	cfg      CoupledMapConfig
	n        int
	nl       Nonlinearity
	coupling ndspace.Mat
	bias     ndspace.Vec
}

func (f *coupledField) Kind() string { return "coupled" }

func (f *coupledField) Escape(c *ndspace.Vec) EscapeResult {
	n := f.n
	r2Escape := f.cfg.EscapeRadius * f.cfg.EscapeRadius

	var z, sq, next ndspace.Vec
	for i := 0; i < f.cfg.MaxIterations; i++ {
		for j := 0; j < n; j++ {
			sq[j] = z[j] * z[j]
		}
		ndspace.MulVec(&next, &f.coupling, &sq, n)
		for j := 0; j < n; j++ {
			z[j] = f.nl.Apply(next[j]+f.bias[j]) + c[j]
		}
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

func (f *coupledField) value(p *ndspace.Vec) (float64, bool) {
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

func (f *coupledField) Distance(p *ndspace.Vec, n int) (float64, float64, bool) {
	v, inside := f.value(p)
	if inside {
		return 0, 0, true
	}
	h := f.cfg.GradientStep
	var q ndspace.Vec
	sum := 0.0
	for axis := 0; axis < 3; axis++ {
		q = *p
		q[axis] += h
		w, _ := f.value(&q)
		d := (w - v) / h
		sum += d * d
	}
	g := math.Sqrt(sum)
	if g < 1e-6 {
		g = 1e-6
	}
	return 0.5 * v / g, v, false
}

func (f *coupledField) Normal(dst *ndspace.Vec, p *ndspace.Vec, n int) {
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
