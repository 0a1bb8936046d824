package field

import (
	"math"

	"github.com/san-kum/hyperview/internal/ndspace"
	"github.com/san-kum/hyperview/internal/polytope"
)

func init() {
	registerMode("polytope", func() Mode {
		c := DefaultPolytope()
		return &c
	})
}

// PolytopeConfig renders a regular polytope as a distance field: the union
// of small balls at the vertices, optionally thickened along the edges.
type PolytopeConfig struct {
	Family       string  `yaml:"family"`
	Scale        float64 `yaml:"scale"`
	VertexRadius float64 `yaml:"vertex_radius"`
	EdgeRadius   float64 `yaml:"edge_radius"` // 0 disables edge struts
}

func DefaultPolytope() PolytopeConfig {
	return PolytopeConfig{
		Family:       string(polytope.Hypercube),
		Scale:        2.0,
		VertexRadius: 0.12,
		EdgeRadius:   0.03,
	}
}

func (c *PolytopeConfig) Kind() string { return "polytope" }
func (c *PolytopeConfig) isMode()      {}

func (c *PolytopeConfig) Build(n int, maxIterations int) (Evaluator, error) {
	fam, err := polytope.ParseFamily(c.Family)
	if err != nil {
		return nil, err
	}
	poly, err := polytope.Generate(fam, n)
	if err != nil {
		return nil, err
	}
	cfg := *c
	if cfg.Scale <= 0 {
		cfg.Scale = 1
	}
	if cfg.VertexRadius <= 0 {
		cfg.VertexRadius = 0.1
	}
	return &polytopeField{cfg: cfg, poly: poly, n: n}, nil
}

type polytopeField struct {
	cfg  PolytopeConfig
	poly *polytope.Polytope
	n    int
}

func (f *polytopeField) Kind() string { return "polytope" }

// sdf is the signed distance to the vertex-ball / edge-strut union.
func (f *polytopeField) sdf(p *ndspace.Vec) float64 {
	n := f.n
	best := math.Inf(1)
	var v ndspace.Vec
	count := f.poly.VertexCount()
	for i := 0; i < count; i++ {
		f.poly.Vertex(&v, i)
		d2 := 0.0
		for d := 0; d < n; d++ {
			diff := p[d] - v[d]*f.cfg.Scale
			d2 += diff * diff
		}
		if d := math.Sqrt(d2) - f.cfg.VertexRadius; d < best {
			best = d
		}
	}
	if f.cfg.EdgeRadius > 0 {
		var a, b ndspace.Vec
		for _, e := range f.poly.Edges {
			f.poly.Vertex(&a, e[0])
			f.poly.Vertex(&b, e[1])
			if d := segmentDist(p, &a, &b, f.cfg.Scale, n) - f.cfg.EdgeRadius; d < best {
				best = d
			}
		}
	}
	return best
}

// segmentDist is the distance from p to the segment a·scale → b·scale.
func segmentDist(p, a, b *ndspace.Vec, scale float64, n int) float64 {
	var ab, ap ndspace.Vec
	ab2 := 0.0
	apab := 0.0
	for d := 0; d < n; d++ {
		ab[d] = (b[d] - a[d]) * scale
		ap[d] = p[d] - a[d]*scale
		ab2 += ab[d] * ab[d]
		apab += ap[d] * ab[d]
	}
	t := 0.0
	if ab2 > 1e-12 {
		t = apab / ab2
	}
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	d2 := 0.0
	for d := 0; d < n; d++ {
		diff := ap[d] - ab[d]*t
		d2 += diff * diff
	}
	return math.Sqrt(d2)
}

func (f *polytopeField) Distance(p *ndspace.Vec, n int) (float64, float64, bool) {
	d := f.sdf(p)
	if d <= 0 {
		return 0, 0, true
	}
	shade := d / (f.cfg.Scale + 1)
	if shade > 1 {
		shade = 1
	}
	return d, shade, false
}

func (f *polytopeField) Normal(dst *ndspace.Vec, p *ndspace.Vec, n int) {
	const h = 1e-4
	var q ndspace.Vec
	for axis := 0; axis < n; axis++ {
		q = *p
		q[axis] += h
		dp := f.sdf(&q)
		q[axis] -= 2 * h
		dm := f.sdf(&q)
		dst[axis] = dp - dm
	}
	dst.ZeroTail(n)
	ndspace.Normalize(dst, n)
}
