// Package polytope generates the vertex and edge sets of the regular
// polytope families that exist in every dimension, rotates them with an
// n-dimensional rotation matrix, and projects them to 3D for wireframe
// output.
package polytope

import (
	"fmt"
	"math"

	"github.com/san-kum/hyperview/internal/ndspace"
)

// Family names the regular polytope families available at every n.
type Family string

const (
	Simplex   Family = "simplex"
	Hypercube Family = "hypercube"
	Cross     Family = "cross"
)

// Families lists the supported families.
func Families() []Family { return []Family{Simplex, Hypercube, Cross} }

// ParseFamily resolves a family name.
func ParseFamily(s string) (Family, error) {
	switch Family(s) {
	case Simplex, Hypercube, Cross:
		return Family(s), nil
	}
	return "", fmt.Errorf("unknown polytope family %q", s)
}

// Polytope is a generated vertex/edge set in dimension N. Vertices are flat,
// N floats per vertex, centered on the origin and scaled to unit
// circumradius.
type Polytope struct {
	N        int
	Family   Family
	Vertices []float64
	Edges    [][2]int
}

// VertexCount returns the number of vertices.
func (p *Polytope) VertexCount() int {
	if p.N == 0 {
		return 0
	}
	return len(p.Vertices) / p.N
}

// Vertex copies vertex i into dst.
func (p *Polytope) Vertex(dst *ndspace.Vec, i int) {
	off := i * p.N
	for d := 0; d < p.N; d++ {
		dst[d] = p.Vertices[off+d]
	}
	dst.ZeroTail(p.N)
}

// Generate builds the named family in dimension n. Vertex counts: simplex
// n+1, hypercube 2^n, cross-polytope 2n. The hypercube at n=11 is 2048
// vertices, still fine to hold flat.
func Generate(f Family, n int) (*Polytope, error) {
	if !ndspace.ValidDim(n) {
		return nil, fmt.Errorf("polytope dimension %d out of range [%d,%d]", n, ndspace.MinDim, ndspace.MaxDim)
	}
	var p *Polytope
	switch f {
	case Simplex:
		p = generateSimplex(n)
	case Hypercube:
		p = generateHypercube(n)
	case Cross:
		p = generateCross(n)
	default:
		return nil, fmt.Errorf("unknown polytope family %q", f)
	}
	normalize(p)
	p.Edges = EdgesByMinDistance(p.Vertices, n)
	return p, nil
}

// generateSimplex places n+1 vertices using the closed form: the n standard
// basis vectors plus the symmetric apex ((1−√(n+1))/n)·(1,…,1). All pairwise
// distances come out equal, then the centroid is moved to the origin.
func generateSimplex(n int) *Polytope {
	count := n + 1
	verts := make([]float64, count*n)
	for i := 0; i < n; i++ {
		verts[i*n+i] = 1
	}
	apex := (1 - math.Sqrt(float64(n+1))) / float64(n)
	for d := 0; d < n; d++ {
		verts[n*n+d] = apex
	}
	// Center the centroid.
	for d := 0; d < n; d++ {
		sum := 0.0
		for i := 0; i < count; i++ {
			sum += verts[i*n+d]
		}
		mean := sum / float64(count)
		for i := 0; i < count; i++ {
			verts[i*n+d] -= mean
		}
	}
	return &Polytope{N: n, Family: Simplex, Vertices: verts}
}

func generateHypercube(n int) *Polytope {
	count := 1 << n
	verts := make([]float64, count*n)
	for i := 0; i < count; i++ {
		for d := 0; d < n; d++ {
			if i&(1<<d) != 0 {
				verts[i*n+d] = 1
			} else {
				verts[i*n+d] = -1
			}
		}
	}
	return &Polytope{N: n, Family: Hypercube, Vertices: verts}
}

func generateCross(n int) *Polytope {
	count := 2 * n
	verts := make([]float64, count*n)
	for d := 0; d < n; d++ {
		verts[(2*d)*n+d] = 1
		verts[(2*d+1)*n+d] = -1
	}
	return &Polytope{N: n, Family: Cross, Vertices: verts}
}

// normalize rescales vertices to unit circumradius.
func normalize(p *Polytope) {
	maxR2 := 0.0
	count := p.VertexCount()
	for i := 0; i < count; i++ {
		r2 := 0.0
		for d := 0; d < p.N; d++ {
			v := p.Vertices[i*p.N+d]
			r2 += v * v
		}
		if r2 > maxR2 {
			maxR2 = r2
		}
	}
	if maxR2 <= 0 {
		return
	}
	inv := 1 / math.Sqrt(maxR2)
	for i := range p.Vertices {
		p.Vertices[i] *= inv
	}
}

// EdgesByMinDistance connects every vertex pair whose distance equals the
// minimal inter-vertex distance (within a small tolerance). For the regular
// families this recovers exactly the combinatorial edge set.
func EdgesByMinDistance(vertices []float64, n int) [][2]int {
	count := len(vertices) / n
	if count < 2 {
		return nil
	}
	minD2 := math.Inf(1)
	for i := 0; i < count; i++ {
		for j := i + 1; j < count; j++ {
			d2 := dist2(vertices, n, i, j)
			if d2 > 1e-12 && d2 < minD2 {
				minD2 = d2
			}
		}
	}
	tol := minD2 * 1e-6
	var edges [][2]int
	for i := 0; i < count; i++ {
		for j := i + 1; j < count; j++ {
			if math.Abs(dist2(vertices, n, i, j)-minD2) <= tol {
				edges = append(edges, [2]int{i, j})
			}
		}
	}
	return edges
}

func dist2(vertices []float64, n, i, j int) float64 {
	sum := 0.0
	for d := 0; d < n; d++ {
		diff := vertices[i*n+d] - vertices[j*n+d]
		sum += diff * diff
	}
	return sum
}
