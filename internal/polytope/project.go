package polytope

import (
	"math"

	"github.com/san-kum/hyperview/internal/ndspace"
)

// DefaultProjectionDistance is the camera-to-plane distance for the
// perspective fold of the higher dimensions.
const DefaultProjectionDistance = 4.0

// minSafeDistance keeps the perspective denominator away from zero.
const minSafeDistance = 0.01

// Rotate applies rot to every vertex, writing a new flat vertex slice.
func (p *Polytope) Rotate(rot *ndspace.Mat) []float64 {
	count := p.VertexCount()
	out := make([]float64, len(p.Vertices))
	var v, rv ndspace.Vec
	for i := 0; i < count; i++ {
		p.Vertex(&v, i)
		ndspace.MulVec(&rv, rot, &v, p.N)
		for d := 0; d < p.N; d++ {
			out[i*p.N+d] = rv[d]
		}
	}
	return out
}

// Project folds rotated n-dimensional vertices down to 3D positions. The
// components above the third are averaged into an effective depth
// (normalized by √(n−3)) and applied as a perspective division against
// projectionDistance. 3D input passes through with a constant scale.
func Project(vertices []float64, n int, projectionDistance float64) []float64 {
	if n < 3 || len(vertices) == 0 {
		return nil
	}
	if projectionDistance == 0 {
		projectionDistance = DefaultProjectionDistance
	}
	count := len(vertices) / n
	out := make([]float64, count*3)

	higher := n - 3
	norm := 1.0
	if higher > 0 {
		norm = math.Sqrt(float64(higher))
	}

	for i := 0; i < count; i++ {
		off := i * n
		depth := 0.0
		for d := 3; d < n; d++ {
			depth += vertices[off+d]
		}
		depth /= norm

		denom := projectionDistance - depth
		if math.Abs(denom) < minSafeDistance {
			if denom >= 0 {
				denom = minSafeDistance
			} else {
				denom = -minSafeDistance
			}
		}
		scale := 1 / denom
		out[i*3] = vertices[off] * scale
		out[i*3+1] = vertices[off+1] * scale
		out[i*3+2] = vertices[off+2] * scale
	}
	return out
}

// Wireframe is a projected polytope ready for 2D drawing or SVG export.
type Wireframe struct {
	Positions []float64 // 3 floats per vertex
	Edges     [][2]int
}

// Wireframe rotates and projects the polytope in one call.
func (p *Polytope) Wireframe(rot *ndspace.Mat, projectionDistance float64) Wireframe {
	rotated := p.Rotate(rot)
	return Wireframe{
		Positions: Project(rotated, p.N, projectionDistance),
		Edges:     p.Edges,
	}
}
