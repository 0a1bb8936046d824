package ndspace

// Basis is the affine embedding of 3D view space into n-dimensional domain
// space: domainPoint = Origin + x·X + y·Y + z·Z. X, Y and Z are the rotation
// matrix applied to the unit vectors e0, e1, e2; Origin is the matrix applied
// to the slice-offset vector whose first three components are zero.
type Basis struct {
	N      int
	X, Y, Z Vec
	Origin  Vec
}

// Embed maps a 3D point into domain space.
func (b *Basis) Embed(dst *Vec, x, y, z float64) {
	for i := 0; i < b.N; i++ {
		dst[i] = b.Origin[i] + x*b.X[i] + y*b.Y[i] + z*b.Z[i]
	}
	dst.ZeroTail(b.N)
}

// EmbedDir maps a 3D direction into domain space (no origin offset).
func (b *Basis) EmbedDir(dst *Vec, x, y, z float64) {
	for i := 0; i < b.N; i++ {
		dst[i] = x*b.X[i] + y*b.Y[i] + z*b.Z[i]
	}
	dst.ZeroTail(b.N)
}

// Project maps a domain-space vector back onto the 3D view axes.
func (b *Basis) Project(v *Vec) (x, y, z float64) {
	return Dot(v, &b.X, b.N), Dot(v, &b.Y, b.N), Dot(v, &b.Z, b.N)
}

// BasisCache memoizes the embedded basis. Recomputation costs O(n²) and the
// cache is consulted once per rendered frame, so the dirty check compares by
// value: dimension, rotation matrix contents and slice vector contents.
type BasisCache struct {
	n        int
	rot      Mat
	slice    Vec
	basis    Basis
	valid    bool
	computes int
}

// Basis returns the embedded basis for (n, rot, slice). slice holds the
// n-3 slice-parameter values; extra entries are ignored, missing ones are
// treated as zero. The returned pointer is owned by the cache and stays
// valid until the next call.
func (c *BasisCache) Basis(n int, rot *Mat, slice []float64) *Basis {
	n = ClampDim(n)
	if c.valid && c.n == n && Equal(&c.rot, rot, n) && c.sliceEqual(slice, n) {
		return &c.basis
	}
	c.compute(n, rot, slice)
	return &c.basis
}

func (c *BasisCache) sliceEqual(slice []float64, n int) bool {
	for i := 0; i < n-3; i++ {
		v := 0.0
		if i < len(slice) {
			v = slice[i]
		}
		if c.slice[i] != v {
			return false
		}
	}
	return true
}

func (c *BasisCache) compute(n int, rot *Mat, slice []float64) {
	c.n = n
	c.rot = *rot
	c.slice.Zero()
	for i := 0; i < n-3 && i < len(slice); i++ {
		c.slice[i] = slice[i]
	}

	var e, off Vec
	c.basis.N = n

	e.Zero()
	e[0] = 1
	MulVec(&c.basis.X, rot, &e, n)
	e[0], e[1] = 0, 1
	MulVec(&c.basis.Y, rot, &e, n)
	e[1], e[2] = 0, 1
	MulVec(&c.basis.Z, rot, &e, n)

	// Slice offsets occupy the components above the three view axes.
	off.Zero()
	for i := 3; i < n; i++ {
		off[i] = c.slice[i-3]
	}
	MulVec(&c.basis.Origin, rot, &off, n)

	c.valid = true
	c.computes++
}

// Invalidate forces the next Basis call to recompute. Callers use this when
// the dimension changes mid-frame so no stale embedding is reused.
func (c *BasisCache) Invalidate() { c.valid = false }

// Computes reports how many times the basis was actually rebuilt.
func (c *BasisCache) Computes() int { return c.computes }
