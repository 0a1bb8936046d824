package ndspace

import (
	"math"
	"sort"
)

// AngleMap holds rotation angles keyed by plane. Absent planes are implicitly
// zero; angles are stored as given and wrapped when composed.
type AngleMap map[Plane]float64

// Clone returns an independent copy of the map.
func (m AngleMap) Clone() AngleMap {
	c := make(AngleMap, len(m))
	for k, v := range m {
		c[k] = v
	}
	return c
}

// EqualAngles reports structural equality of two angle maps.
func EqualAngles(a, b AngleMap) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		w, ok := b[k]
		if !ok || v != w {
			return false
		}
	}
	return true
}

// WrapAngle maps an angle into [0, 2π).
func WrapAngle(a float64) float64 {
	a = math.Mod(a, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	return a
}

// planeRotationInto writes the elementary rotation for plane p by angle a:
// the identity with a 2×2 block [[cos,-sin],[sin,cos]] at p's axes.
func planeRotationInto(dst *Mat, p Plane, a float64, n int) {
	dst.Identity(n)
	c, s := math.Cos(a), math.Sin(a)
	dst.Set(p.A, p.A, c)
	dst.Set(p.B, p.B, c)
	dst.Set(p.A, p.B, -s)
	dst.Set(p.B, p.A, s)
}

// ComposeRotationsInto writes into dst the product of one elementary rotation
// per active plane, accumulated in canonical order: planes sorted ascending by
// (first axis, second axis), each new rotation multiplied on the right, so
// dst = R_first · … · R_last. Plane rotations in more than three dimensions
// do not commute, so this order is part of the output contract.
//
// Planes that reference an axis at or beyond n, or degenerate pairs, are
// skipped rather than failing the whole composition. An empty map yields the
// exact identity.
func ComposeRotationsInto(dst *Mat, n int, angles AngleMap) {
	n = ClampDim(n)
	dst.Identity(n)
	if len(angles) == 0 {
		return
	}

	planes := make([]Plane, 0, len(angles))
	for p := range angles {
		if p.Valid(n) {
			planes = append(planes, p)
		}
	}
	sort.Slice(planes, func(i, j int) bool {
		if planes[i].A != planes[j].A {
			return planes[i].A < planes[j].A
		}
		return planes[i].B < planes[j].B
	})

	var rot, tmp Mat
	for _, p := range planes {
		planeRotationInto(&rot, p, WrapAngle(angles[p]), n)
		MulInto(&tmp, dst, &rot, n)
		*dst = tmp
	}
}

// ComposeRotations is the allocating form of ComposeRotationsInto.
func ComposeRotations(n int, angles AngleMap) *Mat {
	var m Mat
	ComposeRotationsInto(&m, n, angles)
	return &m
}

// RotationCache memoizes the composed rotation matrix for one scene. The
// matrix is recomputed only when the dimension or the angle map changed by
// value since the last call.
type RotationCache struct {
	n        int
	angles   AngleMap
	mat      Mat
	valid    bool
	computes int
}

// Matrix returns the composed rotation for (n, angles), reusing the cached
// result when nothing changed. The returned pointer stays valid until the
// next call.
func (c *RotationCache) Matrix(n int, angles AngleMap) *Mat {
	n = ClampDim(n)
	if c.valid && c.n == n && EqualAngles(c.angles, angles) {
		return &c.mat
	}
	ComposeRotationsInto(&c.mat, n, angles)
	c.n = n
	c.angles = angles.Clone()
	c.valid = true
	c.computes++
	return &c.mat
}

// Invalidate drops the cached matrix; the next Matrix call recomputes.
func (c *RotationCache) Invalidate() { c.valid = false }

// Computes reports how many times the matrix was actually rebuilt.
func (c *RotationCache) Computes() int { return c.computes }
