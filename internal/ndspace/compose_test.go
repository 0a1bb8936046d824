package ndspace_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/hyperview/internal/ndspace"
)

func anglesFor(n int, seed float64) ndspace.AngleMap {
	m := ndspace.AngleMap{}
	for i, p := range ndspace.AllPlanes(n) {
		m[p] = seed * float64(i+1) * 0.37
	}
	return m
}

var _ = Describe("ComposeRotations", func() {
	It("returns the exact identity for an empty angle map", func() {
		for n := ndspace.MinDim; n <= ndspace.MaxDim; n++ {
			m := ndspace.ComposeRotations(n, nil)
			for r := 0; r < n; r++ {
				for c := 0; c < n; c++ {
					want := 0.0
					if r == c {
						want = 1
					}
					Expect(m.At(r, c)).To(Equal(want))
				}
			}
		}
	})

	It("produces an orthonormal matrix for every dimension", func() {
		for n := ndspace.MinDim; n <= ndspace.MaxDim; n++ {
			m := ndspace.ComposeRotations(n, anglesFor(n, 1.3))
			Expect(ndspace.IsOrthonormal(m, n, 1e-9)).To(BeTrue(),
				"R^T R != I for n=%d", n)
		}
	})

	It("is deterministic across runs regardless of map iteration order", func() {
		angles := anglesFor(7, 0.9)
		first := ndspace.ComposeRotations(7, angles)
		for i := 0; i < 20; i++ {
			again := ndspace.ComposeRotations(7, angles.Clone())
			Expect(ndspace.Equal(first, again, 7)).To(BeTrue())
		}
	})

	It("matches the closed-form single-plane rotation", func() {
		p, err := ndspace.NewPlane(0, 1)
		Expect(err).NotTo(HaveOccurred())
		m := ndspace.ComposeRotations(3, ndspace.AngleMap{p: math.Pi / 2})
		Expect(m.At(0, 0)).To(BeNumerically("~", 0, 1e-12))
		Expect(m.At(0, 1)).To(BeNumerically("~", -1, 1e-12))
		Expect(m.At(1, 0)).To(BeNumerically("~", 1, 1e-12))
		Expect(m.At(1, 1)).To(BeNumerically("~", 0, 1e-12))
		Expect(m.At(2, 2)).To(BeNumerically("~", 1, 1e-12))
	})

	It("accumulates later planes on the right of earlier ones", func() {
		xy, _ := ndspace.NewPlane(0, 1)
		yz, _ := ndspace.NewPlane(1, 2)
		m := ndspace.ComposeRotations(3, ndspace.AngleMap{xy: math.Pi / 2, yz: math.Pi / 2})

		// R_XY(π/2) · R_YZ(π/2) is the cyclic permutation z→x→y→z.
		want := [3][3]float64{
			{0, 0, 1},
			{1, 0, 0},
			{0, 1, 0},
		}
		for r := 0; r < 3; r++ {
			for c := 0; c < 3; c++ {
				Expect(m.At(r, c)).To(BeNumerically("~", want[r][c], 1e-12),
					"entry (%d,%d)", r, c)
			}
		}
	})

	It("skips planes that do not fit the dimension", func() {
		far, _ := ndspace.NewPlane(0, 9)
		m := ndspace.ComposeRotations(4, ndspace.AngleMap{far: 1.0})
		var id ndspace.Mat
		id.Identity(4)
		Expect(ndspace.Equal(m, &id, 4)).To(BeTrue())
	})

	It("does not commute in general, so order must be canonical", func() {
		xy, _ := ndspace.NewPlane(0, 1)
		zw, _ := ndspace.NewPlane(2, 3)
		xw, _ := ndspace.NewPlane(0, 3)
		a := ndspace.ComposeRotations(4, ndspace.AngleMap{xy: 0.7, xw: 0.4, zw: 1.1})
		b := ndspace.ComposeRotations(4, ndspace.AngleMap{xy: 0.7, xw: 0.4, zw: 1.1})
		Expect(ndspace.Equal(a, b, 4)).To(BeTrue())
	})
})

var _ = Describe("RotationCache", func() {
	It("rebuilds only when the inputs change by value", func() {
		var cache ndspace.RotationCache
		angles := anglesFor(5, 0.5)

		first := cache.Matrix(5, angles)
		Expect(cache.Computes()).To(Equal(1))

		again := cache.Matrix(5, angles.Clone())
		Expect(cache.Computes()).To(Equal(1))
		Expect(again).To(BeIdenticalTo(first))

		angles[ndspace.Plane{A: 0, B: 1}] += 0.25
		cache.Matrix(5, angles)
		Expect(cache.Computes()).To(Equal(2))

		cache.Matrix(6, angles)
		Expect(cache.Computes()).To(Equal(3))
	})
})

var _ = Describe("WrapAngle", func() {
	It("maps angles into [0, 2π)", func() {
		Expect(ndspace.WrapAngle(-math.Pi)).To(BeNumerically("~", math.Pi, 1e-12))
		Expect(ndspace.WrapAngle(5 * math.Pi)).To(BeNumerically("~", math.Pi, 1e-12))
		Expect(ndspace.WrapAngle(0)).To(Equal(0.0))
	})
})
