package ndspace_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/hyperview/internal/ndspace"
)

var _ = Describe("BasisCache", func() {
	It("is idempotent for identical inputs", func() {
		var cache ndspace.BasisCache
		rot := ndspace.ComposeRotations(5, anglesFor(5, 0.8))
		slice := []float64{0.2, -0.4}

		first := cache.Basis(5, rot, slice)
		Expect(cache.Computes()).To(Equal(1))

		snapshot := *first
		again := cache.Basis(5, rot, []float64{0.2, -0.4})
		Expect(cache.Computes()).To(Equal(1))
		Expect(again).To(BeIdenticalTo(first))
		Expect(*again).To(Equal(snapshot))
	})

	It("recomputes when the slice vector changes", func() {
		var cache ndspace.BasisCache
		rot := ndspace.ComposeRotations(5, anglesFor(5, 0.8))
		cache.Basis(5, rot, []float64{0.2, -0.4})
		cache.Basis(5, rot, []float64{0.2, -0.5})
		Expect(cache.Computes()).To(Equal(2))
	})

	It("zeroes trailing components after shrinking the dimension", func() {
		var cache ndspace.BasisCache
		rot := ndspace.ComposeRotations(9, anglesFor(9, 1.7))
		cache.Basis(9, rot, []float64{1, 1, 1, 1, 1, 1})

		var id ndspace.Mat
		id.Identity(4)
		b := cache.Basis(4, &id, []float64{0.5})
		for i := 4; i < ndspace.MaxDim; i++ {
			Expect(b.X[i]).To(Equal(0.0))
			Expect(b.Y[i]).To(Equal(0.0))
			Expect(b.Z[i]).To(Equal(0.0))
			Expect(b.Origin[i]).To(Equal(0.0))
		}
	})

	It("embeds the view axes as rotated unit vectors", func() {
		var cache ndspace.BasisCache
		var id ndspace.Mat
		id.Identity(6)
		b := cache.Basis(6, &id, []float64{0.1, 0.2, 0.3})

		var p ndspace.Vec
		b.Embed(&p, 1, 2, 3)
		Expect(p[0]).To(Equal(1.0))
		Expect(p[1]).To(Equal(2.0))
		Expect(p[2]).To(Equal(3.0))
		Expect(p[3]).To(Equal(0.1))
		Expect(p[4]).To(Equal(0.2))
		Expect(p[5]).To(Equal(0.3))
	})

	It("keeps basis vectors unit length under any rotation", func() {
		var cache ndspace.BasisCache
		for n := ndspace.MinDim; n <= ndspace.MaxDim; n++ {
			rot := ndspace.ComposeRotations(n, anglesFor(n, 2.1))
			b := cache.Basis(n, rot, nil)
			Expect(ndspace.Norm(&b.X, n)).To(BeNumerically("~", 1, 1e-9))
			Expect(ndspace.Norm(&b.Y, n)).To(BeNumerically("~", 1, 1e-9))
			Expect(ndspace.Norm(&b.Z, n)).To(BeNumerically("~", 1, 1e-9))
			Expect(ndspace.Dot(&b.X, &b.Y, n)).To(BeNumerically("~", 0, 1e-9))
			Expect(ndspace.Dot(&b.X, &b.Z, n)).To(BeNumerically("~", 0, 1e-9))
			Expect(ndspace.Dot(&b.Y, &b.Z, n)).To(BeNumerically("~", 0, 1e-9))
		}
	})
})

var _ = Describe("ParsePlane", func() {
	It("parses two-letter names", func() {
		p, err := ndspace.ParsePlane("XY")
		Expect(err).NotTo(HaveOccurred())
		Expect(p).To(Equal(ndspace.Plane{A: 0, B: 1}))

		p, err = ndspace.ParsePlane("ZW")
		Expect(err).NotTo(HaveOccurred())
		Expect(p).To(Equal(ndspace.Plane{A: 2, B: 3}))
	})

	It("parses high-axis names", func() {
		p, err := ndspace.ParsePlane("XA6")
		Expect(err).NotTo(HaveOccurred())
		Expect(p).To(Equal(ndspace.Plane{A: 0, B: 6}))

		p, err = ndspace.ParsePlane("A6A7")
		Expect(err).NotTo(HaveOccurred())
		Expect(p).To(Equal(ndspace.Plane{A: 6, B: 7}))
	})

	It("normalizes axis order", func() {
		p, err := ndspace.ParsePlane("WX")
		Expect(err).NotTo(HaveOccurred())
		Expect(p).To(Equal(ndspace.Plane{A: 0, B: 3}))
	})

	It("rejects degenerate and malformed names", func() {
		_, err := ndspace.ParsePlane("XX")
		Expect(err).To(HaveOccurred())
		_, err = ndspace.ParsePlane("Q")
		Expect(err).To(HaveOccurred())
		_, err = ndspace.ParsePlane("")
		Expect(err).To(HaveOccurred())
	})

	It("round-trips through String", func() {
		for _, p := range ndspace.AllPlanes(ndspace.MaxDim) {
			got, err := ndspace.ParsePlane(p.String())
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(Equal(p))
		}
	})
})
