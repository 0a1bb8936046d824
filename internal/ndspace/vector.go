package ndspace

import "math"

const (
	// MinDim and MaxDim bound the supported dimensionality. Every vector and
	// matrix is allocated at MaxDim capacity; the active length travels
	// separately as n.
	MinDim = 3
	MaxDim = 11
)

// Vec is a fixed-capacity n-dimensional vector. Components past the active
// dimension are kept at zero so a shrink in N never exposes stale data.
type Vec [MaxDim]float64

// ValidDim reports whether n is a supported dimension.
func ValidDim(n int) bool {
	return n >= MinDim && n <= MaxDim
}

// ClampDim forces n into the supported range.
func ClampDim(n int) int {
	if n < MinDim {
		return MinDim
	}
	if n > MaxDim {
		return MaxDim
	}
	return n
}

func (v *Vec) Zero() {
	for i := range v {
		v[i] = 0
	}
}

// ZeroTail clears components at index n and above.
func (v *Vec) ZeroTail(n int) {
	for i := n; i < MaxDim; i++ {
		v[i] = 0
	}
}

func Dot(a, b *Vec, n int) float64 {
	sum := 0.0
	for i := 0; i < n; i++ {
		sum += a[i] * b[i]
	}
	return sum
}

func Norm2(v *Vec, n int) float64 {
	sum := 0.0
	for i := 0; i < n; i++ {
		sum += v[i] * v[i]
	}
	return sum
}

func Norm(v *Vec, n int) float64 {
	return math.Sqrt(Norm2(v, n))
}

// Normalize scales v to unit length in place. A near-zero vector is left
// zeroed rather than blown up.
func Normalize(v *Vec, n int) {
	m := Norm(v, n)
	if m < 1e-12 {
		v.Zero()
		return
	}
	inv := 1 / m
	for i := 0; i < n; i++ {
		v[i] *= inv
	}
}

func Scale(dst, v *Vec, s float64, n int) {
	for i := 0; i < n; i++ {
		dst[i] = v[i] * s
	}
}

func Add(dst, a, b *Vec, n int) {
	for i := 0; i < n; i++ {
		dst[i] = a[i] + b[i]
	}
}

func Sub(dst, a, b *Vec, n int) {
	for i := 0; i < n; i++ {
		dst[i] = a[i] - b[i]
	}
}

// AddScaled computes dst = a + b*s over the active components.
func AddScaled(dst, a, b *Vec, s float64, n int) {
	for i := 0; i < n; i++ {
		dst[i] = a[i] + b[i]*s
	}
}

// IsFinite reports whether all active components are finite.
func (v *Vec) IsFinite(n int) bool {
	for i := 0; i < n; i++ {
		if math.IsNaN(v[i]) || math.IsInf(v[i], 0) {
			return false
		}
	}
	return true
}
