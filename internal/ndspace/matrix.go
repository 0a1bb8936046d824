package ndspace

import "math"

// Mat is a fixed-capacity row-major square matrix; the active block is the
// leading n×n. Entries outside the active block are zero.
type Mat [MaxDim * MaxDim]float64

func (m *Mat) At(r, c int) float64      { return m[r*MaxDim+c] }
func (m *Mat) Set(r, c int, v float64)  { m[r*MaxDim+c] = v }

func (m *Mat) Zero() {
	for i := range m {
		m[i] = 0
	}
}

// Identity resets m to the n×n identity (and clears everything else).
func (m *Mat) Identity(n int) {
	m.Zero()
	for i := 0; i < n; i++ {
		m[i*MaxDim+i] = 1
	}
}

// MulInto computes dst = a × b over the active n×n block. dst must not alias
// a or b.
func MulInto(dst, a, b *Mat, n int) {
	for r := 0; r < n; r++ {
		for c := 0; c < n; c++ {
			sum := 0.0
			for k := 0; k < n; k++ {
				sum += a[r*MaxDim+k] * b[k*MaxDim+c]
			}
			dst[r*MaxDim+c] = sum
		}
	}
}

// MulVec computes dst = m · v over the active components. dst must not alias v.
func MulVec(dst *Vec, m *Mat, v *Vec, n int) {
	for r := 0; r < n; r++ {
		sum := 0.0
		row := r * MaxDim
		for c := 0; c < n; c++ {
			sum += m[row+c] * v[c]
		}
		dst[r] = sum
	}
	dst.ZeroTail(n)
}

func TransposeInto(dst, m *Mat, n int) {
	for r := 0; r < n; r++ {
		for c := 0; c < n; c++ {
			dst[r*MaxDim+c] = m[c*MaxDim+r]
		}
	}
}

// Column copies column c of the active block into dst.
func (m *Mat) Column(dst *Vec, c, n int) {
	for r := 0; r < n; r++ {
		dst[r] = m[r*MaxDim+c]
	}
	dst.ZeroTail(n)
}

// IsOrthonormal checks RᵗR = I over the active block within tol.
func IsOrthonormal(m *Mat, n int, tol float64) bool {
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			sum := 0.0
			for k := 0; k < n; k++ {
				sum += m[k*MaxDim+i] * m[k*MaxDim+j]
			}
			want := 0.0
			if i == j {
				want = 1
			}
			if math.Abs(sum-want) > tol {
				return false
			}
		}
	}
	return true
}

// Equal reports exact equality of the active blocks.
func Equal(a, b *Mat, n int) bool {
	for r := 0; r < n; r++ {
		for c := 0; c < n; c++ {
			if a[r*MaxDim+c] != b[r*MaxDim+c] {
				return false
			}
		}
	}
	return true
}
