package ndspace

import (
	"fmt"
	"strconv"
	"strings"
)

// Plane identifies a rotation plane by its two axis indices, always stored
// with A < B so the pair is unordered for map keys.
type Plane struct {
	A, B int
}

var axisNames = [6]byte{'X', 'Y', 'Z', 'W', 'V', 'U'}

// NewPlane builds a plane key from two axis indices.
func NewPlane(a, b int) (Plane, error) {
	if a == b {
		return Plane{}, fmt.Errorf("degenerate plane: axis %d repeated", a)
	}
	if a < 0 || b < 0 || a >= MaxDim || b >= MaxDim {
		return Plane{}, fmt.Errorf("plane axes out of range: %d, %d", a, b)
	}
	if a > b {
		a, b = b, a
	}
	return Plane{A: a, B: b}, nil
}

// Valid reports whether the plane fits inside dimension n.
func (p Plane) Valid(n int) bool {
	return p.A >= 0 && p.A < p.B && p.B < n
}

// AxisName returns the display name of an axis: X, Y, Z, W, V, U, then
// A6, A7, … for higher indices.
func AxisName(i int) string {
	if i >= 0 && i < len(axisNames) {
		return string(axisNames[i])
	}
	return "A" + strconv.Itoa(i)
}

func (p Plane) String() string {
	return AxisName(p.A) + AxisName(p.B)
}

func parseAxisName(s string) (int, bool) {
	if len(s) == 1 {
		for i, c := range axisNames {
			if s[0] == c {
				return i, true
			}
		}
		return 0, false
	}
	if strings.HasPrefix(s, "A") {
		num, err := strconv.Atoi(s[1:])
		if err == nil && num >= len(axisNames) && num < MaxDim {
			return num, true
		}
	}
	return 0, false
}

// ParsePlane parses a plane name like "XY", "XW", "XA6" or "A6A7".
func ParsePlane(name string) (Plane, error) {
	var parts []string
	var cur strings.Builder
	for i := 0; i < len(name); i++ {
		c := name[i]
		if c >= 'A' && c <= 'Z' && cur.Len() > 0 {
			parts = append(parts, cur.String())
			cur.Reset()
		}
		cur.WriteByte(c)
	}
	if cur.Len() > 0 {
		parts = append(parts, cur.String())
	}
	if len(parts) != 2 {
		return Plane{}, fmt.Errorf("invalid plane name %q", name)
	}
	a, ok := parseAxisName(parts[0])
	if !ok {
		return Plane{}, fmt.Errorf("invalid axis %q in plane %q", parts[0], name)
	}
	b, ok := parseAxisName(parts[1])
	if !ok {
		return Plane{}, fmt.Errorf("invalid axis %q in plane %q", parts[1], name)
	}
	return NewPlane(a, b)
}

// AllPlanes lists every plane of an n-dimensional space in canonical order
// (ascending first axis, then second axis). There are n(n-1)/2 of them.
func AllPlanes(n int) []Plane {
	planes := make([]Plane, 0, n*(n-1)/2)
	for a := 0; a < n; a++ {
		for b := a + 1; b < n; b++ {
			planes = append(planes, Plane{A: a, B: b})
		}
	}
	return planes
}
