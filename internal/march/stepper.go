package march

import (
	"math"

	"github.com/san-kum/hyperview/internal/ndspace"
)

// TurnFunc returns the turn-rate vector d(dir)/ds at (pos, dir): a vector
// perpendicular to dir whose magnitude is the bend in radians per unit
// length. A nil TurnFunc means straight rays.
type TurnFunc func(pos, dir *ndspace.Vec, out *ndspace.Vec)

// Stepper advances a ray by one step of length h through the bending field.
// maxTurn caps the realized turn angle for the whole step in radians; zero
// or negative means uncapped. Implementations must keep dir unit length.
type Stepper interface {
	Name() string
	Step(pos, dir *ndspace.Vec, n int, h, maxTurn float64, turn TurnFunc)
}

// Euler rotates the direction by the exact turn angle, then advances in a
// straight segment. Rotating by an angle, rather than adding an unscaled
// deflection vector, is what keeps the image stable when the step count
// changes with quality.
type Euler struct{}

func (Euler) Name() string { return "euler" }

func (Euler) Step(pos, dir *ndspace.Vec, n int, h, maxTurn float64, turn TurnFunc) {
	if turn != nil {
		var a ndspace.Vec
		turn(pos, dir, &a)
		rotateToward(dir, &a, h, maxTurn, n)
	}
	ndspace.AddScaled(pos, pos, dir, h, n)
}

// RK4 integrates the coupled (position, direction) system with the classic
// four-stage scheme and renormalizes the direction afterwards. Worth the
// extra field evaluations when the bend per step is large.
type RK4 struct{}

func (RK4) Name() string { return "rk4" }

func (RK4) Step(pos, dir *ndspace.Vec, n int, h, maxTurn float64, turn TurnFunc) {
	if turn == nil {
		ndspace.AddScaled(pos, pos, dir, h, n)
		return
	}

	var k1d, k2d, k3d, k4d ndspace.Vec
	var p2, p3, p4, d2, d3, d4 ndspace.Vec

	// k1 at the start point.
	turn(pos, dir, &k1d)
	capTurnRate(&k1d, h, maxTurn, n)

	// k2 at the midpoint along k1.
	ndspace.AddScaled(&p2, pos, dir, h/2, n)
	ndspace.AddScaled(&d2, dir, &k1d, h/2, n)
	turn(&p2, &d2, &k2d)
	capTurnRate(&k2d, h, maxTurn, n)

	// k3 at the midpoint along k2.
	ndspace.AddScaled(&p3, pos, &d2, h/2, n)
	ndspace.AddScaled(&d3, dir, &k2d, h/2, n)
	turn(&p3, &d3, &k3d)
	capTurnRate(&k3d, h, maxTurn, n)

	// k4 at the far end.
	ndspace.AddScaled(&p4, pos, &d3, h, n)
	ndspace.AddScaled(&d4, dir, &k3d, h, n)
	turn(&p4, &d4, &k4d)
	capTurnRate(&k4d, h, maxTurn, n)

	for i := 0; i < n; i++ {
		pos[i] += h / 6 * (dir[i] + 2*d2[i] + 2*d3[i] + d4[i])
		dir[i] += h / 6 * (k1d[i] + 2*k2d[i] + 2*k3d[i] + k4d[i])
	}
	ndspace.Normalize(dir, n)
}

// capTurnRate scales the stage rate so the turn it contributes over a step
// of length h stays within maxTurn. With every stage capped to maxTurn/h,
// the 1/6·(k1+2k2+2k3+k4) combination stays within maxTurn as well.
func capTurnRate(k *ndspace.Vec, h, maxTurn float64, n int) {
	if maxTurn <= 0 || h <= 0 {
		return
	}
	omega := ndspace.Norm(k, n)
	if limit := maxTurn / h; omega > limit {
		ndspace.Scale(k, k, limit/omega, n)
	}
}

// rotateToward rotates dir in the plane it spans with the turn vector a by
// the angle |a|·h, clamped to maxTurn. a is perpendicular to dir by
// construction.
func rotateToward(dir, a *ndspace.Vec, h, maxTurn float64, n int) {
	omega := ndspace.Norm(a, n)
	if omega < 1e-12 {
		return
	}
	theta := omega * h
	if maxTurn > 0 && theta > maxTurn {
		theta = maxTurn
	}
	sin, cos := math.Sin(theta), math.Cos(theta)
	inv := 1 / omega
	for i := 0; i < n; i++ {
		dir[i] = dir[i]*cos + a[i]*inv*sin
	}
	ndspace.Normalize(dir, n)
}

// NewStepper resolves a stepper by name, defaulting to Euler.
func NewStepper(name string) Stepper {
	if name == "rk4" {
		return RK4{}
	}
	return Euler{}
}
