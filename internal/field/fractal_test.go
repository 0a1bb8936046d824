package field

import (
	"math"
	"testing"

	"github.com/san-kum/hyperview/internal/ndspace"
)

func buildFractal(t *testing.T, n int, cfg FractalConfig) *fractalField {
	t.Helper()
	ev, err := cfg.Build(n, 0)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return ev.(*fractalField)
}

func TestOriginStaysBounded(t *testing.T) {
	for _, power := range []float64{2, 3, 5, 8} {
		for n := 3; n <= 7; n++ {
			cfg := DefaultFractal()
			cfg.Power = power
			f := buildFractal(t, n, cfg)
			var origin ndspace.Vec
			res := f.Escape(&origin)
			if res.Escaped {
				t.Errorf("n=%d power=%v: origin escaped at iter %d", n, power, res.Iter)
			}
			if res.Iter != cfg.MaxIterations {
				t.Errorf("bounded result should report the full budget, got %d", res.Iter)
			}
		}
	}
}

func TestFarPointEscapesImmediately(t *testing.T) {
	cfg := DefaultFractal()
	f := buildFractal(t, 4, cfg)
	var c ndspace.Vec
	c[0] = cfg.EscapeRadius * 100
	res := f.Escape(&c)
	if !res.Escaped {
		t.Fatal("far point must escape")
	}
	if res.Iter > 1 {
		t.Errorf("far point escaped at iteration %d, want 0 or 1", res.Iter)
	}
}

func TestPowerMapMatchesComplexSquare(t *testing.T) {
	// In the first two coordinates with the rest zero, the power map at p=2
	// must behave like complex squaring: (x,y) -> (x²−y², 2xy).
	var z, out ndspace.Vec
	z[0], z[1] = 0.3, -0.7
	powerMapInto(&out, &z, 3, 2)
	wantX := z[0]*z[0] - z[1]*z[1]
	wantY := 2 * z[0] * z[1]
	if math.Abs(out[0]-wantX) > 1e-9 || math.Abs(out[1]-wantY) > 1e-9 {
		t.Errorf("powerMap(0.3,-0.7)^2 = (%v,%v), want (%v,%v)", out[0], out[1], wantX, wantY)
	}
	if out[2] != 0 {
		t.Errorf("untouched axis must stay zero, got %v", out[2])
	}
}

func TestPowerMapPreservesRadiusPower(t *testing.T) {
	var z, out ndspace.Vec
	z[0], z[1], z[2], z[3] = 0.4, -0.2, 0.9, 0.3
	r := ndspace.Norm(&z, 4)
	for _, p := range []float64{2, 3, 4.5} {
		powerMapInto(&out, &z, 4, p)
		want := math.Pow(r, p)
		if got := ndspace.Norm(&out, 4); math.Abs(got-want) > 1e-9 {
			t.Errorf("p=%v: |z^p|=%v want %v", p, got, want)
		}
	}
}

func TestSmoothIterRefinesMonotonically(t *testing.T) {
	// A point that barely escaped should read later than one that shot far
	// past the radius at the same iteration.
	barely := smoothIter(5, 16.5, 4)
	far := smoothIter(5, 1e6, 4)
	if far >= barely {
		t.Errorf("smooth coloring not monotonic: far=%v barely=%v", far, barely)
	}
	if s := smoothIter(5, math.Inf(1), 4); math.IsNaN(s) || math.IsInf(s, 0) {
		t.Errorf("non-finite smooth value leaked: %v", s)
	}
}

func TestDistanceShrinksNearSet(t *testing.T) {
	f := buildFractal(t, 3, DefaultFractal())
	var near, farVec ndspace.Vec
	near[0] = 0.26 // just outside the set boundary on the first axis
	farVec[0] = 3.0

	dNear, _, hitNear := f.Distance(&near, 3)
	dFar, _, hitFar := f.Distance(&farVec, 3)
	if hitNear || hitFar {
		t.Fatalf("unexpected hits: near=%v far=%v", hitNear, hitFar)
	}
	if dNear >= dFar {
		t.Errorf("distance should shrink near the set: near=%v far=%v", dNear, dFar)
	}
}

func TestIterationBudgetCap(t *testing.T) {
	cfg := DefaultFractal()
	cfg.MaxIterations = 64
	ev, err := cfg.Build(3, 16)
	if err != nil {
		t.Fatal(err)
	}
	f := ev.(*fractalField)
	if f.cfg.MaxIterations != 16 {
		t.Errorf("budget cap not applied: %d", f.cfg.MaxIterations)
	}
}

func TestBuildRejectsBadPower(t *testing.T) {
	cfg := DefaultFractal()
	cfg.Power = 0.5
	if _, err := cfg.Build(3, 0); err == nil {
		t.Error("expected error for power < 1")
	}
}
