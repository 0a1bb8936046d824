package field

import (
	"math"
	"testing"

	"github.com/san-kum/hyperview/internal/ndspace"
)

func TestModeRegistry(t *testing.T) {
	want := []string{"coupled", "fractal", "lensing", "polytope"}
	got := ModeNames()
	if len(got) != len(want) {
		t.Fatalf("modes %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("modes %v, want %v", got, want)
		}
	}
	for _, kind := range want {
		m, err := DefaultMode(kind)
		if err != nil {
			t.Fatalf("DefaultMode(%s): %v", kind, err)
		}
		if m.Kind() != kind {
			t.Errorf("mode %s reports kind %s", kind, m.Kind())
		}
	}
	if _, err := DefaultMode("voronoi"); err == nil {
		t.Error("expected error for unknown mode")
	}
}

func TestNonlinearityParse(t *testing.T) {
	for _, name := range []string{"tanh", "sine", "cubic", "logistic", "relu"} {
		nl, err := ParseNonlinearity(name)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if nl.String() != name {
			t.Errorf("round trip %s -> %s", name, nl.String())
		}
	}
	if _, err := ParseNonlinearity("softmax"); err == nil {
		t.Error("expected error for unknown nonlinearity")
	}
}

func TestNonlinearityFixedPoints(t *testing.T) {
	// Every selectable activation maps 0 to 0, which is what keeps the
	// coupled map bounded at the origin with zero bias.
	for _, nl := range []Nonlinearity{Tanh, Sine, Cubic, Logistic, ReLU} {
		if v := nl.Apply(0); v != 0 {
			t.Errorf("%s(0)=%v, want 0", nl, v)
		}
	}
	if v := ReLU.Apply(-3); v != 0 {
		t.Errorf("relu(-3)=%v", v)
	}
	if v := Cubic.Apply(2); v != 8 {
		t.Errorf("cubic(2)=%v", v)
	}
}

func TestCoupledMapOriginBounded(t *testing.T) {
	cfg := DefaultCoupledMap()
	ev, err := cfg.Build(5, 0)
	if err != nil {
		t.Fatal(err)
	}
	f := ev.(*coupledField)
	var origin ndspace.Vec
	res := f.Escape(&origin)
	if res.Escaped {
		t.Errorf("origin escaped at iter %d with zero bias", res.Iter)
	}
}

func TestCoupledMapFarEscapes(t *testing.T) {
	cfg := DefaultCoupledMap()
	cfg.Nonlinearity = "cubic"
	ev, err := cfg.Build(4, 0)
	if err != nil {
		t.Fatal(err)
	}
	f := ev.(*coupledField)
	var c ndspace.Vec
	c[0] = 1e3
	res := f.Escape(&c)
	if !res.Escaped || res.Iter > 1 {
		t.Errorf("far point should escape immediately: %+v", res)
	}
}

func TestCoupledMapRejectsNonFiniteCoupling(t *testing.T) {
	cfg := DefaultCoupledMap()
	cfg.Coupling = []float64{1, math.NaN()}
	if _, err := cfg.Build(3, 0); err == nil {
		t.Error("expected error for NaN coupling entry")
	}
}

func TestLensingSampleFinite(t *testing.T) {
	cfg := DefaultLensing()
	ev, err := cfg.Build(5, 0)
	if err != nil {
		t.Fatal(err)
	}
	f := ev.(*lensingField)

	var p ndspace.Vec
	var out VolumeSample
	for _, r := range []float64{0, 0.1, 1.5, 4, 100} {
		p.Zero()
		p[0] = r
		f.SampleVolume(&p, 5, r, &out)
		for i, e := range out.Emission {
			if math.IsNaN(e) || math.IsInf(e, 0) || e < 0 {
				t.Errorf("r=%v: bad emission[%d]=%v", r, i, e)
			}
		}
		if out.Density < 0 || out.Density > 1 {
			t.Errorf("r=%v: density %v out of range", r, out.Density)
		}
	}
}

func TestLensingShellPeaksAtShellRadius(t *testing.T) {
	cfg := DefaultLensing()
	ev, _ := cfg.Build(4, 0)
	f := ev.(*lensingField)

	var p ndspace.Vec
	var at, off VolumeSample
	p[1] = cfg.ShellRadius
	f.SampleVolume(&p, 4, cfg.ShellRadius, &at)
	p[1] = cfg.ShellRadius + 10*cfg.ShellWidth
	f.SampleVolume(&p, 4, cfg.ShellRadius+10*cfg.ShellWidth, &off)

	if at.Shell <= off.Shell {
		t.Errorf("shell mask should peak at shell radius: at=%v off=%v", at.Shell, off.Shell)
	}
}

func TestPolytopeFieldHitAtVertex(t *testing.T) {
	cfg := DefaultPolytope()
	cfg.Family = "cross"
	ev, err := cfg.Build(4, 0)
	if err != nil {
		t.Fatal(err)
	}
	f := ev.(*polytopeField)

	// A cross-polytope vertex sits at scale on the first axis.
	var p ndspace.Vec
	p[0] = cfg.Scale
	if _, _, hit := f.Distance(&p, 4); !hit {
		t.Error("expected hit at a vertex center")
	}

	p[0] = cfg.Scale + 1
	d, _, hit := f.Distance(&p, 4)
	if hit {
		t.Error("unexpected hit off the polytope")
	}
	want := 1 - cfg.VertexRadius
	if math.Abs(d-want) > 1e-6 {
		t.Errorf("distance %v, want %v", d, want)
	}
}

func TestPolytopeNormalPointsOutward(t *testing.T) {
	cfg := DefaultPolytope()
	cfg.Family = "cross"
	cfg.EdgeRadius = 0
	ev, _ := cfg.Build(3, 0)
	f := ev.(*polytopeField)

	var p, normal ndspace.Vec
	p[0] = cfg.Scale + 0.5
	f.Normal(&normal, &p, 3)
	if normal[0] <= 0.9 {
		t.Errorf("normal should point along +x, got %v", normal)
	}
}
