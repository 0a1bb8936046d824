package march

import (
	"math"
	"testing"

	"github.com/san-kum/hyperview/internal/field"
	"github.com/san-kum/hyperview/internal/ndspace"
)

func identityBasis(n int) *ndspace.Basis {
	b := &ndspace.Basis{N: n}
	b.X[0] = 1
	b.Y[1] = 1
	b.Z[2] = 1
	return b
}

// flatVolume is empty space: no density, no gravity, no shell.
type flatVolume struct{}

func (flatVolume) Kind() string { return "flat" }
func (flatVolume) SampleVolume(p *ndspace.Vec, n int, r float64, out *field.VolumeSample) {
	*out = field.VolumeSample{}
}

// denseVolume is uniformly opaque fog.
type denseVolume struct{ density float64 }

func (denseVolume) Kind() string { return "dense" }
func (v denseVolume) SampleVolume(p *ndspace.Vec, n int, r float64, out *field.VolumeSample) {
	*out = field.VolumeSample{Density: v.density, Emission: [3]float64{0.1, 0.1, 0.1}}
}

// gravVolume applies a constant inward pull everywhere.
type gravVolume struct{ g float64 }

func (gravVolume) Kind() string { return "grav" }
func (v gravVolume) SampleVolume(p *ndspace.Vec, n int, r float64, out *field.VolumeSample) {
	*out = field.VolumeSample{Gravity: v.g}
}

// sphereSurface is a unit-style sphere SDF centered at the origin.
type sphereSurface struct{ radius float64 }

func (sphereSurface) Kind() string { return "sphere" }

func (s sphereSurface) Distance(p *ndspace.Vec, n int) (float64, float64, bool) {
	d := ndspace.Norm(p, n) - s.radius
	if d <= 1e-3 {
		return 0, 0, true
	}
	return d, 1, false
}

func (s sphereSurface) Normal(dst *ndspace.Vec, p *ndspace.Vec, n int) {
	*dst = *p
	ndspace.Normalize(dst, n)
}

func flatBackground(dx, dy, dz float64) [3]float64 {
	return [3]float64{0.5 + 0.5*dx, 0.5 + 0.5*dy, 0.5 + 0.5*dz}
}

func volumeScene(n int, vol field.VolumeField) *Scene {
	p := DefaultParams(n)
	return &Scene{
		Basis:      identityBasis(n),
		Volume:     vol,
		Background: flatBackground,
		Stepper:    Euler{},
		Params:     p,
	}
}

func TestCapturedAtHorizon(t *testing.T) {
	scene := volumeScene(4, flatVolume{})
	scene.Params.HorizonRadius = 1.0

	out := Trace(scene, 0, 0, -5, 0, 0, 1)

	if out.State != Captured {
		t.Fatalf("state = %v, want captured", out.State)
	}
	if out.HorizonMask != 1 {
		t.Errorf("horizon mask = %v, want 1", out.HorizonMask)
	}
	if out.Alpha != 1 {
		t.Errorf("alpha = %v, want 1", out.Alpha)
	}
	if math.IsInf(out.Depth, 1) {
		t.Error("depth not recorded on capture")
	}
}

func TestZeroGravityMatchesBackground(t *testing.T) {
	for _, n := range []int{3, 4, 7, 11} {
		scene := volumeScene(n, flatVolume{})
		scene.Params.BendScale = 0.35

		out := Trace(scene, 0, 0, -5, 0.3, 0.1, 1)

		if out.State != Escaped {
			t.Fatalf("n=%d: state = %v, want escaped", n, out.State)
		}
		m := math.Sqrt(0.3*0.3 + 0.1*0.1 + 1)
		want := flatBackground(0.3/m, 0.1/m, 1/m)
		for i := 0; i < 3; i++ {
			if math.Abs(out.Color[i]-want[i]) > 1e-9 {
				t.Errorf("n=%d: color[%d] = %v, want %v", n, i, out.Color[i], want[i])
			}
		}
		if out.Alpha != 0 {
			t.Errorf("n=%d: alpha = %v, want 0 in empty space", n, out.Alpha)
		}
	}
}

func TestOpaqueVolumeTerminatesEarly(t *testing.T) {
	scene := volumeScene(4, denseVolume{density: 50})

	out := Trace(scene, 0, 0, -5, 0, 0, 1)

	if out.State != Escaped {
		t.Fatalf("state = %v, want escaped via cutoff", out.State)
	}
	if out.Steps >= scene.Params.MaxSteps {
		t.Errorf("steps = %d, expected early termination below %d", out.Steps, scene.Params.MaxSteps)
	}
	if out.Alpha != 1 {
		t.Errorf("alpha = %v, want 1 for opaque ray", out.Alpha)
	}
	// The cutoff path must not blend the (bright) background in.
	for i := 0; i < 3; i++ {
		if out.Color[i] > 0.5 {
			t.Errorf("color[%d] = %v, background leaked through opaque fog", i, out.Color[i])
		}
	}
}

func TestBendingCapturesGrazingRay(t *testing.T) {
	straight := volumeScene(4, gravVolume{g: 0})
	straight.Params.HorizonRadius = 1.0
	straight.Params.BendScale = 0.35

	bent := volumeScene(4, gravVolume{g: 8})
	bent.Params.HorizonRadius = 1.0
	bent.Params.BendScale = 0.35
	bent.Params.BendMax = 0.5
	bent.Params.StepMax = 0.1

	// Aimed to pass 2 units above the center.
	outStraight := Trace(straight, 0, 2, -8, 0, 0, 1)
	outBent := Trace(bent, 0, 2, -8, 0, 0, 1)

	if outStraight.State != Escaped {
		t.Fatalf("unbent state = %v, want escaped", outStraight.State)
	}
	if outBent.State != Captured {
		t.Fatalf("bent state = %v, want captured", outBent.State)
	}
}

func TestSurfaceHitAndMiss(t *testing.T) {
	scene := &Scene{
		Basis:      identityBasis(5),
		Surface:    sphereSurface{radius: 1},
		Background: flatBackground,
		Stepper:    Euler{},
		Params:     DefaultParams(5),
	}

	hit := Trace(scene, 0, 0, -5, 0, 0, 1)
	if hit.State != Captured {
		t.Fatalf("head-on state = %v, want captured", hit.State)
	}
	if hit.Alpha != 1 {
		t.Errorf("alpha = %v, want 1", hit.Alpha)
	}
	if hit.Normal[2] > -0.9 {
		t.Errorf("normal = %v, want approximately -z facing the ray", hit.Normal)
	}
	if math.Abs(hit.Depth-4) > 0.1 {
		t.Errorf("depth = %v, want about 4", hit.Depth)
	}

	miss := Trace(scene, 0, 3, -5, 0, 0, 1)
	if miss.State != Escaped {
		t.Fatalf("miss state = %v, want escaped", miss.State)
	}
	want := flatBackground(0, 0, 1)
	for i := 0; i < 3; i++ {
		if math.Abs(miss.Color[i]-want[i]) > 1e-9 {
			t.Errorf("miss color[%d] = %v, want %v", i, miss.Color[i], want[i])
		}
	}
}

func TestOutputsAlwaysFinite(t *testing.T) {
	scene := volumeScene(6, denseVolume{density: math.Inf(1)})
	out := Trace(scene, 0, 0, -5, 0, 0, 1)

	for i, c := range out.Color {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			t.Errorf("color[%d] = %v, want finite", i, c)
		}
	}
	if math.IsNaN(out.Alpha) {
		t.Error("alpha is NaN")
	}
}

func TestStepperPreservesDirectionLength(t *testing.T) {
	for _, s := range []Stepper{Euler{}, RK4{}} {
		var pos, dir ndspace.Vec
		pos[2] = -5
		dir[2] = 1
		turn := func(p, d *ndspace.Vec, a *ndspace.Vec) {
			a.Zero()
			a[1] = 0.4
		}
		for i := 0; i < 50; i++ {
			s.Step(&pos, &dir, 4, 0.1, 0.15, turn)
		}
		if m := ndspace.Norm(&dir, 4); math.Abs(m-1) > 1e-9 {
			t.Errorf("%s: |dir| = %v after 50 turning steps, want 1", s.Name(), m)
		}
	}
}

func TestBendClampHoldsPerStep(t *testing.T) {
	scene := volumeScene(4, gravVolume{g: 50})
	scene.Params.BendScale = 0.35
	scene.Params.BendMax = 0.15
	scene.Params.StepMin = 0.02

	turn := func(p, d *ndspace.Vec, a *ndspace.Vec) {
		bendTurn(scene, p, d, a)
	}

	// A step much longer than StepMin must still turn at most BendMax.
	for _, s := range []Stepper{Euler{}, RK4{}} {
		var pos, dir ndspace.Vec
		pos[1] = 2
		pos[2] = -8
		dir[2] = 1

		before := dir
		s.Step(&pos, &dir, 4, 0.1, scene.Params.BendMax, turn)

		cos := ndspace.Dot(&before, &dir, 4)
		theta := math.Acos(math.Min(1, math.Max(-1, cos)))
		if theta > scene.Params.BendMax+1e-9 {
			t.Errorf("%s: one step turned %.4f rad, cap %v", s.Name(), theta, scene.Params.BendMax)
		}
		if theta == 0 {
			t.Errorf("%s: expected the field to bend the ray", s.Name())
		}
	}
}

func TestStateString(t *testing.T) {
	if Marching.String() != "marching" || Captured.String() != "captured" {
		t.Error("state names wrong")
	}
	if State(99).String() != "unknown" {
		t.Error("out-of-range state should stringify as unknown")
	}
}

func BenchmarkTraceVolume(b *testing.B) {
	scene := volumeScene(4, gravVolume{g: 2})
	scene.Params.HorizonRadius = 1.0
	scene.Params.BendScale = 0.35
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		Trace(scene, 0, 2, -8, 0, 0, 1)
	}
}

func BenchmarkTraceSurface(b *testing.B) {
	scene := &Scene{
		Basis:      identityBasis(7),
		Surface:    sphereSurface{radius: 1},
		Background: flatBackground,
		Stepper:    Euler{},
		Params:     DefaultParams(7),
	}
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		Trace(scene, 0, 0, -5, 0, 0, 1)
	}
}
