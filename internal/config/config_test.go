package config

import (
	"path/filepath"
	"testing"

	"github.com/san-kum/hyperview/internal/ndspace"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Mode != "lensing" {
		t.Errorf("expected mode lensing, got %s", cfg.Mode)
	}
	if cfg.Dimension < 3 || cfg.Dimension > 11 {
		t.Errorf("default dimension %d out of range", cfg.Dimension)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		t.Error("viewport should be positive")
	}
	if _, err := cfg.FieldMode(); err != nil {
		t.Errorf("default mode does not resolve: %v", err)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	cfg := GetPreset("blackhole-7d")
	cfg.Angles = map[string]float64{"XY": 0.5, "ZW": 1.25}

	path := filepath.Join(t.TempDir(), "scene.yaml")
	if err := Save(path, cfg); err != nil {
		t.Fatal(err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	if got.Dimension != 7 || got.Mode != "lensing" {
		t.Errorf("loaded dimension=%d mode=%s", got.Dimension, got.Mode)
	}
	if got.Angles["ZW"] != 1.25 {
		t.Errorf("angle ZW = %v, want 1.25", got.Angles["ZW"])
	}
	if got.Lensing.Manifold.Spread != 0.5 {
		t.Errorf("manifold spread = %v, want 0.5", got.Lensing.Manifold.Spread)
	}
	if got.TemporalCycle != 4 {
		t.Errorf("temporal cycle = %d, want 4", got.TemporalCycle)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestAngleMapSkipsBadPlanes(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Angles = map[string]float64{
		"XY":   0.5,
		"XA6":  0.25,
		"what": 1.0,
		"XX":   1.0,
		"":     1.0,
	}
	m := cfg.AngleMap()
	if len(m) != 2 {
		t.Fatalf("parsed %d planes, want 2: %v", len(m), m)
	}
	p, _ := ndspace.ParsePlane("XY")
	if m[p] != 0.5 {
		t.Errorf("XY = %v, want 0.5", m[p])
	}
}

func TestFieldModeUnknown(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Mode = "plasma"
	if _, err := cfg.FieldMode(); err == nil {
		t.Error("unknown mode accepted")
	}
}

func TestPresets(t *testing.T) {
	names := ListPresets()
	if len(names) == 0 {
		t.Fatal("no presets")
	}
	for _, name := range names {
		cfg := GetPreset(name)
		if cfg == nil {
			t.Fatalf("preset %s is nil", name)
		}
		if _, err := cfg.FieldMode(); err != nil {
			t.Errorf("preset %s: %v", name, err)
		}
		if cfg.Dimension < 3 || cfg.Dimension > 11 {
			t.Errorf("preset %s: dimension %d", name, cfg.Dimension)
		}
	}
	if GetPreset("nonexistent") != nil {
		t.Error("expected nil for unknown preset")
	}

	// Presets must be fresh copies, not shared state.
	a := GetPreset("tesseract")
	a.Dimension = 9
	if GetPreset("tesseract").Dimension == 9 {
		t.Error("preset mutation leaked")
	}
}

func TestFlattenApply(t *testing.T) {
	cfg := DefaultConfig()
	flat, err := Flatten(cfg)
	if err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"mode", "dimension", "lensing.gravity.k", "camera.distance", "fractal.power"} {
		if _, ok := flat[key]; !ok {
			t.Errorf("flat map missing %q", key)
		}
	}

	err = Apply(cfg, map[string]string{
		"dimension":         "6",
		"lensing.gravity.k": "2.5",
		"angles.XY":         "0.75",
	})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Dimension != 6 {
		t.Errorf("dimension = %d, want 6", cfg.Dimension)
	}
	if cfg.Lensing.Gravity.K != 2.5 {
		t.Errorf("gravity k = %v, want 2.5", cfg.Lensing.Gravity.K)
	}
	if cfg.Angles["XY"] != 0.75 {
		t.Errorf("angle XY = %v, want 0.75", cfg.Angles["XY"])
	}

	if err := Apply(cfg, map[string]string{"no.such.knob": "1"}); err == nil {
		t.Error("unknown parameter accepted")
	}
}

func TestApplyScalarTypes(t *testing.T) {
	cfg := DefaultConfig()

	err := Apply(cfg, map[string]string{
		"mode":          "fractal",
		"gamma":         "1.8",
		"width":         "320",
		"velocities.ZW": "0.4",
	})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Mode != "fractal" {
		t.Errorf("mode = %q, want fractal", cfg.Mode)
	}
	if cfg.Gamma != 1.8 {
		t.Errorf("gamma = %v, want 1.8", cfg.Gamma)
	}
	if cfg.Width != 320 {
		t.Errorf("width = %d, want 320", cfg.Width)
	}
	if cfg.Velocities["ZW"] != 0.4 {
		t.Errorf("velocity ZW = %v, want 0.4", cfg.Velocities["ZW"])
	}

	// A non-numeric value into a numeric field is a decode error, not a
	// silent zero.
	if err := Apply(cfg, map[string]string{"gamma": "bright"}); err == nil {
		t.Error("string into float accepted")
	}
}

func TestCloneIsolation(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Angles = map[string]float64{"XY": 0.5}
	cfg.Slice = []float64{0.1, 0.2}

	dup := cfg.Clone()
	if err := Apply(dup, map[string]string{"angles.XY": "2.0", "dimension": "7"}); err != nil {
		t.Fatal(err)
	}

	if cfg.Angles["XY"] != 0.5 {
		t.Errorf("clone shared the angle map: XY = %v", cfg.Angles["XY"])
	}
	if cfg.Dimension != DefaultDimension {
		t.Errorf("clone shared scalar state: dimension = %d", cfg.Dimension)
	}
	if dup.Angles["XY"] != 2.0 || dup.Dimension != 7 {
		t.Errorf("clone did not take overrides: %v %d", dup.Angles["XY"], dup.Dimension)
	}
}
