package tui

import (
	"strings"
	"testing"

	"github.com/san-kum/hyperview/internal/config"
)

func TestParamNamesFollowMode(t *testing.T) {
	m := NewInteractiveApp()
	m.cfg = config.GetPreset("blackhole")
	m.setParamNames()

	found := false
	for _, name := range m.paramNames {
		if name == "lensing.gravity.k" {
			found = true
		}
		if strings.HasPrefix(name, "fractal.") {
			t.Errorf("fractal parameter %q offered for lensing mode", name)
		}
	}
	if !found {
		t.Error("lensing.gravity.k missing from lensing parameters")
	}
}

func TestApplyAndNudgeParam(t *testing.T) {
	m := NewInteractiveApp()
	m.cfg = config.GetPreset("mandelbulb")
	m.setParamNames()

	m.applyParam("fractal.power", "6")
	if m.applyErr != "" {
		t.Fatalf("apply: %s", m.applyErr)
	}
	if got := m.paramValue("fractal.power"); got != 6 {
		t.Errorf("power = %v, want 6", got)
	}

	m.nudgeParam("fractal.power", 0.5)
	if got := m.paramValue("fractal.power"); got != 6.5 {
		t.Errorf("power after nudge = %v, want 6.5", got)
	}

	m.applyParam("no.such.param", "1")
	if m.applyErr == "" {
		t.Error("unknown parameter accepted")
	}
}

