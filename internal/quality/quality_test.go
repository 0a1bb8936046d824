package quality

import (
	"testing"
	"time"
)

type fakeClock struct {
	t time.Time
}

func (f *fakeClock) now() time.Time          { return f.t }
func (f *fakeClock) advance(d time.Duration) { f.t = f.t.Add(d) }

func newTestController(target Level) (*Controller, *fakeClock) {
	clock := &fakeClock{t: time.Unix(1000, 0)}
	c := NewController(target)
	c.SetClock(clock.now)
	return c, clock
}

func TestRestoreFiresExactlyOnce(t *testing.T) {
	c, clock := newTestController(High)

	c.ParamsChanged()
	if !c.Reduced() {
		t.Fatal("change must reduce quality immediately")
	}

	// Quiet frames: first arms the timer, later ones fire it once.
	transitions := 0
	prev := c.Reduced()
	for i := 0; i < 20; i++ {
		clock.advance(20 * time.Millisecond)
		c.Tick()
		if c.Reduced() != prev {
			transitions++
			prev = c.Reduced()
		}
	}
	if c.Reduced() {
		t.Error("quality should be restored after the delay")
	}
	if transitions != 1 {
		t.Errorf("expected exactly one restore transition, got %d", transitions)
	}
}

func TestChurnCancelsPendingRestore(t *testing.T) {
	c, clock := newTestController(High)

	c.ParamsChanged()
	clock.advance(20 * time.Millisecond)
	c.Tick() // arms restore

	// More churn before the timer fires.
	clock.advance(100 * time.Millisecond)
	c.ParamsChanged()

	// The old deadline has passed, but the restore was cancelled; the next
	// quiet frame must re-arm rather than fire.
	clock.advance(100 * time.Millisecond)
	c.Tick()
	if !c.Reduced() {
		t.Error("restore fired from a stale timer")
	}

	clock.advance(DefaultRestoreDelay + time.Millisecond)
	c.Tick()
	if c.Reduced() {
		t.Error("quality should restore after a full quiet delay")
	}
}

func TestNoChangeNoReduction(t *testing.T) {
	c, clock := newTestController(Ultra)
	for i := 0; i < 10; i++ {
		clock.advance(time.Second)
		c.Tick()
	}
	if c.Reduced() {
		t.Error("controller reduced quality without any parameter change")
	}
}

func TestEffectiveDropsTwoRungs(t *testing.T) {
	c, _ := newTestController(Ultra)
	if c.Effective().Name != "ultra" {
		t.Errorf("full quality should be ultra, got %s", c.Effective().Name)
	}
	c.ParamsChanged()
	if c.Effective().Name != "medium" {
		t.Errorf("reduced ultra should be medium, got %s", c.Effective().Name)
	}

	c2, _ := newTestController(Medium)
	c2.ParamsChanged()
	if c2.Effective().Name != "low" {
		t.Errorf("reduced medium should floor at low, got %s", c2.Effective().Name)
	}
}

func TestPresetTableOrdered(t *testing.T) {
	levels := Levels()
	for i := 1; i < len(levels); i++ {
		lo, hi := Get(levels[i-1]), Get(levels[i])
		if hi.MaxIterations <= lo.MaxIterations || hi.MaxSteps <= lo.MaxSteps {
			t.Errorf("presets not strictly increasing at %s -> %s", lo.Name, hi.Name)
		}
		if hi.StepMinScale >= lo.StepMinScale {
			t.Errorf("step scale should shrink with quality at %s -> %s", lo.Name, hi.Name)
		}
	}
}

func TestParseLevel(t *testing.T) {
	for _, l := range Levels() {
		got, err := ParseLevel(l.String())
		if err != nil || got != l {
			t.Errorf("ParseLevel(%s) = %v, %v", l, got, err)
		}
	}
	if _, err := ParseLevel("potato"); err == nil {
		t.Error("expected error for unknown preset")
	}
}

func TestSetRestoreDelay(t *testing.T) {
	c, clock := newTestController(High)
	c.SetRestoreDelay(500 * time.Millisecond)

	c.ParamsChanged()
	clock.advance(time.Millisecond)
	c.Tick() // arm
	clock.advance(200 * time.Millisecond)
	c.Tick()
	if !c.Reduced() {
		t.Error("restored before the configured delay")
	}
	clock.advance(400 * time.Millisecond)
	c.Tick()
	if c.Reduced() {
		t.Error("should have restored after the configured delay")
	}
}
