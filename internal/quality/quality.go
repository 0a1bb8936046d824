// Package quality holds the adaptive quality controller: a small preset
// ladder plus the churn/restore logic that drops render budgets while scene
// parameters are being dragged and restores them after a quiescence delay.
package quality

import (
	"fmt"
	"time"
)

// Level indexes the ordered preset table.
type Level int

const (
	Low Level = iota
	Medium
	High
	Ultra
)

// Preset is one rung of the quality ladder. Budgets are discrete presets
// rather than continuous scaling so behavior stays predictable and testable.
type Preset struct {
	Name          string
	MaxIterations int     // escape-time iteration cap
	MaxSteps      int     // raymarch step budget per pixel
	StepMinScale  float64 // multiplier on the configured minimum step
	ShadowSamples int     // cheap ambient shading samples
}

var presets = [...]Preset{
	Low:    {Name: "low", MaxIterations: 8, MaxSteps: 48, StepMinScale: 4.0, ShadowSamples: 0},
	Medium: {Name: "medium", MaxIterations: 16, MaxSteps: 96, StepMinScale: 2.0, ShadowSamples: 1},
	High:   {Name: "high", MaxIterations: 32, MaxSteps: 192, StepMinScale: 1.0, ShadowSamples: 2},
	Ultra:  {Name: "ultra", MaxIterations: 64, MaxSteps: 384, StepMinScale: 0.5, ShadowSamples: 4},
}

// Get returns the preset at level l, clamped into the table.
func Get(l Level) Preset {
	if l < Low {
		l = Low
	}
	if l > Ultra {
		l = Ultra
	}
	return presets[l]
}

func (l Level) String() string { return Get(l).Name }

// ParseLevel resolves a preset name.
func ParseLevel(s string) (Level, error) {
	for i := range presets {
		if presets[i].Name == s {
			return Level(i), nil
		}
	}
	return 0, fmt.Errorf("unknown quality preset %q", s)
}

// Levels lists all levels in ascending order.
func Levels() []Level { return []Level{Low, Medium, High, Ultra} }

// DefaultRestoreDelay is how long parameters must stay quiet before full
// quality returns.
const DefaultRestoreDelay = 150 * time.Millisecond

// Controller tracks parameter churn. Not safe for concurrent use; the render
// loop owns it and consults it once per frame.
type Controller struct {
	target       Level
	reduced      bool
	restoreDelay time.Duration
	restoreAt    time.Time // zero when no restore is pending
	now          func() time.Time
}

// NewController builds a controller targeting the given level.
func NewController(target Level) *Controller {
	return &Controller{
		target:       target,
		restoreDelay: DefaultRestoreDelay,
		now:          time.Now,
	}
}

// SetRestoreDelay overrides the quiescence delay.
func (c *Controller) SetRestoreDelay(d time.Duration) {
	if d > 0 {
		c.restoreDelay = d
	}
}

// SetClock injects a clock, for tests.
func (c *Controller) SetClock(now func() time.Time) { c.now = now }

// SetTarget changes the full-quality level; takes effect immediately.
func (c *Controller) SetTarget(l Level) { c.target = l }

// Target returns the configured full-quality level.
func (c *Controller) Target() Level { return c.target }

// ParamsChanged records a parameter change: quality drops immediately and
// any pending restore is cancelled, so an episode of continuous dragging
// never flickers back to full quality mid-drag.
func (c *Controller) ParamsChanged() {
	c.reduced = true
	c.restoreAt = time.Time{}
}

// Tick is called once per frame when no parameters changed. It arms the
// restore timer on the first quiet frame and clears the reduced flag exactly
// once when the timer fires.
func (c *Controller) Tick() {
	if !c.reduced {
		return
	}
	now := c.now()
	if c.restoreAt.IsZero() {
		c.restoreAt = now.Add(c.restoreDelay)
		return
	}
	if !now.Before(c.restoreAt) {
		c.reduced = false
		c.restoreAt = time.Time{}
	}
}

// Reduced reports whether the controller is currently degrading quality.
func (c *Controller) Reduced() bool { return c.reduced }

// Effective returns the preset the renderer should use this frame: the
// target preset, dropped two rungs (floor Low) while parameters are churning.
func (c *Controller) Effective() Preset {
	l := c.target
	if c.reduced {
		l -= 2
		if l < Low {
			l = Low
		}
	}
	return Get(l)
}
