// Package anim drives multi-frame renders: it advances the plane angles by
// their configured velocities, lets the quality controller react to the
// motion, and hands each finished frame to the registered observers.
package anim

import (
	"context"
	"fmt"
	"time"

	"github.com/san-kum/hyperview/internal/config"
	"github.com/san-kum/hyperview/internal/ndspace"
	"github.com/san-kum/hyperview/internal/quality"
	"github.com/san-kum/hyperview/internal/render"
)

// Observer receives each finished frame. Observers run on the animation
// goroutine; slow observers stall the loop.
type Observer interface {
	OnFrame(index int, frame *render.Frame, elapsed time.Duration)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(index int, frame *render.Frame, elapsed time.Duration)

func (f ObserverFunc) OnFrame(index int, frame *render.Frame, elapsed time.Duration) {
	f(index, frame, elapsed)
}

// Result summarizes a finished (or cancelled) animation run.
type Result struct {
	FramesRendered int
	Elapsed        time.Duration
	FrameTimes     []time.Duration
}

// Animator owns a renderer and a quality controller across frames.
type Animator struct {
	renderer  *render.Renderer
	ctrl      *quality.Controller
	observers []Observer
}

func New(renderer *render.Renderer, target quality.Level) *Animator {
	return &Animator{
		renderer: renderer,
		ctrl:     quality.NewController(target),
	}
}

func (a *Animator) AddObserver(o Observer) { a.observers = append(a.observers, o) }

// Controller exposes the quality controller so interactive surfaces can
// feed parameter-change events into the same instance.
func (a *Animator) Controller() *quality.Controller { return a.ctrl }

// Run renders frames sequentially until the count is reached or the
// context is cancelled. A cancelled run returns what it produced so far
// together with the context error.
func (a *Animator) Run(ctx context.Context, cfg *config.Config, frames int) (*Result, error) {
	if frames <= 0 {
		return nil, fmt.Errorf("anim: frame count %d", frames)
	}
	fps := cfg.FPS
	if fps <= 0 {
		fps = config.DefaultFPS
	}
	dt := 1.0 / float64(fps)

	angles := cfg.AngleMap()
	velocities := cfg.VelocityMap()
	moving := len(velocities) > 0

	cam := &render.Camera{
		Distance: cfg.Camera.Distance,
		Yaw:      cfg.Camera.Yaw,
		Pitch:    cfg.Camera.Pitch,
		Zoom:     cfg.Camera.Zoom,
		FOV:      cfg.Camera.FOV,
	}
	mode, err := cfg.FieldMode()
	if err != nil {
		return nil, fmt.Errorf("anim: %w", err)
	}

	// Open-ended runs pass a huge frame count; cap the preallocation.
	prealloc := frames
	if prealloc > 4096 {
		prealloc = 4096
	}
	result := &Result{FrameTimes: make([]time.Duration, 0, prealloc)}
	start := time.Now()

	for i := 0; i < frames; i++ {
		select {
		case <-ctx.Done():
			result.Elapsed = time.Since(start)
			return result, ctx.Err()
		default:
		}

		if moving && i > 0 {
			a.ctrl.ParamsChanged()
		}
		a.ctrl.Tick()

		s := &render.Settings{
			Width:         cfg.Width,
			Height:        cfg.Height,
			N:             cfg.Dimension,
			Angles:        angles,
			Slice:         cfg.Slice,
			Mode:          mode,
			Quality:       a.ctrl.Effective(),
			Stepper:       cfg.Stepper,
			Camera:        cam,
			TemporalCycle: cfg.TemporalCycle,
		}

		frameStart := time.Now()
		frame, err := a.renderer.Render(s)
		if err != nil {
			result.Elapsed = time.Since(start)
			return result, fmt.Errorf("anim: frame %d: %w", i, err)
		}
		frameTime := time.Since(frameStart)
		result.FrameTimes = append(result.FrameTimes, frameTime)
		result.FramesRendered++

		for _, o := range a.observers {
			o.OnFrame(i, frame, frameTime)
		}

		for p, v := range velocities {
			angles[p] = ndspace.WrapAngle(angles[p] + v*dt)
		}
	}

	result.Elapsed = time.Since(start)
	return result, nil
}
