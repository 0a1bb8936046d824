package anim

import (
	"context"
	"testing"
	"time"

	"github.com/san-kum/hyperview/internal/compute"
	"github.com/san-kum/hyperview/internal/config"
	"github.com/san-kum/hyperview/internal/quality"
	"github.com/san-kum/hyperview/internal/render"
)

func smallScene() *config.Config {
	cfg := config.GetPreset("tesseract")
	cfg.Width = 12
	cfg.Height = 10
	return cfg
}

func TestRunRendersRequestedFrames(t *testing.T) {
	a := New(render.NewRenderer(compute.NewSerialBackend()), quality.Low)
	var seen []int
	a.AddObserver(ObserverFunc(func(i int, f *render.Frame, _ time.Duration) {
		if f.Width != 12 || f.Height != 10 {
			t.Errorf("frame %d size %dx%d", i, f.Width, f.Height)
		}
		seen = append(seen, i)
	}))

	res, err := a.Run(context.Background(), smallScene(), 3)
	if err != nil {
		t.Fatal(err)
	}
	if res.FramesRendered != 3 || len(res.FrameTimes) != 3 {
		t.Errorf("rendered %d frames, timed %d", res.FramesRendered, len(res.FrameTimes))
	}
	if len(seen) != 3 || seen[0] != 0 || seen[2] != 2 {
		t.Errorf("observer saw %v", seen)
	}
}

func TestRunCancellation(t *testing.T) {
	a := New(render.NewRenderer(compute.NewSerialBackend()), quality.Low)
	ctx, cancel := context.WithCancel(context.Background())

	a.AddObserver(ObserverFunc(func(i int, _ *render.Frame, _ time.Duration) {
		if i == 1 {
			cancel()
		}
	}))

	res, err := a.Run(ctx, smallScene(), 1000)
	if err != context.Canceled {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if res.FramesRendered < 2 || res.FramesRendered >= 1000 {
		t.Errorf("rendered %d frames before cancel", res.FramesRendered)
	}
}

func TestMotionReducesQuality(t *testing.T) {
	a := New(render.NewRenderer(compute.NewSerialBackend()), quality.Ultra)

	if _, err := a.Run(context.Background(), smallScene(), 3); err != nil {
		t.Fatal(err)
	}
	// The tesseract preset animates, so the controller must be in the
	// reduced state after consecutive moving frames.
	if !a.Controller().Reduced() {
		t.Error("controller not reduced while angles are animating")
	}
	if got := a.Controller().Effective(); got.Name != quality.Get(quality.Medium).Name {
		t.Errorf("effective preset %s, want medium two rungs below ultra", got.Name)
	}
}

func TestRunRejectsBadInput(t *testing.T) {
	a := New(render.NewRenderer(compute.NewSerialBackend()), quality.Low)
	if _, err := a.Run(context.Background(), smallScene(), 0); err == nil {
		t.Error("zero frames accepted")
	}

	cfg := smallScene()
	cfg.Mode = "plasma"
	if _, err := a.Run(context.Background(), cfg, 2); err == nil {
		t.Error("unknown mode accepted")
	}
}
