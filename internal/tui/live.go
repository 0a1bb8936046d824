package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/san-kum/hyperview/internal/render"
	"github.com/san-kum/hyperview/internal/viz"
)

const (
	clearScreen = "\033[2J\033[H"
	hideCursor  = "\033[?25l"
	showCursor  = "\033[?25h"
)

// LivePlayer streams animation frames to a plain terminal without the
// full bubbletea app. It implements anim.Observer; register it on an
// Animator and frames show up as they finish.
type LivePlayer struct {
	title     string
	gamma     float64
	frameRate int
	lastDraw  time.Time
	canvas    *viz.Canvas
}

// NewLivePlayer renders into a w x h character cell canvas. The render
// resolution should match w*2 by h*4 pixels for a 1:1 mapping.
func NewLivePlayer(title string, w, h int, gamma float64, frameRate int) *LivePlayer {
	if frameRate <= 0 {
		frameRate = 30
	}
	return &LivePlayer{
		title:     title,
		gamma:     gamma,
		frameRate: frameRate,
		canvas:    viz.NewCanvas(w, h),
	}
}

// CanvasSize reports the pixel resolution the player expects.
func (p *LivePlayer) CanvasSize() (int, int) {
	return p.canvas.Width * 2, p.canvas.Height * 4
}

func (p *LivePlayer) OnFrame(index int, frame *render.Frame, elapsed time.Duration) {
	// Drop frames that arrive faster than the terminal refresh.
	if time.Since(p.lastDraw) < time.Second/time.Duration(p.frameRate) && index > 0 {
		return
	}
	p.lastDraw = time.Now()

	viz.Rasterize(p.canvas, frame, p.gamma)

	var b strings.Builder
	b.WriteString(clearScreen)
	b.WriteString(fmt.Sprintf("  %s  frame %d  %.0fms\n", p.title, index, elapsed.Seconds()*1000))
	b.WriteString("  " + strings.Repeat("─", p.canvas.Width) + "\n")

	for _, line := range strings.Split(p.canvas.String(), "\n") {
		b.WriteString("  ")
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString("  " + strings.Repeat("─", p.canvas.Width) + "\n")
	fmt.Print(b.String())
}

func (p *LivePlayer) Start() { fmt.Print(hideCursor) }
func (p *LivePlayer) Stop()  { fmt.Print(showCursor) }
