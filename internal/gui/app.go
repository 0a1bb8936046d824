// Package gui opens a raylib window that streams CPU-rendered frames to
// a texture. Dragging orbits the camera, the wheel zooms, and both feed
// the adaptive quality controller so interaction stays responsive.
package gui

import (
	"os"
	"sort"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/san-kum/hyperview/internal/config"
	"github.com/san-kum/hyperview/internal/metrics"
	"github.com/san-kum/hyperview/internal/ndspace"
	"github.com/san-kum/hyperview/internal/quality"
	"github.com/san-kum/hyperview/internal/render"
)

// Theme Colors (Monochrome Hyper-Minimalist)
var (
	ColBg      = rl.NewColor(10, 10, 10, 255)
	ColAccent  = rl.NewColor(180, 180, 180, 255)
	ColSelect  = rl.NewColor(255, 255, 255, 255)
	ColText    = rl.NewColor(140, 140, 140, 255)
	ColTextDim = rl.NewColor(60, 60, 60, 255)
)

const (
	windowWidth  = 1280
	windowHeight = 720

	// CPU raymarching cannot fill the window at 60fps, so frames render
	// at a quarter of the window and scale up on the GPU.
	renderWidth  = 320
	renderHeight = 180
)

type App struct {
	Cfg      *config.Config
	Renderer *render.Renderer
	Ctrl     *quality.Controller
	Camera   *render.Camera
	Angles   ndspace.AngleMap
	Stats    *metrics.FrameStats

	Presets  []string
	Selected int
	InMenu   bool
	Running  bool
	Paused   bool

	Elapsed  float64
	lastStep time.Time

	Tex    rl.Texture2D
	Pixels []rl.Color
	Font   rl.Font
}

func initWindow() {
	rl.InitWindow(windowWidth, windowHeight, "hyperview")
	rl.SetTargetFPS(60)
	rl.SetExitKey(0)
}

func loadFont() rl.Font {
	font := rl.LoadFontEx("/usr/share/fonts/liberation/LiberationMono-Regular.ttf", 32, nil, 0)
	rl.SetTextureFilter(font.Texture, rl.FilterBilinear)
	return font
}

// NewApp builds the application. With interactive set, it starts in the
// preset menu; otherwise presetName loads immediately.
func NewApp(presetName string, interactive bool) *App {
	presets := config.ListPresets()
	sort.Strings(presets)

	app := &App{
		Presets: presets,
		InMenu:  interactive,
		Running: !interactive,
		Font:    loadFont(),
		Pixels:  make([]rl.Color, renderWidth*renderHeight),
	}

	img := rl.GenImageColor(renderWidth, renderHeight, rl.Black)
	app.Tex = rl.LoadTextureFromImage(img)
	rl.UnloadImage(img)
	rl.SetTextureFilter(app.Tex, rl.FilterBilinear)

	if !interactive {
		app.loadPreset(presetName)
	}

	return app
}

// RunInteractive opens the window with the preset menu and blocks until
// the window closes.
func RunInteractive() {
	initWindow()
	defer rl.CloseWindow()
	app := NewApp("", true)
	app.RunLoop()
}

// Run opens the window directly on the named preset.
func Run(presetName string) {
	initWindow()
	defer rl.CloseWindow()
	app := NewApp(presetName, false)
	app.RunLoop()
}

func (a *App) RunLoop() {
	for !rl.WindowShouldClose() {
		a.Update()
		a.Draw()
	}
}

func (a *App) loadPreset(name string) {
	cfg := config.GetPreset(name)
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	a.Cfg = cfg

	a.Renderer = render.NewRenderer(nil)
	target, err := quality.ParseLevel(cfg.Quality)
	if err != nil {
		target = quality.Medium
	}
	a.Ctrl = quality.NewController(target)

	a.Camera = render.NewCamera()
	a.Camera.Distance = cfg.Camera.Distance
	a.Camera.Yaw = cfg.Camera.Yaw
	a.Camera.Pitch = cfg.Camera.Pitch
	a.Camera.Zoom = cfg.Camera.Zoom
	a.Camera.FOV = cfg.Camera.FOV

	a.Angles = cfg.AngleMap()
	a.Stats = metrics.NewFrameStats()
	a.Elapsed = 0
	a.lastStep = time.Time{}
	a.Running = true
	a.Paused = false
	a.InMenu = false
}

func (a *App) Update() {
	if rl.IsKeyPressed(rl.KeyQ) {
		os.Exit(0)
	}

	if a.InMenu {
		if rl.IsKeyPressed(rl.KeyDown) || rl.IsKeyPressed(rl.KeyJ) {
			a.Selected++
		}
		if rl.IsKeyPressed(rl.KeyUp) || rl.IsKeyPressed(rl.KeyK) {
			a.Selected--
		}
		if a.Selected >= len(a.Presets) {
			a.Selected = 0
		}
		if a.Selected < 0 {
			a.Selected = len(a.Presets) - 1
		}
		if rl.IsKeyPressed(rl.KeyEnter) || rl.IsKeyPressed(rl.KeySpace) {
			a.loadPreset(a.Presets[a.Selected])
		}
		return
	}

	if rl.IsKeyPressed(rl.KeyEscape) {
		a.InMenu = true
		a.Running = false
		return
	}
	if rl.IsKeyPressed(rl.KeySpace) || rl.IsKeyPressed(rl.KeyP) {
		a.Paused = !a.Paused
	}

	// Quality override on number keys.
	levels := quality.Levels()
	for i, key := range []int32{rl.KeyOne, rl.KeyTwo, rl.KeyThree, rl.KeyFour} {
		if rl.IsKeyPressed(key) {
			a.Ctrl.SetTarget(levels[i])
		}
	}

	// Drag to orbit. Any camera motion counts as a parameter change so
	// the controller can drop quality while the view moves.
	if rl.IsMouseButtonDown(rl.MouseLeftButton) {
		delta := rl.GetMouseDelta()
		if delta.X != 0 || delta.Y != 0 {
			a.Camera.Rotate(float64(delta.X)*0.008, -float64(delta.Y)*0.008)
			a.Ctrl.ParamsChanged()
		}
	}
	wheel := rl.GetMouseWheelMove()
	if wheel > 0 {
		a.Camera.ZoomIn()
		a.Ctrl.ParamsChanged()
	} else if wheel < 0 {
		a.Camera.ZoomOut()
		a.Ctrl.ParamsChanged()
	}

	if a.Running && !a.Paused {
		a.step()
	}
}

// step renders one frame into the pixel buffer and advances the plane
// angles by their velocities.
func (a *App) step() {
	now := time.Now()
	dt := 1.0 / 60.0
	if !a.lastStep.IsZero() {
		dt = now.Sub(a.lastStep).Seconds()
	}
	a.lastStep = now

	velocities := a.Cfg.VelocityMap()
	if len(velocities) > 0 {
		a.Ctrl.ParamsChanged()
	}
	a.Ctrl.Tick()

	mode, err := a.Cfg.FieldMode()
	if err != nil {
		a.Paused = true
		return
	}

	s := &render.Settings{
		Width:         renderWidth,
		Height:        renderHeight,
		N:             a.Cfg.Dimension,
		Angles:        a.Angles,
		Slice:         a.Cfg.Slice,
		Mode:          mode,
		Quality:       a.Ctrl.Effective(),
		Stepper:       a.Cfg.Stepper,
		Camera:        a.Camera,
		TemporalCycle: a.Cfg.TemporalCycle,
	}

	start := time.Now()
	frame, err := a.Renderer.Render(s)
	if err != nil {
		a.Paused = true
		return
	}
	a.Stats.Observe(time.Since(start))

	a.uploadFrame(frame)

	a.Elapsed += dt
	for p, v := range velocities {
		a.Angles[p] = ndspace.WrapAngle(a.Angles[p] + v*dt)
	}
}

func (a *App) uploadFrame(frame *render.Frame) {
	img := frame.Image(a.Cfg.Gamma)
	for y := 0; y < renderHeight; y++ {
		for x := 0; x < renderWidth; x++ {
			c := img.NRGBAAt(x, y)
			a.Pixels[y*renderWidth+x] = rl.NewColor(c.R, c.G, c.B, 255)
		}
	}
	rl.UpdateTexture(a.Tex, a.Pixels)
}
