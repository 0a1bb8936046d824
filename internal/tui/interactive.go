// Package tui hosts the terminal front ends: a bubbletea app for
// interactive exploration and a raw ANSI live player for streaming
// animation frames to a plain terminal.
package tui

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/hyperview/internal/config"
	"github.com/san-kum/hyperview/internal/metrics"
	"github.com/san-kum/hyperview/internal/ndspace"
	"github.com/san-kum/hyperview/internal/quality"
	"github.com/san-kum/hyperview/internal/render"
	"github.com/san-kum/hyperview/internal/viz"
)

var (
	cyan    = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	white   = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	dim     = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	dimmer  = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	green   = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	yellow  = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	magenta = lipgloss.NewStyle().Foreground(lipgloss.Color("213"))
)

var presetInfo = map[string]string{
	"blackhole":    "gravitational lensing, 4d",
	"blackhole-7d": "lensing with extra rotation planes",
	"mandelbulb":   "power-8 fractal surface",
	"hyperbulb":    "5d fractal surface",
	"tesseract":    "4-cube wireframe volume",
	"simplex-6d":   "6d simplex",
	"cross-5d":     "5d cross-polytope",
	"neural-flow":  "coupled map field",
}

type state int

const (
	stateMenu state = iota
	stateConfig
	stateView
)

type model struct {
	state   state
	cursor  int
	presets []string

	cfg         *config.Config
	paramNames  []string
	paramCursor int
	editing     bool
	editBuf     string
	applyErr    string

	renderer *render.Renderer
	ctrl     *quality.Controller
	camera   *render.Camera
	angles   ndspace.AngleMap
	stats    *metrics.FrameStats
	history  []float64

	running  bool
	paused   bool
	elapsed  float64
	speed    float64
	lastTick time.Time
	canvas   *viz.Canvas

	width  int
	height int
}

func NewInteractiveApp() *model {
	return &model{
		state:   stateMenu,
		presets: config.ListPresets(),
		speed:   1.0,
		history: make([]float64, 0, 60),
		width:   80,
		height:  24,
	}
}

func (m model) Init() tea.Cmd { return nil }

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(33*time.Millisecond, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tickMsg:
		if m.state != stateView || !m.running {
			return m, nil
		}
		if !m.paused {
			m.step()
		}
		return m, tick()
	}
	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch m.state {
	case stateMenu:
		return m.menuKey(msg)
	case stateConfig:
		return m.configKey(msg)
	case stateView:
		return m.viewKey(msg)
	}
	return m, nil
}

func (m model) menuKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.presets)-1 {
			m.cursor++
		}
	case "enter", " ":
		m.cfg = config.GetPreset(m.presets[m.cursor])
		m.state = stateConfig
		m.paramCursor = 0
		m.applyErr = ""
		m.setParamNames()
	}
	return m, nil
}

func (m model) configKey(msg tea.KeyMsg) (model, tea.Cmd) {
	if m.editing {
		switch msg.String() {
		case "enter":
			m.applyParam(m.paramNames[m.paramCursor], m.editBuf)
			m.editing = false
			m.editBuf = ""
		case "escape":
			m.editing = false
			m.editBuf = ""
		case "backspace":
			if len(m.editBuf) > 0 {
				m.editBuf = m.editBuf[:len(m.editBuf)-1]
			}
		default:
			if len(msg.String()) == 1 {
				c := msg.String()[0]
				if (c >= '0' && c <= '9') || c == '.' || c == '-' {
					m.editBuf += string(c)
				}
			}
		}
		return m, nil
	}

	switch msg.String() {
	case "q", "escape":
		m.state = stateMenu
	case "up", "k":
		if m.paramCursor > 0 {
			m.paramCursor--
		}
	case "down", "j":
		if m.paramCursor < len(m.paramNames)-1 {
			m.paramCursor++
		}
	case "enter", " ":
		m.editing = true
		m.editBuf = strconv.FormatFloat(m.paramValue(m.paramNames[m.paramCursor]), 'g', -1, 64)
	case "left", "h":
		m.nudgeParam(m.paramNames[m.paramCursor], -0.1)
	case "right", "l":
		m.nudgeParam(m.paramNames[m.paramCursor], 0.1)
	case "s":
		m.start()
		m.state = stateView
		return m, tea.Batch(tea.ClearScreen, tick())
	}
	return m, nil
}

func (m model) viewKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch msg.String() {
	case "q", "escape":
		m.running = false
		m.state = stateMenu
		return m, tea.ClearScreen
	case " ", "p":
		m.paused = !m.paused
	case "c":
		m.running = false
		m.state = stateConfig
		return m, tea.ClearScreen
	case "up":
		m.camera.Rotate(0, 0.1)
		m.ctrl.ParamsChanged()
	case "down":
		m.camera.Rotate(0, -0.1)
		m.ctrl.ParamsChanged()
	case "left":
		m.camera.Rotate(-0.1, 0)
		m.ctrl.ParamsChanged()
	case "right":
		m.camera.Rotate(0.1, 0)
		m.ctrl.ParamsChanged()
	case "+", "=":
		m.camera.ZoomIn()
		m.ctrl.ParamsChanged()
	case "-", "_":
		m.camera.ZoomOut()
		m.ctrl.ParamsChanged()
	case "1", "2", "3", "4":
		levels := quality.Levels()
		m.ctrl.SetTarget(levels[int(msg.String()[0]-'1')])
	case "]":
		m.speed = minFloat(m.speed*2, 8)
	case "[":
		m.speed = maxFloat(m.speed/2, 0.125)
	case "0":
		m.speed = 1.0
	}
	return m, nil
}

// setParamNames picks the tunable parameters for the active mode. Names
// follow the flat dotted form understood by config.Apply.
func (m *model) setParamNames() {
	names := []string{"dimension", "camera.distance", "angles.XY", "angles.ZW", "velocities.XY", "velocities.ZW"}
	switch m.cfg.Mode {
	case "fractal":
		names = append(names, "fractal.power", "fractal.escape_radius")
	case "coupled":
		names = append(names, "coupled.escape_radius")
	case "lensing":
		names = append(names, "lensing.gravity.k", "lensing.manifold.thickness", "lensing.absorption")
	case "polytope":
		names = append(names, "polytope.scale", "polytope.vertex_radius")
	}
	sort.Strings(names)
	m.paramNames = names
}

func (m *model) paramValue(name string) float64 {
	flat, err := config.Flatten(m.cfg)
	if err != nil {
		return 0
	}
	v, err := strconv.ParseFloat(flat[name], 64)
	if err != nil {
		return 0
	}
	return v
}

func (m *model) applyParam(name, value string) {
	if err := config.Apply(m.cfg, map[string]string{name: value}); err != nil {
		m.applyErr = err.Error()
		return
	}
	m.applyErr = ""
}

func (m *model) nudgeParam(name string, delta float64) {
	v := m.paramValue(name) + delta
	m.applyParam(name, strconv.FormatFloat(v, 'g', -1, 64))
}

func (m *model) start() {
	m.renderer = render.NewRenderer(nil)
	target, err := quality.ParseLevel(m.cfg.Quality)
	if err != nil {
		target = quality.Medium
	}
	m.ctrl = quality.NewController(target)
	m.camera = render.NewCamera()
	m.camera.Distance = m.cfg.Camera.Distance
	m.camera.Yaw = m.cfg.Camera.Yaw
	m.camera.Pitch = m.cfg.Camera.Pitch
	m.camera.Zoom = m.cfg.Camera.Zoom
	m.camera.FOV = m.cfg.Camera.FOV
	m.angles = m.cfg.AngleMap()
	m.stats = metrics.NewFrameStats()
	m.history = m.history[:0]
	m.elapsed = 0
	m.speed = 1.0
	m.lastTick = time.Time{}
	m.running = true
	m.paused = false
}

// step advances the animation by one tick and renders into the braille
// canvas. Terminal cells pack 2x4 sub-pixels, so the render resolution
// follows the window size.
func (m *model) step() {
	cw, ch := m.canvasSize()
	if m.canvas == nil || m.canvas.Width != cw || m.canvas.Height != ch {
		m.canvas = viz.NewCanvas(cw, ch)
	}

	now := time.Now()
	dt := 1.0 / 30.0
	if !m.lastTick.IsZero() {
		dt = now.Sub(m.lastTick).Seconds()
	}
	m.lastTick = now
	dt *= m.speed

	velocities := m.cfg.VelocityMap()
	if len(velocities) > 0 {
		m.ctrl.ParamsChanged()
	}
	m.ctrl.Tick()

	mode, err := m.cfg.FieldMode()
	if err != nil {
		m.applyErr = err.Error()
		return
	}

	s := &render.Settings{
		Width:         cw * 2,
		Height:        ch * 4,
		N:             m.cfg.Dimension,
		Angles:        m.angles,
		Slice:         m.cfg.Slice,
		Mode:          mode,
		Quality:       m.ctrl.Effective(),
		Stepper:       m.cfg.Stepper,
		Camera:        m.camera,
		TemporalCycle: m.cfg.TemporalCycle,
	}

	frameStart := time.Now()
	frame, err := m.renderer.Render(s)
	if err != nil {
		m.applyErr = err.Error()
		m.paused = true
		return
	}
	m.stats.Observe(time.Since(frameStart))

	viz.Rasterize(m.canvas, frame, m.cfg.Gamma)

	m.elapsed += dt
	for p, v := range velocities {
		m.angles[p] = ndspace.WrapAngle(m.angles[p] + v*dt)
	}

	m.history = append(m.history, m.stats.Value())
	if len(m.history) > 60 {
		m.history = m.history[1:]
	}
}

func (m *model) canvasSize() (int, int) {
	cw := m.width - 6
	ch := m.height - 8
	if cw < 40 {
		cw = 40
	}
	if ch < 10 {
		ch = 10
	}
	return cw, ch
}

func (m model) View() string {
	switch m.state {
	case stateMenu:
		return m.viewMenu()
	case stateConfig:
		return m.viewConfig()
	case stateView:
		return m.viewScene()
	}
	return ""
}

func (m model) viewMenu() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(dimmer.Render("    ╺━━━━━━━━━━━━━━━━━━━━━━━━━━╸") + "\n")
	b.WriteString("          " + cyan.Render("h y p e r v i e w") + "\n")
	b.WriteString(dimmer.Render("    ╺━━━━━━━━━━━━━━━━━━━━━━━━━━╸") + "\n")
	b.WriteString("\n")

	for i, name := range m.presets {
		desc := presetInfo[name]
		if i == m.cursor {
			b.WriteString("      " + cyan.Render("▸ ") + white.Render(fmt.Sprintf("%-14s", name)) + dim.Render(desc) + "\n")
		} else {
			b.WriteString("        " + dim.Render(fmt.Sprintf("%-14s", name)) + dimmer.Render(desc) + "\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(dim.Render("      ↑↓ select   enter configure   q quit") + "\n")

	return b.String()
}

func (m model) viewConfig() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString("      " + cyan.Render(m.presets[m.cursor]) + "  " + dim.Render(fmt.Sprintf("%s, %dd", m.cfg.Mode, m.cfg.Dimension)) + "\n")
	b.WriteString(dimmer.Render("      "+strings.Repeat("─", 42)) + "\n\n")

	for i, name := range m.paramNames {
		val := fmt.Sprintf("%10.3f", m.paramValue(name))
		if m.editing && i == m.paramCursor {
			val = fmt.Sprintf("%10s", m.editBuf+"▋")
		}
		if i == m.paramCursor {
			b.WriteString("      " + cyan.Render("▸ ") + white.Render(fmt.Sprintf("%-28s", name)) + magenta.Render(val) + "\n")
		} else {
			b.WriteString("        " + dim.Render(fmt.Sprintf("%-28s", name)) + dim.Render(val) + "\n")
		}
	}

	if m.applyErr != "" {
		b.WriteString("\n      " + yellow.Render(m.applyErr) + "\n")
	}

	b.WriteString("\n")
	b.WriteString(dim.Render("      ↑↓ select  ←→ adjust  enter edit  s start  esc back") + "\n")

	return b.String()
}

func (m model) viewScene() string {
	var b strings.Builder

	statusIcon := green.Render("●")
	statusText := green.Render("running")
	if m.paused {
		statusIcon = yellow.Render("○")
		statusText = yellow.Render("paused")
	}
	q := m.ctrl.Effective().Name
	b.WriteString(fmt.Sprintf("\n   %s %s  %s  %s\n",
		statusIcon, cyan.Render(m.presets[m.cursor]), statusText,
		dim.Render(fmt.Sprintf("%dd  quality %s  %.1ffps  x%.2g", m.cfg.Dimension, q, m.stats.FPS(), m.speed))))

	if m.canvas != nil {
		for _, line := range strings.Split(m.canvas.String(), "\n") {
			b.WriteString("   " + line + "\n")
		}
	}

	if len(m.history) > 1 {
		b.WriteString(fmt.Sprintf("   %s %s\n", dim.Render("ms"), viz.Sparkline(m.history, 30)))
	}

	if m.applyErr != "" {
		b.WriteString("   " + yellow.Render(m.applyErr) + "\n")
	}

	b.WriteString(dim.Render("   arrows orbit  +- zoom  1-4 quality  [] speed  space pause  c config  q quit") + "\n")

	return b.String()
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

func RunInteractive() error {
	p := tea.NewProgram(NewInteractiveApp(), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
