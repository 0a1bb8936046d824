package gui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
)

func (a *App) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(ColBg)

	if a.InMenu {
		a.drawMenu()
	} else {
		a.drawScene()
		a.drawHUD()
	}

	rl.EndDrawing()
}

func (a *App) drawMenu() {
	a.text("h y p e r v i e w", 80, 80, 32, ColSelect)
	a.text("n-dimensional renderer", 80, 120, 18, ColTextDim)

	y := float32(180)
	for i, name := range a.Presets {
		col := ColText
		prefix := "  "
		if i == a.Selected {
			col = ColSelect
			prefix = "> "
		}
		a.text(prefix+name, 80, y, 22, col)
		y += 32
	}

	a.text("up/down select   enter start   q quit", 80, y+24, 16, ColTextDim)
}

func (a *App) drawScene() {
	src := rl.NewRectangle(0, 0, float32(a.Tex.Width), float32(a.Tex.Height))
	dst := rl.NewRectangle(0, 0, float32(rl.GetScreenWidth()), float32(rl.GetScreenHeight()))
	rl.DrawTexturePro(a.Tex, src, dst, rl.NewVector2(0, 0), 0, rl.White)
}

func (a *App) drawHUD() {
	status := "running"
	col := ColAccent
	if a.Paused {
		status = "paused"
		col = ColText
	}

	a.text(fmt.Sprintf("%s  %dd  %s", a.Cfg.Mode, a.Cfg.Dimension, status), 16, 12, 18, col)

	q := a.Ctrl.Effective().Name
	line := fmt.Sprintf("quality %s  %.1f fps  %.0f ms", q, a.Stats.FPS(), a.Stats.Value())
	if a.Ctrl.Reduced() {
		line += "  (reduced)"
	}
	a.text(line, 16, 36, 16, ColTextDim)

	a.text("drag orbit  wheel zoom  1-4 quality  space pause  esc menu  q quit",
		16, float32(rl.GetScreenHeight())-28, 14, ColTextDim)
}

func (a *App) text(s string, x, y float32, size float32, col rl.Color) {
	rl.DrawTextEx(a.Font, s, rl.NewVector2(x, y), size, 1, col)
}
