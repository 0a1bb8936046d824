// Package export writes vector output: terminal canvases and projected
// polytope wireframes as standalone SVG documents.
package export

import (
	"fmt"
	"strings"

	"github.com/san-kum/hyperview/internal/polytope"
	"github.com/san-kum/hyperview/internal/viz"
)

// CanvasToSVG converts a Braille canvas to SVG, one dot per lit sub-pixel.
func CanvasToSVG(canvas *viz.Canvas, scale float64) string {
	if canvas == nil {
		return ""
	}

	width := float64(canvas.Width) * scale * 2   // 2 sub-pixels per char
	height := float64(canvas.Height) * scale * 4 // 4 sub-pixels per char

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<g fill="#00ff00">
`, width, height, width, height))

	dotRadius := scale * 0.4

	for y := 0; y < canvas.Height*4; y++ {
		for x := 0; x < canvas.Width*2; x++ {
			if !canvas.Dot(x, y) {
				continue
			}
			cx := float64(x)*scale + scale/2
			cy := float64(y)*scale + scale/2
			sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f"/>
`, cx, cy, dotRadius))
		}
	}

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// WireframeToSVG draws a projected polytope as SVG line segments, with
// vertices as small circles. Edges further from the viewer (smaller
// projected scale) are drawn dimmer.
func WireframeToSVG(w polytope.Wireframe, width, height int) string {
	count := len(w.Positions) / 3
	if count == 0 {
		return ""
	}

	minX, maxX := w.Positions[0], w.Positions[0]
	minY, maxY := w.Positions[1], w.Positions[1]
	for i := 0; i < count; i++ {
		x, y := w.Positions[i*3], w.Positions[i*3+1]
		if x < minX {
			minX = x
		}
		if x > maxX {
			maxX = x
		}
		if y < minY {
			minY = y
		}
		if y > maxY {
			maxY = y
		}
	}
	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	minY -= rangeY * 0.1
	rangeX *= 1.2
	rangeY *= 1.2

	toScreen := func(i int) (float64, float64) {
		x := (w.Positions[i*3] - minX) / rangeX * float64(width)
		y := float64(height) - (w.Positions[i*3+1]-minY)/rangeY*float64(height)
		return x, y
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<g stroke="#00ccff" stroke-width="1.5" fill="none">
`, width, height, width, height))

	for _, e := range w.Edges {
		x1, y1 := toScreen(e[0])
		x2, y2 := toScreen(e[1])
		// Average z of the endpoints drives the opacity.
		z := (w.Positions[e[0]*3+2] + w.Positions[e[1]*3+2]) / 2
		opacity := 0.55 + 0.45*clamp01(0.5+z)
		sb.WriteString(fmt.Sprintf(`<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke-opacity="%.2f"/>
`, x1, y1, x2, y2, opacity))
	}
	sb.WriteString("</g>\n<g fill=\"#ffffff\">\n")
	for i := 0; i < count; i++ {
		x, y := toScreen(i)
		sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="2"/>
`, x, y))
	}
	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
