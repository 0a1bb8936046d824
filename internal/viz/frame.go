package viz

import (
	"math"

	"github.com/san-kum/hyperview/internal/polytope"
	"github.com/san-kum/hyperview/internal/render"
)

// Rasterize shades the frame's luminance onto the canvas dot grid. The
// frame is resampled to the canvas resolution (Width*2 x Height*4), so
// any frame size works with any canvas size; the canvas dithers.
func Rasterize(c *Canvas, f *render.Frame, gamma float64) {
	c.Clear()
	subW := c.Width * 2
	subH := c.Height * 4

	for sy := 0; sy < subH; sy++ {
		fy := sy * f.Height / subH
		for sx := 0; sx < subW; sx++ {
			fx := sx * f.Width / subW
			lum := luminance(f.At(fx, fy))
			if gamma > 0 && gamma != 1 && lum > 0 {
				lum = math.Pow(lum, 1/gamma)
			}
			c.Shade(sx, sy, lum)
		}
	}
}

func luminance(c [3]float64) float64 {
	l := 0.2126*c[0] + 0.7152*c[1] + 0.0722*c[2]
	if l < 0 {
		return 0
	}
	if l > 1 {
		return 1
	}
	return l
}

// DrawWireframe draws projected polytope edges onto the canvas. The
// wireframe's (x, y) coordinates are mapped so that [-extent, extent]
// fills the shorter canvas axis.
func DrawWireframe(c *Canvas, w polytope.Wireframe, extent float64) {
	if extent <= 0 {
		extent = 1
	}
	subW := c.Width * 2
	subH := c.Height * 4
	minDim := subW
	if subH < minDim {
		minDim = subH
	}
	scale := float64(minDim) / (2 * extent)

	toScreen := func(i int) (int, int) {
		x := w.Positions[i*3]
		y := w.Positions[i*3+1]
		sx := int(x*scale) + subW/2
		sy := subH/2 - int(y*scale)
		return sx, sy
	}

	for _, e := range w.Edges {
		x1, y1 := toScreen(e[0])
		x2, y2 := toScreen(e[1])
		c.DrawLine(x1, y1, x2, y2)
	}
}
