package viz

import "strings"

// Canvas is a braille drawing surface. Each text cell packs a 2x4 block of
// dots, so a w x h cell canvas addresses (w*2) x (h*4) dot coordinates.
type Canvas struct {
	Width  int // cells per row
	Height int // rows
	cells  []uint8
}

func NewCanvas(w, h int) *Canvas {
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return &Canvas{Width: w, Height: h, cells: make([]uint8, w*h)}
}

// dotBit maps an in-cell dot position to its bit in the braille block:
// the left column covers bits 0..2, the right column bits 3..5, and the
// bottom row bits 6 and 7.
func dotBit(subX, subY int) uint8 {
	if subY == 3 {
		return 1 << (6 + subX)
	}
	return 1 << (subY + 3*subX)
}

// cellAt resolves dot coordinates to a cell index and dot bit. ok is
// false outside the canvas.
func (c *Canvas) cellAt(x, y int) (int, uint8, bool) {
	if x < 0 || y < 0 || x >= c.Width*2 || y >= c.Height*4 {
		return 0, 0, false
	}
	return (y/4)*c.Width + x/2, dotBit(x%2, y%4), true
}

// Set lights the dot at (x, y). Out-of-range coordinates are ignored.
func (c *Canvas) Set(x, y int) {
	if i, bit, ok := c.cellAt(x, y); ok {
		c.cells[i] |= bit
	}
}

// Unset clears the dot at (x, y).
func (c *Canvas) Unset(x, y int) {
	if i, bit, ok := c.cellAt(x, y); ok {
		c.cells[i] &^= bit
	}
}

// Dot reports whether the dot at (x, y) is lit.
func (c *Canvas) Dot(x, y int) bool {
	i, bit, ok := c.cellAt(x, y)
	return ok && c.cells[i]&bit != 0
}

// ditherMatrix staggers the thresholds of neighboring dots so mid-range
// intensities render as a dot pattern instead of banding.
var ditherMatrix = [4][4]float64{
	{0.5, 8.5, 2.5, 10.5},
	{12.5, 4.5, 14.5, 6.5},
	{3.5, 11.5, 1.5, 9.5},
	{15.5, 7.5, 13.5, 5.5},
}

// Shade lights the dot at (x, y) when level clears the ordered-dither
// threshold for that position. Levels at or below zero never light a dot;
// a level of one always does.
func (c *Canvas) Shade(x, y int, level float64) {
	if x < 0 || y < 0 {
		return
	}
	if level > ditherMatrix[y%4][x%4]/16 {
		c.Set(x, y)
	}
}

// Clear puts every cell back to the empty braille block.
func (c *Canvas) Clear() {
	for i := range c.cells {
		c.cells[i] = 0
	}
}

// DrawLine lights the dots along the segment between two dot coordinates
// (Bresenham, all octants).
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
	dx := absInt(x1 - x0)
	dy := -absInt(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy

	for {
		c.Set(x0, y0)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// String renders the canvas, one text row per line.
func (c *Canvas) String() string {
	var b strings.Builder
	// Braille runes are three bytes each in UTF-8.
	b.Grow((c.Width*3 + 1) * c.Height)
	for row := 0; row < c.Height; row++ {
		for col := 0; col < c.Width; col++ {
			b.WriteRune(0x2800 + rune(c.cells[row*c.Width+col]))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
