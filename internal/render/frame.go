package render

import (
	"fmt"
	"image"
	"image/color/palette"
	"image/draw"
	"image/gif"
	"image/png"
	"io"
	"math"
)

// Frame holds one rendered frame: final color plus the auxiliary buffers
// the driver produces per pixel. All slices are width*height, row-major,
// y down; Color and Normal pack three values per pixel.
type Frame struct {
	Width  int
	Height int

	Color   []float64
	Alpha   []float64
	Horizon []float64
	Shell   []float64
	Lens    []float64
	Normal  []float64
	Depth   []float64
}

func NewFrame(width, height int) *Frame {
	n := width * height
	return &Frame{
		Width:   width,
		Height:  height,
		Color:   make([]float64, 3*n),
		Alpha:   make([]float64, n),
		Horizon: make([]float64, n),
		Shell:   make([]float64, n),
		Lens:    make([]float64, n),
		Normal:  make([]float64, 3*n),
		Depth:   make([]float64, n),
	}
}

// Set stores one pixel's outputs.
func (f *Frame) Set(x, y int, color [3]float64, alpha, horizon, shell, lens float64, normal [3]float64, depth float64) {
	i := y*f.Width + x
	copy(f.Color[3*i:], color[:])
	f.Alpha[i] = alpha
	f.Horizon[i] = horizon
	f.Shell[i] = shell
	f.Lens[i] = lens
	copy(f.Normal[3*i:], normal[:])
	f.Depth[i] = depth
}

// Clone deep-copies the frame for callers that keep frames around while
// rendering continues.
func (f *Frame) Clone() *Frame {
	c := NewFrame(f.Width, f.Height)
	copy(c.Color, f.Color)
	copy(c.Alpha, f.Alpha)
	copy(c.Horizon, f.Horizon)
	copy(c.Shell, f.Shell)
	copy(c.Lens, f.Lens)
	copy(c.Normal, f.Normal)
	copy(c.Depth, f.Depth)
	return c
}

// At returns the color of one pixel.
func (f *Frame) At(x, y int) [3]float64 {
	i := 3 * (y*f.Width + x)
	return [3]float64{f.Color[i], f.Color[i+1], f.Color[i+2]}
}

// Image tone-maps the color buffer to 8-bit with the given gamma.
// Peak normalization keeps unbounded emission from clipping to white.
func (f *Frame) Image(gamma float64) *image.NRGBA {
	peak := 0.0
	for _, v := range f.Color {
		if v > peak {
			peak = v
		}
	}
	scale := 1.0
	if peak > 1 {
		scale = 1 / peak
	}

	toByte := func(v float64) uint8 {
		if v <= 0 {
			return 0
		}
		n := v * scale
		if n > 1 {
			n = 1
		}
		if gamma != 1 && gamma > 0 {
			n = math.Pow(n, 1/gamma)
		}
		return uint8(math.Round(n * 255))
	}

	img := image.NewNRGBA(image.Rect(0, 0, f.Width, f.Height))
	for y := 0; y < f.Height; y++ {
		rowOff := y * img.Stride
		for x := 0; x < f.Width; x++ {
			i := 3 * (y*f.Width + x)
			p := rowOff + x*4
			img.Pix[p+0] = toByte(f.Color[i])
			img.Pix[p+1] = toByte(f.Color[i+1])
			img.Pix[p+2] = toByte(f.Color[i+2])
			img.Pix[p+3] = 255
		}
	}
	return img
}

// WritePNG encodes the frame as a PNG.
func (f *Frame) WritePNG(w io.Writer, gamma float64) error {
	enc := png.Encoder{CompressionLevel: png.BestCompression}
	if err := enc.Encode(w, f.Image(gamma)); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

// WriteGIF encodes a frame sequence as an animated GIF. delay is in
// hundredths of a second per frame.
func WriteGIF(w io.Writer, frames []*Frame, delay int, gamma float64) error {
	if len(frames) == 0 {
		return fmt.Errorf("encode gif: no frames")
	}
	out := &gif.GIF{
		Image:     make([]*image.Paletted, 0, len(frames)),
		Delay:     make([]int, 0, len(frames)),
		LoopCount: 0,
	}
	for _, f := range frames {
		src := f.Image(gamma)
		pimg := image.NewPaletted(src.Bounds(), palette.Plan9)
		draw.FloydSteinberg.Draw(pimg, pimg.Bounds(), src, image.Point{})
		out.Image = append(out.Image, pimg)
		out.Delay = append(out.Delay, delay)
	}
	if err := gif.EncodeAll(w, out); err != nil {
		return fmt.Errorf("encode gif: %w", err)
	}
	return nil
}
