// Package temporal amortizes the cost of volumetric layers across frames.
// Each frame renders only one sub-position per pixel block; the remaining
// pixels are reprojected from the previous accumulated frame, with spatial
// interpolation as the fallback when history is missing or disoccluded.
package temporal

import (
	"fmt"
	"math"
)

// RGB is one accumulated pixel color.
type RGB [3]float64

// ReprojectFunc maps a current-frame pixel with its depth estimate to the
// previous frame's screen position. ok is false when the point was outside
// the previous viewport. A nil ReprojectFunc means a static camera.
type ReprojectFunc func(x, y int, depth float64) (px, py float64, ok bool)

// Cycle lengths supported by the reconstructor. Four uses 2x2 blocks,
// sixteen uses 4x4.
const (
	CycleFour    = 4
	CycleSixteen = 16
)

// Bayer orderings pick the fresh sub-position per frame index so refreshed
// pixels stay maximally spread within each block.
var bayer2 = [2][2]int{
	{0, 2},
	{3, 1},
}

var bayer4 = [4][4]int{
	{0, 8, 2, 10},
	{12, 4, 14, 6},
	{3, 11, 1, 9},
	{15, 7, 13, 5},
}

// depthAgreement is the relative depth mismatch beyond which reprojected
// history counts as disoccluded.
const depthAgreement = 0.1

type buffer struct {
	color []RGB
	depth []float64
	valid []bool
	// solid marks pixels whose depth came from an actual render, directly
	// or via accepted reprojection, rather than spatial interpolation.
	// Only solid depths are trusted for disocclusion tests.
	solid []bool
}

func newBuffer(n int) *buffer {
	return &buffer{
		color: make([]RGB, n),
		depth: make([]float64, n),
		valid: make([]bool, n),
		solid: make([]bool, n),
	}
}

func (b *buffer) clear() {
	for i := range b.valid {
		b.color[i] = RGB{}
		b.depth[i] = 0
		b.valid[i] = false
		b.solid[i] = false
	}
}

// Reconstructor owns the double-buffered accumulation state. It is written
// by exactly one goroutine; the parallel sparse pass only reads Fresh and
// writes disjoint pixels through Write.
type Reconstructor struct {
	width  int
	height int
	cycle  int
	block  int
	frame  int

	curr *buffer
	prev *buffer

	// offsets[f] is the in-block sub-position rendered at frame index f.
	offsets [][2]int

	// prevValid is false until one full reconstruction has completed, so
	// the first frame never reprojects from garbage.
	prevValid bool
}

// New creates a reconstructor for the given viewport. cycle must be
// CycleFour or CycleSixteen.
func New(width, height, cycle int) (*Reconstructor, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("temporal: viewport %dx%d is empty", width, height)
	}
	block := 0
	switch cycle {
	case CycleFour:
		block = 2
	case CycleSixteen:
		block = 4
	default:
		return nil, fmt.Errorf("temporal: cycle length %d, want %d or %d", cycle, CycleFour, CycleSixteen)
	}
	offsets := make([][2]int, cycle)
	for y := 0; y < block; y++ {
		for x := 0; x < block; x++ {
			f := bayer4[y][x]
			if block == 2 {
				f = bayer2[y][x]
			}
			offsets[f] = [2]int{x, y}
		}
	}
	n := width * height
	return &Reconstructor{
		width:   width,
		height:  height,
		cycle:   cycle,
		block:   block,
		curr:    newBuffer(n),
		prev:    newBuffer(n),
		offsets: offsets,
	}, nil
}

func (r *Reconstructor) Width() int  { return r.width }
func (r *Reconstructor) Height() int { return r.height }
func (r *Reconstructor) Cycle() int  { return r.cycle }

// FrameIndex is the position within the refresh cycle, in [0, Cycle).
func (r *Reconstructor) FrameIndex() int { return r.frame }

// Resize reallocates the accumulation buffers and drops all history.
func (r *Reconstructor) Resize(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("temporal: viewport %dx%d is empty", width, height)
	}
	n := width * height
	r.width = width
	r.height = height
	r.curr = newBuffer(n)
	r.prev = newBuffer(n)
	r.frame = 0
	r.prevValid = false
	return nil
}

// Reset drops history without reallocating, for dimension or mode changes
// that invalidate every accumulated sample.
func (r *Reconstructor) Reset() {
	r.curr.clear()
	r.prev.clear()
	r.frame = 0
	r.prevValid = false
}

// Fresh reports whether (x, y) is this frame's sub-position within its
// block, i.e. whether the sparse pass must render it.
func (r *Reconstructor) Fresh(x, y int) bool {
	bx := x % r.block
	by := y % r.block
	if r.block == 2 {
		return bayer2[by][bx] == r.frame
	}
	return bayer4[by][bx] == r.frame
}

// Write stores one freshly rendered pixel. Only call for pixels where
// Fresh(x, y) is true, and only before Resolve.
func (r *Reconstructor) Write(x, y int, c RGB, depth float64) {
	i := y*r.width + x
	r.curr.color[i] = c
	r.curr.depth[i] = depth
	r.curr.valid[i] = true
	r.curr.solid[i] = true
}

// Resolve fills every non-fresh pixel from reprojected history or spatial
// interpolation, then swaps the accumulation buffers. After Resolve the
// frame index has advanced and Output holds the reconstructed frame.
func (r *Reconstructor) Resolve(reproject ReprojectFunc) {
	for y := 0; y < r.height; y++ {
		for x := 0; x < r.width; x++ {
			i := y*r.width + x
			if r.curr.valid[i] {
				continue
			}
			if c, d, solid, ok := r.reprojected(x, y, reproject); ok {
				r.curr.color[i] = c
				r.curr.depth[i] = d
				r.curr.valid[i] = true
				r.curr.solid[i] = solid
			}
		}
	}
	// Second pass: anything still invalid interpolates from resolved
	// neighbors. Never fatal; worst case the block's fresh pixel wins.
	for y := 0; y < r.height; y++ {
		for x := 0; x < r.width; x++ {
			i := y*r.width + x
			if r.curr.valid[i] {
				continue
			}
			c, d := r.interpolate(x, y)
			r.curr.color[i] = c
			r.curr.depth[i] = d
			r.curr.valid[i] = true
		}
	}

	r.curr, r.prev = r.prev, r.curr
	r.prevValid = true
	r.frame = (r.frame + 1) % r.cycle
	r.curr.clear()
}

// Output is the most recently reconstructed frame, indexed y*Width+x. The
// slice is reused across frames; copy it to keep it past the next Resolve.
func (r *Reconstructor) Output() []RGB {
	return r.prev.color
}

// reprojected samples the previous frame at this pixel's reprojected
// position. Fails outside the viewport, without history, when the block's
// fresh sample shows the scene changed, or on a depth mismatch between
// this pixel's own depth estimate and the history it lands on.
func (r *Reconstructor) reprojected(x, y int, reproject ReprojectFunc) (RGB, float64, bool, bool) {
	if !r.prevValid {
		return RGB{}, 0, false, false
	}
	if r.blockDisoccluded(x, y, reproject) {
		return RGB{}, 0, false, false
	}
	// The depth estimate must belong to this pixel's own ray. Neighboring
	// rays in the block can sit at very different depths, so the block's
	// fresh depth is only the fallback when no history exists here yet.
	i := y*r.width + x
	depth, haveDepth := r.prev.depth[i], r.prev.valid[i]
	if !haveDepth {
		depth, haveDepth = r.freshDepth(x, y)
	}
	px, py := float64(x), float64(y)
	if reproject != nil {
		var ok bool
		px, py, ok = reproject(x, y, depth)
		if !ok {
			return RGB{}, 0, false, false
		}
	}
	// Continuous screen coordinates: pixel x covers [x, x+1), center at
	// x+0.5, so floor is the right quantization.
	xi := int(math.Floor(px))
	yi := int(math.Floor(py))
	if xi < 0 || xi >= r.width || yi < 0 || yi >= r.height {
		return RGB{}, 0, false, false
	}
	j := yi*r.width + xi
	if !r.prev.valid[j] {
		return RGB{}, 0, false, false
	}
	if haveDepth && disoccluded(depth, r.prev.depth[j]) {
		return RGB{}, 0, false, false
	}
	return r.prev.color[j], r.prev.depth[j], r.prev.solid[j], true
}

// blockDisoccluded reports whether the freshly rendered sample in the block
// containing (x, y) landed at a materially different depth than the solid
// history underneath it. That means the scene itself changed there, and the
// rest of the block's history is stale with it. Interpolated history is not
// trustworthy enough to trigger the rejection.
func (r *Reconstructor) blockDisoccluded(x, y int, reproject ReprojectFunc) bool {
	off := r.offsets[r.frame]
	fx := x - x%r.block + off[0]
	fy := y - y%r.block + off[1]
	if fx >= r.width || fy >= r.height {
		return false
	}
	i := fy*r.width + fx
	if !r.curr.valid[i] {
		return false
	}
	d := r.curr.depth[i]

	px, py := float64(fx), float64(fy)
	if reproject != nil {
		var ok bool
		px, py, ok = reproject(fx, fy, d)
		if !ok {
			return false
		}
	}
	xi := int(math.Floor(px))
	yi := int(math.Floor(py))
	if xi < 0 || xi >= r.width || yi < 0 || yi >= r.height {
		return false
	}
	j := yi*r.width + xi
	if !r.prev.solid[j] {
		return false
	}
	return disoccluded(d, r.prev.depth[j])
}

// freshDepth returns the depth of this frame's freshly rendered pixel in
// the block containing (x, y). Used as the depth estimate only when a
// pixel has no accumulated history of its own.
func (r *Reconstructor) freshDepth(x, y int) (float64, bool) {
	off := r.offsets[r.frame]
	fx := x - x%r.block + off[0]
	fy := y - y%r.block + off[1]
	if fx >= r.width || fy >= r.height {
		return 0, false
	}
	i := fy*r.width + fx
	if !r.curr.valid[i] {
		return 0, false
	}
	return r.curr.depth[i], true
}

func disoccluded(a, b float64) bool {
	if math.IsInf(a, 1) && math.IsInf(b, 1) {
		return false
	}
	scale := math.Max(math.Abs(a), math.Abs(b))
	if scale < 1e-6 {
		return false
	}
	if math.IsInf(scale, 1) {
		return true
	}
	return math.Abs(a-b)/scale > depthAgreement
}

// interpolate averages the already-resolved pixels in the surrounding
// block-sized window. Every window contains this frame's fresh pixel, so
// the result is always defined.
func (r *Reconstructor) interpolate(x, y int) (RGB, float64) {
	var sum RGB
	var depth float64
	count := 0
	for dy := -r.block; dy <= r.block; dy++ {
		for dx := -r.block; dx <= r.block; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			nx, ny := x+dx, y+dy
			if nx < 0 || nx >= r.width || ny < 0 || ny >= r.height {
				continue
			}
			j := ny*r.width + nx
			if !r.curr.valid[j] {
				continue
			}
			for k := 0; k < 3; k++ {
				sum[k] += r.curr.color[j][k]
			}
			depth += r.curr.depth[j]
			count++
		}
	}
	if count == 0 {
		return RGB{}, 0
	}
	inv := 1 / float64(count)
	return RGB{sum[0] * inv, sum[1] * inv, sum[2] * inv}, depth * inv
}
