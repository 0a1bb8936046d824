package render

import "math"

// Camera is an orbit camera around the view-space origin. It lives entirely
// in the 3D view slice; the basis embedder lifts its rays into n dimensions.
type Camera struct {
	Distance float64
	Yaw      float64
	Pitch    float64
	Zoom     float64
	FOV      float64
}

func NewCamera() *Camera {
	return &Camera{Distance: 8, Zoom: 1, FOV: math.Pi / 4}
}

func (c *Camera) ZoomIn()  { c.Zoom = math.Min(10, c.Zoom*1.2) }
func (c *Camera) ZoomOut() { c.Zoom = math.Max(0.1, c.Zoom/1.2) }

// Rotate adjusts the orbit angles, keeping pitch away from the poles.
func (c *Camera) Rotate(dyaw, dpitch float64) {
	c.Yaw += dyaw
	c.Pitch += dpitch
	limit := math.Pi/2 - 0.01
	if c.Pitch > limit {
		c.Pitch = limit
	}
	if c.Pitch < -limit {
		c.Pitch = -limit
	}
}

// basis returns the camera position and its right/up/forward frame.
func (c *Camera) basis() (pos, right, up, fwd [3]float64) {
	d := c.Distance / c.Zoom
	cy, sy := math.Cos(c.Yaw), math.Sin(c.Yaw)
	cp, sp := math.Cos(c.Pitch), math.Sin(c.Pitch)

	pos = [3]float64{d * cp * sy, d * sp, -d * cp * cy}
	fwd = [3]float64{-cp * sy, -sp, cp * cy}
	right = [3]float64{cy, 0, sy}
	up = [3]float64{
		fwd[1]*right[2] - fwd[2]*right[1],
		fwd[2]*right[0] - fwd[0]*right[2],
		fwd[0]*right[1] - fwd[1]*right[0],
	}
	return
}

// Ray generates the view ray through pixel (px, py) of a width x height
// viewport. The origin is the camera position; the direction is unit
// length.
func (c *Camera) Ray(px, py, width, height int) (ox, oy, oz, dx, dy, dz float64) {
	pos, right, up, fwd := c.basis()

	aspect := float64(width) / float64(height)
	focal := 1 / math.Tan(c.FOV/2)
	u := (2*(float64(px)+0.5)/float64(width) - 1) * aspect
	v := 1 - 2*(float64(py)+0.5)/float64(height)

	dx = right[0]*u + up[0]*v + fwd[0]*focal
	dy = right[1]*u + up[1]*v + fwd[1]*focal
	dz = right[2]*u + up[2]*v + fwd[2]*focal
	m := math.Sqrt(dx*dx + dy*dy + dz*dz)
	dx, dy, dz = dx/m, dy/m, dz/m
	return pos[0], pos[1], pos[2], dx, dy, dz
}

// Project maps a view-space point to pixel coordinates. ok is false behind
// the camera.
func (c *Camera) Project(x, y, z float64, width, height int) (px, py float64, ok bool) {
	pos, right, up, fwd := c.basis()
	rx, ry, rz := x-pos[0], y-pos[1], z-pos[2]

	vz := rx*fwd[0] + ry*fwd[1] + rz*fwd[2]
	if vz < 1e-6 {
		return 0, 0, false
	}
	vx := rx*right[0] + ry*right[1] + rz*right[2]
	vy := rx*up[0] + ry*up[1] + rz*up[2]

	aspect := float64(width) / float64(height)
	focal := 1 / math.Tan(c.FOV/2)
	u := vx / vz * focal / aspect
	v := vy / vz * focal

	px = (u + 1) / 2 * float64(width)
	py = (1 - v) / 2 * float64(height)
	return px, py, true
}

// Reproject builds the temporal mapping from pixels of the camera's frame
// to screen positions in prev's frame, given per-pixel depth along the ray.
func (c *Camera) Reproject(prev *Camera, width, height int) func(x, y int, depth float64) (float64, float64, bool) {
	return func(x, y int, depth float64) (float64, float64, bool) {
		if math.IsInf(depth, 1) || math.IsNaN(depth) || depth <= 0 {
			// No geometry behind the pixel; reproject the direction at a
			// far but finite range.
			depth = 1e3
		}
		ox, oy, oz, dx, dy, dz := c.Ray(x, y, width, height)
		return prev.Project(ox+dx*depth, oy+dy*depth, oz+dz*depth, width, height)
	}
}
