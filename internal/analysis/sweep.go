// Package analysis probes how render output responds to parameter changes:
// sweep a named parameter over a range and record cheap scalar probes of
// the resulting field, without rendering full frames.
package analysis

import (
	"fmt"
	"strings"

	"github.com/san-kum/hyperview/internal/config"
	"github.com/san-kum/hyperview/internal/field"
	"github.com/san-kum/hyperview/internal/ndspace"
)

// SweepPoint is the probe result for one parameter value.
type SweepPoint struct {
	Param float64
	// EscapeFraction is the share of probe points that escape the field
	// (miss the surface / pass through the volume).
	EscapeFraction float64
	// MeanValue averages the field magnitude over the probe grid: smooth
	// iteration value for surface modes, density for volume modes.
	MeanValue float64
}

// Sweep varies one flat-named parameter over [min, max] in steps and probes
// the resulting field on a fixed grid. The scene config is not mutated.
func Sweep(cfg *config.Config, param string, min, max float64, steps int) ([]SweepPoint, error) {
	if steps < 2 {
		steps = 2
	}

	results := make([]SweepPoint, 0, steps)
	inc := (max - min) / float64(steps-1)

	for i := 0; i < steps; i++ {
		value := min + float64(i)*inc

		probe := cfg.Clone()
		if err := config.Apply(probe, map[string]string{
			param: fmt.Sprintf("%g", value),
		}); err != nil {
			return nil, fmt.Errorf("sweep %s: %w", param, err)
		}

		point, err := probeScene(probe, value)
		if err != nil {
			return nil, fmt.Errorf("sweep %s=%g: %w", param, value, err)
		}
		results = append(results, point)
	}
	return results, nil
}

// probeGrid is the number of sample points per axis; the probe cube spans
// [-probeSpan, probeSpan] on the first three axes.
const (
	probeGrid = 8
	probeSpan = 2.0
)

func probeScene(cfg *config.Config, param float64) (SweepPoint, error) {
	mode, err := cfg.FieldMode()
	if err != nil {
		return SweepPoint{}, err
	}
	n := cfg.Dimension
	if !ndspace.ValidDim(n) {
		return SweepPoint{}, fmt.Errorf("dimension %d", n)
	}
	ev, err := mode.Build(n, 32)
	if err != nil {
		return SweepPoint{}, err
	}

	point := SweepPoint{Param: param}
	total := 0
	escaped := 0
	sum := 0.0

	var p ndspace.Vec
	for ix := 0; ix < probeGrid; ix++ {
		for iy := 0; iy < probeGrid; iy++ {
			for iz := 0; iz < probeGrid; iz++ {
				p.Zero()
				p[0] = gridCoord(ix)
				p[1] = gridCoord(iy)
				p[2] = gridCoord(iz)
				total++

				switch f := ev.(type) {
				case field.SurfaceField:
					_, shade, hit := f.Distance(&p, n)
					if !hit {
						escaped++
					}
					sum += shade
				case field.VolumeField:
					var s field.VolumeSample
					f.SampleVolume(&p, n, ndspace.Norm(&p, n), &s)
					if s.Density == 0 {
						escaped++
					}
					sum += s.Density
				}
			}
		}
	}

	point.EscapeFraction = float64(escaped) / float64(total)
	point.MeanValue = sum / float64(total)
	return point, nil
}

func gridCoord(i int) float64 {
	return -probeSpan + 2*probeSpan*(float64(i)+0.5)/probeGrid
}

// ToASCII renders a sweep as a crude scatter for terminal output: parameter
// left to right, escape fraction bottom to top.
func ToASCII(points []SweepPoint, width, height int) string {
	if len(points) == 0 || width <= 0 || height <= 0 {
		return ""
	}
	grid := make([][]byte, height)
	for y := range grid {
		grid[y] = []byte(strings.Repeat(" ", width))
	}
	for i, pt := range points {
		x := i * (width - 1) / max(1, len(points)-1)
		y := int((1 - pt.EscapeFraction) * float64(height-1))
		if y < 0 {
			y = 0
		}
		if y >= height {
			y = height - 1
		}
		grid[y][x] = '*'
	}
	var b strings.Builder
	for _, row := range grid {
		b.Write(row)
		b.WriteByte('\n')
	}
	return b.String()
}
