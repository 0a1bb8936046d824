// Package metrics collects render performance counters: frame timing,
// throughput and per-frame ray statistics.
package metrics

import (
	"math"
	"sort"
	"time"

	"github.com/san-kum/hyperview/internal/march"
)

// FrameStats accumulates frame times and derives throughput figures.
// The Metric trio Name/Value/Reset matches how observers consume it.
type FrameStats struct {
	name    string
	times   []time.Duration
	total   time.Duration
	samples int
	maxKeep int
}

func NewFrameStats() *FrameStats {
	return &FrameStats{name: "frame_time", maxKeep: 4096}
}

func (f *FrameStats) Name() string { return f.name }

// Observe records one finished frame.
func (f *FrameStats) Observe(d time.Duration) {
	f.total += d
	if len(f.times) < f.maxKeep {
		f.times = append(f.times, d)
	}
	f.samples++
}

// Value returns the mean frame time in milliseconds.
func (f *FrameStats) Value() float64 {
	if f.samples == 0 {
		return 0
	}
	return f.total.Seconds() * 1000 / float64(f.samples)
}

func (f *FrameStats) Reset() {
	f.times = f.times[:0]
	f.total = 0
	f.samples = 0
}

// Count returns the number of observed frames.
func (f *FrameStats) Count() int { return f.samples }

// FPS returns the average frames per second over the observed frames.
func (f *FrameStats) FPS() float64 {
	if f.samples == 0 || f.total == 0 {
		return 0
	}
	return float64(f.samples) / f.total.Seconds()
}

// Percentile returns the p-th percentile frame time (p in [0, 100]) over
// the retained window.
func (f *FrameStats) Percentile(p float64) time.Duration {
	if len(f.times) == 0 {
		return 0
	}
	sorted := make([]time.Duration, len(f.times))
	copy(sorted, f.times)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	idx := int(math.Ceil(p/100*float64(len(sorted)))) - 1
	if idx < 0 {
		idx = 0
	}
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}

// RayStats tracks per-frame raymarch work: how many rays ended in each
// terminal state and the average step count.
type RayStats struct {
	Captured  int
	Escaped   int
	Exhausted int
	Steps     int
}

// Add folds one pixel's outcome in.
func (r *RayStats) Add(state march.State, steps int) {
	switch state {
	case march.Captured:
		r.Captured++
	case march.Escaped:
		r.Escaped++
	case march.Exhausted:
		r.Exhausted++
	}
	r.Steps += steps
}

// Total returns the number of folded rays.
func (r *RayStats) Total() int { return r.Captured + r.Escaped + r.Exhausted }

// MeanSteps returns the average steps per ray.
func (r *RayStats) MeanSteps() float64 {
	n := r.Total()
	if n == 0 {
		return 0
	}
	return float64(r.Steps) / float64(n)
}
