package metrics

import (
	"testing"
	"time"

	"github.com/san-kum/hyperview/internal/march"
)

func TestFrameStats(t *testing.T) {
	s := NewFrameStats()
	if s.Value() != 0 || s.FPS() != 0 {
		t.Error("empty stats should report zero")
	}

	for i := 0; i < 10; i++ {
		s.Observe(20 * time.Millisecond)
	}

	if got := s.Value(); got < 19.9 || got > 20.1 {
		t.Errorf("mean frame time = %vms, want 20ms", got)
	}
	if got := s.FPS(); got < 49 || got > 51 {
		t.Errorf("fps = %v, want 50", got)
	}
	if s.Count() != 10 {
		t.Errorf("count = %d", s.Count())
	}

	s.Reset()
	if s.Count() != 0 || s.Value() != 0 {
		t.Error("reset did not clear stats")
	}
}

func TestFrameStatsPercentile(t *testing.T) {
	s := NewFrameStats()
	for i := 1; i <= 100; i++ {
		s.Observe(time.Duration(i) * time.Millisecond)
	}
	if got := s.Percentile(50); got != 50*time.Millisecond {
		t.Errorf("p50 = %v", got)
	}
	if got := s.Percentile(99); got != 99*time.Millisecond {
		t.Errorf("p99 = %v", got)
	}
	if got := s.Percentile(100); got != 100*time.Millisecond {
		t.Errorf("p100 = %v", got)
	}
}

func TestRayStats(t *testing.T) {
	var r RayStats
	r.Add(march.Captured, 10)
	r.Add(march.Escaped, 30)
	r.Add(march.Escaped, 50)
	r.Add(march.Exhausted, 90)

	if r.Captured != 1 || r.Escaped != 2 || r.Exhausted != 1 {
		t.Errorf("counts %+v", r)
	}
	if r.Total() != 4 {
		t.Errorf("total = %d", r.Total())
	}
	if got := r.MeanSteps(); got != 45 {
		t.Errorf("mean steps = %v, want 45", got)
	}
}
