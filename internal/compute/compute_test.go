package compute

import (
	"sync/atomic"
	"testing"
)

func TestRenderRowsCoversEveryRow(t *testing.T) {
	backends := []Backend{NewCPUBackend(), NewSerialBackend()}
	for _, b := range backends {
		for _, rows := range []int{0, 1, 15, 16, 256} {
			hits := make([]int32, rows)
			b.RenderRows(rows, func(y int) {
				atomic.AddInt32(&hits[y], 1)
			})
			for y, h := range hits {
				if h != 1 {
					t.Fatalf("%s: row %d of %d executed %d times", b.Name(), y, rows, h)
				}
			}
		}
	}
}

func TestSerialBackendOrdered(t *testing.T) {
	var got []int
	NewSerialBackend().RenderRows(8, func(y int) {
		got = append(got, y)
	})
	for y, v := range got {
		if v != y {
			t.Fatalf("row order %v", got)
		}
	}
}

func TestSetBackend(t *testing.T) {
	prev := GetBackend()
	defer SetBackend(prev)

	s := NewSerialBackend()
	SetBackend(s)
	if GetBackend() != Backend(s) {
		t.Error("SetBackend did not take effect")
	}
}

func BenchmarkRenderRows(b *testing.B) {
	backend := NewCPUBackend()
	sink := make([]float64, 512)
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		backend.RenderRows(512, func(y int) {
			acc := 0.0
			for x := 0; x < 512; x++ {
				acc += float64(x ^ y)
			}
			sink[y] = acc
		})
	}
}
