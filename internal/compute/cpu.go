package compute

import (
	"runtime"
	"sync"
	"sync/atomic"
)

type CPUBackend struct {
	workers int
}

func NewCPUBackend() *CPUBackend {
	return &CPUBackend{
		workers: runtime.NumCPU(),
	}
}

func (c *CPUBackend) Name() string    { return "cpu" }
func (c *CPUBackend) Available() bool { return true }
func (c *CPUBackend) Cleanup()        {}

func (c *CPUBackend) RenderRows(rows int, job func(y int)) {
	if rows <= 0 {
		return
	}
	if rows < 16 || c.workers < 2 {
		for y := 0; y < rows; y++ {
			job(y)
		}
		return
	}

	// Work-stealing by atomic counter rather than fixed chunks: rows near
	// the image center cost far more than edge rows, and fixed chunks
	// leave workers idle at the end of the frame.
	var next int64
	var wg sync.WaitGroup
	workers := c.workers
	if workers > rows {
		workers = rows
	}
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				y := int(atomic.AddInt64(&next, 1)) - 1
				if y >= rows {
					return
				}
				job(y)
			}
		}()
	}
	wg.Wait()
}

// SerialBackend runs jobs on the calling goroutine, in row order.
type SerialBackend struct{}

func NewSerialBackend() *SerialBackend { return &SerialBackend{} }

func (s *SerialBackend) Name() string    { return "serial" }
func (s *SerialBackend) Available() bool { return true }
func (s *SerialBackend) Cleanup()        {}

func (s *SerialBackend) RenderRows(rows int, job func(y int)) {
	for y := 0; y < rows; y++ {
		job(y)
	}
}
