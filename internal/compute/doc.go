// Package compute dispatches per-pixel render work across CPU workers.
//
// Pixels are independent by contract, so a frame splits into row chunks
// with no shared mutable state:
//
//	backend := compute.GetBackend()
//	backend.RenderRows(height, func(y int) { ... })
//
// Small frames run serially; the goroutine fan-out only pays off once a
// frame has enough rows to amortize it.
package compute
