package compute

// Backend runs a frame's worth of independent row jobs.
type Backend interface {
	Name() string
	Available() bool
	// RenderRows calls job(y) once for every y in [0, rows). job must not
	// share mutable state between rows.
	RenderRows(rows int, job func(y int))
	Cleanup()
}

var activeBackend Backend

func init() {
	activeBackend = AutoSelectBackend()
}

func SetBackend(b Backend) {
	if activeBackend != nil {
		activeBackend.Cleanup()
	}
	activeBackend = b
}

func GetBackend() Backend {
	return activeBackend
}

// AutoSelectBackend picks the parallel CPU backend; Serial exists for
// deterministic profiling and tests.
func AutoSelectBackend() Backend {
	return NewCPUBackend()
}
