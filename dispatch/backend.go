// Package dispatch fans the movement kernel out across the population.
// The population is flattened into contiguous buffers with offset tables;
// each worker owns one organism's disjoint slice, so no locking is needed
// during a run.
package dispatch

// Backend is the parallel execution substrate: something able to run an
// index function over 0..n concurrently. The dispatcher only requires
// index-partitioned, shared-nothing semantics.
type Backend interface {
	Name() string
	Available() bool
	// For invokes fn(i) for every i in [0, n). fn must not touch state
	// outside index i's slice. For returns after all invocations complete.
	For(n int, fn func(i int))
}

// AutoSelect returns the best available backend: the persistent worker
// pool, or serial execution as a last resort.
func AutoSelect() Backend {
	pool := NewPool(0)
	if pool.Available() {
		return pool
	}
	return Serial{}
}

// Serial runs every index on the calling goroutine. Always available.
type Serial struct{}

func (Serial) Name() string    { return "serial" }
func (Serial) Available() bool { return true }

func (Serial) For(n int, fn func(i int)) {
	for i := 0; i < n; i++ {
		fn(i)
	}
}
