// Package backend defines the execution capabilities that generated work item
// storage, work queues and the wavefront tracer are parametrized over.
//
// A Context bundles three capabilities: storage accounting, a parallel-for
// with a full barrier, and a bounded atomic slot counter. Generated types take
// the context as a type parameter so that adding a backend only requires a
// new Context implementation.
package backend

// A bounded counter that hands out unique slot indices.
type Counter interface {
	// Claim the next slot. Returns false without advancing the counter if
	// the limit has been reached.
	Next() (int, bool)

	// Get the number of claimed slots.
	Load() int

	// Get the counter limit.
	Limit() int

	// Reset the claimed count to zero and set a new limit.
	Reset(limit int)
}

// The execution context.
type Context interface {
	// Get the context name.
	Name() string

	// Get the number of lanes that may execute concurrently.
	Workers() int

	// Reserve storage. Returns ErrOutOfMemory if the request exceeds the
	// configured budget.
	Allocate(bytes int) error

	// Return previously reserved storage.
	Release(bytes int)

	// Invoke fn once for each lane in [0, n) and block until all lanes
	// have completed. The first error reported by a lane is returned.
	Dispatch(n int, fn func(lane int) error) error

	// Create a counter bounded by limit.
	NewCounter(limit int) Counter
}

var (
	_ Context = (*Host)(nil)
	_ Context = (*Serial)(nil)
)
