package backend

import (
	"runtime"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/achilleasa/wavefront/log"
)

const (
	defaultTaskQueueSize = 256
	defaultIdleTimeout   = time.Second
)

// Options for the host context.
type HostOptions struct {
	// Number of pool workers. Defaults to runtime.NumCPU().
	Workers int

	// Idle workers exit after this timeout. Defaults to 1 second.
	IdleTimeout time.Duration

	// Storage budget in bytes. A zero value disables the limit.
	MemoryBudget int
}

// A context that runs lanes on a pool of reusable goroutines. Lanes are
// grouped into contiguous chunks, one pool task per chunk, and a WaitGroup
// provides the barrier at the end of each dispatch.
type Host struct {
	logger  log.Logger
	workers int
	pool    worker.DynamicWorkerPool
	mem     memory
}

// Create a new host context.
func NewHost(opts HostOptions) *Host {
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	idleTimeout := opts.IdleTimeout
	if idleTimeout <= 0 {
		idleTimeout = defaultIdleTimeout
	}

	// The task queue must be able to hold one task per worker.
	queueSize := defaultTaskQueueSize
	if workers > queueSize {
		queueSize = workers
	}

	h := &Host{
		logger:  log.New("host backend"),
		workers: workers,
		pool:    worker.NewDynamicWorkerPool(workers, queueSize, idleTimeout),
	}
	if opts.MemoryBudget > 0 {
		h.mem.budget = uint64(opts.MemoryBudget)
	}

	h.logger.Debugf("using %d workers (memory budget: %d bytes)", workers, opts.MemoryBudget)
	return h
}

func (h *Host) Name() string {
	return "host"
}

func (h *Host) Workers() int {
	return h.workers
}

func (h *Host) Allocate(bytes int) error {
	return h.mem.allocate(bytes)
}

func (h *Host) Release(bytes int) {
	h.mem.release(bytes)
}

// Get the number of bytes currently reserved.
func (h *Host) InUse() int {
	return h.mem.used()
}

func (h *Host) NewCounter(limit int) Counter {
	return newAtomicCounter(limit)
}

func (h *Host) Dispatch(n int, fn func(lane int) error) error {
	if n <= 0 {
		return nil
	}

	chunks := h.workers
	if chunks > n {
		chunks = n
	}
	chunkSize := (n + chunks - 1) / chunks

	var (
		wg       sync.WaitGroup
		errOnce  sync.Once
		firstErr error
	)
	for id, start := 0, 0; start < n; id, start = id+1, start+chunkSize {
		end := start + chunkSize
		if end > n {
			end = n
		}

		wg.Add(1)
		first, last := start, end
		h.pool.SubmitTask(worker.Task{
			ID: id,
			Do: func() (any, error) {
				defer wg.Done()

				for lane := first; lane < last; lane++ {
					if err := fn(lane); err != nil {
						errOnce.Do(func() { firstErr = err })
						return nil, err
					}
				}
				return nil, nil
			},
		})
	}
	wg.Wait()

	return firstErr
}
