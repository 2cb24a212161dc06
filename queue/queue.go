// Package queue implements the bounded work queue that pairs a slot counter
// with generated structure-of-arrays storage.
//
// A queue is either being filled or being drained, never both. Lanes call
// Push concurrently and each receives a distinct slot; after the dispatch
// barrier the owner drains the claimed slots [0, Size()).
package queue

import (
	"fmt"
	"iter"

	"code.hybscloud.com/atomix"
	"github.com/achilleasa/wavefront/backend"
	"github.com/achilleasa/wavefront/log"
)

// Storage is implemented by generated SOA types. R is the record type and V
// the per-slot view.
type Storage[R, V any] interface {
	// Get the number of slots.
	Len() int

	// Write all record fields at slot.
	Set(slot int, rec R)

	// Get a view of the record at slot.
	View(slot int) V

	// Release the storage back to its context.
	Free()
}

// A fixed capacity work queue backed by S.
type WorkQueue[S Storage[R, V], R, V any] struct {
	logger log.Logger

	name  string
	ctx   backend.Context
	alloc func(capacity int) (S, error)

	storage    S
	hasStorage bool
	capacity   int
	counter    backend.Counter
	draining   atomix.Uint64
}

// Create a new empty queue. Storage is allocated by the first call to Reset.
func New[S Storage[R, V], R, V any](name string, ctx backend.Context, alloc func(capacity int) (S, error)) *WorkQueue[S, R, V] {
	return &WorkQueue[S, R, V]{
		logger:  log.New("work queue"),
		name:    name,
		ctx:     ctx,
		alloc:   alloc,
		counter: ctx.NewCounter(0),
	}
}

// Get the queue name.
func (q *WorkQueue[S, R, V]) Name() string {
	return q.name
}

// Empty the queue and make room for capacity slots. Existing storage is
// reused if the capacity is unchanged.
func (q *WorkQueue[S, R, V]) Reset(capacity int) error {
	if capacity < 0 {
		return fmt.Errorf("%w (queue %q, capacity %d)", ErrInvalidCapacity, q.name, capacity)
	}

	if q.hasStorage && capacity == q.capacity {
		q.counter.Reset(capacity)
		return nil
	}

	q.Free()

	storage, err := q.alloc(capacity)
	if err != nil {
		return fmt.Errorf("work queue %q: could not allocate storage for %d slots: %w", q.name, capacity, err)
	}
	if storage.Len() != capacity {
		storage.Free()
		return fmt.Errorf("work queue %q: allocator returned %d slots; expected %d", q.name, storage.Len(), capacity)
	}

	q.logger.Debugf("%s: allocated storage for %d slots", q.name, capacity)
	q.storage, q.hasStorage, q.capacity = storage, true, capacity
	q.counter.Reset(capacity)
	return nil
}

// Claim the next free slot and write rec into it. Returns the claimed slot.
func (q *WorkQueue[S, R, V]) Push(rec R) (int, error) {
	if q.draining.LoadAcquire() != 0 {
		return -1, ErrDraining
	}

	slot, ok := q.counter.Next()
	if !ok {
		return -1, &QueueFullError{Queue: q.name, Capacity: q.capacity}
	}

	q.storage.Set(slot, rec)
	return slot, nil
}

// Get the number of claimed slots.
func (q *WorkQueue[S, R, V]) Size() int {
	return q.counter.Load()
}

// Get the queue capacity.
func (q *WorkQueue[S, R, V]) Capacity() int {
	return q.capacity
}

// Get a view of a claimed slot.
func (q *WorkQueue[S, R, V]) At(slot int) (V, error) {
	if size := q.Size(); slot < 0 || slot >= size {
		var zero V
		return zero, &OverflowIndexError{Queue: q.name, Index: slot, Size: size, Capacity: q.capacity}
	}
	return q.storage.View(slot), nil
}

// Iterate the claimed slots in slot order. Each call starts from slot 0.
func (q *WorkQueue[S, R, V]) All() iter.Seq2[int, V] {
	return func(yield func(int, V) bool) {
		size := q.Size()
		for slot := 0; slot < size; slot++ {
			if !yield(slot, q.storage.View(slot)) {
				return
			}
		}
	}
}

// Invoke fn for every claimed slot, one lane per slot, and block until all
// lanes complete. Pushing to the queue while it drains fails with ErrDraining.
func (q *WorkQueue[S, R, V]) Drain(fn func(slot int, v V) error) error {
	q.draining.StoreRelease(1)
	defer q.draining.StoreRelease(0)

	return q.ctx.Dispatch(q.Size(), func(slot int) error {
		return fn(slot, q.storage.View(slot))
	})
}

// Get the underlying storage.
func (q *WorkQueue[S, R, V]) Storage() S {
	return q.storage
}

// Release the queue storage. The queue can be reused after a call to Reset.
func (q *WorkQueue[S, R, V]) Free() {
	if !q.hasStorage {
		return
	}

	q.storage.Free()
	var zero S
	q.storage, q.hasStorage, q.capacity = zero, false, 0
	q.counter.Reset(0)
}
