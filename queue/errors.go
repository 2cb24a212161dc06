package queue

import (
	"errors"
	"fmt"
)

var (
	ErrDraining        = errors.New("work queue: push while the queue is being drained")
	ErrInvalidCapacity = errors.New("work queue: capacity must be >= 0")
)

// QueueFullError is returned by Push when every slot has been claimed. Queue
// capacity is sized to the number of active paths, so a full queue indicates
// a scheduling defect.
type QueueFullError struct {
	Queue    string
	Capacity int
}

func (e *QueueFullError) Error() string {
	return fmt.Sprintf("work queue %q: queue is full (capacity %d)", e.Queue, e.Capacity)
}

// OverflowIndexError is returned when accessing a slot outside [0, size).
type OverflowIndexError struct {
	Queue    string
	Index    int
	Size     int
	Capacity int
}

func (e *OverflowIndexError) Error() string {
	return fmt.Sprintf("work queue %q: index %d out of range (size %d, capacity %d)", e.Queue, e.Index, e.Size, e.Capacity)
}
