package backend

import "errors"

var (
	ErrOutOfMemory      = errors.New("backend: out of memory")
	ErrInvalidAllocSize = errors.New("backend: allocation size must be >= 0")
	ErrInvalidLaneOrder = errors.New("backend: lane order is not a permutation of the dispatched lanes")
)
