package backend

import (
	"fmt"

	"code.hybscloud.com/atomix"
	"code.hybscloud.com/spin"
)

// Tracks reserved storage against an optional budget.
type memory struct {
	// Budget in bytes; 0 disables the limit.
	budget uint64
	inUse  atomix.Uint64
}

func (m *memory) allocate(bytes int) error {
	if bytes < 0 {
		return ErrInvalidAllocSize
	}

	sw := spin.Wait{}
	for {
		cur := m.inUse.LoadAcquire()
		next := cur + uint64(bytes)
		if m.budget != 0 && next > m.budget {
			return fmt.Errorf("%w: requested %d bytes with %d of %d bytes in use", ErrOutOfMemory, bytes, cur, m.budget)
		}
		if m.inUse.CompareAndSwapAcqRel(cur, next) {
			return nil
		}
		sw.Once()
	}
}

func (m *memory) release(bytes int) {
	if bytes <= 0 {
		return
	}

	sw := spin.Wait{}
	for {
		cur := m.inUse.LoadAcquire()
		next := uint64(0)
		if uint64(bytes) < cur {
			next = cur - uint64(bytes)
		}
		if m.inUse.CompareAndSwapAcqRel(cur, next) {
			return
		}
		sw.Once()
	}
}

func (m *memory) used() int {
	return int(m.inUse.LoadAcquire())
}
