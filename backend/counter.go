package backend

import (
	"code.hybscloud.com/atomix"
	"code.hybscloud.com/spin"
)

// A lock-free counter for contexts that dispatch lanes concurrently. A slot is
// claimed with a CAS loop that never moves the count past the limit, so a
// failed claim leaves the counter untouched.
type atomicCounter struct {
	limit uint64
	next  atomix.Uint64
}

func newAtomicCounter(limit int) *atomicCounter {
	c := &atomicCounter{}
	c.Reset(limit)
	return c
}

func (c *atomicCounter) Next() (int, bool) {
	sw := spin.Wait{}
	for {
		cur := c.next.LoadAcquire()
		if cur >= c.limit {
			return int(cur), false
		}
		if c.next.CompareAndSwapAcqRel(cur, cur+1) {
			return int(cur), true
		}
		sw.Once()
	}
}

func (c *atomicCounter) Load() int {
	return int(c.next.LoadAcquire())
}

func (c *atomicCounter) Limit() int {
	return int(c.limit)
}

// Reset must not race with Next; callers reset between dispatches.
func (c *atomicCounter) Reset(limit int) {
	if limit < 0 {
		limit = 0
	}
	c.limit = uint64(limit)
	c.next.StoreRelease(0)
}

// A plain counter for contexts that run lanes on a single goroutine.
type serialCounter struct {
	limit int
	next  int
}

func (c *serialCounter) Next() (int, bool) {
	if c.next >= c.limit {
		return c.next, false
	}
	c.next++
	return c.next - 1, true
}

func (c *serialCounter) Load() int {
	return c.next
}

func (c *serialCounter) Limit() int {
	return c.limit
}

func (c *serialCounter) Reset(limit int) {
	if limit < 0 {
		limit = 0
	}
	c.limit, c.next = limit, 0
}
