package backend

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"testing"
)

func TestDispatchVisitsEveryLaneOnce(t *testing.T) {
	type spec struct {
		ctx   Context
		lanes int
	}

	specs := []spec{
		{NewSerial(SerialOptions{}), 0},
		{NewSerial(SerialOptions{}), 17},
		{NewSerial(SerialOptions{Order: Reversed}), 17},
		{NewHost(HostOptions{Workers: 1}), 5},
		{NewHost(HostOptions{Workers: 4}), 3},
		{NewHost(HostOptions{Workers: 4}), 1001},
	}

	for index, s := range specs {
		visits := make([]int32, s.lanes)
		err := s.ctx.Dispatch(s.lanes, func(lane int) error {
			atomic.AddInt32(&visits[lane], 1)
			return nil
		})
		if err != nil {
			t.Fatalf("[spec %d] unexpected error: %v", index, err)
		}

		for lane, count := range visits {
			if count != 1 {
				t.Fatalf("[spec %d] expected lane %d to be visited once; got %d", index, lane, count)
			}
		}
	}
}

func TestDispatchBarrier(t *testing.T) {
	ctx := NewHost(HostOptions{Workers: 8})

	var done int64
	for pass := 0; pass < 10; pass++ {
		err := ctx.Dispatch(100, func(lane int) error {
			atomic.AddInt64(&done, 1)
			return nil
		})
		if err != nil {
			t.Fatal(err)
		}

		if got := atomic.LoadInt64(&done); got != int64((pass+1)*100) {
			t.Fatalf("[pass %d] expected all lanes to complete before Dispatch returns; got %d", pass, got)
		}
	}
}

func TestDispatchError(t *testing.T) {
	expErr := errors.New("lane failed")

	for _, ctx := range []Context{NewSerial(SerialOptions{}), NewHost(HostOptions{Workers: 3})} {
		err := ctx.Dispatch(64, func(lane int) error {
			if lane == 42 {
				return expErr
			}
			return nil
		})
		if !errors.Is(err, expErr) {
			t.Fatalf("[%s] expected to get %v; got %v", ctx.Name(), expErr, err)
		}
	}
}

func TestSerialOrder(t *testing.T) {
	var visited []int
	ctx := NewSerial(SerialOptions{Order: Reversed})
	_ = ctx.Dispatch(4, func(lane int) error {
		visited = append(visited, lane)
		return nil
	})

	if fmt.Sprint(visited) != "[3 2 1 0]" {
		t.Fatalf("expected lanes to run in reverse; got %v", visited)
	}

	bad := NewSerial(SerialOptions{Order: func(n int) []int { return make([]int, n) }})
	err := bad.Dispatch(3, func(int) error { return nil })
	if !errors.Is(err, ErrInvalidLaneOrder) {
		t.Fatalf("expected to get ErrInvalidLaneOrder; got %v", err)
	}
}

func TestCounterBounded(t *testing.T) {
	for _, ctx := range []Context{NewSerial(SerialOptions{}), NewHost(HostOptions{Workers: 8})} {
		const limit = 500
		c := ctx.NewCounter(limit)

		var (
			mu      sync.Mutex
			claimed []int
			refused int32
		)
		err := ctx.Dispatch(2*limit, func(lane int) error {
			slot, ok := c.Next()
			if !ok {
				atomic.AddInt32(&refused, 1)
				return nil
			}
			mu.Lock()
			claimed = append(claimed, slot)
			mu.Unlock()
			return nil
		})
		if err != nil {
			t.Fatal(err)
		}

		if c.Load() != limit {
			t.Fatalf("[%s] expected counter to stop at %d; got %d", ctx.Name(), limit, c.Load())
		}
		if refused != limit {
			t.Fatalf("[%s] expected %d refused claims; got %d", ctx.Name(), limit, refused)
		}

		sort.Ints(claimed)
		for index, slot := range claimed {
			if slot != index {
				t.Fatalf("[%s] expected claimed slots to be a permutation of [0, %d); got slot %d at %d", ctx.Name(), limit, slot, index)
			}
		}

		c.Reset(2)
		if c.Load() != 0 || c.Limit() != 2 {
			t.Fatalf("[%s] expected reset counter with limit 2; got %d/%d", ctx.Name(), c.Load(), c.Limit())
		}
	}
}

func TestMemoryBudget(t *testing.T) {
	ctx := NewHost(HostOptions{Workers: 1, MemoryBudget: 1024})

	if err := ctx.Allocate(1000); err != nil {
		t.Fatal(err)
	}
	err := ctx.Allocate(100)
	if !errors.Is(err, ErrOutOfMemory) {
		t.Fatalf("expected to get ErrOutOfMemory; got %v", err)
	}
	if ctx.InUse() != 1000 {
		t.Fatalf("expected failed allocation to leave usage at 1000; got %d", ctx.InUse())
	}

	ctx.Release(1000)
	if err = ctx.Allocate(1024); err != nil {
		t.Fatalf("expected allocation to succeed after release; got %v", err)
	}

	if err = ctx.Allocate(-1); !errors.Is(err, ErrInvalidAllocSize) {
		t.Fatalf("expected to get ErrInvalidAllocSize; got %v", err)
	}

	unlimited := NewSerial(SerialOptions{})
	if err = unlimited.Allocate(1 << 40); err != nil {
		t.Fatalf("expected unlimited context to accept any allocation; got %v", err)
	}
}
