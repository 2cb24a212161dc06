package backend

import "fmt"

// Options for the serial context.
type SerialOptions struct {
	// If set, Order(n) returns the order in which the lanes of an n-lane
	// dispatch are executed. It must return a permutation of [0, n).
	Order func(n int) []int

	// Storage budget in bytes. A zero value disables the limit.
	MemoryBudget int
}

// A context that executes lanes one after the other on the calling goroutine.
type Serial struct {
	order func(n int) []int
	mem   memory
}

// Create a new serial context.
func NewSerial(opts SerialOptions) *Serial {
	s := &Serial{order: opts.Order}
	if opts.MemoryBudget > 0 {
		s.mem.budget = uint64(opts.MemoryBudget)
	}
	return s
}

// Lane order that executes the lanes of a dispatch back to front.
func Reversed(n int) []int {
	order := make([]int, n)
	for i := range order {
		order[i] = n - 1 - i
	}
	return order
}

func (s *Serial) Name() string {
	return "serial"
}

func (s *Serial) Workers() int {
	return 1
}

func (s *Serial) Allocate(bytes int) error {
	return s.mem.allocate(bytes)
}

func (s *Serial) Release(bytes int) {
	s.mem.release(bytes)
}

// Get the number of bytes currently reserved.
func (s *Serial) InUse() int {
	return s.mem.used()
}

func (s *Serial) NewCounter(limit int) Counter {
	c := &serialCounter{}
	c.Reset(limit)
	return c
}

func (s *Serial) Dispatch(n int, fn func(lane int) error) error {
	if n <= 0 {
		return nil
	}

	if s.order == nil {
		for lane := 0; lane < n; lane++ {
			if err := fn(lane); err != nil {
				return err
			}
		}
		return nil
	}

	order := s.order(n)
	if err := checkPermutation(order, n); err != nil {
		return err
	}
	for _, lane := range order {
		if err := fn(lane); err != nil {
			return err
		}
	}
	return nil
}

func checkPermutation(order []int, n int) error {
	if len(order) != n {
		return fmt.Errorf("%w: got %d lanes; expected %d", ErrInvalidLaneOrder, len(order), n)
	}
	seen := make([]bool, n)
	for _, lane := range order {
		if lane < 0 || lane >= n || seen[lane] {
			return fmt.Errorf("%w: lane %d is out of range or repeated", ErrInvalidLaneOrder, lane)
		}
		seen[lane] = true
	}
	return nil
}
