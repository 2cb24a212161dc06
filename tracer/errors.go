package tracer

import (
	"errors"
	"fmt"
)

var (
	ErrNoScene      = errors.New("tracer: no scene defined")
	ErrNoFilm       = errors.New("tracer: no film defined")
	ErrInvalidBatch = errors.New("tracer: invalid batch")
	ErrClosed       = errors.New("tracer: tracer is closed")
)

// A StageError is returned when a pipeline stage aborts a pass.
type StageError struct {
	Stage  Stage
	Bounce int
	Err    error
}

// Implements error.
func (e *StageError) Error() string {
	return fmt.Sprintf("tracer: stage %s failed at bounce %d: %s", e.Stage, e.Bounce, e.Err.Error())
}

func (e *StageError) Unwrap() error {
	return e.Err
}
