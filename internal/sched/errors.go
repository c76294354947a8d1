package sched

import "errors"

var (
	// ErrNilHost is returned by New when no host is supplied.
	ErrNilHost = errors.New("sched: nil host")

	// ErrTaskPanic wraps the value recovered from a panicking callback.
	ErrTaskPanic = errors.New("sched: task callback panicked")
)
