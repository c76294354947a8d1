// internal/sched/event.go

package sched

import "time"

// StatusKind represents the type of scheduler event
type StatusKind int

const (
	StatusIdle     StatusKind = iota // queue drained, continuation cleared
	StatusEnqueue                    // task inserted
	StatusArm                        // host wake-up requested
	StatusRun                        // callback about to be invoked
	StatusContinue                   // callback returned a continuation
	StatusFinish                     // callback completed, task removed
	StatusYield                      // frame budget exhausted, pass ended early
	StatusPanic                      // callback panicked, task removed
)

// StatusEvent is emitted on every scheduler transition.
type StatusEvent struct {
	Time    time.Duration // scheduler clock reading
	Kind    StatusKind
	TaskID  TaskID
	DueTime time.Duration
	Overdue bool
	Pending int // queue length after the transition
}

// EventSink receives status events synchronously on the scheduler's goroutine.
type EventSink func(StatusEvent)

func (sk StatusKind) String() string {
	switch sk {
	case StatusIdle:
		return "Idle"
	case StatusEnqueue:
		return "Enqueued"
	case StatusArm:
		return "Armed"
	case StatusRun:
		return "Run"
	case StatusContinue:
		return "Continue"
	case StatusFinish:
		return "Finish"
	case StatusYield:
		return "Yield"
	case StatusPanic:
		return "Panic"
	default:
		return "Unknown"
	}
}
