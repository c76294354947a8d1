package sched

import "time"

// TaskID uniquely identifies a task within one scheduler. IDs grow with
// insertion order, which is also the tie-break between equal deadlines.
type TaskID uint64

// Callback is one unit of schedulable work. overdue reports whether the
// task's deadline had already passed when the callback was invoked.
type Callback func(overdue bool) Result

// Result is what a callback reports back to the flush loop: either the task
// is complete, or there is continuation work to resume in a later pass.
type Result struct {
	next Callback
}

// Done reports completion.
func Done() Result { return Result{} }

// Continue reports unfinished work. Continue(nil) is the same as Done().
func Continue(next Callback) Result { return Result{next: next} }

// Next returns the continuation, or nil when the task is complete.
func (r Result) Next() Callback { return r.next }

// IsDone reports whether the result carries no continuation.
func (r Result) IsDone() bool { return r.next == nil }

// Task represents one queued unit of work.
type Task struct {
	ID      TaskID
	DueTime time.Duration // absolute clock reading; earlier runs first

	callback Callback // nil while the callback is executing
}

// newTask creates a task due at dueTime.
// NOTE: ID is assigned by the scheduler, not the caller.
func newTask(id TaskID, dueTime time.Duration, cb Callback) *Task {
	return &Task{
		ID:       id,
		DueTime:  dueTime,
		callback: cb,
	}
}

// Overdue reports whether the task's deadline is at or before now.
func (t *Task) Overdue(now time.Duration) bool {
	return t.DueTime <= now
}
