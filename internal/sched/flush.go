// internal/sched/flush.go

package sched

import (
	"fmt"
	"time"
)

// flush runs queued tasks in deadline order until the queue drains or the
// frame budget runs out, and reports whether work remains.
//
// An overdue task always runs, whatever the budget says.
func (s *Scheduler) flush(initialTime time.Duration) bool {
	currentTime := initialTime
	task := s.queue.PeekMin()
	ran := 0

	for task != nil {
		overdue := task.Overdue(currentTime)
		if !overdue && s.ShouldYield() {
			s.emit(StatusEvent{Time: currentTime, Kind: StatusYield, TaskID: task.ID, DueTime: task.DueTime})
			break
		}

		// Clear before invoking so a re-entrant callback never sees its own
		// stale reference on the task.
		callback := task.callback
		task.callback = nil

		result := Done()
		var err error
		if callback != nil {
			s.emit(StatusEvent{Time: currentTime, Kind: StatusRun, TaskID: task.ID, DueTime: task.DueTime, Overdue: overdue})
			result, err = s.invoke(task, callback, overdue)
			ran++
		}

		switch next := result.Next(); {
		case err != nil:
			s.remove(task)
			s.emit(StatusEvent{Time: s.clock.Now(), Kind: StatusPanic, TaskID: task.ID, DueTime: task.DueTime, Overdue: overdue})
			s.onError(err)
		case next != nil:
			task.callback = next
			s.emit(StatusEvent{Time: s.clock.Now(), Kind: StatusContinue, TaskID: task.ID, DueTime: task.DueTime, Overdue: overdue})
		default:
			s.remove(task)
			s.emit(StatusEvent{Time: s.clock.Now(), Kind: StatusFinish, TaskID: task.ID, DueTime: task.DueTime, Overdue: overdue})
		}

		task = s.queue.PeekMin()
		currentTime = s.clock.Now()
	}

	s.log.Debug().
		Int("ran", ran).
		Int("pending", s.queue.Len()).
		Dur("elapsed", s.clock.Now()-initialTime).
		Msg("flush pass done")
	return task != nil
}

// remove drops t from the queue. The head is re-peeked first because the
// callback may have inserted tasks since the loop last looked.
func (s *Scheduler) remove(t *Task) {
	if s.queue.PeekMin() == t {
		s.queue.RemoveMin()
		return
	}
	s.queue.removeTask(t)
}

// invoke runs one callback, converting a panic into an error.
func (s *Scheduler) invoke(t *Task, cb Callback, overdue bool) (result Result, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("%w: task %d: %v", ErrTaskPanic, t.ID, rec)
		}
	}()
	return cb(overdue), nil
}
