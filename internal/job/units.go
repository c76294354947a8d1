package job

import (
	"time"

	"framesched/internal/sched"
)

// Job is incremental work split into units, the way a reconciler walks a
// tree one node at a time. Its callback performs as many units as the
// frame budget allows and hands back a continuation for the rest.
type Job struct {
	Name  string
	Units int
	Step  func(unit int) // performs one unit

	done    int
	passes  int
	overdue int // passes that ran with the deadline already passed
}

// SleepStep returns a step that blocks for d, standing in for real work.
func SleepStep(d time.Duration) func(int) {
	return func(int) {
		time.Sleep(d)
	}
}

// Callback returns the scheduler callback for this job. shouldYield is
// normally the scheduler's ShouldYield.
func (j *Job) Callback(shouldYield func() bool) sched.Callback {
	var work sched.Callback
	work = func(overdue bool) sched.Result {
		j.passes++
		if overdue {
			j.overdue++
		}
		// An overdue job ignores the budget and runs to completion.
		for j.done < j.Units && (overdue || !shouldYield()) {
			if j.Step != nil {
				j.Step(j.done)
			}
			j.done++
		}
		if j.done < j.Units {
			return sched.Continue(work)
		}
		return sched.Done()
	}
	return work
}

// Finished reports whether every unit has run.
func (j *Job) Finished() bool { return j.done >= j.Units }

// Progress returns the number of units performed.
func (j *Job) Progress() int { return j.done }

// Passes returns how many times the callback was invoked.
func (j *Job) Passes() int { return j.passes }

// OverduePasses returns how many invocations happened past the deadline.
func (j *Job) OverduePasses() int { return j.overdue }
