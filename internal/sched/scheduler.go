// internal/sched/scheduler.go

package sched

import (
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// State is the scheduler's position in its wake-up cycle.
type State int

const (
	StateIdle     State = iota // nothing armed
	StateArmed                 // host wake-up requested, not yet delivered
	StateFlushing              // flush loop running
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateArmed:
		return "armed"
	case StateFlushing:
		return "flushing"
	default:
		return "unknown"
	}
}

// Scheduler interleaves queued work with a host event loop in time slices.
//
// A Scheduler holds no locks. It must only be used from the host loop's
// goroutine; every wake-up it requests is delivered there as well.
type Scheduler struct {
	id          string
	clock       Clock
	queue       *TaskQueue
	adapter     *yieldAdapter
	frameBudget time.Duration // slice granted per wake-up
	taskTimeout time.Duration // default deadline offset
	rearmFrame  bool          // resume yielded work via the frame path

	currentCallback func(now time.Duration) bool // armed continuation, nil when idle
	frameDeadline   time.Duration
	state           State
	nextID          TaskID

	log     zerolog.Logger
	onError func(error)
	sinks   []EventSink
}

// Option customizes a Scheduler.
type Option func(*Scheduler)

// WithClock replaces the monotonic clock.
func WithClock(c Clock) Option {
	return func(s *Scheduler) { s.clock = c }
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Scheduler) { s.log = l }
}

// WithErrorSink receives errors from panicking callbacks.
func WithErrorSink(fn func(error)) Option {
	return func(s *Scheduler) { s.onError = fn }
}

// WithEventSink adds a status event consumer.
func WithEventSink(sink EventSink) Option {
	return func(s *Scheduler) { s.sinks = append(s.sinks, sink) }
}

// New creates a new Scheduler driven by host.
func New(cfg Config, host Host, opts ...Option) (*Scheduler, error) {
	if host == nil {
		return nil, ErrNilHost
	}
	cfg.Normalize()

	s := &Scheduler{
		id:          uuid.NewString(),
		clock:       NewMonotonicClock(),
		queue:       NewTaskQueue(),
		frameBudget: cfg.FrameBudget(),
		taskTimeout: cfg.TaskTimeout(),
		rearmFrame:  cfg.RearmOnFrame,
		log:         zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With().Str("component", "sched").Str("scheduler", s.id).Logger()
	if s.onError == nil {
		s.onError = func(err error) {
			s.log.Error().Err(err).Msg("task failed")
		}
	}
	s.adapter = newYieldAdapter(host, ParseHostMode(cfg.HostMode), s.flushWork, s.log)
	return s, nil
}

// ID returns the scheduler's unique identifier.
func (s *Scheduler) ID() string { return s.id }

// Now returns the scheduler clock reading.
func (s *Scheduler) Now() time.Duration { return s.clock.Now() }

// State reports the current position in the wake-up cycle.
func (s *Scheduler) State() State { return s.state }

// Pending returns the number of queued tasks, including continuations.
func (s *Scheduler) Pending() int { return s.queue.Len() }

// HostMode reports the strategy the yield adapter settled on.
func (s *Scheduler) HostMode() HostMode { return s.adapter.mode }

// Schedule enqueues cb with the default deadline and arms a host wake-up.
func (s *Scheduler) Schedule(cb Callback) TaskID {
	return s.ScheduleWithTimeout(cb, s.taskTimeout)
}

// ScheduleWithTimeout enqueues cb due timeout from now. A negative timeout
// is treated as zero, making the task overdue on its first pass. Deadlines
// past the end of the clock saturate, so a huge timeout sorts last.
func (s *Scheduler) ScheduleWithTimeout(cb Callback, timeout time.Duration) TaskID {
	if timeout < 0 {
		timeout = 0
	}
	now := s.clock.Now()

	s.nextID++
	t := newTask(s.nextID, addSat(now, timeout), cb)
	s.queue.Insert(t)
	s.emit(StatusEvent{Time: now, Kind: StatusEnqueue, TaskID: t.ID, DueTime: t.DueTime})

	s.currentCallback = s.flush
	if s.state == StateIdle {
		s.state = StateArmed
	}
	s.planWork(nil)
	return t.ID
}

// ShouldYield reports whether the current frame budget is exhausted.
func (s *Scheduler) ShouldYield() bool {
	return s.clock.Now() >= s.frameDeadline
}

// PlanWork requests an asynchronous host wake-up. A nil cb resumes the
// armed continuation at the end of the current turn; a non-nil cb runs at the
// start of the next frame.
func (s *Scheduler) PlanWork(cb func()) { s.planWork(cb) }

func (s *Scheduler) planWork(cb func()) {
	s.log.Trace().Bool("frame", cb != nil).Msg("wake-up requested")
	s.emit(StatusEvent{Time: s.clock.Now(), Kind: StatusArm})
	s.adapter.planWork(cb)
}

// Stop drops every pending task and disarms the scheduler. Wake-ups already
// requested from the host become no-ops. Scheduling again re-arms as usual.
func (s *Scheduler) Stop() {
	dropped := s.queue.Len()
	s.queue.Clear()
	s.currentCallback = nil
	s.state = StateIdle
	s.log.Debug().Int("dropped", dropped).Msg("scheduler stopped")
}

// flushWork is the host wake-up handler.
func (s *Scheduler) flushWork() {
	if s.currentCallback == nil {
		return
	}

	now := s.clock.Now()
	s.frameDeadline = addSat(now, s.frameBudget)
	s.state = StateFlushing

	more := s.currentCallback(now)
	if s.currentCallback == nil {
		// Stopped from inside a callback.
		return
	}
	if !more {
		s.currentCallback = nil
		s.state = StateIdle
		s.emit(StatusEvent{Time: s.clock.Now(), Kind: StatusIdle})
		return
	}

	s.state = StateArmed
	if s.rearmFrame {
		s.planWork(s.flushWork)
		return
	}
	s.planWork(nil)
}

func (s *Scheduler) emit(ev StatusEvent) {
	if len(s.sinks) == 0 {
		return
	}
	ev.Pending = s.queue.Len()
	for _, sink := range s.sinks {
		sink(ev)
	}
}
