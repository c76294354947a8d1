// internal/hostloop/loop.go

package hostloop

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"framesched/internal/sched"
)

// ErrRunning is returned when Run is called on a loop that already ran.
var ErrRunning = errors.New("hostloop: loop already started")

// Config mirrors the host section of config.yml.
type Config struct {
	FrameIntervalMS int  `yaml:"frame_interval_ms"` // 16 (by default)
	Messages        bool `yaml:"messages"`          // expose the macrotask primitive
	Frames          bool `yaml:"frames"`            // expose the frame primitive
}

// DefaultConfig returns a host with every primitive and a ~60Hz frame rate.
func DefaultConfig() Config {
	return Config{
		FrameIntervalMS: 16,
		Messages:        true,
		Frames:          true,
	}
}

// FrameInterval is the time between frame boundaries.
func (c Config) FrameInterval() time.Duration {
	if c.FrameIntervalMS <= 0 {
		return 16 * time.Millisecond
	}
	return time.Duration(c.FrameIntervalMS) * time.Millisecond
}

// Loop is a single-goroutine host event loop. Every macrotask, frame
// callback and timer callback runs on the goroutine that called Run, so
// the code it drives needs no locking of its own.
//
// Use cases:
// 1. Hosting a sched.Scheduler outside a UI toolkit
// 2. Simulating a render loop in tests and demos
type Loop struct {
	cfg   Config
	clock *FrameClock

	mu         sync.Mutex
	macrotasks []func()
	frames     []func()
	wake       chan struct{}

	stop     chan struct{}
	stopOnce sync.Once
	started  atomic.Bool

	turns      atomic.Int64
	frameCount atomic.Int64

	log zerolog.Logger
}

// New creates a loop. It does nothing until Run is called.
func New(cfg Config, log zerolog.Logger) *Loop {
	return &Loop{
		cfg:   cfg,
		clock: NewFrameClock(),
		wake:  make(chan struct{}, 1),
		stop:  make(chan struct{}),
		log:   log.With().Str("component", "hostloop").Logger(),
	}
}

// Host returns the view of this loop a scheduler should be built on. Only
// the primitives enabled in the config are visible through it.
func (l *Loop) Host() sched.Host {
	if l.cfg.Messages && l.cfg.Frames {
		return l
	}
	return timerHost{l}
}

// PostMessage queues fn to run at the end of the current turn.
// Safe to call from any goroutine.
func (l *Loop) PostMessage(fn func()) {
	l.mu.Lock()
	l.macrotasks = append(l.macrotasks, fn)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// RequestFrame queues fn to run at the start of the next frame.
// Safe to call from any goroutine.
func (l *Loop) RequestFrame(fn func()) {
	l.mu.Lock()
	l.frames = append(l.frames, fn)
	l.mu.Unlock()
}

// SetTimeout runs fn on the loop after delay.
// Safe to call from any goroutine.
func (l *Loop) SetTimeout(fn func(), delay time.Duration) {
	time.AfterFunc(delay, func() {
		select {
		case <-l.stop:
			// Loop stopped, drop callback
			return
		default:
			l.PostMessage(fn)
		}
	})
}

// Run runs the loop on the calling goroutine until Stop is called or ctx is
// done. A loop can only run once.
func (l *Loop) Run(ctx context.Context) error {
	if !l.started.CompareAndSwap(false, true) {
		return ErrRunning
	}

	var frameCh <-chan struct{}
	if l.cfg.Frames {
		l.clock.Start(l.cfg.FrameInterval())
		defer l.clock.Stop()
		frameCh = l.clock.Ch
	}
	l.log.Debug().
		Bool("messages", l.cfg.Messages).
		Bool("frames", l.cfg.Frames).
		Dur("frame_interval", l.cfg.FrameInterval()).
		Msg("loop running")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.stop:
			l.log.Debug().
				Int64("turns", l.turns.Load()).
				Int64("frames", l.frameCount.Load()).
				Int64("dropped_frames", l.clock.Dropped()).
				Msg("loop stopped")
			return nil
		case <-l.wake:
			l.runMacrotasks()
		case <-frameCh:
			l.onFrame()
		}
	}
}

// Stop makes Run return. Queued callbacks that have not run are discarded.
func (l *Loop) Stop() {
	l.stopOnce.Do(func() { close(l.stop) })
}

// Turns returns how many macrotask batches have run.
func (l *Loop) Turns() int64 { return l.turns.Load() }

// Frames returns how many frames have run.
func (l *Loop) Frames() int64 { return l.frameCount.Load() }

// runMacrotasks runs the macrotasks queued before this turn started. Work
// posted while they run waits for the next turn so frames can interleave.
func (l *Loop) runMacrotasks() {
	l.mu.Lock()
	batch := l.macrotasks
	l.macrotasks = nil
	l.mu.Unlock()

	if len(batch) == 0 {
		return
	}
	l.turns.Add(1)
	for _, fn := range batch {
		l.call("macrotask", fn)
	}
}

// onFrame handles a frame boundary. Macrotasks posted before the boundary
// finish their turn first, so a frame never overtakes them.
func (l *Loop) onFrame() {
	select {
	case <-l.wake:
		l.runMacrotasks()
	default:
	}
	l.runFrame()
}

// runFrame runs the frame callbacks requested before this frame began.
func (l *Loop) runFrame() {
	l.mu.Lock()
	batch := l.frames
	l.frames = nil
	l.mu.Unlock()

	l.frameCount.Add(1)
	for _, fn := range batch {
		l.call("frame", fn)
	}
}

func (l *Loop) call(kind string, fn func()) {
	defer func() {
		if rec := recover(); rec != nil {
			l.log.Error().Str("kind", kind).Interface("panic", rec).Msg("host callback panicked")
		}
	}()
	fn()
}

// timerHost hides every primitive except SetTimeout.
type timerHost struct {
	l *Loop
}

func (h timerHost) SetTimeout(fn func(), delay time.Duration) {
	h.l.SetTimeout(fn, delay)
}
