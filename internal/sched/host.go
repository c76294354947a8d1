// internal/sched/host.go

package sched

import (
	"time"

	"github.com/rs/zerolog"
)

// Host is the minimum a host event loop must offer: run fn later, on the
// loop's goroutine, after at least delay.
type Host interface {
	SetTimeout(fn func(), delay time.Duration)
}

// MessagePoster queues fn as an end-of-turn macrotask. It runs after the
// host's other pending work for the current turn and before the next frame.
type MessagePoster interface {
	PostMessage(fn func())
}

// FrameRequester runs fn at the start of the next frame.
type FrameRequester interface {
	RequestFrame(fn func())
}

// HostMode selects which host primitives the yield adapter uses.
type HostMode int

const (
	HostModeAuto    HostMode = iota // message if the host supports it, else timeout
	HostModeMessage                 // macrotasks for resuming, frames for explicit targets
	HostModeTimeout                 // deferred execution only
)

func (m HostMode) String() string {
	switch m {
	case HostModeMessage:
		return "message"
	case HostModeTimeout:
		return "timeout"
	default:
		return "auto"
	}
}

// fallbackDelay is the delay passed to Host.SetTimeout.
const fallbackDelay = 0

// yieldAdapter schedules asynchronous invocation of a continuation without
// blocking the caller. The strategy is fixed at construction.
type yieldAdapter struct {
	mode HostMode // never HostModeAuto once built
	wake func()   // default target, the scheduler's flushWork

	host    Host
	message MessagePoster
	frame   FrameRequester
}

// newYieldAdapter picks the best strategy host supports for the requested mode.
func newYieldAdapter(host Host, mode HostMode, wake func(), log zerolog.Logger) *yieldAdapter {
	a := &yieldAdapter{mode: HostModeTimeout, wake: wake, host: host}

	mp, hasMessage := host.(MessagePoster)
	fr, hasFrame := host.(FrameRequester)
	capable := hasMessage && hasFrame

	switch mode {
	case HostModeTimeout:
	case HostModeMessage:
		if !capable {
			log.Warn().
				Bool("messages", hasMessage).
				Bool("frames", hasFrame).
				Msg("host lacks message/frame primitives, falling back to timeouts")
			break
		}
		fallthrough
	default:
		if capable {
			a.mode = HostModeMessage
			a.message = mp
			a.frame = fr
		}
	}

	log.Info().Str("requested", mode.String()).Str("selected", a.mode.String()).Msg("host yield adapter ready")
	return a
}

// planWork requests a host wake-up. With a nil cb the default target is
// resumed at the end of the current turn; an explicit cb is run at the start
// of the next frame. In timeout mode both go through SetTimeout.
func (a *yieldAdapter) planWork(cb func()) {
	if a.mode == HostModeMessage {
		if cb != nil {
			a.frame.RequestFrame(cb)
			return
		}
		a.message.PostMessage(a.wake)
		return
	}

	if cb == nil {
		cb = a.wake
	}
	a.host.SetTimeout(cb, fallbackDelay)
}
