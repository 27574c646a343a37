// Package timer implements the session clock used by practice and debate.
package timer

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// State is the lifecycle state of a Timer.
type State int

const (
	Idle State = iota
	Active
	Ended
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Active:
		return "active"
	case Ended:
		return "ended"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Mode selects whether the clock counts up or down.
type Mode int

const (
	CountUp Mode = iota
	CountDown
)

// Event is what a Tick observed.
type Event int

const (
	EventNone Event = iota
	EventPhase
	EventEnded
)

// DefaultDebateLimit is the debate length when none is configured.
const DefaultDebateLimit = 5 * time.Minute

// DebatePhases are the rounds of a debate, in order.
var DebatePhases = []string{"opening", "rebuttals", "closing"}

// ErrInvalidTransition is wrapped by every rejected state change.
var ErrInvalidTransition = errors.New("timer: invalid transition")

var (
	ErrNotIdle   = fmt.Errorf("%w: already started", ErrInvalidTransition)
	ErrNotActive = fmt.Errorf("%w: not running", ErrInvalidTransition)
)

// Timer is a single-use Idle -> Active -> Ended state machine. Elapsed time
// is measured from the start instant, so missed ticks never skew it.
type Timer struct {
	mode      Mode
	limit     time.Duration
	phases    []string
	state     State
	startedAt time.Time
	endedAt   time.Time
	phase     int
}

// NewStopwatch returns a count-up timer. A positive limit stops it
// automatically once reached.
func NewStopwatch(limit time.Duration) *Timer {
	return &Timer{mode: CountUp, limit: max(limit, 0)}
}

// NewCountdown returns a count-down timer over limit, split evenly across
// the given phases.
func NewCountdown(limit time.Duration, phases ...string) *Timer {
	if limit <= 0 {
		limit = DefaultDebateLimit
	}
	return &Timer{mode: CountDown, limit: limit, phases: append([]string(nil), phases...)}
}

func (t *Timer) Mode() Mode           { return t.mode }
func (t *Timer) State() State         { return t.state }
func (t *Timer) Limit() time.Duration { return t.limit }

// Start moves an idle timer to Active.
func (t *Timer) Start(now time.Time) error {
	if t.state != Idle {
		return ErrNotIdle
	}
	t.state = Active
	t.startedAt = now
	t.phase = 0
	return nil
}

// Stop ends an active timer early.
func (t *Timer) Stop(now time.Time) error {
	if t.state != Active {
		return ErrNotActive
	}
	t.end(now)
	return nil
}

func (t *Timer) end(now time.Time) {
	if t.limit > 0 && now.Sub(t.startedAt) > t.limit {
		now = t.startedAt.Add(t.limit)
	}
	if now.Before(t.startedAt) {
		now = t.startedAt
	}
	t.endedAt = now
	t.state = Ended
}

// Tick advances the machine to now and reports what changed.
func (t *Timer) Tick(now time.Time) Event {
	if t.state != Active {
		return EventNone
	}
	if t.limit > 0 && now.Sub(t.startedAt) >= t.limit {
		t.end(now)
		return EventEnded
	}
	if next := t.phaseAt(now); next != t.phase {
		t.phase = next
		return EventPhase
	}
	return EventNone
}

func (t *Timer) phaseAt(now time.Time) int {
	if len(t.phases) <= 1 || t.limit <= 0 {
		return 0
	}
	span := t.limit / time.Duration(len(t.phases))
	if span <= 0 {
		return 0
	}
	idx := int(now.Sub(t.startedAt) / span)
	return max(0, min(len(t.phases)-1, idx))
}

// Elapsed is the time spent Active, frozen once Ended.
func (t *Timer) Elapsed(now time.Time) time.Duration {
	switch t.state {
	case Idle:
		return 0
	case Ended:
		return t.endedAt.Sub(t.startedAt)
	}
	d := now.Sub(t.startedAt)
	if d < 0 {
		return 0
	}
	if t.limit > 0 && d > t.limit {
		return t.limit
	}
	return d
}

// Remaining is the time left before the limit, 0 without one.
func (t *Timer) Remaining(now time.Time) time.Duration {
	if t.limit <= 0 {
		return 0
	}
	return t.limit - t.Elapsed(now)
}

// Display is the value shown on the clock: remaining time when counting
// down, elapsed time otherwise.
func (t *Timer) Display(now time.Time) time.Duration {
	if t.mode == CountDown {
		return t.Remaining(now)
	}
	return t.Elapsed(now)
}

// Phase returns the current phase name, or "" when the timer has none.
func (t *Timer) Phase() string {
	if len(t.phases) == 0 {
		return ""
	}
	return t.phases[t.phase]
}

// Run starts t if needed and drives it from a single ticker until it ends or
// ctx is cancelled. onEvent receives every non-empty event.
func Run(ctx context.Context, t *Timer, interval time.Duration, onEvent func(Event, time.Time)) error {
	if interval <= 0 {
		interval = time.Second
	}
	if t.State() == Idle {
		if err := t.Start(time.Now()); err != nil {
			return err
		}
	}
	if t.State() == Ended {
		return nil
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			ev := t.Tick(now)
			if ev != EventNone && onEvent != nil {
				onEvent(ev, now)
			}
			if ev == EventEnded {
				return nil
			}
		}
	}
}

// FormatClock renders d as m:ss.
func FormatClock(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int64(d / time.Second)
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}
