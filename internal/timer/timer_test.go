package timer

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var t0 = time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)

func TestTransitions(t *testing.T) {
	tm := NewStopwatch(0)
	assert.Equal(t, Idle, tm.State())
	assert.ErrorIs(t, tm.Stop(t0), ErrNotActive)
	assert.Equal(t, EventNone, tm.Tick(t0))

	require.NoError(t, tm.Start(t0))
	assert.Equal(t, Active, tm.State())
	assert.ErrorIs(t, tm.Start(t0), ErrInvalidTransition)

	require.NoError(t, tm.Stop(t0.Add(42*time.Second)))
	assert.Equal(t, Ended, tm.State())
	assert.Equal(t, 42*time.Second, tm.Elapsed(t0.Add(time.Hour)))
	assert.ErrorIs(t, tm.Start(t0), ErrNotIdle)
	assert.Equal(t, EventNone, tm.Tick(t0.Add(time.Hour)))
}

func TestElapsedIgnoresMissedTicks(t *testing.T) {
	tm := NewStopwatch(0)
	require.NoError(t, tm.Start(t0))
	tm.Tick(t0.Add(time.Second))
	// Nothing ticked for a while.
	assert.Equal(t, 90*time.Second, tm.Elapsed(t0.Add(90*time.Second)))
	assert.Equal(t, time.Duration(0), tm.Remaining(t0.Add(90*time.Second)))
}

func TestStopwatchLimitEndsAutomatically(t *testing.T) {
	tm := NewStopwatch(time.Minute)
	require.NoError(t, tm.Start(t0))
	assert.Equal(t, EventNone, tm.Tick(t0.Add(59*time.Second)))
	assert.Equal(t, EventEnded, tm.Tick(t0.Add(75*time.Second)))
	assert.Equal(t, Ended, tm.State())
	assert.Equal(t, time.Minute, tm.Elapsed(t0.Add(2*time.Hour)))
}

func TestCountdownPhases(t *testing.T) {
	tm := NewCountdown(3*time.Minute, DebatePhases...)
	assert.Equal(t, CountDown, tm.Mode())
	require.NoError(t, tm.Start(t0))
	assert.Equal(t, "opening", tm.Phase())
	assert.Equal(t, 3*time.Minute, tm.Display(t0))

	assert.Equal(t, EventNone, tm.Tick(t0.Add(30*time.Second)))
	assert.Equal(t, EventPhase, tm.Tick(t0.Add(61*time.Second)))
	assert.Equal(t, "rebuttals", tm.Phase())
	assert.Equal(t, EventNone, tm.Tick(t0.Add(62*time.Second)))
	assert.Equal(t, EventPhase, tm.Tick(t0.Add(150*time.Second)))
	assert.Equal(t, "closing", tm.Phase())
	assert.Equal(t, 30*time.Second, tm.Display(t0.Add(150*time.Second)))
	assert.Equal(t, EventEnded, tm.Tick(t0.Add(3*time.Minute)))
	assert.Equal(t, time.Duration(0), tm.Display(t0.Add(4*time.Minute)))
}

func TestCountdownShorterThanPhaseCount(t *testing.T) {
	tm := NewCountdown(2*time.Nanosecond, DebatePhases...)
	require.NoError(t, tm.Start(t0))
	assert.Equal(t, EventNone, tm.Tick(t0.Add(time.Nanosecond)))
	assert.Equal(t, "opening", tm.Phase())
	assert.Equal(t, EventEnded, tm.Tick(t0.Add(2*time.Nanosecond)))
}

func TestCountdownDefaultLimit(t *testing.T) {
	assert.Equal(t, DefaultDebateLimit, NewCountdown(0).Limit())
	assert.Equal(t, "", NewCountdown(0).Phase())
}

func TestRunStopsAtLimit(t *testing.T) {
	tm := NewStopwatch(30 * time.Millisecond)
	var events []Event
	err := Run(context.Background(), tm, 5*time.Millisecond, func(ev Event, _ time.Time) {
		events = append(events, ev)
	})
	require.NoError(t, err)
	assert.Equal(t, Ended, tm.State())
	require.NotEmpty(t, events)
	assert.Equal(t, EventEnded, events[len(events)-1])
}

func TestRunHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	tm := NewStopwatch(0)
	err := Run(ctx, tm, 5*time.Millisecond, nil)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, Active, tm.State())
}

func TestFormatClock(t *testing.T) {
	assert.Equal(t, "0:00", FormatClock(0))
	assert.Equal(t, "0:00", FormatClock(-time.Second))
	assert.Equal(t, "1:05", FormatClock(65*time.Second+400*time.Millisecond))
	assert.Equal(t, "12:00", FormatClock(12*time.Minute))
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "idle", Idle.String())
	assert.Equal(t, "ended", Ended.String())
}
