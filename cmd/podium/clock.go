package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/podium/internal/timer"
)

var (
	timerDebate bool
	timerLimit  time.Duration
	timerTick   time.Duration
)

func newTimerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "timer",
		Short: "Run a plain session clock without the TUI",
		Args:  cobra.NoArgs,
		RunE:  runTimerCmd,
	}
	cmd.Flags().BoolVar(&timerDebate, "debate", false, "count down through the debate phases")
	cmd.Flags().DurationVar(&timerLimit, "limit", 0, "session length (default: practice limit or debate length)")
	cmd.Flags().DurationVar(&timerTick, "tick", time.Second, "tick interval")
	_ = cmd.Flags().MarkHidden("tick")
	return cmd
}

func runTimerCmd(cmd *cobra.Command, _ []string) error {
	if timerLimit < 0 {
		return errors.New("--limit must be >= 0")
	}
	var clock *timer.Timer
	if timerDebate {
		clock = timer.NewCountdown(timerLimit, timer.DebatePhases...)
	} else {
		limit := timerLimit
		if !cmd.Flags().Changed("limit") {
			limit = defaultLimitSeconds * time.Second
		}
		clock = timer.NewStopwatch(limit)
	}

	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt)
	defer stop()

	out := cmd.OutOrStdout()
	started := time.Now()
	if err := clock.Start(started); err != nil {
		return err
	}
	if phase := clock.Phase(); phase != "" {
		fmt.Fprintf(out, "Phase: %s (%s)\n", phase, timer.FormatClock(clock.Display(started)))
	} else {
		fmt.Fprintln(out, "Timer started.")
	}

	err := timer.Run(ctx, clock, timerTick, func(ev timer.Event, now time.Time) {
		switch ev {
		case timer.EventPhase:
			fmt.Fprintf(out, "Phase: %s (%s)\n", clock.Phase(), timer.FormatClock(clock.Display(now)))
		case timer.EventEnded:
			fmt.Fprintf(out, "Time is up after %s.\n", timer.FormatClock(clock.Elapsed(now)))
		}
	})
	if errors.Is(err, context.Canceled) {
		now := time.Now()
		if serr := clock.Stop(now); serr != nil {
			return serr
		}
		_, werr := fmt.Fprintf(out, "Stopped after %s.\n", timer.FormatClock(clock.Elapsed(now)))
		return werr
	}
	return err
}
