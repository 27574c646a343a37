package main

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/verte-zerg/podium/internal/model"
	"github.com/verte-zerg/podium/internal/stats"
	"github.com/verte-zerg/podium/internal/statsui"
)

var (
	statsPlain      bool
	statsWindow     string
	statsRecent     int
	statsWidth      int
	statsColor      bool
	statsMetricsOut string
)

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show stats",
		Args:  cobra.NoArgs,
		RunE:  runStatsCmd,
	}
	cmd.Flags().BoolVar(&statsPlain, "plain", false, "print a text report instead of the TUI")
	cmd.Flags().StringVar(&statsWindow, "window", defaultStatsWindow, "analytics window (7d, 30d, 90d)")
	cmd.Flags().IntVar(&statsRecent, "recent", defaultStatsRecent, "rows in the recent activity table")
	cmd.Flags().IntVar(&statsWidth, "width", 0, "chart width for --plain (default: terminal width)")
	cmd.Flags().BoolVar(&statsColor, "color", false, "force colored charts for --plain")
	cmd.Flags().StringVar(&statsMetricsOut, "metrics-out", "", "write Prometheus metrics to this file")
	return cmd
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	e, err := openEnv(cmd)
	if err != nil {
		return err
	}
	defer e.Close()

	applyStringConfig(cmd, "window", &statsWindow, e.cfg.Stats.Window)
	applyIntConfig(cmd, "recent", &statsRecent, e.cfg.Stats.Recent)

	if _, err := stats.ParseWindow(statsWindow); err != nil {
		return fmt.Errorf("invalid --window value: %w", err)
	}
	if statsRecent <= 0 {
		return fmt.Errorf("--recent must be > 0")
	}
	cfg := model.StatsConfig{
		UserID: globalUser,
		Window: statsWindow,
		Recent: statsRecent,
	}

	if statsPlain {
		ctx, cancel := withTimeout(cmd)
		defer cancel()
		report, err := stats.BuildReport(ctx, e.store, cfg, time.Now(), time.Local)
		if err != nil {
			e.logger.Error("stats report failed", zap.Error(err))
			return err
		}
		e.recorder.SetReport(len(report.Practice), len(report.Debate), report.Summary.WinRate, report.Summary.AvgPracticeScore)
		if err := stats.RenderReport(cmd.OutOrStdout(), report, statsWidth, statsColor); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	} else {
		m := statsui.NewModel(e.store, cfg, e.logger)
		program := tea.NewProgram(m, tea.WithAltScreen())
		if _, err := program.Run(); err != nil {
			return fmt.Errorf("failed to run stats TUI: %w", err)
		}
	}

	if statsMetricsOut != "" {
		if err := e.recorder.WriteTextfile(statsMetricsOut); err != nil {
			return err
		}
		logErrf("Wrote metrics to %s\n", statsMetricsOut)
	}
	return nil
}
