// Package main provides the CLI entrypoint for podium.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/verte-zerg/podium/internal/config"
	"github.com/verte-zerg/podium/internal/debateui"
	"github.com/verte-zerg/podium/internal/logging"
	"github.com/verte-zerg/podium/internal/metrics"
	"github.com/verte-zerg/podium/internal/model"
	"github.com/verte-zerg/podium/internal/store"
	"github.com/verte-zerg/podium/internal/timer"
	"github.com/verte-zerg/podium/internal/topics"
	"github.com/verte-zerg/podium/internal/tui"
)

const (
	defaultUser          = "local"
	defaultLimitSeconds  = 120
	defaultMaxDifficulty = topics.MaxDifficulty
	defaultDebateMinutes = int(timer.DefaultDebateLimit / time.Minute)
	defaultStatsWindow   = "7d"
	defaultStatsRecent   = 5
)

var (
	globalUser   string
	globalDB     string
	globalConfig string

	practiceLimit         int
	practiceTopicFile     string
	practiceMaxDifficulty int

	debateMinutes  int
	debatePosition string
	debateTopic    string
	debateTopics   string
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "podium",
		Short:         "TUI public speaking and debate trainer",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runPracticeCmd,
	}

	rootCmd.PersistentFlags().StringVar(&globalUser, "user", defaultUser, "user identity")
	rootCmd.PersistentFlags().StringVar(&globalDB, "db", "", "database path (default: XDG data dir)")
	rootCmd.PersistentFlags().StringVar(&globalConfig, "config", "", "config file path (default: XDG config dir)")

	rootCmd.Flags().IntVar(&practiceLimit, "limit", defaultLimitSeconds, "recording limit in seconds (0 for none)")
	rootCmd.Flags().StringVar(&practiceTopicFile, "topics", "", "extra topic file")
	rootCmd.Flags().IntVar(&practiceMaxDifficulty, "max-difficulty", defaultMaxDifficulty, "hardest topic level to draw (1-3)")

	rootCmd.AddCommand(newDebateCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newLogCmd())
	rootCmd.AddCommand(newTeamCmd())
	rootCmd.AddCommand(newProfileCmd())
	rootCmd.AddCommand(newTopicsCmd())
	rootCmd.AddCommand(newTimerCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

// env is what every command needs once config is resolved.
type env struct {
	cfg      config.FileConfig
	logger   *zap.Logger
	recorder *metrics.Recorder
	store    *store.Store
}

func configPath() string {
	if globalConfig != "" {
		return globalConfig
	}
	return config.DefaultConfigPath()
}

func openEnv(cmd *cobra.Command) (*env, error) {
	fileCfg, err := config.Load(configPath())
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "user", &globalUser, fileCfg.Profile.User)
	if strings.TrimSpace(globalUser) == "" {
		return nil, fmt.Errorf("--user must not be empty")
	}

	logPath := config.DefaultLogPath()
	if fileCfg.Log.File != nil && *fileCfg.Log.File != "" {
		logPath = *fileCfg.Log.File
	}
	level := ""
	if fileCfg.Log.Level != nil {
		level = *fileCfg.Log.Level
	}
	logger, err := logging.New(logPath, level)
	if err != nil {
		return nil, err
	}

	dbPath := globalDB
	if dbPath == "" {
		dbPath = config.DefaultDBPath()
	}
	recorder := metrics.New()
	st, err := store.Open(dbPath, store.WithRecorder(recorder))
	if err != nil {
		_ = logger.Sync()
		return nil, fmt.Errorf("failed to open db: %w", err)
	}
	logger.Debug("environment ready", zap.String("db", dbPath), zap.String("user", globalUser))
	return &env{cfg: fileCfg, logger: logger, recorder: recorder, store: st}, nil
}

func (e *env) Close() {
	if err := e.store.Close(); err != nil {
		logErrf("failed to close db: %v\n", err)
	}
	// Sync on a plain file can report EINVAL on some platforms.
	_ = e.logger.Sync()
}

func runPracticeCmd(cmd *cobra.Command, _ []string) error {
	e, err := openEnv(cmd)
	if err != nil {
		return err
	}
	defer e.Close()

	applyIntConfig(cmd, "limit", &practiceLimit, e.cfg.Practice.LimitSeconds)
	applyStringConfig(cmd, "topics", &practiceTopicFile, e.cfg.Practice.TopicFile)
	applyIntConfig(cmd, "max-difficulty", &practiceMaxDifficulty, e.cfg.Practice.MaxDifficulty)

	cfg := model.PracticeConfig{
		UserID:        globalUser,
		LimitSeconds:  practiceLimit,
		TopicFile:     resolveTopicFile(practiceTopicFile),
		MaxDifficulty: practiceMaxDifficulty,
	}
	if err := validatePracticeConfig(cfg); err != nil {
		return err
	}
	catalog, err := topics.Catalog(cfg.TopicFile)
	if err != nil {
		return fmt.Errorf("failed to load topics: %w", err)
	}
	if len(topics.Filter(catalog, topics.AtMost(cfg.MaxDifficulty))) == 0 {
		return fmt.Errorf("no topics at difficulty %d or below", cfg.MaxDifficulty)
	}

	e.logger.Info("practice started", zap.String("user", cfg.UserID), zap.Int("topics", len(catalog)))
	m := tui.NewModel(cfg, e.store, e.logger, catalog, topics.NewPicker())
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func newDebateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "debate",
		Short: "Run a timed debate round",
		Args:  cobra.NoArgs,
		RunE:  runDebateCmd,
	}
	cmd.Flags().IntVar(&debateMinutes, "minutes", defaultDebateMinutes, "debate length in minutes")
	cmd.Flags().StringVar(&debatePosition, "position", debateui.PositionFor, "position to argue (for or against)")
	cmd.Flags().StringVar(&debateTopic, "topic", "", "topic ID (default: random)")
	cmd.Flags().StringVar(&debateTopics, "topics", "", "extra topic file")
	return cmd
}

func runDebateCmd(cmd *cobra.Command, _ []string) error {
	e, err := openEnv(cmd)
	if err != nil {
		return err
	}
	defer e.Close()

	applyIntConfig(cmd, "minutes", &debateMinutes, e.cfg.Debate.Minutes)
	applyStringConfig(cmd, "position", &debatePosition, e.cfg.Debate.Position)
	applyStringConfig(cmd, "topics", &debateTopics, e.cfg.Practice.TopicFile)

	if debateMinutes <= 0 {
		return fmt.Errorf("--minutes must be > 0")
	}
	position, err := debateui.NormalizePosition(debatePosition)
	if err != nil {
		return err
	}
	catalog, err := topics.Catalog(resolveTopicFile(debateTopics))
	if err != nil {
		return fmt.Errorf("failed to load topics: %w", err)
	}
	topic, err := chooseTopic(catalog, debateTopic, topics.MaxDifficulty)
	if err != nil {
		return err
	}

	cfg := model.DebateConfig{
		UserID:   globalUser,
		Minutes:  debateMinutes,
		Position: position,
		Topic:    topic.ID,
	}
	e.logger.Info("debate started", zap.String("user", cfg.UserID), zap.String("topic", topic.ID), zap.String("position", position))
	m := debateui.NewModel(cfg, topic, e.store, e.logger)
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run debate TUI: %w", err)
	}
	return nil
}

func chooseTopic(catalog []model.Topic, id string, maxDifficulty int) (model.Topic, error) {
	if id != "" {
		topic, ok := topics.Find(catalog, id)
		if !ok {
			return model.Topic{}, fmt.Errorf("unknown topic %q (run: podium topics)", id)
		}
		return topic, nil
	}
	topic, err := topics.NewPicker().Pick(catalog, maxDifficulty)
	if err != nil {
		return model.Topic{}, fmt.Errorf("failed to pick topic: %w", err)
	}
	return topic, nil
}

// resolveTopicFile falls back to the default topic file when it exists.
func resolveTopicFile(path string) string {
	if path != "" {
		return path
	}
	def := config.DefaultTopicPath()
	if _, err := os.Stat(def); err == nil {
		return def
	}
	return ""
}

func configTopicFile(cfg config.FileConfig) string {
	if cfg.Practice.TopicFile == nil {
		return ""
	}
	return *cfg.Practice.TopicFile
}

func validatePracticeConfig(cfg model.PracticeConfig) error {
	if cfg.LimitSeconds < 0 {
		return fmt.Errorf("--limit must be >= 0")
	}
	if cfg.MaxDifficulty < 1 || cfg.MaxDifficulty > topics.MaxDifficulty {
		return fmt.Errorf("--max-difficulty must be between 1 and %d", topics.MaxDifficulty)
	}
	return nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := configPath()
	if err := ensureConfigFile(path); err != nil {
		return err
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return errors.New("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

// ensureConfigFile writes the commented template unless a file exists.
func ensureConfigFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}
	return nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# podium configuration
# Uncomment a value to enable it. PODIUM_* environment variables override
# this file (PODIUM_STATS_WINDOW=30d), and CLI flags override both.

[profile]
# user = %q              # Local user identity

[practice]
# limit-seconds = %d       # Recording limit (0 for none)
# topic-file = ""          # Extra topics: category | difficulty | title | description
# max-difficulty = %d       # Hardest topic level to draw (1-3)

[debate]
# minutes = %d              # Debate length
# position = "for"         # for or against

[stats]
# window = %q             # 7d, 30d, or 90d
# recent = %d               # Rows in the recent activity table

[log]
# level = "info"           # debug, info, warn, error
# file = ""                # Default: XDG data dir
`,
		defaultUser,
		defaultLimitSeconds,
		defaultMaxDifficulty,
		defaultDebateMinutes,
		defaultStatsWindow,
		defaultStatsRecent,
	)
}

func withTimeout(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithTimeout(ctx, 30*time.Second)
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

func logErrln(args ...any) {
	if _, err := fmt.Fprintln(os.Stderr, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
