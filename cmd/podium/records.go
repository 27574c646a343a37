package main

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/verte-zerg/podium/internal/debateui"
	"github.com/verte-zerg/podium/internal/model"
	"github.com/verte-zerg/podium/internal/stats"
	"github.com/verte-zerg/podium/internal/store"
	"github.com/verte-zerg/podium/internal/topics"
	"github.com/verte-zerg/podium/internal/tui"
)

var (
	logTopic        string
	logTitle        string
	logDuration     time.Duration
	logClarity      float64
	logPace         float64
	logVolume       float64
	logTone         float64
	logEngagement   float64
	logOverall      float64
	logStrengths    string
	logImprovements string

	logPosition      string
	logUserScore     float64
	logOpponentScore float64
	logNotes         string
	logSummary       string
	logPointsWon     int
	logPointsLost    int

	teamDescription string

	profileName     string
	profileEmail    string
	profileBio      string
	profileGoals    string
	profileTheme    string
	profileLanguage string
	profileReminder bool

	topicsFile     string
	topicsCategory string
	topicsMaxLevel int
)

var (
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	headerStyle = cellStyle.Bold(true)
)

func newLogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "log",
		Short: "Record a session without the TUI",
	}
	cmd.AddCommand(newLogPracticeCmd())
	cmd.AddCommand(newLogDebateCmd())
	return cmd
}

func newLogPracticeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "practice",
		Short: "Record a practice session",
		Args:  cobra.NoArgs,
		RunE:  runLogPracticeCmd,
	}
	cmd.Flags().StringVar(&logTopic, "topic", "", "topic ID")
	cmd.Flags().StringVar(&logTitle, "title", "", "title (default: topic title)")
	cmd.Flags().DurationVar(&logDuration, "duration", 0, "speaking time, e.g. 2m30s")
	cmd.Flags().Float64Var(&logClarity, "clarity", 0, "clarity score (0-10)")
	cmd.Flags().Float64Var(&logPace, "pace", 0, "pace score (0-10)")
	cmd.Flags().Float64Var(&logVolume, "volume", 0, "volume score (0-10)")
	cmd.Flags().Float64Var(&logTone, "tone", 0, "tone score (0-10)")
	cmd.Flags().Float64Var(&logEngagement, "engagement", 0, "engagement score (0-10)")
	cmd.Flags().Float64Var(&logOverall, "overall", 0, "overall score (0-10, default: mean of the others)")
	cmd.Flags().StringVar(&logStrengths, "strengths", "", "comma-separated strengths")
	cmd.Flags().StringVar(&logImprovements, "improvements", "", "comma-separated improvements")
	return cmd
}

func runLogPracticeCmd(cmd *cobra.Command, _ []string) error {
	session := model.PracticeSession{
		UserID: globalUser,
		Title:  strings.TrimSpace(logTitle),
	}
	var err error
	scores := []struct {
		flag   string
		value  float64
		target **float64
	}{
		{"clarity", logClarity, &session.ClarityScore},
		{"pace", logPace, &session.PaceScore},
		{"volume", logVolume, &session.VolumeScore},
		{"tone", logTone, &session.ToneScore},
		{"engagement", logEngagement, &session.EngagementScore},
		{"overall", logOverall, &session.OverallScore},
	}
	for _, s := range scores {
		if *s.target, err = scoreFlag(cmd, s.flag, s.value); err != nil {
			return err
		}
	}
	if session.OverallScore == nil {
		session.OverallScore = tui.MeanScore(session.ClarityScore, session.PaceScore, session.VolumeScore, session.ToneScore, session.EngagementScore)
	}
	if session.DurationSeconds, err = durationFlag(cmd, logDuration); err != nil {
		return err
	}
	strengths, improvements := tui.SplitList(logStrengths), tui.SplitList(logImprovements)
	if len(strengths) > 0 || len(improvements) > 0 {
		session.Feedback = model.NewPracticeFeedback(model.PracticeFeedback{Strengths: strengths, Improvements: improvements})
	}

	e, err := openEnv(cmd)
	if err != nil {
		return err
	}
	defer e.Close()
	session.UserID = globalUser

	if logTopic != "" {
		catalog, err := topics.Catalog(resolveTopicFile(configTopicFile(e.cfg)))
		if err != nil {
			return fmt.Errorf("failed to load topics: %w", err)
		}
		topic, ok := topics.Find(catalog, logTopic)
		if !ok {
			return fmt.Errorf("unknown topic %q (run: podium topics)", logTopic)
		}
		session.TopicID = topic.ID
		if session.Title == "" {
			session.Title = topic.Title
		}
	}
	if session.Title == "" {
		return errors.New("--title or --topic is required")
	}

	ctx, cancel := withTimeout(cmd)
	defer cancel()
	saved, err := e.store.InsertPracticeSession(ctx, session)
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	e.logger.Info("practice session logged", zap.String("id", saved.ID), zap.String("user", saved.UserID))
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "Saved practice session %s (score %.1f/10)\n", saved.ID, stats.AverageScore([]model.PracticeSession{saved}, stats.OverallScore))
	return err
}

func newLogDebateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "debate",
		Short: "Record a debate session",
		Args:  cobra.NoArgs,
		RunE:  runLogDebateCmd,
	}
	cmd.Flags().StringVar(&logTopic, "topic", "", "topic ID")
	cmd.Flags().StringVar(&logPosition, "position", debateui.PositionFor, "position argued (for or against)")
	cmd.Flags().DurationVar(&logDuration, "duration", 0, "debate length, e.g. 5m")
	cmd.Flags().Float64Var(&logUserScore, "score", 0, "your score (0-10)")
	cmd.Flags().Float64Var(&logOpponentScore, "opponent-score", 0, "opponent score (0-10)")
	cmd.Flags().StringVar(&logNotes, "notes", "", "notes on the opponent's arguments")
	cmd.Flags().StringVar(&logSummary, "summary", "", "debate summary")
	cmd.Flags().IntVar(&logPointsWon, "points-won", 0, "points you won")
	cmd.Flags().IntVar(&logPointsLost, "points-lost", 0, "points you lost")
	cmd.Flags().StringVar(&logStrengths, "strengths", "", "comma-separated strengths")
	cmd.Flags().StringVar(&logImprovements, "improvements", "", "comma-separated improvements")
	return cmd
}

func runLogDebateCmd(cmd *cobra.Command, _ []string) error {
	position, err := debateui.NormalizePosition(logPosition)
	if err != nil {
		return err
	}
	session := model.DebateSession{
		Position:      position,
		OpponentNotes: strings.TrimSpace(logNotes),
	}
	if session.UserScore, err = scoreFlag(cmd, "score", logUserScore); err != nil {
		return err
	}
	if session.AIScore, err = scoreFlag(cmd, "opponent-score", logOpponentScore); err != nil {
		return err
	}
	if session.DurationSeconds, err = durationFlag(cmd, logDuration); err != nil {
		return err
	}
	if logPointsWon < 0 || logPointsLost < 0 {
		return errors.New("--points-won and --points-lost must be >= 0")
	}
	strengths, improvements := tui.SplitList(logStrengths), tui.SplitList(logImprovements)
	if logSummary != "" || logPointsWon > 0 || logPointsLost > 0 || len(strengths) > 0 || len(improvements) > 0 {
		session.Feedback = model.NewDebateFeedback(model.DebateFeedback{
			Summary:      strings.TrimSpace(logSummary),
			UserPoints:   logPointsWon,
			OpponentPts:  logPointsLost,
			Strengths:    strengths,
			Improvements: improvements,
		})
	}

	e, err := openEnv(cmd)
	if err != nil {
		return err
	}
	defer e.Close()
	session.UserID = globalUser

	if logTopic != "" {
		catalog, err := topics.Catalog(resolveTopicFile(configTopicFile(e.cfg)))
		if err != nil {
			return fmt.Errorf("failed to load topics: %w", err)
		}
		if _, ok := topics.Find(catalog, logTopic); !ok {
			return fmt.Errorf("unknown topic %q (run: podium topics)", logTopic)
		}
		session.TopicID = logTopic
	}

	ctx, cancel := withTimeout(cmd)
	defer cancel()
	saved, err := e.store.InsertDebateSession(ctx, session)
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	e.logger.Info("debate session logged", zap.String("id", saved.ID), zap.String("user", saved.UserID))
	outcome := "lost"
	if stats.DebatesWon([]model.DebateSession{saved}) == 1 {
		outcome = "won"
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "Saved debate session %s (%s, arguing %s)\n", saved.ID, outcome, saved.Position)
	return err
}

// scoreFlag returns nil for an unset flag so the score stays unrecorded.
func scoreFlag(cmd *cobra.Command, name string, value float64) (*float64, error) {
	if !cmd.Flags().Changed(name) {
		return nil, nil
	}
	if value < 0 || value > 10 {
		return nil, fmt.Errorf("--%s must be between 0 and 10", name)
	}
	return model.Ptr(value), nil
}

func durationFlag(cmd *cobra.Command, d time.Duration) (*int64, error) {
	if !cmd.Flags().Changed("duration") {
		return nil, nil
	}
	if d < 0 {
		return nil, errors.New("--duration must be >= 0")
	}
	return model.Ptr(int64(d / time.Second)), nil
}

func newTeamCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "team",
		Short: "Manage teams",
	}
	create := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a team led by the current user",
		Args:  cobra.ExactArgs(1),
		RunE:  runTeamCreateCmd,
	}
	create.Flags().StringVar(&teamDescription, "description", "", "team description")
	cmd.AddCommand(create)
	cmd.AddCommand(&cobra.Command{
		Use:   "join <team-id>",
		Short: "Join an existing team",
		Args:  cobra.ExactArgs(1),
		RunE:  runTeamJoinCmd,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List teams of the current user",
		Args:  cobra.NoArgs,
		RunE:  runTeamListCmd,
	})
	return cmd
}

func runTeamCreateCmd(cmd *cobra.Command, args []string) error {
	name := strings.TrimSpace(args[0])
	if name == "" {
		return errors.New("team name must not be empty")
	}
	e, err := openEnv(cmd)
	if err != nil {
		return err
	}
	defer e.Close()

	ctx, cancel := withTimeout(cmd)
	defer cancel()
	team, err := e.store.CreateTeam(ctx, globalUser, name, strings.TrimSpace(teamDescription))
	if err != nil {
		return fmt.Errorf("failed to create team: %w", err)
	}
	e.logger.Info("team created", zap.String("team", team.ID), zap.String("leader", team.LeaderID))
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "Created team %q (%s)\n", team.Name, team.ID)
	return err
}

func runTeamJoinCmd(cmd *cobra.Command, args []string) error {
	e, err := openEnv(cmd)
	if err != nil {
		return err
	}
	defer e.Close()

	ctx, cancel := withTimeout(cmd)
	defer cancel()
	member, err := e.store.JoinTeam(ctx, globalUser, strings.TrimSpace(args[0]))
	switch {
	case errors.Is(err, store.ErrAlreadyMember):
		return fmt.Errorf("%s is already a member of team %s", globalUser, args[0])
	case errors.Is(err, store.ErrTeamNotFound):
		return fmt.Errorf("team %s not found", args[0])
	case err != nil:
		return fmt.Errorf("failed to join team: %w", err)
	}
	e.logger.Info("team joined", zap.String("team", member.TeamID), zap.String("user", member.UserID))
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "Joined team %s as %s\n", member.TeamID, member.Role)
	return err
}

func runTeamListCmd(cmd *cobra.Command, _ []string) error {
	e, err := openEnv(cmd)
	if err != nil {
		return err
	}
	defer e.Close()

	ctx, cancel := withTimeout(cmd)
	defer cancel()
	teams, err := e.store.ListTeams(ctx, globalUser)
	if err != nil {
		return fmt.Errorf("failed to list teams: %w", err)
	}
	return stats.RenderTeams(cmd.OutOrStdout(), teams, globalUser)
}

func newProfileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show or edit the user profile",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the profile",
		Args:  cobra.NoArgs,
		RunE:  runProfileShowCmd,
	})
	set := &cobra.Command{
		Use:   "set",
		Short: "Update profile fields",
		Args:  cobra.NoArgs,
		RunE:  runProfileSetCmd,
	}
	set.Flags().StringVar(&profileName, "name", "", "full name")
	set.Flags().StringVar(&profileEmail, "email", "", "email address")
	set.Flags().StringVar(&profileBio, "bio", "", "short bio")
	set.Flags().StringVar(&profileGoals, "goals", "", "speaking goals")
	set.Flags().StringVar(&profileTheme, "theme", "", "theme (light, dark, system)")
	set.Flags().StringVar(&profileLanguage, "language", "", "preferred language")
	set.Flags().BoolVar(&profileReminder, "reminders", true, "practice reminders")
	cmd.AddCommand(set)
	return cmd
}

func runProfileShowCmd(cmd *cobra.Command, _ []string) error {
	e, err := openEnv(cmd)
	if err != nil {
		return err
	}
	defer e.Close()

	ctx, cancel := withTimeout(cmd)
	defer cancel()
	profile, err := e.store.GetProfile(ctx, globalUser)
	if err != nil {
		return fmt.Errorf("failed to load profile: %w", err)
	}
	return writeProfile(cmd.OutOrStdout(), profile)
}

func runProfileSetCmd(cmd *cobra.Command, _ []string) error {
	e, err := openEnv(cmd)
	if err != nil {
		return err
	}
	defer e.Close()

	ctx, cancel := withTimeout(cmd)
	defer cancel()
	profile, err := e.store.GetProfile(ctx, globalUser)
	if err != nil {
		return fmt.Errorf("failed to load profile: %w", err)
	}
	flags := cmd.Flags()
	if flags.Changed("name") {
		profile.FullName = profileName
	}
	if flags.Changed("email") {
		profile.Email = profileEmail
	}
	if flags.Changed("bio") {
		profile.Bio = profileBio
	}
	if flags.Changed("goals") {
		profile.Goals = profileGoals
	}
	if flags.Changed("theme") {
		profile.Preferences.Theme = model.Theme(strings.ToLower(profileTheme))
	}
	if flags.Changed("language") {
		profile.Preferences.Language = profileLanguage
	}
	if flags.Changed("reminders") {
		profile.Preferences.PracticeReminders = profileReminder
	}
	saved, err := e.store.UpsertProfile(ctx, profile)
	if err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}
	e.logger.Info("profile updated", zap.String("user", saved.ID))
	return writeProfile(cmd.OutOrStdout(), saved)
}

func writeProfile(w io.Writer, p model.Profile) error {
	onOff := func(b bool) string {
		if b {
			return "on"
		}
		return "off"
	}
	rows := [][]string{
		{"User", p.ID},
		{"Name", p.FullName},
		{"Email", p.Email},
		{"Bio", p.Bio},
		{"Goals", p.Goals},
		{"Theme", string(p.Preferences.Theme)},
		{"Language", p.Preferences.Language},
		{"Reminders", onOff(p.Preferences.PracticeReminders)},
		{"Notifications", onOff(p.Preferences.Notifications)},
	}
	t := table.New().Border(lipgloss.HiddenBorder()).Rows(rows...)
	_, err := fmt.Fprintln(w, t.Render())
	return err
}

func newTopicsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "topics",
		Short: "List practice and debate topics",
		Args:  cobra.NoArgs,
		RunE:  runTopicsCmd,
	}
	cmd.Flags().StringVar(&topicsFile, "topics", "", "extra topic file")
	cmd.Flags().StringVar(&topicsCategory, "category", "", "only this category")
	cmd.Flags().IntVar(&topicsMaxLevel, "max-difficulty", topics.MaxDifficulty, "hardest level to list")
	return cmd
}

func runTopicsCmd(cmd *cobra.Command, _ []string) error {
	catalog, err := topics.Catalog(resolveTopicFile(topicsFile))
	if err != nil {
		return fmt.Errorf("failed to load topics: %w", err)
	}
	filters := []topics.FilterFunc{topics.AtMost(topicsMaxLevel)}
	if topicsCategory != "" {
		filters = append(filters, topics.InCategory(topicsCategory))
	}
	list := topics.Filter(catalog, filters...)
	if len(list) == 0 {
		logErrln("No topics match.")
		return nil
	}
	return writeTopics(cmd.OutOrStdout(), list)
}

func writeTopics(w io.Writer, list []model.Topic) error {
	rows := make([][]string, 0, len(list))
	for _, t := range list {
		rows = append(rows, []string{t.ID, fmt.Sprintf("%d", t.Difficulty), t.Category, t.Title})
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "Level", "Category", "Title").
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Rows(rows...)
	_, err := fmt.Fprintln(w, t.Render())
	return err
}
