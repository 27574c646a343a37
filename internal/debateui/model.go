// Package debateui provides the Bubble Tea debate interface.
package debateui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/verte-zerg/podium/internal/model"
	"github.com/verte-zerg/podium/internal/stats"
	"github.com/verte-zerg/podium/internal/store"
	"github.com/verte-zerg/podium/internal/timer"
	"github.com/verte-zerg/podium/internal/tui"
)

// DebateStore is the storage a debate session needs.
type DebateStore interface {
	InsertDebateSession(ctx context.Context, ds model.DebateSession) (model.DebateSession, error)
	ListDebateSessions(ctx context.Context, q store.Query) ([]model.DebateSession, error)
}

// Positions a user may argue.
const (
	PositionFor     = "for"
	PositionAgainst = "against"
)

const (
	fieldUserScore = iota
	fieldOpponentScore
	fieldUserPoints
	fieldOpponentPoints
	fieldOpponentNotes
	fieldSummary
	fieldStrengths
	fieldImprovements
)

type tickMsg time.Time

// Model implements the Bubble Tea debate UI.
type Model struct {
	config model.DebateConfig
	topic  model.Topic
	store  DebateStore
	logger *zap.Logger
	now    func() time.Time

	clock     *timer.Timer
	reviewing bool
	form      *tui.Form

	width  int
	height int

	status string
	errMsg string

	won   int
	total int
}

var (
	titleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	clockStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	phaseStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#1890FF")).Bold(true)
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#52C41A"))
	footerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
)

// NormalizePosition maps user input onto "for" or "against".
func NormalizePosition(s string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", PositionFor, "pro":
		return PositionFor, nil
	case PositionAgainst, "con":
		return PositionAgainst, nil
	default:
		return "", fmt.Errorf("invalid position %q (use for or against)", s)
	}
}

// NewModel constructs a debate TUI model for topic.
func NewModel(cfg model.DebateConfig, topic model.Topic, st DebateStore, logger *zap.Logger) *Model {
	if logger == nil {
		logger = zap.NewNop()
	}
	m := &Model{
		config: cfg,
		topic:  topic,
		store:  st,
		logger: logger,
		now:    time.Now,
	}
	m.loadRecord()
	m.reset()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tickMsg:
		if m.clock.State() != timer.Active {
			return m, nil
		}
		switch m.clock.Tick(time.Time(msg)) {
		case timer.EventEnded:
			m.status = "Time is up."
			return m, m.enterReview()
		case timer.EventPhase:
			m.logger.Debug("debate phase", zap.String("phase", m.clock.Phase()))
		}
		return m, tick()
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.reviewing {
			return m.updateReview(msg)
		}
		return m.updateDebate(msg)
	}
	return m, nil
}

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m *Model) updateDebate(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case " ":
		if m.clock.State() == timer.Idle {
			if err := m.clock.Start(m.now()); err != nil {
				m.errMsg = err.Error()
				return m, nil
			}
			m.status = ""
			return m, tick()
		}
	case "e":
		if m.clock.State() == timer.Active {
			if err := m.clock.Stop(m.now()); err != nil {
				m.errMsg = err.Error()
				return m, nil
			}
			m.status = "Debate ended early."
			return m, m.enterReview()
		}
	case "q", "esc":
		if m.clock.State() == timer.Idle {
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m *Model) enterReview() tea.Cmd {
	m.reviewing = true
	m.form = tui.NewForm(
		tui.Field{Label: "Your score", Placeholder: "0-10", Validate: tui.ValidateScore},
		tui.Field{Label: "Opponent score", Placeholder: "0-10", Validate: tui.ValidateScore},
		tui.Field{Label: "Points won", Placeholder: "0", Validate: tui.ValidateCount},
		tui.Field{Label: "Points lost", Placeholder: "0", Validate: tui.ValidateCount},
		tui.Field{Label: "Opponent notes", Placeholder: "their main arguments"},
		tui.Field{Label: "Summary", Placeholder: "how it went"},
		tui.Field{Label: "Strengths", Placeholder: "comma separated"},
		tui.Field{Label: "Improvements", Placeholder: "comma separated"},
	)
	return m.form.Focus()
}

func (m *Model) updateReview(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyEsc {
		m.status = "Debate discarded."
		m.reset()
		return m, nil
	}
	submitted, cmd := m.form.Update(msg)
	if !submitted {
		return m, cmd
	}
	saved, err := m.save()
	if err != nil {
		m.form.SetError(err.Error())
		return m, nil
	}
	outcome := "lost"
	if stats.DebatesWon([]model.DebateSession{saved}) == 1 {
		outcome = "won"
	}
	m.status = fmt.Sprintf("Saved: you %s arguing %s.", outcome, saved.Position)
	m.reset()
	return m, nil
}

// buildSession turns the review form into a session. The form has already
// validated every value.
func (m *Model) buildSession() model.DebateSession {
	userScore, _ := tui.ParseScore(m.form.Value(fieldUserScore))
	opponentScore, _ := tui.ParseScore(m.form.Value(fieldOpponentScore))
	userPoints, _ := tui.ParseCount(m.form.Value(fieldUserPoints))
	opponentPoints, _ := tui.ParseCount(m.form.Value(fieldOpponentPoints))
	return model.DebateSession{
		UserID:          m.config.UserID,
		TopicID:         m.topic.ID,
		Position:        m.config.Position,
		OpponentNotes:   m.form.Value(fieldOpponentNotes),
		DurationSeconds: model.Ptr(int64(m.clock.Elapsed(m.now()) / time.Second)),
		UserScore:       userScore,
		AIScore:         opponentScore,
		Feedback: model.NewDebateFeedback(model.DebateFeedback{
			Summary:      m.form.Value(fieldSummary),
			UserPoints:   userPoints,
			OpponentPts:  opponentPoints,
			Strengths:    tui.SplitList(m.form.Value(fieldStrengths)),
			Improvements: tui.SplitList(m.form.Value(fieldImprovements)),
		}),
	}
}

func (m *Model) save() (model.DebateSession, error) {
	saved, err := m.store.InsertDebateSession(context.Background(), m.buildSession())
	if err != nil {
		m.logger.Error("failed to save debate session", zap.Error(err))
		return model.DebateSession{}, fmt.Errorf("failed to save debate: %w", err)
	}
	m.logger.Info("debate session saved",
		zap.String("id", saved.ID),
		zap.String("position", saved.Position),
		zap.Float64p("user_score", saved.UserScore),
		zap.Float64p("opponent_score", saved.AIScore),
	)
	m.total++
	m.won += stats.DebatesWon([]model.DebateSession{saved})
	return saved, nil
}

func (m *Model) loadRecord() {
	sessions, err := m.store.ListDebateSessions(context.Background(), store.Query{UserID: m.config.UserID})
	if err != nil {
		m.logger.Warn("failed to load debate history", zap.Error(err))
		m.errMsg = "Failed to load debate history."
		return
	}
	m.total = len(sessions)
	m.won = stats.DebatesWon(sessions)
}

func (m *Model) reset() {
	m.reviewing = false
	m.form = nil
	m.clock = timer.NewCountdown(time.Duration(m.config.Minutes)*time.Minute, timer.DebatePhases...)
}

// View implements tea.Model.
func (m *Model) View() string {
	content := m.renderContent()
	footer := m.renderFooter()
	if m.width == 0 || m.height < 3 {
		return content + "\n\n" + footer
	}
	body := lipgloss.Place(m.width, m.height-1, lipgloss.Center, lipgloss.Center, content)
	footerLine := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, footer)
	return body + "\n" + footerLine
}

func (m *Model) renderContent() string {
	lines := []string{
		titleStyle.Render(m.topic.Title),
		mutedStyle.Render(fmt.Sprintf("Arguing %s · Level %d", strings.ToUpper(m.config.Position), m.topic.Difficulty)),
		"",
	}
	now := m.now()
	switch {
	case m.reviewing:
		lines = append(lines,
			clockStyle.Render("Debated "+timer.FormatClock(m.clock.Elapsed(now))),
			"",
			m.form.View(),
			"",
			mutedStyle.Render("tab: next field  enter/ctrl+s: save  esc: discard"),
		)
	case m.clock.State() == timer.Active:
		lines = append(lines,
			phaseStyle.Render(strings.ToUpper(m.clock.Phase()))+"  "+clockStyle.Render(timer.FormatClock(m.clock.Display(now))),
			"",
			mutedStyle.Render("e: end debate"),
		)
	default:
		lines = append(lines,
			clockStyle.Render(timer.FormatClock(m.clock.Display(now))),
			mutedStyle.Render("Rounds: "+strings.Join(timer.DebatePhases, " → ")),
			"",
			mutedStyle.Render("space: start  q: quit"),
		)
	}
	if m.status != "" {
		lines = append(lines, "", okStyle.Render(m.status))
	}
	if m.errMsg != "" {
		lines = append(lines, "", errorStyle.Render(m.errMsg))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderFooter() string {
	rate := 0.0
	if m.total > 0 {
		rate = float64(m.won) / float64(m.total) * 100
	}
	return footerStyle.Render(fmt.Sprintf("Record %d-%d  Win rate %.0f%%", m.won, m.total-m.won, rate))
}
