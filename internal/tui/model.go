// Package tui provides the Bubble Tea speech practice interface.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/verte-zerg/podium/internal/model"
	statsPkg "github.com/verte-zerg/podium/internal/stats"
	"github.com/verte-zerg/podium/internal/store"
	"github.com/verte-zerg/podium/internal/timer"
	"github.com/verte-zerg/podium/internal/topics"
)

// PracticeStore is the storage a practice session needs.
type PracticeStore interface {
	InsertPracticeSession(ctx context.Context, ps model.PracticeSession) (model.PracticeSession, error)
	ListPracticeSessions(ctx context.Context, q store.Query) ([]model.PracticeSession, error)
}

type stage int

const (
	stageRecord stage = iota
	stageReview
)

// Review form fields, in order.
const (
	fieldClarity = iota
	fieldPace
	fieldVolume
	fieldTone
	fieldEngagement
	fieldOverall
	fieldTranscript
	fieldStrengths
	fieldImprovements
)

type tickMsg time.Time

// Model implements the Bubble Tea practice UI.
type Model struct {
	config  model.PracticeConfig
	store   PracticeStore
	logger  *zap.Logger
	picker  *topics.Picker
	catalog []model.Topic
	now     func() time.Time

	topic model.Topic
	clock *timer.Timer
	stage stage
	form  *Form

	width  int
	height int

	status string
	errMsg string

	practiced map[string]int
	lastScore float64
	hasLast   bool
	allSum    float64
	allCount  int
}

var (
	titleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	clockStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	activeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F")).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#52C41A"))
	footerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
)

// NewModel constructs a practice TUI model. catalog must not be empty.
func NewModel(cfg model.PracticeConfig, st PracticeStore, logger *zap.Logger, catalog []model.Topic, picker *topics.Picker) *Model {
	if logger == nil {
		logger = zap.NewNop()
	}
	m := &Model{
		config:    cfg,
		store:     st,
		logger:    logger,
		picker:    picker,
		catalog:   catalog,
		now:       time.Now,
		practiced: map[string]int{},
	}
	m.loadFooterStats()
	m.resetSession()
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
		return m.handleTick(time.Time(msg))
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.stage == stageReview {
			return m.updateReview(msg)
		}
		return m.updateRecord(msg)
	}
	return m, nil
}

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m *Model) handleTick(now time.Time) (tea.Model, tea.Cmd) {
	if m.clock.State() != timer.Active {
		// Stopped since this tick was scheduled.
		return m, nil
	}
	if m.clock.Tick(now) == timer.EventEnded {
		return m, m.enterReview()
	}
	return m, tick()
}

func (m *Model) updateRecord(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case " ":
		switch m.clock.State() {
		case timer.Idle:
			if err := m.clock.Start(m.now()); err != nil {
				m.errMsg = err.Error()
				return m, nil
			}
			m.status = ""
			m.errMsg = ""
			return m, tick()
		case timer.Active:
			if err := m.clock.Stop(m.now()); err != nil {
				m.errMsg = err.Error()
				return m, nil
			}
			return m, m.enterReview()
		}
	case "n":
		if m.clock.State() == timer.Idle {
			m.pickTopic()
		}
	case "q", "esc":
		if m.clock.State() == timer.Idle {
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m *Model) enterReview() tea.Cmd {
	m.stage = stageReview
	m.form = NewForm(
		Field{Label: "Clarity", Placeholder: "0-10", Validate: ValidateScore},
		Field{Label: "Pace", Placeholder: "0-10", Validate: ValidateScore},
		Field{Label: "Volume", Placeholder: "0-10", Validate: ValidateScore},
		Field{Label: "Tone", Placeholder: "0-10", Validate: ValidateScore},
		Field{Label: "Engagement", Placeholder: "0-10", Validate: ValidateScore},
		Field{Label: "Overall", Placeholder: "blank = average", Validate: ValidateScore},
		Field{Label: "Transcript", Placeholder: "what you said"},
		Field{Label: "Strengths", Placeholder: "comma separated"},
		Field{Label: "Improvements", Placeholder: "comma separated"},
	)
	return m.form.Focus()
}

func (m *Model) updateReview(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyEsc {
		m.status = "Session discarded."
		m.resetSession()
		return m, nil
	}
	submitted, cmd := m.form.Update(msg)
	if !submitted {
		return m, cmd
	}
	saved, err := m.saveSession()
	if err != nil {
		m.form.SetError(err.Error())
		return m, nil
	}
	m.status = fmt.Sprintf("Saved %q, score %.1f/10.", saved.Title, statsPkg.AverageScore([]model.PracticeSession{saved}, statsPkg.OverallScore))
	m.resetSession()
	return m, nil
}

// buildSession turns the review form into a session. The form validates
// scores on submit, so a parse failure here means the form was bypassed.
func (m *Model) buildSession() (model.PracticeSession, error) {
	var scores [fieldOverall + 1]*float64
	for i := range scores {
		v, err := ParseScore(m.form.Value(i))
		if err != nil {
			return model.PracticeSession{}, fmt.Errorf("score field %d: %w", i+1, err)
		}
		scores[i] = v
	}
	ps := model.PracticeSession{
		UserID:          m.config.UserID,
		TopicID:         m.topic.ID,
		Title:           m.topic.Title,
		Transcript:      m.form.Value(fieldTranscript),
		DurationSeconds: model.Ptr(int64(m.clock.Elapsed(m.now()) / time.Second)),
		ClarityScore:    scores[fieldClarity],
		PaceScore:       scores[fieldPace],
		VolumeScore:     scores[fieldVolume],
		ToneScore:       scores[fieldTone],
		EngagementScore: scores[fieldEngagement],
		OverallScore:    scores[fieldOverall],
	}
	if ps.OverallScore == nil {
		ps.OverallScore = MeanScore(ps.ClarityScore, ps.PaceScore, ps.VolumeScore, ps.ToneScore, ps.EngagementScore)
	}
	strengths := SplitList(m.form.Value(fieldStrengths))
	improvements := SplitList(m.form.Value(fieldImprovements))
	if len(strengths) > 0 || len(improvements) > 0 {
		ps.Feedback = model.NewPracticeFeedback(model.PracticeFeedback{Strengths: strengths, Improvements: improvements})
	}
	return ps, nil
}

func (m *Model) saveSession() (model.PracticeSession, error) {
	ps, err := m.buildSession()
	if err != nil {
		m.logger.Warn("invalid review form", zap.Error(err))
		return model.PracticeSession{}, err
	}
	saved, err := m.store.InsertPracticeSession(context.Background(), ps)
	if err != nil {
		m.logger.Error("failed to save practice session", zap.Error(err))
		return model.PracticeSession{}, fmt.Errorf("failed to save session: %w", err)
	}
	m.logger.Info("practice session saved",
		zap.String("id", saved.ID),
		zap.String("topic", saved.Title),
		zap.Int64p("duration_seconds", saved.DurationSeconds),
		zap.Float64p("overall_score", saved.OverallScore),
	)
	m.recordSaved(saved)
	return saved, nil
}

func (m *Model) recordSaved(ps model.PracticeSession) {
	score := statsPkg.AverageScore([]model.PracticeSession{ps}, statsPkg.OverallScore)
	m.lastScore = score
	m.hasLast = true
	m.allSum += score
	m.allCount++
	m.practiced[ps.Title]++
}

func (m *Model) loadFooterStats() {
	sessions, err := m.store.ListPracticeSessions(context.Background(), store.Query{UserID: m.config.UserID, Order: store.NewestFirst})
	if err != nil {
		m.logger.Warn("failed to load practice history", zap.Error(err))
		m.errMsg = "Failed to load practice history."
		return
	}
	if len(sessions) == 0 {
		return
	}
	m.lastScore = statsPkg.AverageScore(sessions[:1], statsPkg.OverallScore)
	m.hasLast = true
	m.allCount = len(sessions)
	m.allSum = statsPkg.AverageScore(sessions, statsPkg.OverallScore) * float64(len(sessions))
	for _, s := range sessions {
		m.practiced[s.Title]++
	}
}

func (m *Model) resetSession() {
	m.stage = stageRecord
	m.form = nil
	m.clock = timer.NewStopwatch(time.Duration(m.config.LimitSeconds) * time.Second)
	m.pickTopic()
}

func (m *Model) pickTopic() {
	topic, err := m.picker.PickFresh(m.catalog, m.config.MaxDifficulty, m.practiced)
	if err != nil {
		m.errMsg = err.Error()
		return
	}
	m.topic = topic
}

// View implements tea.Model.
func (m *Model) View() string {
	content := m.renderContent()
	footer := m.renderFooter()
	if m.width == 0 || m.height == 0 {
		return content + "\n\n" + footer
	}
	if m.height < 3 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}
	body := lipgloss.Place(m.width, m.height-1, lipgloss.Center, lipgloss.Center, content)
	footerLine := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, footer)
	return body + "\n" + footerLine
}

func (m *Model) contentWidth() int {
	if m.width <= 0 {
		return 0
	}
	return max(20, int(float64(m.width)*0.70))
}

func (m *Model) renderContent() string {
	lines := []string{
		titleStyle.Render(m.topic.Title),
		mutedStyle.Render(fmt.Sprintf("%s · Level %d", m.topic.Category, m.topic.Difficulty)),
	}
	if m.topic.Description != "" {
		lines = append(lines, "", wrapText(m.topic.Description, m.contentWidth()))
	}
	lines = append(lines, "")

	now := m.now()
	clock := timer.FormatClock(m.clock.Display(now))
	if limit := m.clock.Limit(); limit > 0 {
		clock += " / " + timer.FormatClock(limit)
	}
	switch {
	case m.stage == stageReview:
		lines = append(lines,
			clockStyle.Render("Recorded "+timer.FormatClock(m.clock.Elapsed(now))),
			"",
			m.form.View(),
			"",
			mutedStyle.Render("tab: next field  enter/ctrl+s: save  esc: discard"),
		)
	case m.clock.State() == timer.Active:
		lines = append(lines,
			activeStyle.Render("● REC ")+clockStyle.Render(clock),
			"",
			mutedStyle.Render("space: stop"),
		)
	default:
		lines = append(lines,
			clockStyle.Render(clock),
			"",
			mutedStyle.Render("space: start  n: new topic  q: quit"),
		)
	}
	if m.status != "" {
		lines = append(lines, "", successStyle.Render(m.status))
	}
	if m.errMsg != "" {
		lines = append(lines, "", errorStyle.Render(m.errMsg))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderFooter() string {
	segments := []string{}
	if m.hasLast {
		segments = append(segments, fmt.Sprintf("Last %.1f/10 (%.0f%%)", m.lastScore, statsPkg.ProgressPercent(m.lastScore)))
	}
	avg := 0.0
	if m.allCount > 0 {
		avg = m.allSum / float64(m.allCount)
	}
	segments = append(segments, fmt.Sprintf("All-time %.1f/10 over %d sessions", avg, m.allCount))
	return footerStyle.Render(strings.Join(segments, "  "))
}
