package statsui

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/verte-zerg/podium/internal/model"
	"github.com/verte-zerg/podium/internal/stats"
	"github.com/verte-zerg/podium/internal/store"
)

type fakeSource struct {
	practice []model.PracticeSession
	debate   []model.DebateSession
	teams    []model.Team
	err      error
	calls    int
}

func (f *fakeSource) ListPracticeSessions(_ context.Context, _ store.Query) ([]model.PracticeSession, error) {
	f.calls++
	return f.practice, f.err
}

func (f *fakeSource) ListDebateSessions(_ context.Context, _ store.Query) ([]model.DebateSession, error) {
	return f.debate, nil
}

func (f *fakeSource) ListTeams(_ context.Context, _ string) ([]model.Team, error) {
	return f.teams, nil
}

func sampleSource() *fakeSource {
	now := time.Now()
	return &fakeSource{
		practice: []model.PracticeSession{{
			ID:              "p1",
			Title:           "Climate Change Solutions",
			DurationSeconds: model.Ptr(int64(300)),
			OverallScore:    model.Ptr(8.0),
			ClarityScore:    model.Ptr(7.0),
			CreatedAt:       now.Add(-time.Hour),
		}},
		debate: []model.DebateSession{{
			ID:        "d1",
			Position:  "for",
			UserScore: model.Ptr(6.0),
			AIScore:   model.Ptr(7.0),
			CreatedAt: now.Add(-2 * time.Hour),
		}},
		teams: []model.Team{{ID: "t1", Name: "Orators", Members: []model.TeamMember{{UserID: "alice", Role: model.RoleLeader}}}},
	}
}

func sized(m *Model) *Model {
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return m
}

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestOverviewShowsCards(t *testing.T) {
	m := sized(NewModel(sampleSource(), model.StatsConfig{UserID: "alice"}, zap.NewNop()))
	out := m.View()
	assert.Contains(t, out, "Overview")
	assert.Contains(t, out, "Avg Score")
	assert.Contains(t, out, "8.0/10")
	assert.Contains(t, out, "Debates Won")
	assert.Contains(t, out, "window=7d")
}

func TestTabsCycle(t *testing.T) {
	m := sized(NewModel(sampleSource(), model.StatsConfig{UserID: "alice"}, zap.NewNop()))
	m.Update(key("l"))
	assert.Equal(t, tabActivity, m.activeTab)
	assert.Contains(t, m.View(), "Daily Activity")

	m.Update(key("l"))
	assert.Equal(t, tabRecent, m.activeTab)
	assert.Contains(t, m.View(), "Climate Change Solutions")

	m.Update(key("l"))
	assert.Contains(t, m.View(), "3 of 9 unlocked")

	m.Update(key("l"))
	assert.Contains(t, m.View(), "Orators")

	m.Update(key("l"))
	assert.Equal(t, tabOverview, m.activeTab)
	m.Update(key("h"))
	assert.Equal(t, tabTeams, m.activeTab)
}

func TestWindowCycleDoesNotRefetch(t *testing.T) {
	src := sampleSource()
	m := sized(NewModel(src, model.StatsConfig{UserID: "alice"}, zap.NewNop()))
	calls := src.calls

	m.Update(key("w"))
	assert.Equal(t, "30d", m.cfg.Window)
	assert.Len(t, m.report.Analytics.Daily, 30)
	m.Update(key("w"))
	m.Update(key("w"))
	assert.Equal(t, "7d", m.cfg.Window)
	assert.Equal(t, calls, src.calls)

	m.Update(key("r"))
	assert.Equal(t, calls+1, src.calls)
}

func TestSettingsForm(t *testing.T) {
	m := sized(NewModel(sampleSource(), model.StatsConfig{UserID: "alice"}, zap.NewNop()))
	m.Update(key("/"))
	require.True(t, m.settingsMode)

	m.settings.SetValue(settingsWindow, "1y")
	m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	assert.True(t, m.settingsMode)
	assert.Contains(t, m.View(), "unknown window")

	m.settings.SetValue(settingsWindow, "90d")
	m.settings.SetValue(settingsRecent, "1")
	m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	assert.False(t, m.settingsMode)
	assert.Equal(t, model.StatsConfig{UserID: "alice", Window: "90d", Recent: 1}, m.cfg)
	assert.Len(t, m.report.Recent, 1)
	assert.Equal(t, stats.Window90d, m.report.Analytics.Window)
}

func TestLoadErrorIsShown(t *testing.T) {
	src := sampleSource()
	src.err = errors.New("database is locked")
	m := sized(NewModel(src, model.StatsConfig{UserID: "alice"}, zap.NewNop()))
	out := m.View()
	assert.Contains(t, out, "Failed to load stats.")
	assert.Contains(t, out, "database is locked")
}

func TestEmptyHistory(t *testing.T) {
	m := sized(NewModel(&fakeSource{}, model.StatsConfig{UserID: "alice"}, zap.NewNop()))
	assert.Contains(t, m.View(), "No sessions found.")
	m.activeTab = tabRecent
	assert.Contains(t, m.View(), "No recent activity.")
}

func TestFitLinesPadsAndTruncates(t *testing.T) {
	assert.Equal(t, "ab \n   ", fitLines("ab", 3, 2))
	assert.Equal(t, "a  ", fitLines("a\nb\nc", 3, 1))
	assert.Equal(t, "abc...", truncateLine("abcdefghij", 6))
}
