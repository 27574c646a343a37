package debateui

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/verte-zerg/podium/internal/model"
	"github.com/verte-zerg/podium/internal/store"
	"github.com/verte-zerg/podium/internal/timer"
)

type fakeStore struct {
	history  []model.DebateSession
	inserted []model.DebateSession
}

func (f *fakeStore) InsertDebateSession(_ context.Context, ds model.DebateSession) (model.DebateSession, error) {
	ds.ID = "d1"
	f.inserted = append(f.inserted, ds)
	return ds, nil
}

func (f *fakeStore) ListDebateSessions(_ context.Context, _ store.Query) ([]model.DebateSession, error) {
	return f.history, nil
}

var (
	keySpace = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	keyEnd   = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'e'}}
	keyTab   = tea.KeyMsg{Type: tea.KeyTab}
	keySave  = tea.KeyMsg{Type: tea.KeyCtrlS}
)

var start = time.Date(2026, 3, 3, 18, 0, 0, 0, time.UTC)

func newTestModel(st *fakeStore) (*Model, *time.Time) {
	cur := start
	topic := model.Topic{ID: "4", Title: "Remote Work vs. Office Work", Difficulty: 2}
	m := NewModel(model.DebateConfig{UserID: "alice", Minutes: 3, Position: PositionAgainst}, topic, st, zap.NewNop())
	m.now = func() time.Time { return cur }
	return m, &cur
}

func typeText(m *Model, s string) {
	for _, r := range s {
		m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

func TestNormalizePosition(t *testing.T) {
	for in, want := range map[string]string{"": "for", "FOR": "for", "pro": "for", "against": "against", " con ": "against"} {
		got, err := NormalizePosition(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := NormalizePosition("maybe")
	assert.Error(t, err)
}

func TestDebateRunsThroughPhases(t *testing.T) {
	m, _ := newTestModel(&fakeStore{})
	_, cmd := m.Update(keySpace)
	require.NotNil(t, cmd)
	assert.Equal(t, "opening", m.clock.Phase())

	m.Update(tickMsg(start.Add(61 * time.Second)))
	assert.Equal(t, "rebuttals", m.clock.Phase())
	assert.Contains(t, m.View(), "REBUTTALS")

	m.Update(tickMsg(start.Add(3 * time.Minute)))
	assert.True(t, m.reviewing)
	assert.Equal(t, timer.Ended, m.clock.State())
	assert.Equal(t, "Time is up.", m.status)
}

func TestEndEarlyAndSave(t *testing.T) {
	st := &fakeStore{history: []model.DebateSession{
		{UserScore: model.Ptr(5.0), AIScore: model.Ptr(6.0)},
	}}
	m, cur := newTestModel(st)
	assert.Contains(t, m.renderFooter(), "Record 0-1")

	m.Update(keySpace)
	*cur = start.Add(100 * time.Second)
	m.Update(keyEnd)
	require.True(t, m.reviewing)

	typeText(m, "8")
	m.Update(keyTab)
	typeText(m, "7")
	m.Update(keyTab)
	typeText(m, "3")
	m.Update(keyTab)
	typeText(m, "2")
	m.Update(keySave)

	require.Len(t, st.inserted, 1)
	saved := st.inserted[0]
	assert.Equal(t, "against", saved.Position)
	assert.Equal(t, "4", saved.TopicID)
	assert.Equal(t, int64(100), *saved.DurationSeconds)
	assert.Equal(t, 8.0, *saved.UserScore)
	assert.Equal(t, 7.0, *saved.AIScore)
	require.NoError(t, saved.Feedback.Validate())
	assert.Equal(t, 3, saved.Feedback.Debate.UserPoints)
	assert.Equal(t, 2, saved.Feedback.Debate.OpponentPts)

	assert.False(t, m.reviewing)
	assert.Equal(t, "Saved: you won arguing against.", m.status)
	assert.Contains(t, m.renderFooter(), "Record 1-1  Win rate 50%")
}

func TestEndIgnoredWhenIdle(t *testing.T) {
	m, _ := newTestModel(&fakeStore{})
	m.Update(keyEnd)
	assert.False(t, m.reviewing)
	assert.Equal(t, timer.Idle, m.clock.State())
	assert.Contains(t, m.View(), "3:00")
}
