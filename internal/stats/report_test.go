package stats

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/podium/internal/model"
	"github.com/verte-zerg/podium/internal/store"
)

type failingSource struct {
	err error
}

func (f failingSource) ListPracticeSessions(_ context.Context, _ store.Query) ([]model.PracticeSession, error) {
	return nil, nil
}

func (f failingSource) ListDebateSessions(_ context.Context, _ store.Query) ([]model.DebateSession, error) {
	return nil, f.err
}

func (f failingSource) ListTeams(ctx context.Context, _ string) ([]model.Team, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func TestBuildReport(t *testing.T) {
	st, err := store.Open(filepath.Join(t.TempDir(), "podium.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = st.Close()
	})

	ctx := context.Background()
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		_, err := st.InsertPracticeSession(ctx, model.PracticeSession{
			UserID:          "alice",
			Title:           "Pitch",
			DurationSeconds: model.Ptr(int64(120)),
			OverallScore:    model.Ptr(float64(6 + i)),
			CreatedAt:       now.Add(-time.Duration(i) * 24 * time.Hour),
		})
		require.NoError(t, err)
	}
	_, err = st.InsertDebateSession(ctx, model.DebateSession{
		UserID:    "alice",
		Position:  "for",
		UserScore: model.Ptr(8.0),
		AIScore:   model.Ptr(7.0),
		CreatedAt: now.Add(-time.Hour),
	})
	require.NoError(t, err)
	_, err = st.CreateTeam(ctx, "alice", "Orators", "")
	require.NoError(t, err)
	_, err = st.InsertPracticeSession(ctx, model.PracticeSession{UserID: "bob", CreatedAt: now})
	require.NoError(t, err)

	report, err := BuildReport(ctx, st, model.StatsConfig{UserID: "alice", Window: "7d", Recent: 2}, now, time.UTC)
	require.NoError(t, err)
	assert.Len(t, report.Practice, 3)
	assert.Len(t, report.Debate, 1)
	require.Len(t, report.Teams, 1)
	assert.Equal(t, 4, report.Summary.TotalSessions)
	assert.Equal(t, 100.0, report.Summary.WinRate)
	assert.Len(t, report.Recent, 2)
	assert.Equal(t, 3, report.Streak)
	assert.Len(t, report.Analytics.Daily, 7)
	assert.Equal(t, []float64{8, 7.5, 7}, report.ScoreTrend[:3])

	wide := report.Reanalyze(Window30d, time.UTC)
	assert.Len(t, wide.Analytics.Daily, 30)
	assert.Len(t, report.Analytics.Daily, 7)
}

func TestBuildReportPropagatesFetchErrors(t *testing.T) {
	boom := errors.New("boom")
	_, err := BuildReport(context.Background(), failingSource{err: boom}, model.StatsConfig{UserID: "alice"}, base, time.UTC)
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
}

func TestBuildReportRejectsUnknownWindow(t *testing.T) {
	_, err := BuildReport(context.Background(), failingSource{}, model.StatsConfig{Window: "1y"}, base, time.UTC)
	assert.Error(t, err)
}
