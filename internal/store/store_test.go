package store

import (
	"context"
	"math"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/podium/internal/metrics"
	"github.com/verte-zerg/podium/internal/model"
)

func openTestStore(t *testing.T, opts ...Option) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "podium.db"), opts...)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = st.Close()
	})
	return st
}

func TestPracticeSessionRoundTrip(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		_, err := st.InsertPracticeSession(ctx, model.PracticeSession{
			UserID:          "alice",
			Title:           "Session",
			DurationSeconds: model.Ptr(int64(60 * (i + 1))),
			OverallScore:    model.Ptr(float64(6 + i)),
			CreatedAt:       base.Add(time.Duration(i) * time.Hour),
		})
		require.NoError(t, err)
	}
	_, err := st.InsertPracticeSession(ctx, model.PracticeSession{UserID: "bob", CreatedAt: base})
	require.NoError(t, err)

	newest, err := st.ListPracticeSessions(ctx, Query{UserID: "alice"})
	require.NoError(t, err)
	require.Len(t, newest, 3)
	assert.Equal(t, 8.0, *newest[0].OverallScore)
	assert.True(t, newest[0].CreatedAt.Equal(base.Add(2*time.Hour)))

	oldest, err := st.ListPracticeSessions(ctx, Query{UserID: "alice", Order: OldestFirst, Limit: 2})
	require.NoError(t, err)
	require.Len(t, oldest, 2)
	assert.Equal(t, int64(60), *oldest[0].DurationSeconds)

	since := base.Add(90 * time.Minute)
	recent, err := st.ListPracticeSessions(ctx, Query{UserID: "alice", Since: &since})
	require.NoError(t, err)
	assert.Len(t, recent, 1)
}

func TestInsertStoresNonFiniteScoresAsNull(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	saved, err := st.InsertDebateSession(ctx, model.DebateSession{
		UserID:    "alice",
		Position:  "pro",
		UserScore: model.Ptr(math.NaN()),
		AIScore:   model.Ptr(6.0),
	})
	require.NoError(t, err)
	assert.Nil(t, saved.UserScore)
	assert.NotEmpty(t, saved.ID)

	listed, err := st.ListDebateSessions(ctx, Query{UserID: "alice"})
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Nil(t, listed[0].UserScore)
	assert.Nil(t, listed[0].DurationSeconds)
	assert.Equal(t, 6.0, *listed[0].AIScore)
}

func TestFeedbackIsValidatedOnInsert(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	bad := &model.Feedback{Kind: model.FeedbackDebate}
	_, err := st.InsertDebateSession(ctx, model.DebateSession{UserID: "alice", Position: "con", Feedback: bad})
	assert.ErrorIs(t, err, model.ErrInvalidFeedback)

	good := model.NewPracticeFeedback(model.PracticeFeedback{Strengths: []string{"steady pace"}})
	_, err = st.InsertPracticeSession(ctx, model.PracticeSession{UserID: "alice", Feedback: good})
	require.NoError(t, err)

	listed, err := st.ListPracticeSessions(ctx, Query{UserID: "alice"})
	require.NoError(t, err)
	require.Len(t, listed, 1)
	require.NotNil(t, listed[0].Feedback)
	assert.Equal(t, []string{"steady pace"}, listed[0].Feedback.Practice.Strengths)
}

func TestTeams(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	team, err := st.CreateTeam(ctx, "alice", "  Debate Club ", "weekly drills")
	require.NoError(t, err)
	assert.Equal(t, "Debate Club", team.Name)
	require.Len(t, team.Members, 1)
	assert.Equal(t, model.RoleLeader, team.Members[0].Role)

	_, err = st.JoinTeam(ctx, "bob", team.ID)
	require.NoError(t, err)

	_, err = st.JoinTeam(ctx, "bob", team.ID)
	assert.ErrorIs(t, err, ErrAlreadyMember)

	_, err = st.JoinTeam(ctx, "bob", "missing")
	assert.ErrorIs(t, err, ErrTeamNotFound)

	teams, err := st.ListTeams(ctx, "bob")
	require.NoError(t, err)
	require.Len(t, teams, 1)
	require.Len(t, teams[0].Members, 2)
	assert.Equal(t, "alice", teams[0].Members[0].UserID)
	assert.Equal(t, model.RoleMember, teams[0].Members[1].Role)

	none, err := st.ListTeams(ctx, "carol")
	require.NoError(t, err)
	assert.Empty(t, none)

	_, err = st.CreateTeam(ctx, "alice", " ", "")
	assert.Error(t, err)
}

func TestProfiles(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	p, err := st.GetProfile(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, model.DefaultPreferences(), p.Preferences)

	p.FullName = "Alice"
	p.Preferences.Theme = model.ThemeDark
	_, err = st.UpsertProfile(ctx, p)
	require.NoError(t, err)

	p.Goals = "speak slower"
	_, err = st.UpsertProfile(ctx, p)
	require.NoError(t, err)

	loaded, err := st.GetProfile(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "Alice", loaded.FullName)
	assert.Equal(t, "speak slower", loaded.Goals)
	assert.Equal(t, model.ThemeDark, loaded.Preferences.Theme)

	p.Preferences.Theme = "neon"
	_, err = st.UpsertProfile(ctx, p)
	assert.ErrorIs(t, err, model.ErrInvalidPreferences)
}

func TestStoreRecordsMetrics(t *testing.T) {
	rec := metrics.New()
	st := openTestStore(t, WithRecorder(rec))
	_, err := st.ListPracticeSessions(context.Background(), Query{UserID: "alice"})
	require.NoError(t, err)

	families, err := rec.Gatherer().Gather()
	require.NoError(t, err)
	found := false
	for _, mf := range families {
		if mf.GetName() == "podium_store_operations_total" {
			found = true
		}
	}
	assert.True(t, found)
}
