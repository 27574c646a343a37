package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/podium/internal/model"
)

func achievementByID(t *testing.T, list []Achievement, id string) Achievement {
	t.Helper()
	for _, a := range list {
		if a.ID == id {
			return a
		}
	}
	t.Fatalf("achievement %q not found", id)
	return Achievement{}
}

func TestAchievementsEmptyHistory(t *testing.T) {
	list := Achievements(nil, nil, base)
	require.Len(t, list, 9)
	assert.Equal(t, 0, UnlockedCount(list))
	for _, a := range list {
		assert.Nil(t, a.UnlockedAt, a.ID)
		assert.Equal(t, 0.0, a.Progress, a.ID)
	}
}

func TestAchievementsUnlock(t *testing.T) {
	practice := make([]model.PracticeSession, 0, 10)
	for i := 0; i < 10; i++ {
		practice = append(practice, model.PracticeSession{
			DurationSeconds: model.Ptr(int64(400)),
			OverallScore:    model.Ptr(9.0),
			CreatedAt:       base.Add(-time.Duration(i) * 12 * time.Hour),
		})
	}
	practice[3].DurationSeconds = model.Ptr(int64(1800))
	debate := debatePairs([2]float64{5, 6}, [2]float64{8, 7}, [2]float64{9, 1})

	list := Achievements(practice, debate, base)
	assert.Equal(t, 9, UnlockedCount(list))

	first := achievementByID(t, list, "first-practice")
	require.NotNil(t, first.UnlockedAt)
	assert.True(t, first.UnlockedAt.Equal(base.Add(-9*12*time.Hour)))

	five := achievementByID(t, list, "practice-5")
	require.NotNil(t, five.UnlockedAt)
	assert.True(t, five.UnlockedAt.Equal(base.Add(-5*12*time.Hour)))

	dedicated := achievementByID(t, list, "practice-10")
	assert.Equal(t, "Dedicated Learner", dedicated.Title)
	require.NotNil(t, dedicated.UnlockedAt)
	assert.True(t, dedicated.UnlockedAt.Equal(base))
	assert.Equal(t, 100.0, dedicated.Progress)

	invested := achievementByID(t, list, "time-30min")
	require.NotNil(t, invested.UnlockedAt)
	assert.True(t, invested.UnlockedAt.Equal(base.Add(-3*12*time.Hour)))

	above := achievementByID(t, list, "score-7")
	require.NotNil(t, above.UnlockedAt)
	assert.True(t, above.UnlockedAt.Equal(base.Add(-9*12*time.Hour)))

	win := achievementByID(t, list, "first-win")
	require.NotNil(t, win.UnlockedAt)
	assert.True(t, win.UnlockedAt.Equal(base.Add(time.Minute)))

	weekly := achievementByID(t, list, "weekly-consistency")
	require.NotNil(t, weekly.UnlockedAt)
	assert.True(t, weekly.UnlockedAt.Equal(base.Add(-9*12*time.Hour)))
}

func TestAchievementsThresholds(t *testing.T) {
	practice := make([]model.PracticeSession, 0, 5)
	for i := 0; i < 5; i++ {
		practice = append(practice, model.PracticeSession{
			DurationSeconds: model.Ptr(int64(400)),
			OverallScore:    model.Ptr(7.0),
			CreatedAt:       base.AddDate(0, 0, -10-i),
		})
	}
	debate := debatePairs([2]float64{8, 6}, [2]float64{5, 6})

	list := Achievements(practice, debate, base)
	for _, id := range []string{"first-practice", "practice-5", "time-30min", "score-7", "first-debate", "first-win", "winning-streak"} {
		assert.True(t, achievementByID(t, list, id).Unlocked, id)
	}
	for _, id := range []string{"practice-10", "weekly-consistency"} {
		assert.False(t, achievementByID(t, list, id).Unlocked, id)
	}
	assert.Equal(t, 7, UnlockedCount(list))

	// No single session reached 30 minutes.
	assert.Nil(t, achievementByID(t, list, "time-30min").UnlockedAt)
	assert.Equal(t, 50.0, achievementByID(t, list, "practice-10").Progress)
}

func TestWinningStreakNeedsTwoDebates(t *testing.T) {
	one := achievementByID(t, Achievements(nil, debatePairs([2]float64{8, 7}), base), "winning-streak")
	assert.False(t, one.Unlocked)
	assert.Equal(t, 0.0, one.Progress)

	losing := debatePairs([2]float64{8, 7}, [2]float64{5, 6}, [2]float64{4, 6})
	a := achievementByID(t, Achievements(nil, losing, base), "winning-streak")
	assert.False(t, a.Unlocked)
	assert.InDelta(t, 33.33, a.Progress, 0.01)

	first := achievementByID(t, Achievements(nil, losing, base), "first-win")
	assert.True(t, first.Unlocked)
}

func TestWeeklyConsistencyCountsLastSevenDays(t *testing.T) {
	practice := []model.PracticeSession{
		{CreatedAt: base.Add(-time.Hour)},
		{CreatedAt: base.Add(-72 * time.Hour)},
		{CreatedAt: base.AddDate(0, 0, -8)},
	}
	a := achievementByID(t, Achievements(practice, nil, base), "weekly-consistency")
	assert.False(t, a.Unlocked)
	assert.Equal(t, 2.0, a.Current)
}
