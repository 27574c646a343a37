package stats

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/podium/internal/model"
)

func TestMovingAverage(t *testing.T) {
	assert.Equal(t, []float64{2, 3, 5}, MovingAverage([]float64{2, 4, 6}, 2))
	assert.Equal(t, []float64{1, 2}, MovingAverage([]float64{1, 2}, 1))
	assert.Empty(t, MovingAverage(nil, 3))
}

func TestScoreTrendIsOldestFirst(t *testing.T) {
	practice := []model.PracticeSession{
		{OverallScore: model.Ptr(9.0), CreatedAt: base.Add(time.Hour)},
		{OverallScore: model.Ptr(3.0), CreatedAt: base},
	}
	assert.Equal(t, []float64{3, 9}, ScoreTrend(practice, 1))
}

func TestSparkline(t *testing.T) {
	assert.Equal(t, "", Sparkline(nil))
	assert.Equal(t, " @", Sparkline([]float64{1, 5}))
	assert.Equal(t, "+++", Sparkline([]float64{2, 2, 2}))
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "0m", FormatDuration(0))
	assert.Equal(t, "45s", FormatDuration(45))
	assert.Equal(t, "12m", FormatDuration(720))
	assert.Equal(t, "1h 05m", FormatDuration(3900))
}

func TestRenderSummaryEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderSummary(&buf, Summary{}, 0))
	assert.Contains(t, buf.String(), "No sessions found.")
}

func TestRenderActivityBars(t *testing.T) {
	daily := []DayBucket{
		{Date: base.AddDate(0, 0, -1)},
		{Date: base, PracticeCount: 2, DebateCount: 1, Total: 3},
	}
	var buf bytes.Buffer
	require.NoError(t, RenderActivity(&buf, daily, 40, false))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Daily Activity", lines[0])
	assert.NotContains(t, lines[1], barFill)
	assert.Contains(t, lines[2], "May 10")
	assert.Contains(t, lines[2], "3 (2p/1d)")
	assert.NotContains(t, lines[2], barEmpty)
}

func TestBarCells(t *testing.T) {
	assert.Equal(t, 0, barCells(0, 10, 20))
	assert.Equal(t, 10, barCells(5, 10, 20))
	assert.Equal(t, 20, barCells(50, 10, 20))
	assert.Equal(t, 0, barCells(3, 0, 20))
	assert.Equal(t, minBarWidth, BarWidthFor(5, 6, 6))
}

func TestRenderReport(t *testing.T) {
	practice := practiceScored(model.Ptr(8.0))
	practice[0].Title = "Pitch"
	debate := debatePairs([2]float64{8, 7})
	r := Report{
		UserID:       "alice",
		GeneratedAt:  base.Add(time.Hour),
		Summary:      Summarize(practice, debate),
		Analytics:    Analyze(practice, debate, Window7d, base.Add(time.Hour), time.UTC),
		Recent:       RecentActivity(practice, debate, 5),
		Achievements: Achievements(practice, debate, base),
		TopTopics:    TopTopics(practice, debate, 5),
		Teams: []model.Team{{
			ID:      "t1",
			Name:    "Orators",
			Members: []model.TeamMember{{UserID: "alice", Role: model.RoleLeader}},
		}},
	}
	var buf bytes.Buffer
	require.NoError(t, RenderReport(&buf, r, 60, false))
	out := buf.String()
	for _, want := range []string{"Summary", "Analytics (7d)", "Recent Activity", "Debate - for", "Top Topics", "Achievements (4/9)", "Orators", "leader"} {
		assert.Contains(t, out, want)
	}
}
