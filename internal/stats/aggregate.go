// Package stats contains session statistics and reporting.
package stats

import (
	"math"
	"sort"
	"time"

	"github.com/verte-zerg/podium/internal/model"
)

// DefaultRecentLimit is the number of activities shown when no limit is given.
const DefaultRecentLimit = 5

// Activity is a practice or debate session tagged for a merged feed.
type Activity struct {
	Kind            model.SessionKind
	ID              string
	Title           string
	Score           float64
	DurationSeconds int64
	CreatedAt       time.Time
}

// DayBucket counts sessions on one calendar day.
type DayBucket struct {
	Date          time.Time
	PracticeCount int
	DebateCount   int
	Total         int
}

// Label renders the bucket date the way the activity chart shows it.
func (b DayBucket) Label() string {
	return b.Date.Format("Jan 02")
}

// scoreValue treats absent, non-finite, and negative values as zero.
func scoreValue(v *float64) float64 {
	if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) || *v < 0 {
		return 0
	}
	return *v
}

func durationValue(v *int64) int64 {
	if v == nil || *v < 0 {
		return 0
	}
	return *v
}

// Score selectors for AverageScore.

func OverallScore(s model.PracticeSession) *float64    { return s.OverallScore }
func ClarityScore(s model.PracticeSession) *float64    { return s.ClarityScore }
func PaceScore(s model.PracticeSession) *float64       { return s.PaceScore }
func VolumeScore(s model.PracticeSession) *float64     { return s.VolumeScore }
func ToneScore(s model.PracticeSession) *float64       { return s.ToneScore }
func EngagementScore(s model.PracticeSession) *float64 { return s.EngagementScore }
func UserScore(s model.DebateSession) *float64         { return s.UserScore }
func AIScore(s model.DebateSession) *float64           { return s.AIScore }

// Duration selectors for TotalDuration.

func PracticeDuration(s model.PracticeSession) *int64 { return s.DurationSeconds }
func DebateDuration(s model.DebateSession) *int64     { return s.DurationSeconds }

// TotalSessions counts both kinds of sessions.
func TotalSessions(practice []model.PracticeSession, debate []model.DebateSession) int {
	return len(practice) + len(debate)
}

// AverageScore is the mean of field over sessions, 0 for no sessions.
func AverageScore[T any](sessions []T, field func(T) *float64) float64 {
	if len(sessions) == 0 {
		return 0
	}
	var sum float64
	for _, s := range sessions {
		sum += scoreValue(field(s))
	}
	return sum / float64(len(sessions))
}

// TotalDuration sums durations in seconds.
func TotalDuration[T any](sessions []T, duration func(T) *int64) int64 {
	var total int64
	for _, s := range sessions {
		total += durationValue(duration(s))
	}
	return total
}

// DurationMinutes converts seconds to whole minutes, rounding half up.
func DurationMinutes(seconds int64) int64 {
	if seconds <= 0 {
		return 0
	}
	return int64(math.Round(float64(seconds) / 60))
}

// DebatesWon counts debates where the user outscored the opponent.
func DebatesWon(debates []model.DebateSession) int {
	won := 0
	for _, d := range debates {
		if scoreValue(d.UserScore) > scoreValue(d.AIScore) {
			won++
		}
	}
	return won
}

// WinRate is the percentage of debates won, 0 for no debates.
func WinRate(debates []model.DebateSession) float64 {
	if len(debates) == 0 {
		return 0
	}
	return float64(DebatesWon(debates)) / float64(len(debates)) * 100
}

// ProgressPercent maps a 0-10 score onto a 0-100 progress bar.
func ProgressPercent(score float64) float64 {
	if math.IsNaN(score) || math.IsInf(score, 0) {
		return 0
	}
	return math.Max(0, math.Min(100, score*10))
}

// RecentActivity merges both lists, newest first. Ties keep merge order, so
// practice sessions precede debates created at the same instant.
func RecentActivity(practice []model.PracticeSession, debate []model.DebateSession, limit int) []Activity {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	all := make([]Activity, 0, len(practice)+len(debate))
	for _, p := range practice {
		title := p.Title
		if title == "" {
			title = "Speech Session"
		}
		all = append(all, Activity{
			Kind:            model.KindPractice,
			ID:              p.ID,
			Title:           title,
			Score:           scoreValue(p.OverallScore),
			DurationSeconds: durationValue(p.DurationSeconds),
			CreatedAt:       p.CreatedAt,
		})
	}
	for _, d := range debate {
		all = append(all, Activity{
			Kind:            model.KindDebate,
			ID:              d.ID,
			Title:           "Debate - " + d.Position,
			Score:           scoreValue(d.UserScore),
			DurationSeconds: durationValue(d.DurationSeconds),
			CreatedAt:       d.CreatedAt,
		})
	}
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})
	if len(all) > limit {
		all = all[:limit]
	}
	return all
}

// startOfDay returns local midnight of t in loc.
func startOfDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// DailyActivityBuckets returns one bucket per calendar day in loc for the
// trailing windowDays days ending today, oldest first.
func DailyActivityBuckets(practice []model.PracticeSession, debate []model.DebateSession, windowDays int, now time.Time, loc *time.Location) []DayBucket {
	if windowDays <= 0 {
		return nil
	}
	if loc == nil {
		loc = time.Local
	}
	today := startOfDay(now, loc)
	buckets := make([]DayBucket, windowDays)
	index := make(map[string]int, windowDays)
	for i := 0; i < windowDays; i++ {
		day := today.AddDate(0, 0, i-(windowDays-1))
		buckets[i].Date = day
		index[day.Format(time.DateOnly)] = i
	}
	for _, p := range practice {
		if i, ok := index[p.CreatedAt.In(loc).Format(time.DateOnly)]; ok {
			buckets[i].PracticeCount++
			buckets[i].Total++
		}
	}
	for _, d := range debate {
		if i, ok := index[d.CreatedAt.In(loc).Format(time.DateOnly)]; ok {
			buckets[i].DebateCount++
			buckets[i].Total++
		}
	}
	return buckets
}
