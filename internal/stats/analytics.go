package stats

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/verte-zerg/podium/internal/model"
)

// Window is a trailing aggregation span.
type Window struct {
	Label string
	Days  int
}

var (
	Window7d  = Window{Label: "7d", Days: 7}
	Window30d = Window{Label: "30d", Days: 30}
	Window90d = Window{Label: "90d", Days: 90}
)

// Windows lists the supported windows in display order.
var Windows = []Window{Window7d, Window30d, Window90d}

// ParseWindow parses "7d", "30d", or "90d". Empty means 7d.
func ParseWindow(s string) (Window, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return Window7d, nil
	}
	for _, w := range Windows {
		if w.Label == s {
			return w, nil
		}
	}
	return Window{}, fmt.Errorf("unknown window %q (use 7d, 30d, or 90d)", s)
}

// Cutoff is the earliest instant inside the window.
func (w Window) Cutoff(now time.Time) time.Time {
	return now.Add(-time.Duration(w.Days) * 24 * time.Hour)
}

// Summary is the all-time dashboard view.
type Summary struct {
	TotalSessions    int
	AvgPracticeScore float64
	PracticeMinutes  int64
	DebatesWon       int
	TotalDebates     int
	WinRate          float64
}

// SkillBreakdown holds the five practice sub-scores.
type SkillBreakdown struct {
	Clarity    float64
	Pace       float64
	Volume     float64
	Tone       float64
	Engagement float64
}

// Analytics is the windowed analytics view.
type Analytics struct {
	Window         Window
	TotalSessions  int
	SpeechMinutes  int64
	AvgSpeechScore float64
	DebateMinutes  int64
	AvgDebateScore float64
	WinRate        float64
	Skills         SkillBreakdown
	Daily          []DayBucket
	ActiveDays     int
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// FilterSince returns new slices holding sessions created at or after cutoff.
func FilterSince(practice []model.PracticeSession, debate []model.DebateSession, cutoff time.Time) ([]model.PracticeSession, []model.DebateSession) {
	p := make([]model.PracticeSession, 0, len(practice))
	for _, s := range practice {
		if !s.CreatedAt.Before(cutoff) {
			p = append(p, s)
		}
	}
	d := make([]model.DebateSession, 0, len(debate))
	for _, s := range debate {
		if !s.CreatedAt.Before(cutoff) {
			d = append(d, s)
		}
	}
	return p, d
}

// Summarize computes the all-time dashboard numbers.
func Summarize(practice []model.PracticeSession, debate []model.DebateSession) Summary {
	return Summary{
		TotalSessions:    TotalSessions(practice, debate),
		AvgPracticeScore: round1(AverageScore(practice, OverallScore)),
		PracticeMinutes:  DurationMinutes(TotalDuration(practice, PracticeDuration)),
		DebatesWon:       DebatesWon(debate),
		TotalDebates:     len(debate),
		WinRate:          WinRate(debate),
	}
}

// LatestSkills returns the sub-scores of the newest practice session.
func LatestSkills(practice []model.PracticeSession) SkillBreakdown {
	if len(practice) == 0 {
		return SkillBreakdown{}
	}
	latest := practice[0]
	for _, p := range practice[1:] {
		if p.CreatedAt.After(latest.CreatedAt) {
			latest = p
		}
	}
	return SkillBreakdown{
		Clarity:    scoreValue(latest.ClarityScore),
		Pace:       scoreValue(latest.PaceScore),
		Volume:     scoreValue(latest.VolumeScore),
		Tone:       scoreValue(latest.ToneScore),
		Engagement: scoreValue(latest.EngagementScore),
	}
}

// Analyze computes windowed analytics.
func Analyze(practice []model.PracticeSession, debate []model.DebateSession, w Window, now time.Time, loc *time.Location) Analytics {
	p, d := FilterSince(practice, debate, w.Cutoff(now))
	daily := DailyActivityBuckets(p, d, w.Days, now, loc)
	active := 0
	for _, b := range daily {
		if b.Total > 0 {
			active++
		}
	}
	return Analytics{
		Window:         w,
		TotalSessions:  TotalSessions(p, d),
		SpeechMinutes:  DurationMinutes(TotalDuration(p, PracticeDuration)),
		AvgSpeechScore: round1(AverageScore(p, OverallScore)),
		DebateMinutes:  DurationMinutes(TotalDuration(d, DebateDuration)),
		AvgDebateScore: round1(AverageScore(d, UserScore)),
		WinRate:        math.Round(WinRate(d)),
		Skills:         LatestSkills(p),
		Daily:          daily,
		ActiveDays:     active,
	}
}

// PracticeStreak counts consecutive days with at least one session, ending
// today, or yesterday when nothing has happened yet today.
func PracticeStreak(practice []model.PracticeSession, debate []model.DebateSession, now time.Time, loc *time.Location) int {
	if loc == nil {
		loc = time.Local
	}
	days := map[string]struct{}{}
	for _, p := range practice {
		days[p.CreatedAt.In(loc).Format(time.DateOnly)] = struct{}{}
	}
	for _, d := range debate {
		days[d.CreatedAt.In(loc).Format(time.DateOnly)] = struct{}{}
	}
	day := startOfDay(now, loc)
	if _, ok := days[day.Format(time.DateOnly)]; !ok {
		day = day.AddDate(0, 0, -1)
	}
	streak := 0
	for {
		if _, ok := days[day.Format(time.DateOnly)]; !ok {
			return streak
		}
		streak++
		day = day.AddDate(0, 0, -1)
	}
}
