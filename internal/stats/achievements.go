package stats

import (
	"math"
	"sort"
	"time"

	"github.com/verte-zerg/podium/internal/model"
)

// Achievement is a milestone derived from session history.
type Achievement struct {
	ID          string
	Title       string
	Description string
	Category    string
	Current     float64
	Required    float64
	Progress    float64
	Unlocked    bool
	UnlockedAt  *time.Time
}

func newAchievement(id, title, desc, category string, current, required float64) Achievement {
	a := Achievement{
		ID:          id,
		Title:       title,
		Description: desc,
		Category:    category,
		Current:     current,
		Required:    required,
		Unlocked:    current >= required,
	}
	if required > 0 {
		a.Progress = math.Max(0, math.Min(100, current/required*100))
	}
	return a
}

// nthOldest returns the creation time of the n-th oldest timestamp (1-based).
func nthOldest(times []time.Time, n int) *time.Time {
	if n <= 0 || len(times) < n {
		return nil
	}
	sorted := append([]time.Time(nil), times...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Before(sorted[j]) })
	t := sorted[n-1]
	return &t
}

// firstWhere returns the oldest creation time among sessions matching keep.
func firstWhere[T any](sessions []T, createdAt func(T) time.Time, keep func(T) bool) *time.Time {
	var first *time.Time
	for _, s := range sessions {
		if !keep(s) {
			continue
		}
		if t := createdAt(s); first == nil || t.Before(*first) {
			first = &t
		}
	}
	return first
}

func practiceCreated(s model.PracticeSession) time.Time { return s.CreatedAt }
func debateCreated(s model.DebateSession) time.Time     { return s.CreatedAt }

func debateWon(s model.DebateSession) bool {
	return scoreValue(s.UserScore) > scoreValue(s.AIScore)
}

// countMilestone unlocks at the n-th oldest session.
func countMilestone(id, title, desc, category string, times []time.Time, n int) Achievement {
	a := newAchievement(id, title, desc, category, float64(len(times)), float64(n))
	if a.Unlocked {
		a.UnlockedAt = nthOldest(times, n)
	}
	return a
}

// Achievements evaluates all milestones.
func Achievements(practice []model.PracticeSession, debate []model.DebateSession, now time.Time) []Achievement {
	practiceTimes := make([]time.Time, len(practice))
	for i, p := range practice {
		practiceTimes[i] = p.CreatedAt
	}
	debateTimes := make([]time.Time, len(debate))
	for i, d := range debate {
		debateTimes[i] = d.CreatedAt
	}

	firstSteps := countMilestone("first-practice", "First Steps", "Complete your first practice session", "practice", practiceTimes, 1)
	gettingStarted := countMilestone("practice-5", "Getting Started", "Complete 5 practice sessions", "practice", practiceTimes, 5)
	dedicated := countMilestone("practice-10", "Dedicated Learner", "Complete 10 practice sessions", "practice", practiceTimes, 10)

	timeInvested := newAchievement("time-30min", "Time Investment", "Spend 30 minutes practicing", "practice",
		float64(TotalDuration(practice, PracticeDuration)), 1800)
	if timeInvested.Unlocked {
		timeInvested.UnlockedAt = firstWhere(practice, practiceCreated, func(s model.PracticeSession) bool {
			return durationValue(s.DurationSeconds) >= 1800
		})
	}

	aboveAverage := newAchievement("score-7", "Above Average", "Maintain an average score of 7.0+", "practice",
		AverageScore(practice, OverallScore), 7)
	if aboveAverage.Unlocked {
		aboveAverage.UnlockedAt = firstWhere(practice, practiceCreated, func(s model.PracticeSession) bool {
			return scoreValue(s.OverallScore) >= 7
		})
	}

	debut := countMilestone("first-debate", "Debate Debut", "Complete your first debate", "debate", debateTimes, 1)

	won := DebatesWon(debate)
	firstWin := newAchievement("first-win", "First Victory", "Win your first debate", "debate", float64(won), 1)
	if firstWin.Unlocked {
		firstWin.UnlockedAt = firstWhere(debate, debateCreated, debateWon)
	}

	winning := newAchievement("winning-streak", "Winning Streak", "Maintain a 50%+ win rate", "debate",
		WinRate(debate), 50)
	switch {
	case len(debate) < 2:
		winning.Unlocked = false
		winning.Progress = 0
	case winning.Unlocked:
		winning.UnlockedAt = firstWhere(debate, debateCreated, debateWon)
	default:
		winning.Progress = winning.Current
	}

	cutoff := Window7d.Cutoff(now)
	inWeek := func(s model.PracticeSession) bool { return !s.CreatedAt.Before(cutoff) }
	thisWeek := 0
	for _, p := range practice {
		if inWeek(p) {
			thisWeek++
		}
	}
	weekly := newAchievement("weekly-consistency", "Weekly Warrior", "Practice 3+ times this week", "consistency",
		float64(thisWeek), 3)
	if weekly.Unlocked {
		weekly.UnlockedAt = firstWhere(practice, practiceCreated, inWeek)
	}

	return []Achievement{firstSteps, gettingStarted, dedicated, timeInvested, aboveAverage, debut, firstWin, winning, weekly}
}

// UnlockedCount counts unlocked achievements.
func UnlockedCount(achievements []Achievement) int {
	n := 0
	for _, a := range achievements {
		if a.Unlocked {
			n++
		}
	}
	return n
}
