package stats

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/verte-zerg/podium/internal/model"
)

const sparkChars = " .:-=+*#%@"

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	if window <= 1 || len(values) == 0 {
		copy(out, values)
		return out
	}
	var sum float64
	for i, v := range values {
		sum += v
		den := float64(i + 1)
		if i >= window {
			sum -= values[i-window]
			den = float64(window)
		}
		out[i] = sum / den
	}
	return out
}

// ScoreTrend returns the overall practice score, oldest first, smoothed over
// window sessions.
func ScoreTrend(practice []model.PracticeSession, window int) []float64 {
	sorted := append([]model.PracticeSession(nil), practice...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.Before(sorted[j].CreatedAt)
	})
	values := make([]float64, len(sorted))
	for i, p := range sorted {
		values[i] = scoreValue(p.OverallScore)
	}
	return MovingAverage(values, window)
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal, maxVal := values[0], values[0]
	for _, v := range values[1:] {
		minVal = math.Min(minVal, v)
		maxVal = math.Max(maxVal, v)
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		idx = max(0, min(len(sparkChars)-1, idx))
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// FormatDuration renders seconds as "1h 05m", "12m", or "45s".
func FormatDuration(seconds int64) string {
	if seconds <= 0 {
		return "0m"
	}
	d := time.Duration(seconds) * time.Second
	h := int64(d / time.Hour)
	m := int64((d % time.Hour) / time.Minute)
	switch {
	case h > 0:
		return fmt.Sprintf("%dh %02dm", h, m)
	case m > 0:
		return fmt.Sprintf("%dm", m)
	default:
		return fmt.Sprintf("%ds", seconds)
	}
}

// FormatAgo renders how long before now t happened.
func FormatAgo(t, now time.Time) string {
	d := now.Sub(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d/time.Minute))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d/time.Hour))
	default:
		return fmt.Sprintf("%dd ago", int(d/(24*time.Hour)))
	}
}

func writeLines(w io.Writer, lines ...string) error {
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderSummary prints the all-time dashboard numbers.
func RenderSummary(w io.Writer, s Summary, streak int) error {
	if s.TotalSessions == 0 {
		return writeLines(w, "No sessions found.", "")
	}
	return writeLines(w,
		"Summary",
		fmt.Sprintf("Sessions: %d", s.TotalSessions),
		fmt.Sprintf("Avg Practice Score: %.1f/10", s.AvgPracticeScore),
		fmt.Sprintf("Practice Time: %dm", s.PracticeMinutes),
		fmt.Sprintf("Debates Won: %d/%d (%.1f%%)", s.DebatesWon, s.TotalDebates, s.WinRate),
		fmt.Sprintf("Streak: %d days", streak),
		"",
	)
}

// RenderAnalytics prints the windowed analytics and the daily activity chart.
func RenderAnalytics(w io.Writer, a Analytics, totalWidth int, useColor bool) error {
	if err := writeLines(w,
		fmt.Sprintf("Analytics (%s)", a.Window.Label),
		fmt.Sprintf("Sessions: %d (%d active days)", a.TotalSessions, a.ActiveDays),
		fmt.Sprintf("Speech: %dm, avg %.1f/10", a.SpeechMinutes, a.AvgSpeechScore),
		fmt.Sprintf("Debate: %dm, avg %.1f/10, win rate %.0f%%", a.DebateMinutes, a.AvgDebateScore, a.WinRate),
		"",
	); err != nil {
		return err
	}
	if err := RenderSkills(w, a.Skills, totalWidth, useColor); err != nil {
		return err
	}
	return RenderActivity(w, a.Daily, totalWidth, useColor)
}

// RenderSkills prints the latest sub-scores as progress bars.
func RenderSkills(w io.Writer, s SkillBreakdown, totalWidth int, useColor bool) error {
	bars := []Bar{
		{Label: "Clarity", Value: ProgressPercent(s.Clarity), Text: fmt.Sprintf("%.1f", s.Clarity)},
		{Label: "Pace", Value: ProgressPercent(s.Pace), Text: fmt.Sprintf("%.1f", s.Pace)},
		{Label: "Volume", Value: ProgressPercent(s.Volume), Text: fmt.Sprintf("%.1f", s.Volume)},
		{Label: "Tone", Value: ProgressPercent(s.Tone), Text: fmt.Sprintf("%.1f", s.Tone)},
		{Label: "Engagement", Value: ProgressPercent(s.Engagement), Text: fmt.Sprintf("%.1f", s.Engagement)},
	}
	return PlotBars(w, "Latest Skills", bars, 100, totalWidth, useColor)
}

// RenderActivity prints one bar per day.
func RenderActivity(w io.Writer, daily []DayBucket, totalWidth int, useColor bool) error {
	if len(daily) == 0 {
		return nil
	}
	bars := make([]Bar, 0, len(daily))
	maxTotal := 0
	for _, b := range daily {
		maxTotal = max(maxTotal, b.Total)
		bars = append(bars, Bar{
			Label: b.Label(),
			Value: float64(b.Total),
			Text:  fmt.Sprintf("%d (%dp/%dd)", b.Total, b.PracticeCount, b.DebateCount),
		})
	}
	return PlotBars(w, "Daily Activity", bars, float64(max(maxTotal, 1)), totalWidth, useColor)
}

// titleMaxWidth caps free-text table columns.
const titleMaxWidth = 40

// RenderRecent prints the merged activity feed.
func RenderRecent(w io.Writer, recent []Activity, now time.Time) error {
	if len(recent) == 0 {
		return writeLines(w, "No recent activity.", "")
	}
	rows := make([][]string, 0, len(recent))
	for _, a := range recent {
		rows = append(rows, []string{
			string(a.Kind),
			a.Title,
			fmt.Sprintf("%.1f", a.Score),
			FormatDuration(a.DurationSeconds),
			FormatAgo(a.CreatedAt, now),
		})
	}
	lines := formatTable([]column{
		{Title: "Kind"},
		{Title: "Title", Max: titleMaxWidth},
		{Title: "Score", Right: true},
		{Title: "Time", Right: true},
		{Title: "When"},
	}, rows)
	return writeLines(w, append(append([]string{"Recent Activity"}, lines...), "")...)
}

// RenderAchievements prints milestones and their progress.
func RenderAchievements(w io.Writer, achievements []Achievement) error {
	rows := make([][]string, 0, len(achievements))
	for _, a := range achievements {
		status := fmt.Sprintf("%.0f%%", a.Progress)
		if a.Unlocked {
			status = "unlocked"
			if a.UnlockedAt != nil {
				status += " " + a.UnlockedAt.Format(time.DateOnly)
			}
		}
		rows = append(rows, []string{a.Title, a.Description, status})
	}
	header := fmt.Sprintf("Achievements (%d/%d)", UnlockedCount(achievements), len(achievements))
	lines := formatTable([]column{
		{Title: "Title"},
		{Title: "Goal", Max: titleMaxWidth},
		{Title: "Status"},
	}, rows)
	return writeLines(w, append(append([]string{header}, lines...), "")...)
}

// RenderTopTopics prints the most practiced topics.
func RenderTopTopics(w io.Writer, topics []TopicStat) error {
	if len(topics) == 0 {
		return nil
	}
	rows := make([][]string, 0, len(topics))
	for _, t := range topics {
		rows = append(rows, []string{t.Name, fmt.Sprintf("%d", t.Sessions), fmt.Sprintf("%.1f", t.AverageScore)})
	}
	lines := formatTable([]column{
		{Title: "Topic", Max: titleMaxWidth},
		{Title: "Sessions", Right: true},
		{Title: "Avg Score", Right: true},
	}, rows)
	return writeLines(w, append(append([]string{"Top Topics"}, lines...), "")...)
}

// RenderWeakSkills prints the skills that need the most work and the score trend.
func RenderWeakSkills(w io.Writer, weak []SkillScore, trend []float64) error {
	if len(weak) == 0 {
		return nil
	}
	parts := make([]string, 0, len(weak))
	for _, s := range weak {
		parts = append(parts, fmt.Sprintf("%s %.1f", s.Skill, s.Average))
	}
	return writeLines(w,
		"Focus Areas: "+strings.Join(parts, ", "),
		"Score Trend: "+Sparkline(trend),
		"",
	)
}

// RenderTeams prints the user's teams and members.
func RenderTeams(w io.Writer, teams []model.Team, userID string) error {
	if len(teams) == 0 {
		return writeLines(w, "No teams.", "")
	}
	rows := make([][]string, 0, len(teams))
	for _, t := range teams {
		role := string(model.RoleMember)
		for _, m := range t.Members {
			if m.UserID == userID {
				role = string(m.Role)
			}
		}
		rows = append(rows, []string{t.Name, t.ID, role, fmt.Sprintf("%d", len(t.Members))})
	}
	lines := formatTable([]column{
		{Title: "Team", Max: titleMaxWidth},
		{Title: "ID"},
		{Title: "Role"},
		{Title: "Members", Right: true},
	}, rows)
	return writeLines(w, append(append([]string{"Teams"}, lines...), "")...)
}

// RenderReport prints every section of a report.
func RenderReport(w io.Writer, r Report, totalWidth int, useColor bool) error {
	if err := RenderSummary(w, r.Summary, r.Streak); err != nil {
		return err
	}
	if err := RenderAnalytics(w, r.Analytics, totalWidth, useColor); err != nil {
		return err
	}
	if err := RenderWeakSkills(w, r.WeakSkills, r.ScoreTrend); err != nil {
		return err
	}
	if err := RenderRecent(w, r.Recent, r.GeneratedAt); err != nil {
		return err
	}
	if err := RenderTopTopics(w, r.TopTopics); err != nil {
		return err
	}
	if err := RenderAchievements(w, r.Achievements); err != nil {
		return err
	}
	return RenderTeams(w, r.Teams, r.UserID)
}
