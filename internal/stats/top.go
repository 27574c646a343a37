package stats

import (
	"sort"

	"github.com/verte-zerg/podium/internal/model"
)

// TopicStat summarizes sessions that share a topic.
type TopicStat struct {
	Name         string
	Sessions     int
	AverageScore float64
}

// TopTopics returns the n most practiced topics. Practice sessions group by
// title and debates by position.
func TopTopics(practice []model.PracticeSession, debate []model.DebateSession, n int) []TopicStat {
	if n <= 0 || TotalSessions(practice, debate) == 0 {
		return nil
	}
	type acc struct {
		count int
		sum   float64
	}
	groups := map[string]*acc{}
	add := func(name string, score float64) {
		if name == "" {
			name = "Untitled"
		}
		g, ok := groups[name]
		if !ok {
			g = &acc{}
			groups[name] = g
		}
		g.count++
		g.sum += score
	}
	for _, p := range practice {
		add(p.Title, scoreValue(p.OverallScore))
	}
	for _, d := range debate {
		add(d.Position, scoreValue(d.UserScore))
	}

	items := make([]TopicStat, 0, len(groups))
	for name, g := range groups {
		items = append(items, TopicStat{
			Name:         name,
			Sessions:     g.count,
			AverageScore: round1(g.sum / float64(g.count)),
		})
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Sessions == items[j].Sessions {
			return items[i].Name < items[j].Name
		}
		return items[i].Sessions > items[j].Sessions
	})
	if n > len(items) {
		n = len(items)
	}
	return items[:n]
}
