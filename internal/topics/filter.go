package topics

import (
	"strings"

	"github.com/verte-zerg/podium/internal/model"
)

// FilterFunc returns true when a topic should be kept.
type FilterFunc func(model.Topic) bool

// AtMost keeps topics at or below level. Non-positive levels keep everything.
func AtMost(level int) FilterFunc {
	if level <= 0 {
		return func(model.Topic) bool { return true }
	}
	return func(t model.Topic) bool { return t.Difficulty <= level }
}

// InCategory keeps topics in category, ignoring case. Empty keeps everything.
func InCategory(category string) FilterFunc {
	category = strings.TrimSpace(category)
	if category == "" {
		return func(model.Topic) bool { return true }
	}
	return func(t model.Topic) bool { return strings.EqualFold(t.Category, category) }
}

// Filter returns the topics every filter keeps.
func Filter(list []model.Topic, filters ...FilterFunc) []model.Topic {
	out := make([]model.Topic, 0, len(list))
next:
	for _, t := range list {
		for _, f := range filters {
			if !f(t) {
				continue next
			}
		}
		out = append(out, t)
	}
	return out
}
