package stats

import (
	"sort"

	"github.com/verte-zerg/podium/internal/model"
)

// SkillScore is the average of one practice sub-score.
type SkillScore struct {
	Skill   string
	Average float64
}

var skillFields = []struct {
	name  string
	field func(model.PracticeSession) *float64
}{
	{name: "clarity", field: ClarityScore},
	{name: "pace", field: PaceScore},
	{name: "volume", field: VolumeScore},
	{name: "tone", field: ToneScore},
	{name: "engagement", field: EngagementScore},
}

// SelectWeakSkills returns the lowest-averaging skills over the most recent
// window practice sessions, weakest first.
func SelectWeakSkills(practice []model.PracticeSession, window, top int) []SkillScore {
	if len(practice) == 0 {
		return nil
	}
	recent := append([]model.PracticeSession(nil), practice...)
	sort.SliceStable(recent, func(i, j int) bool {
		return recent[i].CreatedAt.After(recent[j].CreatedAt)
	})
	if window > 0 && len(recent) > window {
		recent = recent[:window]
	}

	candidates := make([]SkillScore, 0, len(skillFields))
	for _, sf := range skillFields {
		candidates = append(candidates, SkillScore{Skill: sf.name, Average: AverageScore(recent, sf.field)})
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].Average == candidates[j].Average {
			return candidates[i].Skill < candidates[j].Skill
		}
		return candidates[i].Average < candidates[j].Average
	})
	if top <= 0 || top > len(candidates) {
		top = len(candidates)
	}
	return candidates[:top]
}
