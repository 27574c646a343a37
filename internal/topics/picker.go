package topics

import (
	"math/rand"
	"time"

	"github.com/verte-zerg/podium/internal/model"
)

// Picker chooses topics at random.
type Picker struct {
	rnd *rand.Rand
}

// NewPicker returns a Picker seeded with the current time.
func NewPicker() *Picker {
	return NewSeededPicker(time.Now().UnixNano())
}

// NewSeededPicker returns a deterministic Picker.
func NewSeededPicker(seed int64) *Picker {
	return &Picker{rnd: rand.New(rand.NewSource(seed))}
}

// Pick selects uniformly among topics at or below maxDifficulty.
func (p *Picker) Pick(list []model.Topic, maxDifficulty int) (model.Topic, error) {
	candidates := Filter(list, AtMost(maxDifficulty))
	if len(candidates) == 0 {
		return model.Topic{}, ErrNoTopics
	}
	return candidates[p.rnd.Intn(len(candidates))], nil
}

// PickFresh selects among topics at or below maxDifficulty with a bias
// toward titles practiced less often. practiced maps titles to session counts.
func (p *Picker) PickFresh(list []model.Topic, maxDifficulty int, practiced map[string]int) (model.Topic, error) {
	candidates := Filter(list, AtMost(maxDifficulty))
	if len(candidates) == 0 {
		return model.Topic{}, ErrNoTopics
	}
	weights := make([]float64, len(candidates))
	total := 0.0
	for i, t := range candidates {
		w := 1.0 / float64(1+practiced[t.Title])
		weights[i] = w
		total += w
	}
	r := p.rnd.Float64() * total
	acc := 0.0
	for i, w := range weights {
		acc += w
		if r <= acc {
			return candidates[i], nil
		}
	}
	return candidates[len(candidates)-1], nil
}
