package scoring

import (
	"math"
	"time"
)

// TimeDecay is exp(-age/window). Records updated in the future count as fresh.
func TimeDecay(now, updated time.Time, window time.Duration) float64 {
	if window <= 0 {
		return 0
	}
	age := now.Sub(updated)
	if age < 0 {
		age = 0
	}
	return math.Exp(-float64(age) / float64(window))
}

// TagMatch is |recordTags ∩ userTags| / |userTags|, 0 for a user without tags.
func TagMatch(recordTags, userTags []string) float64 {
	if len(userTags) == 0 {
		return 0
	}
	user := make(map[string]struct{}, len(userTags))
	for _, t := range userTags {
		user[t] = struct{}{}
	}
	seen := make(map[string]struct{}, len(recordTags))
	hits := 0
	for _, t := range recordTags {
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		if _, ok := user[t]; ok {
			hits++
		}
	}
	return float64(hits) / float64(len(user))
}

// FinalScore combines the ranking signals with the policy's rank weights.
func (w RankWeights) FinalScore(interaction, tagMatch, decay float64) float64 {
	return interaction*w.Interaction + tagMatch*w.TagMatch + decay*w.TimeDecay
}
