package scoring

import (
	"caseLibrary/domain"
	"caseLibrary/pkg/config"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWeightFor(t *testing.T) {
	p := DefaultPolicy()
	dur := 42.0

	tests := []struct {
		name     string
		action   domain.ActionType
		duration *float64
		want     float64
	}{
		{"view without duration", domain.ActionView, nil, 1},
		{"view compounds duration", domain.ActionView, &dur, 1 + 4.2},
		{"like ignores duration", domain.ActionLike, &dur, 3},
		{"bookmark", domain.ActionBookmark, nil, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := p.WeightFor(tt.action, tt.duration)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}

	_, err := p.WeightFor("share", nil)
	assert.True(t, errors.Is(err, domain.ErrValidation))
}

func TestValidate(t *testing.T) {
	require.NoError(t, DefaultPolicy().Validate())

	p := DefaultPolicy()
	p.Actions.Like = -1
	assert.Error(t, p.Validate())

	p = DefaultPolicy()
	p.DecayWindow = 0
	assert.Error(t, p.Validate())

	p = DefaultPolicy()
	p.PageSize = 0
	assert.Error(t, p.Validate())
}

func TestWithOverride(t *testing.T) {
	base := DefaultPolicy()
	got := base.WithOverride(domain.RecommendPolicy{
		Name:             "default",
		WeightLike:       ptr(7.0),
		RankTagMatch:     ptr(0.9),
		DecayWindowHours: ptr(24.0),
		PageSize:         ptr(5),
	})

	assert.Equal(t, 7.0, got.Actions.Like)
	assert.Equal(t, base.Actions.View, got.Actions.View)
	assert.Equal(t, 0.9, got.Rank.TagMatch)
	assert.Equal(t, base.Rank.Interaction, got.Rank.Interaction)
	assert.Equal(t, 24*time.Hour, got.DecayWindow)
	assert.Equal(t, 5, got.PageSize)
	assert.Equal(t, base.PopularRecallSize, got.PopularRecallSize)
}

func TestTagMatch(t *testing.T) {
	assert.Equal(t, 0.0, TagMatch([]string{"civil"}, nil))
	assert.False(t, math.IsNaN(TagMatch(nil, []string{})))
	assert.Equal(t, 1.0, TagMatch([]string{"civil", "family"}, []string{"civil", "family"}))
	assert.Equal(t, 0.5, TagMatch([]string{"civil", "civil", "tax"}, []string{"civil", "family"}))
	assert.Equal(t, 0.0, TagMatch(nil, []string{"civil"}))
}

func TestTimeDecay(t *testing.T) {
	now := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
	week := 7 * 24 * time.Hour

	assert.InDelta(t, 1.0, TimeDecay(now, now, week), 1e-12)
	assert.InDelta(t, math.Exp(-1), TimeDecay(now, now.Add(-week), week), 1e-12)
	assert.InDelta(t, 1.0, TimeDecay(now, now.Add(time.Hour), week), 1e-12)
}

func TestFinalScore(t *testing.T) {
	w := DefaultPolicy().Rank
	assert.InDelta(t, 10*0.4+0.5*0.4+1*0.2, w.FinalScore(10, 0.5, 1), 1e-12)
}

func TestPolicyFromConfig_DefaultsMatch(t *testing.T) {
	assert.Equal(t, DefaultPolicy(), PolicyFromConfig(config.DefaultScoringConfig()))
}

func ptr[T any](v T) *T { return &v }
