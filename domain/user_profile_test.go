package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAccumulateRunningMean(t *testing.T) {
	p := NewUserProfile("u@example.com")

	want := []float64{10, 15, 20}
	for i, d := range []float64{10, 20, 30} {
		d := d
		p.Accumulate(nil, ActionView, &d)
		assert.InDelta(t, want[i], p.Interactions.AvgDuration, 1e-9)
	}
	assert.Equal(t, int64(3), p.Interactions.Views)
}

func TestAccumulateTagsCountOncePerAction(t *testing.T) {
	p := NewUserProfile("u@example.com")
	tags := []string{"civil", "family"}

	d := 42.0
	p.Accumulate(tags, ActionView, &d)
	assert.Equal(t, map[string]int64{"civil": 1, "family": 1}, p.TagWeights)
	assert.Equal(t, 42.0, p.Interactions.AvgDuration)

	p.Accumulate(tags, ActionBookmark, nil)
	assert.Equal(t, int64(2), p.TagWeights["civil"])
	assert.Equal(t, int64(1), p.Interactions.Bookmarks)
	assert.Equal(t, int64(1), p.Interactions.Views)
}

func TestAccumulateViewWithoutDurationKeepsMean(t *testing.T) {
	p := NewUserProfile("u@example.com")
	d := 10.0
	p.Accumulate(nil, ActionView, &d)
	p.Accumulate(nil, ActionView, nil)

	assert.Equal(t, int64(2), p.Interactions.Views)
	assert.Equal(t, 10.0, p.Interactions.AvgDuration)
}

func TestAccumulateNilMaps(t *testing.T) {
	p := &UserProfile{UserIdentifier: "u"}
	p.Accumulate([]string{"tax"}, ActionLike, nil)
	assert.Equal(t, int64(1), p.TagWeights["tax"])
	assert.NotNil(t, p.CategoryWeights)
}
