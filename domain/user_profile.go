package domain

import "time"

// InteractionStats are the per-user action counts. AvgDuration is the running mean
// of recorded view durations, in seconds.
type InteractionStats struct {
	Views       int64   `gorm:"column:views;default:0" json:"views"`
	Likes       int64   `gorm:"column:likes;default:0" json:"likes"`
	Bookmarks   int64   `gorm:"column:bookmarks;default:0" json:"bookmarks"`
	AvgDuration float64 `gorm:"column:avg_duration;default:0" json:"avgDuration"`
}

// UserProfile accumulates a user's interest signal. It is created lazily and only grows.
type UserProfile struct {
	UserIdentifier  string           `gorm:"primaryKey;column:user_identifier;type:varchar(255)" json:"userIdentifier"`
	TagWeights      map[string]int64 `gorm:"column:tag_weights;type:text;serializer:json" json:"tagWeights"`
	CategoryWeights map[string]int64 `gorm:"column:category_weights;type:text;serializer:json" json:"categoryWeights"`
	Interactions    InteractionStats `gorm:"embedded;embeddedPrefix:interaction_" json:"interactions"`
	LastUpdateTime  time.Time        `gorm:"column:last_update_time" json:"lastUpdateTime"`
}

func (UserProfile) TableName() string {
	return "user_profiles"
}

func NewUserProfile(userIdentifier string) *UserProfile {
	return &UserProfile{
		UserIdentifier:  userIdentifier,
		TagWeights:      map[string]int64{},
		CategoryWeights: map[string]int64{},
	}
}

// Accumulate folds one action on a record carrying tags into the profile.
// Every tag counts once per action whatever the action type. A view with a
// duration moves AvgDuration using the post-increment view count.
func (p *UserProfile) Accumulate(tags []string, action ActionType, duration *float64) {
	if p.TagWeights == nil {
		p.TagWeights = map[string]int64{}
	}
	if p.CategoryWeights == nil {
		p.CategoryWeights = map[string]int64{}
	}
	for _, tag := range tags {
		p.TagWeights[tag]++
	}

	switch action {
	case ActionView:
		p.Interactions.Views++
		if duration != nil && *duration > 0 {
			n := float64(p.Interactions.Views)
			p.Interactions.AvgDuration = (p.Interactions.AvgDuration*(n-1) + *duration) / n
		}
	case ActionLike:
		p.Interactions.Likes++
	case ActionBookmark:
		p.Interactions.Bookmarks++
	}
}
