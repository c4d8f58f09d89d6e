package domain

import "time"

// RecommendPolicy is an operator override of the scoring policy, stored by name.
// Nil fields fall back to the boot-time policy; an explicit zero switches a signal off.
type RecommendPolicy struct {
	Name string `json:"name" gorm:"column:name;primaryKey;type:varchar(64)"`

	WeightView     *float64 `json:"weight_view,omitempty" gorm:"column:weight_view"`
	WeightLike     *float64 `json:"weight_like,omitempty" gorm:"column:weight_like"`
	WeightBookmark *float64 `json:"weight_bookmark,omitempty" gorm:"column:weight_bookmark"`
	WeightDuration *float64 `json:"weight_duration,omitempty" gorm:"column:weight_duration"`

	RankInteraction *float64 `json:"rank_interaction,omitempty" gorm:"column:rank_interaction"`
	RankTagMatch    *float64 `json:"rank_tag_match,omitempty" gorm:"column:rank_tag_match"`
	RankTimeDecay   *float64 `json:"rank_time_decay,omitempty" gorm:"column:rank_time_decay"`

	DecayWindowHours  *float64 `json:"decay_window_hours,omitempty" gorm:"column:decay_window_hours"`
	ContentRecallSize *int     `json:"content_recall_size,omitempty" gorm:"column:content_recall_size"`
	PopularRecallSize *int     `json:"popular_recall_size,omitempty" gorm:"column:popular_recall_size"`
	RecentRecallSize  *int     `json:"recent_recall_size,omitempty" gorm:"column:recent_recall_size"`
	RecentViewWindow  *int     `json:"recent_view_window,omitempty" gorm:"column:recent_view_window"`
	PageSize          *int     `json:"page_size,omitempty" gorm:"column:page_size"`

	UpdatedAt time.Time `json:"updated_at" gorm:"column:updated_at;autoUpdateTime"`
}

func (RecommendPolicy) TableName() string {
	return "recommend_policies"
}
