package domain

import "time"

type ActionType string

const (
	ActionView     ActionType = "view"
	ActionLike     ActionType = "like"
	ActionBookmark ActionType = "bookmark"
)

func (a ActionType) Valid() bool {
	switch a {
	case ActionView, ActionLike, ActionBookmark:
		return true
	}
	return false
}

// IsReaction reports whether the action is a toggleable ledger action.
func (a ActionType) IsReaction() bool {
	return a == ActionLike || a == ActionBookmark
}

// InteractionEntry is one ledger fact: userIdentifier reacted to recordID with actionType.
// At most one row exists per (user, record, action); toggling off deletes it.
// AppliedWeight is the interactionScore the entry added, and is what toggling off removes.
type InteractionEntry struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	UserIdentifier string     `gorm:"column:user_identifier;type:varchar(255);not null;uniqueIndex:idx_interaction_unique,priority:1;index" json:"userIdentifier"`
	RecordID       string     `gorm:"column:record_id;type:varchar(36);not null;uniqueIndex:idx_interaction_unique,priority:2" json:"recordId"`
	ActionType     ActionType `gorm:"column:action_type;type:varchar(16);not null;uniqueIndex:idx_interaction_unique,priority:3" json:"actionType"`
	AppliedWeight  float64    `gorm:"column:applied_weight;not null;default:0" json:"appliedWeight"`
	CreatedAt      time.Time  `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
}

func (InteractionEntry) TableName() string {
	return "interaction_entries"
}

// CounterDelta is applied atomically to a record's counters.
type CounterDelta struct {
	Views            int64
	Likes            int64
	Bookmarks        int64
	InteractionScore float64
}

// ReactionDelta returns the counter change for toggling action on (sign=+1) or off (sign=-1).
func ReactionDelta(action ActionType, weight float64, sign int64) CounterDelta {
	d := CounterDelta{InteractionScore: weight * float64(sign)}
	switch action {
	case ActionLike:
		d.Likes = sign
	case ActionBookmark:
		d.Bookmarks = sign
	}
	return d
}

// ViewEvent records a single tracked view. The most recent events drive content recall.
type ViewEvent struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	UserIdentifier string    `gorm:"column:user_identifier;type:varchar(255);not null;index:idx_view_user_time,priority:1" json:"userIdentifier"`
	RecordID       string    `gorm:"column:record_id;type:varchar(36);not null" json:"recordId"`
	Duration       float64   `gorm:"column:duration;default:0" json:"duration"`
	CreatedAt      time.Time `gorm:"column:created_at;index:idx_view_user_time,priority:2" json:"createdAt"`
}

func (ViewEvent) TableName() string {
	return "view_events"
}
