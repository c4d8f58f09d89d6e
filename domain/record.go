package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CREATE TABLE public.records (
//     id                 VARCHAR(36) PRIMARY KEY,
//     title              TEXT NOT NULL,
//     link               TEXT,
//     description        TEXT,
//     content            TEXT,
//     category           TEXT,
//     views              BIGINT DEFAULT 0,
//     likes              BIGINT DEFAULT 0,
//     bookmarks          BIGINT DEFAULT 0,
//     interaction_score  DOUBLE PRECISION DEFAULT 0,
//     last_update_time   TIMESTAMPTZ DEFAULT NOW(),
//     created_at         TIMESTAMPTZ DEFAULT NOW()
// );

// Record is a case or article. Counters are only changed through the interaction
// services; records themselves are ingested elsewhere.
type Record struct {
	ID               string      `gorm:"primaryKey;column:id;type:varchar(36)" json:"id"`
	Title            string      `gorm:"column:title;type:text;not null" json:"title"`
	Link             string      `gorm:"column:link;type:text" json:"link,omitempty"`
	Description      string      `gorm:"column:description;type:text" json:"description"`
	Content          string      `gorm:"column:content;type:text" json:"content,omitempty"`
	Category         string      `gorm:"column:category;type:text;index" json:"category,omitempty"`
	Tags             []RecordTag `gorm:"foreignKey:RecordID;constraint:OnDelete:CASCADE" json:"tags"`
	Views            int64       `gorm:"column:views;default:0" json:"views"`
	Likes            int64       `gorm:"column:likes;default:0;index" json:"likes"`
	Bookmarks        int64       `gorm:"column:bookmarks;default:0" json:"bookmarks"`
	InteractionScore float64     `gorm:"column:interaction_score;default:0;index" json:"interactionScore"`
	LastUpdateTime   time.Time   `gorm:"column:last_update_time;index" json:"lastUpdateTime"`
	CreatedAt        time.Time   `gorm:"column:created_at" json:"createdAt"`
}

func (Record) TableName() string {
	return "records"
}

func (r *Record) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.LastUpdateTime.IsZero() {
		r.LastUpdateTime = time.Now().UTC()
	}
	for i := range r.Tags {
		r.Tags[i].Position = i
	}
	return nil
}

// TagNames returns the record's tags in their stored order.
func (r Record) TagNames() []string {
	names := make([]string, 0, len(r.Tags))
	for _, t := range r.Tags {
		names = append(names, t.Tag)
	}
	return names
}

// RecordTag is one row of record_tags. It renders as a bare string in JSON.
type RecordTag struct {
	RecordID string `gorm:"primaryKey;column:record_id;type:varchar(36)"`
	Tag      string `gorm:"primaryKey;column:tag;type:varchar(128);index"`
	Position int    `gorm:"column:position;default:0"`
}

func (RecordTag) TableName() string {
	return "record_tags"
}

func (t RecordTag) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Tag)
}

func (t *RecordTag) UnmarshalJSON(data []byte) error {
	return json.Unmarshal(data, &t.Tag)
}

// NewTags builds the association rows for a list of tag names.
func NewTags(names ...string) []RecordTag {
	tags := make([]RecordTag, 0, len(names))
	seen := make(map[string]struct{}, len(names))
	for _, n := range names {
		if _, dup := seen[n]; dup || n == "" {
			continue
		}
		seen[n] = struct{}{}
		tags = append(tags, RecordTag{Tag: n, Position: len(tags)})
	}
	return tags
}

// ValidRecordID reports whether id has the shape of a record identifier.
func ValidRecordID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
