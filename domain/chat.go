package domain

import (
	"time"

	"gorm.io/datatypes"
)

type ChatMessage struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Chat is a durable transcript owned by an authenticated user.
type Chat struct {
	ID             uint                             `gorm:"primaryKey" json:"id"`
	UserIdentifier string                           `gorm:"column:user_identifier;type:varchar(255);not null;index:idx_chat_user_title,priority:1" json:"userIdentifier"`
	Title          string                           `gorm:"column:title;type:text;not null;index:idx_chat_user_title,priority:2" json:"title"`
	Time           string                           `gorm:"column:time;type:text" json:"time"`
	Messages       datatypes.JSONSlice[ChatMessage] `gorm:"column:messages" json:"messages"`
	CreatedAt      time.Time                        `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
}

func (Chat) TableName() string {
	return "chats"
}
