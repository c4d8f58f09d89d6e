package postgres

import (
	"caseLibrary/domain"
	"context"
	"fmt"

	"gorm.io/gorm"
)

type ChatRepository struct {
	DB *gorm.DB
}

func NewChatRepository(db *gorm.DB) *ChatRepository {
	return &ChatRepository{DB: db}
}

func (r *ChatRepository) ExistsWithTitle(ctx context.Context, userIdentifier, title string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, fmt.Errorf("context error: %w", err)
	}

	var n int64
	err := conn(ctx, r.DB).Model(&domain.Chat{}).
		Where("user_identifier = ? AND title = ?", userIdentifier, title).
		Count(&n).Error
	if err != nil {
		return false, fmt.Errorf("failed to query chats: %w", err)
	}

	return n > 0, nil
}

func (r *ChatRepository) Create(ctx context.Context, chat *domain.Chat) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if err := conn(ctx, r.DB).Create(chat).Error; err != nil {
		return fmt.Errorf("failed to create chat: %w", err)
	}

	return nil
}

func (r *ChatRepository) ListByUser(ctx context.Context, userIdentifier string) ([]domain.Chat, error) {
	var chats []domain.Chat
	err := conn(ctx, r.DB).
		Where("user_identifier = ?", userIdentifier).
		Order("created_at ASC, id ASC").
		Find(&chats).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list chats: %w", err)
	}
	return chats, nil
}
