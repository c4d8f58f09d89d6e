package postgres

import (
	"caseLibrary/domain"
	"context"
	"fmt"

	"gorm.io/gorm"
)

type ViewRepository struct {
	DB *gorm.DB
}

func NewViewRepository(db *gorm.DB) *ViewRepository {
	return &ViewRepository{DB: db}
}

func (r *ViewRepository) Append(ctx context.Context, event *domain.ViewEvent) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if err := conn(ctx, r.DB).Create(event).Error; err != nil {
		return fmt.Errorf("failed to append view event: %w", err)
	}

	return nil
}

// RecentRecordIDs returns up to limit distinct records the user viewed, most recent first.
func (r *ViewRepository) RecentRecordIDs(ctx context.Context, userIdentifier string, limit int) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var ids []string
	err := conn(ctx, r.DB).Model(&domain.ViewEvent{}).
		Where("user_identifier = ?", userIdentifier).
		Group("record_id").
		Order("MAX(created_at) DESC, MAX(id) DESC").
		Limit(limit).
		Pluck("record_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query recent views: %w", err)
	}

	return ids, nil
}

// RecentTags returns the distinct tags of the user's last `window` viewed records,
// ordered by view recency and then by tag position.
func (r *ViewRepository) RecentTags(ctx context.Context, userIdentifier string, window int) ([]string, error) {
	ids, err := r.RecentRecordIDs(ctx, userIdentifier, window)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}

	var rows []domain.RecordTag
	err = conn(ctx, r.DB).
		Where("record_id IN ?", ids).
		Order("position ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load recent tags: %w", err)
	}

	byRecord := make(map[string][]string, len(ids))
	for _, row := range rows {
		byRecord[row.RecordID] = append(byRecord[row.RecordID], row.Tag)
	}

	seen := make(map[string]struct{})
	var tags []string
	for _, id := range ids {
		for _, tag := range byRecord[id] {
			if _, dup := seen[tag]; dup {
				continue
			}
			seen[tag] = struct{}{}
			tags = append(tags, tag)
		}
	}

	return tags, nil
}
