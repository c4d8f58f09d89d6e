package postgres

import (
	"caseLibrary/domain"
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

type RecordRepository struct {
	DB *gorm.DB
}

func NewRecordRepository(db *gorm.DB) *RecordRepository {
	return &RecordRepository{
		DB: db,
	}
}

func preloadTags(db *gorm.DB) *gorm.DB {
	return db.Preload("Tags", func(db *gorm.DB) *gorm.DB {
		return db.Order("position ASC")
	})
}

// orderFor maps a sort criterion to its ORDER BY. Ties always fall back to
// last_update_time desc, id asc so pages are stable.
func orderFor(sort domain.SortCriterion) (string, error) {
	switch sort {
	case domain.SortLatest, "":
		return "last_update_time DESC, id ASC", nil
	case domain.SortPopular:
		return "interaction_score DESC, last_update_time DESC, id ASC", nil
	case domain.SortMostLiked:
		return "likes DESC, last_update_time DESC, id ASC", nil
	default:
		return "", domain.ValidationError("unknown sort criterion: " + string(sort))
	}
}

func (r *RecordRepository) Create(ctx context.Context, record *domain.Record) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if err := conn(ctx, r.DB).Create(record).Error; err != nil {
		return fmt.Errorf("failed to create record: %w", err)
	}

	return nil
}

func (r *RecordRepository) FindByID(ctx context.Context, id string) (domain.Record, error) {
	if err := ctx.Err(); err != nil {
		return domain.Record{}, fmt.Errorf("context error: %w", err)
	}

	var record domain.Record
	err := preloadTags(conn(ctx, r.DB)).First(&record, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Record{}, domain.NotFoundError("record not found")
		}
		return domain.Record{}, fmt.Errorf("failed to find record: %w", err)
	}

	return record, nil
}

// List returns records ordered by filter.Sort, restricted to records carrying any of
// filter.Tags when tags are given.
func (r *RecordRepository) List(ctx context.Context, filter domain.RecordFilter) ([]domain.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	order, err := orderFor(filter.Sort)
	if err != nil {
		return nil, err
	}

	db := conn(ctx, r.DB)
	q := preloadTags(db.Model(&domain.Record{})).Order(order)
	if len(filter.Tags) > 0 {
		sub := db.Model(&domain.RecordTag{}).Select("record_id").Where("tag IN ?", filter.Tags)
		q = q.Where("id IN (?)", sub)
	}
	if filter.Offset > 0 {
		q = q.Offset(filter.Offset)
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}

	var records []domain.Record
	if err := q.Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}

	return records, nil
}

func (r *RecordRepository) Count(ctx context.Context, tags []string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, fmt.Errorf("context error: %w", err)
	}

	db := conn(ctx, r.DB)
	q := db.Model(&domain.Record{})
	if len(tags) > 0 {
		sub := db.Model(&domain.RecordTag{}).Select("record_id").Where("tag IN ?", tags)
		q = q.Where("id IN (?)", sub)
	}

	var n int64
	if err := q.Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count records: %w", err)
	}

	return n, nil
}

// IncrementCounters applies delta in a single UPDATE so concurrent writers never lose
// each other's increments.
func (r *RecordRepository) IncrementCounters(ctx context.Context, id string, delta domain.CounterDelta) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	updates := map[string]interface{}{}
	if delta.Views != 0 {
		updates["views"] = gorm.Expr("views + ?", delta.Views)
	}
	if delta.Likes != 0 {
		updates["likes"] = gorm.Expr("likes + ?", delta.Likes)
	}
	if delta.Bookmarks != 0 {
		updates["bookmarks"] = gorm.Expr("bookmarks + ?", delta.Bookmarks)
	}
	if delta.InteractionScore != 0 {
		updates["interaction_score"] = gorm.Expr("interaction_score + ?", delta.InteractionScore)
	}
	if len(updates) == 0 {
		return nil
	}

	result := conn(ctx, r.DB).Model(&domain.Record{}).Where("id = ?", id).UpdateColumns(updates)
	if result.Error != nil {
		return fmt.Errorf("failed to update record counters: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NotFoundError("record not found")
	}

	return nil
}
