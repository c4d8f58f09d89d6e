package postgres

import (
	"caseLibrary/domain"
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PolicyRepository struct {
	DB *gorm.DB
}

func NewPolicyRepository(db *gorm.DB) *PolicyRepository {
	return &PolicyRepository{DB: db}
}

func (r *PolicyRepository) GetPolicy(ctx context.Context, name string) (domain.RecommendPolicy, bool, error) {
	var p domain.RecommendPolicy

	err := r.DB.WithContext(ctx).
		Where("name = ?", name).
		First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.RecommendPolicy{}, false, nil
	}
	if err != nil {
		return domain.RecommendPolicy{}, false, err
	}

	return p, true, nil
}

func (r *PolicyRepository) UpsertPolicy(ctx context.Context, p domain.RecommendPolicy) error {
	return r.DB.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "name"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"weight_view",
				"weight_like",
				"weight_bookmark",
				"weight_duration",
				"rank_interaction",
				"rank_tag_match",
				"rank_time_decay",
				"decay_window_hours",
				"content_recall_size",
				"popular_recall_size",
				"recent_recall_size",
				"recent_view_window",
				"page_size",
				"updated_at",
			}),
		}).
		Create(&p).Error
}
