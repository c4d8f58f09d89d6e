package postgres

import (
	"caseLibrary/domain"
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProfileRepository struct {
	DB *gorm.DB
}

func NewProfileRepository(db *gorm.DB) *ProfileRepository {
	return &ProfileRepository{DB: db}
}

func (r *ProfileRepository) FindByUser(ctx context.Context, userIdentifier string) (*domain.UserProfile, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var profile domain.UserProfile
	err := conn(ctx, r.DB).First(&profile, "user_identifier = ?", userIdentifier).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.NotFoundError("user profile not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user profile: %w", err)
	}

	return &profile, nil
}

// GetForUpdate creates the profile if missing and returns it row-locked. Call it
// inside a transaction.
func (r *ProfileRepository) GetForUpdate(ctx context.Context, userIdentifier string) (*domain.UserProfile, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	db := conn(ctx, r.DB)

	fresh := domain.NewUserProfile(userIdentifier)
	fresh.LastUpdateTime = time.Now().UTC()
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(fresh).Error; err != nil {
		return nil, fmt.Errorf("failed to ensure user profile: %w", err)
	}

	var profile domain.UserProfile
	err := db.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&profile, "user_identifier = ?", userIdentifier).Error
	if err != nil {
		return nil, fmt.Errorf("failed to lock user profile: %w", err)
	}

	return &profile, nil
}

func (r *ProfileRepository) Save(ctx context.Context, profile *domain.UserProfile) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	profile.LastUpdateTime = time.Now().UTC()
	if err := conn(ctx, r.DB).Save(profile).Error; err != nil {
		return fmt.Errorf("failed to save user profile: %w", err)
	}

	return nil
}
