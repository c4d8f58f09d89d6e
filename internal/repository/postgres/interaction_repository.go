package postgres

import (
	"caseLibrary/domain"
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// InteractionRepository is the like/bookmark ledger.
type InteractionRepository struct {
	DB *gorm.DB
}

func NewInteractionRepository(db *gorm.DB) *InteractionRepository {
	return &InteractionRepository{DB: db}
}

func (r *InteractionRepository) Exists(ctx context.Context, userIdentifier, recordID string, action domain.ActionType) (bool, error) {
	_, ok, err := r.Find(ctx, userIdentifier, recordID, action)
	return ok, err
}

// Find returns the entry for (user, record, action) and whether it exists.
func (r *InteractionRepository) Find(ctx context.Context, userIdentifier, recordID string, action domain.ActionType) (domain.InteractionEntry, bool, error) {
	if err := ctx.Err(); err != nil {
		return domain.InteractionEntry{}, false, fmt.Errorf("context error: %w", err)
	}

	var entry domain.InteractionEntry
	err := conn(ctx, r.DB).
		Where("user_identifier = ? AND record_id = ? AND action_type = ?", userIdentifier, recordID, action).
		Take(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.InteractionEntry{}, false, nil
	}
	if err != nil {
		return domain.InteractionEntry{}, false, fmt.Errorf("failed to query ledger: %w", err)
	}

	return entry, true, nil
}

// Create inserts a ledger entry. A concurrent duplicate surfaces as domain.ErrConflict.
func (r *InteractionRepository) Create(ctx context.Context, entry *domain.InteractionEntry) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if err := conn(ctx, r.DB).Create(entry).Error; err != nil {
		if isDuplicateKey(err) {
			return domain.ConflictError(fmt.Sprintf("already %s", pastTense(entry.ActionType)))
		}
		return fmt.Errorf("failed to create ledger entry: %w", err)
	}

	return nil
}

// Delete removes the entry. Zero affected rows means another request already removed
// it, which is reported as a conflict so counters are not decremented twice.
func (r *InteractionRepository) Delete(ctx context.Context, userIdentifier, recordID string, action domain.ActionType) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	result := conn(ctx, r.DB).
		Where("user_identifier = ? AND record_id = ? AND action_type = ?", userIdentifier, recordID, action).
		Delete(&domain.InteractionEntry{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete ledger entry: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ConflictError(fmt.Sprintf("%s already removed", action))
	}

	return nil
}

// ReactedRecordIDs returns which of recordIDs the user has an active entry for.
func (r *InteractionRepository) ReactedRecordIDs(ctx context.Context, userIdentifier string, action domain.ActionType, recordIDs []string) (map[string]bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	out := make(map[string]bool, len(recordIDs))
	if len(recordIDs) == 0 {
		return out, nil
	}

	var ids []string
	err := conn(ctx, r.DB).Model(&domain.InteractionEntry{}).
		Where("user_identifier = ? AND action_type = ? AND record_id IN ?", userIdentifier, action, recordIDs).
		Pluck("record_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query ledger: %w", err)
	}

	for _, id := range ids {
		out[id] = true
	}
	return out, nil
}

// CountForRecord counts active entries of one action type on a record.
func (r *InteractionRepository) CountForRecord(ctx context.Context, recordID string, action domain.ActionType) (int64, error) {
	var n int64
	err := conn(ctx, r.DB).Model(&domain.InteractionEntry{}).
		Where("record_id = ? AND action_type = ?", recordID, action).
		Count(&n).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count ledger entries: %w", err)
	}
	return n, nil
}

func pastTense(a domain.ActionType) string {
	switch a {
	case domain.ActionLike:
		return "liked"
	case domain.ActionBookmark:
		return "bookmarked"
	default:
		return string(a)
	}
}
