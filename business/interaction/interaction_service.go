package interaction

import (
	"caseLibrary/business/scoring"
	"caseLibrary/domain"
	"caseLibrary/pkg/logger"
	"caseLibrary/pkg/trace"
	"context"
	"fmt"
	"time"
)

// ---- Repository interfaces ----

type RecordRepository interface {
	FindByID(ctx context.Context, id string) (domain.Record, error)
	IncrementCounters(ctx context.Context, id string, delta domain.CounterDelta) error
}

type LedgerRepository interface {
	Find(ctx context.Context, userIdentifier, recordID string, action domain.ActionType) (domain.InteractionEntry, bool, error)
	Create(ctx context.Context, entry *domain.InteractionEntry) error
	Delete(ctx context.Context, userIdentifier, recordID string, action domain.ActionType) error
}

type ProfileRepository interface {
	GetForUpdate(ctx context.Context, userIdentifier string) (*domain.UserProfile, error)
	Save(ctx context.Context, profile *domain.UserProfile) error
}

type ViewRepository interface {
	Append(ctx context.Context, event *domain.ViewEvent) error
}

type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type PolicySource interface {
	Load(ctx context.Context) scoring.Policy
}

// ---- Service ----

type Service struct {
	records  RecordRepository
	ledger   LedgerRepository
	profiles ProfileRepository
	views    ViewRepository
	tx       Transactor
	policy   PolicySource
	now      func() time.Time
}

func NewService(
	records RecordRepository,
	ledger LedgerRepository,
	profiles ProfileRepository,
	views ViewRepository,
	tx Transactor,
	policy PolicySource,
) *Service {
	return &Service{
		records:  records,
		ledger:   ledger,
		profiles: profiles,
		views:    views,
		tx:       tx,
		policy:   policy,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *Service) ToggleLike(ctx context.Context, userIdentifier, recordID string) (bool, error) {
	return s.toggleReaction(ctx, userIdentifier, recordID, domain.ActionLike)
}

func (s *Service) ToggleBookmark(ctx context.Context, userIdentifier, recordID string) (bool, error) {
	return s.toggleReaction(ctx, userIdentifier, recordID, domain.ActionBookmark)
}

// toggleReaction flips the ledger entry for (user, record, action) and moves the record's
// counter and interactionScore with it in one transaction. It returns the new state.
func (s *Service) toggleReaction(ctx context.Context, userIdentifier, recordID string, action domain.ActionType) (bool, error) {
	traceID := trace.TraceIDFromContext(ctx)

	if err := requireUser(userIdentifier); err != nil {
		return false, err
	}
	if !domain.ValidRecordID(recordID) {
		return false, domain.ValidationError("invalid record id")
	}
	if _, err := s.records.FindByID(ctx, recordID); err != nil {
		return false, err
	}

	policy := s.policy.Load(ctx)
	weight, err := policy.ActionWeight(action)
	if err != nil {
		return false, err
	}

	var (
		active   bool
		decided  bool
		attempts int
	)
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		// A rerun after a serialization failure would see the concurrent writer's
		// committed entry and flip it back, so the race is reported instead.
		attempts++
		if attempts > 1 {
			if !decided {
				return domain.ConflictError("concurrent " + string(action) + " request")
			}
			return raceConflict(action, active)
		}

		entry, exists, err := s.ledger.Find(ctx, userIdentifier, recordID, action)
		if err != nil {
			return err
		}
		decided = true

		if exists {
			active = false
			if err := s.ledger.Delete(ctx, userIdentifier, recordID, action); err != nil {
				return err
			}
			return s.records.IncrementCounters(ctx, recordID, domain.ReactionDelta(action, entry.AppliedWeight, -1))
		}

		active = true
		entry = domain.InteractionEntry{
			UserIdentifier: userIdentifier,
			RecordID:       recordID,
			ActionType:     action,
			AppliedWeight:  weight,
		}
		if err := s.ledger.Create(ctx, &entry); err != nil {
			return err
		}
		return s.records.IncrementCounters(ctx, recordID, domain.ReactionDelta(action, weight, 1))
	})
	if err != nil {
		ReactionTogglesTotal.WithLabelValues(string(action), "failed").Inc()
		logger.Warn("toggle reaction failed",
			"trace_id", traceID,
			"user", userIdentifier,
			"record_id", recordID,
			"action", action,
			"error", err,
		)
		return false, domain.TransactionError(err)
	}

	ReactionTogglesTotal.WithLabelValues(string(action), stateLabel(active)).Inc()
	logger.Info("reaction toggled",
		"trace_id", traceID,
		"user", userIdentifier,
		"record_id", recordID,
		"action", action,
		"active", active,
	)

	return active, nil
}

// RecordAction folds one tracked action into the record's counters and then into the
// caller's profile. The two aggregates are updated separately; if the profile update
// fails after the record update committed, the error is returned and the record keeps
// its increment.
func (s *Service) RecordAction(ctx context.Context, userIdentifier, recordID string, action domain.ActionType, duration *float64) error {
	traceID := trace.TraceIDFromContext(ctx)

	if err := requireUser(userIdentifier); err != nil {
		return err
	}
	if !domain.ValidRecordID(recordID) {
		return domain.ValidationError("invalid record id")
	}
	if !action.Valid() {
		return domain.ValidationError("unknown action type: " + string(action))
	}
	if duration != nil && *duration < 0 {
		return domain.ValidationError("duration must not be negative")
	}

	record, err := s.records.FindByID(ctx, recordID)
	if err != nil {
		return err
	}

	policy := s.policy.Load(ctx)
	weight, err := policy.WeightFor(action, duration)
	if err != nil {
		return err
	}

	delta := domain.CounterDelta{InteractionScore: weight}
	if action == domain.ActionView {
		delta.Views = 1
	}
	if err := s.records.IncrementCounters(ctx, recordID, delta); err != nil {
		return fmt.Errorf("failed to update record counters: %w", err)
	}

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		profile, err := s.profiles.GetForUpdate(ctx, userIdentifier)
		if err != nil {
			return err
		}
		profile.Accumulate(record.TagNames(), action, duration)

		if action == domain.ActionView {
			event := &domain.ViewEvent{
				UserIdentifier: userIdentifier,
				RecordID:       recordID,
				CreatedAt:      s.now(),
			}
			if duration != nil {
				event.Duration = *duration
			}
			if err := s.views.Append(ctx, event); err != nil {
				return err
			}
		}

		return s.profiles.Save(ctx, profile)
	})
	if err != nil {
		logger.Error("profile update failed after record update",
			"trace_id", traceID,
			"user", userIdentifier,
			"record_id", recordID,
			"action", action,
			"error", err,
		)
		return domain.TransactionError(err)
	}

	UserActionsTotal.WithLabelValues(string(action)).Inc()
	logger.Debug("user action recorded",
		"trace_id", traceID,
		"user", userIdentifier,
		"record_id", recordID,
		"action", action,
		"weight", weight,
	)

	return nil
}

func requireUser(userIdentifier string) error {
	if userIdentifier == "" {
		return domain.UnauthorizedError("please sign in")
	}
	if domain.IsGuestIdentifier(userIdentifier) {
		return domain.UnauthorizedError("guests cannot perform this action")
	}
	return nil
}

// raceConflict reports a toggle that lost to a concurrent one on the same entry.
func raceConflict(action domain.ActionType, creating bool) error {
	if creating {
		return domain.ConflictError("already " + pastTense(action))
	}
	return domain.ConflictError(string(action) + " already removed")
}

func pastTense(action domain.ActionType) string {
	if action == domain.ActionBookmark {
		return "bookmarked"
	}
	return "liked"
}

func stateLabel(active bool) string {
	if active {
		return "on"
	}
	return "off"
}
