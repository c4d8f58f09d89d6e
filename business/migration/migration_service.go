package migration

import (
	"caseLibrary/business/scoring"
	"caseLibrary/domain"
	"caseLibrary/pkg/logger"
	"caseLibrary/pkg/trace"
	"context"
	"errors"
	"time"
)

// ---- Repository interfaces ----

type RecordRepository interface {
	FindByID(ctx context.Context, id string) (domain.Record, error)
	IncrementCounters(ctx context.Context, id string, delta domain.CounterDelta) error
}

type LedgerRepository interface {
	Exists(ctx context.Context, userIdentifier, recordID string, action domain.ActionType) (bool, error)
	Create(ctx context.Context, entry *domain.InteractionEntry) error
}

type ProfileRepository interface {
	GetForUpdate(ctx context.Context, userIdentifier string) (*domain.UserProfile, error)
	Save(ctx context.Context, profile *domain.UserProfile) error
}

type ViewRepository interface {
	Append(ctx context.Context, event *domain.ViewEvent) error
}

type ChatRepository interface {
	ExistsWithTitle(ctx context.Context, userIdentifier, title string) (bool, error)
	Create(ctx context.Context, chat *domain.Chat) error
}

type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type PolicySource interface {
	Load(ctx context.Context) scoring.Policy
}

// Guard claims a guest snapshot so it is migrated at most once.
type Guard interface {
	Acquire(ctx context.Context, guestID, userID string) (bool, error)
	Release(ctx context.Context, guestID string) error
}

// ---- Service ----

type Service struct {
	records  RecordRepository
	ledger   LedgerRepository
	profiles ProfileRepository
	views    ViewRepository
	chats    ChatRepository
	tx       Transactor
	policy   PolicySource
	guard    Guard
	now      func() time.Time
}

func NewService(
	records RecordRepository,
	ledger LedgerRepository,
	profiles ProfileRepository,
	views ViewRepository,
	chats ChatRepository,
	tx Transactor,
	policy PolicySource,
	guard Guard,
) *Service {
	return &Service{
		records:  records,
		ledger:   ledger,
		profiles: profiles,
		views:    views,
		chats:    chats,
		tx:       tx,
		policy:   policy,
		guard:    guard,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Migrate moves a guest snapshot into userIdentifier's durable state in one
// transaction. Either everything is applied or nothing is.
func (s *Service) Migrate(ctx context.Context, userIdentifier string, snapshot domain.GuestSnapshot) (domain.MigrationSummary, error) {
	tid := trace.TraceIDFromContext(ctx)

	if userIdentifier == "" || domain.IsGuestIdentifier(userIdentifier) {
		return domain.MigrationSummary{}, domain.UnauthorizedError("must be authenticated to migrate data")
	}
	if !domain.IsGuestIdentifier(snapshot.GuestID) {
		return domain.MigrationSummary{}, domain.ValidationError("invalid guest id")
	}

	if s.guard != nil {
		ok, err := s.guard.Acquire(ctx, snapshot.GuestID, userIdentifier)
		if err != nil {
			return domain.MigrationSummary{}, domain.TransactionError(err)
		}
		if !ok {
			return domain.MigrationSummary{}, domain.ConflictError("guest data already migrated")
		}
	}

	policy := s.policy.Load(ctx)

	var summary domain.MigrationSummary
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		summary = domain.MigrationSummary{}

		n, err := s.migrateChats(ctx, userIdentifier, snapshot.Chats)
		if err != nil {
			return err
		}
		summary.Chats = n

		if summary.Likes, err = s.migrateReactions(ctx, userIdentifier, snapshot.Profile.LikedRecords, domain.ActionLike, policy); err != nil {
			return err
		}
		if summary.Bookmarks, err = s.migrateReactions(ctx, userIdentifier, snapshot.Profile.BookmarkedRecords, domain.ActionBookmark, policy); err != nil {
			return err
		}
		if summary.Views, err = s.migrateViews(ctx, userIdentifier, snapshot.Profile.ViewHistory); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		if s.guard != nil {
			// use a detached context so a cancelled request still frees the guest for retry
			if relErr := s.guard.Release(context.WithoutCancel(ctx), snapshot.GuestID); relErr != nil {
				logger.Error("failed to release migration guard",
					"trace_id", tid,
					"guest_id", snapshot.GuestID,
					"error", relErr,
				)
			}
		}
		MigrationsTotal.WithLabelValues("failed").Inc()
		logger.Error("guest migration failed",
			"trace_id", tid,
			"user", userIdentifier,
			"guest_id", snapshot.GuestID,
			"error", err,
		)
		return domain.MigrationSummary{}, domain.TransactionError(err)
	}

	MigrationsTotal.WithLabelValues("ok").Inc()
	logger.Info("guest migration completed",
		"trace_id", tid,
		"user", userIdentifier,
		"guest_id", snapshot.GuestID,
		"chats", summary.Chats,
		"likes", summary.Likes,
		"bookmarks", summary.Bookmarks,
		"views", summary.Views,
	)

	return summary, nil
}

// migrateChats creates guest chats the user does not already have a chat titled the same for.
func (s *Service) migrateChats(ctx context.Context, userIdentifier string, chats []domain.GuestChat) (int, error) {
	migrated := 0
	for _, gc := range chats {
		exists, err := s.chats.ExistsWithTitle(ctx, userIdentifier, gc.Title)
		if err != nil {
			return 0, err
		}
		if exists {
			continue
		}

		chat := &domain.Chat{
			UserIdentifier: userIdentifier,
			Title:          gc.Title,
			Time:           gc.Time,
			Messages:       gc.Messages,
		}
		if err := s.chats.Create(ctx, chat); err != nil {
			return 0, err
		}
		migrated++
	}
	return migrated, nil
}

// migrateReactions restores guest likes or bookmarks. Unknown or malformed record ids
// and reactions the user already holds are skipped.
func (s *Service) migrateReactions(ctx context.Context, userIdentifier string, recordIDs []string, action domain.ActionType, policy scoring.Policy) (int, error) {
	var weight float64
	if policy.MigrationScoresReactions {
		w, err := policy.ActionWeight(action)
		if err != nil {
			return 0, err
		}
		weight = w
	}

	migrated := 0
	for _, recordID := range recordIDs {
		if !domain.ValidRecordID(recordID) {
			continue
		}
		if _, err := s.records.FindByID(ctx, recordID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				continue
			}
			return 0, err
		}

		exists, err := s.ledger.Exists(ctx, userIdentifier, recordID, action)
		if err != nil {
			return 0, err
		}
		if exists {
			continue
		}

		entry := &domain.InteractionEntry{
			UserIdentifier: userIdentifier,
			RecordID:       recordID,
			ActionType:     action,
			AppliedWeight:  weight,
		}
		if err := s.ledger.Create(ctx, entry); err != nil {
			return 0, err
		}
		if err := s.records.IncrementCounters(ctx, recordID, domain.ReactionDelta(action, weight, 1)); err != nil {
			return 0, err
		}
		migrated++
	}
	return migrated, nil
}

// migrateViews folds the guest's view history into the user's profile. Views have no
// uniqueness key, so replaying a snapshot counts them again.
func (s *Service) migrateViews(ctx context.Context, userIdentifier string, history []domain.GuestView) (int, error) {
	if len(history) == 0 {
		return 0, nil
	}

	profile, err := s.profiles.GetForUpdate(ctx, userIdentifier)
	if err != nil {
		return 0, err
	}

	now := s.now()
	migrated := 0
	for _, view := range history {
		if !domain.ValidRecordID(view.RecordID) {
			continue
		}
		record, err := s.records.FindByID(ctx, view.RecordID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				continue
			}
			return 0, err
		}

		profile.Accumulate(record.TagNames(), domain.ActionView, view.Duration)

		event := &domain.ViewEvent{
			UserIdentifier: userIdentifier,
			RecordID:       view.RecordID,
			CreatedAt:      view.ViewedAt(now),
		}
		if view.Duration != nil && *view.Duration > 0 {
			event.Duration = *view.Duration
		}
		if err := s.views.Append(ctx, event); err != nil {
			return 0, err
		}
		migrated++
	}

	if err := s.profiles.Save(ctx, profile); err != nil {
		return 0, err
	}
	return migrated, nil
}
