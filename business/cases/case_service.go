package cases

import (
	"caseLibrary/domain"
	"caseLibrary/pkg/logger"
	"caseLibrary/pkg/trace"
	"context"
	"fmt"
)

const (
	DefaultPageSize = 12
	MaxPageSize     = 50
)

type RecordRepository interface {
	FindByID(ctx context.Context, id string) (domain.Record, error)
	List(ctx context.Context, filter domain.RecordFilter) ([]domain.Record, error)
	Count(ctx context.Context, tags []string) (int64, error)
}

type LedgerRepository interface {
	ReactedRecordIDs(ctx context.Context, userIdentifier string, action domain.ActionType, recordIDs []string) (map[string]bool, error)
}

type Service struct {
	records RecordRepository
	ledger  LedgerRepository
}

func NewService(records RecordRepository, ledger LedgerRepository) *Service {
	return &Service{records: records, ledger: ledger}
}

// ListCases returns one page of the case library. Reaction flags come from the ledger
// for users, from the client-held profile for guests, and are false for anonymous callers.
func (s *Service) ListCases(ctx context.Context, identity domain.Identity, query domain.CaseQuery, guestProfile *domain.GuestProfile) (domain.CaseListPage, error) {
	if err := ctx.Err(); err != nil {
		return domain.CaseListPage{}, fmt.Errorf("context error: %w", err)
	}

	query, err := normalize(query)
	if err != nil {
		return domain.CaseListPage{}, err
	}

	records, err := s.records.List(ctx, domain.RecordFilter{
		Sort:   query.Sort,
		Tags:   query.Tags,
		Offset: (query.Page - 1) * query.PageSize,
		Limit:  query.PageSize,
	})
	if err != nil {
		return domain.CaseListPage{}, err
	}

	total, err := s.records.Count(ctx, query.Tags)
	if err != nil {
		return domain.CaseListPage{}, err
	}

	liked, bookmarked, err := s.reactionFlags(ctx, identity, guestProfile, records)
	if err != nil {
		return domain.CaseListPage{}, err
	}

	items := make([]domain.CaseListItem, 0, len(records))
	for _, r := range records {
		items = append(items, domain.CaseListItem{
			Record:       r,
			IsLiked:      liked[r.ID],
			IsBookmarked: bookmarked[r.ID],
		})
	}

	logger.Debug("cases listed",
		"trace_id", trace.TraceIDFromContext(ctx),
		"sort", query.Sort,
		"page", query.Page,
		"returned", len(items),
	)

	return domain.CaseListPage{
		Cases:    items,
		Total:    total,
		Page:     query.Page,
		PageSize: query.PageSize,
	}, nil
}

func (s *Service) GetCase(ctx context.Context, id string) (domain.Record, error) {
	if !domain.ValidRecordID(id) {
		return domain.Record{}, domain.ValidationError("invalid record id")
	}
	return s.records.FindByID(ctx, id)
}

func normalize(q domain.CaseQuery) (domain.CaseQuery, error) {
	if q.Page <= 0 {
		q.Page = 1
	}
	if q.PageSize == 0 {
		q.PageSize = DefaultPageSize
	}
	if q.PageSize < 0 || q.PageSize > MaxPageSize {
		return q, domain.ValidationError(fmt.Sprintf("pageSize must be between 1 and %d", MaxPageSize))
	}
	if q.Sort == "" {
		q.Sort = domain.SortLatest
	}
	if !q.Sort.Valid() {
		return q, domain.ValidationError("unknown sort criterion: " + string(q.Sort))
	}
	return q, nil
}

func (s *Service) reactionFlags(ctx context.Context, identity domain.Identity, guestProfile *domain.GuestProfile, records []domain.Record) (map[string]bool, map[string]bool, error) {
	switch {
	case identity.Authenticated():
		ids := make([]string, 0, len(records))
		for _, r := range records {
			ids = append(ids, r.ID)
		}
		liked, err := s.ledger.ReactedRecordIDs(ctx, identity.UserID, domain.ActionLike, ids)
		if err != nil {
			return nil, nil, err
		}
		bookmarked, err := s.ledger.ReactedRecordIDs(ctx, identity.UserID, domain.ActionBookmark, ids)
		if err != nil {
			return nil, nil, err
		}
		return liked, bookmarked, nil

	case identity.IsGuest && guestProfile != nil:
		return toSet(guestProfile.LikedRecords), toSet(guestProfile.BookmarkedRecords), nil

	default:
		return map[string]bool{}, map[string]bool{}, nil
	}
}

func toSet(ids []string) map[string]bool {
	out := make(map[string]bool, len(ids))
	for _, id := range ids {
		out[id] = true
	}
	return out
}
