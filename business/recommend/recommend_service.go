package recommend

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
	List(ctx context.Context, filter domain.RecordFilter) ([]domain.Record, error)
}

type ViewRepository interface {
	RecentTags(ctx context.Context, userIdentifier string, window int) ([]string, error)
}

type PolicySource interface {
	Load(ctx context.Context) scoring.Policy
}

// ---- Service ----

type Service struct {
	records RecordRepository
	views   ViewRepository
	policy  PolicySource
	now     func() time.Time
}

func NewService(records RecordRepository, views ViewRepository, policy PolicySource) *Service {
	return &Service{
		records: records,
		views:   views,
		policy:  policy,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// MaxPageSize caps the page size a caller may request.
const MaxPageSize = 50

// Recommend returns up to PageSize records personalised for userIdentifier.
func (s *Service) Recommend(ctx context.Context, userIdentifier string) ([]domain.RecommendedRecord, error) {
	defer observe(time.Now())

	ranked, policy, err := s.run(ctx, userIdentifier)
	if err != nil {
		RecommendRequestsTotal.WithLabelValues("error").Inc()
		return nil, err
	}
	RecommendRequestsTotal.WithLabelValues("ok").Inc()

	return toRecommended(truncate(ranked, policy.PageSize)), nil
}

// RecommendPage pages through the ranked candidate pool. The pool and its order do not
// depend on the page requested, so consecutive pages neither repeat nor skip records.
// A zero pageSize uses the policy page size.
func (s *Service) RecommendPage(ctx context.Context, userIdentifier string, page, pageSize int) (domain.RecommendationPage, error) {
	defer observe(time.Now())

	if page < 1 {
		return domain.RecommendationPage{}, domain.ValidationError("page must be at least 1")
	}
	if pageSize < 0 || pageSize > MaxPageSize {
		return domain.RecommendationPage{}, domain.ValidationError(fmt.Sprintf("pageSize must be between 1 and %d", MaxPageSize))
	}

	ranked, policy, err := s.run(ctx, userIdentifier)
	if err != nil {
		RecommendRequestsTotal.WithLabelValues("error").Inc()
		return domain.RecommendationPage{}, err
	}
	RecommendRequestsTotal.WithLabelValues("ok").Inc()

	if pageSize == 0 {
		pageSize = policy.PageSize
	}

	total := len(ranked)
	totalPages := (total + pageSize - 1) / pageSize
	from := min((page-1)*pageSize, total)
	to := min(from+pageSize, total)

	return domain.RecommendationPage{
		Recommendations: toRecommended(ranked[from:to]),
		TotalRecords:    total,
		CurrentPage:     page,
		TotalPages:      totalPages,
		PageSize:        pageSize,
		HasMore:         page < totalPages,
	}, nil
}

// DebugRecommend returns the same ranking as Recommend with every score component.
func (s *Service) DebugRecommend(ctx context.Context, userIdentifier string) ([]domain.DebugRecommendation, error) {
	ranked, policy, err := s.run(ctx, userIdentifier)
	if err != nil {
		return nil, err
	}
	ranked = truncate(ranked, policy.PageSize)

	out := make([]domain.DebugRecommendation, 0, len(ranked))
	for _, c := range ranked {
		out = append(out, domain.DebugRecommendation{
			RecordID:         c.record.ID,
			Sources:          c.sources,
			InteractionScore: c.record.InteractionScore,
			TagMatchScore:    c.tagMatch,
			TimeDecay:        c.decay,
			FinalScore:       c.final,
		})
	}
	return out, nil
}

// run ranks the whole merged candidate pool.
func (s *Service) run(ctx context.Context, userIdentifier string) ([]candidate, scoring.Policy, error) {
	if userIdentifier == "" || domain.IsGuestIdentifier(userIdentifier) {
		return nil, scoring.Policy{}, domain.UnauthorizedError("sign in to get recommendations")
	}
	if err := ctx.Err(); err != nil {
		return nil, scoring.Policy{}, fmt.Errorf("context error: %w", err)
	}

	policy := s.policy.Load(ctx)
	tid := trace.TraceIDFromContext(ctx)

	tags, err := s.views.RecentTags(ctx, userIdentifier, policy.RecentViewWindow)
	if err != nil {
		// without recent tags content recall is empty and tag match is 0
		logger.Warn("recent tags unavailable",
			"trace_id", tid,
			"user", userIdentifier,
			"error", err,
		)
		tags = nil
	}

	sets := s.recall(ctx, policy, tags)
	candidates := merge(sets)
	ranked := rank(candidates, tags, policy, s.now())

	logger.Debug("recommend",
		"trace_id", tid,
		"user", userIdentifier,
		"recent_tags", len(tags),
		"content", len(sets[domain.RecallContent]),
		"popular", len(sets[domain.RecallPopular]),
		"recent", len(sets[domain.RecallRecent]),
		"ranked", len(ranked),
	)

	return ranked, policy, nil
}

func observe(start time.Time) {
	RecommendLatency.Observe(time.Since(start).Seconds())
}

func truncate(ranked []candidate, n int) []candidate {
	if len(ranked) > n {
		return ranked[:n]
	}
	return ranked
}

func toRecommended(ranked []candidate) []domain.RecommendedRecord {
	out := make([]domain.RecommendedRecord, 0, len(ranked))
	for _, c := range ranked {
		out = append(out, domain.RecommendedRecord{Record: c.record, Score: c.final})
	}
	return out
}
