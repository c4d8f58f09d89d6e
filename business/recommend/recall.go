package recommend

import (
	"caseLibrary/business/scoring"
	"caseLibrary/domain"
	"caseLibrary/pkg/logger"
	"caseLibrary/pkg/trace"
	"context"

	"golang.org/x/sync/errgroup"
)

// recallOrder is the merge precedence of the candidate sets.
var recallOrder = []domain.RecallSource{
	domain.RecallContent,
	domain.RecallPopular,
	domain.RecallRecent,
}

// recall runs the three candidate queries in parallel. A failing branch is logged and
// contributes nothing; the others still return.
func (s *Service) recall(ctx context.Context, policy scoring.Policy, tags []string) map[domain.RecallSource][]domain.Record {
	filters := map[domain.RecallSource]*domain.RecordFilter{
		domain.RecallPopular: {Sort: domain.SortPopular, Limit: policy.PopularRecallSize},
		domain.RecallRecent:  {Sort: domain.SortLatest, Limit: policy.RecentRecallSize},
	}
	if len(tags) > 0 {
		filters[domain.RecallContent] = &domain.RecordFilter{Sort: domain.SortPopular, Tags: tags, Limit: policy.ContentRecallSize}
	}

	results := make([][]domain.Record, len(recallOrder))

	// branches never return an error so one failure does not cancel the others
	var g errgroup.Group
	for i, source := range recallOrder {
		i, source := i, source
		filter := filters[source]
		if filter == nil || filter.Limit <= 0 {
			continue
		}
		g.Go(func() error {
			records, err := s.records.List(ctx, *filter)
			if err != nil {
				RecallFailuresTotal.WithLabelValues(string(source)).Inc()
				logger.Warn("recall branch failed",
					"trace_id", trace.TraceIDFromContext(ctx),
					"source", source,
					"error", err,
				)
				return nil
			}
			results[i] = records
			return nil
		})
	}
	_ = g.Wait()

	out := make(map[domain.RecallSource][]domain.Record, len(recallOrder))
	for i, source := range recallOrder {
		out[source] = results[i]
	}
	return out
}
