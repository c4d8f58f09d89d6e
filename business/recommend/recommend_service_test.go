package recommend

import (
	"caseLibrary/business/scoring"
	"caseLibrary/domain"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticPolicy struct{ p scoring.Policy }

func (s staticPolicy) Load(context.Context) scoring.Policy { return s.p }

type fakeRecords struct {
	mu      sync.Mutex
	byQuery func(domain.RecordFilter) ([]domain.Record, error)
	calls   []domain.RecordFilter
}

func (f *fakeRecords) List(_ context.Context, filter domain.RecordFilter) ([]domain.Record, error) {
	f.mu.Lock()
	f.calls = append(f.calls, filter)
	f.mu.Unlock()
	return f.byQuery(filter)
}

type fakeViews struct {
	tags []string
	err  error
}

func (f fakeViews) RecentTags(context.Context, string, int) ([]string, error) {
	return f.tags, f.err
}

var now = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func rec(id string, score float64, updated time.Time, tags ...string) domain.Record {
	return domain.Record{ID: id, InteractionScore: score, LastUpdateTime: updated, Tags: domain.NewTags(tags...)}
}

func newTestService(records *fakeRecords, views fakeViews) *Service {
	s := NewService(records, views, staticPolicy{scoring.DefaultPolicy()})
	s.now = func() time.Time { return now }
	return s
}

func TestRecommend_RejectsAnonymousAndGuests(t *testing.T) {
	s := newTestService(&fakeRecords{byQuery: func(domain.RecordFilter) ([]domain.Record, error) { return nil, nil }}, fakeViews{})

	_, err := s.Recommend(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = s.Recommend(context.Background(), "guest_42")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestRecommend_NoRecentTagsSkipsContentRecall(t *testing.T) {
	records := &fakeRecords{byQuery: func(f domain.RecordFilter) ([]domain.Record, error) {
		return []domain.Record{rec("a", 1, now, "civil")}, nil
	}}
	s := newTestService(records, fakeViews{})

	got, err := s.DebugRecommend(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 0.0, got[0].TagMatchScore)
	assert.Len(t, records.calls, 2)
	for _, c := range records.calls {
		assert.Empty(t, c.Tags)
	}
}

func TestRecommend_RecallCaps(t *testing.T) {
	records := &fakeRecords{byQuery: func(domain.RecordFilter) ([]domain.Record, error) { return nil, nil }}
	s := newTestService(records, fakeViews{tags: []string{"civil"}})

	_, err := s.Recommend(context.Background(), "u1")
	require.NoError(t, err)

	limits := map[int]domain.SortCriterion{}
	for _, c := range records.calls {
		if len(c.Tags) > 0 {
			assert.Equal(t, 10, c.Limit)
			assert.Equal(t, domain.SortPopular, c.Sort)
			continue
		}
		limits[c.Limit] = c.Sort
	}
	assert.Equal(t, map[int]domain.SortCriterion{10: domain.SortPopular, 5: domain.SortLatest}, limits)
}

func TestRecommend_FailingBranchIsEmpty(t *testing.T) {
	records := &fakeRecords{byQuery: func(f domain.RecordFilter) ([]domain.Record, error) {
		if f.Sort == domain.SortPopular && len(f.Tags) == 0 {
			return nil, errors.New("timeout")
		}
		if len(f.Tags) > 0 {
			return []domain.Record{rec("content", 2, now, "civil")}, nil
		}
		return []domain.Record{rec("recent", 0, now)}, nil
	}}
	s := newTestService(records, fakeViews{tags: []string{"civil"}})

	got, err := s.Recommend(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "content", got[0].ID)
	assert.Equal(t, "recent", got[1].ID)
}

func TestRecommend_RecentTagsFailureDegrades(t *testing.T) {
	records := &fakeRecords{byQuery: func(domain.RecordFilter) ([]domain.Record, error) {
		return []domain.Record{rec("a", 1, now)}, nil
	}}
	s := newTestService(records, fakeViews{err: errors.New("db down")})

	got, err := s.Recommend(context.Background(), "u1")
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestRecommend_TruncatesToPageSize(t *testing.T) {
	records := &fakeRecords{byQuery: func(f domain.RecordFilter) ([]domain.Record, error) {
		out := make([]domain.Record, 0, f.Limit)
		for i := 0; i < f.Limit; i++ {
			out = append(out, rec(string(rune('a'+i))+string(f.Sort), float64(i), now))
		}
		return out, nil
	}}
	p := scoring.DefaultPolicy()
	p.PageSize = 4
	s := NewService(records, fakeViews{}, staticPolicy{p})

	got, err := s.Recommend(context.Background(), "u1")
	require.NoError(t, err)
	assert.Len(t, got, 4)
}

func TestMerge_FirstOccurrenceWins(t *testing.T) {
	sets := map[domain.RecallSource][]domain.Record{
		domain.RecallContent: {rec("a", 1, now, "civil")},
		domain.RecallPopular: {rec("a", 99, now), rec("b", 2, now)},
		domain.RecallRecent:  {rec("b", 50, now), rec("c", 0, now)},
	}

	got := merge(sets)
	require.Len(t, got, 3)
	assert.Equal(t, 1.0, got[0].record.InteractionScore)
	assert.Equal(t, []domain.RecallSource{domain.RecallContent, domain.RecallPopular}, got[0].sources)
	assert.Equal(t, 2.0, got[1].record.InteractionScore)
	assert.Equal(t, []domain.RecallSource{domain.RecallPopular, domain.RecallRecent}, got[1].sources)
}

func TestRank_Formula(t *testing.T) {
	p := scoring.DefaultPolicy()
	r := rec("a", 3, now.Add(-7*24*time.Hour), "civil", "family")

	got := rank([]*candidate{{record: r}}, []string{"civil", "tax"}, p, now)
	require.Len(t, got, 1)
	assert.InDelta(t, 0.5, got[0].tagMatch, 1e-9)
	assert.InDelta(t, 0.36787944117, got[0].decay, 1e-9)
	assert.InDelta(t, 3*0.4+0.5*0.4+0.36787944117*0.2, got[0].final, 1e-9)
}

func TestRank_TieBreaks(t *testing.T) {
	p := scoring.DefaultPolicy()
	p.Rank.TimeDecay = 0
	older := now.Add(-time.Hour)

	in := []*candidate{
		{record: rec("b", 1, older)},
		{record: rec("c", 1, now)},
		{record: rec("a", 1, older)},
		{record: rec("d", 2, older)},
	}

	for i := 0; i < 5; i++ {
		got := rank(in, nil, p, now)
		ids := make([]string, 0, len(got))
		for _, c := range got {
			ids = append(ids, c.record.ID)
		}
		assert.Equal(t, []string{"d", "c", "a", "b"}, ids)
	}
}

func TestRecommendPage_WalksWholePoolInOrder(t *testing.T) {
	records := &fakeRecords{byQuery: func(f domain.RecordFilter) ([]domain.Record, error) {
		out := make([]domain.Record, 0, f.Limit)
		for i := 0; i < f.Limit; i++ {
			out = append(out, rec(string(rune('a'+i))+string(f.Sort), float64(i), now.Add(-time.Duration(i)*time.Hour)))
		}
		return out, nil
	}}
	p := scoring.DefaultPolicy()
	p.PageSize = 4
	s := NewService(records, fakeViews{}, staticPolicy{p})
	s.now = func() time.Time { return now }
	ctx := context.Background()

	first, err := s.RecommendPage(ctx, "u1", 1, 0)
	require.NoError(t, err)
	assert.Equal(t, 4, first.PageSize)
	assert.Equal(t, 15, first.TotalRecords)
	assert.Equal(t, 4, first.TotalPages)
	assert.True(t, first.HasMore)

	top, err := s.Recommend(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, top, first.Recommendations)

	seen := map[string]bool{}
	var scores []float64
	for page := 1; page <= first.TotalPages; page++ {
		got, err := s.RecommendPage(ctx, "u1", page, 4)
		require.NoError(t, err)
		assert.Equal(t, page < 4, got.HasMore)
		for _, r := range got.Recommendations {
			assert.False(t, seen[r.ID], "record %s repeated", r.ID)
			seen[r.ID] = true
			scores = append(scores, r.Score)
		}
	}
	assert.Len(t, seen, 15)
	assert.IsNonIncreasing(t, scores)

	past, err := s.RecommendPage(ctx, "u1", 9, 4)
	require.NoError(t, err)
	assert.Empty(t, past.Recommendations)
	assert.False(t, past.HasMore)
}

func TestRecommendPage_Validation(t *testing.T) {
	s := newTestService(&fakeRecords{byQuery: func(domain.RecordFilter) ([]domain.Record, error) { return nil, nil }}, fakeViews{})
	ctx := context.Background()

	_, err := s.RecommendPage(ctx, "u1", 0, 10)
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = s.RecommendPage(ctx, "u1", 1, MaxPageSize+1)
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = s.RecommendPage(ctx, "guest_1", 1, 10)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	empty, err := s.RecommendPage(ctx, "u1", 1, 10)
	require.NoError(t, err)
	assert.Zero(t, empty.TotalPages)
	assert.False(t, empty.HasMore)
}
