package scoring

import (
	"caseLibrary/domain"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memPolicyRepo struct {
	rows map[string]domain.RecommendPolicy
	err  error
}

func (m *memPolicyRepo) GetPolicy(_ context.Context, name string) (domain.RecommendPolicy, bool, error) {
	if m.err != nil {
		return domain.RecommendPolicy{}, false, m.err
	}
	p, ok := m.rows[name]
	return p, ok, nil
}

func (m *memPolicyRepo) UpsertPolicy(_ context.Context, p domain.RecommendPolicy) error {
	if m.rows == nil {
		m.rows = map[string]domain.RecommendPolicy{}
	}
	m.rows[p.Name] = p
	return nil
}

func TestLoader_FallsBackToBase(t *testing.T) {
	base := DefaultPolicy()

	l := NewLoader(&memPolicyRepo{}, base)
	assert.Equal(t, base, l.Load(context.Background()))

	l = NewLoader(&memPolicyRepo{err: errors.New("db down")}, base)
	assert.Equal(t, base, l.Load(context.Background()))

	var nilLoader *Loader
	assert.Equal(t, DefaultPolicy(), nilLoader.Load(context.Background()))
}

func TestLoader_AppliesOverride(t *testing.T) {
	repo := &memPolicyRepo{}
	l := NewLoader(repo, DefaultPolicy())
	ctx := context.Background()

	p, err := l.SaveOverride(ctx, domain.RecommendPolicy{WeightLike: ptr(4.0), PageSize: ptr(30)})
	require.NoError(t, err)
	assert.Equal(t, 4.0, p.Actions.Like)
	assert.Equal(t, 30, p.PageSize)

	loaded := l.Load(ctx)
	assert.Equal(t, 4.0, loaded.Actions.Like)
	assert.Equal(t, 5.0, loaded.Actions.Bookmark)

	row, err := l.Override(ctx)
	require.NoError(t, err)
	assert.Equal(t, DefaultPolicyName, row.Name)
}

func TestLoader_RejectsNegativeOverride(t *testing.T) {
	l := NewLoader(&memPolicyRepo{}, DefaultPolicy())

	_, err := l.SaveOverride(context.Background(), domain.RecommendPolicy{WeightLike: ptr(-1.0)})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestLoader_ZeroOverrideDisablesSignal(t *testing.T) {
	l := NewLoader(&memPolicyRepo{}, DefaultPolicy())
	ctx := context.Background()

	_, err := l.SaveOverride(ctx, domain.RecommendPolicy{WeightDuration: ptr(0.0), ContentRecallSize: ptr(0)})
	require.NoError(t, err)

	p := l.Load(ctx)
	assert.Zero(t, p.Actions.Duration)
	assert.Zero(t, p.ContentRecallSize)
	assert.Equal(t, 1.0, p.Actions.View)

	w, err := p.WeightFor(domain.ActionView, ptr(120.0))
	require.NoError(t, err)
	assert.Equal(t, 1.0, w)
}

func TestLoader_RejectsZeroPageSize(t *testing.T) {
	l := NewLoader(&memPolicyRepo{}, DefaultPolicy())

	_, err := l.SaveOverride(context.Background(), domain.RecommendPolicy{PageSize: ptr(0)})
	assert.ErrorIs(t, err, domain.ErrValidation)
}
