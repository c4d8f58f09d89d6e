package scoring

import (
	"caseLibrary/domain"
	"caseLibrary/pkg/logger"
	"context"
)

// DefaultPolicyName is the row the admin API edits and every request reads.
const DefaultPolicyName = "default"

type PolicyRepository interface {
	GetPolicy(ctx context.Context, name string) (domain.RecommendPolicy, bool, error)
	UpsertPolicy(ctx context.Context, p domain.RecommendPolicy) error
}

// Loader resolves the effective policy: the boot-time base with the stored override on top.
type Loader struct {
	repo PolicyRepository
	base Policy
}

func NewLoader(repo PolicyRepository, base Policy) *Loader {
	return &Loader{repo: repo, base: base}
}

// Load never fails: a missing, unreadable or invalid override falls back to the base policy.
func (l *Loader) Load(ctx context.Context) Policy {
	if l == nil {
		return DefaultPolicy()
	}
	if l.repo == nil {
		return l.base
	}

	override, ok, err := l.repo.GetPolicy(ctx, DefaultPolicyName)
	if err != nil {
		logger.Warn("failed to load stored scoring policy, using base", "error", err)
		return l.base
	}
	if !ok {
		return l.base
	}

	p := l.base.WithOverride(override)
	if err := p.Validate(); err != nil {
		logger.Warn("stored scoring policy is invalid, using base", "error", err)
		return l.base
	}
	return p
}

// Override returns the stored override row, or an empty row named DefaultPolicyName.
func (l *Loader) Override(ctx context.Context) (domain.RecommendPolicy, error) {
	override, ok, err := l.repo.GetPolicy(ctx, DefaultPolicyName)
	if err != nil {
		return domain.RecommendPolicy{}, err
	}
	if !ok {
		return domain.RecommendPolicy{Name: DefaultPolicyName}, nil
	}
	return override, nil
}

// SaveOverride validates the override against the base policy and stores it.
func (l *Loader) SaveOverride(ctx context.Context, override domain.RecommendPolicy) (Policy, error) {
	override.Name = DefaultPolicyName
	if negativeOverride(override) {
		return Policy{}, domain.ValidationError("policy values must not be negative")
	}

	p := l.base.WithOverride(override)
	if err := p.Validate(); err != nil {
		return Policy{}, domain.ValidationError(err.Error())
	}

	if err := l.repo.UpsertPolicy(ctx, override); err != nil {
		return Policy{}, err
	}
	return p, nil
}

func negativeOverride(o domain.RecommendPolicy) bool {
	for _, f := range []*float64{
		o.WeightView, o.WeightLike, o.WeightBookmark, o.WeightDuration,
		o.RankInteraction, o.RankTagMatch, o.RankTimeDecay, o.DecayWindowHours,
	} {
		if f != nil && *f < 0 {
			return true
		}
	}
	for _, n := range []*int{
		o.ContentRecallSize, o.PopularRecallSize, o.RecentRecallSize, o.RecentViewWindow, o.PageSize,
	} {
		if n != nil && *n < 0 {
			return true
		}
	}
	return false
}
