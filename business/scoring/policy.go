package scoring

import (
	"caseLibrary/domain"
	"errors"
	"time"
)

// ActionWeights are the interaction-score increments per tracked action.
type ActionWeights struct {
	View     float64
	Like     float64
	Bookmark float64
	// Duration is added per second of view time on top of View.
	Duration float64
}

// RankWeights combine the three ranking signals into a final score.
type RankWeights struct {
	Interaction float64
	TagMatch    float64
	TimeDecay   float64
}

// Policy is the whole tunable scoring surface. Ranking code never reads literals.
type Policy struct {
	Actions ActionWeights
	Rank    RankWeights

	DecayWindow time.Duration

	ContentRecallSize int
	PopularRecallSize int
	RecentRecallSize  int
	// RecentViewWindow is how many distinct recently viewed records feed the user's tags.
	RecentViewWindow int
	PageSize         int

	// MigrationScoresReactions makes migrated likes/bookmarks carry the same
	// interactionScore delta as a live toggle.
	MigrationScoresReactions bool
}

const (
	defaultWeightView     = 1.0
	defaultWeightLike     = 3.0
	defaultWeightBookmark = 5.0
	defaultWeightDuration = 0.1

	defaultRankInteraction = 0.4
	defaultRankTagMatch    = 0.4
	defaultRankTimeDecay   = 0.2

	defaultDecayWindow       = 7 * 24 * time.Hour
	defaultContentRecallSize = 10
	defaultPopularRecallSize = 10
	defaultRecentRecallSize  = 5
	defaultRecentViewWindow  = 10
	defaultPageSize          = 20
)

func DefaultPolicy() Policy {
	return Policy{
		Actions: ActionWeights{
			View:     defaultWeightView,
			Like:     defaultWeightLike,
			Bookmark: defaultWeightBookmark,
			Duration: defaultWeightDuration,
		},
		Rank: RankWeights{
			Interaction: defaultRankInteraction,
			TagMatch:    defaultRankTagMatch,
			TimeDecay:   defaultRankTimeDecay,
		},
		DecayWindow:              defaultDecayWindow,
		ContentRecallSize:        defaultContentRecallSize,
		PopularRecallSize:        defaultPopularRecallSize,
		RecentRecallSize:         defaultRecentRecallSize,
		RecentViewWindow:         defaultRecentViewWindow,
		PageSize:                 defaultPageSize,
		MigrationScoresReactions: true,
	}
}

func (p Policy) Validate() error {
	a := p.Actions
	if a.View < 0 || a.Like < 0 || a.Bookmark < 0 || a.Duration < 0 {
		return errors.New("action weights must not be negative")
	}
	r := p.Rank
	if r.Interaction < 0 || r.TagMatch < 0 || r.TimeDecay < 0 {
		return errors.New("rank weights must not be negative")
	}
	if p.DecayWindow <= 0 {
		return errors.New("decay window must be positive")
	}
	if p.ContentRecallSize < 0 || p.PopularRecallSize < 0 || p.RecentRecallSize < 0 {
		return errors.New("recall sizes must not be negative")
	}
	if p.RecentViewWindow <= 0 {
		return errors.New("recent view window must be positive")
	}
	if p.PageSize <= 0 {
		return errors.New("page size must be positive")
	}
	return nil
}

// ActionWeight returns the flat weight of an action, without duration.
func (p Policy) ActionWeight(action domain.ActionType) (float64, error) {
	switch action {
	case domain.ActionView:
		return p.Actions.View, nil
	case domain.ActionLike:
		return p.Actions.Like, nil
	case domain.ActionBookmark:
		return p.Actions.Bookmark, nil
	default:
		return 0, domain.ValidationError("unknown action type: " + string(action))
	}
}

// WeightFor is the interactionScore increment of one tracked action.
// Durations only count for views.
func (p Policy) WeightFor(action domain.ActionType, duration *float64) (float64, error) {
	w, err := p.ActionWeight(action)
	if err != nil {
		return 0, err
	}
	if action == domain.ActionView && duration != nil {
		w += *duration * p.Actions.Duration
	}
	return w, nil
}

// WithOverride layers a stored policy row over p; nil fields keep p's values.
func (p Policy) WithOverride(o domain.RecommendPolicy) Policy {
	out := p

	setFloat(&out.Actions.View, o.WeightView)
	setFloat(&out.Actions.Like, o.WeightLike)
	setFloat(&out.Actions.Bookmark, o.WeightBookmark)
	setFloat(&out.Actions.Duration, o.WeightDuration)

	setFloat(&out.Rank.Interaction, o.RankInteraction)
	setFloat(&out.Rank.TagMatch, o.RankTagMatch)
	setFloat(&out.Rank.TimeDecay, o.RankTimeDecay)

	if o.DecayWindowHours != nil {
		out.DecayWindow = time.Duration(*o.DecayWindowHours * float64(time.Hour))
	}
	setInt(&out.ContentRecallSize, o.ContentRecallSize)
	setInt(&out.PopularRecallSize, o.PopularRecallSize)
	setInt(&out.RecentRecallSize, o.RecentRecallSize)
	setInt(&out.RecentViewWindow, o.RecentViewWindow)
	setInt(&out.PageSize, o.PageSize)

	return out
}

func setFloat(dst *float64, v *float64) {
	if v != nil {
		*dst = *v
	}
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}
