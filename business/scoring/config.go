package scoring

import "caseLibrary/pkg/config"

// PolicyFromConfig converts the boot-time scoring configuration into a Policy.
func PolicyFromConfig(cfg config.ScoringConfig) Policy {
	return Policy{
		Actions: ActionWeights{
			View:     cfg.Weights.View,
			Like:     cfg.Weights.Like,
			Bookmark: cfg.Weights.Bookmark,
			Duration: cfg.Weights.Duration,
		},
		Rank: RankWeights{
			Interaction: cfg.Rank.Interaction,
			TagMatch:    cfg.Rank.TagMatch,
			TimeDecay:   cfg.Rank.TimeDecay,
		},
		DecayWindow:              cfg.DecayWindow,
		ContentRecallSize:        cfg.Recall.Content,
		PopularRecallSize:        cfg.Recall.Popular,
		RecentRecallSize:         cfg.Recall.Recent,
		RecentViewWindow:         cfg.Recall.RecentViews,
		PageSize:                 cfg.PageSize,
		MigrationScoresReactions: cfg.MigrationScoresReactions,
	}
}
