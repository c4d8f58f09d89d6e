package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

const scoringEnvPrefix = "SCORING_"

type ActionWeightsConfig struct {
	View     float64 `koanf:"view"`
	Like     float64 `koanf:"like"`
	Bookmark float64 `koanf:"bookmark"`
	Duration float64 `koanf:"duration"`
}

type RankWeightsConfig struct {
	Interaction float64 `koanf:"interaction"`
	TagMatch    float64 `koanf:"tag_match"`
	TimeDecay   float64 `koanf:"time_decay"`
}

type RecallConfig struct {
	Content     int `koanf:"content"`
	Popular     int `koanf:"popular"`
	Recent      int `koanf:"recent"`
	RecentViews int `koanf:"recent_views"`
}

// ScoringConfig is the boot-time scoring policy. Precedence: env > file > defaults.
type ScoringConfig struct {
	Weights                  ActionWeightsConfig `koanf:"weights"`
	Rank                     RankWeightsConfig   `koanf:"rank"`
	DecayWindow              time.Duration       `koanf:"decay_window"`
	Recall                   RecallConfig        `koanf:"recall"`
	PageSize                 int                 `koanf:"page_size"`
	MigrationScoresReactions bool                `koanf:"migration_scores_reactions"`
}

func DefaultScoringConfig() ScoringConfig {
	return ScoringConfig{
		Weights:                  ActionWeightsConfig{View: 1, Like: 3, Bookmark: 5, Duration: 0.1},
		Rank:                     RankWeightsConfig{Interaction: 0.4, TagMatch: 0.4, TimeDecay: 0.2},
		DecayWindow:              7 * 24 * time.Hour,
		Recall:                   RecallConfig{Content: 10, Popular: 10, Recent: 5, RecentViews: 10},
		PageSize:                 20,
		MigrationScoresReactions: true,
	}
}

// scoringEnvKeys maps SCORING_* variables (prefix stripped, lower-cased) to koanf paths.
var scoringEnvKeys = map[string]string{
	"weight_view":                "weights.view",
	"weight_like":                "weights.like",
	"weight_bookmark":            "weights.bookmark",
	"weight_duration":            "weights.duration",
	"rank_interaction":           "rank.interaction",
	"rank_tag_match":             "rank.tag_match",
	"rank_time_decay":            "rank.time_decay",
	"decay_window":               "decay_window",
	"recall_content":             "recall.content",
	"recall_popular":             "recall.popular",
	"recall_recent":              "recall.recent",
	"recall_recent_views":        "recall.recent_views",
	"page_size":                  "page_size",
	"migration_scores_reactions": "migration_scores_reactions",
}

func scoringEnvKey(key string) string {
	key = strings.ToLower(strings.TrimPrefix(key, scoringEnvPrefix))
	return scoringEnvKeys[key]
}

// LoadScoring layers built-in defaults, the optional YAML file at path and SCORING_* env vars.
func LoadScoring(path string) (ScoringConfig, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(DefaultScoringConfig(), "koanf"), nil); err != nil {
		return ScoringConfig{}, fmt.Errorf("failed to load scoring defaults: %w", err)
	}

	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return ScoringConfig{}, fmt.Errorf("scoring config file %s: %w", path, err)
		}
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return ScoringConfig{}, fmt.Errorf("failed to load scoring config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(scoringEnvPrefix, ".", scoringEnvKey), nil); err != nil {
		return ScoringConfig{}, fmt.Errorf("failed to load scoring env: %w", err)
	}

	var cfg ScoringConfig
	if err := k.Unmarshal("", &cfg); err != nil {
		return ScoringConfig{}, fmt.Errorf("failed to unmarshal scoring config: %w", err)
	}

	return cfg, nil
}
