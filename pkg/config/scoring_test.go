package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadScoringDefaults(t *testing.T) {
	cfg, err := LoadScoring("")
	require.NoError(t, err)
	assert.Equal(t, DefaultScoringConfig(), cfg)
}

func TestLoadScoringFileThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scoring.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
weights:
  like: 4
rank:
  tag_match: 0.5
decay_window: 72h
recall:
  recent: 3
`), 0o600))

	t.Setenv("SCORING_WEIGHT_BOOKMARK", "8")
	t.Setenv("SCORING_RECALL_RECENT", "7")
	t.Setenv("SCORING_MIGRATION_SCORES_REACTIONS", "false")

	cfg, err := LoadScoring(path)
	require.NoError(t, err)

	assert.Equal(t, 4.0, cfg.Weights.Like)
	assert.Equal(t, 8.0, cfg.Weights.Bookmark)
	assert.Equal(t, 1.0, cfg.Weights.View)
	assert.Equal(t, 0.5, cfg.Rank.TagMatch)
	assert.Equal(t, 72*time.Hour, cfg.DecayWindow)
	assert.Equal(t, 7, cfg.Recall.Recent)
	assert.Equal(t, 10, cfg.Recall.Popular)
	assert.False(t, cfg.MigrationScoresReactions)
}

func TestLoadScoringMissingFile(t *testing.T) {
	_, err := LoadScoring(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
