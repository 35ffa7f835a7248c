package config

import (
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "-", cfg.Dataset.ExcludePrefix)
	assert.Equal(t, []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1.0}, cfg.Classifier.Candidates)
	assert.Equal(t, TieBreakLast, cfg.Classifier.TieBreak)
	assert.Equal(t, 6, cfg.Aggregator.TopN)
	assert.True(t, *cfg.Vectorizer.Lowercase)
	assert.True(t, *cfg.Log.Console)
	assert.Equal(t, DriverPgdriver, cfg.Database.Driver)

	re, err := regexp.Compile(cfg.Vectorizer.TokenPattern)
	require.NoError(t, err)
	assert.Equal(t, []string{"café", "日本語", "x_1"}, re.FindAllString("café a 日本語 x_1", -1))
	assert.NoError(t, cfg.validate())
}

func TestLoadConfig(t *testing.T) {
	t.Run("overrides defaults", func(t *testing.T) {
		path := writeConfig(t, `
dataset:
  train_dir: ./data/train
  exclude_prefix: "_"
classifier:
  candidates: [0.5, 1.0]
  tie_break: first
vectorizer:
  lowercase: false
aggregator:
  top_n: 3
`)
		cfg, err := LoadConfig(path)

		require.NoError(t, err)
		assert.Equal(t, "./data/train", cfg.Dataset.TrainDir)
		assert.Equal(t, "_", cfg.Dataset.ExcludePrefix)
		assert.Equal(t, []float64{0.5, 1.0}, cfg.Classifier.Candidates)
		assert.Equal(t, TieBreakFirst, cfg.Classifier.TieBreak)
		assert.False(t, *cfg.Vectorizer.Lowercase)
		assert.Equal(t, 3, cfg.Aggregator.TopN)
		assert.Equal(t, defaultMaxIter, cfg.Classifier.MaxIter)
	})

	t.Run("rejects unknown tie break", func(t *testing.T) {
		path := writeConfig(t, "classifier:\n  tie_break: middle\n")
		_, err := LoadConfig(path)
		assert.ErrorContains(t, err, "tie_break")
	})

	t.Run("rejects non-positive candidate", func(t *testing.T) {
		path := writeConfig(t, "classifier:\n  candidates: [0.1, 0]\n")
		_, err := LoadConfig(path)
		assert.Error(t, err)
	})

	t.Run("rejects invalid token pattern", func(t *testing.T) {
		path := writeConfig(t, "vectorizer:\n  token_pattern: '(?u)\\b\\w\\w+\\b'\n")
		_, err := LoadConfig(path)
		assert.ErrorContains(t, err, "token_pattern")
	})

	t.Run("requires dsn for enabled database", func(t *testing.T) {
		path := writeConfig(t, "database:\n  enabled: true\n")
		_, err := LoadConfig(path)
		assert.ErrorContains(t, err, "dsn")
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}
