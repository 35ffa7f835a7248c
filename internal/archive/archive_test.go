package archive

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docclass/internal/config"
)

func memoryArchive(t *testing.T) *Archive {
	t.Helper()
	a, err := Open(config.ArchiveConfig{InMemory: true, Collection: "test"}, "model-1")
	require.NoError(t, err)
	return a
}

func TestAddAndSimilar(t *testing.T) {
	ctx := context.Background()
	a := memoryArchive(t)

	added, err := a.Add(ctx, []Entry{
		{FileName: "inv1.txt", Class: "invoice", Confidence: 0.91, Text: "invoice one", Vector: []float64{1, 0, 0}},
		{FileName: "inv2.txt", Class: "invoice", Confidence: 0.8, Text: "invoice two", Vector: []float64{0.9, 0.1, 0}},
		{FileName: "let1.txt", Class: "letter", Confidence: 0.7, Text: "letter", Vector: []float64{0, 1, 0}},
		{FileName: "blank.txt", Class: "letter", Confidence: 0.5, Text: "", Vector: []float64{0, 0, 0}},
	})
	require.NoError(t, err)
	assert.Equal(t, 3, added)
	assert.Equal(t, 3, a.Count())

	t.Run("nearest first", func(t *testing.T) {
		matches, err := a.Similar(ctx, []float64{2, 0, 0}, 2, "")
		require.NoError(t, err)
		require.Len(t, matches, 2)
		assert.Equal(t, "inv1.txt", matches[0].FileName)
		assert.Equal(t, "invoice", matches[0].Class)
		assert.Equal(t, 0.91, matches[0].Confidence)
		assert.InDelta(t, 1.0, matches[0].Similarity, 1e-5)
		assert.Equal(t, "inv2.txt", matches[1].FileName)
	})

	t.Run("class filter", func(t *testing.T) {
		matches, err := a.Similar(ctx, []float64{1, 0, 0}, 1, "letter")
		require.NoError(t, err)
		require.Len(t, matches, 1)
		assert.Equal(t, "let1.txt", matches[0].FileName)
	})

	t.Run("n is clamped to the collection size", func(t *testing.T) {
		matches, err := a.Similar(ctx, []float64{0, 1, 0}, 10, "")
		require.NoError(t, err)
		assert.Len(t, matches, 3)
	})

	t.Run("empty vector", func(t *testing.T) {
		_, err := a.Similar(ctx, []float64{0, 0, 0}, 1, "")
		assert.ErrorIs(t, err, ErrEmptyVector)
	})
}

func TestEmptyArchive(t *testing.T) {
	a := memoryArchive(t)
	matches, err := a.Similar(context.Background(), []float64{1}, 5, "")
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestExportRequiresKey(t *testing.T) {
	a := memoryArchive(t)
	_, err := a.Export()
	assert.ErrorIs(t, err, ErrEncryptionKeyRequired)
}

func TestNormalized(t *testing.T) {
	v, ok := normalized([]float64{3, 4})
	assert.True(t, ok)
	assert.InDelta(t, 0.6, v[0], 1e-6)
	assert.InDelta(t, 0.8, v[1], 1e-6)

	_, ok = normalized([]float64{0, 0})
	assert.False(t, ok)
}
