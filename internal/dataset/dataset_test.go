package dataset

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docclass/internal/models"
	"docclass/internal/parser"
)

func mkfile(t *testing.T, root string, rel string, body string) {
	t.Helper()
	path := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
}

func TestLoadTrain(t *testing.T) {
	root := t.TempDir()
	mkfile(t, root, "cat/a.txt", "meow")
	mkfile(t, root, "cat/b.txt", "purr")
	mkfile(t, root, "dog/c.txt", "woof")
	mkfile(t, root, "-ignore/d.txt", "skip me")
	mkfile(t, root, "stray.txt", "not in a class")

	ds, err := Load(root, models.ModeTrain, nil)

	require.NoError(t, err)
	assert.Equal(t, 3, ds.Len())
	assert.Equal(t, []string{"cat", "cat", "dog"}, ds.Labels())
	assert.Equal(t, []string{"meow", "purr", "woof"}, ds.Texts())
	assert.Equal(t, []string{"a.txt", "b.txt", "c.txt"}, ds.FileNames())
	assert.Equal(t, models.ModeTrain, ds.Mode)
}

func TestLoadTrainCustomPrefix(t *testing.T) {
	root := t.TempDir()
	mkfile(t, root, "_old/a.txt", "x")
	mkfile(t, root, "-kept/b.txt", "y")

	ds, err := Load(root, models.ModeTrain, &Options{ExcludePrefix: "_"})

	require.NoError(t, err)
	assert.Equal(t, []string{"-kept"}, ds.Labels())
}

func TestLoadInference(t *testing.T) {
	root := t.TempDir()
	mkfile(t, root, "x.txt", "first")
	mkfile(t, root, "y.txt", "second")
	mkfile(t, root, "sub/z.txt", "nested")

	ds, err := Load(root, models.ModeInference, nil)

	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second"}, ds.Texts())
	assert.Equal(t, []string{"x.txt", "y.txt"}, ds.FileNames())
	assert.Equal(t, []string{"", ""}, ds.Labels())
}

func TestLoadErrors(t *testing.T) {
	t.Run("missing root", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope"), models.ModeTrain, nil)
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("binary file", func(t *testing.T) {
		root := t.TempDir()
		mkfile(t, root, "cls/blob.bin", string([]byte{0xff, 0xfe}))
		_, err := Load(root, models.ModeTrain, nil)
		assert.ErrorIs(t, err, parser.ErrNotText)
	})

	t.Run("extractor error propagates unchanged", func(t *testing.T) {
		root := t.TempDir()
		mkfile(t, root, "a.txt", "x")
		boom := errors.New("boom")
		_, err := Load(root, models.ModeInference, &Options{
			Extract: func(string) (string, error) { return "", boom },
		})
		assert.ErrorIs(t, err, boom)
	})
}
