package parser

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestExtractText(t *testing.T) {
	dir := t.TempDir()

	t.Run("plain text is returned verbatim", func(t *testing.T) {
		path := writeFile(t, dir, "a.txt", []byte("  hello\tworld \n"))
		got, err := ExtractText(path)
		require.NoError(t, err)
		assert.Equal(t, "  hello\tworld \n", got)
	})

	t.Run("unknown extension is read as text", func(t *testing.T) {
		path := writeFile(t, dir, "notes", []byte("no extension"))
		got, err := ExtractText(path)
		require.NoError(t, err)
		assert.Equal(t, "no extension", got)
	})

	t.Run("invalid utf-8 fails", func(t *testing.T) {
		path := writeFile(t, dir, "bin.dat", []byte{0xff, 0xfe, 0xfd})
		_, err := ExtractText(path)
		assert.ErrorIs(t, err, ErrNotText)
	})

	t.Run("missing file propagates", func(t *testing.T) {
		_, err := ExtractText(filepath.Join(dir, "missing.txt"))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("markdown syntax is dropped", func(t *testing.T) {
		path := writeFile(t, dir, "doc.md", []byte("# Invoice\n\nTotal *due* now.\n"))
		got, err := ExtractText(path)
		require.NoError(t, err)
		assert.Contains(t, got, "Invoice")
		assert.Contains(t, got, "due")
		assert.NotContains(t, got, "#")
		assert.NotContains(t, got, "*")
	})

	t.Run("pptx slides in order", func(t *testing.T) {
		path := filepath.Join(dir, "deck.pptx")
		f, err := os.Create(path)
		require.NoError(t, err)
		zw := zip.NewWriter(f)
		for name, body := range map[string]string{
			"ppt/slides/slide2.xml":  `<p:sld><a:t>second</a:t></p:sld>`,
			"ppt/slides/slide1.xml":  `<p:sld><a:t>first</a:t><a:t>slide</a:t></p:sld>`,
			"ppt/slides/_rels/x.xml": `<a:t>ignored</a:t>`,
		} {
			w, err := zw.Create(name)
			require.NoError(t, err)
			_, err = w.Write([]byte(body))
			require.NoError(t, err)
		}
		require.NoError(t, zw.Close())
		require.NoError(t, f.Close())

		got, err := ExtractText(path)
		require.NoError(t, err)
		assert.Equal(t, "first slide \nsecond \n", got)
	})
}

func TestExtractTextFromXML(t *testing.T) {
	assert.Equal(t, "a b ", extractTextFromXML("<x><a:t>a</a:t><a:t>b</a:t></x>"))
	assert.Equal(t, "", extractTextFromXML("<x/>"))
}
