// Package dataset loads labeled or unlabeled documents from a directory tree.
package dataset

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"

	"docclass/internal/models"
	"docclass/internal/parser"
)

const DefaultExcludePrefix = "-"

// Options tunes the loader. A zero value uses DefaultExcludePrefix and
// parser.ExtractText.
type Options struct {
	ExcludePrefix string
	Extract       func(path string) (string, error)
}

func (o *Options) withDefaults() Options {
	out := Options{ExcludePrefix: DefaultExcludePrefix, Extract: parser.ExtractText}
	if o == nil {
		return out
	}
	if o.ExcludePrefix != "" {
		out.ExcludePrefix = o.ExcludePrefix
	}
	if o.Extract != nil {
		out.Extract = o.Extract
	}
	return out
}

// Load reads root according to mode. In train mode every subdirectory not
// starting with the exclusion prefix is a class; in inference mode every
// file directly under root is one document.
func Load(root string, mode models.Mode, opts *Options) (*models.Dataset, error) {
	o := opts.withDefaults()
	ds := &models.Dataset{Mode: mode}

	var err error
	switch mode {
	case models.ModeTrain:
		err = loadLabeled(root, o, ds)
	case models.ModeInference:
		err = loadFlat(root, "", o, ds)
	default:
		err = fmt.Errorf("unknown dataset mode %d", mode)
	}
	if err != nil {
		return nil, err
	}

	log.Debug().
		Str("root", root).
		Stringer("mode", mode).
		Int("documents", ds.Len()).
		Msg("Loaded dataset")
	return ds, nil
}

func loadLabeled(root string, o Options, ds *models.Dataset) error {
	entries, err := os.ReadDir(root)
	if err != nil {
		return fmt.Errorf("failed to read dataset root %s: %w", root, err)
	}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		class := entry.Name()
		if strings.HasPrefix(class, o.ExcludePrefix) {
			log.Debug().Str("class", class).Msg("Skipping excluded folder")
			continue
		}
		if err := loadFlat(filepath.Join(root, class), class, o, ds); err != nil {
			return err
		}
	}
	return nil
}

func loadFlat(dir, label string, o Options, ds *models.Dataset) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("failed to read directory %s: %w", dir, err)
	}
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		content, err := o.Extract(path)
		if err != nil {
			return fmt.Errorf("failed to load %s: %w", path, err)
		}
		ds.Documents = append(ds.Documents, models.Document{
			Text:     content,
			Label:    label,
			FileName: entry.Name(),
		})
	}
	return nil
}
