// Package archive keeps classified documents in a chromem-go collection,
// keyed by their feature vectors, so similar past documents can be found.
package archive

import (
	"context"
	"fmt"
	"path/filepath"
	"runtime"
	"strconv"

	"github.com/philippgille/chromem-go"
	"github.com/rs/zerolog/log"
	"gonum.org/v1/gonum/floats"

	"docclass/internal/config"
	"docclass/internal/helper"
)

const (
	metaFileName   = "file_name"
	metaClass      = "class"
	metaConfidence = "confidence"
	metaModelID    = "model_id"
)

// Entry is one classified document to archive.
type Entry struct {
	FileName   string
	Class      string
	Confidence float64
	Text       string
	Vector     []float64
}

// Match is an archived document returned by a similarity query.
type Match struct {
	ID         string  `json:"id"`
	FileName   string  `json:"file_name"`
	Class      string  `json:"class"`
	Confidence float64 `json:"confidence"`
	Similarity float32 `json:"similarity"`
}

// Archive wraps one collection per trained model; vectors from different
// models live in different feature spaces and are never mixed.
type Archive struct {
	db            *chromem.DB
	collection    *chromem.Collection
	modelID       string
	compress      bool
	encryptionKey string
	filePath      string
}

// Open creates or opens the archive collection for modelID.
func Open(cfg config.ArchiveConfig, modelID string) (*Archive, error) {
	var db *chromem.DB
	var err error
	if cfg.InMemory {
		db = chromem.NewDB()
	} else {
		if err := helper.CreateFolder(cfg.Path); err != nil {
			return nil, err
		}
		db, err = chromem.NewPersistentDB(cfg.Path, cfg.Compress)
		if err != nil {
			return nil, fmt.Errorf("failed to create database: %w", err)
		}
	}

	name := cfg.Collection + "-" + modelID
	c, err := db.GetOrCreateCollection(name, map[string]string{metaModelID: modelID}, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create/get collection: %w", err)
	}

	return &Archive{
		db:            db,
		collection:    c,
		modelID:       modelID,
		compress:      cfg.Compress,
		encryptionKey: cfg.EncryptionKey,
		filePath:      filepath.Join(cfg.Path, name+".chromem"),
	}, nil
}

func (a *Archive) Count() int {
	return a.collection.Count()
}

// Add stores entries; entries whose vector is all zeros are skipped since
// they have no direction to compare.
func (a *Archive) Add(ctx context.Context, entries []Entry) (int, error) {
	docs := make([]chromem.Document, 0, len(entries))
	for _, e := range entries {
		emb, ok := normalized(e.Vector)
		if !ok {
			log.Debug().Str("file", e.FileName).Msg("Skipping document with empty feature vector")
			continue
		}
		id, err := helper.GenerateUUID()
		if err != nil {
			return 0, err
		}
		docs = append(docs, chromem.Document{
			ID:      id,
			Content: e.Text,
			Metadata: map[string]string{
				metaFileName:   e.FileName,
				metaClass:      e.Class,
				metaConfidence: strconv.FormatFloat(e.Confidence, 'f', -1, 64),
				metaModelID:    a.modelID,
			},
			Embedding: emb,
		})
	}
	if len(docs) == 0 {
		return 0, nil
	}
	if err := a.collection.AddDocuments(ctx, docs, runtime.NumCPU()); err != nil {
		return 0, fmt.Errorf("failed to add documents: %w", err)
	}
	return len(docs), nil
}

// Similar returns up to n archived documents closest to vector, optionally
// restricted to one class.
func (a *Archive) Similar(ctx context.Context, vector []float64, n int, class string) ([]Match, error) {
	emb, ok := normalized(vector)
	if !ok {
		return nil, ErrEmptyVector
	}
	if count := a.collection.Count(); n > count {
		n = count
	}
	if n <= 0 {
		return nil, nil
	}

	var where map[string]string
	if class != "" {
		where = map[string]string{metaClass: class}
	}
	results, err := a.collection.QueryEmbedding(ctx, emb, n, where, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to query by similarity: %w", err)
	}

	matches := make([]Match, len(results))
	for i, r := range results {
		conf, _ := strconv.ParseFloat(r.Metadata[metaConfidence], 64)
		matches[i] = Match{
			ID:         r.ID,
			FileName:   r.Metadata[metaFileName],
			Class:      r.Metadata[metaClass],
			Confidence: conf,
			Similarity: r.Similarity,
		}
	}
	return matches, nil
}

func (a *Archive) DeleteCollection() error {
	if err := a.db.DeleteCollection(a.collection.Name); err != nil {
		return fmt.Errorf("failed to drop collection: %w", err)
	}
	return nil
}

// Export writes the collection to an encrypted file next to the database.
func (a *Archive) Export() (string, error) {
	if a.encryptionKey == "" {
		return "", ErrEncryptionKeyRequired
	}
	log.Debug().
		Str("collection", a.collection.Name).
		Str("file", a.filePath).
		Bool("compress", a.compress).
		Msg("Exporting archive")
	if err := a.db.ExportToFile(a.filePath, a.compress, a.encryptionKey, a.collection.Name); err != nil {
		return "", fmt.Errorf("failed to export database: %w", err)
	}
	return a.filePath, nil
}

// Import loads a previously exported collection file.
func (a *Archive) Import(path string) error {
	if err := a.db.ImportFromFile(path, a.encryptionKey, a.collection.Name); err != nil {
		return fmt.Errorf("failed to import database: %w", err)
	}
	c := a.db.GetCollection(a.collection.Name, nil)
	if c != nil {
		a.collection = c
	}
	return nil
}

func normalized(v []float64) ([]float32, bool) {
	norm := floats.Norm(v, 2)
	if norm == 0 {
		return nil, false
	}
	out := make([]float32, len(v))
	for i, x := range v {
		out[i] = float32(x / norm)
	}
	return out, true
}
