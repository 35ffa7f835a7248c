// Package pipeline wires the loader, classifier, layout and aggregator into
// the train, predict and classify flows used by the command line.
package pipeline

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"github.com/uptrace/bun"

	"docclass/internal/aggregator"
	"docclass/internal/archive"
	"docclass/internal/classifier"
	"docclass/internal/config"
	"docclass/internal/dataset"
	"docclass/internal/db"
	"docclass/internal/layout"
	"docclass/internal/models"
)

// Train loads the labeled dataset, fits a model and saves it to the
// configured path.
func Train(cfg *config.Config) (*classifier.Model, error) {
	ds, err := dataset.Load(cfg.Dataset.TrainDir, models.ModeTrain, &dataset.Options{
		ExcludePrefix: cfg.Dataset.ExcludePrefix,
	})
	if err != nil {
		return nil, err
	}
	if ds.Len() == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyDataset, cfg.Dataset.TrainDir)
	}

	m := classifier.New(classifier.OptionsFromConfig(cfg))
	texts := ds.Texts()
	if err := m.FitVectorizer(texts); err != nil {
		return nil, fmt.Errorf("failed to fit vectorizer: %w", err)
	}
	x, err := m.Vectorize(texts)
	if err != nil {
		return nil, err
	}
	if err := m.FitClassifier(x, ds.Labels()); err != nil {
		return nil, err
	}
	if err := m.Save(cfg.Model.Path); err != nil {
		return nil, err
	}

	log.Info().
		Int("documents", ds.Len()).
		Int("features", m.Vectorizer.Dim()).
		Str("path", cfg.Model.Path).
		Msg("Training complete")
	return m, nil
}

// FileResult is the prediction for one file of an inference directory.
type FileResult struct {
	FileName   string            `json:"file_name"`
	Prediction models.Prediction `json:"prediction"`
}

// BlockResult is the prediction for one text block of a document.
type BlockResult struct {
	Text       string            `json:"text"`
	Prediction models.Prediction `json:"prediction"`
}

// DocumentResult is the block-level and document-level outcome of classify.
type DocumentResult struct {
	Source string                  `json:"source"`
	Blocks []BlockResult           `json:"blocks"`
	Result models.AggregatedResult `json:"result"`
}

// Pipeline runs inference against a trained model. The result store and
// archive are optional and skipped when nil.
type Pipeline struct {
	model   *classifier.Model
	cfg     *config.Config
	db      *bun.DB
	archive *archive.Archive
}

func New(cfg *config.Config, model *classifier.Model, bunDB *bun.DB, arch *archive.Archive) *Pipeline {
	return &Pipeline{model: model, cfg: cfg, db: bunDB, archive: arch}
}

// PredictDir classifies every file directly under dir.
func (p *Pipeline) PredictDir(dir string) ([]FileResult, error) {
	ds, err := dataset.Load(dir, models.ModeInference, &dataset.Options{
		ExcludePrefix: p.cfg.Dataset.ExcludePrefix,
	})
	if err != nil {
		return nil, err
	}
	if ds.Len() == 0 {
		return nil, nil
	}

	preds, err := p.model.PredictTexts(ds.Texts())
	if err != nil {
		return nil, err
	}
	out := make([]FileResult, len(preds))
	for i, pred := range preds {
		out[i] = FileResult{FileName: ds.Documents[i].FileName, Prediction: pred}
		log.Debug().
			Str("file", out[i].FileName).
			Str("class", pred.Class).
			Float64("confidence", pred.Confidence()).
			Msg("Predicted document")
	}
	return out, nil
}

func (p *Pipeline) layoutOptions() layout.Options {
	return layout.Options{
		ChunkSize:    p.cfg.Layout.ChunkSize,
		ChunkOverlap: p.cfg.Layout.ChunkOverlap,
		BlockGap:     p.cfg.Layout.BlockGap,
	}
}

// ClassifyDocument predicts every block of the document at path and votes
// for a single class. The outcome is recorded in the result store and the
// archive when they are configured.
func (p *Pipeline) ClassifyDocument(ctx context.Context, path string) (*DocumentResult, error) {
	doc, err := layout.Load(path, p.layoutOptions())
	if err != nil {
		return nil, err
	}
	texts := doc.BlockTexts()
	if len(texts) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoText, path)
	}

	preds, err := p.model.PredictTexts(texts)
	if err != nil {
		return nil, err
	}
	res, err := aggregator.Vote(preds, p.cfg.Aggregator.TopN)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	out := &DocumentResult{Source: path, Result: res, Blocks: make([]BlockResult, len(preds))}
	for i, pred := range preds {
		out.Blocks[i] = BlockResult{Text: texts[i], Prediction: pred}
	}

	if err := p.record(ctx, doc, out); err != nil {
		return out, err
	}
	return out, nil
}

func (p *Pipeline) record(ctx context.Context, doc *layout.Document, out *DocumentResult) error {
	if p.db != nil {
		row := db.NewResult(p.model.ID, out.Source, out.Result)
		if err := db.StoreResults(ctx, p.db, []*db.Result{row}); err != nil {
			return fmt.Errorf("failed to store result: %w", err)
		}
	}
	if p.archive != nil {
		text := doc.Text()
		x, err := p.model.Vectorize([]string{text})
		if err != nil {
			return err
		}
		_, err = p.archive.Add(ctx, []archive.Entry{{
			FileName:   filepath.Base(out.Source),
			Class:      out.Result.Class,
			Confidence: out.Result.Confidence,
			Text:       text,
			Vector:     x.RawRowView(0),
		}})
		if err != nil {
			return err
		}
	}
	return nil
}

// Similar finds archived documents closest to the document at path.
func (p *Pipeline) Similar(ctx context.Context, path string, n int, class string) ([]archive.Match, error) {
	if p.archive == nil {
		return nil, ErrArchiveDisabled
	}
	doc, err := layout.Load(path, p.layoutOptions())
	if err != nil {
		return nil, err
	}
	x, err := p.model.Vectorize([]string{doc.Text()})
	if err != nil {
		return nil, err
	}
	return p.archive.Similar(ctx, x.RawRowView(0), n, class)
}
