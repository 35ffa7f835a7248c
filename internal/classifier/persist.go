package classifier

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"github.com/vmihailenco/msgpack/v5"
)

// Save writes the model as a single msgpack blob. The file is written to a
// temporary name and renamed into place.
func (m *Model) Save(path string) error {
	if !m.Fitted() {
		return ErrNotFitted
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create model directory: %w", err)
	}
	f, err := os.CreateTemp(filepath.Dir(path), "model-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create model file: %w", err)
	}
	tmp := f.Name()

	if err := msgpack.NewEncoder(f).Encode(m); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("failed to encode model: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return err
	}

	log.Debug().Str("path", path).Str("model_id", m.ID).Msg("Saved model")
	return nil
}

// Load reads a model written by Save. The blob is not validated against
// any particular feature space.
func Load(path string) (*Model, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	m := &Model{opts: DefaultOptions()}
	if err := msgpack.NewDecoder(f).Decode(m); err != nil {
		return nil, fmt.Errorf("failed to decode model %s: %w", path, err)
	}
	if !m.Fitted() {
		return nil, fmt.Errorf("%s: %w", path, ErrNotFitted)
	}

	log.Debug().Str("path", path).Str("model_id", m.ID).Msg("Loaded model")
	return m, nil
}
