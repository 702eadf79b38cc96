// Package storage persists the corpus as a single JSON document a static
// front-end can read directly.
package storage

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"FomcToneScanner/internal/domain"
	"FomcToneScanner/internal/ports"
)

// FileStore reads and writes corpus snapshots at a fixed path. Writes go
// through a temp file and rename so a crashed run leaves the previously
// committed corpus intact.
type FileStore struct {
	path   string
	logger *slog.Logger
}

var _ ports.CorpusStore = (*FileStore)(nil)

// NewFileStore wires a store for the given corpus path.
func NewFileStore(path string, logger *slog.Logger) *FileStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileStore{path: path, logger: logger}
}

// Load reads the persisted corpus. A missing file is a valid empty corpus
// (first run); an unreadable or malformed one is fatal and aborts the run
// before any write.
func (s *FileStore) Load() (domain.Corpus, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.logger.Info("no existing corpus, starting empty", "path", s.path)
			return domain.Corpus{}, nil
		}
		return domain.Corpus{}, &domain.CorpusCorruptError{Path: s.path, Err: err}
	}

	var corpus domain.Corpus
	if err := json.Unmarshal(raw, &corpus); err != nil {
		return domain.Corpus{}, &domain.CorpusCorruptError{Path: s.path, Err: err}
	}
	return corpus, nil
}

// Save atomically replaces the corpus file with the given snapshot.
func (s *FileStore) Save(corpus domain.Corpus) error {
	payload, err := json.MarshalIndent(corpus, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal corpus: %w", err)
	}
	payload = append(payload, '\n')

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create corpus dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".corpus-*.json")
	if err != nil {
		return fmt.Errorf("create temp corpus: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(payload); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp corpus: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp corpus: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("chmod temp corpus: %w", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("commit corpus: %w", err)
	}

	s.logger.Debug("corpus saved", "path", s.path, "speeches", len(corpus.Speeches))
	return nil
}
