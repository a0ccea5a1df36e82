package history

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/doeshing/doctrans/internal/domain"
	"github.com/doeshing/doctrans/internal/ports"
)

// JSONStore keeps the history as a single JSON array that is rewritten on
// every append.
type JSONStore struct {
	path string
	mu   sync.Mutex
}

// NewJSONStore creates a store backed by path (history.json by default).
func NewJSONStore(path string) *JSONStore {
	if path == "" {
		path = domain.DefaultHistoryFile
	}
	return &JSONStore{path: path}
}

// Append implements ports.HistoryStore.
func (s *JSONStore) Append(_ context.Context, entry domain.HistoryEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load()
	if err != nil {
		return err
	}
	records = append(records, entry)
	return s.write(records)
}

// Records returns all entries in append order. A missing file is an empty history.
func (s *JSONStore) Records(context.Context) ([]domain.HistoryEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

// Recent returns up to limit entries, most recent first.
func (s *JSONStore) Recent(ctx context.Context, limit int) ([]domain.HistoryEntry, error) {
	records, err := s.Records(ctx)
	if err != nil {
		return nil, err
	}
	return newestFirst(records, limit), nil
}

// Search returns entries whose text or translations contain query, most recent first.
func (s *JSONStore) Search(ctx context.Context, query string, limit int) ([]domain.HistoryEntry, error) {
	records, err := s.Records(ctx)
	if err != nil {
		return nil, err
	}
	var matches []domain.HistoryEntry
	for _, rec := range records {
		if matchesQuery(rec, query) {
			matches = append(matches, rec)
		}
	}
	return newestFirst(matches, limit), nil
}

// Clear removes the history file.
func (s *JSONStore) Clear(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// ExportJSON copies the history array to dest.
func (s *JSONStore) ExportJSON(ctx context.Context, dest string) error {
	records, err := s.Records(ctx)
	if err != nil {
		return err
	}
	return writeJSONFile(dest, records)
}

// Path returns the backing file path.
func (s *JSONStore) Path() string {
	return s.path
}

func (s *JSONStore) load() ([]domain.HistoryEntry, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []domain.HistoryEntry{}, nil
		}
		return nil, err
	}
	var records []domain.HistoryEntry
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrCorruptHistory, s.path, err)
	}
	if records == nil {
		records = []domain.HistoryEntry{}
	}
	return records, nil
}

func (s *JSONStore) write(records []domain.HistoryEntry) error {
	return writeJSONFile(s.path, records)
}

// writeJSONFile writes records as a 4-space indented array through a temp
// file in the target directory, then renames it into place.
func writeJSONFile(path string, records []domain.HistoryEntry) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, domain.DirectoryPermissions); err != nil {
		return err
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if records == nil {
		records = []domain.HistoryEntry{}
	}
	if err := enc.Encode(records); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(bytes.TrimRight(buf.Bytes(), "\n")); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Chmod(tmpName, domain.FilePermissions); err != nil {
		os.Remove(tmpName)
		return err
	}
	return os.Rename(tmpName, path)
}

func newestFirst(records []domain.HistoryEntry, limit int) []domain.HistoryEntry {
	n := len(records)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]domain.HistoryEntry, 0, n)
	for i := len(records) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, records[i])
	}
	return out
}

func matchesQuery(entry domain.HistoryEntry, query string) bool {
	if query == "" {
		return true
	}
	q := strings.ToLower(query)
	if strings.Contains(strings.ToLower(entry.OriginalText), q) {
		return true
	}
	for _, pair := range entry.Translations.Pairs() {
		if strings.Contains(strings.ToLower(pair.Text), q) {
			return true
		}
	}
	return false
}

var _ ports.HistoryRepository = (*JSONStore)(nil)
