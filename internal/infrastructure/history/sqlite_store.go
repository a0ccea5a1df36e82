package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	_ "modernc.org/sqlite"

	"github.com/doeshing/doctrans/internal/domain"
	"github.com/doeshing/doctrans/internal/ports"
)

// SQLiteStore persists history in a SQLite database. Unlike JSONStore it
// tolerates several processes appending at once.
type SQLiteStore struct {
	db   *sql.DB
	path string
	mu   sync.Mutex
}

// NewSQLiteStore creates (or opens) the database at path.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), domain.DirectoryPermissions); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}
	store := &SQLiteStore{db: db, path: path}
	if err := store.init(); err != nil {
		db.Close()
		return nil, fmt.Errorf("init history db: %w", err)
	}
	return store, nil
}

func (s *SQLiteStore) init() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS translations (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		timestamp TEXT NOT NULL,
		source_lang TEXT NOT NULL,
		original_text TEXT NOT NULL,
		translations TEXT NOT NULL
	);`)
	return err
}

// Append inserts a new entry.
func (s *SQLiteStore) Append(ctx context.Context, entry domain.HistoryEntry) error {
	translations, err := json.Marshal(entry.Translations)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err = s.db.ExecContext(ctx, `INSERT INTO translations
		(timestamp, source_lang, original_text, translations)
		VALUES (?, ?, ?, ?)`,
		entry.Timestamp,
		entry.SourceLang,
		entry.OriginalText,
		string(translations),
	)
	return err
}

// Records returns all entries in append order.
func (s *SQLiteStore) Records(ctx context.Context) ([]domain.HistoryEntry, error) {
	return s.query(ctx, "", 0, false)
}

// Recent returns up to limit entries, most recent first.
func (s *SQLiteStore) Recent(ctx context.Context, limit int) ([]domain.HistoryEntry, error) {
	return s.query(ctx, "", limit, true)
}

// Search returns entries matching query, most recent first.
func (s *SQLiteStore) Search(ctx context.Context, query string, limit int) ([]domain.HistoryEntry, error) {
	return s.query(ctx, query, limit, true)
}

func (s *SQLiteStore) query(ctx context.Context, search string, limit int, newestFirst bool) ([]domain.HistoryEntry, error) {
	builder := strings.Builder{}
	builder.WriteString("SELECT timestamp, source_lang, original_text, translations FROM translations")
	var args []interface{}
	if search != "" {
		builder.WriteString(" WHERE original_text LIKE ? OR translations LIKE ?")
		args = append(args, "%"+search+"%", "%"+search+"%")
	}
	if newestFirst {
		builder.WriteString(" ORDER BY id DESC")
	} else {
		builder.WriteString(" ORDER BY id ASC")
	}
	if limit > 0 {
		builder.WriteString(" LIMIT ?")
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, builder.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := []domain.HistoryEntry{}
	for rows.Next() {
		var rec domain.HistoryEntry
		var translations string
		if err := rows.Scan(&rec.Timestamp, &rec.SourceLang, &rec.OriginalText, &translations); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(translations), &rec.Translations); err != nil {
			return nil, fmt.Errorf("%w: row at %s: %v", domain.ErrCorruptHistory, rec.Timestamp, err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Clear deletes all history entries.
func (s *SQLiteStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.ExecContext(ctx, "DELETE FROM translations")
	return err
}

// ExportJSON writes the table to dest in the history.json array format.
func (s *SQLiteStore) ExportJSON(ctx context.Context, dest string) error {
	records, err := s.Records(ctx)
	if err != nil {
		return err
	}
	return writeJSONFile(dest, records)
}

// Path returns the sqlite database path.
func (s *SQLiteStore) Path() string {
	return s.path
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

var _ ports.HistoryRepository = (*SQLiteStore)(nil)
