// Package ports defines the interfaces (ports) for the hexagonal architecture.
//
// This package establishes the contract between the application core and external
// adapters (infrastructure). Following the Ports and Adapters (Hexagonal) pattern,
// these interfaces allow the application to remain independent of specific
// implementations like OCR engines, translation services, or storage backends.
//
// Key architectural concepts:
//   - Ports: Interfaces defined here (e.g., TranslationModel, HistoryRepository)
//   - Adapters: Concrete implementations in the infrastructure layer
//   - Dependency inversion: Application depends on abstractions, not implementations
package ports

import (
	"context"

	"github.com/doeshing/doctrans/internal/domain"
)

// ConfigProvider loads the latest configuration from persistent storage.
// Implementations typically read from ~/.doctrans/config.yaml.
type ConfigProvider interface {
	Load(context.Context) (domain.Config, error)
}

// TextExtractor turns an uploaded document into plain text.
// PDFs are read from their text layer, images go through OCR.
type TextExtractor interface {
	Extract(ctx context.Context, doc domain.Document) (string, error)
}

// OCREngine recognizes text in an encoded raster image.
type OCREngine interface {
	Name() string
	Recognize(ctx context.Context, image []byte) (string, error)
}

// LanguageDetector returns a best-guess language code for a text blob.
type LanguageDetector interface {
	Detect(text string) (string, error)
}

// TranslationModel is the handle to a loaded translation model.
// It is created once at startup and reused for every request.
type TranslationModel interface {
	Name() string
	Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error)
}

// ModelFactory builds translation model handles from model definitions.
// It abstracts the creation of different backends (OpenAI, Anthropic, Ollama, LibreTranslate).
type ModelFactory interface {
	ForModel(domain.ModelDefinition) (TranslationModel, error)
}

// HistoryStore appends translate actions to the persistent history.
type HistoryStore interface {
	Append(ctx context.Context, entry domain.HistoryEntry) error
	Records(ctx context.Context) ([]domain.HistoryEntry, error)
}

// HistoryRepository extends HistoryStore with inspection and maintenance.
type HistoryRepository interface {
	HistoryStore
	Recent(ctx context.Context, limit int) ([]domain.HistoryEntry, error)
	Search(ctx context.Context, query string, limit int) ([]domain.HistoryEntry, error)
	Clear(ctx context.Context) error
	ExportJSON(ctx context.Context, dest string) error
	Path() string
}

// CacheStore persists translated text keyed by a content hash.
type CacheStore interface {
	Get(key string) (domain.CacheEntry, bool, error)
	Set(entry domain.CacheEntry) error
}

// CacheRepository extends CacheStore with listing and maintenance.
type CacheRepository interface {
	CacheStore
	Entries() ([]domain.CacheEntry, error)
	Clear() error
	Dir() string
}

// Logger provides structured logging abstraction for the application layer.
// Implementations can route to different backends (stdout, files, external services).
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, err error, fields map[string]interface{})
}
