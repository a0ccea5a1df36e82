package history

import (
	"fmt"

	"github.com/doeshing/doctrans/internal/domain"
	"github.com/doeshing/doctrans/internal/ports"
)

// Open returns the history backend selected by settings.
func Open(settings domain.HistorySettings) (ports.HistoryRepository, error) {
	path := settings.Path
	if path == "" {
		path = domain.DefaultHistoryFile
	}
	switch settings.Backend {
	case "", domain.HistoryBackendJSON:
		return NewJSONStore(path), nil
	case domain.HistoryBackendSQLite:
		return NewSQLiteStore(path)
	default:
		return nil, fmt.Errorf("unknown history backend %q", settings.Backend)
	}
}
