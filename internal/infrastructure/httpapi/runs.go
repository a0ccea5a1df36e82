package httpapi

import (
	"sync"

	"github.com/doeshing/doctrans/internal/domain"
)

// runStore keeps the translations of the most recent runs so a translate
// response can link to its own files. The oldest run is evicted first.
type runStore struct {
	mu    sync.Mutex
	limit int
	order []string
	runs  map[string]domain.TranslationResult
}

func newRunStore(limit int) *runStore {
	if limit <= 0 {
		limit = domain.DefaultRecentRuns
	}
	return &runStore{
		limit: limit,
		runs:  make(map[string]domain.TranslationResult, limit),
	}
}

func (s *runStore) put(runID string, translations domain.TranslationResult) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.runs[runID]; !ok {
		s.order = append(s.order, runID)
	}
	s.runs[runID] = translations.Clone()
	for len(s.order) > s.limit {
		delete(s.runs, s.order[0])
		s.order = s.order[1:]
	}
}

func (s *runStore) get(runID string) (domain.TranslationResult, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	tr, ok := s.runs[runID]
	return tr, ok
}
